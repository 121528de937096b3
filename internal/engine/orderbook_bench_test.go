package engine

import "testing"

// BenchmarkAddOrder_Resting measures insertion cost when nothing crosses —
// the common case on a deep, already-built book.
func BenchmarkAddOrder_Resting(b *testing.B) {
	book := NewOrderBook()
	var id uint32 = 1
	for i := 0; i < b.N; i++ {
		book.AddOrder(Order{OrderID: id, Side: Buy, Price: 100 + uint32(i%50), Quantity: 1})
		id++
	}
}

// BenchmarkAddOrder_Crossing measures the matcher's hot path: each iteration
// rests one sell, then an incoming buy crosses and fully fills against it.
func BenchmarkAddOrder_Crossing(b *testing.B) {
	book := NewOrderBook()
	var id uint32 = 1
	for i := 0; i < b.N; i++ {
		book.AddOrder(Order{OrderID: id, Side: Sell, Price: 100, Quantity: 1})
		id++
		book.AddOrder(Order{OrderID: id, Side: Buy, Price: 100, Quantity: 1})
		id++
	}
}

// BenchmarkCancelOrderbyId measures the O(1) cancel path against a book with
// many resting orders spread across price levels.
func BenchmarkCancelOrderbyId(b *testing.B) {
	book := NewOrderBook()
	ids := make([]uint32, 0, b.N)
	var id uint32 = 1
	for i := 0; i < b.N; i++ {
		book.AddOrder(Order{OrderID: id, Side: Buy, Price: 1 + uint32(i%1000), Quantity: 1})
		ids = append(ids, id)
		id++
	}

	b.ResetTimer()
	for _, orderID := range ids {
		book.CancelOrderbyId(orderID)
	}
}

// BenchmarkGetVolumeBetweenPrices measures the range-sum query cost on a
// book with many distinct ask levels.
func BenchmarkGetVolumeBetweenPrices(b *testing.B) {
	book := NewOrderBook()
	var id uint32 = 1
	for i := 0; i < 1000; i++ {
		book.AddOrder(Order{OrderID: id, Side: Sell, Price: uint32(i + 1), Quantity: 10})
		id++
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.GetVolumeBetweenPrices(1, 1000)
	}
}
