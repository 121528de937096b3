// Package engine implements the core of a single-instrument limit order
// book: a dual price-indexed book, a continuous matching loop, O(1)
// cancel-by-id, and the read queries a benchmark or tape replay needs.
//
// The book is owned by exactly one goroutine at a time; nothing in this
// package synchronizes concurrent access. The SPSC pipeline in
// internal/feed is what enforces single-consumer ownership across goroutines.
package engine

import "github.com/rs/zerolog/log"

// OrderBook is the engine root: two book sides, the trade tape, and the
// monotonic order id tracker that AddOrder validates against.
type OrderBook struct {
	bids *bookSide
	asks *bookSide

	trades         []Trade
	orderIDTracker uint32
}

// NewOrderBook returns an empty book ready to accept orders.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids: newBookSide(func(a, b *Level) bool { return a.Price > b.Price }),
		asks: newBookSide(func(a, b *Level) bool { return a.Price < b.Price }),
	}
}

// AddOrder validates order, inserts it into the correct side, and runs the
// matcher. On validation failure the book is left unchanged.
//
// order_type == Undefined is silently ignored: no error, no insertion. This
// mirrors benign feed noise rather than a caller mistake.
func (book *OrderBook) AddOrder(order Order) error {
	if order.Quantity < 1 {
		return errZeroQuantity
	}
	if order.Price < 1 {
		return errZeroPrice
	}
	if order.OrderID <= book.orderIDTracker {
		return errNonIncreasing
	}
	if order.Side == Undefined {
		log.Debug().Uint32("order_id", order.OrderID).Msg("ignoring order with undefined side")
		return nil
	}

	book.orderIDTracker = max(book.orderIDTracker, order.OrderID)

	stored := order
	switch order.Side {
	case Buy:
		book.bids.insert(&stored)
	case Sell:
		book.asks.insert(&stored)
	}

	log.Debug().
		Uint32("order_id", order.OrderID).
		Str("side", order.Side.String()).
		Uint32("price", order.Price).
		Uint32("quantity", order.Quantity).
		Msg("order accepted")

	book.match()
	return nil
}

// CancelOrderbyId removes orderID from whichever side holds it, in O(1).
// Unknown ids are a silent no-op.
func (book *OrderBook) CancelOrderbyId(orderID uint32) {
	book.bids.cancel(orderID)
	book.asks.cancel(orderID)
}

// GetTrades returns the append-only trade log recorded so far.
func (book *OrderBook) GetTrades() []Trade {
	return book.trades
}

// GetBestBid returns the highest resting bid price, or 0 if the bid side is empty.
func (book *OrderBook) GetBestBid() uint32 {
	return book.bids.bestPrice()
}

// GetBestAsk returns the lowest resting ask price, or 0 if the ask side is empty.
func (book *OrderBook) GetBestAsk() uint32 {
	return book.asks.bestPrice()
}

// GetBestBidWithQuantity returns the best bid price and its aggregated
// Level quantity, or (0, 0) if the bid side is empty.
func (book *OrderBook) GetBestBidWithQuantity() (uint32, uint32) {
	return book.bids.bestWithQuantity()
}

// GetBestAskWithQuantity returns the best ask price and its aggregated
// Level quantity, or (0, 0) if the ask side is empty.
func (book *OrderBook) GetBestAskWithQuantity() (uint32, uint32) {
	return book.asks.bestWithQuantity()
}

// GetVolumeBetweenPrices sums ask-side quantity for prices in [start, end].
// Returns 0 if start > end, the ask side is empty, or the lowest ask already
// exceeds end. start is clamped up to the lowest ask on the low end only.
func (book *OrderBook) GetVolumeBetweenPrices(start, end uint32) uint32 {
	if start > end {
		return 0
	}
	lowestAsk, ok := book.asks.best()
	if !ok || lowestAsk.Price > end {
		return 0
	}
	if start < lowestAsk.Price {
		start = lowestAsk.Price
	}

	var volume uint32
	book.asks.levels.Ascend(&Level{Price: start}, func(level *Level) bool {
		if level.Price > end {
			return false
		}
		volume += level.Quantity
		return true
	})
	return volume
}

// GetBidQuantity returns the total open quantity resting on the bid side.
func (book *OrderBook) GetBidQuantity() uint32 {
	return book.bids.totalQuantity()
}

// GetAskQuantity returns the total open quantity resting on the ask side.
func (book *OrderBook) GetAskQuantity() uint32 {
	return book.asks.totalQuantity()
}
