package engine

import "time"

// match drains crossing orders at the top of both books. It runs
// synchronously at the end of every accepted AddOrder, so the resulting
// Trade log is totally ordered and deterministic for a fixed input stream.
//
// Trade price is always the resting (ask) side's price, regardless of which
// side was the incoming aggressor — this is the rule the canonical fixtures
// were built against; see DESIGN.md Open Question 1.
func (book *OrderBook) match() {
	for {
		bidLevel, haveBid := book.bids.best()
		askLevel, haveAsk := book.asks.best()
		if !haveBid || !haveAsk || bidLevel.Price < askLevel.Price {
			return
		}

		bidOrder := bidLevel.frontOrder()
		askOrder := askLevel.frontOrder()

		qty := min(bidOrder.Quantity, askOrder.Quantity)
		bidOrder.Quantity -= qty
		askOrder.Quantity -= qty
		bidLevel.Quantity -= qty
		askLevel.Quantity -= qty

		book.trades = append(book.trades, Trade{
			BuyOrderID:  bidOrder.OrderID,
			SellOrderID: askOrder.OrderID,
			Price:       askLevel.Price,
			Quantity:    qty,
			Timestamp:   time.Now(),
		})

		book.bids.dropFront(bidLevel)
		book.asks.dropFront(askLevel)
	}
}
