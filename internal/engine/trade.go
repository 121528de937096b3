package engine

import "time"

// Trade is an append-only record of one fill produced by the Matcher.
// Equality between two Trades for test purposes should ignore Timestamp.
type Trade struct {
	BuyOrderID  uint32
	SellOrderID uint32
	Price       uint32
	Quantity    uint32
	Timestamp   time.Time
}
