package engine

import "container/list"

// Level holds every resting Order at a single price on one side of the
// book. Quantity is always the sum of the quantities of the Orders it
// contains; a Level is never observed empty — it is erased the instant its
// Quantity reaches zero.
//
// Orders are kept in a container/list so each resting Order's position is a
// stable *list.Element: neighbors can be pushed, popped, or matched away
// without invalidating it. That stability is what makes CancelOrderbyId O(1).
type Level struct {
	Price    uint32
	Quantity uint32
	orders   *list.List
}

func newLevel(price uint32) *Level {
	return &Level{Price: price, orders: list.New()}
}

func (l *Level) frontOrder() *Order {
	front := l.orders.Front()
	if front == nil {
		return nil
	}
	return front.Value.(*Order)
}

func (l *Level) empty() bool {
	return l.orders.Len() == 0
}

// handle is the intrusive position an Order holds within its Level's FIFO,
// plus a non-owning back-reference to that Level. The side's id index holds
// one per resting Order so cancel can erase it in O(1); the Matcher erases
// filled Orders from the front of their Level without going through it.
type handle struct {
	level *Level
	elem  *list.Element
}
