package engine

import (
	"github.com/tidwall/btree"
)

// bookSide is one half of the OrderBook: an ordered map of Levels keyed by
// price, plus an id index for O(1) cancel. Bids and asks are both a
// bookSide, differing only in the ordering of their price comparator.
type bookSide struct {
	levels *btree.BTreeG[*Level]
	index  map[uint32]handle
}

func newBookSide(less func(a, b *Level) bool) *bookSide {
	return &bookSide{
		levels: btree.NewBTreeG(less),
		index:  make(map[uint32]handle, 1<<18),
	}
}

// insert adds o to its price Level, creating the Level if this is the first
// order resting at that price.
func (s *bookSide) insert(o *Order) {
	level, ok := s.levels.Get(&Level{Price: o.Price})
	if !ok {
		level = newLevel(o.Price)
		s.levels.Set(level)
	}
	elem := level.orders.PushBack(o)
	level.Quantity += o.Quantity
	s.index[o.OrderID] = handle{level: level, elem: elem}
}

// cancel removes orderID from the book in O(1). Unknown ids are a no-op.
func (s *bookSide) cancel(orderID uint32) {
	h, ok := s.index[orderID]
	if !ok {
		return
	}
	order := h.elem.Value.(*Order)
	h.level.orders.Remove(h.elem)
	h.level.Quantity -= order.Quantity
	delete(s.index, orderID)
	s.purgeIfEmpty(h.level)
}

// purgeIfEmpty erases level from the price map once it holds no quantity.
func (s *bookSide) purgeIfEmpty(level *Level) {
	if level.Quantity == 0 {
		s.levels.Delete(level)
	}
}

// dropFront removes the front Order of level once it has been fully filled,
// erasing the Level itself if that was its last resting order. Called by the
// Matcher, never by Cancel.
func (s *bookSide) dropFront(level *Level) {
	front := level.orders.Front()
	if front == nil {
		return
	}
	order := front.Value.(*Order)
	if order.Quantity != 0 {
		return
	}
	level.orders.Remove(front)
	delete(s.index, order.OrderID)
	s.purgeIfEmpty(level)
}

func (s *bookSide) best() (*Level, bool) {
	return s.levels.Min()
}

func (s *bookSide) bestPrice() uint32 {
	level, ok := s.best()
	if !ok {
		return 0
	}
	return level.Price
}

func (s *bookSide) bestWithQuantity() (uint32, uint32) {
	level, ok := s.best()
	if !ok {
		return 0, 0
	}
	return level.Price, level.Quantity
}

func (s *bookSide) totalQuantity() uint32 {
	var total uint32
	s.levels.Scan(func(level *Level) bool {
		total += level.Quantity
		return true
	})
	return total
}

// empty reports whether the side currently has no resting quantity.
func (s *bookSide) empty() bool {
	return s.levels.Len() == 0
}
