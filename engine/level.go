package engine

import "container/list"

// PriceLevel holds every resting order at one exact price, FIFO by arrival.
// totalQty is a cache of the sum of Remaining() across the queue so callers
// never need to walk the list to answer a depth query.
type PriceLevel struct {
	Price    float64
	queue    *list.List // of *Order
	totalQty uint32
}

func newPriceLevel(price float64) *PriceLevel {
	return &PriceLevel{Price: price, queue: list.New()}
}

// push appends an order to the tail of the FIFO.
func (l *PriceLevel) push(o *Order) *list.Element {
	l.totalQty += o.Remaining()
	return l.queue.PushBack(o)
}

// front returns the head order, or nil if the level is empty.
func (l *PriceLevel) front() *list.Element {
	return l.queue.Front()
}

// remove splices an element out of the FIFO and adjusts the cached total.
func (l *PriceLevel) remove(e *list.Element, unfilled uint32) {
	l.queue.Remove(e)
	l.totalQty -= unfilled
}

// reduce records a partial fill against the head order without removing it.
func (l *PriceLevel) reduce(qty uint32) {
	l.totalQty -= qty
}

// Empty reports whether the level has no resting orders left.
func (l *PriceLevel) Empty() bool {
	return l.queue.Len() == 0
}

// TotalQuantity is the cached sum of unfilled quantity across the level.
func (l *PriceLevel) TotalQuantity() uint32 {
	return l.totalQty
}

// Orders returns the resting orders in FIFO order. Used for snapshots and
// tests; callers must not mutate the returned orders' identity fields.
func (l *PriceLevel) Orders() []*Order {
	orders := make([]*Order, 0, l.queue.Len())
	for e := l.queue.Front(); e != nil; e = e.Next() {
		orders = append(orders, e.Value.(*Order))
	}
	return orders
}
