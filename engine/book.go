package engine

import (
	"container/list"
	"sync"
	"time"
)

// orderLocation tracks where a resting order lives so cancel is O(1) instead
// of a linear scan over both sides.
type orderLocation struct {
	side  *SideIndex
	level *PriceLevel
	elem  *list.Element
	order *Order
}

// OrderBook owns one symbol's bid and ask indices, the FIFO queues inside
// each price level, the next-order-id counter, and cached best bid/ask/last
// trade. All mutation goes through mu, the book's exclusive gate: holding it
// grants the right to touch bids, asks, locations, or the caches. No
// operation performed while mu is held may block on anything other than mu
// itself — in particular, never network I/O.
type OrderBook struct {
	mu sync.Mutex

	symbol string
	bids   *SideIndex
	asks   *SideIndex

	locations map[uint64]*orderLocation
	nextID    uint64

	bestBid        float64
	bestAsk        float64
	lastTradePrice float64
	lastTradeQty   uint32

	now func() time.Time // overridable for tests
}

// NewOrderBook creates an empty book for symbol.
func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		symbol:    symbol,
		bids:      newSideIndex(true),
		asks:      newSideIndex(false),
		locations: make(map[uint64]*orderLocation),
		now:       time.Now,
	}
}

// Symbol returns the book's ticker.
func (b *OrderBook) Symbol() string {
	return b.symbol
}

// BestBid returns the cached best bid price, or 0 if the bid side is empty.
func (b *OrderBook) BestBid() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bestBid
}

// BestAsk returns the cached best ask price, or 0 if the ask side is empty.
func (b *OrderBook) BestAsk() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bestAsk
}

// Mid returns the midpoint of best bid/ask, falling back to whichever side
// exists, then to the last trade price, then to 0.
func (b *OrderBook) Mid() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.midLocked()
}

func (b *OrderBook) midLocked() float64 {
	switch {
	case b.bestBid > 0 && b.bestAsk > 0:
		return (b.bestBid + b.bestAsk) / 2
	case b.bestBid > 0:
		return b.bestBid
	case b.bestAsk > 0:
		return b.bestAsk
	default:
		return b.lastTradePrice
	}
}

// Spread returns bestAsk - bestBid, or 0 if either side is empty.
func (b *OrderBook) Spread() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bestBid == 0 || b.bestAsk == 0 {
		return 0
	}
	return b.bestAsk - b.bestBid
}

// Depth returns the number of distinct resting price levels on each side,
// for market-data depth metrics.
func (b *OrderBook) Depth() (bidLevels, askLevels int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bids.Len(), b.asks.Len()
}

// LastTrade returns the most recent trade price and quantity.
func (b *OrderBook) LastTrade() (price float64, quantity uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastTradePrice, b.lastTradeQty
}

// Snapshot captures best bid/ask/last under a single lock acquisition, for
// market-data broadcast.
func (b *OrderBook) Snapshot() BookSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := BookSnapshot{
		Symbol:    b.symbol,
		BestBid:   b.bestBid,
		BestAsk:   b.bestAsk,
		Last:      b.lastTradePrice,
		LastSize:  b.lastTradeQty,
		Timestamp: b.now(),
	}
	if level := b.bids.Best(); level != nil {
		snap.BidSize = level.TotalQuantity()
	}
	if level := b.asks.Best(); level != nil {
		snap.AskSize = level.TotalQuantity()
	}
	return snap
}

// SnapshotLevels returns up to max price levels per side, best-first, as
// (price, total quantity) pairs, for deeper market-data consumers.
func (b *OrderBook) SnapshotLevels(side Side, max int) []LevelView {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.asks
	if side == Buy {
		idx = b.bids
	}
	levels := idx.Levels(max)
	views := make([]LevelView, len(levels))
	for i, l := range levels {
		views[i] = LevelView{Price: l.Price, Quantity: l.TotalQuantity()}
	}
	return views
}

// LevelView is a read-only (price, quantity) pair for market-data snapshots.
type LevelView struct {
	Price    float64
	Quantity uint32
}

func (b *OrderBook) refreshBestCache() {
	if level := b.bids.Best(); level != nil {
		b.bestBid = level.Price
	} else {
		b.bestBid = 0
	}
	if level := b.asks.Best(); level != nil {
		b.bestAsk = level.Price
	} else {
		b.bestAsk = 0
	}
}

// allocateID assigns the next sequential id.
func (b *OrderBook) allocateID() uint64 {
	b.nextID++
	return b.nextID
}

// sideIndexFor returns the index an order of the given side rests on.
func (b *OrderBook) sideIndexFor(side Side) *SideIndex {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// restOrder installs order at its limit price, appends it to the level
// FIFO, and records its location for O(1) cancel. Caller must hold mu.
func (b *OrderBook) restOrder(order *Order) {
	idx := b.sideIndexFor(order.Side)
	level := idx.Insert(order.Price)
	elem := level.push(order)
	b.locations[order.ID] = &orderLocation{side: idx, level: level, elem: elem, order: order}
}

// Cancel removes a resting order by id. Returns false if the order is not
// present (already filled, already cancelled, or never existed) — the
// second call after a successful cancel is idempotent in effect, though the
// order is gone and so the second call simply returns false.
func (b *OrderBook) Cancel(orderID uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancelLocked(orderID)
}

func (b *OrderBook) cancelLocked(orderID uint64) bool {
	loc, ok := b.locations[orderID]
	if !ok {
		return false
	}
	delete(b.locations, orderID)

	unfilled := loc.order.Remaining()
	loc.level.remove(loc.elem, unfilled)
	loc.order.Status = StatusCancelled

	if loc.level.Empty() {
		loc.side.Remove(loc.level.Price)
	}
	b.refreshBestCache()
	return true
}

// Amend updates the price and/or quantity of a resting order. Either
// argument may be nil to leave that field unchanged. Amending always loses
// time priority: the order is pulled from its current level and reinserted
// at the tail of its (possibly new) price level's FIFO. A resting order
// left with no remaining quantity after a quantity reduction below its
// filled amount is treated as filled rather than re-rested. Kept as a
// superset operation beyond what the wire protocol exercises: no inbound
// message triggers it.
func (b *OrderBook) Amend(orderID uint64, newPrice *float64, newQty *uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	loc, ok := b.locations[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if newQty != nil && *newQty == 0 {
		return ErrInvalidQuantity
	}
	if newPrice != nil && !validPrice(*newPrice) {
		return ErrInvalidPrice
	}

	order := loc.order
	delete(b.locations, orderID)
	loc.level.remove(loc.elem, order.Remaining())
	if loc.level.Empty() {
		loc.side.Remove(loc.level.Price)
	}

	if newQty != nil {
		order.Quantity = *newQty
		if order.Filled > order.Quantity {
			order.Filled = order.Quantity
		}
	}
	if newPrice != nil {
		order.Price = *newPrice
	}

	if order.Remaining() == 0 {
		order.Status = StatusFilled
	} else {
		b.restOrder(order)
	}
	b.refreshBestCache()
	return nil
}
