package engine

import "math"

// Submit accepts a new order, drives the crossing loop against the opposite
// side under the book's gate, installs any limit remainder, and returns the
// execution reports produced (best price first, FIFO within a level).
//
// Market orders that cannot fully fill never rest: any unfilled remainder is
// marked cancelled and discarded.
func (b *OrderBook) Submit(side Side, typ OrderType, price float64, qty uint32) (MatchResult, error) {
	_, result, err := b.SubmitOrder(side, typ, price, qty)
	return result, err
}

// SubmitOrder behaves exactly like Submit but also returns the id assigned
// to the new order, so a caller that needs to cancel a resting remainder
// later (the market-maker agents' quote bookkeeping, sim.MarketMakerAgent)
// doesn't have to rediscover it by scanning the book.
func (b *OrderBook) SubmitOrder(side Side, typ OrderType, price float64, qty uint32) (uint64, MatchResult, error) {
	if qty == 0 {
		return 0, nil, ErrInvalidQuantity
	}
	if typ == Limit && !validPrice(price) {
		return 0, nil, ErrInvalidPrice
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	order := &Order{
		ID:        b.allocateID(),
		Symbol:    b.symbol,
		Side:      side,
		Type:      typ,
		Price:     price,
		Quantity:  qty,
		Status:    StatusNew,
		CreatedAt: b.now(),
	}
	if typ == Market {
		order.Price = 0
	}

	result := b.match(order)

	if order.Remaining() > 0 {
		if typ == Market {
			order.Status = StatusCancelled
		} else {
			b.restOrder(order)
		}
	}
	b.refreshBestCache()
	return order.ID, result, nil
}

func validPrice(price float64) bool {
	return price > 0 && !math.IsInf(price, 0) && !math.IsNaN(price)
}

// match drains the opposing side against order until order is exhausted, the
// opposing side is empty, or (for a limit order) the opposing best no longer
// crosses. Caller must hold b.mu.
func (b *OrderBook) match(order *Order) MatchResult {
	var result MatchResult
	opposite := b.sideIndexFor(opposite(order.Side))

	for order.Remaining() > 0 {
		level := opposite.Best()
		if level == nil {
			break
		}
		if order.Type == Limit && !crosses(order, level.Price) {
			break
		}

		elem := level.front()
		if elem == nil {
			// An empty level should already have been removed from the
			// index; guard against it anyway rather than spin.
			opposite.Remove(level.Price)
			continue
		}
		resting := elem.Value.(*Order)

		tradeQty := minU32(order.Remaining(), resting.Remaining())
		tradePrice := resting.Price
		ts := b.now()

		order.Filled += tradeQty
		resting.Filled += tradeQty
		level.reduce(tradeQty)

		order.Status = fillStatus(order)
		resting.Status = fillStatus(resting)

		b.lastTradePrice = tradePrice
		b.lastTradeQty = tradeQty

		result = append(result,
			ExecutionReport{OrderID: order.ID, CounterpartyID: resting.ID, Price: tradePrice, Quantity: tradeQty, Status: order.Status, Timestamp: ts},
			ExecutionReport{OrderID: resting.ID, CounterpartyID: order.ID, Price: tradePrice, Quantity: tradeQty, Status: resting.Status, Timestamp: ts},
		)

		if resting.Remaining() == 0 {
			level.remove(elem, 0)
			delete(b.locations, resting.ID)
			if level.Empty() {
				opposite.Remove(level.Price)
			}
		}
		// If resting still has quantity left, it stayed at the head of the
		// FIFO partially filled — order.Remaining() is necessarily 0 here
		// (tradeQty was min of the two), so the loop condition ends the
		// crossing on its own; no explicit break required.
	}
	return result
}

func crosses(incoming *Order, oppositeBest float64) bool {
	if incoming.Side == Buy {
		return incoming.Price >= oppositeBest
	}
	return incoming.Price <= oppositeBest
}

func fillStatus(o *Order) OrderStatus {
	if o.Remaining() == 0 {
		return StatusFilled
	}
	return StatusPartiallyFilled
}

func opposite(s Side) Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
