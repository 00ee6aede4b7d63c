package sim

import "limitless-exchange/engine"

// MarketMakerAgent quotes a symmetric N-level ladder around a GBM fair
// price, cancelling and re-quoting the full ladder on every tick, the way a
// reference C implementation keeps two fixed-size id arrays per agent and
// walks them on every tick.
type MarketMakerAgent struct {
	Symbol string

	model *GBMModel

	spreadBps       float64
	levelSpacingBps float64
	orderSize       uint32
	levels          int

	bidIDs []uint64
	askIDs []uint64
}

// NewMarketMakerAgent creates an agent for symbol quoting levels price
// levels on each side, spaced levelSpacingBps apart around a mid computed
// with a total spread of spreadBps, each level sized orderSize, driven by
// model.
func NewMarketMakerAgent(symbol string, model *GBMModel, spreadBps, levelSpacingBps float64, orderSize uint32, levels int) *MarketMakerAgent {
	return &MarketMakerAgent{
		Symbol:          symbol,
		model:           model,
		spreadBps:       spreadBps,
		levelSpacingBps: levelSpacingBps,
		orderSize:       orderSize,
		levels:          levels,
		bidIDs:          make([]uint64, 0, levels),
		askIDs:          make([]uint64, 0, levels),
	}
}

// engineSubmitter is the slice of MatchingEngine this agent needs, so tests
// can exercise Tick against a fake without a real book.
type engineSubmitter interface {
	SubmitOrder(symbol string, side engine.Side, typ engine.OrderType, price float64, qty uint32) (uint64, engine.MatchResult, error)
	Cancel(symbol string, orderID uint64) (bool, error)
}

// Tick advances the agent's GBM once and re-quotes its full ladder against
// eng.
func (a *MarketMakerAgent) Tick(eng engineSubmitter) {
	fair := a.model.Next()

	for _, id := range a.bidIDs {
		_, _ = eng.Cancel(a.Symbol, id)
	}
	for _, id := range a.askIDs {
		_, _ = eng.Cancel(a.Symbol, id)
	}
	a.bidIDs = a.bidIDs[:0]
	a.askIDs = a.askIDs[:0]

	halfSpread := fair * (a.spreadBps / 10_000) / 2
	step := fair * (a.levelSpacingBps / 10_000)

	for k := 0; k < a.levels; k++ {
		offset := float64(k) * step

		bidPrice := fair - halfSpread - offset
		if bidPrice > 0 {
			id, result, err := eng.SubmitOrder(a.Symbol, engine.Buy, engine.Limit, bidPrice, a.orderSize)
			if err == nil && restedFully(result, id) {
				a.bidIDs = append(a.bidIDs, id)
			}
		}

		askPrice := fair + halfSpread + offset
		id, result, err := eng.SubmitOrder(a.Symbol, engine.Sell, engine.Limit, askPrice, a.orderSize)
		if err == nil && restedFully(result, id) {
			a.askIDs = append(a.askIDs, id)
		}
	}
}

// restedFully reports whether the order named by id still has quantity
// resting in the book after the match — i.e. it crossed nothing, or
// crossed only part of its size. A fully-filled quote leaves nothing to
// track for the next cancel pass.
func restedFully(result engine.MatchResult, id uint64) bool {
	for _, r := range result {
		if r.OrderID == id && r.Status == engine.StatusFilled {
			return false
		}
	}
	return true
}

// FairPrice returns the agent's last computed GBM price without advancing
// the process.
func (a *MarketMakerAgent) FairPrice() float64 {
	return a.model.Current()
}
