package sim

import (
	"testing"

	"limitless-exchange/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, symbol string) *engine.MatchingEngine {
	t.Helper()
	eng := engine.NewMatchingEngine()
	_, err := eng.AddSymbol(symbol)
	require.NoError(t, err)
	return eng
}

func TestAgentTickQuotesSymmetricLadder(t *testing.T) {
	eng := newTestEngine(t, "AAPL")
	rng := NewRNG(1)
	model := NewGBMModel(150, 0.05, 0.20, SimulationStepYears, rng)
	agent := NewMarketMakerAgent("AAPL", model, 20, 5, 100, 5)

	agent.Tick(eng)

	book := eng.Book("AAPL")
	bidLevels := book.SnapshotLevels(engine.Buy, 10)
	askLevels := book.SnapshotLevels(engine.Sell, 10)
	assert.Len(t, bidLevels, 5)
	assert.Len(t, askLevels, 5)
	assert.Len(t, agent.bidIDs, 5)
	assert.Len(t, agent.askIDs, 5)

	assert.Less(t, book.BestBid(), book.BestAsk())
}

func TestAgentTickRequoting(t *testing.T) {
	eng := newTestEngine(t, "AAPL")
	rng := NewRNG(2)
	model := NewGBMModel(150, 0.05, 0.20, SimulationStepYears, rng)
	agent := NewMarketMakerAgent("AAPL", model, 20, 5, 100, 3)

	agent.Tick(eng)
	firstBidIDs := append([]uint64{}, agent.bidIDs...)

	agent.Tick(eng)

	book := eng.Book("AAPL")
	for _, id := range firstBidIDs {
		assert.False(t, book.Cancel(id), "first tick's quotes must already be cancelled by the second tick")
	}
	assert.Len(t, agent.bidIDs, 3)
	assert.Len(t, agent.askIDs, 3)
}

func TestAgentLevelSpacingWidensWithK(t *testing.T) {
	eng := newTestEngine(t, "AAPL")
	rng := NewRNG(3)
	model := NewGBMModel(150, 0.0, 0.0, SimulationStepYears, rng)
	agent := NewMarketMakerAgent("AAPL", model, 20, 5, 100, 4)

	agent.Tick(eng)

	book := eng.Book("AAPL")
	bidLevels := book.SnapshotLevels(engine.Buy, 10)
	require.Len(t, bidLevels, 4)
	for i := 1; i < len(bidLevels); i++ {
		assert.Greater(t, bidLevels[i-1].Price, bidLevels[i].Price)
	}
}

func TestAgentCrossingQuoteIsNotTracked(t *testing.T) {
	eng := newTestEngine(t, "AAPL")
	_, _, err := eng.SubmitOrder("AAPL", engine.Sell, engine.Limit, 140, 1000)
	require.NoError(t, err)

	rng := NewRNG(4)
	model := NewGBMModel(150, 0.0, 0.0, SimulationStepYears, rng)
	agent := NewMarketMakerAgent("AAPL", model, 20, 5, 100, 1)

	agent.Tick(eng)

	assert.Len(t, agent.bidIDs, 0, "a bid that fully crosses the resting ask leaves nothing to track")
}

func TestAgentFairPrice(t *testing.T) {
	rng := NewRNG(5)
	model := NewGBMModel(150, 0.05, 0.20, SimulationStepYears, rng)
	agent := NewMarketMakerAgent("AAPL", model, 20, 5, 100, 1)
	assert.Equal(t, 150.0, agent.FairPrice())

	eng := newTestEngine(t, "AAPL")
	agent.Tick(eng)
	assert.NotEqual(t, 150.0, agent.FairPrice())
}
