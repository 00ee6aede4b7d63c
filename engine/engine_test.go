package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineUnknownSymbol(t *testing.T) {
	e := NewMatchingEngine()
	_, err := e.Submit("AAPL", Buy, Limit, 100, 10)
	assert.ErrorIs(t, err, ErrUnknownSymbol)

	_, err = e.Cancel("AAPL", 1)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestEngineRoutesBySymbol(t *testing.T) {
	e := NewMatchingEngine()
	_, err := e.AddSymbol("AAPL")
	require.NoError(t, err)
	_, err = e.AddSymbol("MSFT")
	require.NoError(t, err)

	_, err = e.Submit("AAPL", Sell, Limit, 150, 10)
	require.NoError(t, err)
	_, err = e.Submit("MSFT", Sell, Limit, 380, 10)
	require.NoError(t, err)

	assert.Equal(t, 150.0, e.Book("AAPL").BestAsk())
	assert.Equal(t, 380.0, e.Book("MSFT").BestAsk())
}

func TestEngineDuplicateSymbol(t *testing.T) {
	e := NewMatchingEngine()
	_, err := e.AddSymbol("AAPL")
	require.NoError(t, err)
	_, err = e.AddSymbol("AAPL")
	assert.ErrorIs(t, err, ErrSymbolExists)
}
