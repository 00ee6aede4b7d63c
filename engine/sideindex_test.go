package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSideIndexBidOrdering(t *testing.T) {
	idx := newSideIndex(true)
	idx.Insert(100)
	idx.Insert(105)
	idx.Insert(95)

	best := idx.Best()
	require.NotNil(t, best)
	assert.Equal(t, 105.0, best.Price)

	idx.Remove(105)
	best = idx.Best()
	require.NotNil(t, best)
	assert.Equal(t, 100.0, best.Price)
}

func TestSideIndexAskOrdering(t *testing.T) {
	idx := newSideIndex(false)
	idx.Insert(100)
	idx.Insert(105)
	idx.Insert(95)

	best := idx.Best()
	require.NotNil(t, best)
	assert.Equal(t, 95.0, best.Price)
}

func TestSideIndexInsertReturnsExisting(t *testing.T) {
	idx := newSideIndex(false)
	first := idx.Insert(10)
	second := idx.Insert(10)
	assert.Same(t, first, second)
	assert.Equal(t, 1, idx.Len())
}

func TestSideIndexRemoveIsStructural(t *testing.T) {
	idx := newSideIndex(true)
	idx.Insert(100)
	idx.Insert(90)
	idx.Insert(80)
	require.Equal(t, 3, idx.Len())

	idx.Remove(100)
	assert.Equal(t, 2, idx.Len())
	best := idx.Best()
	require.NotNil(t, best)
	assert.Equal(t, 90.0, best.Price, "removing the best level must not drop the remaining levels")
}

func TestSideIndexEmptyHasNoBest(t *testing.T) {
	idx := newSideIndex(true)
	assert.Nil(t, idx.Best())
}

func TestSideIndexLevels(t *testing.T) {
	idx := newSideIndex(true)
	idx.Insert(100)
	idx.Insert(102)
	idx.Insert(98)

	levels := idx.Levels(2)
	require.Len(t, levels, 2)
	assert.Equal(t, 102.0, levels[0].Price)
	assert.Equal(t, 100.0, levels[1].Price)
}
