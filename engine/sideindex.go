package engine

import "github.com/tidwall/btree"

// SideIndex is the ordered collection of price levels for one side of one
// symbol. Ordering orientation (bid-side vs ask-side) is fixed at
// construction: bids are traversed by decreasing price, asks by increasing
// price, and "best" is whichever level is reached first under that
// traversal. Backed by a tidwall/btree.Map so insert/find/remove/best are
// all O(log P) worst case, where P is the number of distinct price levels —
// and removal is a single structural delete of one key, never a reset of
// the whole tree.
type SideIndex struct {
	isBid bool
	tree  *btree.Map[float64, *PriceLevel]
}

func newSideIndex(isBid bool) *SideIndex {
	return &SideIndex{isBid: isBid, tree: btree.NewMap[float64, *PriceLevel](32)}
}

// Insert returns the level at price, creating it if absent.
func (s *SideIndex) Insert(price float64) *PriceLevel {
	if level, ok := s.tree.Get(price); ok {
		return level
	}
	level := newPriceLevel(price)
	s.tree.Set(price, level)
	return level
}

// Find returns the level at price, or nil if none exists.
func (s *SideIndex) Find(price float64) *PriceLevel {
	level, ok := s.tree.Get(price)
	if !ok {
		return nil
	}
	return level
}

// Remove deletes the level at price. It is a no-op if the level is absent.
func (s *SideIndex) Remove(price float64) {
	s.tree.Delete(price)
}

// Best returns the level reached first under this side's traversal order,
// or nil if the side is empty.
func (s *SideIndex) Best() *PriceLevel {
	var best *PriceLevel
	iter := func(_ float64, level *PriceLevel) bool {
		best = level
		return false
	}
	if s.isBid {
		s.tree.Reverse(iter)
	} else {
		s.tree.Scan(iter)
	}
	return best
}

// Len returns the number of distinct price levels.
func (s *SideIndex) Len() int {
	return s.tree.Len()
}

// Levels returns up to max levels in traversal order (best first), for
// market-data snapshots.
func (s *SideIndex) Levels(max int) []*PriceLevel {
	levels := make([]*PriceLevel, 0, max)
	iter := func(_ float64, level *PriceLevel) bool {
		levels = append(levels, level)
		return len(levels) < max
	}
	if s.isBid {
		s.tree.Reverse(iter)
	} else {
		s.tree.Scan(iter)
	}
	return levels
}
