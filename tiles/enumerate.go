package tiles

import (
	"context"

	"github.com/robinbryce/mmriver-tiles-go/mmr"
)

// Enumeration reads tiles directly from the store, bypassing the log's last
// touched tile, so that large scans do not evict the proof locality cache.
// Scanners are finite and are not restartable; recreate on demand.

// NodeScanner yields the node values for a contiguous mmr index range in
// ascending order, crossing tile boundaries as required.
//
//	scanner := log.Nodes(ctx, first, last)
//	for scanner.Scan() {
//		value := scanner.Value()
//		...
//	}
//	if err := scanner.Err(); err != nil { ... }
type NodeScanner struct {
	ctx   context.Context
	store *TileStore
	next  uint64
	last  uint64
	tile  *Tile
	value []byte
	err   error
	done  bool
}

// Nodes returns a scanner over the node values for mmr indices
// [first, last].
func (l *TileLog) Nodes(ctx context.Context, first uint64, last uint64) *NodeScanner {
	return &NodeScanner{ctx: ctx, store: l.Store, next: first, last: last, done: first > last}
}

func (s *NodeScanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}

	if s.tile == nil || s.next >= s.tile.NextIndex {
		tileID := TileIndex(s.store.Cfg.TileHeight, s.next)
		if s.tile != nil && s.tile.Start.TileID == tileID {
			// the requested node is not yet appended
			s.err = ErrIndexNotInTile
			return false
		}
		if s.tile, s.err = s.store.Get(s.ctx, tileID); s.err != nil {
			return false
		}
	}

	if s.value, s.err = s.tile.Get(s.next); s.err != nil {
		return false
	}

	if s.next == s.last {
		s.done = true
	}
	s.next++
	return true
}

func (s *NodeScanner) Value() []byte { return s.value }
func (s *NodeScanner) Err() error    { return s.err }

// LeafScanner yields the leaf values for a contiguous *leaf* index range in
// ascending order, skipping the interior nodes interleaved with them.
type LeafScanner struct {
	ctx   context.Context
	store *TileStore
	next  uint64
	last  uint64
	tile  *Tile
	value []byte
	err   error
	done  bool
}

// Leaves returns a scanner over the leaf values for leaf indices
// [firstLeaf, lastLeaf].
func (l *TileLog) Leaves(ctx context.Context, firstLeaf uint64, lastLeaf uint64) *LeafScanner {
	return &LeafScanner{ctx: ctx, store: l.Store, next: firstLeaf, last: lastLeaf, done: firstLeaf > lastLeaf}
}

func (s *LeafScanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}

	tileID := s.next / TileLeafCount(s.store.Cfg.TileHeight)
	if s.tile == nil || s.tile.Start.TileID != tileID {
		if s.tile, s.err = s.store.Get(s.ctx, tileID); s.err != nil {
			return false
		}
	}

	if s.value, s.err = s.tile.Get(mmr.MMRIndex(s.next)); s.err != nil {
		return false
	}

	if s.next == s.last {
		s.done = true
	}
	s.next++
	return true
}

func (s *LeafScanner) Value() []byte { return s.value }
func (s *LeafScanner) Err() error    { return s.err }
