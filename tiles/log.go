package tiles

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/robinbryce/mmriver-tiles-go/mmr"
	"github.com/robinbryce/mmriver-tiles-go/tiles/storage"
)

// TileLog orchestrates batch appends across tile boundaries and provides
// node reads and proofs over the whole mmr.
type TileLog struct {
	Cfg   Config
	Store *TileStore
	Log   *zap.SugaredLogger

	// last is the most recently touched tile. Proof access patterns exhibit
	// strong locality: an inclusion proof against a tile local state
	// references only that tile, so this single entry cache carries most
	// read workloads.
	last *Tile
}

func NewTileLog(cfg Config, store *TileStore, log *zap.SugaredLogger) (*TileLog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &TileLog{Cfg: cfg, Store: store, Log: log}, nil
}

// Append adds the leaf hashes to the log in order, spanning tile boundaries
// as necessary. It returns the resulting mmr size and the count of tiles
// durably committed by this call.
//
// The batch is all-or-nothing with respect to the currently open tile: if
// any commit fails the open tile is discarded and the log on disk is
// unchanged beyond the tiles already committed by this call. Those are
// immediately visible to readers and cannot be rolled back; on error the
// committed count bounds which leaves were persisted.
//
// A storage.ErrVersionChanged failure means another writer extended the same
// tile. The caller should re-read the log state, diff against its intended
// appends, and re-append the remainder.
func (l *TileLog) Append(ctx context.Context, leaves [][]byte) (uint64, int, error) {

	committed := 0

	adder, err := l.Store.Head(ctx)
	if err != nil {
		return 0, 0, err
	}

	hasher := l.Cfg.hasher()

	for _, f := range leaves {

		_, err = adder.AddLeafHash(hasher, f)
		if err == nil {
			leavesAppended.Inc()
			continue
		}
		if !errors.Is(err, ErrTileFull) {
			return 0, committed, err
		}

		// The open tile is full: close it out, then retry the leaf on its
		// successor. Failure to commit here fails the whole batch; the
		// leaves already accepted by the closed tiles remain durable. A full
		// head tile re-read by this batch is already durable and is not
		// rewritten.
		unpersisted := adder.dirty
		if err = l.Store.Commit(ctx, adder); err != nil {
			return 0, committed, err
		}
		if unpersisted {
			committed++
		}

		if adder, err = l.Store.Create(adder); err != nil {
			return 0, committed, err
		}

		if _, err = adder.AddLeafHash(hasher, f); err != nil {
			if errors.Is(err, ErrTileFull) {
				err = fmt.Errorf("%w: a fresh tile reported itself full", ErrInvariantViolated)
			}
			return 0, committed, err
		}
		leavesAppended.Inc()
	}

	unpersisted := adder.dirty && adder.Count() > 0
	if err = l.Store.Commit(ctx, adder); err != nil {
		return 0, committed, err
	}
	if unpersisted {
		committed++
	}

	l.last = adder
	return adder.RangeCount(), committed, nil
}

// Get returns the value of the node at mmr index i.
//
// The last touched tile is consulted first; on a miss the owning tile is
// fetched from the store and becomes the new cache entry.
func (l *TileLog) Get(ctx context.Context, i uint64) ([]byte, error) {

	if l.last != nil {
		if value, err := l.last.Get(i); err == nil {
			return value, nil
		}
	}

	t, err := l.Store.Get(ctx, TileIndex(l.Cfg.TileHeight, i))
	if err != nil {
		return nil, err
	}
	l.last = t
	return t.Get(i)
}

// HeadIndex returns the index of the last node in the log, reading the head
// tile through the store. mmr sizes are HeadIndex() + 1.
func (l *TileLog) HeadIndex(ctx context.Context) (uint64, error) {
	t, err := l.Store.Head(ctx)
	if err != nil {
		return 0, err
	}
	if t.Count() == 0 && t.Start.TileID == 0 {
		return 0, storage.ErrLogEmpty
	}
	l.last = t
	return t.RangeCount() - 1, nil
}

// storeGetter adapts the log to the single method read contract of the mmr
// proof functions, binding the context once.
type storeGetter struct {
	ctx context.Context
	l   *TileLog
}

func (g *storeGetter) Get(i uint64) ([]byte, error) {
	return g.l.Get(g.ctx, i)
}

// PeakHashes returns the accumulator for the complete mmr index i.
func (l *TileLog) PeakHashes(ctx context.Context, i uint64) ([][]byte, error) {
	return mmr.PeakHashes(&storeGetter{ctx, l}, i)
}

// InclusionProof returns the proof committing node i to the accumulator of
// the complete mmr index c.
func (l *TileLog) InclusionProof(ctx context.Context, c uint64, i uint64) ([][]byte, error) {
	return mmr.InclusionProof(&storeGetter{ctx, l}, c, i)
}

// ConsistencyProof returns the proof that the complete state ifrom is an
// append only prefix of the complete state ito.
func (l *TileLog) ConsistencyProof(ctx context.Context, ifrom uint64, ito uint64) (mmr.ConsistencyProof, error) {
	return mmr.IndexConsistencyProof(&storeGetter{ctx, l}, ifrom, ito)
}
