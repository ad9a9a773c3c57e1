// Package tilestesting provides the shared scaffolding for tests that build
// and inspect tiled logs.
package tilestesting

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/robinbryce/mmriver-tiles-go/mmr"
	"github.com/robinbryce/mmriver-tiles-go/tiles"
	"github.com/robinbryce/mmriver-tiles-go/tiles/storage"
	"github.com/robinbryce/mmriver-tiles-go/tiles/storage/memorystore"
)

type TestContext struct {
	T        *testing.T
	Log      *zap.SugaredLogger
	Provider *memorystore.Store
	Store    *tiles.TileStore
	TileLog  *tiles.TileLog
}

// NewTestContext stands up a complete in memory log with the provided tile
// height.
func NewTestContext(t *testing.T, tileHeight uint8) *TestContext {
	provider := memorystore.NewStore()
	tc := NewTestContextWithProvider(t, provider, tileHeight)
	tc.Provider = provider
	return tc
}

// NewTestContextWithProvider stands up a log over the caller's storage
// provider. Provider on the returned context is left nil; NewTestContext sets
// it to the in memory store it creates.
func NewTestContextWithProvider(t *testing.T, provider storage.Provider, tileHeight uint8) *TestContext {

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	cfg := tiles.Config{TileHeight: tileHeight}

	store, err := tiles.NewTileStore(cfg, provider, logger.Sugar())
	require.NoError(t, err)

	log, err := tiles.NewTileLog(cfg, store, logger.Sugar())
	require.NoError(t, err)

	return &TestContext{
		T:       t,
		Log:     logger.Sugar(),
		Store:   store,
		TileLog: log,
	}
}

// LeafHashes generates the canonical test leaves: the hash of the 64 bit big
// endian mmr index of each leaf. These match the KAT39 vectors.
func LeafHashes(first uint64, count uint64) [][]byte {
	var leaves [][]byte
	for e := first; e < first+count; e++ {
		leaves = append(leaves, HashUint64(mmr.MMRIndex(e)))
	}
	return leaves
}

// HashUint64 returns the hash of the 64 bit big endian representation of v.
func HashUint64(v uint64) []byte {
	h := sha256.New()
	b := [8]byte{}
	binary.BigEndian.PutUint64(b[:], v)
	h.Write(b[:])
	return h.Sum(nil)
}

// AppendLeaves appends count generated leaves starting at leaf index first,
// in batches of batchSize, requiring success.
func (tc *TestContext) AppendLeaves(first uint64, count uint64, batchSize uint64) uint64 {

	var size uint64
	leaves := LeafHashes(first, count)
	for len(leaves) > 0 {
		n := batchSize
		if n > uint64(len(leaves)) {
			n = uint64(len(leaves))
		}
		var err error
		size, _, err = tc.TileLog.Append(context.Background(), leaves[:n])
		require.NoError(tc.T, err)
		leaves = leaves[n:]
	}
	return size
}
