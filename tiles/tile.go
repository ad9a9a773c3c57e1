package tiles

import (
	"fmt"
	"hash"

	"github.com/robinbryce/mmriver-tiles-go/mmr"
)

// Tile is the in-memory, byte addressable record for one fixed shape slice
// of the MMR node array. It is the unit of persistence and the unit of proof
// self containment.
//
// A tile is constructed empty for id 0, via CreateNext from its full
// predecessor, or via LoadTile from a persisted image. Appends mutate only
// the work buffer; durability is the store's concern.
type Tile struct {
	Cfg   Config
	Start TileStart

	// Data is the work buffer, always allocated to the full tile size so
	// appends never reallocate. Only the first UsedBytes are persisted.
	Data []byte

	// NextIndex is the mmr index the next Append will occupy. When it equals
	// Start.FirstIndex the tile is empty and must not be persisted.
	NextIndex uint64

	// Version is the storage version token most recently observed for this
	// tile. It is meaningless while Creating is true.
	Version  uint64
	Creating bool

	// dirty records whether the tile has appends not yet persisted. Commit
	// of a clean tile is a no-op; in particular a full tile re-read at the
	// start of a batch is never rewritten.
	dirty bool

	// peakStackMap resolves mmr indices below FirstIndex to ancestor peak
	// slots. Derived once at construction, read only thereafter.
	peakStackMap map[uint64]int
}

// NewTile returns the empty first tile for the configured height. The header
// is written immediately; the ancestor peak region of tile 0 is empty.
func NewTile(cfg Config) *Tile {
	ts := NewTileStart(cfg.TileHeight, 0)
	t := &Tile{
		Cfg:          cfg,
		Start:        ts,
		Data:         make([]byte, MaxTileDataBytes(cfg.TileHeight, 0)),
		NextIndex:    ts.FirstIndex,
		Creating:     true,
		peakStackMap: map[uint64]int{},
	}
	copy(t.Data, EncodeTileStart(ts.TileHeight, ts.TileID))
	return t
}

// CreateNext allocates the successor of t, seeding its ancestor peak region
// from t's propagated peak stack. t must be full. The successor copies the
// stack bytes, it does not retain a reference into t's buffer.
func (t *Tile) CreateNext() (*Tile, error) {

	stack, err := t.NextPeakStack()
	if err != nil {
		return nil, err
	}

	ts := NewTileStart(t.Start.TileHeight, t.Start.TileID+1)
	if uint64(len(stack)) != ts.PeakStackLen*FieldBytes {
		return nil, fmt.Errorf(
			"%w: propagated stack has %d entries, want %d",
			ErrPeakStackInvalid, len(stack)/FieldBytes, ts.PeakStackLen)
	}

	next := &Tile{
		Cfg:          t.Cfg,
		Start:        ts,
		Data:         make([]byte, MaxTileDataBytes(ts.TileHeight, ts.TileID)),
		NextIndex:    ts.FirstIndex,
		Creating:     true,
		peakStackMap: PeakStackMap(ts.TileHeight, ts.FirstIndex),
	}
	copy(next.Data, EncodeTileStart(ts.TileHeight, ts.TileID))
	copy(next.Data[PeakStackStart:], stack)
	return next, nil
}

// LoadTile reconstructs a tile from a persisted image. The image is copied
// into a fully allocated work buffer so subsequent appends never reallocate.
func LoadTile(cfg Config, data []byte, version uint64) (*Tile, error) {

	var ts TileStart
	if err := DecodeTileStart(&ts, data); err != nil {
		return nil, err
	}
	if ts.TileHeight != cfg.TileHeight {
		return nil, fmt.Errorf(
			"%w: header height %d, configured %d", ErrTileHeightMismatch, ts.TileHeight, cfg.TileHeight)
	}

	if len(data) < NodesStart || (len(data)-NodesStart)%FieldBytes != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTileDataLengthInvalid, len(data))
	}
	nodeCount := uint64(len(data)-NodesStart) / FieldBytes
	if nodeCount > TileNodeCount(ts.TileHeight, ts.TileID) {
		return nil, fmt.Errorf(
			"%w: %d nodes exceeds the tile capacity", ErrTileDataLengthInvalid, nodeCount)
	}

	t := &Tile{
		Cfg:          cfg,
		Start:        ts,
		Data:         make([]byte, MaxTileDataBytes(ts.TileHeight, ts.TileID)),
		NextIndex:    ts.FirstIndex + nodeCount,
		Version:      version,
		peakStackMap: PeakStackMap(ts.TileHeight, ts.FirstIndex),
	}
	copy(t.Data, data)
	return t, nil
}

// AddLeafHash adds the leaf value f to the tile, back filling any interior
// nodes its addition completes. Returns the resulting mmr size.
//
// If the tile already holds all of its leaves, ErrTileFull is returned and
// the tile is unchanged. On any other error the work buffer must be
// discarded entirely (not written back to storage).
func (t *Tile) AddLeafHash(hasher hash.Hash, f []byte) (uint64, error) {

	if t.NextIndex > t.LastLeafMMRIndex() {
		return 0, ErrTileFull
	}
	return mmr.AddHashedLeaf(t, hasher, f)
}

// Append writes value at the next node slot and returns the new mmr size,
// which is also the index of the slot a subsequent Append will occupy. This
// method satisfies the Append method of the mmr NodeAppender interface.
func (t *Tile) Append(value []byte) (uint64, error) {

	if len(value) != FieldBytes {
		return 0, ErrNodeValueBadSize
	}

	end := NodesStart + (t.NextIndex-t.Start.FirstIndex+1)*FieldBytes
	if end > uint64(len(t.Data)) {
		// The leaf pre-flight in AddLeafHash makes this unreachable short of
		// a bug in the index arithmetic.
		return 0, fmt.Errorf("%w: append beyond the tile capacity", ErrInvariantViolated)
	}

	copy(t.Data[end-FieldBytes:end], value)
	t.NextIndex++
	t.dirty = true
	return t.NextIndex, nil
}

// Get returns the value associated with the node at mmr index i.
//
// Nodes owned by the tile are read from the node region. References below
// FirstIndex resolve through the ancestor peak map; the structure of the mmr
// guarantees those are the only out of tile references either appending or
// proving can make. This method satisfies the Get method of the mmr
// NodeAppender interface.
func (t *Tile) Get(i uint64) ([]byte, error) {

	if i >= t.NextIndex {
		return nil, fmt.Errorf("%w: %d not yet appended", ErrIndexNotInTile, i)
	}

	if i >= t.Start.FirstIndex {
		offset := NodesStart + (i-t.Start.FirstIndex)*FieldBytes
		return t.Data[offset : offset+FieldBytes], nil
	}

	slot, ok := t.peakStackMap[i]
	if !ok {
		return nil, fmt.Errorf("%w: %d is not an ancestor peak of tile %d", ErrIndexNotInTile, i, t.Start.TileID)
	}
	offset := PeakStackStart + uint64(slot)*FieldBytes
	return t.Data[offset : offset+FieldBytes], nil
}

// Count returns the number of nodes currently owned by the tile.
func (t *Tile) Count() uint64 {
	return t.NextIndex - t.Start.FirstIndex
}

// RangeCount returns the size of the whole mmr up to and including this tile.
func (t *Tile) RangeCount() uint64 {
	return t.NextIndex
}

// LastLeafMMRIndex returns the mmr index of the last leaf that can be added
// to this tile. This is typically used to detect when the last entry is
// being added.
func (t *Tile) LastLeafMMRIndex() uint64 {
	return TileLastLeafIndex(t.Start.TileHeight, t.Start.TileID)
}

// UsedBytes returns the length of the image that should be persisted for the
// tile's current state, zero for an empty tile.
func (t *Tile) UsedBytes() uint64 {
	if t.NextIndex == t.Start.FirstIndex {
		return 0
	}
	return NodesStart + t.Count()*FieldBytes
}

func (t *Tile) lastNode() []byte {
	end := NodesStart + t.Count()*FieldBytes
	return t.Data[end-FieldBytes : end]
}
