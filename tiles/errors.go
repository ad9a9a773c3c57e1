package tiles

import "errors"

var (
	// ErrIndexNotInTile is returned for node indices outside the tile's owned
	// range and not present in its ancestor peak map.
	ErrIndexNotInTile = errors.New("mmr index not available in the tile")

	// ErrTileFull is returned by AddLeafHash when the tile has all its
	// leaves. It is always recovered by the append orchestration and never
	// surfaced to callers of TileLog.
	ErrTileFull = errors.New("the current tile is full")

	// ErrTileHeightMismatch rejects loading a tile whose header height does
	// not match the configured height.
	ErrTileHeightMismatch = errors.New("tile height in header does not match the configured height")

	// ErrTileDataLengthInvalid rejects tile images whose length is
	// impossible given the format.
	ErrTileDataLengthInvalid = errors.New("the length of the tile data is invalid")

	ErrNodeValueBadSize = errors.New("node value size invalid")

	// ErrPeakStackInvalid indicates the ancestor peak slots are inconsistent
	// with the tile id.
	ErrPeakStackInvalid = errors.New("the ancestor peak stack is invalid")

	// ErrInvariantViolated marks conditions that can only arise from a bug,
	// eg a freshly created tile reporting itself full.
	ErrInvariantViolated = errors.New("invariant violated")
)
