package tiles

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
)

var (
	ErrTileHeightInvalid = errors.New("tile height out of range")
)

// Config carries the log shape parameters. All tiles, stores and logs
// operating on the same data must share the same configuration.
type Config struct {
	// TileHeight is the height index of the peak contained within a full
	// tile. A tile of height H holds 1<<H leaves.
	TileHeight uint8

	// NewHash constructs the hash used to derive interior nodes. The hash
	// size must equal FieldBytes. Defaults to sha256.
	NewHash func() hash.Hash
}

func (cfg Config) Validate() error {
	if cfg.TileHeight > MaxTileHeight {
		return fmt.Errorf("%w: %d > %d", ErrTileHeightInvalid, cfg.TileHeight, MaxTileHeight)
	}
	return nil
}

func (cfg Config) hasher() hash.Hash {
	if cfg.NewHash != nil {
		return cfg.NewHash()
	}
	return sha256.New()
}
