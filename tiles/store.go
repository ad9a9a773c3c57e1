package tiles

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/robinbryce/mmriver-tiles-go/tiles/storage"
)

// TileStore wraps a storage provider with CRUD at the tile level. It is the
// only component that moves tile images across the persistence boundary; all
// other tile manipulation is in memory.
type TileStore struct {
	Cfg      Config
	Provider storage.Provider
	Log      *zap.SugaredLogger
}

func NewTileStore(cfg Config, provider storage.Provider, log *zap.SugaredLogger) (*TileStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &TileStore{Cfg: cfg, Provider: provider, Log: log}, nil
}

// Head returns the append ready tile with the highest id. On empty storage a
// new empty tile 0 is returned, marked creating; no io is performed for it.
func (s *TileStore) Head(ctx context.Context) (*Tile, error) {
	tileID, data, version, err := s.Provider.ReadHead(ctx)
	if errors.Is(err, storage.ErrLogEmpty) {
		s.Log.Debugw("tilestore: empty log, starting tile 0")
		return NewTile(s.Cfg), nil
	}
	if err != nil {
		return nil, err
	}
	t, err := LoadTile(s.Cfg, data, version)
	if err != nil {
		return nil, err
	}
	if t.Start.TileID != tileID {
		return nil, fmt.Errorf("%w: head tile %d does not match its header id %d", ErrInvariantViolated, tileID, t.Start.TileID)
	}
	return t, nil
}

// Get loads the identified tile. ErrTileNotFound propagates from the
// provider.
func (s *TileStore) Get(ctx context.Context, tileID uint64) (*Tile, error) {
	data, version, err := s.Provider.ReadTile(ctx, tileID)
	if err != nil {
		return nil, err
	}
	return LoadTile(s.Cfg, data, version)
}

// Create allocates the in memory successor of parent, or the empty first
// tile when parent is nil. No io is performed.
func (s *TileStore) Create(parent *Tile) (*Tile, error) {
	if parent == nil {
		return NewTile(s.Cfg), nil
	}
	return parent.CreateNext()
}

// Commit persists the tile's current image. Empty tiles are skipped without
// io. The image is cropped to UsedBytes; the work buffer remains fully
// allocated for further appends.
//
// A creating tile is stored with a create-once request; otherwise the
// replace carries the version observed when the tile was read, and
// storage.ErrVersionChanged signals the caller to re-read head and rebase.
func (s *TileStore) Commit(ctx context.Context, t *Tile) error {

	if t.Count() == 0 || !t.dirty {
		return nil
	}

	data := t.Data[:t.UsedBytes()]

	if t.Creating {
		if err := s.Provider.CreateTile(ctx, t.Start.TileID, data); err != nil {
			return err
		}
		t.Creating = false
		t.Version = 0
		t.dirty = false
		tilesCommitted.Inc()
		s.Log.Debugw("tilestore: created", "tile", t.Start.TileID, "nodes", t.Count())
		return nil
	}

	if err := s.Provider.ReplaceTile(ctx, t.Start.TileID, t.Version, data); err != nil {
		if errors.Is(err, storage.ErrVersionChanged) {
			commitConflicts.Inc()
		}
		return err
	}
	t.Version++
	t.dirty = false
	tilesCommitted.Inc()
	s.Log.Debugw("tilestore: replaced", "tile", t.Start.TileID, "nodes", t.Count(), "version", t.Version)
	return nil
}
