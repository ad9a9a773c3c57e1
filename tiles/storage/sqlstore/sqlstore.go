// Package sqlstore realises the tile storage provider over a relational
// database, using a single table with a conditional update for the
// compare-and-swap. Any gorm supported database works; the Open convenience
// uses sqlite.
//
// Multiple logs can share one table: rows are keyed (log_id, tile_id) and a
// Store is bound to one log id.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/robinbryce/mmriver-tiles-go/tiles/storage"
)

// TileRow is the single table. Version participates in every replace's WHERE
// clause, which is what arbitrates racing writers.
type TileRow struct {
	LogID   string `gorm:"primaryKey;size:128"`
	TileID  uint64 `gorm:"primaryKey;autoIncrement:false"`
	Version uint64 `gorm:"not null"`
	Data    []byte `gorm:"not null"`
}

func (TileRow) TableName() string { return "tile_rows" }

type Store struct {
	db    *gorm.DB
	logID string
}

// Open opens (creating if necessary) the sqlite database at path and binds a
// store to logID. An empty logID selects a fresh random log identity.
func Open(path string, logID string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db %q: %w", path, err)
	}
	return New(db, logID)
}

// New binds a store to an existing gorm handle, migrating the tile table if
// required. The handle must have been opened with TranslateError enabled.
func New(db *gorm.DB, logID string) (*Store, error) {
	if err := db.AutoMigrate(&TileRow{}); err != nil {
		return nil, fmt.Errorf("migrating tile table: %w", err)
	}
	if logID == "" {
		logID = uuid.NewString()
	}
	return &Store{db: db, logID: logID}, nil
}

// LogID returns the log identity the store is bound to.
func (s *Store) LogID() string { return s.logID }

func (s *Store) ReadTile(ctx context.Context, tileID uint64) ([]byte, uint64, error) {
	var row TileRow
	err := s.db.WithContext(ctx).
		Where("log_id = ? AND tile_id = ?", s.logID, tileID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, fmt.Errorf("%w: %d", storage.ErrTileNotFound, tileID)
	}
	if err != nil {
		return nil, 0, err
	}
	return row.Data, row.Version, nil
}

func (s *Store) ReadHead(ctx context.Context) (uint64, []byte, uint64, error) {
	var row TileRow
	err := s.db.WithContext(ctx).
		Where("log_id = ?", s.logID).
		Order("tile_id DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil, 0, storage.ErrLogEmpty
	}
	if err != nil {
		return 0, nil, 0, err
	}
	return row.TileID, row.Data, row.Version, nil
}

func (s *Store) CreateTile(ctx context.Context, tileID uint64, data []byte) error {
	row := TileRow{LogID: s.logID, TileID: tileID, Version: 0, Data: data}
	err := s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %d", storage.ErrTileExists, tileID)
	}
	return err
}

func (s *Store) ReplaceTile(ctx context.Context, tileID uint64, version uint64, data []byte) error {

	// The version match in the WHERE clause is the compare-and-swap; the
	// database serialises racing writers and exactly one update wins.
	res := s.db.WithContext(ctx).
		Model(&TileRow{}).
		Where("log_id = ? AND tile_id = ? AND version = ?", s.logID, tileID, version).
		Updates(map[string]any{"data": data, "version": version + 1})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Distinguish a missing row from a stale version for the caller.
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&TileRow{}).
		Where("log_id = ? AND tile_id = ?", s.logID, tileID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %d", storage.ErrTileNotFound, tileID)
	}
	return fmt.Errorf("%w: %d, match %d", storage.ErrVersionChanged, tileID, version)
}
