// Package memorystore is a map backed storage provider. It is primarily for
// tests and tooling, but it honours the full optimistic concurrency
// contract and is safe for concurrent use.
package memorystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/robinbryce/mmriver-tiles-go/tiles/storage"
)

type record struct {
	data    []byte
	version uint64
}

type Store struct {
	mu    sync.RWMutex
	tiles map[uint64]record
	head  uint64
}

func NewStore() *Store {
	return &Store{tiles: map[uint64]record{}}
}

func (s *Store) ReadTile(ctx context.Context, tileID uint64) ([]byte, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.tiles[tileID]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %d", storage.ErrTileNotFound, tileID)
	}
	return cloneBytes(r.data), r.version, nil
}

func (s *Store) ReadHead(ctx context.Context) (uint64, []byte, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.tiles) == 0 {
		return 0, nil, 0, storage.ErrLogEmpty
	}
	r := s.tiles[s.head]
	return s.head, cloneBytes(r.data), r.version, nil
}

func (s *Store) CreateTile(ctx context.Context, tileID uint64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tiles[tileID]; ok {
		return fmt.Errorf("%w: %d", storage.ErrTileExists, tileID)
	}
	s.tiles[tileID] = record{data: cloneBytes(data)}
	if tileID > s.head || len(s.tiles) == 1 {
		s.head = tileID
	}
	return nil
}

func (s *Store) ReplaceTile(ctx context.Context, tileID uint64, version uint64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.tiles[tileID]
	if !ok {
		return fmt.Errorf("%w: %d", storage.ErrTileNotFound, tileID)
	}
	if r.version != version {
		return fmt.Errorf("%w: %d stored %d, match %d", storage.ErrVersionChanged, tileID, r.version, version)
	}
	s.tiles[tileID] = record{data: cloneBytes(data), version: version + 1}
	return nil
}

func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
