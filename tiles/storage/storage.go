// Package storage defines the provider contract tiles are persisted
// through.
//
// A provider maps tile ids to byte images and arbitrates concurrent writers
// with compare-and-swap semantics keyed on (id, version). The version is an
// opaque token returned with every read; replace requests carrying a stale
// token are refused. Readers are never blocked by writers.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrTileNotFound is returned when the requested tile id is not present.
	ErrTileNotFound = errors.New("tile not found")

	// ErrLogEmpty is returned by ReadHead when no tiles exist yet.
	ErrLogEmpty = errors.New("the log is empty")

	// ErrTileExists is an optimistic concurrency failure: a CreateTile was
	// refused because the id is already present.
	ErrTileExists = errors.New("optimistic concurrency failure, tile already exists")

	// ErrVersionChanged is an optimistic concurrency failure: a ReplaceTile
	// was refused because the stored version no longer matches. The caller
	// must re-read and rebase its appends.
	ErrVersionChanged = errors.New("optimistic concurrency failure, tile version changed")
)

// Provider is the persistence contract for tile images.
//
// Versions are monotonic per tile: a create stores version 0 and every
// accepted replace increments it. Callers must treat them as opaque match
// tokens.
type Provider interface {
	// ReadTile returns the image and current version for the tile id, or
	// ErrTileNotFound.
	ReadTile(ctx context.Context, tileID uint64) ([]byte, uint64, error)

	// ReadHead returns the id, image and version of the tile with the
	// highest id, or ErrLogEmpty.
	ReadHead(ctx context.Context) (uint64, []byte, uint64, error)

	// CreateTile stores the image for a tile id that must not yet exist, or
	// fails with ErrTileExists.
	CreateTile(ctx context.Context, tileID uint64, data []byte) error

	// ReplaceTile stores a new image for an existing tile id, provided the
	// stored version still matches, or fails with ErrVersionChanged.
	// ErrTileNotFound is returned if the id was never created.
	ReplaceTile(ctx context.Context, tileID uint64, version uint64, data []byte) error
}
