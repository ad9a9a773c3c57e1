package tiles

import (
	"github.com/robinbryce/mmriver-tiles-go/mmr"
)

// Tile images are strictly sized as multiples of 32 bytes in order to
// facilitate simple content independent arithmetic over the whole MMR.
// Knowing only the tile id and the byte size of the image, all information
// necessary to place the tile in the overall MMR can be derived.
//
// The persisted image is laid out as
//
//	offset        length          content
//	0             F - 16          zero (reserved)
//	F - 16        8               tile height (big endian u64)
//	F - 8         8               tile id (big endian u64)
//	F             64 * F          ancestor peak slots (each F bytes)
//	F + 64 * F    count * F       node hashes, packed in mmr index order
//
// where F is the field width, fixed at 32 and equal to the hash size.

const (
	// FieldBytes defines the width of ALL entries in a tile image. The fixed
	// width makes it possible to compute mmr sizes from byte sizes alone.
	FieldBytes = 32

	// HeaderTileHeightFirstByte and HeaderTileIDFirstByte locate the two big
	// endian integers packed at the end of the single header field.
	HeaderTileHeightFirstByte = FieldBytes - 16
	HeaderTileHeightEnd       = HeaderTileHeightFirstByte + 8
	HeaderTileIDFirstByte     = FieldBytes - 8
	HeaderTileIDEnd           = HeaderTileIDFirstByte + 8

	// PeakStackSlots is the upper bound on the number of ancestor peaks any
	// tile can carry. It is the maximum number of peaks in an mmr whose
	// indices are bounded by 64 bits.
	PeakStackSlots = 64

	// PeakStackStart is the first byte of the ancestor peak slot region.
	PeakStackStart = FieldBytes

	// NodesStart is the first byte of the packed node hashes.
	NodesStart = PeakStackStart + PeakStackSlots*FieldBytes

	// MaxTileHeight bounds the configurable tile height. A tile of the
	// maximum height would contain every leaf the index space allows.
	MaxTileHeight = 63
)

// TileLeafCount returns the number of leaves a full tile holds.
func TileLeafCount(tileHeight uint8) uint64 {
	return 1 << tileHeight
}

// TileFirstIndex returns the mmr index of the first node in the identified tile.
func TileFirstIndex(tileHeight uint8, tileID uint64) uint64 {
	return mmr.MMRIndex(tileID * TileLeafCount(tileHeight))
}

// TileLastLeafIndex returns the mmr index of the last *leaf* in the
// identified tile. Appending that leaf completes the tile; nodes after it in
// the tile are the interior nodes its addition back fills.
func TileLastLeafIndex(tileHeight uint8, tileID uint64) uint64 {
	return mmr.MMRIndex((tileID+1)*TileLeafCount(tileHeight) - 1)
}

// TileNodeCount returns the total count of nodes owned by the identified
// tile when it is full. Tiles ending on large perfect peaks own
// correspondingly many 'alpine' interior nodes.
func TileNodeCount(tileHeight uint8, tileID uint64) uint64 {
	return TileFirstIndex(tileHeight, tileID+1) - TileFirstIndex(tileHeight, tileID)
}

// MaxTileDataBytes returns the byte size of the identified tile's image when
// the tile is full. Work buffers are allocated to this size so that appends
// never reallocate.
func MaxTileDataBytes(tileHeight uint8, tileID uint64) uint64 {
	return NodesStart + TileNodeCount(tileHeight, tileID)*FieldBytes
}

// TileIndex returns the id of the tile owning the provided mmr index.
func TileIndex(tileHeight uint8, mmrIndex uint64) uint64 {
	return mmr.LeafIndex(mmrIndex) / TileLeafCount(tileHeight)
}
