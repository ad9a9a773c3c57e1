package tiles

import (
	"encoding/binary"
	"fmt"

	"github.com/robinbryce/mmriver-tiles-go/mmr"
)

// TileStart holds the values encoded in the header field of every tile
// image, together with the properties derived from them. Only the height and
// the id are persisted; everything else is recovered computationally from
// the tile's position in the overall MMR.
type TileStart struct {
	TileHeight uint8
	TileID     uint64

	// FirstIndex is the mmr index of the first node owned by the tile.
	FirstIndex uint64

	// PeakStackLen is the count of ancestor peaks carried by the tile. It
	// equals the binary population count of TileID, a consequence of the
	// isomorphism between tile ids and the leaf indices of the 'tile tree'.
	PeakStackLen uint64
}

func NewTileStart(tileHeight uint8, tileID uint64) TileStart {
	return TileStart{
		TileHeight:   tileHeight,
		TileID:       tileID,
		FirstIndex:   TileFirstIndex(tileHeight, tileID),
		PeakStackLen: mmr.LeafMinusSpurSum(tileID),
	}
}

// EncodeTileStart encodes the tile details in the prescribed header field
// format. The remaining header bytes are reserved and zero.
func EncodeTileStart(tileHeight uint8, tileID uint64) []byte {
	header := make([]byte, FieldBytes)
	binary.BigEndian.PutUint64(header[HeaderTileHeightFirstByte:HeaderTileHeightEnd], uint64(tileHeight))
	binary.BigEndian.PutUint64(header[HeaderTileIDFirstByte:HeaderTileIDEnd], tileID)
	return header
}

func DecodeTileStart(ts *TileStart, data []byte) error {
	if len(data) < FieldBytes {
		return fmt.Errorf("%w: %d bytes is short of a header field", ErrTileDataLengthInvalid, len(data))
	}

	tileHeight := binary.BigEndian.Uint64(data[HeaderTileHeightFirstByte:HeaderTileHeightEnd])
	if tileHeight > MaxTileHeight {
		return fmt.Errorf("%w: header height %d", ErrTileHeightInvalid, tileHeight)
	}

	ts.TileHeight = uint8(tileHeight)
	ts.TileID = binary.BigEndian.Uint64(data[HeaderTileIDFirstByte:HeaderTileIDEnd])
	ts.FirstIndex = TileFirstIndex(ts.TileHeight, ts.TileID)
	ts.PeakStackLen = mmr.LeafMinusSpurSum(ts.TileID)
	return nil
}
