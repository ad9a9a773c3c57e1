package tiles

import (
	"fmt"

	"github.com/robinbryce/mmriver-tiles-go/mmr"
)

// Methods for working with the tile ancestor peak stack.
//
// The stack holds, in descending order of height, the peaks of the mmr state
// immediately preceding the tile. Only peaks of height >= tileHeight-1 can be
// referenced by a proof path before it leaves the tile, and at a tile
// boundary every surviving peak satisfies that, so the stack is exactly the
// accumulator of MMR(firstIndex-1).

// PeakStackMap builds a map from mmr indices to peak stack slots for the
// tile whose first owned node is firstIndex. For tile 0 the map is empty.
func PeakStackMap(tileHeight uint8, firstIndex uint64) map[uint64]int {

	stackMap := map[uint64]int{}
	if firstIndex == 0 {
		return stackMap
	}

	threshold := uint64(0)
	if tileHeight > 0 {
		threshold = uint64(tileHeight) - 1
	}

	for _, ip := range mmr.Peaks(firstIndex - 1) {
		// A proof for any node in this tile reaches height tileHeight-1
		// before it can need a witness from an earlier tile, so shorter
		// peaks are never retained.
		if mmr.IndexHeight(ip) < threshold {
			continue
		}
		stackMap[ip] = len(stackMap)
	}

	return stackMap
}

// NextPeakStack derives the ancestor peak stack for the tile's successor.
// The tile must be full. The stack entries the successor no longer needs are
// popped, then the tile's own last node, which is always a new peak of
// height >= tileHeight-1, is pushed.
//
// The returned slice aliases freshly copied bytes; the successor does not
// retain a reference into this tile's buffer.
func (t *Tile) NextPeakStack() ([]byte, error) {

	if t.NextIndex != TileFirstIndex(t.Start.TileHeight, t.Start.TileID+1) {
		return nil, fmt.Errorf("%w: next peak stack derived from a part filled tile", ErrInvariantViolated)
	}

	stackLen := t.Start.PeakStackLen
	pop := mmr.SpurHeightLeaf(t.Start.TileID)
	if pop > stackLen {
		return nil, fmt.Errorf("%w: pop %d exceeds stack length %d", ErrPeakStackInvalid, pop, stackLen)
	}

	keep := stackLen - pop
	stack := make([]byte, 0, (keep+1)*FieldBytes)
	stack = append(stack, t.Data[PeakStackStart:PeakStackStart+keep*FieldBytes]...)
	stack = append(stack, t.lastNode()...)
	return stack, nil
}
