package mmr

import "math/bits"

// LeafCount returns the number of leaves in the largest mmr whose size is <=
// the supplied size.
//
// This can safely be used to obtain the leaf index *only* when size is known
// to be a valid mmr size, typically just before or just after calling
// AddHashedLeaf. If in any doubt, instead do:
//
//	leafIndex = LeafCount(FirstMMRSize(mmrIndex)) - 1
func LeafCount(size uint64) uint64 {
	return PeaksBitmap(size)
}

// LeafIndex returns the leaf index of the leaf whose add completed the first
// mmr size containing mmrIndex. If mmrIndex is a leaf, this is the
// corresponding leaf index. For interior nodes it is the leaf whose addition
// back filled the node.
func LeafIndex(mmrIndex uint64) uint64 {
	return LeafCount(FirstMMRSize(mmrIndex)) - 1
}

// PeaksBitmap returns a bit mask where a 1 corresponds to a peak and the
// position of the bit is the height of that peak. The resulting value is also
// the count of leaves. This is due to the binary nature of the tree.
//
// For example, with an mmr of size 19, there are 11 leaves
//
//	          14
//	       /       \
//	     6          13
//	   /   \       /   \
//	  2     5     9     12     17
//	 / \   /  \  / \   /  \   /  \
//	0   1 3   4 7   8 10  11 15  16 18
//
// PeaksBitmap(19) returns 0b1011 which shows, reading from the right (low
// bit), that the lowest peak is at height 0, the second lowest at height 1,
// then the next and last peak is at height 3.
//
// If the provided mmr size is invalid, the returned map will be for the
// largest valid mmr size < the provided invalid size.
func PeaksBitmap(mmrSize uint64) uint64 {
	if mmrSize == 0 {
		return 0
	}
	pos := mmrSize
	peakSize := (uint64(1) << bits.Len64(mmrSize)) - 1
	peakMap := uint64(0)
	for peakSize > 0 {
		peakMap <<= 1
		if pos >= peakSize {
			pos -= peakSize
			peakMap |= 1
		}
		peakSize >>= 1
	}
	return peakMap
}
