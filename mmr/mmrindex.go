package mmr

import "math/bits"

// MMRIndex returns the node index for the leaf with index leafIndex
//
// The leaves are numbered consecutively, ignoring interior nodes. Each set
// bit of the leaf index accounts for one perfect tree of nodes preceding the
// leaf, so the sum of those tree sizes locates it.
func MMRIndex(leafIndex uint64) uint64 {

	sum := uint64(0)
	for leafIndex > 0 {
		h := bits.Len64(leafIndex)
		sum += (1 << h) - 1
		half := 1 << (h - 1)
		leafIndex -= uint64(half)
	}
	return sum
}
