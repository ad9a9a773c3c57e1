package mmr

import (
	"errors"
)

var (
	ErrIndexOutOfRange = errors.New("mmr index out of range for the provided mmr state")
)

// InclusionProof collects the sibling values witnessing the inclusion of mmr
// index i in the complete mmr whose last node index is mmrLastIndex.
//
// For the following index tree, and i=15 with mmrLastIndex = 25 we would
// obtain the path
//
// [H(16), H(20)]
//
// Because the accumulator peak committing 15 is 21, and given the value for
// 15, we only need 16 and then 20 to reproduce it.
//
//	3              14
//	             /    \
//	            /      \
//	           /        \
//	          /          \
//	2        6            13           21
//	       /   \        /    \
//	1     2     5      9     12     17     20     24
//	     / \   / \    / \   /  \   /  \
//	0   0   1 3   4  7   8 10  11 15  16 18  19 22  23   25
func InclusionProof(store indexStoreGetter, mmrLastIndex uint64, i uint64) ([][]byte, error) {

	if i > mmrLastIndex {
		return nil, ErrIndexOutOfRange
	}

	var proof [][]byte

	for _, iSibling := range InclusionProofPath(mmrLastIndex, i) {
		value, err := store.Get(iSibling)
		if err != nil {
			return nil, err
		}
		proof = append(proof, value)
	}
	return proof, nil
}

// InclusionProofPath returns the mmr indices identifying the witness nodes
// for mmr index i, proven against the complete mmr whose last node index is
// mmrLastIndex.
//
// This method allows tooling to individually audit the proof path node values
// for a given index, and is how a tile demonstrates that proofs for its nodes
// resolve entirely within the tile and its carried ancestor peaks.
func InclusionProofPath(mmrLastIndex uint64, i uint64) []uint64 {

	var iSibling uint64

	var path []uint64
	g := IndexHeight(i) // allows for proofs of interior nodes

	for { // iSibling is guaranteed to break the loop

		// The sibling of i is at i +/- (2^(g+1) - 1)
		siblingOffset := uint64((2 << g))

		// If the index after i is higher, it is the left parent, and i is the
		// right sibling.
		if IndexHeight(i+1) > g {
			// The witness to the right sibling is offset behind i
			iSibling = i - siblingOffset + 1

			// The parent of a right sibling is stored immediately after the sibling
			i += 1
		} else {

			// The witness to the left sibling is offset ahead of i
			iSibling = i + siblingOffset - 1

			// The parent of a left sibling is stored immediately after its right sibling
			i += siblingOffset
		}

		// When the computed sibling exceeds the range of the complete mmr,
		// we have completed the path.
		if iSibling > mmrLastIndex {
			return path
		}

		path = append(path, iSibling)

		// Set g to the height of the next item in the path.
		g += 1
	}
}
