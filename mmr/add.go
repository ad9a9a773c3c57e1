package mmr

import (
	"hash"
)

// NodeAppender is the capability required to add a leaf to an mmr. It is a
// deliberately narrow contract so that the one add algorithm can drive both
// the in-memory test stores and the production tiles.
type NodeAppender interface {
	Get(i uint64) ([]byte, error)
	Append(value []byte) (uint64, error)
}

// AddHashedLeaf adds a single leaf to the mmr and back fills any interior
// nodes 'above and to the left'.
//
// Returns the size of the mmr after addition of the leaf. This is also the
// index of the next node to be appended.
func AddHashedLeaf(store NodeAppender, hasher hash.Hash, hashedLeaf []byte) (uint64, error) {

	var err error
	var i uint64

	hasher.Reset()
	height := uint64(0) // leaf height is always zero

	if i, err = store.Append(hashedLeaf); err != nil {
		return 0, err
	}

	// Because of the MMR structure, if the node after the one just added
	// would be higher in the tree, the node just added completes at least one
	// new interior node.
	//
	// Here, we add the second leaf, and it lets us fill in the peak at 2
	//
	//  0 1 <- we add '1'
	//
	//   2  <- so we get to append '2' as well, because the next index is higher
	//  / \
	// 0   1
	//
	// This works no matter how many peaks exist already, as each back filled
	// node is always at the 'next' position relative to the node that was
	// just added.
	//
	// Note that i is at 'next' every time we call IndexHeight
	for IndexHeight(i) > height {

		iLeft := i - (2 << height)
		// iRight is always just i - 1, because
		// i - (2 << height) + SiblingOffset(height) == i - 1
		iRight := i - 1

		hasher.Reset()

		// Interior nodes commit to their position. This distinguishes
		// otherwise identical sub structures and is necessary for the
		// accumulator proof mechanism to be sound.
		HashWriteUint64(hasher, i+1)

		var value []byte

		if value, err = store.Get(iLeft); err != nil {
			return 0, err
		}
		hasher.Write(value)

		if value, err = store.Get(iRight); err != nil {
			return 0, err
		}
		hasher.Write(value)

		if i, err = store.Append(hasher.Sum(nil)); err != nil {
			return 0, err
		}
		height += 1
	}
	return i, nil
}
