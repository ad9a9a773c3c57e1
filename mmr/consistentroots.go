package mmr

import (
	"bytes"
	"errors"
	"hash"
)

var (
	ErrInvalidProof = errors.New("the proof length or shape is inconsistent with the from and to states")
)

// ConsistentRoots is supplied with the accumulator from which consistency is
// being shown, and an inclusion proof for each accumulator entry in a future
// mmr state.
//
// The algorithm recovers the necessary prefix (peaks) of the future
// accumulator against which the proofs were obtained. It is typical that many
// nodes in the original accumulator share the same peak in the new
// accumulator. The returned list is the descending height ordered list of
// those peaks. It may be exactly the future accumulator or it may be a prefix
// of it. The order of the roots returned matches the order of the nodes in
// the accumulator.
//
// Args:
//   - ifrom the last node index of the complete mmr from which consistency is shown
//   - accumulatorfrom the node values corresponding to the peaks of MMR(ifrom)
//   - proofs the inclusion proofs for each entry of accumulatorfrom in the future state
func ConsistentRoots(hasher hash.Hash, ifrom uint64, accumulatorfrom [][]byte, proofs [][][]byte) ([][]byte, error) {
	frompeaks := Peaks(ifrom)

	if len(frompeaks) != len(proofs) {
		return nil, ErrInvalidProof
	}
	if len(accumulatorfrom) != len(proofs) {
		return nil, ErrInvalidProof
	}

	roots := [][]byte{}

	for i := range accumulatorfrom {
		root := IncludedRoot(hasher, frompeaks[i], accumulatorfrom[i], proofs[i])
		// The nature of MMR's is that many nodes are committed by the same
		// accumulator peak, and that peak changes with low frequency.
		if len(roots) > 0 && bytes.Equal(roots[len(roots)-1], root) {
			continue
		}
		roots = append(roots, root)
	}

	return roots, nil
}
