package mmr

import (
	"bytes"
	"errors"
	"hash"
)

var (
	ErrConsistencyCheck = errors.New("consistency check failed")
)

// VerifyConsistency verifies the consistency between two MMR states.
//
// The states are identified by the complete indices MMRIndexA and MMRIndexB
// in the proof. peaksFrom and peaksTo are the node values corresponding to
// the peaks of each respective state. The proof paths contain the nodes
// necessary to show each A-peak reaches a B-peak.
//
//	    MMR(A):[6, 7]      MMR(B):[6, 9, 10]
//	 2       6                6
//	       /   \            /   \
//	 1    2     5          2     5     9
//	     / \   / \        / \   / \   / \
//	 0  0   1 3   4 7    0   1 3   4 7   8 10
//
//	Paths MMR(A) -> MMR(B)
//	6 in MMR(B) -> []
//	7 in MMR(B) -> [8]
//	Paths = [[], [8]]
//
// On success the roots proven from the A accumulator are returned. They are
// a descending height prefix of peaksTo.
func VerifyConsistency(
	hasher hash.Hash,
	cp ConsistencyProof, peaksFrom [][]byte, peaksTo [][]byte) (bool, [][]byte, error) {

	if len(peaksTo) == 0 {
		return false, nil, ErrConsistencyCheck
	}

	// Recover the peaks proven by the consistency proof using the trusted
	// accumulator for state A.
	proven, err := ConsistentRoots(hasher, cp.MMRIndexA, peaksFrom, cp.Paths)
	if err != nil {
		return false, nil, err
	}

	// If all proven nodes match an accumulator peak for MMR(MMRIndexB) then
	// MMR(MMRIndexA) is consistent with it. Because both lists are in
	// descending order of height this is a linear scan.
	ito := 0
	for _, root := range proven {

		if bytes.Equal(peaksTo[ito], root) {
			continue
		}

		// If the root does not match the current peak then it must match the
		// next one down.
		ito += 1

		if ito >= len(peaksTo) {
			return false, nil, ErrConsistencyCheck
		}

		if !bytes.Equal(peaksTo[ito], root) {
			return false, nil, ErrConsistencyCheck
		}
	}

	// All proven peaks have been matched against the future accumulator. The
	// log committed by the future accumulator is consistent with the
	// previously committed state.
	return true, proven, nil
}

// CheckConsistency verifies that the state identified by the complete index
// ito is consistent with the provided accumulator for the earlier complete
// index ifrom. The accumulator peaksFrom should be taken from a trusted
// source, typically a signed checkpoint. The proofs and the future
// accumulator are read from the store.
func CheckConsistency(
	store indexStoreGetter, hasher hash.Hash,
	ifrom uint64, ito uint64, peaksFrom [][]byte) (bool, [][]byte, error) {

	cp, err := IndexConsistencyProof(store, ifrom, ito)
	if err != nil {
		return false, nil, err
	}

	peaksTo, err := PeakHashes(store, cp.MMRIndexB)
	if err != nil {
		return false, nil, err
	}

	return VerifyConsistency(hasher, cp, peaksFrom, peaksTo)
}
