package mmr

import (
	"bytes"
	"errors"
	"fmt"
	"hash"
)

var (
	ErrVerifyInclusionFailed = errors.New("verify inclusion failed")
)

// VerifyInclusion checks that the value nodeHash is included at mmr index i
// in the complete mmr whose last index is mmrLastIndex. The accumulator is
// read from the store, and the proof must reproduce the accumulator entry
// committing i.
func VerifyInclusion(
	store indexStoreGetter, hasher hash.Hash, mmrLastIndex uint64, nodeHash []byte, i uint64, proof [][]byte,
) (bool, error) {

	peaks, err := PeakHashes(store, mmrLastIndex)
	if err != nil {
		return false, err
	}

	// Get the index of the accumulator entry committing the proven element.
	// The proof length must be extended by the node height to account for
	// proofs of interior nodes.
	d := len(proof) + int(IndexHeight(i))
	ipeak := PeakIndex(LeafCount(mmrLastIndex+1), d)

	if ipeak >= len(peaks) {
		return false, fmt.Errorf(
			"%w: accumulator index out of range for the provided mmr state", ErrVerifyInclusionFailed)
	}

	root := IncludedRoot(hasher, i, nodeHash, proof)
	if !bytes.Equal(root, peaks[ipeak]) {
		return false, fmt.Errorf(
			"%w: proven root not present in the accumulator", ErrVerifyInclusionFailed)
	}
	return true, nil
}
