package mmr

// ConsistencyProof describes a proof that the mmr identified by MMRIndexA is
// perfectly contained in the mmr identified by MMRIndexB. This structure
// aligns us with the consistency proof format described in the MMRIVER draft:
// https://datatracker.ietf.org/doc/draft-bryce-cose-merkle-mountain-range-proofs/
//
// The proof is verified against a trusted accumulator for state A, typically
// obtained from a signed checkpoint, and the accumulator for the proposed
// state B.
type ConsistencyProof struct {
	MMRIndexA uint64     `cbor:"1,keyasint"`
	MMRIndexB uint64     `cbor:"2,keyasint"`
	Paths     [][][]byte `cbor:"3,keyasint"`
}

// ConsistencyProofPaths returns the witness node indices proving the
// consistency of the complete mmr index ifrom with the complete mmr index
// ito. One inclusion path is returned for each peak of MMR(ifrom).
//
// As each peak is an interior node, and as each interior node commits to the
// count of nodes beneath it, there is only one location any node can exist in
// the tree. If a peak of A is included in B then it is included in exactly
// the same position.
func ConsistencyProofPaths(ifrom uint64, ito uint64) ([][]uint64, error) {

	if ifrom > ito {
		return nil, ErrIndexOutOfRange
	}

	var paths [][]uint64
	for _, ipeak := range Peaks(ifrom) {
		paths = append(paths, InclusionProofPath(ito, ipeak))
	}
	return paths, nil
}

// IndexConsistencyProof creates a proof that the mmr state identified by the
// complete index ifrom appends to the state identified by the complete index
// ito. The proof is simply an inclusion proof for each peak of MMR(ifrom)
// against MMR(ito), which permits re-use of the inclusion proof verification
// machinery.
func IndexConsistencyProof(
	store indexStoreGetter, ifrom uint64, ito uint64,
) (ConsistencyProof, error) {

	proof := ConsistencyProof{
		MMRIndexA: ifrom,
		MMRIndexB: ito,
	}

	paths, err := ConsistencyProofPaths(ifrom, ito)
	if err != nil {
		return ConsistencyProof{}, err
	}

	for _, path := range paths {
		var peakProof [][]byte
		for _, iSibling := range path {
			value, err := store.Get(iSibling)
			if err != nil {
				return ConsistencyProof{}, err
			}
			peakProof = append(peakProof, value)
		}
		proof.Paths = append(proof.Paths, peakProof)
	}
	return proof, nil
}
