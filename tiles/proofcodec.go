package tiles

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/robinbryce/mmriver-tiles-go/mmr"
)

// ProofCodec provides deterministic CBOR serialisation for proof payloads,
// for callers transporting proofs between producer and verifier. The node
// values themselves are opaque fixed width byte strings; the codec adds only
// the minimal framing the verifier needs to replay them.
type ProofCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// InclusionProofBundle carries everything a verifier needs, other than the
// trusted accumulator, to check a single inclusion.
type InclusionProofBundle struct {
	// MMRIndex is the index the node value is proven at.
	MMRIndex uint64 `cbor:"1,keyasint"`
	// MMRIndexC identifies the complete mmr state the proof was built
	// against.
	MMRIndexC uint64 `cbor:"2,keyasint"`
	// Proof is the ordered list of sibling witness values.
	Proof [][]byte `cbor:"3,keyasint"`
}

func NewProofCodec() (ProofCodec, error) {
	encOpts := cbor.CanonicalEncOptions()
	enc, err := encOpts.EncMode()
	if err != nil {
		return ProofCodec{}, err
	}
	decOpts := cbor.DecOptions{}
	dec, err := decOpts.DecMode()
	if err != nil {
		return ProofCodec{}, err
	}
	return ProofCodec{enc: enc, dec: dec}, nil
}

func (c ProofCodec) MarshalInclusionProof(b InclusionProofBundle) ([]byte, error) {
	return c.enc.Marshal(&b)
}

func (c ProofCodec) UnmarshalInclusionProof(data []byte) (InclusionProofBundle, error) {
	var b InclusionProofBundle
	if err := c.dec.Unmarshal(data, &b); err != nil {
		return InclusionProofBundle{}, err
	}
	return b, nil
}

func (c ProofCodec) MarshalConsistencyProof(p mmr.ConsistencyProof) ([]byte, error) {
	return c.enc.Marshal(&p)
}

func (c ProofCodec) UnmarshalConsistencyProof(data []byte) (mmr.ConsistencyProof, error) {
	var p mmr.ConsistencyProof
	if err := c.dec.Unmarshal(data, &p); err != nil {
		return mmr.ConsistencyProof{}, err
	}
	return p, nil
}
