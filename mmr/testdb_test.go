package mmr

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// testDb is a minimal NodeAppender over a slice, sufficient for driving the
// algebra and proof functions in tests.
type testDb struct {
	nodes [][]byte
}

func (db *testDb) Get(i uint64) ([]byte, error) {
	if int(i) < len(db.nodes) {
		return db.nodes[i], nil
	}
	return nil, fmt.Errorf("index %d out of range", i)
}

// Append adds a new node to the db and returns the index of the next addition
func (db *testDb) Append(b []byte) (uint64, error) {
	db.nodes = append(db.nodes, b)
	return uint64(len(db.nodes)), nil
}

// hashLeaf returns the canonical test leaf value for leafIndex, which is the
// hash of the big endian 64 bit representation of the leaf's mmr index.
func hashLeaf(leafIndex uint64) []byte {
	h := sha256.New()
	b := [8]byte{}
	binary.BigEndian.PutUint64(b[:], MMRIndex(leafIndex))
	h.Write(b[:])
	return h.Sum(nil)
}

// NewCanonicalTestDB populates a test database with mmr size = 39 and where
// the leaf hashes are the hashes of the 64 bit big endian mmr indices of the
// leaves. This
// is the tree the KAT39 vectors are drawn from.
//
// Note that any mmr size < 39 is also contained in this MMR. So tests that
// want to work with smaller trees can use this one and pretend it is only
// however big they need.
//
//	4                         30
//
//	3              14                       29
//	             /    \                   /    \
//	            /      \                 /      \
//	           /        \               /        \
//	2        6           13           21          28                37
//	       /   \        /   \        /   \       /   \             /   \
//	1     2     5      9     12    17     20   24     27         33     36
//	     / \   / \    / \   /  \   / \   / \   / \   /  \       /  \   /  \
//	0   0   1 3   4  7   8 10  11 15 16 18 19 22 23 25   26   31   32 34  35 38
func NewCanonicalTestDB(t *testing.T) *testDb {
	db := &testDb{}
	for e := uint64(0); e < 21; e++ {
		_, err := AddHashedLeaf(db, sha256.New(), hashLeaf(e))
		require.NoError(t, err)
	}
	require.Equal(t, 39, len(db.nodes))
	return db
}
