package mmr

import (
	"encoding/binary"
	"hash"
)

// HashWriteUint64 writes a uint64 to the hasher in big endian layout - most
// significant byte at lowest address/storage location
func HashWriteUint64(hasher hash.Hash, value uint64) {
	b := [8]byte{}
	binary.BigEndian.PutUint64(b[:], value)
	hasher.Write(b[:])
}

// HashPosPair64 returns H(pos || a || b)
// ** the hasher is reset **
func HashPosPair64(hasher hash.Hash, pos uint64, a []byte, b []byte) []byte {
	hasher.Reset()
	HashWriteUint64(hasher, pos)
	hasher.Write(a)
	hasher.Write(b)
	return hasher.Sum(nil)
}
