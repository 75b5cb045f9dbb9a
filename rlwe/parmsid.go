package rlwe

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/blake3"
)

// ParmsIDSize is the size in bytes of a [ParmsID].
const ParmsIDSize = 32

// ParmsID is an opaque identifier binding data to one level of one
// set of encryption parameters. It is the BLAKE3-256 digest of the
// canonical encoding of the parameters at that level.
type ParmsID [4]uint64

// ParmsIDZero is the identifier carried by plaintexts in coefficient form.
var ParmsIDZero = ParmsID{}

// IsZero returns true if id is [ParmsIDZero].
func (id ParmsID) IsZero() bool {
	return id == ParmsIDZero
}

// String returns the hexadecimal representation of the identifier.
func (id ParmsID) String() string {
	return fmt.Sprintf("%016x %016x %016x %016x", id[0], id[1], id[2], id[3])
}

// Bytes returns the little-endian encoding of the identifier.
func (id ParmsID) Bytes() (b [ParmsIDSize]byte) {
	for i := range id {
		binary.LittleEndian.PutUint64(b[i<<3:], id[i])
	}
	return
}

// ParmsIDFromBytes decodes an identifier from its little-endian encoding.
func ParmsIDFromBytes(b [ParmsIDSize]byte) (id ParmsID) {
	for i := range id {
		id[i] = binary.LittleEndian.Uint64(b[i<<3:])
	}
	return
}

// computeParmsID hashes the canonical encoding of a parameter set
// restricted to the moduli qi.
func computeParmsID(scheme Scheme, logN int, qi []uint64, t uint64) (id ParmsID) {

	data := make([]byte, 8*(4+len(qi)))

	binary.LittleEndian.PutUint64(data[0:], uint64(scheme))
	binary.LittleEndian.PutUint64(data[8:], uint64(1)<<logN)
	binary.LittleEndian.PutUint64(data[16:], uint64(len(qi)))

	ptr := 24
	for _, q := range qi {
		binary.LittleEndian.PutUint64(data[ptr:], q)
		ptr += 8
	}

	binary.LittleEndian.PutUint64(data[ptr:], t)

	return ParmsIDFromBytes(blake3.Sum256(data))
}
