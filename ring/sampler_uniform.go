package ring

import (
	"encoding/binary"
	"math/bits"

	"github.com/vingstar/SEAL/utils/sampling"
)

// UniformSampler wraps a sampling.PRNG and represents the state of a sampler of uniform coefficients.
type UniformSampler struct {
	prng          sampling.PRNG
	randomBufferN []byte
	ptr           int
}

// NewUniformSampler creates a new instance of UniformSampler from a PRNG.
func NewUniformSampler(prng sampling.PRNG) (u *UniformSampler) {
	u = new(UniformSampler)
	u.prng = prng
	u.randomBufferN = make([]byte, 1024)
	return
}

// Read fills coeffs with integers sampled uniformly in [0, q-1].
func (u *UniformSampler) Read(coeffs []uint64, q uint64) (err error) {

	var randomUint uint64

	mask := uint64(1<<bits.Len64(q-1)) - 1

	byteArrayLength := len(u.randomBufferN)

	buffer := u.randomBufferN

	ptr := u.ptr
	if ptr == 0 || ptr == byteArrayLength {
		if _, err = u.prng.Read(buffer); err != nil {
			return
		}
		ptr = 0
	}

	for i := range coeffs {

		// Samples an integer between [0, q-1]
		for {

			// Refills the buff if it runs empty
			if ptr == byteArrayLength {
				if _, err = u.prng.Read(buffer); err != nil {
					return
				}
				ptr = 0
			}

			// Reads bytes from the buff
			randomUint = binary.BigEndian.Uint64(buffer[ptr:ptr+8]) & mask
			ptr += 8

			// If the integer is between [0, q-1], breaks the loop
			if randomUint < q {
				break
			}
		}

		coeffs[i] = randomUint
	}

	u.ptr = ptr

	return
}
