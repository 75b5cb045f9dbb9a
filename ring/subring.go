// Package ring implements the modular arithmetic kernels over Z_q[X]/(X^N+1)
// used to move plaintext polynomials in and out of the NTT domain.
package ring

import (
	"fmt"
	"math/bits"

	"github.com/vingstar/SEAL/utils"
)

// MinimumRingDegree is the smallest supported ring degree.
const MinimumRingDegree = 2

// SubRing is a struct storing precomputation
// for fast modular reduction and NTT for
// a given modulus.
type SubRing struct {
	// Polynomial nb.Coefficients
	N int

	// Modulus
	Modulus uint64

	// 2^bit_length(Modulus) - 1
	Mask uint64

	// Fast reduction constants
	BRedConstant [2]uint64

	// Primitive 2N-th root of unity
	Psi uint64

	// N^-1 mod Modulus
	NInv uint64

	// Powers of Psi (resp. Psi^-1) in bit-reversed order
	RootsForward  []uint64
	RootsBackward []uint64
}

// NewSubRing creates a new SubRing of degree N and modulus Modulus and
// generates its NTT constants.
// N must be a power of two and Modulus an NTT-friendly prime (equal to 1 mod 2N).
// An error is returned with a nil *SubRing otherwise.
func NewSubRing(N int, Modulus uint64) (s *SubRing, err error) {

	if N < MinimumRingDegree || !utils.IsPowerOfTwo(uint64(N)) {
		return nil, fmt.Errorf("invalid ring degree %d: must be a power of 2 greater or equal to %d", N, MinimumRingDegree)
	}

	if bits.Len64(Modulus) > MaxModulusBits {
		return nil, fmt.Errorf("invalid modulus %d: bit-size exceeds %d", Modulus, MaxModulusBits)
	}

	if !IsNTTFriendly(Modulus, 2*N) {
		return nil, fmt.Errorf("invalid modulus %d: must be a prime equal to 1 mod %d", Modulus, 2*N)
	}

	s = &SubRing{}
	s.N = N
	s.Modulus = Modulus
	s.Mask = (1 << uint64(bits.Len64(Modulus-1))) - 1
	s.BRedConstant = GenBRedConstant(Modulus)

	if err = s.generateNTTConstants(); err != nil {
		return nil, err
	}

	return
}

// generateNTTConstants generates the NTT constant for the target SubRing.
func (s *SubRing) generateNTTConstants() (err error) {

	Modulus := s.Modulus
	NthRoot := uint64(2 * s.N)

	if s.Psi, err = PrimitiveNthRoot(Modulus, NthRoot); err != nil {
		return
	}

	logN := bits.Len64(uint64(s.N)) - 1

	s.NInv = ModExp(uint64(s.N), Modulus-2, Modulus)

	PsiInv := ModExp(s.Psi, Modulus-2, Modulus)

	s.RootsForward = make([]uint64, s.N)
	s.RootsBackward = make([]uint64, s.N)

	s.RootsForward[0] = 1
	s.RootsBackward[0] = 1

	// Computes RootsForward[j] = RootsForward[j-1]*Psi and RootsBackward[j] = RootsBackward[j-1]*PsiInv
	for j := uint64(1); j < uint64(s.N); j++ {

		indexReversePrev := utils.BitReverse64(j-1, logN)
		indexReverseNext := utils.BitReverse64(j, logN)

		s.RootsForward[indexReverseNext] = BRed(s.RootsForward[indexReversePrev], s.Psi, Modulus, s.BRedConstant)
		s.RootsBackward[indexReverseNext] = BRed(s.RootsBackward[indexReversePrev], PsiInv, Modulus, s.BRedConstant)
	}

	return
}

// PrimitiveNthRoot returns a primitive NthRoot-th root of unity modulo q, where
// NthRoot is a power of two dividing q-1.
func PrimitiveNthRoot(q, NthRoot uint64) (psi uint64, err error) {

	if !utils.IsPowerOfTwo(NthRoot) || NthRoot < 2 || (q-1)%NthRoot != 0 {
		return 0, fmt.Errorf("cannot PrimitiveNthRoot: %d does not divide %d-1", NthRoot, q)
	}

	exp := (q - 1) / NthRoot

	// psi = g^((q-1)/NthRoot) has an order dividing NthRoot, it is exactly
	// NthRoot iff psi^(NthRoot/2) = -1.
	for g := uint64(2); g < q; g++ {
		psi = ModExp(g, exp, q)
		if ModExp(psi, NthRoot>>1, q) == q-1 {
			return psi, nil
		}
	}

	return 0, fmt.Errorf("cannot PrimitiveNthRoot: no primitive %d-th root of unity modulo %d", NthRoot, q)
}

// Reduce assigns p2[i] = p1[i] mod Modulus.
func (s *SubRing) Reduce(p1, p2 []uint64) {
	q := s.Modulus
	brc := s.BRedConstant
	for i := range p1 {
		p2[i] = BRedAdd(p1[i], q, brc)
	}
}

// MulCoeffs assigns p3[i] = p1[i]*p2[i] mod Modulus.
// Inputs must be reduced.
func (s *SubRing) MulCoeffs(p1, p2, p3 []uint64) {
	q := s.Modulus
	brc := s.BRedConstant
	for i := range p1 {
		p3[i] = BRed(p1[i], p2[i], q, brc)
	}
}
