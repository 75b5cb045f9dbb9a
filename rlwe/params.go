package rlwe

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/google/go-cmp/cmp"

	"github.com/vingstar/SEAL/ring"
)

// MaxLogN is the log2 of the largest supported polynomial modulus degree.
const MaxLogN = 17

// MinLogN is the log2 of the smallest supported polynomial modulus degree.
const MinLogN = 1

// MaxModuliCount is the largest number of moduli in the coefficient modulus chain.
const MaxModuliCount = 64

// MaxPlaintextModulusBits is the largest bit-size of the plaintext modulus.
const MaxPlaintextModulusBits = 60

// Scheme identifies the homomorphic encryption scheme a parameter set is intended for.
type Scheme int

const (
	// SchemeBFV is the Brakerski/Fan-Vercauteren scheme over integers modulo t.
	SchemeBFV = Scheme(iota + 1)
	// SchemeBGV is the Brakerski-Gentry-Vaikuntanathan scheme over integers modulo t.
	SchemeBGV
	// SchemeCKKS is the Cheon-Kim-Kim-Song scheme for approximate arithmetic.
	SchemeCKKS
)

// String returns the name of the scheme.
func (s Scheme) String() string {
	switch s {
	case SchemeBFV:
		return "BFV"
	case SchemeBGV:
		return "BGV"
	case SchemeCKKS:
		return "CKKS"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// MarshalJSON encodes the scheme as its name.
func (s Scheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the scheme from its name.
func (s *Scheme) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "BFV":
		*s = SchemeBFV
	case "BGV":
		*s = SchemeBGV
	case "CKKS":
		*s = SchemeCKKS
	default:
		return fmt.Errorf("invalid scheme %q: must be BFV, BGV or CKKS", name)
	}
	return nil
}

// usesPlaintextModulus returns true if the scheme encodes integers modulo a plaintext modulus.
func (s Scheme) usesPlaintextModulus() bool {
	return s == SchemeBFV || s == SchemeBGV
}

// ParametersLiteral is a literal representation of encryption parameters. It has public fields and
// is used to express unchecked user-defined parameters literally into Go programs.
// The [NewParametersFromLiteral] function is used to generate the actual parameters
// from the literal representation.
//
// Users must set the scheme, the polynomial degree (LogN) and the coefficient modulus, by either setting
// the Q field to the desired moduli chain, or by setting the LogQ field to the desired moduli sizes.
// BFV and BGV additionally need a PlaintextModulus.
type ParametersLiteral struct {
	Scheme           Scheme
	LogN             int
	Q                []uint64 `json:",omitempty"`
	LogQ             []int    `json:",omitempty"`
	PlaintextModulus uint64   `json:",omitempty"`
}

// Parameters represents a set of encryption parameters. Its fields are private and
// immutable. See [ParametersLiteral] for user-specified parameters.
//
// Parameters are only checked structurally on creation. Whether they qualify for
// use (NTT-friendly moduli, coprime plaintext modulus, ...) is decided by a [Context].
type Parameters struct {
	scheme  Scheme
	logN    int
	qi      []uint64
	t       uint64
	parmsID ParmsID
}

// NewParameters returns a new set of parameters from the given scheme, ring degree logN,
// moduli chain q and plaintext modulus t. It returns the empty [Parameters]{} and a non-nil
// error if the specified parameters are structurally invalid.
func NewParameters(scheme Scheme, logN int, q []uint64, t uint64) (params Parameters, err error) {

	switch scheme {
	case SchemeBFV, SchemeBGV, SchemeCKKS:
	default:
		return Parameters{}, fmt.Errorf("cannot NewParameters: %w: unknown scheme %d", ErrInvalidArgument, int(scheme))
	}

	if logN < MinLogN || logN > MaxLogN {
		return Parameters{}, fmt.Errorf("cannot NewParameters: %w: logN=%d is not in [%d, %d]", ErrInvalidArgument, logN, MinLogN, MaxLogN)
	}

	if len(q) == 0 {
		return Parameters{}, fmt.Errorf("cannot NewParameters: %w: empty coefficient modulus", ErrInvalidArgument)
	}

	params = Parameters{
		scheme: scheme,
		logN:   logN,
		qi:     make([]uint64, len(q)),
		t:      t,
	}

	copy(params.qi, q)

	params.parmsID = computeParmsID(scheme, logN, params.qi, t)

	return
}

// NewParametersFromLiteral instantiate a set of parameters from a [ParametersLiteral] specification.
// It returns the empty parameters [Parameters]{} and a non-nil error if the specified parameters are invalid.
//
// If the LogQ field is set, NTT-friendly primes of the requested sizes are generated.
func NewParametersFromLiteral(paramDef ParametersLiteral) (params Parameters, err error) {

	// Invalid moduli configurations: do not allow empty Q and LogQ as well double-set log and non-log fields.
	if paramDef.Q == nil && paramDef.LogQ == nil {
		return Parameters{}, fmt.Errorf("rlwe.NewParametersFromLiteral: %w: both Q and LogQ fields are empty", ErrInvalidArgument)
	}

	if paramDef.Q != nil && paramDef.LogQ != nil {
		return Parameters{}, fmt.Errorf("rlwe.NewParametersFromLiteral: %w: both Q and LogQ fields are set", ErrInvalidArgument)
	}

	q := paramDef.Q

	if paramDef.LogQ != nil {

		if paramDef.LogN < MinLogN || paramDef.LogN > MaxLogN {
			return Parameters{}, fmt.Errorf("rlwe.NewParametersFromLiteral: %w: logN=%d is not in [%d, %d]", ErrInvalidArgument, paramDef.LogN, MinLogN, MaxLogN)
		}

		if q, err = GenModuli(paramDef.LogN+1, paramDef.LogQ); err != nil {
			return Parameters{}, fmt.Errorf("rlwe.NewParametersFromLiteral: unable to generate moduli: %w", err)
		}
	}

	return NewParameters(paramDef.Scheme, paramDef.LogN, q, paramDef.PlaintextModulus)
}

// GenModuli generates a valid moduli chain from the provided moduli sizes.
// Moduli of the same size are distinct.
func GenModuli(LogNthRoot int, logQ []int) (q []uint64, err error) {

	// Extracts all the different primes bit size and maps their number
	primesbitlen := make(map[int]int)
	for i, qi := range logQ {
		if qi < 2 || qi > ring.MaxModulusBits {
			return nil, fmt.Errorf("%w: logQ[%d]=%d is not in [2, %d]", ErrInvalidArgument, i, qi, ring.MaxModulusBits)
		}
		primesbitlen[qi]++
	}

	// For each bit-size, finds that many primes
	primes := make(map[int][]uint64)
	for bitsize, value := range primesbitlen {
		if primes[bitsize], err = ring.GenerateNTTPrimes(bitsize, 1<<LogNthRoot, value); err != nil {
			return nil, fmt.Errorf("cannot GenModuli: failed to generate %d primes of bit-size=%d for LogNthRoot=%d: %w", value, bitsize, LogNthRoot, err)
		}
	}

	// Assigns the primes to the moduli chain
	for _, qi := range logQ {
		q = append(q, primes[qi][0])
		primes[qi] = primes[qi][1:]
	}

	return
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		Scheme:           p.scheme,
		LogN:             p.logN,
		Q:                p.Q(),
		PlaintextModulus: p.t,
	}
}

// Scheme returns the scheme the parameters are intended for.
func (p Parameters) Scheme() Scheme {
	return p.scheme
}

// N returns the ring degree.
func (p Parameters) N() int {
	if p.logN == 0 {
		return 0
	}
	return 1 << p.logN
}

// LogN returns the log2 of the ring degree.
func (p Parameters) LogN() int {
	return p.logN
}

// Q returns a new slice with the factors of the coefficient modulus Q.
func (p Parameters) Q() []uint64 {
	qi := make([]uint64, len(p.qi))
	copy(qi, p.qi)
	return qi
}

// QCount returns the number of factors of the coefficient modulus Q.
func (p Parameters) QCount() int {
	return len(p.qi)
}

// MaxLevel returns the maximum level of a polynomial over Q.
func (p Parameters) MaxLevel() int {
	return p.QCount() - 1
}

// QBigInt returns the product of the moduli Q[0..level] as a *big.Int.
func (p Parameters) QBigInt(level int) *big.Int {
	Q := big.NewInt(1)
	for _, qi := range p.qi[:level+1] {
		Q.Mul(Q, new(big.Int).SetUint64(qi))
	}
	return Q
}

// PlaintextModulus returns the plaintext modulus t (0 for CKKS).
func (p Parameters) PlaintextModulus() uint64 {
	return p.t
}

// ParmsID returns the identifier of the parameters over the full moduli chain.
func (p Parameters) ParmsID() ParmsID {
	return p.parmsID
}

// ParmsIDAtLevel returns the identifier of the parameters restricted to the moduli Q[0..level].
func (p Parameters) ParmsIDAtLevel(level int) ParmsID {
	if level == p.MaxLevel() {
		return p.parmsID
	}
	return computeParmsID(p.scheme, p.logN, p.qi[:level+1], p.t)
}

// Equal checks two Parameter structs for equality.
func (p Parameters) Equal(other *Parameters) (res bool) {
	res = p.scheme == other.scheme
	res = res && p.logN == other.logN
	res = res && cmp.Equal(p.qi, other.qi)
	res = res && p.t == other.t
	return
}

// MarshalBinary returns a []byte representation of the parameter set.
// This representation corresponds to the [Parameters.MarshalJSON] representation.
func (p Parameters) MarshalBinary() ([]byte, error) {
	return p.MarshalJSON()
}

// UnmarshalBinary decodes a slice of bytes on the target Parameters.
func (p *Parameters) UnmarshalBinary(data []byte) (err error) {
	return p.UnmarshalJSON(data)
}

// MarshalJSON returns a JSON representation of this parameter set. See Marshal from the [encoding/json] package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See Unmarshal from the [encoding/json] package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return err
	}
	*p, err = NewParametersFromLiteral(params)
	return
}
