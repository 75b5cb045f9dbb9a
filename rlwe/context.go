package rlwe

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"

	"go.uber.org/zap"

	"github.com/vingstar/SEAL/ring"
	"github.com/vingstar/SEAL/utils"
	"github.com/vingstar/SEAL/utils/bignum"
)

// logQPrec is the precision in bits used for the logarithms of the moduli.
const logQPrec = 128

// ContextData stores the precomputations of one level of the modulus chain.
type ContextData struct {
	level    int
	parmsID  ParmsID
	qi       []uint64
	subRings []*ring.SubRing
	q        *big.Int
	logQ     float64
}

// Level returns the index of the level in the chain.
func (c *ContextData) Level() int {
	return c.level
}

// ParmsID returns the identifier of the level.
func (c *ContextData) ParmsID() ParmsID {
	return c.parmsID
}

// Q returns the moduli of the level.
func (c *ContextData) Q() []uint64 {
	return c.qi
}

// QCount returns the number of moduli of the level.
func (c *ContextData) QCount() int {
	return len(c.qi)
}

// SubRings returns the NTT precomputations of each modulus of the level.
func (c *ContextData) SubRings() []*ring.SubRing {
	return c.subRings
}

// QBigInt returns the product of the moduli of the level.
func (c *ContextData) QBigInt() *big.Int {
	return new(big.Int).Set(c.q)
}

// LogQ returns log2 of the product of the moduli of the level.
func (c *ContextData) LogQ() float64 {
	return c.logQ
}

// Context is a read-only view of a set of [Parameters] together with the
// verdict of their qualification. If the parameters qualify, it stores one
// [ContextData] per level of the modulus chain, indexed by [ParmsID].
// A Context is safe for concurrent use.
type Context struct {
	params Parameters
	err    error
	chain  []*ContextData // chain[i] is the level i
	byID   map[ParmsID]*ContextData
}

// NewContext qualifies the parameters and, if they are valid, precomputes the
// modulus chain. If expandModChain is false only the top level is kept.
// Qualification failures do not return an error: they are reported by
// [Context.ParametersSet] and [Context.ParametersError].
func NewContext(params Parameters, expandModChain bool) *Context {

	c := &Context{params: params, byID: map[ParmsID]*ContextData{}}

	if c.err = qualify(params); c.err != nil {
		Logger().Debug("parameters rejected",
			zap.Stringer("scheme", params.Scheme()),
			zap.Int("logN", params.LogN()),
			zap.Error(c.err))
		return c
	}

	minLevel := 0
	if !expandModChain {
		minLevel = params.MaxLevel()
	}

	c.chain = make([]*ContextData, params.QCount())

	N := params.N()

	for level := params.MaxLevel(); level >= minLevel; level-- {

		data := &ContextData{
			level:    level,
			parmsID:  params.ParmsIDAtLevel(level),
			qi:       params.qi[:level+1],
			subRings: make([]*ring.SubRing, level+1),
			q:        params.QBigInt(level),
		}

		for i, qi := range data.qi {
			var err error
			if data.subRings[i], err = ring.NewSubRing(N, qi); err != nil {
				// qualify has already checked every modulus
				panic(fmt.Errorf("cannot NewContext: %w", err))
			}
		}

		data.logQ, _ = bignum.Log2(bignum.NewFloat(data.q, logQPrec)).Float64()

		c.chain[level] = data
		c.byID[data.parmsID] = data
	}

	c.chain = c.chain[minLevel:]

	return c
}

// qualify checks that the parameters can be used to encode and transform plaintexts.
func qualify(params Parameters) error {

	if params.logN == 0 {
		return fmt.Errorf("%w: parameters are not initialized", ErrInvalidArgument)
	}

	N := uint64(params.N())
	if N < ring.MinimumRingDegree || N > 1<<MaxLogN || !utils.IsPowerOfTwo(N) {
		return fmt.Errorf("%w: N=%d must be a power of two in [%d, %d]", ErrInvalidArgument, N, ring.MinimumRingDegree, 1<<MaxLogN)
	}

	if len(params.qi) == 0 || len(params.qi) > MaxModuliCount {
		return fmt.Errorf("%w: #Qi=%d must be in [1, %d]", ErrInvalidArgument, len(params.qi), MaxModuliCount)
	}

	if !utils.AllDistinct(params.qi) {
		return fmt.Errorf("%w: moduli of Q must be distinct", ErrInvalidArgument)
	}

	for i, qi := range params.qi {
		if b := bits.Len64(qi); b < 2 || b > ring.MaxModulusBits {
			return fmt.Errorf("%w: Q[%d]=%d has %d bits, must be in [2, %d]", ErrInvalidArgument, i, qi, b, ring.MaxModulusBits)
		}
		if !ring.IsNTTFriendly(qi, int(2*N)) {
			return fmt.Errorf("%w: Q[%d]=%d is not a prime equal to 1 mod 2N", ErrInvalidArgument, i, qi)
		}
	}

	t := params.t

	if !params.scheme.usesPlaintextModulus() {
		if t != 0 {
			return fmt.Errorf("%w: scheme %s does not use a plaintext modulus but t=%d", ErrInvalidArgument, params.scheme, t)
		}
		return nil
	}

	if t < 2 || bits.Len64(t) > MaxPlaintextModulusBits {
		return fmt.Errorf("%w: t=%d must be in [2, 2^%d)", ErrInvalidArgument, t, MaxPlaintextModulusBits)
	}

	for i, qi := range params.qi {
		if utils.GCD(t, qi) != 1 {
			return fmt.Errorf("%w: t=%d is not coprime with Q[%d]=%d", ErrInvalidArgument, t, i, qi)
		}
	}

	if new(big.Int).SetUint64(t).Cmp(params.QBigInt(params.MaxLevel())) >= 0 {
		return fmt.Errorf("%w: t=%d must be smaller than Q", ErrInvalidArgument, t)
	}

	return nil
}

// Parameters returns the parameters of the context.
func (c *Context) Parameters() Parameters {
	return c.params
}

// ParametersSet returns true if the parameters qualified.
func (c *Context) ParametersSet() bool {
	return c != nil && c.err == nil
}

// ParametersError returns the reason why the parameters did not qualify, or nil.
func (c *Context) ParametersError() error {
	if c == nil {
		return errors.New("context is nil")
	}
	return c.err
}

// GetContextData returns the level identified by id, or nil if id does not name a level of the chain.
func (c *Context) GetContextData(id ParmsID) *ContextData {
	if !c.ParametersSet() {
		return nil
	}
	return c.byID[id]
}

// FirstContextData returns the top level of the chain, or nil if the parameters did not qualify.
func (c *Context) FirstContextData() *ContextData {
	if !c.ParametersSet() {
		return nil
	}
	return c.chain[len(c.chain)-1]
}

// LastContextData returns the bottom level of the chain, or nil if the parameters did not qualify.
func (c *Context) LastContextData() *ContextData {
	if !c.ParametersSet() {
		return nil
	}
	return c.chain[0]
}

// FirstParmsID returns the identifier of the top level of the chain.
func (c *Context) FirstParmsID() ParmsID {
	if d := c.FirstContextData(); d != nil {
		return d.parmsID
	}
	return ParmsIDZero
}

// LastParmsID returns the identifier of the bottom level of the chain.
func (c *Context) LastParmsID() ParmsID {
	if d := c.LastContextData(); d != nil {
		return d.parmsID
	}
	return ParmsIDZero
}
