package rlwe

import (
	"fmt"
)

// Transformer moves plaintexts between coefficient form and NTT form
// over the modulus chain of a [Context]. It is the only way to bind a
// [Plaintext] to a [ParmsID].
// A Transformer is safe for concurrent use on distinct plaintexts.
type Transformer struct {
	ctx *Context
}

// NewTransformer returns a new [Transformer] over ctx.
// The parameters of ctx must have qualified.
func NewTransformer(ctx *Context) (*Transformer, error) {

	if ctx == nil {
		return nil, fmt.Errorf("cannot NewTransformer: %w: context is nil", ErrInvalidArgument)
	}

	if !ctx.ParametersSet() {
		return nil, fmt.Errorf("cannot NewTransformer: %w: parameters are not set: %w", ErrInvalidArgument, ctx.ParametersError())
	}

	return &Transformer{ctx: ctx}, nil
}

// ToNTT reduces the coefficients of pt modulo each modulus of the level identified by id
// and maps each of the resulting blocks of N words to the NTT domain. pt is then bound to id.
func (tr *Transformer) ToNTT(pt *Plaintext, id ParmsID) (err error) {

	if pt == nil {
		return fmt.Errorf("cannot ToNTT: %w: plaintext is nil", ErrInvalidArgument)
	}

	if err = pt.checkCoeffForm("ToNTT"); err != nil {
		return
	}

	data := tr.ctx.GetContextData(id)
	if data == nil {
		return fmt.Errorf("cannot ToNTT: %w: parms id %s is not in the modulus chain", ErrInvalidArgument, id)
	}

	N := tr.ctx.Parameters().N()

	if pt.coeffCount > N {
		return fmt.Errorf("cannot ToNTT: %w: coefficient count %d exceeds N=%d", ErrInvalidArgument, pt.coeffCount, N)
	}

	if err = pt.Reserve(data.QCount() * N); err != nil {
		return fmt.Errorf("cannot ToNTT: %w", err)
	}

	coeffs := pt.coeffs[:data.QCount()*N]
	clear(coeffs[pt.coeffCount:N])

	// Block 0 holds the input until it is overwritten last.
	for j := data.QCount() - 1; j >= 0; j-- {
		s := data.SubRings()[j]
		block := coeffs[j*N : (j+1)*N]
		s.Reduce(coeffs[:N], block)
		s.NTT(block, block)
	}

	pt.coeffCount = len(coeffs)
	pt.form = nttForm(id)

	return
}

// FromNTT maps the first block of pt back to coefficient form and drops the others.
// The result is exact if the coefficients given to [Transformer.ToNTT] were
// smaller than the first modulus. The coefficient count becomes N.
func (tr *Transformer) FromNTT(pt *Plaintext) (err error) {

	if pt == nil {
		return fmt.Errorf("cannot FromNTT: %w: plaintext is nil", ErrInvalidArgument)
	}

	if !pt.IsNTTForm() {
		return fmt.Errorf("cannot FromNTT: %w: plaintext is not in NTT form", ErrIllegalState)
	}

	data := tr.ctx.GetContextData(pt.form.parmsID)
	if data == nil {
		return fmt.Errorf("cannot FromNTT: %w: parms id %s is not in the modulus chain", ErrInvalidArgument, pt.form.parmsID)
	}

	N := tr.ctx.Parameters().N()

	if pt.coeffCount != data.QCount()*N {
		return fmt.Errorf("cannot FromNTT: %w: coefficient count %d does not match %d moduli of degree %d", ErrInvalidArgument, pt.coeffCount, data.QCount(), N)
	}

	block := pt.coeffs[:N]
	data.SubRings()[0].INTT(block, block)

	pt.coeffCount = N
	pt.form = coefficientForm()

	return
}
