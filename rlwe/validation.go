package rlwe

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// reject logs the reason why the plaintext is not valid for the context.
func (pt *Plaintext) reject(reason string, fields ...zap.Field) bool {
	Logger().Debug("plaintext not valid for context",
		append([]zap.Field{
			zap.String("reason", reason),
			zap.Stringer("parmsID", pt.form.parmsID),
			zap.Int("coeffCount", pt.coeffCount),
		}, fields...)...)
	return false
}

// IsMetadataValidFor checks whether the form, size and scale of the plaintext match
// what ctx expects:
//   - in coefficient form, the parameters must use a plaintext modulus and the
//     coefficient count must not exceed the ring degree;
//   - in NTT form, the [ParmsID] must name a level of ctx and the coefficient count
//     must be the number of moduli of that level times the ring degree;
//   - for CKKS, the scale must be a finite positive number smaller than the modulus of the level.
//
// A context whose parameters did not qualify is never matched. The method only
// fails, with [ErrNullInput], if ctx is nil.
func (pt *Plaintext) IsMetadataValidFor(ctx *Context) (bool, error) {

	if ctx == nil {
		return false, fmt.Errorf("cannot IsMetadataValidFor: %w: context is nil", ErrNullInput)
	}

	if !ctx.ParametersSet() {
		return pt.reject("parameters are not set", zap.Error(ctx.ParametersError())), nil
	}

	params := ctx.Parameters()
	N := params.N()

	if !pt.IsNTTForm() {

		if !params.Scheme().usesPlaintextModulus() {
			return pt.reject("coefficient form is not supported by the scheme", zap.Stringer("scheme", params.Scheme())), nil
		}

		if pt.coeffCount > N {
			return pt.reject("coefficient count exceeds the ring degree", zap.Int("N", N)), nil
		}

		return true, nil
	}

	data := ctx.GetContextData(pt.form.parmsID)
	if data == nil {
		return pt.reject("parms id is not in the modulus chain"), nil
	}

	if pt.coeffCount != data.QCount()*N {
		return pt.reject("coefficient count does not match the level", zap.Int("N", N), zap.Int("level", data.Level())), nil
	}

	if params.Scheme() == SchemeCKKS {
		if math.IsNaN(pt.scale) || math.IsInf(pt.scale, 0) || pt.scale <= 0 {
			return pt.reject("scale is not a finite positive number", zap.Float64("scale", pt.scale)), nil
		}
		if logScale := pt.LogScale(); logScale >= data.LogQ() {
			return pt.reject("scale exceeds the modulus", zap.Float64("logScale", logScale), zap.Float64("logQ", data.LogQ())), nil
		}
	}

	return true, nil
}

// IsValidFor checks [Plaintext.IsMetadataValidFor] and that every coefficient
// is reduced: smaller than the plaintext modulus in coefficient form, smaller
// than the modulus of its block in NTT form.
// The method only fails, with [ErrNullInput], if ctx is nil.
func (pt *Plaintext) IsValidFor(ctx *Context) (valid bool, err error) {

	if valid, err = pt.IsMetadataValidFor(ctx); !valid || err != nil {
		if err != nil {
			err = fmt.Errorf("cannot IsValidFor: %w", err)
		}
		return
	}

	if !pt.IsNTTForm() {
		t := ctx.Parameters().PlaintextModulus()
		for i, c := range pt.Coeffs() {
			if c >= t {
				return pt.reject("coefficient is not reduced modulo t", zap.Int("index", i), zap.Uint64("t", t)), nil
			}
		}
		return true, nil
	}

	N := ctx.Parameters().N()
	coeffs := pt.Coeffs()

	for j, qj := range ctx.GetContextData(pt.form.parmsID).Q() {
		for i, c := range coeffs[j*N : (j+1)*N] {
			if c >= qj {
				return pt.reject("coefficient is not reduced modulo q", zap.Int("index", j*N+i), zap.Uint64("q", qj)), nil
			}
		}
	}

	return true, nil
}
