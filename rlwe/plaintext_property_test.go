package rlwe

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newTestPlaintext(coeffs []uint64) *Plaintext {
	pt, err := NewPlaintext(DefaultPool())
	if err != nil {
		panic(err)
	}
	if err = pt.SetCoeffs(coeffs); err != nil {
		panic(err)
	}
	return pt
}

func TestPlaintextProperties(t *testing.T) {

	parameters := gopter.DefaultTestParametersWithSeed(0x5ea1)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("Resize exposes zero coefficients", prop.ForAll(
		func(coeffs []uint64, count int) bool {
			pt := newTestPlaintext(coeffs)
			if err := pt.Resize(count); err != nil {
				return false
			}
			for i := 0; i < count; i++ {
				v, err := pt.At(i)
				if err != nil {
					return false
				}
				if i < len(coeffs) && v != coeffs[i] || i >= len(coeffs) && v != 0 {
					return false
				}
			}
			return pt.CoeffCount() == count
		},
		gen.SliceOf(gen.UInt64()),
		gen.IntRange(0, 256),
	))

	properties.Property("Reserve then Resize does not reallocate", prop.ForAll(
		func(coeffs []uint64, capacity int) bool {
			pt := newTestPlaintext(coeffs)
			if err := pt.Reserve(capacity); err != nil {
				return false
			}
			reserved := pt.Capacity()
			backing := pt.coeffs
			if err := pt.Resize(capacity); err != nil {
				return false
			}
			return pt.Capacity() == reserved && (capacity == 0 || &backing[0] == &pt.coeffs[0])
		},
		gen.SliceOfN(4, gen.UInt64()),
		gen.IntRange(4, 256),
	))

	properties.Property("binary round trip", prop.ForAll(
		func(coeffs []uint64, scale float64, id uint64) bool {
			pt := newTestPlaintext(coeffs)
			pt.SetScale(scale)
			pt.form = nttForm(ParmsID{id, ^id, id, 1})

			w := new(bytes.Buffer)
			if _, err := pt.Save(w); err != nil {
				return false
			}

			ptNew := newTestPlaintext(nil)
			if _, err := ptNew.UnsafeLoad(w); err != nil {
				return false
			}

			return ptNew.ParmsID() == pt.ParmsID() &&
				ptNew.Scale() == pt.Scale() &&
				ptNew.CoeffCount() == pt.CoeffCount() &&
				pt.Equal(ptNew)
		},
		gen.SliceOf(gen.UInt64()),
		gen.Float64Range(-1e300, 1e300),
		gen.UInt64(),
	))

	properties.Property("equality ignores trailing zeros", prop.ForAll(
		func(coeffs []uint64, zeros int) bool {
			pt := newTestPlaintext(coeffs)
			padded := newTestPlaintext(append(append([]uint64{}, coeffs...), make([]uint64, zeros)...))
			return pt.Equal(padded) && padded.Equal(pt)
		},
		gen.SliceOf(gen.UInt64()),
		gen.IntRange(0, 16),
	))

	properties.Property("equality detects a changed coefficient", prop.ForAll(
		func(coeffs []uint64, i int, delta uint64) bool {
			i %= len(coeffs)
			other := newTestPlaintext(coeffs)
			other.coeffs[i] += delta
			return !newTestPlaintext(coeffs).Equal(other)
		},
		gen.SliceOfN(8, gen.UInt64()),
		gen.IntRange(0, 7),
		gen.UInt64Range(1, 1<<32),
	))

	properties.Property("hex round trip", prop.ForAll(
		func(coeffs []uint64) bool {
			pt := newTestPlaintext(coeffs)
			s, err := pt.Hex()
			if err != nil {
				return false
			}
			parsed, err := NewPlaintextFromHex(s, DefaultPool())
			if err != nil {
				return false
			}
			return pt.Equal(parsed) && parsed.CoeffCount() == pt.SignificantCoeffCount()
		},
		gen.SliceOf(gen.OneGenOf(gen.Const(uint64(0)), gen.UInt64())),
	))

	properties.Property("zero polynomial", prop.ForAll(
		func(count int) bool {
			pt, err := NewPlaintextWithCount(count, DefaultPool())
			if err != nil {
				return false
			}
			s, err := pt.Hex()
			return err == nil && s == "0" && pt.IsZero() && pt.SignificantCoeffCount() == 0
		},
		gen.IntRange(0, 1024),
	))

	properties.TestingRun(t)
}
