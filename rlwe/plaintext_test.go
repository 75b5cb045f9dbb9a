package rlwe

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaintext(t *testing.T) {

	pools := map[string]func() MemoryPool{
		"HeapPool": func() MemoryPool { return NewHeapPool(0) },
		"SyncPool": func() MemoryPool { return NewSyncPool() },
	}

	for name, newPool := range pools {

		t.Run(name+"/New", func(t *testing.T) {

			_, err := NewPlaintext(nil)
			require.ErrorIs(t, err, ErrInvalidArgument)

			_, err = NewPlaintextWithCount(-1, newPool())
			require.ErrorIs(t, err, ErrInvalidArgument)

			_, err = NewPlaintextWithCapacity(2, 3, newPool())
			require.ErrorIs(t, err, ErrInvalidArgument)

			pt, err := NewPlaintext(newPool())
			require.NoError(t, err)
			require.Equal(t, 0, pt.CoeffCount())
			require.Equal(t, 0, pt.Capacity())
			require.Equal(t, ParmsIDZero, pt.ParmsID())
			require.False(t, pt.IsNTTForm())
			require.Equal(t, DefaultScale, pt.Scale())
			require.True(t, pt.IsZero())

			pt, err = NewPlaintextWithCapacity(8, 3, newPool())
			require.NoError(t, err)
			require.Equal(t, 3, pt.CoeffCount())
			require.Equal(t, 8, pt.Capacity())
			require.Equal(t, []uint64{0, 0, 0}, pt.Coeffs())
		})

		t.Run(name+"/Resize", func(t *testing.T) {

			pt, err := NewPlaintext(newPool())
			require.NoError(t, err)

			require.ErrorIs(t, pt.Resize(-1), ErrInvalidArgument)
			require.ErrorIs(t, pt.Reserve(-1), ErrInvalidArgument)

			require.NoError(t, pt.SetCoeffs([]uint64{1, 2, 3, 4}))
			require.Equal(t, 4, pt.Capacity())

			// shrinking keeps the allocation
			require.NoError(t, pt.Resize(2))
			require.Equal(t, 2, pt.CoeffCount())
			require.Equal(t, 4, pt.Capacity())

			// newly exposed coefficients are zero
			require.NoError(t, pt.Resize(4))
			require.Equal(t, []uint64{1, 2, 0, 0}, pt.Coeffs())

			// growing reallocates and preserves
			require.NoError(t, pt.Resize(6))
			require.Equal(t, []uint64{1, 2, 0, 0, 0, 0}, pt.Coeffs())
			require.GreaterOrEqual(t, pt.Capacity(), 6)

			require.NoError(t, pt.Resize(1))
			require.NoError(t, pt.ShrinkToFit())
			require.Equal(t, 1, pt.Capacity())
			require.Equal(t, []uint64{1}, pt.Coeffs())

			require.NoError(t, pt.ShrinkToFit())
			require.Equal(t, 1, pt.Capacity())

			pt.Release()
			require.Equal(t, 0, pt.Capacity())
			require.Equal(t, 0, pt.CoeffCount())
		})

		t.Run(name+"/Reserve", func(t *testing.T) {

			pt, err := NewPlaintext(newPool())
			require.NoError(t, err)
			require.NoError(t, pt.SetCoeffs([]uint64{7, 8}))

			require.NoError(t, pt.Reserve(16))
			require.Equal(t, 16, pt.Capacity())
			require.Equal(t, []uint64{7, 8}, pt.Coeffs())

			// never shrinks
			require.NoError(t, pt.Reserve(1))
			require.Equal(t, 16, pt.Capacity())

			// resizing within the reserved capacity does not reallocate
			before := &pt.coeffs[0]
			require.NoError(t, pt.Resize(16))
			require.Equal(t, 16, pt.Capacity())
			require.True(t, before == &pt.coeffs[0])
			require.Equal(t, uint64(7), pt.Coeffs()[0])
		})

		t.Run(name+"/Access", func(t *testing.T) {

			pt, err := NewPlaintextWithCount(4, newPool())
			require.NoError(t, err)

			require.NoError(t, pt.Set(3, 9))
			v, err := pt.At(3)
			require.NoError(t, err)
			require.Equal(t, uint64(9), v)

			for _, i := range []int{-1, 4} {
				_, err = pt.At(i)
				require.ErrorIs(t, err, ErrOutOfRange)
				require.ErrorIs(t, pt.Set(i, 1), ErrOutOfRange)
			}

			require.NoError(t, pt.SetConstant(5))
			require.Equal(t, []uint64{5}, pt.Coeffs())
		})

		t.Run(name+"/SetZero", func(t *testing.T) {

			pt, err := NewPlaintext(newPool())
			require.NoError(t, err)
			require.NoError(t, pt.SetCoeffs([]uint64{1, 2, 3, 4}))

			require.ErrorIs(t, pt.SetZeroRange(2, 3), ErrOutOfRange)
			require.ErrorIs(t, pt.SetZeroRange(-1, 1), ErrOutOfRange)
			require.ErrorIs(t, pt.SetZeroRange(0, -1), ErrOutOfRange)
			require.ErrorIs(t, pt.SetZeroFrom(5), ErrOutOfRange)
			require.Equal(t, []uint64{1, 2, 3, 4}, pt.Coeffs())

			require.NoError(t, pt.SetZeroRange(1, 2))
			require.Equal(t, []uint64{1, 0, 0, 4}, pt.Coeffs())

			require.NoError(t, pt.SetZeroFrom(3))
			require.Equal(t, []uint64{1, 0, 0, 0}, pt.Coeffs())

			require.NoError(t, pt.SetZeroFrom(4))

			pt.SetZero()
			require.True(t, pt.IsZero())
			require.Equal(t, 4, pt.CoeffCount())
		})

		t.Run(name+"/Counts", func(t *testing.T) {

			pt, err := NewPlaintext(newPool())
			require.NoError(t, err)
			require.NoError(t, pt.SetCoeffs([]uint64{0, 3, 0, 1, 0, 0}))

			require.False(t, pt.IsZero())
			require.Equal(t, 4, pt.SignificantCoeffCount())
			require.Equal(t, 2, pt.NonzeroCoeffCount())

			zero, err := NewPlaintextWithCount(5, newPool())
			require.NoError(t, err)
			require.True(t, zero.IsZero())
			require.Equal(t, 0, zero.SignificantCoeffCount())
			require.Equal(t, 0, zero.NonzeroCoeffCount())
		})

		t.Run(name+"/Equal", func(t *testing.T) {

			pool := newPool()

			newPt := func(coeffs ...uint64) *Plaintext {
				pt, err := NewPlaintext(pool)
				require.NoError(t, err)
				require.NoError(t, pt.SetCoeffs(coeffs))
				return pt
			}

			require.True(t, newPt(3, 0, 0).Equal(newPt(3)))
			require.True(t, newPt(3).Equal(newPt(3, 0, 0, 0, 0)))
			require.False(t, newPt(3, 1, 0).Equal(newPt(3, 0, 0)))
			require.True(t, newPt().Equal(newPt(0, 0)))

			var nilPt *Plaintext
			require.True(t, nilPt.Equal(nil))
			require.False(t, newPt(1).Equal(nil))
			require.False(t, nilPt.Equal(newPt(1)))

			other := newPt(3)
			other.form = nttForm(ParmsID{1})
			require.False(t, newPt(3).Equal(other))
		})

		t.Run(name+"/Copy", func(t *testing.T) {

			pool := newPool()

			src, err := NewPlaintext(pool)
			require.NoError(t, err)
			require.NoError(t, src.SetCoeffs([]uint64{1, 2, 3}))
			src.SetScale(1 << 20)

			dst, err := NewPlaintext(pool)
			require.NoError(t, err)
			require.NoError(t, dst.Copy(src))
			require.True(t, dst.Equal(src))
			require.Equal(t, src.Scale(), dst.Scale())

			// no aliasing
			require.NoError(t, dst.Set(0, 42))
			v, err := src.At(0)
			require.NoError(t, err)
			require.Equal(t, uint64(1), v)

			cpy, err := src.CopyNew()
			require.NoError(t, err)
			require.True(t, cpy.Equal(src))
			require.NoError(t, cpy.Set(1, 42))
			require.False(t, cpy.Equal(src))

			require.ErrorIs(t, dst.Copy(nil), ErrInvalidArgument)
			require.NoError(t, dst.Copy(dst))
		})
	}
}

func TestPlaintextZeroValue(t *testing.T) {

	src, err := NewPlaintext(DefaultPool())
	require.NoError(t, err)
	require.NoError(t, src.SetCoeffs([]uint64{1, 2, 3}))
	data, err := src.MarshalBinary()
	require.NoError(t, err)

	for name, f := range map[string]func(pt *Plaintext) error{
		"UnmarshalBinary": func(pt *Plaintext) error { return pt.UnmarshalBinary(data) },
		"Resize":          func(pt *Plaintext) error { return pt.Resize(4) },
		"Reserve":         func(pt *Plaintext) error { return pt.Reserve(4) },
		"Release":         func(pt *Plaintext) error { pt.Release(); return nil },
		"ShrinkToFit":     func(pt *Plaintext) error { return pt.ShrinkToFit() },
		"Copy":            func(pt *Plaintext) error { return pt.Copy(src) },
		"SetHex":          func(pt *Plaintext) error { return pt.SetHex("3x^2 + 1") },
	} {
		t.Run(name, func(t *testing.T) {
			var pt Plaintext
			require.NotPanics(t, func() { require.NoError(t, f(&pt)) })
			require.Equal(t, CoefficientForm, pt.Form())
			require.Equal(t, DefaultPool(), pt.Pool())
		})
	}

	var pt Plaintext
	require.NoError(t, pt.UnmarshalBinary(data))
	require.True(t, pt.Equal(src))

	cpy, err := pt.CopyNew()
	require.NoError(t, err)
	require.True(t, cpy.Equal(src))
}

func TestPlaintextForm(t *testing.T) {

	pt, err := NewPlaintextWithCount(2, DefaultPool())
	require.NoError(t, err)
	require.Equal(t, CoefficientForm, pt.Form())
	require.Equal(t, "CoefficientForm", pt.Form().String())

	// a zero identifier never tags NTT form
	pt.form = nttForm(ParmsIDZero)
	require.Equal(t, CoefficientForm, pt.Form())
	require.False(t, pt.IsNTTForm())

	pt.form = nttForm(ParmsID{1})
	require.Equal(t, NTTForm, pt.Form())
	require.True(t, pt.IsNTTForm())
	require.Equal(t, ParmsID{1}, pt.ParmsID())
	require.ErrorIs(t, pt.Resize(1), ErrIllegalState)

	pt.Release()
	require.Equal(t, CoefficientForm, pt.Form())
	require.True(t, pt.ParmsID().IsZero())
	require.Equal(t, "Form(5)", Form(5).String())
}

func TestPlaintextHex(t *testing.T) {

	pool := NewHeapPool(0)

	t.Run("Format", func(t *testing.T) {

		pt, err := NewPlaintextWithCount(4, pool)
		require.NoError(t, err)
		require.NoError(t, pt.Set(0, 0x3))
		require.NoError(t, pt.Set(1, 0x1))
		require.NoError(t, pt.Set(3, 0x7FF))

		s, err := pt.Hex()
		require.NoError(t, err)
		require.Equal(t, "7FFx^3 + 1x^1 + 3", s)
		require.Equal(t, s, pt.String())

		for _, count := range []int{0, 1, 17} {
			zero, err := NewPlaintextWithCount(count, pool)
			require.NoError(t, err)
			s, err := zero.Hex()
			require.NoError(t, err)
			require.Equal(t, "0", s)
		}

		require.NoError(t, pt.SetCoeffs([]uint64{0, 0xabcdef}))
		s, err = pt.Hex()
		require.NoError(t, err)
		require.Equal(t, "ABCDEFx^1", s)
	})

	t.Run("Parse", func(t *testing.T) {

		for _, tt := range []struct {
			s      string
			coeffs []uint64
		}{
			{"0", []uint64{}},
			{"3", []uint64{3}},
			{"7FFx^3 + 1x^1 + 3", []uint64{3, 1, 0, 0x7FF}},
			{"7ffx^3 + 1x^1 + 3", []uint64{3, 1, 0, 0x7FF}},
			{"1x^1", []uint64{0, 1}},
			{"FFFFFFFFFFFFFFFFx^10 + 1", []uint64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xFFFFFFFFFFFFFFFF}},
		} {
			pt, err := NewPlaintextFromHex(tt.s, pool)
			require.NoError(t, err, tt.s)
			require.Equal(t, len(tt.coeffs), pt.CoeffCount(), tt.s)
			for i, c := range tt.coeffs {
				v, err := pt.At(i)
				require.NoError(t, err)
				require.Equal(t, c, v, tt.s)
			}
		}
	})

	t.Run("Reject", func(t *testing.T) {

		pt, err := NewPlaintextFromHex("5x^2 + 1", pool)
		require.NoError(t, err)

		for _, s := range []string{
			"",
			" ",
			"00",
			"03",
			"0x^1",
			"1x^1 + 0",
			"G",
			"-1",
			"1x^-1",
			"1x^+1",
			"1x^0",
			"1x^01",
			"1x^",
			"x^1",
			"1x1",
			"1X^1",
			"1x^1.0",
			"1x^1+3",
			"1x^1 +3",
			"1x^1  + 3",
			"1x^1 + 3 + ",
			" + 3",
			"3 + 1x^1",
			"1x^1 + 1x^1",
			"1x^1 + 1x^2",
			"1 + 2",
			"10000000000000000",
			"1x^99999999999",
			"1x^2147483646",
			fmt.Sprintf("1x^%d", MaxHexDegree+1),
			"1x^1x^2",
		} {
			_, err := NewPlaintextFromHex(s, pool)
			require.ErrorIs(t, err, ErrFormat, "%q", s)

			require.ErrorIs(t, pt.SetHex(s), ErrFormat, "%q", s)
			require.Equal(t, []uint64{1, 0, 5}, pt.Coeffs(), "%q", s)
		}
	})

	t.Run("MaxDegree", func(t *testing.T) {
		pt, err := NewPlaintextFromHex(fmt.Sprintf("1x^%d", MaxHexDegree), pool)
		require.NoError(t, err)
		require.Equal(t, 1<<MaxLogN, pt.CoeffCount())
		require.Equal(t, uint64(1), pt.Coeffs()[MaxHexDegree])
	})

	t.Run("RoundTrip", func(t *testing.T) {

		pt, err := NewPlaintext(pool)
		require.NoError(t, err)
		require.NoError(t, pt.SetCoeffs([]uint64{0, 0, 0xDEADBEEF, 0, 1, 0, 0}))

		s, err := pt.Hex()
		require.NoError(t, err)
		require.Equal(t, "1x^4 + DEADBEEFx^2", s)

		parsed, err := NewPlaintextFromHex(s, pool)
		require.NoError(t, err)
		require.True(t, pt.Equal(parsed))
		require.Equal(t, pt.SignificantCoeffCount(), parsed.CoeffCount())
	})
}

func TestMemoryPool(t *testing.T) {

	t.Run("HeapPool/Quota", func(t *testing.T) {

		pool := NewHeapPool(16)

		pt, err := NewPlaintextWithCount(10, pool)
		require.NoError(t, err)
		require.Equal(t, 10, pool.InUse())

		_, err = NewPlaintextWithCount(7, pool)
		require.ErrorIs(t, err, ErrAllocation)

		// failed growth leaves the plaintext untouched
		require.ErrorIs(t, pt.Resize(17), ErrAllocation)
		require.Equal(t, 10, pt.CoeffCount())
		require.Equal(t, 10, pt.Capacity())

		require.NoError(t, pt.Resize(4))
		require.NoError(t, pt.ShrinkToFit())
		require.Equal(t, 4, pool.InUse())

		pt.Release()
		require.Equal(t, 0, pool.InUse())

		_, err = pool.Allocate(-1)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("HeapPool/Unlimited", func(t *testing.T) {
		buff, err := DefaultPool().Allocate(1 << 10)
		require.NoError(t, err)
		require.Len(t, buff, 1<<10)
		DefaultPool().Free(buff)
	})

	t.Run("SyncPool", func(t *testing.T) {

		pool := NewSyncPool()

		buff, err := pool.Allocate(5)
		require.NoError(t, err)
		require.Len(t, buff, 5)
		require.Equal(t, 8, cap(buff))

		for i := range buff {
			buff[i] = uint64(i + 1)
		}
		pool.Free(buff)

		// recycled slices are zeroed
		buff, err = pool.Allocate(7)
		require.NoError(t, err)
		require.Equal(t, make([]uint64, 7), buff)

		buff, err = pool.Allocate(0)
		require.NoError(t, err)
		require.Len(t, buff, 0)

		_, err = pool.Allocate(math.MaxInt)
		require.ErrorIs(t, err, ErrAllocation)

		_, err = pool.Allocate(-1)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}
