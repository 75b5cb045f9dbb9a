package rlwe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"

	"github.com/vingstar/SEAL/utils"
	"github.com/vingstar/SEAL/utils/buffer"
)

// readChunkSize is the number of coefficients read from a stream at a time.
// Storage grows with the data actually read, not with the declared count.
const readChunkSize = 1 << 14

// BinarySize returns the serialized size of the plaintext in bytes.
func (pt *Plaintext) BinarySize() int {
	return ParmsIDSize + 8 + 4 + pt.coeffCount<<3
}

// WriteTo writes the plaintext on w: the [ParmsID], the scale (float64), the
// coefficient count (int32) and the coefficients (uint64), all little-endian.
//
// Unless w implements the buffer.Writer interface (see utils/buffer/buffer.go),
// it will be wrapped into a bufio.Writer. Since this requires allocations, it
// is preferable to pass a buffer.Writer directly:
//
//   - When writing multiple times to a io.Writer, it is preferable to first wrap the
//     io.Writer in a pre-allocated bufio.Writer.
//   - When writing to a pre-allocated var b []byte, it is preferable to pass
//     buffer.NewBuffer(b) as w.
//
// Stream failures wrap [ErrIO].
func (pt *Plaintext) WriteTo(w io.Writer) (n int64, err error) {

	if pt.coeffCount > math.MaxInt32 {
		return 0, fmt.Errorf("cannot WriteTo: %w: coefficient count %d does not fit in an int32", ErrInvalidArgument, pt.coeffCount)
	}

	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		id := pt.form.parmsID.Bytes()
		if inc, err = buffer.Write(w, id[:]); err != nil {
			return n + inc, fmt.Errorf("cannot WriteTo: %w: %w", ErrIO, err)
		}
		n += inc

		if inc, err = buffer.WriteFloat64(w, pt.scale); err != nil {
			return n + inc, fmt.Errorf("cannot WriteTo: %w: %w", ErrIO, err)
		}
		n += inc

		if inc, err = buffer.WriteInt32(w, int32(pt.coeffCount)); err != nil {
			return n + inc, fmt.Errorf("cannot WriteTo: %w: %w", ErrIO, err)
		}
		n += inc

		if inc, err = buffer.WriteUint64Slice(w, pt.coeffs[:pt.coeffCount]); err != nil {
			return n + inc, fmt.Errorf("cannot WriteTo: %w: %w", ErrIO, err)
		}
		n += inc

		if err = w.Flush(); err != nil {
			return n, fmt.Errorf("cannot WriteTo: %w: %w", ErrIO, err)
		}

		return

	default:
		return pt.WriteTo(bufio.NewWriter(w))
	}
}

// Save writes the plaintext on w. See [Plaintext.WriteTo].
func (pt *Plaintext) Save(w io.Writer) (n int64, err error) {
	return pt.WriteTo(w)
}

// MarshalBinary encodes the plaintext on a newly allocated slice of bytes.
func (pt *Plaintext) MarshalBinary() (p []byte, err error) {
	var buf buffer.Buffer
	_, err = pt.WriteTo(&buf)
	return buf.Bytes(), err
}

// ReadFrom reads a plaintext written by [Plaintext.WriteTo] from r and
// overwrites the receiver with it. The content is not checked against any
// parameters: use [Plaintext.Load] on untrusted input.
//
// The payload is read entirely before the receiver is modified: on failure
// the receiver is left untouched. A stream ending early fails with [ErrTruncated],
// any other stream failure with [ErrIO] and a negative coefficient count with
// [ErrInvalidData].
//
// Unless r implements the buffer.Reader interface (see utils/buffer/buffer.go),
// it will be wrapped into a bufio.Reader, which may consume bytes of r past the plaintext.
// Since this requires allocation, it is preferable to pass a buffer.Reader directly:
//
//   - When reading multiple values from a io.Reader, it is preferable to first
//     wrap io.Reader in a pre-allocated bufio.Reader.
//   - When reading from a var b []byte, it is preferable to pass a buffer.NewBuffer(b)
//     as r.
func (pt *Plaintext) ReadFrom(r io.Reader) (n int64, err error) {

	switch r := r.(type) {
	case buffer.Reader:

		var id [ParmsIDSize]byte
		var inc int

		if inc, err = io.ReadFull(r, id[:]); err != nil {
			return int64(inc), readError(err)
		}
		n += int64(inc)

		var inc64 int64

		var scale float64
		if inc64, err = buffer.ReadFloat64(r, &scale); err != nil {
			return n + inc64, readError(err)
		}
		n += inc64

		var coeffCount int32
		if inc64, err = buffer.ReadInt32(r, &coeffCount); err != nil {
			return n + inc64, readError(err)
		}
		n += inc64

		if coeffCount < 0 {
			return n, fmt.Errorf("cannot ReadFrom: %w: coefficient count %d is negative", ErrInvalidData, coeffCount)
		}

		coeffs := make([]uint64, 0, utils.Min(int(coeffCount), readChunkSize))

		for len(coeffs) < int(coeffCount) {

			chunk := utils.Min(int(coeffCount)-len(coeffs), readChunkSize)
			start := len(coeffs)
			coeffs = append(coeffs, make([]uint64, chunk)...)

			if inc64, err = buffer.ReadUint64Slice(r, coeffs[start:]); err != nil {
				return n + inc64, readError(err)
			}
			n += inc64
		}

		if len(coeffs) > pt.Capacity() {
			var buff []uint64
			if buff, err = pt.memPool().Allocate(len(coeffs)); err != nil {
				return n, fmt.Errorf("cannot ReadFrom: %w", err)
			}
			pt.replace(buff, 0)
		}

		copy(pt.coeffs, coeffs)

		pt.coeffCount = len(coeffs)
		pt.form = nttForm(ParmsIDFromBytes(id))
		pt.scale = scale

		return

	default:
		return pt.ReadFrom(bufio.NewReader(r))
	}
}

// UnsafeLoad reads a plaintext from r without validating it. See [Plaintext.ReadFrom].
func (pt *Plaintext) UnsafeLoad(r io.Reader) (n int64, err error) {
	return pt.ReadFrom(r)
}

// UnmarshalBinary decodes a slice of bytes generated by [Plaintext.MarshalBinary] on the receiver.
func (pt *Plaintext) UnmarshalBinary(p []byte) (err error) {
	_, err = pt.ReadFrom(buffer.NewBuffer(p))
	return
}

// Load reads a plaintext from r and checks it with [Plaintext.IsValidFor].
// If the loaded plaintext is not valid for ctx, it fails with [ErrInvalidData]
// and the receiver keeps the loaded content, which must not be trusted.
func (pt *Plaintext) Load(ctx *Context, r io.Reader) (n int64, err error) {

	if ctx == nil {
		return 0, fmt.Errorf("cannot Load: %w: context is nil", ErrNullInput)
	}

	if n, err = pt.ReadFrom(r); err != nil {
		return n, fmt.Errorf("cannot Load: %w", err)
	}

	var valid bool
	if valid, err = pt.IsValidFor(ctx); err != nil {
		return n, fmt.Errorf("cannot Load: %w", err)
	}

	if !valid {
		Logger().Debug("loaded plaintext rejected",
			zap.Stringer("parmsID", pt.form.parmsID),
			zap.Int("coeffCount", pt.coeffCount))
		return n, fmt.Errorf("cannot Load: %w: plaintext is not valid for the context", ErrInvalidData)
	}

	return
}

// readError classifies a stream failure.
func readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("cannot ReadFrom: %w: %w", ErrTruncated, err)
	}
	return fmt.Errorf("cannot ReadFrom: %w: %w", ErrIO, err)
}
