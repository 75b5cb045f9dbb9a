package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ReadUint32 reads a uint32 from r and stores the result into c.
// A stream that ends before 4 bytes could be read returns io.ErrUnexpectedEOF
// (or io.EOF if nothing was read).
func ReadUint32(r Reader, c *uint32) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint32: c is nil")
	}

	var bb = [4]byte{}

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = binary.LittleEndian.Uint32(bb[:])

	return int64(nint), nil
}

// ReadInt32 reads an int32 in two's complement from r and stores the result into c.
func ReadInt32(r Reader, c *int32) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadInt32: c is nil")
	}

	var u uint32
	if n, err = ReadUint32(r, &u); err != nil {
		return
	}

	*c = int32(u)

	return
}

// ReadUint64 reads a uint64 from r and stores the result into c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}

	var bb = [8]byte{}

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = binary.LittleEndian.Uint64(bb[:])

	return int64(nint), nil
}

// ReadFloat64 reads an IEEE 754 float64 from r and stores the result into c.
func ReadFloat64(r Reader, c *float64) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadFloat64: c is nil")
	}

	var u uint64
	if n, err = ReadUint64(r, &u); err != nil {
		return
	}

	*c = math.Float64frombits(u)

	return
}

// ReadUint64Slice reads a slice of uint64 from r and stores the result into c.
// If the stream ends before c is filled, the returned error is io.ErrUnexpectedEOF.
func ReadUint64Slice(r Reader, c []uint64) (n int64, err error) {

	// c is empty, return
	if len(c) == 0 {
		return
	}

	var slice []byte

	// Avoid EOF
	size := r.Size()
	if len(c)<<3 < size {
		size = len(c) << 3
	}

	// Then returns the written bytes
	if slice, err = r.Peek(size); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return
	}

	buffered := len(slice) >> 3

	// Less than one word left in the stream
	if buffered == 0 {
		return 0, io.ErrUnexpectedEOF
	}

	// If the slice to write on is equal or smaller than the amount peaked
	if N := len(c); N <= buffered {

		for i, j := 0, 0; i < N; i, j = i+1, j+8 {
			c[i] = binary.LittleEndian.Uint64(slice[j:])
		}

		inc, err := r.Discard(N << 3) // Discards what was read
		return int64(inc), err
	}

	// Decodes the maximum
	for i, j := 0, 0; i < buffered; i, j = i+1, j+8 {
		c[i] = binary.LittleEndian.Uint64(slice[j:])
	}

	// Discard what was peeked
	var inc int
	if inc, err = r.Discard(buffered << 3); err != nil {
		return n + int64(inc), err
	}

	n += int64(inc)

	// Recurses on the remaining slice to fill
	var inc64 int64
	inc64, err = ReadUint64Slice(r, c[buffered:])

	return n + inc64, err
}
