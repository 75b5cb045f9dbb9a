// Package buffer implement methods for efficiently writing and reading values
// to and from io.Writer and io.Reader that also expose their internal buffers.
package buffer

import (
	"fmt"
	"io"
)

// Writer is an interface for writers that expose their internal
// buffers.
// This interface is notably implemented by the bufio.Writer type
// (see https://pkg.go.dev/bufio#Writer) and by the Buffer type.
type Writer interface {
	io.Writer
	Flush() (err error)
	AvailableBuffer() []byte
	Available() int
}

// Reader is an interface for readers that expose their internal
// buffers.
// This interface is notably implemented by the bufio.Reader type
// (see https://pkg.go.dev/bufio#Reader) and by the Buffer type.
type Reader interface {
	io.Reader
	Size() int
	Peek(n int) ([]byte, error)
	Discard(n int) (discarded int, err error)
}

// minGrowth is the smallest capacity a Buffer grows to.
const minGrowth = 64

// Buffer is a []byte-based buffer that complies to the Writer and Reader
// interfaces. Bytes are written at the end of the buffer and read from its
// front. The backing slice grows on demand; the zero value is an empty
// buffer ready to use.
type Buffer struct {
	buf []byte // buf[off:] is unread
	off int
}

// NewBuffer creates a new Buffer whose unread content is buff.
// Writes are appended after buff, in place as long as cap(buff) allows.
func NewBuffer(buff []byte) *Buffer {
	return &Buffer{buf: buff}
}

// NewBufferSize creates a new empty Buffer with room for size bytes.
func NewBufferSize(size int) *Buffer {
	return &Buffer{buf: make([]byte, 0, size)}
}

// Grow ensures that n more bytes can be written without reallocating.
func (b *Buffer) Grow(n int) {
	if n < 0 {
		panic(fmt.Errorf("cannot Grow: negative size %d", n))
	}

	if cap(b.buf)-len(b.buf) >= n {
		return
	}

	// Reclaims the bytes already read if they make enough room.
	if unread := len(b.buf) - b.off; b.off > 0 && cap(b.buf)-unread >= n {
		copy(b.buf, b.buf[b.off:])
		b.buf = b.buf[:unread]
		b.off = 0
		return
	}

	size := 2 * cap(b.buf)
	if size < len(b.buf)+n {
		size = len(b.buf) + n
	}
	if size < minGrowth {
		size = minGrowth
	}

	buf := make([]byte, len(b.buf), size)
	copy(buf, b.buf)
	b.buf = buf
}

// Write appends p to b, growing the backing slice if needed.
// The case where p was obtained from b.AvailableBuffer() does not copy.
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.Grow(len(p))
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// Flush makes room for at least one more write on a full buffer.
func (b *Buffer) Flush() (err error) {
	if b.Available() == 0 {
		b.Grow(minGrowth)
	}
	return nil
}

// AvailableBuffer returns an empty buffer with b.Available() capacity, to be
// directly appended to and passed to a Write call. The buffer is only valid
// until the next write operation on b.
func (b *Buffer) AvailableBuffer() []byte {
	return b.buf[len(b.buf):]
}

// Available returns the number of bytes that can be written without growing the buffer.
func (b *Buffer) Available() int {
	return cap(b.buf) - len(b.buf)
}

// Bytes returns the unread bytes of b. The slice aliases the buffer
// content and is only valid until the next write.
func (b *Buffer) Bytes() []byte {
	return b.buf[b.off:]
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return len(b.buf) - b.off
}

// Reset empties the buffer, keeping its capacity.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.off = 0
}

// Read reads len(p) bytes from the front of b into p. It returns the
// number n of bytes read and io.EOF if n < len(p).
func (b *Buffer) Read(p []byte) (n int, err error) {
	n = copy(p, b.buf[b.off:])
	b.off += n
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the number of bytes available for read.
func (b *Buffer) Size() int {
	return b.Len()
}

// Peek returns the next n bytes without advancing the read offset, directly
// as a reslice of the internal buffer. It returns io.EOF along with the
// remaining bytes if fewer than n are unread.
func (b *Buffer) Peek(n int) ([]byte, error) {
	if b.off+n > len(b.buf) {
		return b.buf[b.off:], io.EOF
	}
	return b.buf[b.off : b.off+n], nil
}

// Discard skips the next n bytes, returning the number of bytes discarded. If
// Discard skips fewer than n bytes, it also returns io.EOF.
func (b *Buffer) Discard(n int) (discarded int, err error) {
	remain := len(b.buf) - b.off
	if n > remain {
		b.off = len(b.buf)
		return remain, io.EOF
	}
	b.off += n
	return n, nil
}
