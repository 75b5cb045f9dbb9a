package rlwe

import (
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// MemoryPool is the allocator handle a [Plaintext] draws its coefficient storage from.
// Implementations must be safe for concurrent use.
type MemoryPool interface {
	// Allocate returns a zeroed slice of length n.
	Allocate(n int) ([]uint64, error)
	// Free gives back a slice obtained from Allocate. The slice must not be used afterwards.
	Free(buff []uint64)
}

// HeapPool allocates on the Go heap and optionally enforces a quota on the
// number of words simultaneously allocated.
type HeapPool struct {
	limit int64
	inUse atomic.Int64
}

// NewHeapPool returns a new [HeapPool] serving at most limit words at a time.
// A limit of 0 disables the quota.
func NewHeapPool(limit int) *HeapPool {
	if limit < 0 {
		limit = 0
	}
	return &HeapPool{limit: int64(limit)}
}

var defaultPool = NewHeapPool(0)

// DefaultPool returns the shared unlimited [HeapPool].
func DefaultPool() MemoryPool {
	return defaultPool
}

// Allocate returns a zeroed slice of n words, or an error wrapping [ErrAllocation]
// if the quota would be exceeded.
func (p *HeapPool) Allocate(n int) ([]uint64, error) {

	if n < 0 {
		return nil, fmt.Errorf("cannot Allocate: %w: size %d is negative", ErrInvalidArgument, n)
	}

	if n == 0 {
		return nil, nil
	}

	for {
		used := p.inUse.Load()
		if p.limit > 0 && used+int64(n) > p.limit {
			return nil, fmt.Errorf("cannot Allocate: %w: %d words requested, %d/%d in use", ErrAllocation, n, used, p.limit)
		}
		if p.inUse.CompareAndSwap(used, used+int64(n)) {
			break
		}
	}

	var buff []uint64
	if err := catchAllocation(func() { buff = make([]uint64, n) }); err != nil {
		p.inUse.Add(-int64(n))
		return nil, fmt.Errorf("cannot Allocate: %w", err)
	}

	return buff, nil
}

// Free releases the quota held by buff.
func (p *HeapPool) Free(buff []uint64) {
	if cap(buff) == 0 {
		return
	}
	p.inUse.Add(-int64(cap(buff)))
}

// InUse returns the number of words currently allocated from the pool.
func (p *HeapPool) InUse() int {
	return int(p.inUse.Load())
}

// SyncPool recycles freed slices by power-of-two capacity class on top of [sync.Pool].
// Slices are zeroed when they are handed out, not when they are given back.
type SyncPool struct {
	classes [63]sync.Pool // classes[k] stores *[]uint64 of capacity 2^k
}

// NewSyncPool returns a new empty [SyncPool].
func NewSyncPool() *SyncPool {
	p := &SyncPool{}
	for k := range p.classes {
		size := 1 << k
		p.classes[k].New = func() any {
			buff := make([]uint64, size)
			return &buff
		}
	}
	return p
}

// Allocate returns a zeroed slice of length n whose capacity is the next power of two.
func (p *SyncPool) Allocate(n int) ([]uint64, error) {

	if n < 0 {
		return nil, fmt.Errorf("cannot Allocate: %w: size %d is negative", ErrInvalidArgument, n)
	}

	if n == 0 {
		return nil, nil
	}

	k := bits.Len64(uint64(n - 1))
	if k >= len(p.classes) {
		return nil, fmt.Errorf("cannot Allocate: %w: size %d is too large", ErrAllocation, n)
	}

	var bp *[]uint64
	if err := catchAllocation(func() { bp = p.classes[k].Get().(*[]uint64) }); err != nil {
		return nil, fmt.Errorf("cannot Allocate: %w", err)
	}

	buff := (*bp)[:n]
	for i := range buff {
		buff[i] = 0
	}

	return buff, nil
}

// Free puts buff back into its capacity class. Slices whose capacity is not a power of two are dropped.
func (p *SyncPool) Free(buff []uint64) {
	c := uint64(cap(buff))
	if c == 0 || c&(c-1) != 0 {
		return
	}
	buff = buff[:c]
	p.classes[bits.Len64(c)-1].Put(&buff)
}

// catchAllocation runs f and turns a runtime panic raised by an
// oversized allocation into an error wrapping [ErrAllocation].
func catchAllocation(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Debug("allocation failed", zap.Any("reason", r))
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()
	f()
	return
}
