// Package sampling provides reproducible streams of random bytes.
package sampling

import (
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// PRNG is a source of random bytes.
type PRNG interface {
	io.Reader
}

// KeyedPRNG is a deterministic stream of bytes: the blake2b XOF keyed with
// a key of at most 64 bytes. Two instances built from the same key produce
// the same stream, which makes sampled test vectors reproducible.
// Reads are serialized, but concurrent readers interleave the stream
// nondeterministically.
type KeyedPRNG struct {
	mu  sync.Mutex
	key []byte
	xof blake2b.XOF
}

// NewKeyedPRNG returns a [KeyedPRNG] seeded with a copy of key.
// It fails if key is longer than 64 bytes.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {

	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, err
	}

	return &KeyedPRNG{key: append([]byte{}, key...), xof: xof}, nil
}

// Key returns a copy of the seed of the stream.
func (prng *KeyedPRNG) Key() []byte {
	return append([]byte{}, prng.key...)
}

// Read fills sum with the next bytes of the stream.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	prng.mu.Lock()
	defer prng.mu.Unlock()
	return prng.xof.Read(sum)
}

// Reset rewinds the stream to its first byte.
func (prng *KeyedPRNG) Reset() {
	prng.mu.Lock()
	defer prng.mu.Unlock()
	prng.xof.Reset()
}
