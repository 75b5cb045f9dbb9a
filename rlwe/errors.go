package rlwe

import (
	"errors"
)

// Errors returned by the operations of this package. Returned errors wrap
// one of these values and can be tested with [errors.Is].
var (
	// ErrInvalidArgument is returned on malformed caller input, such as negative sizes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange is returned when an index or a range lies outside the logical bounds.
	ErrOutOfRange = errors.New("out of range")

	// ErrIllegalState is returned when an operation is incompatible with the current
	// form of the plaintext.
	ErrIllegalState = errors.New("illegal state")

	// ErrFormat is returned when a textual polynomial does not follow the grammar.
	ErrFormat = errors.New("invalid format")

	// ErrTruncated is returned when a stream ends before all declared fields were read.
	ErrTruncated = errors.New("truncated stream")

	// ErrIO is returned on any other stream failure.
	ErrIO = errors.New("i/o failure")

	// ErrInvalidData is returned when loaded content is not valid for a context.
	ErrInvalidData = errors.New("invalid data")

	// ErrNullInput is returned when a required reference is nil.
	ErrNullInput = errors.New("null input")

	// ErrAllocation is returned when a memory pool cannot serve an allocation.
	ErrAllocation = errors.New("allocation failure")
)
