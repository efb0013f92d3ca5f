package smile

import (
	"errors"

	"github.com/wireval/codec/internal/buffer"
)

// Error, WrapError, Cause and Resumable mirror the re-export pattern used
// by cbor and msgpack so callers only need to import "smile".
type Error = buffer.Error

var (
	WrapError = buffer.WrapError
	Cause     = buffer.Cause
	Resumable = buffer.Resumable
)

var (
	// ErrUnexpectedEnd is returned when input ends mid-item.
	ErrUnexpectedEnd = buffer.ErrUnexpectedEnd

	// ErrDepthExceeded is returned when nesting exceeds the configured max.
	ErrDepthExceeded = buffer.ErrDepthExceeded

	// ErrInvalidHeader is returned when the 4-byte Smile header is missing
	// or its magic bytes don't match.
	ErrInvalidHeader error = errors.New("smile: invalid header")

	// ErrUnsupportedVersion is returned when the header's version nibble
	// is not 0.
	ErrUnsupportedVersion error = errors.New("smile: unsupported version")

	// ErrInvalidToken is returned when a byte doesn't match any token in
	// the active mode's token table.
	ErrInvalidToken error = errors.New("smile: invalid token for current mode")

	// ErrInvalidReference is returned when a shared-value/shared-key
	// index is at or beyond the live table size.
	ErrInvalidReference error = errors.New("smile: shared reference index out of range")

	// ErrMalformedVInt is returned when a VInt's terminator byte isn't
	// seen within the width needed for a 64-bit value (10 bytes).
	ErrMalformedVInt error = errors.New("smile: malformed VInt")

	// ErrInvalidValue is returned when a value.Value can't be represented
	// in Smile (e.g. a Map with non-string keys).
	ErrInvalidValue error = errors.New("smile: value has no Smile representation")

	// ErrInvalidUTF8 is returned when a string payload contains invalid UTF-8.
	ErrInvalidUTF8 error = errors.New("smile: invalid UTF-8 in string")
)
