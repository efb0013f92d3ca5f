package json

import (
	"errors"

	"github.com/wireval/codec/internal/buffer"
)

// Error, WrapError, Cause and Resumable mirror the re-export pattern used
// by cbor, msgpack and smile so callers only need to import "json".
type Error = buffer.Error

var (
	WrapError = buffer.WrapError
	Cause     = buffer.Cause
	Resumable = buffer.Resumable
)

var (
	// ErrUnexpectedEnd is returned when input ends mid-token in strict mode.
	ErrUnexpectedEnd = buffer.ErrUnexpectedEnd

	// ErrDepthExceeded is returned when nesting exceeds the configured max.
	ErrDepthExceeded = buffer.ErrDepthExceeded

	// ErrInvalidJson is returned for a malformed literal, unexpected
	// character, or mismatched brace/bracket (spec §7).
	ErrInvalidJson error = errors.New("json: invalid JSON")

	// ErrInvalidUtf8 is returned when string bytes fail UTF-8 decoding.
	ErrInvalidUtf8 error = errors.New("json: invalid UTF-8 in string")

	// ErrProtoKey is returned when a "__proto__" object key is seen and
	// DecoderOptions.AllowProtoKey is false.
	ErrProtoKey error = errors.New("json: __proto__ key rejected")

	// ErrInvalidValue is returned when a value.Value has no JSON
	// representation (non-string Map keys, an Extension, NaN/Inf floats).
	ErrInvalidValue error = errors.New("json: value has no JSON representation")
)
