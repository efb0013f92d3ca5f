package msgpack

import (
	"errors"

	"github.com/wireval/codec/internal/buffer"
)

// Error, WrapError, Cause and Resumable are the shared substrate from
// internal/buffer, mirroring the cbor package's re-export so callers only
// need to import "msgpack".
type Error = buffer.Error

var (
	WrapError = buffer.WrapError
	Cause     = buffer.Cause
	Resumable = buffer.Resumable
)

var (
	// ErrUnexpectedEnd is returned when the slice being decoded is too
	// short to contain the encoded item.
	ErrUnexpectedEnd = buffer.ErrUnexpectedEnd

	// ErrDepthExceeded is returned when nesting exceeds the configured max.
	ErrDepthExceeded = buffer.ErrDepthExceeded

	// ErrInvalidUTF8 is returned when a str payload contains invalid UTF-8.
	ErrInvalidUTF8 error = errors.New("msgpack: invalid UTF-8 in string")

	// ErrBadTimestampLength is returned when a timestamp extension payload
	// isn't 4, 8, or 12 bytes.
	ErrBadTimestampLength error = errors.New("msgpack: timestamp extension must be 4, 8, or 12 bytes")
)

// InvalidPrefixError is returned when a lead byte doesn't match any known
// MessagePack format.
type InvalidPrefixError struct {
	Byte byte
}

func (e InvalidPrefixError) Error() string {
	return "msgpack: unrecognized format byte"
}

func (e InvalidPrefixError) Resumable() bool { return false }

// TypeError is returned when a decoding method is unsuitable for the
// value.Kind actually encoded.
type TypeError struct {
	Method  string
	Encoded string
}

func (t TypeError) Error() string {
	return "msgpack: attempted to decode \"" + t.Encoded + "\" with method for \"" + t.Method + "\""
}

func (t TypeError) Resumable() bool { return true }
