package cbor

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/wireval/codec/internal/buffer"
)

// Error, WrapError, Cause and Resumable are the shared substrate from
// internal/buffer; re-exported here so callers of this package only ever
// need to import "cbor".
type Error = buffer.Error

var (
	WrapError  = buffer.WrapError
	Cause      = buffer.Cause
	Resumable  = buffer.Resumable
)

var (
	// ErrUnexpectedEnd is returned when the slice being decoded is too
	// short to contain the encoded item.
	ErrUnexpectedEnd = buffer.ErrUnexpectedEnd

	// ErrRecursion is not returned by any function in this package: Skip,
	// validation and encoding report reaching recursionLimit as
	// ErrDepthExceeded.
	ErrRecursion error = errRecursion{}

	// ErrDepthExceeded is returned when decoding exceeds the Decoder's max
	// nesting depth (value.DefaultMaxDepth or a Decoder override), and when
	// Skip, validation or encoding exceed the fixed recursionLimit.
	ErrDepthExceeded = buffer.ErrDepthExceeded

	// ErrNotNil is returned when expecting a null item.
	ErrNotNil error = errors.New("cbor: not nil")

	// ErrInvalidUTF8 is returned when a text string contains invalid UTF-8.
	ErrInvalidUTF8 error = errors.New("cbor: invalid UTF-8 in text string")

	// ErrDuplicateMapKey is returned when a map contains duplicate keys
	// and the active decode mode forbids it (DecodeStrict).
	ErrDuplicateMapKey error = errors.New("cbor: duplicate map key")

	// ErrIndefiniteForbidden is returned by the decoder when an
	// indefinite-length item is present and the mode is DecodeStrict.
	ErrIndefiniteForbidden error = errors.New("cbor: indefinite-length item not allowed in this mode")

	// ErrNonCanonicalInteger is returned when an integer is not encoded
	// in its shortest form under a canonical decode mode.
	ErrNonCanonicalInteger error = errors.New("cbor: non-canonical integer encoding")

	// ErrNonCanonicalLength names a length (array/map/str/bytes) not in
	// its shortest form. No function in this package returns it:
	// DecodeStrict does not check lengths for shortest form.
	ErrNonCanonicalLength error = errors.New("cbor: non-canonical length encoding")

	// ErrNonCanonicalFloat names a float not in its shortest lossless
	// width. No function in this package returns it: DecodeStrict does not
	// check float widths.
	ErrNonCanonicalFloat error = errors.New("cbor: non-canonical float encoding")

	// ErrContainerTooLarge names a declared container length over a size
	// limit. No function in this package returns it; declared lengths are
	// not limited.
	ErrContainerTooLarge error = errors.New("cbor: container too large")

	// ErrDagForbiddenFloat is returned in Dag mode for NaN or ±Infinity,
	// which DAG-CBOR canonicalization rejects outright.
	ErrDagForbiddenFloat error = errors.New("cbor: NaN/Infinity not allowed in DAG-CBOR mode")

	// ErrDagReservedTag is returned in Dag mode when tag 42 is produced
	// by application data; DAG-CBOR reserves it for CID links.
	ErrDagReservedTag error = errors.New("cbor: tag 42 is reserved in DAG-CBOR mode")

	// ErrInvalidMultiDimArray is returned when a tag 40/1040 payload is
	// not the required 2-element (dimensions, flat data) array.
	ErrInvalidMultiDimArray error = errors.New("cbor: tag 40/1040 payload must be a 2-element [dimensions, flat-data] array")
)

type errRecursion struct{}

func (e errRecursion) Error() string   { return "cbor: recursion limit reached" }
func (e errRecursion) Resumable() bool { return false }

// ArrayError is returned when decoding a fixed-size array of the wrong size.
type ArrayError struct {
	Wanted uint32
	Got    uint32
	ctx    string
}

func (a ArrayError) Error() string {
	out := "cbor: wanted array of size " + strconv.Itoa(int(a.Wanted)) + "; got " + strconv.Itoa(int(a.Got))
	if a.ctx != "" {
		out += " at " + a.ctx
	}
	return out
}

func (a ArrayError) Resumable() bool { return true }

func (a ArrayError) withContext(ctx string) error {
	a.ctx = joinCtx(a.ctx, ctx)
	return a
}

// IntOverflow is returned when a value would downcast an int64 to a type
// with too few bits to hold it.
type IntOverflow struct {
	Value         int64
	FailedBitsize int
	ctx           string
}

func (i IntOverflow) Error() string {
	str := "cbor: " + strconv.FormatInt(i.Value, 10) + " overflows int" + strconv.Itoa(i.FailedBitsize)
	if i.ctx != "" {
		str += " at " + i.ctx
	}
	return str
}

func (i IntOverflow) Resumable() bool { return true }

func (i IntOverflow) withContext(ctx string) error {
	i.ctx = joinCtx(i.ctx, ctx)
	return i
}

// UintOverflow is returned when a value would downcast a uint64 to a type
// with too few bits to hold it.
type UintOverflow struct {
	Value         uint64
	FailedBitsize int
	ctx           string
}

func (u UintOverflow) Error() string {
	str := "cbor: " + strconv.FormatUint(u.Value, 10) + " overflows uint" + strconv.Itoa(u.FailedBitsize)
	if u.ctx != "" {
		str += " at " + u.ctx
	}
	return str
}

func (u UintOverflow) Resumable() bool { return true }

func (u UintOverflow) withContext(ctx string) error {
	u.ctx = joinCtx(u.ctx, ctx)
	return u
}

// InvalidTimestamp is returned when tag 1's epoch timestamp payload is
// malformed.
type InvalidTimestamp struct {
	Nanos       int64
	FieldLength int
	ctx         string
}

func (t InvalidTimestamp) Error() (str string) {
	if t.Nanos > 0 {
		str = "cbor: timestamp nanosecond field value " + strconv.FormatInt(t.Nanos, 10) + " exceeds maximum of 999999999"
	} else {
		str = "cbor: invalid timestamp encoding"
	}
	if t.ctx != "" {
		str += " at " + t.ctx
	}
	return str
}

func (t InvalidTimestamp) Resumable() bool { return true }

func (t InvalidTimestamp) withContext(ctx string) error {
	t.ctx = joinCtx(t.ctx, ctx)
	return t
}

// TypeError is returned when a decoding method is unsuitable for the
// value.Kind actually encoded.
type TypeError struct {
	Method  string
	Encoded string
	ctx     string
}

func (t TypeError) Error() string {
	out := "cbor: attempted to decode " + quoteStr(t.Encoded) + " with method for " + quoteStr(t.Method)
	if t.ctx != "" {
		out += " at " + t.ctx
	}
	return out
}

func (t TypeError) Resumable() bool { return true }

func (t TypeError) withContext(ctx string) error {
	t.ctx = joinCtx(t.ctx, ctx)
	return t
}

// InvalidPrefixError is returned when an initial byte's major type doesn't
// match what the caller's method required. Unrecoverable.
type InvalidPrefixError struct {
	Want uint8
	Got  uint8
}

func (i InvalidPrefixError) Error() string {
	return "cbor: expected major type " + strconv.Itoa(int(i.Want)) + " but got " + strconv.Itoa(int(i.Got))
}

func (i InvalidPrefixError) Resumable() bool { return false }

func badPrefix(wantMajor, gotMajor uint8) error {
	return InvalidPrefixError{Want: wantMajor, Got: gotMajor}
}

// ErrUnsupportedType is returned when encode meets a Value of unknown
// Kind, or when a decode/read path meets an item it cannot represent. T
// names the Go type involved, and is nil when there is none.
type ErrUnsupportedType struct {
	T reflect.Type

	ctx string
}

func (e *ErrUnsupportedType) Error() string {
	out := "cbor: unsupported item"
	if e.T != nil {
		out = "cbor: type " + quoteStr(e.T.String()) + " not supported"
	}
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

func (e *ErrUnsupportedType) Resumable() bool { return true }

func (e *ErrUnsupportedType) withContext(ctx string) error {
	o := *e
	o.ctx = joinCtx(o.ctx, ctx)
	return &o
}

func joinCtx(ctx, add string) string {
	if ctx != "" {
		return add + "/" + ctx
	}
	return add
}

func quoteStr(s string) string { return "\"" + s + "\"" }
