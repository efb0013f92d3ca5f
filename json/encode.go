package json

import (
	"encoding/base64"
	"math"
	"sort"
	"strconv"

	"github.com/wireval/codec/value"
)

// EncoderMode selects insertion-order key emission or stable (sorted)
// key emission (spec §4.6).
type EncoderMode uint8

const (
	ModeDefault EncoderMode = iota
	ModeStable
)

// EncoderOptions configures an Encoder.
type EncoderOptions struct {
	Mode         EncoderMode
	BinaryPrefix string
}

const recursionLimit = 100000

// Encoder writes value.Value trees as JSON text.
type Encoder struct {
	Options  EncoderOptions
	MaxDepth int
}

// NewEncoder returns an Encoder configured with opts, filling in
// BinaryPrefix's default when left empty.
func NewEncoder(opts EncoderOptions) *Encoder {
	if opts.BinaryPrefix == "" {
		opts.BinaryPrefix = DefaultBinaryPrefix
	}
	return &Encoder{Options: opts, MaxDepth: value.DefaultMaxDepth}
}

// Marshal encodes v as a JSON document.
func (e *Encoder) Marshal(v value.Value) ([]byte, error) {
	return e.encodeValue(nil, v, 0)
}

func (e *Encoder) encodeValue(b []byte, v value.Value, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, ErrDepthExceeded
	}
	switch v.Kind {
	case value.KindNull:
		return append(b, "null"...), nil
	case value.KindBool:
		if v.Bool {
			return append(b, "true"...), nil
		}
		return append(b, "false"...), nil
	case value.KindInt:
		return strconv.AppendInt(b, v.Int, 10), nil
	case value.KindUint:
		return strconv.AppendUint(b, v.Uint, 10), nil
	case value.KindBigInt:
		if v.BigInt == nil {
			return append(b, "null"...), nil
		}
		return append(b, v.BigInt.String()...), nil
	case value.KindFloat32:
		return appendFloat(b, float64(v.Float32), 32)
	case value.KindFloat64:
		return appendFloat(b, v.Float64, 64)
	case value.KindBytes:
		return e.encodeBytesAsString(b, v.Bytes), nil
	case value.KindString:
		return appendJSONString(b, v.Str), nil
	case value.KindArray:
		return e.encodeArray(b, v.Array, depth)
	case value.KindObject:
		return e.encodeObject(b, v.Object, depth)
	case value.KindMap:
		return e.encodeMapAsObject(b, v.Map, depth)
	case value.KindRawValue:
		return append(b, v.Raw.Bytes...), nil
	case value.KindTypedArray:
		return e.encodeTypedArray(b, v.Typed, depth)
	}
	return b, ErrInvalidValue
}

func appendFloat(b []byte, f float64, bitSize int) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return b, ErrInvalidValue
	}
	return strconv.AppendFloat(b, f, 'g', -1, bitSize), nil
}

func (e *Encoder) encodeBytesAsString(b []byte, data []byte) []byte {
	b = append(b, '"')
	b = append(b, e.Options.BinaryPrefix...)
	b = append(b, base64.StdEncoding.EncodeToString(data)...)
	return append(b, '"')
}

const hexDigits = "0123456789abcdef"

func appendHex4(b []byte, v uint16) []byte {
	return append(b, hexDigits[(v>>12)&0xF], hexDigits[(v>>8)&0xF], hexDigits[(v>>4)&0xF], hexDigits[v&0xF])
}

// appendJSONString writes s as a quoted JSON string. Non-ASCII bytes are
// copied verbatim (valid per RFC 8259; no need to \u-escape UTF-8).
func appendJSONString(b []byte, s string) []byte {
	b = append(b, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b = append(b, '\\', '"')
		case c == '\\':
			b = append(b, '\\', '\\')
		case c == '\n':
			b = append(b, '\\', 'n')
		case c == '\r':
			b = append(b, '\\', 'r')
		case c == '\t':
			b = append(b, '\\', 't')
		case c < 0x20:
			b = append(b, '\\', 'u')
			b = appendHex4(b, uint16(c))
		default:
			b = append(b, c)
		}
	}
	return append(b, '"')
}

func (e *Encoder) encodeArray(b []byte, arr []value.Value, depth int) ([]byte, error) {
	b = append(b, '[')
	var err error
	for i, el := range arr {
		if i > 0 {
			b = append(b, ',')
		}
		b, err = e.encodeValue(b, el, depth+1)
		if err != nil {
			return b, err
		}
	}
	return append(b, ']'), nil
}

func (e *Encoder) encodeObject(b []byte, pairs []value.Pair, depth int) ([]byte, error) {
	if e.Options.Mode == ModeStable {
		sorted := append([]value.Pair(nil), pairs...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
		pairs = sorted
	}
	b = append(b, '{')
	var err error
	for i, p := range pairs {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendJSONString(b, p.Key)
		b = append(b, ':')
		b, err = e.encodeValue(b, p.Val, depth+1)
		if err != nil {
			return b, err
		}
	}
	return append(b, '}'), nil
}

func (e *Encoder) encodeMapAsObject(b []byte, pairs []value.MapPair, depth int) ([]byte, error) {
	type kv struct {
		key string
		val value.Value
	}
	kvs := make([]kv, 0, len(pairs))
	for _, p := range pairs {
		if p.Key.Kind != value.KindString {
			return b, ErrInvalidValue
		}
		kvs = append(kvs, kv{p.Key.Str, p.Val})
	}
	if e.Options.Mode == ModeStable {
		sort.Slice(kvs, func(i, j int) bool { return kvs[i].key < kvs[j].key })
	}
	b = append(b, '{')
	var err error
	for i, p := range kvs {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendJSONString(b, p.key)
		b = append(b, ':')
		b, err = e.encodeValue(b, p.val, depth+1)
		if err != nil {
			return b, err
		}
	}
	return append(b, '}'), nil
}

func (e *Encoder) encodeTypedArray(b []byte, t *value.TypedArray, depth int) ([]byte, error) {
	arr := make([]value.Value, 0, t.Len())
	switch t.Elem {
	case value.ElemInt8:
		for _, x := range t.Int8 {
			arr = append(arr, value.Int(int64(x)))
		}
	case value.ElemInt16:
		for _, x := range t.Int16 {
			arr = append(arr, value.Int(int64(x)))
		}
	case value.ElemInt32:
		for _, x := range t.Int32 {
			arr = append(arr, value.Int(int64(x)))
		}
	case value.ElemInt64:
		for _, x := range t.Int64 {
			arr = append(arr, value.Int(x))
		}
	case value.ElemUint8:
		for _, x := range t.Uint8 {
			arr = append(arr, value.UInt(uint64(x)))
		}
	case value.ElemUint16:
		for _, x := range t.Uint16 {
			arr = append(arr, value.UInt(uint64(x)))
		}
	case value.ElemUint32:
		for _, x := range t.Uint32 {
			arr = append(arr, value.UInt(uint64(x)))
		}
	case value.ElemUint64:
		for _, x := range t.Uint64 {
			arr = append(arr, value.UInt(x))
		}
	case value.ElemFloat32:
		for _, x := range t.Float32 {
			arr = append(arr, value.Float32(x))
		}
	case value.ElemFloat64:
		for _, x := range t.Float64 {
			arr = append(arr, value.Float64(x))
		}
	}
	return e.encodeArray(b, arr, depth)
}
