package cbor

import (
	"bytes"
	"math"
	"sort"

	"github.com/wireval/codec/value"
)

// EncodeMode selects the structural guarantees an Encoder enforces. A
// single concrete encoder switches behavior on this enum rather than
// the source's CborEncoderFast/CborEncoder inheritance chain — Full,
// Stable and Dag are additional checks layered on top of the same Fast
// core, not separate implementations.
type EncodeMode uint8

const (
	// ModeFast performs no canonicalization: map keys keep insertion order
	// and floats keep the width of the Value's kind (Float32 as 4 bytes,
	// Float64 as 8). Integers and lengths still use their shortest head,
	// and containers are always written with definite lengths.
	ModeFast EncodeMode = iota

	// ModeFull is ModeFast with floats written at the shortest width
	// (float16/32/64) that holds them exactly; key order is left as given.
	// Tags (bignums, typed arrays, dates) are handled the same way in
	// every mode.
	ModeFull

	// ModeStable produces RFC 8949 §4.2.1 deterministic encoding: shortest-
	// form integers/lengths/floats, definite lengths only, map keys sorted
	// by (encoded length, then bytewise lexicographic).
	ModeStable

	// ModeDag produces DAG-CBOR (IPLD) canonical encoding: ModeStable's
	// rules plus rejection of NaN/±Infinity and of tag 42 (reserved for
	// CID links, encoded only via ExtVal by the caller, never synthesized
	// here).
	ModeDag
)

// Encoder encodes value.Value trees to CBOR under a configured EncodeMode.
type Encoder struct {
	Mode EncodeMode
}

// NewEncoder returns an Encoder using the given mode.
func NewEncoder(mode EncodeMode) *Encoder { return &Encoder{Mode: mode} }

// Marshal encodes v to CBOR, appending to dst.
func (e *Encoder) Marshal(dst []byte, v value.Value) ([]byte, error) {
	return e.encode(dst, v, 0)
}

func (e *Encoder) encode(b []byte, v value.Value, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, ErrDepthExceeded
	}
	switch v.Kind {
	case value.KindNull:
		return AppendNil(b), nil
	case value.KindBool:
		return AppendBool(b, v.Bool), nil
	case value.KindInt:
		return AppendInt64(b, v.Int), nil
	case value.KindUint:
		return AppendUint64(b, v.Uint), nil
	case value.KindBigInt:
		return AppendBigInt(b, v.BigInt), nil
	case value.KindFloat32:
		return e.encodeFloat(b, float64(v.Float32), true)
	case value.KindFloat64:
		return e.encodeFloat(b, v.Float64, false)
	case value.KindBytes:
		return AppendBytes(b, v.Bytes), nil
	case value.KindString:
		return AppendString(b, v.Str), nil
	case value.KindArray:
		return e.encodeArray(b, v.Array, depth)
	case value.KindObject:
		return e.encodeObject(b, v.Object, depth)
	case value.KindMap:
		return e.encodeMap(b, v.Map, depth)
	case value.KindExtension:
		return e.encodeExtension(b, v.Ext, depth)
	case value.KindRawValue:
		return append(b, v.Raw.Bytes...), nil
	case value.KindTypedArray:
		return AppendTypedArray(b, v.Typed), nil
	}
	return b, &ErrUnsupportedType{}
}

func (e *Encoder) encodeFloat(b []byte, f float64, wasFloat32 bool) ([]byte, error) {
	if e.Mode == ModeDag && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return b, ErrDagForbiddenFloat
	}
	if e.Mode == ModeDag && f == 0 {
		f = 0 // folds -0 to +0
	}
	if e.Mode == ModeFast {
		if wasFloat32 {
			return AppendFloat32(b, float32(f)), nil
		}
		return AppendFloat64(b, f), nil
	}
	// Full/Stable/Dag: shortest lossless width.
	return AppendFloatShortest(b, f), nil
}

func (e *Encoder) encodeArray(b []byte, arr []value.Value, depth int) ([]byte, error) {
	b = AppendArrayHeader(b, uint32(len(arr)))
	var err error
	for _, el := range arr {
		b, err = e.encode(b, el, depth+1)
		if err != nil {
			return b, err
		}
	}
	return b, nil
}

func (e *Encoder) encodeObject(b []byte, pairs []value.Pair, depth int) ([]byte, error) {
	if e.Mode == ModeStable || e.Mode == ModeDag {
		return e.encodeObjectDeterministic(b, pairs, depth)
	}
	b = AppendMapHeader(b, uint32(len(pairs)))
	var err error
	for _, p := range pairs {
		b = AppendString(b, p.Key)
		b, err = e.encode(b, p.Val, depth+1)
		if err != nil {
			return b, err
		}
	}
	return b, nil
}

type encodedPair struct {
	key []byte
	val value.Value
}

func (e *Encoder) encodeObjectDeterministic(b []byte, pairs []value.Pair, depth int) ([]byte, error) {
	enc := make([]encodedPair, len(pairs))
	for i, p := range pairs {
		enc[i] = encodedPair{key: AppendString(nil, p.Key), val: p.Val}
	}
	sortDeterministic(enc)
	b = AppendMapHeader(b, uint32(len(enc)))
	var err error
	for _, p := range enc {
		b = append(b, p.key...)
		b, err = e.encode(b, p.val, depth+1)
		if err != nil {
			return b, err
		}
	}
	return b, nil
}

// sortDeterministic orders encoded key/value pairs per RFC 8949 §4.2.1:
// shorter encoded keys sort first; keys of equal length sort bytewise.
func sortDeterministic(enc []encodedPair) {
	sort.Slice(enc, func(i, j int) bool {
		a, bb := enc[i].key, enc[j].key
		if len(a) != len(bb) {
			return len(a) < len(bb)
		}
		return bytes.Compare(a, bb) < 0
	})
}

func (e *Encoder) encodeMap(b []byte, pairs []value.MapPair, depth int) ([]byte, error) {
	if e.Mode == ModeStable || e.Mode == ModeDag {
		return e.encodeMapDeterministic(b, pairs, depth)
	}
	b = AppendMapHeader(b, uint32(len(pairs)))
	var err error
	for _, p := range pairs {
		b, err = e.encode(b, p.Key, depth+1)
		if err != nil {
			return b, err
		}
		b, err = e.encode(b, p.Val, depth+1)
		if err != nil {
			return b, err
		}
	}
	return b, nil
}

func (e *Encoder) encodeMapDeterministic(b []byte, pairs []value.MapPair, depth int) ([]byte, error) {
	enc := make([]encodedPair, len(pairs))
	for i, p := range pairs {
		keyBytes, err := e.encode(nil, p.Key, depth+1)
		if err != nil {
			return b, err
		}
		enc[i] = encodedPair{key: keyBytes, val: p.Val}
	}
	sortDeterministic(enc)
	b = AppendMapHeader(b, uint32(len(enc)))
	var err error
	for _, p := range enc {
		b = append(b, p.key...)
		b, err = e.encode(b, p.val, depth+1)
		if err != nil {
			return b, err
		}
	}
	return b, nil
}

func (e *Encoder) encodeExtension(b []byte, ext *value.Extension, depth int) ([]byte, error) {
	if e.Mode == ModeDag && ext.Tag == tagDAGPB {
		return b, ErrDagReservedTag
	}
	switch ext.Tag {
	case tagMultiDimArray, tagMultiDimArrayCol:
		return e.encodeMultiDimArray(b, ext.Tag, ext.Payload, depth)
	}
	b = AppendTag(b, ext.Tag)
	return e.encode(b, ext.Payload, depth+1)
}
