package msgpack

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/wireval/codec/value"
)

// EncodeMode selects the structural guarantees an Encoder enforces.
// MessagePack has no IPLD-style canonical form, so unlike cbor.EncodeMode
// this only distinguishes floats at the width of the Value's kind with
// keys in insertion order from shortest floats with deterministic key
// ordering. Integers and lengths use their shortest form in both modes.
type EncodeMode uint8

const (
	// ModeFast performs no canonicalization.
	ModeFast EncodeMode = iota

	// ModeStable writes floats at the shortest width (float32/float64)
	// that holds them exactly and sorts Object/Map keys by (encoded length, then bytewise
	// lexicographic), mirroring cbor's ModeStable so callers comparing
	// output across the two formats see the same key ordering rule.
	ModeStable
)

// Encoder encodes value.Value trees to MessagePack under a configured
// EncodeMode.
type Encoder struct {
	Mode EncodeMode
}

// NewEncoder returns an Encoder using the given mode.
func NewEncoder(mode EncodeMode) *Encoder { return &Encoder{Mode: mode} }

// Marshal encodes v to MessagePack, appending to dst.
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
		return e.encodeBigInt(b, v)
	case value.KindFloat32:
		return e.encodeFloat(b, float64(v.Float32), true), nil
	case value.KindFloat64:
		return e.encodeFloat(b, v.Float64, false), nil
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
		return e.encodeExtension(b, v.Ext)
	case value.KindRawValue:
		return append(b, v.Raw.Bytes...), nil
	case value.KindTypedArray:
		return e.encodeTypedArray(b, v.Typed, depth)
	}
	return b, TypeError{Method: "encode", Encoded: "unknown"}
}

// encodeBigInt falls back to the bin format: MessagePack has no native
// bignum type, so a BigInt round-trips as its big-endian two's complement
// byte representation wrapped in an Extension-less bin value, matching
// what a msgpack-ext library would otherwise need a registered type for.
func (e *Encoder) encodeBigInt(b []byte, v value.Value) ([]byte, error) {
	if v.BigInt == nil {
		return AppendNil(b), nil
	}
	z := v.BigInt
	if z.Sign() >= 0 {
		mag := z.Bytes()
		if len(mag) > 0 && mag[0]&0x80 != 0 {
			mag = append([]byte{0}, mag...)
		}
		return AppendBytes(b, mag), nil
	}
	// Negative: 2^(8n) + z in n bytes, n wide enough to keep the sign bit set.
	n := z.BitLen()/8 + 1
	twos := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	return AppendBytes(b, twos.Add(twos, z).FillBytes(make([]byte, n))), nil
}

func (e *Encoder) encodeFloat(b []byte, f float64, wasFloat32 bool) []byte {
	if e.Mode == ModeFast {
		if wasFloat32 {
			return AppendFloat32(b, float32(f))
		}
		return AppendFloat64(b, f)
	}
	return AppendFloatShortest(b, f)
}

func (e *Encoder) encodeArray(b []byte, arr []value.Value, depth int) ([]byte, error) {
	b = AppendArrayHeader(b, len(arr))
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
	if e.Mode == ModeStable {
		return e.encodeObjectDeterministic(b, pairs, depth)
	}
	b = AppendMapHeader(b, len(pairs))
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
	b = AppendMapHeader(b, len(enc))
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
	if e.Mode == ModeStable {
		return e.encodeMapDeterministic(b, pairs, depth)
	}
	b = AppendMapHeader(b, len(pairs))
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
	b = AppendMapHeader(b, len(enc))
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

// encodeExtension writes ext.Payload as the extension's raw byte payload.
// MessagePack extensions carry opaque bytes, not a nested value, so the
// payload must already be a Bytes value (typically produced by a decoder
// that read an ext format, or by AppendTimestamp's caller wrapping a
// pre-encoded timestamp body).
func (e *Encoder) encodeExtension(b []byte, ext *value.Extension) ([]byte, error) {
	if ext.Payload.Kind != value.KindBytes {
		return b, TypeError{Method: "ext", Encoded: "non-bytes extension payload"}
	}
	return AppendExt(b, int8(ext.Tag), ext.Payload.Bytes), nil
}

// encodeTypedArray has no RFC 8746-equivalent tag space to borrow in
// MessagePack, so it surfaces as a plain array of numbers — the same shape
// a msgpack-only reader would see if it decoded the array without knowing
// the element type was homogeneous.
func (e *Encoder) encodeTypedArray(b []byte, t *value.TypedArray, depth int) ([]byte, error) {
	n := t.Len()
	b = AppendArrayHeader(b, n)
	switch t.Elem {
	case value.ElemInt8:
		for _, x := range t.Int8 {
			b = AppendInt64(b, int64(x))
		}
	case value.ElemInt16:
		for _, x := range t.Int16 {
			b = AppendInt64(b, int64(x))
		}
	case value.ElemInt32:
		for _, x := range t.Int32 {
			b = AppendInt64(b, int64(x))
		}
	case value.ElemInt64:
		for _, x := range t.Int64 {
			b = AppendInt64(b, x)
		}
	case value.ElemUint8:
		for _, x := range t.Uint8 {
			b = AppendUint64(b, uint64(x))
		}
	case value.ElemUint16:
		for _, x := range t.Uint16 {
			b = AppendUint64(b, uint64(x))
		}
	case value.ElemUint32:
		for _, x := range t.Uint32 {
			b = AppendUint64(b, uint64(x))
		}
	case value.ElemUint64:
		for _, x := range t.Uint64 {
			b = AppendUint64(b, x)
		}
	case value.ElemFloat32:
		for _, x := range t.Float32 {
			b = e.encodeFloat(b, float64(x), true)
		}
	case value.ElemFloat64:
		for _, x := range t.Float64 {
			b = e.encodeFloat(b, x, false)
		}
	}
	return b, nil
}
