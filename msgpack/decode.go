package msgpack

import (
	"github.com/wireval/codec/value"
)

// DecodeMode selects how strict a Decoder is about non-canonical input.
type DecodeMode uint8

const (
	// DecodeLenient accepts any well-formed MessagePack.
	DecodeLenient DecodeMode = iota

	// DecodeStrict rejects duplicate map keys, mirroring the encoder's
	// ModeStable guarantees.
	DecodeStrict
)

// Decoder decodes MessagePack bytes into value.Value trees.
type Decoder struct {
	Mode     DecodeMode
	MaxDepth int
}

// NewDecoder returns a Decoder with the given mode and value.DefaultMaxDepth.
func NewDecoder(mode DecodeMode) *Decoder {
	return &Decoder{Mode: mode, MaxDepth: value.DefaultMaxDepth}
}

// Unmarshal decodes a single MessagePack item from b, returning the decoded
// Value and any trailing bytes.
func (d *Decoder) Unmarshal(b []byte) (value.Value, []byte, error) {
	return d.decode(b, 0)
}

func (d *Decoder) decode(b []byte, depth int) (value.Value, []byte, error) {
	maxDepth := d.MaxDepth
	if maxDepth == 0 {
		maxDepth = value.DefaultMaxDepth
	}
	if depth > maxDepth {
		return value.Value{}, b, ErrDepthExceeded
	}
	if len(b) < 1 {
		return value.Value{}, b, ErrUnexpectedEnd
	}
	lead := b[0]

	switch {
	case lead <= fixintPosMax, lead >= fixintNegMin:
		i, o, err := ReadInt64Bytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return signedOrUnsigned(i), o, nil
	case lead&0xe0 == fixstrMask:
		s, o, err := ReadStringBytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.String(s), o, nil
	case lead&0xf0 == fixarrMask:
		return d.decodeArray(b, depth)
	case lead&0xf0 == fixmapMask:
		return d.decodeMap(b, depth)
	}

	switch lead {
	case nilCode:
		return value.Null(), b[1:], nil
	case falseCode:
		return value.Bool(false), b[1:], nil
	case trueCode:
		return value.Bool(true), b[1:], nil
	case float32Code:
		f, o, err := ReadFloat32Bytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.Float32(f), o, nil
	case float64Code:
		f, o, err := ReadFloat64Bytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.Float64(f), o, nil
	case uint8Code, uint16Code, uint32Code, uint64Code:
		u, o, err := ReadUint64Bytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.UInt(u), o, nil
	case int8Code, int16Code, int32Code, int64Code:
		i, o, err := ReadInt64Bytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return signedOrUnsigned(i), o, nil
	case str8, str16, str32:
		s, o, err := ReadStringBytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.String(s), o, nil
	case bin8, bin16, bin32:
		raw, o, err := ReadBytesBytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.BytesVal(append([]byte(nil), raw...)), o, nil
	case array16, array32:
		return d.decodeArray(b, depth)
	case map16, map32:
		return d.decodeMap(b, depth)
	case fixext1, fixext2, fixext4, fixext8, fixext16, ext8, ext16, ext32:
		return d.decodeExt(b)
	}
	return value.Value{}, b, InvalidPrefixError{Byte: lead}
}

// signedOrUnsigned surfaces a non-negative int64 as KindUint so it compares
// equal (value.Value.Equal) to the same magnitude decoded from an explicit
// uint format — mirroring cbor's major-type-driven Int/Uint split, which
// MessagePack's unified int/uint formats don't otherwise preserve.
func signedOrUnsigned(i int64) value.Value {
	if i >= 0 {
		return value.UInt(uint64(i))
	}
	return value.Int(i)
}

func (d *Decoder) decodeArray(b []byte, depth int) (value.Value, []byte, error) {
	n, o, err := ReadArrHeader(b)
	if err != nil {
		return value.Value{}, b, err
	}
	out := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		var el value.Value
		el, o, err = d.decode(o, depth+1)
		if err != nil {
			return value.Value{}, b, err
		}
		out = append(out, el)
	}
	return value.Arr(out...), o, nil
}

func (d *Decoder) decodeMap(b []byte, depth int) (value.Value, []byte, error) {
	n, o, err := ReadObjHeader(b)
	if err != nil {
		return value.Value{}, b, err
	}
	pairs := make([]value.MapPair, 0, n)
	for i := 0; i < n; i++ {
		var k, v value.Value
		k, o, err = d.decode(o, depth+1)
		if err != nil {
			return value.Value{}, b, err
		}
		v, o, err = d.decode(o, depth+1)
		if err != nil {
			return value.Value{}, b, err
		}
		if d.Mode == DecodeStrict {
			for _, p := range pairs {
				if p.Key.Equal(k) {
					return value.Value{}, b, ErrDuplicateMapKey
				}
			}
		}
		pairs = append(pairs, value.MapPair{Key: k, Val: v})
	}
	return mapOrObject(pairs), o, nil
}

// mapOrObject surfaces an all-string-keyed map as an Object, matching the
// Object/Map distinction cbor.mapOrObject draws for the same wire shape.
func mapOrObject(pairs []value.MapPair) value.Value {
	obj := make([]value.Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.Key.Kind != value.KindString {
			return value.MapOf(pairs...)
		}
		obj = append(obj, value.Pair{Key: p.Key.Str, Val: p.Val})
	}
	return value.Obj(obj...)
}

// decodeExt surfaces the MessagePack timestamp extension (type -1) as a
// dedicated Extension value carrying the formatted time, mirroring cbor's
// tag-1 handling; any other extension type surfaces its raw payload bytes
// unchanged so callers can interpret application-defined ext types.
func (d *Decoder) decodeExt(b []byte) (value.Value, []byte, error) {
	extType, payload, rest, err := ReadExtBytes(b)
	if err != nil {
		return value.Value{}, b, err
	}
	if extType == extTimestamp {
		t, _, terr := ReadTimestampBytes(b)
		if terr != nil {
			return value.Value{}, b, terr
		}
		return value.ExtVal(uint64(uint8(extType)), value.String(t.Format("2006-01-02T15:04:05.999999999Z07:00"))), rest, nil
	}
	return value.ExtVal(uint64(uint8(extType)), value.BytesVal(append([]byte(nil), payload...))), rest, nil
}
