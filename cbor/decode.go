package cbor

import (
	"github.com/wireval/codec/value"
)

// DecodeMode selects how strict a Decoder is about well-formed-but-non-
// canonical input.
type DecodeMode uint8

const (
	// DecodeLenient accepts any well-formed CBOR, canonical or not.
	DecodeLenient DecodeMode = iota

	// DecodeStrict rejects integers not in shortest form, indefinite-length
	// items, duplicate map keys and tag 42. Lengths and floats are not
	// checked for shortest form.
	DecodeStrict
)

// Decoder decodes CBOR bytes into value.Value trees.
type Decoder struct {
	Mode     DecodeMode
	MaxDepth int
}

// NewDecoder returns a Decoder with the given mode and value.DefaultMaxDepth.
func NewDecoder(mode DecodeMode) *Decoder {
	return &Decoder{Mode: mode, MaxDepth: value.DefaultMaxDepth}
}

// Unmarshal decodes a single CBOR item from b, returning the decoded
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

	major := getMajorType(b[0])
	addInfo := getAddInfo(b[0])

	switch major {
	case majorTypeUint:
		u, o, err := readUintCore(b, majorTypeUint)
		if err != nil {
			return value.Value{}, b, err
		}
		if d.Mode == DecodeStrict {
			if err := checkShortestUint(addInfo, u); err != nil {
				return value.Value{}, b, err
			}
		}
		return value.UInt(u), o, nil

	case majorTypeNegInt:
		i, o, err := ReadInt64Bytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		if d.Mode == DecodeStrict {
			if err := checkShortestUint(addInfo, uint64(-1-i)); err != nil {
				return value.Value{}, b, err
			}
		}
		return value.Int(i), o, nil

	case majorTypeBytes:
		if addInfo == addInfoIndefinite && d.Mode == DecodeStrict {
			return value.Value{}, b, ErrIndefiniteForbidden
		}
		raw, o, err := ReadBytesBytes(b, nil)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.BytesVal(append([]byte(nil), raw...)), o, nil

	case majorTypeText:
		if addInfo == addInfoIndefinite && d.Mode == DecodeStrict {
			return value.Value{}, b, ErrIndefiniteForbidden
		}
		s, o, err := ReadStringBytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.String(s), o, nil

	case majorTypeArray:
		return d.decodeArray(b, depth)

	case majorTypeMap:
		return d.decodeMap(b, depth)

	case majorTypeTag:
		return d.decodeTag(b, depth)

	case majorTypeSimple:
		return d.decodeSimple(b, addInfo)
	}
	return value.Value{}, b, &ErrUnsupportedType{}
}

func checkShortestUint(addInfo uint8, u uint64) error {
	switch {
	case u <= addInfoDirect:
		if addInfo != uint8(u) {
			return ErrNonCanonicalInteger
		}
	case u <= 0xff:
		if addInfo != addInfoUint8 {
			return ErrNonCanonicalInteger
		}
	case u <= 0xffff:
		if addInfo != addInfoUint16 {
			return ErrNonCanonicalInteger
		}
	case u <= 0xffffffff:
		if addInfo != addInfoUint32 {
			return ErrNonCanonicalInteger
		}
	default:
		if addInfo != addInfoUint64 {
			return ErrNonCanonicalInteger
		}
	}
	return nil
}

func (d *Decoder) decodeArray(b []byte, depth int) (value.Value, []byte, error) {
	sz, indefinite, o, err := ReadArrayStartBytes(b)
	if err != nil {
		return value.Value{}, b, err
	}
	if indefinite {
		if d.Mode == DecodeStrict {
			return value.Value{}, b, ErrIndefiniteForbidden
		}
		var out []value.Value
		for {
			if len(o) < 1 {
				return value.Value{}, b, ErrUnexpectedEnd
			}
			if o[0] == makeByte(majorTypeSimple, simpleBreak) {
				return value.Arr(out...), o[1:], nil
			}
			var el value.Value
			el, o, err = d.decode(o, depth+1)
			if err != nil {
				return value.Value{}, b, err
			}
			out = append(out, el)
		}
	}
	out := make([]value.Value, 0, sz)
	for i := uint32(0); i < sz; i++ {
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
	sz, indefinite, o, err := ReadMapStartBytes(b)
	if err != nil {
		return value.Value{}, b, err
	}
	var pairs []value.MapPair
	add := func(k, v value.Value) error {
		if d.Mode == DecodeStrict {
			for _, p := range pairs {
				if p.Key.Equal(k) {
					return ErrDuplicateMapKey
				}
			}
		}
		pairs = append(pairs, value.MapPair{Key: k, Val: v})
		return nil
	}
	if indefinite {
		if d.Mode == DecodeStrict {
			return value.Value{}, b, ErrIndefiniteForbidden
		}
		for {
			if len(o) < 1 {
				return value.Value{}, b, ErrUnexpectedEnd
			}
			if o[0] == makeByte(majorTypeSimple, simpleBreak) {
				return mapOrObject(pairs), o[1:], nil
			}
			var k, v value.Value
			k, o, err = d.decode(o, depth+1)
			if err != nil {
				return value.Value{}, b, err
			}
			v, o, err = d.decode(o, depth+1)
			if err != nil {
				return value.Value{}, b, err
			}
			if err := add(k, v); err != nil {
				return value.Value{}, b, err
			}
		}
	}
	pairs = make([]value.MapPair, 0, sz)
	for i := uint32(0); i < sz; i++ {
		var k, v value.Value
		k, o, err = d.decode(o, depth+1)
		if err != nil {
			return value.Value{}, b, err
		}
		v, o, err = d.decode(o, depth+1)
		if err != nil {
			return value.Value{}, b, err
		}
		if err := add(k, v); err != nil {
			return value.Value{}, b, err
		}
	}
	return mapOrObject(pairs), o, nil
}

// mapOrObject surfaces an all-string-keyed map as an Object, matching the
// universal Value model's distinction (spec §3.1) between string-keyed
// Objects and general Maps.
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

func (d *Decoder) decodeTag(b []byte, depth int) (value.Value, []byte, error) {
	tag, o, err := ReadTagBytes(b)
	if err != nil {
		return value.Value{}, b, err
	}
	switch tag {
	case tagPosBignum, tagNegBignum:
		z, rest, err := ReadBigIntBytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.BigInt(z), rest, nil
	case tagEpochDateTime:
		t, rest, err := ReadTimeBytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.ExtVal(tagEpochDateTime, value.String(t.Format("2006-01-02T15:04:05.999999999Z07:00"))), rest, nil
	case tagDateTimeString:
		t, rest, err := ReadRFC3339TimeBytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.ExtVal(tagDateTimeString, value.String(t.Format("2006-01-02T15:04:05.999999999Z07:00"))), rest, nil
	case tagDateOnly:
		days, rest, err := ReadDateOnlyBytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.ExtVal(tagDateOnly, value.Int(days)), rest, nil
	case tagDateOnlyString:
		s, rest, err := ReadDateOnlyStringBytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.ExtVal(tagDateOnlyString, value.String(s)), rest, nil
	case tagMultiDimArray, tagMultiDimArrayCol:
		dims, flat, rest, err := d.readMultiDimArrayBody(o, depth)
		if err != nil {
			return value.Value{}, b, err
		}
		dimVals := make([]value.Value, len(dims))
		for i, n := range dims {
			dimVals[i] = value.UInt(n)
		}
		return value.ExtVal(tag, value.Obj(
			value.Pair{Key: "dims", Val: value.Arr(dimVals...)},
			value.Pair{Key: "flat", Val: value.Arr(flat...)},
		)), rest, nil
	case tagSelfDescribeCBOR:
		return d.decode(o, depth+1)
	}
	if elem, _, _, ok := typedArrayKindFromTag(tag); ok {
		_ = elem
		raw, rest, err := ReadBytesBytes(o, nil)
		if err != nil {
			return value.Value{}, b, err
		}
		t, err := readTypedArrayBody(tag, raw)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.TypedVal(t), rest, nil
	}
	payload, rest, err := d.decode(o, depth+1)
	if err != nil {
		return value.Value{}, b, err
	}
	if d.Mode == DecodeStrict && tag == tagDAGPB {
		return value.Value{}, b, ErrDagReservedTag
	}
	return value.ExtVal(tag, payload), rest, nil
}

func (d *Decoder) decodeSimple(b []byte, addInfo uint8) (value.Value, []byte, error) {
	switch addInfo {
	case simpleFalse:
		return value.Bool(false), b[1:], nil
	case simpleTrue:
		return value.Bool(true), b[1:], nil
	case simpleNull, simpleUndefined:
		return value.Null(), b[1:], nil
	case simpleFloat16:
		f, o, err := ReadFloat16Bytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.Float32(f), o, nil
	case simpleFloat32:
		f, o, err := ReadFloat32Bytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.Float32(f), o, nil
	case simpleFloat64:
		f, o, err := ReadFloat64Bytes(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.Float64(f), o, nil
	default:
		val, o, err := ReadSimpleValue(b)
		if err != nil {
			return value.Value{}, b, err
		}
		return value.UInt(uint64(val)), o, nil
	}
}
