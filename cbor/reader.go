package cbor

import (
	"encoding/binary"
	"math"
	bigmath "math/big"
	"time"
	"unicode/utf8"
)

var be = binary.BigEndian

// readUintCore reads an unsigned integer encoded under expectedMajor.
func readUintCore(b []byte, expectedMajor uint8) (uint64, []byte, error) {
	if len(b) < 1 {
		return 0, b, ErrUnexpectedEnd
	}
	major := getMajorType(b[0])
	if major != expectedMajor {
		return 0, b, badPrefix(expectedMajor, major)
	}
	addInfo := getAddInfo(b[0])
	switch {
	case addInfo <= addInfoDirect:
		return uint64(addInfo), b[1:], nil
	case addInfo == addInfoUint8:
		if len(b) < 2 {
			return 0, b, ErrUnexpectedEnd
		}
		return uint64(b[1]), b[2:], nil
	case addInfo == addInfoUint16:
		if len(b) < 3 {
			return 0, b, ErrUnexpectedEnd
		}
		return uint64(be.Uint16(b[1:])), b[3:], nil
	case addInfo == addInfoUint32:
		if len(b) < 5 {
			return 0, b, ErrUnexpectedEnd
		}
		return uint64(be.Uint32(b[1:])), b[5:], nil
	case addInfo == addInfoUint64:
		if len(b) < 9 {
			return 0, b, ErrUnexpectedEnd
		}
		return be.Uint64(b[1:]), b[9:], nil
	default:
		return 0, b, &ErrUnsupportedType{}
	}
}

// ReadMapHeaderBytes reads a definite-length map header.
func ReadMapHeaderBytes(b []byte) (sz uint32, o []byte, err error) {
	u, o, err := readUintCore(b, majorTypeMap)
	if err != nil {
		return 0, b, err
	}
	if u > math.MaxUint32 {
		return 0, b, UintOverflow{Value: u, FailedBitsize: 32}
	}
	return uint32(u), o, nil
}

// ReadArrayHeaderBytes reads a definite-length array header.
func ReadArrayHeaderBytes(b []byte) (sz uint32, o []byte, err error) {
	u, o, err := readUintCore(b, majorTypeArray)
	if err != nil {
		return 0, b, err
	}
	if u > math.MaxUint32 {
		return 0, b, UintOverflow{Value: u, FailedBitsize: 32}
	}
	return uint32(u), o, nil
}

// ReadMapStartBytes reads a map header that may be indefinite-length
// (0xbf). When indefinite is true, sz is zero and rest points just past
// the header byte.
func ReadMapStartBytes(b []byte) (sz uint32, indefinite bool, rest []byte, err error) {
	if len(b) < 1 {
		return 0, false, b, ErrUnexpectedEnd
	}
	if b[0] == makeByte(majorTypeMap, addInfoIndefinite) {
		return 0, true, b[1:], nil
	}
	s, o, e := ReadMapHeaderBytes(b)
	return s, false, o, e
}

// ReadArrayStartBytes reads an array header that may be indefinite-length
// (0x9f). When indefinite is true, sz is zero and rest points just past
// the header byte.
func ReadArrayStartBytes(b []byte) (sz uint32, indefinite bool, rest []byte, err error) {
	if len(b) < 1 {
		return 0, false, b, ErrUnexpectedEnd
	}
	if b[0] == makeByte(majorTypeArray, addInfoIndefinite) {
		return 0, true, b[1:], nil
	}
	s, o, e := ReadArrayHeaderBytes(b)
	return s, false, o, e
}

// ReadBreakBytes reports whether the next byte is the break stop code
// (0xff), consuming it if so.
func ReadBreakBytes(b []byte) (rest []byte, ok bool, err error) {
	if len(b) < 1 {
		return b, false, ErrUnexpectedEnd
	}
	if b[0] == makeByte(majorTypeSimple, simpleBreak) {
		return b[1:], true, nil
	}
	return b, false, nil
}

// ReadNilBytes consumes a null simple value.
func ReadNilBytes(b []byte) ([]byte, error) {
	if len(b) < 1 {
		return b, ErrUnexpectedEnd
	}
	if b[0] != makeByte(majorTypeSimple, simpleNull) {
		return b, ErrNotNil
	}
	return b[1:], nil
}

// ReadFloat64Bytes reads a float64.
func ReadFloat64Bytes(b []byte) (f float64, o []byte, err error) {
	if len(b) < 9 {
		return 0, b, ErrUnexpectedEnd
	}
	if b[0] != makeByte(majorTypeSimple, simpleFloat64) {
		return 0, b, badPrefix(majorTypeSimple, getMajorType(b[0]))
	}
	return math.Float64frombits(be.Uint64(b[1:])), b[9:], nil
}

// ReadFloat32Bytes reads a float32.
func ReadFloat32Bytes(b []byte) (f float32, o []byte, err error) {
	if len(b) < 5 {
		return 0, b, ErrUnexpectedEnd
	}
	if b[0] != makeByte(majorTypeSimple, simpleFloat32) {
		return 0, b, badPrefix(majorTypeSimple, getMajorType(b[0]))
	}
	return math.Float32frombits(be.Uint32(b[1:])), b[5:], nil
}

// ReadFloat16Bytes reads an IEEE 754 binary16 value, widened to float32.
func ReadFloat16Bytes(b []byte) (f float32, o []byte, err error) {
	if len(b) < 3 {
		return 0, b, ErrUnexpectedEnd
	}
	if b[0] != makeByte(majorTypeSimple, simpleFloat16) {
		return 0, b, badPrefix(majorTypeSimple, getMajorType(b[0]))
	}
	return float16BitsToFloat32(be.Uint16(b[1:])), b[3:], nil
}

// ReadBoolBytes reads a boolean simple value.
func ReadBoolBytes(b []byte) (bool, []byte, error) {
	if len(b) < 1 {
		return false, b, ErrUnexpectedEnd
	}
	switch b[0] {
	case makeByte(majorTypeSimple, simpleTrue):
		return true, b[1:], nil
	case makeByte(majorTypeSimple, simpleFalse):
		return false, b[1:], nil
	default:
		return false, b, TypeError{Method: "bool", Encoded: "unknown"}
	}
}

// ReadInt64Bytes reads a signed integer (major type 0 or 1).
func ReadInt64Bytes(b []byte) (i int64, o []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrUnexpectedEnd
	}
	major := getMajorType(b[0])
	switch major {
	case majorTypeUint:
		u, o, err := readUintCore(b, majorTypeUint)
		if err != nil {
			return 0, b, err
		}
		if u > math.MaxInt64 {
			return 0, b, IntOverflow{Value: int64(u), FailedBitsize: 64}
		}
		return int64(u), o, nil
	case majorTypeNegInt:
		u, o, err := readUintCore(b, majorTypeNegInt)
		if err != nil {
			return 0, b, err
		}
		if u > math.MaxInt64 {
			return 0, b, IntOverflow{Value: -1, FailedBitsize: 64}
		}
		return -1 - int64(u), o, nil
	default:
		return 0, b, badPrefix(majorTypeUint, major)
	}
}

// ReadUint64Bytes reads an unsigned integer (major type 0).
func ReadUint64Bytes(b []byte) (u uint64, o []byte, err error) {
	return readUintCore(b, majorTypeUint)
}

// ReadBytesBytes reads a byte string, definite or indefinite-length,
// borrowing from scratch (if it has capacity) to assemble indefinite
// chunks. Definite-length strings are returned zero-copy into b.
func ReadBytesBytes(b []byte, scratch []byte) (v []byte, o []byte, err error) {
	if len(b) < 1 {
		return nil, b, ErrUnexpectedEnd
	}
	if b[0] == makeByte(majorTypeBytes, addInfoIndefinite) {
		out := scratch[:0]
		p := b[1:]
		for {
			if len(p) < 1 {
				return nil, b, ErrUnexpectedEnd
			}
			if p[0] == makeByte(majorTypeSimple, simpleBreak) {
				return out, p[1:], nil
			}
			sz, q, e := readUintCore(p, majorTypeBytes)
			if e != nil {
				return nil, b, e
			}
			if uint64(len(q)) < sz {
				return nil, b, ErrUnexpectedEnd
			}
			out = append(out, q[:sz]...)
			p = q[sz:]
		}
	}
	sz, o, err := readUintCore(b, majorTypeBytes)
	if err != nil {
		return nil, b, err
	}
	if uint64(len(o)) < sz {
		return nil, b, ErrUnexpectedEnd
	}
	return o[:sz], o[sz:], nil
}

// ReadStringBytes reads a UTF-8 text string, definite or indefinite-length.
// Validates UTF-8 unless ValidateUTF8OnDecode is disabled.
func ReadStringBytes(b []byte) (s string, o []byte, err error) {
	if len(b) < 1 {
		return "", b, ErrUnexpectedEnd
	}
	var raw []byte
	if b[0] == makeByte(majorTypeText, addInfoIndefinite) {
		var out []byte
		p := b[1:]
		for {
			if len(p) < 1 {
				return "", b, ErrUnexpectedEnd
			}
			if p[0] == makeByte(majorTypeSimple, simpleBreak) {
				o = p[1:]
				raw = out
				break
			}
			sz, q, e := readUintCore(p, majorTypeText)
			if e != nil {
				return "", b, e
			}
			if uint64(len(q)) < sz {
				return "", b, ErrUnexpectedEnd
			}
			out = append(out, q[:sz]...)
			p = q[sz:]
		}
	} else {
		sz, rest, e := readUintCore(b, majorTypeText)
		if e != nil {
			return "", b, e
		}
		if uint64(len(rest)) < sz {
			return "", b, ErrUnexpectedEnd
		}
		raw = rest[:sz]
		o = rest[sz:]
	}
	if ValidateUTF8OnDecode && !utf8.Valid(raw) {
		return "", b, ErrInvalidUTF8
	}
	return string(raw), o, nil
}

// ReadSimpleValue reads a major-type-7 simple value (not a float).
func ReadSimpleValue(b []byte) (val uint8, o []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrUnexpectedEnd
	}
	if getMajorType(b[0]) != majorTypeSimple {
		return 0, b, badPrefix(majorTypeSimple, getMajorType(b[0]))
	}
	addInfo := getAddInfo(b[0])
	if addInfo <= addInfoDirect {
		return addInfo, b[1:], nil
	}
	if addInfo == addInfoUint8 {
		if len(b) < 2 {
			return 0, b, ErrUnexpectedEnd
		}
		return b[1], b[2:], nil
	}
	return 0, b, &ErrUnsupportedType{}
}

// ReadTagBytes reads a semantic tag header.
func ReadTagBytes(b []byte) (tag uint64, o []byte, err error) {
	return readUintCore(b, majorTypeTag)
}

// ReadBigIntBytes reads a plain integer or a bignum (tag 2/3) as a
// *big.Int.
func ReadBigIntBytes(b []byte) (z *bigmath.Int, o []byte, err error) {
	if len(b) < 1 {
		return nil, b, ErrUnexpectedEnd
	}
	if getMajorType(b[0]) == majorTypeTag {
		tag, rest, e := ReadTagBytes(b)
		if e != nil {
			return nil, b, e
		}
		switch tag {
		case tagPosBignum:
			data, rest2, e := ReadBytesBytes(rest, nil)
			if e != nil {
				return nil, b, e
			}
			return new(bigmath.Int).SetBytes(data), rest2, nil
		case tagNegBignum:
			data, rest2, e := ReadBytesBytes(rest, nil)
			if e != nil {
				return nil, b, e
			}
			z := new(bigmath.Int).SetBytes(data)
			z.Add(z, bigmath.NewInt(1))
			z.Neg(z)
			return z, rest2, nil
		default:
			return nil, b, &ErrUnsupportedType{}
		}
	}
	i, rest, e := ReadInt64Bytes(b)
	if e == nil {
		return bigmath.NewInt(i), rest, nil
	}
	u, rest, e := ReadUint64Bytes(b)
	if e != nil {
		return nil, b, e
	}
	return new(bigmath.Int).SetUint64(u), rest, nil
}

// ReadTimeBytes reads a tag(1) epoch timestamp as a time.Time.
func ReadTimeBytes(b []byte) (t time.Time, o []byte, err error) {
	tag, rest, err := ReadTagBytes(b)
	if err != nil {
		return time.Time{}, b, err
	}
	if tag != tagEpochDateTime {
		return time.Time{}, b, &ErrUnsupportedType{}
	}
	if len(rest) < 1 {
		return time.Time{}, b, ErrUnexpectedEnd
	}
	if getMajorType(rest[0]) == majorTypeUint || getMajorType(rest[0]) == majorTypeNegInt {
		sec, rest2, e := ReadInt64Bytes(rest)
		if e != nil {
			return time.Time{}, b, e
		}
		return time.Unix(sec, 0).UTC(), rest2, nil
	}
	var f float64
	var rest2 []byte
	switch rest[0] {
	case makeByte(majorTypeSimple, simpleFloat64):
		f, rest2, err = ReadFloat64Bytes(rest)
	case makeByte(majorTypeSimple, simpleFloat32):
		var f32 float32
		f32, rest2, err = ReadFloat32Bytes(rest)
		f = float64(f32)
	default:
		var f16 float32
		f16, rest2, err = ReadFloat16Bytes(rest)
		f = float64(f16)
	}
	if err != nil {
		return time.Time{}, b, err
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC(), rest2, nil
}

// ReadRFC3339TimeBytes reads a tag(0) RFC 3339 date/time string.
func ReadRFC3339TimeBytes(b []byte) (t time.Time, o []byte, err error) {
	tag, rest, err := ReadTagBytes(b)
	if err != nil {
		return time.Time{}, b, err
	}
	if tag != tagDateTimeString {
		return time.Time{}, b, &ErrUnsupportedType{}
	}
	s, rest2, err := ReadStringBytes(rest)
	if err != nil {
		return time.Time{}, b, err
	}
	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, b, err
	}
	return t, rest2, nil
}

// ReadDateOnlyBytes reads a tag(100) date-only value as days since
// 1970-01-01 (RFC 8943).
func ReadDateOnlyBytes(b []byte) (days int64, o []byte, err error) {
	tag, rest, err := ReadTagBytes(b)
	if err != nil {
		return 0, b, err
	}
	if tag != tagDateOnly {
		return 0, b, &ErrUnsupportedType{}
	}
	days, rest2, err := ReadInt64Bytes(rest)
	if err != nil {
		return 0, b, err
	}
	return days, rest2, nil
}

// ReadDateOnlyStringBytes reads a tag(1004) date-only value as a
// "YYYY-MM-DD" string.
func ReadDateOnlyStringBytes(b []byte) (date string, o []byte, err error) {
	tag, rest, err := ReadTagBytes(b)
	if err != nil {
		return "", b, err
	}
	if tag != tagDateOnlyString {
		return "", b, &ErrUnsupportedType{}
	}
	s, rest2, err := ReadStringBytes(rest)
	if err != nil {
		return "", b, err
	}
	return s, rest2, nil
}

// ValidateUTF8OnDecode controls whether ReadStringBytes validates UTF-8.
// Enabled by default for spec compliance; can be disabled in hot paths.
var ValidateUTF8OnDecode = true
