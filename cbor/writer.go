package cbor

import (
	"encoding/binary"
	"math"
	bigmath "math/big"
	"time"
)

// ensure grows b by sz bytes between len(b) and cap(b), returning the
// extended slice and the offset the new bytes start at.
func ensure(b []byte, sz int) ([]byte, int) {
	l := len(b)
	c := cap(b)
	if c-l < sz {
		o := make([]byte, (2*c)+sz)
		n := copy(o, b)
		return o[:n+sz], n
	}
	return b[:l+sz], l
}

// appendUintCore encodes an unsigned integer under the given major type
// using CBOR's shortest-form additional-info layout.
func appendUintCore(b []byte, majorType uint8, u uint64) []byte {
	switch {
	case u <= addInfoDirect:
		return append(b, makeByte(majorType, uint8(u)))
	case u <= math.MaxUint8:
		o, n := ensure(b, 2)
		o[n] = makeByte(majorType, addInfoUint8)
		o[n+1] = uint8(u)
		return o
	case u <= math.MaxUint16:
		o, n := ensure(b, 3)
		o[n] = makeByte(majorType, addInfoUint16)
		binary.BigEndian.PutUint16(o[n+1:], uint16(u))
		return o
	case u <= math.MaxUint32:
		o, n := ensure(b, 5)
		o[n] = makeByte(majorType, addInfoUint32)
		binary.BigEndian.PutUint32(o[n+1:], uint32(u))
		return o
	default:
		o, n := ensure(b, 9)
		o[n] = makeByte(majorType, addInfoUint64)
		binary.BigEndian.PutUint64(o[n+1:], u)
		return o
	}
}

// AppendMapHeader appends a definite-length map header.
func AppendMapHeader(b []byte, sz uint32) []byte {
	return appendUintCore(b, majorTypeMap, uint64(sz))
}

// AppendArrayHeader appends a definite-length array header.
func AppendArrayHeader(b []byte, sz uint32) []byte {
	return appendUintCore(b, majorTypeArray, uint64(sz))
}

// AppendArrayHeaderIndefinite appends an indefinite-length array header (0x9f).
func AppendArrayHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(majorTypeArray, addInfoIndefinite))
}

// AppendMapHeaderIndefinite appends an indefinite-length map header (0xbf).
func AppendMapHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(majorTypeMap, addInfoIndefinite))
}

// AppendTextHeaderIndefinite appends an indefinite-length text header (0x7f).
func AppendTextHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(majorTypeText, addInfoIndefinite))
}

// AppendBytesHeaderIndefinite appends an indefinite-length byte-string header (0x5f).
func AppendBytesHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(majorTypeBytes, addInfoIndefinite))
}

// AppendBreak appends the break stop code (0xff) closing an indefinite-length item.
func AppendBreak(b []byte) []byte {
	return append(b, makeByte(majorTypeSimple, simpleBreak))
}

// AppendNil appends the null simple value.
func AppendNil(b []byte) []byte {
	return append(b, makeByte(majorTypeSimple, simpleNull))
}

// AppendUndefined appends the undefined simple value.
func AppendUndefined(b []byte) []byte {
	return append(b, makeByte(majorTypeSimple, simpleUndefined))
}

// AppendBool appends a boolean.
func AppendBool(b []byte, val bool) []byte {
	if val {
		return append(b, makeByte(majorTypeSimple, simpleTrue))
	}
	return append(b, makeByte(majorTypeSimple, simpleFalse))
}

// AppendSimpleValue appends a generic simple value. 24-27 are reserved for
// float encodings and must not be passed here.
func AppendSimpleValue(b []byte, val uint8) []byte {
	if val <= addInfoDirect {
		return append(b, makeByte(majorTypeSimple, val))
	}
	o, n := ensure(b, 2)
	o[n] = makeByte(majorTypeSimple, addInfoUint8)
	o[n+1] = val
	return o
}

// AppendFloat64 appends a float64.
func AppendFloat64(b []byte, f float64) []byte {
	o, n := ensure(b, 9)
	o[n] = makeByte(majorTypeSimple, simpleFloat64)
	binary.BigEndian.PutUint64(o[n+1:], math.Float64bits(f))
	return o
}

// AppendFloat32 appends a float32.
func AppendFloat32(b []byte, f float32) []byte {
	o, n := ensure(b, 5)
	o[n] = makeByte(majorTypeSimple, simpleFloat32)
	binary.BigEndian.PutUint32(o[n+1:], math.Float32bits(f))
	return o
}

// AppendFloat16 appends an IEEE 754 binary16 value.
func AppendFloat16(b []byte, f float32) []byte {
	o, n := ensure(b, 3)
	o[n] = makeByte(majorTypeSimple, simpleFloat16)
	binary.BigEndian.PutUint16(o[n+1:], float32ToFloat16Bits(f))
	return o
}

// AppendFloatShortest appends the shortest of float16/float32/float64 that
// round-trips f exactly, per the canonical/deterministic encode modes
// (spec §5.2). NaN is canonicalized to the float16 quiet-NaN encoding;
// -0 is preserved here (canonical CBOR distinguishes -0.0 from +0.0 for
// floats); the Dag encode mode folds -0 to +0 before calling this.
func AppendFloatShortest(b []byte, f float64) []byte {
	if math.IsNaN(f) {
		return AppendFloat16(b, float32(math.NaN()))
	}
	f16 := float32ToFloat16Bits(float32(f))
	if float64(float16BitsToFloat32(f16)) == f {
		return AppendFloat16(b, float32(f))
	}
	f32 := float32(f)
	if float64(f32) == f {
		return AppendFloat32(b, f32)
	}
	return AppendFloat64(b, f)
}

// AppendInt64 appends a signed integer using CBOR's major type 0/1 split.
func AppendInt64(b []byte, i int64) []byte {
	if i >= 0 && i <= addInfoDirect {
		return append(b, makeByte(majorTypeUint, uint8(i)))
	}
	if i < 0 {
		neg := -1 - i
		if neg >= 0 && neg <= addInfoDirect {
			return append(b, makeByte(majorTypeNegInt, uint8(neg)))
		}
		return appendUintCore(b, majorTypeNegInt, uint64(neg))
	}
	return appendUintCore(b, majorTypeUint, uint64(i))
}

// AppendUint64 appends an unsigned integer.
func AppendUint64(b []byte, u uint64) []byte {
	return appendUintCore(b, majorTypeUint, u)
}

// AppendBytes appends a definite-length byte string.
func AppendBytes(b []byte, data []byte) []byte {
	b = appendUintCore(b, majorTypeBytes, uint64(len(data)))
	return append(b, data...)
}

// AppendBytesChunk appends a definite-length byte-string chunk (for use
// inside an indefinite-length byte string).
func AppendBytesChunk(b []byte, data []byte) []byte { return AppendBytes(b, data) }

// AppendString appends a definite-length UTF-8 text string.
func AppendString(b []byte, s string) []byte {
	b = appendUintCore(b, majorTypeText, uint64(len(s)))
	return append(b, s...)
}

// AppendTextChunk appends a definite-length text chunk (for use inside an
// indefinite-length text string).
func AppendTextChunk(b []byte, s string) []byte { return AppendString(b, s) }

// AppendTag appends a semantic tag header.
func AppendTag(b []byte, tag uint64) []byte {
	return appendUintCore(b, majorTypeTag, tag)
}

// AppendTagged appends a tag followed by an already-encoded payload.
func AppendTagged(b []byte, tag uint64, payload []byte) []byte {
	b = AppendTag(b, tag)
	return append(b, payload...)
}

// AppendSelfDescribe appends the self-describe CBOR tag (0xd9d9f7).
func AppendSelfDescribe(b []byte) []byte {
	return appendUintCore(b, majorTypeTag, tagSelfDescribeCBOR)
}

// AppendBigInt appends a big integer using the positive/negative bignum
// tags (2/3) when it doesn't fit a plain 64-bit integer.
func AppendBigInt(b []byte, z *bigmath.Int) []byte {
	if z.Sign() >= 0 && z.BitLen() <= 64 {
		return AppendUint64(b, z.Uint64())
	}
	if z.Sign() < 0 && z.BitLen() <= 63 {
		return AppendInt64(b, z.Int64())
	}
	if z.Sign() >= 0 {
		b = AppendTag(b, tagPosBignum)
		return AppendBytes(b, z.Bytes())
	}
	tmp := new(bigmath.Int).Neg(z)
	tmp.Sub(tmp, bigmath.NewInt(1))
	b = AppendTag(b, tagNegBignum)
	return AppendBytes(b, tmp.Bytes())
}

// AppendTime appends a time.Time as tag(1) epoch timestamp.
func AppendTime(b []byte, t time.Time) []byte {
	b = AppendTag(b, tagEpochDateTime)
	sec := t.Unix()
	nsec := t.Nanosecond()
	if nsec == 0 {
		return AppendInt64(b, sec)
	}
	return AppendFloat64(b, float64(sec)+float64(nsec)/1e9)
}

// AppendRFC3339Time appends a time.Time as tag(0) RFC 3339 date/time string.
func AppendRFC3339Time(b []byte, t time.Time) []byte {
	b = AppendTag(b, tagDateTimeString)
	return AppendString(b, t.Format(time.RFC3339Nano))
}

var unixEpochDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// AppendDateOnly appends a tag(100) date-only value: days since
// 1970-01-01 (RFC 8943), truncating t to its UTC calendar date.
func AppendDateOnly(b []byte, t time.Time) []byte {
	b = AppendTag(b, tagDateOnly)
	days := int64(t.UTC().Truncate(24 * time.Hour).Sub(unixEpochDate).Hours() / 24)
	return AppendInt64(b, days)
}

// AppendDateOnlyString appends a tag(1004) date-only value as a
// "YYYY-MM-DD" string, this module's alternative date-only shape.
func AppendDateOnlyString(b []byte, t time.Time) []byte {
	b = AppendTag(b, tagDateOnlyString)
	return AppendString(b, t.UTC().Format("2006-01-02"))
}
