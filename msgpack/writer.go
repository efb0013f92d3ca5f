package msgpack

import (
	"encoding/binary"
	"math"
)

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

// AppendNil appends the nil format byte.
func AppendNil(b []byte) []byte { return append(b, nilCode) }

// AppendBool appends a boolean.
func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, trueCode)
	}
	return append(b, falseCode)
}

// AppendInt64 appends a signed integer using the shortest applicable
// fixint/int8/16/32/64 or, for non-negative values, uint form.
func AppendInt64(b []byte, i int64) []byte {
	if i >= 0 {
		return AppendUint64(b, uint64(i))
	}
	if i >= -32 {
		return append(b, byte(i))
	}
	switch {
	case i >= math.MinInt8:
		return append(b, int8Code, byte(i))
	case i >= math.MinInt16:
		o, n := ensure(b, 3)
		o[n] = int16Code
		binary.BigEndian.PutUint16(o[n+1:], uint16(i))
		return o
	case i >= math.MinInt32:
		o, n := ensure(b, 5)
		o[n] = int32Code
		binary.BigEndian.PutUint32(o[n+1:], uint32(i))
		return o
	default:
		o, n := ensure(b, 9)
		o[n] = int64Code
		binary.BigEndian.PutUint64(o[n+1:], uint64(i))
		return o
	}
}

// AppendUint64 appends an unsigned integer using the shortest applicable
// fixint/uint8/16/32/64 form.
func AppendUint64(b []byte, u uint64) []byte {
	switch {
	case u <= fixintPosMax:
		return append(b, byte(u))
	case u <= math.MaxUint8:
		return append(b, uint8Code, byte(u))
	case u <= math.MaxUint16:
		o, n := ensure(b, 3)
		o[n] = uint16Code
		binary.BigEndian.PutUint16(o[n+1:], uint16(u))
		return o
	case u <= math.MaxUint32:
		o, n := ensure(b, 5)
		o[n] = uint32Code
		binary.BigEndian.PutUint32(o[n+1:], uint32(u))
		return o
	default:
		o, n := ensure(b, 9)
		o[n] = uint64Code
		binary.BigEndian.PutUint64(o[n+1:], u)
		return o
	}
}

// AppendFloat32 appends a float32.
func AppendFloat32(b []byte, f float32) []byte {
	o, n := ensure(b, 5)
	o[n] = float32Code
	binary.BigEndian.PutUint32(o[n+1:], math.Float32bits(f))
	return o
}

// AppendFloat64 appends a float64.
func AppendFloat64(b []byte, f float64) []byte {
	o, n := ensure(b, 9)
	o[n] = float64Code
	binary.BigEndian.PutUint64(o[n+1:], math.Float64bits(f))
	return o
}

// AppendFloatShortest appends f as float32 when that round-trips exactly,
// else float64 — mirrors cbor.AppendFloatShortest for the Stable encode
// mode's determinism requirement.
func AppendFloatShortest(b []byte, f float64) []byte {
	f32 := float32(f)
	if float64(f32) == f {
		return AppendFloat32(b, f32)
	}
	return AppendFloat64(b, f)
}

// AppendStrHeader appends a string header (fixstr/str8/16/32) for a
// payload of the given byte length.
func AppendStrHeader(b []byte, n int) []byte {
	switch {
	case n <= fixstrMax:
		return append(b, fixstrMask|byte(n))
	case n <= math.MaxUint8:
		return append(b, str8, byte(n))
	case n <= math.MaxUint16:
		o, k := ensure(b, 3)
		o[k] = str16
		binary.BigEndian.PutUint16(o[k+1:], uint16(n))
		return o
	default:
		o, k := ensure(b, 5)
		o[k] = str32
		binary.BigEndian.PutUint32(o[k+1:], uint32(n))
		return o
	}
}

// AppendString appends a complete string (header + payload).
func AppendString(b []byte, s string) []byte {
	b = AppendStrHeader(b, len(s))
	return append(b, s...)
}

// AppendBinHeader appends a bin8/16/32 header for a payload of the given
// byte length. MessagePack has no "fixbin" form.
func AppendBinHeader(b []byte, n int) []byte {
	switch {
	case n <= math.MaxUint8:
		return append(b, bin8, byte(n))
	case n <= math.MaxUint16:
		o, k := ensure(b, 3)
		o[k] = bin16
		binary.BigEndian.PutUint16(o[k+1:], uint16(n))
		return o
	default:
		o, k := ensure(b, 5)
		o[k] = bin32
		binary.BigEndian.PutUint32(o[k+1:], uint32(n))
		return o
	}
}

// AppendBytes appends a complete byte string (header + payload).
func AppendBytes(b []byte, data []byte) []byte {
	b = AppendBinHeader(b, len(data))
	return append(b, data...)
}

// AppendArrayHeader appends an array header (fixarray/array16/32).
func AppendArrayHeader(b []byte, n int) []byte {
	switch {
	case n <= fixarrMax:
		return append(b, fixarrMask|byte(n))
	case n <= math.MaxUint16:
		o, k := ensure(b, 3)
		o[k] = array16
		binary.BigEndian.PutUint16(o[k+1:], uint16(n))
		return o
	default:
		o, k := ensure(b, 5)
		o[k] = array32
		binary.BigEndian.PutUint32(o[k+1:], uint32(n))
		return o
	}
}

// AppendMapHeader appends a map header (fixmap/map16/32).
func AppendMapHeader(b []byte, n int) []byte {
	switch {
	case n <= fixmapMax:
		return append(b, fixmapMask|byte(n))
	case n <= math.MaxUint16:
		o, k := ensure(b, 3)
		o[k] = map16
		binary.BigEndian.PutUint16(o[k+1:], uint16(n))
		return o
	default:
		o, k := ensure(b, 5)
		o[k] = map32
		binary.BigEndian.PutUint32(o[k+1:], uint32(n))
		return o
	}
}

// AppendExtHeader appends an extension header (fixext1/2/4/8/16 or
// ext8/16/32) for a payload of the given byte length and extension type.
func AppendExtHeader(b []byte, n int, extType int8) []byte {
	switch n {
	case 1:
		return append(b, fixext1, byte(extType))
	case 2:
		return append(b, fixext2, byte(extType))
	case 4:
		return append(b, fixext4, byte(extType))
	case 8:
		return append(b, fixext8, byte(extType))
	case 16:
		return append(b, fixext16, byte(extType))
	}
	switch {
	case n <= math.MaxUint8:
		return append(b, ext8, byte(n), byte(extType))
	case n <= math.MaxUint16:
		o, k := ensure(b, 4)
		o[k] = ext16
		binary.BigEndian.PutUint16(o[k+1:], uint16(n))
		o[k+3] = byte(extType)
		return o
	default:
		o, k := ensure(b, 6)
		o[k] = ext32
		binary.BigEndian.PutUint32(o[k+1:], uint32(n))
		o[k+5] = byte(extType)
		return o
	}
}

// AppendExt appends a complete extension (header + payload).
func AppendExt(b []byte, extType int8, payload []byte) []byte {
	b = AppendExtHeader(b, len(payload), extType)
	return append(b, payload...)
}
