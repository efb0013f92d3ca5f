package msgpack

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

var be = binary.BigEndian

// ReadNilBytes consumes a nil value.
func ReadNilBytes(b []byte) ([]byte, error) {
	if len(b) < 1 {
		return b, ErrUnexpectedEnd
	}
	if b[0] != nilCode {
		return b, TypeError{Method: "nil", Encoded: "unknown"}
	}
	return b[1:], nil
}

// ReadBoolBytes reads a boolean.
func ReadBoolBytes(b []byte) (bool, []byte, error) {
	if len(b) < 1 {
		return false, b, ErrUnexpectedEnd
	}
	switch b[0] {
	case trueCode:
		return true, b[1:], nil
	case falseCode:
		return false, b[1:], nil
	default:
		return false, b, TypeError{Method: "bool", Encoded: "unknown"}
	}
}

// ReadInt64Bytes reads any MessagePack integer format as an int64.
func ReadInt64Bytes(b []byte) (int64, []byte, error) {
	if len(b) < 1 {
		return 0, b, ErrUnexpectedEnd
	}
	lead := b[0]
	switch {
	case lead <= fixintPosMax:
		return int64(lead), b[1:], nil
	case lead >= fixintNegMin:
		return int64(int8(lead)), b[1:], nil
	}
	switch lead {
	case uint8Code:
		if len(b) < 2 {
			return 0, b, ErrUnexpectedEnd
		}
		return int64(b[1]), b[2:], nil
	case uint16Code:
		if len(b) < 3 {
			return 0, b, ErrUnexpectedEnd
		}
		return int64(be.Uint16(b[1:])), b[3:], nil
	case uint32Code:
		if len(b) < 5 {
			return 0, b, ErrUnexpectedEnd
		}
		return int64(be.Uint32(b[1:])), b[5:], nil
	case uint64Code:
		if len(b) < 9 {
			return 0, b, ErrUnexpectedEnd
		}
		return int64(be.Uint64(b[1:])), b[9:], nil
	case int8Code:
		if len(b) < 2 {
			return 0, b, ErrUnexpectedEnd
		}
		return int64(int8(b[1])), b[2:], nil
	case int16Code:
		if len(b) < 3 {
			return 0, b, ErrUnexpectedEnd
		}
		return int64(int16(be.Uint16(b[1:]))), b[3:], nil
	case int32Code:
		if len(b) < 5 {
			return 0, b, ErrUnexpectedEnd
		}
		return int64(int32(be.Uint32(b[1:]))), b[5:], nil
	case int64Code:
		if len(b) < 9 {
			return 0, b, ErrUnexpectedEnd
		}
		return int64(be.Uint64(b[1:])), b[9:], nil
	}
	return 0, b, TypeError{Method: "int64", Encoded: "unknown"}
}

// ReadUint64Bytes reads any MessagePack integer format as a uint64. Formats
// that can encode a negative value (negative fixint, int8/16/32/64) are
// rejected rather than silently wrapped to a huge unsigned magnitude. Parsed
// directly rather than via ReadInt64Bytes because uint64Code values above
// math.MaxInt64 don't survive an int64 round trip.
func ReadUint64Bytes(b []byte) (uint64, []byte, error) {
	if len(b) < 1 {
		return 0, b, ErrUnexpectedEnd
	}
	lead := b[0]
	switch {
	case lead <= fixintPosMax:
		return uint64(lead), b[1:], nil
	case lead >= fixintNegMin:
		return 0, b, TypeError{Method: "uint64", Encoded: "negative fixint"}
	}
	switch lead {
	case uint8Code:
		if len(b) < 2 {
			return 0, b, ErrUnexpectedEnd
		}
		return uint64(b[1]), b[2:], nil
	case uint16Code:
		if len(b) < 3 {
			return 0, b, ErrUnexpectedEnd
		}
		return uint64(be.Uint16(b[1:])), b[3:], nil
	case uint32Code:
		if len(b) < 5 {
			return 0, b, ErrUnexpectedEnd
		}
		return uint64(be.Uint32(b[1:])), b[5:], nil
	case uint64Code:
		if len(b) < 9 {
			return 0, b, ErrUnexpectedEnd
		}
		return be.Uint64(b[1:]), b[9:], nil
	case int8Code, int16Code, int32Code, int64Code:
		i, o, err := ReadInt64Bytes(b)
		if err != nil {
			return 0, b, err
		}
		if i < 0 {
			return 0, b, TypeError{Method: "uint64", Encoded: "negative int"}
		}
		return uint64(i), o, nil
	}
	return 0, b, TypeError{Method: "uint64", Encoded: "unknown"}
}

// ReadFloat32Bytes reads a float32.
func ReadFloat32Bytes(b []byte) (float32, []byte, error) {
	if len(b) < 5 || b[0] != float32Code {
		return 0, b, TypeError{Method: "float32", Encoded: "unknown"}
	}
	return math.Float32frombits(be.Uint32(b[1:])), b[5:], nil
}

// ReadFloat64Bytes reads a float64.
func ReadFloat64Bytes(b []byte) (float64, []byte, error) {
	if len(b) < 9 || b[0] != float64Code {
		return 0, b, TypeError{Method: "float64", Encoded: "unknown"}
	}
	return math.Float64frombits(be.Uint64(b[1:])), b[9:], nil
}

// ReadStrHeader reads a string header, returning the payload length.
func ReadStrHeader(b []byte) (n int, rest []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrUnexpectedEnd
	}
	lead := b[0]
	if lead&0xe0 == fixstrMask {
		return int(lead & fixstrMax), b[1:], nil
	}
	switch lead {
	case str8:
		if len(b) < 2 {
			return 0, b, ErrUnexpectedEnd
		}
		return int(b[1]), b[2:], nil
	case str16:
		if len(b) < 3 {
			return 0, b, ErrUnexpectedEnd
		}
		return int(be.Uint16(b[1:])), b[3:], nil
	case str32:
		if len(b) < 5 {
			return 0, b, ErrUnexpectedEnd
		}
		return int(be.Uint32(b[1:])), b[5:], nil
	}
	return 0, b, TypeError{Method: "str", Encoded: "unknown"}
}

// ReadStringBytes reads a complete string, validating UTF-8.
func ReadStringBytes(b []byte) (string, []byte, error) {
	n, o, err := ReadStrHeader(b)
	if err != nil {
		return "", b, err
	}
	if len(o) < n {
		return "", b, ErrUnexpectedEnd
	}
	raw := o[:n]
	if !utf8.Valid(raw) {
		return "", b, ErrInvalidUTF8
	}
	return string(raw), o[n:], nil
}

// ReadBinHeader reads a bin header, returning the payload length.
func ReadBinHeader(b []byte) (n int, rest []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrUnexpectedEnd
	}
	switch b[0] {
	case bin8:
		if len(b) < 2 {
			return 0, b, ErrUnexpectedEnd
		}
		return int(b[1]), b[2:], nil
	case bin16:
		if len(b) < 3 {
			return 0, b, ErrUnexpectedEnd
		}
		return int(be.Uint16(b[1:])), b[3:], nil
	case bin32:
		if len(b) < 5 {
			return 0, b, ErrUnexpectedEnd
		}
		return int(be.Uint32(b[1:])), b[5:], nil
	}
	return 0, b, TypeError{Method: "bin", Encoded: "unknown"}
}

// ReadBytesBytes reads a complete byte string, zero-copy into b.
func ReadBytesBytes(b []byte) ([]byte, []byte, error) {
	n, o, err := ReadBinHeader(b)
	if err != nil {
		return nil, b, err
	}
	if len(o) < n {
		return nil, b, ErrUnexpectedEnd
	}
	return o[:n], o[n:], nil
}

// ReadArrHeader reads an array header, returning the element count.
func ReadArrHeader(b []byte) (n int, rest []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrUnexpectedEnd
	}
	lead := b[0]
	if lead&0xf0 == fixarrMask {
		return int(lead & fixarrMax), b[1:], nil
	}
	switch lead {
	case array16:
		if len(b) < 3 {
			return 0, b, ErrUnexpectedEnd
		}
		return int(be.Uint16(b[1:])), b[3:], nil
	case array32:
		if len(b) < 5 {
			return 0, b, ErrUnexpectedEnd
		}
		return int(be.Uint32(b[1:])), b[5:], nil
	}
	return 0, b, TypeError{Method: "array", Encoded: "unknown"}
}

// ReadObjHeader reads a map header, returning the pair count.
func ReadObjHeader(b []byte) (n int, rest []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrUnexpectedEnd
	}
	lead := b[0]
	if lead&0xf0 == fixmapMask {
		return int(lead & fixmapMax), b[1:], nil
	}
	switch lead {
	case map16:
		if len(b) < 3 {
			return 0, b, ErrUnexpectedEnd
		}
		return int(be.Uint16(b[1:])), b[3:], nil
	case map32:
		if len(b) < 5 {
			return 0, b, ErrUnexpectedEnd
		}
		return int(be.Uint32(b[1:])), b[5:], nil
	}
	return 0, b, TypeError{Method: "map", Encoded: "unknown"}
}

// ReadExtHeader reads an extension header, returning the payload length
// and extension type byte.
func ReadExtHeader(b []byte) (n int, extType int8, rest []byte, err error) {
	if len(b) < 1 {
		return 0, 0, b, ErrUnexpectedEnd
	}
	switch b[0] {
	case fixext1, fixext2, fixext4, fixext8, fixext16:
		if len(b) < 2 {
			return 0, 0, b, ErrUnexpectedEnd
		}
		sizes := map[byte]int{fixext1: 1, fixext2: 2, fixext4: 4, fixext8: 8, fixext16: 16}
		return sizes[b[0]], int8(b[1]), b[2:], nil
	case ext8:
		if len(b) < 3 {
			return 0, 0, b, ErrUnexpectedEnd
		}
		return int(b[1]), int8(b[2]), b[3:], nil
	case ext16:
		if len(b) < 4 {
			return 0, 0, b, ErrUnexpectedEnd
		}
		return int(be.Uint16(b[1:])), int8(b[3]), b[4:], nil
	case ext32:
		if len(b) < 6 {
			return 0, 0, b, ErrUnexpectedEnd
		}
		return int(be.Uint32(b[1:])), int8(b[5]), b[6:], nil
	}
	return 0, 0, b, TypeError{Method: "ext", Encoded: "unknown"}
}

// ReadExtBytes reads a complete extension, zero-copy payload into b.
func ReadExtBytes(b []byte) (extType int8, payload []byte, rest []byte, err error) {
	n, extType, o, err := ReadExtHeader(b)
	if err != nil {
		return 0, nil, b, err
	}
	if len(o) < n {
		return 0, nil, b, ErrUnexpectedEnd
	}
	return extType, o[:n], o[n:], nil
}
