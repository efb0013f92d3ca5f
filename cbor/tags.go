package cbor

import (
	"encoding/binary"
	"math"

	"github.com/wireval/codec/value"
)

// RFC 8746 typed-array tags. Tag = 64 + (float<<4) + (signed<<3) +
// (littleEndian<<2) + size, where size is 0-3 for 1/2/4/8-byte integers
// and 1-2 for float32/float64, laid out per the RFC's table; this module only emits/recognizes the
// subset value.ElemKind names (int8/16/32/64, uint8/16/32/64, float32/64).
const (
	tagUint8Array          = 64
	tagUint8ArrayClamped   = 68
	tagInt8Array           = 72
	tagUint16ArrayBE       = 65
	tagUint32ArrayBE       = 66
	tagUint64ArrayBE       = 67
	tagInt16ArrayBE        = 73
	tagInt32ArrayBE        = 74
	tagInt64ArrayBE        = 75
	tagFloat32ArrayBE      = 81
	tagFloat64ArrayBE      = 82
	tagUint16ArrayLE       = 69
	tagUint32ArrayLE       = 70
	tagUint64ArrayLE       = 71
	tagInt16ArrayLE        = 77
	tagInt32ArrayLE        = 78
	tagInt64ArrayLE        = 79
	tagFloat32ArrayLE      = 85
	tagFloat64ArrayLE      = 86
)

// typedArrayTag returns the RFC 8746 tag for the given element kind and
// endianness, and false if no tag is defined for that combination (int8
// and uint8 arrays are byte-order agnostic and have a single tag).
func typedArrayTag(elem value.ElemKind, end value.Endian) (uint64, bool) {
	switch elem {
	case value.ElemUint8:
		return tagUint8Array, true
	case value.ElemInt8:
		return tagInt8Array, true
	case value.ElemUint16:
		if end == value.LittleEndian {
			return tagUint16ArrayLE, true
		}
		return tagUint16ArrayBE, true
	case value.ElemUint32:
		if end == value.LittleEndian {
			return tagUint32ArrayLE, true
		}
		return tagUint32ArrayBE, true
	case value.ElemUint64:
		if end == value.LittleEndian {
			return tagUint64ArrayLE, true
		}
		return tagUint64ArrayBE, true
	case value.ElemInt16:
		if end == value.LittleEndian {
			return tagInt16ArrayLE, true
		}
		return tagInt16ArrayBE, true
	case value.ElemInt32:
		if end == value.LittleEndian {
			return tagInt32ArrayLE, true
		}
		return tagInt32ArrayBE, true
	case value.ElemInt64:
		if end == value.LittleEndian {
			return tagInt64ArrayLE, true
		}
		return tagInt64ArrayBE, true
	case value.ElemFloat32:
		if end == value.LittleEndian {
			return tagFloat32ArrayLE, true
		}
		return tagFloat32ArrayBE, true
	case value.ElemFloat64:
		if end == value.LittleEndian {
			return tagFloat64ArrayLE, true
		}
		return tagFloat64ArrayBE, true
	}
	return 0, false
}

// typedArrayKindFromTag is the inverse of typedArrayTag.
func typedArrayKindFromTag(tag uint64) (value.ElemKind, value.Endian, int, bool) {
	switch tag {
	case tagUint8Array, tagUint8ArrayClamped:
		return value.ElemUint8, value.BigEndian, 1, true
	case tagInt8Array:
		return value.ElemInt8, value.BigEndian, 1, true
	case tagUint16ArrayBE:
		return value.ElemUint16, value.BigEndian, 2, true
	case tagUint16ArrayLE:
		return value.ElemUint16, value.LittleEndian, 2, true
	case tagUint32ArrayBE:
		return value.ElemUint32, value.BigEndian, 4, true
	case tagUint32ArrayLE:
		return value.ElemUint32, value.LittleEndian, 4, true
	case tagUint64ArrayBE:
		return value.ElemUint64, value.BigEndian, 8, true
	case tagUint64ArrayLE:
		return value.ElemUint64, value.LittleEndian, 8, true
	case tagInt16ArrayBE:
		return value.ElemInt16, value.BigEndian, 2, true
	case tagInt16ArrayLE:
		return value.ElemInt16, value.LittleEndian, 2, true
	case tagInt32ArrayBE:
		return value.ElemInt32, value.BigEndian, 4, true
	case tagInt32ArrayLE:
		return value.ElemInt32, value.LittleEndian, 4, true
	case tagInt64ArrayBE:
		return value.ElemInt64, value.BigEndian, 8, true
	case tagInt64ArrayLE:
		return value.ElemInt64, value.LittleEndian, 8, true
	case tagFloat32ArrayBE:
		return value.ElemFloat32, value.BigEndian, 4, true
	case tagFloat32ArrayLE:
		return value.ElemFloat32, value.LittleEndian, 4, true
	case tagFloat64ArrayBE:
		return value.ElemFloat64, value.BigEndian, 8, true
	case tagFloat64ArrayLE:
		return value.ElemFloat64, value.LittleEndian, 8, true
	}
	return 0, 0, 0, false
}

// AppendTypedArray appends a RFC 8746 typed array: the element tag
// followed by a byte-string payload holding the packed, byte-order-tagged
// elements.
func AppendTypedArray(b []byte, t *value.TypedArray) []byte {
	tag, ok := typedArrayTag(t.Elem, t.Endian)
	if !ok {
		return AppendNil(b)
	}
	b = AppendTag(b, tag)
	order := endianOf(t.Endian)
	switch t.Elem {
	case value.ElemUint8:
		return AppendBytes(b, t.Uint8)
	case value.ElemInt8:
		raw := make([]byte, len(t.Int8))
		for i, v := range t.Int8 {
			raw[i] = byte(v)
		}
		return AppendBytes(b, raw)
	case value.ElemUint16:
		raw := make([]byte, 2*len(t.Uint16))
		for i, v := range t.Uint16 {
			order.PutUint16(raw[i*2:], v)
		}
		return AppendBytes(b, raw)
	case value.ElemInt16:
		raw := make([]byte, 2*len(t.Int16))
		for i, v := range t.Int16 {
			order.PutUint16(raw[i*2:], uint16(v))
		}
		return AppendBytes(b, raw)
	case value.ElemUint32:
		raw := make([]byte, 4*len(t.Uint32))
		for i, v := range t.Uint32 {
			order.PutUint32(raw[i*4:], v)
		}
		return AppendBytes(b, raw)
	case value.ElemInt32:
		raw := make([]byte, 4*len(t.Int32))
		for i, v := range t.Int32 {
			order.PutUint32(raw[i*4:], uint32(v))
		}
		return AppendBytes(b, raw)
	case value.ElemUint64:
		raw := make([]byte, 8*len(t.Uint64))
		for i, v := range t.Uint64 {
			order.PutUint64(raw[i*8:], v)
		}
		return AppendBytes(b, raw)
	case value.ElemInt64:
		raw := make([]byte, 8*len(t.Int64))
		for i, v := range t.Int64 {
			order.PutUint64(raw[i*8:], uint64(v))
		}
		return AppendBytes(b, raw)
	case value.ElemFloat32:
		raw := make([]byte, 4*len(t.Float32))
		for i, v := range t.Float32 {
			order.PutUint32(raw[i*4:], math.Float32bits(v))
		}
		return AppendBytes(b, raw)
	case value.ElemFloat64:
		raw := make([]byte, 8*len(t.Float64))
		for i, v := range t.Float64 {
			order.PutUint64(raw[i*8:], math.Float64bits(v))
		}
		return AppendBytes(b, raw)
	}
	return b
}

func endianOf(e value.Endian) binary.ByteOrder {
	if e == value.LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// readMultiDimArrayBody decodes a tag 40/1040 payload (the tag byte
// already consumed; b starts at the 2-element array header) into its
// dimension sizes and flattened element values.
func (d *Decoder) readMultiDimArrayBody(b []byte, depth int) ([]uint64, []value.Value, []byte, error) {
	n, o, err := ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, nil, b, err
	}
	if n != 2 {
		return nil, nil, b, ErrInvalidMultiDimArray
	}
	dimCount, o, err := ReadArrayHeaderBytes(o)
	if err != nil {
		return nil, nil, b, err
	}
	dims := make([]uint64, dimCount)
	for i := range dims {
		var v uint64
		v, o, err = ReadUint64Bytes(o)
		if err != nil {
			return nil, nil, b, err
		}
		dims[i] = v
	}
	flatCount, o, err := ReadArrayHeaderBytes(o)
	if err != nil {
		return nil, nil, b, err
	}
	flat := make([]value.Value, flatCount)
	for i := range flat {
		var v value.Value
		v, o, err = d.decode(o, depth+1)
		if err != nil {
			return nil, nil, b, err
		}
		flat[i] = v
	}
	return dims, flat, o, nil
}

// encodeMultiDimArray appends a tag 40 (row-major) or tag 1040
// (column-major) multi-dimensional array: a 2-element array of
// (dimensions, flat data), mirroring AppendTypedArray's tag-then-payload
// shape for the case where elements are arbitrary Values rather than
// packed bytes. payload must carry "dims" and "flat" array fields, the
// shape produced by this package's own tag 40/1040 decode.
func (e *Encoder) encodeMultiDimArray(b []byte, tag uint64, payload value.Value, depth int) ([]byte, error) {
	dimsVal, ok := payload.Get("dims")
	if !ok || dimsVal.Kind != value.KindArray {
		return b, ErrInvalidMultiDimArray
	}
	flatVal, ok := payload.Get("flat")
	if !ok || flatVal.Kind != value.KindArray {
		return b, ErrInvalidMultiDimArray
	}
	b = AppendTag(b, tag)
	b = AppendArrayHeader(b, 2)
	b, err := e.encode(b, dimsVal, depth+1)
	if err != nil {
		return b, err
	}
	return e.encode(b, flatVal, depth+1)
}

// readTypedArrayBody reads a RFC 8746 typed array previously produced by
// AppendTypedArray. tag must already have been read; raw is the
// byte-string payload.
func readTypedArrayBody(tag uint64, raw []byte) (*value.TypedArray, error) {
	elem, end, width, ok := typedArrayKindFromTag(tag)
	if !ok {
		return nil, &ErrUnsupportedType{}
	}
	if width > 1 && len(raw)%width != 0 {
		return nil, ErrUnexpectedEnd
	}
	n := len(raw) / width
	order := endianOf(end)
	t := &value.TypedArray{Elem: elem, Endian: end}
	switch elem {
	case value.ElemUint8:
		t.Uint8 = append([]byte(nil), raw...)
	case value.ElemInt8:
		t.Int8 = make([]int8, n)
		for i := range t.Int8 {
			t.Int8[i] = int8(raw[i])
		}
	case value.ElemUint16:
		t.Uint16 = make([]uint16, n)
		for i := range t.Uint16 {
			t.Uint16[i] = order.Uint16(raw[i*2:])
		}
	case value.ElemInt16:
		t.Int16 = make([]int16, n)
		for i := range t.Int16 {
			t.Int16[i] = int16(order.Uint16(raw[i*2:]))
		}
	case value.ElemUint32:
		t.Uint32 = make([]uint32, n)
		for i := range t.Uint32 {
			t.Uint32[i] = order.Uint32(raw[i*4:])
		}
	case value.ElemInt32:
		t.Int32 = make([]int32, n)
		for i := range t.Int32 {
			t.Int32[i] = int32(order.Uint32(raw[i*4:]))
		}
	case value.ElemUint64:
		t.Uint64 = make([]uint64, n)
		for i := range t.Uint64 {
			t.Uint64[i] = order.Uint64(raw[i*8:])
		}
	case value.ElemInt64:
		t.Int64 = make([]int64, n)
		for i := range t.Int64 {
			t.Int64[i] = int64(order.Uint64(raw[i*8:]))
		}
	case value.ElemFloat32:
		t.Float32 = make([]float32, n)
		for i := range t.Float32 {
			t.Float32[i] = math.Float32frombits(order.Uint32(raw[i*4:]))
		}
	case value.ElemFloat64:
		t.Float64 = make([]float64, n)
		for i := range t.Float64 {
			t.Float64[i] = math.Float64frombits(order.Uint64(raw[i*8:]))
		}
	}
	return t, nil
}
