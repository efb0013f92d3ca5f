package value

import "math"

// Equal implements the spec §8 universal round-trip equivalence relation:
// Null/Bool exact, integers by value, floats bitwise, strings by scalar
// sequence, bytes by byte sequence, arrays index-wise, objects by set of
// (key, value) pairs.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		// Int/Uint carrying the same non-negative value are considered
		// equal across the Int/Uint distinction: CBOR/MessagePack choose
		// major type 0 vs 1 based on sign alone, and a decoder is free to
		// surface a small non-negative wire value as either.
		if v.Kind == KindInt && o.Kind == KindUint && v.Int >= 0 {
			return uint64(v.Int) == o.Uint
		}
		if v.Kind == KindUint && o.Kind == KindInt && o.Int >= 0 {
			return v.Uint == uint64(o.Int)
		}
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Int == o.Int
	case KindUint:
		return v.Uint == o.Uint
	case KindBigInt:
		if v.BigInt == nil || o.BigInt == nil {
			return v.BigInt == o.BigInt
		}
		return v.BigInt.Cmp(o.BigInt) == 0
	case KindFloat32:
		return math.Float32bits(v.Float32) == math.Float32bits(o.Float32)
	case KindFloat64:
		return math.Float64bits(v.Float64) == math.Float64bits(o.Float64)
	case KindBytes:
		return bytesEqual(v.Bytes, o.Bytes)
	case KindString:
		return v.Str == o.Str
	case KindArray:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return objectEqual(v.Object, o.Object)
	case KindMap:
		return mapEqual(v.Map, o.Map)
	case KindExtension:
		if v.Ext == nil || o.Ext == nil {
			return v.Ext == o.Ext
		}
		return v.Ext.Tag == o.Ext.Tag && v.Ext.Payload.Equal(o.Ext.Payload)
	case KindRawValue:
		if v.Raw == nil || o.Raw == nil {
			return v.Raw == o.Raw
		}
		return bytesEqual(v.Raw.Bytes, o.Raw.Bytes)
	case KindTypedArray:
		return typedArrayEqual(v.Typed, o.Typed)
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// objectEqual compares two Objects as sets of (key, value) pairs, last
// occurrence of a duplicate key winning per spec §3.1.
func objectEqual(a, b []Pair) bool {
	am := lastWriteWins(a)
	bm := lastWriteWins(b)
	if len(am) != len(bm) {
		return false
	}
	for k, av := range am {
		bv, ok := bm[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}

func lastWriteWins(pairs []Pair) map[string]Value {
	m := make(map[string]Value, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Val
	}
	return m
}

func mapEqual(a, b []MapPair) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ap := range a {
		found := false
		for i, bp := range b {
			if used[i] {
				continue
			}
			if ap.Key.Equal(bp.Key) && ap.Val.Equal(bp.Val) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func typedArrayEqual(a, b *TypedArray) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Elem != b.Elem {
		return false
	}
	switch a.Elem {
	case ElemInt8:
		return int8SliceEqual(a.Int8, b.Int8)
	case ElemInt16:
		return int16SliceEqual(a.Int16, b.Int16)
	case ElemInt32:
		return int32SliceEqual(a.Int32, b.Int32)
	case ElemInt64:
		return int64SliceEqual(a.Int64, b.Int64)
	case ElemUint8:
		return bytesEqual(a.Uint8, b.Uint8)
	case ElemUint16:
		return uint16SliceEqual(a.Uint16, b.Uint16)
	case ElemUint32:
		return uint32SliceEqual(a.Uint32, b.Uint32)
	case ElemUint64:
		return uint64SliceEqual(a.Uint64, b.Uint64)
	case ElemFloat32:
		if len(a.Float32) != len(b.Float32) {
			return false
		}
		for i := range a.Float32 {
			if math.Float32bits(a.Float32[i]) != math.Float32bits(b.Float32[i]) {
				return false
			}
		}
		return true
	case ElemFloat64:
		if len(a.Float64) != len(b.Float64) {
			return false
		}
		for i := range a.Float64 {
			if math.Float64bits(a.Float64[i]) != math.Float64bits(b.Float64[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func int8SliceEqual(a, b []int8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int16SliceEqual(a, b []int16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int32SliceEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func uint16SliceEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func uint32SliceEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func uint64SliceEqual(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
