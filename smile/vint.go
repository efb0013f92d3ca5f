package smile

// maxVIntBytes bounds VInt scanning per spec §4.5's error condition: the
// terminator must be seen within the width needed for a 64-bit value.
const maxVIntBytes = 10

// AppendVInt appends u as a Smile VInt: base-128 little-endian, terminated
// by a final byte with its high bit set and only 6 payload bits (so 0xFF
// never terminates).
func AppendVInt(b []byte, u uint64) []byte {
	for u > 0x3F {
		b = append(b, byte(u&0x7F))
		u >>= 7
	}
	return append(b, byte(u)|0x80)
}

// ReadVIntBytes reads a Smile VInt.
func ReadVIntBytes(b []byte) (uint64, []byte, error) {
	var u uint64
	var shift uint
	for i := 0; i < maxVIntBytes; i++ {
		if i >= len(b) {
			return 0, b, ErrUnexpectedEnd
		}
		c := b[i]
		if c&0x80 != 0 {
			if c&0x40 != 0 {
				return 0, b, ErrMalformedVInt
			}
			u |= uint64(c&0x3F) << shift
			return u, b[i+1:], nil
		}
		u |= uint64(c&0x7F) << shift
		shift += 7
	}
	return 0, b, ErrMalformedVInt
}

// ZigZagEncode32 maps a signed int32 to its ZigZag-encoded uint32.
func ZigZagEncode32(n int32) uint32 { return uint32((n << 1) ^ (n >> 31)) }

// ZigZagDecode32 reverses ZigZagEncode32.
func ZigZagDecode32(u uint32) int32 { return int32(u>>1) ^ -int32(u&1) }

// ZigZagEncode64 maps a signed int64 to its ZigZag-encoded uint64.
func ZigZagEncode64(n int64) uint64 { return uint64((n << 1) ^ (n >> 63)) }

// ZigZagDecode64 reverses ZigZagEncode64.
func ZigZagDecode64(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

// AppendZigZagVInt32 appends a signed int32 as a ZigZag VInt.
func AppendZigZagVInt32(b []byte, n int32) []byte {
	return AppendVInt(b, uint64(ZigZagEncode32(n)))
}

// ReadZigZagVInt32Bytes reads a ZigZag-encoded int32 VInt.
func ReadZigZagVInt32Bytes(b []byte) (int32, []byte, error) {
	u, rest, err := ReadVIntBytes(b)
	if err != nil {
		return 0, b, err
	}
	return ZigZagDecode32(uint32(u)), rest, nil
}

// AppendZigZagVInt64 appends a signed int64 as a ZigZag VInt.
func AppendZigZagVInt64(b []byte, n int64) []byte {
	return AppendVInt(b, ZigZagEncode64(n))
}

// ReadZigZagVInt64Bytes reads a ZigZag-encoded int64 VInt.
func ReadZigZagVInt64Bytes(b []byte) (int64, []byte, error) {
	u, rest, err := ReadVIntBytes(b)
	if err != nil {
		return 0, b, err
	}
	return ZigZagDecode64(u), rest, nil
}
