package smile

import "math/big"

// bigIntToBytes encodes z as a minimal big-endian two's-complement byte
// string, the representation Smile's BigInteger and BigDecimal tokens
// carry (spec §4.5).
func bigIntToBytes(z *big.Int) []byte {
	if z.Sign() == 0 {
		return []byte{0}
	}
	if z.Sign() > 0 {
		mag := z.Bytes()
		if mag[0]&0x80 != 0 {
			mag = append([]byte{0}, mag...)
		}
		return mag
	}

	mag := new(big.Int).Neg(z).Bytes()
	buf := make([]byte, len(mag))
	copy(buf, mag)
	for i := range buf {
		buf[i] = ^buf[i]
	}
	carry := 1
	for i := len(buf) - 1; i >= 0 && carry > 0; i-- {
		sum := int(buf[i]) + carry
		buf[i] = byte(sum)
		carry = sum >> 8
	}
	if buf[0]&0x80 == 0 {
		buf = append([]byte{0xFF}, buf...)
	}
	return buf
}

// bigIntFromBytes reverses bigIntToBytes.
func bigIntFromBytes(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	if b[0]&0x80 == 0 {
		return new(big.Int).SetBytes(b)
	}

	buf := make([]byte, len(b))
	copy(buf, b)
	for i := range buf {
		buf[i] = ^buf[i]
	}
	carry := 1
	for i := len(buf) - 1; i >= 0 && carry > 0; i-- {
		sum := int(buf[i]) + carry
		buf[i] = byte(sum)
		carry = sum >> 8
	}
	mag := new(big.Int).SetBytes(buf)
	return mag.Neg(mag)
}
