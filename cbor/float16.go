package cbor

import "github.com/x448/float16"

// float32ToFloat16Bits converts a float32 to its IEEE 754 binary16
// representation. Delegated to x448/float16 (already a transitive
// dependency of fxamacker/cbor/v2) rather than the bit-twiddling the
// teacher hand-rolled for this same conversion.
func float32ToFloat16Bits(f float32) uint16 {
	return uint16(float16.Fromfloat32(f))
}

// float16BitsToFloat32 converts an IEEE 754 binary16 value back to float32.
func float16BitsToFloat32(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}
