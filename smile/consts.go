// Package smile implements the Smile binary JSON format (spec §4.5)
// against the shared value.Value model, in the teacher's AppendX/
// ReadXBytes idiom.
package smile

// Header bytes (spec §4.5): ':' ')' '\n' <flags>.
const (
	headerByte0 = 0x3A
	headerByte1 = 0x29
	headerByte2 = 0x0A
)

// Header flag bits.
const (
	flagSharedPropertyNames = 1 << 0
	flagSharedStringValues  = 1 << 1
	flagRawBinaryEnabled    = 1 << 2
)

// Value-mode tokens (spec §4.5 value-mode token map).
const (
	shortSharedValueRefMin = 0x01
	shortSharedValueRefMax = 0x1F

	tokEmptyString = 0x20
	tokNull        = 0x21
	tokFalse       = 0x22
	tokTrue        = 0x23
	tokVInt32      = 0x24
	tokVInt64      = 0x25
	tokBigInteger  = 0x26
	tokFloat32     = 0x28
	tokFloat64     = 0x29
	tokBigDecimal  = 0x2A

	tinyASCIIBase  = 0x40 // length 1..32
	tinyASCIIMax   = 0x5F
	shortASCIIBase = 0x60 // length 33..64
	shortASCIIMax  = 0x7F

	tinyUnicodeBase  = 0x80 // length 2..33 bytes
	tinyUnicodeMax   = 0x9F
	shortUnicodeBase = 0xA0 // length 34..65 bytes
	shortUnicodeMax  = 0xBF

	smallIntBase = 0xC0 // biased -16..+15
	smallIntMax  = 0xDF
	smallIntBias = 16

	tokLongASCII          = 0xE0
	tokLongUnicode        = 0xE4
	tokBinary7Bit         = 0xE8
	longSharedValueRefBase = 0xEC // 0xEC..0xEF, 10-bit index
	longSharedValueRefMax  = 0xEF

	tokStartArray = 0xF8
	tokEndArray   = 0xF9
	tokStartObject = 0xFA
	tokEndMarker  = 0xFC // end-of-string marker for long ASCII/Unicode
	tokRawBinary  = 0xFD
	tokEndOfContent = 0xFF
)

// Key-mode tokens (spec §4.5 key-mode token map).
const (
	keyEmpty = 0x20

	keyLongSharedRefBase = 0x30 // 0x30..0x33, 10-bit index
	keyLongSharedRefMax  = 0x33
	keyLongUnicodeName   = 0x34

	keyShortSharedRefBase = 0x40 // 0x40..0x7F, index 0..63
	keyShortSharedRefMax  = 0x7F

	keyShortASCIIBase = 0x80 // length 1..64
	keyShortASCIIMax  = 0xBF

	keyShortUnicodeBase = 0xC0 // length 2..57 bytes
	keyShortUnicodeMax  = 0xF7

	keyEndObject = 0xFB
)

const recursionLimit = 100000

// bigDecimalExtTag tags the value.Extension a decoder produces for a
// BigDecimal token — Smile has no equivalent to value.Value's native
// kinds for a scaled decimal, so it round-trips as {scale, unscaled}.
const bigDecimalExtTag uint64 = 0x2A
