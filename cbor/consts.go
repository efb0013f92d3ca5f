package cbor

import "math"

// CBOR major types (3 bits), RFC 8949 §3.1.
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeNegInt = 1 // negative integer
	majorTypeBytes  = 2 // byte string
	majorTypeText   = 3 // text string (UTF-8)
	majorTypeArray  = 4 // array
	majorTypeMap    = 5 // map
	majorTypeTag    = 6 // semantic tag
	majorTypeSimple = 7 // float, simple values, break
)

// Additional info values (5 bits), RFC 8949 §3.
const (
	addInfoDirect     = 23 // max direct value
	addInfoUint8      = 24 // 1-byte uint8 follows
	addInfoUint16     = 25 // 2-byte uint16 follows
	addInfoUint32     = 26 // 4-byte uint32 follows
	addInfoUint64     = 27 // 8-byte uint64 follows
	addInfoIndefinite = 31 // indefinite length (bytes/text/array/map) or break
)

// Simple values under major type 7.
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31
)

// Semantic tags this package interprets directly; unrecognized tags still
// round-trip via value.Extension.
const (
	tagDateTimeString   = 0     // RFC 3339 date/time string
	tagEpochDateTime    = 1     // Unix timestamp (int or float)
	tagPosBignum        = 2     // positive bignum
	tagNegBignum        = 3     // negative bignum
	tagDecimalFrac      = 4     // decimal fraction
	tagBigfloat         = 5     // bigfloat
	tagBase64URL        = 21    // expected base64url encoding
	tagBase64           = 22    // expected base64 encoding
	tagBase16           = 23    // expected base16 encoding
	tagCBOR             = 24    // embedded CBOR data item
	tagURI              = 32    // URI
	tagBase64URLString  = 33    // base64url string
	tagBase64String     = 34    // base64 string
	tagRegexp           = 35    // regular expression
	tagMIME             = 36    // MIME message
	tagSelfDescribeCBOR = 55799 // self-describe CBOR (0xd9d9f7)

	// RFC 8746 typed-array tags: 64-79 are fixed-size-integer arrays,
	// 80-87 are IEEE 754 float arrays. Bit 0x04 of (tag-64) selects
	// little-endian; see typedArrayTag/typedArrayKindFromTag in tags.go.
	tagTypedArrayBase = 64
	tagTypedArrayMax  = 87

	// Multi-dimensional/homogeneous array tags: 40/1040 wrap a 2-element
	// array of (dimensions, flat data) in row-major/column-major order;
	// 41 wraps a single array as a same-type-elements hint.
	tagMultiDimArray    = 40   // array of arrays, row-major
	tagHomogeneousArray = 41   // homogeneous array hint
	tagMultiDimArrayCol = 1040 // array of arrays, column-major

	// Date-only tags: 100 is RFC 8943's numeric days-since-epoch shape;
	// 1004 is this module's RFC 3339 "YYYY-MM-DD" string alternative
	// (spec: "tag 1004 ... is an alternative" to tag 100).
	tagDateOnly       = 100  // days since 1970-01-01, as an integer
	tagDateOnlyString = 1004 // "YYYY-MM-DD" string

	tagDAGPB = 42 // reserved by DAG-CBOR; ModeDag refuses to emit it, DecodeStrict refuses to read it
)

const (
	float16ExpBits  = 5
	float16MantBits = 10

	float32ExpBits  = 8
	float32MantBits = 23

	float32SignShift        = float32ExpBits + float32MantBits
	float32ExpShift         = float32MantBits
	float32ExpMask   uint32 = math.MaxUint8
	float32MantMask  uint32 = math.MaxUint32 >> (32 - float32MantBits)
	float32HiddenBit uint32 = float32MantMask + 1
)

// recursionLimit bounds Skip, validation and encode recursion depth
// against adversarial deeply-nested input. Decoding is bounded by the
// Decoder's MaxDepth (value.DefaultMaxDepth unless overridden) instead.
const recursionLimit = 100000

// makeByte builds a CBOR initial byte from a major type and additional info.
func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

// getMajorType extracts the major type from a CBOR initial byte.
func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

// getAddInfo extracts the additional info from a CBOR initial byte.
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}
