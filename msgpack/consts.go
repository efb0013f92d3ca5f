// Package msgpack implements the MessagePack wire format (spec §4.3)
// against the shared value.Value model, in the same AppendX/ReadXBytes
// style the cbor package uses.
package msgpack

const (
	fixintPosMax = 0x7f // 0x00-0x7f: positive fixint
	fixintNegMin = 0xe0 // 0xe0-0xff: negative fixint (-32..-1)

	nilCode   = 0xc0
	falseCode = 0xc2
	trueCode  = 0xc3

	bin8  = 0xc4
	bin16 = 0xc5
	bin32 = 0xc6

	ext8  = 0xc7
	ext16 = 0xc8
	ext32 = 0xc9

	float32Code = 0xca
	float64Code = 0xcb

	uint8Code  = 0xcc
	uint16Code = 0xcd
	uint32Code = 0xce
	uint64Code = 0xcf

	int8Code  = 0xd0
	int16Code = 0xd1
	int32Code = 0xd2
	int64Code = 0xd3

	fixext1  = 0xd4
	fixext2  = 0xd5
	fixext4  = 0xd6
	fixext8  = 0xd7
	fixext16 = 0xd8

	str8  = 0xd9
	str16 = 0xda
	str32 = 0xdb

	array16 = 0xdc
	array32 = 0xdd

	map16 = 0xde
	map32 = 0xdf

	fixstrMask = 0xa0 // 0xa0-0xbf: fixstr, length in low 5 bits
	fixarrMask = 0x90 // 0x90-0x9f: fixarray, length in low 4 bits
	fixmapMask = 0x80 // 0x80-0x8f: fixmap, length in low 4 bits

	fixstrMax = 0x1f
	fixarrMax = 0x0f
	fixmapMax = 0x0f
)

// extTimestamp is the MessagePack timestamp extension type (-1), per the
// MessagePack spec's standard extension shapes in 4/8/12-byte forms.
const extTimestamp = int8(-1)
