package smile

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/wireval/codec/value"
)

// Decoder reads Smile documents into value.Value trees. Its shared
// tables mirror the Encoder's: reset per top-level Unmarshal call, and
// grown in the same order a conforming encoder would grow its own, so a
// literal string is appended to the table the instant it's read (spec
// §4.5's decoder-symmetry requirement).
type Decoder struct {
	MaxDepth int

	keyTable   sharedTable
	valueTable sharedTable
}

// NewDecoder returns a Decoder with the spec's default recursion cap.
func NewDecoder() *Decoder {
	return &Decoder{MaxDepth: value.DefaultMaxDepth}
}

func (d *Decoder) maxDepth() int {
	if d.MaxDepth == 0 {
		return value.DefaultMaxDepth
	}
	return d.MaxDepth
}

// Unmarshal reads the header then one value, returning the document's
// Options alongside the decoded value and any trailing bytes.
func (d *Decoder) Unmarshal(b []byte) (value.Value, Options, []byte, error) {
	opts, rest, err := ReadHeaderBytes(b)
	if err != nil {
		return value.Value{}, Options{}, b, err
	}
	d.keyTable.reset()
	d.valueTable.reset()
	v, rest, err := d.decodeValue(rest, opts, 0)
	return v, opts, rest, err
}

func (d *Decoder) decodeValue(b []byte, opts Options, depth int) (value.Value, []byte, error) {
	if depth > d.maxDepth() {
		return value.Value{}, b, ErrDepthExceeded
	}
	if len(b) < 1 {
		return value.Value{}, b, ErrUnexpectedEnd
	}
	tok := b[0]

	switch {
	case tok >= shortSharedValueRefMin && tok <= shortSharedValueRefMax:
		idx := int(tok - shortSharedValueRefMin)
		s, ok := d.valueTable.get(idx)
		if !ok {
			return value.Value{}, b, ErrInvalidReference
		}
		return value.String(s), b[1:], nil

	case tok == tokEmptyString:
		return value.String(""), b[1:], nil
	case tok == tokNull:
		return value.Null(), b[1:], nil
	case tok == tokFalse:
		return value.Bool(false), b[1:], nil
	case tok == tokTrue:
		return value.Bool(true), b[1:], nil

	case tok == tokVInt32:
		i, rest, err := ReadZigZagVInt32Bytes(b[1:])
		if err != nil {
			return value.Value{}, b, err
		}
		return value.Int(int64(i)), rest, nil
	case tok == tokVInt64:
		i, rest, err := ReadZigZagVInt64Bytes(b[1:])
		if err != nil {
			return value.Value{}, b, err
		}
		return value.Int(i), rest, nil

	case tok == tokBigInteger:
		raw, rest, err := decode7BitBinary(b[1:])
		if err != nil {
			return value.Value{}, b, err
		}
		return value.BigInt(bigIntFromBytes(raw)), rest, nil

	case tok == tokFloat32:
		if len(b) < 6 {
			return value.Value{}, b, ErrUnexpectedEnd
		}
		raw := unpack7(b[1:6], 4)
		return value.Float32(math.Float32frombits(binary.BigEndian.Uint32(raw))), b[6:], nil

	case tok == tokFloat64:
		if len(b) < 11 {
			return value.Value{}, b, ErrUnexpectedEnd
		}
		raw := unpack7(b[1:11], 8)
		return value.Float64(math.Float64frombits(binary.BigEndian.Uint64(raw))), b[11:], nil

	case tok == tokBigDecimal:
		scale, rest, err := ReadZigZagVInt32Bytes(b[1:])
		if err != nil {
			return value.Value{}, b, err
		}
		raw, rest, err := decode7BitBinary(rest)
		if err != nil {
			return value.Value{}, b, err
		}
		z := bigIntFromBytes(raw)
		ext := value.ExtVal(bigDecimalExtTag, value.Obj(
			value.Pair{Key: "scale", Val: value.Int(int64(scale))},
			value.Pair{Key: "unscaled", Val: value.BigInt(z)},
		))
		return ext, rest, nil

	case tok >= tinyASCIIBase && tok <= tinyASCIIMax:
		return d.readValueLiteral(b, 1, int(tok-tinyASCIIBase)+1, opts)
	case tok >= shortASCIIBase && tok <= shortASCIIMax:
		return d.readValueLiteral(b, 1, int(tok-shortASCIIBase)+33, opts)
	case tok >= tinyUnicodeBase && tok <= tinyUnicodeMax:
		return d.readValueLiteral(b, 1, int(tok-tinyUnicodeBase)+2, opts)
	case tok >= shortUnicodeBase && tok <= shortUnicodeMax:
		return d.readValueLiteral(b, 1, int(tok-shortUnicodeBase)+34, opts)

	case tok >= smallIntBase && tok <= smallIntMax:
		return value.Int(int64(int(tok-smallIntBase) - smallIntBias)), b[1:], nil

	case tok == tokLongASCII || tok == tokLongUnicode:
		return d.readValueLongLiteral(b[1:], opts)

	case tok == tokBinary7Bit:
		raw, rest, err := decode7BitBinary(b[1:])
		if err != nil {
			return value.Value{}, b, err
		}
		return value.BytesVal(raw), rest, nil

	case tok == tokRawBinary:
		n, rest, err := ReadVIntBytes(b[1:])
		if err != nil {
			return value.Value{}, b, err
		}
		if uint64(len(rest)) < n {
			return value.Value{}, b, ErrUnexpectedEnd
		}
		raw := append([]byte(nil), rest[:n]...)
		return value.BytesVal(raw), rest[n:], nil

	case tok >= longSharedValueRefBase && tok <= longSharedValueRefMax:
		if len(b) < 2 {
			return value.Value{}, b, ErrUnexpectedEnd
		}
		idx := int(tok-longSharedValueRefBase)<<8 | int(b[1])
		s, ok := d.valueTable.get(idx)
		if !ok {
			return value.Value{}, b, ErrInvalidReference
		}
		return value.String(s), b[2:], nil

	case tok == tokStartArray:
		return d.decodeArray(b[1:], opts, depth)
	case tok == tokStartObject:
		return d.decodeObject(b[1:], opts, depth)
	}

	return value.Value{}, b, ErrInvalidToken
}

func (d *Decoder) readValueLiteral(b []byte, headerLen, n int, opts Options) (value.Value, []byte, error) {
	if len(b) < headerLen+n {
		return value.Value{}, b, ErrUnexpectedEnd
	}
	raw := b[headerLen : headerLen+n]
	if !utf8.Valid(raw) {
		return value.Value{}, b, ErrInvalidUTF8
	}
	s := string(raw)
	if opts.SharedStringValues {
		d.valueTable.add(s)
	}
	return value.String(s), b[headerLen+n:], nil
}

func (d *Decoder) readValueLongLiteral(b []byte, opts Options) (value.Value, []byte, error) {
	idx := bytes.IndexByte(b, tokEndMarker)
	if idx < 0 {
		return value.Value{}, b, ErrUnexpectedEnd
	}
	raw := b[:idx]
	if !utf8.Valid(raw) {
		return value.Value{}, b, ErrInvalidUTF8
	}
	s := string(raw)
	if opts.SharedStringValues {
		d.valueTable.add(s)
	}
	return value.String(s), b[idx+1:], nil
}

func decode7BitBinary(b []byte) ([]byte, []byte, error) {
	n, rest, err := ReadVIntBytes(b)
	if err != nil {
		return nil, b, err
	}
	nGroups := (int(n)*8 + 6) / 7
	if len(rest) < nGroups {
		return nil, b, ErrUnexpectedEnd
	}
	raw := unpack7(rest[:nGroups], int(n))
	return raw, rest[nGroups:], nil
}

func (d *Decoder) decodeArray(b []byte, opts Options, depth int) (value.Value, []byte, error) {
	var arr []value.Value
	for {
		if len(b) < 1 {
			return value.Value{}, b, ErrUnexpectedEnd
		}
		if b[0] == tokEndArray {
			b = b[1:]
			break
		}
		var el value.Value
		var err error
		el, b, err = d.decodeValue(b, opts, depth+1)
		if err != nil {
			return value.Value{}, b, err
		}
		arr = append(arr, el)
	}
	return value.Arr(arr...), b, nil
}

func (d *Decoder) decodeObject(b []byte, opts Options, depth int) (value.Value, []byte, error) {
	var pairs []value.Pair
	for {
		if len(b) < 1 {
			return value.Value{}, b, ErrUnexpectedEnd
		}
		if b[0] == keyEndObject {
			b = b[1:]
			break
		}
		key, rest, err := d.decodeKey(b, opts)
		if err != nil {
			return value.Value{}, b, err
		}
		var val value.Value
		val, rest, err = d.decodeValue(rest, opts, depth+1)
		if err != nil {
			return value.Value{}, b, err
		}
		pairs = append(pairs, value.Pair{Key: key, Val: val})
		b = rest
	}
	return value.Obj(pairs...), b, nil
}

func (d *Decoder) decodeKey(b []byte, opts Options) (string, []byte, error) {
	if len(b) < 1 {
		return "", b, ErrUnexpectedEnd
	}
	tok := b[0]

	switch {
	case tok == keyEmpty:
		return "", b[1:], nil

	case tok >= keyShortSharedRefBase && tok <= keyShortSharedRefMax:
		idx := int(tok - keyShortSharedRefBase)
		s, ok := d.keyTable.get(idx)
		if !ok {
			return "", b, ErrInvalidReference
		}
		return s, b[1:], nil

	case tok >= keyLongSharedRefBase && tok <= keyLongSharedRefMax:
		if len(b) < 2 {
			return "", b, ErrUnexpectedEnd
		}
		idx := int(tok-keyLongSharedRefBase)<<8 | int(b[1])
		s, ok := d.keyTable.get(idx)
		if !ok {
			return "", b, ErrInvalidReference
		}
		return s, b[2:], nil

	case tok >= keyShortASCIIBase && tok <= keyShortASCIIMax:
		return d.readKeyLiteral(b, 1, int(tok-keyShortASCIIBase)+1, opts)

	case tok >= keyShortUnicodeBase && tok <= keyShortUnicodeMax:
		return d.readKeyLiteral(b, 1, int(tok-keyShortUnicodeBase)+2, opts)

	case tok == keyLongUnicodeName:
		return d.readKeyLongLiteral(b[1:], opts)
	}

	return "", b, ErrInvalidToken
}

func (d *Decoder) readKeyLiteral(b []byte, headerLen, n int, opts Options) (string, []byte, error) {
	if len(b) < headerLen+n {
		return "", b, ErrUnexpectedEnd
	}
	raw := b[headerLen : headerLen+n]
	if !utf8.Valid(raw) {
		return "", b, ErrInvalidUTF8
	}
	s := string(raw)
	if opts.SharedPropertyNames {
		d.keyTable.add(s)
	}
	return s, b[headerLen+n:], nil
}

func (d *Decoder) readKeyLongLiteral(b []byte, opts Options) (string, []byte, error) {
	idx := bytes.IndexByte(b, tokEndMarker)
	if idx < 0 {
		return "", b, ErrUnexpectedEnd
	}
	raw := b[:idx]
	if !utf8.Valid(raw) {
		return "", b, ErrInvalidUTF8
	}
	s := string(raw)
	if opts.SharedPropertyNames {
		d.keyTable.add(s)
	}
	return s, b[idx+1:], nil
}
