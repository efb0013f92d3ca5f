package smile

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/wireval/codec/value"
)

// Options controls the Smile header flags and the encoder's shared-table
// behavior (spec §6). Defaults match the spec's recommended profile:
// property names shared, string values and raw binary not.
type Options struct {
	SharedPropertyNames bool
	SharedStringValues  bool
	RawBinaryEnabled    bool
}

// DefaultOptions returns the spec's recommended default profile.
func DefaultOptions() Options {
	return Options{SharedPropertyNames: true}
}

// AppendHeader appends the 4-byte Smile header for opts.
func AppendHeader(b []byte, opts Options) []byte {
	var flags byte
	if opts.SharedPropertyNames {
		flags |= flagSharedPropertyNames
	}
	if opts.SharedStringValues {
		flags |= flagSharedStringValues
	}
	if opts.RawBinaryEnabled {
		flags |= flagRawBinaryEnabled
	}
	return append(b, headerByte0, headerByte1, headerByte2, flags)
}

// ReadHeaderBytes reads and validates the 4-byte Smile header, returning
// the Options it encodes.
func ReadHeaderBytes(b []byte) (Options, []byte, error) {
	if len(b) < 4 {
		return Options{}, b, ErrUnexpectedEnd
	}
	if b[0] != headerByte0 || b[1] != headerByte1 || b[2] != headerByte2 {
		return Options{}, b, ErrInvalidHeader
	}
	flags := b[3]
	if flags>>4 != 0 {
		return Options{}, b, ErrUnsupportedVersion
	}
	opts := Options{
		SharedPropertyNames: flags&flagSharedPropertyNames != 0,
		SharedStringValues:  flags&flagSharedStringValues != 0,
		RawBinaryEnabled:    flags&flagRawBinaryEnabled != 0,
	}
	return opts, b[4:], nil
}

// Encoder writes value.Value trees as Smile documents. The shared-value
// and shared-key tables are scoped to a single Marshal call (spec §5):
// Smile's FIFO dictionaries aren't meant to span independent documents.
type Encoder struct {
	Options Options

	keyTable   sharedTable
	valueTable sharedTable
}

// NewEncoder returns an Encoder configured with opts.
func NewEncoder(opts Options) *Encoder {
	return &Encoder{Options: opts}
}

// Marshal encodes v as a complete Smile document, header included.
func (e *Encoder) Marshal(v value.Value) ([]byte, error) {
	e.keyTable.reset()
	e.valueTable.reset()
	b := AppendHeader(nil, e.Options)
	return e.encodeValue(b, v, 0)
}

func (e *Encoder) encodeValue(b []byte, v value.Value, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, ErrDepthExceeded
	}
	switch v.Kind {
	case value.KindNull:
		return append(b, tokNull), nil
	case value.KindBool:
		if v.Bool {
			return append(b, tokTrue), nil
		}
		return append(b, tokFalse), nil
	case value.KindInt:
		return e.encodeInt(b, v.Int), nil
	case value.KindUint:
		if v.Uint <= math.MaxInt64 {
			return e.encodeInt(b, int64(v.Uint)), nil
		}
		return e.encodeBigIntBytes(b, new(big.Int).SetUint64(v.Uint)), nil
	case value.KindBigInt:
		return e.encodeBigIntBytes(b, v.BigInt), nil
	case value.KindFloat32:
		return e.encodeFloat32(b, v.Float32), nil
	case value.KindFloat64:
		return e.encodeFloat64(b, v.Float64), nil
	case value.KindBytes:
		return e.encodeBytes(b, v.Bytes), nil
	case value.KindString:
		return e.encodeString(b, v.Str, false)
	case value.KindArray:
		return e.encodeArray(b, v.Array, depth)
	case value.KindObject:
		return e.encodeObject(b, v.Object, depth)
	case value.KindMap:
		return e.encodeMapAsObject(b, v.Map, depth)
	case value.KindExtension:
		return e.encodeExtension(b, v.Ext)
	case value.KindRawValue:
		return append(b, v.Raw.Bytes...), nil
	case value.KindTypedArray:
		return e.encodeTypedArray(b, v.Typed, depth)
	}
	return b, ErrInvalidValue
}

func (e *Encoder) encodeInt(b []byte, i int64) []byte {
	if i >= -16 && i <= 15 {
		return append(b, byte(smallIntBase+smallIntBias+int(i)))
	}
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		b = append(b, tokVInt32)
		return AppendZigZagVInt32(b, int32(i))
	}
	b = append(b, tokVInt64)
	return AppendZigZagVInt64(b, i)
}

func appendBinary7Bit(b []byte, tok byte, raw []byte) []byte {
	b = append(b, tok)
	b = AppendVInt(b, uint64(len(raw)))
	return append(b, pack7(raw)...)
}

func (e *Encoder) encodeBigIntBytes(b []byte, z *big.Int) []byte {
	if z == nil {
		return append(b, tokNull)
	}
	return appendBinary7Bit(b, tokBigInteger, bigIntToBytes(z))
}

func (e *Encoder) encodeFloat32(b []byte, f float32) []byte {
	b = append(b, tokFloat32)
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], math.Float32bits(f))
	return append(b, pack7(raw[:])...)
}

func (e *Encoder) encodeFloat64(b []byte, f float64) []byte {
	b = append(b, tokFloat64)
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], math.Float64bits(f))
	return append(b, pack7(raw[:])...)
}

func (e *Encoder) encodeBytes(b []byte, data []byte) []byte {
	if e.Options.RawBinaryEnabled {
		b = append(b, tokRawBinary)
		b = AppendVInt(b, uint64(len(data)))
		return append(b, data...)
	}
	return appendBinary7Bit(b, tokBinary7Bit, data)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

// encodeString writes s as a value-mode string (inKeyPosition=false) or a
// key-mode field name (inKeyPosition=true), consulting and updating the
// matching shared table when the corresponding option is enabled.
func (e *Encoder) encodeString(b []byte, s string, inKeyPosition bool) ([]byte, error) {
	shared := e.Options.SharedStringValues
	table := &e.valueTable
	if inKeyPosition {
		shared = e.Options.SharedPropertyNames
		table = &e.keyTable
	}
	if shared {
		if idx, ok := table.find(s); ok {
			return appendSharedRef(b, idx, inKeyPosition), nil
		}
	}
	b = appendLiteralString(b, s, inKeyPosition)
	if shared {
		table.add(s)
	}
	return b, nil
}

func appendSharedRef(b []byte, idx int, inKeyPosition bool) []byte {
	if inKeyPosition {
		if idx < 64 {
			return append(b, byte(keyShortSharedRefBase+idx))
		}
		return append(b, byte(keyLongSharedRefBase+idx>>8), byte(idx&0xFF))
	}
	if idx < 31 {
		return append(b, byte(shortSharedValueRefMin+idx))
	}
	return append(b, byte(longSharedValueRefBase+idx>>8), byte(idx&0xFF))
}

func appendLiteralString(b []byte, s string, inKeyPosition bool) []byte {
	n := len(s)
	ascii := isASCII(s)
	if inKeyPosition {
		switch {
		case n == 0:
			return append(b, keyEmpty)
		case ascii && n <= 64:
			return append(append(b, byte(keyShortASCIIBase+n-1)), s...)
		case !ascii && n >= 2 && n <= 57:
			return append(append(b, byte(keyShortUnicodeBase+n-2)), s...)
		default:
			b = append(b, keyLongUnicodeName)
			b = append(b, s...)
			return append(b, tokEndMarker)
		}
	}
	switch {
	case n == 0:
		return append(b, tokEmptyString)
	case ascii && n <= 32:
		return append(append(b, byte(tinyASCIIBase+n-1)), s...)
	case ascii && n <= 64:
		return append(append(b, byte(shortASCIIBase+n-33)), s...)
	case ascii:
		b = append(b, tokLongASCII)
		b = append(b, s...)
		return append(b, tokEndMarker)
	case n >= 2 && n <= 33:
		return append(append(b, byte(tinyUnicodeBase+n-2)), s...)
	case n >= 34 && n <= 65:
		return append(append(b, byte(shortUnicodeBase+n-34)), s...)
	default:
		b = append(b, tokLongUnicode)
		b = append(b, s...)
		return append(b, tokEndMarker)
	}
}

func (e *Encoder) encodeArray(b []byte, arr []value.Value, depth int) ([]byte, error) {
	b = append(b, tokStartArray)
	var err error
	for _, el := range arr {
		b, err = e.encodeValue(b, el, depth+1)
		if err != nil {
			return b, err
		}
	}
	return append(b, tokEndArray), nil
}

func (e *Encoder) encodeObject(b []byte, pairs []value.Pair, depth int) ([]byte, error) {
	b = append(b, tokStartObject)
	var err error
	for _, p := range pairs {
		b, err = e.encodeString(b, p.Key, true)
		if err != nil {
			return b, err
		}
		b, err = e.encodeValue(b, p.Val, depth+1)
		if err != nil {
			return b, err
		}
	}
	return append(b, keyEndObject), nil
}

func (e *Encoder) encodeMapAsObject(b []byte, pairs []value.MapPair, depth int) ([]byte, error) {
	b = append(b, tokStartObject)
	var err error
	for _, p := range pairs {
		if p.Key.Kind != value.KindString {
			return b, ErrInvalidValue
		}
		b, err = e.encodeString(b, p.Key.Str, true)
		if err != nil {
			return b, err
		}
		b, err = e.encodeValue(b, p.Val, depth+1)
		if err != nil {
			return b, err
		}
	}
	return append(b, keyEndObject), nil
}

// encodeExtension supports only the BigDecimal convention: Smile has no
// general tagged-extension concept the way CBOR and MessagePack do.
func (e *Encoder) encodeExtension(b []byte, ext *value.Extension) ([]byte, error) {
	if ext.Tag != bigDecimalExtTag {
		return b, ErrInvalidValue
	}
	scaleVal, ok := ext.Payload.Get("scale")
	if !ok {
		return b, ErrInvalidValue
	}
	unscaledVal, ok := ext.Payload.Get("unscaled")
	if !ok {
		return b, ErrInvalidValue
	}
	var scale int32
	switch scaleVal.Kind {
	case value.KindInt:
		scale = int32(scaleVal.Int)
	case value.KindUint:
		scale = int32(scaleVal.Uint)
	default:
		return b, ErrInvalidValue
	}
	var z *big.Int
	switch unscaledVal.Kind {
	case value.KindBigInt:
		z = unscaledVal.BigInt
	case value.KindInt:
		z = big.NewInt(unscaledVal.Int)
	case value.KindUint:
		z = new(big.Int).SetUint64(unscaledVal.Uint)
	default:
		return b, ErrInvalidValue
	}
	b = append(b, tokBigDecimal)
	b = AppendZigZagVInt32(b, scale)
	return appendBinary7BitNoToken(b, bigIntToBytes(z)), nil
}

// appendBinary7BitNoToken writes the VInt-length-prefixed 7-bit-packed
// payload without a leading token byte, for formats like BigDecimal whose
// token was already written by the caller.
func appendBinary7BitNoToken(b []byte, raw []byte) []byte {
	b = AppendVInt(b, uint64(len(raw)))
	return append(b, pack7(raw)...)
}

func (e *Encoder) encodeTypedArray(b []byte, t *value.TypedArray, depth int) ([]byte, error) {
	arr := make([]value.Value, 0, t.Len())
	switch t.Elem {
	case value.ElemInt8:
		for _, x := range t.Int8 {
			arr = append(arr, value.Int(int64(x)))
		}
	case value.ElemInt16:
		for _, x := range t.Int16 {
			arr = append(arr, value.Int(int64(x)))
		}
	case value.ElemInt32:
		for _, x := range t.Int32 {
			arr = append(arr, value.Int(int64(x)))
		}
	case value.ElemInt64:
		for _, x := range t.Int64 {
			arr = append(arr, value.Int(x))
		}
	case value.ElemUint8:
		for _, x := range t.Uint8 {
			arr = append(arr, value.UInt(uint64(x)))
		}
	case value.ElemUint16:
		for _, x := range t.Uint16 {
			arr = append(arr, value.UInt(uint64(x)))
		}
	case value.ElemUint32:
		for _, x := range t.Uint32 {
			arr = append(arr, value.UInt(uint64(x)))
		}
	case value.ElemUint64:
		for _, x := range t.Uint64 {
			arr = append(arr, value.UInt(x))
		}
	case value.ElemFloat32:
		for _, x := range t.Float32 {
			arr = append(arr, value.Float32(x))
		}
	case value.ElemFloat64:
		for _, x := range t.Float64 {
			arr = append(arr, value.Float64(x))
		}
	}
	return e.encodeArray(b, arr, depth)
}
