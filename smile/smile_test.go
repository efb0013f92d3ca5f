package smile

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/wireval/codec/path"
	"github.com/wireval/codec/value"
)

func roundTrip(t *testing.T, v value.Value, opts Options) value.Value {
	t.Helper()
	enc := NewEncoder(opts)
	b, err := enc.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	dec := NewDecoder()
	out, _, rest, err := dec.Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes: %d", len(rest))
	}
	if !out.Equal(v) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, v)
	}
	return out
}

// TestSmileNull pins the exact byte sequence for encoding null with the
// default header flags, per the spec's seed scenario.
func TestSmileNull(t *testing.T) {
	enc := NewEncoder(DefaultOptions())
	b, err := enc.Marshal(value.Null())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{0x3A, 0x29, 0x0A, 0x01, 0x21}
	if !bytes.Equal(b, want) {
		t.Fatalf("got % X, want % X", b, want)
	}
}

// TestSmileSharedKey verifies that a repeated object key is emitted
// literally the first time and as a shared-key back-reference the
// second, per the spec's shared-key test scenario.
func TestSmileSharedKey(t *testing.T) {
	doc := value.Arr(
		value.Obj(value.Pair{Key: "n", Val: value.Int(1)}),
		value.Obj(value.Pair{Key: "n", Val: value.Int(2)}),
	)
	enc := NewEncoder(Options{SharedPropertyNames: true})
	b, err := enc.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	body := b[4:] // past header
	if body[0] != tokStartArray {
		t.Fatalf("expected array start, got %#x", body[0])
	}
	body = body[1:]
	if body[0] != tokStartObject {
		t.Fatalf("expected object start, got %#x", body[0])
	}
	body = body[1:]
	if body[0] != keyShortASCIIBase {
		t.Fatalf("expected literal short ASCII key 0x80, got %#x", body[0])
	}

	// The document must decode back to the same value.
	dec := NewDecoder()
	out, _, rest, err := dec.Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes: %d", len(rest))
	}
	if !out.Equal(doc) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, doc)
	}

	// Inspect the second object's key token in the encoded bytes.
	idx := bytes.Index(b, []byte{tokStartObject})
	second := bytes.Index(b[idx+1:], []byte{tokStartObject})
	if second < 0 {
		t.Fatalf("second object not found")
	}
	keyTok := b[idx+1+second+1]
	if keyTok != keyShortSharedRefBase {
		t.Fatalf("expected shared-key reference 0x40 on second use, got %#x", keyTok)
	}
}

func TestSmileRoundTripScalars(t *testing.T) {
	opts := DefaultOptions()
	cases := []value.Value{
		value.Null(),
		value.Bool(true),
		value.Bool(false),
		value.Int(0),
		value.Int(-1),
		value.Int(15),
		value.Int(-16),
		value.Int(16),
		value.Int(-17),
		value.Int(1 << 20),
		value.Int(-(1 << 40)),
		value.UInt(1 << 40),
		value.Float32(3.5),
		value.Float64(2.71828),
		value.String(""),
		value.String("hi"),
		value.String("a longer ascii string that exceeds the tiny range by a fair bit"),
		value.String("héllo wörld"),
		value.BytesVal([]byte{1, 2, 3, 4, 5}),
	}
	for _, v := range cases {
		roundTrip(t, v, opts)
	}
}

func TestSmileBigInt(t *testing.T) {
	z := new(big.Int)
	z.SetString("123456789012345678901234567890", 10)
	roundTrip(t, value.BigInt(z), DefaultOptions())

	neg := new(big.Int).Neg(z)
	roundTrip(t, value.BigInt(neg), DefaultOptions())
}

func TestSmileSharedStringValues(t *testing.T) {
	doc := value.Arr(value.String("repeat"), value.String("repeat"), value.String("other"))
	roundTrip(t, doc, Options{SharedStringValues: true})
}

func TestSmileRawBinary(t *testing.T) {
	data := value.BytesVal(bytes.Repeat([]byte{0xAB}, 200))
	roundTrip(t, data, Options{RawBinaryEnabled: true})
	roundTrip(t, data, Options{RawBinaryEnabled: false})
}

func TestSmileObjectAndArray(t *testing.T) {
	doc := value.Obj(
		value.Pair{Key: "items", Val: value.Arr(value.Int(10), value.Int(20), value.Obj(
			value.Pair{Key: "name", Val: value.String("third")},
		))},
	)
	roundTrip(t, doc, DefaultOptions())
}

func TestFindNestedIndex(t *testing.T) {
	doc := value.Obj(
		value.Pair{Key: "items", Val: value.Arr(value.Int(10), value.Int(20), value.Obj(
			value.Pair{Key: "name", Val: value.String("third")},
		))},
	)
	enc := NewEncoder(DefaultOptions())
	b, err := enc.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	found, err := Find(b, []path.Segment{path.Key("items"), path.Index(2), path.Key("name")})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	dec := NewDecoder()
	v, rest, err := dec.decodeValue(found, DefaultOptions(), 0)
	if err != nil {
		t.Fatalf("decodeValue on found bytes: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes after found value: %d", len(rest))
	}
	if !v.Equal(value.String("third")) {
		t.Fatalf("got %+v, want %q", v, "third")
	}
}

func TestSmileMapRejectsNonStringKeys(t *testing.T) {
	m := value.MapOf(value.MapPair{Key: value.Int(1), Val: value.String("x")})
	enc := NewEncoder(DefaultOptions())
	if _, err := enc.Marshal(m); err != ErrInvalidValue {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestSmileBigDecimal(t *testing.T) {
	unscaled := big.NewInt(123456)
	ext := value.ExtVal(bigDecimalExtTag, value.Obj(
		value.Pair{Key: "scale", Val: value.Int(2)},
		value.Pair{Key: "unscaled", Val: value.BigInt(unscaled)},
	))
	roundTrip(t, ext, DefaultOptions())
}
