package json

import (
	"math"
	"testing"

	"github.com/wireval/codec/value"
)

func decodeStrict(t *testing.T, s string) value.Value {
	t.Helper()
	d := NewDecoder(DecoderOptions{Mode: ModeStrict})
	v, rest, err := d.Unmarshal([]byte(s))
	if err != nil {
		t.Fatalf("Unmarshal(%q): %v", s, err)
	}
	if len(rest) != 0 {
		t.Fatalf("Unmarshal(%q): trailing bytes %q", s, rest)
	}
	return v
}

// TestJSONPartialRecovery covers spec §8's exact partial-recovery
// scenarios: a strict-mode parse of a truncated object errors, while
// partial mode recovers the prefix successfully parsed.
func TestJSONPartialRecovery(t *testing.T) {
	strict := NewDecoder(DecoderOptions{Mode: ModeStrict})
	if _, _, err := strict.Unmarshal([]byte(`{"a":1,"b":`)); err == nil {
		t.Fatalf("strict mode: expected error for truncated object")
	}

	partial := NewDecoder(DecoderOptions{Mode: ModePartial})
	v, _, err := partial.Unmarshal([]byte(`{"a":1,"b":`))
	if err != nil {
		t.Fatalf("partial mode: unexpected error: %v", err)
	}
	want := value.Obj(value.Pair{Key: "a", Val: value.Int(1)})
	if !v.Equal(want) {
		t.Fatalf("got %+v, want %+v", v, want)
	}

	if _, _, err := strict.Unmarshal([]byte(`[1, 2, 3`)); err == nil {
		t.Fatalf("strict mode: expected error for truncated array")
	}
	v, _, err = partial.Unmarshal([]byte(`[1, 2, 3`))
	if err != nil {
		t.Fatalf("partial mode: unexpected error: %v", err)
	}
	wantArr := value.Arr(value.Int(1), value.Int(2), value.Int(3))
	if !v.Equal(wantArr) {
		t.Fatalf("got %+v, want %+v", v, wantArr)
	}
}

func TestJSONPartialTrailingAndRepeatedCommas(t *testing.T) {
	partial := NewDecoder(DecoderOptions{Mode: ModePartial})

	v, _, err := partial.Unmarshal([]byte(`[1,,2,]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(value.Arr(value.Int(1), value.Int(2))) {
		t.Fatalf("got %+v", v)
	}
}

func TestJSONScalars(t *testing.T) {
	cases := []struct {
		in   string
		want value.Value
	}{
		{"null", value.Null()},
		{"true", value.Bool(true)},
		{"false", value.Bool(false)},
		{"0", value.Int(0)},
		{"-1", value.Int(-1)},
		{"1234567890123", value.Int(1234567890123)},
		{"1.5e+10", value.Float64(1.5e10)},
		{"1E-3", value.Float64(1e-3)},
		{`""`, value.String("")},
		{`"hello"`, value.String("hello")},
		{`"a\"b\\c\/d"`, value.String("a\"b\\c/d")},
		{`"AB"`, value.String("AB")},
		{`[1,2,3]`, value.Arr(value.Int(1), value.Int(2), value.Int(3))},
		{`{"a":1,"b":2}`, value.Obj(
			value.Pair{Key: "a", Val: value.Int(1)},
			value.Pair{Key: "b", Val: value.Int(2)},
		)},
	}
	for _, c := range cases {
		got := decodeStrict(t, c.in)
		if !got.Equal(c.want) {
			t.Errorf("decode(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestJSONProtoKeyRejected(t *testing.T) {
	d := NewDecoder(DecoderOptions{Mode: ModeStrict})
	if _, _, err := d.Unmarshal([]byte(`{"__proto__":1}`)); err != ErrProtoKey {
		t.Fatalf("expected ErrProtoKey, got %v", err)
	}

	allowed := NewDecoder(DecoderOptions{Mode: ModeStrict, AllowProtoKey: true})
	v, _, err := allowed.Unmarshal([]byte(`{"__proto__":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(value.Obj(value.Pair{Key: "__proto__", Val: value.Int(1)})) {
		t.Fatalf("got %+v", v)
	}
}

func TestJSONBinaryRoundTrip(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	enc := NewEncoder(EncoderOptions{})
	b, err := enc.Marshal(value.BytesVal(data))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	dec := NewDecoder(DecoderOptions{})
	v, _, err := dec.Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !v.Equal(value.BytesVal(data)) {
		t.Fatalf("got %+v, want Bytes(%v)", v, data)
	}
}

func TestJSONStableEncoding(t *testing.T) {
	a := value.Obj(
		value.Pair{Key: "b", Val: value.Int(2)},
		value.Pair{Key: "a", Val: value.Int(1)},
	)
	b := value.Obj(
		value.Pair{Key: "a", Val: value.Int(1)},
		value.Pair{Key: "b", Val: value.Int(2)},
	)
	enc := NewEncoder(EncoderOptions{Mode: ModeStable})
	outA, err := enc.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	outB, err := enc.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(outA) != string(outB) {
		t.Fatalf("stable encoding not permutation-invariant: %s vs %s", outA, outB)
	}
	want := `{"a":1,"b":2}`
	if string(outA) != want {
		t.Fatalf("got %s, want %s", outA, want)
	}
}

func TestJSONRoundTripViaEncoder(t *testing.T) {
	doc := value.Obj(
		value.Pair{Key: "items", Val: value.Arr(value.Int(10), value.Int(20), value.Obj(
			value.Pair{Key: "name", Val: value.String("third")},
		))},
	)
	enc := NewEncoder(EncoderOptions{})
	b, err := enc.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	dec := NewDecoder(DecoderOptions{})
	v, rest, err := dec.Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes: %q", rest)
	}
	if !v.Equal(doc) {
		t.Fatalf("got %+v, want %+v", v, doc)
	}
}

func TestJSONRejectsNaNAndInf(t *testing.T) {
	enc := NewEncoder(EncoderOptions{})
	if _, err := enc.Marshal(value.Float64(nanValue())); err != ErrInvalidValue {
		t.Fatalf("expected ErrInvalidValue for NaN, got %v", err)
	}
	if _, err := enc.Marshal(value.Float64(math.Inf(1))); err != ErrInvalidValue {
		t.Fatalf("expected ErrInvalidValue for +Inf, got %v", err)
	}
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}
