package cbor

import (
	"testing"
	"time"

	"github.com/wireval/codec/path"
	"github.com/wireval/codec/value"
)

func roundTrip(t *testing.T, v value.Value, mode EncodeMode) value.Value {
	t.Helper()
	enc := NewEncoder(mode)
	b, err := enc.Marshal(nil, v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	dec := NewDecoder(DecodeLenient)
	out, rest, err := dec.Unmarshal(b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("unexpected trailing bytes: %d", len(rest))
	}
	return out
}

func TestRoundTripScalars(t *testing.T) {
	cases := []value.Value{
		value.Null(),
		value.Bool(true),
		value.Bool(false),
		value.Int(-42),
		value.UInt(42),
		value.Float64(3.14159),
		value.String("hello, cbor"),
		value.BytesVal([]byte{0x01, 0x02, 0x03}),
	}
	for _, v := range cases {
		got := roundTrip(t, v, ModeFast)
		if !got.Equal(v) {
			t.Errorf("round trip mismatch: want %+v got %+v", v, got)
		}
	}
}

func TestCBORIndefiniteArray(t *testing.T) {
	b := AppendArrayHeaderIndefinite(nil)
	b = AppendInt64(b, 1)
	b = AppendInt64(b, 2)
	b = AppendInt64(b, 3)
	b = AppendBreak(b)

	dec := NewDecoder(DecodeLenient)
	got, rest, err := dec.Unmarshal(b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes: %d", len(rest))
	}
	want := value.Arr(value.Int(1), value.Int(2), value.Int(3))
	if !got.Equal(want) {
		t.Errorf("want %+v got %+v", want, got)
	}

	strict := NewDecoder(DecodeStrict)
	if _, _, err := strict.Unmarshal(b); err != ErrIndefiniteForbidden {
		t.Errorf("strict decode of indefinite array: want ErrIndefiniteForbidden, got %v", err)
	}
}

func TestCBORTypedArrayTag16LE(t *testing.T) {
	t16 := &value.TypedArray{Elem: value.ElemUint16, Endian: value.LittleEndian, Uint16: []uint16{1, 256, 65535}}
	v := value.TypedVal(t16)
	got := roundTrip(t, v, ModeFull)
	if got.Kind != value.KindTypedArray {
		t.Fatalf("want TypedArray, got %v", got.Kind)
	}
	if !got.Equal(v) {
		t.Errorf("want %+v got %+v", v, got)
	}
}

func TestCBORStableCanonicalization(t *testing.T) {
	v := value.Obj(
		value.Pair{Key: "bb", Val: value.Int(2)},
		value.Pair{Key: "a", Val: value.Int(1)},
		value.Pair{Key: "ccc", Val: value.Int(3)},
	)
	enc := NewEncoder(ModeStable)
	b1, err := enc.Marshal(nil, v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b2, err := enc.Marshal(nil, v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b1) != string(b2) {
		t.Fatalf("stable encoding not deterministic across calls")
	}
	// "a" (len 1) sorts before "bb"/"ccc" (len 2/3) per RFC 8949 4.2.1.
	aKey := AppendString(nil, "a")
	idx := indexOf(b1, aKey)
	if idx != 1 { // map header byte, then shortest key first
		t.Errorf("expected shortest key first at offset 1, found at %d", idx)
	}
}

func indexOf(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func TestCBORDagRejectsNaN(t *testing.T) {
	enc := NewEncoder(ModeDag)
	_, err := enc.Marshal(nil, value.Float64(nan()))
	if err != ErrDagForbiddenFloat {
		t.Errorf("want ErrDagForbiddenFloat, got %v", err)
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestCBORDateOnlyTags(t *testing.T) {
	when := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	b := AppendDateOnly(nil, when)
	days, rest, err := ReadDateOnlyBytes(b)
	if err != nil {
		t.Fatalf("ReadDateOnlyBytes: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes: %d", len(rest))
	}
	if want := int64(19797); days != want {
		t.Errorf("days since epoch: want %d, got %d", want, days)
	}

	dec := NewDecoder(DecodeLenient)
	got, rest, err := dec.Unmarshal(b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes: %d", len(rest))
	}
	if !got.Equal(value.ExtVal(tagDateOnly, value.Int(19797))) {
		t.Errorf("want tag(100) ExtVal, got %+v", got)
	}

	sb := AppendDateOnlyString(nil, when)
	s, rest, err := ReadDateOnlyStringBytes(sb)
	if err != nil {
		t.Fatalf("ReadDateOnlyStringBytes: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes: %d", len(rest))
	}
	if s != "2024-03-15" {
		t.Errorf("date string: got %q", s)
	}
	gotStr, rest, err := dec.Unmarshal(sb)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes: %d", len(rest))
	}
	if !gotStr.Equal(value.ExtVal(tagDateOnlyString, value.String("2024-03-15"))) {
		t.Errorf("want tag(1004) ExtVal, got %+v", gotStr)
	}
}

func TestCBORMultiDimArray(t *testing.T) {
	v := value.ExtVal(tagMultiDimArray, value.Obj(
		value.Pair{Key: "dims", Val: value.Arr(value.UInt(2), value.UInt(3))},
		value.Pair{Key: "flat", Val: value.Arr(
			value.Int(1), value.Int(2), value.Int(3),
			value.Int(4), value.Int(5), value.Int(6),
		)},
	))
	got := roundTrip(t, v, ModeFull)
	if !got.Equal(v) {
		t.Errorf("round trip mismatch: want %+v got %+v", v, got)
	}

	// Tag 41 (homogeneous array hint) wraps a plain single array.
	h := value.ExtVal(tagHomogeneousArray, value.Arr(value.Int(1), value.Int(2)))
	gotH := roundTrip(t, h, ModeFull)
	if !gotH.Equal(h) {
		t.Errorf("round trip mismatch: want %+v got %+v", h, gotH)
	}
}

func TestCBORMultiDimArrayRejectsMalformedPayload(t *testing.T) {
	enc := NewEncoder(ModeFull)
	bad := value.ExtVal(tagMultiDimArray, value.Arr(value.Int(1), value.Int(2)))
	if _, err := enc.Marshal(nil, bad); err != ErrInvalidMultiDimArray {
		t.Fatalf("want ErrInvalidMultiDimArray, got %v", err)
	}
}

func TestFindNestedIndex(t *testing.T) {
	v := value.Obj(
		value.Pair{Key: "items", Val: value.Arr(value.Int(10), value.Int(20), value.Obj(
			value.Pair{Key: "name", Val: value.String("third")},
		))},
	)
	enc := NewEncoder(ModeFast)
	b, err := enc.Marshal(nil, v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	found, err := Find(b, []path.Segment{path.Key("items"), path.Index(2), path.Key("name")})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	dec := NewDecoder(DecodeLenient)
	got, rest, err := dec.Unmarshal(found)
	if err != nil {
		t.Fatalf("unmarshal found range: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("Find returned a range with trailing bytes")
	}
	if !got.Equal(value.String("third")) {
		t.Errorf("want %q, got %+v", "third", got)
	}
}
