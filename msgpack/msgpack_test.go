package msgpack

import (
	"bytes"
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
		value.String("hello, msgpack"),
		value.BytesVal([]byte{0x01, 0x02, 0x03}),
	}
	for _, v := range cases {
		got := roundTrip(t, v, ModeFast)
		if !got.Equal(v) {
			t.Errorf("round trip mismatch: want %+v got %+v", v, got)
		}
	}
}

// TestMsgpackFixintString exercises the boundary between the fixint/fixstr
// compact forms and their widened counterparts (spec §8).
func TestMsgpackFixintString(t *testing.T) {
	ints := []int64{0, 1, 127, 128, 255, 256, 65535, 65536, -1, -32, -33, -128, -129, -32768, -32769}
	for _, i := range ints {
		got := roundTrip(t, value.Int(i), ModeFast)
		want := value.Int(i)
		if i >= 0 {
			want = value.UInt(uint64(i))
		}
		if !got.Equal(want) {
			t.Errorf("int %d: want %+v got %+v", i, want, got)
		}
	}

	strs := []string{"", "a", string(make([]byte, 31)), string(make([]byte, 32)), string(make([]byte, 256))}
	for _, s := range strs {
		got := roundTrip(t, value.String(s), ModeFast)
		if !got.Equal(value.String(s)) {
			t.Errorf("string len %d round trip mismatch", len(s))
		}
	}
}

func TestMsgpackSingleKeyObjectWireBytes(t *testing.T) {
	v := value.Obj(value.Pair{Key: "a", Val: value.Int(1)})
	enc := NewEncoder(ModeFast)
	got, err := enc.Marshal(nil, v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := []byte{0x81, 0xA1, 0x61, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("want % x, got % x", want, got)
	}
}

func TestMsgpackBin(t *testing.T) {
	sizes := []int{0, 1, 255, 256, 65536}
	for _, n := range sizes {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i)
		}
		got := roundTrip(t, value.BytesVal(data), ModeFast)
		if !got.Equal(value.BytesVal(data)) {
			t.Errorf("bin len %d round trip mismatch", n)
		}
	}
}

func TestMsgpackStableCanonicalization(t *testing.T) {
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
}

func TestMsgpackTimestamp(t *testing.T) {
	cases := []time.Time{
		time.Unix(0, 0).UTC(),
		time.Unix(1700000000, 0).UTC(),
		time.Unix(1700000000, 123456789).UTC(),
		time.Unix(-1, 0).UTC(),
	}
	for _, tm := range cases {
		b := AppendTimestamp(nil, tm)
		got, rest, err := ReadTimestampBytes(b)
		if err != nil {
			t.Fatalf("read timestamp: %v", err)
		}
		if len(rest) != 0 {
			t.Fatalf("trailing bytes: %d", len(rest))
		}
		if !got.Equal(tm) {
			t.Errorf("want %v got %v", tm, got)
		}
	}
}

func TestMsgpackExtensionRoundTrip(t *testing.T) {
	v := value.ExtVal(5, value.BytesVal([]byte{0xde, 0xad, 0xbe, 0xef}))
	got := roundTrip(t, v, ModeFast)
	if got.Kind != value.KindExtension {
		t.Fatalf("want Extension, got %v", got.Kind)
	}
	if !got.Equal(v) {
		t.Errorf("want %+v got %+v", v, got)
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
