package msgpack

import (
	"testing"

	tinylib "github.com/tinylib/msgp/msgp"
	vmsgpack "github.com/vmihailenco/msgpack/v5"

	"github.com/wireval/codec/value"
)

// TestCrossCheckTinylibWriter verifies this package's AppendX output is
// byte-identical to tinylib/msgp's own append helpers for the same values,
// and that each library's reader can decode the other's bytes — the same
// two-independent-implementation cross-check the teacher runs against
// fxamacker/cbor/v2 in tests/runtime-compliance.
func TestCrossCheckTinylibWriter(t *testing.T) {
	ours := AppendString(AppendInt64(AppendMapHeader(nil, 2), -17), "value")
	ours = AppendString(ours, "key2")
	ours = AppendArrayHeader(ours, 3)

	theirs := tinylib.AppendArrayHeader(
		tinylib.AppendString(
			tinylib.AppendString(
				tinylib.AppendInt64(
					tinylib.AppendMapHeader(nil, 2), -17),
				"value"),
			"key2"),
		3)

	if string(ours) != string(theirs) {
		t.Fatalf("byte mismatch:\n ours  %x\n theirs %x", ours, theirs)
	}

	// Each reader must parse the other's bytes identically.
	n, rest, err := tinylib.ReadMapHeaderBytes(ours)
	if err != nil || n != 2 {
		t.Fatalf("tinylib read of our map header: n=%d err=%v", n, err)
	}
	i, rest, err := tinylib.ReadInt64Bytes(rest)
	if err != nil || i != -17 {
		t.Fatalf("tinylib read of our int: v=%d err=%v", i, err)
	}
	s, rest, err := ReadStringBytes(rest)
	if err != nil || s != "value" {
		t.Fatalf("our read of our string: v=%q err=%v", s, err)
	}
	s, rest, err = ReadStringBytes(rest)
	if err != nil || s != "key2" {
		t.Fatalf("our read of our string: v=%q err=%v", s, err)
	}
	if _, _, err := ReadArrHeader(rest); err != nil {
		t.Fatalf("our read of our array header: %v", err)
	}

	n2, _, err := ReadObjHeader(theirs)
	if err != nil || n2 != 2 {
		t.Fatalf("our read of tinylib's map header: n=%d err=%v", n2, err)
	}
}

// TestCrossCheckVmihailencoRoundTrip encodes a value.Value tree with this
// package's Encoder and decodes it with vmihailenco/msgpack/v5 into a
// generic interface{}, confirming agreement on map/array/scalar shapes.
func TestCrossCheckVmihailencoRoundTrip(t *testing.T) {
	v := value.Obj(
		value.Pair{Key: "name", Val: value.String("widget")},
		value.Pair{Key: "count", Val: value.UInt(7)},
		value.Pair{Key: "tags", Val: value.Arr(value.String("a"), value.String("b"))},
		value.Pair{Key: "active", Val: value.Bool(true)},
	)
	enc := NewEncoder(ModeFast)
	b, err := enc.Marshal(nil, v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]interface{}
	if err := vmsgpack.Unmarshal(b, &got); err != nil {
		t.Fatalf("vmihailenco unmarshal: %v", err)
	}
	if got["name"] != "widget" {
		t.Errorf("name: got %v", got["name"])
	}
	if got["active"] != true {
		t.Errorf("active: got %v", got["active"])
	}
	tags, ok := got["tags"].([]interface{})
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tags: got %v", got["tags"])
	}

	// And the reverse: vmihailenco-encoded bytes decode correctly with our
	// Decoder.
	theirs, err := vmsgpack.Marshal(map[string]interface{}{
		"x": int64(42),
		"y": "hi",
	})
	if err != nil {
		t.Fatalf("vmihailenco marshal: %v", err)
	}
	dec := NewDecoder(DecodeLenient)
	ourVal, rest, err := dec.Unmarshal(theirs)
	if err != nil {
		t.Fatalf("our unmarshal of vmihailenco bytes: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes: %d", len(rest))
	}
	x, ok := ourVal.Get("x")
	if !ok || !x.Equal(value.UInt(42)) {
		t.Errorf("x: got %+v", x)
	}
	y, ok := ourVal.Get("y")
	if !ok || !y.Equal(value.String("hi")) {
		t.Errorf("y: got %+v", y)
	}
}
