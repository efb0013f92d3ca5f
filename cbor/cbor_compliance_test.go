package cbor

import (
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"

	"github.com/wireval/codec/value"
)

// TestCrossCheckFxamackerRoundTrip cross-checks this package's wire format
// against fxamacker/cbor/v2, the same two-independent-implementation
// discipline the teacher runs in its own compliance suite.
func TestCrossCheckFxamackerRoundTrip(t *testing.T) {
	v := value.Obj(
		value.Pair{Key: "name", Val: value.String("widget")},
		value.Pair{Key: "count", Val: value.UInt(7)},
		value.Pair{Key: "tags", Val: value.Arr(value.String("a"), value.String("b"))},
		value.Pair{Key: "active", Val: value.Bool(true)},
		value.Pair{Key: "ratio", Val: value.Float64(0.5)},
	)
	enc := NewEncoder(ModeFast)
	b, err := enc.Marshal(nil, v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]interface{}
	if err := fxcbor.Unmarshal(b, &got); err != nil {
		t.Fatalf("fxamacker unmarshal: %v", err)
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

	theirs, err := fxcbor.Marshal(map[string]interface{}{
		"x": int64(42),
		"y": "hi",
	})
	if err != nil {
		t.Fatalf("fxamacker marshal: %v", err)
	}
	dec := NewDecoder(DecodeLenient)
	ourVal, rest, err := dec.Unmarshal(theirs)
	if err != nil {
		t.Fatalf("our unmarshal of fxamacker bytes: %v", err)
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

// TestCrossCheckFxamackerCanonical verifies this package's ModeStable
// output matches fxamacker/cbor/v2's CanonicalEncOptions (RFC 7049
// canonical, length-first key order) on the same map; for these string
// keys that order is the same as RFC 8949 §4.2.1's.
func TestCrossCheckFxamackerCanonical(t *testing.T) {
	v := value.Obj(
		value.Pair{Key: "bb", Val: value.Int(2)},
		value.Pair{Key: "a", Val: value.Int(1)},
		value.Pair{Key: "ccc", Val: value.Int(3)},
	)
	enc := NewEncoder(ModeStable)
	ours, err := enc.Marshal(nil, v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	opts := fxcbor.CanonicalEncOptions()
	fxEnc, err := opts.EncMode()
	if err != nil {
		t.Fatalf("fxamacker EncMode: %v", err)
	}
	theirs, err := fxEnc.Marshal(map[string]int{"bb": 2, "a": 1, "ccc": 3})
	if err != nil {
		t.Fatalf("fxamacker marshal: %v", err)
	}
	if string(ours) != string(theirs) {
		t.Fatalf("canonical byte mismatch:\n ours   %x\n theirs %x", ours, theirs)
	}
}
