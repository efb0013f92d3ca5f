// Package value defines the universal value model every wire codec in
// this module encodes from and decodes into (spec §3.1): the JSON data
// model extended with binary blobs, tagged extensions, big integers, and
// typed arrays.
package value

import "math/big"

// Kind identifies which field of a Value is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindBigInt
	KindFloat32
	KindFloat64
	KindBytes
	KindString
	KindArray
	KindObject
	KindMap
	KindExtension
	KindRawValue
	KindTypedArray
)

// DefaultMaxDepth is the default decoder recursion-depth cap (spec §3.1).
const DefaultMaxDepth = 1024

// Pair is one (string key, Value) entry of an Object.
type Pair struct {
	Key string
	Val Value
}

// MapPair is one (Value key, Value value) entry of a Map. CBOR and
// MessagePack allow non-string map keys; Object is reserved for the
// common string-keyed case.
type MapPair struct {
	Key Value
	Val Value
}

// Value is the tagged union described in spec §3.1. A single struct with
// a Kind discriminator was chosen over interface{}-per-variant so that
// decoders can construct values generically, without a type-switch or
// reflection on the hot decode path (see DESIGN.md).
type Value struct {
	Kind Kind

	Bool    bool
	Int     int64
	Uint    uint64
	BigInt  *big.Int
	Float32 float32
	Float64 float64
	Bytes   []byte
	Str     string
	Array   []Value
	Object  []Pair
	Map     []MapPair
	Ext     *Extension
	Raw     *RawValue
	Typed   *TypedArray
}

// Null returns the Null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a Bool value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int returns a signed Int value.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// UInt returns an unsigned UInt value.
func UInt(u uint64) Value { return Value{Kind: KindUint, Uint: u} }

// BigInt returns a BigInt value.
func BigInt(z *big.Int) Value { return Value{Kind: KindBigInt, BigInt: z} }

// Float32 returns a Float32 value.
func Float32(f float32) Value { return Value{Kind: KindFloat32, Float32: f} }

// Float64 returns a Float64 value.
func Float64(f float64) Value { return Value{Kind: KindFloat64, Float64: f} }

// BytesVal returns a Bytes value. Named BytesVal to avoid colliding with
// the Bytes field when embedded by callers that `import . "value"`-style
// dot-import (not itself idiomatic here, but keeps the constructor name
// unambiguous from the field name in godoc).
func BytesVal(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

// String returns a String value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Arr returns an Array value.
func Arr(vs ...Value) Value { return Value{Kind: KindArray, Array: vs} }

// Obj returns an Object value from the given pairs, insertion order preserved.
func Obj(pairs ...Pair) Value { return Value{Kind: KindObject, Object: pairs} }

// MapOf returns a Map value (non-string-keyed) from the given pairs.
func MapOf(pairs ...MapPair) Value { return Value{Kind: KindMap, Map: pairs} }

// ExtVal returns an Extension-carrying value.
func ExtVal(tag uint64, payload Value) Value {
	return Value{Kind: KindExtension, Ext: &Extension{Tag: tag, Payload: payload}}
}

// RawVal returns a RawValue-carrying value.
func RawVal(b []byte) Value { return Value{Kind: KindRawValue, Raw: &RawValue{Bytes: b}} }

// TypedVal returns a TypedArray-carrying value.
func TypedVal(t *TypedArray) Value { return Value{Kind: KindTypedArray, Typed: t} }

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Get returns the value of the Object pair with the given key, and whether
// it was found. When the key occurs more than once the last pair wins
// (last-write-wins, spec §3.1).
func (v Value) Get(key string) (Value, bool) {
	var found Value
	ok := false
	for _, p := range v.Object {
		if p.Key == key {
			found = p.Val
			ok = true
		}
	}
	return found, ok
}
