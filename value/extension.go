package value

// Extension is a tagged wrapper carrying arbitrary content: a CBOR tag,
// a MessagePack extension type, or any other format's analogous
// transparent-envelope concept (spec §3.1).
type Extension struct {
	Tag     uint64
	Payload Value
}

// RawValue is an opaque pre-encoded byte span captured verbatim by a
// decoder, or copied verbatim by an encoder (spec §3.1).
type RawValue struct {
	Bytes []byte
}
