package buffer

import "encoding/binary"

// Writer adds cursor-capture-and-patch support on top of ByteBuffer, for
// formats that must emit a length prefix before the length of what
// follows is known. No codec in this module uses it: each appends to a
// plain []byte. See spec §3.2/§4.1/§9 ("Writer patching").
type Writer struct {
	bb *ByteBuffer
}

// NewWriter wraps a ByteBuffer in a Writer.
func NewWriter(bb *ByteBuffer) *Writer { return &Writer{bb: bb} }

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.bb.Bytes() }

// Mark captures the current write cursor for a later patch.
func (w *Writer) Mark() int { return w.bb.Len() }

// Reserve advances the cursor by n zeroed bytes and returns that region
// for an immediate direct write, or for a later PatchBytesAt call.
func (w *Writer) Reserve(n int) []byte {
	r := w.bb.Extend(n)
	clear(r)
	return r
}

// PatchBytesAt overwrites the n bytes at the given mark with p.
// len(p) must equal the n originally passed to Reserve at that mark.
func (w *Writer) PatchBytesAt(mark int, p []byte) {
	copy(w.bb.b[mark:mark+len(p)], p)
}

// PatchUint32At overwrites a 4-byte big-endian length placeholder
// previously reserved at mark.
func (w *Writer) PatchUint32At(mark int, v uint32) {
	binary.BigEndian.PutUint32(w.bb.b[mark:mark+4], v)
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(c byte) { w.bb.WriteByte(c) }

// WriteBytes appends a byte slice verbatim.
func (w *Writer) WriteBytes(p []byte) { w.bb.Write(p) }

// WriteString appends a string verbatim (no length prefix).
func (w *Writer) WriteString(s string) { w.bb.WriteString(s) }

// Reset clears the writer for reuse.
func (w *Writer) Reset() { w.bb.Reset() }
