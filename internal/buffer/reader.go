package buffer

import (
	"encoding/binary"
	"math"
)

// Reader is a generic cursor over an immutable byte slice. No codec in
// this module uses it: cbor, msgpack, smile and json all read directly
// from []byte.
type Reader struct {
	data []byte
	x    int
}

// NewReader constructs a Reader over data.
func NewReader(data []byte) *Reader { return &Reader{data: data} }

// Reset rebinds the reader to a new slice and clears the cursor.
func (r *Reader) Reset(data []byte) { r.data = data; r.x = 0 }

// Pos returns the current cursor position.
func (r *Reader) Pos() int { return r.x }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.data) - r.x }

// Peek returns the next byte without advancing, or false at end of input.
func (r *Reader) Peek() (byte, bool) {
	if r.x >= len(r.data) {
		return 0, false
	}
	return r.data[r.x], true
}

// U8 reads one byte.
func (r *Reader) U8() (byte, error) {
	if r.x+1 > len(r.data) {
		return 0, ErrUnexpectedEnd
	}
	v := r.data[r.x]
	r.x++
	return v, nil
}

// U16 reads a big-endian uint16.
func (r *Reader) U16() (uint16, error) {
	if r.x+2 > len(r.data) {
		return 0, ErrUnexpectedEnd
	}
	v := binary.BigEndian.Uint16(r.data[r.x:])
	r.x += 2
	return v, nil
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() (uint32, error) {
	if r.x+4 > len(r.data) {
		return 0, ErrUnexpectedEnd
	}
	v := binary.BigEndian.Uint32(r.data[r.x:])
	r.x += 4
	return v, nil
}

// U64 reads a big-endian uint64.
func (r *Reader) U64() (uint64, error) {
	if r.x+8 > len(r.data) {
		return 0, ErrUnexpectedEnd
	}
	v := binary.BigEndian.Uint64(r.data[r.x:])
	r.x += 8
	return v, nil
}

// F32 reads a big-endian IEEE-754 float32.
func (r *Reader) F32() (float32, error) {
	u, err := r.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// F64 reads a big-endian IEEE-754 float64.
func (r *Reader) F64() (float64, error) {
	u, err := r.U64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// Buf returns a borrowed subslice of n bytes. The caller must not retain
// it past the next Reset.
func (r *Reader) Buf(n int) ([]byte, error) {
	if n < 0 || r.x+n > len(r.data) {
		return nil, ErrUnexpectedEnd
	}
	v := r.data[r.x : r.x+n]
	r.x += n
	return v, nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 || r.x+n > len(r.data) {
		return ErrUnexpectedEnd
	}
	r.x += n
	return nil
}
