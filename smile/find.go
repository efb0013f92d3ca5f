package smile

import "github.com/wireval/codec/path"

// walker implements path.Walker over raw Smile bytes (after the header).
// Smile's shared-value/shared-key tables are populated in strict document
// order, so the walker carries a live Decoder: every skip and key read
// must grow the tables exactly as a full decode would, or a later
// back-reference would resolve to the wrong entry.
type walker struct {
	d    *Decoder
	opts Options
}

func (w *walker) ReadContainerHeader(b []byte) (isArray bool, count int, rest []byte, err error) {
	if len(b) < 1 {
		return false, 0, b, ErrUnexpectedEnd
	}
	switch b[0] {
	case tokStartArray:
		return true, -1, b[1:], nil
	case tokStartObject:
		return false, -1, b[1:], nil
	}
	return false, 0, b, path.ErrNotContainer
}

func (w *walker) IsEnd(b []byte) (bool, []byte) {
	if len(b) < 1 {
		return false, b
	}
	if b[0] == tokEndArray || b[0] == keyEndObject {
		return true, b[1:]
	}
	return false, b
}

func (w *walker) ReadKey(b []byte) (string, []byte, error) {
	return w.d.decodeKey(b, w.opts)
}

func (w *walker) SkipAny(b []byte) ([]byte, error) {
	_, rest, err := w.d.decodeValue(b, w.opts, 0)
	return rest, err
}

// Find locates the wire value at the given path within a Smile document
// (header included), returning its still-encoded byte range without
// decoding anything outside the path it walks (spec §4.7).
func Find(b []byte, segments []path.Segment) ([]byte, error) {
	opts, rest, err := ReadHeaderBytes(b)
	if err != nil {
		return nil, err
	}
	w := &walker{d: NewDecoder(), opts: opts}
	return path.Find(w, rest, segments)
}
