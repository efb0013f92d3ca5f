package cbor

import "github.com/wireval/codec/path"

// walker implements path.Walker over raw CBOR bytes.
type walker struct{}

func (walker) ReadContainerHeader(b []byte) (isArray bool, count int, rest []byte, err error) {
	if len(b) < 1 {
		return false, 0, b, ErrUnexpectedEnd
	}
	major := getMajorType(b[0])
	switch major {
	case majorTypeArray:
		sz, indefinite, o, err := ReadArrayStartBytes(b)
		if err != nil {
			return false, 0, b, err
		}
		if indefinite {
			return true, -1, o, nil
		}
		return true, int(sz), o, nil
	case majorTypeMap:
		sz, indefinite, o, err := ReadMapStartBytes(b)
		if err != nil {
			return false, 0, b, err
		}
		if indefinite {
			return false, -1, o, nil
		}
		return false, int(sz), o, nil
	case majorTypeTag:
		// Transparently descend through tags (e.g. self-describe, typed
		// extension wrappers) to the tagged container.
		_, o, err := ReadTagBytes(b)
		if err != nil {
			return false, 0, b, err
		}
		return walker{}.ReadContainerHeader(o)
	}
	return false, 0, b, path.ErrNotContainer
}

func (walker) IsEnd(b []byte) (bool, []byte) {
	rest, ok, err := ReadBreakBytes(b)
	if err != nil || !ok {
		return false, b
	}
	return true, rest
}

func (walker) ReadKey(b []byte) (string, []byte, error) {
	return ReadStringBytes(b)
}

func (walker) SkipAny(b []byte) ([]byte, error) {
	return Skip(b)
}

// Find locates the wire value at the given path within a CBOR document,
// returning its still-encoded byte range without decoding anything else
// (spec §4.7).
func Find(b []byte, segments []path.Segment) ([]byte, error) {
	return path.Find(walker{}, b, segments)
}
