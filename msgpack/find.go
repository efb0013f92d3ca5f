package msgpack

import "github.com/wireval/codec/path"

// walker implements path.Walker over raw MessagePack bytes. MessagePack
// container headers are always definite-length, so count is never -1 here.
type walker struct{}

func (walker) ReadContainerHeader(b []byte) (isArray bool, count int, rest []byte, err error) {
	if len(b) < 1 {
		return false, 0, b, ErrUnexpectedEnd
	}
	lead := b[0]
	if lead&0xf0 == fixarrMask || lead == array16 || lead == array32 {
		n, o, err := ReadArrHeader(b)
		if err != nil {
			return false, 0, b, err
		}
		return true, n, o, nil
	}
	if lead&0xf0 == fixmapMask || lead == map16 || lead == map32 {
		n, o, err := ReadObjHeader(b)
		if err != nil {
			return false, 0, b, err
		}
		return false, n, o, nil
	}
	return false, 0, b, path.ErrNotContainer
}

// IsEnd always reports false: MessagePack containers are definite-length,
// so Find's walk relies entirely on the count returned by
// ReadContainerHeader rather than an indefinite-length break marker.
func (walker) IsEnd(b []byte) (bool, []byte) { return false, b }

func (walker) ReadKey(b []byte) (string, []byte, error) {
	return ReadStringBytes(b)
}

func (walker) SkipAny(b []byte) ([]byte, error) {
	return Skip(b)
}

// Find locates the wire value at the given path within a MessagePack
// document, returning its still-encoded byte range without decoding
// anything else (spec §4.7).
func Find(b []byte, segments []path.Segment) ([]byte, error) {
	return path.Find(walker{}, b, segments)
}
