// Package path implements the shallow-navigation algorithm shared by the
// cbor, msgpack and smile packages' Find operations (spec §4.7): walk a
// container's header-only structure, skipping whole subtrees that don't
// lie on the requested path, without materializing a Value for any of
// them.
package path

import "errors"

// ErrKeyNotFound is returned when an object segment's key is absent.
var ErrKeyNotFound = errors.New("path: key not found")

// ErrIndexOutOfBounds is returned when an array segment's index exceeds
// the container's length.
var ErrIndexOutOfBounds = errors.New("path: index out of bounds")

// ErrNotContainer is returned when a path segment expects to descend into
// an array or object but the wire value at that position is neither.
var ErrNotContainer = errors.New("path: segment requires an array or object")

// Segment is one step of a navigation path: either an object key or an
// array index.
type Segment struct {
	Key      string
	Index    int
	IsKey    bool
}

// Key returns an object-key segment.
func Key(k string) Segment { return Segment{Key: k, IsKey: true} }

// Index returns an array-index segment.
func Index(i int) Segment { return Segment{Index: i} }

// Walker is the format-specific navigation primitive a codec provides.
// Every method consumes from, and returns, a cursor over the remaining
// wire bytes. The cbor and msgpack implementations never build a Value;
// the smile one decodes each skipped value so its shared string tables
// grow in document order.
type Walker interface {
	// ReadContainerHeader reads the header of the item at the cursor,
	// reporting whether it is an array (isArray) or object/map, and its
	// declared element count (for indefinite-length containers, impls
	// report a count of -1 and the caller iterates via IsEnd).
	ReadContainerHeader(b []byte) (isArray bool, count int, rest []byte, err error)

	// IsEnd reports whether the cursor is positioned at an indefinite-
	// length container's terminator, consuming it if so.
	IsEnd(b []byte) (isEnd bool, rest []byte)

	// ReadKey reads an object key at the cursor (valid only when the
	// enclosing container is an object, per ReadContainerHeader).
	ReadKey(b []byte) (key string, rest []byte, err error)

	// SkipAny advances the cursor past one complete value (scalar or
	// nested container) without interpreting it.
	SkipAny(b []byte) (rest []byte, err error)
}

// Find walks w starting at b along segments, returning the byte range of
// the wire value found, still encoded. Each array/object it descends into
// is entered via ReadContainerHeader; every sibling that isn't on the
// path is skipped whole via SkipAny, so cost is proportional to bytes
// actually visited, not to the size of the document.
func Find(w Walker, b []byte, segments []Segment) ([]byte, error) {
	cur := b
	for _, seg := range segments {
		isArray, count, rest, err := w.ReadContainerHeader(cur)
		if err != nil {
			return nil, err
		}
		cur = rest
		if seg.IsKey {
			if isArray {
				return nil, ErrNotContainer
			}
			found := false
			for i := 0; count < 0 || i < count; i++ {
				if count < 0 {
					isEnd, r := w.IsEnd(cur)
					if isEnd {
						cur = r
						break
					}
				}
				var key string
				key, cur, err = w.ReadKey(cur)
				if err != nil {
					return nil, err
				}
				if key == seg.Key {
					found = true
					break
				}
				cur, err = w.SkipAny(cur)
				if err != nil {
					return nil, err
				}
			}
			if !found {
				return nil, ErrKeyNotFound
			}
		} else {
			if !isArray {
				return nil, ErrNotContainer
			}
			if count >= 0 && seg.Index >= count {
				return nil, ErrIndexOutOfBounds
			}
			for i := 0; i < seg.Index; i++ {
				if count < 0 {
					isEnd, _ := w.IsEnd(cur)
					if isEnd {
						return nil, ErrIndexOutOfBounds
					}
				}
				cur, err = w.SkipAny(cur)
				if err != nil {
					return nil, err
				}
			}
		}
	}
	start := cur
	end, err := w.SkipAny(cur)
	if err != nil {
		return nil, err
	}
	return start[:len(start)-len(end)], nil
}
