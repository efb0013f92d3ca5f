package path

import (
	"bytes"
	"testing"
)

// A minimal toy wire format used only to exercise path.Find's algorithm
// independently of any real codec. Tags: 'S'<len><bytes> for an opaque
// scalar, 'A'<count><items...> for a definite-length array, 'O'<count>
// <len><keybytes><item>... for a definite-length object. Always
// definite-length, so IsEnd is never consulted (mirrors msgpack's shape).

func buildScalar(s string) []byte {
	return append([]byte{'S', byte(len(s))}, s...)
}

func buildArray(items ...[]byte) []byte {
	b := []byte{'A', byte(len(items))}
	for _, it := range items {
		b = append(b, it...)
	}
	return b
}

type pair struct {
	key string
	val []byte
}

func buildObject(pairs ...pair) []byte {
	b := []byte{'O', byte(len(pairs))}
	for _, p := range pairs {
		b = append(b, byte(len(p.key)))
		b = append(b, p.key...)
		b = append(b, p.val...)
	}
	return b
}

type mockWalker struct{}

func (mockWalker) ReadContainerHeader(b []byte) (isArray bool, count int, rest []byte, err error) {
	if len(b) < 2 {
		return false, 0, b, ErrNotContainer
	}
	switch b[0] {
	case 'A':
		return true, int(b[1]), b[2:], nil
	case 'O':
		return false, int(b[1]), b[2:], nil
	}
	return false, 0, b, ErrNotContainer
}

func (mockWalker) IsEnd(b []byte) (bool, []byte) { return false, b }

func (mockWalker) ReadKey(b []byte) (string, []byte, error) {
	if len(b) < 1 {
		return "", b, ErrNotContainer
	}
	n := int(b[0])
	return string(b[1 : 1+n]), b[1+n:], nil
}

func (mockWalker) SkipAny(b []byte) ([]byte, error) {
	if len(b) < 1 {
		return b, ErrNotContainer
	}
	switch b[0] {
	case 'S':
		n := int(b[1])
		return b[2+n:], nil
	case 'A':
		count := int(b[1])
		cur := b[2:]
		var err error
		for i := 0; i < count; i++ {
			cur, err = mockWalker{}.SkipAny(cur)
			if err != nil {
				return b, err
			}
		}
		return cur, nil
	case 'O':
		count := int(b[1])
		cur := b[2:]
		var err error
		for i := 0; i < count; i++ {
			n := int(cur[0])
			cur = cur[1+n:]
			cur, err = mockWalker{}.SkipAny(cur)
			if err != nil {
				return b, err
			}
		}
		return cur, nil
	}
	return b, ErrNotContainer
}

func TestFindNestedKeyAndIndex(t *testing.T) {
	doc := buildObject(pair{"items", buildArray(
		buildScalar("10"),
		buildScalar("20"),
		buildObject(pair{"name", buildScalar("third")}),
	)})

	got, err := Find(mockWalker{}, doc, []Segment{Key("items"), Index(2), Key("name")})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := buildScalar("third")
	if !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestFindTopLevelIndex(t *testing.T) {
	doc := buildArray(buildScalar("a"), buildScalar("b"), buildScalar("c"))
	got, err := Find(mockWalker{}, doc, []Segment{Index(1)})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !bytes.Equal(got, buildScalar("b")) {
		t.Fatalf("got % X", got)
	}
}

func TestFindKeyNotFound(t *testing.T) {
	doc := buildObject(pair{"a", buildScalar("1")})
	_, err := Find(mockWalker{}, doc, []Segment{Key("missing")})
	if err != ErrKeyNotFound {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestFindIndexOutOfBounds(t *testing.T) {
	doc := buildArray(buildScalar("a"))
	_, err := Find(mockWalker{}, doc, []Segment{Index(5)})
	if err != ErrIndexOutOfBounds {
		t.Fatalf("expected ErrIndexOutOfBounds, got %v", err)
	}
}

func TestFindNotContainer(t *testing.T) {
	doc := buildObject(pair{"a", buildScalar("1")})
	_, err := Find(mockWalker{}, doc, []Segment{Index(0)})
	if err != ErrNotContainer {
		t.Fatalf("expected ErrNotContainer, got %v", err)
	}
}

func TestFindEmptyPath(t *testing.T) {
	doc := buildScalar("root")
	got, err := Find(mockWalker{}, doc, nil)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !bytes.Equal(got, doc) {
		t.Fatalf("got % X, want % X", got, doc)
	}
}
