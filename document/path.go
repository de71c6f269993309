package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Segment is one step of a Path: a map key or a list index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a map-key segment.
func Key(k string) Segment { return Segment{key: k} }

// Index returns a list-index segment.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

func (s Segment) IsIndex() bool { return s.isIndex }
func (s Segment) Key() string   { return s.key }
func (s Segment) Index() int    { return s.index }

// Text returns the key, or the index in decimal.
func (s Segment) Text() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path addresses one node from the document root.
type Path []Segment

// Root is the empty path, "$".
var Root = Path{}

// Child returns a new path extended by seg. p is never modified.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

func (p Path) Equal(q Path) bool {
	return len(p) == len(q) && p.HasPrefix(q)
}

// HasPrefix reports whether q is p itself or one of its ancestors.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	for i := range q {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// String renders the canonical form: $.plain.keys["other keys"][0].
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range p {
		switch {
		case seg.isIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
		case isIdentifier(seg.key):
			b.WriteByte('.')
			b.WriteString(seg.key)
		default:
			b.WriteByte('[')
			quoteKey(&b, seg.key)
			b.WriteByte(']')
		}
	}
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// ParsePath parses a root-anchored path such as $.a.b[2], $["key.with.dots"] or $['k'].
// Only child keys and non-negative indexes are accepted: wildcards, slices,
// unions, filters and descents do not address a single node.
func ParsePath(s string) (Path, error) {
	if !strings.HasPrefix(s, "$") {
		return nil, fmt.Errorf("%w: %q must start with $", ErrInvalidPath, s)
	}
	x, err := jp.ParseString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, s, err)
	}
	p := make(Path, 0, len(x))
	for i, frag := range x {
		switch f := frag.(type) {
		case jp.Root:
			if i != 0 {
				return nil, fmt.Errorf("%w: %q: unexpected $", ErrInvalidPath, s)
			}
		case jp.Bracket:
		case jp.Child:
			p = append(p, Key(string(f)))
		case jp.Nth:
			if f < 0 {
				return nil, fmt.Errorf("%w: %q: negative index %d", ErrInvalidPath, s, int(f))
			}
			p = append(p, Index(int(f)))
		default:
			return nil, fmt.Errorf("%w: %q: %T does not address a single node", ErrInvalidPath, s, frag)
		}
	}
	return p, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func quoteKey(b *strings.Builder, k string) {
	b.WriteByte('"')
	for i := 0; i < len(k); i++ {
		switch c := k[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
}
