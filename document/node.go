package document

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Kind is the concrete type of a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindBinary
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Shape groups kinds by how they are traversed.
type Shape uint8

const (
	ShapeScalar Shape = iota
	ShapeList
	ShapeMap
)

// Field is one entry of a map node.
type Field struct {
	Key   string
	Value Node
}

// Node is an immutable document value. The zero Node is null.
type Node struct {
	kind   Kind
	b      bool
	text   string
	bin    []byte
	items  []Node
	fields []Field
	index  map[string]int
}

// Null returns the null node.
func Null() Node { return Node{} }

// Bool returns a boolean node.
func Bool(b bool) Node { return Node{kind: KindBool, b: b} }

// String returns a string node.
func String(s string) Node { return Node{kind: KindString, text: s} }

// Binary returns a binary node holding a copy of b.
func Binary(b []byte) Node {
	return Node{kind: KindBinary, bin: append([]byte(nil), b...)}
}

// Int returns a number node.
func Int(i int64) Node { return Node{kind: KindNumber, text: strconv.FormatInt(i, 10)} }

// Float returns a number node.
func Float(f float64) Node { return Node{kind: KindNumber, text: formatFloat(f)} }

// Number returns a number node from its decimal text. The text must be a JSON
// number: no sign prefix, hex, digit separators or infinities.
func Number(text string) (Node, error) {
	if !isDecimal(text) {
		return Node{}, &ValueError{Kind: KindNumber, Value: text}
	}
	return Node{kind: KindNumber, text: text}, nil
}

func isDecimal(s string) bool {
	if s == "" || !isDigit(s[len(s)-1]) || (s[0] != '-' && !isDigit(s[0])) {
		return false
	}
	return json.Valid([]byte(s))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// List returns a list node.
func List(items ...Node) Node {
	return Node{kind: KindList, items: append([]Node{}, items...)}
}

// Map returns a map node. A repeated key keeps its first position and its last value.
func Map(fields ...Field) Node {
	n := Node{kind: KindMap, fields: make([]Field, 0, len(fields)), index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if i, ok := n.index[f.Key]; ok {
			n.fields[i].Value = f.Value
			continue
		}
		n.index[f.Key] = len(n.fields)
		n.fields = append(n.fields, f)
	}
	return n
}

func formatFloat(f float64) string {
	if f > -1e21 && f < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (n Node) Kind() Kind { return n.kind }

// Shape reports whether n is a scalar, a list or a map.
func (n Node) Shape() Shape {
	switch n.kind {
	case KindList:
		return ShapeList
	case KindMap:
		return ShapeMap
	default:
		return ShapeScalar
	}
}

func (n Node) IsNull() bool { return n.kind == KindNull }

// IsLeaf reports whether n is a scalar or an empty collection.
func (n Node) IsLeaf() bool { return n.Shape() == ShapeScalar || n.Len() == 0 }

// Len returns the number of items or fields of a collection, 0 otherwise.
func (n Node) Len() int {
	switch n.kind {
	case KindList:
		return len(n.items)
	case KindMap:
		return len(n.fields)
	}
	return 0
}

func (n Node) BoolValue() bool { return n.b }

// Text returns the text of a string or number node.
func (n Node) Text() string { return n.text }

// Bytes returns a copy of a binary node's content.
func (n Node) Bytes() []byte { return append([]byte(nil), n.bin...) }

// Item returns the i-th element of a list node.
func (n Node) Item(i int) (Node, bool) {
	if n.kind != KindList || i < 0 || i >= len(n.items) {
		return Node{}, false
	}
	return n.items[i], true
}

// Get returns the value stored under key in a map node.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != KindMap {
		return Node{}, false
	}
	i, ok := n.index[key]
	if !ok {
		return Node{}, false
	}
	return n.fields[i].Value, true
}

// Keys returns the keys of a map node in insertion order.
func (n Node) Keys() []string {
	keys := make([]string, len(n.fields))
	for i, f := range n.fields {
		keys[i] = f.Key
	}
	return keys
}

// Int64 returns the value of an integral number node.
func (n Node) Int64() (int64, bool) {
	if n.kind != KindNumber {
		return 0, false
	}
	i, err := strconv.ParseInt(n.text, 10, 64)
	return i, err == nil
}

// Float64 returns the value of a number node.
func (n Node) Float64() (float64, bool) {
	if n.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.text, 64)
	return f, err == nil
}

// Equal reports deep equality. Map key order is ignored and numbers compare by value.
func (n Node) Equal(o Node) bool {
	if n.kind != o.kind {
		return false
	}
	switch n.kind {
	case KindNull:
		return true
	case KindBool:
		return n.b == o.b
	case KindString:
		return n.text == o.text
	case KindNumber:
		return numbersEqual(n.text, o.text)
	case KindBinary:
		return bytes.Equal(n.bin, o.bin)
	case KindList:
		if len(n.items) != len(o.items) {
			return false
		}
		for i := range n.items {
			if !n.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(n.fields) != len(o.fields) {
			return false
		}
		for _, f := range n.fields {
			v, ok := o.Get(f.Key)
			if !ok || !f.Value.Equal(v) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	x, ok := new(big.Rat).SetString(a)
	if !ok {
		return false
	}
	y, ok := new(big.Rat).SetString(b)
	if !ok {
		return false
	}
	return x.Cmp(y) == 0
}

// Interface converts n into plain Go values: nil, bool, int64 or float64, string,
// []byte, []any and map[string]any.
func (n Node) Interface() any {
	switch n.kind {
	case KindBool:
		return n.b
	case KindNumber:
		if i, ok := n.Int64(); ok {
			return i
		}
		f, _ := n.Float64()
		return f
	case KindString:
		return n.text
	case KindBinary:
		return n.Bytes()
	case KindList:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(n.fields))
		for _, f := range n.fields {
			out[f.Key] = f.Value.Interface()
		}
		return out
	}
	return nil
}

// AttributeValue converts n into a DynamoDB attribute value.
func (n Node) AttributeValue() types.AttributeValue {
	switch n.kind {
	case KindBool:
		return &types.AttributeValueMemberBOOL{Value: n.b}
	case KindNumber:
		return &types.AttributeValueMemberN{Value: n.text}
	case KindString:
		return &types.AttributeValueMemberS{Value: n.text}
	case KindBinary:
		return &types.AttributeValueMemberB{Value: n.Bytes()}
	case KindList:
		items := make([]types.AttributeValue, len(n.items))
		for i, item := range n.items {
			items[i] = item.AttributeValue()
		}
		return &types.AttributeValueMemberL{Value: items}
	case KindMap:
		m := make(map[string]types.AttributeValue, len(n.fields))
		for _, f := range n.fields {
			m[f.Key] = f.Value.AttributeValue()
		}
		return &types.AttributeValueMemberM{Value: m}
	}
	return &types.AttributeValueMemberNULL{Value: true}
}

// MarshalJSON writes n as JSON, keeping map key order.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n Node) writeJSON(buf *bytes.Buffer) error {
	switch n.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(n.b))
	case KindNumber:
		buf.WriteString(n.text)
	case KindString:
		b, err := json.Marshal(n.text)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindBinary:
		buf.WriteByte('"')
		buf.WriteString(base64.StdEncoding.EncodeToString(n.bin))
		buf.WriteByte('"')
	case KindList:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, f := range n.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// String returns the JSON form of n.
func (n Node) String() string {
	b, err := n.MarshalJSON()
	if err != nil {
		return "<" + n.kind.String() + ">"
	}
	return string(b)
}

// Lookup returns the node addressed by p.
func (n Node) Lookup(p Path) (Node, bool) {
	cur := n
	for _, seg := range p {
		var ok bool
		if seg.IsIndex() {
			cur, ok = cur.Item(seg.Index())
		} else {
			cur, ok = cur.Get(seg.Key())
		}
		if !ok {
			return Node{}, false
		}
	}
	return cur, true
}

// With returns a copy of n with v stored at p. Missing levels are created as maps
// or lists depending on the segment; a list index may address an existing element
// or the position right after the last one.
func (n Node) With(p Path, v Node) (Node, error) {
	if len(p) == 0 {
		return v, nil
	}
	seg := p[0]
	if seg.IsIndex() {
		switch n.kind {
		case KindNull:
			n = List()
		case KindList:
		default:
			return Node{}, &PathError{Path: p, Reason: "not a list"}
		}
		i := seg.Index()
		if i > len(n.items) {
			return Node{}, &PathError{Path: p, Reason: "index out of range"}
		}
		var child Node
		if i < len(n.items) {
			child = n.items[i]
		}
		replaced, err := child.With(p[1:], v)
		if err != nil {
			return Node{}, err
		}
		items := append([]Node{}, n.items...)
		if i == len(items) {
			items = append(items, replaced)
		} else {
			items[i] = replaced
		}
		return Node{kind: KindList, items: items}, nil
	}

	switch n.kind {
	case KindNull:
		n = Map()
	case KindMap:
	default:
		return Node{}, &PathError{Path: p, Reason: "not a map"}
	}
	child, _ := n.Get(seg.Key())
	replaced, err := child.With(p[1:], v)
	if err != nil {
		return Node{}, err
	}
	fields := append(append([]Field{}, n.fields...), Field{Key: seg.Key(), Value: replaced})
	return Map(fields...), nil
}
