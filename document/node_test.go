package document_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/go-cmp/cmp"

	"github.com/jacentio/dyndiff/document"
)

func mustParse(t *testing.T, src string) document.Node {
	t.Helper()
	n, err := document.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return n
}

func TestNode_ZeroIsNull(t *testing.T) {
	var n document.Node
	if !n.IsNull() {
		t.Error("expected zero Node to be null")
	}
	if n.String() != "null" {
		t.Errorf("expected null, got %s", n.String())
	}
}

func TestNumber(t *testing.T) {
	for _, text := range []string{"0", "-0.5e10", "1.50", "12E-3", "123456789012345678901234567890123456789"} {
		t.Run(text, func(t *testing.T) {
			n, err := document.Number(text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Text() != text {
				t.Errorf("expected %s, got %s", text, n.Text())
			}
		})
	}
}

func TestNumber_Invalid(t *testing.T) {
	for _, text := range []string{"", "12abc", "Inf", "-Inf", "NaN", "0x10", "1_000", "+1", ".5", "1.", " 1", "1 ", "01", "1e"} {
		t.Run(text, func(t *testing.T) {
			_, err := document.Number(text)
			if !errors.Is(err, document.ErrUnsupportedValue) {
				t.Errorf("expected ErrUnsupportedValue, got %v", err)
			}
			var ve *document.ValueError
			if !errors.As(err, &ve) || ve.Kind != document.KindNumber {
				t.Errorf("expected number ValueError, got %v", err)
			}
		})
	}
}

func TestMap_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	m := document.Map(
		document.Field{Key: "a", Value: document.Int(1)},
		document.Field{Key: "b", Value: document.Int(2)},
		document.Field{Key: "a", Value: document.Int(3)},
	)
	if diff := cmp.Diff([]string{"a", "b"}, m.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := m.Get("a"); v.Text() != "3" {
		t.Errorf("expected last value 3, got %s", v)
	}
}

func TestNode_IsLeaf(t *testing.T) {
	tests := []struct {
		name string
		node document.Node
		want bool
	}{
		{"null", document.Null(), true},
		{"string", document.String("x"), true},
		{"empty map", document.Map(), true},
		{"empty list", document.List(), true},
		{"map", document.Map(document.Field{Key: "a", Value: document.Null()}), false},
		{"list", document.List(document.Int(1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsLeaf(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNode_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same scalar", `1`, `1`, true},
		{"number spelling", `1`, `1.0`, true},
		{"different numbers", `1`, `2`, false},
		{"string vs number", `"1"`, `1`, false},
		{"map order ignored", `{"a":1,"b":2}`, `{"b":2,"a":1}`, true},
		{"list order matters", `[1,2]`, `[2,1]`, false},
		{"nested", `{"a":{"b":[1,{"c":null}]}}`, `{"a":{"b":[1,{"c":null}]}}`, true},
		{"extra key", `{"a":1}`, `{"a":1,"b":2}`, false},
		{"empty map vs list", `{}`, `[]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := mustParse(t, tt.a), mustParse(t, tt.b)
			if got := a.Equal(b); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if got := b.Equal(a); got != tt.want {
				t.Errorf("expected symmetric %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNode_MarshalJSONKeepsOrder(t *testing.T) {
	n := mustParse(t, `{"z":1,"a":{"y":true,"b":[1,"two",null]}}`)
	b, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"z":1,"a":{"y":true,"b":[1,"two",null]}}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}

func TestNode_Interface(t *testing.T) {
	n := mustParse(t, `{"a":1,"b":[1.5,"x",null,false]}`)
	want := map[string]any{
		"a": int64(1),
		"b": []any{1.5, "x", nil, false},
	}
	if diff := cmp.Diff(want, n.Interface()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNode_AttributeValue(t *testing.T) {
	n := mustParse(t, `{"name":"x","n":2,"ok":true,"nil":null,"l":[1]}`)
	av, ok := n.AttributeValue().(*types.AttributeValueMemberM)
	if !ok {
		t.Fatalf("expected map attribute, got %T", n.AttributeValue())
	}
	if v, ok := av.Value["name"].(*types.AttributeValueMemberS); !ok || v.Value != "x" {
		t.Error("expected name to be 'x'")
	}
	if v, ok := av.Value["n"].(*types.AttributeValueMemberN); !ok || v.Value != "2" {
		t.Error("expected n to be '2'")
	}
	if v, ok := av.Value["ok"].(*types.AttributeValueMemberBOOL); !ok || !v.Value {
		t.Error("expected ok to be true")
	}
	if _, ok := av.Value["nil"].(*types.AttributeValueMemberNULL); !ok {
		t.Error("expected nil to be NULL")
	}
	if v, ok := av.Value["l"].(*types.AttributeValueMemberL); !ok || len(v.Value) != 1 {
		t.Error("expected l to be a one-element list")
	}
}

// --- Lookup / With ---

func TestNode_Lookup(t *testing.T) {
	n := mustParse(t, `{"a":{"b":[10,{"c":"deep"}]}}`)

	v, ok := n.Lookup(document.MustParsePath("$.a.b[1].c"))
	if !ok || v.Text() != "deep" {
		t.Errorf("expected deep, got %s (found=%v)", v, ok)
	}
	if _, ok := n.Lookup(document.MustParsePath("$.a.b[5]")); ok {
		t.Error("expected out of range index to be missing")
	}
	if _, ok := n.Lookup(document.MustParsePath("$.a.x")); ok {
		t.Error("expected missing key to be missing")
	}
	if v, ok := n.Lookup(document.Root); !ok || !v.Equal(n) {
		t.Error("expected root lookup to return the document")
	}
}

func TestNode_With(t *testing.T) {
	n := mustParse(t, `{"a":{"b":[1,2]}}`)

	got, err := n.With(document.MustParsePath("$.x.y"), document.Int(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := mustParse(t, `{"a":{"b":[1,2]},"x":{"y":7}}`); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	got, err = n.With(document.MustParsePath("$.a.b[2]"), document.Int(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := mustParse(t, `{"a":{"b":[1,2,3]}}`); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	got, err = n.With(document.MustParsePath("$.l[0].k"), document.String("v"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := mustParse(t, `{"a":{"b":[1,2]},"l":[{"k":"v"}]}`); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	if want := mustParse(t, `{"a":{"b":[1,2]}}`); !n.Equal(want) {
		t.Errorf("expected original to be untouched, got %s", n)
	}
}

func TestNode_WithErrors(t *testing.T) {
	n := mustParse(t, `{"a":{"b":[1,2]},"s":"x"}`)

	tests := []struct {
		name string
		path string
	}{
		{"index past end", "$.a.b[3]"},
		{"index into map", "$.a[0]"},
		{"key into scalar", "$.s.k"},
		{"key into list", "$.a.b.k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.With(document.MustParsePath(tt.path), document.Null())
			var pe *document.PathError
			if !errors.As(err, &pe) {
				t.Errorf("expected PathError, got %v", err)
			}
		})
	}
}
