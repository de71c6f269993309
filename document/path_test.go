package document_test

import (
	"errors"
	"testing"

	"github.com/jacentio/dyndiff/document"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want document.Path
	}{
		{"$", document.Root},
		{"$.version", document.Path{document.Key("version")}},
		{"$.a.b[2]", document.Path{document.Key("a"), document.Key("b"), document.Index(2)}},
		{`$["key.with.dots"]`, document.Path{document.Key("key.with.dots")}},
		{`$["1atBeginning"]`, document.Path{document.Key("1atBeginning")}},
		{`$['single']`, document.Path{document.Key("single")}},
		{`$.list[0][1]`, document.Path{document.Key("list"), document.Index(0), document.Index(1)}},
		{`$["quote\"d"]`, document.Path{document.Key(`quote"d`)}},
		{`$[""]`, document.Path{document.Key("")}},
		{`$["left-&-right-view"]`, document.Path{document.Key("left-&-right-view")}},
		{`$.Safety.Warning`, document.Path{document.Key("Safety"), document.Key("Warning")}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := document.ParsePath(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	tests := []string{
		"",
		"version",
		"@.a",
		"$..a",
		"$.*",
		"$[*]",
		"$[-1]",
		"$[1:2]",
		"$['a','b']",
		"$.a[?(@.x == 1)]",
		`$["open`,
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := document.ParsePath(in)
			if !errors.Is(err, document.ErrInvalidPath) {
				t.Errorf("expected ErrInvalidPath, got %v", err)
			}
		})
	}
}

func TestPath_StringRoundTrip(t *testing.T) {
	paths := []document.Path{
		document.Root,
		{document.Key("version")},
		{document.Key("a"), document.Index(3), document.Key("b_c")},
		{document.Key("key.with.dots")},
		{document.Key("1atBeginning")},
		{document.Key("tab\there"), document.Key(`back\slash`)},
		{document.Key("")},
	}
	for _, p := range paths {
		t.Run(p.String(), func(t *testing.T) {
			got, err := document.ParsePath(p.String())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(p) {
				t.Errorf("expected %v, got %v", p, got)
			}
		})
	}
}

func TestPath_String(t *testing.T) {
	p := document.Path{document.Key("a"), document.Index(0), document.Key("b c")}
	if got := p.String(); got != `$.a[0]["b c"]` {
		t.Errorf(`expected $.a[0]["b c"], got %s`, got)
	}
}

func TestPath_HasPrefix(t *testing.T) {
	p := document.MustParsePath("$.a.b[1]")
	tests := []struct {
		prefix string
		want   bool
	}{
		{"$", true},
		{"$.a", true},
		{"$.a.b", true},
		{"$.a.b[1]", true},
		{"$.a.b[0]", false},
		{"$.a.b[1].c", false},
		{"$.b", false},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := p.HasPrefix(document.MustParsePath(tt.prefix)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPath_ChildDoesNotAlias(t *testing.T) {
	base := make(document.Path, 1, 4)
	base[0] = document.Key("a")
	x := base.Child(document.Key("x"))
	y := base.Child(document.Key("y"))
	if x[1].Key() != "x" || y[1].Key() != "y" {
		t.Errorf("expected independent children, got %v and %v", x, y)
	}
}

func TestMustParsePath_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	document.MustParsePath("nope")
}
