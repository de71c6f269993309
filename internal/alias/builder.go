// Package alias allocates the placeholder tokens of DynamoDB expressions.
//
// A Builder lives for one compilation. Name tokens ("#token") stand for attribute
// names and are shared by every occurrence of the same literal. Value tokens
// (":token") stand for values and are owned by one path.
package alias

import (
	"strconv"

	"github.com/jacentio/dyndiff/document"
)

// MaxTokenLength is the longest token DynamoDB accepts, sigil included.
const MaxTokenLength = 255

// suffixReserve is the room kept for a numeric suffix when a candidate is truncated.
const suffixReserve = 4

// Scope separates value tokens allocated for the same path by different clauses.
type Scope uint8

const (
	ScopeUpdate Scope = iota
	ScopeCondition
)

type nameKey struct {
	prefix  string
	literal string
}

type valueKey struct {
	scope  Scope
	prefix string
	path   string
}

// Builder collects name and value tokens. It is not safe for concurrent use.
type Builder struct {
	names      map[string]string
	nameTokens map[nameKey]string

	values      map[string]document.Node
	valueTokens map[valueKey]string
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		names:       make(map[string]string),
		nameTokens:  make(map[nameKey]string),
		values:      make(map[string]document.Node),
		valueTokens: make(map[valueKey]string),
	}
}

// Name returns the token for an attribute name. The same prefix and literal always yield the same token.
func (b *Builder) Name(prefix, literal string) string {
	key := nameKey{prefix: prefix, literal: literal}
	if token, ok := b.nameTokens[key]; ok {
		return token
	}
	candidate := camel(prefix, literal)
	if candidate == "" {
		candidate = "attr"
	}
	token := allocate('#', candidate, func(t string) bool {
		_, taken := b.names[t]
		return taken
	})
	b.names[token] = literal
	b.nameTokens[key] = token
	return token
}

// Path renders p with name tokens, e.g. #parent.#child[2]. List indices stay literal.
func (b *Builder) Path(prefix string, p document.Path) string {
	buf := make([]byte, 0, 16*len(p))
	for i, seg := range p {
		if seg.IsIndex() {
			buf = append(buf, '[')
			buf = strconv.AppendInt(buf, int64(seg.Index()), 10)
			buf = append(buf, ']')
			continue
		}
		if i > 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, b.Name(prefix, seg.Key())...)
	}
	return string(buf)
}

// Value returns the token holding v for the given path. Tokens are never shared
// between paths, nor between scopes or prefixes on the same path.
func (b *Builder) Value(scope Scope, prefix string, p document.Path, v document.Node) string {
	key := valueKey{scope: scope, prefix: prefix, path: p.String()}
	if token, ok := b.valueTokens[key]; ok {
		b.values[token] = v
		return token
	}
	parts := make([]string, 0, len(p)+1)
	parts = append(parts, prefix)
	for _, seg := range p {
		parts = append(parts, seg.Text())
	}
	candidate := camel(parts...)
	if candidate == "" {
		candidate = "val"
	}
	token := allocate(':', candidate, func(t string) bool {
		_, taken := b.values[t]
		return taken
	})
	b.values[token] = v
	b.valueTokens[key] = token
	return token
}

// Names returns the name table, or nil when no name was allocated.
func (b *Builder) Names() map[string]string {
	if len(b.names) == 0 {
		return nil
	}
	out := make(map[string]string, len(b.names))
	for k, v := range b.names {
		out[k] = v
	}
	return out
}

// Values returns the value table, or nil when no value was allocated.
func (b *Builder) Values() map[string]document.Node {
	if len(b.values) == 0 {
		return nil
	}
	out := make(map[string]document.Node, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// allocate picks the first free token for candidate.
// A candidate that fits and is free is used as is. An over-long candidate is cut and
// always suffixed, starting at 1. A taken candidate gets the smallest free suffix.
func allocate(sigil byte, candidate string, taken func(string) bool) string {
	stem := string(sigil) + candidate
	if len(stem) <= MaxTokenLength {
		if !taken(stem) {
			return stem
		}
	} else {
		stem = stem[:MaxTokenLength-suffixReserve]
	}
	for n := 1; ; n++ {
		suffix := strconv.Itoa(n)
		base := stem
		if len(base)+len(suffix) > MaxTokenLength {
			base = base[:MaxTokenLength-len(suffix)]
		}
		if token := base + suffix; !taken(token) {
			return token
		}
	}
}
