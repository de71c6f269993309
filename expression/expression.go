package expression

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/dyndiff/diff"
	"github.com/jacentio/dyndiff/document"
	"github.com/jacentio/dyndiff/internal/alias"
)

// Expression is a compiled update. The alias tables are nil when nothing was
// allocated, and ConditionExpression is empty unless a version lock was requested.
type Expression struct {
	UpdateExpression          string
	ConditionExpression       string
	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]document.Node
}

// Empty reports whether the expression updates nothing.
func (e Expression) Empty() bool { return e.UpdateExpression == "" }

// AttributeValues returns the value table in DynamoDB wire form, or nil.
func (e Expression) AttributeValues() map[string]types.AttributeValue {
	if len(e.ExpressionAttributeValues) == 0 {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(e.ExpressionAttributeValues))
	for token, v := range e.ExpressionAttributeValues {
		out[token] = v.AttributeValue()
	}
	return out
}

// LogValue implements slog.LogValuer. Attribute values are left out.
func (e Expression) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("update", e.UpdateExpression)}
	if e.ConditionExpression != "" {
		attrs = append(attrs, slog.String("condition", e.ConditionExpression))
	}
	attrs = append(attrs,
		slog.Int("names", len(e.ExpressionAttributeNames)),
		slog.Int("values", len(e.ExpressionAttributeValues)),
	)
	return slog.GroupValue(attrs...)
}

type clause struct {
	path  string
	token string
}

// compiler renders changes through one call-scoped alias builder.
type compiler struct {
	aliases *alias.Builder
	prefix  string
}

func newCompiler(prefix string) *compiler {
	return &compiler{aliases: alias.NewBuilder(), prefix: prefix}
}

// update allocates aliases for ADD and SET records (names and values), then for
// DELETE records (names only), and renders the UpdateExpression.
func (c *compiler) update(changes diff.Changes) string {
	changes = prune(changes)

	adds := c.writes(changes.Add)
	sets := c.writes(changes.Set)
	removes := make([]string, len(changes.Delete))
	for i, ch := range changes.Delete {
		removes[i] = c.aliases.Path(c.prefix, ch.Path)
	}
	sortClauses(adds)
	sortClauses(sets)
	sort.Strings(removes)

	var b strings.Builder
	for i, cl := range append(adds, sets...) {
		if i == 0 {
			b.WriteString("SET ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(cl.path)
		b.WriteString(" = ")
		b.WriteString(cl.token)
	}
	if len(removes) > 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("REMOVE ")
		b.WriteString(strings.Join(removes, ", "))
	}
	return b.String()
}

func (c *compiler) writes(changes []diff.Change) []clause {
	out := make([]clause, len(changes))
	for i, ch := range changes {
		out[i] = clause{
			path:  c.aliases.Path(c.prefix, ch.Path),
			token: c.aliases.Value(alias.ScopeUpdate, c.prefix, ch.Path, ch.Value),
		}
	}
	return out
}

func (c *compiler) result(update, condition string) Expression {
	return Expression{
		UpdateExpression:          update,
		ConditionExpression:       condition,
		ExpressionAttributeNames:  c.aliases.Names(),
		ExpressionAttributeValues: c.aliases.Values(),
	}
}

func sortClauses(cl []clause) {
	sort.Slice(cl, func(i, j int) bool {
		if cl[i].path != cl[j].path {
			return cl[i].path < cl[j].path
		}
		return cl[i].token < cl[j].token
	})
}

// prune drops DELETE records at or below a path that an ADD or SET already
// replaces. DynamoDB rejects expressions with overlapping document paths.
func prune(changes diff.Changes) diff.Changes {
	if len(changes.Delete) == 0 || len(changes.Add)+len(changes.Set) == 0 {
		return changes
	}
	written := make(map[string]struct{}, len(changes.Add)+len(changes.Set))
	for _, ch := range changes.Add {
		written[ch.Path.String()] = struct{}{}
	}
	for _, ch := range changes.Set {
		written[ch.Path.String()] = struct{}{}
	}

	kept := make([]diff.Change, 0, len(changes.Delete))
	for _, ch := range changes.Delete {
		if !covered(ch.Path, written) {
			kept = append(kept, ch)
		}
	}
	changes.Delete = kept
	return changes
}

func covered(p document.Path, written map[string]struct{}) bool {
	for i := len(p); i > 0; i-- {
		if _, ok := written[p[:i].String()]; ok {
			return true
		}
	}
	return false
}

// root returns the document root to diff. A missing document is an empty map.
func root(n document.Node, name string) (document.Node, error) {
	switch n.Shape() {
	case document.ShapeMap:
		return n, nil
	case document.ShapeScalar:
		if n.IsNull() {
			return document.Map(), nil
		}
	}
	return document.Node{}, invalidf("%s document must be a map, got %s", name, n.Kind())
}
