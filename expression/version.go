package expression

import (
	"math"
	"math/big"
	"strings"

	"github.com/jacentio/dyndiff/diff"
	"github.com/jacentio/dyndiff/document"
	"github.com/jacentio/dyndiff/internal/alias"
)

const (
	// DefaultVersionPath is the version attribute used when none is given.
	DefaultVersionPath = "$.version"

	// DefaultExpectedPrefix namespaces the condition side of a version lock.
	DefaultExpectedPrefix = "expected"

	// DynamoDB numbers carry at most 38 significant digits.
	maxNumberDigits = 38
)

// Condition is the comparison a version lock applies to the stored value.
type Condition string

const (
	Equal              Condition = "="
	NotEqual           Condition = "<>"
	LessThan           Condition = "<"
	LessThanOrEqual    Condition = "<="
	GreaterThan        Condition = ">"
	GreaterThanOrEqual Condition = ">="
)

func (c Condition) resolve() (Condition, error) {
	switch c {
	case "":
		return Equal, nil
	case Equal, NotEqual, LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		return c, nil
	}
	return "", invalidf("unsupported condition %q", string(c))
}

// VersionedInput holds the arguments of Versioned.
type VersionedInput struct {
	Original document.Node
	Modified document.Node
	Orphans  bool

	// VersionPath addresses the version attribute. Defaults to DefaultVersionPath.
	VersionPath string

	// UseCurrent selects the literal the condition compares against: the current
	// version (nil or true) or the new one.
	UseCurrent *bool

	// CurrentVersion stands in for the current version when Original has none.
	CurrentVersion any

	// Condition defaults to Equal. It is ignored on a first write.
	Condition Condition

	// ExpectedPrefix namespaces the condition aliases. nil means
	// DefaultExpectedPrefix; an empty prefix shares name tokens with the update.
	ExpectedPrefix *string
}

// VersionLockInput holds the arguments of VersionLock.
type VersionLockInput struct {
	Original document.Node

	// VersionPath addresses the version attribute. Defaults to DefaultVersionPath.
	VersionPath string

	// NewVersion is the value to write. Without it the current version is
	// incremented, or 1 is written when there is none.
	NewVersion any

	// CurrentVersion stands in for the current version when Original has none.
	CurrentVersion any

	Condition      Condition
	ExpectedPrefix *string
}

type lock struct {
	path       document.Path
	current    document.Node
	hasCurrent bool
	next       document.Node
	condition  Condition
	prefix     string
	useCurrent bool
}

// render allocates the condition aliases after every update alias.
func (l lock) render(b *alias.Builder) string {
	path := b.Path(l.prefix, l.path)
	if !l.hasCurrent {
		return "attribute_not_exists (" + path + ")"
	}
	literal := l.current
	if !l.useCurrent {
		literal = l.next
	}
	token := b.Value(alias.ScopeCondition, l.prefix, l.path, literal)
	return path + " " + string(l.condition) + " " + token
}

// Versioned compiles the changes between in.Original and in.Modified and guards
// them with a version lock.
//
// The version attribute is never diffed. Its new value is taken from Modified,
// or derived from the current one (incremented, or 1 on a first write). When
// Original has no version and no CurrentVersion is given, the condition only
// lets the write through if the attribute does not exist yet.
func Versioned(in VersionedInput) (Expression, error) {
	path, err := versionPath(in.VersionPath)
	if err != nil {
		return Expression{}, err
	}
	op, err := in.Condition.resolve()
	if err != nil {
		return Expression{}, err
	}
	original, err := root(in.Original, "original")
	if err != nil {
		return Expression{}, err
	}
	modified, err := root(in.Modified, "modified")
	if err != nil {
		return Expression{}, err
	}

	l := lock{
		path:       path,
		condition:  op,
		prefix:     expectedPrefix(in.ExpectedPrefix),
		useCurrent: in.UseCurrent == nil || *in.UseCurrent,
	}
	l.current, l.hasCurrent = present(original, path)
	if !l.hasCurrent {
		if l.current, l.hasCurrent, err = optional(in.CurrentVersion, "current version"); err != nil {
			return Expression{}, err
		}
	}
	var hasNext bool
	if l.next, hasNext = present(modified, path); !hasNext {
		if l.next, err = nextVersion(l.current, l.hasCurrent); err != nil {
			return Expression{}, err
		}
	}

	changes := without(diff.Compute(original, modified, in.Orphans), path)
	if changes, err = writeVersion(changes, original, path, l.next, in.Orphans); err != nil {
		return Expression{}, err
	}

	c := newCompiler("")
	update := c.update(changes)
	return c.result(update, l.render(c.aliases)), nil
}

// VersionLock builds a version write and its condition without diffing any
// document.
//
// The current version comes from Original, then CurrentVersion, then
// NewVersion. Only when all three are missing is the lock a first-write guard.
func VersionLock(in VersionLockInput) (Expression, error) {
	path, err := versionPath(in.VersionPath)
	if err != nil {
		return Expression{}, err
	}
	op, err := in.Condition.resolve()
	if err != nil {
		return Expression{}, err
	}
	original, err := root(in.Original, "original")
	if err != nil {
		return Expression{}, err
	}

	l := lock{
		path:       path,
		condition:  op,
		prefix:     expectedPrefix(in.ExpectedPrefix),
		useCurrent: true,
	}
	l.current, l.hasCurrent = present(original, path)
	if !l.hasCurrent {
		if l.current, l.hasCurrent, err = optional(in.CurrentVersion, "current version"); err != nil {
			return Expression{}, err
		}
	}
	next, hasNext, err := optional(in.NewVersion, "new version")
	if err != nil {
		return Expression{}, err
	}
	switch {
	case hasNext:
		l.next = next
		if !l.hasCurrent {
			l.current, l.hasCurrent = next, true
		}
	default:
		if l.next, err = nextVersion(l.current, l.hasCurrent); err != nil {
			return Expression{}, err
		}
	}

	changes, err := writeVersion(diff.Changes{}, original, path, l.next, false)
	if err != nil {
		return Expression{}, err
	}
	c := newCompiler("")
	update := c.update(changes)
	return c.result(update, l.render(c.aliases)), nil
}

func versionPath(s string) (document.Path, error) {
	if s == "" {
		s = DefaultVersionPath
	}
	p, err := document.ParsePath(s)
	if err != nil {
		return nil, invalidf("version path: %w", err)
	}
	if len(p) == 0 {
		return nil, invalidf("version path must not address the document root")
	}
	if p[0].IsIndex() {
		return nil, invalidf("version path %s must start with a key", p)
	}
	return p, nil
}

func expectedPrefix(p *string) string {
	if p == nil {
		return DefaultExpectedPrefix
	}
	return *p
}

// present returns the value at p unless it is missing or null.
func present(doc document.Node, p document.Path) (document.Node, bool) {
	v, ok := doc.Lookup(p)
	if !ok || v.IsNull() {
		return document.Node{}, false
	}
	return v, true
}

func optional(v any, name string) (document.Node, bool, error) {
	if v == nil {
		return document.Node{}, false, nil
	}
	n, err := document.FromValue(v)
	if err != nil {
		return document.Node{}, false, invalidf("%s: %w", name, err)
	}
	return n, !n.IsNull(), nil
}

func nextVersion(current document.Node, ok bool) (document.Node, error) {
	if !ok {
		return document.Int(1), nil
	}
	return increment(current)
}

// increment adds one to a number node. Integers are incremented exactly.
func increment(n document.Node) (document.Node, error) {
	if n.Kind() != document.KindNumber {
		return document.Node{}, invalidf("cannot increment %s version %s", n.Kind(), n)
	}
	if i, ok := new(big.Int).SetString(n.Text(), 10); ok {
		i.Add(i, big.NewInt(1))
		s := i.String()
		if significant(s) > maxNumberDigits {
			return document.Node{}, invalidf("version %s overflows when incremented", n.Text())
		}
		return document.Number(s)
	}
	f, ok := n.Float64()
	if !ok || math.IsInf(f+1, 0) {
		return document.Node{}, invalidf("version %s overflows when incremented", n.Text())
	}
	return document.Float(f + 1), nil
}

func significant(digits string) int {
	digits = strings.TrimLeft(digits, "-0")
	return len(strings.TrimRight(digits, "0"))
}

// without drops every change at or below p, and deletions of p's ancestors.
func without(changes diff.Changes, p document.Path) diff.Changes {
	keep := func(in []diff.Change, ancestors bool) []diff.Change {
		out := make([]diff.Change, 0, len(in))
		for _, ch := range in {
			if ch.Path.HasPrefix(p) || (ancestors && p.HasPrefix(ch.Path)) {
				continue
			}
			out = append(out, ch)
		}
		return out
	}
	return diff.Changes{
		Add:    keep(changes.Add, false),
		Set:    keep(changes.Set, false),
		Delete: keep(changes.Delete, true),
	}
}

// writeVersion adds the write of v at p to changes. A pending write of an
// ancestor of p carries v inside its value instead. Otherwise v is written at p,
// or at the shallowest ancestor that has to be created or replaced first.
func writeVersion(changes diff.Changes, original document.Node, p document.Path, v document.Node, orphans bool) (diff.Changes, error) {
	for _, group := range [][]diff.Change{changes.Add, changes.Set} {
		for i, ch := range group {
			if !p.HasPrefix(ch.Path) {
				continue
			}
			value, err := ch.Value.With(p[len(ch.Path):], v)
			if err != nil {
				return changes, invalidf("version path: %w", err)
			}
			group[i].Value = value
			return changes, nil
		}
	}

	at := len(p)
	for i := 1; i < len(p); i++ {
		n, ok := original.Lookup(p[:i])
		if ok && n.Shape() != document.ShapeScalar {
			if (n.Shape() == document.ShapeList) != p[i].IsIndex() {
				return changes, invalidf("version path %s steps into the %s at %s with %q", p, n.Kind(), p[:i], p[i].Text())
			}
			continue
		}
		// a scalar ancestor is always replaced; missing ones only without orphans
		if ok || !orphans {
			at = i
		}
		break
	}
	value, err := document.Null().With(p[at:], v)
	if err != nil {
		return changes, invalidf("version path: %w", err)
	}
	if _, ok := original.Lookup(p[:at]); ok {
		changes.Set = append(changes.Set, diff.Change{Op: diff.OpSet, Path: p[:at], Value: value})
	} else {
		changes.Add = append(changes.Add, diff.Change{Op: diff.OpAdd, Path: p[:at], Value: value})
	}
	return changes, nil
}
