// Package patchtest replays diff results on documents through JSON Patch.
// It backs the round-trip tests of the diff and expression packages.
package patchtest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/jacentio/dyndiff/diff"
	"github.com/jacentio/dyndiff/document"
)

type operation struct {
	Op    string         `json:"op"`
	Path  string         `json:"path"`
	Value *document.Node `json:"value,omitempty"`
}

// Pointer renders p as a JSON Pointer (RFC 6901).
func Pointer(p document.Path) string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		if seg.IsIndex() {
			b.WriteString(strconv.Itoa(seg.Index()))
			continue
		}
		b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(seg.Key()))
	}
	return b.String()
}

// Apply replays c on original: deletes first, then additions, then overwrites.
//
// A deleted list slot that target still has is nulled, matching how list removals
// are expressed; other deleted slots are removed from the highest index down.
// Missing parents of an added path are created.
func Apply(original document.Node, c diff.Changes, target document.Node) ([]byte, error) {
	ops := deletes(c.Delete, target)
	for _, ch := range c.Add {
		v := ch.Value
		ops = append(ops, operation{Op: "add", Path: Pointer(ch.Path), Value: &v})
	}
	for _, ch := range c.Set {
		v := ch.Value
		op := "add"
		if len(ch.Path) > 0 && ch.Path[len(ch.Path)-1].IsIndex() {
			op = "replace"
		}
		ops = append(ops, operation{Op: op, Path: Pointer(ch.Path), Value: &v})
	}

	doc, err := json.Marshal(original)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return doc, nil
	}
	raw, err := json.Marshal(ops)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	opts := jsonpatch.NewApplyOptions()
	opts.EnsurePathExistsOnAdd = true
	return patch.ApplyWithOptions(doc, opts)
}

func deletes(changes []diff.Change, target document.Node) []operation {
	var nulls, removes []diff.Change
	for _, ch := range changes {
		last := len(ch.Path) - 1
		if last >= 0 && ch.Path[last].IsIndex() {
			if _, ok := target.Lookup(ch.Path); ok {
				nulls = append(nulls, ch)
				continue
			}
		}
		removes = append(removes, ch)
	}
	// removing a list element shifts its successors, so go from the back
	sort.SliceStable(removes, func(i, j int) bool {
		return compare(removes[i].Path, removes[j].Path) > 0
	})

	ops := make([]operation, 0, len(changes))
	null := document.Null()
	for _, ch := range nulls {
		ops = append(ops, operation{Op: "replace", Path: Pointer(ch.Path), Value: &null})
	}
	for _, ch := range removes {
		ops = append(ops, operation{Op: "remove", Path: Pointer(ch.Path)})
	}
	return ops
}

// compare orders paths in document order, comparing list indices numerically.
func compare(a, b document.Path) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		x, y := a[i], b[i]
		switch {
		case x.IsIndex() && y.IsIndex():
			if x.Index() != y.Index() {
				return x.Index() - y.Index()
			}
		case x.IsIndex() != y.IsIndex():
			if x.IsIndex() {
				return 1
			}
			return -1
		default:
			if c := strings.Compare(x.Key(), y.Key()); c != 0 {
				return c
			}
		}
	}
	return len(a) - len(b)
}

// Equal reports whether the JSON document got matches want.
func Equal(got []byte, want document.Node) bool {
	w, err := json.Marshal(want)
	if err != nil {
		return false
	}
	return jsonpatch.Equal(got, w)
}
