// Package diff computes the structural changes between two documents.
//
// The result is split into three groups. ADD records address paths that do not
// exist in the original document, SET records overwrite existing values, and
// DELETE records remove values. DELETE records never carry a value and are
// always enumerated per leaf, so removing a subtree never removes its
// intermediate levels in a single step.
package diff

import "github.com/jacentio/dyndiff/document"

// Op is the kind of a Change.
type Op uint8

const (
	OpAdd Op = iota
	OpSet
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "ADD"
	case OpSet:
		return "SET"
	case OpDelete:
		return "DELETE"
	}
	return "UNKNOWN"
}

// Change is one difference between two documents.
type Change struct {
	Op    Op
	Path  document.Path
	Value document.Node
}

// Changes holds the changes of each kind in discovery order.
type Changes struct {
	Add    []Change
	Set    []Change
	Delete []Change
}

// Len returns the total number of changes.
func (c Changes) Len() int {
	return len(c.Add) + len(c.Set) + len(c.Delete)
}

// Empty reports whether the documents were equal.
func (c Changes) Empty() bool { return c.Len() == 0 }

func (c *Changes) add(p document.Path, v document.Node) {
	c.Add = append(c.Add, Change{Op: OpAdd, Path: p, Value: v})
}

func (c *Changes) set(p document.Path, v document.Node) {
	c.Set = append(c.Set, Change{Op: OpSet, Path: p, Value: v})
}

func (c *Changes) remove(p document.Path) {
	c.Delete = append(c.Delete, Change{Op: OpDelete, Path: p})
}

type frame struct {
	path     document.Path
	original document.Node
	modified document.Node
	inOrig   bool
	inMod    bool
}

// Compute returns the changes that turn original into modified.
//
// With orphans set, new subtrees are reported as one ADD per new leaf. Otherwise a
// new subtree is reported as a single ADD at its shallowest new path. A value whose
// shape changed (map, list or scalar) is replaced by a single SET in both modes.
// Empty maps and lists count as leaves. Traversal uses an explicit stack, so
// nesting depth is bounded by memory only.
func Compute(original, modified document.Node, orphans bool) Changes {
	var out Changes
	stack := []frame{{path: document.Root, original: original, modified: modified, inOrig: true, inMod: true}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case !f.inOrig:
			addition(&out, f.path, f.modified, orphans)
			continue
		case !f.inMod:
			eachLeaf(f.path, f.original, func(p document.Path, _ document.Node) { out.remove(p) })
			continue
		}

		if isListSlot(f.path) && f.modified.IsNull() && !f.original.IsNull() {
			out.remove(f.path)
			continue
		}

		oShape, mShape := f.original.Shape(), f.modified.Shape()
		switch {
		case oShape == document.ShapeScalar && mShape == document.ShapeScalar:
			if !f.original.Equal(f.modified) {
				out.set(f.path, f.modified)
			}
		case oShape != mShape:
			// no merge across shapes: drop the old leaves and write the new value whole
			eachLeaf(f.path, f.original, func(p document.Path, _ document.Node) { out.remove(p) })
			out.set(f.path, f.modified)
		case oShape == document.ShapeMap:
			stack = pushMap(stack, f)
		case oShape == document.ShapeList:
			stack = pushList(stack, f)
		}
	}
	return out
}

func addition(out *Changes, p document.Path, v document.Node, orphans bool) {
	if orphans {
		eachLeaf(p, v, out.add)
		return
	}
	out.add(p, v)
}

// pushMap queues the union of both key sets: modified keys in order, then keys only
// the original has. Frames are pushed in reverse so they pop in document order.
func pushMap(stack []frame, f frame) []frame {
	keys := f.modified.Keys()
	for _, k := range f.original.Keys() {
		if _, ok := f.modified.Get(k); !ok {
			keys = append(keys, k)
		}
	}
	for i := len(keys) - 1; i >= 0; i-- {
		o, inOrig := f.original.Get(keys[i])
		m, inMod := f.modified.Get(keys[i])
		stack = append(stack, frame{
			path:     f.path.Child(document.Key(keys[i])),
			original: o,
			modified: m,
			inOrig:   inOrig,
			inMod:    inMod,
		})
	}
	return stack
}

func pushList(stack []frame, f frame) []frame {
	n := max(f.original.Len(), f.modified.Len())
	for i := n - 1; i >= 0; i-- {
		o, inOrig := f.original.Item(i)
		m, inMod := f.modified.Item(i)
		stack = append(stack, frame{
			path:     f.path.Child(document.Index(i)),
			original: o,
			modified: m,
			inOrig:   inOrig,
			inMod:    inMod,
		})
	}
	return stack
}

func isListSlot(p document.Path) bool {
	return len(p) > 0 && p[len(p)-1].IsIndex()
}

type leaf struct {
	path document.Path
	node document.Node
}

// eachLeaf calls fn for every leaf under root in document order.
func eachLeaf(root document.Path, n document.Node, fn func(document.Path, document.Node)) {
	stack := []leaf{{path: root, node: n}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.node.IsLeaf() {
			fn(cur.path, cur.node)
			continue
		}
		switch cur.node.Shape() {
		case document.ShapeMap:
			keys := cur.node.Keys()
			for i := len(keys) - 1; i >= 0; i-- {
				v, _ := cur.node.Get(keys[i])
				stack = append(stack, leaf{path: cur.path.Child(document.Key(keys[i])), node: v})
			}
		case document.ShapeList:
			for i := cur.node.Len() - 1; i >= 0; i-- {
				v, _ := cur.node.Item(i)
				stack = append(stack, leaf{path: cur.path.Child(document.Index(i)), node: v})
			}
		}
	}
}
