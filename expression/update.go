package expression

import (
	"github.com/jacentio/dyndiff/diff"
	"github.com/jacentio/dyndiff/document"
)

// UpdateInput holds the arguments of Update.
type UpdateInput struct {
	// Original is the stored item. A null Original is an empty item.
	Original document.Node
	// Modified is the desired item.
	Modified document.Node
	// Orphans writes every new leaf on its own instead of whole new subtrees.
	Orphans bool
	// AliasPrefix namespaces every name and value token, e.g. "new" yields #newTitle.
	AliasPrefix string
}

// Update compiles the changes between in.Original and in.Modified.
//
// When the documents are equal the result is the zero Expression. Both roots
// must be maps or null.
func Update(in UpdateInput) (Expression, error) {
	original, err := root(in.Original, "original")
	if err != nil {
		return Expression{}, err
	}
	modified, err := root(in.Modified, "modified")
	if err != nil {
		return Expression{}, err
	}

	changes := diff.Compute(original, modified, in.Orphans)
	if changes.Empty() {
		return Expression{}, nil
	}
	c := newCompiler(in.AliasPrefix)
	return c.result(c.update(changes), ""), nil
}
