// Package document models the tree-shaped items that dyndiff compares.
//
// A [Node] is an immutable scalar, list or map. Maps keep their insertion
// order so traversals are stable. A [Path] addresses one node from the root
// and has a textual form rooted at "$":
//
//	$.version
//	$.parent.child[2]
//	$["key.with.dots"]
//	$["1atBeginning"]
//
// Documents are built from Go values ([FromValue]), DynamoDB items
// ([FromItem]), JSON or YAML text ([Parse]) and yaml.v3 node trees ([FromYAML]).
package document
