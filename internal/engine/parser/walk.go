package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Visitor receives every node in a pre-order walk. Returning false skips the
// node's children.
type Visitor func(node *sitter.Node) bool

// Walk traverses the subtree rooted at node in document order.
func Walk(node *sitter.Node, visit Visitor) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		Walk(node.Child(i), visit)
	}
}

// IdentifierAt descends to the smallest node covering the byte offset and
// returns it when it is an identifier-like leaf (identifier, field or type
// identifier), else nil.
func IdentifierAt(root *sitter.Node, offset int) *sitter.Node {
	if root == nil || offset < 0 {
		return nil
	}
	node := root
	for {
		var next *sitter.Node
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if int(child.StartByte()) <= offset && offset < int(child.EndByte()) {
				next = child
				break
			}
		}
		if next == nil {
			break
		}
		node = next
	}
	switch node.Kind() {
	case "identifier", "field_identifier", "type_identifier":
		return node
	}
	return nil
}
