// Package parser provides the syntax tree for minification: a tree-sitter
// parser bound to the Rust grammar, plus the node helpers the classifier and
// renamer share.
package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"rsmin/internal/core/errors"
)

// Parser parses Rust source into a navigable syntax tree. Each Parse uses a
// fresh tree-sitter instance so trees are independent of one another.
type Parser struct {
	lang *sitter.Language
}

func New() *Parser {
	return &Parser{lang: sitter.NewLanguage(tree_sitter_rust.Language())}
}

// Tree couples a parsed syntax tree with the source snapshot it describes.
// Close must be called when the tree is no longer needed.
type Tree struct {
	ts     *sitter.Tree
	Source []byte
}

// Parse builds a tree for the given source. A buffer the grammar cannot make
// sense of is a PARSE_FAILURE; the pipeline cannot proceed on a malformed
// tree.
func (p *Parser) Parse(source []byte) (*Tree, error) {
	tsp := sitter.NewParser()
	defer tsp.Close()
	tsp.SetLanguage(p.lang)

	tree := tsp.Parse(source, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeParseFailure, "tree-sitter returned no tree")
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, errors.New(errors.CodeParseFailure, "source contains syntax errors")
	}
	return &Tree{ts: tree, Source: source}, nil
}

func (t *Tree) Root() *sitter.Node {
	return t.ts.RootNode()
}

func (t *Tree) Close() {
	if t.ts != nil {
		t.ts.Close()
		t.ts = nil
	}
}

// Text returns the source text covered by a node.
func (t *Tree) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(t.Source[node.StartByte():node.EndByte()])
}
