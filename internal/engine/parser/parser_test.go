package parser

import (
	"strings"
	"testing"

	"rsmin/internal/core/errors"
)

func TestParseWellFormedSource(t *testing.T) {
	p := New()
	src := []byte("fn main() {\n    let x = 1;\n}\n")
	tree, err := p.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()

	root := tree.Root()
	if root.Kind() != "source_file" {
		t.Errorf("root kind = %q", root.Kind())
	}
	if root.HasError() {
		t.Error("unexpected parse error")
	}
}

func TestParseRejectsMalformedSource(t *testing.T) {
	p := New()
	_, err := p.Parse([]byte("fn main( {"))
	if !errors.IsCode(err, errors.CodeParseFailure) {
		t.Fatalf("want PARSE_FAILURE, got %v", err)
	}
}

func TestTreesAreIndependent(t *testing.T) {
	p := New()
	first, err := p.Parse([]byte("fn a() {}"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Parse([]byte("fn b() {}"))
	if err != nil {
		t.Fatal(err)
	}
	first.Close()

	// The second tree must stay usable after the first closes.
	if second.Root().Kind() != "source_file" {
		t.Error("second tree unusable after closing first")
	}
	second.Close()
}

func TestIdentifierAt(t *testing.T) {
	p := New()
	src := "fn main() {\n    let counter = 1;\n}\n"
	tree, err := p.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()

	offset := strings.Index(src, "counter")
	node := IdentifierAt(tree.Root(), offset)
	if node == nil {
		t.Fatal("no identifier found")
	}
	if tree.Text(node) != "counter" {
		t.Errorf("text = %q", tree.Text(node))
	}
	if node.Kind() != "identifier" {
		t.Errorf("kind = %q", node.Kind())
	}

	// Offsets into punctuation resolve to nothing.
	if n := IdentifierAt(tree.Root(), strings.Index(src, "{")); n != nil {
		t.Errorf("expected nil at punctuation, got %q", n.Kind())
	}

	// Offsets inside the identifier still resolve to it.
	if n := IdentifierAt(tree.Root(), offset+3); n == nil || tree.Text(n) != "counter" {
		t.Error("mid-identifier offset should resolve")
	}
}
