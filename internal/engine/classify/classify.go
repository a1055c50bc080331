// Package classify walks a Rust syntax tree once and partitions every
// renamable identifier occurrence into two categories: bindings (locals,
// parameters, pattern-introduced names, const/static) and declarations
// (modules, types, fields, variants, traits, functions). Method names inside
// trait-implementing impl blocks belong to neither; the trait fixes them.
package classify

import (
	"unicode"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"rsmin/internal/engine/parser"
)

func leadingUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

type Category int

const (
	CategoryBinding Category = iota
	CategoryDeclaration
)

// Occurrence is one physical identifier token at a declaration site.
// Duplicate spellings stay distinct: two bindings that happen to share a
// spelling are independent rename targets.
type Occurrence struct {
	Spelling string
	Offset   int
	Role     string
}

// Result holds both occurrence sequences in traversal order.
type Result struct {
	Bindings     []Occurrence
	Declarations []Occurrence
}

// Spellings returns the spellings of a sequence, duplicates included.
func Spellings(occs []Occurrence) []string {
	out := make([]string, len(occs))
	for i, o := range occs {
		out[i] = o.Spelling
	}
	return out
}

type classifier struct {
	tree *parser.Tree
	res  *Result
	// traitImplStack tracks, per enclosing impl block, whether it implements
	// a trait. Pushed on impl_item entry, popped on exit.
	traitImplStack []bool
}

// Classify performs the single traversal. The tree is not mutated.
func Classify(tree *parser.Tree) *Result {
	c := &classifier{tree: tree, res: &Result{}}
	c.walk(tree.Root())
	return c.res
}

func (c *classifier) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "impl_item":
		c.traitImplStack = append(c.traitImplStack, node.ChildByFieldName("trait") != nil)
		for i := uint(0); i < node.ChildCount(); i++ {
			c.walk(node.Child(i))
		}
		c.traitImplStack = c.traitImplStack[:len(c.traitImplStack)-1]
		return

	case "mod_item":
		c.declaration(node.ChildByFieldName("name"), "module")
	case "use_as_clause":
		c.declaration(node.ChildByFieldName("alias"), "use-rename")
	case "struct_item":
		c.declaration(node.ChildByFieldName("name"), "struct")
	case "field_declaration":
		c.declaration(node.ChildByFieldName("name"), "field")
	case "enum_item":
		c.declaration(node.ChildByFieldName("name"), "enum")
	case "enum_variant":
		c.declaration(node.ChildByFieldName("name"), "variant")
	case "trait_item":
		c.declaration(node.ChildByFieldName("name"), "trait")

	case "function_item", "function_signature_item":
		if !c.isTraitImplMethod(node) {
			c.declaration(node.ChildByFieldName("name"), "function")
		}
		c.parameters(node.ChildByFieldName("parameters"))

	case "closure_expression":
		c.parameters(node.ChildByFieldName("parameters"))

	case "const_item":
		c.binding(node.ChildByFieldName("name"), "const")
	case "static_item":
		c.binding(node.ChildByFieldName("name"), "static")

	case "let_declaration":
		c.pattern(node.ChildByFieldName("pattern"), "let")
	case "let_condition":
		c.pattern(node.ChildByFieldName("pattern"), "let-condition")
	case "for_expression":
		c.pattern(node.ChildByFieldName("pattern"), "for")
	case "match_arm":
		c.matchPattern(node.ChildByFieldName("pattern"))
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		c.walk(node.Child(i))
	}
}

// isTraitImplMethod reports whether node is a direct member of an impl block
// that implements a trait. Nested functions inside method bodies stay
// renamable.
func (c *classifier) isTraitImplMethod(node *sitter.Node) bool {
	if len(c.traitImplStack) == 0 || !c.traitImplStack[len(c.traitImplStack)-1] {
		return false
	}
	parent := node.Parent()
	return parent != nil && parent.Kind() == "declaration_list" &&
		parent.Parent() != nil && parent.Parent().Kind() == "impl_item"
}

func (c *classifier) parameters(params *sitter.Node) {
	if params == nil {
		return
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		switch child.Kind() {
		case "parameter":
			c.pattern(child.ChildByFieldName("pattern"), "parameter")
		case "identifier":
			// Closure parameters without a type annotation appear bare.
			c.binding(child, "parameter")
		case "self_parameter", "attribute_item":
			// self is not renamable.
		default:
			c.pattern(child, "parameter")
		}
	}
}

// matchPattern unwraps the match_pattern node around an arm's pattern. The
// condition field is the arm's guard, an expression rather than a pattern,
// and binds nothing.
func (c *classifier) matchPattern(node *sitter.Node) {
	if node == nil {
		return
	}
	guard := node.ChildByFieldName("condition")
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if guard != nil && sameNode(child, guard) {
			continue
		}
		c.pattern(child, "match-arm")
	}
}

// pattern collects the bound names of a pattern. Tuple, tuple-struct,
// reference, mut and ref patterns recurse into their inner patterns; every
// other pattern kind contributes no names. A bare uppercase identifier in
// pattern position is a unit-variant or const path, not a binding, and is
// left alone.
func (c *classifier) pattern(node *sitter.Node, role string) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier":
		if leadingUpper(c.tree.Text(node)) {
			return
		}
		c.binding(node, role)
	case "tuple_pattern", "tuple_struct_pattern", "reference_pattern", "mut_pattern", "ref_pattern":
		typeNode := node.ChildByFieldName("type")
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if typeNode != nil && child.StartByte() == typeNode.StartByte() {
				continue
			}
			c.pattern(child, role)
		}
	}
}

func (c *classifier) binding(node *sitter.Node, role string) {
	if node == nil {
		return
	}
	c.res.Bindings = append(c.res.Bindings, Occurrence{
		Spelling: c.tree.Text(node),
		Offset:   int(node.StartByte()),
		Role:     role,
	})
}

func (c *classifier) declaration(node *sitter.Node, role string) {
	if node == nil {
		return
	}
	c.res.Declarations = append(c.res.Declarations, Occurrence{
		Spelling: c.tree.Text(node),
		Offset:   int(node.StartByte()),
		Role:     role,
	})
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}
