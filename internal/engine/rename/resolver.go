package rename

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"rsmin/internal/core/errors"
	"rsmin/internal/core/textbuf"
	"rsmin/internal/engine/parser"
)

// LexicalRenamer resolves bindings by lexical structure alone: local
// bindings by Rust scoping rules, items and fields by role-keyed
// whole-file name matching. The original tool delegated this to a full
// semantic engine; a single self-contained file is the supported input, and
// there the lexical rules coincide with the semantic ones except for
// type-directed method dispatch, which is resolved by name.
type LexicalRenamer struct {
	parser *parser.Parser
	buf    *textbuf.Buffer
}

func NewLexicalRenamer(p *parser.Parser, buf *textbuf.Buffer) *LexicalRenamer {
	return &LexicalRenamer{parser: p, buf: buf}
}

// Rename re-analyzes the current buffer, resolves the occurrence set of the
// entity declared at offset, and returns one edit per occurrence. Edits are
// expressed against the current buffer and never touch another file.
func (r *LexicalRenamer) Rename(offset int, newName string) (textbuf.EditSet, error) {
	tree, err := r.parser.Parse(r.buf.Bytes())
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	node := parser.IdentifierAt(tree.Root(), offset)
	if node == nil {
		line, col := textbuf.NewLineIndex(r.buf.Bytes()).Position(offset)
		return nil, errors.AddContext(errors.New(errors.CodeUnresolvedBinding,
			fmt.Sprintf("no identifier at offset %d", offset)),
			errors.CtxPosition, fmt.Sprintf("%d:%d", line+1, col+1))
	}
	name := tree.Text(node)

	localTraits := localTraitNames(tree)

	var edits textbuf.EditSet
	switch {
	case node.Kind() == "field_identifier":
		edits = r.fieldEdits(tree, node, name, newName, localTraits)
	case node.Kind() == "type_identifier":
		edits = r.typeEdits(tree, node, name, newName)
	case isPatternBindingSite(tree, node):
		edits = r.localEdits(tree, node, name, newName)
	default:
		decl := declSiteParent(node)
		if decl == nil {
			return nil, errors.AddContext(errors.New(errors.CodeUnresolvedBinding,
				fmt.Sprintf("offset %d does not pinpoint a declaration of %q", offset, name)),
				errors.CtxSymbol, name)
		}
		switch decl.Kind() {
		case "const_item", "static_item":
			edits = r.constEdits(tree, node, name, newName)
		default:
			edits = r.valueEdits(tree, node, name, newName, localTraits)
		}
	}
	return edits, nil
}

// hasFixedMethod reports whether any impl of an externally declared trait in
// the file carries a method of the given spelling. When it does, method-call
// positions of that spelling are ambiguous and must keep it.
func hasFixedMethod(tree *parser.Tree, name string, localTraits map[string]bool) bool {
	fixed := false
	parser.Walk(tree.Root(), func(n *sitter.Node) bool {
		if fixed {
			return false
		}
		if n.Kind() != "function_item" && n.Kind() != "function_signature_item" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil || tree.Text(nameNode) != name {
			return true
		}
		if fixedTraitImplMethodName(tree, nameNode, localTraits) {
			fixed = true
			return false
		}
		return true
	})
	return fixed
}

func replaceEdit(node *sitter.Node, text string) textbuf.Edit {
	return textbuf.Edit{Start: int(node.StartByte()), End: int(node.EndByte()), Text: text}
}

// localEdits renames a pattern-introduced binding: the declaration site plus
// every bare identifier reference that resolves back to it. A reference in
// field-init shorthand expands to keep the field's spelling intact.
func (r *LexicalRenamer) localEdits(tree *parser.Tree, decl *sitter.Node, name, newName string) textbuf.EditSet {
	edits := textbuf.EditSet{replaceEdit(decl, newName)}
	parser.Walk(tree.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "identifier" || sameNode(n, decl) || tree.Text(n) != name {
			return true
		}
		if declSiteParent(n) != nil || isPatternBindingSite(tree, n) || inPathPosition(n) {
			return true
		}
		if b := bindingFor(tree, n); b != nil && sameNode(b, decl) {
			if parent := n.Parent(); parent != nil && parent.Kind() == "shorthand_field_initializer" {
				edits = append(edits, replaceEdit(n, name+": "+newName))
			} else {
				edits = append(edits, replaceEdit(n, newName))
			}
		}
		return true
	})
	return edits
}

// constEdits renames a const or static item: like a local, references must
// resolve back to this very declaration so shadowing lets are respected.
func (r *LexicalRenamer) constEdits(tree *parser.Tree, decl *sitter.Node, name, newName string) textbuf.EditSet {
	edits := textbuf.EditSet{replaceEdit(decl, newName)}
	parser.Walk(tree.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "identifier" || sameNode(n, decl) || tree.Text(n) != name {
			return true
		}
		if declSiteParent(n) != nil || isPatternBindingSite(tree, n) || inPathPosition(n) {
			return true
		}
		if b := bindingFor(tree, n); b != nil && sameNode(b, decl) {
			edits = append(edits, replaceEdit(n, newName))
		}
		return true
	})
	return edits
}

// valueEdits renames a function, method, module, enum variant or use alias:
// every value-namespace reference of the spelling that is not captured by a
// local binding, plus method-position references. All declarations of the
// spelling in the value namespace rename as one group so references stay
// consistent; consts and statics resolve lexically in their own turn, and
// methods of externally declared traits keep their spelling.
func (r *LexicalRenamer) valueEdits(tree *parser.Tree, decl *sitter.Node, name, newName string, localTraits map[string]bool) textbuf.EditSet {
	fixedCalls := hasFixedMethod(tree, name, localTraits)
	edits := textbuf.EditSet{replaceEdit(decl, newName)}
	parser.Walk(tree.Root(), func(n *sitter.Node) bool {
		if sameNode(n, decl) || tree.Text(n) != name {
			return true
		}
		switch n.Kind() {
		case "identifier":
			if isPatternBindingSite(tree, n) {
				return true
			}
			if d := declSiteParent(n); d != nil {
				switch d.Kind() {
				case "function_item", "function_signature_item":
					if !fixedTraitImplMethodName(tree, n, localTraits) {
						edits = append(edits, replaceEdit(n, newName))
					}
				case "mod_item", "enum_variant", "use_as_clause":
					edits = append(edits, replaceEdit(n, newName))
				}
				return true
			}
			if bindingFor(tree, n) != nil {
				return true
			}
			edits = append(edits, replaceEdit(n, newName))
		case "field_identifier":
			// Method-call position: p.name(...).
			if !fixedCalls && isMethodCallPosition(n) {
				edits = append(edits, replaceEdit(n, newName))
			}
		}
		return true
	})
	return edits
}

// typeEdits renames a struct, enum or trait: every type-namespace reference
// plus constructor and path positions in the value namespace.
func (r *LexicalRenamer) typeEdits(tree *parser.Tree, decl *sitter.Node, name, newName string) textbuf.EditSet {
	edits := textbuf.EditSet{replaceEdit(decl, newName)}
	parser.Walk(tree.Root(), func(n *sitter.Node) bool {
		if sameNode(n, decl) || tree.Text(n) != name {
			return true
		}
		switch n.Kind() {
		case "type_identifier":
			edits = append(edits, replaceEdit(n, newName))
		case "identifier":
			// Tuple-struct constructors and path qualifiers reference the
			// type through the value namespace: Point(1, 2), Point::new().
			if isPatternBindingSite(tree, n) || declSiteParent(n) != nil {
				return true
			}
			if bindingFor(tree, n) != nil {
				return true
			}
			if isTypeReferencePosition(n) {
				edits = append(edits, replaceEdit(n, newName))
			}
		}
		return true
	})
	return edits
}

// fieldEdits renames a struct field or an inherent method declared through a
// field_identifier. Shorthand initializers and shorthand field patterns
// expand so the local binding keeps its spelling.
func (r *LexicalRenamer) fieldEdits(tree *parser.Tree, decl *sitter.Node, name, newName string, localTraits map[string]bool) textbuf.EditSet {
	fixedCalls := hasFixedMethod(tree, name, localTraits)
	edits := textbuf.EditSet{replaceEdit(decl, newName)}
	parser.Walk(tree.Root(), func(n *sitter.Node) bool {
		if sameNode(n, decl) || tree.Text(n) != name {
			return true
		}
		switch n.Kind() {
		case "field_identifier":
			if fixedCalls && isMethodCallPosition(n) {
				return true
			}
			edits = append(edits, replaceEdit(n, newName))
		case "shorthand_field_identifier":
			// Struct pattern shorthand: S { x } destructuring. The field
			// spelling changes, the bound local keeps the old one.
			edits = append(edits, replaceEdit(n, newName+": "+name))
		case "identifier":
			if parent := n.Parent(); parent != nil && parent.Kind() == "shorthand_field_initializer" {
				edits = append(edits, replaceEdit(n, newName+": "+name))
			}
		}
		return true
	})
	return edits
}

// inPathPosition reports whether the identifier sits anywhere inside a
// qualified path or use declaration; locals and consts resolved lexically
// never appear there.
func inPathPosition(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	switch parent.Kind() {
	case "scoped_identifier", "scoped_type_identifier", "scoped_use_list",
		"use_declaration", "use_list", "use_wildcard", "use_as_clause":
		return true
	}
	return false
}

// isMethodCallPosition reports whether the field_identifier is the method of
// a call: the field of a field_expression that a call_expression invokes.
func isMethodCallPosition(n *sitter.Node) bool {
	fieldExpr := n.Parent()
	if fieldExpr == nil || fieldExpr.Kind() != "field_expression" {
		return false
	}
	call := fieldExpr.Parent()
	if call == nil || call.Kind() != "call_expression" {
		return false
	}
	return sameNode(call.ChildByFieldName("function"), fieldExpr)
}

// isTypeReferencePosition limits value-namespace hits for a type rename to
// positions where a type can actually be referenced by value.
func isTypeReferencePosition(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	switch parent.Kind() {
	case "scoped_identifier", "scoped_type_identifier":
		return true
	case "call_expression":
		return sameNode(parent.ChildByFieldName("function"), n)
	case "tuple_struct_pattern", "struct_pattern":
		return sameNode(parent.ChildByFieldName("type"), n)
	case "use_as_clause", "use_list", "use_declaration", "scoped_use_list":
		return true
	}
	return false
}
