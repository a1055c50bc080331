package rename

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

// scope.go answers one question: which binding, if any, does a bare
// identifier reference resolve to at its position? Rust scoping rules as far
// as a single file's lexical structure can express them: let bindings are
// visible after their statement and shadow earlier ones, patterns bind
// inside their body/arm, const and static items bind throughout their
// enclosing block or module.

func within(ref, container *sitter.Node) bool {
	return container != nil &&
		ref.StartByte() >= container.StartByte() &&
		ref.EndByte() <= container.EndByte()
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// patternIdent returns the identifier node spelling name bound by the
// pattern, or nil. It recurses through the pattern kinds that introduce
// names, skipping the constructor path of tuple-struct and struct patterns.
func patternIdent(tree *parser.Tree, pattern *sitter.Node, name string) *sitter.Node {
	if pattern == nil {
		return nil
	}
	switch pattern.Kind() {
	case "identifier":
		// Bare uppercase pattern identifiers are unit-variant or const
		// paths, not bindings.
		if tree.Text(pattern) == name && !leadingUpper(name) {
			return pattern
		}
		return nil
	case "shorthand_field_identifier":
		if tree.Text(pattern) == name {
			return pattern
		}
		return nil
	case "tuple_pattern", "tuple_struct_pattern", "reference_pattern",
		"mut_pattern", "ref_pattern", "match_pattern", "or_pattern",
		"struct_pattern", "field_pattern", "slice_pattern", "captured_pattern":
		typeNode := pattern.ChildByFieldName("type")
		condNode := pattern.ChildByFieldName("condition")
		for i := uint(0); i < pattern.NamedChildCount(); i++ {
			child := pattern.NamedChild(i)
			if typeNode != nil && sameNode(child, typeNode) {
				continue
			}
			if condNode != nil && sameNode(child, condNode) {
				continue
			}
			if id := patternIdent(tree, child, name); id != nil {
				return id
			}
		}
	}
	return nil
}

// parameterIdent scans a parameters or closure_parameters node.
func parameterIdent(tree *parser.Tree, params *sitter.Node, name string) *sitter.Node {
	if params == nil {
		return nil
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		switch child.Kind() {
		case "parameter":
			if id := patternIdent(tree, child.ChildByFieldName("pattern"), name); id != nil {
				return id
			}
		case "self_parameter", "attribute_item":
		default:
			if id := patternIdent(tree, child, name); id != nil {
				return id
			}
		}
	}
	return nil
}

// bindingFor resolves a reference to the identifier node of the innermost
// visible binding of the same spelling, or nil when no local binding is in
// scope (the reference then targets an item, a field, or nothing we track).
func bindingFor(tree *parser.Tree, ref *sitter.Node) *sitter.Node {
	name := tree.Text(ref)
	refStart := ref.StartByte()

	for node := ref.Parent(); node != nil; node = node.Parent() {
		switch node.Kind() {
		case "block", "source_file", "declaration_list":
			var latestLet *sitter.Node
			var constItem *sitter.Node
			for i := uint(0); i < node.NamedChildCount(); i++ {
				child := node.NamedChild(i)
				switch child.Kind() {
				case "let_declaration":
					// A let binds only after its own statement ends.
					if child.EndByte() <= refStart {
						if id := patternIdent(tree, child.ChildByFieldName("pattern"), name); id != nil {
							latestLet = id
						}
					}
				case "const_item", "static_item":
					nameNode := child.ChildByFieldName("name")
					if nameNode != nil && tree.Text(nameNode) == name {
						constItem = nameNode
					}
				case "expression_statement":
					// A trailing let inside an expression statement does not
					// occur; nothing to scan.
				}
			}
			if latestLet != nil {
				return latestLet
			}
			if constItem != nil {
				return constItem
			}

		case "function_item", "function_signature_item":
			if within(ref, node.ChildByFieldName("body")) {
				if id := parameterIdent(tree, node.ChildByFieldName("parameters"), name); id != nil {
					return id
				}
			}

		case "closure_expression":
			if within(ref, node.ChildByFieldName("body")) {
				if id := parameterIdent(tree, node.ChildByFieldName("parameters"), name); id != nil {
					return id
				}
			}

		case "for_expression":
			if within(ref, node.ChildByFieldName("body")) {
				if id := patternIdent(tree, node.ChildByFieldName("pattern"), name); id != nil {
					return id
				}
			}

		case "if_expression":
			// if-let bindings are visible in the consequence only, never in
			// the condition's value or the else branch.
			cond := node.ChildByFieldName("condition")
			if cond != nil && cond.Kind() == "let_condition" && within(ref, node.ChildByFieldName("consequence")) {
				if id := patternIdent(tree, cond.ChildByFieldName("pattern"), name); id != nil {
					return id
				}
			}

		case "while_expression":
			cond := node.ChildByFieldName("condition")
			if cond != nil && cond.Kind() == "let_condition" && within(ref, node.ChildByFieldName("body")) {
				if id := patternIdent(tree, cond.ChildByFieldName("pattern"), name); id != nil {
					return id
				}
			}

		case "match_arm":
			pattern := node.ChildByFieldName("pattern")
			inGuard := false
			if pattern != nil {
				if guard := pattern.ChildByFieldName("condition"); guard != nil && within(ref, guard) {
					inGuard = true
				}
			}
			if !within(ref, pattern) || inGuard {
				if id := patternIdent(tree, pattern, name); id != nil {
					return id
				}
			}
		}
	}
	return nil
}

// declNameKinds maps declaring node kinds to the field that holds their name.
var declNameKinds = map[string]string{
	"function_item":           "name",
	"function_signature_item": "name",
	"struct_item":             "name",
	"enum_item":               "name",
	"enum_variant":            "name",
	"trait_item":              "name",
	"mod_item":                "name",
	"const_item":              "name",
	"static_item":             "name",
	"field_declaration":       "name",
	"type_item":               "name",
	"macro_definition":        "name",
	"use_as_clause":           "alias",
}

// declSiteParent returns the declaring node when the identifier is the name
// (or alias) of a declaration, else nil.
func declSiteParent(node *sitter.Node) *sitter.Node {
	parent := node.Parent()
	if parent == nil {
		return nil
	}
	field, ok := declNameKinds[parent.Kind()]
	if !ok {
		return nil
	}
	if sameNode(parent.ChildByFieldName(field), node) {
		return parent
	}
	return nil
}

var patternWrapperKinds = map[string]bool{
	"tuple_pattern":        true,
	"tuple_struct_pattern": true,
	"reference_pattern":    true,
	"mut_pattern":          true,
	"ref_pattern":          true,
	"or_pattern":           true,
	"match_pattern":        true,
	"struct_pattern":       true,
	"field_pattern":        true,
	"slice_pattern":        true,
	"captured_pattern":     true,
}

// isPatternBindingSite reports whether the identifier introduces a binding
// (a pattern position in a let, parameter, for, if/while-let or match arm).
// Uppercase pattern identifiers are variant/const paths and never bind.
func isPatternBindingSite(tree *parser.Tree, node *sitter.Node) bool {
	if leadingUpper(tree.Text(node)) {
		return false
	}
	child := node
	parent := node.Parent()
	for parent != nil && patternWrapperKinds[parent.Kind()] {
		// The constructor path of a tuple-struct or struct pattern is a
		// reference, not a binding.
		if t := parent.ChildByFieldName("type"); t != nil && sameNode(child, t) {
			return false
		}
		// An arm's guard is an expression; an identifier there is a
		// reference, not a binding.
		if parent.Kind() == "match_pattern" {
			if cond := parent.ChildByFieldName("condition"); cond != nil && sameNode(child, cond) {
				return false
			}
		}
		child = parent
		parent = parent.Parent()
	}
	if parent == nil {
		return false
	}
	switch parent.Kind() {
	case "let_declaration", "for_expression", "let_condition":
		return sameNode(parent.ChildByFieldName("pattern"), child)
	case "parameter":
		return sameNode(parent.ChildByFieldName("pattern"), child)
	case "closure_parameters":
		return true
	case "match_arm":
		return sameNode(parent.ChildByFieldName("pattern"), child)
	}
	return false
}

// localTraitNames collects the names of traits declared in this file. An
// impl of a local trait renames together with the trait; an impl of an
// external trait is contract-fixed.
func localTraitNames(tree *parser.Tree) map[string]bool {
	names := make(map[string]bool)
	parser.Walk(tree.Root(), func(n *sitter.Node) bool {
		if n.Kind() == "trait_item" {
			if name := n.ChildByFieldName("name"); name != nil {
				names[tree.Text(name)] = true
			}
		}
		return true
	})
	return names
}

// fixedTraitImplMethodName reports whether the identifier names a method in
// an impl of a trait declared outside this file. Those spellings are fixed
// by the external contract and must never be edited.
func fixedTraitImplMethodName(tree *parser.Tree, node *sitter.Node, localTraits map[string]bool) bool {
	decl := declSiteParent(node)
	if decl == nil || (decl.Kind() != "function_item" && decl.Kind() != "function_signature_item") {
		return false
	}
	list := decl.Parent()
	if list == nil || list.Kind() != "declaration_list" {
		return false
	}
	impl := list.Parent()
	if impl == nil || impl.Kind() != "impl_item" {
		return false
	}
	trait := impl.ChildByFieldName("trait")
	if trait == nil {
		return false
	}
	// For scoped trait paths the final segment names the trait.
	traitName := tree.Text(trait)
	if name := trait.ChildByFieldName("name"); name != nil {
		traitName = tree.Text(name)
	}
	return !localTraits[traitName]
}
