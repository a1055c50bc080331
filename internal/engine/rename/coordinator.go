package rename

import (
	"fmt"
	"log/slog"

	"rsmin/internal/core/errors"
	"rsmin/internal/core/textbuf"
	"rsmin/internal/engine/classify"
	"rsmin/internal/engine/namegen"
	"rsmin/internal/engine/parser"
)

// entryPointName is never renamed; the program entry point is an external
// contract.
const entryPointName = "main"

// Stats reports what a minification run changed.
type Stats struct {
	BindingRenames     int
	DeclarationRenames int
}

// Coordinator drives the two-phase rename protocol. Bindings rename first:
// field-init shorthand makes one spelling denote both a local and a field,
// and resolving the local side before any field name moves keeps each
// phase's used-name set accurate. The buffer is exclusively owned by the
// coordinator for the duration of both phases.
type Coordinator struct {
	parser     *parser.Parser
	newRenamer func(*textbuf.Buffer) Renamer
}

func NewCoordinator(p *parser.Parser) *Coordinator {
	return &Coordinator{
		parser: p,
		newRenamer: func(buf *textbuf.Buffer) Renamer {
			return NewLexicalRenamer(p, buf)
		},
	}
}

// NewCoordinatorWithRenamer injects a Renamer factory; used by tests and by
// anyone supplying a semantic engine behind the Renamer contract.
func NewCoordinatorWithRenamer(p *parser.Parser, factory func(*textbuf.Buffer) Renamer) *Coordinator {
	return &Coordinator{parser: p, newRenamer: factory}
}

// Minify renames every eligible occurrence of the source to a shorter
// spelling. Failures are fatal for the whole run: there is no partial
// result.
func (c *Coordinator) Minify(source string) (string, Stats, error) {
	buf := textbuf.NewBuffer(source)
	var stats Stats

	slog.Info("renaming bindings")
	n, err := c.phase(buf, CategoryBindings)
	if err != nil {
		return "", stats, errors.AddContext(err, errors.CtxPhase, "bindings")
	}
	stats.BindingRenames = n

	slog.Info("renaming declarations")
	n, err = c.phase(buf, CategoryDeclarations)
	if err != nil {
		return "", stats, errors.AddContext(err, errors.CtxPhase, "declarations")
	}
	stats.DeclarationRenames = n

	return buf.String(), stats, nil
}

// Phase selector.
type phaseCategory int

const (
	CategoryBindings phaseCategory = iota
	CategoryDeclarations
)

// phase re-classifies the current buffer, then renames the selected
// category's occurrences strictly in traversal order. Each accepted rename
// is applied to the buffer before the next occurrence is considered; the
// offsets recorded at phase start are remapped through the applied edits.
func (c *Coordinator) phase(buf *textbuf.Buffer, cat phaseCategory) (int, error) {
	tree, err := c.parser.Parse(buf.Bytes())
	if err != nil {
		return 0, err
	}
	res := classify.Classify(tree)
	tree.Close()

	targets := res.Bindings
	if cat == CategoryDeclarations {
		targets = res.Declarations
	}

	// The used set covers both categories plus reserved words; a fresh
	// generator per phase, so counter state never leaks across phases.
	gen := namegen.NewFromSpellings(
		classify.Spellings(res.Bindings),
		classify.Spellings(res.Declarations),
	)

	renamer := c.newRenamer(buf)
	var mapper textbuf.OffsetMapper
	renamed := 0
	done := make(map[string]bool)

	next := gen.NextUnused()
	for _, occ := range targets {
		if occ.Spelling == entryPointName {
			continue
		}
		// Renaming must strictly shrink the text; an equal-length swap only
		// adds risk.
		if len(occ.Spelling) <= len(next) {
			continue
		}

		offset, ok := mapper.Map(occ.Offset)
		if !ok {
			// Same-spelling declarations rename as one group; a later group
			// member's site was already rewritten by the first.
			if done[occ.Spelling] {
				slog.Debug("skipping renamed group member", "spelling", occ.Spelling)
				continue
			}
			line, col := textbuf.NewLineIndex(buf.Bytes()).Position(occ.Offset)
			err := errors.AddContext(errors.New(errors.CodeUnresolvedBinding,
				fmt.Sprintf("declaration of %q at offset %d was overwritten by a previous rename", occ.Spelling, occ.Offset)),
				errors.CtxSymbol, occ.Spelling)
			return renamed, errors.AddContext(err, errors.CtxPosition, fmt.Sprintf("%d:%d", line+1, col+1))
		}

		edits, err := renamer.Rename(offset, next)
		if err != nil {
			return renamed, errors.AddContext(err, errors.CtxSymbol, occ.Spelling)
		}
		if err := buf.Apply(edits); err != nil {
			return renamed, errors.Wrap(err, errors.CodeInternal, "apply rename edits")
		}
		mapper.Record(edits)
		done[occ.Spelling] = true
		renamed++
		slog.Debug("renamed", "from", occ.Spelling, "to", next, "edits", len(edits))

		next = gen.NextUnused()
	}
	return renamed, nil
}
