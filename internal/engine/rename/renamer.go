// Package rename implements the renaming half of minification: a Renamer
// that resolves a declaration position to every occurrence sharing its
// binding and produces the text edits for a new spelling, and a Coordinator
// that drives the two-phase rename protocol over the working buffer.
package rename

import (
	"rsmin/internal/core/textbuf"
)

// Renamer performs a scope-correct rename. Given a byte offset pinpointing a
// declaration or binding occurrence, it returns the complete edit set needed
// to rename every occurrence sharing that binding within the compilation
// unit. It fails with UNRESOLVED_BINDING when the position does not resolve
// to a renamable entity.
type Renamer interface {
	Rename(offset int, newName string) (textbuf.EditSet, error)
}
