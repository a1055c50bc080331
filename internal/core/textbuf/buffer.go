// Package textbuf holds the working source text during minification and the
// edit machinery used to rewrite it: disjoint edit sets applied atomically,
// offset/line-column translation, and offset remapping across applied edits.
package textbuf

import (
	"fmt"
	"sort"

	"rsmin/internal/core/errors"
)

// Edit replaces the byte range [Start, End) with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// EditSet is a group of edits applied to a buffer in one atomic step.
// Edits must be in-bounds and pairwise disjoint.
type EditSet []Edit

func (es EditSet) sorted() EditSet {
	out := make(EditSet, len(es))
	copy(out, es)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Validate reports the first violation for a buffer of the given size.
func (es EditSet) Validate(size int) error {
	sorted := es.sorted()
	prevEnd := -1
	for _, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > size {
			return errors.New(errors.CodeValidationError,
				fmt.Sprintf("edit range [%d,%d) out of bounds for buffer of %d bytes", e.Start, e.End, size))
		}
		if e.Start < prevEnd {
			return errors.New(errors.CodeValidationError,
				fmt.Sprintf("overlapping edits at offset %d", e.Start))
		}
		prevEnd = e.End
	}
	return nil
}

// Buffer is a mutable text container exclusively owned by its caller.
type Buffer struct {
	data []byte
}

func NewBuffer(text string) *Buffer {
	return &Buffer{data: []byte(text)}
}

func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) String() string {
	return string(b.data)
}

func (b *Buffer) Len() int {
	return len(b.data)
}

// Apply rewrites the buffer with all edits in one step. The buffer is left
// unchanged when validation fails.
func (b *Buffer) Apply(es EditSet) error {
	if len(es) == 0 {
		return nil
	}
	if err := es.Validate(len(b.data)); err != nil {
		return err
	}
	sorted := es.sorted()
	out := make([]byte, 0, len(b.data))
	prev := 0
	for _, e := range sorted {
		out = append(out, b.data[prev:e.Start]...)
		out = append(out, e.Text...)
		prev = e.End
	}
	out = append(out, b.data[prev:]...)
	b.data = out
	return nil
}
