package textbuf

// LineIndex translates between byte offsets and zero-based line/column pairs
// for a fixed snapshot of text. Columns count bytes, matching tree-sitter.
type LineIndex struct {
	lineStarts []int
	size       int
}

func NewLineIndex(text []byte) *LineIndex {
	starts := []int{0}
	for i, c := range text {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts, size: len(text)}
}

// Position returns the line and column containing the offset. Offsets past
// the end clamp to the final position.
func (li *LineIndex) Position(offset int) (line, col int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > li.size {
		offset = li.size
	}
	lo, hi := 0, len(li.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, offset - li.lineStarts[lo]
}

// Offset returns the byte offset of a line/column pair, or -1 when the line
// does not exist.
func (li *LineIndex) Offset(line, col int) int {
	if line < 0 || line >= len(li.lineStarts) {
		return -1
	}
	off := li.lineStarts[line] + col
	if off > li.size {
		return -1
	}
	return off
}
