// Package compact re-emits source text with all non-essential whitespace
// removed. Literal and comment contents are copied verbatim; a single space
// is re-inserted only where omitting it would merge two tokens.
package compact

import "unicode"

// Compact is a pure function over the source text. It never fails: runes it
// does not recognize pass straight through. It is expected to run on
// syntactically valid input.
func Compact(source string) string {
	cs := []rune(source)
	out := make([]rune, 0, len(cs))

	i := 0
	for {
		for i < len(cs) && unicode.IsSpace(cs[i]) {
			i++
		}
		if i >= len(cs) {
			return string(out)
		}

		// Separation rules: two word-ish tokens must not merge (raw and
		// byte string openers count, they start with a word rune), and a
		// tuple index or float tail ending ".0" must not fuse with a
		// following range dot.
		if len(out) >= 2 && out[len(out)-2] == '.' && out[len(out)-1] == '0' && cs[i] == '.' {
			out = append(out, ' ')
		} else if len(out) > 0 && isWord(out[len(out)-1]) && isWord(cs[i]) {
			out = append(out, ' ')
		}

		if n := rawStringLen(cs[i:]); n > 0 {
			out = append(out, cs[i:i+n]...)
			i += n
			continue
		}

		if hasPrefix(cs[i:], "//") {
			for i < len(cs) && cs[i] != '\n' {
				out = append(out, cs[i])
				i++
			}
			if i < len(cs) {
				out = append(out, cs[i]) // keep the terminator
				i++
			}
			continue
		}

		if hasPrefix(cs[i:], "/*") {
			end := blockCommentEnd(cs, i)
			out = append(out, cs[i:end]...)
			i = end
			continue
		}

		if cs[i] == '"' {
			end := stringEnd(cs, i)
			out = append(out, cs[i:end]...)
			i = end
			continue
		}

		if n := charLiteralLen(cs[i:]); n > 0 {
			out = append(out, cs[i:i+n]...)
			i += n
			continue
		}

		out = append(out, cs[i])
		i++
		for i < len(cs) && isWord(cs[i]) {
			out = append(out, cs[i])
			i++
		}
	}
}

func isWord(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func hasPrefix(s []rune, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return string(s[:len(prefix)]) == prefix
}

// rawStringLen returns the length of a raw string literal (optionally
// byte-prefixed) starting at s, or 0. The closing quote must carry the same
// number of hashes as the opener.
func rawStringLen(s []rune) int {
	j := 0
	if j < len(s) && s[j] == 'b' {
		j++
	}
	if j >= len(s) || s[j] != 'r' {
		return 0
	}
	j++
	hashes := 0
	for j < len(s) && s[j] == '#' {
		hashes++
		j++
	}
	if j >= len(s) || s[j] != '"' {
		return 0
	}
	j++
	for j < len(s) {
		if s[j] == '"' {
			k := j + 1
			n := 0
			for k < len(s) && n < hashes && s[k] == '#' {
				n++
				k++
			}
			if n == hashes {
				return k
			}
		}
		j++
	}
	return len(s) // unterminated; pass the rest through
}

// stringEnd returns the index one past the closing quote of a plain string
// literal opening at start, honoring backslash escapes.
func stringEnd(cs []rune, start int) int {
	i := start + 1
	for i < len(cs) {
		switch cs[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return len(cs)
}

func blockCommentEnd(cs []rune, start int) int {
	depth := 0
	i := start
	for i < len(cs) {
		if hasPrefix(cs[i:], "/*") {
			depth++
			i += 2
			continue
		}
		if hasPrefix(cs[i:], "*/") {
			depth--
			i += 2
			if depth == 0 {
				return i
			}
			continue
		}
		i++
	}
	return len(cs)
}

// charLiteralLen distinguishes char literals from lifetimes: 'x' and escape
// forms are literals, 'a in &'a str is not and returns 0.
func charLiteralLen(s []rune) int {
	if len(s) < 3 || s[0] != '\'' {
		return 0
	}
	if s[1] == '\\' {
		j := 2
		if j >= len(s) {
			return 0
		}
		switch s[j] {
		case 'x':
			j += 3
		case 'u':
			j++
			if j < len(s) && s[j] == '{' {
				for j < len(s) && s[j] != '}' {
					j++
				}
				j++
			}
		default:
			j++ // single-rune escape such as \n, \', \\
		}
		if j < len(s) && s[j] == '\'' {
			return j + 1
		}
		return 0
	}
	if s[2] == '\'' {
		return 3
	}
	return 0
}
