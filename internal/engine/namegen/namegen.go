// Package namegen produces the deterministic sequence of short replacement
// identifiers used during minification: a..z, A..Z, then two-character
// spellings and so on, never repeating and never decreasing in length.
package namegen

const (
	// leadChars is the alphabet for the leading character of a spelling,
	// restricted to what may legally start an identifier.
	leadChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// tailChars is the alphabet for every other position.
	tailChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_0123456789"
)

// ReservedWords are spellings that must never be assigned as generated names.
var ReservedWords = map[string]bool{
	"as": true, "impl": true, "fn": true, "do": true, "while": true,
	"if": true, "else": true, "match": true, "use": true, "type": true,
	"enum": true, "struct": true, "pub": true, "crate": true, "super": true,
	"self": true, "Self": true, "static": true, "mod": true, "let": true,
	"const": true, "mut": true,
}

// Generator counts through identifier spellings in a positional system with
// two radixes: the most significant digit ranges over leadChars and every
// lower digit over tailChars. Digits are stored little-endian, so the last
// slot renders as the leading character.
type Generator struct {
	used    map[string]bool
	current []int
}

// New seeds a generator with the spellings it must avoid. Reserved words are
// always avoided and need not be included.
func New(used map[string]bool) *Generator {
	avoid := make(map[string]bool, len(used))
	for name := range used {
		avoid[name] = true
	}
	return &Generator{used: avoid}
}

// NewFromSpellings seeds a generator from occurrence spelling lists.
func NewFromSpellings(lists ...[]string) *Generator {
	used := make(map[string]bool)
	for _, list := range lists {
		for _, s := range list {
			used[s] = true
		}
	}
	return &Generator{used: used}
}

// Next advances the counter and returns the next candidate spelling without
// consulting the used set.
func (g *Generator) Next() string {
	if len(g.current) == 0 {
		g.current = append(g.current, 0)
		return string(leadChars[0])
	}
	for i := 0; i < len(g.current); i++ {
		g.current[i]++

		isLead := i == len(g.current)-1
		radix := len(tailChars)
		if isLead {
			radix = len(leadChars)
		}
		if g.current[i] != radix {
			break
		}

		g.current[i] = 0
		if isLead {
			g.current = append(g.current, 0)
			break
		}
	}

	// tailChars begins with the 52 lead letters, so one table renders all
	// positions.
	out := make([]byte, len(g.current))
	for i, d := range g.current {
		out[len(g.current)-1-i] = tailChars[d]
	}
	return string(out)
}

// NextUnused advances until a candidate is neither reserved nor in the used
// set. Both sets are finite, so the counter must escape them within
// len(used)+len(reserved)+1 steps; exceeding that bound means the invariant
// is broken and the generator panics rather than spin forever.
func (g *Generator) NextUnused() string {
	limit := len(g.used) + len(ReservedWords) + 1
	for i := 0; i < limit; i++ {
		name := g.Next()
		if !g.used[name] && !ReservedWords[name] {
			return name
		}
	}
	panic("namegen: candidate space exhausted against finite used set")
}
