package compact

import (
	"strings"
	"testing"
)

func TestCompactBasic(t *testing.T) {
	in := "fn main() {\n    let x = 1 + 2;\n}\n"
	want := "fn main(){let x=1+2;}"
	if got := Compact(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCompactIdempotent(t *testing.T) {
	inputs := []string{
		"fn main() {\n    let x = 1;\n}\n",
		"let s = \"spaced   out\"; // trailing comment\nlet t = 2;",
		"let r = r#\"raw \"quoted\" text\"#; let v = 0.0 .. 1.0;",
		"struct P { x: i64 }\nimpl P { fn a(&self) -> i64 { self.x } }",
	}
	for _, in := range inputs {
		once := Compact(in)
		twice := Compact(once)
		if once != twice {
			t.Errorf("compaction not idempotent:\n once=%q\ntwice=%q", once, twice)
		}
	}
}

func TestSpacesRemovedCommentPreserved(t *testing.T) {
	in := "let a = 1;        // keep me exactly\nlet b = 2;"
	got := Compact(in)
	if !strings.Contains(got, "// keep me exactly\n") {
		t.Errorf("comment text or terminator damaged: %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace run survived outside literals: %q", got)
	}
	if got != "let a=1;// keep me exactly\nlet b=2;" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestStringLiteralFidelity(t *testing.T) {
	cases := []string{
		`"two  spaces"`,
		`"tab\tand \"escape\""`,
		`"// not a comment"`,
		"r\"raw no hash\"",
		"r#\"raw with \"inner\" quotes\"#",
		"r##\"nested \"# still open\"##",
		"br#\"raw bytes\"#",
	}
	for _, lit := range cases {
		in := "let s = " + lit + " ;"
		got := Compact(in)
		if !strings.Contains(got, lit) {
			t.Errorf("literal %s damaged: %q", lit, got)
		}
	}
}

func TestCharLiteralsAndLifetimes(t *testing.T) {
	in := "let c: char = ' '; let d = '\\n'; fn f<'a>(s: &'a str) -> &'a str { s }"
	got := Compact(in)
	if !strings.Contains(got, "' '") {
		t.Errorf("space char literal damaged: %q", got)
	}
	if !strings.Contains(got, `'\n'`) {
		t.Errorf("escaped char literal damaged: %q", got)
	}
	if !strings.Contains(got, "&'a str") {
		t.Errorf("lifetime separation broken: %q", got)
	}
}

func TestTokenSeparation(t *testing.T) {
	in := "let x  =  a   as   usize ;"
	want := "let x=a as usize;"
	if got := Compact(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTupleIndexRangeGuard(t *testing.T) {
	// point.0 followed by a range dot must not fuse into `0..`.
	in := "let r = point.0 .. point.1;"
	got := Compact(in)
	if !strings.Contains(got, ".0 ..") {
		t.Errorf("expected separating space after .0, got %q", got)
	}
}

func TestBlockCommentPreserved(t *testing.T) {
	in := "let a = 1; /* keep  this  spacing */ let b = 2;"
	got := Compact(in)
	if !strings.Contains(got, "/* keep  this  spacing */") {
		t.Errorf("block comment damaged: %q", got)
	}
}

func TestEmptyAndWhitespaceOnly(t *testing.T) {
	if got := Compact(""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
	if got := Compact(" \n\t  "); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestRawStringKeepsWordBoundary(t *testing.T) {
	cases := []struct{ in, want string }{
		{`return r"x";`, `return r"x";`},
		{`return  br#"y"#;`, `return br#"y"#;`},
		{`let s = r"x";`, `let s=r"x";`},
	}
	for _, c := range cases {
		if got := Compact(c.in); got != c.want {
			t.Errorf("Compact(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
