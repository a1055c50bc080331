package classify

import (
	"testing"

	"rsmin/internal/engine/parser"
)

func parse(t *testing.T, source string) *parser.Tree {
	t.Helper()
	tree, err := parser.New().Parse([]byte(source))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(tree.Close)
	return tree
}

func TestClassifyBindings(t *testing.T) {
	source := `
const LIMIT: usize = 10;
static GREETING: &str = "hi";

fn compute(width: usize, (left, right): (i32, i32)) -> usize {
    let total = width + LIMIT;
    for item in 0..total {
        let copy = item;
    }
    match Some(total) {
        Some(inner) => inner,
        other => 0,
    };
    let add = |amount: usize| total + amount;
    add(1)
}
`
	res := Classify(parse(t, source))

	want := []string{"LIMIT", "GREETING", "width", "left", "right", "total", "item", "copy", "inner", "other", "add", "amount"}
	got := Spellings(res.Bindings)
	if len(got) != len(want) {
		t.Fatalf("expected %d bindings %v, got %v", len(want), want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("binding %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestClassifyDeclarations(t *testing.T) {
	source := `
mod helpers {}
use std::collections::HashMap as Map;

struct Point {
    x_coord: i64,
    y_coord: i64,
}

enum Shape {
    Circle,
    Square,
}

trait Draw {
    fn draw(&self);
    fn outline(&self) {}
}

fn render() {}
`
	res := Classify(parse(t, source))

	want := []string{"helpers", "Map", "Point", "x_coord", "y_coord", "Shape", "Circle", "Square", "Draw", "draw", "outline", "render"}
	got := Spellings(res.Declarations)
	if len(got) != len(want) {
		t.Fatalf("expected declarations %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("declaration %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestTraitImplMethodsExcluded(t *testing.T) {
	source := `
trait Draw {
    fn draw(&self);
}

struct Point;

impl Draw for Point {
    fn draw(&self) {
        fn helper() {}
        helper();
    }
}

impl Point {
    fn area(&self) -> i64 { 0 }
}
`
	res := Classify(parse(t, source))

	decls := Spellings(res.Declarations)
	count := func(name string) int {
		n := 0
		for _, d := range decls {
			if d == name {
				n++
			}
		}
		return n
	}

	// Only the trait's own declaration of draw survives; the impl's copy is
	// fixed by the trait contract.
	if count("draw") != 1 {
		t.Errorf("expected exactly one draw declaration, got %d in %v", count("draw"), decls)
	}
	// A nested fn inside the trait-impl method stays renamable.
	if count("helper") != 1 {
		t.Errorf("expected nested helper to be declared, got %v", decls)
	}
	// Inherent impl methods are renamable.
	if count("area") != 1 {
		t.Errorf("expected inherent method area to be declared, got %v", decls)
	}
}

func TestDuplicateSpellingsPreserved(t *testing.T) {
	source := `
fn first() {
    let value = 1;
    let _ = value;
}

fn second() {
    let value = 2;
    let _ = value;
}
`
	res := Classify(parse(t, source))

	seen := 0
	offsets := map[int]bool{}
	for _, b := range res.Bindings {
		if b.Spelling == "value" {
			seen++
			offsets[b.Offset] = true
		}
	}
	if seen != 2 {
		t.Fatalf("expected two distinct value bindings, got %d", seen)
	}
	if len(offsets) != 2 {
		t.Error("duplicate bindings must keep distinct offsets")
	}
}

func TestShorthandFieldSites(t *testing.T) {
	source := `
struct Counter {
    count: usize,
}

fn build() -> Counter {
    let count = 0;
    Counter { count }
}
`
	res := Classify(parse(t, source))

	foundBinding := false
	for _, b := range res.Bindings {
		if b.Spelling == "count" {
			foundBinding = true
		}
	}
	foundField := false
	for _, d := range res.Declarations {
		if d.Spelling == "count" && d.Role == "field" {
			foundField = true
		}
	}
	if !foundBinding || !foundField {
		t.Errorf("expected count in both categories, bindings=%v declarations=%v",
			Spellings(res.Bindings), Spellings(res.Declarations))
	}
}

func TestMatchGuardIsNotABinding(t *testing.T) {
	source := `
fn main() {
    let flag = true;
    match 1 {
        other if flag => {
            other;
        }
        _ => {}
    }
}
`
	res := Classify(parse(t, source))

	want := []string{"flag", "other"}
	got := Spellings(res.Bindings)
	if len(got) != len(want) {
		t.Fatalf("expected bindings %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("binding %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
