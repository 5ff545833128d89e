package dnet

import (
	"reflect"
	"testing"

	"github.com/term-index/discrim/expr"
)

func TestNetSyntacticMatchIncludesExcludes(t *testing.T) {
	n := NewNet()
	pat := op("f", sym("a"), sym("b"))
	if err := n.Add(pat, "p1"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := n.Match(op("f", sym("a"), sym("b")), false)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !reflect.DeepEqual(got, []interface{}{"p1"}) {
		t.Errorf("expected match, got %v", got)
	}

	got, err = n.Match(op("f", sym("a"), sym("c")), false)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no match, got %v", got)
	}
}

func TestNetSequenceWildcardMatch(t *testing.T) {
	n := NewNet()
	pat := op("f", expr.NewWildcard(0, false), sym("a"), sym("b"))
	if err := n.Add(pat, "p1"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	cases := []struct {
		subject expr.Expr
		want    bool
	}{
		{op("f", sym("a"), sym("b")), true},
		{op("f", sym("x"), sym("a"), sym("b")), true},
		{op("f", sym("x"), sym("y"), sym("a"), sym("b")), true},
		{op("f", sym("a"), sym("b"), sym("x")), false},
		{op("f", sym("x"), sym("a")), false},
	}
	for _, c := range cases {
		got, err := n.Match(c.subject, false)
		if err != nil {
			t.Fatalf("Match(%v): %v", c.subject, err)
		}
		if (len(got) > 0) != c.want {
			t.Errorf("Match(%v) = %v, want match=%v", c.subject, got, c.want)
		}
	}
}

func TestNetNestedOperationProductFailureState(t *testing.T) {
	// add(f(___, g(a))); match(f(g(b), g(a))) must still match: the
	// wildcard side must be able to skip over the whole nested g(b)
	// subterm, not just a single token. With a single pattern no product
	// is built; this exercises the pattern NFA's backtracking edges (§4.3).
	n := NewNet()
	pat := op("f", expr.NewWildcard(0, false), op("g", sym("a")))
	if err := n.Add(pat, "p1"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := n.Match(op("f", op("g", sym("b")), op("g", sym("a"))), false)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(got) != 1 || got[0] != "p1" {
		t.Errorf("expected nested match through failure skeleton, got %v", got)
	}

	got, err = n.Match(op("f", op("g", sym("b")), op("g", sym("c"))), false)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no match, got %v", got)
	}
}

func TestNetMultiplePatternsUnion(t *testing.T) {
	n := NewNet()
	if err := n.Add(op("f", sym("a"), sym("b")), "p1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := n.Add(op("f", expr.NewWildcard(0, false), sym("a"), sym("b")), "p2"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := n.Match(op("f", sym("a"), sym("b")), false)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected both patterns to match f(a,b), got %v", got)
	}

	got, err = n.Match(op("f", sym("x"), sym("a"), sym("b")), false)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(got) != 1 || got[0] != "p2" {
		t.Errorf("expected only p2 to match, got %v", got)
	}
}

func TestNetSymbolWildcardHierarchy(t *testing.T) {
	expr.RegisterSubkind("Integer", "Number")

	n := NewNet()
	pat := op("f", expr.NewSymbolWildcard("Number"))
	if err := n.Add(pat, "p1"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := n.Match(op("f", expr.NewKindedSymbol("Integer", "3")), false)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected Integer to match Number wildcard, got %v", got)
	}

	got, err = n.Match(op("f", sym("x")), false)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected plain Symbol not to match Number wildcard, got %v", got)
	}
}

func TestNetEmptyNetMatchReturnsNil(t *testing.T) {
	n := NewNet()
	got, err := n.Match(sym("a"), false)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil on empty net, got %v", got)
	}
}
