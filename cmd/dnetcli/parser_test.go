package main

import "testing"

func TestParseExprSymbol(t *testing.T) {
	e, err := parseExpr("a")
	if err != nil {
		t.Fatalf("parseExpr: %v", err)
	}
	if e.String() != "a" {
		t.Errorf("got %q, want %q", e.String(), "a")
	}
}

func TestParseExprOperation(t *testing.T) {
	e, err := parseExpr("f(a, b)")
	if err != nil {
		t.Fatalf("parseExpr: %v", err)
	}
	if e.String() != "f(a, b)" {
		t.Errorf("got %q, want %q", e.String(), "f(a, b)")
	}
}

func TestParseExprNestedOperation(t *testing.T) {
	e, err := parseExpr("f(g(a), b)")
	if err != nil {
		t.Fatalf("parseExpr: %v", err)
	}
	if e.String() != "f(g(a), b)" {
		t.Errorf("got %q, want %q", e.String(), "f(g(a), b)")
	}
}

func TestParseExprWildcards(t *testing.T) {
	cases := []string{"_", "__", "___"}
	for _, c := range cases {
		if _, err := parseExpr(c); err != nil {
			t.Errorf("parseExpr(%q): %v", c, err)
		}
	}
}

func TestParseExprNamedWildcard(t *testing.T) {
	e, err := parseExpr("f(x___, a, b, y___)")
	if err != nil {
		t.Fatalf("parseExpr: %v", err)
	}
	if e.String() == "" {
		t.Errorf("expected non-empty rendering")
	}
}

func TestParseExprSymbolWildcard(t *testing.T) {
	if _, err := parseExpr("f(_:Number)"); err != nil {
		t.Fatalf("parseExpr: %v", err)
	}
}

func TestParseExprRejectsTrailingGarbage(t *testing.T) {
	if _, err := parseExpr("a b"); err == nil {
		t.Errorf("expected an error on trailing input")
	}
}

func TestParseExprRejectsUnbalancedParens(t *testing.T) {
	if _, err := parseExpr("f(a, b"); err == nil {
		t.Errorf("expected an error on unbalanced parens")
	}
}
