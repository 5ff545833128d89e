package dnet

import (
	"testing"

	"github.com/term-index/discrim/expr"
)

func seqOp(operands ...expr.Expr) expr.Operation {
	return expr.NewOperation("f", false, len(operands), true, operands...)
}

func TestSequenceMatcherBindsEdgeWildcards(t *testing.T) {
	pattern := seqOp(
		expr.NewVariable("x", expr.NewWildcard(0, false)),
		sym("a"), sym("b"),
		expr.NewVariable("y", expr.NewWildcard(0, false)),
	)
	sm, err := NewSequenceMatcher(pattern)
	if err != nil {
		t.Fatalf("NewSequenceMatcher: %v", err)
	}

	subject := seqOp(sym("p"), sym("a"), sym("b"), sym("q"), sym("r"))
	matches, err := sm.Match(subject)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one match, got %d: %v", len(matches), matches)
	}

	xVal, xTuple, xIsTuple, xOK := matches[0].Substitution.Get("x")
	_ = xVal
	if !xOK || !xIsTuple || len(xTuple) != 1 || !xTuple[0].Equal(sym("p")) {
		t.Errorf("expected x=(p), got %v isTuple=%v", xTuple, xIsTuple)
	}
	_, yTuple, yIsTuple, yOK := matches[0].Substitution.Get("y")
	if !yOK || !yIsTuple || len(yTuple) != 2 || !yTuple[0].Equal(sym("q")) || !yTuple[1].Equal(sym("r")) {
		t.Errorf("expected y=(q, r), got %v isTuple=%v", yTuple, yIsTuple)
	}
}

func TestSequenceMatcherNoMatchWhenMiddleAbsent(t *testing.T) {
	pattern := seqOp(
		expr.NewWildcard(0, false),
		sym("a"), sym("b"),
		expr.NewWildcard(0, false),
	)
	sm, err := NewSequenceMatcher(pattern)
	if err != nil {
		t.Fatalf("NewSequenceMatcher: %v", err)
	}
	subject := seqOp(sym("a"), sym("c"))
	matches, err := sm.Match(subject)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no match, got %v", matches)
	}
}

func TestSequenceMatcherRejectsCommutativeRoot(t *testing.T) {
	comm := expr.NewOperation("f", true, 3, true,
		expr.NewWildcard(0, false), sym("a"), expr.NewWildcard(0, false))
	if _, err := NewSequenceMatcher(comm); err == nil {
		t.Errorf("expected InvalidPatternError for a commutative root operation")
	}
}

func TestSequenceMatcherRejectsTooFewOperands(t *testing.T) {
	short := seqOp(expr.NewWildcard(0, false), sym("a"))
	if _, err := NewSequenceMatcher(short); err == nil {
		t.Errorf("expected InvalidPatternError for fewer than 3 operands")
	}
}

func TestSequenceMatcherRejectsNonWildcardEdge(t *testing.T) {
	bad := seqOp(sym("x"), sym("a"), expr.NewWildcard(0, false))
	if _, err := NewSequenceMatcher(bad); err == nil {
		t.Errorf("expected InvalidPatternError when first operand is not an unbounded wildcard")
	}
}

func TestSequenceMatcherMultiplePatternsIndependentPayloads(t *testing.T) {
	p1 := seqOp(expr.NewWildcard(0, false), sym("a"), expr.NewWildcard(0, false))
	p2 := seqOp(expr.NewWildcard(0, false), sym("b"), expr.NewWildcard(0, false))
	sm, err := NewSequenceMatcher(p1, p2)
	if err != nil {
		t.Fatalf("NewSequenceMatcher: %v", err)
	}
	subject := seqOp(sym("a"), sym("b"))
	matches, err := sm.Match(subject)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected both p1 and p2 to match somewhere in the subject, got %d: %v", len(matches), matches)
	}
}
