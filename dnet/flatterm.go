package dnet

import (
	"strconv"

	"github.com/term-index/discrim/expr"
)

// TermAtomKind tags the variant held by a TermAtom.
type TermAtomKind int

const (
	AtomSym TermAtomKind = iota
	AtomOpBegin
	AtomOpEnd
	AtomSymWild
	AtomWild
)

// TermAtom is one token of a FlatTerm: the pre-order linearization of an
// expression tree, §3 "Flat-term token".
type TermAtom struct {
	Kind      TermAtomKind
	Sym       expr.Symbol // valid when Kind == AtomSym
	OpKind    expr.Kind   // valid when Kind == AtomOpBegin or AtomSymWild
	MinCount  int         // valid when Kind == AtomWild
	FixedSize bool        // valid when Kind == AtomWild

	// MinArity/FixedArity carry the arity of the operation an AtomOpBegin
	// token opens. They are not part of the token's label identity (two
	// operations of the same Kind always share the same arity in this
	// domain model) — only the NFA builder's failure-skeleton construction
	// (§4.3) reads them.
	MinArity  int
	FixedArity bool
}

func symAtom(s expr.Symbol) TermAtom { return TermAtom{Kind: AtomSym, Sym: s} }
func opBeginAtom(k expr.Kind, minArity int, fixedArity bool) TermAtom {
	return TermAtom{Kind: AtomOpBegin, OpKind: k, MinArity: minArity, FixedArity: fixedArity}
}
func opEndAtom() TermAtom { return TermAtom{Kind: AtomOpEnd} }
func symWildAtom(k expr.Kind) TermAtom { return TermAtom{Kind: AtomSymWild, OpKind: k} }
func wildAtom(min int, fixed bool) TermAtom {
	return TermAtom{Kind: AtomWild, MinCount: min, FixedSize: fixed}
}

func (a TermAtom) String() string {
	switch a.Kind {
	case AtomSym:
		return a.Sym.String()
	case AtomOpBegin:
		return string(a.OpKind) + "("
	case AtomOpEnd:
		return ")"
	case AtomSymWild:
		return "_:" + string(a.OpKind)
	case AtomWild:
		if a.FixedSize {
			return "*" + strconv.Itoa(a.MinCount)
		}
		return "*" + strconv.Itoa(a.MinCount) + "+"
	default:
		return "?"
	}
}

// Equal reports whether two tokens carry the same label.
func (a TermAtom) Equal(b TermAtom) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case AtomSym:
		return a.Sym.Equal(b.Sym)
	case AtomOpBegin, AtomSymWild:
		return a.OpKind == b.OpKind
	case AtomWild:
		return a.MinCount == b.MinCount && a.FixedSize == b.FixedSize
	default:
		return true
	}
}

// FlatTerm is an ordered, immutable token sequence produced by Encode.
type FlatTerm []TermAtom

// Encode linearizes e in pre-order per §4.1: Variables are erased (their
// Inner is emitted in place), Operations become balanced OpBegin/OpEnd
// brackets, and consecutive plain Wild tokens are merged (SymWild never
// merges with Wild).
func Encode(e expr.Expr) (FlatTerm, error) {
	var out FlatTerm
	if err := encodeInto(&out, e); err != nil {
		return nil, err
	}
	return mergeWildcards(out), nil
}

func encodeInto(out *FlatTerm, e expr.Expr) error {
	switch v := e.(type) {
	case expr.Variable:
		return encodeInto(out, v.Inner)
	case expr.Operation:
		*out = append(*out, opBeginAtom(v.Kind, v.MinCount, v.FixedSize))
		for _, operand := range v.Operands {
			if err := encodeInto(out, operand); err != nil {
				return err
			}
		}
		*out = append(*out, opEndAtom())
		return nil
	case expr.SymbolWildcard:
		*out = append(*out, symWildAtom(v.SymKind))
		return nil
	case expr.Symbol:
		*out = append(*out, symAtom(v))
		return nil
	case expr.Wildcard:
		*out = append(*out, wildAtom(v.MinCount, v.FixedSize))
		return nil
	default:
		return UnsupportedAtomError{Atom: e}
	}
}

// encodeConcat encodes each of operands independently and concatenates the
// results before merging wildcards, giving the "flat-term of the
// concatenation of its middle operands" component G needs (§4.7) without
// wrapping the concatenation in its own OpBegin/OpEnd bracket.
func encodeConcat(operands []expr.Expr) (FlatTerm, error) {
	var out FlatTerm
	for _, o := range operands {
		if err := encodeInto(&out, o); err != nil {
			return nil, err
		}
	}
	return mergeWildcards(out), nil
}

// mergeWildcards folds consecutive AtomWild tokens into one, summing
// MinCount and AND-ing FixedSize. AtomSymWild is never part of a run.
func mergeWildcards(in FlatTerm) FlatTerm {
	out := make(FlatTerm, 0, len(in))
	for _, a := range in {
		if a.Kind == AtomWild && len(out) > 0 {
			last := &out[len(out)-1]
			if last.Kind == AtomWild {
				last.MinCount += a.MinCount
				last.FixedSize = last.FixedSize && a.FixedSize
				continue
			}
		}
		out = append(out, a)
	}
	return out
}
