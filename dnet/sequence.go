package dnet

import "github.com/term-index/discrim/expr"

// seqPatternInfo is the per-pattern bookkeeping a SequenceMatcher needs at
// match time: the original operation (for the payload), the middle operand
// expressions to run Substitution.Extract against, and the optional names of
// the bracketing wildcards.
type seqPatternInfo struct {
	op         expr.Operation
	middle     []expr.Expr
	hasFirst   bool
	firstName  string
	hasLast    bool
	lastName   string
}

// SequenceMatcher is component G (§4.7): locates pattern operands as a
// contiguous infix inside a non-commutative operation's operand list.
type SequenceMatcher struct {
	rootKind expr.Kind
	net      *dfa
	info     []seqPatternInfo
}

// SequenceMatch is one result of SequenceMatcher.Match.
type SequenceMatch struct {
	Substitution *Substitution
	Pattern      expr.Expr
}

// NewSequenceMatcher builds a matcher over patterns, all of which must share
// the same non-commutative root operation kind, have at least 3 operands,
// and have a bare unbounded zero-min wildcard (optionally named via a
// Variable) as both their first and last operand. Violations are reported as
// InvalidPatternError.
func NewSequenceMatcher(patterns ...expr.Expr) (*SequenceMatcher, error) {
	sm := &SequenceMatcher{}
	for i, p := range patterns {
		op, ok := p.(expr.Operation)
		if !ok {
			return nil, InvalidPatternError{Reason: "pattern root is not an operation"}
		}
		if op.Commutative {
			return nil, InvalidPatternError{Reason: "commutative root operation is not supported"}
		}
		if i == 0 {
			sm.rootKind = op.Kind
		} else if op.Kind != sm.rootKind {
			return nil, InvalidPatternError{Reason: "patterns do not share the same root operation kind"}
		}
		if len(op.Operands) < 3 {
			return nil, InvalidPatternError{Reason: "pattern has fewer than 3 operands"}
		}

		firstName, hasFirst, okFirst := parseEdgeWildcard(op.Operands[0])
		if !okFirst {
			return nil, InvalidPatternError{Reason: "first operand is not a bare unbounded zero-min wildcard"}
		}
		lastName, hasLast, okLast := parseEdgeWildcard(op.Operands[len(op.Operands)-1])
		if !okLast {
			return nil, InvalidPatternError{Reason: "last operand is not a bare unbounded zero-min wildcard"}
		}

		middle := op.Operands[1 : len(op.Operands)-1]
		ft, err := encodeConcat(middle)
		if err != nil {
			return nil, InvalidPatternError{Reason: "middle operands could not be flat-term encoded", Cause: err}
		}
		nfa := buildPatternNFA(ft, i)
		d := determinize(nfa)
		if sm.net == nil {
			sm.net = d
		} else {
			sm.net = productDFA(sm.net, d)
		}

		sm.info = append(sm.info, seqPatternInfo{
			op: op, middle: middle,
			hasFirst: hasFirst, firstName: firstName,
			hasLast: hasLast, lastName: lastName,
		})
	}
	return sm, nil
}

// parseEdgeWildcard recognizes a bare unbounded (min_count=0, fixed=false)
// wildcard, optionally wrapped in a Variable for naming.
func parseEdgeWildcard(e expr.Expr) (name string, named bool, ok bool) {
	if v, isVar := e.(expr.Variable); isVar {
		if w, isWild := v.Inner.(expr.Wildcard); isWild && w.MinCount == 0 && !w.FixedSize {
			return v.Name, true, true
		}
		return "", false, false
	}
	if w, isWild := e.(expr.Wildcard); isWild && w.MinCount == 0 && !w.FixedSize {
		return "", false, true
	}
	return "", false, false
}

// Match implements §4.7's match algorithm: for every starting index, the
// tail-merged flat-term is walked in first mode; each returned pattern index
// is checked against the actual operand slice, extended with a
// Substitution.Extract per middle operand and try-binds for the named edge
// wildcards. SubstitutionConflictError is swallowed per candidate (§7) —
// it is a match-filtering signal, not a hard error.
func (sm *SequenceMatcher) Match(subject expr.Expr) ([]SequenceMatch, error) {
	if sm.net == nil {
		return nil, nil
	}
	op, ok := subject.(expr.Operation)
	if !ok || op.Kind != sm.rootKind {
		return nil, nil
	}

	operands := op.Operands
	n := len(operands)
	var results []SequenceMatch

	for j := 0; j < n; j++ {
		ft, err := encodeConcat(operands[j:])
		if err != nil {
			return results, err
		}
		payloads, err := walk(sm.net, ft, true)
		if err != nil {
			return results, err
		}
		for _, p := range payloads {
			idx, ok := p.(int)
			if !ok {
				continue
			}
			info := sm.info[idx]
			m := len(info.middle)
			if j+m > n {
				continue
			}
			middleOperands := operands[j : j+m]

			sub := NewSubstitution()
			matched := true
			for k, pat := range info.middle {
				if !sub.Extract(middleOperands[k], pat) {
					matched = false
					break
				}
			}
			if !matched {
				continue
			}

			if info.hasFirst {
				if err := sub.TryBindTuple(info.firstName, cloneExprs(operands[:j])); err != nil {
					continue
				}
			}
			if info.hasLast {
				if err := sub.TryBindTuple(info.lastName, cloneExprs(operands[j+m:])); err != nil {
					continue
				}
			}
			results = append(results, SequenceMatch{Substitution: sub, Pattern: info.op})
		}
	}
	return results, nil
}

func cloneExprs(in []expr.Expr) []expr.Expr {
	out := make([]expr.Expr, len(in))
	copy(out, in)
	return out
}
