package dnet

import "github.com/term-index/discrim/expr"

// labelKind distinguishes the five non-epsilon transition labels of §3: four
// token labels plus the distinguished AnyWild wildcard-arc label. Epsilon is
// not a labelKind:
// it is stored on nfaState.eps directly and never appears in a transition
// map, matching "at the DFA level, Epsilon never appears".
type labelKind int

const (
	labelSym labelKind = iota
	labelOpBegin
	labelOpEnd
	labelSymWild
	labelAnyWild
)

// label is a transition key. All fields are comparable, so label is usable
// directly as a map key.
type label struct {
	kind   labelKind
	sym    expr.Symbol
	opKind expr.Kind
}

func labelForAtom(a TermAtom) label {
	switch a.Kind {
	case AtomSym:
		return label{kind: labelSym, sym: a.Sym}
	case AtomOpBegin:
		return label{kind: labelOpBegin, opKind: a.OpKind}
	case AtomOpEnd:
		return label{kind: labelOpEnd}
	case AtomSymWild:
		return label{kind: labelSymWild, opKind: a.OpKind}
	default:
		panic("labelForAtom: not a concrete token")
	}
}

var anyWildLabel = label{kind: labelAnyWild}

func (l label) String() string {
	switch l.kind {
	case labelSym:
		return l.sym.String()
	case labelOpBegin:
		return string(l.opKind) + "("
	case labelOpEnd:
		return ")"
	case labelSymWild:
		return "_:" + string(l.opKind)
	case labelAnyWild:
		return "*"
	default:
		return "?"
	}
}

// nfaState is one node of the per-pattern automaton, §3 "State". trans maps
// a label to the set of successor ids (kept as a set because the builder
// never creates a true NFA branch point other than epsilon, but the shape is
// NFA-general). The DFA and product stages use their own dfaState, whose
// trans holds a single successor id per label.
type nfaState struct {
	id      int
	trans   map[label][]int
	eps     []int
	payload []interface{}
}

// nfaArena owns every state created while building one pattern's NFA. The id
// counter is scoped to the arena (§9 "global id counter" note), not a
// package global.
type nfaArena struct {
	states []*nfaState
}

func newArena() *nfaArena { return &nfaArena{} }

func (a *nfaArena) newState() *nfaState {
	s := &nfaState{id: len(a.states), trans: map[label][]int{}}
	a.states = append(a.states, s)
	return s
}

func (a *nfaArena) get(id int) *nfaState { return a.states[id] }

func (a *nfaArena) addEdge(from int, l label, to int) {
	s := a.states[from]
	s.trans[l] = append(s.trans[l], to)
}

func (a *nfaArena) addEpsilon(from, to int) {
	if from == to {
		return
	}
	a.states[from].eps = append(a.states[from].eps, to)
}

// failSkeleton is the escape route built on OpBegin for a nested operation
// when an enclosing sequence wildcard (or its own fail chain) is active,
// §4.3 step 2. For a fixed-arity operation it is a chain of m+1 states
// indexed by operands-read-so-far; for a variable-arity one it collapses to
// a single self-looping state, indexed uniformly.
type failSkeleton struct {
	states []int
	fixed  bool
}

func (f *failSkeleton) target(operandCount int) int {
	if !f.fixed {
		return f.states[0]
	}
	idx := operandCount
	if idx < 0 {
		idx = 0
	}
	if idx >= len(f.states) {
		idx = len(f.states) - 1
	}
	return f.states[idx]
}

// buildFailSkeleton constructs the escape chain described in §4.3 step 2 and
// returns its entry skeleton. enclosing is the state (last_wild or an outer
// fail[] target) that the chain unwinds to on OpEnd.
func buildFailSkeleton(a *nfaArena, enclosing int, minArity int, fixedArity bool) *failSkeleton {
	if !fixedArity {
		s := a.newState()
		a.addEdge(s.id, anyWildLabel, s.id)
		a.addEdge(s.id, label{kind: labelOpEnd}, enclosing)
		return &failSkeleton{states: []int{s.id}, fixed: false}
	}
	chain := make([]int, minArity+1)
	prev := -1
	for i := 0; i <= minArity; i++ {
		s := a.newState()
		chain[i] = s.id
		if prev != -1 {
			a.addEdge(prev, anyWildLabel, s.id)
		}
		prev = s.id
	}
	a.addEdge(chain[minArity], label{kind: labelOpEnd}, enclosing)
	return &failSkeleton{states: chain, fixed: true}
}

// patternNFA is the result handed to the determinizer: an arena and the
// start state id. The tail state is not recorded; it is the state carrying
// the payload.
type patternNFA struct {
	arena *nfaArena
	start int
}

// buildPatternNFA implements component C (§4.3) for a single pattern's
// FlatTerm. The general stack-based construction below degenerates to a
// plain acyclic chain with no epsilon edges for syntactic patterns (no
// sequence wildcard ever sets last_wild or a fail skeleton), so no separate
// linear fast path is required for correctness — only for speed, which is
// outside this spec's scope.
func buildPatternNFA(ft FlatTerm, payload interface{}) *patternNFA {
	a := newArena()
	start := a.newState()

	const maxDepth = 64
	lastWild := make([]int, 1, maxDepth)
	lastWild[0] = -1
	failSkel := make([]*failSkeleton, 1, maxDepth)
	operandCount := make([]int, 1, maxDepth)

	depth := 0
	prev := start.id

	epsilonBacktrack := func(stateID int, lvl int) {
		target := -1
		if lastWild[lvl] != -1 {
			target = lastWild[lvl]
		} else if failSkel[lvl] != nil {
			target = failSkel[lvl].target(operandCount[lvl])
		}
		if target != -1 {
			a.addEpsilon(stateID, target)
		}
	}
	bumpOperand := func(lvl int) {
		if operandCount[lvl] != -1 {
			operandCount[lvl]++
		}
	}

	for _, tok := range ft {
		switch tok.Kind {
		case AtomSym, AtomSymWild:
			ns := a.newState()
			a.addEdge(prev, labelForAtom(tok), ns.id)
			epsilonBacktrack(ns.id, depth)
			bumpOperand(depth)
			prev = ns.id

		case AtomWild:
			cur := prev
			for i := 0; i < tok.MinCount; i++ {
				ns := a.newState()
				a.addEdge(cur, anyWildLabel, ns.id)
				epsilonBacktrack(ns.id, depth)
				cur = ns.id
			}
			if !tok.FixedSize {
				a.addEdge(cur, anyWildLabel, cur)
				lastWild[depth] = cur
				operandCount[depth] = -1
			} else {
				bumpOperand(depth)
			}
			prev = cur

		case AtomOpBegin:
			ns := a.newState()
			a.addEdge(prev, labelForAtom(tok), ns.id)
			epsilonBacktrack(ns.id, depth)

			depth++
			lastWild = append(lastWild, -1)
			failSkel = append(failSkel, nil)
			operandCount = append(operandCount, 0)

			enclosing := -1
			if lastWild[depth-1] != -1 {
				enclosing = lastWild[depth-1]
			} else if failSkel[depth-1] != nil {
				enclosing = failSkel[depth-1].target(operandCount[depth-1])
			}
			if enclosing != -1 {
				failSkel[depth] = buildFailSkeleton(a, enclosing, tok.MinArity, tok.FixedArity)
			}
			prev = ns.id

		case AtomOpEnd:
			ns := a.newState()
			a.addEdge(prev, labelForAtom(tok), ns.id)

			lastWild = lastWild[:depth]
			failSkel = failSkel[:depth]
			operandCount = operandCount[:depth]
			depth--

			epsilonBacktrack(ns.id, depth)
			bumpOperand(depth)
			prev = ns.id
		}
	}

	a.states[prev].payload = append(a.states[prev].payload, payload)
	return &patternNFA{arena: a, start: start.id}
}
