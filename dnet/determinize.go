package dnet

import (
	"sort"
	"strconv"
	"strings"

	"github.com/term-index/discrim/expr"
)

// dfaState is a determinized automaton node: §3 "State", but with a single
// successor per label instead of a set.
type dfaState struct {
	id      int
	trans   map[label]int
	payload []interface{}
}

// dfaArena owns every dfaState produced by one determinization or product
// run, with its own monotonic id counter (§9).
type dfaArena struct {
	states []*dfaState
}

func (a *dfaArena) get(id int) *dfaState { return a.states[id] }

func (a *dfaArena) newState() *dfaState {
	s := &dfaState{id: len(a.states), trans: map[label]int{}}
	a.states = append(a.states, s)
	return s
}

// dfa bundles an arena with its root, the unit the product combiner and the
// matching walk operate on.
type dfa struct {
	arena *dfaArena
	root  int
}

func epsilonClosure(a *nfaArena, seed map[int]bool) map[int]bool {
	result := make(map[int]bool, len(seed))
	stack := make([]int, 0, len(seed))
	for s := range seed {
		result[s] = true
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range a.get(s).eps {
			if !result[e] {
				result[e] = true
				stack = append(stack, e)
			}
		}
	}
	return result
}

// collectAlphabet returns every distinct label appearing among the outgoing
// transitions of the given NFA state set.
func collectAlphabet(a *nfaArena, states map[int]bool) []label {
	seen := map[label]bool{}
	for s := range states {
		for l := range a.get(s).trans {
			seen[l] = true
		}
	}
	out := make([]label, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	return out
}

// gotoSet implements §4.4's goto(S, ℓ): direct transitions on ℓ, plus a
// matching SymWild(K) transition when ℓ is a concrete symbol whose kind is K
// or a subkind, plus any AnyWild transition when ℓ is not an operation
// bracket — then takes the epsilon closure of the result.
func gotoSet(a *nfaArena, states map[int]bool, l label) map[int]bool {
	result := map[int]bool{}
	for s := range states {
		st := a.get(s)
		for _, t := range st.trans[l] {
			result[t] = true
		}
		if l.kind == labelSym {
			for ql, targets := range st.trans {
				if ql.kind == labelSymWild && expr.IsSubkind(l.sym.Kind, ql.opKind) {
					for _, t := range targets {
						result[t] = true
					}
				}
			}
		}
		if l.kind != labelOpBegin && l.kind != labelOpEnd {
			for _, t := range st.trans[anyWildLabel] {
				result[t] = true
			}
		}
	}
	if len(result) == 0 {
		return result
	}
	return epsilonClosure(a, result)
}

func setKey(set map[int]bool) string {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// determinize implements component D (§4.4): subset construction over the
// per-pattern NFA built by buildPatternNFA. DFA states are memoized by their
// NFA member set.
func determinize(nfa *patternNFA) *dfa {
	out := &dfaArena{}
	memo := map[string]int{}

	var build func(set map[int]bool) int
	build = func(set map[int]bool) int {
		key := setKey(set)
		if id, ok := memo[key]; ok {
			return id
		}
		ds := out.newState()
		memo[key] = ds.id

		ids := make([]int, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			ds.payload = append(ds.payload, nfa.arena.get(id).payload...)
		}

		for _, l := range collectAlphabet(nfa.arena, set) {
			tgt := gotoSet(nfa.arena, set, l)
			if len(tgt) == 0 {
				continue
			}
			ds.trans[l] = build(tgt)
		}
		return ds.id
	}

	root := build(epsilonClosure(nfa.arena, map[int]bool{nfa.start: true}))
	return &dfa{arena: out, root: root}
}
