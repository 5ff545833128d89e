package dnet

import "github.com/term-index/discrim/expr"

// pairKey identifies one state of the product automaton, §4.5's
// "depth-tracked pair state (s1, s2, depth, fixed)". -1 for s1 or s2 means
// that side has no live state (its branch of the union died earlier).
type pairKey struct {
	s1, s2, depth, fixed int
}

const (
	fixedNone = 0
	fixed1    = 1 // side 1 is pinned on its wildcard edge
	fixed2    = 2 // side 2 is pinned on its wildcard edge
)

// next implements the "t_i = next(s_i, ℓ)" rule used throughout §4.5: exact
// label first, then a matching SymWild(K), then AnyWild. The bool result
// reports whether the match was via AnyWild (a "with_wildcard" step).
func next(a *dfaArena, stateID int, l label) (int, bool) {
	if stateID == -1 {
		return -1, false
	}
	st := a.get(stateID)
	if t, ok := st.trans[l]; ok {
		return t, false
	}
	if l.kind == labelSym {
		for ql, t := range st.trans {
			if ql.kind == labelSymWild && expr.IsSubkind(l.sym.Kind, ql.opKind) {
				return t, false
			}
		}
	}
	if t, ok := st.trans[anyWildLabel]; ok {
		return t, true
	}
	return -1, false
}

// productDFA builds a new DFA recognizing the union of d1 and d2's pattern
// languages, per component E (§4.5).
func productDFA(d1, d2 *dfa) *dfa {
	out := &dfaArena{}
	memo := map[pairKey]int{}

	var build func(k pairKey) int
	build = func(k pairKey) int {
		if id, ok := memo[k]; ok {
			return id
		}
		ds := out.newState()
		memo[k] = ds.id

		if k.s1 != -1 {
			ds.payload = append(ds.payload, d1.arena.get(k.s1).payload...)
		}
		if k.s2 != -1 {
			ds.payload = append(ds.payload, d2.arena.get(k.s2).payload...)
		}

		for _, l := range labelsToExamine(d1, d2, k) {
			nk, ok := transitionPair(d1, d2, k, l)
			if !ok {
				continue
			}
			ds.trans[l] = build(nk)
		}
		return ds.id
	}

	root := build(pairKey{d1.root, d2.root, 0, fixedNone})
	return &dfa{arena: out, root: root}
}

func labelsToExamine(d1, d2 *dfa, k pairKey) []label {
	seen := map[label]bool{}
	switch k.fixed {
	case fixedNone:
		if k.s1 != -1 {
			for l := range d1.arena.get(k.s1).trans {
				seen[l] = true
			}
		}
		if k.s2 != -1 {
			for l := range d2.arena.get(k.s2).trans {
				seen[l] = true
			}
		}
	case fixed1:
		if k.s2 != -1 {
			for l := range d2.arena.get(k.s2).trans {
				seen[l] = true
			}
		}
		seen[anyWildLabel] = true
		seen[label{kind: labelOpEnd}] = true
	case fixed2:
		if k.s1 != -1 {
			for l := range d1.arena.get(k.s1).trans {
				seen[l] = true
			}
		}
		seen[anyWildLabel] = true
		seen[label{kind: labelOpEnd}] = true
	}
	out := make([]label, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	return out
}

func transitionPair(d1, d2 *dfa, k pairKey, l label) (pairKey, bool) {
	if k.fixed == fixedNone {
		return transitionUnfixed(d1, d2, k, l)
	}
	return transitionFixed(d1, d2, k, l)
}

func transitionUnfixed(d1, d2 *dfa, k pairKey, l label) (pairKey, bool) {
	t1, wc1 := next(d1.arena, k.s1, l)
	t2, wc2 := next(d2.arena, k.s2, l)
	if t1 == -1 && t2 == -1 {
		return pairKey{}, false
	}
	if l.kind != labelOpBegin {
		return pairKey{t1, t2, 0, fixedNone}, true
	}
	switch {
	case t1 != -1 && !wc1 && t2 != -1 && !wc2:
		return pairKey{t1, t2, 0, fixedNone}, true
	case t1 != -1 && !wc1 && t2 != -1 && wc2:
		// side 2 only matched via its wildcard arc: pin side 2, let side 1
		// (the real bracket reader) advance.
		return pairKey{t1, k.s2, 1, fixed2}, true
	case t2 != -1 && !wc2 && t1 != -1 && wc1:
		return pairKey{k.s1, t2, 1, fixed1}, true
	case t1 != -1 && !wc1:
		return pairKey{t1, -1, 0, fixedNone}, true
	case t2 != -1 && !wc2:
		return pairKey{-1, t2, 0, fixedNone}, true
	default:
		return pairKey{t1, t2, 0, fixedNone}, true
	}
}

func transitionFixed(d1, d2 *dfa, k pairKey, l label) (pairKey, bool) {
	pinnedIsSide1 := k.fixed == fixed1
	var activeArena, pinnedArena *dfaArena
	var activeID, pinnedID int
	if pinnedIsSide1 {
		pinnedArena, pinnedID = d1.arena, k.s1
		activeArena, activeID = d2.arena, k.s2
	} else {
		pinnedArena, pinnedID = d2.arena, k.s2
		activeArena, activeID = d1.arena, k.s1
	}

	switch l.kind {
	case labelOpBegin:
		tActive, _ := next(activeArena, activeID, l)
		if tActive == -1 && pinnedID == -1 {
			return pairKey{}, false
		}
		return pack(pinnedIsSide1, pinnedID, tActive, k.depth+1, k.fixed), true

	case labelOpEnd:
		tActive, _ := next(activeArena, activeID, l)
		newDepth := k.depth - 1
		if newDepth > 0 {
			if tActive == -1 && pinnedID == -1 {
				return pairKey{}, false
			}
			return pack(pinnedIsSide1, pinnedID, tActive, newDepth, k.fixed), true
		}
		unpinned := -1
		if pinnedID != -1 {
			if t, ok := pinnedArena.get(pinnedID).trans[anyWildLabel]; ok {
				unpinned = t
			}
		}
		if tActive == -1 && unpinned == -1 {
			return pairKey{}, false
		}
		if pinnedIsSide1 {
			return pairKey{unpinned, tActive, 0, fixedNone}, true
		}
		return pairKey{tActive, unpinned, 0, fixedNone}, true

	default:
		tActive, _ := next(activeArena, activeID, l)
		if tActive == -1 && pinnedID == -1 {
			return pairKey{}, false
		}
		return pack(pinnedIsSide1, pinnedID, tActive, k.depth, k.fixed), true
	}
}

func pack(pinnedIsSide1 bool, pinnedID, activeID, depth, fixed int) pairKey {
	if pinnedIsSide1 {
		return pairKey{pinnedID, activeID, depth, fixed}
	}
	return pairKey{activeID, pinnedID, depth, fixed}
}
