package dnet

import "github.com/term-index/discrim/expr"

// walk implements component F (§4.6): stream ft left to right against d,
// maintaining depth to skip tokens absorbed by a wildcard crossing an
// operation bracket. In first mode it returns the first non-empty payload
// encountered (short-circuiting); otherwise it returns the final state's
// payload on a completed walk, or the union of payloads observed en route
// if the walk hit a dead transition mid-stream (§9's open question, decided
// and documented in DESIGN.md).
func walk(d *dfa, ft FlatTerm, first bool) ([]interface{}, error) {
	state := d.root
	depth := 0
	var seen []interface{}

	for _, tok := range ft {
		if depth > 0 {
			switch tok.Kind {
			case AtomOpBegin:
				depth++
			case AtomOpEnd:
				depth--
			}
			continue
		}

		if tok.Kind == AtomWild || tok.Kind == AtomSymWild {
			return seen, InvalidInputError{Token: tok}
		}

		ds := d.arena.get(state)
		l := labelForAtom(tok)

		targetID, viaWildcard, ok := stepLabel(ds, tok, l)
		if !ok {
			return seen, nil
		}
		state = targetID
		if viaWildcard && tok.Kind == AtomOpBegin {
			depth = 1
		}

		if payload := d.arena.get(state).payload; len(payload) > 0 {
			if first {
				return payload, nil
			}
			seen = append(seen, payload...)
		}
	}

	if final := d.arena.get(state).payload; len(final) > 0 {
		return final, nil
	}
	return seen, nil
}

// stepLabel applies §4.6's lookup order: exact label, then a matching
// SymWild(K) for a symbol token, then AnyWild.
func stepLabel(ds *dfaState, tok TermAtom, l label) (target int, viaWildcard bool, ok bool) {
	if t, found := ds.trans[l]; found {
		return t, false, true
	}
	if tok.Kind == AtomSym {
		for ql, t := range ds.trans {
			if ql.kind == labelSymWild && expr.IsSubkind(tok.Sym.Kind, ql.opKind) {
				return t, false, true
			}
		}
	}
	if t, found := ds.trans[anyWildLabel]; found {
		return t, true, true
	}
	return 0, false, false
}
