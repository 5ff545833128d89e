package dnet

import (
	"fmt"
	"io"

	"github.com/term-index/discrim/expr"
)

// Net is a whole-term discrimination net: the §6 external interface wrapping
// components A, C, D and E. A Net's root DFA is replaced wholesale on every
// Add; the previous root becomes unreachable and reclaimable per §5.
type Net struct {
	current *dfa // nil until the first pattern is added
}

// NewNet returns an empty discrimination net.
func NewNet() *Net {
	return &Net{}
}

// Add incorporates pattern into the net under payload. If payload is nil,
// the pattern itself is used as the payload, per §6 ("default payload is
// the pattern itself").
func (n *Net) Add(pattern expr.Expr, payload interface{}) error {
	if payload == nil {
		payload = pattern
	}
	ft, err := Encode(pattern)
	if err != nil {
		return err
	}
	nfa := buildPatternNFA(ft, payload)
	d := determinize(nfa)
	if n.current == nil {
		n.current = d
		return nil
	}
	n.current = productDFA(n.current, d)
	return nil
}

// Match streams expr's flat-term through the net per §4.6/§6. When first is
// true the walk short-circuits on the first non-empty payload; otherwise it
// collects per the rules documented on walk.
func (n *Net) Match(subject expr.Expr, first bool) ([]interface{}, error) {
	if n.current == nil {
		return nil, nil
	}
	ft, err := Encode(subject)
	if err != nil {
		return nil, err
	}
	return walk(n.current, ft, first)
}

// Dump writes the net's current DFA as a flat text graph (§6's "rendering
// contract"): one line per state with its payload, one indented line per
// outgoing transition. This is a diagnostic aid, not part of match
// semantics.
func (n *Net) Dump(w io.Writer) {
	if n.current == nil {
		fmt.Fprintln(w, "(empty net)")
		return
	}
	for _, s := range n.current.arena.states {
		fmt.Fprintf(w, "state %d %v\n", s.id, s.payload)
		for l, t := range s.trans {
			fmt.Fprintf(w, "  %s -> %d\n", l.String(), t)
		}
	}
}
