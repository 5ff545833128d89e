package dnet

import (
	"sort"
	"strings"

	"github.com/term-index/discrim/expr"
)

// multiset is the minimal bag the core needs over bound expressions:
// equality, copy, comparison against a tuple's element list, and
// deterministic sorted iteration. A general Multiset container is out of
// scope (§3); this is a private map keyed by each element's String().
type multiset map[string]int

func newMultiset(elems []expr.Expr) multiset {
	m := make(multiset, len(elems))
	for _, e := range elems {
		m[e.String()]++
	}
	return m
}

func (m multiset) equalTuple(t []expr.Expr) bool {
	if len(m) == 0 && len(t) == 0 {
		return true
	}
	o := newMultiset(t)
	return m.equal(o)
}

func (m multiset) equal(o multiset) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		if o[k] != v {
			return false
		}
	}
	return true
}

func (m multiset) copy() multiset {
	c := make(multiset, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func (m multiset) sortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k, n := range m {
		for i := 0; i < n; i++ {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// replacement is the value bound to a variable: a single Expr, an ordered
// tuple ([]expr.Expr), or an unordered multiset.
type replacement struct {
	scalar   expr.Expr
	tuple    []expr.Expr
	bag      multiset
	isTuple  bool
	isBag    bool
}

func scalarReplacement(e expr.Expr) replacement { return replacement{scalar: e} }
func tupleReplacement(t []expr.Expr) replacement {
	return replacement{tuple: t, isTuple: true}
}
func bagReplacement(m multiset) replacement { return replacement{bag: m, isBag: true} }

func (r replacement) String() string {
	switch {
	case r.isBag:
		keys := r.bag.sortedKeys()
		return "{" + strings.Join(keys, ", ") + "}"
	case r.isTuple:
		parts := make([]string, len(r.tuple))
		for i, e := range r.tuple {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return r.scalar.String()
	}
}

func (r replacement) equalScalarOrTuple(o replacement) bool {
	if r.isTuple != o.isTuple || r.isBag || o.isBag {
		return false
	}
	if r.isTuple {
		if len(r.tuple) != len(o.tuple) {
			return false
		}
		for i := range r.tuple {
			if !r.tuple[i].Equal(o.tuple[i]) {
				return false
			}
		}
		return true
	}
	return r.scalar.Equal(o.scalar)
}

func (r replacement) asElemList() []expr.Expr {
	if r.isTuple {
		return r.tuple
	}
	if r.scalar != nil {
		return []expr.Expr{r.scalar}
	}
	return nil
}

// Substitution maps variable name to replacement, per §3/§4.2.
type Substitution struct {
	bindings map[string]replacement
}

// NewSubstitution returns an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: map[string]replacement{}}
}

// TryBind implements §4.2's try-bind: store r under v if unbound, or check
// compatibility with the existing value and possibly upgrade it. Returns
// SubstitutionConflictError on incompatibility.
func (s *Substitution) TryBind(v string, r replacement) error {
	existing, ok := s.bindings[v]
	if !ok {
		if r.isBag {
			r.bag = r.bag.copy()
		}
		s.bindings[v] = r
		return nil
	}

	switch {
	case !existing.isBag && !r.isBag:
		if existing.equalScalarOrTuple(r) {
			return nil
		}
	case existing.isTuple && r.isBag:
		if r.bag.equalTuple(existing.tuple) {
			return nil
		}
	case existing.isBag && !r.isBag:
		if existing.bag.equalTuple(r.asElemList()) {
			// r is more specific (ordered or scalar); upgrade.
			s.bindings[v] = r
			return nil
		}
	case existing.isBag && r.isBag:
		if existing.bag.equal(r.bag) {
			return nil
		}
	}
	return SubstitutionConflictError{Variable: v, Existing: existing.String(), New: r.String()}
}

// TryBindExpr binds v to a single expression.
func (s *Substitution) TryBindExpr(v string, e expr.Expr) error {
	return s.TryBind(v, scalarReplacement(e))
}

// TryBindTuple binds v to an ordered tuple of expressions.
func (s *Substitution) TryBindTuple(v string, t []expr.Expr) error {
	return s.TryBind(v, tupleReplacement(t))
}

// Get returns the bound replacement for v, if any.
func (s *Substitution) Get(v string) (expr.Expr, []expr.Expr, bool, bool) {
	r, ok := s.bindings[v]
	if !ok {
		return nil, nil, false, false
	}
	return r.scalar, r.tuple, r.isTuple, ok
}

// Copy returns a deep-enough copy: bag replacements are copied, tuples and
// scalars (immutable in this model) are shared.
func (s *Substitution) Copy() *Substitution {
	out := NewSubstitution()
	for k, v := range s.bindings {
		if v.isBag {
			v.bag = v.bag.copy()
		}
		out.bindings[k] = v
	}
	return out
}

// Rename returns a copy of s with bound variable names replaced according
// to renaming; names absent from renaming are left unchanged. Ported from
// original_source's Substitution.rename.
func (s *Substitution) Rename(renaming map[string]string) *Substitution {
	out := NewSubstitution()
	for k, v := range s.bindings {
		if v.isBag {
			v.bag = v.bag.copy()
		}
		newName, ok := renaming[k]
		if !ok {
			newName = k
		}
		out.bindings[newName] = v
	}
	return out
}

// Union folds o into a copy of s via TryBind, per §4.2; neither input is
// mutated. Returns the first conflict encountered, if any.
func (s *Substitution) Union(o *Substitution) (*Substitution, error) {
	out := s.Copy()
	names := make([]string, 0, len(o.bindings))
	for k := range o.bindings {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := out.TryBind(k, o.bindings[k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Extract recursively descends pattern and subject in lockstep per §4.2.
// It mutates s even when it returns false; callers that need atomic
// semantics should snapshot first via Copy.
func (s *Substitution) Extract(subject expr.Expr, pattern expr.Expr) bool {
	switch p := pattern.(type) {
	case expr.Variable:
		if err := s.TryBindExpr(p.Name, subject); err != nil {
			return false
		}
		return true
	case expr.Operation:
		op, ok := subject.(expr.Operation)
		if !ok || op.Kind != p.Kind || len(op.Operands) != len(p.Operands) {
			return false
		}
		for i := range p.Operands {
			if !s.Extract(op.Operands[i], p.Operands[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the substitution sorted by variable name, per §6
// "Stringification".
func (s *Substitution) String() string {
	names := make([]string, 0, len(s.bindings))
	for k := range s.bindings {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + " ↦ " + s.bindings[n].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
