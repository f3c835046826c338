// Package discrimnet is the top-level API package of the discrimination net
// (import path github.com/gitrfl/discrimnet/discrimnet): it
// drives incremental pattern insertion (nfabuild -> subset -> product) and
// subject matching against the resulting DFA.
package discrimnet

import (
	"fmt"
	"io"
	"iter"

	"github.com/gitrfl/discrimnet/dfa"
	"github.com/gitrfl/discrimnet/expr"
	"github.com/gitrfl/discrimnet/flatterm"
	"github.com/gitrfl/discrimnet/internal/automaton/nfabuild"
	"github.com/gitrfl/discrimnet/internal/automaton/subset"
	"github.com/gitrfl/discrimnet/internal/automaton/product"
	"github.com/gitrfl/discrimnet/subst"
	"github.com/gitrfl/discrimnet/term"
)

// patternEntry is what Net remembers about a registered pattern beyond its
// DFA contribution: enough to extract a substitution and resolve the
// caller's label at match time.
type patternEntry struct {
	pattern    expr.Expression // nil when registered via AddFlatTerm
	label      any
	constraint subst.Constraint
}

// Net is a discrimination net: an incrementally built DFA over FlatTerm
// tapes, annotated with the set of pattern indices accepted at each state.
type Net struct {
	cfg      Config
	root     *dfa.DFA
	patterns []patternEntry
}

// New returns an empty Net with default configuration.
func New() *Net {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig returns an empty Net using cfg.
func NewWithConfig(cfg Config) *Net {
	return &Net{cfg: cfg}
}

// Add registers pattern under label, returning its dense pattern index. The
// first pattern installs its DFA as the net's root; every later pattern is
// folded in via the product construction.
func (n *Net) Add(pattern expr.Expression, label any) (int, error) {
	return n.add(flatterm.FromExpr(pattern), patternEntry{pattern: pattern, label: label}, true)
}

// AddConstrained is Add plus a set of constraints evaluated against the
// extracted substitution before a match is yielded. A nil or empty
// constraint list behaves exactly like Add.
func (n *Net) AddConstrained(pattern expr.Expression, label any, constraints ...subst.Constraint) (int, error) {
	entry := patternEntry{pattern: pattern, label: label, constraint: subst.MultiConstraint(constraints...)}
	return n.add(flatterm.FromExpr(pattern), entry, true)
}

// AddFlatTerm registers an already-flattened tape directly, bypassing
// expression-tree flattening. No substitution can be extracted for a
// pattern registered this way, since there is no retained expr.Expression to
// walk: Match yields label paired with an empty Substitution for it. Unlike
// Add, this never fails: a caller needing the MaxProductStates guard should
// register through Add instead.
func (n *Net) AddFlatTerm(ft flatterm.FlatTerm, label any) int {
	idx, _ := n.add(ft, patternEntry{label: label}, false)
	return idx
}

func (n *Net) add(ft flatterm.FlatTerm, entry patternEntry, enforceLimit bool) (int, error) {
	idx := len(n.patterns)
	frag := nfabuild.Build(ft, idx)
	newDFA := subset.Determinize(frag)

	if n.root == nil {
		n.root = newDFA
		n.patterns = append(n.patterns, entry)
		return idx, nil
	}

	combined := product.Intersect(n.root, newDFA)
	if enforceLimit && n.cfg.MaxProductStates > 0 && len(combined.States) > n.cfg.MaxProductStates {
		return 0, &TooManyStatesError{States: len(combined.States), Limit: n.cfg.MaxProductStates}
	}
	n.root = combined
	n.patterns = append(n.patterns, entry)
	return idx, nil
}

// Match runs subject's FlatTerm through the net and yields (label,
// substitution) for every pattern that accepts, in registration order
// within a single accepting state. Constraint failures and substitution
// conflicts silently skip that candidate rather than surfacing as errors.
func (n *Net) Match(subject expr.Expression) iter.Seq2[any, subst.Substitution] {
	return func(yield func(any, subst.Substitution) bool) {
		if n.root == nil {
			return
		}
		indices, err := n.matchIndices(flatterm.FromExpr(subject).Atoms(), false)
		if err != nil {
			return
		}
		for _, idx := range indices {
			entry := n.patterns[idx]

			s := subst.New()
			if entry.pattern != nil {
				if !s.ExtractSubstitution(subject, entry.pattern) {
					continue
				}
			}
			if entry.constraint != nil && !entry.constraint(s) {
				continue
			}
			if !yield(entry.label, s) {
				return
			}
		}
	}
}

// Label returns the user label attached to the pattern at idx, as given to
// Add, AddConstrained, or AddFlatTerm. It exists for collaborators (the
// sequence matcher) that drive an inner Net directly through
// MatchFlatTermFirst and need to resolve a returned index back to whatever
// they stored it under.
func (n *Net) Label(idx int) any {
	return n.patterns[idx].label
}

// MatchFlatTermFirst runs atoms through the net in first-hit mode: it
// returns as soon as any state with a non-empty payload is reached. This is
// the primitive the sequence matcher's inner net is driven with; Net.Match
// never uses it.
func (n *Net) MatchFlatTermFirst(ft flatterm.FlatTerm) ([]int, error) {
	if n.root == nil {
		return nil, nil
	}
	return n.matchIndices(ft.Atoms(), true)
}

// matchIndices is the core driver described by the matcher driver: it walks
// atoms against n.root, folding in skip-subtree mode whenever an
// OperationHead falls back to AnyAtom, and returns the accepted pattern
// indices per n.cfg.CollectMode (ignored when firstHit is set, since
// first-hit mode always stops at the first non-empty state regardless of
// mode).
func (n *Net) matchIndices(atoms []term.Atom, firstHit bool) ([]int, error) {
	cur := n.root.Get(n.root.Start)
	result := append([]int(nil), cur.Payload...)
	skipDepth := 0

	for _, a := range atoms {
		if skipDepth > 0 {
			switch {
			case isOperationHead(a):
				skipDepth++
			case a == term.OperationEnd:
				skipDepth--
			}
			continue
		}

		if firstHit && len(cur.Payload) > 0 {
			return append([]int(nil), cur.Payload...), nil
		}

		if !isTerminalSubjectAtom(a) {
			return nil, &NonTerminalAtomError{Atom: a}
		}

		next, usedWildcard, ok := n.root.Next(cur.ID, a)
		if !ok {
			if a == term.OperationEnd {
				// Regardless of mode, a miss on OperationEnd discards
				// whatever was collected so far: the subject closed a
				// compound no pattern in the net expects at this depth.
				return nil, nil
			}
			if n.cfg.CollectMode {
				return result, nil
			}
			return nil, nil
		}

		if usedWildcard && isOperationHead(a) {
			skipDepth = 1
		}
		cur = n.root.Get(next)
		if n.cfg.CollectMode {
			result = append(result, cur.Payload...)
		}
	}

	if n.cfg.CollectMode {
		return result, nil
	}
	return append([]int(nil), cur.Payload...), nil
}

func isOperationHead(a term.Atom) bool {
	_, ok := a.(term.OperationHead)
	return ok
}

// isTerminalSubjectAtom reports whether a may legally appear on a subject's
// tape: a ground Symbol, an OperationHead, or OperationEnd. A Wildcard or
// SymbolCategory on a subject tape means the caller flattened a pattern,
// not a constant expression.
func isTerminalSubjectAtom(a term.Atom) bool {
	switch a.(type) {
	case term.Symbol, term.OperationHead:
		return true
	}
	return a == term.OperationEnd
}

// Stats summarizes a Net's current size.
type Stats struct {
	// States is the number of DFA states in the net's root automaton.
	States int
	// Patterns is the number of patterns registered so far.
	Patterns int
}

// Stats reports the net's current size.
func (n *Net) Stats() Stats {
	states := 0
	if n.root != nil {
		states = len(n.root.States)
	}
	return Stats{States: states, Patterns: len(n.patterns)}
}

// DOT writes a Graphviz dot rendering of the net's DFA to w, for
// inspection and debugging. Edge labels use each transition label's Go
// %v formatting; accepting states are annotated with their payload.
func (n *Net) DOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph discrimnet {"); err != nil {
		return err
	}
	defer fmt.Fprintln(w, "}")

	if n.root == nil {
		return nil
	}
	for _, s := range n.root.States {
		shape := "circle"
		if len(s.Payload) > 0 {
			shape = "doublecircle"
		}
		if _, err := fmt.Fprintf(w, "  %d [shape=%s,label=\"%d %v\"];\n", s.ID, shape, s.ID, s.Payload); err != nil {
			return err
		}
	}
	for _, s := range n.root.States {
		for label, to := range s.Trans {
			if _, err := fmt.Fprintf(w, "  %d -> %d [label=%q];\n", s.ID, to, fmt.Sprintf("%v", label)); err != nil {
				return err
			}
		}
	}
	return nil
}
