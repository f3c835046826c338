// Package nfabuild builds a per-pattern NFA fragment from a FlatTerm: a
// dense state arena with epsilon transitions and wildcard self-loops, plus
// the fail-ladder backtracking scaffold for general (non-syntactic)
// patterns. See package subset for the NFA-to-DFA determinization step that
// consumes a Fragment.
package nfabuild

import (
	"github.com/gitrfl/discrimnet/flatterm"
	"github.com/gitrfl/discrimnet/term"
)

// StateID identifies a state within a single Fragment's arena.
type StateID uint32

// State is one NFA state: a label-keyed transition table plus the ordered
// set of pattern indices accepted here (non-empty only on the final state
// built by Build).
type State struct {
	ID      StateID
	Trans   map[term.Label]StateID
	Payload []int
}

// Fragment is the state arena for one pattern's NFA, rooted at Root.
type Fragment struct {
	States []*State
	Root   StateID
}

func (f *Fragment) newState() StateID {
	id := StateID(len(f.States))
	f.States = append(f.States, &State{ID: id, Trans: make(map[term.Label]StateID)})
	return id
}

// Get returns the state with the given ID.
func (f *Fragment) Get(id StateID) *State {
	return f.States[id]
}

// Build constructs the NFA fragment for one pattern's FlatTerm. Syntactic
// (or length-1) terms get the trivial linear-chain construction; everything
// else gets the general fail-ladder construction.
func Build(ft flatterm.FlatTerm, patternIndex int) *Fragment {
	if ft.IsSyntactic() || ft.Len() <= 1 {
		return buildSyntactic(ft, patternIndex)
	}
	return buildGeneral(ft, patternIndex)
}

// buildSyntactic builds a straight chain: one state per atom, with a
// Wildcard of min-count k becoming a chain of k AnyAtom edges. No self-loop,
// no epsilon, no backtracking — syntactic terms never need it.
func buildSyntactic(ft flatterm.FlatTerm, patternIndex int) *Fragment {
	f := &Fragment{}
	root := f.newState()
	cur := root

	for _, a := range ft.Atoms() {
		if w, ok := a.(term.Wildcard); ok {
			for i := 0; i < w.Min; i++ {
				next := f.newState()
				f.Get(cur).Trans[term.AnyAtom] = next
				cur = next
			}
			continue
		}
		next := f.newState()
		f.Get(cur).Trans[a] = next
		cur = next
	}

	f.Get(cur).Payload = []int{patternIndex}
	f.Root = root
	return f
}

const (
	failNone int = iota
	failSingle
	failLadder
)

// failEntry is the backtrack target installed at one nesting depth: either
// absent, a single self-absorbing wildcard state (variadic heads), or a
// ladder of states indexed by operand position (fixed-arity heads).
type failEntry struct {
	kind   int
	single StateID
	ladder []StateID
}

func (fe failEntry) isNone() bool { return fe.kind == failNone }

// resolve picks the ladder rung for the current operand count, or the
// single fail state regardless of count.
func (fe failEntry) resolve(operandCount int) StateID {
	if fe.kind == failLadder {
		idx := operandCount
		if idx < 0 || idx >= len(fe.ladder) {
			idx = len(fe.ladder) - 1
		}
		return fe.ladder[idx]
	}
	return fe.single
}

type wildcardEntry struct {
	has bool
	id  StateID
}

// buildGeneral walks the tape maintaining three per-depth stacks —
// lastWildcards, failStates, operandCounts — exactly mirroring the Python
// original's `_generate_net`. Getting the fail-ladder indexing wrong here
// silently yields wrong backtracking only on fixed-arity heads with
// trailing wildcards, so this is reproduced one-for-one rather than
// reorganized.
func buildGeneral(ft flatterm.FlatTerm, patternIndex int) *Fragment {
	f := &Fragment{}
	root := f.newState()
	state := root

	lastWildcards := []wildcardEntry{{}}
	failStates := []failEntry{{kind: failNone}}
	operandCounts := []int{0}

	top := func() int { return len(operandCounts) - 1 }

	for _, a := range ft.Atoms() {
		t := top()
		if operandCounts[t] >= 0 {
			operandCounts[t]++
		}

		if w, ok := a.(term.Wildcard); ok {
			for i := 0; i < w.Min; i++ {
				next := f.newState()
				f.Get(state).Trans[term.AnyAtom] = next
				state = next
			}
			if !w.Fixed {
				f.Get(state).Trans[term.AnyAtom] = state
				lastWildcards[t] = wildcardEntry{has: true, id: state}
				operandCounts[t] = -1
			}
		} else {
			next := f.newState()
			f.Get(state).Trans[a] = next
			state = next

			if oh, isOp := a.(term.OperationHead); isOp {
				var nf failEntry
				if lastWildcards[t].has || !failStates[t].isNone() {
					lastFailState := resolveFailOrWildcard(lastWildcards[t], failStates[t], operandCounts[t])
					arity := oh.H.Arity()
					if arity.Fixed {
						ladder := make([]StateID, arity.Min+1)
						ladder[0] = f.newState()
						for i := 1; i <= arity.Min; i++ {
							ladder[i] = f.newState()
							f.Get(ladder[i-1]).Trans[term.AnyAtom] = ladder[i]
						}
						f.Get(ladder[len(ladder)-1]).Trans[term.OperationEnd] = lastFailState
						nf = failEntry{kind: failLadder, ladder: ladder}
					} else {
						fs := f.newState()
						f.Get(fs).Trans[term.OperationEnd] = lastFailState
						f.Get(fs).Trans[term.AnyAtom] = fs
						nf = failEntry{kind: failSingle, single: fs}
					}
				} else {
					nf = failEntry{kind: failNone}
				}
				failStates = append(failStates, nf)
				lastWildcards = append(lastWildcards, wildcardEntry{})
				operandCounts = append(operandCounts, 0)
			} else if a == term.OperationEnd {
				failStates = failStates[:len(failStates)-1]
				lastWildcards = lastWildcards[:len(lastWildcards)-1]
				operandCounts = operandCounts[:len(operandCounts)-1]
			}
		}

		t = top()
		if !(lastWildcards[t].has && lastWildcards[t].id == state) {
			if lastWildcards[t].has {
				f.Get(state).Trans[term.Epsilon] = lastWildcards[t].id
			} else if !failStates[t].isNone() {
				f.Get(state).Trans[term.Epsilon] = failStates[t].resolve(operandCounts[t])
			}
		}
	}

	f.Get(state).Payload = []int{patternIndex}
	f.Root = root
	return f
}

// resolveFailOrWildcard mirrors the Python expression
// `last_wildcards[-1] or last_fail_state`: prefer the active wildcard at the
// parent depth, falling back to the parent's fail-ladder rung.
func resolveFailOrWildcard(wc wildcardEntry, fe failEntry, operandCount int) StateID {
	if wc.has {
		return wc.id
	}
	return fe.resolve(operandCount)
}
