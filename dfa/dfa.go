// Package dfa holds the deterministic automaton produced by subset
// construction (package subset) and combined by the product construction
// (package product): a dense state arena whose accepting states are
// annotated with the set of pattern indices accepted there.
package dfa

import "github.com/gitrfl/discrimnet/term"

// StateID identifies a state within one DFA's arena.
type StateID uint32

// Invalid is not a valid StateID in any DFA.
const Invalid StateID = 1<<32 - 1

// State is one DFA state: a label-keyed transition table plus the ordered,
// duplicate-free set of pattern indices accepted here.
type State struct {
	ID      StateID
	Trans   map[term.Label]StateID
	Payload []int
}

// AddPayload appends idx to the state's payload if it is not already
// present, preserving first-seen order.
func (s *State) AddPayload(idx int) {
	for _, p := range s.Payload {
		if p == idx {
			return
		}
	}
	s.Payload = append(s.Payload, idx)
}

// AddPayloads appends each of idxs via AddPayload.
func (s *State) AddPayloads(idxs []int) {
	for _, idx := range idxs {
		s.AddPayload(idx)
	}
}

// DFA is a dense arena of States rooted at Start.
type DFA struct {
	States []*State
	Start  StateID
}

// New returns an empty DFA with a single start state.
func New() *DFA {
	d := &DFA{}
	d.Start = d.NewState()
	return d
}

// NewState appends a fresh, transition-free state and returns its ID.
func (d *DFA) NewState() StateID {
	id := StateID(len(d.States))
	d.States = append(d.States, &State{ID: id, Trans: make(map[term.Label]StateID)})
	return id
}

// Get returns the state with the given ID.
func (d *DFA) Get(id StateID) *State {
	return d.States[id]
}

// Next returns the state id reached from id on label, following the same
// fallback rules used throughout the net: exact label, then SymbolCategory
// for a Symbol label, then AnyAtom — except OperationEnd never falls back
// to AnyAtom. usedWildcard reports whether the AnyAtom fallback was taken.
func (d *DFA) Next(id StateID, label term.Label) (next StateID, usedWildcard, ok bool) {
	s := d.Get(id)
	if to, exists := s.Trans[label]; exists {
		return to, false, true
	}
	if sym, isSymbol := label.(term.Symbol); isSymbol {
		if sc, found := matchingCategoryLabel(s, sym); found {
			return s.Trans[sc], false, true
		}
	}
	if label == term.OperationEnd {
		return Invalid, false, false
	}
	if to, exists := s.Trans[term.AnyAtom]; exists {
		return to, true, true
	}
	return Invalid, false, false
}

func matchingCategoryLabel(s *State, sym term.Symbol) (term.SymbolCategory, bool) {
	for l := range s.Trans {
		if sc, isSC := l.(term.SymbolCategory); isSC && sc.Matches(sym) {
			return sc, true
		}
	}
	return term.SymbolCategory{}, false
}
