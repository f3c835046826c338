// Package product builds the product automaton of two DFAs: a new DFA that
// simulates both side by side over a shared subject tape, reporting
// whichever patterns either input accepted. This is C5, the step that folds
// a newly determinized pattern into the net built so far.
//
// The two input automata do not, in general, agree on nesting depth: one
// may still be inside an operation that the other has already closed with a
// wildcard. The work-list below tracks a (state1, state2, depth, fixed)
// quadruple per frontier item to reconcile that mismatch — fixed records
// which side is being held at a wildcard self-loop while the other
// continues walking the nested operation, and depth counts how many
// OperationEnds are owed before the held side can resume. Reorganizing this
// away from the quadruple would be easy to get wrong in a way that only
// shows up on deeply nested operands, so it is kept as close to a literal
// transcription as Go allows.
package product

import (
	"github.com/gitrfl/discrimnet/dfa"
	"github.com/gitrfl/discrimnet/internal/cpufeature"
	"github.com/gitrfl/discrimnet/term"
)

// item is one frontier entry of the product work-list.
type item struct {
	id1, id2 dfa.StateID
	depth    int
	fixed    int // 0 = neither side fixed, 1 = side a fixed, 2 = side b fixed
	payload  []int
}

type key struct {
	id1, id2 dfa.StateID
	depth    int
}

func keyOf(it item) key { return key{id1: it.id1, id2: it.id2, depth: it.depth} }

// Intersect builds the product automaton of a and b: a single DFA that
// simulates both inputs side by side over one subject tape and accepts the
// disjoint union of what each accepts, not their conjunction. A subject that
// only satisfies a keeps a's payload at the state where a alone terminates;
// it is never required to also satisfy b. The result's start state stands
// for the pair of both inputs' start states.
func Intersect(a, b *dfa.DFA) *dfa.DFA {
	out := dfa.New()
	states := map[key]dfa.StateID{}

	// A capacity hint only: on AVX2-capable hardware the work queue starts
	// with a larger capacity so it is regrown less often.
	hint := 64
	if cpufeature.HasAVX2() {
		hint = 256
	}
	queue := make([]item, 0, hint)

	start := item{id1: a.Start, id2: b.Start}
	start.payload = defaultPayload(a, start.id1, b, start.id2)
	states[keyOf(start)] = out.Start
	out.Get(out.Start).AddPayloads(start.payload)
	queue = append(queue, start)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		from := states[keyOf(cur)]

		for _, label := range labelsOf(a, b, cur) {
			t1, withWildcard1 := getNextState(a, cur.id1, label, cur.fixed == 1)
			t2, withWildcard2 := getNextState(b, cur.id2, label, cur.fixed == 2)

			child := item{id1: t1, id2: t2, depth: cur.depth, fixed: cur.fixed}
			child.payload = defaultPayload(a, t1, b, t2)

			switch {
			case isOperation(label):
				switch {
				case cur.fixed != 0:
					child.depth++
				case withWildcard1:
					child.fixed = 1
					child.depth = 1
					child.id1 = cur.id1
					child.payload = concatPayload(payloadOf(b, child.id2), payloadOf(a, cur.id1))
				case withWildcard2:
					child.fixed = 2
					child.depth = 1
					child.id2 = cur.id2
					child.payload = concatPayload(payloadOf(a, child.id1), payloadOf(b, cur.id2))
				}
			case label == term.OperationEnd && cur.fixed != 0:
				child.depth--
				if child.depth == 0 {
					switch child.fixed {
					case 1:
						child.id1 = wildcardSelfTarget(a, child.id1)
						child.payload = concatPayload(child.payload, payloadOf(a, child.id1))
					case 2:
						child.id2 = wildcardSelfTarget(b, child.id2)
						child.payload = concatPayload(child.payload, payloadOf(b, child.id2))
					}
					child.fixed = 0
				}
			}

			ck := keyOf(child)
			to, exists := states[ck]
			if !exists {
				to = out.NewState()
				states[ck] = to
				out.Get(to).AddPayloads(child.payload)
				queue = append(queue, child)
			}
			out.Get(from).Trans[label] = to
		}
	}

	return out
}

// labelsOf returns the transition labels to examine for a frontier item: the
// union of both sides' transition labels, except a fixed side contributes
// none of its own labels and instead contributes a wildcard transition (and,
// if the other side is exhausted, an OperationEnd).
func labelsOf(a, b *dfa.DFA, cur item) []term.Label {
	seen := map[term.Label]bool{}
	var out []term.Label
	add := func(l term.Label) {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}

	if cur.id1 != dfa.Invalid && cur.fixed != 1 {
		for l := range a.Get(cur.id1).Trans {
			add(l)
		}
	}
	if cur.id2 != dfa.Invalid && cur.fixed != 2 {
		for l := range b.Get(cur.id2).Trans {
			add(l)
		}
	}
	if cur.fixed != 0 {
		if cur.fixed == 1 && cur.id2 == dfa.Invalid {
			add(term.OperationEnd)
		} else if cur.fixed == 2 && cur.id1 == dfa.Invalid {
			add(term.OperationEnd)
		}
		add(term.AnyAtom)
	}
	return out
}

// getNextState returns the state reached from id on label, or dfa.Invalid if
// there is none. A fixed side never moves: it returns its own id unchanged,
// regardless of label.
func getNextState(d *dfa.DFA, id dfa.StateID, label term.Label, fixed bool) (dfa.StateID, bool) {
	if fixed {
		return id, false
	}
	if id == dfa.Invalid {
		return dfa.Invalid, false
	}
	next, usedWildcard, ok := d.Next(id, label)
	if !ok {
		return dfa.Invalid, false
	}
	return next, usedWildcard
}

// wildcardSelfTarget follows the literal AnyAtom self-loop out of id,
// installed by the builder whenever a side is frozen in fixed mode.
func wildcardSelfTarget(d *dfa.DFA, id dfa.StateID) dfa.StateID {
	if to, ok := d.Get(id).Trans[term.AnyAtom]; ok {
		return to
	}
	return id
}

func isOperation(label term.Label) bool {
	_, ok := label.(term.OperationHead)
	return ok
}

func payloadOf(d *dfa.DFA, id dfa.StateID) []int {
	if id == dfa.Invalid {
		return nil
	}
	return d.Get(id).Payload
}

func defaultPayload(a *dfa.DFA, id1 dfa.StateID, b *dfa.DFA, id2 dfa.StateID) []int {
	return concatPayload(payloadOf(a, id1), payloadOf(b, id2))
}

// concatPayload always allocates fresh backing storage so callers can
// safely append further without aliasing a DFA state's stored payload.
func concatPayload(parts ...[]int) []int {
	var out []int
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
