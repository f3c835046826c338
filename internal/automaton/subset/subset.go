// Package subset implements subset construction with epsilon-closure: it
// turns the per-pattern NFA fragment built by package nfabuild into a
// deterministic automaton (package dfa). This is C4 of the discrimination
// net: NFA -> DFA.
package subset

import (
	"encoding/binary"

	"github.com/gitrfl/discrimnet/dfa"
	"github.com/gitrfl/discrimnet/internal/automaton/nfabuild"
	"github.com/gitrfl/discrimnet/internal/conv"
	"github.com/gitrfl/discrimnet/internal/sparse"
	"github.com/gitrfl/discrimnet/term"
)

// Determinize runs subset construction over frag and returns the resulting
// DFA. The DFA's payload at any state is the union of payloads of its NFA
// constituents.
func Determinize(frag *nfabuild.Fragment) *dfa.DFA {
	d := dfa.New()

	start := closure(frag, []nfabuild.StateID{frag.Root})
	seen := map[string]dfa.StateID{}
	startKey := key(start)
	seen[startKey] = d.Start
	applyPayload(d, d.Start, frag, start)

	type queued struct {
		ids []nfabuild.StateID
		key string
	}
	queue := []queued{{ids: start, key: startKey}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		from := seen[cur.key]

		for _, label := range collectLabels(frag, cur.ids) {
			if label == term.Epsilon {
				continue
			}
			targets := targetsFor(frag, cur.ids, label)
			if len(targets) == 0 {
				continue
			}
			tkey := key(targets)
			to, exists := seen[tkey]
			if !exists {
				to = d.NewState()
				seen[tkey] = to
				applyPayload(d, to, frag, targets)
				queue = append(queue, queued{ids: targets, key: tkey})
			}
			d.Get(from).Trans[label] = to
		}
	}

	return d
}

// closure computes the epsilon-closure of a set of NFA states, returned as
// a sorted, duplicate-free slice.
func closure(frag *nfabuild.Fragment, start []nfabuild.StateID) []nfabuild.StateID {
	set := sparse.NewSparseSet(conv.IntToUint32(len(frag.States)))
	var stack []nfabuild.StateID

	push := func(s nfabuild.StateID) {
		if !set.Contains(uint32(s)) {
			set.Insert(uint32(s))
			stack = append(stack, s)
		}
	}
	for _, s := range start {
		push(s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if to, ok := frag.Get(s).Trans[term.Epsilon]; ok {
			push(to)
		}
	}

	vals := set.Values()
	out := make([]nfabuild.StateID, len(vals))
	for i, v := range vals {
		out[i] = nfabuild.StateID(v)
	}
	insertionSort(out)
	return out
}

func insertionSort(ids []nfabuild.StateID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// key freezes a sorted state-id set into a comparable map key.
func key(ids []nfabuild.StateID) string {
	buf := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
	}
	return string(buf)
}

// collectLabels returns the union of outgoing transition labels (excluding
// Epsilon) across the given NFA states.
func collectLabels(frag *nfabuild.Fragment, ids []nfabuild.StateID) []term.Label {
	seen := map[term.Label]bool{}
	var out []term.Label
	for _, id := range ids {
		for label := range frag.Get(id).Trans {
			if label == term.Epsilon || seen[label] {
				continue
			}
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}

// isOperationOrEnd reports whether label is an OperationHead or the
// OperationEnd sentinel — the two labels that never fall back to AnyAtom.
func isOperationOrEnd(label term.Label) bool {
	if _, ok := label.(term.OperationHead); ok {
		return true
	}
	return label == term.OperationEnd
}

// targetsFor computes the epsilon-closed target set reached from ids on
// label, per the subset-construction rule: exact successors, plus
// SymbolCategory successors for a Symbol label, plus AnyAtom successors
// when label is not an OperationHead/OperationEnd.
func targetsFor(frag *nfabuild.Fragment, ids []nfabuild.StateID, label term.Label) []nfabuild.StateID {
	var raw []nfabuild.StateID
	sym, labelIsSymbol := label.(term.Symbol)

	for _, id := range ids {
		st := frag.Get(id)
		if to, ok := st.Trans[label]; ok {
			raw = append(raw, to)
		}
		if labelIsSymbol {
			for l, to := range st.Trans {
				if sc, isSC := l.(term.SymbolCategory); isSC && sc.Matches(sym) {
					raw = append(raw, to)
				}
			}
		}
		if !isOperationOrEnd(label) {
			if to, ok := st.Trans[term.AnyAtom]; ok {
				raw = append(raw, to)
			}
		}
	}
	if len(raw) == 0 {
		return nil
	}
	return closure(frag, raw)
}

func applyPayload(d *dfa.DFA, to dfa.StateID, frag *nfabuild.Fragment, ids []nfabuild.StateID) {
	for _, id := range ids {
		d.Get(to).AddPayloads(frag.Get(id).Payload)
	}
}
