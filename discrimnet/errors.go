package discrimnet

import (
	"errors"
	"fmt"

	"github.com/gitrfl/discrimnet/term"
)

// Common discrimination net errors.
var (
	// ErrNonTerminalAtom indicates a subject expression flattened to an atom
	// that can never appear as a subject atom (a Wildcard or SymbolCategory),
	// only as a pattern atom.
	ErrNonTerminalAtom = errors.New("discrimnet: subject contains a non-terminal atom")

	// ErrTooManyStates indicates a completed product construction was
	// discarded because it exceeds Config.MaxProductStates.
	ErrTooManyStates = errors.New("discrimnet: product construction exceeded MaxProductStates")
)

// NonTerminalAtomError wraps ErrNonTerminalAtom with the offending atom.
type NonTerminalAtomError struct {
	Atom term.Atom
}

// Error implements the error interface.
func (e *NonTerminalAtomError) Error() string {
	return fmt.Sprintf("discrimnet: subject contains non-terminal atom %v", e.Atom)
}

// Unwrap returns ErrNonTerminalAtom so callers can use errors.Is.
func (e *NonTerminalAtomError) Unwrap() error {
	return ErrNonTerminalAtom
}

// TooManyStatesError wraps ErrTooManyStates with the state counts involved.
type TooManyStatesError struct {
	States int
	Limit  int
}

// Error implements the error interface.
func (e *TooManyStatesError) Error() string {
	return fmt.Sprintf("discrimnet: combined net would have %d states (limit %d)", e.States, e.Limit)
}

// Unwrap returns ErrTooManyStates so callers can use errors.Is.
func (e *TooManyStatesError) Unwrap() error {
	return ErrTooManyStates
}
