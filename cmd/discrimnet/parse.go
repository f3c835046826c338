package main

import (
	"fmt"
	"strings"

	"github.com/coregx/ahocorasick"
	"github.com/gitrfl/discrimnet/expr"
)

// commutativeHeads is the fixed alternation of operation names the parser
// treats as commutative. Classifying a parsed head against this set with an
// Aho-Corasick automaton is overkill for a handful of short keywords, but it
// is the same shape as the literal-alternation bypass the teacher's engine
// picks for large keyword sets: one automaton, built once, queried per head
// instead of a loop over the candidate list.
var commutativeHeads = []string{"+", "*", "and", "or", "xor"}

var commutativeAuto *ahocorasick.Automaton

func init() {
	b := ahocorasick.NewBuilder()
	for _, h := range commutativeHeads {
		b.AddPattern([]byte(h))
	}
	auto, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("discrimnet: building commutative-head automaton: %v", err))
	}
	commutativeAuto = auto
}

func isCommutativeHead(name string) bool {
	return commutativeAuto.IsMatch([]byte(name))
}

// opKinds interns *expr.OperationKind by name so that repeated occurrences
// of the same head across patterns and subjects share one pointer, since
// expr.OperationKind identity (not name equality) is what the matcher
// compares.
type opKinds struct {
	byName map[string]*expr.OperationKind
}

func newOpKinds() *opKinds {
	return &opKinds{byName: map[string]*expr.OperationKind{}}
}

func (o *opKinds) get(name string) *expr.OperationKind {
	if k, ok := o.byName[name]; ok {
		return k
	}
	k := &expr.OperationKind{
		Name:          name,
		IsCommutative: isCommutativeHead(name),
		ArityMin:      0,
		ArityFixed:    false,
	}
	o.byName[name] = k
	return k
}

// parser turns a tokenized s-expression line into an expr.Expression.
//
// Grammar:
//
//	expr    := symbol | wildcard | "(" head expr* ")"
//	wildcard := name? ("_" | "__" | "___")
//
// A bare "_" is a single wildcard, "__" is a plus wildcard (one or more
// operands), "___" is a star wildcard (zero or more). A name glued to the
// front of a wildcard marker ("x_", "xs___") wraps it in an expr.Variable.
type parser struct {
	toks []string
	pos  int
	ops  *opKinds
}

func newParser(line string, ops *opKinds) *parser {
	return &parser{toks: tokenize(line), ops: ops}
}

func tokenize(line string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

// ParseExpression parses one line of s-expression syntax into an
// expr.Expression, using ops to intern operation kinds across calls.
func ParseExpression(line string, ops *opKinds) (expr.Expression, error) {
	p := newParser(line, ops)
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("trailing tokens after expression: %v", p.toks[p.pos:])
	}
	return e, nil
}

func (p *parser) parseExpr() (expr.Expression, error) {
	if p.pos >= len(p.toks) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	tok := p.toks[p.pos]
	if tok == "(" {
		return p.parseOperation()
	}
	if tok == ")" {
		return nil, fmt.Errorf("unexpected %q", tok)
	}
	p.pos++
	return atomExpr(tok), nil
}

func (p *parser) parseOperation() (expr.Expression, error) {
	p.pos++ // consume "("
	if p.pos >= len(p.toks) {
		return nil, fmt.Errorf("unterminated operation: missing head")
	}
	head := p.toks[p.pos]
	if head == "(" || head == ")" {
		return nil, fmt.Errorf("operation head must be a symbol, got %q", head)
	}
	p.pos++

	var operands []expr.Expression
	for {
		if p.pos >= len(p.toks) {
			return nil, fmt.Errorf("unterminated operation %q: missing )", head)
		}
		if p.toks[p.pos] == ")" {
			p.pos++
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		operands = append(operands, e)
	}
	return &expr.Operation{Kind: p.ops.get(head), Operands: operands}, nil
}

// atomExpr classifies a bare token as a wildcard (star/plus/single,
// optionally named) or a ground symbol.
func atomExpr(tok string) expr.Expression {
	name, w, ok := splitWildcard(tok)
	if !ok {
		return expr.Symbol{Name: tok}
	}
	if name == "" {
		return w
	}
	return expr.Variable{Name: name, Inner: w}
}

func splitWildcard(tok string) (name string, w expr.Wildcard, ok bool) {
	trimmed := strings.TrimRight(tok, "_")
	underscores := len(tok) - len(trimmed)
	switch underscores {
	case 1:
		return trimmed, expr.Wildcard{Min: 1, Fixed: true}, true
	case 2:
		return trimmed, expr.Wildcard{Min: 1, Fixed: false}, true
	case 3:
		return trimmed, expr.Wildcard{Min: 0, Fixed: false}, true
	default:
		return "", expr.Wildcard{}, false
	}
}
