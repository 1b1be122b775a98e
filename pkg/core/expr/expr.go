// Package expr implements the restricted formula language used by calculator
// specifications. A formula is pure arithmetic over named bindings plus an
// allow-listed set of math functions. Nothing else parses: no assignment, no
// declarations, no loops, no external references. The evaluator is fail-closed:
// anything outside the contract comes back as NotComputable, never as a
// panic or an error surfaced to the calculation pass.
package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// =============================================================================
// AST
// =============================================================================

type NodeKind int

const (
	NodeNumber NodeKind = iota
	NodeVariable
	NodeUnary
	NodeBinary
	NodeCall
)

// Node is a single AST node. The parser only ever produces number, variable,
// unary, binary and call nodes, which is what makes the "pure arithmetic"
// contract enforceable rather than assumed.
type Node struct {
	Kind  NodeKind
	Value float64 // NodeNumber
	Name  string  // NodeVariable, NodeCall
	Op    string  // NodeUnary, NodeBinary
	Args  []*Node // operands / call arguments
}

// =============================================================================
// LEXER
// =============================================================================

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case c >= '0' && c <= '9' || c == '.':
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		// Exponent suffix: 1.5e3, 2E-4
		if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
			mark := l.pos
			l.pos++
			if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
				l.pos++
			}
			if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
					l.pos++
				}
			} else {
				l.pos = mark // bare 'e' belongs to an identifier, not this number
			}
		}
		return token{kind: tokNumber, text: l.src[start:l.pos], pos: start}, nil

	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], pos: start}, nil

	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start}, nil

	case strings.ContainsRune("+-*/%^", rune(c)):
		l.pos++
		return token{kind: tokOp, text: string(c), pos: start}, nil

	case c == '<' || c == '>':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
		}
		return token{kind: tokOp, text: l.src[start:l.pos], pos: start}, nil

	case c == '=' || c == '!':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return token{kind: tokOp, text: l.src[start:l.pos], pos: start}, nil
		}
		return token{}, fmt.Errorf("unexpected character %q at position %d", c, start)
	}

	return token{}, fmt.Errorf("unexpected character %q at position %d", c, start)
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }

// IsIdentifier reports whether name is usable as a formula variable.
func IsIdentifier(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return false
		}
	}
	return true
}

// =============================================================================
// PARSER: precedence climbing
// =============================================================================

// Precedence, low to high:
//
//	1  comparison  < <= > >= == !=
//	2  additive    + -
//	3  multiplic.  * / %
//	4  unary       -x
//	5  power       ^ (right-associative)
var binaryPrec = map[string]int{
	"<": 1, "<=": 1, ">": 1, ">=": 1, "==": 1, "!=": 1,
	"+": 2, "-": 2,
	"*": 3, "/": 3, "%": 3,
	"^": 5,
}

type parser struct {
	lex  lexer
	cur  token
	peek bool
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// Parse parses a formula into an AST. It returns an error for anything outside
// the restricted grammar; callers that want the fail-closed numeric contract
// should go through Evaluate instead.
func Parse(src string) (*Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty formula")
	}
	p := &parser{lex: lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at position %d", p.cur.text, p.cur.pos)
	}
	return node, nil
}

func (p *parser) parseExpr(minPrec int) (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.cur.kind == tokOp {
		op := p.cur.text
		prec, ok := binaryPrec[op]
		if !ok || prec < minPrec {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		// Right-associativity for ^ means we recurse at the same level.
		nextMin := prec + 1
		if op == "^" {
			nextMin = prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Op: op, Args: []*Node{left, right}}
	}
	return left, nil
}

func (p *parser) parseUnary() (*Node, error) {
	if p.cur.kind == tokOp && (p.cur.text == "-" || p.cur.text == "+") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			return operand, nil
		}
		return &Node{Kind: NodeUnary, Op: "-", Args: []*Node{operand}}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*Node, error) {
	switch p.cur.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(p.cur.text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %v", p.cur.text, err)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Node{Kind: NodeNumber, Value: v}, nil

	case tokIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokLParen {
			return p.parseCall(name)
		}
		return &Node{Kind: NodeVariable, Name: name}, nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis at position %d", p.cur.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, fmt.Errorf("unexpected %q at position %d", p.cur.text, p.cur.pos)
}

func (p *parser) parseCall(name string) (*Node, error) {
	if _, ok := functions[name]; !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	// consume '('
	if err := p.advance(); err != nil {
		return nil, err
	}

	args := []*Node{}
	if p.cur.kind != tokRParen {
		for {
			arg, err := p.parseExpr(1)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.kind == tokComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if p.cur.kind != tokRParen {
		return nil, fmt.Errorf("missing closing parenthesis in call to %q", name)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	fn := functions[name]
	if len(args) != fn.arity {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", name, fn.arity, len(args))
	}
	return &Node{Kind: NodeCall, Name: name, Args: args}, nil
}
