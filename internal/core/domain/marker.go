package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Marker is a boolean predicate over environment attributes that gates
// whether a requirement applies. The zero value always evaluates true.
//
// Supported grammar (a practical subset of the usual environment-marker
// syntax):
//
//	expr    := and ('or' and)*
//	and     := primary ('and' primary)*
//	primary := '(' expr ')' | ident op value | value op ident
//	op      := '==' | '!=' | '<' | '<=' | '>' | '>=' | 'in' | 'not in'
type Marker struct {
	node markerNode
	raw  string
}

// ParseMarker parses a marker expression. An empty string yields the
// always-true marker.
func ParseMarker(s string) (Marker, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Marker{}, nil
	}
	p := &markerParser{toks: tokenizeMarker(raw)}
	node, err := p.parseOr()
	if err != nil {
		return Marker{}, zerr.With(err, "marker", raw)
	}
	if !p.done() {
		return Marker{}, zerr.With(zerr.Wrap(ErrParse, "trailing marker tokens"), "marker", raw)
	}
	return Marker{node: node, raw: raw}, nil
}

// IsAlways reports whether the marker is the unconditional true marker.
func (m Marker) IsAlways() bool {
	return m.node == nil
}

// Eval evaluates the marker against an environment snapshot. Evaluation is
// pure: the same snapshot always yields the same answer.
func (m Marker) Eval(env Environment) bool {
	if m.node == nil {
		return true
	}
	return m.node.eval(env)
}

// String returns the original marker text, or "" for the always-true marker.
func (m Marker) String() string {
	return m.raw
}

type markerNode interface {
	eval(env Environment) bool
}

type markerOr struct{ left, right markerNode }

func (n markerOr) eval(env Environment) bool { return n.left.eval(env) || n.right.eval(env) }

type markerAnd struct{ left, right markerNode }

func (n markerAnd) eval(env Environment) bool { return n.left.eval(env) && n.right.eval(env) }

type markerCmp struct {
	lhs markerOperand
	op  string
	rhs markerOperand
}

type markerOperand struct {
	ident string // environment attribute name, or "" for a literal
	lit   string
}

func (o markerOperand) value(env Environment) string {
	if o.ident == "" {
		return o.lit
	}
	return env.Attr(o.ident)
}

func (n markerCmp) eval(env Environment) bool {
	// The "extra" variable matches against the set of active extras
	// rather than a single attribute value.
	if n.lhs.ident == "extra" && n.op == "==" {
		return env.HasExtra(n.rhs.value(env))
	}
	if n.rhs.ident == "extra" && n.op == "==" {
		return env.HasExtra(n.lhs.value(env))
	}

	l, r := n.lhs.value(env), n.rhs.value(env)
	switch n.op {
	case "in":
		return strings.Contains(r, l)
	case "not in":
		return !strings.Contains(r, l)
	}

	// Version-aware comparison when both sides parse as versions, which
	// makes python_version '3.9' sort below '3.10'. String comparison
	// otherwise.
	var cmp int
	lv, lerr := ParseVersion(l)
	rv, rerr := ParseVersion(r)
	if lerr == nil && rerr == nil {
		cmp = lv.Compare(rv)
	} else {
		cmp = strings.Compare(l, r)
	}

	switch n.op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return false
	}
}

// --- tokenizer / parser ---

type markerToken struct {
	kind string // "ident", "str", "op", "lparen", "rparen"
	text string
}

func tokenizeMarker(s string) []markerToken {
	var toks []markerToken
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, markerToken{kind: "lparen"})
			i++
		case c == ')':
			toks = append(toks, markerToken{kind: "rparen"})
			i++
		case c == '\'' || c == '"':
			j := i + 1
			for j < len(s) && s[j] != c {
				j++
			}
			if j >= len(s) {
				// Unterminated string: emit what we have, the
				// parser rejects it.
				toks = append(toks, markerToken{kind: "op", text: "?"})
				return toks
			}
			toks = append(toks, markerToken{kind: "str", text: s[i+1 : j]})
			i = j + 1
		case strings.ContainsRune("=!<>", rune(c)):
			j := i + 1
			if j < len(s) && s[j] == '=' {
				j++
			}
			toks = append(toks, markerToken{kind: "op", text: s[i:j]})
			i = j
		default:
			j := i
			for j < len(s) && (isIdentByte(s[j])) {
				j++
			}
			if j == i {
				toks = append(toks, markerToken{kind: "op", text: string(c)})
				i++
				continue
			}
			toks = append(toks, markerToken{kind: "ident", text: s[i:j]})
			i = j
		}
	}
	return toks
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

type markerParser struct {
	toks []markerToken
	pos  int
}

func (p *markerParser) done() bool { return p.pos >= len(p.toks) }

func (p *markerParser) peek() (markerToken, bool) {
	if p.done() {
		return markerToken{}, false
	}
	return p.toks[p.pos], true
}

func (p *markerParser) parseOr() (markerNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != "ident" || tok.text != "or" {
			return left, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = markerOr{left: left, right: right}
	}
}

func (p *markerParser) parseAnd() (markerNode, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != "ident" || tok.text != "and" {
			return left, nil
		}
		p.pos++
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = markerAnd{left: left, right: right}
	}
}

func (p *markerParser) parsePrimary() (markerNode, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, zerr.Wrap(ErrParse, "unexpected end of marker")
	}
	if tok.kind == "lparen" {
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		tok, ok = p.peek()
		if !ok || tok.kind != "rparen" {
			return nil, zerr.Wrap(ErrParse, "missing closing parenthesis in marker")
		}
		p.pos++
		return inner, nil
	}
	return p.parseComparison()
}

func (p *markerParser) parseComparison() (markerNode, error) {
	lhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op, err := p.parseOp()
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return markerCmp{lhs: lhs, op: op, rhs: rhs}, nil
}

func (p *markerParser) parseOperand() (markerOperand, error) {
	tok, ok := p.peek()
	if !ok {
		return markerOperand{}, zerr.Wrap(ErrParse, "unexpected end of marker")
	}
	p.pos++
	switch tok.kind {
	case "ident":
		return markerOperand{ident: tok.text}, nil
	case "str":
		return markerOperand{lit: tok.text}, nil
	default:
		return markerOperand{}, zerr.Wrap(ErrParse, "expected marker operand")
	}
}

func (p *markerParser) parseOp() (string, error) {
	tok, ok := p.peek()
	if !ok {
		return "", zerr.Wrap(ErrParse, "unexpected end of marker")
	}
	if tok.kind == "op" {
		switch tok.text {
		case "==", "!=", "<", "<=", ">", ">=":
			p.pos++
			return tok.text, nil
		}
		return "", zerr.Wrap(ErrParse, "unknown marker operator")
	}
	if tok.kind == "ident" && tok.text == "in" {
		p.pos++
		return "in", nil
	}
	if tok.kind == "ident" && tok.text == "not" {
		p.pos++
		next, ok := p.peek()
		if !ok || next.kind != "ident" || next.text != "in" {
			return "", zerr.Wrap(ErrParse, "expected 'in' after 'not'")
		}
		p.pos++
		return "not in", nil
	}
	return "", zerr.Wrap(ErrParse, "expected marker operator")
}
