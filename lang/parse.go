package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse parses formula text into a [Formula]. The text must begin with "="
// after any leading whitespace. Results are cached by text and the options
// that affect parsing.
func Parse(ctx context.Context, text string, opts ...Option) (*Formula, error) {
	o := makeOptions(opts...)

	root, err := parseCached(ctx, text, o)
	if err != nil {
		return nil, err
	}

	return &Formula{Source: text, root: root, opts: o}, nil
}

func parse(ctx context.Context, source string, o *options) (Node, error) {
	p := &parser{
		input:    source,
		line:     1,
		col:      1,
		maxDepth: o.maxDepth,
	}

	root, err := p.parseRoot()
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed",
			slog.String("formula", source),
			slog.Any("error", err),
		)

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.String("formula", source),
		slog.Int("nodes", countNodes(root)),
	)

	return root, nil
}

func countNodes(n Node) int {
	count := 0

	Walk(n, func(Node, int) bool {
		count++

		return true
	})

	return count
}

// parser holds the parser state.
type parser struct {
	input    string
	pos      int
	line     int
	col      int
	depth    int
	maxDepth int
}

// parseRoot parses: ws "=" ws expr ws EOF.
func (p *parser) parseRoot() (Node, error) {
	p.skipWhitespace()

	if !p.expect('=') {
		return nil, p.fail("root", p.position(), "formula must begin with `=`")
	}

	p.skipWhitespace()

	if p.eof() {
		return nil, p.fail("root", p.position(), "missing expression")
	}

	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()

	if !p.eof() {
		return nil, p.fail("root", p.position(),
			"unexpected %q after expression", p.peek())
	}

	return n, nil
}

// parseExpr parses one of: call, boolean, array, string, number.
func (p *parser) parseExpr() (Node, error) {
	ch := p.peek()

	switch {
	case ch == '{':
		return p.parseArray()
	case ch == '"' || ch == '\'':
		return p.parseString()
	case ch == '+' || ch == '-' || ch == '.' || isDigit(ch):
		return p.parseNumber()
	case isNameStart(ch):
		return p.parseName()
	case p.eof():
		return nil, p.fail("root", p.position(), "unexpected end of formula")
	}

	return nil, p.fail("root", p.position(), "unexpected %q", ch)
}

// parseName parses a function call or a boolean literal.
func (p *parser) parseName() (Node, error) {
	pos := p.position()
	start := p.pos

	for !p.eof() && isNameContinue(p.peek()) {
		p.advance()
	}

	name := strings.ToUpper(p.input[start:p.pos])

	if name == "TRUE" || name == "FALSE" {
		return p.parseBool(pos, name == "TRUE")
	}

	fn := Lookup(name)
	if fn == nil {
		return nil, p.fail("root", pos, "unknown function %s", name).
			With(slog.String("function", name))
	}

	p.skipWhitespace()

	if !p.expect('(') {
		return nil, p.fail("call", p.position(), "expected `(` after %s", name)
	}

	if err := p.enter(pos); err != nil {
		return nil, err
	}
	defer p.leave()

	args := make([]Node, 0)

	p.skipWhitespace()

	if !p.expect(')') {
		for {
			p.skipWhitespace()

			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			p.skipWhitespace()

			if p.expect(',') {
				continue
			}

			if p.expect(')') {
				break
			}

			return nil, p.fail("call", p.position(),
				"expected `,` or `)` in arguments of %s", name)
		}
	}

	if !fn.Accepts(len(args)) {
		return nil, p.fail(name, pos, "%s; got %d argument(s)",
			fn.Arity(), len(args))
	}

	return &CallExpr{Name: name, Args: args, At: pos, fn: fn}, nil
}

// parseBool parses the remainder of TRUE or FALSE: an optional "()".
func (p *parser) parseBool(pos Position, value bool) (Node, error) {
	save := *p

	p.skipWhitespace()

	if !p.expect('(') {
		*p = save

		return &BoolLit{Value: value, At: pos}, nil
	}

	p.skipWhitespace()

	if !p.expect(')') {
		return nil, p.fail("boolean", p.position(), "takes no arguments")
	}

	return &BoolLit{Value: value, At: pos}, nil
}

// parseArray parses: "{" [expr (("," | ";") expr)*] "}".
func (p *parser) parseArray() (Node, error) {
	pos := p.position()

	p.advance() // skip '{'

	if err := p.enter(pos); err != nil {
		return nil, err
	}
	defer p.leave()

	arr := &ArrayLit{At: pos, Rows: [][]Node{{}}}

	p.skipWhitespace()

	if p.expect('}') {
		return arr, nil
	}

	for {
		p.skipWhitespace()

		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		last := len(arr.Rows) - 1
		arr.Rows[last] = append(arr.Rows[last], elem)

		p.skipWhitespace()

		switch {
		case p.expect(','):
			continue
		case p.expect(';'):
			arr.Grid = true
			arr.Rows = append(arr.Rows, []Node{})

			continue
		case p.expect('}'):
			return arr, nil
		case p.eof():
			return nil, p.fail("array", pos, "unterminated array")
		}

		return nil, p.fail("array", p.position(),
			"expected `,`, `;` or `}`, found %q", p.peek())
	}
}

// parseString parses a quoted string. A doubled quote character inside the
// string stands for one quote.
func (p *parser) parseString() (Node, error) {
	pos := p.position()
	quote := p.advance()

	var b strings.Builder

	for !p.eof() {
		ch := p.advance()
		if ch != quote {
			b.WriteRune(ch)

			continue
		}

		if p.peek() == quote {
			p.advance()
			b.WriteRune(quote)

			continue
		}

		return &StringLit{Value: b.String(), At: pos}, nil
	}

	return nil, p.fail("string", pos, "unterminated string")
}

// parseNumber parses a decimal number with optional sign, fraction, and
// exponent.
func (p *parser) parseNumber() (Node, error) {
	pos := p.position()
	start := p.pos

	if ch := p.peek(); ch == '+' || ch == '-' {
		p.advance()
	}

	digits := p.skipDigits()

	if p.peek() == '.' {
		p.advance()

		digits += p.skipDigits()
	}

	if digits == 0 {
		return nil, p.fail("number", pos, "malformed number %q",
			p.input[start:p.pos])
	}

	if ch := p.peek(); ch == 'e' || ch == 'E' {
		save := *p

		p.advance()

		if ch := p.peek(); ch == '+' || ch == '-' {
			p.advance()
		}

		if p.skipDigits() == 0 {
			*p = save
		}
	}

	text := p.input[start:p.pos]

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.fail("number", pos, "malformed number %q", text)
	}

	return &NumberLit{Text: text, Value: f, At: pos}, nil
}

func (p *parser) skipDigits() int {
	n := 0

	for !p.eof() && isDigit(p.peek()) {
		p.advance()
		n++
	}

	return n
}

func (p *parser) enter(pos Position) error {
	p.depth++
	if p.depth > p.maxDepth {
		return ErrParse.
			With(slog.Int("max_depth", p.maxDepth)).
			Wrap(ErrMaxDepth).
			WithPosition(pos, p.input)
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) fail(rule string, pos Position, format string, args ...any) *Error {
	return invalid(rule, format, args...).WithPosition(pos, p.input)
}

// Low-level parser utilities

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])

	return r
}

func (p *parser) advance() rune {
	if p.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += size

	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}

	return r
}

func (p *parser) expect(r rune) bool {
	if p.peek() == r && !p.eof() {
		p.advance()

		return true
	}

	return false
}

func (p *parser) position() Position {
	return Position{Offset: p.pos, Line: p.line, Column: p.col}
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

// Character classification

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNameStart(r rune) bool { return unicode.IsLetter(r) }

func isNameContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_'
}
