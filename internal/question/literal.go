package question

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/quizrun/internal/grading"
)

// LiteralError describes a Correct_Answers value that could not be parsed.
type LiteralError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("malformed correct answers %q at offset %d: %s", e.Input, e.Pos, e.Msg)
}

// ParseCorrectAnswers parses a Correct_Answers cell into a trimmed set.
//
// Accepted forms:
// - a bare scalar: A, 42, 3.5, True
// - a quoted scalar: 'A' or "A" (with \' \" \\ escapes)
// - a list or tuple of the above: ['A', 'C'], (1, 2), [B], []
//
// Bare numbers are normalised to how Python prints them (3.50 -> 3.5,
// 1e3 -> 1000.0, 0x1F -> 31). A blank cell yields an empty set without error. Any malformed input yields
// an empty set together with a *LiteralError so callers can warn softly.
func ParseCorrectAnswers(s string) (grading.Set, error) {
	if strings.TrimSpace(s) == "" {
		return grading.NewSet(), nil
	}
	items, err := parseLiteral(s)
	if err != nil {
		return grading.NewSet(), err
	}
	return grading.NewSet(items...), nil
}

// literalParser is a single-pass scanner over a scalar-or-list literal.
type literalParser struct {
	src string
	pos int
}

func parseLiteral(s string) ([]string, error) {
	p := &literalParser{src: s}
	p.skipSpace()

	var items []string
	var err error
	switch p.peek() {
	case '[':
		items, err = p.parseList('[', ']')
	case '(':
		items, err = p.parseList('(', ')')
	default:
		// A bare comma-separated sequence reads like a tuple without parens.
		items, err = p.parseItems(0)
	}
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.done() {
		return nil, p.errorf("unexpected trailing %q", p.src[p.pos:])
	}
	return items, nil
}

func (p *literalParser) parseList(open, close byte) ([]string, error) {
	p.pos++ // open
	items, err := p.parseItems(close)
	if err != nil {
		return nil, err
	}
	if p.peek() != close {
		return nil, p.errorf("expected %q", close)
	}
	p.pos++
	return items, nil
}

// parseItems reads comma-separated scalars until close (or end of input when
// close is 0). A single trailing comma is allowed.
func (p *literalParser) parseItems(close byte) ([]string, error) {
	var items []string
	for {
		p.skipSpace()
		if p.done() || (close != 0 && p.peek() == close) {
			if close == 0 && len(items) == 0 {
				return nil, p.errorf("empty literal")
			}
			return items, nil
		}

		item, err := p.parseScalar(close)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.peek() != ',' {
			return items, nil
		}
		p.pos++
	}
}

func (p *literalParser) parseScalar(close byte) (string, error) {
	switch c := p.peek(); c {
	case '\'', '"':
		return p.parseQuoted(c)
	case '[', '(', ']', ')', ',':
		return "", p.errorf("unexpected %q", c)
	}

	start := p.pos
	for !p.done() {
		c := p.peek()
		if c == ',' || (close != 0 && c == close) {
			break
		}
		switch c {
		case '\'', '"', '[', ']', '(', ')':
			return "", p.errorf("unexpected %q in bare value", c)
		}
		p.pos++
	}
	v := strings.TrimSpace(p.src[start:p.pos])
	if v == "" {
		return "", p.errorf("empty value")
	}
	return normalizeNumber(v), nil
}

const digitPart = `[0-9](?:_?[0-9])*`

var (
	decimalIntRe  = regexp.MustCompile(`^[+-]?(?:0(?:_?0)*|[1-9](?:_?[0-9])*)$`)
	prefixedIntRe = regexp.MustCompile(`^[+-]?0(?:[xX](?:_?[0-9a-fA-F])+|[oO](?:_?[0-7])+|[bB](?:_?[01])+)$`)
	floatRe       = regexp.MustCompile(`^[+-]?(?:(?:(?:` + digitPart + `)?\.` + digitPart + `|` + digitPart + `\.)(?:[eE][+-]?` + digitPart + `)?|` + digitPart + `[eE][+-]?` + digitPart + `)$`)
)

// normalizeNumber rewrites a numeric literal in its canonical printed form.
// Anything that is not a number literal is returned unchanged.
func normalizeNumber(v string) string {
	switch {
	case decimalIntRe.MatchString(v), prefixedIntRe.MatchString(v):
		n, ok := new(big.Int).SetString(strings.ReplaceAll(v, "_", ""), 0)
		if !ok {
			return v
		}
		return n.String()
	case floatRe.MatchString(v):
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, "_", ""), 64)
		if err != nil && !math.IsInf(f, 0) {
			return v
		}
		return formatFloat(f)
	}
	return v
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (p *literalParser) parseQuoted(quote byte) (string, error) {
	start := p.pos
	p.pos++ // opening quote

	var b strings.Builder
	for !p.done() {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src):
			next := p.src[p.pos+1]
			switch next {
			case '\\', '\'', '"':
				b.WriteByte(next)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
			p.pos += 2
		case c == quote:
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	p.pos = start
	return "", p.errorf("unterminated string")
}

func (p *literalParser) skipSpace() {
	for !p.done() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) done() bool {
	return p.pos >= len(p.src)
}

func (p *literalParser) errorf(format string, args ...any) error {
	return &LiteralError{Input: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}
