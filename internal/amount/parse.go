package amount

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/width"

	"github.com/cleared-dev/tally/internal/currency"
)

// divisionPrecision is the number of fractional digits kept by intermediate divisions.
const divisionPrecision = 24

// ErrUnparseable is the single failure outcome of Parse.
var ErrUnparseable = errors.New("unparseable amount")

// ParseError carries the rejected input and a reason. It unwraps to ErrUnparseable.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing amount %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrUnparseable }

// ParseOptions control how free-form text is interpreted.
type ParseOptions struct {
	// DefaultCurrency is used when the text carries no currency code.
	DefaultCurrency string
	// AutoDecimalPlace turns "1234" into 12.34 for a two-digit currency when the
	// text is a single number without a decimal separator.
	AutoDecimalPlace bool
	// StrictCurrency rejects codes that are not registered.
	StrictCurrency bool
	// NoExpression rejects arithmetic operators.
	NoExpression bool
}

// Parser turns user text into Amounts against a currency registry.
type Parser struct {
	registry *currency.Registry
	log      zerolog.Logger
}

// ParserOption customizes a Parser.
type ParserOption func(*Parser)

// WithLogger traces parse decisions at debug level.
func WithLogger(log zerolog.Logger) ParserOption {
	return func(p *Parser) { p.log = log }
}

// NewParser creates a Parser resolving codes in reg.
func NewParser(reg *currency.Registry, opts ...ParserOption) *Parser {
	p := &Parser{registry: reg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts text such as "1,454.67 USD", "(12.50)" or "10/4 EUR" into an Amount.
// Empty input yields the blank amount. Every failure is a *ParseError.
func (p *Parser) Parse(text string, opts ParseOptions) (Amount, error) {
	fail := func(format string, args ...any) (Amount, error) {
		reason := fmt.Sprintf(format, args...)
		p.log.Debug().Str("input", text).Str("reason", reason).Msg("amount rejected")
		return Amount{}, &ParseError{Input: text, Reason: reason}
	}

	s := strings.TrimSpace(width.Narrow.String(text))
	if s == "" {
		return Amount{}, nil
	}

	code, rest, err := extractCode(s)
	if err != nil {
		return fail("%v", err)
	}

	cur, err := p.resolveCurrency(code, opts)
	if err != nil {
		return fail("%v", err)
	}
	exp := blankExponent
	if cur != nil {
		exp = cur.Exponent()
	}

	toks, err := tokenize(trimSymbols(rest))
	if err != nil {
		return fail("%v", err)
	}
	if len(toks) == 0 {
		return fail("missing value")
	}

	negate := false
	if enclosed(toks) {
		negate = true
		toks = toks[1 : len(toks)-1]
	}

	hasExpr := hasExpression(toks)
	if opts.NoExpression && hasExpr {
		return fail("expressions are not allowed")
	}

	anyDecimal := false
	for i := range toks {
		if toks[i].kind != tokNumber {
			continue
		}
		v, isDecimal, err := classify(toks[i].raw, exp)
		if err != nil {
			return fail("%v", err)
		}
		p.log.Debug().Str("run", toks[i].raw).Int("exponent", exp).Bool("decimal", isDecimal).Msg("classified separators")
		toks[i].value = v
		anyDecimal = anyDecimal || isDecimal
	}

	if opts.AutoDecimalPlace && !hasExpr && !anyDecimal {
		for i := range toks {
			if toks[i].kind == tokNumber {
				toks[i].value = toks[i].value.Shift(int32(-exp))
			}
		}
	}

	e := evaluator{toks: toks}
	v, err := e.expression()
	if err != nil {
		return fail("%v", err)
	}
	if e.pos != len(toks) {
		return fail("unexpected %s", toks[e.pos])
	}
	if negate {
		v = v.Neg()
	}

	if cur == nil {
		if !v.Round(int32(exp)).IsZero() {
			return fail("no currency for a non-zero amount")
		}
		return Amount{}, nil
	}
	a, err := NewFromDecimal(v, cur)
	if err != nil {
		return fail("%v", err)
	}
	return a, nil
}

func (p *Parser) resolveCurrency(code string, opts ParseOptions) (*currency.Currency, error) {
	if code != "" {
		if c, ok := p.registry.Lookup(code); ok {
			return c, nil
		}
		if opts.StrictCurrency {
			return nil, fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, code)
		}
		p.log.Debug().Str("code", code).Str("default", opts.DefaultCurrency).Msg("unknown code, using default currency")
	}
	if opts.DefaultCurrency == "" {
		return nil, nil
	}
	if c, ok := p.registry.Lookup(opts.DefaultCurrency); ok {
		return c, nil
	}
	if opts.StrictCurrency {
		return nil, fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, opts.DefaultCurrency)
	}
	return nil, nil
}

// extractCode pulls the single run of letters out of s. The run must sit before
// or after the number, not inside it.
func extractCode(s string) (code, rest string, err error) {
	start, end := -1, -1
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			continue
		}
		if start != -1 {
			return "", "", errors.New("more than one currency code")
		}
		start = i
		end = i
		for end < len(s) && isLetter(s[end]) {
			end++
		}
		i = end - 1
	}
	if start == -1 {
		return "", s, nil
	}
	before, after := s[:start], s[end:]
	if strings.ContainsAny(before, "0123456789") && strings.ContainsAny(after, "0123456789") {
		return "", "", fmt.Errorf("currency code %q inside the value", s[start:end])
	}
	return strings.ToUpper(s[start:end]), before + " " + after, nil
}

// trimSymbols drops currency signs such as "$" or "€" at either end of s.
// A sign between two tokens is left for tokenize to reject.
func trimSymbols(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.Is(unicode.Sc, r)
	})
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOperator
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	raw   string
	op    byte
	value decimal.Decimal
}

func (t token) String() string {
	switch t.kind {
	case tokNumber:
		return fmt.Sprintf("number %q", t.raw)
	case tokOperator:
		return fmt.Sprintf("operator %q", t.op)
	case tokLParen:
		return `"("`
	default:
		return `")"`
	}
}

func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isDigit(c) || (isSeparator(c) && c != ' ' && i+1 < len(s) && isDigit(s[i+1])):
			j := scanNumber(s, i)
			toks = append(toks, token{kind: tokNumber, raw: s[i:j]})
			i = j
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{kind: tokOperator, op: c})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		default:
			r, _ := utf8.DecodeRuneInString(s[i:])
			return nil, fmt.Errorf("unexpected character %q", r)
		}
	}
	return toks, nil
}

// scanNumber returns the end of the digit run starting at i. Separators are part
// of the run when a digit follows; a trailing period, comma or apostrophe is kept too.
func scanNumber(s string, i int) int {
	j := i
	for j < len(s) {
		c := s[j]
		if isDigit(c) {
			j++
			continue
		}
		if isSeparator(c) {
			digitNext := j+1 < len(s) && isDigit(s[j+1])
			if digitNext || (c != ' ' && j > i) {
				j++
				continue
			}
		}
		break
	}
	return j
}

// classify decides which separator in a digit run is the decimal one: only the
// last separator, and only when exactly exp digits follow it. All others group.
func classify(raw string, exp int) (decimal.Decimal, bool, error) {
	last := strings.LastIndexAny(raw, ".,' ")
	isDecimal := last >= 0 && len(raw)-last-1 == exp

	var intDigits, fracDigits strings.Builder
	for i := 0; i < len(raw); i++ {
		if !isDigit(raw[i]) {
			continue
		}
		if isDecimal && i > last {
			fracDigits.WriteByte(raw[i])
		} else {
			intDigits.WriteByte(raw[i])
		}
	}
	num := intDigits.String()
	if num == "" {
		num = "0"
	}
	if fracDigits.Len() > 0 {
		num += "." + fracDigits.String()
	}
	v, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return v, isDecimal, nil
}

// enclosed reports whether the first "(" closes on the last token.
func enclosed(toks []token) bool {
	if len(toks) < 2 || toks[0].kind != tokLParen || toks[len(toks)-1].kind != tokRParen {
		return false
	}
	depth := 0
	for i, t := range toks {
		switch t.kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
			if depth == 0 {
				return i == len(toks)-1
			}
		}
	}
	return false
}

// hasExpression reports operators or parentheses beyond a leading sign.
func hasExpression(toks []token) bool {
	for i, t := range toks {
		switch t.kind {
		case tokOperator:
			if i == 0 && (t.op == '-' || t.op == '+') {
				continue
			}
			return true
		case tokLParen, tokRParen:
			return true
		}
	}
	return false
}

// evaluator is a recursive-descent evaluator over
//
//	expression = term {("+" | "-") term}
//	term       = unary {("*" | "/") unary}
//	unary      = ("+" | "-") unary | primary
//	primary    = number | "(" expression ")"
type evaluator struct {
	toks []token
	pos  int
}

func (e *evaluator) peekOp(ops string) (byte, bool) {
	if e.pos >= len(e.toks) {
		return 0, false
	}
	t := e.toks[e.pos]
	if t.kind != tokOperator || !strings.ContainsRune(ops, rune(t.op)) {
		return 0, false
	}
	return t.op, true
}

func (e *evaluator) expression() (decimal.Decimal, error) {
	left, err := e.term()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op, ok := e.peekOp("+-")
		if !ok {
			return left, nil
		}
		e.pos++
		right, err := e.term()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (e *evaluator) term() (decimal.Decimal, error) {
	left, err := e.unary()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op, ok := e.peekOp("*/")
		if !ok {
			return left, nil
		}
		e.pos++
		right, err := e.unary()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '*' {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return decimal.Zero, errors.New("division by zero")
		}
		left = left.DivRound(right, divisionPrecision)
	}
}

func (e *evaluator) unary() (decimal.Decimal, error) {
	if op, ok := e.peekOp("+-"); ok {
		e.pos++
		v, err := e.unary()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '-' {
			return v.Neg(), nil
		}
		return v, nil
	}
	return e.primary()
}

func (e *evaluator) primary() (decimal.Decimal, error) {
	if e.pos >= len(e.toks) {
		return decimal.Zero, errors.New("unexpected end of expression")
	}
	t := e.toks[e.pos]
	switch t.kind {
	case tokNumber:
		e.pos++
		return t.value, nil
	case tokLParen:
		e.pos++
		v, err := e.expression()
		if err != nil {
			return decimal.Zero, err
		}
		if e.pos >= len(e.toks) || e.toks[e.pos].kind != tokRParen {
			return decimal.Zero, errors.New("missing closing parenthesis")
		}
		e.pos++
		return v, nil
	default:
		return decimal.Zero, fmt.Errorf("unexpected %s", t)
	}
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isSeparator(c byte) bool {
	return c == '.' || c == ',' || c == '\'' || c == ' '
}
