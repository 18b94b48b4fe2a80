// Package lexer turns Zen source text into a flat token stream.
//
// Scanning is driven by an ordered rule table: at each position the first
// rule matching a non-empty prefix of the remaining input wins. Order, not
// match length, disambiguates — "==" is listed before "=", and the
// identifier rule is listed last so it can never swallow an operator.
// A character no rule matches becomes an ILLEGAL token and scanning
// continues, so the parser can aggregate every diagnostic in one pass.
package lexer

import (
	"strings"

	"zen/pkg/token"
)

type Lexer struct {
	input    string
	position int
	line     int
	column   int
}

// rule matches a prefix of the remaining input. match reports how many bytes
// the rule consumes (0 = no match). A nil emit means the matched text is
// skipped and produces no token.
type rule struct {
	match func(s string) int
	emit  func(text string) (token.TokenType, string)
}

// Rule priority order is load-bearing: comments before the '/' operator,
// two-character operators before their single-character prefixes,
// identifier-or-keyword last.
var rules = []rule{
	{match: matchLineComment},
	{match: matchBlockComment},
	{match: matchNewline},
	{match: matchSpace},
	{match: matchString, emit: emitString},
	{match: matchDigits, emit: fixed(token.INT)},
	{match: literal("=="), emit: fixed(token.EQ)},
	{match: literal("!="), emit: fixed(token.NOT_EQ)},
	{match: literal("<="), emit: fixed(token.LTE)},
	{match: literal(">="), emit: fixed(token.GTE)},
	{match: literal("&&"), emit: fixed(token.AND)},
	{match: literal("||"), emit: fixed(token.OR)},
	{match: literal("+"), emit: fixed(token.PLUS)},
	{match: literal("-"), emit: fixed(token.MINUS)},
	{match: literal("*"), emit: fixed(token.ASTERISK)},
	{match: literal("/"), emit: fixed(token.SLASH)},
	{match: literal("="), emit: fixed(token.ASSIGN)},
	{match: literal("<"), emit: fixed(token.LT)},
	{match: literal(">"), emit: fixed(token.GT)},
	{match: literal("!"), emit: fixed(token.BANG)},
	{match: literal("("), emit: fixed(token.LPAREN)},
	{match: literal(")"), emit: fixed(token.RPAREN)},
	{match: literal("{"), emit: fixed(token.LBRACE)},
	{match: literal("}"), emit: fixed(token.RBRACE)},
	{match: literal(","), emit: fixed(token.COMMA)},
	{match: literal("."), emit: fixed(token.DOT)},
	{match: matchIdent, emit: emitIdent},
}

func New(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// Tokenize is the package entry point: it always terminates and always
// produces at least an EOF token.
func Tokenize(input string) []token.Token {
	return New(input).Tokenize()
}

func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for l.position < len(l.input) {
		if tok, ok := l.next(); ok {
			tokens = append(tokens, tok)
		}
	}
	tokens = append(tokens, token.Token{Type: token.EOF, Literal: "", Line: l.line, Column: l.column})
	return tokens
}

func (l *Lexer) next() (token.Token, bool) {
	rest := l.input[l.position:]
	line, column := l.line, l.column

	for _, r := range rules {
		n := r.match(rest)
		if n == 0 {
			continue
		}
		text := rest[:n]
		l.advance(n)
		if r.emit == nil {
			return token.Token{}, false
		}
		typ, lit := r.emit(text)
		return token.Token{Type: typ, Literal: lit, Line: line, Column: column}, true
	}

	// No rule matched: lenient policy, emit ILLEGAL and keep going.
	ch := rest[:1]
	l.advance(1)
	return token.Token{Type: token.ILLEGAL, Literal: ch, Line: line, Column: column}, true
}

// advance consumes n bytes, tracking 1-based line and column.
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.input[l.position+i] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
	l.position += n
}

func literal(lit string) func(string) int {
	return func(s string) int {
		if strings.HasPrefix(s, lit) {
			return len(lit)
		}
		return 0
	}
}

func fixed(typ token.TokenType) func(string) (token.TokenType, string) {
	return func(text string) (token.TokenType, string) {
		return typ, text
	}
}

func matchLineComment(s string) int {
	if !strings.HasPrefix(s, "//") {
		return 0
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return i
	}
	return len(s)
}

func matchBlockComment(s string) int {
	if !strings.HasPrefix(s, "/*") {
		return 0
	}
	if i := strings.Index(s[2:], "*/"); i >= 0 {
		return 2 + i + 2
	}
	// Unterminated block comment runs to end of input.
	return len(s)
}

func matchNewline(s string) int {
	if s[0] == '\n' {
		return 1
	}
	return 0
}

func matchSpace(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r') {
		i++
	}
	return i
}

// matchString matches a complete double-quoted literal including both
// quotes. An unterminated string does not match at all, leaving the opening
// quote to fall through to the ILLEGAL fallback.
func matchString(s string) int {
	if s[0] != '"' {
		return 0
	}
	i := 1
	for i < len(s) {
		switch s[i] {
		case '"':
			return i + 1
		case '\\':
			i += 2
		default:
			i++
		}
	}
	return 0
}

func matchDigits(s string) int {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func matchIdent(s string) int {
	if !isLetter(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && (isLetter(s[i]) || isDigit(s[i])) {
		i++
	}
	return i
}

func emitIdent(text string) (token.TokenType, string) {
	return token.LookupIdent(text), text
}

// emitString strips the quotes and resolves escape sequences. An unknown
// escape keeps the escaped character and drops the backslash.
func emitString(text string) (token.TokenType, string) {
	body := text[1 : len(text)-1]
	var out strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' || i+1 >= len(body) {
			out.WriteByte(body[i])
			continue
		}
		i++
		switch body[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case '\\':
			out.WriteByte('\\')
		case '"':
			out.WriteByte('"')
		default:
			out.WriteByte(body[i])
		}
	}
	return token.STRING, out.String()
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
