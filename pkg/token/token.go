package token

import "fmt"

type TokenType string

const (
	// Special
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers & Literals
	IDENT  = "IDENT"
	INT    = "INT"
	STRING = "STRING"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"

	LT     = "<"
	GT     = ">"
	EQ     = "=="
	NOT_EQ = "!="
	LTE    = "<="
	GTE    = ">="
	AND    = "&&"
	OR     = "||"

	// Delimiters
	COMMA  = ","
	DOT    = "."
	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// Keywords
	BAG    = "BAG"
	LOAD   = "LOAD"
	FX     = "FX"
	CLX    = "CLX"
	RETURN = "RETURN"
	IF     = "IF"
	ELSE   = "ELSE"
	FOR    = "FOR"
	TRUE   = "TRUE"
	FALSE  = "FALSE"
	NIL    = "NIL"
	SELF   = "SELF"
)

// Token is a single lexical unit. Line and Column are 1-based and point at
// the first character of the matched text.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d:%d)", t.Type, t.Literal, t.Line, t.Column)
}

var keywords = map[string]TokenType{
	"bag":    BAG,
	"load":   LOAD,
	"fx":     FX,
	"clx":    CLX,
	"return": RETURN,
	"if":     IF,
	"else":   ELSE,
	"for":    FOR,
	"true":   TRUE,
	"false":  FALSE,
	"nil":    NIL,
	"self":   SELF,
}

// LookupIdent maps identifier text to its keyword type, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
