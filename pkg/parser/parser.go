// Package parser implements a Pratt (operator precedence) parser for Zen.
//
// The parser never aborts on malformed input: every failure appends a
// human-readable message to the error list and parsing continues with the
// next statement where feasible. Callers detect failure by checking
// Errors(), not by catching a panic.
package parser

import (
	"fmt"
	"strconv"

	"zen/pkg/ast"
	"zen/pkg/token"
)

// Operator precedence, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGN      // =
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * /
	PREFIX      // -x !x
	CALL        // f(x)
	MEMBER      // obj.member
)

// ASSIGN has an entry so expression parsing stops in front of '=' (there is
// no infix function for it); assignment is handled at statement level.
var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGN,
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GTE:      LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.LPAREN:   CALL,
	token.DOT:      MEMBER,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int
	errors []string

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// Parse runs the whole pipeline step: tokens in, program plus accumulated
// syntax errors out.
func Parse(tokens []token.Token) (*ast.Program, []string) {
	p := New(tokens)
	program := p.ParseProgram()
	return program, p.Errors()
}

func New(tokens []token.Token) *Parser {
	p := &Parser{
		tokens: tokens,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.NIL, p.parseNilLiteral)
	p.registerPrefix(token.SELF, p.parseSelfExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.FX, p.parseFunctionLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, op := range []token.TokenType{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE,
		token.AND, token.OR,
	} {
		p.registerInfix(op, p.parseInfixExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.DOT, p.parseMemberAccessExpression)

	return p
}

func (p *Parser) curToken() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return token.Token{Type: token.EOF}
}

func (p *Parser) peekToken() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return token.Token{Type: token.EOF}
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken().Type {
	case token.BAG:
		return p.parsePackageStatement()
	case token.LOAD:
		return p.parseLoadStatement()
	case token.FX:
		if fn := p.parseFunctionStatement(); fn != nil {
			return fn
		}
		return nil
	case token.CLX:
		return p.parseClassStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseAssignOrExpressionStatement()
	}
}

func (p *Parser) parsePackageStatement() ast.Statement {
	stmt := &ast.PackageStatement{Token: p.curToken()}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken().Literal
	return stmt
}

func (p *Parser) parseLoadStatement() ast.Statement {
	stmt := &ast.LoadStatement{Token: p.curToken(), Imports: []string{}}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	if p.curTokenIs(token.RPAREN) {
		return stmt
	}

	for {
		if !p.curTokenIs(token.STRING) {
			p.errors = append(p.errors, "expected string literal in load statement")
			return stmt
		}
		stmt.Imports = append(stmt.Imports, p.curToken().Literal)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
		} else if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return stmt
		} else {
			p.errors = append(p.errors, "expected , or ) after import path")
			return stmt
		}
	}
}

func (p *Parser) parseFunctionStatement() *ast.FunctionStatement {
	stmt := &ast.FunctionStatement{Token: p.curToken()}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken().Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Parameters = p.parseFunctionParameters()

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	return stmt
}

// parseFunctionParameters is entered on '(' and leaves the cursor on ')'.
// A trailing comma before ')' is a syntax error.
func (p *Parser) parseFunctionParameters() []string {
	params := []string{}

	p.nextToken()
	if p.curTokenIs(token.RPAREN) {
		return params
	}

	for {
		if !p.curTokenIs(token.IDENT) {
			p.errors = append(p.errors, "expected parameter name")
			return params
		}
		params = append(params, p.curToken().Literal)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
		} else if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return params
		} else {
			p.errors = append(p.errors, "expected , or ) after parameter")
			return params
		}
	}
}

// parseClassStatement keeps only fx declarations from the class body; any
// other statement inside the braces is skipped.
func (p *Parser) parseClassStatement() ast.Statement {
	stmt := &ast.ClassStatement{Token: p.curToken()}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken().Literal

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.FX) {
			if method := p.parseFunctionStatement(); method != nil {
				stmt.Methods = append(stmt.Methods, method)
			}
		}
		p.nextToken()
	}

	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken()}

	if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken(), Statements: []ast.Statement{}}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	return block
}

func (p *Parser) parseAssignOrExpressionStatement() ast.Statement {
	startTok := p.curToken()

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if !p.peekTokenIs(token.ASSIGN) {
		return &ast.ExpressionStatement{Token: startTok, Expression: expr}
	}

	p.nextToken() // on '='
	stmt := &ast.AssignStatement{Token: p.curToken(), Target: expr}

	switch expr.(type) {
	case *ast.Identifier, *ast.MemberAccessExpression:
	default:
		p.errors = append(p.errors, fmt.Sprintf("invalid assignment target: %s", expr.String()))
		return nil
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken().Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken().Type)
		return nil
	}
	leftExp := prefix()

	for !p.peekTokenIs(token.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken().Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken()}

	value, err := strconv.ParseInt(p.curToken().Literal, 10, 64)
	if err != nil {
		msg := fmt.Sprintf("could not parse %q as integer", p.curToken().Literal)
		p.errors = append(p.errors, msg)
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken(), Value: p.curToken().Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken(), Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken()}
}

func (p *Parser) parseSelfExpression() ast.Expression {
	return &ast.SelfExpression{Token: p.curToken()}
}

// parseFunctionLiteral handles fx in expression position, where it is
// anonymous: fx(params) { body }.
func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.curToken()}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	lit.Parameters = p.parseFunctionParameters()

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	lit.Body = p.parseBlockStatement()

	return lit
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken(),
		Operator: p.curToken().Literal,
	}

	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken(),
		Operator: p.curToken().Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken(), Function: function}
	exp.Arguments = p.parseCallArguments()
	return exp
}

// parseCallArguments is entered on '(' and leaves the cursor on ')'.
// A trailing comma before ')' is a syntax error.
func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	p.nextToken()
	if p.curTokenIs(token.RPAREN) {
		return args
	}

	for {
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return args
		}
		args = append(args, arg)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
		} else if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return args
		} else {
			p.errors = append(p.errors, "expected , or ) after argument")
			return args
		}
	}
}

func (p *Parser) parseMemberAccessExpression(object ast.Expression) ast.Expression {
	expression := &ast.MemberAccessExpression{Token: p.curToken(), Object: object}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expression.Member = p.curToken().Literal

	return expression
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken().Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken().Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead",
		t, p.peekToken().Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	msg := fmt.Sprintf("no prefix parse function for %s found", t)
	p.errors = append(p.errors, msg)
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken().Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken().Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
