// ==============================================================================================
// FILE: parser/parser.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: Implements a Recursive Descent Parser with Pratt Parsing for expressions.
//          It converts a stream of Tokens (from the Lexer) into an Abstract Syntax Tree (AST).
//          This component defines the grammar and syntax rules of NEURO.
// ==============================================================================================

package parser

import (
	"fmt"
	"strconv"
	"strings"

	"neuro/ast"
	"neuro/diag"
	"neuro/lexer"
	"neuro/token"
)

// Precedence constants determine the order of operations in expressions.
// Higher values mean the operator binds more tightly.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALITY    // == !=
	COMPARISON  // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x
	CALL        // f(x) a[i] a.b
)

// precedences maps token types to their integer precedence level.
var precedences = map[token.TokenType]int{
	token.OROR:     LOGICAL_OR,
	token.ANDAND:   LOGICAL_AND,
	token.EQ:       EQUALITY,
	token.NEQ:      EQUALITY,
	token.LT:       COMPARISON,
	token.LE:       COMPARISON,
	token.GT:       COMPARISON,
	token.GE:       COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.STAR:     PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
	token.DOT:      CALL,
}

// Function types for Pratt Parsing. Both return an error instead of
// silently producing nil, since the parser fails fast on the first
// malformed construct rather than collecting partial results.
type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

// Parser struct holds the state of the parsing process. Unlike a
// diagnostic-accumulating stage, the parser stops at the first error: a
// malformed token stream rarely yields a meaningful partial tree to keep
// looking for more mistakes in.
type Parser struct {
	l         *lexer.Lexer
	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New initializes a new Parser instance over the given lexer, priming the
// current and peek tokens. Newline tokens are transparently filtered out:
// the grammar uses semicolons and braces to delimit statements and blocks,
// not significant whitespace.
func New(l *lexer.Lexer) (*Parser, error) {
	p := &Parser{l: l}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.BOOL, p.parseBooleanLiteral)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseTensorLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.STAR, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.PERCENT, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NEQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.LE, p.parseInfixExpression)
	p.registerInfix(token.GE, p.parseInfixExpression)
	p.registerInfix(token.ANDAND, p.parseInfixExpression)
	p.registerInfix(token.OROR, p.parseInfixExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)

	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) registerPrefix(t token.TokenType, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.TokenType, fn infixParseFn)   { p.infixParseFns[t] = fn }

// advance shifts curToken/peekToken forward by one, skipping newlines.
func (p *Parser) advance() error {
	p.curToken = p.peekToken
	for {
		tok, err := p.l.NextToken()
		if err != nil {
			return err
		}
		if tok.Type != token.NEWLINE {
			p.peekToken = tok
			return nil
		}
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

// expectPeek asserts that the next token is of a specific type, advancing
// past it on success and returning a syntax diagnostic on failure.
func (p *Parser) expectPeek(t token.TokenType) error {
	if !p.peekTokenIs(t) {
		return p.peekError(t)
	}
	return p.advance()
}

func (p *Parser) peekError(expected token.TokenType) error {
	return p.unexpected(p.peekToken, []token.TokenType{expected})
}

func (p *Parser) unexpected(tok token.Token, expected []token.TokenType) error {
	names := make([]string, len(expected))
	for i, e := range expected {
		names[i] = string(e)
	}
	msg := fmt.Sprintf("unexpected token %s, expected one of {%s}", tok.Type, strings.Join(names, ", "))
	return diag.NewError(diag.SyntaxError, msg).WithSpan(tok.Span)
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram is the entry point for parsing. It loops over top-level
// items (functions, structs, imports) until EOF.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	start := p.curToken.Span
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		program.Items = append(program.Items, item)
	}

	end := start
	if n := len(program.Items); n > 0 {
		end = program.Items[n-1].Span()
	}
	program.SpanInfo = start.Cover(end)
	return program, nil
}

func (p *Parser) parseItem() (ast.Item, error) {
	switch p.curToken.Type {
	case token.FN, token.FUNC:
		return p.parseFunctionItem()
	case token.STRUCT:
		return p.parseStructItem()
	case token.IMPORT:
		return p.parseImportItem()
	default:
		return nil, p.unexpected(p.curToken, []token.TokenType{token.FN, token.FUNC, token.STRUCT, token.IMPORT})
	}
}

// --- Items ---

func (p *Parser) parseFunctionItem() (*ast.FunctionItem, error) {
	start := p.curToken.Span
	if err := p.advance(); err != nil { // consume fn/func
		return nil, err
	}
	if !p.curTokenIs(token.IDENT) {
		return nil, p.unexpected(p.curToken, []token.TokenType{token.IDENT})
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.expectCur(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if err := p.expectCur(token.RPAREN); err != nil {
		return nil, err
	}

	var retType *ast.TypeExpr
	if p.curTokenIs(token.ARROW) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		retType, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionItem{
		Name:       name,
		Params:     params,
		ReturnType: retType,
		Body:       body,
		SpanInfo:   start.Cover(body.Span()),
	}, nil
}

// expectCur asserts the current token's type, advancing past it on success.
func (p *Parser) expectCur(t token.TokenType) error {
	if !p.curTokenIs(t) {
		return p.unexpected(p.curToken, []token.TokenType{t})
	}
	return p.advance()
}

func (p *Parser) parseParams() ([]*ast.Param, error) {
	var params []*ast.Param
	if p.curTokenIs(token.RPAREN) {
		return params, nil
	}
	for {
		if !p.curTokenIs(token.IDENT) {
			return nil, p.unexpected(p.curToken, []token.TokenType{token.IDENT})
		}
		pStart := p.curToken.Span
		name := p.curToken.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		var typ *ast.TypeExpr
		if p.curTokenIs(token.COLON) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			var err error
			typ, err = p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
		}
		end := pStart
		if typ != nil {
			end = typ.Span()
		}
		params = append(params, &ast.Param{Name: name, Type: typ, SpanInfo: pStart.Cover(end)})

		if !p.curTokenIs(token.COMMA) {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.curTokenIs(token.RPAREN) {
			break
		}
	}
	return params, nil
}

func (p *Parser) parseTypeExpr() (*ast.TypeExpr, error) {
	if !p.curTokenIs(token.IDENT) && !p.curTokenIs(token.TENSOR) {
		return nil, p.unexpected(p.curToken, []token.TokenType{token.IDENT, token.TENSOR})
	}
	t := &ast.TypeExpr{Name: p.curToken.Literal, SpanInfo: p.curToken.Span}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *Parser) parseStructItem() (*ast.StructItem, error) {
	start := p.curToken.Span
	if err := p.advance(); err != nil { // consume 'struct'
		return nil, err
	}
	if !p.curTokenIs(token.IDENT) {
		return nil, p.unexpected(p.curToken, []token.TokenType{token.IDENT})
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectCur(token.LBRACE); err != nil {
		return nil, err
	}

	var fields []*ast.StructField
	for !p.curTokenIs(token.RBRACE) {
		if !p.curTokenIs(token.IDENT) {
			return nil, p.unexpected(p.curToken, []token.TokenType{token.IDENT, token.RBRACE})
		}
		fStart := p.curToken.Span
		fname := p.curToken.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectCur(token.COLON); err != nil {
			return nil, err
		}
		ftype, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectCur(token.COMMA); err != nil {
			return nil, err
		}
		fields = append(fields, &ast.StructField{Name: fname, Type: ftype, SpanInfo: fStart.Cover(ftype.Span())})
	}
	end := p.curToken.Span
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}
	return &ast.StructItem{Name: name, Fields: fields, SpanInfo: start.Cover(end)}, nil
}

func (p *Parser) parseImportItem() (*ast.ImportItem, error) {
	start := p.curToken.Span
	if err := p.advance(); err != nil { // consume 'import'
		return nil, err
	}

	var path strings.Builder
	isString := false
	switch {
	case p.curTokenIs(token.STRING):
		isString = true
		path.WriteString(p.curToken.Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.curTokenIs(token.IDENT):
		path.WriteString(p.curToken.Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.curTokenIs(token.COLONCOLON) {
			path.WriteString("::")
			if err := p.advance(); err != nil {
				return nil, err
			}
			if !p.curTokenIs(token.IDENT) {
				return nil, p.unexpected(p.curToken, []token.TokenType{token.IDENT})
			}
			path.WriteString(p.curToken.Literal)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	default:
		return nil, p.unexpected(p.curToken, []token.TokenType{token.STRING, token.IDENT})
	}

	end := p.curToken.Span
	if err := p.expectCur(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ImportItem{Path: path.String(), IsString: isString, SpanInfo: start.Cover(end)}, nil
}

// --- Statements ---

func (p *Parser) parseBlock() (*ast.Block, error) {
	start := p.curToken.Span
	if err := p.expectCur(token.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	end := p.curToken.Span
	if err := p.expectCur(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Block{Statements: stmts, SpanInfo: start.Cover(end)}, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case token.LET, token.VAL:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.BREAK:
		sp := p.curToken.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		end := p.curToken.Span
		if err := p.expectCur(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.BreakStatement{SpanInfo: sp.Cover(end)}, nil
	case token.CONTINUE:
		sp := p.curToken.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		end := p.curToken.Span
		if err := p.expectCur(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.ContinueStatement{SpanInfo: sp.Cover(end)}, nil
	case token.LBRACE:
		sp := p.curToken.Span
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStatement{Body: block, SpanInfo: sp.Cover(block.Span())}, nil
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			return p.parseAssignStatement()
		}
		return p.parseExprStatement()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseLetStatement() (*ast.LetStatement, error) {
	start := p.curToken.Span
	if err := p.advance(); err != nil { // consume 'let' or 'val'
		return nil, err
	}
	mutable := false
	if p.curTokenIs(token.MUT) {
		mutable = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if !p.curTokenIs(token.IDENT) {
		return nil, p.unexpected(p.curToken, []token.TokenType{token.IDENT})
	}
	name := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}

	var typ *ast.TypeExpr
	if p.curTokenIs(token.COLON) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var err error
		typ, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}

	var value ast.Expression
	if p.curTokenIs(token.ASSIGN) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var err error
		value, err = p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
	}

	end := p.curToken.Span
	if err := p.expectCur(token.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.LetStatement{Name: name, Mutable: mutable, Type: typ, Value: value, SpanInfo: start.Cover(end)}, nil
}

func (p *Parser) parseAssignStatement() (*ast.AssignStatement, error) {
	start := p.curToken.Span
	target := p.curToken.Literal
	if err := p.advance(); err != nil { // consume IDENT
		return nil, err
	}
	if err := p.expectCur(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	end := p.curToken.Span
	if err := p.expectCur(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.AssignStatement{Target: target, Value: value, SpanInfo: start.Cover(end)}, nil
}

func (p *Parser) parseReturnStatement() (*ast.ReturnStatement, error) {
	start := p.curToken.Span
	if err := p.advance(); err != nil { // consume 'return'
		return nil, err
	}
	var value ast.Expression
	if !p.curTokenIs(token.SEMICOLON) {
		var err error
		value, err = p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
	}
	end := p.curToken.Span
	if err := p.expectCur(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Value: value, SpanInfo: start.Cover(end)}, nil
}

func (p *Parser) parseIfStatement() (*ast.IfStatement, error) {
	start := p.curToken.Span
	if err := p.advance(); err != nil { // consume 'if'
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end := then.Span()

	var elseBlock *ast.Block
	if p.curTokenIs(token.ELSE) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		end = elseBlock.Span()
	}

	return &ast.IfStatement{Condition: cond, Then: then, Else: elseBlock, SpanInfo: start.Cover(end)}, nil
}

func (p *Parser) parseWhileStatement() (*ast.WhileStatement, error) {
	start := p.curToken.Span
	if err := p.advance(); err != nil { // consume 'while'
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Condition: cond, Body: body, SpanInfo: start.Cover(body.Span())}, nil
}

func (p *Parser) parseForStatement() (*ast.ForStatement, error) {
	start := p.curToken.Span
	if err := p.advance(); err != nil { // consume 'for'
		return nil, err
	}
	if !p.curTokenIs(token.IDENT) {
		return nil, p.unexpected(p.curToken, []token.TokenType{token.IDENT})
	}
	loopVar := p.curToken.Literal
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectCur(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{LoopVar: loopVar, Iterable: iter, Body: body, SpanInfo: start.Cover(body.Span())}, nil
}

func (p *Parser) parseExprStatement() (*ast.ExprStatement, error) {
	start := p.curToken.Span
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	end := p.curToken.Span
	if err := p.expectCur(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ExprStatement{Expr: expr, SpanInfo: start.Cover(end)}, nil
}

// --- Expressions (Pratt parser) ---

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		return nil, p.unexpected(p.curToken, []token.TokenType{
			token.IDENT, token.INT, token.FLOAT, token.STRING, token.BOOL,
			token.MINUS, token.BANG, token.LPAREN, token.LBRACKET,
		})
	}
	leftExp, err := prefix()
	if err != nil {
		return nil, err
	}

	for !p.peekTokenIs(token.EOF) && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return leftExp, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		leftExp, err = infix(leftExp)
		if err != nil {
			return nil, err
		}
	}
	return leftExp, nil
}

func (p *Parser) parseIdentifier() (ast.Expression, error) {
	return &ast.Identifier{Name: p.curToken.Literal, SpanInfo: p.curToken.Span}, nil
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	lit := p.curToken.Literal
	var value int64
	var err error
	switch {
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		value, err = strconv.ParseInt(lit[2:], 16, 64)
	case strings.HasPrefix(lit, "0o") || strings.HasPrefix(lit, "0O"):
		value, err = strconv.ParseInt(lit[2:], 8, 64)
	case strings.HasPrefix(lit, "0b") || strings.HasPrefix(lit, "0B"):
		value, err = strconv.ParseInt(lit[2:], 2, 64)
	default:
		value, err = strconv.ParseInt(lit, 10, 64)
	}
	if err != nil {
		return nil, diag.NewError(diag.SyntaxError, fmt.Sprintf("invalid integer literal %q", lit)).
			WithSpan(p.curToken.Span)
	}
	return &ast.Literal{Kind: ast.IntLiteral, IntValue: value, SpanInfo: p.curToken.Span}, nil
}

func (p *Parser) parseFloatLiteral() (ast.Expression, error) {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		return nil, diag.NewError(diag.SyntaxError, fmt.Sprintf("invalid float literal %q", p.curToken.Literal)).
			WithSpan(p.curToken.Span)
	}
	return &ast.Literal{Kind: ast.FloatLiteral, FloatValue: value, SpanInfo: p.curToken.Span}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	return &ast.Literal{Kind: ast.StringLiteral, StringValue: p.curToken.Literal, SpanInfo: p.curToken.Span}, nil
}

func (p *Parser) parseBooleanLiteral() (ast.Expression, error) {
	return &ast.Literal{Kind: ast.BoolLiteral, BoolValue: p.curToken.Literal == "true", SpanInfo: p.curToken.Span}, nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	op := p.curToken.Type
	start := p.curToken.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{Operator: op, Operand: operand, SpanInfo: start.Cover(operand.Span())}, nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseTensorLiteral parses bracketed element lists, e.g. [1, 2, 3].
func (p *Parser) parseTensorLiteral() (ast.Expression, error) {
	start := p.curToken.Span
	elements, err := p.parseExpressionList(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	end := p.curToken.Span
	return &ast.TensorLiteral{Elements: elements, SpanInfo: start.Cover(end)}, nil
}

// parseExpressionList parses a comma-separated list of expressions,
// leaving curToken on the closing delimiter.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, error) {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return list, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	list = append(list, expr)
	for p.peekTokenIs(token.COMMA) {
		if err := p.advance(); err != nil { // consume current, land on ','
			return nil, err
		}
		if err := p.advance(); err != nil { // consume ',', land on next element
			return nil, err
		}
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
	}
	if err := p.expectPeek(end); err != nil {
		return nil, err
	}
	return list, nil
}

// --- Infix Parsing Functions ---

func (p *Parser) parseInfixExpression(left ast.Expression) (ast.Expression, error) {
	op := p.curToken.Type
	precedence := p.curPrecedence()
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Operator: op, Left: left, Right: right, SpanInfo: left.Span().Cover(right.Span())}, nil
}

func (p *Parser) parseCallExpression(callee ast.Expression) (ast.Expression, error) {
	start := callee.Span()
	args, err := p.parseExpressionList(token.RPAREN)
	if err != nil {
		return nil, err
	}
	end := p.curToken.Span
	return &ast.CallExpr{Callee: callee, Args: args, SpanInfo: start.Cover(end)}, nil
}

func (p *Parser) parseIndexExpression(target ast.Expression) (ast.Expression, error) {
	start := target.Span()
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	idx, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.IndexExpr{Target: target, Index: idx, SpanInfo: start.Cover(p.curToken.Span)}, nil
}

func (p *Parser) parseMemberExpression(target ast.Expression) (ast.Expression, error) {
	start := target.Span()
	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}
	field := p.curToken.Literal
	end := p.curToken.Span
	return &ast.MemberExpr{Target: target, Field: field, SpanInfo: start.Cover(end)}, nil
}
