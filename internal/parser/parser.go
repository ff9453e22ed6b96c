// Package parser builds an AST from a token stream using hybrid
// recursive-descent statements and Pratt-precedence expressions
// (spec.md §4.3), grounded on original_source/icl/parser.py and structured
// in the teacher's recursive-descent idiom (internal/parser/*.go).
package parser

import (
	"strconv"

	"github.com/funvibe/icl/internal/ast"
	"github.com/funvibe/icl/internal/diagnostics"
	"github.com/funvibe/icl/internal/token"
)

// precedence levels, low to high (spec.md §4.3).
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
	precUnary
	precCall
)

var precedences = map[token.Type]int{
	token.OR:      precOr,
	token.AND:     precAnd,
	token.EQ:      precEquality,
	token.NE:      precEquality,
	token.LT:      precComparison,
	token.LE:      precComparison,
	token.GT:      precComparison,
	token.GE:      precComparison,
	token.PLUS:    precSum,
	token.MINUS:   precSum,
	token.STAR:    precProduct,
	token.SLASH:   precProduct,
	token.PERCENT: precProduct,
	token.LPAREN:  precCall,
}

// Parser consumes a token stream and produces a Program.
type Parser struct {
	tokens []token.Token
	pos    int
	errors diagnostics.List
}

// New creates a Parser over tokens (including the trailing EOF token).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) cur() token.Token  { return p.tokens[p.pos] }
func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}
func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}
func (p *Parser) check(tt token.Type) bool { return p.cur().Type == tt }
func (p *Parser) atEnd() bool              { return p.cur().Type == token.EOF }

func (p *Parser) match(tt token.Type) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt token.Type, context string) (token.Token, bool) {
	if p.check(tt) {
		return p.advance(), true
	}
	p.errors = append(p.errors, diagnostics.NewWithHint(
		"PAR002", p.cur().Span,
		"expected "+tt.String()+" "+context+", got "+p.cur().Type.String(),
		"check the surrounding syntax against the grammar",
	))
	return p.cur(), false
}

// ParseProgram parses the full token stream, aggregating every parse error
// encountered rather than stopping at the first.
func (p *Parser) ParseProgram() (*ast.Program, diagnostics.List) {
	prog := &ast.Program{}
	for !p.atEnd() {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.consumeOptionalSemicolons()
	}
	return prog, p.errors
}

func (p *Parser) consumeOptionalSemicolons() {
	for p.check(token.SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) parseBlock() []ast.Statement {
	p.expect(token.LBRACE, "to start block")
	var stmts []ast.Statement
	p.consumeOptionalSemicolons()
	for !p.check(token.RBRACE) && !p.atEnd() {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.consumeOptionalSemicolons()
	}
	p.expect(token.RBRACE, "to close block")
	return stmts
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case token.FN:
		return p.parseFunctionDef()
	case token.IF:
		return p.parseIf()
	case token.LOOP:
		return p.parseLoop()
	case token.RET:
		return p.parseReturn()
	case token.HASH:
		return p.parseMacro()
	default:
		if p.isAssignmentStart() {
			return p.parseAssignment()
		}
		return p.parseExpressionStatement()
	}
}

// isAssignmentStart looks ahead for `IDENT := ` or `IDENT : Type := `.
func (p *Parser) isAssignmentStart() bool {
	if !p.check(token.IDENT) {
		return false
	}
	if p.peek().Type == token.ASSIGN {
		return true
	}
	if p.peek().Type == token.COLON {
		// IDENT : IDENT := ...
		if p.pos+2 < len(p.tokens) && p.tokens[p.pos+2].Type == token.IDENT {
			if p.pos+3 < len(p.tokens) && p.tokens[p.pos+3].Type == token.ASSIGN {
				return true
			}
		}
	}
	return false
}

func (p *Parser) parseAssignment() ast.Statement {
	nameTok, _ := p.expect(token.IDENT, "as assignment target")
	stmt := &ast.AssignmentStmt{Tok: nameTok, Name: nameTok.Lexeme}
	if p.match(token.COLON) {
		typeTok, _ := p.expect(token.IDENT, "as type annotation")
		stmt.TypeHint = typeTok.Lexeme
	}
	p.expect(token.ASSIGN, "in assignment")
	stmt.Value = p.parseExpression(precLowest)
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur()
	if p.atEnd() || p.check(token.RBRACE) {
		p.errors = append(p.errors, diagnostics.New("PAR001", tok.Span, "unexpected end of block while parsing statement"))
		p.synchronize()
		return nil
	}
	expr := p.parseExpression(precLowest)
	if expr == nil {
		p.synchronize()
		return nil
	}
	return &ast.ExpressionStmt{Tok: tok, Expr: expr}
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.advance() // 'if'
	cond := p.parseExpression(precLowest)
	p.expect(token.QUESTION, "after if condition")
	then := p.parseBlock()
	var els []ast.Statement
	if p.match(token.COLON) {
		els = p.parseBlock()
	}
	return &ast.IfStmt{Tok: tok, Condition: cond, Then: then, Else: els}
}

func (p *Parser) parseLoop() ast.Statement {
	tok := p.advance() // 'loop'
	iterTok, _ := p.expect(token.IDENT, "as loop iterator")
	p.expect(token.IN, "after loop iterator")
	start := p.parseExpression(precSum)
	p.expect(token.RANGE, "in loop range")
	end := p.parseExpression(precSum)
	body := p.parseBlock()
	return &ast.LoopStmt{Tok: tok, Iterator: iterTok.Lexeme, Start: start, End: end, Body: body}
}

func (p *Parser) parseFunctionDef() ast.Statement {
	tok := p.advance() // 'fn'
	nameTok, _ := p.expect(token.IDENT, "as function name")
	p.expect(token.LPAREN, "to start parameter list")
	var params []ast.Param
	for !p.check(token.RPAREN) && !p.atEnd() {
		pTok, _ := p.expect(token.IDENT, "as parameter name")
		param := ast.Param{Name: pTok.Lexeme}
		if p.match(token.COLON) {
			tTok, _ := p.expect(token.IDENT, "as parameter type")
			param.TypeHint = tTok.Lexeme
		}
		params = append(params, param)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN, "to close parameter list")
	stmt := &ast.FunctionDefStmt{Tok: tok, Name: nameTok.Lexeme, Params: params}
	if p.match(token.COLON) {
		rTok, _ := p.expect(token.IDENT, "as return type")
		stmt.ReturnType = rTok.Lexeme
	}
	if p.match(token.ARROW) {
		stmt.ExprBody = p.parseExpression(precLowest)
		return stmt
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.advance() // 'ret'
	stmt := &ast.ReturnStmt{Tok: tok}
	if !p.check(token.SEMICOLON) && !p.check(token.RBRACE) && !p.atEnd() {
		stmt.Value = p.parseExpression(precLowest)
	}
	return stmt
}

func (p *Parser) parseMacro() ast.Statement {
	tok := p.advance() // '#'
	nameTok, _ := p.expect(token.IDENT, "as macro name")
	p.expect(token.LPAREN, "to start macro arguments")
	var args []ast.Expression
	for !p.check(token.RPAREN) && !p.atEnd() {
		args = append(args, p.parseExpression(precLowest))
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN, "to close macro arguments")
	return &ast.MacroStmt{Tok: tok, Name: nameTok.Lexeme, Args: args}
}

// parseExpression is the Pratt loop: parse a unary/primary, then repeatedly
// fold in binary operators and postfix calls while their precedence exceeds
// minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		if p.check(token.LPAREN) && precCall > minPrec {
			left = p.parseCall(left)
			continue
		}
		opPrec, ok := precedences[p.cur().Type]
		if !ok || opPrec <= minPrec {
			break
		}
		opTok := p.advance()
		right := p.parseExpression(opPrec)
		left = &ast.BinaryExpr{Tok: opTok, Left: left, Operator: opTok.Lexeme, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.cur().Type {
	case token.NOT, token.MINUS, token.PLUS:
		tok := p.advance()
		operand := p.parseExpression(precUnary)
		return &ast.UnaryExpr{Tok: tok, Operator: tok.Lexeme, Operand: operand}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	tok := p.advance() // '('
	var args []ast.Expression
	for !p.check(token.RPAREN) && !p.atEnd() {
		args = append(args, p.parseExpression(precLowest))
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN, "to close call arguments")
	return &ast.CallExpr{Tok: tok, Callee: callee, Args: args}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return &ast.LiteralExpr{Tok: tok, Kind: ast.LiteralNum, Value: v}
	case token.STRING:
		p.advance()
		return &ast.LiteralExpr{Tok: tok, Kind: ast.LiteralStr, Value: tok.Literal}
	case token.TRUE:
		p.advance()
		return &ast.LiteralExpr{Tok: tok, Kind: ast.LiteralBool, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.LiteralExpr{Tok: tok, Kind: ast.LiteralBool, Value: false}
	case token.IDENT:
		p.advance()
		return &ast.IdentifierExpr{Tok: tok, Name: tok.Lexeme}
	case token.LAM:
		return p.parseLambda()
	case token.AT:
		p.advance()
		nameTok, _ := p.expect(token.IDENT, "as @-prefixed call target")
		callee := &ast.IdentifierExpr{Tok: nameTok, Name: nameTok.Lexeme}
		call := p.parseCall(callee)
		if c, ok := call.(*ast.CallExpr); ok {
			c.AtPrefixed = true
		}
		return call
	case token.LPAREN:
		p.advance()
		inner := p.parseExpression(precLowest)
		p.expect(token.RPAREN, "to close grouped expression")
		return &ast.GroupExpr{Tok: tok, Inner: inner}
	default:
		p.errors = append(p.errors, diagnostics.New("PAR001", tok.Span, "unexpected token '"+tok.Lexeme+"' in expression"))
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseLambda() ast.Expression {
	tok := p.advance() // 'lam'
	p.expect(token.LPAREN, "to start lambda parameters")
	var params []ast.Param
	for !p.check(token.RPAREN) && !p.atEnd() {
		pTok, _ := p.expect(token.IDENT, "as lambda parameter")
		param := ast.Param{Name: pTok.Lexeme}
		if p.match(token.COLON) {
			tTok, _ := p.expect(token.IDENT, "as lambda parameter type")
			param.TypeHint = tTok.Lexeme
		}
		params = append(params, param)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN, "to close lambda parameters")
	lam := &ast.LambdaExpr{Tok: tok, Params: params}
	if p.match(token.COLON) {
		rTok, _ := p.expect(token.IDENT, "as lambda return type")
		lam.ReturnType = rTok.Lexeme
	}
	p.expect(token.ARROW, "in lambda expression")
	lam.Body = p.parseExpression(precLowest)
	return lam
}

// synchronize discards tokens until a statement boundary so a later
// statement can still be parsed after a PAR001/PAR002 failure.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.check(token.SEMICOLON) {
			p.advance()
			return
		}
		if p.check(token.RBRACE) {
			return
		}
		switch p.cur().Type {
		case token.FN, token.IF, token.LOOP, token.RET, token.HASH:
			return
		}
		p.advance()
	}
}
