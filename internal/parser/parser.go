package parser

import (
	"fmt"
	"strconv"

	"github.com/xirelogy/go-babyduck/internal/ast"
	"github.com/xirelogy/go-babyduck/internal/lexer"
	"github.com/xirelogy/go-babyduck/internal/token"
)

// Parser builds a BabyDuck AST from a token stream.
type Parser struct {
	l         *lexer.Lexer
	curToken  token.Token
	peekToken token.Token
	errors    []string
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}
	// Read two tokens, so curToken and peekToken are set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseProgram parses the whole translation unit:
// program ID ; vars funcs main { ... } end
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	p.expect(token.Program)
	prog.NamePos = p.curToken.Pos
	prog.Name = p.curToken.Literal
	p.expect(token.Ident)
	p.expect(token.Semicolon)

	prog.Vars = p.parseVarSections()

	for p.curToken.Type == token.Void {
		fn := p.parseFuncDecl()
		if fn != nil {
			prog.Funcs = append(prog.Funcs, fn)
		}
	}

	p.expect(token.Main)
	p.expect(token.LBrace)
	prog.MainBody = p.parseStatements()
	p.expect(token.RBrace)
	p.expect(token.End)

	return prog
}

// parseVarSections consumes zero or more `var` sections, each holding one or
// more `id (, id)* : type ;` groups.
func (p *Parser) parseVarSections() []ast.VarDecl {
	var decls []ast.VarDecl
	for p.curToken.Type == token.Var {
		p.nextToken()
		for p.curToken.Type == token.Ident {
			group := []ast.VarDecl{{Name: p.curToken.Literal, PosT: p.curToken.Pos}}
			p.nextToken()
			for p.curToken.Type == token.Comma {
				p.nextToken()
				group = append(group, ast.VarDecl{Name: p.curToken.Literal, PosT: p.curToken.Pos})
				p.expect(token.Ident)
			}
			p.expect(token.Colon)
			typ := p.parseTypeName()
			p.expect(token.Semicolon)
			for i := range group {
				group[i].VarType = typ
			}
			decls = append(decls, group...)
		}
	}
	return decls
}

func (p *Parser) parseTypeName() ast.TypeName {
	switch p.curToken.Type {
	case token.Int:
		p.nextToken()
		return ast.TypeInt
	case token.Float:
		p.nextToken()
		return ast.TypeFloat
	case token.Bool:
		p.nextToken()
		return ast.TypeBool
	default:
		p.errorf(p.curToken.Pos, "expected type name, got %s", p.curToken.Type)
		p.nextToken()
		return ast.TypeInt
	}
}

// parseFuncDecl parses `void f(a: int, ...) [ var ...; { body } ];`.
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	p.expect(token.Void)
	fn := &ast.FuncDecl{Name: p.curToken.Literal, NamePos: p.curToken.Pos}
	p.expect(token.Ident)
	p.expect(token.LParen)
	if p.curToken.Type != token.RParen {
		fn.Params = append(fn.Params, p.parseParam())
		for p.curToken.Type == token.Comma {
			p.nextToken()
			fn.Params = append(fn.Params, p.parseParam())
		}
	}
	p.expect(token.RParen)
	p.expect(token.LBracket)
	fn.Vars = p.parseVarSections()
	p.expect(token.LBrace)
	fn.Body = p.parseStatements()
	p.expect(token.RBrace)
	p.expect(token.RBracket)
	p.expect(token.Semicolon)
	return fn
}

func (p *Parser) parseParam() ast.Param {
	param := ast.Param{Name: p.curToken.Literal, PosT: p.curToken.Pos}
	p.expect(token.Ident)
	p.expect(token.Colon)
	param.ParamType = p.parseTypeName()
	return param
}

func (p *Parser) parseStatements() []ast.Statement {
	var stmts []ast.Statement
	for p.curToken.Type != token.RBrace && p.curToken.Type != token.EOF {
		stmt := p.parseStatement()
		if stmt == nil {
			// skip the offending token so the loop makes progress
			p.nextToken()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.Print:
		return p.parsePrint()
	case token.Ident:
		if p.peekToken.Type == token.LParen {
			return p.parseCall()
		}
		return p.parseAssign()
	case token.Main:
		if p.peekToken.Type == token.LParen {
			// main is a keyword, but a call to it still parses so the
			// generator can reject it as an undeclared function
			p.curToken.Type = token.Ident
			return p.parseCall()
		}
		p.errorf(p.curToken.Pos, "unexpected token %s at statement start", p.curToken.Type)
		return nil
	default:
		p.errorf(p.curToken.Pos, "unexpected token %s at statement start", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseAssign() ast.Statement {
	stmt := &ast.AssignStmt{Name: p.curToken.Literal, PosT: p.curToken.Pos}
	p.expect(token.Ident)
	p.expect(token.Assign)
	stmt.Value = p.parseExpression(lowest)
	p.expect(token.Semicolon)
	return stmt
}

func (p *Parser) parseCall() ast.Statement {
	stmt := &ast.CallStmt{Name: p.curToken.Literal, PosT: p.curToken.Pos}
	p.expect(token.Ident)
	p.expect(token.LParen)
	if p.curToken.Type != token.RParen {
		stmt.Args = append(stmt.Args, p.parseExpression(lowest))
		for p.curToken.Type == token.Comma {
			p.nextToken()
			stmt.Args = append(stmt.Args, p.parseExpression(lowest))
		}
	}
	p.expect(token.RParen)
	p.expect(token.Semicolon)
	return stmt
}

func (p *Parser) parsePrint() ast.Statement {
	stmt := &ast.PrintStmt{PosT: p.curToken.Pos}
	p.expect(token.Print)
	p.expect(token.LParen)
	stmt.Items = append(stmt.Items, p.parsePrintItem())
	for p.curToken.Type == token.Comma {
		p.nextToken()
		stmt.Items = append(stmt.Items, p.parsePrintItem())
	}
	p.expect(token.RParen)
	p.expect(token.Semicolon)
	return stmt
}

func (p *Parser) parsePrintItem() ast.PrintItem {
	if p.curToken.Type == token.CteString {
		val := p.curToken.Literal
		item := ast.PrintItem{Str: &val, PosT: p.curToken.Pos}
		p.nextToken()
		return item
	}
	pos := p.curToken.Pos
	return ast.PrintItem{Expr: p.parseExpression(lowest), PosT: pos}
}

func (p *Parser) parseIf() ast.Statement {
	stmt := &ast.IfStmt{PosT: p.curToken.Pos}
	p.expect(token.If)
	p.expect(token.LParen)
	stmt.Condition = p.parseExpression(lowest)
	p.expect(token.RParen)
	p.expect(token.LBrace)
	stmt.Then = p.parseStatements()
	p.expect(token.RBrace)
	if p.curToken.Type == token.Else {
		p.nextToken()
		p.expect(token.LBrace)
		stmt.Else = p.parseStatements()
		if stmt.Else == nil {
			stmt.Else = []ast.Statement{}
		}
		p.expect(token.RBrace)
	}
	// trailing ';' after the closing brace is optional
	if p.curToken.Type == token.Semicolon {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	stmt := &ast.WhileStmt{PosT: p.curToken.Pos}
	p.expect(token.While)
	p.expect(token.LParen)
	stmt.Condition = p.parseExpression(lowest)
	p.expect(token.RParen)
	p.expect(token.Do)
	p.expect(token.LBrace)
	stmt.Body = p.parseStatements()
	p.expect(token.RBrace)
	if p.curToken.Type == token.Semicolon {
		p.nextToken()
	}
	return stmt
}

// Expression precedence levels, lowest binds loosest. Comparisons are
// non-associative: one comparison per expression.
const (
	lowest = iota
	comparison
	sum
	product
)

var precedences = map[token.Type]int{
	token.Greater:  comparison,
	token.Less:     comparison,
	token.Equal:    comparison,
	token.NotEqual: comparison,
	token.Plus:     sum,
	token.Minus:    sum,
	token.Star:     product,
	token.Slash:    product,
}

func (p *Parser) parseExpression(prec int) ast.Expression {
	left := p.parseFactor()
	for left != nil {
		opPrec, ok := precedences[p.curToken.Type]
		if !ok || opPrec <= prec {
			break
		}
		op := p.curToken.Type
		pos := p.curToken.Pos
		p.nextToken()
		// passing opPrec keeps same-precedence operators left-associative
		right := p.parseExpression(opPrec)
		left = &ast.BinaryExpr{Left: left, Operator: op, Right: right, PosT: pos}
		if opPrec == comparison {
			// one comparison per expression
			if precedences[p.curToken.Type] == comparison {
				p.errorf(p.curToken.Pos, "chained comparison")
			}
			break
		}
	}
	return left
}

func (p *Parser) parseFactor() ast.Expression {
	switch p.curToken.Type {
	case token.Ident:
		expr := &ast.Identifier{Name: p.curToken.Literal, PosT: p.curToken.Pos}
		p.nextToken()
		return expr
	case token.CteInt:
		val, err := strconv.ParseInt(p.curToken.Literal, 10, 32)
		if err != nil {
			p.errorf(p.curToken.Pos, "invalid integer literal %q", p.curToken.Literal)
		}
		expr := &ast.IntLiteral{Value: int32(val), PosT: p.curToken.Pos}
		p.nextToken()
		return expr
	case token.CteFloat:
		val, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.errorf(p.curToken.Pos, "invalid float literal %q", p.curToken.Literal)
		}
		expr := &ast.FloatLiteral{Value: val, PosT: p.curToken.Pos}
		p.nextToken()
		return expr
	case token.True, token.False:
		expr := &ast.BoolLiteral{Value: p.curToken.Type == token.True, PosT: p.curToken.Pos}
		p.nextToken()
		return expr
	case token.LParen:
		group := &ast.GroupExpr{PosT: p.curToken.Pos}
		p.nextToken()
		group.Inner = p.parseExpression(lowest)
		p.expect(token.RParen)
		return group
	default:
		p.errorf(p.curToken.Pos, "unexpected token %s in expression", p.curToken.Type)
		return nil
	}
}

// expect consumes the current token when it matches t, otherwise records an
// error and leaves the token in place so callers can resynchronise.
func (p *Parser) expect(t token.Type) {
	if p.curToken.Type == t {
		p.nextToken()
		return
	}
	p.errorf(p.curToken.Pos, "expected %s, got %s", t, p.curToken.Type)
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", pos.Line, pos.Column, msg))
}
