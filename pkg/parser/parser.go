// Package parser turns the token vector into a Program. Names are resolved
// while parsing: locals against the enclosing function's LocalStack, callees
// against the functions parsed so far. The resulting AST carries indices
// only.
package parser

import (
	"github.com/felistron/ezlang/pkg/ast"
	"github.com/felistron/ezlang/pkg/config"
	"github.com/felistron/ezlang/pkg/diag"
	"github.com/felistron/ezlang/pkg/token"
)

// localSize is the slot width of every local until sub-quad-word storage
// classes are surfaced in the language.
const localSize = 8

type Parser struct {
	file      string
	tokens    []token.Token
	pos       int // index of lookahead in tokens
	current   token.Token
	lookahead token.Token

	prog *ast.Program
	fn   *ast.Function // function under construction
	cfg  *config.Config
}

// New creates a parser over a token vector. The vector must be terminated by
// an EOF token, as produced by lexer.Tokenize.
func New(file string, tokens []token.Token, cfg *config.Config) *Parser {
	p := &Parser{file: file, tokens: tokens, cfg: cfg}
	if len(tokens) > 0 {
		p.lookahead = tokens[0]
	}
	return p
}

// advance moves the two-slot window one token forward.
func (p *Parser) advance() {
	p.current = p.lookahead
	p.pos++
	if p.pos < len(p.tokens) {
		p.lookahead = p.tokens[p.pos]
	}
}

// peekAfter returns the token following the lookahead slot.
func (p *Parser) peekAfter() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) expect(typ token.Type, msg string) error {
	p.advance()
	if p.current.Type != typ {
		return diag.ErrorfTok(p.current, "%s", msg)
	}
	return nil
}

// Parse consumes the whole token vector and returns the Program. The first
// error aborts; no partial program is returned.
func (p *Parser) Parse() (*ast.Program, error) {
	if len(p.tokens) == 0 || p.tokens[0].Type == token.EOF {
		return nil, diag.Errorf(token.Position{File: p.file, Line: 1, Column: 1},
			"Empty source file. Try writing a main function first.")
	}

	p.prog = &ast.Program{}
	for p.lookahead.Type != token.EOF {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		// Appended only once fully parsed, so a call can never reference a
		// function declared later in the file, nor the function itself.
		p.prog.Functions = append(p.prog.Functions, fn)
	}

	if p.prog.FindFunction("main") < 0 {
		return nil, diag.Errorf(token.Position{File: p.file},
			"No entry point: Missing main function")
	}
	return p.prog, nil
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	if err := p.expect(token.Fn, "Expected function declaration"); err != nil {
		return nil, err
	}
	if err := p.expect(token.Ident, "Expected function name"); err != nil {
		return nil, err
	}
	fn := &ast.Function{Name: p.current.Value, Tok: p.current}
	p.fn = fn

	if err := p.expect(token.Colon, "Expected a colon after function name."); err != nil {
		return nil, err
	}
	if err := p.parseArguments(fn); err != nil {
		return nil, err
	}
	if err := p.parseBody(fn); err != nil {
		return nil, err
	}
	p.fn = nil
	return fn, nil
}

func (p *Parser) parseArguments(fn *ast.Function) error {
	if err := p.expect(token.LParen, "Expected left parentheses token."); err != nil {
		return err
	}

	for {
		switch p.lookahead.Type {
		case token.Ident:
			idx := fn.Locals.Insert(p.lookahead.Value, localSize)
			fn.Args = append(fn.Args, idx)
			p.advance()
			switch p.lookahead.Type {
			case token.Comma:
				p.advance()
			case token.RParen:
				// Closing paren handled below.
			case token.Ident:
				return diag.ErrorfTok(p.lookahead,
					"Unexpected token. Maybe you forgot to put a comma between the two arguments.")
			default:
				return diag.ErrorfTok(p.lookahead, "Unexpected token.")
			}
		case token.RParen:
			// Valid only as an empty list or right after an argument; a
			// trailing comma lands here with the comma as current.
			switch p.current.Type {
			case token.LParen, token.Ident:
				return p.expect(token.RParen, "Expected right parentheses token.")
			default:
				return diag.ErrorfTok(p.lookahead, "Unexpected token.")
			}
		case token.EOF:
			return diag.Errorf(p.lookahead.Pos,
				"Expected comma or right parentheses but reached end of file.")
		default:
			return diag.ErrorfTok(p.lookahead, "Expected right parentheses")
		}
	}
}

func (p *Parser) parseBody(fn *ast.Function) error {
	if err := p.expect(token.LBrace, "Expected left brace token."); err != nil {
		return err
	}
	for {
		stmt, err := p.parseStatement()
		if err != nil {
			return err
		}
		if stmt == nil {
			break
		}
		fn.Body.Stmts = append(fn.Body.Stmts, stmt)
	}
	return p.expect(token.RBrace, "Expected right brace token.")
}

// parseStatement returns nil on the closing brace of the enclosing scope.
func (p *Parser) parseStatement() (*ast.Stmt, error) {
	switch p.lookahead.Type {
	case token.RBrace:
		return nil, nil
	case token.Return:
		p.advance()
		tok := p.current
		expr, err := p.parseExpression(stmtContext)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.Semi, "Expected a semicolon."); err != nil {
			return nil, err
		}
		return ast.NewReturn(tok, expr), nil
	case token.Var:
		return p.parseVar()
	case token.Asm:
		return p.parseAsm()
	case token.Ident:
		switch p.peekAfter().Type {
		case token.Eq:
			return p.parseAssign()
		case token.LParen:
			tok := p.lookahead
			expr, err := p.parseExpression(stmtContext)
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.Semi, "Expected a semicolon."); err != nil {
				return nil, err
			}
			return ast.NewCallStmt(tok, expr), nil
		case token.Inc, token.Dec:
			return p.parseIncDec()
		default:
			return nil, diag.ErrorfTok(p.peekAfter(), "Unexpected token.")
		}
	case token.EOF:
		return nil, diag.Errorf(p.lookahead.Pos, "Expected statement but found end of file.")
	default:
		return nil, diag.ErrorfTok(p.lookahead, "Unexpected token.")
	}
}

func (p *Parser) parseVar() (*ast.Stmt, error) {
	p.advance() // var
	tok := p.current
	if err := p.expect(token.Ident, "Expected variable name"); err != nil {
		return nil, err
	}
	name := p.current.Value
	if _, exists := p.fn.Locals.Lookup(name); exists {
		return nil, diag.ErrorfTok(p.current, "Duplicate declaration of variable '%s'.", name)
	}
	idx := p.fn.Locals.Insert(name, localSize)

	if err := p.expect(token.Eq, "Expected '=' after variable name."); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(stmtContext)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Semi, "Expected a semicolon."); err != nil {
		return nil, err
	}
	return ast.NewAssign(tok, idx, expr), nil
}

func (p *Parser) parseAssign() (*ast.Stmt, error) {
	p.advance() // identifier
	tok := p.current
	idx, ok := p.fn.Locals.Lookup(tok.Value)
	if !ok {
		return nil, diag.ErrorfTok(tok, "Undeclared variable '%s'.", tok.Value)
	}
	if err := p.expect(token.Eq, "Expected '=' after variable name."); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(stmtContext)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Semi, "Expected a semicolon."); err != nil {
		return nil, err
	}
	return ast.NewAssign(tok, idx, expr), nil
}

// parseIncDec desugars `x++;` into `x = x + 1;` so both forms share the
// Assign path everywhere downstream.
func (p *Parser) parseIncDec() (*ast.Stmt, error) {
	p.advance() // identifier
	identTok := p.current
	idx, ok := p.fn.Locals.Lookup(identTok.Value)
	if !ok {
		return nil, diag.ErrorfTok(identTok, "Undeclared variable '%s'.", identTok.Value)
	}
	p.advance() // ++ or --
	opTok := p.current
	op := token.Plus
	if opTok.Type == token.Dec {
		op = token.Minus
	}
	if err := p.expect(token.Semi, "Expected a semicolon."); err != nil {
		return nil, err
	}
	expr := ast.NewBinary(opTok, op, ast.NewLocalRef(identTok, idx), ast.NewNumber(opTok, 1))
	return ast.NewAssign(identTok, idx, expr), nil
}

func (p *Parser) parseAsm() (*ast.Stmt, error) {
	p.advance() // asm
	tok := p.current
	if err := p.expect(token.String, "Expected string literal after 'asm'."); err != nil {
		return nil, err
	}
	text := p.current.Value
	if err := p.expect(token.Semi, "Expected a semicolon."); err != nil {
		return nil, err
	}
	return ast.NewAsmStmt(tok, text), nil
}
