package parser

import (
	"github.com/felistron/ezlang/pkg/ast"
	"github.com/felistron/ezlang/pkg/diag"
	"github.com/felistron/ezlang/pkg/token"
)

// exprContext selects which terminator ends an expression: a semicolon for
// statements, a comma or unmatched right parenthesis for call arguments.
type exprContext int

const (
	stmtContext exprContext = iota
	argContext
)

// operand is one postfix-queue entry. Exactly one of local, str and call is
// set for a value operand; all three are -1 for operators and plain numbers.
type operand struct {
	tok   token.Token
	local int
	str   int
	call  int
}

func valueOperand(tok token.Token) operand {
	return operand{tok: tok, local: -1, str: -1, call: -1}
}

func precedence(op token.Type) int {
	switch op {
	case token.Star, token.Slash:
		return 13
	case token.Plus, token.Minus:
		return 12
	case token.And:
		return 8
	case token.Xor:
		return 7
	case token.Or:
		return 6
	}
	return -1
}

// parseExpression converts the token run up to the context's terminator into
// an expression tree. It is a two-phase shunting yard: operands and popped
// operators accumulate in a postfix queue, which is then reduced against a
// value stack. The terminator is left in the lookahead slot.
//
// An operator on the stack is popped only when its precedence is strictly
// greater than the incoming one, so operators of equal precedence group to
// the right.
func (p *Parser) parseExpression(ctx exprContext) (*ast.Expr, error) {
	var queue []operand
	var stack []token.Token
	var calls []*ast.Expr

	for {
		tok := p.lookahead
		switch {
		case tok.Type == token.Number || tok.Type == token.Char:
			if p.current.Type == token.Number || p.current.Type == token.Char {
				return nil, diag.ErrorfTok(tok, "Invalid expression.")
			}
			queue = append(queue, valueOperand(tok))

		case tok.Type == token.String:
			op := valueOperand(tok)
			op.str = p.prog.InternString(tok.Value)
			queue = append(queue, op)

		case tok.Type == token.Ident:
			if p.peekAfter().Type == token.LParen {
				call, err := p.parseCall()
				if err != nil {
					return nil, err
				}
				op := valueOperand(tok)
				op.call = len(calls)
				calls = append(calls, call)
				queue = append(queue, op)
				continue // parseCall consumed through the closing paren
			}
			idx, ok := p.fn.Locals.Lookup(tok.Value)
			if !ok {
				return nil, diag.ErrorfTok(tok, "Undeclared variable '%s'.", tok.Value)
			}
			op := valueOperand(tok)
			op.local = idx
			queue = append(queue, op)

		case tok.IsOperator():
			if p.current.IsOperator() {
				return nil, diag.ErrorfTok(tok, "Invalid expression.")
			}
			prec := precedence(tok.Type)
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Type == token.LParen || precedence(top.Type) <= prec {
					break
				}
				stack = stack[:len(stack)-1]
				queue = append(queue, valueOperand(top))
			}
			stack = append(stack, tok)

		case tok.Type == token.LParen:
			stack = append(stack, tok)

		case tok.Type == token.RParen:
			matched := false
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].Type == token.LParen {
					matched = true
					break
				}
			}
			if !matched {
				if ctx == argContext {
					// Closing paren of the surrounding call.
					queue, _ = drain(queue, stack)
					return p.reduce(queue, calls, tok)
				}
				return nil, diag.ErrorfTok(tok, "Unmatched parenthesis.")
			}
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Type == token.LParen {
					break
				}
				queue = append(queue, valueOperand(top))
			}

		case tok.Type == token.Comma:
			if ctx != argContext {
				return nil, diag.ErrorfTok(tok, "Unexpected token.")
			}
			queue, stack = drain(queue, stack)
			if len(stack) > 0 {
				return nil, diag.ErrorfTok(tok, "Unmatched parenthesis.")
			}
			return p.reduce(queue, calls, tok)

		case tok.Type == token.Semi:
			if ctx != stmtContext {
				return nil, diag.ErrorfTok(tok, "Unexpected token.")
			}
			queue, stack = drain(queue, stack)
			if len(stack) > 0 {
				return nil, diag.ErrorfTok(tok, "Unmatched parenthesis.")
			}
			return p.reduce(queue, calls, tok)

		case tok.Type == token.EOF:
			return nil, diag.Errorf(tok.Pos, "Expected expression but found end of file.")

		default:
			return nil, diag.ErrorfTok(tok, "Unexpected token.")
		}
		p.advance()
	}
}

// drain pops every remaining operator to the queue, stopping at the first
// parenthesis marker.
func drain(queue []operand, stack []token.Token) ([]operand, []token.Token) {
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.Type == token.LParen {
			return queue, stack
		}
		stack = stack[:len(stack)-1]
		queue = append(queue, valueOperand(top))
	}
	return queue, stack
}

// reduce folds the postfix queue into a single expression tree. term is the
// terminator token, used for positioning errors about the queue as a whole.
func (p *Parser) reduce(queue []operand, calls []*ast.Expr, term token.Token) (*ast.Expr, error) {
	var exprs []*ast.Expr
	for _, item := range queue {
		switch {
		case item.call >= 0:
			exprs = append(exprs, calls[item.call])
		case item.str >= 0:
			exprs = append(exprs, ast.NewStr(item.tok, item.str))
		case item.local >= 0:
			exprs = append(exprs, ast.NewLocalRef(item.tok, item.local))
		case item.tok.IsOperator():
			if len(exprs) < 2 {
				return nil, diag.ErrorfTok(item.tok, "Missing operand.")
			}
			right := exprs[len(exprs)-1]
			left := exprs[len(exprs)-2]
			exprs = exprs[:len(exprs)-2]
			exprs = append(exprs, ast.NewBinary(item.tok, item.tok.Type, left, right))
		default:
			exprs = append(exprs, ast.NewNumber(item.tok, item.tok.Num))
		}
	}
	if len(exprs) == 0 {
		return nil, diag.ErrorfTok(term, "Missing expression.")
	}
	if len(exprs) != 1 {
		return nil, diag.ErrorfTok(term, "Invalid expression.")
	}
	return exprs[0], nil
}

// parseCall consumes `name ( args )` and returns the call node. Only
// functions already fully parsed can be called, and the argument count is
// checked against the callee's declaration here rather than during code
// generation.
func (p *Parser) parseCall() (*ast.Expr, error) {
	p.advance() // callee identifier
	nameTok := p.current
	fnIdx := p.prog.FindFunction(nameTok.Value)
	if fnIdx < 0 {
		return nil, diag.ErrorfTok(nameTok, "Call to undefined function '%s'.", nameTok.Value)
	}

	if err := p.expect(token.LParen, "Expected left parentheses token."); err != nil {
		return nil, err
	}

	var args []*ast.Expr
	if p.lookahead.Type == token.RParen {
		p.advance()
	} else {
		for {
			arg, err := p.parseExpression(argContext)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.lookahead.Type == token.Comma {
				p.advance()
				continue
			}
			if err := p.expect(token.RParen, "Expected right parentheses token."); err != nil {
				return nil, err
			}
			break
		}
	}

	callee := p.prog.Functions[fnIdx]
	if len(args) != len(callee.Args) {
		return nil, diag.ErrorfTok(nameTok,
			"Function '%s' expects %d argument(s) but %d were given.",
			nameTok.Value, len(callee.Args), len(args))
	}
	return ast.NewCall(nameTok, fnIdx, args), nil
}
