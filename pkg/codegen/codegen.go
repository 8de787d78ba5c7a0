// Package codegen renders a Program as NASM source for x86-64 ELF.
//
// The scheme is deliberately naive: every expression is evaluated into a
// register pair, swapping the pair on recursion, and every local lives in a
// fixed stack slot. There is no register allocation and no instruction
// selection beyond the one mnemonic per operator.
package codegen

import (
	"fmt"
	"strings"

	"github.com/felistron/ezlang/pkg/ast"
	"github.com/felistron/ezlang/pkg/config"
	"github.com/felistron/ezlang/pkg/diag"
	"github.com/felistron/ezlang/pkg/token"
)

// sysExit is the x86-64 Linux exit syscall number.
const sysExit = 0x3c

type Generator struct {
	file string
	prog *ast.Program
	cfg  *config.Config
	fn   *ast.Function // function being emitted
	buf  strings.Builder
}

func New(file string, prog *ast.Program, cfg *config.Config) *Generator {
	return &Generator{file: file, prog: prog, cfg: cfg}
}

// Generate renders the whole program. Compilation is all-or-nothing: the
// first statement that cannot be lowered aborts and no text is returned.
func (g *Generator) Generate() (string, error) {
	g.buf.WriteString("; Source File: " + g.file)

	g.emit("section .data")
	for _, s := range g.prog.Strings {
		g.emit("\t%s db `%s`, 0", s.Label, escapeData(s.Value))
	}

	g.emit("section .text")
	g.emit("\tglobal _start")

	// The process exit code is whatever main returns.
	g.emit("_start:")
	g.emit("\tcall main")
	g.emit("\tmov %s, %s", rDI.name(64), rAX.name(64))
	g.emit("\tmov %s, %#x", rAX.name(64), sysExit)
	g.emit("\tsyscall")

	for _, fn := range g.prog.Functions {
		if err := g.function(fn); err != nil {
			return "", err
		}
	}

	g.buf.WriteByte('\n')
	return g.buf.String(), nil
}

func (g *Generator) emit(format string, args ...interface{}) {
	g.buf.WriteByte('\n')
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *Generator) function(fn *ast.Function) error {
	g.fn = fn
	g.emit("%s:", fn.Name)

	// One extra word of slack so a call pushed on top of the frame keeps
	// the stack 16-byte aligned, then round the whole frame up.
	frame := fn.Locals.Size() + g.cfg.WordSize
	if rem := frame % g.cfg.StackAlignment; rem != 0 {
		frame += g.cfg.StackAlignment - rem
	}

	g.emit("\tpush %s", rBP.name(64))
	g.emit("\tmov %s, %s", rBP.name(64), rSP.name(64))
	g.emit("\tsub %s, %#x", rSP.name(64), frame)

	// Arguments arrive on the stack above the saved base pointer and the
	// return address; copy each into its own slot so the body addresses
	// locals and arguments uniformly.
	for _, idx := range fn.Args {
		arg := fn.Locals.Get(idx)
		g.emit("\tmov %s, %s [%s + %#x]",
			rAX.name(64), wordType(arg.Size), rBP.name(64), 2*g.cfg.WordSize+arg.Offset)
		g.emit("\tmov %s [%s - %#x], %s\t; %s",
			wordType(arg.Size), rBP.name(64), arg.Offset+arg.Size, rAX.name(64), arg.Name)
	}

	for _, stmt := range fn.Body.Stmts {
		if err := g.statement(fn, stmt); err != nil {
			return err
		}
	}

	g.emit(".return_%s:", fn.Name)
	g.emit("\tmov %s, %s", rSP.name(64), rBP.name(64))
	g.emit("\tpop %s", rBP.name(64))
	g.emit("\tret")
	return nil
}

func (g *Generator) statement(fn *ast.Function, stmt *ast.Stmt) error {
	switch stmt.Kind {
	case ast.Assign:
		data := stmt.Data.(ast.AssignStmt)
		if err := g.expression(data.Value, rCX, rDX); err != nil {
			return err
		}
		local := fn.Locals.Get(data.Local)
		g.emit("\tmov %s [%s - %#x], %s\t; %s",
			wordType(local.Size), rBP.name(64), local.Offset+local.Size, rCX.name(64), local.Name)
	case ast.Return:
		data := stmt.Data.(ast.ReturnStmt)
		if err := g.expression(data.Value, rCX, rDX); err != nil {
			return err
		}
		g.emit("\tmov %s, %s", rAX.name(64), rCX.name(64))
		g.emit("\tjmp .return_%s", fn.Name)
	case ast.CallStmt:
		// Evaluated for its effect; the value dies in the register.
		data := stmt.Data.(ast.CallStmtData)
		if err := g.expression(data.Value, rCX, rDX); err != nil {
			return err
		}
	case ast.AsmStmt:
		data := stmt.Data.(ast.AsmStmtData)
		for _, line := range strings.Split(data.Text, "\n") {
			g.emit("\t%s", line)
		}
	}
	return nil
}

// expression evaluates expr into dst, using alt as scratch. For a binary
// node the nested-binary side is emitted first, with the register pair
// swapped, so the partial result in dst survives the other side.
func (g *Generator) expression(expr *ast.Expr, dst, alt reg) error {
	switch expr.Kind {
	case ast.Binary:
		data := expr.Data.(ast.BinaryExpr)
		instr, err := operatorInstruction(data.Op, expr.Tok)
		if err != nil {
			return err
		}
		if data.Right.Kind == ast.Binary && data.Left.Kind != ast.Binary {
			if err := g.expression(data.Right, alt, dst); err != nil {
				return err
			}
			if err := g.expression(data.Left, dst, alt); err != nil {
				return err
			}
		} else {
			if err := g.expression(data.Left, dst, alt); err != nil {
				return err
			}
			if err := g.expression(data.Right, alt, dst); err != nil {
				return err
			}
		}
		g.emit("\t%s %s, %s", instr, dst.name(64), alt.name(64))
	case ast.Number:
		data := expr.Data.(ast.NumberExpr)
		g.emit("\tmov %s, %#x", dst.name(64), data.Value)
	case ast.LocalRef:
		data := expr.Data.(ast.LocalExpr)
		local := g.fn.Locals.Get(data.Index)
		g.emit("\tmov %s, %s [%s - %#x]\t; %s",
			dst.name(64), wordType(local.Size), rBP.name(64), local.Offset+local.Size, local.Name)
	case ast.Str:
		data := expr.Data.(ast.StrExpr)
		lit := g.prog.Strings[data.Index]
		g.emit("\tmov %s, %s", dst.name(64), lit.Label)
	case ast.Call:
		data := expr.Data.(ast.CallExpr)
		callee := g.prog.Functions[data.Func]
		for i, arg := range data.Args {
			if err := g.expression(arg, rCX, rDX); err != nil {
				return err
			}
			param := callee.Locals.Get(callee.Args[i])
			g.emit("\tpush %s\t; %s", rCX.name(64), param.Name)
		}
		g.emit("\tcall %s", callee.Name)
		g.emit("\tmov %s, %s", dst.name(64), rAX.name(64))
	}
	return nil
}

func operatorInstruction(op token.Type, tok token.Token) (string, error) {
	switch op {
	case token.Plus:
		return "add", nil
	case token.Minus:
		return "sub", nil
	case token.Star:
		return "imul", nil
	case token.And:
		return "and", nil
	case token.Or:
		return "or", nil
	case token.Xor:
		return "xor", nil
	case token.Slash:
		return "", diag.ErrorfTok(tok, "Division is not implemented")
	}
	return "", diag.ErrorfTok(tok, "Unsupported operator")
}

// escapeData re-escapes a literal's raw bytes for a NASM backquoted string.
func escapeData(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		case '\\':
			b.WriteString(`\\`)
		case '`':
			b.WriteString("\\`")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
