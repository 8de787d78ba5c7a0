// Package ast defines the data model produced by the parser: a Program of
// Functions whose bodies reference locals, string literals and callees by
// index only. The code generator never sees a name except for emitting
// labels and comments.
package ast

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/felistron/ezlang/pkg/token"
)

// Local is one stack slot owned by a function. Size is in bytes; Offset is
// the slot's distance from the start of the frame's local area.
type Local struct {
	Name   string
	Size   int
	Offset int
}

// LocalStack is an ordered, append-only symbol table mapping names to stack
// slots. Offsets grow monotonically: each new entry starts where the
// previous one ended.
type LocalStack struct {
	locals []Local
	index  map[string]int
}

// Insert returns the index of name, appending a new slot if the name is not
// present. Inserting an existing name returns the original index and leaves
// the table unchanged; rejecting re-declarations is the caller's business.
func (s *LocalStack) Insert(name string, size int) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	offset := 0
	if n := len(s.locals); n > 0 {
		last := s.locals[n-1]
		offset = last.Offset + last.Size
	}
	s.locals = append(s.locals, Local{Name: name, Size: size, Offset: offset})
	s.index[name] = len(s.locals) - 1
	return len(s.locals) - 1
}

// Lookup returns the index of a declared name.
func (s *LocalStack) Lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Get returns the local at index i.
func (s *LocalStack) Get(i int) *Local {
	return &s.locals[i]
}

func (s *LocalStack) Len() int { return len(s.locals) }

// Size is the total footprint of the table in bytes.
func (s *LocalStack) Size() int {
	if len(s.locals) == 0 {
		return 0
	}
	last := s.locals[len(s.locals)-1]
	return last.Offset + last.Size
}

// ExprKind defines the kind of an expression node.
type ExprKind int

const (
	Number ExprKind = iota
	LocalRef
	Str
	Binary
	Call
)

// Expr is one node of an expression tree. A node owns its children
// exclusively; the tree is never shared or mutated after parsing.
type Expr struct {
	Kind ExprKind
	Tok  token.Token
	Data interface{}
}

type NumberExpr struct{ Value uint64 }
type LocalExpr struct{ Index int }
type StrExpr struct{ Index int }
type BinaryExpr struct {
	Op          token.Type
	Left, Right *Expr
}
type CallExpr struct {
	Func int
	Args []*Expr
}

func NewNumber(tok token.Token, value uint64) *Expr {
	return &Expr{Kind: Number, Tok: tok, Data: NumberExpr{Value: value}}
}
func NewLocalRef(tok token.Token, index int) *Expr {
	return &Expr{Kind: LocalRef, Tok: tok, Data: LocalExpr{Index: index}}
}
func NewStr(tok token.Token, index int) *Expr {
	return &Expr{Kind: Str, Tok: tok, Data: StrExpr{Index: index}}
}
func NewBinary(tok token.Token, op token.Type, left, right *Expr) *Expr {
	return &Expr{Kind: Binary, Tok: tok, Data: BinaryExpr{Op: op, Left: left, Right: right}}
}
func NewCall(tok token.Token, fn int, args []*Expr) *Expr {
	return &Expr{Kind: Call, Tok: tok, Data: CallExpr{Func: fn, Args: args}}
}

// StmtKind defines the kind of a statement.
type StmtKind int

const (
	Assign StmtKind = iota
	Return
	CallStmt
	AsmStmt
)

type Stmt struct {
	Kind StmtKind
	Tok  token.Token
	Data interface{}
}

type AssignStmt struct {
	Local int
	Value *Expr
}
type ReturnStmt struct{ Value *Expr }
type CallStmtData struct{ Value *Expr }
type AsmStmtData struct{ Text string }

func NewAssign(tok token.Token, local int, value *Expr) *Stmt {
	return &Stmt{Kind: Assign, Tok: tok, Data: AssignStmt{Local: local, Value: value}}
}
func NewReturn(tok token.Token, value *Expr) *Stmt {
	return &Stmt{Kind: Return, Tok: tok, Data: ReturnStmt{Value: value}}
}
func NewCallStmt(tok token.Token, value *Expr) *Stmt {
	return &Stmt{Kind: CallStmt, Tok: tok, Data: CallStmtData{Value: value}}
}
func NewAsmStmt(tok token.Token, text string) *Stmt {
	return &Stmt{Kind: AsmStmt, Tok: tok, Data: AsmStmtData{Text: text}}
}

// Scope is the ordered statement list of a function body.
type Scope struct {
	Stmts []*Stmt
}

// Function is created once during parsing and only read afterwards. Args
// holds indices into Locals, in declaration order.
type Function struct {
	Name   string
	Tok    token.Token
	Locals LocalStack
	Args   []int
	Body   Scope
}

// StringLit is one interned string literal; Label is its data-section name.
type StringLit struct {
	Label string
	Value string
}

// Program is the ordered function list plus the interned literal table.
type Program struct {
	Functions []*Function
	Strings   []StringLit

	strIndex map[uint64]int
}

// InternString returns the literal-table index for value, adding a new
// strltr.<n> entry the first time a distinct value is seen. Literals are
// keyed by their xxhash digest so identical strings share one label.
func (p *Program) InternString(value string) int {
	sum := xxhash.Sum64String(value)
	if i, ok := p.strIndex[sum]; ok {
		return i
	}
	if p.strIndex == nil {
		p.strIndex = make(map[uint64]int)
	}
	i := len(p.Strings)
	p.Strings = append(p.Strings, StringLit{
		Label: fmt.Sprintf("strltr.%d", i),
		Value: value,
	})
	p.strIndex[sum] = i
	return i
}

// FindFunction returns the index of the named function, or -1. Only
// functions already fully parsed are visible, which is what makes forward
// references impossible.
func (p *Program) FindFunction(name string) int {
	for i, f := range p.Functions {
		if f.Name == name {
			return i
		}
	}
	return -1
}
