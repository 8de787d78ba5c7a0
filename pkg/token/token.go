// Package token defines the lexical vocabulary of the ez language.
package token

import "fmt"

type Type int

const (
	EOF Type = iota
	Ident
	Number
	String
	Char
	Return
	If
	While
	For
	True
	False
	Fn
	Var
	Asm
	Colon
	Semi
	Comma
	Eq
	LParen
	RParen
	LBrace
	RBrace
	Plus
	Minus
	Star
	Slash
	And
	Or
	Xor
	Not
	Inc
	Dec
)

var KeywordMap = map[string]Type{
	"return": Return,
	"if":     If,
	"while":  While,
	"for":    For,
	"true":   True,
	"false":  False,
	"fn":     Fn,
	"var":    Var,
	"asm":    Asm,
}

// TypeStrings maps token types back to a printable spelling, for diagnostics.
var TypeStrings = map[Type]string{
	EOF:    "end of file",
	Ident:  "identifier",
	Number: "number",
	String: "string",
	Char:   "character",
	Colon:  ":",
	Semi:   ";",
	Comma:  ",",
	Eq:     "=",
	LParen: "(",
	RParen: ")",
	LBrace: "{",
	RBrace: "}",
	Plus:   "+",
	Minus:  "-",
	Star:   "*",
	Slash:  "/",
	And:    "&",
	Or:     "|",
	Xor:    "^",
	Not:    "!",
	Inc:    "++",
	Dec:    "--",
}

func init() {
	for str, typ := range KeywordMap {
		TypeStrings[typ] = str
	}
}

// Position is a 1-based location in a source file. It is attached to a token
// when the token is produced and never changes afterwards.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Token is one classified lexical unit. Value carries the text of
// identifiers and decoded string literals; Num carries the value of number
// and character literals. Len is the number of source bytes the token spans.
type Token struct {
	Type  Type
	Value string
	Num   uint64
	Pos   Position
	Len   int
}

// IsOperator reports whether the token is one of the binary operators.
func (t Token) IsOperator() bool {
	switch t.Type {
	case Plus, Minus, Star, Slash, And, Or, Xor:
		return true
	}
	return false
}
