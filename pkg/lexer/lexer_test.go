package lexer

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/felistron/ezlang/pkg/config"
	"github.com/felistron/ezlang/pkg/diag"
	"github.com/felistron/ezlang/pkg/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := Tokenize("test.ez", []byte(src), config.NewConfig())
	be.Err(t, err, nil)
	return toks
}

func tokenizeErr(t *testing.T, src string) *diag.Error {
	t.Helper()
	_, err := Tokenize("test.ez", []byte(src), config.NewConfig())
	e, ok := err.(*diag.Error)
	be.True(t, ok)
	return e
}

func TestNumberBases(t *testing.T) {
	tests := []struct {
		input string
		value uint64
	}{
		{"42", 42},
		{"0", 0},
		{"16#ff", 255},
		{"16#FF", 255},
		{"2#1010", 10},
		{"8#17", 15},
		{"10#99", 99},
	}
	for _, tt := range tests {
		toks := tokenize(t, tt.input)
		be.Equal(t, toks[0].Type, token.Number)
		be.Equal(t, toks[0].Num, tt.value)
	}
}

func TestUnknownBase(t *testing.T) {
	e := tokenizeErr(t, "9#1")
	be.Equal(t, e.Msg, "Unknown numerical base")
	be.Equal(t, e.Pos.Column, 1)
}

func TestDigitOutsideRadix(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"2#12", "Invalid binary number"},
		{"8#18", "Invalid octal number"},
		{"16#fg", "Invalid hexadecimal number"},
		{"12a", "Invalid decimal number"},
	}
	for _, tt := range tests {
		e := tokenizeErr(t, tt.input)
		be.Equal(t, e.Msg, tt.msg)
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := tokenize(t, "fn main return var count _tmp")
	types := []token.Type{token.Fn, token.Ident, token.Return, token.Var, token.Ident, token.Ident}
	for i, typ := range types {
		be.Equal(t, toks[i].Type, typ)
	}
	be.Equal(t, toks[1].Value, "main")
	be.Equal(t, toks[4].Value, "count")
	be.Equal(t, toks[5].Value, "_tmp")
	be.Equal(t, toks[len(toks)-1].Type, token.EOF)
}

func TestPunctuationAndOperators(t *testing.T) {
	toks := tokenize(t, ": ; , = ( ) { } + - * / & | ^ !")
	types := []token.Type{
		token.Colon, token.Semi, token.Comma, token.Eq,
		token.LParen, token.RParen, token.LBrace, token.RBrace,
		token.Plus, token.Minus, token.Star, token.Slash,
		token.And, token.Or, token.Xor, token.Not,
	}
	for i, typ := range types {
		be.Equal(t, toks[i].Type, typ)
	}
}

func TestPositions(t *testing.T) {
	toks := tokenize(t, "fn main\n  var x")

	be.Equal(t, toks[0].Pos, token.Position{File: "test.ez", Line: 1, Column: 1})
	be.Equal(t, toks[1].Pos, token.Position{File: "test.ez", Line: 1, Column: 4})
	be.Equal(t, toks[2].Pos, token.Position{File: "test.ez", Line: 2, Column: 3})
	be.Equal(t, toks[3].Pos, token.Position{File: "test.ez", Line: 2, Column: 7})

	be.Equal(t, toks[1].Len, 4)
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{`"hello"`, "hello"},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"a\rb"`, "a\rb"},
		{`"a\"b"`, `a"b`},
		{`"a\\b"`, `a\b`},
		{`"a\0b"`, "a\x00b"},
	}
	for _, tt := range tests {
		toks := tokenize(t, tt.input)
		be.Equal(t, toks[0].Type, token.String)
		be.Equal(t, toks[0].Value, tt.value)
	}
}

func TestUnrecognizedEscapeDropsBothCharacters(t *testing.T) {
	toks := tokenize(t, `"a\qb"`)
	be.Equal(t, toks[0].Value, "ab")
}

func TestUnterminatedString(t *testing.T) {
	e := tokenizeErr(t, `"abc`)
	be.Equal(t, e.Msg, "Expected closing string sign")
}

func TestCharLiterals(t *testing.T) {
	tests := []struct {
		input string
		value uint64
	}{
		{`'a'`, 'a'},
		{`'\n'`, '\n'},
		{`'\''`, '\''},
		{`'\\'`, '\\'},
		{`'\0'`, 0},
	}
	for _, tt := range tests {
		toks := tokenize(t, tt.input)
		be.Equal(t, toks[0].Type, token.Char)
		be.Equal(t, toks[0].Num, tt.value)
	}
}

func TestUnterminatedChar(t *testing.T) {
	e := tokenizeErr(t, "'ab'")
	be.Equal(t, e.Msg, "Expected closing character sign")
}

func TestIncDecFeature(t *testing.T) {
	toks := tokenize(t, "x++; y--;")
	be.Equal(t, toks[1].Type, token.Inc)
	be.Equal(t, toks[4].Type, token.Dec)

	cfg := config.NewConfig()
	cfg.SetFeature(config.FeatIncDec, false)
	toks, err := Tokenize("test.ez", []byte("x++"), cfg)
	be.Err(t, err, nil)
	be.Equal(t, toks[1].Type, token.Plus)
	be.Equal(t, toks[2].Type, token.Plus)
}

func TestAsmKeywordFeature(t *testing.T) {
	toks := tokenize(t, "asm")
	be.Equal(t, toks[0].Type, token.Asm)

	cfg := config.NewConfig()
	cfg.SetFeature(config.FeatAsm, false)
	toks, err := Tokenize("test.ez", []byte("asm"), cfg)
	be.Err(t, err, nil)
	be.Equal(t, toks[0].Type, token.Ident)
	be.Equal(t, toks[0].Value, "asm")
}

func TestUnknownToken(t *testing.T) {
	e := tokenizeErr(t, "$")
	be.Equal(t, e.Msg, "Unknown token")
}

func TestEmptySourceYieldsEOF(t *testing.T) {
	toks := tokenize(t, "")
	be.Equal(t, len(toks), 1)
	be.Equal(t, toks[0].Type, token.EOF)
}
