package token

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestPositionString(t *testing.T) {
	pos := Position{File: "main.ez", Line: 12, Column: 4}
	be.Equal(t, pos.String(), "main.ez:12:4")
}

func TestKeywordMapRoundTrip(t *testing.T) {
	for word, typ := range KeywordMap {
		be.Equal(t, TypeStrings[typ], word)
	}
}

func TestIsOperator(t *testing.T) {
	operators := []Type{Plus, Minus, Star, Slash, And, Or, Xor}
	for _, typ := range operators {
		be.True(t, Token{Type: typ}.IsOperator())
	}
	for _, typ := range []Type{Eq, Not, Ident, Number, LParen, Inc, Dec} {
		be.True(t, !Token{Type: typ}.IsOperator())
	}
}
