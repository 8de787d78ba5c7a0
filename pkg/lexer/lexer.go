// Package lexer turns raw source bytes into position-tagged tokens.
package lexer

import (
	"github.com/felistron/ezlang/pkg/config"
	"github.com/felistron/ezlang/pkg/diag"
	"github.com/felistron/ezlang/pkg/token"
)

type Lexer struct {
	file string
	src  []byte
	pos  int
	line int
	col  int
	cfg  *config.Config
}

func New(file string, src []byte, cfg *config.Config) *Lexer {
	return &Lexer{file: file, src: src, line: 1, col: 1, cfg: cfg}
}

// Tokenize runs the lexer to exhaustion and returns the full token vector,
// terminated by an EOF token. The first malformed input aborts.
func Tokenize(file string, src []byte, cfg *config.Config) ([]token.Token, error) {
	l := New(file, src, cfg)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

// Next produces the next token, or an EOF token once the source is
// exhausted.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()

	startPos, startLine, startCol := l.pos, l.line, l.col

	if l.isAtEnd() {
		return l.makeToken(token.EOF, startPos, startLine, startCol), nil
	}

	ch := l.peek()
	switch {
	case isDigit(ch):
		return l.number(startPos, startLine, startCol)
	case isAlpha(ch):
		return l.identifierOrKeyword(startPos, startLine, startCol), nil
	case ch == '"':
		return l.stringLiteral(startPos, startLine, startCol)
	case ch == '\'':
		return l.charLiteral(startPos, startLine, startCol)
	}

	l.advance()
	switch ch {
	case ':':
		return l.makeToken(token.Colon, startPos, startLine, startCol), nil
	case ';':
		return l.makeToken(token.Semi, startPos, startLine, startCol), nil
	case ',':
		return l.makeToken(token.Comma, startPos, startLine, startCol), nil
	case '=':
		return l.makeToken(token.Eq, startPos, startLine, startCol), nil
	case '(':
		return l.makeToken(token.LParen, startPos, startLine, startCol), nil
	case ')':
		return l.makeToken(token.RParen, startPos, startLine, startCol), nil
	case '{':
		return l.makeToken(token.LBrace, startPos, startLine, startCol), nil
	case '}':
		return l.makeToken(token.RBrace, startPos, startLine, startCol), nil
	case '+':
		if l.cfg.IsFeatureEnabled(config.FeatIncDec) && l.match('+') {
			return l.makeToken(token.Inc, startPos, startLine, startCol), nil
		}
		return l.makeToken(token.Plus, startPos, startLine, startCol), nil
	case '-':
		if l.cfg.IsFeatureEnabled(config.FeatIncDec) && l.match('-') {
			return l.makeToken(token.Dec, startPos, startLine, startCol), nil
		}
		return l.makeToken(token.Minus, startPos, startLine, startCol), nil
	case '*':
		return l.makeToken(token.Star, startPos, startLine, startCol), nil
	case '/':
		return l.makeToken(token.Slash, startPos, startLine, startCol), nil
	case '&':
		return l.makeToken(token.And, startPos, startLine, startCol), nil
	case '|':
		return l.makeToken(token.Or, startPos, startLine, startCol), nil
	case '^':
		return l.makeToken(token.Xor, startPos, startLine, startCol), nil
	case '!':
		return l.makeToken(token.Not, startPos, startLine, startCol), nil
	}

	return token.Token{}, diag.Errorf(l.position(startLine, startCol), "Unknown token")
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	ch := l.src[l.pos]
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
	return ch
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.src[l.pos] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) position(line, col int) token.Position {
	return token.Position{File: l.file, Line: line, Column: col}
}

func (l *Lexer) here() token.Position {
	return l.position(l.line, l.col)
}

func (l *Lexer) makeToken(typ token.Type, startPos, startLine, startCol int) token.Token {
	return token.Token{
		Type: typ,
		Pos:  l.position(startLine, startCol),
		Len:  l.pos - startPos,
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) identifierOrKeyword(startPos, startLine, startCol int) token.Token {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	value := string(l.src[startPos:l.pos])
	tok := l.makeToken(token.Ident, startPos, startLine, startCol)

	if typ, isKeyword := token.KeywordMap[value]; isKeyword {
		if typ == token.Asm && !l.cfg.IsFeatureEnabled(config.FeatAsm) {
			tok.Value = value
			return tok
		}
		tok.Type = typ
		return tok
	}
	tok.Value = value
	return tok
}

// number reads a leading decimal digit run first as a base selector: if a
// '#' follows, the run is the radix and a second run in that radix is the
// value. Otherwise the run itself is the decimal value.
func (l *Lexer) number(startPos, startLine, startCol int) (token.Token, error) {
	base, err := l.digitRun(10, "Invalid decimal number")
	if err != nil {
		return token.Token{}, err
	}

	value := base
	if l.peek() == '#' {
		l.advance()
		switch base {
		case 2:
			value, err = l.digitRun(2, "Invalid binary number")
		case 8:
			value, err = l.digitRun(8, "Invalid octal number")
		case 10:
			value, err = l.digitRun(10, "Invalid decimal number")
		case 16:
			value, err = l.digitRun(16, "Invalid hexadecimal number")
		default:
			return token.Token{}, diag.Errorf(l.position(startLine, startCol), "Unknown numerical base")
		}
		if err != nil {
			return token.Token{}, err
		}
	}

	tok := l.makeToken(token.Number, startPos, startLine, startCol)
	tok.Num = value
	return tok, nil
}

// digitRun consumes a full alphanumeric run and accumulates it in the given
// radix; any byte outside the radix is fatal.
func (l *Lexer) digitRun(radix uint64, msg string) (uint64, error) {
	var result uint64
	for isDigit(l.peek()) || isLetter(l.peek()) {
		var digit uint64
		switch c := l.peek(); {
		case c >= '0' && c <= '9':
			digit = uint64(c - '0')
		case c >= 'a' && c <= 'z':
			digit = uint64(c-'a') + 10
		case c >= 'A' && c <= 'Z':
			digit = uint64(c-'A') + 10
		}
		if digit >= radix {
			return 0, diag.Errorf(l.here(), "%s", msg)
		}
		result = result*radix + digit
		l.advance()
	}
	return result, nil
}

func (l *Lexer) stringLiteral(startPos, startLine, startCol int) (token.Token, error) {
	l.advance() // opening quote

	var buf []byte
	escape := false
	for !l.isAtEnd() {
		c := l.advance()
		if escape {
			switch c {
			case '"':
				buf = append(buf, '"')
			case 'n':
				buf = append(buf, '\n')
			case 't':
				buf = append(buf, '\t')
			case 'r':
				buf = append(buf, '\r')
			case '0':
				buf = append(buf, 0)
			case '\\':
				buf = append(buf, '\\')
			default:
				// The backslash and the escaped character are both
				// dropped; the literal keeps its historical value.
				diag.Warn(l.cfg, config.WarnUnrecognizedEscape,
					l.makeToken(token.String, startPos, startLine, startCol),
					"Unrecognized escape sequence '\\%c'", c)
			}
			escape = false
			continue
		}
		switch c {
		case '\\':
			escape = true
		case '"':
			tok := l.makeToken(token.String, startPos, startLine, startCol)
			tok.Value = string(buf)
			return tok, nil
		default:
			buf = append(buf, c)
		}
	}

	return token.Token{}, diag.Errorf(l.position(startLine, startCol), "Expected closing string sign")
}

func (l *Lexer) charLiteral(startPos, startLine, startCol int) (token.Token, error) {
	l.advance() // opening quote

	c := l.advance()
	if c == '\\' {
		e := l.advance()
		switch e {
		case '\'':
			c = '\''
		case 'n':
			c = '\n'
		case 't':
			c = '\t'
		case 'r':
			c = '\r'
		case '0':
			c = 0
		case '\\':
			c = '\\'
		default:
			diag.Warn(l.cfg, config.WarnUnrecognizedEscape,
				l.makeToken(token.Char, startPos, startLine, startCol),
				"Unrecognized escape sequence '\\%c'", e)
		}
	}

	if l.advance() != '\'' {
		return token.Token{}, diag.Errorf(l.position(startLine, startCol), "Expected closing character sign")
	}

	tok := l.makeToken(token.Char, startPos, startLine, startCol)
	tok.Num = uint64(c)
	return tok, nil
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isAlpha(c byte) bool  { return isLetter(c) || c == '_' }
