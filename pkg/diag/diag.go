// Package diag builds positioned compiler errors and renders them to a
// terminal with the offending source line and a caret.
//
// Errors are plain values propagated up through each pipeline stage; the
// first one aborts the whole compilation. Warnings are printed immediately
// and never abort.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/felistron/ezlang/pkg/config"
	"github.com/felistron/ezlang/pkg/token"
)

// Error is a fatal diagnostic carrying the source position it points at.
// Len is the byte span underlined by the caret; zero means a bare caret.
type Error struct {
	Pos token.Position
	Len int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Errorf builds a fatal diagnostic at pos.
func Errorf(pos token.Position, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ErrorfTok builds a fatal diagnostic spanning tok.
func ErrorfTok(tok token.Token, format string, args ...interface{}) *Error {
	return &Error{Pos: tok.Pos, Len: tok.Len, Msg: fmt.Sprintf(format, args...)}
}

var sources = map[string][]byte{}

// SetSource registers a file's content so Print and Warn can show the
// offending line under the message.
func SetSource(name string, content []byte) {
	sources[name] = content
}

const (
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiGreen  = "\033[32m"
	ansiReset  = "\033[0m"
)

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Print renders err to w. Diagnostics from this package get the rich
// file:line:column form with the source line and caret; anything else is
// printed as-is.
func Print(w io.Writer, err error) {
	e, ok := err.(*Error)
	if !ok {
		fmt.Fprintf(w, "ezc: %v\n", err)
		return
	}
	color := useColor(w)
	if color {
		fmt.Fprintf(w, "%s: %serror:%s %s\n", e.Pos, ansiRed, ansiReset, e.Msg)
	} else {
		fmt.Fprintf(w, "%s: error: %s\n", e.Pos, e.Msg)
	}
	printSourceLine(w, e.Pos, e.Len, color)
}

// Warn prints a warning to stderr if wt is enabled in cfg.
func Warn(cfg *config.Config, wt config.Warning, tok token.Token, format string, args ...interface{}) {
	if !cfg.IsWarningEnabled(wt) {
		return
	}
	w := os.Stderr
	color := useColor(w)
	name := cfg.Warnings[wt].Name
	if color {
		fmt.Fprintf(w, "%s: %swarning:%s ", tok.Pos, ansiYellow, ansiReset)
	} else {
		fmt.Fprintf(w, "%s: warning: ", tok.Pos)
	}
	fmt.Fprintf(w, format, args...)
	fmt.Fprintf(w, " [-W%s]\n", name)
	printSourceLine(w, tok.Pos, tok.Len, color)
}

func printSourceLine(w io.Writer, pos token.Position, length int, color bool) {
	content, ok := sources[pos.File]
	if !ok || pos.Line == 0 {
		return
	}

	lineStart := 0
	lineNum := pos.Line
	for i, b := range content {
		if lineNum <= 1 {
			break
		}
		if b == '\n' {
			lineNum--
			lineStart = i + 1
		}
	}
	lineEnd := len(content)
	for i := lineStart; i < len(content); i++ {
		if content[i] == '\n' {
			lineEnd = i
			break
		}
	}

	fmt.Fprintf(w, "  %s\n", string(content[lineStart:lineEnd]))

	caret := "^"
	if length > 1 {
		caret += strings.Repeat("~", length-1)
	}
	if color {
		fmt.Fprintf(w, "  %s%s%s%s\n", strings.Repeat(" ", pos.Column-1), ansiGreen, caret, ansiReset)
	} else {
		fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pos.Column-1), caret)
	}
}
