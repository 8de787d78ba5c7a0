package cli

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestParseLongAndShortFlags(t *testing.T) {
	fs := NewFlagSet("ezc")
	var out string
	var asmOnly bool
	fs.String(&out, "output", "o", "", "Place the executable into <file>.", "file")
	fs.Bool(&asmOnly, "assembly", "S", false, "Stop after writing the assembly file.")

	be.Err(t, fs.Parse([]string{"-o", "prog", "-S", "main.ez"}), nil)
	be.Equal(t, out, "prog")
	be.True(t, asmOnly)
	be.Equal(t, fs.Args(), []string{"main.ez"})

	fs = NewFlagSet("ezc")
	fs.String(&out, "output", "o", "", "Place the executable into <file>.", "file")
	be.Err(t, fs.Parse([]string{"--output=prog2"}), nil)
	be.Equal(t, out, "prog2")
}

func TestParseShorthandJoinedValue(t *testing.T) {
	fs := NewFlagSet("ezc")
	var out string
	fs.String(&out, "output", "o", "", "usage", "file")
	be.Err(t, fs.Parse([]string{"-oprog"}), nil)
	be.Equal(t, out, "prog")
}

func TestParsePrefixFlags(t *testing.T) {
	fs := NewFlagSet("ezc")
	var warnings []string
	fs.Prefix(&warnings, "W", "Toggle a warning.", "warning")

	be.Err(t, fs.Parse([]string{"-Wextra", "-Wno-u-esc", "-Wall"}), nil)
	be.Equal(t, warnings, []string{"-Wextra", "-Wno-u-esc", "-Wall"})
}

func TestParseUnknownFlag(t *testing.T) {
	fs := NewFlagSet("ezc")
	be.Err(t, fs.Parse([]string{"--bogus"}))
	be.Err(t, fs.Parse([]string{"-z"}))
}

func TestParseMissingArgument(t *testing.T) {
	fs := NewFlagSet("ezc")
	var out string
	fs.String(&out, "output", "o", "", "usage", "file")
	be.Err(t, fs.Parse([]string{"-o"}))
}

func TestParseDoubleDashStopsFlags(t *testing.T) {
	fs := NewFlagSet("ezc")
	var asmOnly bool
	fs.Bool(&asmOnly, "assembly", "S", false, "usage")

	be.Err(t, fs.Parse([]string{"--", "-S", "main.ez"}), nil)
	be.True(t, !asmOnly)
	be.Equal(t, fs.Args(), []string{"-S", "main.ez"})
}
