package ast

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestLocalStackOffsets(t *testing.T) {
	var s LocalStack
	be.Equal(t, s.Insert("a", 8), 0)
	be.Equal(t, s.Insert("b", 8), 1)
	be.Equal(t, s.Insert("c", 8), 2)

	be.Equal(t, s.Get(0).Offset, 0)
	be.Equal(t, s.Get(1).Offset, 8)
	be.Equal(t, s.Get(2).Offset, 16)
	be.Equal(t, s.Size(), 24)
	be.Equal(t, s.Len(), 3)
}

func TestLocalStackInsertExisting(t *testing.T) {
	var s LocalStack
	be.Equal(t, s.Insert("x", 8), 0)
	be.Equal(t, s.Insert("y", 8), 1)

	// Re-inserting a known name must return the original slot untouched.
	be.Equal(t, s.Insert("x", 8), 0)
	be.Equal(t, s.Len(), 2)
	be.Equal(t, s.Size(), 16)
}

func TestLocalStackLookup(t *testing.T) {
	var s LocalStack
	s.Insert("a", 8)
	s.Insert("b", 8)

	i, ok := s.Lookup("b")
	be.True(t, ok)
	be.Equal(t, i, 1)

	_, ok = s.Lookup("missing")
	be.True(t, !ok)
}

func TestEmptyLocalStack(t *testing.T) {
	var s LocalStack
	be.Equal(t, s.Size(), 0)
	be.Equal(t, s.Len(), 0)
}

func TestInternString(t *testing.T) {
	var p Program
	be.Equal(t, p.InternString("hello"), 0)
	be.Equal(t, p.InternString("world"), 1)
	be.Equal(t, p.InternString("hello"), 0)

	be.Equal(t, len(p.Strings), 2)
	be.Equal(t, p.Strings[0].Label, "strltr.0")
	be.Equal(t, p.Strings[1].Label, "strltr.1")
	be.Equal(t, p.Strings[0].Value, "hello")
}

func TestFindFunction(t *testing.T) {
	p := Program{Functions: []*Function{
		{Name: "write"},
		{Name: "main"},
	}}
	be.Equal(t, p.FindFunction("main"), 1)
	be.Equal(t, p.FindFunction("write"), 0)
	be.Equal(t, p.FindFunction("missing"), -1)
}
