package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMintsUniqueIncrementingNames(t *testing.T) {
	tbl := NewTable()
	a := tbl.Create(LoopStart, "loop_start")
	b := tbl.Create(LoopStart, "loop_start")
	c := tbl.Create(BranchTarget, "else")

	assert.Equal(t, "loop_start_1", a.Name)
	assert.Equal(t, "loop_start_2", b.Name)
	assert.Equal(t, "else_1", c.Name)
}

func TestDefineThenResolve(t *testing.T) {
	tbl := NewTable()
	l := tbl.Create(Function, "main")

	_, defined := tbl.Resolve(l.Name)
	require.False(t, defined)

	tbl.Define(l.Name, 42)
	addr, defined := tbl.Resolve(l.Name)
	require.True(t, defined)
	assert.Equal(t, 42, addr)
}

func TestDefineTwiceAtDifferentAddressesPanics(t *testing.T) {
	tbl := NewTable()
	l := tbl.Create(LoopEnd, "loop_end")
	tbl.Define(l.Name, 1)
	assert.Panics(t, func() { tbl.Define(l.Name, 2) })
}

func TestUndefinedListsDanglingLabels(t *testing.T) {
	tbl := NewTable()
	a := tbl.Create(BranchTarget, "else")
	b := tbl.Create(BranchTarget, "end")
	tbl.Define(a.Name, 0)

	undef := tbl.Undefined()
	require.Len(t, undef, 1)
	assert.Equal(t, b.Name, undef[0])
}

func TestLookupUnknownLabel(t *testing.T) {
	tbl := NewTable()
	_, ok := tbl.Lookup("nope")
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "function", Function.String())
	assert.Equal(t, "loop_start", LoopStart.String())
}
