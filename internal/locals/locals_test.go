package locals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateAssignsDescendingOffsets(t *testing.T) {
	f := NewFrame()
	a := f.Allocate("x", 4, 4, false)
	b := f.Allocate("y", 8, 8, false)

	assert.Equal(t, int32(-4), a.Offset)
	assert.Equal(t, int32(-16), b.Offset, "y must be 8-byte aligned, so it starts at -16 not -12")
}

func TestAllocateSameNameTwicePanics(t *testing.T) {
	f := NewFrame()
	f.Allocate("x", 4, 4, false)
	assert.Panics(t, func() { f.Allocate("x", 4, 4, false) })
}

func TestLookupMissingSlot(t *testing.T) {
	f := NewFrame()
	_, ok := f.Lookup("nope")
	assert.False(t, ok)
}

func TestFrameSizeRoundsUpToAlignment(t *testing.T) {
	f := NewFrame()
	f.Allocate("a", 4, 4, false)
	require.Equal(t, int32(8), f.FrameSize(), "frame size rounds up to the 8-byte default alignment")
}

func TestParameterSlotsFlagged(t *testing.T) {
	f := NewFrame()
	p := f.Allocate("self", 8, 8, true)
	assert.True(t, p.IsParameter)

	slots := f.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, "self", slots[0].Name)
}
