package regalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthrac/internal/ir"
	"github.com/asthra-lang/asthrac/internal/locals"
)

func TestAllocatePrefersCallerSavedWhenRequested(t *testing.T) {
	a := New(locals.NewFrame(), &ir.Stats{})
	r, err := a.Allocate(GPR, true)
	require.NoError(t, err)
	assert.False(t, ir.CalleeSaved[r], "caller_saved=true must prefer a non-callee-saved register")
}

func TestAllocateDoesNotHandOutLockedCalleeSaved(t *testing.T) {
	a := New(locals.NewFrame(), &ir.Stats{})
	for i := 0; i < len(gprPool); i++ {
		r, err := a.Allocate(GPR, false)
		require.NoError(t, err)
		if ir.CalleeSaved[r] {
			t.Fatalf("allocated locked callee-saved register %v before UnlockCalleeSaved", r)
		}
	}
}

func TestAllocateXMMClassStaysInXMMPool(t *testing.T) {
	a := New(locals.NewFrame(), &ir.Stats{})
	r, err := a.Allocate(XMM, true)
	require.NoError(t, err)
	assert.True(t, r.IsXMM())
}

func TestFreeMakesRegisterAvailableAgain(t *testing.T) {
	a := New(locals.NewFrame(), &ir.Stats{})
	r, err := a.Allocate(GPR, true)
	require.NoError(t, err)

	slot, wasSpilled := a.Free(r)
	assert.False(t, wasSpilled)
	assert.Nil(t, slot)

	r2, err := a.Allocate(GPR, true)
	require.NoError(t, err)
	assert.Equal(t, r, r2, "freed register should be reused before a fresh one")
}

func TestAllocateSpillsWhenClassExhausted(t *testing.T) {
	frame := locals.NewFrame()
	stats := &ir.Stats{}
	a := New(frame, stats)
	a.UnlockCalleeSaved()

	seen := map[ir.Register]bool{}
	for i := 0; i < len(gprPool); i++ {
		r, err := a.Allocate(GPR, true)
		require.NoError(t, err)
		seen[r] = true
	}
	require.Len(t, seen, len(gprPool), "every GPR should be distinct before exhaustion")

	_, err := a.Allocate(GPR, true)
	require.NoError(t, err, "allocating one more than the pool size must spill rather than fail")
	assert.Equal(t, int64(1), stats.Spills())
}

func TestPeakPressureTracked(t *testing.T) {
	stats := &ir.Stats{}
	a := New(locals.NewFrame(), stats)
	r1, _ := a.Allocate(GPR, true)
	_, _ = a.Allocate(GPR, true)
	assert.Equal(t, int64(2), stats.PeakRegisters())

	a.Free(r1)
	_, _ = a.Allocate(GPR, true)
	assert.Equal(t, int64(2), stats.PeakRegisters(), "peak tracks the high-water mark, not the current count")
}
