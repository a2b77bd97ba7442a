// Package regalloc is a simple linear-scan allocator over the abstract
// register file (§4.5): it hands out registers from a requested class,
// spilling the least-recently-allocated occupant to a stack slot when the
// class is exhausted, and tracks peak register pressure.
package regalloc

import (
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ir"
	"github.com/asthra-lang/asthrac/internal/locals"
)

// Class is the register class a caller requests: general-purpose for
// integers/pointers, or XMM for floats.
type Class int

const (
	GPR Class = iota
	XMM
)

var gprPool = []ir.Register{
	ir.RAX, ir.RBX, ir.RCX, ir.RDX, ir.RSI, ir.RDI,
	ir.R8, ir.R9, ir.R10, ir.R11, ir.R12, ir.R13, ir.R14, ir.R15,
	// RBP and RSP are frame/stack pointers and never enter this pool.
}

var xmmPool = []ir.Register{
	ir.XMM0, ir.XMM1, ir.XMM2, ir.XMM3, ir.XMM4, ir.XMM5, ir.XMM6, ir.XMM7,
	ir.XMM8, ir.XMM9, ir.XMM10, ir.XMM11, ir.XMM12, ir.XMM13, ir.XMM14, ir.XMM15,
}

func poolFor(c Class) []ir.Register {
	if c == XMM {
		return xmmPool
	}
	return gprPool
}

// Allocator hands out registers for the duration of one function's codegen.
// Not safe for concurrent use; the generator owns one Allocator per
// function, matching §4.5's "thread-confined" requirement.
type Allocator struct {
	frame   *locals.Frame
	stats   *ir.Stats
	inUse   map[ir.Register]int64 // register -> allocation timestamp
	spilled map[ir.Register]*locals.Slot
	clock   int64
	unlock  bool // callee-saved registers available once the prologue has saved them
}

// New returns an allocator that reserves spill slots from frame and reports
// into stats.
func New(frame *locals.Frame, stats *ir.Stats) *Allocator {
	return &Allocator{frame: frame, stats: stats, inUse: map[ir.Register]int64{}, spilled: map[ir.Register]*locals.Slot{}}
}

// UnlockCalleeSaved makes the callee-saved registers (RBP, RBX, R12..R15)
// available to Allocate; the generator calls this once the prologue has
// emitted their saves.
func (a *Allocator) UnlockCalleeSaved() { a.unlock = true }

func (a *Allocator) available(r ir.Register) bool {
	if ir.CalleeSaved[r] && !a.unlock {
		return false
	}
	return true
}

// Allocate returns a free register from class, preferring a caller-saved
// register when callerSaved is true (the common case: a short-lived
// temporary that doesn't need to survive a call) or a callee-saved one when
// callerSaved is false (a value that must still be live after a call). If
// the preferred group has no free register it falls back to the other
// group, and if the whole class is exhausted it spills the
// longest-resident occupant (the one with the smallest allocation
// timestamp, approximating "furthest next use") to a fresh stack slot and
// hands its register to the new owner.
func (a *Allocator) Allocate(class Class, callerSaved bool) (ir.Register, error) {
	pool := poolFor(class)
	a.clock++

	var preferred, fallback []ir.Register
	for _, r := range pool {
		if !a.available(r) {
			continue
		}
		if ir.CalleeSaved[r] == !callerSaved {
			preferred = append(preferred, r)
		} else {
			fallback = append(fallback, r)
		}
	}

	for _, group := range [][]ir.Register{preferred, fallback} {
		for _, r := range group {
			if _, busy := a.inUse[r]; !busy {
				a.inUse[r] = a.clock
				a.observePressure()
				return r, nil
			}
		}
	}

	return a.spillOldest(append(append([]ir.Register(nil), preferred...), fallback...))
}

func (a *Allocator) spillOldest(candidates []ir.Register) (ir.Register, error) {
	victim := ir.None
	var oldest int64
	for _, r := range candidates {
		ts, busy := a.inUse[r]
		if !busy {
			continue
		}
		if victim == ir.None || ts < oldest {
			victim, oldest = r, ts
		}
	}
	if victim == ir.None {
		return ir.None, fmt.Errorf("regalloc: no register available to spill in requested class")
	}
	slot := a.frame.Allocate(fmt.Sprintf("%%spill%d", a.clock), 8, 8, false)
	a.spilled[victim] = slot
	a.stats.AddSpill()
	a.inUse[victim] = a.clock
	a.observePressure()
	return victim, nil
}

// Free marks r available again. If r had been spilled to make room for a
// later allocation, the returned slot is where the generator must emit a
// reload before the next use of the value that previously lived in r.
func (a *Allocator) Free(r ir.Register) (*locals.Slot, bool) {
	delete(a.inUse, r)
	slot, wasSpilled := a.spilled[r]
	delete(a.spilled, r)
	return slot, wasSpilled
}

func (a *Allocator) observePressure() {
	a.stats.ObservePressure(int64(len(a.inUse)))
}
