// Package locals is the per-function local-variable stack-slot manager:
// every `let` binding and parameter gets a slot relative to the frame
// pointer, assigned top-down starting at -size, aligned to its type's
// natural alignment (§4.6).
package locals

import "fmt"

// Slot is one local variable's location in the current stack frame.
type Slot struct {
	Name        string
	Offset      int32 // relative to the frame pointer; always negative
	Size        int32
	Align       int32
	IsParameter bool
}

// Frame assigns and tracks slots for a single function activation. Not safe
// for concurrent use; the generator owns one Frame per function it lowers.
type Frame struct {
	slots    map[string]*Slot
	order    []string
	cursor   int32 // next free offset from the frame pointer, always <= 0
	maxAlign int32
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{slots: map[string]*Slot{}, maxAlign: 8}
}

// Allocate reserves a new slot of the given size/alignment for name and
// returns it. Allocating the same name twice is a programmer error in the
// generator (shadowing must introduce a fresh scope, not reuse a slot) and
// panics.
func (f *Frame) Allocate(name string, size, align int32, isParameter bool) *Slot {
	if _, exists := f.slots[name]; exists {
		panic(fmt.Sprintf("locals: slot %q already allocated in this frame", name))
	}
	if align <= 0 {
		align = 1
	}
	f.cursor -= size
	// Round the offset down (more negative) to satisfy alignment: the slot
	// must start at an address that is a multiple of align below the frame
	// pointer.
	if rem := (-f.cursor) % align; rem != 0 {
		f.cursor -= align - rem
	}
	if align > f.maxAlign {
		f.maxAlign = align
	}
	s := &Slot{Name: name, Offset: f.cursor, Size: size, Align: align, IsParameter: isParameter}
	f.slots[name] = s
	f.order = append(f.order, name)
	return s
}

// Lookup returns the slot for name, if one has been allocated.
func (f *Frame) Lookup(name string) (*Slot, bool) {
	s, ok := f.slots[name]
	return s, ok
}

// Slots returns every allocated slot in allocation order.
func (f *Frame) Slots() []*Slot {
	out := make([]*Slot, len(f.order))
	for i, name := range f.order {
		out[i] = f.slots[name]
	}
	return out
}

// FrameSize returns the total stack space to reserve in the prologue: the
// magnitude of the lowest offset in use, rounded up to the frame's maximum
// required alignment so the stack pointer stays aligned after the reservation.
func (f *Frame) FrameSize() int32 {
	size := -f.cursor
	if rem := size % f.maxAlign; rem != 0 {
		size += f.maxAlign - rem
	}
	return size
}
