package ir

import (
	"fmt"
	"strings"
)

// Buffer is the flat instruction sequence the generator appends to; it
// owns no register allocation or label-resolution state of its own — those
// live in internal/regalloc and internal/label and write back into Buffer
// operands once resolved.
type Buffer struct {
	instrs []Instruction
}

// NewBuffer returns an empty instruction buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Emit appends an instruction and returns its index, which callers keep
// around to patch a branch target once the destination label is resolved.
func (b *Buffer) Emit(op Opcode, operands ...Operand) int {
	b.instrs = append(b.instrs, Instruction{Opcode: op, Operands: operands})
	return len(b.instrs) - 1
}

// EmitWithComment is Emit plus an attached disassembly comment.
func (b *Buffer) EmitWithComment(comment string, op Opcode, operands ...Operand) int {
	idx := b.Emit(op, operands...)
	b.instrs[idx].Comment = comment
	return idx
}

// SetHint attaches a static branch-prediction hint to the instruction at idx.
func (b *Buffer) SetHint(idx int, hint BranchHint) {
	b.instrs[idx].Hint = hint
}

// PatchOperand replaces operand operandIdx of the instruction at idx, used
// to back-fill a Label operand once its address is known, or a register
// operand once the allocator assigns it.
func (b *Buffer) PatchOperand(idx, operandIdx int, op Operand) {
	b.instrs[idx].Operands[operandIdx] = op
}

// Len returns the number of instructions emitted so far; callers use this
// as the address of "the next instruction" when defining a label.
func (b *Buffer) Len() int { return len(b.instrs) }

// At returns the instruction at idx.
func (b *Buffer) At(idx int) Instruction { return b.instrs[idx] }

// Instructions returns the full instruction sequence.
func (b *Buffer) Instructions() []Instruction { return b.instrs }

func (b *Buffer) String() string {
	var sb strings.Builder
	for i, in := range b.instrs {
		fmt.Fprintf(&sb, "%d:\t%s\n", i, in)
	}
	return sb.String()
}
