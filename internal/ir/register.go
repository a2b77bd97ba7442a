// Package ir is the flat, architecture-agnostic register-based IR emitted by
// the code generator: an enumerated abstract register file, a small opcode
// set modeled on x86-64 AT&T-style mnemonics, and a linear instruction
// buffer with a self-validation pass. No text formatter lives here; turning
// a Buffer into assembly for a concrete ISA is a back-end concern outside
// this module.
package ir

import "fmt"

// Register is one slot of the abstract register file: 16 general-purpose
// registers named after their x86-64 counterparts (so the prologue/epilogue
// and calling-convention code in the generator can refer to them by role
// without a second indirection table), 16 XMM floating-point registers, and
// the None sentinel used where an operand has no register (e.g. an unused
// index in a Memory operand).
type Register int

const (
	None Register = iota
	RAX
	RBX
	RCX
	RDX
	RSI
	RDI
	RBP
	RSP
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	XMM0
	XMM1
	XMM2
	XMM3
	XMM4
	XMM5
	XMM6
	XMM7
	XMM8
	XMM9
	XMM10
	XMM11
	XMM12
	XMM13
	XMM14
	XMM15
	registerCount
)

var registerNames = [...]string{
	None: "none",
	RAX:  "rax", RBX: "rbx", RCX: "rcx", RDX: "rdx",
	RSI: "rsi", RDI: "rdi", RBP: "rbp", RSP: "rsp",
	R8: "r8", R9: "r9", R10: "r10", R11: "r11",
	R12: "r12", R13: "r13", R14: "r14", R15: "r15",
	XMM0: "xmm0", XMM1: "xmm1", XMM2: "xmm2", XMM3: "xmm3",
	XMM4: "xmm4", XMM5: "xmm5", XMM6: "xmm6", XMM7: "xmm7",
	XMM8: "xmm8", XMM9: "xmm9", XMM10: "xmm10", XMM11: "xmm11",
	XMM12: "xmm12", XMM13: "xmm13", XMM14: "xmm14", XMM15: "xmm15",
}

func (r Register) String() string {
	if r < 0 || int(r) >= len(registerNames) || registerNames[r] == "" {
		return fmt.Sprintf("Register(%d)", int(r))
	}
	return registerNames[r]
}

// IsGPR reports whether r is one of the 16 general-purpose registers.
func (r Register) IsGPR() bool { return r >= RAX && r <= R15 }

// IsXMM reports whether r is one of the 16 floating-point registers.
func (r Register) IsXMM() bool { return r >= XMM0 && r <= XMM15 }

// Valid reports whether r is a real register (not the None sentinel) and
// within the enumerated file, the constraint the self-validation pass checks
// for every Register operand (§8 property 7: "register index < count").
func (r Register) Valid() bool { return r.IsGPR() || r.IsXMM() }

// CalleeSaved is the set of registers the prologue must save and the
// epilogue must restore before they can be handed out by the allocator.
var CalleeSaved = map[Register]bool{
	RBP: true, RBX: true, R12: true, R13: true, R14: true, R15: true,
}

// ParamRegisters is the System V AMD64 integer argument order for the first
// six parameters. internal/codegen passes arguments only in these
// registers: it rejects a call with more arguments than this list holds
// and passes no argument on the stack.
var ParamRegisters = []Register{RDI, RSI, RDX, RCX, R8, R9}

// ReturnRegister is the ABI register a function's scalar result is placed
// into before the epilogue runs.
const ReturnRegister = RAX
