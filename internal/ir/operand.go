package ir

import "fmt"

// OperandKind tags which field of Operand is live.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandMemory
	OperandLabel
)

// Memory is a scaled-index addressing mode: [Base + Index*Scale + Displacement].
// Index is None when the addressing mode has no index register, in which
// case Scale is ignored by the generator and must be 0.
type Memory struct {
	Base         Register
	Index        Register
	Scale        int
	Displacement int32
}

func (m Memory) String() string {
	s := fmt.Sprintf("[%s", m.Base)
	if m.Index != None {
		s += fmt.Sprintf("+%s*%d", m.Index, m.Scale)
	}
	if m.Displacement != 0 {
		s += fmt.Sprintf("%+d", m.Displacement)
	}
	return s + "]"
}

// Operand is one argument to an Instruction: a register, an immediate i64,
// a memory reference, or a not-yet-resolved label.
type Operand struct {
	Kind  OperandKind
	Reg   Register
	Imm   int64
	Mem   Memory
	Label string
}

// Reg builds a register operand.
func Reg(r Register) Operand { return Operand{Kind: OperandRegister, Reg: r} }

// Imm builds an immediate operand.
func Imm(v int64) Operand { return Operand{Kind: OperandImmediate, Imm: v} }

// Mem builds a memory operand with no index register.
func Mem(base Register, disp int32) Operand {
	return Operand{Kind: OperandMemory, Mem: Memory{Base: base, Displacement: disp}}
}

// MemIndexed builds a scaled-index memory operand.
func MemIndexed(base, index Register, scale int, disp int32) Operand {
	return Operand{Kind: OperandMemory, Mem: Memory{Base: base, Index: index, Scale: scale, Displacement: disp}}
}

// Lab builds a label operand, resolved later by the label manager.
func Lab(name string) Operand { return Operand{Kind: OperandLabel, Label: name} }

func (op Operand) String() string {
	switch op.Kind {
	case OperandRegister:
		return op.Reg.String()
	case OperandImmediate:
		return fmt.Sprintf("%d", op.Imm)
	case OperandMemory:
		return op.Mem.String()
	case OperandLabel:
		return op.Label
	default:
		return "<bad operand>"
	}
}

// validScale reports whether s is one of the four scale factors an x86-64
// SIB byte can encode.
func validScale(s int) bool {
	switch s {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}
