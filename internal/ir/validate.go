package ir

import "fmt"

// Validate runs the self-validation pass every successfully analyzed
// program's emitted IR must pass: every operand satisfies its type's
// constraints — a memory operand's scale is one of {1,2,4,8}, every
// register operand indexes a real register in the file, and every label
// operand names something (§8 property 7).
func (b *Buffer) Validate() error {
	for i, in := range b.instrs {
		for j, op := range in.Operands {
			if err := validateOperand(op); err != nil {
				return fmt.Errorf("instruction %d, operand %d (%s): %w", i, j, in.Opcode, err)
			}
		}
	}
	return nil
}

func validateOperand(op Operand) error {
	switch op.Kind {
	case OperandRegister:
		if !op.Reg.Valid() {
			return fmt.Errorf("invalid register %v", op.Reg)
		}
	case OperandMemory:
		if !op.Mem.Base.Valid() {
			return fmt.Errorf("invalid base register %v", op.Mem.Base)
		}
		if op.Mem.Index != None {
			if !op.Mem.Index.Valid() {
				return fmt.Errorf("invalid index register %v", op.Mem.Index)
			}
			if !validScale(op.Mem.Scale) {
				return fmt.Errorf("invalid scale %d, must be 1, 2, 4, or 8", op.Mem.Scale)
			}
		} else if op.Mem.Scale != 0 {
			return fmt.Errorf("scale %d set without an index register", op.Mem.Scale)
		}
	case OperandLabel:
		if op.Label == "" {
			return fmt.Errorf("label operand has empty name")
		}
	case OperandImmediate:
		// any i64 is valid
	default:
		return fmt.Errorf("unknown operand kind %d", op.Kind)
	}
	return nil
}
