package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterClassification(t *testing.T) {
	assert.True(t, RAX.IsGPR())
	assert.False(t, RAX.IsXMM())
	assert.True(t, XMM3.IsXMM())
	assert.False(t, XMM3.IsGPR())
	assert.False(t, None.Valid())
	assert.True(t, RAX.Valid())
	assert.True(t, XMM15.Valid())
}

func TestCalleeSavedAndParamRegisters(t *testing.T) {
	assert.True(t, CalleeSaved[RBP])
	assert.True(t, CalleeSaved[R12])
	assert.False(t, CalleeSaved[RAX])
	require.Len(t, ParamRegisters, 6)
	assert.Equal(t, RDI, ParamRegisters[0])
	assert.Equal(t, ReturnRegister, RAX)
}

func TestOpcodeString(t *testing.T) {
	assert.Equal(t, "mov", MOV.String())
	assert.Equal(t, "jge", JGE.String())
	assert.Equal(t, "<invalid>", Opcode(-1).String())
	assert.True(t, JMP.IsBranch())
	assert.True(t, JE.IsConditionalBranch())
	assert.False(t, JMP.IsConditionalBranch())
	assert.False(t, MOV.IsBranch())
}

func TestBufferEmitAndPatch(t *testing.T) {
	b := NewBuffer()
	b.Emit(MOV, Reg(RAX), Imm(5))
	jmpIdx := b.Emit(JMP, Lab("end"))
	b.EmitWithComment("return value", RET)

	require.Equal(t, 3, b.Len())
	assert.Equal(t, "end", b.At(jmpIdx).Operands[0].Label)

	b.PatchOperand(jmpIdx, 0, Lab("loop_start_1"))
	assert.Equal(t, "loop_start_1", b.At(jmpIdx).Operands[0].Label)
}

func TestValidateAcceptsWellFormedBuffer(t *testing.T) {
	b := NewBuffer()
	b.Emit(MOV, Reg(RAX), Mem(RBP, -8))
	b.Emit(MOV, Reg(RBX), MemIndexed(RBP, RCX, 8, -16))
	require.NoError(t, b.Validate())
}

func TestValidateRejectsInvalidScale(t *testing.T) {
	b := NewBuffer()
	b.Emit(MOV, Reg(RAX), MemIndexed(RBP, RCX, 3, 0))
	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scale")
}

func TestValidateRejectsUnregisteredRegister(t *testing.T) {
	b := NewBuffer()
	b.Emit(MOV, Reg(Register(999)), Imm(1))
	err := b.Validate()
	require.Error(t, err)
}

func TestValidateRejectsEmptyLabel(t *testing.T) {
	b := NewBuffer()
	b.Emit(JMP, Operand{Kind: OperandLabel})
	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label")
}

func TestValidateRejectsNoneRegisterOperand(t *testing.T) {
	b := NewBuffer()
	b.Emit(MOV, Reg(None), Imm(1))
	require.Error(t, b.Validate())
}

func TestStatsAreIndependentCounters(t *testing.T) {
	var s Stats
	s.AddInstruction()
	s.AddInstruction()
	s.AddFunction()
	s.AddSpill()
	s.ObservePressure(4)
	s.ObservePressure(2)
	s.ObservePressure(9)

	assert.Equal(t, int64(2), s.Instructions())
	assert.Equal(t, int64(1), s.Functions())
	assert.Equal(t, int64(1), s.Spills())
	assert.Equal(t, int64(9), s.PeakRegisters())
}
