package codegen

import (
	"fmt"
	"math"

	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/ir"
	"github.com/asthra-lang/asthrac/internal/label"
	"github.com/asthra-lang/asthrac/internal/regalloc"
)

// emitExpr lowers e and returns a scratch register holding its value: for
// a scalar type, the value itself; for an aggregate type, the address of
// a temporary holding it (§4.4: aggregates are always addressed, never
// copied through a register). Callers must regs.Free the result once
// they're done with it.
func (fg *funcGen) emitExpr(e ast.Expr) (ir.Register, error) {
	if isAggregate(e.Type()) {
		slot := fg.bindLocal(anonName(), e.Type())
		if err := fg.emitInto(ir.Mem(ir.RBP, int32(slot.slot.Offset)), e); err != nil {
			return ir.None, err
		}
		reg, err := fg.regs.Allocate(regalloc.GPR, true)
		if err != nil {
			return ir.None, err
		}
		fg.g.buf.Emit(ir.LEA, ir.Reg(reg), ir.Mem(ir.RBP, int32(slot.slot.Offset)))
		return reg, nil
	}

	switch n := e.(type) {
	case *ast.Literal:
		return fg.emitLiteral(n)
	case *ast.Identifier:
		return fg.emitIdentifierLoad(n)
	case *ast.BinaryExpr:
		return fg.emitBinary(n)
	case *ast.UnaryExpr:
		return fg.emitUnary(n)
	case *ast.AssignExpr:
		return fg.emitAssign(n)
	case *ast.CallExpr, *ast.MethodCallExpr, *ast.AssocCallExpr:
		v, err := fg.emitCall(e)
		return v, err
	case *ast.FieldAccessExpr, *ast.IndexExpr:
		mem, cleanup, err := fg.addr(n.(ast.Expr))
		if err != nil {
			return ir.None, err
		}
		defer cleanup()
		return fg.loadScalar(mem, e.Type())
	case *ast.IfExpr:
		return fg.emitIfScalar(n)
	case *ast.IfLetExpr:
		return fg.emitIfLetScalar(n)
	case *ast.MatchExpr:
		return fg.emitMatchScalar(n)
	case *ast.Block:
		return fg.emitBlockValue(n)
	default:
		return ir.None, fmt.Errorf("codegen: expression emission not implemented for %T", e)
	}
}

var anonCounter int

// anonName mints a unique frame-slot name for a compiler-introduced
// temporary, distinct from any source identifier (which never contains
// '$').
func anonName() string {
	anonCounter++
	return fmt.Sprintf("$t%d", anonCounter)
}

func (fg *funcGen) loadScalar(mem ir.Operand, ti *ast.TypeInfo) (ir.Register, error) {
	reg, err := fg.regs.Allocate(classOf(ti), true)
	if err != nil {
		return ir.None, err
	}
	if isFloat(ti) {
		op := ir.MOVSD
		if ti.Name == "f32" {
			op = ir.MOVSS
		}
		fg.g.buf.Emit(op, ir.Reg(reg), mem)
	} else {
		fg.g.buf.Emit(ir.MOV, ir.Reg(reg), mem)
	}
	return reg, nil
}

func (fg *funcGen) emitLiteral(lit *ast.Literal) (ir.Register, error) {
	switch lit.Kind {
	case ast.IntLiteral:
		reg, err := fg.regs.Allocate(regalloc.GPR, true)
		if err != nil {
			return ir.None, err
		}
		fg.g.buf.Emit(ir.MOV, ir.Reg(reg), ir.Imm(toInt64(lit.Value)))
		return reg, nil
	case ast.BoolLiteral:
		reg, err := fg.regs.Allocate(regalloc.GPR, true)
		if err != nil {
			return ir.None, err
		}
		v := int64(0)
		if b, _ := lit.Value.(bool); b {
			v = 1
		}
		fg.g.buf.Emit(ir.MOV, ir.Reg(reg), ir.Imm(v))
		return reg, nil
	case ast.CharLiteral:
		reg, err := fg.regs.Allocate(regalloc.GPR, true)
		if err != nil {
			return ir.None, err
		}
		r, _ := lit.Value.(rune)
		fg.g.buf.Emit(ir.MOV, ir.Reg(reg), ir.Imm(int64(r)))
		return reg, nil
	case ast.FloatLiteral:
		reg, err := fg.regs.Allocate(regalloc.XMM, true)
		if err != nil {
			return ir.None, err
		}
		f, _ := lit.Value.(float64)
		op := ir.MOVSD
		if lit.Suffix == "f32" {
			op = ir.MOVSS
		}
		// A real backend loads float immediates from a rip-relative
		// constant pool; this generator carries the bit pattern in the
		// immediate field and leaves the pool-materialization to the
		// assembler stage, which is outside this module's scope.
		fg.g.buf.EmitWithComment("float constant, bits of "+fmt.Sprintf("%v", f), op, ir.Reg(reg), ir.Imm(int64(math.Float64bits(f))))
		return reg, nil
	case ast.UnitLiteral:
		reg, err := fg.regs.Allocate(regalloc.GPR, true)
		if err != nil {
			return ir.None, err
		}
		fg.g.buf.Emit(ir.XOR, ir.Reg(reg), ir.Reg(reg))
		return reg, nil
	case ast.StringLiteral:
		return ir.None, fmt.Errorf("codegen: string literal constant pooling not implemented")
	default:
		return ir.None, fmt.Errorf("codegen: unknown literal kind %v", lit.Kind)
	}
}

func toInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case uint64:
		return int64(x)
	default:
		return 0
	}
}

func (fg *funcGen) emitIdentifierLoad(id *ast.Identifier) (ir.Register, error) {
	v, ok := fg.vars[id.Name]
	if !ok {
		return ir.None, fmt.Errorf("codegen: undefined local %q", id.Name)
	}
	return fg.loadScalar(v.mem(), v.typeInfo)
}

// addr resolves e to the memory operand its value (or, for an aggregate,
// its whole blob) lives at, plus a cleanup releasing any scratch register
// the resolution allocated along the way (e.g. a dynamic array index).
func (fg *funcGen) addr(e ast.Expr) (ir.Operand, func(), error) {
	switch n := e.(type) {
	case *ast.Identifier:
		v, ok := fg.vars[n.Name]
		if !ok {
			return ir.Operand{}, nil, fmt.Errorf("codegen: undefined local %q", n.Name)
		}
		return v.mem(), func() {}, nil

	case *ast.FieldAccessExpr:
		baseMem, cleanup, err := fg.addr(n.Object)
		if err != nil {
			return ir.Operand{}, nil, err
		}
		objTI := n.Object.Type()
		structID, ok := fg.g.sema.LookupStruct(objTI.Name)
		if !ok {
			cleanup()
			return ir.Operand{}, nil, fmt.Errorf("codegen: field access on non-struct type %q", objTI.Name)
		}
		desc := fg.g.arena.Get(structID)
		offsets := fg.g.arena.FieldOffsets(structID)
		idx := -1
		for i, f := range desc.Fields {
			if f.Name == n.Field {
				idx = i
				break
			}
		}
		if idx < 0 {
			cleanup()
			return ir.Operand{}, nil, fmt.Errorf("codegen: struct %q has no field %q", objTI.Name, n.Field)
		}
		return offsetMem(baseMem, offsets[idx]), cleanup, nil

	case *ast.IndexExpr:
		return fg.indexAddress(n)

	case *ast.UnaryExpr:
		if n.Op != "*" {
			return ir.Operand{}, nil, fmt.Errorf("codegen: %q is not an addressable unary form", n.Op)
		}
		ptrReg, err := fg.emitExpr(n.Operand)
		if err != nil {
			return ir.Operand{}, nil, err
		}
		return ir.Mem(ptrReg, 0), func() { fg.regs.Free(ptrReg) }, nil

	default:
		return ir.Operand{}, nil, fmt.Errorf("codegen: %T is not an addressable expression", e)
	}
}

func (fg *funcGen) indexAddress(ix *ast.IndexExpr) (ir.Operand, func(), error) {
	baseMem, baseCleanup, err := fg.addr(ix.Base)
	if err != nil {
		return ir.Operand{}, nil, err
	}
	elemSize := ix.Type().Size
	if lit, ok := ix.Index.(*ast.Literal); ok && lit.Kind == ast.IntLiteral {
		off := toInt64(lit.Value) * elemSize
		return offsetMem(baseMem, off), baseCleanup, nil
	}

	idxReg, err := fg.emitExpr(ix.Index)
	if err != nil {
		baseCleanup()
		return ir.Operand{}, nil, err
	}
	if elemSize == 1 || elemSize == 2 || elemSize == 4 || elemSize == 8 {
		mem := ir.MemIndexed(baseMem.Mem.Base, idxReg, int(elemSize), baseMem.Mem.Displacement)
		return mem, func() { fg.regs.Free(idxReg); baseCleanup() }, nil
	}

	tmp, err := fg.regs.Allocate(regalloc.GPR, true)
	if err != nil {
		baseCleanup()
		return ir.Operand{}, nil, err
	}
	fg.g.buf.Emit(ir.LEA, ir.Reg(tmp), baseMem)
	fg.g.buf.Emit(ir.IMUL, ir.Reg(idxReg), ir.Imm(elemSize))
	fg.g.buf.Emit(ir.ADD, ir.Reg(tmp), ir.Reg(idxReg))
	fg.regs.Free(idxReg)
	return ir.Mem(tmp, 0), func() { fg.regs.Free(tmp); baseCleanup() }, nil
}

func (fg *funcGen) emitAssign(a *ast.AssignExpr) (ir.Register, error) {
	dst, cleanup, err := fg.addr(a.Target)
	if err != nil {
		return ir.None, err
	}
	defer cleanup()
	if err := fg.emitValueInto(dst, a.Value); err != nil {
		return ir.None, err
	}
	return fg.loadScalarOrZero(dst, a.Type())
}

// loadScalarOrZero re-reads the just-assigned value for AssignExpr's use
// as an expression; assignment of an aggregate type has no sensible
// register result, so it returns a zeroed placeholder register instead
// (only reachable when an aggregate assignment's result is itself
// discarded, the only use §4.3's statement-expression rule permits).
func (fg *funcGen) loadScalarOrZero(mem ir.Operand, ti *ast.TypeInfo) (ir.Register, error) {
	if isAggregate(ti) {
		reg, err := fg.regs.Allocate(regalloc.GPR, true)
		if err != nil {
			return ir.None, err
		}
		fg.g.buf.Emit(ir.XOR, ir.Reg(reg), ir.Reg(reg))
		return reg, nil
	}
	return fg.loadScalar(mem, ti)
}

func (fg *funcGen) emitUnary(u *ast.UnaryExpr) (ir.Register, error) {
	switch u.Op {
	case "-":
		reg, err := fg.emitExpr(u.Operand)
		if err != nil {
			return ir.None, err
		}
		if isFloat(u.Type()) {
			negOne, err := fg.regs.Allocate(regalloc.XMM, true)
			if err != nil {
				return ir.None, err
			}
			fg.g.buf.Emit(ir.MOVSD, ir.Reg(negOne), ir.Imm(int64(math.Float64bits(-1))))
			op := ir.MULSD
			if u.Type().Name == "f32" {
				op = ir.MULSS
			}
			fg.g.buf.Emit(op, ir.Reg(reg), ir.Reg(negOne))
			fg.regs.Free(negOne)
			return reg, nil
		}
		zero, err := fg.regs.Allocate(regalloc.GPR, true)
		if err != nil {
			return ir.None, err
		}
		fg.g.buf.Emit(ir.XOR, ir.Reg(zero), ir.Reg(zero))
		fg.g.buf.Emit(ir.SUB, ir.Reg(zero), ir.Reg(reg))
		fg.regs.Free(reg)
		return zero, nil
	case "!":
		reg, err := fg.emitExpr(u.Operand)
		if err != nil {
			return ir.None, err
		}
		fg.g.buf.Emit(ir.XOR, ir.Reg(reg), ir.Imm(1))
		return reg, nil
	case "&", "&mut":
		mem, cleanup, err := fg.addr(u.Operand)
		if err != nil {
			return ir.None, err
		}
		defer cleanup()
		reg, err := fg.regs.Allocate(regalloc.GPR, true)
		if err != nil {
			return ir.None, err
		}
		fg.g.buf.Emit(ir.LEA, ir.Reg(reg), mem)
		return reg, nil
	case "*":
		mem, cleanup, err := fg.addr(u)
		if err != nil {
			return ir.None, err
		}
		defer cleanup()
		return fg.loadScalar(mem, u.Type())
	default:
		return ir.None, fmt.Errorf("codegen: unsupported unary operator %q", u.Op)
	}
}

var intBinaryOps = map[string]ir.Opcode{
	"+": ir.ADD, "-": ir.SUB, "*": ir.IMUL, "/": ir.DIV,
	"&": ir.AND, "|": ir.OR, "^": ir.XOR, "<<": ir.SHL, ">>": ir.SHR,
}

var floatBinaryOps = map[string][2]ir.Opcode{ // [f64 opcode, f32 opcode]
	"+": {ir.ADDSD, ir.ADDSS}, "-": {ir.SUBSD, ir.SUBSS},
	"*": {ir.MULSD, ir.MULSS}, "/": {ir.DIVSD, ir.DIVSS},
}

var comparisonJumps = map[string]ir.Opcode{
	"==": ir.JE, "!=": ir.JNE, "<": ir.JL, "<=": ir.JLE, ">": ir.JG, ">=": ir.JGE,
}

func (fg *funcGen) emitBinary(b *ast.BinaryExpr) (ir.Register, error) {
	switch b.Op {
	case "&&", "||":
		return fg.emitShortCircuit(b)
	}
	if _, ok := comparisonJumps[b.Op]; ok {
		return fg.emitComparison(b)
	}

	left, err := fg.emitExpr(b.Left)
	if err != nil {
		return ir.None, err
	}
	right, err := fg.emitExpr(b.Right)
	if err != nil {
		return ir.None, err
	}
	defer fg.regs.Free(right)

	if isFloat(b.Type()) {
		ops, ok := floatBinaryOps[b.Op]
		if !ok {
			return ir.None, fmt.Errorf("codegen: unsupported float operator %q", b.Op)
		}
		op := ops[0]
		if b.Type().Name == "f32" {
			op = ops[1]
		}
		fg.g.buf.Emit(op, ir.Reg(left), ir.Reg(right))
		return left, nil
	}
	op, ok := intBinaryOps[b.Op]
	if !ok {
		return ir.None, fmt.Errorf("codegen: unsupported integer operator %q", b.Op)
	}
	fg.g.buf.Emit(op, ir.Reg(left), ir.Reg(right))
	return left, nil
}

// emitComparison materializes op's boolean result as 0/1 in a GPR since
// the opcode set has no SETcc form: compare, jump on the true case, fall
// through to the false store.
func (fg *funcGen) emitComparison(b *ast.BinaryExpr) (ir.Register, error) {
	left, err := fg.emitExpr(b.Left)
	if err != nil {
		return ir.None, err
	}
	right, err := fg.emitExpr(b.Right)
	if err != nil {
		return ir.None, err
	}
	fg.g.buf.Emit(ir.CMP, ir.Reg(left), ir.Reg(right))
	fg.regs.Free(right)

	trueLabel := fg.newLabel(ir2branch, "cmp_true")
	endLabel := fg.newLabel(ir2branch, "cmp_end")
	fg.g.buf.Emit(comparisonJumps[b.Op], ir.Lab(trueLabel))
	fg.g.buf.Emit(ir.MOV, ir.Reg(left), ir.Imm(0))
	fg.g.buf.Emit(ir.JMP, ir.Lab(endLabel))
	fg.g.labels.Define(trueLabel, fg.g.buf.Len())
	fg.g.buf.Emit(ir.MOV, ir.Reg(left), ir.Imm(1))
	fg.g.labels.Define(endLabel, fg.g.buf.Len())
	return left, nil
}

// emitShortCircuit lowers && / || without evaluating the right operand
// when the left one already decides the result.
func (fg *funcGen) emitShortCircuit(b *ast.BinaryExpr) (ir.Register, error) {
	left, err := fg.emitExpr(b.Left)
	if err != nil {
		return ir.None, err
	}
	shortLabel := fg.newLabel(ir2branch, "sc_short")
	endLabel := fg.newLabel(ir2branch, "sc_end")
	fg.g.buf.Emit(ir.TEST, ir.Reg(left), ir.Reg(left))
	if b.Op == "&&" {
		fg.g.buf.Emit(ir.JE, ir.Lab(shortLabel))
	} else {
		fg.g.buf.Emit(ir.JNE, ir.Lab(shortLabel))
	}
	right, err := fg.emitExpr(b.Right)
	if err != nil {
		return ir.None, err
	}
	fg.g.buf.Emit(ir.MOV, ir.Reg(left), ir.Reg(right))
	fg.regs.Free(right)
	fg.g.buf.Emit(ir.JMP, ir.Lab(endLabel))
	fg.g.labels.Define(shortLabel, fg.g.buf.Len())
	// left already holds 0 (for &&) or nonzero (for ||); leave it as is.
	fg.g.labels.Define(endLabel, fg.g.buf.Len())
	return left, nil
}

// ir2branch is the Kind newLabel mints intra-expression branch targets
// under; comparisons and short-circuit operators don't correspond to a
// source-level loop or function, so label.BranchTarget is the only kind
// that fits.
const ir2branch = label.BranchTarget

func (fg *funcGen) emitBlockValue(b *ast.Block) (ir.Register, error) {
	if err := fg.emitStmts(b.Stmts[:max(0, len(b.Stmts)-1)]); err != nil {
		return ir.None, err
	}
	if len(b.Stmts) == 0 {
		return fg.emitLiteral(&ast.Literal{Kind: ast.UnitLiteral})
	}
	last := b.Stmts[len(b.Stmts)-1]
	if es, ok := last.(*ast.ExprStmt); ok {
		return fg.emitExpr(es.Expr)
	}
	if err := fg.emitStmt(last); err != nil {
		return ir.None, err
	}
	return fg.emitLiteral(&ast.Literal{Kind: ast.UnitLiteral})
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
