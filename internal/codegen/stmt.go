package codegen

import (
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/ir"
	"github.com/asthra-lang/asthrac/internal/label"
	"github.com/asthra-lang/asthrac/internal/regalloc"
)

// emitBlock lowers every statement of b in order. Unlike emitBlockValue
// (expr.go), a block used as a statement body discards its trailing
// expression's value rather than returning it.
func (fg *funcGen) emitBlock(b *ast.Block) error {
	return fg.emitStmts(b.Stmts)
}

func (fg *funcGen) emitStmts(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := fg.emitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (fg *funcGen) emitStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.LetStmt:
		return fg.emitLet(n)
	case *ast.ExprStmt:
		return fg.emitExprStmt(n)
	case *ast.ForStmt:
		return fg.emitFor(n)
	case *ast.ReturnStmt:
		return fg.emitReturn(n)
	case *ast.BreakStmt:
		loop, ok := fg.currentLoop()
		if !ok {
			return fmt.Errorf("codegen: break outside a loop")
		}
		fg.g.buf.Emit(ir.JMP, ir.Lab(loop.breakLabel))
		return nil
	case *ast.ContinueStmt:
		loop, ok := fg.currentLoop()
		if !ok {
			return fmt.Errorf("codegen: continue outside a loop")
		}
		fg.g.buf.Emit(ir.JMP, ir.Lab(loop.continueLabel))
		return nil
	default:
		return fmt.Errorf("codegen: statement emission not implemented for %T", s)
	}
}

// emitLet binds Name to a fresh frame slot and materializes Value into it:
// emitInto directly for an aggregate type (no intermediate register ever
// holds the whole value), emitExpr+store for a scalar. A tuple literal
// binding is decomposed into one slot per element instead (varInfo.elements;
// see function.go's doc on varInfo) since tuples carry no nominal TypeID to
// recover field offsets from later.
func (fg *funcGen) emitLet(n *ast.LetStmt) error {
	if tup, ok := n.Value.(*ast.TupleLiteralExpr); ok {
		return fg.emitTupleLet(n.Name, tup)
	}
	ti := n.Value.Type()
	v := fg.bindLocal(n.Name, ti)
	dst := ir.Mem(ir.RBP, int32(v.slot.Offset))
	return fg.emitValueInto(dst, n.Value)
}

func (fg *funcGen) emitTupleLet(name string, tup *ast.TupleLiteralExpr) error {
	elements := make([]*varInfo, len(tup.Elements))
	for i, el := range tup.Elements {
		elName := fmt.Sprintf("%s.%d", name, i)
		ev := fg.bindLocal(elName, el.Type())
		if err := fg.emitValueInto(ir.Mem(ir.RBP, int32(ev.slot.Offset)), el); err != nil {
			return err
		}
		elements[i] = ev
	}
	fg.vars[name] = &varInfo{elements: elements}
	return nil
}

func (fg *funcGen) emitExprStmt(n *ast.ExprStmt) error {
	if isAggregate(n.Expr.Type()) {
		slot := fg.bindLocal(anonName(), n.Expr.Type())
		return fg.emitInto(ir.Mem(ir.RBP, int32(slot.slot.Offset)), n.Expr)
	}
	reg, err := fg.emitExpr(n.Expr)
	if err != nil {
		return err
	}
	fg.regs.Free(reg)
	return nil
}

// emitFor lowers `for v in range(n)` / `for v in range(lo, hi)` (the only
// two iterator forms this core language accepts; the analyzer rejects
// anything else) into a counted loop: a hidden index slot, a top-of-loop
// comparison against the bound, the body, an increment, and an
// unconditional jump back.
func (fg *funcGen) emitFor(n *ast.ForStmt) error {
	call, ok := n.Iter.(*ast.CallExpr)
	if !ok {
		return fmt.Errorf("codegen: for-loop iterator must be a range(...) call")
	}
	ident, ok := call.Func.(*ast.Identifier)
	if !ok || ident.Name != "range" {
		return fmt.Errorf("codegen: for-loop iterator must be range(...)")
	}

	var loReg ir.Register
	var hiExpr ast.Expr
	switch len(call.Args) {
	case 1:
		r, err := fg.regs.Allocate(regalloc.GPR, true)
		if err != nil {
			return err
		}
		fg.g.buf.Emit(ir.MOV, ir.Reg(r), ir.Imm(0))
		loReg = r
		hiExpr = call.Args[0]
	case 2:
		r, err := fg.emitExpr(call.Args[0])
		if err != nil {
			return err
		}
		loReg = r
		hiExpr = call.Args[1]
	default:
		return fmt.Errorf("codegen: range() takes one or two arguments")
	}

	idxTI := &ast.TypeInfo{Category: "Primitive", Name: "i64", Size: 8, Align: 8}
	idxVar := fg.bindLocal(n.Var, idxTI)
	idxMem := ir.Mem(ir.RBP, int32(idxVar.slot.Offset))
	fg.g.buf.Emit(ir.MOV, idxMem, ir.Reg(loReg))
	fg.regs.Free(loReg)

	hiReg, err := fg.emitExpr(hiExpr)
	if err != nil {
		return err
	}
	hiVar := fg.bindLocal(anonName(), idxTI)
	hiMem := ir.Mem(ir.RBP, int32(hiVar.slot.Offset))
	fg.g.buf.Emit(ir.MOV, hiMem, ir.Reg(hiReg))
	fg.regs.Free(hiReg)

	startLabel := fg.newLabel(label.LoopStart, "for_start")
	bodyLabel := fg.newLabel(label.BranchTarget, "for_body")
	continueLabel := fg.newLabel(label.BranchTarget, "for_continue")
	endLabel := fg.newLabel(label.LoopEnd, "for_end")

	fg.g.labels.Define(startLabel, fg.g.buf.Len())
	fg.g.stats.AddBasicBlock()
	cur, err := fg.regs.Allocate(regalloc.GPR, true)
	if err != nil {
		return err
	}
	fg.g.buf.Emit(ir.MOV, ir.Reg(cur), idxMem)
	hi2, err := fg.regs.Allocate(regalloc.GPR, true)
	if err != nil {
		return err
	}
	fg.g.buf.Emit(ir.MOV, ir.Reg(hi2), hiMem)
	fg.g.buf.Emit(ir.CMP, ir.Reg(cur), ir.Reg(hi2))
	fg.regs.Free(hi2)
	fg.g.buf.Emit(ir.JL, ir.Lab(bodyLabel))
	fg.g.buf.Emit(ir.JMP, ir.Lab(endLabel))

	fg.g.labels.Define(bodyLabel, fg.g.buf.Len())
	fg.g.stats.AddBasicBlock()
	fg.regs.Free(cur)

	fg.pushLoop(endLabel, continueLabel)
	if err := fg.emitBlock(n.Body); err != nil {
		fg.popLoop()
		return err
	}
	fg.popLoop()

	fg.g.labels.Define(continueLabel, fg.g.buf.Len())
	fg.g.stats.AddBasicBlock()
	step, err := fg.regs.Allocate(regalloc.GPR, true)
	if err != nil {
		return err
	}
	fg.g.buf.Emit(ir.MOV, ir.Reg(step), idxMem)
	fg.g.buf.Emit(ir.ADD, ir.Reg(step), ir.Imm(1))
	fg.g.buf.Emit(ir.MOV, idxMem, ir.Reg(step))
	fg.regs.Free(step)
	fg.g.buf.Emit(ir.JMP, ir.Lab(startLabel))

	fg.g.labels.Define(endLabel, fg.g.buf.Len())
	fg.g.stats.AddBasicBlock()
	return nil
}

// emitReturn lowers `return e?;` by placing e's value in the ABI-mandated
// location (RAX/XMM0 for a scalar, the hidden sret destination for an
// aggregate) and jumping to the shared epilogue label rather than emitting
// the epilogue inline at every return site, mirroring the single
// prologue/epilogue shape emitFunction already commits to.
func (fg *funcGen) emitReturn(n *ast.ReturnStmt) error {
	if n.Value == nil {
		fg.g.buf.Emit(ir.JMP, ir.Lab(fg.retLabel))
		return nil
	}
	if isAggregate(n.Value.Type()) {
		if fg.sretSlot == nil {
			return fmt.Errorf("codegen: returning an aggregate value from a function with no sret slot")
		}
		ptrReg, err := fg.regs.Allocate(regalloc.GPR, true)
		if err != nil {
			return err
		}
		fg.g.buf.Emit(ir.MOV, ir.Reg(ptrReg), ir.Mem(ir.RBP, int32(fg.sretSlot.Offset)))
		if err := fg.emitInto(ir.Mem(ptrReg, 0), n.Value); err != nil {
			return err
		}
		fg.regs.Free(ptrReg)
		fg.g.buf.Emit(ir.JMP, ir.Lab(fg.retLabel))
		return nil
	}

	reg, err := fg.emitExpr(n.Value)
	if err != nil {
		return err
	}
	if isFloat(n.Value.Type()) {
		op := ir.MOVSD
		if n.Value.Type().Name == "f32" {
			op = ir.MOVSS
		}
		fg.g.buf.Emit(op, ir.Reg(ir.XMM0), ir.Reg(reg))
	} else {
		fg.g.buf.Emit(ir.MOV, ir.Reg(ir.ReturnRegister), ir.Reg(reg))
	}
	fg.regs.Free(reg)
	fg.g.buf.Emit(ir.JMP, ir.Lab(fg.retLabel))
	return nil
}
