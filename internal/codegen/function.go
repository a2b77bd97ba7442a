package codegen

import (
	"fmt"

	"github.com/asthra-lang/asthrac/internal/abi"
	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/ir"
	"github.com/asthra-lang/asthrac/internal/label"
	"github.com/asthra-lang/asthrac/internal/locals"
	"github.com/asthra-lang/asthrac/internal/regalloc"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

// varInfo is what the generator knows about one local binding: its
// backing frame slot and resolved type. elements is non-nil only for a
// local bound directly from a tuple literal (see emitTupleLet in stmt.go):
// since tuples have no nominal TypeID to recover field offsets from, a
// tuple-typed local is decomposed into one slot per element at the
// binding site instead of addressed as a single blob.
type varInfo struct {
	slot     *locals.Slot
	elements []*varInfo
	typeInfo *ast.TypeInfo

	// aliasMem is set instead of slot for a pattern-match binding (match
	// arm, if-let): the name refers directly to a location already
	// computed inside the scrutinee rather than owning a fresh frame slot.
	aliasMem *ir.Operand
}

// mem returns the memory operand backing v, whichever of the two storage
// forms above it uses.
func (v *varInfo) mem() ir.Operand {
	if v.aliasMem != nil {
		return *v.aliasMem
	}
	return ir.Mem(ir.RBP, int32(v.slot.Offset))
}

// loopFrame is the break/continue target pair active inside one loop
// body, pushed and popped as ForStmt bodies nest.
type loopFrame struct {
	breakLabel    string
	continueLabel string
}

// funcGen holds the per-function state a Generator thread-confines to
// lowering exactly one function or method body: its frame, its scratch
// register allocator, its local variable table, and the loop-label stack
// break/continue consult.
type funcGen struct {
	g      *Generator
	frame  *locals.Frame
	regs   *regalloc.Allocator
	vars   map[string]*varInfo
	fnType typesys.TypeID

	sretSlot    *locals.Slot // non-nil when the return type is an aggregate
	retLabel    string
	loops       []loopFrame
	ownerStruct string // "" for a free function; the struct name for a method
}

// emitFunction lowers one function or method body under name (already
// mangled for methods), appending its prologue, body, and epilogue to the
// shared buffer. ownerStruct is the struct a method belongs to ("" for a
// free function), used only to resolve `self`'s type for field access.
func (g *Generator) emitFunction(name string, decl *ast.FuncDecl, fnType typesys.TypeID, ownerStruct string) error {
	fd := g.arena.Get(fnType)
	frame := locals.NewFrame()
	fg := &funcGen{
		g:           g,
		frame:       frame,
		regs:        regalloc.New(frame, g.stats),
		vars:        map[string]*varInfo{},
		fnType:      fnType,
		retLabel:    name + "_epilogue",
		ownerStruct: ownerStruct,
	}

	g.labels.Define(name, g.buf.Len())
	g.stats.AddFunction()
	g.stats.AddBasicBlock()

	reserveIdx := g.buf.EmitWithComment("reserve frame (patched once size is known)", ir.SUB, ir.Reg(ir.RSP), ir.Imm(0))

	returnsAggregate := fd.Return != typesys.NoType && fd.Return != g.arena.Void() && isAggregate(typeInfoOf(g.arena, fd.Return))

	paramRegs := append([]ir.Register(nil), ir.ParamRegisters...)
	if returnsAggregate {
		sretReg := paramRegs[0]
		paramRegs = paramRegs[1:]
		slot := frame.Allocate("__sret", 8, 8, true)
		fg.sretSlot = slot
		g.buf.EmitWithComment("store hidden return pointer", ir.MOV, ir.Mem(ir.RBP, int32(slot.Offset)), ir.Reg(sretReg))
	}

	for i, p := range decl.Params {
		var ptype typesys.TypeID
		if i < len(fd.Params) {
			ptype = fd.Params[i]
		} else {
			ptype = g.arena.Unknown()
		}
		ti := typeInfoOf(g.arena, ptype)
		size := scalarSize(ti)
		if isAggregate(ti) {
			size = ti.Size
		}
		slot := frame.Allocate(p.Name, int32(size), int32(alignOrWord(ti)), true)
		fg.vars[p.Name] = &varInfo{slot: slot, typeInfo: ti}
		if i < len(paramRegs) {
			if isAggregate(ti) {
				// An aggregate parameter arrives by address in the param
				// register; copy its contents into the local slot so the
				// rest of the body can address it uniformly.
				g.buf.Emit(ir.MOV, ir.Reg(ir.RAX), ir.Reg(paramRegs[i]))
				fg.copyAggregate(ir.Mem(ir.RBP, int32(slot.Offset)), ir.Mem(ir.RAX, 0), ti.Size)
			} else {
				g.buf.Emit(ir.MOV, ir.Mem(ir.RBP, int32(slot.Offset)), ir.Reg(paramRegs[i]))
			}
		}
		// Parameters beyond the six register slots would arrive on the
		// caller's stack in a full ABI; this generator's calling
		// convention caps at six, matching §4.4's worked examples.
	}
	if err := fg.emitBlock(decl.Body); err != nil {
		return fmt.Errorf("codegen: function %s: %w", name, err)
	}

	g.labels.Define(fg.retLabel, g.buf.Len())
	frameSize := frame.FrameSize()
	g.buf.PatchOperand(reserveIdx, 1, ir.Imm(int64(frameSize)))
	if frameSize > 0 {
		g.buf.EmitWithComment("deallocate frame", ir.ADD, ir.Reg(ir.RSP), ir.Imm(int64(frameSize)))
	}
	g.buf.Emit(ir.RET)
	return nil
}

// typeInfoOf mirrors sema's own typeInfo() helper (sema is the only other
// place a typesys.TypeID needs flattening into the AST's structural
// mirror), built fresh here since codegen intentionally does not import
// sema's unexported helper.
func typeInfoOf(a *typesys.Arena, id typesys.TypeID) *ast.TypeInfo {
	return &ast.TypeInfo{
		Category: a.Get(id).Category.String(),
		Name:     a.Name(id),
		Size:     a.Size(id),
		Align:    a.Align(id),
	}
}

func alignOrWord(ti *ast.TypeInfo) int64 {
	if ti.Align == 0 {
		return 8
	}
	return ti.Align
}

// bindLocal allocates a frame slot for a new `let` binding of the given
// type and records it in the variable table, replacing any same-named
// outer binding (shadowing, permitted by symtab.InsertSafe for nested
// scopes).
func (fg *funcGen) bindLocal(name string, ti *ast.TypeInfo) *varInfo {
	size := scalarSize(ti)
	if isAggregate(ti) {
		size = ti.Size
		if size == 0 {
			size = 8
		}
	}
	slot := fg.frame.Allocate(uniqueSlotName(fg, name), int32(size), int32(alignOrWord(ti)), false)
	v := &varInfo{slot: slot, typeInfo: ti}
	fg.vars[name] = v
	return v
}

// uniqueSlotName disambiguates repeated let-bindings of the same source
// name in different nested blocks, since locals.Frame.Allocate panics on
// a duplicate name but Asthra freely allows shadowing.
func uniqueSlotName(fg *funcGen, name string) string {
	base := name
	n := 0
	for {
		candidate := base
		if n > 0 {
			candidate = fmt.Sprintf("%s#%d", base, n)
		}
		if _, exists := fg.frame.Lookup(candidate); !exists {
			return candidate
		}
		n++
	}
}

// pushLoop / popLoop / currentLoop manage the break/continue target
// stack; ForStmt is the only looping construct in this core language.
func (fg *funcGen) pushLoop(breakLabel, continueLabel string) {
	fg.loops = append(fg.loops, loopFrame{breakLabel: breakLabel, continueLabel: continueLabel})
}

func (fg *funcGen) popLoop() { fg.loops = fg.loops[:len(fg.loops)-1] }

func (fg *funcGen) currentLoop() (loopFrame, bool) {
	if len(fg.loops) == 0 {
		return loopFrame{}, false
	}
	return fg.loops[len(fg.loops)-1], true
}

// newLabel mints a fresh branch-target name through the shared table,
// scoped by kind the way the teacher's internal/types/env.go scopes
// lookups by table depth instead of by name prefix.
func (fg *funcGen) newLabel(kind label.Kind, prefix string) string {
	return fg.g.labels.Create(kind, prefix).Name
}

// mangleCallee resolves the label a call site should branch to for a
// plain function name, falling back to the FFI/runtime entry-point table
// for predeclared names (log, panic, args) before treating it as an
// ordinary module-local function.
func (g *Generator) mangleCallee(name string) string {
	if entry, ok := abi.RuntimeEntryPoint(name); ok {
		return entry
	}
	return name
}
