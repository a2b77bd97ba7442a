package codegen

import (
	"fmt"

	"github.com/asthra-lang/asthrac/internal/abi"
	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/ir"
	"github.com/asthra-lang/asthrac/internal/label"
	"github.com/asthra-lang/asthrac/internal/regalloc"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

// loc is a located value somewhere in memory, carrying its concrete
// typesys.TypeID alongside the structural ast.TypeInfo whenever one is
// known. Pattern matching needs the real TypeID to recover field/variant
// offsets from the arena; id is typesys.NoType when the value's nominal
// identity can't be recovered from a bare ast.TypeInfo (the same gap
// function.go's varInfo doc describes for a bare tuple-typed local).
type loc struct {
	mem ir.Operand
	ti  *ast.TypeInfo
	id  typesys.TypeID
}

// resolveLoc evaluates e, materializing it to memory if it isn't already
// addressable, and resolves its concrete TypeID when e's type is a named
// struct or enum.
func (fg *funcGen) resolveLoc(e ast.Expr) (loc, func(), error) {
	var mem ir.Operand
	var cleanup func()
	switch e.(type) {
	case *ast.Identifier, *ast.FieldAccessExpr, *ast.IndexExpr:
		m, c, err := fg.addr(e)
		if err != nil {
			return loc{}, nil, err
		}
		mem, cleanup = m, c
	default:
		ti := e.Type()
		v := fg.bindLocal(anonName(), ti)
		mem = v.mem()
		if err := fg.emitValueInto(mem, e); err != nil {
			return loc{}, nil, err
		}
		cleanup = func() {}
	}

	ti := e.Type()
	id := typesys.NoType
	switch ti.Category {
	case "Struct":
		if sid, ok := fg.g.sema.LookupStruct(ti.Name); ok {
			id = sid
		}
	case "Enum":
		if eid, ok := fg.g.sema.LookupEnum(ti.Name); ok {
			id = eid
		}
	case "GenericInstance", "Result":
		// Option<T>'s concrete instantiation and Result<A,B> are never
		// registered in sema's own enums table (built-in sugar, §9); both
		// are hash-consed by rendered name, which ti.Name already is.
		if eid, ok := fg.g.arena.ByCanon(ti.Name); ok {
			id = eid
		}
	}
	return loc{mem: mem, ti: ti, id: id}, cleanup, nil
}

// testPattern emits code testing l against pat, binding every identifier
// pat introduces as it goes, and jumping to failLabel the moment any part
// of pat is proven not to match. Bindings made before a later sub-test
// fails are harmless: they occupy their own frame slots or alias existing
// storage and are simply never read down the failure path.
func (fg *funcGen) testPattern(l loc, pat ast.Pattern, failLabel string) error {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return nil

	case *ast.IdentPattern:
		mem := l.mem
		fg.vars[p.Name] = &varInfo{aliasMem: &mem, typeInfo: l.ti}
		return nil

	case *ast.LiteralPattern:
		return fg.testLiteralPattern(l, p, failLabel)

	case *ast.VariantPattern:
		return fg.testVariantPattern(l, p, failLabel)

	case *ast.StructPattern:
		return fg.testStructPattern(l, p, failLabel)

	case *ast.TuplePattern:
		return fg.testTuplePattern(l, p, failLabel)

	default:
		return fmt.Errorf("codegen: pattern emission not implemented for %T", pat)
	}
}

func (fg *funcGen) testLiteralPattern(l loc, p *ast.LiteralPattern, failLabel string) error {
	reg, err := fg.loadScalar(l.mem, l.ti)
	if err != nil {
		return err
	}
	defer fg.regs.Free(reg)
	var want int64
	switch p.Kind {
	case ast.IntLiteral, ast.CharLiteral:
		want = toInt64(p.Value)
	case ast.BoolLiteral:
		if b, _ := p.Value.(bool); b {
			want = 1
		}
	default:
		return fmt.Errorf("codegen: %v literal patterns are not supported", p.Kind)
	}
	fg.g.buf.Emit(ir.CMP, ir.Reg(reg), ir.Imm(want))
	fg.g.buf.Emit(ir.JNE, ir.Lab(failLabel))
	return nil
}

func (fg *funcGen) testVariantPattern(l loc, p *ast.VariantPattern, failLabel string) error {
	// l.id, when resolveLoc already recovered it from the scrutinee's own
	// type, is the concrete instantiation (Option<i32>, not the bare
	// Option base) — preferring it over a name-based lookup is what lets
	// an Option/Result-typed scrutinee's payload type come back already
	// substituted, the same way testStructPattern prefers l.id.
	enumID := l.id
	if enumID == typesys.NoType {
		enumName := p.EnumName
		if enumName == "" {
			enumName = l.ti.Name
		}
		eid, ok := fg.g.sema.ResolveEnumByName(enumName)
		if !ok {
			return fmt.Errorf("codegen: undefined enum %q in pattern", enumName)
		}
		enumID = eid
	}
	variant, ok := fg.g.sema.ResolveVariant(enumID, p.Variant)
	if !ok {
		return fmt.Errorf("codegen: enum %q has no variant %q", fg.g.arena.Name(enumID), p.Variant)
	}

	discReg, err := fg.regs.Allocate(regalloc.GPR, true)
	if err != nil {
		return err
	}
	fg.g.buf.Emit(ir.MOV, ir.Reg(discReg), l.mem)
	fg.g.buf.Emit(ir.CMP, ir.Reg(discReg), ir.Imm(int64(variant.Discriminant)))
	fg.regs.Free(discReg)
	fg.g.buf.Emit(ir.JNE, ir.Lab(failLabel))

	if p.Sub == nil {
		return nil
	}
	payloadAlign := fg.g.arena.Align(variant.AssocType)
	payloadOff := abi.PayloadOffset(payloadAlign)
	subLoc := loc{
		mem: offsetMem(l.mem, payloadOff),
		ti:  typeInfoOf(fg.g.arena, variant.AssocType),
		id:  variant.AssocType,
	}
	return fg.testPattern(subLoc, p.Sub, failLabel)
}

func (fg *funcGen) testStructPattern(l loc, p *ast.StructPattern, failLabel string) error {
	structID := l.id
	if structID == typesys.NoType {
		sid, ok := fg.g.sema.LookupStruct(p.TypeName)
		if !ok {
			return fmt.Errorf("codegen: undefined struct %q in pattern", p.TypeName)
		}
		structID = sid
	}
	desc := fg.g.arena.Get(structID)
	offsets := fg.g.arena.FieldOffsets(structID)
	for _, fp := range p.Fields {
		idx := -1
		for i, f := range desc.Fields {
			if f.Name == fp.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("codegen: struct %q has no field %q", desc.Name, fp.Name)
		}
		subLoc := loc{
			mem: offsetMem(l.mem, offsets[idx]),
			ti:  typeInfoOf(fg.g.arena, desc.Fields[idx].Type),
			id:  desc.Fields[idx].Type,
		}
		if err := fg.testPattern(subLoc, fp.Pattern, failLabel); err != nil {
			return err
		}
	}
	return nil
}

// testTuplePattern requires l.id to be the tuple's own TypeID so the
// arena can report element offsets; this is always available when the
// tuple is reached as an enum payload or struct field (its TypeID comes
// straight from the variant/field descriptor) but not for a bare
// tuple-typed local, the same gap documented on varInfo in function.go.
func (fg *funcGen) testTuplePattern(l loc, p *ast.TuplePattern, failLabel string) error {
	if l.id == typesys.NoType || fg.g.arena.Get(l.id).Category != typesys.CatTuple {
		return fmt.Errorf("codegen: tuple pattern matching requires a nominal tuple TypeID (bare tuple locals are not supported)")
	}
	elemIDs := fg.g.arena.Get(l.id).Elements
	offsets := fg.g.arena.FieldOffsets(l.id)
	for i, sub := range p.Elements {
		subLoc := loc{
			mem: offsetMem(l.mem, offsets[i]),
			ti:  typeInfoOf(fg.g.arena, elemIDs[i]),
			id:  elemIDs[i],
		}
		if err := fg.testPattern(subLoc, sub, failLabel); err != nil {
			return err
		}
	}
	return nil
}

// emitTrap calls the runtime panic entry point for a match that falls
// through every arm at run time. The analyzer's exhaustiveness check only
// warns, so a non-exhaustive match still reaches codegen: this trap is
// reachable for such a match as well as for a guarded arm whose guard
// fails at run time.
func (fg *funcGen) emitTrap() {
	fg.g.buf.EmitWithComment("unreachable: non-exhaustive match at runtime", ir.CALL, ir.Lab(abi.Panic))
}

// lowerMatchArms evaluates scrutinee once and tests each arm's pattern in
// source order, calling land with the first matching (and guard-passing)
// arm's body. This is a linear test chain rather than the column-switch
// structure internal/dtree compiles (dtree is used by the analyzer for
// exhaustiveness, not consulted here): simpler to lower correctly, at the
// cost of re-testing a shared discriminant across sibling arms that a
// smarter generator would switch on once.
func (fg *funcGen) lowerMatchArms(scrutinee ast.Expr, arms []*ast.MatchArm, land func(ast.Expr) error) error {
	l, cleanup, err := fg.resolveLoc(scrutinee)
	if err != nil {
		return err
	}
	defer cleanup()

	endLabel := fg.newLabel(label.BranchTarget, "match_end")
	for i, arm := range arms {
		nextLabel := fg.newLabel(label.BranchTarget, fmt.Sprintf("match_arm%d_next", i))
		if err := fg.testPattern(l, arm.Pattern, nextLabel); err != nil {
			return err
		}
		if arm.Guard != nil {
			guardReg, err := fg.emitExpr(arm.Guard)
			if err != nil {
				return err
			}
			fg.g.buf.Emit(ir.TEST, ir.Reg(guardReg), ir.Reg(guardReg))
			fg.regs.Free(guardReg)
			fg.g.buf.Emit(ir.JE, ir.Lab(nextLabel))
		}
		if err := land(arm.Body); err != nil {
			return err
		}
		fg.g.buf.Emit(ir.JMP, ir.Lab(endLabel))
		fg.g.labels.Define(nextLabel, fg.g.buf.Len())
	}
	fg.emitTrap()
	fg.g.labels.Define(endLabel, fg.g.buf.Len())
	return nil
}

func (fg *funcGen) emitMatchScalar(n *ast.MatchExpr) (ir.Register, error) {
	v := fg.bindLocal(anonName(), n.Type())
	mem := v.mem()
	land := func(body ast.Expr) error { return fg.emitValueInto(mem, body) }
	if err := fg.lowerMatchArms(n.Scrutinee, n.Arms, land); err != nil {
		return ir.None, err
	}
	return fg.loadScalar(mem, n.Type())
}

func (fg *funcGen) emitMatchInto(dst ir.Operand, n *ast.MatchExpr) error {
	land := func(body ast.Expr) error { return fg.emitValueInto(dst, body) }
	return fg.lowerMatchArms(n.Scrutinee, n.Arms, land)
}

// emitIfCommon lowers a plain if/else (no pattern) by testing Cond and
// handing Then/Else to land; Then is always a *Block and Else, when
// present, is either a *Block or a nested *IfExpr, both of which satisfy
// ast.Expr.
func (fg *funcGen) emitIfCommon(n *ast.IfExpr, land func(ast.Expr) error) error {
	condReg, err := fg.emitExpr(n.Cond)
	if err != nil {
		return err
	}
	elseLabel := fg.newLabel(label.BranchTarget, "if_else")
	endLabel := fg.newLabel(label.BranchTarget, "if_end")
	fg.g.buf.Emit(ir.TEST, ir.Reg(condReg), ir.Reg(condReg))
	fg.regs.Free(condReg)
	fg.g.buf.Emit(ir.JE, ir.Lab(elseLabel))

	if err := land(n.Then); err != nil {
		return err
	}
	fg.g.buf.Emit(ir.JMP, ir.Lab(endLabel))

	fg.g.labels.Define(elseLabel, fg.g.buf.Len())
	if n.Else != nil {
		elseExpr, ok := n.Else.(ast.Expr)
		if !ok {
			return fmt.Errorf("codegen: unexpected if-else node type %T", n.Else)
		}
		if err := land(elseExpr); err != nil {
			return err
		}
	}
	fg.g.labels.Define(endLabel, fg.g.buf.Len())
	return nil
}

func (fg *funcGen) emitIfScalar(n *ast.IfExpr) (ir.Register, error) {
	v := fg.bindLocal(anonName(), n.Type())
	mem := v.mem()
	land := func(body ast.Expr) error { return fg.emitValueInto(mem, body) }
	if err := fg.emitIfCommon(n, land); err != nil {
		return ir.None, err
	}
	return fg.loadScalar(mem, n.Type())
}

func (fg *funcGen) emitIfInto(dst ir.Operand, n *ast.IfExpr) error {
	land := func(body ast.Expr) error { return fg.emitValueInto(dst, body) }
	return fg.emitIfCommon(n, land)
}

// emitIfLetCommon tests Pattern against Value directly (not through
// lowerMatchArms: unlike a match, a failed if-let with no else simply
// produces no value rather than trapping).
func (fg *funcGen) emitIfLetCommon(n *ast.IfLetExpr, land func(ast.Expr) error) error {
	l, cleanup, err := fg.resolveLoc(n.Value)
	if err != nil {
		return err
	}
	defer cleanup()

	elseLabel := fg.newLabel(label.BranchTarget, "iflet_else")
	endLabel := fg.newLabel(label.BranchTarget, "iflet_end")
	if err := fg.testPattern(l, n.Pattern, elseLabel); err != nil {
		return err
	}
	if err := land(n.Then); err != nil {
		return err
	}
	fg.g.buf.Emit(ir.JMP, ir.Lab(endLabel))

	fg.g.labels.Define(elseLabel, fg.g.buf.Len())
	if n.Else != nil {
		elseExpr, ok := n.Else.(ast.Expr)
		if !ok {
			return fmt.Errorf("codegen: unexpected if-let else node type %T", n.Else)
		}
		if err := land(elseExpr); err != nil {
			return err
		}
	}
	fg.g.labels.Define(endLabel, fg.g.buf.Len())
	return nil
}

func (fg *funcGen) emitIfLetScalar(n *ast.IfLetExpr) (ir.Register, error) {
	v := fg.bindLocal(anonName(), n.Type())
	mem := v.mem()
	land := func(body ast.Expr) error { return fg.emitValueInto(mem, body) }
	if err := fg.emitIfLetCommon(n, land); err != nil {
		return ir.None, err
	}
	return fg.loadScalar(mem, n.Type())
}

func (fg *funcGen) emitIfLetInto(dst ir.Operand, n *ast.IfLetExpr) error {
	land := func(body ast.Expr) error { return fg.emitValueInto(dst, body) }
	return fg.emitIfLetCommon(n, land)
}
