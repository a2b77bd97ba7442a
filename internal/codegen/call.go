package codegen

import (
	"fmt"
	"strings"

	"github.com/asthra-lang/asthrac/internal/abi"
	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/ir"
	"github.com/asthra-lang/asthrac/internal/regalloc"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

// callTarget is what resolveCallTarget distills any of the three call
// shapes down to: the label to branch to, the self receiver (nil for a
// plain function or an associated-function call), and the argument
// expressions in source order.
type callTarget struct {
	label string
	self  ast.Expr
	args  []ast.Expr
}

// resolveCallTarget mangles e's callee into a branch label.
//
// A method call whose receiver's static type is itself a generic
// instantiation (e.g. calling .get() on a Box<i32> local) is not resolved
// here: ast.TypeInfo only carries a type's rendered display name, not the
// arena TypeID a generic receiver's base struct and type arguments would
// need to be recovered from, so that case is left unsupported — write
// Box<i32>::get(b) through AssocCallExpr instead, which carries its type
// arguments as real syntax this generator can resolve.
func (fg *funcGen) resolveCallTarget(e ast.Expr) (callTarget, error) {
	switch n := e.(type) {
	case *ast.CallExpr:
		ident, ok := n.Func.(*ast.Identifier)
		if !ok {
			return callTarget{}, fmt.Errorf("codegen: indirect calls are not supported")
		}
		return callTarget{label: fg.g.mangleCallee(ident.Name), args: n.Args}, nil

	case *ast.MethodCallExpr:
		structName := n.Object.Type().Name
		if strings.ContainsRune(structName, '<') {
			return callTarget{}, fmt.Errorf("codegen: method calls on a generic receiver (%s) are not supported; call %s::%s instead", structName, structName, n.Method)
		}
		return callTarget{label: abi.MangleMethod(structName, n.Method), self: n.Object, args: n.Args}, nil

	case *ast.AssocCallExpr:
		if len(n.TypeArgs) == 0 {
			return callTarget{label: abi.MangleMethod(n.TypeName, n.Func), args: n.Args}, nil
		}
		structID, ok := fg.g.sema.LookupStruct(n.TypeName)
		if !ok {
			return callTarget{}, fmt.Errorf("codegen: %s::%s instantiates undefined struct %q", n.TypeName, n.Func, n.TypeName)
		}
		decl, ok := fg.g.structDecls[n.TypeName]
		if !ok {
			return callTarget{}, fmt.Errorf("codegen: struct %q has no recorded declaration to read its type parameters from", n.TypeName)
		}
		typeParams := make([]string, len(decl.TypeParams))
		for i, tp := range decl.TypeParams {
			typeParams[i] = tp.Name
		}
		argIDs := make([]typesys.TypeID, len(n.TypeArgs))
		for i, te := range n.TypeArgs {
			id, ok := fg.g.resolveTypeExprID(te)
			if !ok {
				return callTarget{}, fmt.Errorf("codegen: cannot resolve type argument %s in %s<...>::%s", te, n.TypeName, n.Func)
			}
			argIDs[i] = id
		}
		m, err := fg.g.mono.Request(structID, typeParams, argIDs)
		if err != nil {
			return callTarget{}, fmt.Errorf("codegen: instantiating %s<...>: %w", n.TypeName, err)
		}
		method, ok := m.Methods[n.Func]
		if !ok {
			return callTarget{}, fmt.Errorf("codegen: %s has no associated function %q", m.Canon, n.Func)
		}
		return callTarget{label: method.MangledName, args: n.Args}, nil

	default:
		return callTarget{}, fmt.Errorf("codegen: %T is not a call expression", e)
	}
}

// emitArgsInto evaluates target's self receiver (if any) followed by its
// declared arguments, in source order, landing each directly in the next
// ABI parameter register starting at start. An aggregate argument (or
// receiver) arrives as an address automatically: emitExpr already returns
// an address-holding register for any aggregate-typed expression
// (expr.go), so argument lowering needs no separate by-value/by-reference
// split.
//
// Evaluating straight into ParamRegisters does not shield an
// already-filled slot from a later argument's own nested call clobbering
// it; this generator accepts that limitation rather than shuffle
// arguments through callee-saved scratch first.
func (fg *funcGen) emitArgsInto(target callTarget, start int) error {
	exprs := target.args
	if target.self != nil {
		exprs = append([]ast.Expr{target.self}, exprs...)
	}
	if len(exprs) > len(ir.ParamRegisters)-start {
		return fmt.Errorf("codegen: call passes %d arguments, exceeding the %d-register calling convention", len(exprs), len(ir.ParamRegisters)-start)
	}
	for i, a := range exprs {
		reg, err := fg.emitExpr(a)
		if err != nil {
			return err
		}
		fg.g.buf.Emit(ir.MOV, ir.Reg(ir.ParamRegisters[start+i]), ir.Reg(reg))
		fg.regs.Free(reg)
	}
	return nil
}

// emitCall lowers a scalar-returning call: resolve the target, place
// arguments in the ABI registers, branch, and collect the result from
// RAX/XMM0. An aggregate-returning call never reaches here: emitExpr
// (expr.go) redirects an aggregate-typed call through emitCallInto before
// this case is ever considered.
func (fg *funcGen) emitCall(e ast.Expr) (ir.Register, error) {
	target, err := fg.resolveCallTarget(e)
	if err != nil {
		return ir.None, err
	}
	if err := fg.emitArgsInto(target, 0); err != nil {
		return ir.None, err
	}
	fg.g.buf.Emit(ir.CALL, ir.Lab(target.label))

	ti := e.Type()
	if ti == nil || ti.Category == "Void" {
		return ir.None, nil
	}
	if isFloat(ti) {
		reg, err := fg.regs.Allocate(regalloc.XMM, true)
		if err != nil {
			return ir.None, err
		}
		op := ir.MOVSD
		if ti.Name == "f32" {
			op = ir.MOVSS
		}
		fg.g.buf.Emit(op, ir.Reg(reg), ir.Reg(ir.XMM0))
		return reg, nil
	}
	reg, err := fg.regs.Allocate(regalloc.GPR, true)
	if err != nil {
		return ir.None, err
	}
	fg.g.buf.Emit(ir.MOV, ir.Reg(reg), ir.Reg(ir.ReturnRegister))
	return reg, nil
}

// emitCallInto lowers an aggregate-returning call using the sret
// convention: the destination's address goes in the first parameter
// register, the call's own arguments shift into the rest, and the callee
// writes its result through that pointer instead of through RAX/XMM0.
func (fg *funcGen) emitCallInto(dst ir.Operand, e ast.Expr) error {
	target, err := fg.resolveCallTarget(e)
	if err != nil {
		return err
	}
	dstReg, err := fg.regs.Allocate(regalloc.GPR, true)
	if err != nil {
		return err
	}
	fg.g.buf.Emit(ir.LEA, ir.Reg(dstReg), dst)
	fg.g.buf.Emit(ir.MOV, ir.Reg(ir.ParamRegisters[0]), ir.Reg(dstReg))
	fg.regs.Free(dstReg)

	if err := fg.emitArgsInto(target, 1); err != nil {
		return err
	}
	fg.g.buf.Emit(ir.CALL, ir.Lab(target.label))
	return nil
}

// primitiveTypeNames mirrors sema's own surface-keyword table (the two
// packages intentionally don't share it: codegen resolves type arguments
// only for this one call site, and duplicating the sixteen-entry map keeps
// codegen from depending on sema's unexported resolver internals).
var primitiveTypeNames = map[string]typesys.PrimitiveKind{
	"i8": typesys.I8, "i16": typesys.I16, "i32": typesys.I32, "i64": typesys.I64,
	"u8": typesys.U8, "u16": typesys.U16, "u32": typesys.U32, "u64": typesys.U64,
	"isize": typesys.ISize, "usize": typesys.USize,
	"f32": typesys.F32, "f64": typesys.F64,
	"bool": typesys.Bool, "char": typesys.Char, "string": typesys.StringKind, "void": typesys.VoidKind,
}

// resolveTypeExprID turns a surface ast.TypeExpr into a concrete
// typesys.TypeID, the way AssocCallExpr's explicit Type<Args>::func
// syntax needs in order to drive internal/mono.Registry.Request. Nested
// generic instantiation (NamedType with its own TypeArgs) recurses;
// function types and bare type parameters never appear in this position
// (no generic function calls this core language accepts writes one) and
// are left unsupported.
func (g *Generator) resolveTypeExprID(te ast.TypeExpr) (typesys.TypeID, bool) {
	switch t := te.(type) {
	case *ast.NamedType:
		if kind, ok := primitiveTypeNames[t.Name]; ok {
			return g.arena.Primitive(kind), true
		}
		base, ok := g.arena.ByName(t.Name)
		if !ok {
			return typesys.NoType, false
		}
		if len(t.TypeArgs) == 0 {
			return base, true
		}
		args := make([]typesys.TypeID, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			id, ok := g.resolveTypeExprID(a)
			if !ok {
				return typesys.NoType, false
			}
			args[i] = id
		}
		id, err := g.arena.Instantiate(base, args)
		if err != nil {
			return typesys.NoType, false
		}
		return id, true

	case *ast.PointerType:
		elem, ok := g.resolveTypeExprID(t.Pointee)
		if !ok {
			return typesys.NoType, false
		}
		return g.arena.NewPointer(elem, t.Mutable), true

	case *ast.SliceType:
		elem, ok := g.resolveTypeExprID(t.Element)
		if !ok {
			return typesys.NoType, false
		}
		return g.arena.NewSlice(elem, t.Mutable), true

	case *ast.ArrayType:
		elem, ok := g.resolveTypeExprID(t.Element)
		if !ok {
			return typesys.NoType, false
		}
		id, err := g.arena.NewArray(elem, t.Length)
		if err != nil {
			return typesys.NoType, false
		}
		return id, true

	case *ast.TupleType:
		elems := make([]typesys.TypeID, len(t.Elements))
		for i, e := range t.Elements {
			id, ok := g.resolveTypeExprID(e)
			if !ok {
				return typesys.NoType, false
			}
			elems[i] = id
		}
		id, err := g.arena.NewTuple(elems)
		if err != nil {
			return typesys.NoType, false
		}
		return id, true

	case *ast.ResultType:
		okID, okOK := g.resolveTypeExprID(t.Ok)
		errID, okErr := g.resolveTypeExprID(t.Err)
		if !okOK || !okErr {
			return typesys.NoType, false
		}
		return g.arena.NewResult(okID, errID), true

	case *ast.OptionType:
		elem, ok := g.resolveTypeExprID(t.Elem)
		if !ok {
			return typesys.NoType, false
		}
		id, err := g.arena.Instantiate(g.sema.Builtins.OptionBase, []typesys.TypeID{elem})
		if err != nil {
			return typesys.NoType, false
		}
		return id, true

	default:
		return typesys.NoType, false
	}
}
