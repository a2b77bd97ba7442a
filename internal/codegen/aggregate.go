package codegen

import (
	"fmt"

	"github.com/asthra-lang/asthrac/internal/abi"
	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/ir"
)

// copyAggregate blits size bytes from src to dst, both frame- or
// pointer-relative memory operands, eight bytes at a time with a trailing
// narrower move for the remainder. A real backend would prefer a runtime
// memcpy call above some size threshold; this generator always inlines
// it, matching the "no hidden runtime calls for ordinary moves" style the
// rest of the ABI package favors.
func (fg *funcGen) copyAggregate(dst, src ir.Operand, size int64) {
	var off int64
	for size-off >= 8 {
		fg.g.buf.Emit(ir.MOV, ir.Reg(ir.RAX), offsetMem(src, off))
		fg.g.buf.Emit(ir.MOV, offsetMem(dst, off), ir.Reg(ir.RAX))
		off += 8
	}
	for size-off >= 4 {
		fg.g.buf.Emit(ir.MOV, ir.Reg(ir.RAX), offsetMem(src, off))
		fg.g.buf.Emit(ir.MOV, offsetMem(dst, off), ir.Reg(ir.RAX))
		off += 4
	}
	for size-off > 0 {
		fg.g.buf.Emit(ir.MOV, ir.Reg(ir.RAX), offsetMem(src, off))
		fg.g.buf.Emit(ir.MOV, offsetMem(dst, off), ir.Reg(ir.RAX))
		off++
	}
}

// offsetMem returns m shifted by an additional byte offset, used by
// copyAggregate to walk across a blob one word at a time. m must already
// be a plain (non-indexed) memory operand.
func offsetMem(m ir.Operand, off int64) ir.Operand {
	return ir.Mem(m.Mem.Base, m.Mem.Displacement+int32(off))
}

// emitInto lowers an aggregate-typed expression directly into dst, a
// memory operand sized to hold the expression's full value. Scalar
// subexpressions reached along the way still go through emitExpr/regs as
// usual; only the outermost value is addressed rather than registered.
func (fg *funcGen) emitInto(dst ir.Operand, e ast.Expr) error {
	switch n := e.(type) {
	case *ast.StructLiteralExpr:
		return fg.emitStructLiteralInto(dst, n)
	case *ast.ArrayLiteralExpr:
		return fg.emitArrayLiteralInto(dst, n)
	case *ast.EnumConstructExpr:
		// n.EnumName is the bare source name ("Result"); e.Type().Name is
		// sema's resolved, fully concrete type ("Result<i32, string>" for
		// the built-in sugar, or a plain enum's own name), which is what
		// emitEnumConstructInto's enum-resolution path understands.
		return fg.emitEnumConstructInto(dst, e.Type().Name, n.Variant, n.Arg)
	case *ast.BareVariantExpr:
		return fg.emitEnumConstructInto(dst, e.Type().Name, n.Variant, n.Arg)
	case *ast.CallExpr, *ast.MethodCallExpr, *ast.AssocCallExpr:
		return fg.emitCallInto(dst, e)
	case *ast.Identifier, *ast.FieldAccessExpr, *ast.IndexExpr:
		src, cleanup, err := fg.addr(n.(ast.Expr))
		if err != nil {
			return err
		}
		defer cleanup()
		fg.copyAggregate(dst, src, e.Type().Size)
		return nil
	case *ast.MatchExpr, *ast.IfExpr, *ast.IfLetExpr:
		return fg.emitControlInto(dst, e)
	default:
		return fmt.Errorf("codegen: %T cannot produce an aggregate value", e)
	}
}

func (fg *funcGen) emitStructLiteralInto(dst ir.Operand, lit *ast.StructLiteralExpr) error {
	structID, ok := fg.g.sema.LookupStruct(lit.TypeName)
	if !ok {
		return fmt.Errorf("codegen: undefined struct %q in literal", lit.TypeName)
	}
	desc := fg.g.arena.Get(structID)
	offsets := fg.g.arena.FieldOffsets(structID)
	for _, init := range lit.Fields {
		idx := -1
		for i, f := range desc.Fields {
			if f.Name == init.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("codegen: struct %q has no field %q", lit.TypeName, init.Name)
		}
		fieldDst := offsetMem(dst, offsets[idx])
		if err := fg.emitValueInto(fieldDst, init.Value); err != nil {
			return err
		}
	}
	return nil
}

func (fg *funcGen) emitArrayLiteralInto(dst ir.Operand, lit *ast.ArrayLiteralExpr) error {
	if lit.Repeat != nil {
		elemSize := lit.Repeat.Type().Size
		for i := int64(0); i < lit.Count; i++ {
			if err := fg.emitValueInto(offsetMem(dst, i*elemSize), lit.Repeat); err != nil {
				return err
			}
		}
		return nil
	}
	var elemSize int64
	if len(lit.Elements) > 0 {
		elemSize = lit.Elements[0].Type().Size
	}
	for i, elem := range lit.Elements {
		if err := fg.emitValueInto(offsetMem(dst, int64(i)*elemSize), elem); err != nil {
			return err
		}
	}
	return nil
}

// emitEnumConstructInto writes a binary enum value (§6: u32 discriminant
// plus payload, padded to the payload's alignment) into dst.
func (fg *funcGen) emitEnumConstructInto(dst ir.Operand, enumName, variantName string, arg ast.Expr) error {
	enumID, ok := fg.g.sema.ResolveEnumByName(enumName)
	if !ok {
		return fmt.Errorf("codegen: undefined enum %q in constructor", enumName)
	}
	variant, ok := fg.g.sema.ResolveVariant(enumID, variantName)
	if !ok {
		return fmt.Errorf("codegen: enum %q has no variant %q", enumName, variantName)
	}
	fg.g.buf.Emit(ir.MOV, dst, ir.Imm(int64(variant.Discriminant)))
	if arg == nil {
		return nil
	}
	payloadAlign := fg.g.arena.Align(variant.AssocType)
	payloadOff := abi.PayloadOffset(payloadAlign)
	return fg.emitValueInto(offsetMem(dst, payloadOff), arg)
}

// emitValueInto writes e's value into dst regardless of whether e is
// scalar or aggregate, the common helper struct/array/enum construction
// uses per-element so each field initializer isn't forced through the
// register-returning emitExpr path when it doesn't fit in one.
func (fg *funcGen) emitValueInto(dst ir.Operand, e ast.Expr) error {
	if isAggregate(e.Type()) {
		return fg.emitInto(dst, e)
	}
	reg, err := fg.emitExpr(e)
	if err != nil {
		return err
	}
	fg.g.buf.Emit(ir.MOV, dst, ir.Reg(reg))
	fg.regs.Free(reg)
	return nil
}

// emitControlInto lowers an if/match expression whose result is
// aggregate-typed by threading dst through every arm instead of
// collecting a register result, reusing emitIf/emitMatch's branch
// structure with an alternate "land the value" callback.
func (fg *funcGen) emitControlInto(dst ir.Operand, e ast.Expr) error {
	switch n := e.(type) {
	case *ast.IfExpr:
		return fg.emitIfInto(dst, n)
	case *ast.MatchExpr:
		return fg.emitMatchInto(dst, n)
	case *ast.IfLetExpr:
		return fg.emitIfLetInto(dst, n)
	default:
		return fmt.Errorf("codegen: unsupported aggregate control expression %T", e)
	}
}
