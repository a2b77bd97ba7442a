package codegen

import (
	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/regalloc"
)

// isAggregate reports whether a value of this type is too large (or too
// structurally composite) to live in a single register and must instead
// be materialized at a fixed memory address (§4.4/§6: structs, enums, and
// tuples are always addressed, never copied through a register).
func isAggregate(ti *ast.TypeInfo) bool {
	switch ti.Category {
	case "Struct", "Enum", "Tuple", "GenericInstance", "Result":
		return true
	default:
		return false
	}
}

// isFloat reports whether ti names one of the two floating-point
// primitives, the only types that go through the XMM register file.
func isFloat(ti *ast.TypeInfo) bool {
	return ti.Category == "Primitive" && (ti.Name == "f32" || ti.Name == "f64")
}

// classOf picks the register class a scalar value of this type is
// evaluated in. Callers must not call this for an aggregate type.
func classOf(ti *ast.TypeInfo) regalloc.Class {
	if isFloat(ti) {
		return regalloc.XMM
	}
	return regalloc.GPR
}

// scalarSize returns the number of bytes a scalar of this type occupies,
// or a full 8-byte word when the type reports size 0; emitFunction and
// bindLocal size a scalar's frame slot with it.
func scalarSize(ti *ast.TypeInfo) int64 {
	if ti.Size == 0 {
		return 8
	}
	return ti.Size
}
