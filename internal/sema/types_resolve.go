package sema

import "github.com/asthra-lang/asthrac/internal/ast"
import "github.com/asthra-lang/asthrac/internal/typesys"

var primitiveKeywords = map[string]typesys.PrimitiveKind{
	"i8": typesys.I8, "i16": typesys.I16, "i32": typesys.I32, "i64": typesys.I64,
	"u8": typesys.U8, "u16": typesys.U16, "u32": typesys.U32, "u64": typesys.U64,
	"isize": typesys.ISize, "usize": typesys.USize,
	"f32": typesys.F32, "f64": typesys.F64,
	"bool": typesys.Bool, "char": typesys.Char, "string": typesys.StringKind, "void": typesys.VoidKind,
}

// resolveType turns a surface ast.TypeExpr into a typesys.TypeID, walking
// the analyzer's struct/enum/type-parameter tables. te == nil means an
// omitted return type, which defaults to void (§4.3.1).
func (a *Analyzer) resolveType(te ast.TypeExpr) typesys.TypeID {
	if te == nil {
		return a.Arena.Void()
	}
	switch t := te.(type) {
	case *ast.NamedType:
		return a.resolveNamedType(t)
	case *ast.PointerType:
		return a.Arena.NewPointer(a.resolveType(t.Pointee), t.Mutable)
	case *ast.SliceType:
		return a.Arena.NewSlice(a.resolveType(t.Element), t.Mutable)
	case *ast.ArrayType:
		id, err := a.Arena.NewArray(a.resolveType(t.Element), t.Length)
		if err != nil {
			a.errorAt(t.Pos, errInvalidType, "%s", err.Error())
			return a.Arena.Unknown()
		}
		return id
	case *ast.TupleType:
		elems := make([]typesys.TypeID, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = a.resolveType(e)
		}
		id, err := a.Arena.NewTuple(elems)
		if err != nil {
			a.errorAt(t.Pos, errInvalidType, "%s", err.Error())
			return a.Arena.Unknown()
		}
		return id
	case *ast.ResultType:
		return a.Arena.NewResult(a.resolveType(t.Ok), a.resolveType(t.Err))
	case *ast.OptionType:
		elem := a.resolveType(t.Elem)
		id, err := a.Arena.Instantiate(a.Builtins.OptionBase, []typesys.TypeID{elem})
		if err != nil {
			a.errorAt(t.Pos, errInvalidType, "%s", err.Error())
			return a.Arena.Unknown()
		}
		return id
	default:
		return a.Arena.Unknown()
	}
}

func (a *Analyzer) resolveNamedType(t *ast.NamedType) typesys.TypeID {
	if kind, ok := primitiveKeywords[t.Name]; ok {
		return a.Arena.Primitive(kind)
	}
	if t.Name == "Option" && len(t.TypeArgs) == 1 {
		elem := a.resolveType(t.TypeArgs[0])
		id, err := a.Arena.Instantiate(a.Builtins.OptionBase, []typesys.TypeID{elem})
		if err != nil {
			a.errorAt(t.Pos, errInvalidType, "%s", err.Error())
			return a.Arena.Unknown()
		}
		return id
	}
	if t.Name == "Result" && len(t.TypeArgs) == 2 {
		return a.Arena.NewResult(a.resolveType(t.TypeArgs[0]), a.resolveType(t.TypeArgs[1]))
	}
	if a.typeParams != nil {
		if id, ok := a.typeParams[t.Name]; ok {
			return id
		}
	}
	if base, ok := a.structs[t.Name]; ok {
		return a.instantiateNamed(base, t)
	}
	if base, ok := a.enums[t.Name]; ok {
		return a.instantiateNamed(base, t)
	}
	a.undefinedType(t)
	return a.Arena.Unknown()
}

func (a *Analyzer) instantiateNamed(base typesys.TypeID, t *ast.NamedType) typesys.TypeID {
	if len(t.TypeArgs) == 0 {
		return base
	}
	args := make([]typesys.TypeID, len(t.TypeArgs))
	for i, arg := range t.TypeArgs {
		args[i] = a.resolveType(arg)
	}
	id, err := a.Arena.Instantiate(base, args)
	if err != nil {
		a.errorAt(t.Pos, errInvalidType, "%s", err.Error())
		return a.Arena.Unknown()
	}
	return id
}

func (a *Analyzer) undefinedType(t *ast.NamedType) {
	a.errorAt(t.Pos, errInvalidType, "undefined type %q", t.Name)
}
