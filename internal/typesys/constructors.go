package typesys

import (
	"fmt"
	"strings"
)

// NewPointer constructs `*T` or `*mut T`.
func (a *Arena) NewPointer(pointee TypeID, mutable bool) TypeID {
	return a.alloc(TypeDescriptor{Category: CatPointer, Elem: pointee, Mutable: mutable})
}

// NewSlice constructs `[]T` or `[]mut T`.
func (a *Arena) NewSlice(elem TypeID, mutable bool) TypeID {
	return a.alloc(TypeDescriptor{Category: CatSlice, Elem: elem, Mutable: mutable})
}

// NewArray constructs `[N]T`. Returns NoType and an error if length < 1
// (§3.1 invariants, §8 boundary behavior).
func (a *Arena) NewArray(elem TypeID, length int64) (TypeID, error) {
	if length < 1 {
		return NoType, fmt.Errorf("array length must be >= 1, got %d", length)
	}
	return a.alloc(TypeDescriptor{Category: CatArray, Elem: elem, Length: length}), nil
}

// NewTuple constructs a tuple type. Arity must be >= 2.
func (a *Arena) NewTuple(elements []TypeID) (TypeID, error) {
	if len(elements) < 2 {
		return NoType, fmt.Errorf("tuple arity must be >= 2, got %d", len(elements))
	}
	cp := append([]TypeID(nil), elements...)
	return a.alloc(TypeDescriptor{Category: CatTuple, Elements: cp}), nil
}

// NewStruct registers a new nominal struct type. typeParamN is the number
// of generic parameters (0 for a non-generic struct).
func (a *Arena) NewStruct(name string, fields []StructField, typeParamN int) TypeID {
	cp := append([]StructField(nil), fields...)
	return a.alloc(TypeDescriptor{
		Category:   CatStruct,
		Name:       name,
		Fields:     cp,
		Methods:    map[string]TypeID{},
		TypeParamN: typeParamN,
	})
}

// AttachMethod records a method or associated function on a struct's method
// table (§4.3.1 impl blocks).
func (a *Arena) AttachMethod(structID TypeID, name string, funcType TypeID) {
	d := a.Get(structID)
	if d.Category != CatStruct {
		panic("typesys: AttachMethod on non-struct")
	}
	d.Methods[name] = funcType
}

// UpdateStructFields replaces a struct's field list after its name was
// registered ahead of its body (the declaration pass's two-phase forward-
// reference support: struct/enum names are registered before any field
// type is resolved, so mutually recursive structs can reference each
// other behind a pointer) and recomputes its layout. Mutation is confined
// to the single-threaded analyzer pass (§5).
func (a *Arena) UpdateStructFields(id TypeID, fields []StructField) {
	d := a.Get(id)
	if d.Category != CatStruct {
		panic("typesys: UpdateStructFields on non-struct")
	}
	d.Fields = append([]StructField(nil), fields...)
	a.setLayout(d)
}

// UpdateEnumVariants replaces an enum's variant list after its name was
// registered ahead of its body, for the same forward-reference reason as
// UpdateStructFields, and recomputes its layout.
func (a *Arena) UpdateEnumVariants(id TypeID, variants []EnumVariant) {
	d := a.Get(id)
	if d.Category != CatEnum {
		panic("typesys: UpdateEnumVariants on non-enum")
	}
	cp := append([]EnumVariant(nil), variants...)
	idx := make(map[string]int, len(cp))
	for i, v := range cp {
		idx[v.Name] = i
	}
	d.Variants = cp
	d.variantIdx = idx
	a.setLayout(d)
}

// NewEnum registers a new nominal enum type. Discriminants are assigned by
// the caller (internal/sema: FNV1a32 of the variant name unless an explicit
// integer literal is given; RegisterBuiltins: 0 and 1) so that §8 invariant 6 (stable discriminant assignment) is visibly the
// caller's responsibility, not an emergent property of map iteration.
func (a *Arena) NewEnum(name string, variants []EnumVariant, typeParamN int) TypeID {
	cp := append([]EnumVariant(nil), variants...)
	idx := make(map[string]int, len(cp))
	for i, v := range cp {
		idx[v.Name] = i
	}
	return a.alloc(TypeDescriptor{
		Category:   CatEnum,
		Name:       name,
		Variants:   cp,
		variantIdx: idx,
		TypeParamN: typeParamN,
	})
}

// ByName finds the struct or enum descriptor registered under name,
// returned regardless of which of the two categories it is so callers
// that only care "is this a nominal type" don't have to try both. Used
// by code generation, which resolves an ast.TypeInfo's Name back to a
// TypeID without depending on the analyzer's own name tables.
func (a *Arena) ByName(name string) (TypeID, bool) {
	for id := range a.descs {
		d := &a.descs[id]
		if (d.Category == CatStruct || d.Category == CatEnum) && d.Name == name {
			return TypeID(id), true
		}
	}
	return NoType, false
}

// VariantByName looks up a variant on an enum descriptor by name.
func (a *Arena) VariantByName(enumID TypeID, name string) (EnumVariant, bool) {
	d := a.Get(enumID)
	if d.Category != CatEnum {
		return EnumVariant{}, false
	}
	i, ok := d.variantIdx[name]
	if !ok {
		return EnumVariant{}, false
	}
	return d.Variants[i], true
}

// NewFunction constructs a function type.
func (a *Arena) NewFunction(params []TypeID, ret TypeID, extern bool, externName string) TypeID {
	cp := append([]TypeID(nil), params...)
	return a.alloc(TypeDescriptor{Category: CatFunction, Params: cp, Return: ret, Extern: extern, ExternName: externName})
}

// NewTypeParameter constructs an unresolved generic placeholder.
func (a *Arena) NewTypeParameter(name string) TypeID {
	return a.alloc(TypeDescriptor{Category: CatTypeParameter, ParamName: name})
}

// NewResult constructs the built-in Result<Ok, Err> sugar (§9: intrinsic,
// not library-defined), hash-consed by canonical name the same way
// Instantiate hash-conses a GenericInstance so ByCanon can recover a
// concrete Result descriptor from its rendered name.
func (a *Arena) NewResult(ok, err TypeID) TypeID {
	canon := fmt.Sprintf("Result<%s, %s>", a.Name(ok), a.Name(err))
	if cached, found := a.resultCache[canon]; found {
		return cached
	}
	id := a.alloc(TypeDescriptor{Category: CatResult, Ok: ok, Err: err})
	a.resultCache[canon] = id
	return id
}

// ByCanon finds a previously-instantiated GenericInstance or Result
// descriptor by its rendered canonical name (the same string Name(id)
// would produce for it), the reverse of the hash-consing Instantiate and
// NewResult already do. Code generation uses this to recover a concrete
// TypeID from an ast.TypeInfo, which carries only the rendered name, not
// the arena handle sema resolved it from.
func (a *Arena) ByCanon(canon string) (TypeID, bool) {
	if id, ok := a.instanceCache[canon]; ok {
		return id, true
	}
	if id, ok := a.resultCache[canon]; ok {
		return id, true
	}
	return NoType, false
}

// CanonicalName computes `Base<A, B, ...>` for a generic instantiation,
// deterministic and stable across calls (§8 invariant 4).
func (a *Arena) CanonicalName(base TypeID, args []TypeID) string {
	baseDesc := a.Get(base)
	names := make([]string, len(args))
	for i, arg := range args {
		names[i] = a.Name(arg)
	}
	return fmt.Sprintf("%s<%s>", baseDesc.Name, strings.Join(names, ", "))
}

// Instantiate validates arity and produces a GenericInstance descriptor.
// Re-instantiation with the same arguments returns the TypeID cached by the
// first call (hash-consed by canonical name), though Equal() never relies
// on identity — see §4.1.
func (a *Arena) Instantiate(base TypeID, args []TypeID) (TypeID, error) {
	baseDesc := a.Get(base)
	if baseDesc.Category != CatStruct && baseDesc.Category != CatEnum {
		return NoType, fmt.Errorf("generic base must be struct or enum, got %s", baseDesc.Category)
	}
	if len(args) != baseDesc.TypeParamN {
		return NoType, fmt.Errorf("generic %s expects %d type arguments, got %d", baseDesc.Name, baseDesc.TypeParamN, len(args))
	}
	canon := a.CanonicalName(base, args)
	if cached, ok := a.instanceCache[canon]; ok {
		return cached, nil
	}
	cp := append([]TypeID(nil), args...)
	id := a.alloc(TypeDescriptor{Category: CatGenericInstance, Base: base, TypeArgs: cp, Canon: canon})
	a.instanceCache[canon] = id
	return id, nil
}

// Name renders a descriptor's canonical display name.
func (a *Arena) Name(id TypeID) string {
	d := a.Get(id)
	switch d.Category {
	case CatPrimitive:
		return d.Prim.String()
	case CatPointer:
		if d.Mutable {
			return "*mut " + a.Name(d.Elem)
		}
		return "*" + a.Name(d.Elem)
	case CatSlice:
		if d.Mutable {
			return "[]mut " + a.Name(d.Elem)
		}
		return "[]" + a.Name(d.Elem)
	case CatArray:
		return fmt.Sprintf("[%d]%s", d.Length, a.Name(d.Elem))
	case CatTuple:
		names := make([]string, len(d.Elements))
		for i, e := range d.Elements {
			names[i] = a.Name(e)
		}
		return "(" + strings.Join(names, ", ") + ")"
	case CatStruct, CatEnum:
		return d.Name
	case CatFunction:
		params := make([]string, len(d.Params))
		for i, p := range d.Params {
			params[i] = a.Name(p)
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), a.Name(d.Return))
	case CatGenericInstance:
		return d.Canon
	case CatResult:
		return fmt.Sprintf("Result<%s, %s>", a.Name(d.Ok), a.Name(d.Err))
	case CatTypeParameter:
		return d.ParamName
	case CatVoid:
		return "void"
	default:
		return "<unknown>"
	}
}
