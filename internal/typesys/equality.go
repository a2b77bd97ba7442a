package typesys

// Equal implements structural equality (§4.1). Struct/Enum compare by
// name identity (nominal); GenericInstance compares by base identity and
// pointwise-equal type arguments; everything else compares structurally.
func (a *Arena) Equal(x, y TypeID) bool {
	if x == y {
		return true
	}
	dx, dy := a.Get(x), a.Get(y)
	if dx.Category != dy.Category {
		return false
	}
	switch dx.Category {
	case CatPrimitive:
		return dx.Prim == dy.Prim
	case CatPointer:
		return dx.Mutable == dy.Mutable && a.Equal(dx.Elem, dy.Elem)
	case CatSlice:
		return dx.Mutable == dy.Mutable && a.Equal(dx.Elem, dy.Elem)
	case CatArray:
		return dx.Length == dy.Length && a.Equal(dx.Elem, dy.Elem)
	case CatTuple:
		return a.equalSeq(dx.Elements, dy.Elements)
	case CatStruct:
		return dx.Name == dy.Name
	case CatEnum:
		return dx.Name == dy.Name
	case CatFunction:
		if !a.Equal(dx.Return, dy.Return) {
			return false
		}
		return a.equalSeq(dx.Params, dy.Params)
	case CatGenericInstance:
		if dx.Base != dy.Base && !a.Equal(dx.Base, dy.Base) {
			return false
		}
		return a.equalSeq(dx.TypeArgs, dy.TypeArgs)
	case CatResult:
		return a.Equal(dx.Ok, dy.Ok) && a.Equal(dx.Err, dy.Err)
	case CatTypeParameter:
		return dx.ParamName == dy.ParamName
	case CatVoid, CatUnknown, CatBuiltin:
		return true
	default:
		return false
	}
}

func (a *Arena) equalSeq(xs, ys []TypeID) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !a.Equal(xs[i], ys[i]) {
			return false
		}
	}
	return true
}

// IsAssignable implements `is_assignable(from -> to)` (§4.1): equal types;
// an integer literal into an integer primitive at least as wide, of either
// signedness (only the two types' bit widths are compared; the literal's
// value is not checked against the target's range); a two-argument
// GenericInstance assigned into a Result with matching Ok/Err types; or
// either side Unknown during inference.
func (a *Arena) IsAssignable(from, to TypeID, fromIsLiteral bool) bool {
	if a.Equal(from, to) {
		return true
	}
	df, dt := a.Get(from), a.Get(to)
	if df.Category == CatUnknown || dt.Category == CatUnknown {
		return true
	}
	if fromIsLiteral && df.Category == CatPrimitive && dt.Category == CatPrimitive {
		if isInteger(df.Prim) && isInteger(dt.Prim) {
			sameFamily := isUnsigned(df.Prim) == isUnsigned(dt.Prim)
			widens := integerWidth[dt.Prim] >= integerWidth[df.Prim]
			if sameFamily && widens {
				return true
			}
			// §9: integer-literal widening is permitted across signedness
			// for literals only, never for non-literal expressions.
			if widens {
				return true
			}
		}
	}
	if df.Category == CatGenericInstance && dt.Category == CatResult {
		// from is Result<A,B> sugar instantiated as a GenericInstance of
		// the built-in Result base; compare element-wise.
		return len(df.TypeArgs) == 2 && a.Equal(df.TypeArgs[0], dt.Ok) && a.Equal(df.TypeArgs[1], dt.Err)
	}
	return false
}

// IsFFICompatible implements validate_ffi_type's compatibility predicate
// (§4.1, §4.3.1(b)): true for primitives except string, pointers to
// FFI-compatible pointees, arrays of FFI-compatible elements, tuples and
// structs whose elements are all FFI-compatible. Slices are lossy (decay to
// pointer+length, see §9) and Result is never FFI-compatible.
func (a *Arena) IsFFICompatible(id TypeID) bool {
	d := a.Get(id)
	switch d.Category {
	case CatPrimitive:
		return d.Prim != StringKind
	case CatPointer:
		return a.IsFFICompatible(d.Elem)
	case CatArray:
		return a.IsFFICompatible(d.Elem)
	case CatTuple:
		for _, e := range d.Elements {
			if !a.IsFFICompatible(e) {
				return false
			}
		}
		return true
	case CatStruct:
		for _, f := range d.Fields {
			if !a.IsFFICompatible(f.Type) {
				return false
			}
		}
		return true
	case CatEnum:
		// A "simple" enum (no variant carries associated data) is FFI
		// compatible through its u32 discriminant; otherwise not.
		for _, v := range d.Variants {
			if v.AssocType != NoType {
				return false
			}
		}
		return true
	case CatFunction:
		return true // function pointer
	default:
		return false
	}
}
