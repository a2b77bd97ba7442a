package typesys

// Builtins holds the arena-owned TypeIDs of the compiler-intrinsic
// Option and Result enums (§9: treated as intrinsic sugar, not
// library-defined, so discriminant assignment is a hard-coded invariant).
type Builtins struct {
	OptionBase TypeID // generic base Option<T>, variants Some=0/None=1
	ResultBase TypeID // generic base Result<T,E>, variants Ok=0/Err=1
}

// RegisterBuiltins installs the Option/Result intrinsic enums into the
// arena. sema.New calls it once for each Analyzer's fresh arena.
func RegisterBuiltins(a *Arena) Builtins {
	t := a.NewTypeParameter("T")
	optionSome := EnumVariant{Name: "Some", AssocType: t, Discriminant: 0}
	optionNone := EnumVariant{Name: "None", AssocType: NoType, Discriminant: 1}
	optionBase := a.NewEnum("Option", []EnumVariant{optionSome, optionNone}, 1)

	ok := a.NewTypeParameter("T")
	errT := a.NewTypeParameter("E")
	resultOk := EnumVariant{Name: "Ok", AssocType: ok, Discriminant: 0}
	resultErr := EnumVariant{Name: "Err", AssocType: errT, Discriminant: 1}
	resultBase := a.NewEnum("Result", []EnumVariant{resultOk, resultErr}, 2)

	return Builtins{OptionBase: optionBase, ResultBase: resultBase}
}

// FNV1a32 hashes name into a 32-bit discriminant using the FNV-1a
// algorithm. This hashing is part of the ABI (§6) and must be stable
// across compiler runs: user-enum variant discriminants are assigned this
// way unless an explicit integer literal is given.
func FNV1a32(name string) uint32 {
	const offsetBasis uint32 = 2166136261
	const prime uint32 = 16777619
	h := offsetBasis
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= prime
	}
	return h
}

// AssignDiscriminants fills in each variant's Discriminant: explicit
// integer values are kept, and every other variant gets FNV1a32(name)
// per §6.
func AssignDiscriminants(variants []EnumVariant, explicit []*int64) []EnumVariant {
	out := make([]EnumVariant, len(variants))
	for i, v := range variants {
		out[i] = v
		if explicit != nil && explicit[i] != nil {
			out[i].Discriminant = uint32(*explicit[i])
			continue
		}
		out[i].Discriminant = FNV1a32(v.Name)
	}
	return out
}
