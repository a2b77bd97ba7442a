package sema

import "github.com/asthra-lang/asthrac/internal/typesys"

// isEnumLike reports whether t denotes something a variant pattern or
// enum-constructor expression can resolve against: a plain nominal enum,
// a generic instantiation whose base is an enum (Option<T> and any
// instantiated user enum alike), or the Result<A,B> built-in sugar, which
// never becomes a GenericInstance (types_resolve.go resolves it straight
// to CatResult).
func (a *Analyzer) isEnumLike(t typesys.TypeID) bool {
	d := a.Arena.Get(t)
	switch d.Category {
	case typesys.CatEnum, typesys.CatResult:
		return true
	case typesys.CatGenericInstance:
		return a.Arena.Get(d.Base).Category == typesys.CatEnum
	default:
		return false
	}
}

// enumBaseName renders the unqualified name a source-level dot-construct
// or variant pattern writes before the variant (e.g. "Option" for
// Option<i32>, "Result" for Result<i32, string>, or a user enum's own
// declared name), as opposed to Arena.Name's fully rendered form which
// includes type arguments.
func (a *Analyzer) enumBaseName(t typesys.TypeID) string {
	d := a.Arena.Get(t)
	switch d.Category {
	case typesys.CatEnum:
		return d.Name
	case typesys.CatGenericInstance:
		return a.Arena.Get(d.Base).Name
	case typesys.CatResult:
		return "Result"
	default:
		return a.Arena.Name(t)
	}
}

// ResolveVariant resolves variantName against t, a plain enum, a generic
// instantiation of one, or the Result<A,B> sugar, substituting the
// instantiation's concrete type arguments into the variant's associated
// type along the way. Option and Result never appear in the analyzer's
// own enums table (they are compiler intrinsics, §9), so this is the one
// path both construction/pattern analysis and code generation use to
// resolve a variant against them the same way a plain user enum's own
// TypeID already resolves.
//
// The type-parameter substitution here is deliberately narrow: a bare
// CatTypeParameter associated type is replaced by the sole type argument
// when the instantiation has exactly one, which covers Option<T> (the
// only generic enum this language's constructors currently instantiate
// through dot-form/bare-variant syntax) without attempting the general
// multi-parameter substitution internal/mono performs for struct/enum
// methods.
func (a *Analyzer) ResolveVariant(t typesys.TypeID, variantName string) (typesys.EnumVariant, bool) {
	d := a.Arena.Get(t)
	switch d.Category {
	case typesys.CatEnum:
		return a.Arena.VariantByName(t, variantName)

	case typesys.CatGenericInstance:
		base := a.Arena.Get(d.Base)
		if base.Category != typesys.CatEnum {
			return typesys.EnumVariant{}, false
		}
		v, ok := a.Arena.VariantByName(d.Base, variantName)
		if !ok {
			return typesys.EnumVariant{}, false
		}
		if v.AssocType != typesys.NoType && len(d.TypeArgs) == 1 {
			if a.Arena.Get(v.AssocType).Category == typesys.CatTypeParameter {
				v.AssocType = d.TypeArgs[0]
			}
		}
		return v, true

	case typesys.CatResult:
		switch variantName {
		case "Ok":
			return typesys.EnumVariant{Name: "Ok", AssocType: d.Ok, Discriminant: 0}, true
		case "Err":
			return typesys.EnumVariant{Name: "Err", AssocType: d.Err, Discriminant: 1}, true
		default:
			return typesys.EnumVariant{}, false
		}
	default:
		return typesys.EnumVariant{}, false
	}
}

// isEnumName reports whether name denotes an enum type for the purposes
// of rejecting `Enum::Variant` construction syntax: a user-declared enum,
// or the built-in "Option"/"Result" names, neither of which is ever
// registered in a.enums.
func (a *Analyzer) isEnumName(name string) bool {
	if name == "Option" || name == "Result" {
		return true
	}
	_, ok := a.enums[name]
	return ok
}

// ResolveEnumByName resolves a written enum name to its TypeID: a user
// enum's own declared name, the built-in "Option"/"Result" names (the
// uninstantiated generic base, for callers with no concrete scrutinee to
// recover type arguments from), or an already-rendered canonical name
// such as "Option<i32>" or "Result<i32, string>" (Arena.Name's own output
// for a GenericInstance or Result descriptor). Code generation uses this
// to recover the nominal type a pattern or constructor's enum name
// denotes without re-deriving it the way the analyzer's own bidirectional
// inference does at the expression-analysis sites.
func (a *Analyzer) ResolveEnumByName(name string) (typesys.TypeID, bool) {
	if id, ok := a.enums[name]; ok {
		return id, true
	}
	switch name {
	case "Option":
		return a.Builtins.OptionBase, true
	case "Result":
		return a.Builtins.ResultBase, true
	}
	return a.Arena.ByCanon(name)
}

// resolveEnumForConstruct resolves name, the enum named by a dot-form
// constructor or pattern, to the concrete TypeID variant resolution
// should proceed against. A user enum resolves the same as always; the
// built-in Option/Result sugar instead instantiates from expected (§4.3.2's
// bidirectional rule), since neither ever appears in a.enums.
func (a *Analyzer) resolveEnumForConstruct(name string, expected typesys.TypeID) (typesys.TypeID, bool) {
	if id, ok := a.enums[name]; ok {
		return id, true
	}
	if name != "Option" && name != "Result" || expected == typesys.NoType {
		return typesys.NoType, false
	}
	d := a.Arena.Get(expected)
	switch name {
	case "Option":
		if d.Category == typesys.CatGenericInstance && d.Base == a.Builtins.OptionBase {
			return expected, true
		}
	case "Result":
		if d.Category == typesys.CatResult {
			return expected, true
		}
	}
	return typesys.NoType, false
}
