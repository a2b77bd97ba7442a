package sema

import (
	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/symtab"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

// analyzePattern type-checks pat against scrutType and binds any
// identifiers it introduces into the current scope (§4.3.4). It is called
// once per match arm and once per if-let, always after a scope has been
// pushed by the caller.
func (a *Analyzer) analyzePattern(pat ast.Pattern, scrutType typesys.TypeID) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		// binds nothing
	case *ast.IdentPattern:
		if err := a.scope.InsertSafe(symtab.Symbol{Name: p.Name, Kind: symtab.KindVariable, Type: scrutType}); err != nil {
			a.errorAt(p.Pos, errDuplicateSymbol, "%s", err.Error())
		}
	case *ast.LiteralPattern:
		a.analyzeLiteralPattern(p, scrutType)
	case *ast.VariantPattern:
		a.analyzeVariantPattern(p, scrutType)
	case *ast.StructPattern:
		a.analyzeStructPattern(p, scrutType)
	case *ast.TuplePattern:
		a.analyzeTuplePattern(p, scrutType)
	}
}

func (a *Analyzer) analyzeLiteralPattern(p *ast.LiteralPattern, scrutType typesys.TypeID) {
	d := a.Arena.Get(scrutType)
	if d.Category != typesys.CatPrimitive {
		a.errorAt(p.Pos, errTypeMismatch, "literal pattern used against non-primitive type %s", a.Arena.Name(scrutType))
		return
	}
	switch p.Kind {
	case ast.IntLiteral:
		if !typesys.IsInteger(d.Prim) {
			a.errorAt(p.Pos, errTypeMismatch, "integer pattern against %s", a.Arena.Name(scrutType))
		}
	case ast.FloatLiteral:
		if !typesys.IsFloat(d.Prim) {
			a.errorAt(p.Pos, errTypeMismatch, "float pattern against %s", a.Arena.Name(scrutType))
		}
	case ast.StringLiteral:
		if d.Prim != typesys.StringKind {
			a.errorAt(p.Pos, errTypeMismatch, "string pattern against %s", a.Arena.Name(scrutType))
		}
	case ast.BoolLiteral:
		if d.Prim != typesys.Bool {
			a.errorAt(p.Pos, errTypeMismatch, "bool pattern against %s", a.Arena.Name(scrutType))
		}
	case ast.CharLiteral:
		if d.Prim != typesys.Char {
			a.errorAt(p.Pos, errTypeMismatch, "char pattern against %s", a.Arena.Name(scrutType))
		}
	}
}

// analyzeVariantPattern resolves EnumName from scrutType when the pattern
// omits it (the common `.Variant(x)` match-arm shorthand), matching
// BareVariantExpr's bidirectional inference on the expression side.
// scrutType may itself be a plain enum, a generic instantiation of one
// (Option<i32> resolves to CatGenericInstance, not CatEnum), or the
// Result<A,B> built-in sugar (CatResult) — ResolveVariant unwraps all
// three uniformly.
func (a *Analyzer) analyzeVariantPattern(p *ast.VariantPattern, scrutType typesys.TypeID) {
	if !a.isEnumLike(scrutType) {
		a.errorAt(p.Pos, errTypeMismatch, "variant pattern used against non-enum type %s", a.Arena.Name(scrutType))
		if p.Sub != nil {
			a.analyzePattern(p.Sub, a.Arena.Unknown())
		}
		return
	}
	baseName := a.enumBaseName(scrutType)
	if p.EnumName != "" && p.EnumName != baseName {
		a.errorAt(p.Pos, errTypeMismatch, "pattern names enum %q, scrutinee is %q", p.EnumName, baseName)
	}
	variant, ok := a.ResolveVariant(scrutType, p.Variant)
	if !ok {
		a.errorAt(p.Pos, errUndefinedSymbol, "enum %s has no variant %q", baseName, p.Variant)
		if p.Sub != nil {
			a.analyzePattern(p.Sub, a.Arena.Unknown())
		}
		return
	}
	if p.Sub == nil {
		if variant.AssocType != typesys.NoType {
			a.errorAt(p.Pos, errInvalidArguments, "variant %q carries data, pattern must bind it", p.Variant)
		}
		return
	}
	if variant.AssocType == typesys.NoType {
		a.errorAt(p.Pos, errInvalidArguments, "variant %q carries no data", p.Variant)
		a.analyzePattern(p.Sub, a.Arena.Unknown())
		return
	}
	a.analyzePattern(p.Sub, variant.AssocType)
}

func (a *Analyzer) analyzeStructPattern(p *ast.StructPattern, scrutType typesys.TypeID) {
	d := a.Arena.Get(scrutType)
	if d.Category != typesys.CatStruct {
		a.errorAt(p.Pos, errTypeMismatch, "struct pattern used against non-struct type %s", a.Arena.Name(scrutType))
		for _, f := range p.Fields {
			a.analyzePattern(f.Pattern, a.Arena.Unknown())
		}
		return
	}
	if p.TypeName != "" && p.TypeName != d.Name {
		a.errorAt(p.Pos, errTypeMismatch, "pattern names struct %q, scrutinee is %q", p.TypeName, d.Name)
	}
	fieldType := func(name string) (typesys.TypeID, bool) {
		for _, fld := range d.Fields {
			if fld.Name == name {
				return fld.Type, true
			}
		}
		return typesys.NoType, false
	}
	for _, f := range p.Fields {
		ft, ok := fieldType(f.Name)
		if !ok {
			a.errorAt(f.Pos, errUndefinedSymbol, "%s has no field %q", d.Name, f.Name)
			a.analyzePattern(f.Pattern, a.Arena.Unknown())
			continue
		}
		a.analyzePattern(f.Pattern, ft)
	}
}

func (a *Analyzer) analyzeTuplePattern(p *ast.TuplePattern, scrutType typesys.TypeID) {
	d := a.Arena.Get(scrutType)
	if d.Category != typesys.CatTuple {
		a.errorAt(p.Pos, errTypeMismatch, "tuple pattern used against non-tuple type %s", a.Arena.Name(scrutType))
		for _, e := range p.Elements {
			a.analyzePattern(e, a.Arena.Unknown())
		}
		return
	}
	if len(p.Elements) != len(d.Elements) {
		a.errorAt(p.Pos, errInvalidArguments, "tuple pattern has %d elements, type has %d", len(p.Elements), len(d.Elements))
	}
	for i, e := range p.Elements {
		if i >= len(d.Elements) {
			a.analyzePattern(e, a.Arena.Unknown())
			continue
		}
		a.analyzePattern(e, d.Elements[i])
	}
}
