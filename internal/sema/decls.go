package sema

import (
	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/diag"
	"github.com/asthra-lang/asthrac/internal/symtab"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

// AnalyzeProgram runs the full declaration pass over prog and returns
// true iff no error-severity diagnostic was produced (§7: has_errors
// gates the code generator). Struct and enum names are registered before
// any field or variant type is resolved, and function/extern signatures
// before any body is analyzed, so forward references to types and
// functions declared later in the same module are permitted (§5).
func (a *Analyzer) AnalyzeProgram(prog *ast.Program) bool {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			a.registerStructName(decl)
		case *ast.EnumDecl:
			a.registerEnumName(decl)
		}
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			a.analyzeStructBody(decl)
		case *ast.EnumDecl:
			a.analyzeEnumBody(decl)
		}
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			a.registerFunctionSignature(decl)
		case *ast.ExternDecl:
			a.registerExternSignature(decl)
		case *ast.ImplDecl:
			a.registerImplSignatures(decl)
		}
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			a.analyzeFunctionBody(decl)
		case *ast.ImplDecl:
			a.analyzeImplBodies(decl)
		case *ast.ImportDecl:
			a.analyzeImport(decl)
		}
	}

	return !a.Sink.HasErrors()
}

func (a *Analyzer) registerStructName(decl *ast.StructDecl) {
	if _, exists := a.structs[decl.Name]; exists {
		a.errorAt(decl.Pos, errDuplicateSymbol, "struct %q already declared", decl.Name)
		return
	}
	id := a.Arena.NewStruct(decl.Name, nil, len(decl.TypeParams))
	a.structs[decl.Name] = id
	if err := a.root.InsertSafe(symtab.Symbol{Name: decl.Name, Kind: symtab.KindStruct, Type: id}); err != nil {
		a.errorAt(decl.Pos, errDuplicateSymbol, "%s", err.Error())
	}
}

func (a *Analyzer) registerEnumName(decl *ast.EnumDecl) {
	if _, exists := a.enums[decl.Name]; exists {
		a.errorAt(decl.Pos, errDuplicateSymbol, "enum %q already declared", decl.Name)
		return
	}
	id := a.Arena.NewEnum(decl.Name, nil, len(decl.TypeParams))
	a.enums[decl.Name] = id
	if err := a.root.InsertSafe(symtab.Symbol{Name: decl.Name, Kind: symtab.KindEnum, Type: id}); err != nil {
		a.errorAt(decl.Pos, errDuplicateSymbol, "%s", err.Error())
	}
}

func (a *Analyzer) withTypeParams(params []*ast.TypeParam, fn func()) {
	saved := a.typeParams
	a.typeParams = map[string]typesys.TypeID{}
	seen := map[string]bool{}
	for _, p := range params {
		if seen[p.Name] {
			a.errorAt(p.Pos, errDuplicateSymbol, "duplicate type parameter %q", p.Name)
			continue
		}
		seen[p.Name] = true
		a.typeParams[p.Name] = a.Arena.NewTypeParameter(p.Name)
	}
	fn()
	a.typeParams = saved
}

func (a *Analyzer) analyzeStructBody(decl *ast.StructDecl) {
	id, ok := a.structs[decl.Name]
	if !ok {
		return
	}
	var fields []typesys.StructField
	a.withTypeParams(decl.TypeParams, func() {
		seen := map[string]bool{}
		for _, f := range decl.Fields {
			if seen[f.Name] {
				a.errorAt(f.Pos, errDuplicateSymbol, "duplicate field %q in struct %s", f.Name, decl.Name)
				continue
			}
			seen[f.Name] = true
			fields = append(fields, typesys.StructField{Name: f.Name, Type: a.resolveType(f.Type)})
		}
	})
	a.Arena.UpdateStructFields(id, fields)
}

func (a *Analyzer) analyzeEnumBody(decl *ast.EnumDecl) {
	id, ok := a.enums[decl.Name]
	if !ok {
		return
	}
	var variants []typesys.EnumVariant
	seen := map[string]bool{}
	a.withTypeParams(decl.TypeParams, func() {
		for _, v := range decl.Variants {
			if seen[v.Name] {
				a.errorAt(v.Pos, errDuplicateSymbol, "duplicate variant %q in enum %s", v.Name, decl.Name)
				continue
			}
			seen[v.Name] = true
			assoc := typesys.NoType
			if v.AssocType != nil {
				assoc = a.resolveType(v.AssocType)
			}
			// Explicit integer values are kept verbatim; automatic
			// discriminants use the FNV-1a hash of the variant name
			// rather than a 0-based counter, per §6's binary-ABI
			// requirement that discriminant assignment be stable
			// across compiler runs independent of declaration order.
			discr := typesys.FNV1a32(v.Name)
			if v.ExplicitValue != nil {
				discr = uint32(*v.ExplicitValue)
			}
			variants = append(variants, typesys.EnumVariant{Name: v.Name, AssocType: assoc, Discriminant: discr})
		}
	})
	a.Arena.UpdateEnumVariants(id, variants)
	for _, v := range variants {
		if err := a.root.InsertEnumVariant(decl.Name, v.Name, v.AssocType); err != nil {
			a.errorAt(decl.Pos, errDuplicateSymbol, "%s", err.Error())
		}
	}
}

func (a *Analyzer) registerFunctionSignature(decl *ast.FuncDecl) typesys.TypeID {
	var fnType typesys.TypeID
	a.withTypeParams(decl.TypeParams, func() {
		params := make([]typesys.TypeID, len(decl.Params))
		for i, p := range decl.Params {
			params[i] = a.resolveType(p.Type)
		}
		ret := a.resolveType(decl.ReturnType)
		fnType = a.Arena.NewFunction(params, ret, false, "")
	})
	sym := symtab.Symbol{Name: decl.Name, Kind: symtab.KindFunction, Type: fnType}
	if err := a.root.InsertSafe(sym); err != nil {
		a.errorAt(decl.Pos, errDuplicateSymbol, "%s", err.Error())
	}
	return fnType
}

func (a *Analyzer) registerExternSignature(decl *ast.ExternDecl) {
	params := make([]typesys.TypeID, len(decl.Params))
	for i, p := range decl.Params {
		pt := a.resolveType(p.Type)
		if !a.Arena.IsFFICompatible(pt) {
			if _, isSlice := p.Type.(*ast.SliceType); isSlice {
				a.report(errInvalidType, diag.SevNote, p.Pos, "slice parameter %q lowered to pointer+length at the FFI boundary", p.Name)
			} else {
				a.errorAt(p.Pos, errInvalidType, "extern parameter %q has a non-FFI-compatible type", p.Name)
			}
		}
		params[i] = pt
	}
	ret := a.resolveType(decl.ReturnType)
	if decl.ReturnType != nil && !a.Arena.IsFFICompatible(ret) {
		a.errorAt(decl.Pos, errInvalidType, "extern function %q has a non-FFI-compatible return type", decl.Name)
	}
	fnType := a.Arena.NewFunction(params, ret, true, decl.SymbolName)
	if err := a.root.InsertSafe(symtab.Symbol{Name: decl.Name, Kind: symtab.KindFunction, Type: fnType}); err != nil {
		a.errorAt(decl.Pos, errDuplicateSymbol, "%s", err.Error())
	}
}

func (a *Analyzer) registerImplSignatures(decl *ast.ImplDecl) {
	structID, ok := a.structs[decl.TypeName]
	if !ok {
		a.errorAt(decl.Pos, errInvalidDeclaration, "impl block names undefined struct %q", decl.TypeName)
		return
	}
	for _, m := range decl.Methods {
		fnType := a.registerImplMethodSignature(m)
		a.Arena.AttachMethod(structID, m.Name, fnType)
	}
}

func (a *Analyzer) registerImplMethodSignature(decl *ast.FuncDecl) typesys.TypeID {
	var fnType typesys.TypeID
	a.withTypeParams(decl.TypeParams, func() {
		params := make([]typesys.TypeID, len(decl.Params))
		for i, p := range decl.Params {
			params[i] = a.resolveType(p.Type)
		}
		ret := a.resolveType(decl.ReturnType)
		fnType = a.Arena.NewFunction(params, ret, false, "")
	})
	return fnType
}

func (a *Analyzer) analyzeFunctionBody(decl *ast.FuncDecl) {
	fnSym, ok := a.root.LookupLocal(decl.Name)
	if !ok {
		return
	}
	a.analyzeFuncBodyWithSignature(decl, fnSym.Type)
}

func (a *Analyzer) analyzeImplBodies(decl *ast.ImplDecl) {
	structID, ok := a.structs[decl.TypeName]
	if !ok {
		return
	}
	for _, m := range decl.Methods {
		methods := a.Arena.Get(structID).Methods
		fnType, ok := methods[m.Name]
		if !ok {
			continue
		}
		a.analyzeFuncBodyWithSignature(m, fnType)
	}
}

func (a *Analyzer) analyzeFuncBodyWithSignature(decl *ast.FuncDecl, fnType typesys.TypeID) {
	if decl.Body == nil {
		return
	}
	fd := a.Arena.Get(fnType)
	a.pushScope()
	defer a.popScope()

	for i, p := range decl.Params {
		var ptype typesys.TypeID
		if i < len(fd.Params) {
			ptype = fd.Params[i]
		} else {
			ptype = a.resolveType(p.Type)
		}
		if err := a.scope.InsertSafe(symtab.Symbol{Name: p.Name, Kind: symtab.KindVariable, Type: ptype}); err != nil {
			a.errorAt(p.Pos, errDuplicateSymbol, "%s", err.Error())
		}
	}

	savedFn := a.currentFn
	a.currentFn = &funcContext{name: decl.Name, returnType: fd.Return}
	a.analyzeBlock(decl.Body)
	a.currentFn = savedFn
}

func (a *Analyzer) analyzeImport(decl *ast.ImportDecl) {
	// Module resolution against a search path is out of this core's
	// scope (spec.md §4.3.1: "Resolved against a module search path (not
	// specified here; see §6)"). The analyzer only validates the import
	// is syntactically well-formed, which parsing already guarantees.
	_ = decl
}
