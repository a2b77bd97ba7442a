package sema

import (
	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/diag"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

// analyzeExpr resolves e's type and annotates it, threading an expected
// type through literal and enum-constructor sites for bidirectional
// inference (§4.3.2). expected may be typesys.NoType when no context
// applies (e.g. the scrutinee of a match).
func (a *Analyzer) analyzeExpr(e ast.Expr, expected typesys.TypeID) typesys.TypeID {
	var id typesys.TypeID
	switch ex := e.(type) {
	case *ast.Literal:
		id = a.analyzeLiteral(ex, expected)
	case *ast.Identifier:
		id = a.analyzeIdentifier(ex)
	case *ast.BinaryExpr:
		id = a.analyzeBinary(ex)
	case *ast.UnaryExpr:
		id = a.analyzeUnary(ex)
	case *ast.AssignExpr:
		id = a.analyzeAssign(ex)
	case *ast.CallExpr:
		id = a.analyzeCall(ex)
	case *ast.MethodCallExpr:
		id = a.analyzeMethodCall(ex)
	case *ast.AssocCallExpr:
		id = a.analyzeAssocCall(ex)
	case *ast.EnumConstructExpr:
		id = a.analyzeEnumConstruct(ex, expected)
	case *ast.BareVariantExpr:
		id = a.analyzeBareVariant(ex, expected)
	case *ast.FieldAccessExpr:
		id = a.analyzeFieldAccess(ex)
	case *ast.IndexExpr:
		id = a.analyzeIndex(ex)
	case *ast.SliceExpr:
		id = a.analyzeSlice(ex)
	case *ast.StructLiteralExpr:
		id = a.analyzeStructLiteral(ex)
	case *ast.ArrayLiteralExpr:
		id = a.analyzeArrayLiteral(ex, expected)
	case *ast.TupleLiteralExpr:
		id = a.analyzeTupleLiteral(ex)
	case *ast.MatchExpr:
		id = a.analyzeMatchExpr(ex, expected)
	case *ast.IfExpr:
		id = a.analyzeIfExpr(ex, expected)
	case *ast.IfLetExpr:
		id = a.analyzeIfLetExpr(ex, expected)
	case *ast.Block:
		id = a.analyzeBlock(ex)
	default:
		id = a.Arena.Unknown()
	}
	e.SetType(typeInfo(a, id))
	return id
}

func (a *Analyzer) analyzeLiteral(l *ast.Literal, expected typesys.TypeID) typesys.TypeID {
	switch l.Kind {
	case ast.IntLiteral:
		if l.Suffix != "" {
			if kind, ok := primitiveKeywords[l.Suffix]; ok && typesys.IsInteger(kind) {
				return a.Arena.Primitive(kind)
			}
		}
		if expected != typesys.NoType {
			if ed := a.Arena.Get(expected); ed.Category == typesys.CatPrimitive && typesys.IsInteger(ed.Prim) {
				return expected
			}
		}
		return a.Arena.Primitive(typesys.I32)
	case ast.FloatLiteral:
		if l.Suffix != "" {
			if kind, ok := primitiveKeywords[l.Suffix]; ok && typesys.IsFloat(kind) {
				return a.Arena.Primitive(kind)
			}
		}
		if expected != typesys.NoType {
			if ed := a.Arena.Get(expected); ed.Category == typesys.CatPrimitive && typesys.IsFloat(ed.Prim) {
				return expected
			}
		}
		return a.Arena.Primitive(typesys.F64)
	case ast.StringLiteral:
		return a.Arena.Primitive(typesys.StringKind)
	case ast.BoolLiteral:
		return a.Arena.Primitive(typesys.Bool)
	case ast.CharLiteral:
		return a.Arena.Primitive(typesys.Char)
	default: // UnitLiteral
		return a.Arena.Void()
	}
}

func (a *Analyzer) analyzeIdentifier(id *ast.Identifier) typesys.TypeID {
	sym, ok := a.scope.LookupSafe(id.Name)
	if !ok {
		r := a.errorAt(id.Pos, errUndefinedSymbol, "undefined identifier %q", id.Name)
		if sug, found := diag.SuggestUndefinedIdentifier(id.Name, a.visibleNames(), span(id.Pos)); found {
			r.WithSuggestion(sug)
		}
		return a.Arena.Unknown()
	}
	return sym.Type
}

func (a *Analyzer) analyzeBinary(b *ast.BinaryExpr) typesys.TypeID {
	lt := a.analyzeExpr(b.Left, typesys.NoType)
	rt := a.analyzeExpr(b.Right, lt)
	switch b.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		if !a.Arena.Equal(lt, rt) && !a.Arena.IsAssignable(rt, lt, isLiteral(b.Right)) && !a.Arena.IsAssignable(lt, rt, isLiteral(b.Left)) {
			a.errorAt(b.Pos, errTypeMismatch, "cannot compare %s and %s", a.Arena.Name(lt), a.Arena.Name(rt))
		}
		return a.Arena.Primitive(typesys.Bool)
	case "&&", "||":
		boolT := a.Arena.Primitive(typesys.Bool)
		if !a.Arena.Equal(lt, boolT) {
			a.errorAt(b.Left.Position(), errTypeMismatch, "expected bool, found %s", a.Arena.Name(lt))
		}
		if !a.Arena.Equal(rt, boolT) {
			a.errorAt(b.Right.Position(), errTypeMismatch, "expected bool, found %s", a.Arena.Name(rt))
		}
		return boolT
	default: // + - * / % & | ^ << >>
		if a.Arena.Equal(lt, rt) {
			return lt
		}
		if a.Arena.IsAssignable(rt, lt, isLiteral(b.Right)) {
			return lt
		}
		if a.Arena.IsAssignable(lt, rt, isLiteral(b.Left)) {
			return rt
		}
		a.errorAt(b.Pos, errTypeMismatch, "operator %q requires matching operand types, found %s and %s", b.Op, a.Arena.Name(lt), a.Arena.Name(rt)).
			WithSuggestion(diag.SuggestTypeMismatch(a.Arena.Name(lt), a.Arena.Name(rt), span(b.Pos)))
		return a.Arena.Unknown()
	}
}

func (a *Analyzer) analyzeUnary(u *ast.UnaryExpr) typesys.TypeID {
	ot := a.analyzeExpr(u.Operand, typesys.NoType)
	switch u.Op {
	case "!":
		return a.Arena.Primitive(typesys.Bool)
	case "-":
		return ot
	case "&":
		return a.Arena.NewPointer(ot, false)
	case "&mut":
		return a.Arena.NewPointer(ot, true)
	case "*":
		d := a.Arena.Get(ot)
		if d.Category != typesys.CatPointer {
			a.errorAt(u.Pos, errInvalidType, "cannot dereference non-pointer type %s", a.Arena.Name(ot))
			return a.Arena.Unknown()
		}
		return d.Elem
	default:
		return ot
	}
}

func (a *Analyzer) analyzeAssign(as *ast.AssignExpr) typesys.TypeID {
	if !isPlaceExpr(as.Target) {
		a.errorAt(as.Target.Position(), errInvalidExpression, "left-hand side of assignment must be a place expression")
	}
	tt := a.analyzeExpr(as.Target, typesys.NoType)
	vt := a.analyzeExpr(as.Value, tt)
	if !a.Arena.Equal(tt, vt) && !a.Arena.IsAssignable(vt, tt, isLiteral(as.Value)) {
		a.errorAt(as.Pos, errTypeMismatch, "cannot assign %s to %s", a.Arena.Name(vt), a.Arena.Name(tt)).
			WithSuggestion(diag.SuggestTypeMismatch(a.Arena.Name(vt), a.Arena.Name(tt), span(as.Pos)))
	}
	return a.Arena.Void()
}

func isPlaceExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.FieldAccessExpr, *ast.IndexExpr:
		return true
	case *ast.UnaryExpr:
		return e.(*ast.UnaryExpr).Op == "*"
	}
	return false
}

// analyzeCall dispatches an identifier-shaped call: the predeclared
// len/range specializations, or an ordinary named function (§4.3.2).
func (a *Analyzer) analyzeCall(c *ast.CallExpr) typesys.TypeID {
	ident, ok := c.Func.(*ast.Identifier)
	if !ok {
		a.errorAt(c.Func.Position(), errNotCallable, "expression is not callable")
		for _, arg := range c.Args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	switch ident.Name {
	case "len":
		return a.analyzeLenCall(c)
	case "range":
		return a.analyzeRangeCall(c)
	case "panic":
		for _, arg := range c.Args {
			a.analyzeExpr(arg, a.Arena.Primitive(typesys.StringKind))
		}
		return a.Arena.Void()
	case "log":
		for _, arg := range c.Args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return a.Arena.Void()
	}
	sym, ok := a.scope.LookupSafe(ident.Name)
	if !ok {
		r := a.errorAt(ident.Pos, errUndefinedSymbol, "undefined function %q", ident.Name)
		if sug, found := diag.SuggestUndefinedIdentifier(ident.Name, a.visibleNames(), span(ident.Pos)); found {
			r.WithSuggestion(sug)
		}
		for _, arg := range c.Args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	fd := a.Arena.Get(sym.Type)
	if fd.Category != typesys.CatFunction {
		a.errorAt(ident.Pos, errNotCallable, "%q is not a function", ident.Name)
		for _, arg := range c.Args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	a.checkArgs(c.Pos, ident.Name, fd.Params, c.Args)
	return fd.Return
}

func (a *Analyzer) analyzeLenCall(c *ast.CallExpr) typesys.TypeID {
	if len(c.Args) != 1 {
		a.errorAt(c.Pos, errInvalidArguments, "len expects 1 argument, got %d", len(c.Args))
	}
	for _, arg := range c.Args {
		a.analyzeExpr(arg, typesys.NoType)
	}
	return a.Arena.Primitive(typesys.USize)
}

func (a *Analyzer) analyzeRangeCall(c *ast.CallExpr) typesys.TypeID {
	if len(c.Args) != 1 && len(c.Args) != 2 {
		a.errorAt(c.Pos, errInvalidArguments, "range expects 1 or 2 arguments, got %d", len(c.Args))
	}
	isizeT := a.Arena.Primitive(typesys.ISize)
	for _, arg := range c.Args {
		a.analyzeExpr(arg, isizeT)
	}
	return a.Arena.Unknown() // iterator shape, consumed only by for-loops
}

// checkArgs validates arity and, per parameter, assignability, reporting
// the 1-based argument index in the message per §4.7's diagnostic style.
func (a *Analyzer) checkArgs(pos ast.Pos, callee string, params []typesys.TypeID, args []ast.Expr) {
	if len(args) != len(params) {
		a.errorAt(pos, errInvalidArguments, "%s expects %d argument(s), got %d", callee, len(params), len(args))
	}
	for i, arg := range args {
		var expected typesys.TypeID = typesys.NoType
		if i < len(params) {
			expected = params[i]
		}
		at := a.analyzeExpr(arg, expected)
		if i >= len(params) {
			continue
		}
		if !a.Arena.Equal(at, params[i]) && !a.Arena.IsAssignable(at, params[i], isLiteral(arg)) {
			a.errorAt(arg.Position(), errTypeMismatch, "argument %d to %s: expected %s, found %s",
				i+1, callee, a.Arena.Name(params[i]), a.Arena.Name(at))
		}
	}
}

func (a *Analyzer) analyzeMethodCall(m *ast.MethodCallExpr) typesys.TypeID {
	objT := a.analyzeExpr(m.Object, typesys.NoType)
	d := a.Arena.Get(objT)
	if d.Category == typesys.CatSlice && m.Method == "len" {
		for _, arg := range m.Args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return a.Arena.Primitive(typesys.USize)
	}
	if d.Category != typesys.CatStruct {
		a.errorAt(m.Pos, errInvalidExpression, "method call on non-struct type %s", a.Arena.Name(objT))
		for _, arg := range m.Args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	fnType, ok := d.Methods[m.Method]
	if !ok {
		a.errorAt(m.Pos, errUndefinedSymbol, "%s has no method %q", d.Name, m.Method)
		for _, arg := range m.Args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	fd := a.Arena.Get(fnType)
	params := fd.Params
	if len(params) > 0 {
		params = params[1:] // drop self
	}
	a.checkArgs(m.Pos, m.Method, params, m.Args)
	return fd.Return
}

// analyzeAssocCall handles `Type::func(args)`. `::` is reserved for
// struct-associated functions (§4.2, §4.3.2): an enum's variants are
// constructed with `.`, so if TypeName names an enum (a user declaration
// or the built-in Option/Result names) this rejects the call instead of
// silently treating it as a constructor.
func (a *Analyzer) analyzeAssocCall(ac *ast.AssocCallExpr) typesys.TypeID {
	if a.isEnumName(ac.TypeName) {
		a.errorAt(ac.Pos, errInvalidExpression, "enum variant construction uses '.', not '::'; write %s.%s(...) instead", ac.TypeName, ac.Func)
		for _, arg := range ac.Args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	structID, ok := a.structs[ac.TypeName]
	if !ok {
		a.errorAt(ac.Pos, errUndefinedSymbol, "undefined type %q", ac.TypeName)
		for _, arg := range ac.Args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	d := a.Arena.Get(structID)
	fnType, ok := d.Methods[ac.Func]
	if !ok {
		a.errorAt(ac.Pos, errUndefinedSymbol, "%s has no associated function %q", ac.TypeName, ac.Func)
		for _, arg := range ac.Args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	fd := a.Arena.Get(fnType)
	a.checkArgs(ac.Pos, ac.TypeName+"::"+ac.Func, fd.Params, ac.Args)
	return fd.Return
}

func (a *Analyzer) analyzeVariantArgs(pos ast.Pos, enumID typesys.TypeID, variant typesys.EnumVariant, args []ast.Expr) typesys.TypeID {
	if variant.AssocType == typesys.NoType {
		if len(args) != 0 {
			a.errorAt(pos, errInvalidArguments, "variant %q carries no data", variant.Name)
		}
		for _, arg := range args {
			a.analyzeExpr(arg, typesys.NoType)
		}
		return enumID
	}
	if len(args) != 1 {
		a.errorAt(pos, errInvalidArguments, "variant %q expects 1 argument, got %d", variant.Name, len(args))
	}
	for _, arg := range args {
		at := a.analyzeExpr(arg, variant.AssocType)
		if !a.Arena.Equal(at, variant.AssocType) && !a.Arena.IsAssignable(at, variant.AssocType, isLiteral(arg)) {
			a.errorAt(arg.Position(), errTypeMismatch, "variant %q expects %s, found %s",
				variant.Name, a.Arena.Name(variant.AssocType), a.Arena.Name(at))
		}
	}
	return enumID
}

func (a *Analyzer) analyzeEnumConstruct(e *ast.EnumConstructExpr, expected typesys.TypeID) typesys.TypeID {
	enumID, ok := a.resolveEnumForConstruct(e.EnumName, expected)
	if !ok {
		a.errorAt(e.Pos, errUndefinedSymbol, "undefined enum %q", e.EnumName)
		if e.Arg != nil {
			a.analyzeExpr(e.Arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	variant, ok := a.ResolveVariant(enumID, e.Variant)
	if !ok {
		a.errorAt(e.Pos, errUndefinedSymbol, "enum %s has no variant %q", a.Arena.Name(enumID), e.Variant)
		if e.Arg != nil {
			a.analyzeExpr(e.Arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	var args []ast.Expr
	if e.Arg != nil {
		args = []ast.Expr{e.Arg}
	}
	return a.analyzeVariantArgs(e.Pos, enumID, variant, args)
}

// analyzeBareVariant resolves `.Variant(arg?)` against expected, the only
// source of the enum name for this shorthand (§4.3.2 bidirectional rule).
func (a *Analyzer) analyzeBareVariant(b *ast.BareVariantExpr, expected typesys.TypeID) typesys.TypeID {
	if expected == typesys.NoType {
		a.errorAt(b.Pos, errTypeInferenceFailed, "cannot infer enum type for bare variant %q without context", b.Variant)
		if b.Arg != nil {
			a.analyzeExpr(b.Arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	if !a.isEnumLike(expected) {
		a.errorAt(b.Pos, errTypeMismatch, "bare variant %q used where %s expected", b.Variant, a.Arena.Name(expected))
		if b.Arg != nil {
			a.analyzeExpr(b.Arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	variant, ok := a.ResolveVariant(expected, b.Variant)
	if !ok {
		a.errorAt(b.Pos, errUndefinedSymbol, "enum %s has no variant %q", a.enumBaseName(expected), b.Variant)
		if b.Arg != nil {
			a.analyzeExpr(b.Arg, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	var args []ast.Expr
	if b.Arg != nil {
		args = []ast.Expr{b.Arg}
	}
	return a.analyzeVariantArgs(b.Pos, expected, variant, args)
}

func (a *Analyzer) analyzeFieldAccess(f *ast.FieldAccessExpr) typesys.TypeID {
	objT := a.analyzeExpr(f.Object, typesys.NoType)
	d := a.Arena.Get(objT)
	if f.Field == "len" && (d.Category == typesys.CatSlice || d.Category == typesys.CatArray) {
		return a.Arena.Primitive(typesys.USize)
	}
	if d.Category != typesys.CatStruct {
		a.errorAt(f.Pos, errInvalidExpression, "field access on non-struct type %s", a.Arena.Name(objT))
		return a.Arena.Unknown()
	}
	for _, field := range d.Fields {
		if field.Name == f.Field {
			return field.Type
		}
	}
	a.errorAt(f.Pos, errUndefinedSymbol, "%s has no field %q", d.Name, f.Field)
	return a.Arena.Unknown()
}

func (a *Analyzer) analyzeIndex(ix *ast.IndexExpr) typesys.TypeID {
	baseT := a.analyzeExpr(ix.Base, typesys.NoType)
	a.analyzeExpr(ix.Index, a.Arena.Primitive(typesys.USize))
	d := a.Arena.Get(baseT)
	switch d.Category {
	case typesys.CatSlice, typesys.CatArray:
		return d.Elem
	default:
		a.errorAt(ix.Pos, errInvalidType, "cannot index type %s", a.Arena.Name(baseT))
		return a.Arena.Unknown()
	}
}

func (a *Analyzer) analyzeSlice(s *ast.SliceExpr) typesys.TypeID {
	baseT := a.analyzeExpr(s.Base, typesys.NoType)
	usizeT := a.Arena.Primitive(typesys.USize)
	if s.Start != nil {
		a.analyzeExpr(s.Start, usizeT)
	}
	if s.End != nil {
		a.analyzeExpr(s.End, usizeT)
	}
	d := a.Arena.Get(baseT)
	switch d.Category {
	case typesys.CatSlice:
		return baseT
	case typesys.CatArray:
		return a.Arena.NewSlice(d.Elem, false)
	default:
		a.errorAt(s.Pos, errInvalidType, "cannot slice type %s", a.Arena.Name(baseT))
		return a.Arena.Unknown()
	}
}

func (a *Analyzer) analyzeStructLiteral(sl *ast.StructLiteralExpr) typesys.TypeID {
	structID, ok := a.structs[sl.TypeName]
	if !ok {
		a.errorAt(sl.Pos, errUndefinedSymbol, "undefined struct %q", sl.TypeName)
		for _, f := range sl.Fields {
			a.analyzeExpr(f.Value, typesys.NoType)
		}
		return a.Arena.Unknown()
	}
	d := a.Arena.Get(structID)
	fieldType := func(name string) (typesys.TypeID, bool) {
		for _, fld := range d.Fields {
			if fld.Name == name {
				return fld.Type, true
			}
		}
		return typesys.NoType, false
	}
	given := map[string]bool{}
	for _, f := range sl.Fields {
		if given[f.Name] {
			a.errorAt(f.Pos, errDuplicateSymbol, "duplicate field %q in struct literal", f.Name)
		}
		given[f.Name] = true
		ft, ok := fieldType(f.Name)
		if !ok {
			a.errorAt(f.Pos, errUndefinedSymbol, "%s has no field %q", sl.TypeName, f.Name)
			a.analyzeExpr(f.Value, typesys.NoType)
			continue
		}
		vt := a.analyzeExpr(f.Value, ft)
		if !a.Arena.Equal(vt, ft) && !a.Arena.IsAssignable(vt, ft, isLiteral(f.Value)) {
			a.errorAt(f.Value.Position(), errTypeMismatch, "field %q: expected %s, found %s", f.Name, a.Arena.Name(ft), a.Arena.Name(vt))
		}
	}
	for _, fld := range d.Fields {
		if !given[fld.Name] {
			a.errorAt(sl.Pos, errInvalidArguments, "missing field %q in struct literal for %s", fld.Name, sl.TypeName)
		}
	}
	return structID
}

func (a *Analyzer) analyzeArrayLiteral(al *ast.ArrayLiteralExpr, expected typesys.TypeID) typesys.TypeID {
	elemExpected := typesys.NoType
	if expected != typesys.NoType {
		if ed := a.Arena.Get(expected); ed.Category == typesys.CatArray || ed.Category == typesys.CatSlice {
			elemExpected = ed.Elem
		}
	}
	if al.Repeat != nil {
		elemT := a.analyzeExpr(al.Repeat, elemExpected)
		id, err := a.Arena.NewArray(elemT, al.Count)
		if err != nil {
			a.errorAt(al.Pos, errInvalidType, "%s", err.Error())
			return a.Arena.Unknown()
		}
		return id
	}
	if len(al.Elements) == 0 {
		a.errorAt(al.Pos, errInvalidType, "array literal must have at least one element")
		return a.Arena.Unknown()
	}
	first := a.analyzeExpr(al.Elements[0], elemExpected)
	for _, e := range al.Elements[1:] {
		et := a.analyzeExpr(e, first)
		if !a.Arena.Equal(et, first) && !a.Arena.IsAssignable(et, first, isLiteral(e)) {
			a.errorAt(e.Position(), errTypeMismatch, "array element: expected %s, found %s", a.Arena.Name(first), a.Arena.Name(et))
		}
	}
	id, err := a.Arena.NewArray(first, int64(len(al.Elements)))
	if err != nil {
		a.errorAt(al.Pos, errInvalidType, "%s", err.Error())
		return a.Arena.Unknown()
	}
	return id
}

func (a *Analyzer) analyzeTupleLiteral(t *ast.TupleLiteralExpr) typesys.TypeID {
	elems := make([]typesys.TypeID, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = a.analyzeExpr(e, typesys.NoType)
	}
	id, err := a.Arena.NewTuple(elems)
	if err != nil {
		a.errorAt(t.Pos, errInvalidType, "%s", err.Error())
		return a.Arena.Unknown()
	}
	return id
}

func (a *Analyzer) analyzeIfExpr(i *ast.IfExpr, expected typesys.TypeID) typesys.TypeID {
	condT := a.analyzeExpr(i.Cond, a.Arena.Primitive(typesys.Bool))
	if !a.Arena.Equal(condT, a.Arena.Primitive(typesys.Bool)) {
		a.errorAt(i.Cond.Position(), errTypeMismatch, "if condition must be bool, found %s", a.Arena.Name(condT))
	}
	thenT := a.analyzeBlock(i.Then)
	if i.Else == nil {
		return a.Arena.Void()
	}
	var elseT typesys.TypeID
	switch e := i.Else.(type) {
	case *ast.Block:
		elseT = a.analyzeBlock(e)
	case *ast.IfExpr:
		elseT = a.analyzeIfExpr(e, expected)
	default:
		elseT = a.Arena.Unknown()
	}
	if a.Arena.Equal(thenT, elseT) {
		return thenT
	}
	return a.Arena.Void()
}

func (a *Analyzer) analyzeIfLetExpr(i *ast.IfLetExpr, expected typesys.TypeID) typesys.TypeID {
	valT := a.analyzeExpr(i.Value, typesys.NoType)
	a.pushScope()
	a.analyzePattern(i.Pattern, valT)
	thenT := a.analyzeBlock(i.Then)
	a.popScope()
	if i.Else == nil {
		return a.Arena.Void()
	}
	var elseT typesys.TypeID
	switch e := i.Else.(type) {
	case *ast.Block:
		elseT = a.analyzeBlock(e)
	case *ast.IfExpr:
		elseT = a.analyzeIfExpr(e, expected)
	case *ast.IfLetExpr:
		elseT = a.analyzeIfLetExpr(e, expected)
	default:
		elseT = a.Arena.Unknown()
	}
	if a.Arena.Equal(thenT, elseT) {
		return thenT
	}
	return a.Arena.Void()
}
