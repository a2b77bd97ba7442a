package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/diag"
	"github.com/asthra-lang/asthrac/internal/testsupport"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

var (
	named    = testsupport.Named
	ident    = testsupport.Ident
	intLit   = testsupport.IntLit
	block    = testsupport.Block
	exprStmt = testsupport.ExprStmt
)

func newAnalyzer() *Analyzer {
	return New(diag.NewSink(diag.Low))
}

func TestForwardReferenceBetweenFunctions(t *testing.T) {
	// fn first() -> i32 { return second(); }
	// fn second() -> i32 { return 1; }
	first := &ast.FuncDecl{
		Name:       "first",
		ReturnType: named("i32"),
		Body:       block(&ast.ReturnStmt{Value: &ast.CallExpr{Func: ident("second")}}),
	}
	second := &ast.FuncDecl{
		Name:       "second",
		ReturnType: named("i32"),
		Body:       block(&ast.ReturnStmt{Value: intLit(1)}),
	}
	prog := &ast.Program{Decls: []ast.Decl{first, second}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok, "forward reference to a later-declared function must be permitted")
	require.False(t, a.Sink.HasErrors())
}

func TestForwardReferenceBetweenStructs(t *testing.T) {
	// struct Node { next: *Node }  -- self-reference via pointer, must not infinite-loop
	node := &ast.StructDecl{
		Name: "Node",
		Fields: []*ast.FieldDecl{
			{Name: "next", Type: &ast.PointerType{Pointee: named("Node")}},
		},
	}
	prog := &ast.Program{Decls: []ast.Decl{node}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok)
	id, exists := a.structs["Node"]
	require.True(t, exists)
	require.Len(t, a.Arena.Get(id).Fields, 1)
}

func TestDuplicateFieldInStructReportsError(t *testing.T) {
	s := &ast.StructDecl{
		Name: "Point",
		Fields: []*ast.FieldDecl{
			{Name: "x", Type: named("i32")},
			{Name: "x", Type: named("i32")},
		},
	}
	prog := &ast.Program{Decls: []ast.Decl{s}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.False(t, ok)
	require.True(t, a.Sink.HasErrors())
	found := false
	for _, r := range a.Sink.Reports() {
		if r.Code == errDuplicateSymbol {
			found = true
		}
	}
	require.True(t, found)
}

func TestUndefinedIdentifierGetsSuggestion(t *testing.T) {
	// fn f(count: i32) -> i32 { return cuont; }
	fn := &ast.FuncDecl{
		Name:       "f",
		Params:     []*ast.Param{{Name: "count", Type: named("i32")}},
		ReturnType: named("i32"),
		Body:       block(&ast.ReturnStmt{Value: ident("cuont")}),
	}
	prog := &ast.Program{Decls: []ast.Decl{fn}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.False(t, ok)

	var undefined *diag.Report
	for _, r := range a.Sink.Reports() {
		if r.Code == errUndefinedSymbol {
			undefined = r
		}
	}
	require.NotNil(t, undefined)
	require.NotEmpty(t, undefined.Suggestions)
	require.Equal(t, "count", undefined.Suggestions[0].Text)
}

func TestCallArityMismatch(t *testing.T) {
	callee := &ast.FuncDecl{
		Name:       "add",
		Params:     []*ast.Param{{Name: "a", Type: named("i32")}, {Name: "b", Type: named("i32")}},
		ReturnType: named("i32"),
		Body:       block(&ast.ReturnStmt{Value: intLit(0)}),
	}
	caller := &ast.FuncDecl{
		Name:       "main",
		ReturnType: named("i32"),
		Body: block(&ast.ReturnStmt{Value: &ast.CallExpr{
			Func: ident("add"),
			Args: []ast.Expr{intLit(1)},
		}}),
	}
	prog := &ast.Program{Decls: []ast.Decl{callee, caller}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.False(t, ok)
	found := false
	for _, r := range a.Sink.Reports() {
		if r.Code == errInvalidArguments {
			found = true
		}
	}
	require.True(t, found)
}

func TestLetTypeMismatchReportsError(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:       "f",
		ReturnType: nil,
		Body: block(
			&ast.LetStmt{Name: "x", Type: named("i32"), Value: &ast.Literal{Kind: ast.StringLiteral, Value: "hi"}},
		),
	}
	prog := &ast.Program{Decls: []ast.Decl{fn}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.False(t, ok)
	found := false
	for _, r := range a.Sink.Reports() {
		if r.Code == errTypeMismatch {
			found = true
		}
	}
	require.True(t, found)
}

func TestLiteralWideningIntoWiderIntIsAllowed(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:       "f",
		ReturnType: nil,
		Body: block(
			&ast.LetStmt{Name: "x", Type: named("i64"), Value: intLit(5)},
		),
	}
	prog := &ast.Program{Decls: []ast.Decl{fn}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok)
	require.False(t, a.Sink.HasErrors())
}

func TestNonExhaustiveMatchIsWarningNotError(t *testing.T) {
	// enum Direction { North, South }
	// fn f(d: Direction) -> i32 { match d { Direction.North => 1 } }
	dir := &ast.EnumDecl{
		Name: "Direction",
		Variants: []*ast.VariantDecl{
			{Name: "North"},
			{Name: "South"},
		},
	}
	fn := &ast.FuncDecl{
		Name:   "f",
		Params: []*ast.Param{{Name: "d", Type: named("Direction")}},
		Body: block(exprStmt(&ast.MatchExpr{
			Scrutinee: ident("d"),
			Arms: []*ast.MatchArm{
				{Pattern: &ast.VariantPattern{EnumName: "Direction", Variant: "North"}, Body: intLit(1)},
			},
		})),
	}
	prog := &ast.Program{Decls: []ast.Decl{dir, fn}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok, "a non-exhaustive match is a warning, not an error")

	found := false
	for _, r := range a.Sink.Reports() {
		if r.Code == warnNonExhaustiveMatch {
			found = true
			require.Equal(t, diag.SevWarning, r.Severity)
		}
	}
	require.True(t, found)
}

func TestExhaustiveMatchReportsNoWarning(t *testing.T) {
	dir := &ast.EnumDecl{
		Name: "Direction",
		Variants: []*ast.VariantDecl{
			{Name: "North"},
			{Name: "South"},
		},
	}
	fn := &ast.FuncDecl{
		Name:   "f",
		Params: []*ast.Param{{Name: "d", Type: named("Direction")}},
		Body: block(exprStmt(&ast.MatchExpr{
			Scrutinee: ident("d"),
			Arms: []*ast.MatchArm{
				{Pattern: &ast.VariantPattern{EnumName: "Direction", Variant: "North"}, Body: intLit(1)},
				{Pattern: &ast.VariantPattern{EnumName: "Direction", Variant: "South"}, Body: intLit(2)},
			},
		})),
	}
	prog := &ast.Program{Decls: []ast.Decl{dir, fn}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok)
	for _, r := range a.Sink.Reports() {
		require.NotEqual(t, warnNonExhaustiveMatch, r.Code)
	}
}

func TestEnumAutomaticDiscriminantsAreFNV1aHashed(t *testing.T) {
	dir := &ast.EnumDecl{
		Name: "Direction",
		Variants: []*ast.VariantDecl{
			{Name: "North"},
			{Name: "South"},
		},
	}
	prog := &ast.Program{Decls: []ast.Decl{dir}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok)

	id := a.enums["Direction"]
	north, ok := a.Arena.VariantByName(id, "North")
	require.True(t, ok)
	require.Equal(t, typesys.FNV1a32("North"), north.Discriminant)
}

func TestExplicitDiscriminantIsKeptVerbatim(t *testing.T) {
	explicit := int64(42)
	dir := &ast.EnumDecl{
		Name: "Status",
		Variants: []*ast.VariantDecl{
			{Name: "Ready", ExplicitValue: &explicit},
		},
	}
	prog := &ast.Program{Decls: []ast.Decl{dir}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok)

	id := a.enums["Status"]
	ready, ok := a.Arena.VariantByName(id, "Ready")
	require.True(t, ok)
	require.Equal(t, uint32(42), ready.Discriminant)
}

func TestSliceExternParamLoweredAsNote(t *testing.T) {
	ext := &ast.ExternDecl{
		Name:       "write_bytes",
		SymbolName: "asthra_write_bytes",
		Params: []*ast.ExternParam{
			{Name: "data", Type: &ast.SliceType{Element: named("u8")}},
		},
	}
	prog := &ast.Program{Decls: []ast.Decl{ext}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok, "a slice extern parameter is a lowering note, not an error")

	found := false
	for _, r := range a.Sink.Reports() {
		if r.Severity == diag.SevNote {
			found = true
		}
		require.NotEqual(t, diag.SevError, r.Severity)
	}
	require.True(t, found)
}

func TestMethodCallDispatchesThroughImpl(t *testing.T) {
	counter := &ast.StructDecl{
		Name:   "Counter",
		Fields: []*ast.FieldDecl{{Name: "value", Type: named("i32")}},
	}
	impl := &ast.ImplDecl{
		TypeName: "Counter",
		Methods: []*ast.FuncDecl{
			{
				Name:       "get",
				Params:     []*ast.Param{{Name: "self", Type: named("Counter")}},
				ReturnType: named("i32"),
				Body:       block(&ast.ReturnStmt{Value: &ast.FieldAccessExpr{Object: ident("self"), Field: "value"}}),
			},
		},
	}
	fn := &ast.FuncDecl{
		Name:       "main",
		ReturnType: named("i32"),
		Body: block(
			&ast.LetStmt{Name: "c", Type: named("Counter"), Value: &ast.StructLiteralExpr{
				TypeName: "Counter",
				Fields:   []*ast.FieldInit{{Name: "value", Value: intLit(7)}},
			}},
			&ast.ReturnStmt{Value: &ast.MethodCallExpr{Object: ident("c"), Method: "get"}},
		),
	}
	prog := &ast.Program{Decls: []ast.Decl{counter, impl, fn}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok)
	require.False(t, a.Sink.HasErrors())
}

func TestResultConstructorInfersFromReturnType(t *testing.T) {
	// fn f() -> Result<i32, string> { return Result.Ok(42); }
	fn := &ast.FuncDecl{
		Name:       "f",
		ReturnType: &ast.ResultType{Ok: named("i32"), Err: named("string")},
		Body: block(&ast.ReturnStmt{Value: &ast.EnumConstructExpr{
			EnumName: "Result",
			Variant:  "Ok",
			Arg:      intLit(42),
		}}),
	}
	prog := &ast.Program{Decls: []ast.Decl{fn}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok, "Result.Ok(42) must instantiate Result<i32, string> from the enclosing return type")
	require.False(t, a.Sink.HasErrors())
}

func TestMatchOnOptionResolvesBuiltinVariants(t *testing.T) {
	// fn f(opt: Option<i32>) -> i32 {
	//     match opt { Option.Some(x) => x, Option.None => 0 }
	// }
	fn := &ast.FuncDecl{
		Name:       "f",
		Params:     []*ast.Param{{Name: "opt", Type: &ast.OptionType{Elem: named("i32")}}},
		ReturnType: named("i32"),
		Body: block(&ast.ReturnStmt{Value: &ast.MatchExpr{
			Scrutinee: ident("opt"),
			Arms: []*ast.MatchArm{
				{Pattern: &ast.VariantPattern{EnumName: "Option", Variant: "Some", Sub: &ast.IdentPattern{Name: "x"}}, Body: ident("x")},
				{Pattern: &ast.VariantPattern{EnumName: "Option", Variant: "None"}, Body: intLit(0)},
			},
		}}),
	}
	prog := &ast.Program{Decls: []ast.Decl{fn}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok, "a variant pattern must resolve against an Option<i32> scrutinee")
	require.False(t, a.Sink.HasErrors())
}

func TestEnumVariantViaDoubleColonIsRejected(t *testing.T) {
	// fn f() -> Result<i32, string> { return Result::Ok(42); }
	fn := &ast.FuncDecl{
		Name:       "f",
		ReturnType: &ast.ResultType{Ok: named("i32"), Err: named("string")},
		Body: block(&ast.ReturnStmt{Value: &ast.AssocCallExpr{
			TypeName: "Result",
			Func:     "Ok",
			Args:     []ast.Expr{intLit(42)},
		}}),
	}
	prog := &ast.Program{Decls: []ast.Decl{fn}}

	a := newAnalyzer()
	ok := a.AnalyzeProgram(prog)
	require.False(t, ok, "'::' must not construct an enum variant")

	found := false
	for _, r := range a.Sink.Reports() {
		if r.Code == errInvalidExpression {
			found = true
		}
	}
	require.True(t, found, "rejecting Result::Ok must report errInvalidExpression")
}
