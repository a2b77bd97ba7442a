package astjson

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/testsupport"
)

var (
	named    = testsupport.Named
	ident    = testsupport.Ident
	intLit   = testsupport.IntLit
	boolLit  = testsupport.BoolLit
	strLit   = testsupport.StringLit
	block    = testsupport.Block
	exprStmt = testsupport.ExprStmt
)

// roundTrip encodes prog, decodes the result, and returns the reconstructed
// program alongside the raw JSON (for fixture-style inspection on failure).
func roundTrip(t *testing.T, prog *ast.Program) (*ast.Program, []byte) {
	t.Helper()
	data, err := Encode(prog)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	return got, data
}

// diffOpts ignores Pos (source-location bookkeeping irrelevant to shape) and
// treats a nil slice as equal to an empty one, since round-tripping through
// JSON turns every omitted slice into "[]".
var diffOpts = []cmp.Option{
	cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".Pos"
	}, cmp.Ignore()),
	cmpopts.EquateEmpty(),
}

func TestRoundTripSimpleFunction(t *testing.T) {
	// fn add(a: i32, b: i32) -> i32 { return a + b; }
	fn := &ast.FuncDecl{
		Name:       "add",
		Visibility: ast.Public,
		Params:     []*ast.Param{{Name: "a", Type: named("i32")}, {Name: "b", Type: named("i32")}},
		ReturnType: named("i32"),
		Body: block(&ast.ReturnStmt{Value: &ast.BinaryExpr{
			Op: "+", Left: ident("a"), Right: ident("b"),
		}}),
	}
	prog := &ast.Program{PackageName: "arith", Decls: []ast.Decl{fn}}

	got, _ := roundTrip(t, prog)
	if diff := cmp.Diff(prog, got, diffOpts...); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripStructEnumImpl(t *testing.T) {
	point := &ast.StructDecl{
		Name:       "Point",
		Visibility: ast.Public,
		Fields: []*ast.FieldDecl{
			{Name: "x", Type: named("i32"), Visibility: ast.Public},
			{Name: "y", Type: named("i32"), Visibility: ast.Public},
		},
	}
	one := int64(1)
	shape := &ast.EnumDecl{
		Name:       "Shape",
		Visibility: ast.Public,
		Variants: []*ast.VariantDecl{
			{Name: "Circle", AssocType: named("f64")},
			{Name: "Empty", ExplicitValue: &one},
		},
	}
	impl := &ast.ImplDecl{
		TypeName: "Point",
		Methods: []*ast.FuncDecl{{
			Name:       "magnitude",
			Params:     []*ast.Param{{Name: "self", Type: &ast.PointerType{Pointee: named("Point")}}},
			ReturnType: named("i32"),
			Body:       block(&ast.ReturnStmt{Value: intLit(0)}),
		}},
	}
	prog := &ast.Program{
		PackageName: "geometry",
		Imports:     []*ast.ImportDecl{{Path: "std/math", Alias: "m"}},
		Decls:       []ast.Decl{point, shape, impl},
	}

	got, _ := roundTrip(t, prog)
	if diff := cmp.Diff(prog, got, diffOpts...); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripMatchAndPatterns(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:       "describe",
		ReturnType: named("string"),
		Body: block(exprStmt(&ast.MatchExpr{
			Scrutinee: ident("n"),
			Arms: []*ast.MatchArm{
				{Pattern: &ast.LiteralPattern{Kind: ast.IntLiteral, Value: int64(0)}, Body: strLit("zero")},
				{Pattern: &ast.IdentPattern{Name: "other"}, Guard: boolLit(true), Body: strLit("other")},
				{Pattern: &ast.WildcardPattern{}, Body: strLit("fallback")},
			},
		})),
	}
	prog := &ast.Program{PackageName: "p", Decls: []ast.Decl{fn}}

	got, _ := roundTrip(t, prog)
	if diff := cmp.Diff(prog, got, diffOpts...); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripIfElseChainAndExternDecl(t *testing.T) {
	ext := &ast.ExternDecl{
		Name:       "malloc",
		Params:     []*ast.ExternParam{{Name: "size", Type: named("usize"), Transfer: ast.TransferNone}},
		ReturnType: &ast.PointerType{Pointee: named("u8"), Mutable: true},
		ReturnXfer: ast.TransferFull,
		SymbolName: "malloc",
	}
	fn := &ast.FuncDecl{
		Name: "classify",
		Params: []*ast.Param{{Name: "n", Type: named("i32")}},
		Body: block(exprStmt(&ast.IfExpr{
			Cond: &ast.BinaryExpr{Op: ">", Left: ident("n"), Right: intLit(0)},
			Then: block(exprStmt(strLit("positive"))),
			Else: &ast.IfExpr{
				Cond: &ast.BinaryExpr{Op: "<", Left: ident("n"), Right: intLit(0)},
				Then: block(exprStmt(strLit("negative"))),
				Else: block(exprStmt(strLit("zero"))),
			},
		})),
	}
	prog := &ast.Program{PackageName: "p", Decls: []ast.Decl{ext, fn}}

	got, _ := roundTrip(t, prog)
	if diff := cmp.Diff(prog, got, diffOpts...); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsMissingKind(t *testing.T) {
	_, err := Decode([]byte(`{"package_name": "p", "decls": [{"name": "oops"}]}`))
	require.Error(t, err)
}

func TestDecodeRejectsUnknownDeclKind(t *testing.T) {
	_, err := Decode([]byte(`{"package_name": "p", "decls": [{"kind": "MacroDecl", "pos": {}}]}`))
	require.Error(t, err)
}
