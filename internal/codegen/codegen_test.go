package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/diag"
	"github.com/asthra-lang/asthrac/internal/ir"
	"github.com/asthra-lang/asthrac/internal/sema"
	"github.com/asthra-lang/asthrac/internal/testsupport"
)

var (
	named    = testsupport.Named
	ident    = testsupport.Ident
	intLit   = testsupport.IntLit
	block    = testsupport.Block
	exprStmt = testsupport.ExprStmt
)

// lowered analyzes prog (failing the test if analysis rejects it) and
// hands the result to a fresh Generator, returning the emitted buffer.
func lowered(t *testing.T, prog *ast.Program) *ir.Buffer {
	t.Helper()
	a := sema.New(diag.NewSink(diag.Low))
	ok := a.AnalyzeProgram(prog)
	require.True(t, ok, "program must pass analysis before codegen sees it")
	require.False(t, a.Sink.HasErrors())

	buf, err := New(a).Generate(prog)
	require.NoError(t, err)
	return buf
}

// countOp returns how many instructions in buf carry opcode op.
func countOp(buf *ir.Buffer, op ir.Opcode) int {
	n := 0
	for _, in := range buf.Instructions() {
		if in.Opcode == op {
			n++
		}
	}
	return n
}

func TestArithmeticFunctionLowersToAddAndReturn(t *testing.T) {
	// fn add(a: i32, b: i32) -> i32 { return a + b; }
	fn := &ast.FuncDecl{
		Name:       "add",
		Params:     []*ast.Param{{Name: "a", Type: named("i32")}, {Name: "b", Type: named("i32")}},
		ReturnType: named("i32"),
		Body: block(&ast.ReturnStmt{Value: &ast.BinaryExpr{
			Op: "+", Left: ident("a"), Right: ident("b"),
		}}),
	}
	prog := &ast.Program{Decls: []ast.Decl{fn}}

	buf := lowered(t, prog)
	require.NoError(t, buf.Validate())
	require.Equal(t, 2, countOp(buf, ir.ADD), "the body's one addition must lower to exactly one ADD, beside the epilogue's frame-deallocating ADD")
	require.Equal(t, 1, countOp(buf, ir.RET))
}

func TestStructFieldAccessAndAssignment(t *testing.T) {
	// struct Point { x: i32, y: i32 }
	// fn f() -> i32 {
	//     let p: Point = Point { x: 1, y: 2 };
	//     p.x = 9;
	//     return p.x;
	// }
	point := &ast.StructDecl{
		Name: "Point",
		Fields: []*ast.FieldDecl{
			{Name: "x", Type: named("i32")},
			{Name: "y", Type: named("i32")},
		},
	}
	fn := &ast.FuncDecl{
		Name:       "f",
		ReturnType: named("i32"),
		Body: block(
			&ast.LetStmt{Name: "p", Type: named("Point"), Value: &ast.StructLiteralExpr{
				TypeName: "Point",
				Fields: []*ast.FieldInit{
					{Name: "x", Value: intLit(1)},
					{Name: "y", Value: intLit(2)},
				},
			}},
			exprStmt(&ast.AssignExpr{
				Target: &ast.FieldAccessExpr{Object: ident("p"), Field: "x"},
				Value:  intLit(9),
			}),
			&ast.ReturnStmt{Value: &ast.FieldAccessExpr{Object: ident("p"), Field: "x"}},
		),
	}
	prog := &ast.Program{Decls: []ast.Decl{point, fn}}

	buf := lowered(t, prog)
	require.NoError(t, buf.Validate())
	require.Equal(t, 1, countOp(buf, ir.RET))
}

func TestMatchOverEnumLowersOneArmPerVariant(t *testing.T) {
	// enum Direction { North, South }
	// fn f(d: Direction) -> i32 {
	//     match d {
	//         Direction.North => 1,
	//         Direction.South => 2,
	//     }
	// }
	dir := &ast.EnumDecl{
		Name: "Direction",
		Variants: []*ast.VariantDecl{
			{Name: "North"},
			{Name: "South"},
		},
	}
	fn := &ast.FuncDecl{
		Name:       "f",
		Params:     []*ast.Param{{Name: "d", Type: named("Direction")}},
		ReturnType: named("i32"),
		Body: block(&ast.ReturnStmt{Value: &ast.MatchExpr{
			Scrutinee: ident("d"),
			Arms: []*ast.MatchArm{
				{Pattern: &ast.VariantPattern{EnumName: "Direction", Variant: "North"}, Body: intLit(1)},
				{Pattern: &ast.VariantPattern{EnumName: "Direction", Variant: "South"}, Body: intLit(2)},
			},
		}}),
	}
	prog := &ast.Program{Decls: []ast.Decl{dir, fn}}

	buf := lowered(t, prog)
	require.NoError(t, buf.Validate())
	// One discriminant comparison per arm (the arm-by-arm test chain).
	require.Equal(t, 2, countOp(buf, ir.CMP))
}

func TestMethodCallDispatchesThroughMangledLabel(t *testing.T) {
	// struct Counter { value: i32 }
	// impl Counter { fn get(self: Counter) -> i32 { return self.value; } }
	// fn main() -> i32 {
	//     let c: Counter = Counter { value: 7 };
	//     return c.get();
	// }
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

	buf := lowered(t, prog)
	require.NoError(t, buf.Validate())
	require.Equal(t, 1, countOp(buf, ir.CALL))
	found := false
	for _, in := range buf.Instructions() {
		if in.Opcode == ir.CALL && len(in.Operands) == 1 && in.Operands[0].Label == "Counter_get" {
			found = true
		}
	}
	require.True(t, found, "method call must branch to the mangled Counter_get label")
}

func TestResultConstructorLowersDiscriminantMove(t *testing.T) {
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

	buf := lowered(t, prog)
	require.NoError(t, buf.Validate())
	require.GreaterOrEqual(t, countOp(buf, ir.MOV), 2, "Result.Ok(42) must lower a discriminant move and a payload move")
}

func TestMatchOverOptionLowersOneArmPerVariant(t *testing.T) {
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

	buf := lowered(t, prog)
	require.NoError(t, buf.Validate())
	require.Equal(t, 2, countOp(buf, ir.CMP), "a built-in Option match lowers one discriminant comparison per arm just like a user enum")
}

func TestForLoopOverRangeLowersCountedLoop(t *testing.T) {
	// fn sum(n: i32) -> i32 {
	//     let total: i32 = 0;
	//     for i in range(n) {
	//         total = total + i;
	//     }
	//     return total;
	// }
	fn := &ast.FuncDecl{
		Name:       "sum",
		Params:     []*ast.Param{{Name: "n", Type: named("i32")}},
		ReturnType: named("i32"),
		Body: block(
			&ast.LetStmt{Name: "total", Type: named("i32"), Value: intLit(0)},
			&ast.ForStmt{
				Var:  "i",
				Iter: &ast.CallExpr{Func: ident("range"), Args: []ast.Expr{ident("n")}},
				Body: block(exprStmt(&ast.AssignExpr{
					Target: ident("total"),
					Value:  &ast.BinaryExpr{Op: "+", Left: ident("total"), Right: ident("i")},
				})),
			},
			&ast.ReturnStmt{Value: ident("total")},
		),
	}
	prog := &ast.Program{Decls: []ast.Decl{fn}}

	buf := lowered(t, prog)
	require.NoError(t, buf.Validate())
	require.GreaterOrEqual(t, countOp(buf, ir.JMP), 2, "a counted loop needs at least a back-edge and a condition-fail exit")
}
