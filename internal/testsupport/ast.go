// Package testsupport holds the hand-built-AST helpers and golden-fixture
// comparison every package's tests need, so internal/sema, internal/codegen,
// and internal/diag don't each redefine the same half-dozen node
// constructors (mirroring how the teacher's internal/parser/testutil.go
// and testutil/golden.go centralize their own test plumbing).
package testsupport

import "github.com/asthra-lang/asthrac/internal/ast"

// Named builds a bare named type reference, e.g. the i32 in "x: i32".
func Named(name string) *ast.NamedType { return &ast.NamedType{Name: name} }

// Ident builds a bare identifier reference.
func Ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

// IntLit builds an integer literal expression.
func IntLit(v int64) *ast.Literal { return &ast.Literal{Kind: ast.IntLiteral, Value: v} }

// BoolLit builds a boolean literal expression.
func BoolLit(v bool) *ast.Literal { return &ast.Literal{Kind: ast.BoolLiteral, Value: v} }

// StringLit builds a string literal expression.
func StringLit(v string) *ast.Literal { return &ast.Literal{Kind: ast.StringLiteral, Value: v} }

// Block wraps a sequence of statements into a function/loop body.
func Block(stmts ...ast.Stmt) *ast.Block { return &ast.Block{Stmts: stmts} }

// ExprStmt wraps an expression evaluated for its side effect.
func ExprStmt(e ast.Expr) *ast.ExprStmt { return &ast.ExprStmt{Expr: e} }
