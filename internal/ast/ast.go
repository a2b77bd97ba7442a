// Package ast defines the in-scope slice of the Asthra abstract syntax tree:
// the declaration, expression, statement, pattern, and type node set consumed
// by the semantic analyzer and code generator. The lexer/parser that produces
// these nodes lives outside this module; tests build AST literals directly.
package ast

import (
	"fmt"
	"strings"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	String() string
	Position() Pos
}

// Pos is a single point in a source file.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open range in a source file, used by diagnostics.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	if s.Start.File == s.End.File && s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.File, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// TypeInfo is a structural mirror of a resolved typesys.TypeDescriptor,
// attached to every expression node the analyzer accepts. Codegen reads
// TypeInfo instead of depending on the analyzer package directly.
type TypeInfo struct {
	Category string // mirrors typesys.Category.String()
	Name     string // canonical name, e.g. "i32", "Vec<i32>", "Result<i32, string>"
	Size     int64
	Align    int64
}

// Annotated is embedded by every expression node. It carries the fields
// the analyzer fills in after a node is accepted.
type Annotated struct {
	NodeType  *TypeInfo
	Validated bool
}

func (a *Annotated) Type() *TypeInfo     { return a.NodeType }
func (a *Annotated) SetType(t *TypeInfo) { a.NodeType = t }

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
	Type() *TypeInfo
	SetType(*TypeInfo)
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// TypeExpr is implemented by every surface type-annotation node (as written
// by the programmer, before resolution into a typesys.TypeDescriptor).
type TypeExpr interface {
	Node
	typeNode()
}

// Pattern is implemented by every pattern node.
type Pattern interface {
	Node
	patternNode()
}

// Decl is implemented by every top-level declaration node.
type Decl interface {
	Node
	declNode()
}

// Visibility is the pub/priv discipline on declarations and fields.
type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "pub"
	}
	return "priv"
}

// Program is the root of a compilation unit.
type Program struct {
	PackageName string
	Imports     []*ImportDecl
	Decls       []Decl
	Pos         Pos
}

func (p *Program) Position() Pos { return p.Pos }
func (p *Program) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n", p.PackageName)
	for _, d := range p.Decls {
		b.WriteString(d.String())
		b.WriteString("\n")
	}
	return b.String()
}

// ImportDecl brings another module's exported symbols into scope.
type ImportDecl struct {
	Path  string
	Alias string
	Pos   Pos
}

func (i *ImportDecl) Position() Pos { return i.Pos }
func (i *ImportDecl) declNode()     {}
func (i *ImportDecl) String() string {
	if i.Alias != "" {
		return fmt.Sprintf("import %q as %s;", i.Path, i.Alias)
	}
	return fmt.Sprintf("import %q;", i.Path)
}
