package ast

import (
	"fmt"
	"strings"
)

// TypeParam is a single generic parameter on a struct, enum, function, or
// associated-function type-argument list.
type TypeParam struct {
	Name string
	Pos  Pos
}

// Param is a single function parameter.
type Param struct {
	Name string
	Type TypeExpr
	Pos  Pos
}

func (p *Param) String() string { return fmt.Sprintf("%s: %s", p.Name, p.Type) }

// FFITransfer is the ownership-transfer annotation on an extern parameter or
// return type: #[transfer_full], #[transfer_none], #[borrowed].
type FFITransfer int

const (
	TransferNone FFITransfer = iota
	TransferFull
	Borrowed
)

func (t FFITransfer) String() string {
	switch t {
	case TransferFull:
		return "transfer_full"
	case Borrowed:
		return "borrowed"
	default:
		return "transfer_none"
	}
}

// FuncDecl is a free function or, inside an ImplDecl, a method / associated
// function.
type FuncDecl struct {
	Name       string
	Visibility Visibility
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType TypeExpr // nil => void
	Body       *Block
	Pos        Pos
	Span       Span
}

func (f *FuncDecl) Position() Pos { return f.Pos }
func (f *FuncDecl) declNode()     {}
func (f *FuncDecl) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	ret := "void"
	if f.ReturnType != nil {
		ret = f.ReturnType.String()
	}
	return fmt.Sprintf("%s fn %s(%s) -> %s %s", f.Visibility, f.Name, strings.Join(params, ", "), ret, f.Body)
}

// ExternParam is a parameter of an extern function, carrying its FFI
// transfer annotation alongside the declared type.
type ExternParam struct {
	Name     string
	Type     TypeExpr
	Transfer FFITransfer
	Pos      Pos
}

// ExternDecl is a foreign-function declaration with no body.
type ExternDecl struct {
	Name          string
	Visibility    Visibility
	Params        []*ExternParam
	ReturnType    TypeExpr
	ReturnXfer    FFITransfer
	Variadic      bool
	VariadicStart int // index of the first variadic argument, if Variadic
	SymbolName    string
	Pos           Pos
	Span          Span
}

func (e *ExternDecl) Position() Pos { return e.Pos }
func (e *ExternDecl) declNode()     {}
func (e *ExternDecl) String() string {
	params := make([]string, len(e.Params))
	for i, p := range e.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, p.Type)
	}
	return fmt.Sprintf("extern fn %s(%s) -> %s;", e.Name, strings.Join(params, ", "), e.ReturnType)
}

// FieldDecl is one field of a struct.
type FieldDecl struct {
	Name       string
	Type       TypeExpr
	Visibility Visibility
	Pos        Pos
}

// StructDecl declares a nominal struct, optionally generic.
type StructDecl struct {
	Name       string
	Visibility Visibility
	TypeParams []*TypeParam
	Fields     []*FieldDecl
	Pos        Pos
	Span       Span
}

func (s *StructDecl) Position() Pos { return s.Pos }
func (s *StructDecl) declNode()     {}
func (s *StructDecl) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	return fmt.Sprintf("%s struct %s { %s }", s.Visibility, s.Name, strings.Join(fields, ", "))
}

// VariantDecl is one variant of an enum; it may carry a single associated
// type (tuples are used for multiple associated values) or an explicit
// integer discriminant.
type VariantDecl struct {
	Name          string
	AssocType     TypeExpr // nil if the variant carries no data
	ExplicitValue *int64   // nil => automatic: FNV-1a hash of Name
	Pos           Pos
}

// EnumDecl declares a tagged sum type, optionally generic.
type EnumDecl struct {
	Name       string
	Visibility Visibility
	TypeParams []*TypeParam
	Variants   []*VariantDecl
	Pos        Pos
	Span       Span
}

func (e *EnumDecl) Position() Pos { return e.Pos }
func (e *EnumDecl) declNode()     {}
func (e *EnumDecl) String() string {
	variants := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		variants[i] = v.Name
	}
	return fmt.Sprintf("%s enum %s { %s }", e.Visibility, e.Name, strings.Join(variants, ", "))
}

// ImplDecl attaches associated functions and instance methods to a named
// struct type.
type ImplDecl struct {
	TypeName string
	Methods  []*FuncDecl
	Pos      Pos
	Span     Span
}

func (i *ImplDecl) Position() Pos { return i.Pos }
func (i *ImplDecl) declNode()     {}
func (i *ImplDecl) String() string {
	return fmt.Sprintf("impl %s { %d methods }", i.TypeName, len(i.Methods))
}

// IsInstanceMethod reports whether f's first parameter is named "self".
func (f *FuncDecl) IsInstanceMethod() bool {
	return len(f.Params) > 0 && f.Params[0].Name == "self"
}
