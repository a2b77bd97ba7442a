package ast

import (
	"fmt"
	"strings"
)

// NamedType is a bare identifier type reference: a primitive name, or a
// struct/enum name, optionally with type arguments (a generic instance).
type NamedType struct {
	Name     string
	TypeArgs []TypeExpr
	Pos      Pos
}

func (n *NamedType) Position() Pos { return n.Pos }
func (n *NamedType) typeNode()     {}
func (n *NamedType) String() string {
	if len(n.TypeArgs) == 0 {
		return n.Name
	}
	args := make([]string, len(n.TypeArgs))
	for i, a := range n.TypeArgs {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", n.Name, strings.Join(args, ", "))
}

// PointerType is `*T` or `*mut T`.
type PointerType struct {
	Pointee TypeExpr
	Mutable bool
	Pos     Pos
}

func (p *PointerType) Position() Pos { return p.Pos }
func (p *PointerType) typeNode()     {}
func (p *PointerType) String() string {
	if p.Mutable {
		return fmt.Sprintf("*mut %s", p.Pointee)
	}
	return fmt.Sprintf("*%s", p.Pointee)
}

// SliceType is `[]T` or `[]mut T`.
type SliceType struct {
	Element TypeExpr
	Mutable bool
	Pos     Pos
}

func (s *SliceType) Position() Pos { return s.Pos }
func (s *SliceType) typeNode()     {}
func (s *SliceType) String() string {
	if s.Mutable {
		return fmt.Sprintf("[]mut %s", s.Element)
	}
	return fmt.Sprintf("[]%s", s.Element)
}

// ArrayType is `[N]T`, a fixed-length array.
type ArrayType struct {
	Element TypeExpr
	Length  int64
	Pos     Pos
}

func (a *ArrayType) Position() Pos { return a.Pos }
func (a *ArrayType) typeNode()     {}
func (a *ArrayType) String() string {
	return fmt.Sprintf("[%d]%s", a.Length, a.Element)
}

// TupleType is `(T1, T2, ...)`, arity >= 2.
type TupleType struct {
	Elements []TypeExpr
	Pos      Pos
}

func (t *TupleType) Position() Pos { return t.Pos }
func (t *TupleType) typeNode()     {}
func (t *TupleType) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

// ResultType is the built-in `Result<Ok, Err>` sugar.
type ResultType struct {
	Ok  TypeExpr
	Err TypeExpr
	Pos Pos
}

func (r *ResultType) Position() Pos { return r.Pos }
func (r *ResultType) typeNode()     {}
func (r *ResultType) String() string {
	return fmt.Sprintf("Result<%s, %s>", r.Ok, r.Err)
}

// OptionType is the built-in `Option<T>` sugar.
type OptionType struct {
	Elem TypeExpr
	Pos  Pos
}

func (o *OptionType) Position() Pos { return o.Pos }
func (o *OptionType) typeNode()     {}
func (o *OptionType) String() string {
	return fmt.Sprintf("Option<%s>", o.Elem)
}
