package ast

import (
	"fmt"
	"strings"
)

// WildcardPattern matches anything and binds nothing: `_`.
type WildcardPattern struct{ Pos Pos }

func (w *WildcardPattern) Position() Pos  { return w.Pos }
func (w *WildcardPattern) patternNode()   {}
func (w *WildcardPattern) String() string { return "_" }

// IdentPattern matches anything and binds it to Name.
type IdentPattern struct {
	Name string
	Pos  Pos
}

func (i *IdentPattern) Position() Pos  { return i.Pos }
func (i *IdentPattern) patternNode()   {}
func (i *IdentPattern) String() string { return i.Name }

// LiteralPattern matches a constant integer, float, string, bool, or char.
type LiteralPattern struct {
	Kind  LiteralKind
	Value interface{}
	Pos   Pos
}

func (l *LiteralPattern) Position() Pos  { return l.Pos }
func (l *LiteralPattern) patternNode()   {}
func (l *LiteralPattern) String() string { return fmt.Sprintf("%v", l.Value) }

// VariantPattern matches `Enum.Variant(subpattern?)`. Binding is the plain
// identifier form `Enum.Variant(x)` that both tests and binds in one step.
type VariantPattern struct {
	EnumName string // may be empty; resolved from scrutinee type when so
	Variant  string
	Sub      Pattern // nil for a unit variant
	Pos      Pos
}

func (v *VariantPattern) Position() Pos { return v.Pos }
func (v *VariantPattern) patternNode()  {}
func (v *VariantPattern) String() string {
	if v.Sub == nil {
		return fmt.Sprintf("%s.%s", v.EnumName, v.Variant)
	}
	return fmt.Sprintf("%s.%s(%s)", v.EnumName, v.Variant, v.Sub)
}

// StructFieldPattern is one field binding inside a StructPattern.
type StructFieldPattern struct {
	Name    string
	Pattern Pattern
	Pos     Pos
}

// StructPattern matches `S { f1: p1, ... }`.
type StructPattern struct {
	TypeName string
	Fields   []*StructFieldPattern
	Pos      Pos
}

func (s *StructPattern) Position() Pos { return s.Pos }
func (s *StructPattern) patternNode()  {}
func (s *StructPattern) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Pattern)
	}
	return fmt.Sprintf("%s { %s }", s.TypeName, strings.Join(fields, ", "))
}

// TuplePattern matches `(p1, p2, ...)`.
type TuplePattern struct {
	Elements []Pattern
	Pos      Pos
}

func (t *TuplePattern) Position() Pos { return t.Pos }
func (t *TuplePattern) patternNode()  {}
func (t *TuplePattern) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}
