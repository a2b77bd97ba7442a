// Package mono is the per-compilation generic monomorphization registry
// (§4.4): it records every unique (struct-or-enum, type-args) combination
// the generator encounters, materializes a specialized method table for
// the first occurrence, and hash-conses subsequent occurrences onto the
// same record by canonical name so the generator emits each monomorph's
// code exactly once.
package mono

import (
	"fmt"
	"sort"

	"github.com/asthra-lang/asthrac/internal/abi"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

// Method is one method or associated function on a monomorph, carrying
// both its original (generic) function type and the type it has after
// substituting the instantiation's concrete type arguments for the base
// struct's type parameters — the type codegen must use when emitting the
// specialized body.
type Method struct {
	Name         string
	MangledName  string
	GenericType  typesys.TypeID
	ConcreteType typesys.TypeID
}

// Monomorph is one materialized specialization: a struct or enum's
// canonical instantiation, plus its method table rewritten for the
// concrete type arguments.
type Monomorph struct {
	TypeID   typesys.TypeID // the CatGenericInstance descriptor (typesys.Arena.Instantiate's result)
	Base     typesys.TypeID
	TypeArgs []typesys.TypeID
	Canon    string
	Methods  map[string]*Method
}

// Registry tracks every monomorph materialized in one compilation. Not
// safe for concurrent use; the generator owns one Registry per compilation
// on its single analysis/codegen goroutine.
type Registry struct {
	arena *typesys.Arena
	byName map[string]*Monomorph
}

// New returns an empty registry backed by arena.
func New(arena *typesys.Arena) *Registry {
	return &Registry{arena: arena, byName: map[string]*Monomorph{}}
}

// Request records (or reuses) the monomorph for base<args...>. typeParams
// names the base struct/enum's declared type parameters in declaration
// order, matching args positionally, so method signatures referencing
// those parameters can be rewritten to the concrete types.
//
// The first request for a given canonical name triggers specialization:
// the method table is cloned from the base descriptor with every
// parameter/return type substituted and every method mangled to
// `StructName_A_B_methodName`. Later requests for the same canonical name
// return the existing record untouched (hash-consed by canonical name, the
// same guarantee typesys.Arena.Instantiate gives the underlying TypeID).
func (r *Registry) Request(base typesys.TypeID, typeParams []string, args []typesys.TypeID) (*Monomorph, error) {
	id, err := r.arena.Instantiate(base, args)
	if err != nil {
		return nil, err
	}
	canon := r.arena.CanonicalName(base, args)
	if existing, ok := r.byName[canon]; ok {
		return existing, nil
	}
	if len(typeParams) != len(args) {
		return nil, fmt.Errorf("mono: %s declares %d type parameters, got %d arguments", r.arena.Name(base), len(typeParams), len(args))
	}

	bindings := make(map[string]typesys.TypeID, len(typeParams))
	argNames := make([]string, len(args))
	for i, name := range typeParams {
		bindings[name] = args[i]
		argNames[i] = r.arena.Name(args[i])
	}

	baseDesc := r.arena.Get(base)
	methods := make(map[string]*Method, len(baseDesc.Methods))
	for name, funcType := range baseDesc.Methods {
		methods[name] = &Method{
			Name:         name,
			MangledName:  abi.MangleGeneric(baseDesc.Name, argNames, name),
			GenericType:  funcType,
			ConcreteType: substitute(r.arena, bindings, funcType),
		}
	}

	mono := &Monomorph{TypeID: id, Base: base, TypeArgs: append([]typesys.TypeID(nil), args...), Canon: canon, Methods: methods}
	r.byName[canon] = mono
	return mono, nil
}

// All returns every monomorph materialized so far, ordered by canonical
// name, the order the generator emits them in at end-of-module.
func (r *Registry) All() []*Monomorph {
	out := make([]*Monomorph, 0, len(r.byName))
	for _, m := range r.byName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canon < out[j].Canon })
	return out
}

// substitute rewrites every CatTypeParameter leaf reachable from id
// through pointer/slice/array/tuple/function composites, replacing it with
// its bound concrete type. Struct, enum, Result, and already-instantiated
// generic types are treated as opaque leaves: a field or parameter whose
// type is itself a bare, not-yet-instantiated generic struct/enum applied
// to one of these type parameters is a codegen-time limitation noted in
// the design ledger, not handled by this pass.
func substitute(arena *typesys.Arena, bindings map[string]typesys.TypeID, id typesys.TypeID) typesys.TypeID {
	d := arena.Get(id)
	switch d.Category {
	case typesys.CatTypeParameter:
		if repl, ok := bindings[d.ParamName]; ok {
			return repl
		}
		return id
	case typesys.CatPointer:
		return arena.NewPointer(substitute(arena, bindings, d.Elem), d.Mutable)
	case typesys.CatSlice:
		return arena.NewSlice(substitute(arena, bindings, d.Elem), d.Mutable)
	case typesys.CatArray:
		elem := substitute(arena, bindings, d.Elem)
		newID, err := arena.NewArray(elem, d.Length)
		if err != nil {
			// d.Length was already validated >= 1 when the array was first
			// constructed; substitution cannot make it invalid.
			panic(fmt.Sprintf("mono: substitute produced invalid array: %v", err))
		}
		return newID
	case typesys.CatTuple:
		elems := make([]typesys.TypeID, len(d.Elements))
		for i, e := range d.Elements {
			elems[i] = substitute(arena, bindings, e)
		}
		newID, err := arena.NewTuple(elems)
		if err != nil {
			panic(fmt.Sprintf("mono: substitute produced invalid tuple: %v", err))
		}
		return newID
	case typesys.CatFunction:
		params := make([]typesys.TypeID, len(d.Params))
		for i, p := range d.Params {
			params[i] = substitute(arena, bindings, p)
		}
		ret := substitute(arena, bindings, d.Return)
		return arena.NewFunction(params, ret, d.Extern, d.ExternName)
	default:
		return id
	}
}
