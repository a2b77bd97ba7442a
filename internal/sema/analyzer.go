// Package sema is the Asthra semantic analyzer: the declaration pass,
// expression/statement/pattern analysis, and bidirectional type
// inference that turns a parsed ast.Program into a validated one where
// every expression carries a resolved ast.TypeInfo (SPEC_FULL.md §4.3).
//
// The analyzer never aborts on the first error: each top-level
// declaration is analyzed independently, so one bad declaration doesn't
// suppress diagnostics from its siblings (spec.md §5 ordering
// guarantees, §7 propagation policy).
package sema

import (
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/diag"
	"github.com/asthra-lang/asthrac/internal/symtab"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

const phase = "sema"

// Analyzer carries the mutable context described in spec.md §4.3:
// current scope, current function, expected type (for bidirectional
// inference), a diagnostic sink, and the type universe.
type Analyzer struct {
	Arena    *typesys.Arena
	Builtins typesys.Builtins
	Sink     *diag.Sink

	root  *symtab.Table
	scope *symtab.Table

	structs    map[string]typesys.TypeID
	enums      map[string]typesys.TypeID
	typeParams map[string]typesys.TypeID // active only while resolving one declaration's signature

	currentFn *funcContext
	loopDepth int
}

type funcContext struct {
	name       string
	returnType typesys.TypeID
}

// New creates an analyzer with a fresh arena, the Option/Result
// intrinsics registered, and a root scope seeded with predeclared names.
func New(sink *diag.Sink) *Analyzer {
	arena := typesys.NewArena()
	builtins := typesys.RegisterBuiltins(arena)
	root := symtab.NewRoot()
	return &Analyzer{
		Arena:    arena,
		Builtins: builtins,
		Sink:     sink,
		root:     root,
		scope:    root,
		structs:  map[string]typesys.TypeID{},
		enums:    map[string]typesys.TypeID{},
	}
}

// LookupStruct returns the TypeID registered for a struct declared by
// name, for callers downstream of analysis (code generation) that need
// the struct's field layout without re-walking the declaration list.
func (a *Analyzer) LookupStruct(name string) (typesys.TypeID, bool) {
	id, ok := a.structs[name]
	return id, ok
}

// LookupEnum mirrors LookupStruct for enum declarations.
func (a *Analyzer) LookupEnum(name string) (typesys.TypeID, bool) {
	id, ok := a.enums[name]
	return id, ok
}

// LookupFunction returns the resolved signature of a free function or
// extern declared at module scope.
func (a *Analyzer) LookupFunction(name string) (typesys.TypeID, bool) {
	sym, ok := a.root.LookupLocal(name)
	if !ok || sym.Kind != symtab.KindFunction {
		return typesys.NoType, false
	}
	return sym.Type, true
}

func (a *Analyzer) pushScope() { a.scope = a.scope.Push() }
func (a *Analyzer) popScope() {
	if parent := a.scope.Parent(); parent != nil {
		a.scope = parent
	}
}

func span(pos ast.Pos) ast.Span { return ast.Span{Start: pos, End: pos} }

func (a *Analyzer) report(code string, sev diag.Severity, pos ast.Pos, format string, args ...interface{}) *diag.Report {
	r := diag.New(code, phase, sev, fmt.Sprintf(format, args...)).WithSpan(span(pos))
	a.Sink.Report(r)
	return r
}

func (a *Analyzer) errorAt(pos ast.Pos, code, format string, args ...interface{}) *diag.Report {
	return a.report(code, diag.SevError, pos, format, args...)
}

// visibleNames collects every name reachable from the current scope,
// used by the undefined-identifier suggestion heuristic.
func (a *Analyzer) visibleNames() []string {
	seen := map[string]bool{}
	var names []string
	for s := a.scope; s != nil; s = s.Parent() {
		for n := range s.AllLocal() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

func typeInfo(a *Analyzer, id typesys.TypeID) *ast.TypeInfo {
	return &ast.TypeInfo{
		Category: a.Arena.Get(id).Category.String(),
		Name:     a.Arena.Name(id),
		Size:     a.Arena.Size(id),
		Align:    a.Arena.Align(id),
	}
}

func isLiteral(e ast.Expr) bool {
	_, ok := e.(*ast.Literal)
	return ok
}
