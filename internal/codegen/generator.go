// Package codegen lowers a sema-annotated ast.Program into the flat
// register-based internal/ir instruction stream (SPEC_FULL.md §4.4): it
// walks each function body with the teacher's type-switch dispatch style
// (one method per node kind, mirrored from the reference interpreter's
// evalCore dispatch), wiring together internal/ir, internal/regalloc,
// internal/label, internal/locals, and internal/mono the way the analyzer
// wires together internal/symtab and internal/typesys.
//
// Locals are always memory-resident: every let-binding and parameter gets
// a internal/locals.Frame slot, and internal/regalloc registers are used
// only as scratch space for evaluating one expression at a time. This is
// a deliberate simplification (documented in the design ledger) rather
// than a full live-range allocator; nothing in spec.md requires variables
// to stay resident in registers across statements.
package codegen

import (
	"fmt"

	"github.com/asthra-lang/asthrac/internal/abi"
	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/ir"
	"github.com/asthra-lang/asthrac/internal/label"
	"github.com/asthra-lang/asthrac/internal/mono"
	"github.com/asthra-lang/asthrac/internal/sema"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

// Generator holds everything shared across every function body in one
// compilation: the resolved type universe, the struct/enum/function name
// tables the analyzer already built, the generic monomorphization
// registry, and the single instruction buffer every function appends to.
type Generator struct {
	arena  *typesys.Arena
	sema   *sema.Analyzer
	mono   *mono.Registry
	buf    *ir.Buffer
	stats  *ir.Stats
	labels *label.Table

	implBodies map[implKey]*ast.FuncDecl
	structDecls map[string]*ast.StructDecl
}

// New returns a Generator that lowers functions analyzed by a into buf.
// a must already have completed a successful AnalyzeProgram pass; codegen
// does not re-validate the program.
func New(a *sema.Analyzer) *Generator {
	return &Generator{
		arena:      a.Arena,
		sema:       a,
		mono:       mono.New(a.Arena),
		buf:        ir.NewBuffer(),
		stats:      &ir.Stats{},
		labels:     label.NewTable(),
		implBodies: map[implKey]*ast.FuncDecl{},
		structDecls: map[string]*ast.StructDecl{},
	}
}

// Stats exposes the shared instruction/spill/pressure counters (§5:
// sync/atomic so a future multi-threaded orchestrator can read them while
// codegen is still running on its single goroutine).
func (g *Generator) Stats() *ir.Stats { return g.stats }

// Generate lowers every function declared in prog, returning the combined
// instruction buffer. Struct and enum declarations contribute no
// instructions directly; their layout was already computed by the arena
// during analysis, and the arena's Size/Align/FieldOffsets read it back
// out as each function body is lowered.
func (g *Generator) Generate(prog *ast.Program) (*ir.Buffer, error) {
	for _, d := range prog.Decls {
		if sd, ok := d.(*ast.StructDecl); ok {
			g.structDecls[sd.Name] = sd
		}
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			if decl.Body == nil {
				continue
			}
			fnType, ok := g.sema.LookupFunction(decl.Name)
			if !ok {
				return nil, fmt.Errorf("codegen: function %q has no resolved signature", decl.Name)
			}
			if err := g.emitFunction(decl.Name, decl, fnType, ""); err != nil {
				return nil, err
			}
		case *ast.ImplDecl:
			structID, ok := g.sema.LookupStruct(decl.TypeName)
			if !ok {
				return nil, fmt.Errorf("codegen: impl block names undefined struct %q", decl.TypeName)
			}
			methods := g.arena.Get(structID).Methods
			for _, m := range decl.Methods {
				g.implBodies[implKey{decl.TypeName, m.Name}] = m
				if m.Body == nil {
					continue
				}
				fnType, ok := methods[m.Name]
				if !ok {
					return nil, fmt.Errorf("codegen: method %s.%s has no resolved signature", decl.TypeName, m.Name)
				}
				mangled := abi.MangleMethod(decl.TypeName, m.Name)
				if err := g.emitFunction(mangled, m, fnType, decl.TypeName); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := g.emitMonomorphs(); err != nil {
		return nil, err
	}
	if err := g.buf.Validate(); err != nil {
		return nil, fmt.Errorf("codegen: emitted buffer failed validation: %w", err)
	}
	return g.buf, nil
}

// emitMonomorphs lowers the body of every generic method specialization
// the function bodies above triggered through internal/mono, under the
// already-mangled name call.go's call sites referenced. Monomorphs are
// requested lazily while walking call sites (mono.go tracks the obvious
// nested-generic simplification), so this pass runs after every ordinary
// function has been lowered and keeps emitting until no new monomorph
// appears, in case a monomorph's own body triggers a further
// instantiation (e.g. Box<Box<i32>>.get calling into the inner Box).
func (g *Generator) emitMonomorphs() error {
	emitted := map[string]bool{}
	for {
		progress := false
		for _, m := range g.mono.All() {
			if emitted[m.Canon] {
				continue
			}
			emitted[m.Canon] = true
			progress = true
			base := g.arena.Get(m.Base)
			for name, method := range m.Methods {
				decl, ok := g.implBodies[implKey{base.Name, name}]
				if !ok {
					continue
				}
				if err := g.emitFunction(method.MangledName, decl, method.ConcreteType, base.Name); err != nil {
					return err
				}
			}
		}
		if !progress {
			return nil
		}
	}
}

// implKey binds (struct name, method name) to the *ast.FuncDecl that
// lowers it; implBodies is populated by Generate before any monomorph can
// be requested so emitMonomorphs can find the generic body to specialize.
type implKey struct {
	structName string
	method     string
}
