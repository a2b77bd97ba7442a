package sema

import (
	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/diag"
	"github.com/asthra-lang/asthrac/internal/dtree"
	"github.com/asthra-lang/asthrac/internal/symtab"
	"github.com/asthra-lang/asthrac/internal/typesys"
)

// analyzeBlock pushes its own scope, analyzes every statement, and
// returns the type of its trailing expression statement, or void if the
// block is empty or ends in a non-expression statement (§4.3.3).
func (a *Analyzer) analyzeBlock(b *ast.Block) typesys.TypeID {
	a.pushScope()
	defer a.popScope()

	result := a.Arena.Void()
	for i, stmt := range b.Stmts {
		if i == len(b.Stmts)-1 {
			if es, ok := stmt.(*ast.ExprStmt); ok {
				result = a.analyzeExpr(es.Expr, typesys.NoType)
				continue
			}
		}
		a.analyzeStmt(stmt)
	}
	return result
}

func (a *Analyzer) analyzeStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		a.analyzeLetStmt(st)
	case *ast.ExprStmt:
		a.analyzeExpr(st.Expr, typesys.NoType)
	case *ast.ForStmt:
		a.analyzeForStmt(st)
	case *ast.ReturnStmt:
		a.analyzeReturnStmt(st)
	case *ast.BreakStmt:
		if a.loopDepth == 0 {
			a.errorAt(st.Pos, errInvalidExpression, "break used outside a loop")
		}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.errorAt(st.Pos, errInvalidExpression, "continue used outside a loop")
		}
	}
}

func (a *Analyzer) analyzeLetStmt(l *ast.LetStmt) {
	var declared typesys.TypeID = typesys.NoType
	if l.Type != nil {
		declared = a.resolveType(l.Type)
	}
	vt := a.analyzeExpr(l.Value, declared)
	final := vt
	if declared != typesys.NoType {
		if !a.Arena.Equal(vt, declared) && !a.Arena.IsAssignable(vt, declared, isLiteral(l.Value)) {
			a.errorAt(l.Value.Position(), errTypeMismatch, "let %s: expected %s, found %s", l.Name, a.Arena.Name(declared), a.Arena.Name(vt))
		}
		final = declared
	}
	if err := a.scope.InsertSafe(symtab.Symbol{Name: l.Name, Kind: symtab.KindVariable, Type: final, Mutable: true}); err != nil {
		a.errorAt(l.Pos, errDuplicateSymbol, "%s", err.Error())
	}
}

// analyzeForStmt requires Iter to be a call to the predeclared range
// function (§4.3.1: "In this core, Iter must desugar to range(n) or
// range(lo, hi)"); anything else is rejected here rather than in parsing,
// since the grammar alone cannot rule out arbitrary expressions.
func (a *Analyzer) analyzeForStmt(f *ast.ForStmt) {
	call, ok := f.Iter.(*ast.CallExpr)
	isRange := false
	if ok {
		if ident, ok := call.Func.(*ast.Identifier); ok && ident.Name == "range" {
			isRange = true
		}
	}
	if !isRange {
		a.errorAt(f.Iter.Position(), errInvalidExpression, "for-loop iterable must be a call to range(...)")
	}
	a.analyzeExpr(f.Iter, typesys.NoType)

	a.pushScope()
	if err := a.scope.InsertSafe(symtab.Symbol{Name: f.Var, Kind: symtab.KindVariable, Type: a.Arena.Primitive(typesys.ISize)}); err != nil {
		a.errorAt(f.Pos, errDuplicateSymbol, "%s", err.Error())
	}
	a.loopDepth++
	a.analyzeBlock(f.Body)
	a.loopDepth--
	a.popScope()
}

func (a *Analyzer) analyzeReturnStmt(r *ast.ReturnStmt) {
	if a.currentFn == nil {
		a.errorAt(r.Pos, errInvalidExpression, "return used outside a function")
		return
	}
	want := a.currentFn.returnType
	if r.Value == nil {
		if !a.Arena.Equal(want, a.Arena.Void()) {
			a.errorAt(r.Pos, errTypeMismatch, "%s must return %s, found void", a.currentFn.name, a.Arena.Name(want))
		}
		return
	}
	vt := a.analyzeExpr(r.Value, want)
	if !a.Arena.Equal(vt, want) && !a.Arena.IsAssignable(vt, want, isLiteral(r.Value)) {
		a.errorAt(r.Value.Position(), errTypeMismatch, "%s must return %s, found %s", a.currentFn.name, a.Arena.Name(want), a.Arena.Name(vt))
	}
}

// analyzeMatchExpr analyzes the scrutinee and every arm, binds each arm's
// pattern bindings in its own scope, infers the match's overall result
// type from its first arm, and runs the decision-tree compiler to report
// non-exhaustive matches (§4.3.2, §4.3.4).
func (a *Analyzer) analyzeMatchExpr(m *ast.MatchExpr, expected typesys.TypeID) typesys.TypeID {
	scrutType := a.analyzeExpr(m.Scrutinee, typesys.NoType)

	result := typesys.NoType
	for _, arm := range m.Arms {
		a.pushScope()
		a.analyzePattern(arm.Pattern, scrutType)
		if arm.Guard != nil {
			gt := a.analyzeExpr(arm.Guard, a.Arena.Primitive(typesys.Bool))
			if !a.Arena.Equal(gt, a.Arena.Primitive(typesys.Bool)) {
				a.errorAt(arm.Guard.Position(), errTypeMismatch, "match guard must be bool, found %s", a.Arena.Name(gt))
			}
		}
		bt := a.analyzeExpr(arm.Body, expected)
		a.popScope()
		if result == typesys.NoType {
			result = bt
		} else if !a.Arena.Equal(result, bt) {
			a.errorAt(arm.Body.Position(), errTypeMismatch, "match arm: expected %s, found %s", a.Arena.Name(result), a.Arena.Name(bt))
		}
	}
	if result == typesys.NoType {
		result = a.Arena.Void()
	}

	tree := dtree.NewCompiler(m.Arms).Compile()

	exhaustive := dtree.IsExhaustive(tree)
	if scrutDesc := a.Arena.Get(scrutType); scrutDesc.Category == typesys.CatEnum {
		// dtree has no type arena to check an enum's variant count
		// against, so cross-reference it here directly rather than
		// trust dtree's constructor-complete heuristic alone.
		exhaustive = a.enumMatchCoversAllVariants(m.Arms, scrutDesc)
	}
	if !exhaustive {
		a.report(warnNonExhaustiveMatch, diag.SevWarning, m.Pos, "match is not exhaustive")
	}

	reached := dtree.ReachableArms(tree)
	for i, arm := range m.Arms {
		if !reached[i] {
			a.report(warnNonExhaustiveMatch, diag.SevWarning, arm.Pos, "unreachable match arm")
		}
	}
	return result
}

// enumMatchCoversAllVariants reports whether arms cover every variant of
// scrutDesc (an Enum descriptor), either directly (each variant matched
// by at least one VariantPattern) or via a catch-all wildcard/identifier
// arm.
func (a *Analyzer) enumMatchCoversAllVariants(arms []*ast.MatchArm, scrutDesc *typesys.TypeDescriptor) bool {
	covered := map[string]bool{}
	for _, arm := range arms {
		switch p := arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.IdentPattern:
			return true
		case *ast.VariantPattern:
			covered[p.Variant] = true
		}
	}
	for _, v := range scrutDesc.Variants {
		if !covered[v.Name] {
			return false
		}
	}
	return true
}
