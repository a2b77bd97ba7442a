// Package dtree compiles match arms into a decision tree, the same
// column-splitting algorithm the teacher compiler uses for its ANF
// pattern matrices, adapted to test against the surface ast.Pattern
// nodes directly (this compiler has no separate Core IR stage between
// the AST and codegen). The analyzer uses the tree shape to detect
// non-exhaustive matches and unreachable arms (SPEC_FULL.md §4.3.2). The
// code generator does not use it: internal/codegen lowers `match` as a
// linear chain of per-arm pattern tests.
package dtree

import (
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
)

// DecisionTree is a compiled match: a leaf (an arm body), a switch on a
// discriminator at some path into the scrutinee, or a fail (no arm
// matches this branch, i.e. the match is non-exhaustive on this path).
type DecisionTree interface {
	isDecisionTree()
	String() string
}

// LeafNode is a match: the ArmIndex'th arm of the original match fires.
type LeafNode struct {
	ArmIndex int
	Guard    ast.Expr // optional
}

func (l *LeafNode) isDecisionTree() {}
func (l *LeafNode) String() string  { return fmt.Sprintf("Leaf(arm=%d)", l.ArmIndex) }

// FailNode means no arm covers this branch: the match is non-exhaustive.
type FailNode struct{}

func (f *FailNode) isDecisionTree() {}
func (f *FailNode) String() string  { return "Fail" }

// SwitchNode tests the value reached by following Path from the
// scrutinee (an index sequence into nested variant/tuple/struct
// payloads) against each key in Cases, falling through to Default for
// wildcard/identifier patterns or unmatched keys.
type SwitchNode struct {
	Path    []int
	Cases   map[interface{}]DecisionTree
	Default DecisionTree
}

func (s *SwitchNode) isDecisionTree() {}
func (s *SwitchNode) String() string {
	return fmt.Sprintf("Switch(path=%v, cases=%d, default=%v)", s.Path, len(s.Cases), s.Default != nil)
}

// Compiler compiles a list of match arms into a DecisionTree.
type Compiler struct {
	arms []*ast.MatchArm
}

func NewCompiler(arms []*ast.MatchArm) *Compiler {
	return &Compiler{arms: arms}
}

type matchRow struct {
	patterns []ast.Pattern
	armIndex int
	guard    ast.Expr
}

// Compile builds the tree for the whole arm list, starting at the root
// of the scrutinee (empty path).
func (c *Compiler) Compile() DecisionTree {
	matrix := make([]matchRow, len(c.arms))
	for i, arm := range c.arms {
		matrix[i] = matchRow{patterns: []ast.Pattern{arm.Pattern}, armIndex: i, guard: arm.Guard}
	}
	return c.compileMatrix(matrix, nil)
}

func (c *Compiler) compileMatrix(matrix []matchRow, path []int) DecisionTree {
	if len(matrix) == 0 {
		return &FailNode{}
	}
	if isDefaultRow(matrix[0]) || len(matrix[0].patterns) == 0 {
		return &LeafNode{ArmIndex: matrix[0].armIndex, Guard: matrix[0].guard}
	}
	return c.buildSwitch(matrix, path, 0)
}

func isDefaultRow(row matchRow) bool {
	for _, pat := range row.patterns {
		switch pat.(type) {
		case *ast.WildcardPattern, *ast.IdentPattern:
			continue
		default:
			return false
		}
	}
	return true
}

// caseKey identifies the bucket a pattern falls into in a switch: a
// literal value, a variant name, or a struct/tuple shape marker (the
// latter two always have exactly one case and never participate in
// exhaustiveness gaps on their own).
func caseKey(pat ast.Pattern) (interface{}, bool) {
	switch p := pat.(type) {
	case *ast.LiteralPattern:
		return p.Value, true
	case *ast.VariantPattern:
		return p.Variant, true
	case *ast.StructPattern:
		return "struct:" + p.TypeName, true
	case *ast.TuplePattern:
		return "tuple", true
	default:
		return nil, false
	}
}

// subPatterns returns the nested patterns a constructor-like pattern
// exposes to the next matrix column (variant payload, struct fields in
// declaration order, tuple elements), nil for a pattern with no payload.
func subPatterns(pat ast.Pattern) []ast.Pattern {
	switch p := pat.(type) {
	case *ast.VariantPattern:
		if p.Sub == nil {
			return nil
		}
		return []ast.Pattern{p.Sub}
	case *ast.StructPattern:
		out := make([]ast.Pattern, len(p.Fields))
		for i, f := range p.Fields {
			out[i] = f.Pattern
		}
		return out
	case *ast.TuplePattern:
		return p.Elements
	default:
		return nil
	}
}

func (c *Compiler) buildSwitch(matrix []matchRow, path []int, col int) DecisionTree {
	cases := map[interface{}][]matchRow{}
	var caseOrder []interface{}
	var defaultRows []matchRow
	var samplePattern ast.Pattern

	for _, row := range matrix {
		if col >= len(row.patterns) {
			defaultRows = append(defaultRows, row)
			continue
		}
		pat := row.patterns[col]
		if key, ok := caseKey(pat); ok {
			if _, seen := cases[key]; !seen {
				caseOrder = append(caseOrder, key)
			}
			cases[key] = append(cases[key], row)
			if samplePattern == nil {
				samplePattern = pat
			}
			continue
		}
		defaultRows = append(defaultRows, row)
	}

	if len(cases) == 0 {
		return c.compileMatrix(specializeDefault(defaultRows, col), append(append([]int(nil), path...), col))
	}

	switchNode := &SwitchNode{Path: append(append([]int(nil), path...), col), Cases: map[interface{}]DecisionTree{}}
	for _, key := range caseOrder {
		rows := cases[key]
		specialized := specializeConstructor(rows, col)
		switchNode.Cases[key] = c.compileMatrix(specialized, switchNode.Path)
	}
	switch {
	case len(defaultRows) > 0:
		switchNode.Default = c.compileMatrix(specializeDefault(defaultRows, col), switchNode.Path)
	case isCompleteCaseSet(samplePattern, caseOrder):
		switchNode.Default = nil
	default:
		switchNode.Default = &FailNode{}
	}
	return switchNode
}

// isCompleteCaseSet reports whether caseOrder, with no remaining default
// rows, already covers every value this column's domain can take. A bool
// switch is complete when both true and false appear. A constructor
// column (enum variant, struct, tuple) is taken as complete whenever
// every row specialized to a concrete constructor, since this package
// never sees the originating type's variant count to check against —
// that is why sema additionally checks enum coverage directly against
// the type arena rather than relying solely on this heuristic. Scalar
// literal domains other than bool (int, float, string, char) are never
// complete without an explicit wildcard, since they are unbounded.
func isCompleteCaseSet(sample ast.Pattern, caseOrder []interface{}) bool {
	lit, ok := sample.(*ast.LiteralPattern)
	if !ok {
		return true
	}
	if lit.Kind != ast.BoolLiteral {
		return false
	}
	has := map[bool]bool{}
	for _, k := range caseOrder {
		if b, ok := k.(bool); ok {
			has[b] = true
		}
	}
	return has[true] && has[false]
}

func specializeConstructor(rows []matchRow, col int) []matchRow {
	out := make([]matchRow, len(rows))
	for i, row := range rows {
		newPatterns := make([]ast.Pattern, 0, len(row.patterns)-1+2)
		for j, pat := range row.patterns {
			if j == col {
				newPatterns = append(newPatterns, subPatterns(pat)...)
				continue
			}
			newPatterns = append(newPatterns, pat)
		}
		out[i] = matchRow{patterns: newPatterns, armIndex: row.armIndex, guard: row.guard}
	}
	return out
}

func specializeDefault(rows []matchRow, col int) []matchRow {
	out := make([]matchRow, len(rows))
	for i, row := range rows {
		if col >= len(row.patterns) {
			out[i] = row
			continue
		}
		newPatterns := append(append([]ast.Pattern(nil), row.patterns[:col]...), row.patterns[col+1:]...)
		out[i] = matchRow{patterns: newPatterns, armIndex: row.armIndex, guard: row.guard}
	}
	return out
}

// ReachableArms returns the set of arm indices that appear in at least
// one LeafNode of the tree; an arm index absent from this set is dead
// code (shadowed entirely by earlier, more general arms).
func ReachableArms(tree DecisionTree) map[int]bool {
	reached := map[int]bool{}
	var walk func(DecisionTree)
	walk = func(t DecisionTree) {
		switch n := t.(type) {
		case *LeafNode:
			reached[n.ArmIndex] = true
		case *SwitchNode:
			for _, sub := range n.Cases {
				walk(sub)
			}
			if n.Default != nil {
				walk(n.Default)
			}
		}
	}
	walk(tree)
	return reached
}

// IsExhaustive reports whether every path through the tree terminates in
// a LeafNode rather than a FailNode reachable from the root (a guarded
// leaf does not count as exhaustive on its own, since its guard may
// fail at runtime, so codegen must still emit a fallthrough trap).
func IsExhaustive(tree DecisionTree) bool {
	switch n := tree.(type) {
	case *FailNode:
		return false
	case *LeafNode:
		return n.Guard == nil
	case *SwitchNode:
		if n.Default != nil && !IsExhaustive(n.Default) {
			return false
		}
		for _, sub := range n.Cases {
			if !IsExhaustive(sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
