package dtree

import (
	"testing"

	"github.com/asthra-lang/asthrac/internal/ast"
)

func TestDecisionTree_SimpleBoolMatch(t *testing.T) {
	// match x { true => 1, false => 0 }
	arms := []*ast.MatchArm{
		{Pattern: &ast.LiteralPattern{Kind: ast.BoolLiteral, Value: true}, Body: &ast.Literal{Kind: ast.IntLiteral, Value: int64(1)}},
		{Pattern: &ast.LiteralPattern{Kind: ast.BoolLiteral, Value: false}, Body: &ast.Literal{Kind: ast.IntLiteral, Value: int64(0)}},
	}

	tree := NewCompiler(arms).Compile()

	switchNode, ok := tree.(*SwitchNode)
	if !ok {
		t.Fatalf("expected SwitchNode, got %T", tree)
	}
	if len(switchNode.Cases) != 2 {
		t.Errorf("expected 2 cases, got %d", len(switchNode.Cases))
	}
	if _, ok := switchNode.Cases[true]; !ok {
		t.Error("missing case for true")
	}
	if _, ok := switchNode.Cases[false]; !ok {
		t.Error("missing case for false")
	}
	if !IsExhaustive(tree) {
		t.Error("bool match on both true and false should be exhaustive")
	}
}

func TestDecisionTree_WithWildcardIsExhaustive(t *testing.T) {
	// match x { true => 1, _ => 0 }
	arms := []*ast.MatchArm{
		{Pattern: &ast.LiteralPattern{Kind: ast.BoolLiteral, Value: true}, Body: &ast.Literal{Kind: ast.IntLiteral, Value: int64(1)}},
		{Pattern: &ast.WildcardPattern{}, Body: &ast.Literal{Kind: ast.IntLiteral, Value: int64(0)}},
	}

	tree := NewCompiler(arms).Compile()
	if !IsExhaustive(tree) {
		t.Error("expected match with trailing wildcard to be exhaustive")
	}
	reached := ReachableArms(tree)
	if !reached[0] || !reached[1] {
		t.Errorf("expected both arms reachable, got %v", reached)
	}
}

func TestDecisionTree_MissingCaseIsNotExhaustive(t *testing.T) {
	// match x { true => 1 }  -- no case for false, no wildcard
	arms := []*ast.MatchArm{
		{Pattern: &ast.LiteralPattern{Kind: ast.BoolLiteral, Value: true}, Body: &ast.Literal{Kind: ast.IntLiteral, Value: int64(1)}},
	}

	tree := NewCompiler(arms).Compile()
	if IsExhaustive(tree) {
		t.Error("expected single-arm bool match without wildcard to be non-exhaustive")
	}
}

func TestDecisionTree_EnumVariantDispatch(t *testing.T) {
	// match opt { Option.Some(x) => x, Option.None => 0 }
	arms := []*ast.MatchArm{
		{
			Pattern: &ast.VariantPattern{EnumName: "Option", Variant: "Some", Sub: &ast.IdentPattern{Name: "x"}},
			Body:    &ast.Identifier{Name: "x"},
		},
		{
			Pattern: &ast.VariantPattern{EnumName: "Option", Variant: "None"},
			Body:    &ast.Literal{Kind: ast.IntLiteral, Value: int64(0)},
		},
	}

	tree := NewCompiler(arms).Compile()
	switchNode, ok := tree.(*SwitchNode)
	if !ok {
		t.Fatalf("expected SwitchNode, got %T", tree)
	}
	if _, ok := switchNode.Cases["Some"]; !ok {
		t.Error("missing case for Some")
	}
	if _, ok := switchNode.Cases["None"]; !ok {
		t.Error("missing case for None")
	}
	if !IsExhaustive(tree) {
		t.Error("Some/None covered exhaustively should report exhaustive")
	}
}

func TestDecisionTree_GuardedLeafIsNotTreatedAsExhaustive(t *testing.T) {
	arms := []*ast.MatchArm{
		{
			Pattern: &ast.IdentPattern{Name: "x"},
			Guard:   &ast.Identifier{Name: "cond"},
			Body:    &ast.Literal{Kind: ast.IntLiteral, Value: int64(1)},
		},
	}
	tree := NewCompiler(arms).Compile()
	if IsExhaustive(tree) {
		t.Error("a guarded catch-all must not count as exhaustive on its own")
	}
}
