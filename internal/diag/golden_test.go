package diag

import (
	"bytes"
	"testing"

	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/testsupport"
)

// TestSinkWriteJSONMatchesGoldenFixture pins the stable JSON encoding
// (§6) against a checked-in fixture, the way the teacher's schema golden
// tests pin their own wire format. Run with -update after a deliberate
// schema change to refresh testdata/diag/arity_mismatch.golden.json.
func TestSinkWriteJSONMatchesGoldenFixture(t *testing.T) {
	sink := NewSink(Low)
	span := ast.Span{
		Start: ast.Pos{File: "t.asthra", Line: 3, Column: 5},
		End:   ast.Pos{File: "t.asthra", Line: 3, Column: 6},
	}
	r := New(EInvalidArguments, "sema", SevError, "Function 'add' expects 2 arguments, got 1").WithSpan(span)
	r.WithSuggestion(Suggestion{
		Type:       Insert,
		Text:       "b",
		Confidence: High,
		Rationale:  "add's second parameter has no default",
	})
	sink.Report(r)

	var buf bytes.Buffer
	if err := sink.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	testsupport.GoldenJSON(t, "diag", "arity_mismatch", buf.Bytes())
}
