package diag

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthrac/internal/ast"
)

func TestMarshalDeterministicSortsKeys(t *testing.T) {
	r := New(ETypeMismatch, "sema", SevError, "type mismatch: expected 'string', found 'i32'")
	r.WithData("zeta", 1).WithData("alpha", 2)

	a, err := r.ToJSON()
	require.NoError(t, err)
	b, err := r.ToJSON()
	require.NoError(t, err)
	require.Equal(t, a, b, "diagnostic JSON must be deterministic across calls")

	// "alpha" must appear before "zeta" in the sorted encoding of Data.
	require.True(t, bytes.Index(a, []byte(`"alpha"`)) < bytes.Index(a, []byte(`"zeta"`)))
}

func TestSinkHasErrorsGatesOnSeverity(t *testing.T) {
	sink := NewSink(Medium)
	sink.Report(New(ENonExhaustiveMatch, "sema", SevWarning, "match is not exhaustive"))
	require.False(t, sink.HasErrors())

	sink.Report(New(ETypeMismatch, "sema", SevError, "boom"))
	require.True(t, sink.HasErrors())
}

func TestSinkWriteJSONFiltersLowConfidenceSuggestions(t *testing.T) {
	sink := NewSink(High)
	r := New(EUndefinedSymbol, "sema", SevError, "undefined identifier 'useer_id'")
	r.WithSuggestion(Suggestion{Type: Replace, Text: "user_id", Confidence: Medium, Rationale: "near miss"})
	sink.Report(r)

	var buf bytes.Buffer
	require.NoError(t, sink.WriteJSON(&buf))

	var doc struct {
		Diagnostics []struct {
			Suggestions []Suggestion `json:"suggestions"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Diagnostics, 1)
	require.Empty(t, doc.Diagnostics[0].Suggestions, "Medium confidence must be filtered at High threshold")
}

func TestArityMismatchScenario(t *testing.T) {
	// End-to-end scenario 1 from the spec: add(1) against fn add(a, b).
	span := ast.Span{Start: ast.Pos{File: "t.asthra", Line: 3, Column: 5}}
	r := New(EInvalidArguments, "sema", SevError, "Function 'add' expects 2 arguments, got 1").WithSpan(span)
	require.Equal(t, "ASTHRA_E004", r.Code)
	require.Equal(t, SevError, r.Severity)
}
