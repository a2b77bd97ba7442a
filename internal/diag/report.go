package diag

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/asthra-lang/asthrac/internal/ast"
)

// SchemaV1 is the stable schema tag for the diagnostic JSON form (§6).
const SchemaV1 = "asthra.diagnostic/v1"

// SuggestionType is the kind of edit a Suggestion proposes.
type SuggestionType int

const (
	Insert SuggestionType = iota
	Replace
	Delete
)

func (t SuggestionType) String() string {
	switch t {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "replace"
	}
}

// MarshalJSON renders the suggestion type as its lowercase name.
func (t SuggestionType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Confidence ranks how likely a Suggestion is to be correct.
type Confidence int

const (
	Low Confidence = iota
	Medium
	High
)

func (c Confidence) String() string {
	switch c {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalJSON renders the confidence as its lowercase name.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// Suggestion is one ranked fix proposal attached to a Report.
type Suggestion struct {
	Type       SuggestionType `json:"type"`
	Span       *ast.Span      `json:"span,omitempty"`
	Text       string         `json:"text"`
	Confidence Confidence     `json:"confidence"`
	Rationale  string         `json:"rationale"`
}

// Label is a secondary annotation attached to one of a Report's spans.
type Label struct {
	Span    ast.Span `json:"span"`
	Message string   `json:"message"`
}

// Report is the canonical structured diagnostic for Asthra.
type Report struct {
	Schema      string         `json:"schema"`
	Code        string         `json:"code"`
	Phase       string         `json:"phase"`
	Severity    Severity       `json:"severity"`
	Message     string         `json:"message"`
	PrimarySpan *ast.Span      `json:"primary_span,omitempty"`
	Labels      []Label        `json:"labels,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	Suggestions []Suggestion   `json:"suggestions,omitempty"`
}

// New builds a Report for the given code/phase/message.
func New(code, phase string, severity Severity, message string) *Report {
	return &Report{
		Schema:   SchemaV1,
		Code:     code,
		Phase:    phase,
		Severity: severity,
		Message:  message,
		Data:     map[string]any{},
	}
}

// WithSpan attaches the primary source span.
func (r *Report) WithSpan(span ast.Span) *Report {
	r.PrimarySpan = &span
	return r
}

// WithLabel appends a secondary labeled span.
func (r *Report) WithLabel(span ast.Span, message string) *Report {
	r.Labels = append(r.Labels, Label{Span: span, Message: message})
	return r
}

// WithData merges a key/value pair into the report's structured data.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// WithSuggestion appends a ranked fix suggestion.
func (r *Report) WithSuggestion(s Suggestion) *Report {
	r.Suggestions = append(r.Suggestions, s)
	return r
}

// ToJSON renders the report as deterministic JSON (sorted object keys).
func (r *Report) ToJSON() ([]byte, error) {
	data, err := MarshalDeterministic(r)
	if err != nil {
		fallback := New(EInternal, "internal", SevError, "failed to encode diagnostic")
		fallback.Data["original_error"] = err.Error()
		return MarshalDeterministic(fallback)
	}
	return data, nil
}

// MarshalDeterministic marshals v to JSON with every object's keys sorted,
// so two runs of the same compilation produce byte-identical diagnostic
// output (testable property: diagnostics are deterministic).
func MarshalDeterministic(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return data, nil
	}
	return marshalSorted(generic)
}

func marshalSorted(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			valJSON, err := marshalSorted(val[k])
			if err != nil {
				return nil, err
			}
			buf.Write(valJSON)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil

	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			itemJSON, err := marshalSorted(item)
			if err != nil {
				return nil, err
			}
			buf.Write(itemJSON)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil

	default:
		return json.Marshal(v)
	}
}
