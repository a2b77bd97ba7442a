package diag

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Sink aggregates diagnostics produced during one compilation. It is the
// "diagnostic sink" threaded through the semantic analyzer's context (§4.3).
type Sink struct {
	reports              []*Report
	minSuggestConfidence Confidence
}

// NewSink creates an empty Sink. minConfidence filters suggestions below it
// out of the human-readable and JSON renderings (they are still recorded).
func NewSink(minConfidence Confidence) *Sink {
	return &Sink{minSuggestConfidence: minConfidence}
}

// Report appends r to the sink.
func (s *Sink) Report(r *Report) {
	s.reports = append(s.reports, r)
}

// Reports returns every diagnostic recorded so far, in emission order —
// the analyzer never reorders diagnostics across declarations.
func (s *Sink) Reports() []*Report { return s.reports }

// HasErrors reports whether any recorded diagnostic is SevError. Codegen
// must refuse to run while this is true (§7).
func (s *Sink) HasErrors() bool {
	for _, r := range s.reports {
		if r.Severity == SevError {
			return true
		}
	}
	return false
}

func (s *Sink) filteredSuggestions(r *Report) []Suggestion {
	var out []Suggestion
	for _, sug := range r.Suggestions {
		if sug.Confidence >= s.minSuggestConfidence {
			out = append(out, sug)
		}
	}
	return out
}

// WriteJSON renders every recorded diagnostic as the stable JSON array
// described in §6, with suggestions filtered by the sink's confidence
// threshold.
func (s *Sink) WriteJSON(w io.Writer) error {
	type jsonDoc struct {
		Diagnostics []*Report `json:"diagnostics"`
	}
	filtered := make([]*Report, len(s.reports))
	for i, r := range s.reports {
		cp := *r
		cp.Suggestions = s.filteredSuggestions(r)
		filtered[i] = &cp
	}
	data, err := MarshalDeterministic(jsonDoc{Diagnostics: filtered})
	if err != nil {
		return err
	}
	var pretty interface{}
	if jsonErr := json.Unmarshal(data, &pretty); jsonErr == nil {
		data, _ = json.MarshalIndent(pretty, "", "  ")
	}
	_, err = w.Write(data)
	return err
}

var (
	colorError = color.New(color.FgRed, color.Bold).SprintFunc()
	colorWarn  = color.New(color.FgYellow, color.Bold).SprintFunc()
	colorNote  = color.New(color.FgCyan).SprintFunc()
	colorDim   = color.New(color.Faint).SprintFunc()
)

// WriteHuman renders every recorded diagnostic as colorized human-readable
// text, matching the teacher's cmd/ailang output style.
func (s *Sink) WriteHuman(w io.Writer) {
	for _, r := range s.reports {
		tag := colorError(r.Code)
		switch r.Severity {
		case SevWarning:
			tag = colorWarn(r.Code)
		case SevNote:
			tag = colorNote(r.Code)
		}
		loc := ""
		if r.PrimarySpan != nil {
			loc = r.PrimarySpan.Start.String() + ": "
		}
		fmt.Fprintf(w, "%s%s [%s]: %s\n", loc, tag, r.Phase, r.Message)
		for _, l := range r.Labels {
			fmt.Fprintf(w, "  %s %s: %s\n", colorDim("-"), l.Span.Start, l.Message)
		}
		for _, sug := range s.filteredSuggestions(r) {
			fmt.Fprintf(w, "  %s suggestion (%s): %s — %s\n", colorDim("fix"), sug.Confidence, sug.Text, sug.Rationale)
		}
	}
}
