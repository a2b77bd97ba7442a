package diag

import "github.com/asthra-lang/asthrac/internal/ast"

// EditDistance computes the Levenshtein distance between a and b, used by
// the undefined-identifier heuristic to find near-miss names in scope.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)
	prev := make([]int, n+1)
	cur := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}
	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}
	return prev[n]
}

// SuggestUndefinedIdentifier scans candidates (names currently visible in
// scope) for the closest match to name within edit distance 2 and, if
// found, returns a Replace suggestion at Medium confidence (§4.7).
func SuggestUndefinedIdentifier(name string, candidates []string, span ast.Span) (Suggestion, bool) {
	best := ""
	bestDist := 3 // one past the threshold
	for _, c := range candidates {
		d := EditDistance(name, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if best == "" || bestDist > 2 {
		return Suggestion{}, false
	}
	return Suggestion{
		Type:       Replace,
		Span:       &span,
		Text:       best,
		Confidence: Medium,
		Rationale:  "Similar variable found in scope",
	}, true
}

// knownConversions maps a (from, to) primitive-type pair to the idiomatic
// conversion call and the confidence that it's the fix the user wants.
var knownConversions = map[[2]string]struct {
	Text       string
	Confidence Confidence
}{
	{"i32", "string"}: {".to_string()", High},
	{"i64", "string"}: {".to_string()", High},
	{"u32", "string"}: {".to_string()", High},
	{"f64", "string"}: {".to_string()", High},
	{"string", "i32"}: {".parse::<i32>().unwrap()", Medium},
	{"string", "i64"}: {".parse::<i64>().unwrap()", Medium},
	{"string", "f64"}: {".parse::<f64>().unwrap()", Medium},
}

// SuggestTypeMismatch returns a conversion-call suggestion for a known
// (from, to) pair, falling back to a Low-confidence `as to` cast.
func SuggestTypeMismatch(from, to string, span ast.Span) Suggestion {
	if conv, ok := knownConversions[[2]string{from, to}]; ok {
		return Suggestion{
			Type:       Insert,
			Span:       &span,
			Text:       conv.Text,
			Confidence: conv.Confidence,
			Rationale:  "Known conversion between " + from + " and " + to,
		}
	}
	return Suggestion{
		Type:       Replace,
		Span:       &span,
		Text:       "as " + to,
		Confidence: Low,
		Rationale:  "Generic cast fallback; verify this conversion is sound",
	}
}

// SuggestInsertSyntax returns a High-confidence Insert suggestion for a
// structurally missing construct (visibility keyword, parameter list,
// struct body) aligned to the grammar, per the teacher's "align fix to
// the grammar rule" heuristic.
func SuggestInsertSyntax(text, rationale string, span ast.Span) Suggestion {
	return Suggestion{
		Type:       Insert,
		Span:       &span,
		Text:       text,
		Confidence: High,
		Rationale:  rationale,
	}
}
