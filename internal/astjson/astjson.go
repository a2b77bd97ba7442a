// Package astjson is the wire format cmd/asthrac reads a compilation unit
// from: a JSON encoding of an ast.Program. No lexer or parser ships in this
// module (SPEC_FULL.md §1.1 — upstream tests build ast.Program literals
// directly), so an external front end that produces this JSON, rather than
// Asthra source text, is this compiler's actual input surface.
//
// The encoding follows the same layout internal/ast/print.go's simplify
// uses for golden snapshots — a discriminator plus the node's own fields
// as a JSON object — except that the discriminator key here is "kind"
// (simplify uses "type"), each node also carries its ast.Pos and the
// fields simplify omits for brevity, and a Decode half is provided.
// ast.Span values are not encoded.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
)

// Encode renders prog as its JSON wire form.
func Encode(prog *ast.Program) ([]byte, error) {
	return json.MarshalIndent(encodeProgram(prog), "", "  ")
}

// Decode parses data (as produced by Encode, or hand-written to the same
// shape) into an ast.Program ready for sema.Analyzer.AnalyzeProgram.
func Decode(data []byte) (*ast.Program, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astjson: decoding program: %w", err)
	}
	return decodeProgram(raw)
}

// DecodeDecl parses data as a single top-level declaration node (the same
// shape Encode's "decls" array elements use), for callers that analyze one
// declaration at a time rather than a whole program.
func DecodeDecl(data []byte) (ast.Decl, error) {
	return decodeDecl(data)
}

// DecodeType parses data as a single type-expression node.
func DecodeType(data []byte) (ast.TypeExpr, error) {
	return decodeType(data)
}

// EncodeDecl renders a single top-level declaration as its JSON wire form.
func EncodeDecl(d ast.Decl) ([]byte, error) {
	return json.MarshalIndent(encodeDecl(d), "", "  ")
}

func kindOf(raw json.RawMessage) (string, error) {
	var h struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &h); err != nil {
		return "", fmt.Errorf("astjson: reading node kind: %w", err)
	}
	if h.Kind == "" {
		return "", fmt.Errorf("astjson: node missing \"kind\" field: %s", raw)
	}
	return h.Kind, nil
}

func rawMap(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("astjson: decoding node object: %w", err)
	}
	return m, nil
}

func getString(m map[string]json.RawMessage, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("astjson: field %q: %w", key, err)
	}
	return s, nil
}

func getBool(m map[string]json.RawMessage, key string) (bool, error) {
	raw, ok := m[key]
	if !ok {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("astjson: field %q: %w", key, err)
	}
	return b, nil
}

func getInt64(m map[string]json.RawMessage, key string) (int64, error) {
	raw, ok := m[key]
	if !ok {
		return 0, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("astjson: field %q: %w", key, err)
	}
	return n, nil
}

func getInt64Ptr(m map[string]json.RawMessage, key string) (*int64, error) {
	raw, ok := m[key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("astjson: field %q: %w", key, err)
	}
	return &n, nil
}

func getPos(m map[string]json.RawMessage, key string) (ast.Pos, error) {
	raw, ok := m[key]
	if !ok {
		return ast.Pos{}, nil
	}
	var p ast.Pos
	if err := json.Unmarshal(raw, &p); err != nil {
		return ast.Pos{}, fmt.Errorf("astjson: field %q: %w", key, err)
	}
	return p, nil
}

func getRawSlice(m map[string]json.RawMessage, key string) ([]json.RawMessage, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	var s []json.RawMessage
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("astjson: field %q: %w", key, err)
	}
	return s, nil
}

func encodeVisibility(v ast.Visibility) string { return v.String() }

func decodeVisibility(m map[string]json.RawMessage, key string) (ast.Visibility, error) {
	s, err := getString(m, key)
	if err != nil {
		return ast.Private, err
	}
	if s == "pub" {
		return ast.Public, nil
	}
	return ast.Private, nil
}
