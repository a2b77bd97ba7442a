package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
)

func literalKindName(k ast.LiteralKind) string {
	switch k {
	case ast.IntLiteral:
		return "int"
	case ast.FloatLiteral:
		return "float"
	case ast.StringLiteral:
		return "string"
	case ast.BoolLiteral:
		return "bool"
	case ast.CharLiteral:
		return "char"
	default:
		return "unit"
	}
}

func parseLiteralKind(s string) (ast.LiteralKind, error) {
	switch s {
	case "int":
		return ast.IntLiteral, nil
	case "float":
		return ast.FloatLiteral, nil
	case "string":
		return ast.StringLiteral, nil
	case "bool":
		return ast.BoolLiteral, nil
	case "char":
		return ast.CharLiteral, nil
	case "unit":
		return ast.UnitLiteral, nil
	default:
		return 0, fmt.Errorf("astjson: unknown literal kind %q", s)
	}
}

// decodeLiteralValue reads the "value" field, interpreting its JSON form
// according to kind: an integer literal's value is an int64, a char
// literal's an int32 rune, float a float64, the rest pass through as
// written. A unit literal carries no value.
func decodeLiteralValue(m map[string]json.RawMessage, kind ast.LiteralKind) (interface{}, error) {
	raw, ok := m["value"]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	switch kind {
	case ast.IntLiteral:
		var v int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("astjson: int literal value: %w", err)
		}
		return v, nil
	case ast.CharLiteral:
		var v int32
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("astjson: char literal value: %w", err)
		}
		return v, nil
	case ast.FloatLiteral:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("astjson: float literal value: %w", err)
		}
		return v, nil
	case ast.StringLiteral:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("astjson: string literal value: %w", err)
		}
		return v, nil
	case ast.BoolLiteral:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("astjson: bool literal value: %w", err)
		}
		return v, nil
	default:
		return nil, nil
	}
}
