package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
)

func encodeStmtSlice(ss []ast.Stmt) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = encodeStmt(s)
	}
	return out
}

func encodeStmt(s ast.Stmt) interface{} {
	if s == nil {
		return nil
	}
	switch n := s.(type) {
	case *ast.LetStmt:
		m := map[string]interface{}{"kind": "LetStmt", "name": n.Name, "value": encodeExpr(n.Value), "pos": n.Pos}
		if n.Type != nil {
			m["type"] = encodeType(n.Type)
		}
		return m

	case *ast.ExprStmt:
		return map[string]interface{}{"kind": "ExprStmt", "expr": encodeExpr(n.Expr), "pos": n.Pos}

	case *ast.ForStmt:
		return map[string]interface{}{"kind": "ForStmt", "var": n.Var, "iter": encodeExpr(n.Iter), "body": encodeBlock(n.Body), "pos": n.Pos}

	case *ast.ReturnStmt:
		m := map[string]interface{}{"kind": "ReturnStmt", "pos": n.Pos}
		if n.Value != nil {
			m["value"] = encodeExpr(n.Value)
		}
		return m

	case *ast.BreakStmt:
		return map[string]interface{}{"kind": "BreakStmt", "pos": n.Pos}

	case *ast.ContinueStmt:
		return map[string]interface{}{"kind": "ContinueStmt", "pos": n.Pos}

	default:
		return map[string]interface{}{"kind": fmt.Sprintf("%T", s), "_unsupported": true}
	}
}

func decodeStmt(raw json.RawMessage) (ast.Stmt, error) {
	if raw == nil || string(raw) == "null" {
		return nil, nil
	}
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	m, err := rawMap(raw)
	if err != nil {
		return nil, err
	}
	pos, err := getPos(m, "pos")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "LetStmt":
		name, err := getString(m, "name")
		if err != nil {
			return nil, err
		}
		var typ ast.TypeExpr
		if typeRaw, ok := m["type"]; ok {
			typ, err = decodeType(typeRaw)
			if err != nil {
				return nil, err
			}
		}
		value, err := decodeRequiredExpr(m, "value", kind)
		if err != nil {
			return nil, err
		}
		return &ast.LetStmt{Name: name, Type: typ, Value: value, Pos: pos}, nil

	case "ExprStmt":
		expr, err := decodeRequiredExpr(m, "expr", kind)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr, Pos: pos}, nil

	case "ForStmt":
		v, err := getString(m, "var")
		if err != nil {
			return nil, err
		}
		iter, err := decodeRequiredExpr(m, "iter", kind)
		if err != nil {
			return nil, err
		}
		body, err := decodeRequiredBlock(m, "body", kind)
		if err != nil {
			return nil, err
		}
		return &ast.ForStmt{Var: v, Iter: iter, Body: body, Pos: pos}, nil

	case "ReturnStmt":
		value, err := decodeOptionalExpr(m, "value")
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Value: value, Pos: pos}, nil

	case "BreakStmt":
		return &ast.BreakStmt{Pos: pos}, nil

	case "ContinueStmt":
		return &ast.ContinueStmt{Pos: pos}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown statement kind %q", kind)
	}
}
