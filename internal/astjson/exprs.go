package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
)

func encodeExprSlice(es []ast.Expr) []interface{} {
	out := make([]interface{}, len(es))
	for i, e := range es {
		out[i] = encodeExpr(e)
	}
	return out
}

func encodeExpr(e ast.Expr) interface{} {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Identifier:
		return map[string]interface{}{"kind": "Identifier", "name": n.Name, "pos": n.Pos}

	case *ast.Literal:
		return map[string]interface{}{
			"kind":         "Literal",
			"literal_kind": literalKindName(n.Kind),
			"value":        n.Value,
			"suffix":       n.Suffix,
			"pos":          n.Pos,
		}

	case *ast.BinaryExpr:
		return map[string]interface{}{"kind": "BinaryExpr", "op": n.Op, "left": encodeExpr(n.Left), "right": encodeExpr(n.Right), "pos": n.Pos}

	case *ast.UnaryExpr:
		return map[string]interface{}{"kind": "UnaryExpr", "op": n.Op, "operand": encodeExpr(n.Operand), "pos": n.Pos}

	case *ast.AssignExpr:
		return map[string]interface{}{"kind": "AssignExpr", "target": encodeExpr(n.Target), "value": encodeExpr(n.Value), "pos": n.Pos}

	case *ast.CallExpr:
		return map[string]interface{}{"kind": "CallExpr", "func": encodeExpr(n.Func), "args": encodeExprSlice(n.Args), "pos": n.Pos}

	case *ast.MethodCallExpr:
		return map[string]interface{}{"kind": "MethodCallExpr", "object": encodeExpr(n.Object), "method": n.Method, "args": encodeExprSlice(n.Args), "pos": n.Pos}

	case *ast.AssocCallExpr:
		m := map[string]interface{}{"kind": "AssocCallExpr", "type_name": n.TypeName, "func": n.Func, "args": encodeExprSlice(n.Args), "pos": n.Pos}
		if len(n.TypeArgs) > 0 {
			m["type_args"] = encodeTypeSlice(n.TypeArgs)
		}
		return m

	case *ast.EnumConstructExpr:
		m := map[string]interface{}{"kind": "EnumConstructExpr", "enum_name": n.EnumName, "variant": n.Variant, "pos": n.Pos}
		if n.Arg != nil {
			m["arg"] = encodeExpr(n.Arg)
		}
		return m

	case *ast.BareVariantExpr:
		m := map[string]interface{}{"kind": "BareVariantExpr", "variant": n.Variant, "pos": n.Pos}
		if n.Arg != nil {
			m["arg"] = encodeExpr(n.Arg)
		}
		return m

	case *ast.FieldAccessExpr:
		return map[string]interface{}{"kind": "FieldAccessExpr", "object": encodeExpr(n.Object), "field": n.Field, "pos": n.Pos}

	case *ast.IndexExpr:
		return map[string]interface{}{"kind": "IndexExpr", "base": encodeExpr(n.Base), "index": encodeExpr(n.Index), "pos": n.Pos}

	case *ast.SliceExpr:
		m := map[string]interface{}{"kind": "SliceExpr", "base": encodeExpr(n.Base), "pos": n.Pos}
		if n.Start != nil {
			m["start"] = encodeExpr(n.Start)
		}
		if n.End != nil {
			m["end"] = encodeExpr(n.End)
		}
		return m

	case *ast.StructLiteralExpr:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "value": encodeExpr(f.Value), "pos": f.Pos}
		}
		return map[string]interface{}{"kind": "StructLiteralExpr", "type_name": n.TypeName, "fields": fields, "pos": n.Pos}

	case *ast.ArrayLiteralExpr:
		m := map[string]interface{}{"kind": "ArrayLiteralExpr", "elements": encodeExprSlice(n.Elements), "pos": n.Pos}
		if n.Repeat != nil {
			m["repeat"] = encodeExpr(n.Repeat)
			m["count"] = n.Count
		}
		return m

	case *ast.TupleLiteralExpr:
		return map[string]interface{}{"kind": "TupleLiteralExpr", "elements": encodeExprSlice(n.Elements), "pos": n.Pos}

	case *ast.MatchExpr:
		arms := make([]interface{}, len(n.Arms))
		for i, a := range n.Arms {
			am := map[string]interface{}{"pattern": encodePattern(a.Pattern), "body": encodeExpr(a.Body), "pos": a.Pos}
			if a.Guard != nil {
				am["guard"] = encodeExpr(a.Guard)
			}
			arms[i] = am
		}
		return map[string]interface{}{"kind": "MatchExpr", "scrutinee": encodeExpr(n.Scrutinee), "arms": arms, "pos": n.Pos}

	case *ast.IfExpr:
		m := map[string]interface{}{"kind": "IfExpr", "cond": encodeExpr(n.Cond), "then": encodeExpr(n.Then), "pos": n.Pos}
		if n.Else != nil {
			m["else"] = encodeElseBranch(n.Else)
		}
		return m

	case *ast.IfLetExpr:
		m := map[string]interface{}{"kind": "IfLetExpr", "pattern": encodePattern(n.Pattern), "value": encodeExpr(n.Value), "then": encodeExpr(n.Then), "pos": n.Pos}
		if n.Else != nil {
			m["else"] = encodeElseBranch(n.Else)
		}
		return m

	case *ast.Block:
		return encodeBlock(n)

	default:
		return map[string]interface{}{"kind": fmt.Sprintf("%T", e), "_unsupported": true}
	}
}

func encodeBlock(b *ast.Block) map[string]interface{} {
	stmts := make([]interface{}, len(b.Stmts))
	for i, s := range b.Stmts {
		stmts[i] = encodeStmt(s)
	}
	return map[string]interface{}{"kind": "Block", "stmts": stmts, "pos": b.Pos}
}

// encodeElseBranch renders the Node-typed Else field of IfExpr/IfLetExpr,
// which is either a *Block or a nested *IfExpr (an `else if` chain).
func encodeElseBranch(n ast.Node) interface{} {
	switch b := n.(type) {
	case *ast.Block:
		return encodeBlock(b)
	case *ast.IfExpr:
		return encodeExpr(b)
	default:
		return map[string]interface{}{"kind": fmt.Sprintf("%T", n), "_unsupported": true}
	}
}

func decodeExprSlice(raws []json.RawMessage) ([]ast.Expr, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]ast.Expr, len(raws))
	for i, r := range raws {
		e, err := decodeExpr(r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
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
	case "Identifier":
		name, err := getString(m, "name")
		if err != nil {
			return nil, err
		}
		return &ast.Identifier{Name: name, Pos: pos}, nil

	case "Literal":
		litKind, err := getString(m, "literal_kind")
		if err != nil {
			return nil, err
		}
		lk, err := parseLiteralKind(litKind)
		if err != nil {
			return nil, err
		}
		value, err := decodeLiteralValue(m, lk)
		if err != nil {
			return nil, err
		}
		suffix, err := getString(m, "suffix")
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: lk, Value: value, Suffix: suffix, Pos: pos}, nil

	case "BinaryExpr":
		op, err := getString(m, "op")
		if err != nil {
			return nil, err
		}
		left, err := decodeRequiredExpr(m, "left", kind)
		if err != nil {
			return nil, err
		}
		right, err := decodeRequiredExpr(m, "right", kind)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}, nil

	case "UnaryExpr":
		op, err := getString(m, "op")
		if err != nil {
			return nil, err
		}
		operand, err := decodeRequiredExpr(m, "operand", kind)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand, Pos: pos}, nil

	case "AssignExpr":
		target, err := decodeRequiredExpr(m, "target", kind)
		if err != nil {
			return nil, err
		}
		value, err := decodeRequiredExpr(m, "value", kind)
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Target: target, Value: value, Pos: pos}, nil

	case "CallExpr":
		fn, err := decodeRequiredExpr(m, "func", kind)
		if err != nil {
			return nil, err
		}
		argsRaw, err := getRawSlice(m, "args")
		if err != nil {
			return nil, err
		}
		args, err := decodeExprSlice(argsRaw)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Func: fn, Args: args, Pos: pos}, nil

	case "MethodCallExpr":
		object, err := decodeRequiredExpr(m, "object", kind)
		if err != nil {
			return nil, err
		}
		method, err := getString(m, "method")
		if err != nil {
			return nil, err
		}
		argsRaw, err := getRawSlice(m, "args")
		if err != nil {
			return nil, err
		}
		args, err := decodeExprSlice(argsRaw)
		if err != nil {
			return nil, err
		}
		return &ast.MethodCallExpr{Object: object, Method: method, Args: args, Pos: pos}, nil

	case "AssocCallExpr":
		typeName, err := getString(m, "type_name")
		if err != nil {
			return nil, err
		}
		fn, err := getString(m, "func")
		if err != nil {
			return nil, err
		}
		typeArgsRaw, err := getRawSlice(m, "type_args")
		if err != nil {
			return nil, err
		}
		typeArgs, err := decodeTypeSlice(typeArgsRaw)
		if err != nil {
			return nil, err
		}
		argsRaw, err := getRawSlice(m, "args")
		if err != nil {
			return nil, err
		}
		args, err := decodeExprSlice(argsRaw)
		if err != nil {
			return nil, err
		}
		return &ast.AssocCallExpr{TypeName: typeName, TypeArgs: typeArgs, Func: fn, Args: args, Pos: pos}, nil

	case "EnumConstructExpr":
		enumName, err := getString(m, "enum_name")
		if err != nil {
			return nil, err
		}
		variant, err := getString(m, "variant")
		if err != nil {
			return nil, err
		}
		arg, err := decodeOptionalExpr(m, "arg")
		if err != nil {
			return nil, err
		}
		return &ast.EnumConstructExpr{EnumName: enumName, Variant: variant, Arg: arg, Pos: pos}, nil

	case "BareVariantExpr":
		variant, err := getString(m, "variant")
		if err != nil {
			return nil, err
		}
		arg, err := decodeOptionalExpr(m, "arg")
		if err != nil {
			return nil, err
		}
		return &ast.BareVariantExpr{Variant: variant, Arg: arg, Pos: pos}, nil

	case "FieldAccessExpr":
		object, err := decodeRequiredExpr(m, "object", kind)
		if err != nil {
			return nil, err
		}
		field, err := getString(m, "field")
		if err != nil {
			return nil, err
		}
		return &ast.FieldAccessExpr{Object: object, Field: field, Pos: pos}, nil

	case "IndexExpr":
		base, err := decodeRequiredExpr(m, "base", kind)
		if err != nil {
			return nil, err
		}
		index, err := decodeRequiredExpr(m, "index", kind)
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Base: base, Index: index, Pos: pos}, nil

	case "SliceExpr":
		base, err := decodeRequiredExpr(m, "base", kind)
		if err != nil {
			return nil, err
		}
		start, err := decodeOptionalExpr(m, "start")
		if err != nil {
			return nil, err
		}
		end, err := decodeOptionalExpr(m, "end")
		if err != nil {
			return nil, err
		}
		return &ast.SliceExpr{Base: base, Start: start, End: end, Pos: pos}, nil

	case "StructLiteralExpr":
		typeName, err := getString(m, "type_name")
		if err != nil {
			return nil, err
		}
		fieldsRaw, err := getRawSlice(m, "fields")
		if err != nil {
			return nil, err
		}
		fields := make([]*ast.FieldInit, len(fieldsRaw))
		for i, fr := range fieldsRaw {
			fm, err := rawMap(fr)
			if err != nil {
				return nil, err
			}
			fname, err := getString(fm, "name")
			if err != nil {
				return nil, err
			}
			fpos, err := getPos(fm, "pos")
			if err != nil {
				return nil, err
			}
			value, err := decodeRequiredExpr(fm, "value", "StructLiteralExpr field "+fname)
			if err != nil {
				return nil, err
			}
			fields[i] = &ast.FieldInit{Name: fname, Value: value, Pos: fpos}
		}
		return &ast.StructLiteralExpr{TypeName: typeName, Fields: fields, Pos: pos}, nil

	case "ArrayLiteralExpr":
		elemsRaw, err := getRawSlice(m, "elements")
		if err != nil {
			return nil, err
		}
		elems, err := decodeExprSlice(elemsRaw)
		if err != nil {
			return nil, err
		}
		repeat, err := decodeOptionalExpr(m, "repeat")
		if err != nil {
			return nil, err
		}
		count, err := getInt64(m, "count")
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLiteralExpr{Elements: elems, Repeat: repeat, Count: count, Pos: pos}, nil

	case "TupleLiteralExpr":
		elemsRaw, err := getRawSlice(m, "elements")
		if err != nil {
			return nil, err
		}
		elems, err := decodeExprSlice(elemsRaw)
		if err != nil {
			return nil, err
		}
		return &ast.TupleLiteralExpr{Elements: elems, Pos: pos}, nil

	case "MatchExpr":
		scrutinee, err := decodeRequiredExpr(m, "scrutinee", kind)
		if err != nil {
			return nil, err
		}
		armsRaw, err := getRawSlice(m, "arms")
		if err != nil {
			return nil, err
		}
		arms := make([]*ast.MatchArm, len(armsRaw))
		for i, ar := range armsRaw {
			am, err := rawMap(ar)
			if err != nil {
				return nil, err
			}
			apos, err := getPos(am, "pos")
			if err != nil {
				return nil, err
			}
			patRaw, ok := am["pattern"]
			if !ok {
				return nil, fmt.Errorf("astjson: MatchExpr arm missing pattern")
			}
			pat, err := decodePattern(patRaw)
			if err != nil {
				return nil, err
			}
			body, err := decodeRequiredExpr(am, "body", "MatchExpr arm")
			if err != nil {
				return nil, err
			}
			guard, err := decodeOptionalExpr(am, "guard")
			if err != nil {
				return nil, err
			}
			arms[i] = &ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Pos: apos}
		}
		return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms, Pos: pos}, nil

	case "IfExpr":
		cond, err := decodeRequiredExpr(m, "cond", kind)
		if err != nil {
			return nil, err
		}
		then, err := decodeRequiredBlock(m, "then", kind)
		if err != nil {
			return nil, err
		}
		elseNode, err := decodeElseBranch(m, "else")
		if err != nil {
			return nil, err
		}
		return &ast.IfExpr{Cond: cond, Then: then, Else: elseNode, Pos: pos}, nil

	case "IfLetExpr":
		patRaw, ok := m["pattern"]
		if !ok {
			return nil, fmt.Errorf("astjson: IfLetExpr missing pattern")
		}
		pat, err := decodePattern(patRaw)
		if err != nil {
			return nil, err
		}
		value, err := decodeRequiredExpr(m, "value", kind)
		if err != nil {
			return nil, err
		}
		then, err := decodeRequiredBlock(m, "then", kind)
		if err != nil {
			return nil, err
		}
		elseNode, err := decodeElseBranch(m, "else")
		if err != nil {
			return nil, err
		}
		return &ast.IfLetExpr{Pattern: pat, Value: value, Then: then, Else: elseNode, Pos: pos}, nil

	case "Block":
		return decodeBlockBody(m, pos)

	default:
		return nil, fmt.Errorf("astjson: unknown expression kind %q", kind)
	}
}

func decodeRequiredExpr(m map[string]json.RawMessage, key, owner string) (ast.Expr, error) {
	raw, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("astjson: %s missing %q", owner, key)
	}
	return decodeExpr(raw)
}

func decodeOptionalExpr(m map[string]json.RawMessage, key string) (ast.Expr, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	return decodeExpr(raw)
}

func decodeRequiredBlock(m map[string]json.RawMessage, key, owner string) (*ast.Block, error) {
	raw, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("astjson: %s missing %q", owner, key)
	}
	e, err := decodeExpr(raw)
	if err != nil {
		return nil, err
	}
	b, ok := e.(*ast.Block)
	if !ok {
		return nil, fmt.Errorf("astjson: %s field %q is not a block", owner, key)
	}
	return b, nil
}

// decodeElseBranch decodes the Node-typed else field of IfExpr/IfLetExpr,
// which is either a Block or a nested IfExpr.
func decodeElseBranch(m map[string]json.RawMessage, key string) (ast.Node, error) {
	raw, ok := m[key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Block":
		bm, err := rawMap(raw)
		if err != nil {
			return nil, err
		}
		pos, err := getPos(bm, "pos")
		if err != nil {
			return nil, err
		}
		return decodeBlockBody(bm, pos)
	case "IfExpr":
		e, err := decodeExpr(raw)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("astjson: else branch has unexpected kind %q", kind)
	}
}

func decodeBlockBody(m map[string]json.RawMessage, pos ast.Pos) (*ast.Block, error) {
	stmtsRaw, err := getRawSlice(m, "stmts")
	if err != nil {
		return nil, err
	}
	stmts := make([]ast.Stmt, len(stmtsRaw))
	for i, sr := range stmtsRaw {
		s, err := decodeStmt(sr)
		if err != nil {
			return nil, err
		}
		stmts[i] = s
	}
	return &ast.Block{Stmts: stmts, Pos: pos}, nil
}
