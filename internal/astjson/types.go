package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
)

func encodeType(t ast.TypeExpr) interface{} {
	if t == nil {
		return nil
	}
	switch n := t.(type) {
	case *ast.NamedType:
		m := map[string]interface{}{"kind": "NamedType", "name": n.Name, "pos": n.Pos}
		if len(n.TypeArgs) > 0 {
			m["type_args"] = encodeTypeSlice(n.TypeArgs)
		}
		return m
	case *ast.PointerType:
		return map[string]interface{}{"kind": "PointerType", "pointee": encodeType(n.Pointee), "mutable": n.Mutable, "pos": n.Pos}
	case *ast.SliceType:
		return map[string]interface{}{"kind": "SliceType", "element": encodeType(n.Element), "mutable": n.Mutable, "pos": n.Pos}
	case *ast.ArrayType:
		return map[string]interface{}{"kind": "ArrayType", "element": encodeType(n.Element), "length": n.Length, "pos": n.Pos}
	case *ast.TupleType:
		return map[string]interface{}{"kind": "TupleType", "elements": encodeTypeSlice(n.Elements), "pos": n.Pos}
	case *ast.ResultType:
		return map[string]interface{}{"kind": "ResultType", "ok": encodeType(n.Ok), "err": encodeType(n.Err), "pos": n.Pos}
	case *ast.OptionType:
		return map[string]interface{}{"kind": "OptionType", "elem": encodeType(n.Elem), "pos": n.Pos}
	default:
		return map[string]interface{}{"kind": fmt.Sprintf("%T", t), "_unsupported": true}
	}
}

func encodeTypeSlice(ts []ast.TypeExpr) []interface{} {
	out := make([]interface{}, len(ts))
	for i, t := range ts {
		out[i] = encodeType(t)
	}
	return out
}

func decodeType(raw json.RawMessage) (ast.TypeExpr, error) {
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
	case "NamedType":
		name, err := getString(m, "name")
		if err != nil {
			return nil, err
		}
		argsRaw, err := getRawSlice(m, "type_args")
		if err != nil {
			return nil, err
		}
		args, err := decodeTypeSlice(argsRaw)
		if err != nil {
			return nil, err
		}
		return &ast.NamedType{Name: name, TypeArgs: args, Pos: pos}, nil

	case "PointerType":
		pointeeRaw, ok := m["pointee"]
		if !ok {
			return nil, fmt.Errorf("astjson: PointerType missing pointee")
		}
		pointee, err := decodeType(pointeeRaw)
		if err != nil {
			return nil, err
		}
		mutable, err := getBool(m, "mutable")
		if err != nil {
			return nil, err
		}
		return &ast.PointerType{Pointee: pointee, Mutable: mutable, Pos: pos}, nil

	case "SliceType":
		elemRaw, ok := m["element"]
		if !ok {
			return nil, fmt.Errorf("astjson: SliceType missing element")
		}
		elem, err := decodeType(elemRaw)
		if err != nil {
			return nil, err
		}
		mutable, err := getBool(m, "mutable")
		if err != nil {
			return nil, err
		}
		return &ast.SliceType{Element: elem, Mutable: mutable, Pos: pos}, nil

	case "ArrayType":
		elemRaw, ok := m["element"]
		if !ok {
			return nil, fmt.Errorf("astjson: ArrayType missing element")
		}
		elem, err := decodeType(elemRaw)
		if err != nil {
			return nil, err
		}
		length, err := getInt64(m, "length")
		if err != nil {
			return nil, err
		}
		return &ast.ArrayType{Element: elem, Length: length, Pos: pos}, nil

	case "TupleType":
		elemsRaw, err := getRawSlice(m, "elements")
		if err != nil {
			return nil, err
		}
		elems, err := decodeTypeSlice(elemsRaw)
		if err != nil {
			return nil, err
		}
		return &ast.TupleType{Elements: elems, Pos: pos}, nil

	case "ResultType":
		okRaw, ok := m["ok"]
		if !ok {
			return nil, fmt.Errorf("astjson: ResultType missing ok")
		}
		okType, err := decodeType(okRaw)
		if err != nil {
			return nil, err
		}
		errRaw, ok := m["err"]
		if !ok {
			return nil, fmt.Errorf("astjson: ResultType missing err")
		}
		errType, err := decodeType(errRaw)
		if err != nil {
			return nil, err
		}
		return &ast.ResultType{Ok: okType, Err: errType, Pos: pos}, nil

	case "OptionType":
		elemRaw, ok := m["elem"]
		if !ok {
			return nil, fmt.Errorf("astjson: OptionType missing elem")
		}
		elem, err := decodeType(elemRaw)
		if err != nil {
			return nil, err
		}
		return &ast.OptionType{Elem: elem, Pos: pos}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown type expression kind %q", kind)
	}
}

func decodeTypeSlice(raws []json.RawMessage) ([]ast.TypeExpr, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]ast.TypeExpr, len(raws))
	for i, r := range raws {
		t, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
