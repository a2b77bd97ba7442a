package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
)

func encodePattern(p ast.Pattern) interface{} {
	if p == nil {
		return nil
	}
	switch n := p.(type) {
	case *ast.WildcardPattern:
		return map[string]interface{}{"kind": "WildcardPattern", "pos": n.Pos}
	case *ast.IdentPattern:
		return map[string]interface{}{"kind": "IdentPattern", "name": n.Name, "pos": n.Pos}
	case *ast.LiteralPattern:
		return map[string]interface{}{"kind": "LiteralPattern", "literal_kind": literalKindName(n.Kind), "value": n.Value, "pos": n.Pos}
	case *ast.VariantPattern:
		m := map[string]interface{}{"kind": "VariantPattern", "enum_name": n.EnumName, "variant": n.Variant, "pos": n.Pos}
		if n.Sub != nil {
			m["sub"] = encodePattern(n.Sub)
		}
		return m
	case *ast.StructPattern:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "pattern": encodePattern(f.Pattern), "pos": f.Pos}
		}
		return map[string]interface{}{"kind": "StructPattern", "type_name": n.TypeName, "fields": fields, "pos": n.Pos}
	case *ast.TuplePattern:
		out := make([]interface{}, len(n.Elements))
		for i, e := range n.Elements {
			out[i] = encodePattern(e)
		}
		return map[string]interface{}{"kind": "TuplePattern", "elements": out, "pos": n.Pos}
	default:
		return map[string]interface{}{"kind": fmt.Sprintf("%T", p), "_unsupported": true}
	}
}

func decodePattern(raw json.RawMessage) (ast.Pattern, error) {
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
	case "WildcardPattern":
		return &ast.WildcardPattern{Pos: pos}, nil

	case "IdentPattern":
		name, err := getString(m, "name")
		if err != nil {
			return nil, err
		}
		return &ast.IdentPattern{Name: name, Pos: pos}, nil

	case "LiteralPattern":
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
		return &ast.LiteralPattern{Kind: lk, Value: value, Pos: pos}, nil

	case "VariantPattern":
		enumName, err := getString(m, "enum_name")
		if err != nil {
			return nil, err
		}
		variant, err := getString(m, "variant")
		if err != nil {
			return nil, err
		}
		var sub ast.Pattern
		if subRaw, ok := m["sub"]; ok {
			sub, err = decodePattern(subRaw)
			if err != nil {
				return nil, err
			}
		}
		return &ast.VariantPattern{EnumName: enumName, Variant: variant, Sub: sub, Pos: pos}, nil

	case "StructPattern":
		typeName, err := getString(m, "type_name")
		if err != nil {
			return nil, err
		}
		fieldsRaw, err := getRawSlice(m, "fields")
		if err != nil {
			return nil, err
		}
		fields := make([]*ast.StructFieldPattern, len(fieldsRaw))
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
			patRaw, ok := fm["pattern"]
			if !ok {
				return nil, fmt.Errorf("astjson: StructPattern field %q missing pattern", fname)
			}
			pat, err := decodePattern(patRaw)
			if err != nil {
				return nil, err
			}
			fields[i] = &ast.StructFieldPattern{Name: fname, Pattern: pat, Pos: fpos}
		}
		return &ast.StructPattern{TypeName: typeName, Fields: fields, Pos: pos}, nil

	case "TuplePattern":
		elemsRaw, err := getRawSlice(m, "elements")
		if err != nil {
			return nil, err
		}
		elems := make([]ast.Pattern, len(elemsRaw))
		for i, er := range elemsRaw {
			elems[i], err = decodePattern(er)
			if err != nil {
				return nil, err
			}
		}
		return &ast.TuplePattern{Elements: elems, Pos: pos}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown pattern kind %q", kind)
	}
}
