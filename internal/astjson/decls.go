package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
)

func encodeTransfer(t ast.FFITransfer) string { return t.String() }

func decodeTransfer(m map[string]json.RawMessage, key string) (ast.FFITransfer, error) {
	s, err := getString(m, key)
	if err != nil {
		return ast.TransferNone, err
	}
	switch s {
	case "transfer_full":
		return ast.TransferFull, nil
	case "borrowed":
		return ast.Borrowed, nil
	case "", "transfer_none":
		return ast.TransferNone, nil
	default:
		return ast.TransferNone, fmt.Errorf("astjson: unknown FFI transfer %q", s)
	}
}

func encodeTypeParams(tps []*ast.TypeParam) []interface{} {
	out := make([]interface{}, len(tps))
	for i, tp := range tps {
		out[i] = map[string]interface{}{"name": tp.Name, "pos": tp.Pos}
	}
	return out
}

func decodeTypeParams(raws []json.RawMessage) ([]*ast.TypeParam, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]*ast.TypeParam, len(raws))
	for i, r := range raws {
		m, err := rawMap(r)
		if err != nil {
			return nil, err
		}
		name, err := getString(m, "name")
		if err != nil {
			return nil, err
		}
		pos, err := getPos(m, "pos")
		if err != nil {
			return nil, err
		}
		out[i] = &ast.TypeParam{Name: name, Pos: pos}
	}
	return out, nil
}

func encodeParams(ps []*ast.Param) []interface{} {
	out := make([]interface{}, len(ps))
	for i, p := range ps {
		out[i] = map[string]interface{}{"name": p.Name, "type": encodeType(p.Type), "pos": p.Pos}
	}
	return out
}

func decodeParams(raws []json.RawMessage) ([]*ast.Param, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]*ast.Param, len(raws))
	for i, r := range raws {
		m, err := rawMap(r)
		if err != nil {
			return nil, err
		}
		name, err := getString(m, "name")
		if err != nil {
			return nil, err
		}
		pos, err := getPos(m, "pos")
		if err != nil {
			return nil, err
		}
		typeRaw, ok := m["type"]
		if !ok {
			return nil, fmt.Errorf("astjson: param %q missing type", name)
		}
		typ, err := decodeType(typeRaw)
		if err != nil {
			return nil, err
		}
		out[i] = &ast.Param{Name: name, Type: typ, Pos: pos}
	}
	return out, nil
}

func encodeDecl(d ast.Decl) interface{} {
	if d == nil {
		return nil
	}
	switch n := d.(type) {
	case *ast.ImportDecl:
		return map[string]interface{}{"kind": "ImportDecl", "path": n.Path, "alias": n.Alias, "pos": n.Pos}

	case *ast.FuncDecl:
		ret := interface{}(nil)
		if n.ReturnType != nil {
			ret = encodeType(n.ReturnType)
		}
		return map[string]interface{}{
			"kind":        "FuncDecl",
			"name":        n.Name,
			"visibility":  encodeVisibility(n.Visibility),
			"type_params": encodeTypeParams(n.TypeParams),
			"params":      encodeParams(n.Params),
			"return_type": ret,
			"body":        encodeBlock(n.Body),
			"pos":         n.Pos,
		}

	case *ast.ExternDecl:
		params := make([]interface{}, len(n.Params))
		for i, p := range n.Params {
			params[i] = map[string]interface{}{
				"name":     p.Name,
				"type":     encodeType(p.Type),
				"transfer": encodeTransfer(p.Transfer),
				"pos":      p.Pos,
			}
		}
		return map[string]interface{}{
			"kind":           "ExternDecl",
			"name":           n.Name,
			"visibility":     encodeVisibility(n.Visibility),
			"params":         params,
			"return_type":    encodeType(n.ReturnType),
			"return_xfer":    encodeTransfer(n.ReturnXfer),
			"variadic":       n.Variadic,
			"variadic_start": n.VariadicStart,
			"symbol_name":    n.SymbolName,
			"pos":            n.Pos,
		}

	case *ast.StructDecl:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{
				"name":       f.Name,
				"type":       encodeType(f.Type),
				"visibility": encodeVisibility(f.Visibility),
				"pos":        f.Pos,
			}
		}
		return map[string]interface{}{
			"kind":        "StructDecl",
			"name":        n.Name,
			"visibility":  encodeVisibility(n.Visibility),
			"type_params": encodeTypeParams(n.TypeParams),
			"fields":      fields,
			"pos":         n.Pos,
		}

	case *ast.EnumDecl:
		variants := make([]interface{}, len(n.Variants))
		for i, v := range n.Variants {
			vm := map[string]interface{}{"name": v.Name, "pos": v.Pos}
			if v.AssocType != nil {
				vm["assoc_type"] = encodeType(v.AssocType)
			}
			if v.ExplicitValue != nil {
				vm["explicit_value"] = *v.ExplicitValue
			}
			variants[i] = vm
		}
		return map[string]interface{}{
			"kind":        "EnumDecl",
			"name":        n.Name,
			"visibility":  encodeVisibility(n.Visibility),
			"type_params": encodeTypeParams(n.TypeParams),
			"variants":    variants,
			"pos":         n.Pos,
		}

	case *ast.ImplDecl:
		methods := make([]interface{}, len(n.Methods))
		for i, mth := range n.Methods {
			methods[i] = encodeDecl(mth)
		}
		return map[string]interface{}{"kind": "ImplDecl", "type_name": n.TypeName, "methods": methods, "pos": n.Pos}

	default:
		return map[string]interface{}{"kind": fmt.Sprintf("%T", d), "_unsupported": true}
	}
}

func decodeDecl(raw json.RawMessage) (ast.Decl, error) {
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
	case "ImportDecl":
		path, err := getString(m, "path")
		if err != nil {
			return nil, err
		}
		alias, err := getString(m, "alias")
		if err != nil {
			return nil, err
		}
		return &ast.ImportDecl{Path: path, Alias: alias, Pos: pos}, nil

	case "FuncDecl":
		name, err := getString(m, "name")
		if err != nil {
			return nil, err
		}
		vis, err := decodeVisibility(m, "visibility")
		if err != nil {
			return nil, err
		}
		tpRaw, err := getRawSlice(m, "type_params")
		if err != nil {
			return nil, err
		}
		typeParams, err := decodeTypeParams(tpRaw)
		if err != nil {
			return nil, err
		}
		pRaw, err := getRawSlice(m, "params")
		if err != nil {
			return nil, err
		}
		params, err := decodeParams(pRaw)
		if err != nil {
			return nil, err
		}
		var retType ast.TypeExpr
		if rtRaw, ok := m["return_type"]; ok {
			retType, err = decodeType(rtRaw)
			if err != nil {
				return nil, err
			}
		}
		body, err := decodeRequiredBlock(m, "body", kind)
		if err != nil {
			return nil, err
		}
		return &ast.FuncDecl{
			Name:       name,
			Visibility: vis,
			TypeParams: typeParams,
			Params:     params,
			ReturnType: retType,
			Body:       body,
			Pos:        pos,
		}, nil

	case "ExternDecl":
		name, err := getString(m, "name")
		if err != nil {
			return nil, err
		}
		vis, err := decodeVisibility(m, "visibility")
		if err != nil {
			return nil, err
		}
		paramsRaw, err := getRawSlice(m, "params")
		if err != nil {
			return nil, err
		}
		params := make([]*ast.ExternParam, len(paramsRaw))
		for i, pr := range paramsRaw {
			pm, err := rawMap(pr)
			if err != nil {
				return nil, err
			}
			pname, err := getString(pm, "name")
			if err != nil {
				return nil, err
			}
			ppos, err := getPos(pm, "pos")
			if err != nil {
				return nil, err
			}
			typeRaw, ok := pm["type"]
			if !ok {
				return nil, fmt.Errorf("astjson: extern param %q missing type", pname)
			}
			ptype, err := decodeType(typeRaw)
			if err != nil {
				return nil, err
			}
			transfer, err := decodeTransfer(pm, "transfer")
			if err != nil {
				return nil, err
			}
			params[i] = &ast.ExternParam{Name: pname, Type: ptype, Transfer: transfer, Pos: ppos}
		}
		retTypeRaw, ok := m["return_type"]
		if !ok {
			return nil, fmt.Errorf("astjson: ExternDecl %q missing return_type", name)
		}
		retType, err := decodeType(retTypeRaw)
		if err != nil {
			return nil, err
		}
		retXfer, err := decodeTransfer(m, "return_xfer")
		if err != nil {
			return nil, err
		}
		variadic, err := getBool(m, "variadic")
		if err != nil {
			return nil, err
		}
		variadicStart, err := getInt64(m, "variadic_start")
		if err != nil {
			return nil, err
		}
		symbolName, err := getString(m, "symbol_name")
		if err != nil {
			return nil, err
		}
		return &ast.ExternDecl{
			Name:          name,
			Visibility:    vis,
			Params:        params,
			ReturnType:    retType,
			ReturnXfer:    retXfer,
			Variadic:      variadic,
			VariadicStart: int(variadicStart),
			SymbolName:    symbolName,
			Pos:           pos,
		}, nil

	case "StructDecl":
		name, err := getString(m, "name")
		if err != nil {
			return nil, err
		}
		vis, err := decodeVisibility(m, "visibility")
		if err != nil {
			return nil, err
		}
		tpRaw, err := getRawSlice(m, "type_params")
		if err != nil {
			return nil, err
		}
		typeParams, err := decodeTypeParams(tpRaw)
		if err != nil {
			return nil, err
		}
		fieldsRaw, err := getRawSlice(m, "fields")
		if err != nil {
			return nil, err
		}
		fields := make([]*ast.FieldDecl, len(fieldsRaw))
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
			typeRaw, ok := fm["type"]
			if !ok {
				return nil, fmt.Errorf("astjson: struct field %q missing type", fname)
			}
			ftype, err := decodeType(typeRaw)
			if err != nil {
				return nil, err
			}
			fvis, err := decodeVisibility(fm, "visibility")
			if err != nil {
				return nil, err
			}
			fields[i] = &ast.FieldDecl{Name: fname, Type: ftype, Visibility: fvis, Pos: fpos}
		}
		return &ast.StructDecl{Name: name, Visibility: vis, TypeParams: typeParams, Fields: fields, Pos: pos}, nil

	case "EnumDecl":
		name, err := getString(m, "name")
		if err != nil {
			return nil, err
		}
		vis, err := decodeVisibility(m, "visibility")
		if err != nil {
			return nil, err
		}
		tpRaw, err := getRawSlice(m, "type_params")
		if err != nil {
			return nil, err
		}
		typeParams, err := decodeTypeParams(tpRaw)
		if err != nil {
			return nil, err
		}
		variantsRaw, err := getRawSlice(m, "variants")
		if err != nil {
			return nil, err
		}
		variants := make([]*ast.VariantDecl, len(variantsRaw))
		for i, vr := range variantsRaw {
			vm, err := rawMap(vr)
			if err != nil {
				return nil, err
			}
			vname, err := getString(vm, "name")
			if err != nil {
				return nil, err
			}
			vpos, err := getPos(vm, "pos")
			if err != nil {
				return nil, err
			}
			var assocType ast.TypeExpr
			if atRaw, ok := vm["assoc_type"]; ok {
				assocType, err = decodeType(atRaw)
				if err != nil {
					return nil, err
				}
			}
			explicitValue, err := getInt64Ptr(vm, "explicit_value")
			if err != nil {
				return nil, err
			}
			variants[i] = &ast.VariantDecl{Name: vname, AssocType: assocType, ExplicitValue: explicitValue, Pos: vpos}
		}
		return &ast.EnumDecl{Name: name, Visibility: vis, TypeParams: typeParams, Variants: variants, Pos: pos}, nil

	case "ImplDecl":
		typeName, err := getString(m, "type_name")
		if err != nil {
			return nil, err
		}
		methodsRaw, err := getRawSlice(m, "methods")
		if err != nil {
			return nil, err
		}
		methods := make([]*ast.FuncDecl, len(methodsRaw))
		for i, mr := range methodsRaw {
			d, err := decodeDecl(mr)
			if err != nil {
				return nil, err
			}
			fd, ok := d.(*ast.FuncDecl)
			if !ok {
				return nil, fmt.Errorf("astjson: ImplDecl method %d is not a FuncDecl", i)
			}
			methods[i] = fd
		}
		return &ast.ImplDecl{TypeName: typeName, Methods: methods, Pos: pos}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown declaration kind %q", kind)
	}
}
