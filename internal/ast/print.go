package ast

import (
	"encoding/json"
	"fmt"
)

// PrintProgram produces a deterministic JSON representation of a Program,
// used for golden snapshot testing across the analyzer and codegen suites.
func PrintProgram(p *Program) string {
	if p == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(p), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// Print produces a deterministic JSON representation of any AST node.
//
// Design decisions mirrored from the teacher's printer:
//   - Omits all source positions (no offsets, lines, columns or file paths)
//   - Includes a "type" discriminator per node
//   - Object keys are emitted in sorted order (encoding/json sorts map
//     keys), so the output is deterministic
func Print(node Node) string {
	if node == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(node), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// Compact returns a single-line JSON representation of node.
func Compact(node Node) string {
	data, err := json.Marshal(simplify(node))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplify(node interface{}) interface{} {
	if node == nil {
		return nil
	}
	switch n := node.(type) {
	case *Program:
		m := map[string]interface{}{"type": "Program", "package": n.PackageName}
		if len(n.Imports) > 0 {
			m["imports"] = simplifySlice(n.Imports)
		}
		if len(n.Decls) > 0 {
			m["decls"] = simplifyDeclSlice(n.Decls)
		}
		return m

	case *ImportDecl:
		m := map[string]interface{}{"type": "ImportDecl", "path": n.Path}
		if n.Alias != "" {
			m["alias"] = n.Alias
		}
		return m

	case *FuncDecl:
		m := map[string]interface{}{
			"type":       "FuncDecl",
			"name":       n.Name,
			"visibility": n.Visibility.String(),
			"params":     simplifyParamSlice(n.Params),
			"body":       simplify(n.Body),
		}
		if n.ReturnType != nil {
			m["returnType"] = simplify(n.ReturnType)
		}
		if len(n.TypeParams) > 0 {
			names := make([]string, len(n.TypeParams))
			for i, tp := range n.TypeParams {
				names[i] = tp.Name
			}
			m["typeParams"] = names
		}
		return m

	case *ExternDecl:
		m := map[string]interface{}{
			"type":       "ExternDecl",
			"name":       n.Name,
			"visibility": n.Visibility.String(),
			"symbol":     n.SymbolName,
			"variadic":   n.Variadic,
		}
		if n.ReturnType != nil {
			m["returnType"] = simplify(n.ReturnType)
		}
		return m

	case *StructDecl:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "type": simplify(f.Type)}
		}
		return map[string]interface{}{"type": "StructDecl", "name": n.Name, "fields": fields}

	case *EnumDecl:
		variants := make([]interface{}, len(n.Variants))
		for i, v := range n.Variants {
			vm := map[string]interface{}{"name": v.Name}
			if v.AssocType != nil {
				vm["assocType"] = simplify(v.AssocType)
			}
			variants[i] = vm
		}
		return map[string]interface{}{"type": "EnumDecl", "name": n.Name, "variants": variants}

	case *ImplDecl:
		return map[string]interface{}{"type": "ImplDecl", "typeName": n.TypeName, "methods": simplifyFuncSlice(n.Methods)}

	case *Identifier:
		return map[string]interface{}{"type": "Identifier", "name": n.Name}

	case *Literal:
		m := map[string]interface{}{"type": "Literal", "kind": literalKindString(n.Kind)}
		if n.Value != nil {
			m["value"] = n.Value
		}
		return m

	case *BinaryExpr:
		return map[string]interface{}{"type": "BinaryExpr", "op": n.Op, "left": simplify(n.Left), "right": simplify(n.Right)}

	case *UnaryExpr:
		return map[string]interface{}{"type": "UnaryExpr", "op": n.Op, "operand": simplify(n.Operand)}

	case *AssignExpr:
		return map[string]interface{}{"type": "AssignExpr", "target": simplify(n.Target), "value": simplify(n.Value)}

	case *CallExpr:
		return map[string]interface{}{"type": "CallExpr", "func": simplify(n.Func), "args": simplifyExprSlice(n.Args)}

	case *MethodCallExpr:
		return map[string]interface{}{"type": "MethodCallExpr", "object": simplify(n.Object), "method": n.Method, "args": simplifyExprSlice(n.Args)}

	case *AssocCallExpr:
		return map[string]interface{}{"type": "AssocCallExpr", "typeName": n.TypeName, "func": n.Func, "args": simplifyExprSlice(n.Args)}

	case *EnumConstructExpr:
		m := map[string]interface{}{"type": "EnumConstructExpr", "enum": n.EnumName, "variant": n.Variant}
		if n.Arg != nil {
			m["arg"] = simplify(n.Arg)
		}
		return m

	case *BareVariantExpr:
		m := map[string]interface{}{"type": "BareVariantExpr", "variant": n.Variant}
		if n.Arg != nil {
			m["arg"] = simplify(n.Arg)
		}
		return m

	case *FieldAccessExpr:
		return map[string]interface{}{"type": "FieldAccessExpr", "object": simplify(n.Object), "field": n.Field}

	case *IndexExpr:
		return map[string]interface{}{"type": "IndexExpr", "base": simplify(n.Base), "index": simplify(n.Index)}

	case *SliceExpr:
		m := map[string]interface{}{"type": "SliceExpr", "base": simplify(n.Base)}
		if n.Start != nil {
			m["start"] = simplify(n.Start)
		}
		if n.End != nil {
			m["end"] = simplify(n.End)
		}
		return m

	case *StructLiteralExpr:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "value": simplify(f.Value)}
		}
		return map[string]interface{}{"type": "StructLiteralExpr", "typeName": n.TypeName, "fields": fields}

	case *ArrayLiteralExpr:
		if n.Repeat != nil {
			return map[string]interface{}{"type": "ArrayLiteralExpr", "repeat": simplify(n.Repeat), "count": n.Count}
		}
		return map[string]interface{}{"type": "ArrayLiteralExpr", "elements": simplifyExprSlice(n.Elements)}

	case *TupleLiteralExpr:
		return map[string]interface{}{"type": "TupleLiteralExpr", "elements": simplifyExprSlice(n.Elements)}

	case *MatchExpr:
		arms := make([]interface{}, len(n.Arms))
		for i, a := range n.Arms {
			am := map[string]interface{}{"pattern": simplify(a.Pattern), "body": simplify(a.Body)}
			if a.Guard != nil {
				am["guard"] = simplify(a.Guard)
			}
			arms[i] = am
		}
		return map[string]interface{}{"type": "MatchExpr", "scrutinee": simplify(n.Scrutinee), "arms": arms}

	case *IfExpr:
		m := map[string]interface{}{"type": "IfExpr", "cond": simplify(n.Cond), "then": simplify(n.Then)}
		if n.Else != nil {
			m["else"] = simplify(n.Else)
		}
		return m

	case *IfLetExpr:
		m := map[string]interface{}{"type": "IfLetExpr", "pattern": simplify(n.Pattern), "value": simplify(n.Value), "then": simplify(n.Then)}
		if n.Else != nil {
			m["else"] = simplify(n.Else)
		}
		return m

	case *Block:
		stmts := make([]interface{}, len(n.Stmts))
		for i, s := range n.Stmts {
			stmts[i] = simplify(s)
		}
		return map[string]interface{}{"type": "Block", "stmts": stmts}

	case *LetStmt:
		m := map[string]interface{}{"type": "LetStmt", "name": n.Name, "value": simplify(n.Value)}
		if n.Type != nil {
			m["typeAnnotation"] = simplify(n.Type)
		}
		return m

	case *ExprStmt:
		return map[string]interface{}{"type": "ExprStmt", "expr": simplify(n.Expr)}

	case *ForStmt:
		return map[string]interface{}{"type": "ForStmt", "var": n.Var, "iter": simplify(n.Iter), "body": simplify(n.Body)}

	case *ReturnStmt:
		m := map[string]interface{}{"type": "ReturnStmt"}
		if n.Value != nil {
			m["value"] = simplify(n.Value)
		}
		return m

	case *BreakStmt:
		return map[string]interface{}{"type": "BreakStmt"}
	case *ContinueStmt:
		return map[string]interface{}{"type": "ContinueStmt"}

	case *WildcardPattern:
		return map[string]interface{}{"type": "WildcardPattern"}
	case *IdentPattern:
		return map[string]interface{}{"type": "IdentPattern", "name": n.Name}
	case *LiteralPattern:
		return map[string]interface{}{"type": "LiteralPattern", "value": n.Value}
	case *VariantPattern:
		m := map[string]interface{}{"type": "VariantPattern", "enum": n.EnumName, "variant": n.Variant}
		if n.Sub != nil {
			m["sub"] = simplify(n.Sub)
		}
		return m
	case *StructPattern:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{"name": f.Name, "pattern": simplify(f.Pattern)}
		}
		return map[string]interface{}{"type": "StructPattern", "typeName": n.TypeName, "fields": fields}
	case *TuplePattern:
		return map[string]interface{}{"type": "TuplePattern", "elements": simplifyPatternSlice(n.Elements)}

	case *NamedType:
		m := map[string]interface{}{"type": "NamedType", "name": n.Name}
		if len(n.TypeArgs) > 0 {
			m["typeArgs"] = simplifyTypeExprSlice(n.TypeArgs)
		}
		return m
	case *PointerType:
		return map[string]interface{}{"type": "PointerType", "pointee": simplify(n.Pointee), "mutable": n.Mutable}
	case *SliceType:
		return map[string]interface{}{"type": "SliceType", "element": simplify(n.Element), "mutable": n.Mutable}
	case *ArrayType:
		return map[string]interface{}{"type": "ArrayType", "element": simplify(n.Element), "length": n.Length}
	case *TupleType:
		return map[string]interface{}{"type": "TupleType", "elements": simplifyTypeExprSlice(n.Elements)}
	case *ResultType:
		return map[string]interface{}{"type": "ResultType", "ok": simplify(n.Ok), "err": simplify(n.Err)}
	case *OptionType:
		return map[string]interface{}{"type": "OptionType", "elem": simplify(n.Elem)}

	case *Param:
		m := map[string]interface{}{"type": "Param", "name": n.Name}
		if n.Type != nil {
			m["typeAnnotation"] = simplify(n.Type)
		}
		return m

	default:
		return map[string]interface{}{"type": fmt.Sprintf("%T", node), "_note": "not yet handled by printer"}
	}
}

func simplifyDeclSlice(decls []Decl) []interface{} {
	result := make([]interface{}, len(decls))
	for i, d := range decls {
		result[i] = simplify(d)
	}
	return result
}

func simplifyExprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = simplify(e)
	}
	return result
}

func simplifyPatternSlice(patterns []Pattern) []interface{} {
	result := make([]interface{}, len(patterns))
	for i, p := range patterns {
		result[i] = simplify(p)
	}
	return result
}

func simplifyTypeExprSlice(types []TypeExpr) []interface{} {
	result := make([]interface{}, len(types))
	for i, t := range types {
		result[i] = simplify(t)
	}
	return result
}

func simplifyParamSlice(params []*Param) []interface{} {
	result := make([]interface{}, len(params))
	for i, p := range params {
		result[i] = simplify(p)
	}
	return result
}

func simplifyFuncSlice(funcs []*FuncDecl) []interface{} {
	result := make([]interface{}, len(funcs))
	for i, f := range funcs {
		result[i] = simplify(f)
	}
	return result
}

func simplifySlice(imports []*ImportDecl) []interface{} {
	result := make([]interface{}, len(imports))
	for i, imp := range imports {
		result[i] = simplify(imp)
	}
	return result
}

func literalKindString(kind LiteralKind) string {
	switch kind {
	case IntLiteral:
		return "Int"
	case FloatLiteral:
		return "Float"
	case StringLiteral:
		return "String"
	case BoolLiteral:
		return "Bool"
	case CharLiteral:
		return "Char"
	case UnitLiteral:
		return "Unit"
	default:
		return "Unknown"
	}
}
