package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/asthra-lang/asthrac/internal/ast"
)

func encodeProgram(prog *ast.Program) map[string]interface{} {
	imports := make([]interface{}, len(prog.Imports))
	for i, imp := range prog.Imports {
		imports[i] = map[string]interface{}{"path": imp.Path, "alias": imp.Alias, "pos": imp.Pos}
	}
	decls := make([]interface{}, len(prog.Decls))
	for i, d := range prog.Decls {
		decls[i] = encodeDecl(d)
	}
	return map[string]interface{}{
		"kind":         "Program",
		"package_name": prog.PackageName,
		"imports":      imports,
		"decls":        decls,
		"pos":          prog.Pos,
	}
}

func decodeProgram(raw map[string]json.RawMessage) (*ast.Program, error) {
	packageName, err := getString(raw, "package_name")
	if err != nil {
		return nil, err
	}
	pos, err := getPos(raw, "pos")
	if err != nil {
		return nil, err
	}

	importsRaw, err := getRawSlice(raw, "imports")
	if err != nil {
		return nil, err
	}
	imports := make([]*ast.ImportDecl, len(importsRaw))
	for i, ir := range importsRaw {
		im, err := rawMap(ir)
		if err != nil {
			return nil, err
		}
		path, err := getString(im, "path")
		if err != nil {
			return nil, err
		}
		alias, err := getString(im, "alias")
		if err != nil {
			return nil, err
		}
		ipos, err := getPos(im, "pos")
		if err != nil {
			return nil, err
		}
		imports[i] = &ast.ImportDecl{Path: path, Alias: alias, Pos: ipos}
	}

	declsRaw, err := getRawSlice(raw, "decls")
	if err != nil {
		return nil, err
	}
	decls := make([]ast.Decl, len(declsRaw))
	for i, dr := range declsRaw {
		d, err := decodeDecl(dr)
		if err != nil {
			return nil, fmt.Errorf("astjson: decl %d: %w", i, err)
		}
		decls[i] = d
	}

	return &ast.Program{PackageName: packageName, Imports: imports, Decls: decls, Pos: pos}, nil
}
