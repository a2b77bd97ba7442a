package ast

import (
	"strings"
	"testing"
)

func TestPrintIdentifierAndLiteral(t *testing.T) {
	id := &Identifier{Name: "x", Pos: Pos{File: "t.asthra", Line: 1, Column: 1}}
	out := Print(id)
	if !strings.Contains(out, `"type": "Identifier"`) || !strings.Contains(out, `"name": "x"`) {
		t.Fatalf("unexpected printer output: %s", out)
	}

	lit := &Literal{Kind: IntLiteral, Value: int64(42), Suffix: "i64"}
	if lit.String() != "42i64" {
		t.Fatalf("literal String() = %q", lit.String())
	}
}

func TestPrintProgramDeterministic(t *testing.T) {
	prog := &Program{
		PackageName: "main",
		Decls: []Decl{
			&StructDecl{Name: "Point", Fields: []*FieldDecl{
				{Name: "x", Type: &NamedType{Name: "i32"}},
				{Name: "y", Type: &NamedType{Name: "i32"}},
			}},
		},
	}
	a := PrintProgram(prog)
	b := PrintProgram(prog)
	if a != b {
		t.Fatalf("Print is not deterministic across calls")
	}
	if !strings.Contains(a, "StructDecl") {
		t.Fatalf("expected StructDecl in output: %s", a)
	}
}

func TestNormalizeIdentStripsBOMAndNFC(t *testing.T) {
	withBOM := "﻿cafe"
	if got := NormalizeIdent(withBOM); strings.Contains(got, "﻿") {
		t.Fatalf("expected BOM stripped, got %q", got)
	}

	// "café" as base+combining-acute (NFD) should normalize to the same
	// string as the precomposed (NFC) form.
	nfd := "café"
	nfc := "café"
	if NormalizeIdent(nfd) != NormalizeIdent(nfc) {
		t.Fatalf("NFD and NFC forms should normalize identically")
	}
}

func TestEnumConstructorPatternString(t *testing.T) {
	p := &VariantPattern{EnumName: "Option", Variant: "Some", Sub: &IdentPattern{Name: "x"}}
	if p.String() != "Option.Some(x)" {
		t.Fatalf("got %q", p.String())
	}
}
