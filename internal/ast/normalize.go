package ast

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// NormalizeIdent applies the same boundary normalization the lexer would
// apply to raw source text, but scoped to a single identifier: strip a
// stray UTF-8 BOM and normalize to NFC. This guarantees that two
// identifiers that are visually and canonically equivalent (e.g. an accented
// letter spelled as a precomposed codepoint vs. a base+combining-mark pair)
// hash and compare equal in the symbol table, regardless of which form the
// source file used.
func NormalizeIdent(name string) string {
	b := []byte(name)
	b = bytes.TrimPrefix(b, bomUTF8)
	if !norm.NFC.IsNormal(b) {
		b = norm.NFC.Bytes(b)
	}
	return string(b)
}
