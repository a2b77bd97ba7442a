package abi

import "strings"

// MangleMethod returns the linker symbol for an ordinary (non-generic)
// method or associated function: StructName_method (§4.4/§6).
func MangleMethod(structName, method string) string {
	return structName + "_" + method
}

// MangleInPlace returns the symbol for the optimized self-mutation variant
// of a method, StructName_method_inplace. internal/codegen does not emit
// this variant: every method body it lowers is labeled with MangleMethod,
// or with MangleGeneric for a monomorph.
func MangleInPlace(structName, method string) string {
	return structName + "_" + method + "_inplace"
}

// MangleGeneric returns the symbol for a monomorphized generic method:
// StructName_A_B_method, with typeArgNames (already rendered to their
// display names, e.g. "i32") joined by "_" between the struct name and the
// method name. Falls back to MangleMethod when there are no type
// arguments, so callers don't need to special-case non-generic structs.
func MangleGeneric(structName string, typeArgNames []string, method string) string {
	if len(typeArgNames) == 0 {
		return MangleMethod(structName, method)
	}
	return structName + "_" + strings.Join(typeArgNames, "_") + "_" + method
}
