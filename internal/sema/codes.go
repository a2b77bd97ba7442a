package sema

import "github.com/asthra-lang/asthrac/internal/diag"

// Local aliases for the diagnostic codes this package emits, named after
// the error taxonomy in spec.md §7 rather than their numeric form.
const (
	errUndefinedSymbol      = diag.EUndefinedSymbol
	errDuplicateSymbol      = diag.EDuplicateSymbol
	errTypeMismatch         = diag.ETypeMismatch
	errInvalidArguments     = diag.EInvalidArguments
	errNotCallable          = diag.ENotCallable
	errInvalidType          = diag.EInvalidType
	errInvalidExpression    = diag.EInvalidExpression
	errInvalidDeclaration   = diag.EInvalidDeclaration
	errTypeInferenceFailed  = diag.ETypeInferenceFailed
	errUnsupportedOp        = diag.EUnsupportedOp
	warnNonExhaustiveMatch  = diag.ENonExhaustiveMatch
)
