package main

import (
	"fmt"
	"os"

	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/astjson"
	"github.com/asthra-lang/asthrac/internal/config"
	"github.com/asthra-lang/asthrac/internal/diag"
	"github.com/asthra-lang/asthrac/internal/sema"
)

// loadProgram reads and decodes the ast.Program at path.
func loadProgram(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	prog, err := astjson.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return prog, nil
}

// analyze runs the semantic analyzer over prog, returning the populated
// analyzer and whether it accepted the program without error.
func analyze(cfg *config.Config, prog *ast.Program) (*sema.Analyzer, bool) {
	sink := diag.NewSink(cfg.SuggestionConfidence)
	a := sema.New(sink)
	ok := a.AnalyzeProgram(prog)
	return a, ok && !sink.HasErrors()
}

// emitDiagnostics writes every recorded diagnostic in the cfg-selected
// form. It returns true if at least one error-severity diagnostic fired.
func emitDiagnostics(cfg *config.Config, sink *diag.Sink) bool {
	if cfg.JSONOutput {
		if err := sink.WriteJSON(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "%s: encoding diagnostics: %v\n", red("Error"), err)
		}
	} else {
		sink.WriteHuman(os.Stdout)
	}
	return sink.HasErrors()
}

func traceProgress(cfg *config.Config, format string, args ...interface{}) {
	if !cfg.Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", cyan("[asthrac]"), fmt.Sprintf(format, args...))
}
