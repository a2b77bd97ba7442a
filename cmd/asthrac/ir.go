package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asthra-lang/asthrac/internal/codegen"
	"github.com/asthra-lang/asthrac/internal/config"
)

func newIRCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ir <file>",
		Short: "Print the flat IR instruction listing for a JSON-encoded ast.Program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			prog, err := loadProgram(path)
			if err != nil {
				return err
			}

			a, ok := analyze(cfg, prog)
			if emitDiagnostics(cfg, a.Sink) || !ok {
				os.Exit(1)
				return nil
			}

			gen := codegen.New(a)
			buf, err := gen.Generate(prog)
			if err != nil {
				return fmt.Errorf("codegen: %w", err)
			}

			fmt.Fprint(os.Stdout, buf.String())
			return nil
		},
	}
}
