package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asthra-lang/asthrac/internal/config"
)

func newCheckCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Run semantic analysis over a JSON-encoded ast.Program and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			traceProgress(cfg, "loading %s", path)

			prog, err := loadProgram(path)
			if err != nil {
				return err
			}

			traceProgress(cfg, "analyzing package %s", prog.PackageName)
			a, ok := analyze(cfg, prog)
			hasErrors := emitDiagnostics(cfg, a.Sink)

			if ok && !hasErrors {
				if !cfg.JSONOutput {
					fmt.Fprintf(os.Stdout, "%s %s\n", green("ok"), path)
				}
				return nil
			}
			os.Exit(1)
			return nil
		},
	}
}
