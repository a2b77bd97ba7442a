package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asthra-lang/asthrac/internal/codegen"
	"github.com/asthra-lang/asthrac/internal/config"
)

func newBuildCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "build <file>",
		Short: "Analyze and lower a JSON-encoded ast.Program to the flat IR",
		Long: "Lowers a compilation unit through analysis and code generation.\n" +
			"No object file is emitted — target ISA text formatting, object-file\n" +
			"emission, and optimizer passes remain external collaborators.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			traceProgress(cfg, "loading %s", path)

			prog, err := loadProgram(path)
			if err != nil {
				return err
			}

			traceProgress(cfg, "analyzing package %s", prog.PackageName)
			a, ok := analyze(cfg, prog)
			if emitDiagnostics(cfg, a.Sink) || !ok {
				os.Exit(1)
				return nil
			}

			traceProgress(cfg, "lowering to IR")
			gen := codegen.New(a)
			buf, err := gen.Generate(prog)
			if err != nil {
				return fmt.Errorf("codegen: %w", err)
			}
			if err := buf.Validate(); err != nil {
				return fmt.Errorf("generated IR failed validation: %w", err)
			}

			stats := gen.Stats()
			if cfg.JSONOutput {
				fmt.Fprintf(os.Stdout, "{\"instructions\":%d,\"basic_blocks\":%d,\"functions\":%d,\"bytes_estimate\":%d,\"spills\":%d,\"peak_registers\":%d}\n",
					stats.Instructions(), stats.BasicBlocks(), stats.Functions(), stats.BytesEstimate(), stats.Spills(), stats.PeakRegisters())
			} else {
				fmt.Fprintf(os.Stdout, "%s %s: %d instructions, %d functions, %d spills\n",
					green("built"), path, stats.Instructions(), stats.Functions(), stats.Spills())
			}
			return nil
		},
	}
}
