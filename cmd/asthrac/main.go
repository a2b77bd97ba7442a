// Command asthrac is the Asthra semantic-analysis and codegen front end.
// It reads a compilation unit as a JSON-encoded ast.Program (internal/astjson
// — no lexer/parser ships in this module, so the JSON form is the actual
// input surface an external front end produces) and drives it through
// internal/sema and internal/codegen.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asthra-lang/asthrac/internal/config"
)

var (
	// Set by ldflags during release builds.
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}

// projectFilePath scans the raw args for an explicit --project value so the
// project file can be loaded before flags are registered (and so command-
// line flags, parsed afterward by cobra, correctly win over whatever the
// file set). Cobra has no hook that runs before its own flag parsing, so
// this one pass stands in for it.
func projectFilePath(args []string) string {
	for i, a := range args {
		if a == "--project" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, "--project=") {
			return strings.TrimPrefix(a, "--project=")
		}
	}
	return config.ProjectFileName
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	if err := config.LoadProjectFile(projectFilePath(os.Args[1:]), &cfg); err != nil {
		cobra.CheckErr(err)
	}

	root := &cobra.Command{
		Use:   "asthrac",
		Short: "Semantic analysis and codegen front end for Asthra",
		Long: bold("asthrac") + " checks and lowers Asthra compilation units.\n" +
			"Each subcommand takes a JSON-encoded ast.Program (see internal/astjson);\n" +
			"no source lexer or parser ships with this binary.",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime),
		SilenceUsage: true,
	}
	root.PersistentFlags().String("project", config.ProjectFileName, "project config file (asthra.yaml)")
	cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newCheckCmd(&cfg),
		newBuildCmd(&cfg),
		newIRCmd(&cfg),
		newCodesCmd(&cfg),
		newREPLCmd(&cfg),
	)
	return root
}
