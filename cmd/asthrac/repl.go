package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/asthra-lang/asthrac/internal/ast"
	"github.com/asthra-lang/asthrac/internal/astjson"
	"github.com/asthra-lang/asthrac/internal/config"
	"github.com/asthra-lang/asthrac/internal/diag"
	"github.com/asthra-lang/asthrac/internal/sema"
)

// replSession is a scratchpad that accumulates declarations, one JSON-
// encoded ast.Decl per line, and re-checks the accumulated program against
// a fresh analyzer after every addition — so a declaration that breaks
// something already accepted is rejected and dropped rather than silently
// corrupting the session.
type replSession struct {
	decls []ast.Decl
}

func (s *replSession) tryAdd(d ast.Decl) (*sema.Analyzer, bool) {
	candidate := append(append([]ast.Decl{}, s.decls...), d)
	a := sema.New(diag.NewSink(diag.Low))
	ok := a.AnalyzeProgram(&ast.Program{PackageName: "repl", Decls: candidate})
	if ok && !a.Sink.HasErrors() {
		s.decls = candidate
	}
	return a, ok && !a.Sink.HasErrors()
}

func newREPLCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive declaration-at-a-time type-checking scratchpad",
		Long: "Reads one JSON-encoded ast.Decl per line (see internal/astjson) and\n" +
			"type-checks it against everything accepted so far in the session.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runREPL(cfg, os.Stdin, os.Stdout)
			return nil
		},
	}
}

func runREPL(cfg *config.Config, in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".asthrac_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetCompleter(func(in string) (c []string) {
		if strings.HasPrefix(in, ":") {
			for _, cmd := range []string{":help", ":quit", ":history", ":clear"} {
				if strings.HasPrefix(cmd, in) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Fprintf(out, "%s %s\n", bold("asthrac"), bold(version))
	fmt.Fprintln(out, "Type :help for help, :quit to exit")
	fmt.Fprintln(out)

	sess := &replSession{}

	for {
		input, err := line.Prompt(fmt.Sprintf("asthra[%d]> ", len(sess.decls)))
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if handleREPLCommand(input, sess, out) {
				break
			}
			continue
		}

		d, err := astjson.DecodeDecl([]byte(input))
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("parse error"), err)
			continue
		}

		a, ok := sess.tryAdd(d)
		if cfg.JSONOutput {
			_ = a.Sink.WriteJSON(out)
		} else {
			a.Sink.WriteHuman(out)
		}
		if ok {
			fmt.Fprintf(out, "%s %s\n", green("accepted"), declName(d))
		} else {
			fmt.Fprintf(out, "%s %s\n", red("rejected"), declName(d))
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// handleREPLCommand processes a leading-colon command. It returns true when
// the session should end.
func handleREPLCommand(input string, sess *replSession, out io.Writer) bool {
	switch {
	case input == ":quit" || input == ":q" || input == ":exit":
		fmt.Fprintln(out, green("Goodbye!"))
		return true
	case input == ":help":
		fmt.Fprintln(out, "Enter a JSON-encoded ast.Decl (see internal/astjson) to type-check it.")
		fmt.Fprintln(out, ":history  show accepted declarations in this session")
		fmt.Fprintln(out, ":clear    discard the session and start over")
		fmt.Fprintln(out, ":quit     exit")
	case input == ":clear":
		sess.decls = nil
		fmt.Fprintln(out, yellow("session cleared"))
	case input == ":history":
		for i, d := range sess.decls {
			fmt.Fprintf(out, "%d: %s\n", i, declName(d))
		}
	default:
		fmt.Fprintf(out, "%s: unknown command %q\n", red("Error"), input)
	}
	return false
}

func declName(d ast.Decl) string {
	switch n := d.(type) {
	case *ast.FuncDecl:
		return "fn " + n.Name
	case *ast.StructDecl:
		return "struct " + n.Name
	case *ast.EnumDecl:
		return "enum " + n.Name
	case *ast.ExternDecl:
		return "extern " + n.Name
	case *ast.ImplDecl:
		return "impl " + n.TypeName
	case *ast.ImportDecl:
		return "import " + n.Path
	default:
		return fmt.Sprintf("%T", d)
	}
}
