// Package config holds the compiler-wide settings every cmd/asthrac
// subcommand reads before running a pipeline stage: how loud diagnostics
// are, which form they're printed in, what an unannotated extern parameter
// is assumed to mean, and what machine the emitted IR is sized for
// (SPEC_FULL.md §4.8).
//
// A Config is built up in two layers, the way internal/eval_harness reads
// a benchmark spec and the way internal/abi reads an FFI allow-list: an
// optional asthra.yaml project file supplies defaults, and command-line
// flags (bound through spf13/pflag, the way spf13/cobra commands bind
// their own flag sets) are layered on top so a flag the user actually
// typed always wins over the file.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/asthra-lang/asthrac/internal/abi"
	"github.com/asthra-lang/asthrac/internal/diag"
)

// ProjectFileName is the conventional name LoadProjectFile looks for when
// a subcommand is not given an explicit path.
const ProjectFileName = "asthra.yaml"

// Config is the full set of settings a compilation run is parameterized
// over.
type Config struct {
	// SuggestionConfidence is the floor diag.NewSink filters fix
	// suggestions by; a suggestion below this confidence stays recorded in
	// the sink but is left out of both the JSON and the human rendering.
	SuggestionConfidence diag.Confidence

	// JSONOutput selects diag.Sink.WriteJSON over WriteHuman for every
	// subcommand that prints diagnostics.
	JSONOutput bool

	// FFIDefaultConvention is the ownership-transfer annotation assumed
	// for an extern parameter that carries none explicitly (one of
	// abi.TransferFull, abi.TransferNone, or abi.Borrowed).
	FFIDefaultConvention string

	// TargetWordSize is the pointer/usize/isize width, in bytes, the
	// layout and codegen stages size aggregates and registers for.
	TargetWordSize int

	// Verbose prints phase-by-phase progress as a build runs.
	Verbose bool

	// Trace is bound to the --trace flag; no pipeline stage reads it, so
	// setting it prints nothing.
	Trace bool
}

// Default returns the settings a bare asthrac invocation uses when no
// project file and no flags override them: low-confidence suggestions
// included, human-readable diagnostics, transfer_full for unannotated
// extern parameters (matching spec.md §4.7's existing default), and a
// 64-bit target.
func Default() Config {
	return Config{
		SuggestionConfidence: diag.Low,
		JSONOutput:           false,
		FFIDefaultConvention: abi.TransferFull,
		TargetWordSize:       8,
	}
}

// projectFile is asthra.yaml's on-disk shape. Every field is optional;
// LoadProjectFile only overwrites a Config field whose corresponding key
// was actually present, so a file that sets one setting never resets the
// others back to Default.
type projectFile struct {
	SuggestionConfidence string `yaml:"suggestion_confidence"`
	JSONOutput           *bool  `yaml:"json_output"`
	FFIDefaultConvention string `yaml:"ffi_default_convention"`
	TargetWordSize       int    `yaml:"target_word_size"`
	Verbose              *bool  `yaml:"verbose"`
}

// LoadProjectFile reads path and layers its settings onto cfg. A missing
// file is not an error — a project need not carry one — but a present,
// malformed one is.
func LoadProjectFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: reading project file: %w", err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("config: parsing project file: %w", err)
	}

	if pf.SuggestionConfidence != "" {
		c, ok := parseConfidence(pf.SuggestionConfidence)
		if !ok {
			return fmt.Errorf("config: unknown suggestion_confidence %q (want low, medium, or high)", pf.SuggestionConfidence)
		}
		cfg.SuggestionConfidence = c
	}
	if pf.JSONOutput != nil {
		cfg.JSONOutput = *pf.JSONOutput
	}
	if pf.FFIDefaultConvention != "" {
		if !isRecognizedConvention(pf.FFIDefaultConvention) {
			return fmt.Errorf("config: unknown ffi_default_convention %q (want %s, %s, or %s)", pf.FFIDefaultConvention, abi.TransferFull, abi.TransferNone, abi.Borrowed)
		}
		cfg.FFIDefaultConvention = pf.FFIDefaultConvention
	}
	if pf.TargetWordSize != 0 {
		cfg.TargetWordSize = pf.TargetWordSize
	}
	if pf.Verbose != nil {
		cfg.Verbose = *pf.Verbose
	}
	return nil
}

func isRecognizedConvention(name string) bool {
	return name == abi.TransferFull || name == abi.TransferNone || name == abi.Borrowed
}

func parseConfidence(s string) (diag.Confidence, bool) {
	switch s {
	case "low":
		return diag.Low, true
	case "medium":
		return diag.Medium, true
	case "high":
		return diag.High, true
	default:
		return 0, false
	}
}

// confidenceValue adapts a diag.Confidence field to the pflag.Value
// interface so --suggestion-confidence can bind directly onto it instead
// of needing a separate post-parse resolution step.
type confidenceValue struct{ c *diag.Confidence }

func (v confidenceValue) String() string { return v.c.String() }
func (v confidenceValue) Type() string   { return "confidence" }
func (v confidenceValue) Set(s string) error {
	c, ok := parseConfidence(s)
	if !ok {
		return fmt.Errorf("unknown confidence %q (want low, medium, or high)", s)
	}
	*v.c = c
	return nil
}

// conventionValue adapts the FFI default-convention field to pflag.Value
// the same way, rejecting any name abi doesn't recognize at flag-parse
// time rather than deferring the check to wherever the setting is read.
type conventionValue struct{ s *string }

func (v conventionValue) String() string { return *v.s }
func (v conventionValue) Type() string   { return "convention" }
func (v conventionValue) Set(s string) error {
	if !isRecognizedConvention(s) {
		return fmt.Errorf("unknown FFI convention %q (want %s, %s, or %s)", s, abi.TransferFull, abi.TransferNone, abi.Borrowed)
	}
	*v.s = s
	return nil
}

// BindFlags registers cfg's fields onto fs, the persistent flag set every
// cmd/asthrac subcommand shares. Call this after LoadProjectFile so a
// project file's values become the flags' own defaults, letting a flag
// the user actually types on the command line still take precedence.
func (cfg *Config) BindFlags(fs *pflag.FlagSet) {
	fs.Var(confidenceValue{&cfg.SuggestionConfidence}, "suggestion-confidence", "minimum confidence for fix suggestions shown (low, medium, high)")
	fs.Var(conventionValue{&cfg.FFIDefaultConvention}, "ffi-default-convention", "assumed ownership-transfer annotation for an unannotated extern parameter")
	fs.BoolVar(&cfg.JSONOutput, "json", cfg.JSONOutput, "emit diagnostics as the stable JSON array form instead of colorized text")
	fs.IntVar(&cfg.TargetWordSize, "target-word-size", cfg.TargetWordSize, "target machine word size in bytes")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "print phase-by-phase progress")
	fs.BoolVar(&cfg.Trace, "trace", cfg.Trace, "print one line per declaration as it is lowered")
}

// Load builds a Config the way every cmd/asthrac subcommand does: start
// from Default, layer in projectPath if it exists, then bind the result
// onto fs so pflag.Parse (already called on cmd's own flag set by cobra
// before a command's RunE runs) can override anything the user passed
// explicitly.
func Load(projectPath string, fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()
	if err := LoadProjectFile(projectPath, &cfg); err != nil {
		return nil, err
	}
	cfg.BindFlags(fs)
	return &cfg, nil
}
