package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthrac/internal/abi"
	"github.com/asthra-lang/asthrac/internal/diag"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	require.Equal(t, diag.Low, cfg.SuggestionConfidence)
	require.False(t, cfg.JSONOutput)
	require.Equal(t, abi.TransferFull, cfg.FFIDefaultConvention)
	require.Equal(t, 8, cfg.TargetWordSize)
}

func TestLoadProjectFileMissingIsNotAnError(t *testing.T) {
	cfg := Default()
	err := LoadProjectFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"), &cfg)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadProjectFileOverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
suggestion_confidence: high
target_word_size: 4
`), 0o644))

	cfg := Default()
	require.NoError(t, LoadProjectFile(path, &cfg))
	require.Equal(t, diag.High, cfg.SuggestionConfidence)
	require.Equal(t, 4, cfg.TargetWordSize)
	require.Equal(t, abi.TransferFull, cfg.FFIDefaultConvention, "unset keys must not disturb the default")
	require.False(t, cfg.JSONOutput)
}

func TestLoadProjectFileRejectsUnknownConfidence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(`suggestion_confidence: extreme`), 0o644))

	cfg := Default()
	err := LoadProjectFile(path, &cfg)
	require.Error(t, err)
}

func TestLoadProjectFileRejectsUnknownFFIConvention(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(`ffi_default_convention: sometimes`), 0o644))

	cfg := Default()
	err := LoadProjectFile(path, &cfg)
	require.Error(t, err)
}

func TestBindFlagsDefaultsFromProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(`json_output: true`), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg, err := Load(path, fs)
	require.NoError(t, err)
	require.True(t, cfg.JSONOutput, "a project file's value must become the flag's own default")
}

func TestFlagOverridesProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(`suggestion_confidence: high`), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg, err := Load(path, fs)
	require.NoError(t, err)
	require.NoError(t, fs.Parse([]string{"--suggestion-confidence=low"}))
	require.Equal(t, diag.Low, cfg.SuggestionConfidence, "a flag the user typed must win over the project file")
}

func TestConfidenceValueRejectsUnknown(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := Default()
	cfg.BindFlags(fs)
	err := fs.Parse([]string{"--suggestion-confidence=extreme"})
	require.Error(t, err)
}
