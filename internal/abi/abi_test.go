package abi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeEntryPointMapsPredeclaredNames(t *testing.T) {
	entry, ok := RuntimeEntryPoint("log")
	require.True(t, ok)
	assert.Equal(t, SimpleLog, entry)

	_, ok = RuntimeEntryPoint("not_predeclared")
	assert.False(t, ok)
}

func TestMangleMethodAndInPlace(t *testing.T) {
	assert.Equal(t, "Counter_get", MangleMethod("Counter", "get"))
	assert.Equal(t, "Counter_get_inplace", MangleInPlace("Counter", "get"))
}

func TestMangleGenericFallsBackWithoutTypeArgs(t *testing.T) {
	assert.Equal(t, "Box_get", MangleGeneric("Box", nil, "get"))
	assert.Equal(t, "Box_i32_get", MangleGeneric("Box", []string{"i32"}, "get"))
	assert.Equal(t, "Pair_i32_bool_swap", MangleGeneric("Pair", []string{"i32", "bool"}, "swap"))
}

func TestEnumLayoutOffsetsAndAlignment(t *testing.T) {
	assert.Equal(t, int64(4), PayloadOffset(4), "a 4-byte-aligned payload starts right after the u32 discriminant")
	assert.Equal(t, int64(8), PayloadOffset(8), "an 8-byte-aligned payload must be padded out to offset 8")
	assert.Equal(t, int64(8), AlignEnumSize(5))
	assert.Equal(t, int64(16), AlignEnumSize(9))
}

func TestDefaultFFIAnnotationsRecognizeBuiltins(t *testing.T) {
	f := DefaultFFIAnnotations()
	assert.True(t, f.IsRecognized(TransferFull))
	assert.True(t, f.IsRecognized(Borrowed))
	assert.False(t, f.IsRecognized("something_else"))
}

func TestLoadFFIAnnotationsFallsBackWhenAllowListEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asthra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unrelated: true\n"), 0o644))

	f, err := LoadFFIAnnotations(path)
	require.NoError(t, err)
	assert.True(t, f.IsRecognized(TransferNone))
}

func TestLoadFFIAnnotationsHonorsCustomAllowList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asthra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allow:\n  - transfer_full\n  - zero_copy\n"), 0o644))

	f, err := LoadFFIAnnotations(path)
	require.NoError(t, err)
	assert.True(t, f.IsRecognized("zero_copy"))
	assert.False(t, f.IsRecognized(Borrowed), "a custom allow-list replaces, not extends, the default three")
}
