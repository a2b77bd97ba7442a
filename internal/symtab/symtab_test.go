package symtab

import (
	"testing"

	"github.com/asthra-lang/asthrac/internal/typesys"
	"github.com/stretchr/testify/require"
)

func TestPredeclaredNamesLiveAtRoot(t *testing.T) {
	root := NewRoot()
	sym, ok := root.LookupLocal("len")
	require.True(t, ok)
	require.Equal(t, KindPredeclared, sym.Kind)
}

func TestPredeclaredNameMayBeShadowed(t *testing.T) {
	root := NewRoot()
	fn := root.Push()
	err := fn.InsertSafe(Symbol{Name: "len", Kind: KindVariable, Type: typesys.NoType})
	require.NoError(t, err)
	sym, ok := fn.LookupSafe("len")
	require.True(t, ok)
	require.Equal(t, KindVariable, sym.Kind)
}

func TestPredeclaredNameMayBeShadowedInSameScope(t *testing.T) {
	root := NewRoot()
	err := root.InsertSafe(Symbol{Name: "log", Kind: KindFunction, Type: typesys.NoType})
	require.NoError(t, err)
	sym, ok := root.LookupLocal("log")
	require.True(t, ok)
	require.Equal(t, KindFunction, sym.Kind)
}

func TestInsertSafeRejectsDuplicateInSameScope(t *testing.T) {
	root := NewRoot()
	scope := root.Push()
	require.NoError(t, scope.InsertSafe(Symbol{Name: "x", Kind: KindVariable}))
	err := scope.InsertSafe(Symbol{Name: "x", Kind: KindVariable})
	require.Error(t, err)
	var dupErr *DuplicateSymbolError
	require.ErrorAs(t, err, &dupErr)
}

func TestLookupLocalDoesNotWalkParent(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.InsertSafe(Symbol{Name: "outer", Kind: KindVariable}))
	child := root.Push()
	_, ok := child.LookupLocal("outer")
	require.False(t, ok)
	_, ok = child.LookupSafe("outer")
	require.True(t, ok)
}

func TestLookupSafeWalksParentChain(t *testing.T) {
	root := NewRoot()
	fn := root.Push()
	block := fn.Push()
	require.NoError(t, fn.InsertSafe(Symbol{Name: "a", Kind: KindVariable}))
	sym, ok := block.LookupSafe("a")
	require.True(t, ok)
	require.Equal(t, KindVariable, sym.Kind)
}

func TestEnumVariantQualifiedNeverConflictsAcrossEnums(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.InsertEnumVariant("Shape", "Circle", typesys.NoType))
	require.NoError(t, root.InsertEnumVariant("Status", "Circle", typesys.NoType))

	_, ok := root.LookupLocal("Shape.Circle")
	require.True(t, ok)
	_, ok = root.LookupLocal("Status.Circle")
	require.True(t, ok)
}

func TestEnumVariantUnqualifiedFallbackIsFirstWriterWins(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.InsertEnumVariant("Shape", "Circle", typesys.NoType))
	require.NoError(t, root.InsertEnumVariant("Status", "Circle", typesys.NoType))

	sym, ok := root.LookupLocal("Circle")
	require.True(t, ok)
	require.Equal(t, "Shape", sym.EnumName)
}

func TestEnumVariantDuplicateWithinSameEnumErrors(t *testing.T) {
	root := NewRoot()
	require.NoError(t, root.InsertEnumVariant("Shape", "Circle", typesys.NoType))
	err := root.InsertEnumVariant("Shape", "Circle", typesys.NoType)
	require.Error(t, err)
}
