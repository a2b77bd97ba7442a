package typesys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimitiveLayout(t *testing.T) {
	a := NewArena()
	i32 := a.Primitive(I32)
	require.Equal(t, int64(4), a.Size(i32))
	require.Equal(t, int64(4), a.Align(i32))
}

func TestArrayRejectsZeroLength(t *testing.T) {
	a := NewArena()
	_, err := a.NewArray(a.Primitive(I32), 0)
	require.Error(t, err)
}

func TestArraySizeIsElementTimesLength(t *testing.T) {
	a := NewArena()
	arr, err := a.NewArray(a.Primitive(I32), 4)
	require.NoError(t, err)
	require.Equal(t, int64(16), a.Size(arr))
}

func TestTupleRejectsArityBelowTwo(t *testing.T) {
	a := NewArena()
	_, err := a.NewTuple([]TypeID{a.Primitive(I32)})
	require.Error(t, err)
}

func TestEqualityIsReflexiveSymmetricTransitive(t *testing.T) {
	a := NewArena()
	x := a.Primitive(I32)
	y := a.Primitive(I32)
	z := a.Primitive(I32)
	require.True(t, a.Equal(x, x))
	require.Equal(t, a.Equal(x, y), a.Equal(y, x))
	require.True(t, a.Equal(x, y) && a.Equal(y, z) && a.Equal(x, z))
}

func TestStructEqualityIsNominal(t *testing.T) {
	a := NewArena()
	s1 := a.NewStruct("Point", []StructField{{Name: "x", Type: a.Primitive(I32)}}, 0)
	s2 := a.NewStruct("Point", []StructField{{Name: "x", Type: a.Primitive(I32)}, {Name: "y", Type: a.Primitive(I32)}}, 0)
	// Same name => equal, regardless of field list (nominal typing).
	require.True(t, a.Equal(s1, s2))
}

func TestGenericInstanceDeterministicCanonicalName(t *testing.T) {
	a := NewArena()
	base := a.NewStruct("Vec", nil, 1)
	inst1, err := a.Instantiate(base, []TypeID{a.Primitive(I32)})
	require.NoError(t, err)
	inst2, err := a.Instantiate(base, []TypeID{a.Primitive(I32)})
	require.NoError(t, err)
	require.Equal(t, a.Name(inst1), a.Name(inst2))
	require.True(t, a.Equal(inst1, inst2))
	require.Equal(t, "Vec<i32>", a.Name(inst1))
}

func TestInstantiateRejectsArityMismatch(t *testing.T) {
	a := NewArena()
	base := a.NewStruct("Pair", nil, 2)
	_, err := a.Instantiate(base, []TypeID{a.Primitive(I32)})
	require.Error(t, err)
}

func TestInstantiateRejectsNonStructEnumBase(t *testing.T) {
	a := NewArena()
	_, err := a.Instantiate(a.Primitive(I32), []TypeID{a.Primitive(I32)})
	require.Error(t, err)
}

func TestIsAssignableLiteralWidening(t *testing.T) {
	a := NewArena()
	require.True(t, a.IsAssignable(a.Primitive(I32), a.Primitive(I64), true))
	require.False(t, a.IsAssignable(a.Primitive(I64), a.Primitive(I32), false))
}

func TestIsAssignableNeverConvertsFloatIntImplicitly(t *testing.T) {
	a := NewArena()
	require.False(t, a.IsAssignable(a.Primitive(I32), a.Primitive(F64), true))
}

func TestIsFFICompatible(t *testing.T) {
	a := NewArena()
	require.True(t, a.IsFFICompatible(a.Primitive(I32)))
	require.False(t, a.IsFFICompatible(a.Primitive(StringKind)))

	okT, errT := a.Primitive(I32), a.Primitive(StringKind)
	result := a.NewResult(okT, errT)
	require.False(t, a.IsFFICompatible(result))

	ptr := a.NewPointer(a.Primitive(I32), false)
	require.True(t, a.IsFFICompatible(ptr))

	sliceT := a.NewSlice(a.Primitive(I32), false)
	require.False(t, a.IsFFICompatible(sliceT))
}

func TestFNV1aIsStable(t *testing.T) {
	h1 := FNV1a32("Some")
	h2 := FNV1a32("Some")
	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, FNV1a32("None"))
}

func TestBuiltinOptionResultDiscriminants(t *testing.T) {
	a := NewArena()
	b := RegisterBuiltins(a)
	some, ok := a.VariantByName(b.OptionBase, "Some")
	require.True(t, ok)
	require.Equal(t, uint32(0), some.Discriminant)
	none, ok := a.VariantByName(b.OptionBase, "None")
	require.True(t, ok)
	require.Equal(t, uint32(1), none.Discriminant)

	okVariant, ok := a.VariantByName(b.ResultBase, "Ok")
	require.True(t, ok)
	require.Equal(t, uint32(0), okVariant.Discriminant)
	errVariant, ok := a.VariantByName(b.ResultBase, "Err")
	require.True(t, ok)
	require.Equal(t, uint32(1), errVariant.Discriminant)
}
