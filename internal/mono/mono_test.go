package mono

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthrac/internal/typesys"
)

// box builds `struct Box<T> { value: T }` with one method `get(self) -> T`,
// matching how sema's declaration pass builds a generic struct: a single
// type-parameter placeholder shared between the field and the method type.
func box(a *typesys.Arena) (base typesys.TypeID, typeParamName string) {
	tv := a.NewTypeParameter("T")
	structID := a.NewStruct("Box", []typesys.StructField{{Name: "value", Type: tv}}, 1)
	getType := a.NewFunction([]typesys.TypeID{structID}, tv, false, "")
	a.AttachMethod(structID, "get", getType)
	return structID, "T"
}

func TestRequestMaterializesMethodTableOnFirstOccurrence(t *testing.T) {
	a := typesys.NewArena()
	base, tp := box(a)

	r := New(a)
	m, err := r.Request(base, []string{tp}, []typesys.TypeID{a.Primitive(typesys.I32)})
	require.NoError(t, err)
	require.Contains(t, m.Methods, "get")
	assert.Equal(t, "Box_i32_get", m.Methods["get"].MangledName)

	retType := a.Get(m.Methods["get"].ConcreteType).Return
	assert.True(t, a.Equal(retType, a.Primitive(typesys.I32)))
}

func TestRequestReusesExistingMonomorphByCanonicalName(t *testing.T) {
	a := typesys.NewArena()
	base, tp := box(a)
	r := New(a)

	m1, err := r.Request(base, []string{tp}, []typesys.TypeID{a.Primitive(typesys.I32)})
	require.NoError(t, err)
	m2, err := r.Request(base, []string{tp}, []typesys.TypeID{a.Primitive(typesys.I32)})
	require.NoError(t, err)

	assert.Same(t, m1, m2, "second request for the same canonical name must reuse the first record")
}

func TestRequestProducesDistinctMonomorphsPerTypeArg(t *testing.T) {
	a := typesys.NewArena()
	base, tp := box(a)
	r := New(a)

	_, err := r.Request(base, []string{tp}, []typesys.TypeID{a.Primitive(typesys.I32)})
	require.NoError(t, err)
	_, err = r.Request(base, []string{tp}, []typesys.TypeID{a.Primitive(typesys.Bool)})
	require.NoError(t, err)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Box<bool>", all[0].Canon, "All() must be sorted in canonical-name order")
	assert.Equal(t, "Box<i32>", all[1].Canon)
}

func TestRequestRejectsArityMismatchBetweenTypeParamsAndArgs(t *testing.T) {
	a := typesys.NewArena()
	base, _ := box(a)
	r := New(a)

	_, err := r.Request(base, []string{"T", "U"}, []typesys.TypeID{a.Primitive(typesys.I32)})
	require.Error(t, err)
}

func TestSubstituteRewritesPointerToTypeParameter(t *testing.T) {
	a := typesys.NewArena()
	tv := a.NewTypeParameter("T")
	ptrT := a.NewPointer(tv, true)
	structID := a.NewStruct("Box", []typesys.StructField{{Name: "value", Type: tv}}, 1)
	setType := a.NewFunction([]typesys.TypeID{structID, ptrT}, a.Void(), false, "")
	a.AttachMethod(structID, "set_ptr", setType)

	r := New(a)
	m, err := r.Request(structID, []string{"T"}, []typesys.TypeID{a.Primitive(typesys.I64)})
	require.NoError(t, err)

	paramType := a.Get(m.Methods["set_ptr"].ConcreteType).Params[1]
	paramDesc := a.Get(paramType)
	require.Equal(t, typesys.CatPointer, paramDesc.Category)
	assert.True(t, a.Equal(paramDesc.Elem, a.Primitive(typesys.I64)))
}
