// Package typesys is the Asthra type universe: an arena of TypeDescriptor
// values referenced by TypeID handles, structural equality and
// assignability rules, FFI-compatibility checks, and generic instantiation.
//
// The arena replaces the source implementation's atomic-refcounted
// descriptors (see SPEC_FULL.md Design Notes): every descriptor created
// during one compilation lives in the same Arena and is never freed
// individually, so retain/release bookkeeping disappears entirely. Callers
// compare types with Arena.Equal, never with Go's `==` on TypeID
// (constructors such as NewPointer and NewTuple allocate a fresh TypeID on
// every call, so two structurally equal types can have different TypeIDs).
package typesys

import "fmt"

// Category is the tag discriminating a TypeDescriptor's payload.
type Category int

const (
	CatPrimitive Category = iota
	CatPointer
	CatSlice
	CatArray
	CatTuple
	CatStruct
	CatEnum
	CatFunction
	CatGenericInstance
	CatResult
	CatTypeParameter
	CatUnknown
	CatVoid
	CatBuiltin
)

func (c Category) String() string {
	switch c {
	case CatPrimitive:
		return "Primitive"
	case CatPointer:
		return "Pointer"
	case CatSlice:
		return "Slice"
	case CatArray:
		return "Array"
	case CatTuple:
		return "Tuple"
	case CatStruct:
		return "Struct"
	case CatEnum:
		return "Enum"
	case CatFunction:
		return "Function"
	case CatGenericInstance:
		return "GenericInstance"
	case CatResult:
		return "Result"
	case CatTypeParameter:
		return "TypeParameter"
	case CatVoid:
		return "Void"
	case CatBuiltin:
		return "Builtin"
	default:
		return "Unknown"
	}
}

// PrimitiveKind enumerates the built-in scalar types.
type PrimitiveKind int

const (
	I8 PrimitiveKind = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	ISize
	USize
	F32
	F64
	Bool
	Char
	StringKind
	VoidKind
)

var primitiveNames = map[PrimitiveKind]string{
	I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	ISize: "isize", USize: "usize", F32: "f32", F64: "f64",
	Bool: "bool", Char: "char", StringKind: "string", VoidKind: "void",
}

func (k PrimitiveKind) String() string { return primitiveNames[k] }

// primitiveLayout gives the size and alignment, in bytes, of each
// primitive. string is a fat pointer {ptr, len}: 16 bytes, 8-byte aligned.
var primitiveLayout = map[PrimitiveKind][2]int64{
	I8: {1, 1}, I16: {2, 2}, I32: {4, 4}, I64: {8, 8},
	U8: {1, 1}, U16: {2, 2}, U32: {4, 4}, U64: {8, 8},
	ISize: {8, 8}, USize: {8, 8}, F32: {4, 4}, F64: {8, 8},
	Bool: {1, 1}, Char: {4, 4}, StringKind: {16, 8}, VoidKind: {0, 1},
}

func isInteger(k PrimitiveKind) bool {
	switch k {
	case I8, I16, I32, I64, U8, U16, U32, U64, ISize, USize:
		return true
	}
	return false
}

func isUnsigned(k PrimitiveKind) bool {
	switch k {
	case U8, U16, U32, U64, USize:
		return true
	}
	return false
}

func isFloat(k PrimitiveKind) bool { return k == F32 || k == F64 }

// IsInteger reports whether k is one of the signed/unsigned integer kinds.
func IsInteger(k PrimitiveKind) bool { return isInteger(k) }

// IsFloat reports whether k is f32 or f64.
func IsFloat(k PrimitiveKind) bool { return isFloat(k) }

// IsNumeric reports whether k is an integer or floating-point kind.
func IsNumeric(k PrimitiveKind) bool { return isInteger(k) || isFloat(k) }

// IsUnsigned reports whether k is one of the unsigned integer kinds.
func IsUnsigned(k PrimitiveKind) bool { return isUnsigned(k) }

// integerWidth orders integer kinds by bit width within their signedness
// family, used by is_assignable's "wider primitive" rule.
var integerWidth = map[PrimitiveKind]int{
	I8: 8, I16: 16, I32: 32, I64: 64, ISize: 64,
	U8: 8, U16: 16, U32: 32, U64: 64, USize: 64,
}

// TypeID is an index into an Arena. NoType (-1) never denotes a valid
// type; the zero value is an ordinary index into the arena.
type TypeID int

const NoType TypeID = -1

// StructField is one field of a Struct descriptor.
type StructField struct {
	Name string
	Type TypeID
}

// EnumVariant is one variant of an Enum descriptor.
type EnumVariant struct {
	Name          string
	AssocType     TypeID // NoType if the variant carries no data
	Discriminant  uint32
}

// TypeDescriptor is one entry in the Arena. Only the fields relevant to its
// Category are meaningful; see the Category-specific payload table in
// SPEC_FULL.md §3.1.
type TypeDescriptor struct {
	Category Category

	// Primitive
	Prim PrimitiveKind

	// Pointer / Slice
	Elem    TypeID
	Mutable bool

	// Array
	Length int64

	// Tuple
	Elements []TypeID

	// Struct
	Name       string
	Fields     []StructField
	Methods    map[string]TypeID // method name -> Function TypeID
	TypeParamN int               // number of generic parameters, 0 if non-generic

	// Enum
	Variants   []EnumVariant
	variantIdx map[string]int

	// Function
	Params     []TypeID
	Return     TypeID
	Extern     bool
	ExternName string

	// GenericInstance
	Base     TypeID
	TypeArgs []TypeID
	Canon    string // canonical name "Base<A, B>"

	// Result
	Ok  TypeID
	Err TypeID

	// TypeParameter
	ParamName string

	size  int64
	align int64
}

// Arena owns every TypeDescriptor created during one compilation.
type Arena struct {
	descs []TypeDescriptor
	// instanceCache (generic instances) and resultCache (Result types)
	// hash-cons by canonical name so repeated construction returns the same
	// TypeID; other composites are not cached, and Equal() never depends on this.
	instanceCache map[string]TypeID
	resultCache   map[string]TypeID

	// primCache avoids re-allocating the 16 primitive descriptors.
	primCache map[PrimitiveKind]TypeID

	voidID    TypeID
	unknownID TypeID
}

// NewArena creates an arena pre-populated with every primitive and the
// Unknown/Void escape hatches.
func NewArena() *Arena {
	a := &Arena{instanceCache: map[string]TypeID{}, resultCache: map[string]TypeID{}, primCache: map[PrimitiveKind]TypeID{}}
	for k := range primitiveNames {
		a.primCache[k] = a.alloc(TypeDescriptor{Category: CatPrimitive, Prim: k})
	}
	a.unknownID = a.alloc(TypeDescriptor{Category: CatUnknown})
	a.voidID = a.alloc(TypeDescriptor{Category: CatVoid})
	return a
}

func (a *Arena) alloc(d TypeDescriptor) TypeID {
	a.setLayout(&d)
	a.descs = append(a.descs, d)
	return TypeID(len(a.descs) - 1)
}

// Get returns the descriptor for id. Panics on an out-of-range id, which
// indicates an analyzer bug (a dangling TypeID), not a user error.
func (a *Arena) Get(id TypeID) *TypeDescriptor {
	if id < 0 || int(id) >= len(a.descs) {
		panic(fmt.Sprintf("typesys: invalid TypeID %d", id))
	}
	return &a.descs[id]
}

// Primitive returns the arena-owned TypeID for a primitive kind.
func (a *Arena) Primitive(k PrimitiveKind) TypeID { return a.primCache[k] }

// Void and Unknown are the escape-hatch categories used during analysis.
func (a *Arena) Void() TypeID    { return a.voidID }
func (a *Arena) Unknown() TypeID { return a.unknownID }

func (a *Arena) setLayout(d *TypeDescriptor) {
	switch d.Category {
	case CatPrimitive:
		layout := primitiveLayout[d.Prim]
		d.size, d.align = layout[0], layout[1]
	case CatUnknown, CatVoid, CatBuiltin, CatTypeParameter:
		d.size, d.align = 0, 1
	case CatPointer:
		d.size, d.align = 8, 8
	case CatSlice:
		d.size, d.align = 16, 8 // {ptr, len}
	case CatArray:
		elem := a.Get(d.Elem)
		d.size = elem.size * d.Length
		d.align = elem.align
	case CatTuple:
		d.size, d.align = a.layoutSequential(d.Elements)
	case CatStruct:
		ids := make([]TypeID, len(d.Fields))
		for i, f := range d.Fields {
			ids[i] = f.Type
		}
		d.size, d.align = a.layoutSequential(ids)
	case CatEnum:
		maxPayload, maxAlign := int64(0), int64(4)
		for _, v := range d.Variants {
			if v.AssocType == NoType {
				continue
			}
			pt := a.Get(v.AssocType)
			if pt.size > maxPayload {
				maxPayload = pt.size
			}
			if pt.align > maxAlign {
				maxAlign = pt.align
			}
		}
		// { u32 discriminant; payload } aligned to 8, per §6.
		d.align = 8
		d.size = alignUp(4+maxPayload, 8)
	case CatFunction:
		d.size, d.align = 8, 8 // a function value is a code pointer
	case CatGenericInstance:
		base := a.Get(d.Base)
		d.size, d.align = base.size, base.align
	case CatResult:
		okT, errT := a.Get(d.Ok), a.Get(d.Err)
		payload := okT.size
		if errT.size > payload {
			payload = errT.size
		}
		align := okT.align
		if errT.align > align {
			align = errT.align
		}
		if align < 8 {
			align = 8
		}
		d.align = align
		d.size = alignUp(4+payload, align)
	}
}

func (a *Arena) layoutSequential(ids []TypeID) (size, align int64) {
	align = 1
	offset := int64(0)
	for _, id := range ids {
		desc := a.Get(id)
		if desc.align > align {
			align = desc.align
		}
		offset = alignUp(offset, desc.align)
		offset += desc.size
	}
	return alignUp(offset, align), align
}

func alignUp(n, align int64) int64 {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

// Size and Align expose a descriptor's computed layout.
func (a *Arena) Size(id TypeID) int64  { return a.Get(id).size }
func (a *Arena) Align(id TypeID) int64 { return a.Get(id).align }

// FieldOffsets returns the byte offset of each field in a Struct or Tuple
// descriptor, used by codegen to emit `load [base+off]`.
func (a *Arena) FieldOffsets(id TypeID) []int64 {
	d := a.Get(id)
	var elemIDs []TypeID
	switch d.Category {
	case CatTuple:
		elemIDs = d.Elements
	case CatStruct:
		elemIDs = make([]TypeID, len(d.Fields))
		for i, f := range d.Fields {
			elemIDs[i] = f.Type
		}
	default:
		return nil
	}
	offsets := make([]int64, len(elemIDs))
	offset := int64(0)
	for i, eid := range elemIDs {
		desc := a.Get(eid)
		offset = alignUp(offset, desc.align)
		offsets[i] = offset
		offset += desc.size
	}
	return offsets
}
