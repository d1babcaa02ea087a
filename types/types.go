// Package types holds the descriptor and value models of the dop wire format.
//
// A Type describes how a value is encoded. Values are plain Go values:
//
//	String   string
//	Binary   []byte
//	Bool     bool
//	Float32  float32
//	Float64  float64
//	Int8     int8      UInt8   uint8
//	Int16    int16     UInt16  uint16
//	Int32    int32     UInt32  uint32
//	Int64    int64
//	List     []any
//	Map      Map
//	Struct   *Struct   (nil is an absent struct field)
package types

import (
	"fmt"
)

// Kind is the type tag written to the wire for a Type.
type Kind uint8

// Type tags.
// Integer tags are (size/sign nibble)<<4 | 0x2; there is no unsigned 64-bit integer.
const (
	KindString  Kind = 1
	KindFloat32 Kind = 3
	KindBinary  Kind = 4
	KindList    Kind = 5
	KindStruct  Kind = 6
	KindMap     Kind = 7
	KindFloat64 Kind = 8
	KindBool    Kind = 9

	KindInt8   Kind = 0x12
	KindUInt8  Kind = 0x92
	KindInt16  Kind = 0x22
	KindUInt16 Kind = 0xa2
	KindInt32  Kind = 0x42
	KindUInt32 Kind = 0xc2
	KindInt64  Kind = 0x82
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindFloat32: "float32",
	KindBinary:  "binary",
	KindList:    "list",
	KindStruct:  "struct",
	KindMap:     "map",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindUInt8:   "uint8",
	KindInt16:   "int16",
	KindUInt16:  "uint16",
	KindInt32:   "int32",
	KindUInt32:  "uint32",
	KindInt64:   "int64",
}

// Valid reports whether k is a known type tag.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%#x)", uint8(k))
}

// Scalar reports whether k carries no nested descriptor.
func (k Kind) Scalar() bool {
	switch k {
	case KindList, KindMap, KindStruct:
		return false
	}
	return k.Valid()
}

// Integer reports whether k is one of the fixed-width integer kinds.
func (k Kind) Integer() bool {
	return k&0x0f == 0x2 && k.Valid()
}

// Signed reports whether k is a signed integer kind.
// KindInt64 has the high bit set like the unsigned kinds, but is signed.
func (k Kind) Signed() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// Size returns the encoded size of fixed-width kinds, and 0 for the rest.
func (k Kind) Size() int {
	switch k {
	case KindBool, KindInt8, KindUInt8:
		return 1
	case KindInt16, KindUInt16:
		return 2
	case KindInt32, KindUInt32, KindFloat32:
		return 4
	case KindInt64, KindFloat64:
		return 8
	}
	return 0
}

// Type describes how a value is encoded.
// A Type must not be modified after it is handed to an Encoder.
type Type struct {
	Kind Kind

	// Key is the key type of a map.
	Key *Type

	// Elem is the element type of a list, or the value type of a map.
	Elem *Type

	// Fields are the fields of a struct, in encoding order.
	Fields []Field
}

// Field is a named member of a struct Type.
type Field struct {
	Name string
	Type *Type
}

// Scalar types.
var (
	String  = &Type{Kind: KindString}
	Binary  = &Type{Kind: KindBinary}
	Bool    = &Type{Kind: KindBool}
	Float32 = &Type{Kind: KindFloat32}
	Float64 = &Type{Kind: KindFloat64}
	Int8    = &Type{Kind: KindInt8}
	UInt8   = &Type{Kind: KindUInt8}
	Int16   = &Type{Kind: KindInt16}
	UInt16  = &Type{Kind: KindUInt16}
	Int32   = &Type{Kind: KindInt32}
	UInt32  = &Type{Kind: KindUInt32}
	Int64   = &Type{Kind: KindInt64}
)

// ScalarOf returns the Type for a scalar kind.
// It panics if k is not a scalar kind.
func ScalarOf(k Kind) *Type {
	if !k.Scalar() {
		panic(fmt.Errorf("%v is not a scalar kind", k))
	}
	return &Type{Kind: k}
}

// ListOf returns a list Type with the given element type.
func ListOf(elem *Type) *Type {
	if elem == nil {
		panic("nil list element type")
	}
	return &Type{Kind: KindList, Elem: elem}
}

// MapOf returns a map Type with the given key and value types.
func MapOf(key, elem *Type) *Type {
	if key == nil || elem == nil {
		panic("nil map key or value type")
	}
	return &Type{Kind: KindMap, Key: key, Elem: elem}
}

// StructOf returns a struct Type with the given fields.
func StructOf(fields ...Field) *Type {
	for _, f := range fields {
		if f.Type == nil {
			panic(fmt.Errorf("nil type for struct field %q", f.Name))
		}
	}
	return &Type{Kind: KindStruct, Fields: fields}
}

// F is shorthand for a Field.
func F(name string, ty *Type) Field {
	return Field{Name: name, Type: ty}
}

// Field returns the named field of a struct Type.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Equal reports whether t and u describe the same encoding.
func (t *Type) Equal(u *Type) bool {
	if t == u {
		return true
	}
	if t == nil || u == nil || t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case KindList:
		return t.Elem.Equal(u.Elem)
	case KindMap:
		return t.Key.Equal(u.Key) && t.Elem.Equal(u.Elem)
	case KindStruct:
		if len(t.Fields) != len(u.Fields) {
			return false
		}
		for i := range t.Fields {
			if t.Fields[i].Name != u.Fields[i].Name || !t.Fields[i].Type.Equal(u.Fields[i].Type) {
				return false
			}
		}
	}
	return true
}
