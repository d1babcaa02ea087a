// Package schema holds the descriptor tree of a dop message as an arena of nodes,
// and reads and writes the schema blob that describes it.
//
// A schema blob is a sequence of (field name, descriptor) pairs that fills the blob.
// A descriptor is a one byte kind, followed by the element descriptor for lists,
// the key and value descriptors for maps, and a length-prefixed nested schema blob for structs.
package schema

import (
	"fmt"

	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/types"
)

// DefaultMaxDepth is the nesting limit used when none is given.
const DefaultMaxDepth = 64

// Ref references a node in a Schema.
type Ref int32

// NoRef is the Ref of a missing node.
const NoRef Ref = -1

// Field is a named field of a struct node.
type Field struct {
	Name string
	Ref  Ref
}

type node struct {
	kind    types.Kind
	key     Ref
	elem    Ref
	fields  []Field
	minSize int
}

// Schema is an immutable descriptor tree.
// Nodes reference their children by Ref, and children always come before their parents.
type Schema struct {
	nodes []node
	root  Ref
}

// Root returns the root struct node.
func (s *Schema) Root() Ref {
	return s.root
}

// Len returns the number of nodes.
func (s *Schema) Len() int {
	return len(s.nodes)
}

// Kind returns the kind of r.
func (s *Schema) Kind(r Ref) types.Kind {
	return s.nodes[r].kind
}

// Key returns the key node of map r, or NoRef.
func (s *Schema) Key(r Ref) Ref {
	return s.nodes[r].key
}

// Elem returns the element node of list r, the value node of map r, or NoRef.
func (s *Schema) Elem(r Ref) Ref {
	return s.nodes[r].elem
}

// Fields returns the fields of struct r in encoding order. The slice must not be modified.
func (s *Schema) Fields(r Ref) []Field {
	return s.nodes[r].fields
}

// MinSize returns the fewest bytes a value of r can encode to, when it is not a named struct field.
func (s *Schema) MinSize(r Ref) int {
	return s.nodes[r].minSize
}

// Type returns the descriptor tree as a *types.Type.
func (s *Schema) Type() *types.Type {
	return s.TypeAt(s.root)
}

// TypeAt returns the descriptor of r as a *types.Type.
func (s *Schema) TypeAt(r Ref) *types.Type {
	n := &s.nodes[r]
	switch n.kind {
	case types.KindList:
		return types.ListOf(s.TypeAt(n.elem))
	case types.KindMap:
		return types.MapOf(s.TypeAt(n.key), s.TypeAt(n.elem))
	case types.KindStruct:
		t := &types.Type{Kind: types.KindStruct, Fields: make([]types.Field, len(n.fields))}
		for i, f := range n.fields {
			t.Fields[i] = types.Field{Name: f.Name, Type: s.TypeAt(f.Ref)}
		}
		return t
	}
	return types.ScalarOf(n.kind)
}

// String implements fmt.Stringer.
func (s *Schema) String() string {
	return s.Type().String()
}

// add appends n, filling in its minimum size from its children.
func (s *Schema) add(n node) Ref {
	switch n.kind {
	case types.KindString, types.KindBinary, types.KindList, types.KindMap:
		n.minSize = 1
	case types.KindStruct:
		for _, f := range n.fields {
			if s.nodes[f.Ref].kind == types.KindStruct {
				n.minSize++
			} else {
				n.minSize += s.nodes[f.Ref].minSize
			}
		}
	default:
		n.minSize = n.kind.Size()
	}

	s.nodes = append(s.nodes, n)
	return Ref(len(s.nodes) - 1)
}

// FromType builds a Schema from t, which must be a struct type.
// Nesting deeper than maxDepth is an error; maxDepth <= 0 uses DefaultMaxDepth.
func FromType(t *types.Type, maxDepth int) (*Schema, error) {
	if t == nil || t.Kind != types.KindStruct {
		return nil, encio.NewError(encio.ErrBadType, fmt.Sprintf("schema root must be a struct, not %v", t), "schema.FromType")
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	s := &Schema{}
	root, err := s.fromType(t, maxDepth)
	if err != nil {
		return nil, err
	}
	s.root = root
	return s, nil
}

// MustFromType is like FromType but panics on error.
func MustFromType(t *types.Type) *Schema {
	s, err := FromType(t, 0)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) fromType(t *types.Type, depth int) (Ref, error) {
	if depth <= 0 {
		return NoRef, encio.NewError(encio.ErrBadType, "type nesting is too deep", "schema.FromType")
	}

	n := node{kind: t.Kind, key: NoRef, elem: NoRef}
	var err error

	switch t.Kind {
	case types.KindList:
		if t.Elem == nil {
			return NoRef, encio.NewError(encio.ErrBadType, "list has no element type", "schema.FromType")
		}
		if n.elem, err = s.fromType(t.Elem, depth-1); err != nil {
			return NoRef, err
		}

	case types.KindMap:
		if t.Key == nil || t.Elem == nil {
			return NoRef, encio.NewError(encio.ErrBadType, "map has no key or value type", "schema.FromType")
		}
		if n.key, err = s.fromType(t.Key, depth-1); err != nil {
			return NoRef, err
		}
		if n.elem, err = s.fromType(t.Elem, depth-1); err != nil {
			return NoRef, err
		}

	case types.KindStruct:
		n.fields = make([]Field, 0, len(t.Fields))
		for i, f := range t.Fields {
			if f.Type == nil {
				return NoRef, encio.NewError(encio.ErrBadType, fmt.Sprintf("field %q has no type", f.Name), "schema.FromType")
			}
			for _, prev := range t.Fields[:i] {
				if prev.Name == f.Name {
					return NoRef, encio.NewError(encio.ErrBadType, fmt.Sprintf("duplicate field %q", f.Name), "schema.FromType")
				}
			}
			ref, err := s.fromType(f.Type, depth-1)
			if err != nil {
				return NoRef, err
			}
			n.fields = append(n.fields, Field{Name: f.Name, Ref: ref})
		}

	default:
		if !t.Kind.Valid() {
			return NoRef, encio.NewError(encio.ErrBadType, fmt.Sprintf("unknown kind %v", t.Kind), "schema.FromType")
		}
	}

	return s.add(n), nil
}
