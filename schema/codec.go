package schema

import (
	"fmt"

	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/gram"
	"github.com/stewi1014/dop/types"
)

// Encode writes the fields of the root struct to g, without a length prefix.
func (s *Schema) Encode(g *gram.Gram) {
	s.encodeFields(g, s.root)
}

// Bytes returns the schema blob.
func (s *Schema) Bytes() []byte {
	g := gram.New()
	defer g.Close()
	s.Encode(g)
	return append([]byte{}, g.Bytes()...)
}

func (s *Schema) encodeFields(g *gram.Gram, r Ref) {
	for _, f := range s.nodes[r].fields {
		g.WriteString(f.Name)
		s.encodeNode(g, f.Ref)
	}
}

func (s *Schema) encodeNode(g *gram.Gram, r Ref) {
	n := &s.nodes[r]
	g.WriteUint8(uint8(n.kind))

	switch n.kind {
	case types.KindList:
		s.encodeNode(g, n.elem)
	case types.KindMap:
		s.encodeNode(g, n.key)
		s.encodeNode(g, n.elem)
	case types.KindStruct:
		sub := g.Sub()
		s.encodeFields(sub, r)
		g.Join(sub)
		sub.Close()
	}
}

// Parse reads a schema blob filling g.
// Errors are latched on g, and the fields parsed before the error are returned.
// Nesting deeper than maxDepth is an ErrData; maxDepth <= 0 uses DefaultMaxDepth.
//
// A field name that appears twice keeps its first position and takes the later descriptor.
func Parse(g *gram.Gram, maxDepth int) *Schema {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	s := &Schema{}
	s.root = s.add(node{
		kind:   types.KindStruct,
		key:    NoRef,
		elem:   NoRef,
		fields: s.parseFields(g, maxDepth),
	})
	return s
}

// Decode parses a schema blob.
func Decode(blob []byte, maxDepth int) (*Schema, error) {
	g := gram.FromBytes(blob)
	s := Parse(g, maxDepth)
	return s, g.Err()
}

func (s *Schema) parseFields(g *gram.Gram, depth int) []Field {
	fields := []Field{}
	for g.Err() == nil && g.Len() > 0 {
		name := g.ReadString()
		ref := s.parseNode(g, depth)
		if g.Err() != nil {
			break
		}

		dup := false
		for i := range fields {
			if fields[i].Name == name {
				fields[i].Ref = ref
				dup = true
				break
			}
		}
		if !dup {
			fields = append(fields, Field{Name: name, Ref: ref})
		}
	}
	return fields
}

func (s *Schema) parseNode(g *gram.Gram, depth int) Ref {
	if depth <= 0 {
		g.Fail(encio.NewError(encio.ErrData, "schema nesting is too deep", "schema.Parse"))
		return NoRef
	}

	kind := types.Kind(g.ReadUint8())
	if g.Err() != nil {
		return NoRef
	}

	n := node{kind: kind, key: NoRef, elem: NoRef}
	switch kind {
	case types.KindList:
		n.elem = s.parseNode(g, depth-1)

	case types.KindMap:
		n.key = s.parseNode(g, depth-1)
		if g.Err() != nil {
			return NoRef
		}
		n.elem = s.parseNode(g, depth-1)

	case types.KindStruct:
		sub := g.ReadSub()
		n.fields = s.parseFields(sub, depth-1)
		if err := sub.Err(); err != nil {
			g.Fail(err)
		}

	default:
		if !kind.Valid() {
			g.Fail(encio.NewError(encio.ErrData, fmt.Sprintf("unknown type tag 0x%x", uint8(kind)), "schema.Parse"))
		}
	}

	if g.Err() != nil {
		return NoRef
	}
	return s.add(n)
}
