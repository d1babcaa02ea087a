// Package encode reads and writes dop data blobs.
//
// An Encodable is built for each node of a schema.Schema, and walks values in the node's field order.
// Encoding returns an error for values that don't fit the schema.
// Decoding latches errors on the gram.Gram and returns whatever was read before the error.
package encode

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/gram"
	"github.com/stewi1014/dop/schema"
	"github.com/stewi1014/dop/types"
)

// PresentFlag precedes a struct that is the value of a named field.
// Any other flag byte means the field is null, and no struct follows.
const PresentFlag = 0xff

// AbsentFlag is the flag written for a null struct field.
const AbsentFlag = 0x00

// MaxZeroSizeElems is the largest count accepted for a list or map whose elements encode to no bytes.
const MaxZeroSizeElems = 1 << 16

// Encodable is an encoder and decoder for one schema node.
type Encodable interface {
	// Size returns the fewest bytes a value encodes to.
	Size() int

	// Kind returns the kind of values this Encodable handles.
	Kind() types.Kind

	// Encode writes v to g.
	Encode(g *gram.Gram, v interface{}) error

	// Decode reads a value from g.
	// It returns the zero value, or a partial value, when g has errored.
	Decode(g *gram.Gram) interface{}
}

// New returns the Encodable for the root struct of s.
// log receives debug events such as overwritten map keys; if nil, encio.Log is used.
func New(s *schema.Schema, log *zerolog.Logger) *Struct {
	if log == nil {
		log = &encio.Log
	}
	b := builder{
		s:     s,
		log:   log,
		built: make(map[schema.Ref]Encodable, s.Len()),
	}
	return b.build(s.Root()).(*Struct)
}

// WriteStruct encodes v as the root struct of s.
func WriteStruct(g *gram.Gram, s *schema.Schema, v *types.Struct) error {
	return New(s, nil).Encode(g, v)
}

// ReadStruct decodes the root struct of s.
// Errors are latched on g.
func ReadStruct(g *gram.Gram, s *schema.Schema) *types.Struct {
	return New(s, nil).Decode(g).(*types.Struct)
}

type builder struct {
	s     *schema.Schema
	log   *zerolog.Logger
	built map[schema.Ref]Encodable
}

func (b *builder) build(r schema.Ref) Encodable {
	if e, ok := b.built[r]; ok {
		return e
	}

	var e Encodable
	switch kind := b.s.Kind(r); kind {
	case types.KindString:
		e = String{}
	case types.KindBinary:
		e = Binary{}
	case types.KindBool:
		e = Bool{}
	case types.KindFloat32:
		e = Float32{}
	case types.KindFloat64:
		e = Float64{}
	case types.KindList:
		e = NewList(b.build(b.s.Elem(r)))
	case types.KindMap:
		e = NewMap(b.build(b.s.Key(r)), b.build(b.s.Elem(r)), b.log)
	case types.KindStruct:
		fields := b.s.Fields(r)
		st := &Struct{fields: make([]structField, len(fields))}
		for i, f := range fields {
			st.fields[i] = structField{name: f.Name, enc: b.build(f.Ref)}
		}
		e = st
	default:
		e = NewInt(kind)
	}

	b.built[r] = e
	return e
}

func badValue(e Encodable, v interface{}) error {
	return encio.NewError(encio.ErrBadType, fmt.Sprintf("cannot encode %T as %v", v, e.Kind()), encio.GetCaller(1))
}

// checkLen returns an error if n elements of size bytes each would be rejected by checkCount when read back.
func checkLen(e Encodable, n int, size int) error {
	if size == 0 && n > MaxZeroSizeElems {
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v holds %v zero size elements; at most %v can be read back", e.Kind(), n, MaxZeroSizeElems), encio.GetCaller(1))
	}
	return nil
}

// checkCount latches an error if count elements of at least size bytes each can't fit in the rest of g.
func checkCount(g *gram.Gram, count uint64, size int) bool {
	if g.Err() != nil {
		return false
	}
	if size == 0 {
		if count > MaxZeroSizeElems {
			g.Fail(encio.NewError(encio.ErrData, fmt.Sprintf("count of %v zero size elements is too large", count), "encode.checkCount"))
			return false
		}
		return true
	}
	if count > uint64(g.Len()/size) {
		g.Fail(encio.NewError(encio.ErrData, fmt.Sprintf("count of %v elements doesn't fit in %v bytes", count, g.Len()), "encode.checkCount"))
		return false
	}
	return true
}
