package encode

import (
	"github.com/stewi1014/dop/gram"
	"github.com/stewi1014/dop/types"
)

// NewList returns a new list Encodable.
func NewList(elem Encodable) *List {
	return &List{elem: elem}
}

// List is an Encodable for lists; a count followed by that many elements.
// Values are []interface{}. A nil value encodes as an empty list.
type List struct {
	elem Encodable
}

// Size implements Encodable.
func (e *List) Size() int { return 1 }

// Kind implements Encodable.
func (e *List) Kind() types.Kind { return types.KindList }

// Elem returns the element Encodable.
func (e *List) Elem() Encodable { return e.elem }

// Encode implements Encodable.
func (e *List) Encode(g *gram.Gram, v interface{}) error {
	if v == nil {
		g.WriteLength(0)
		return nil
	}

	list, ok := v.([]interface{})
	if !ok {
		return badValue(e, v)
	}
	if err := checkLen(e, len(list), e.elem.Size()); err != nil {
		return err
	}

	g.WriteLength(uint64(len(list)))
	for _, elem := range list {
		if err := encodeElem(e.elem, g, elem); err != nil {
			return err
		}
	}
	return nil
}

// Decode implements Encodable.
func (e *List) Decode(g *gram.Gram) interface{} {
	n := g.ReadLength()
	if !checkCount(g, n, e.elem.Size()) {
		return []interface{}{}
	}

	list := make([]interface{}, 0, n)
	for i := uint64(0); i < n && g.Err() == nil; i++ {
		list = append(list, e.elem.Decode(g))
	}
	return list
}

// encodeElem encodes an element of a list or map.
// Structs in lists and maps are never null, and have no presence flag.
func encodeElem(e Encodable, g *gram.Gram, v interface{}) error {
	if st, ok := e.(*Struct); ok {
		s, _ := v.(*types.Struct)
		if s == nil {
			return badElem(st, v)
		}
	}
	return e.Encode(g, v)
}
