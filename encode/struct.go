package encode

import (
	"fmt"

	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/gram"
	"github.com/stewi1014/dop/types"
)

type structField struct {
	name string
	enc  Encodable
}

// Struct is an Encodable for structs; each field's value in field order, with no names or count.
// Values are *types.Struct.
//
// A field whose value is itself a struct is preceded by a presence flag,
// and may be null. Missing members are encoded as zero values, and null for struct fields.
type Struct struct {
	fields []structField
}

// Size implements Encodable.
func (e *Struct) Size() int {
	size := 0
	for _, f := range e.fields {
		if _, isStruct := f.enc.(*Struct); isStruct {
			size++
		} else {
			size += f.enc.Size()
		}
	}
	return size
}

// Kind implements Encodable.
func (e *Struct) Kind() types.Kind { return types.KindStruct }

// NumField returns the number of fields.
func (e *Struct) NumField() int { return len(e.fields) }

// Field returns the name and Encodable of the i'th field.
func (e *Struct) Field(i int) (string, Encodable) {
	return e.fields[i].name, e.fields[i].enc
}

func badElem(e Encodable, v interface{}) error {
	return encio.NewError(encio.ErrBadType, fmt.Sprintf("cannot encode %T as a %v element; struct elements are never null", v, e.Kind()), encio.GetCaller(1))
}

// Encode implements Encodable.
// v must be a non-nil *types.Struct.
func (e *Struct) Encode(g *gram.Gram, v interface{}) error {
	s, ok := v.(*types.Struct)
	if !ok {
		return badValue(e, v)
	}
	if s == nil {
		return badElem(e, v)
	}

	known := 0
	for _, f := range e.fields {
		mv, present := s.Get(f.name)
		if present {
			known++
		}

		if fs, isStruct := f.enc.(*Struct); isStruct {
			if err := fs.encodeField(g, f.name, mv); err != nil {
				return err
			}
			continue
		}

		if !present {
			mv = types.ZeroKind(f.enc.Kind())
		}
		if err := f.enc.Encode(g, mv); err != nil {
			return encio.NewError(err, fmt.Sprintf("field %q", f.name), encio.GetCaller(0))
		}
	}

	if known != s.Len() {
		for _, name := range s.Names() {
			if !e.has(name) {
				return encio.NewError(encio.ErrBadType, fmt.Sprintf("unknown field %q", name), encio.GetCaller(0))
			}
		}
	}
	return nil
}

// encodeField writes a struct that is the value of a named field.
func (e *Struct) encodeField(g *gram.Gram, name string, v interface{}) error {
	if v == nil {
		g.WriteUint8(AbsentFlag)
		return nil
	}

	s, ok := v.(*types.Struct)
	if !ok {
		return encio.NewError(badValue(e, v), fmt.Sprintf("field %q", name), encio.GetCaller(0))
	}
	if s == nil {
		g.WriteUint8(AbsentFlag)
		return nil
	}

	g.WriteUint8(PresentFlag)
	if err := e.Encode(g, s); err != nil {
		return encio.NewError(err, fmt.Sprintf("field %q", name), encio.GetCaller(0))
	}
	return nil
}

func (e *Struct) has(name string) bool {
	for _, f := range e.fields {
		if f.name == name {
			return true
		}
	}
	return false
}

// Decode implements Encodable.
// The returned value is always a non-nil *types.Struct, holding the fields read before any error.
func (e *Struct) Decode(g *gram.Gram) interface{} {
	s := types.NewStruct()
	for _, f := range e.fields {
		if g.Err() != nil {
			break
		}

		if fs, isStruct := f.enc.(*Struct); isStruct {
			s.Set(f.name, fs.decodeField(g))
			continue
		}

		s.Set(f.name, f.enc.Decode(g))
	}
	return s
}

// decodeField reads a struct that is the value of a named field.
func (e *Struct) decodeField(g *gram.Gram) *types.Struct {
	if flag := g.ReadUint8(); flag != PresentFlag || g.Err() != nil {
		return nil
	}
	return e.Decode(g).(*types.Struct)
}
