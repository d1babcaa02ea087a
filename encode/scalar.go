package encode

import (
	"fmt"

	"github.com/stewi1014/dop/gram"
	"github.com/stewi1014/dop/types"
)

// String is an Encodable for strings.
type String struct{}

// Size implements Encodable.
func (String) Size() int { return 1 }

// Kind implements Encodable.
func (String) Kind() types.Kind { return types.KindString }

// Encode implements Encodable.
func (e String) Encode(g *gram.Gram, v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return badValue(e, v)
	}
	g.WriteString(s)
	return nil
}

// Decode implements Encodable.
func (String) Decode(g *gram.Gram) interface{} {
	return g.ReadString()
}

// Binary is an Encodable for byte strings.
// It has the same encoding as String.
type Binary struct{}

// Size implements Encodable.
func (Binary) Size() int { return 1 }

// Kind implements Encodable.
func (Binary) Kind() types.Kind { return types.KindBinary }

// Encode implements Encodable.
func (e Binary) Encode(g *gram.Gram, v interface{}) error {
	b, ok := v.([]byte)
	if !ok {
		return badValue(e, v)
	}
	g.WriteBytes(b)
	return nil
}

// Decode implements Encodable.
func (Binary) Decode(g *gram.Gram) interface{} {
	return g.ReadBytes()
}

// Bool is an Encodable for bools.
type Bool struct{}

// Size implements Encodable.
func (Bool) Size() int { return 1 }

// Kind implements Encodable.
func (Bool) Kind() types.Kind { return types.KindBool }

// Encode implements Encodable.
func (e Bool) Encode(g *gram.Gram, v interface{}) error {
	b, ok := v.(bool)
	if !ok {
		return badValue(e, v)
	}
	g.WriteBool(b)
	return nil
}

// Decode implements Encodable.
// Any non-zero byte is true.
func (Bool) Decode(g *gram.Gram) interface{} {
	return g.ReadBool()
}

// Float32 is an Encodable for float32s.
type Float32 struct{}

// Size implements Encodable.
func (Float32) Size() int { return 4 }

// Kind implements Encodable.
func (Float32) Kind() types.Kind { return types.KindFloat32 }

// Encode implements Encodable.
func (e Float32) Encode(g *gram.Gram, v interface{}) error {
	f, ok := v.(float32)
	if !ok {
		return badValue(e, v)
	}
	g.WriteFloat32(f)
	return nil
}

// Decode implements Encodable.
func (Float32) Decode(g *gram.Gram) interface{} {
	return g.ReadFloat32()
}

// Float64 is an Encodable for float64s.
type Float64 struct{}

// Size implements Encodable.
func (Float64) Size() int { return 8 }

// Kind implements Encodable.
func (Float64) Kind() types.Kind { return types.KindFloat64 }

// Encode implements Encodable.
func (e Float64) Encode(g *gram.Gram, v interface{}) error {
	f, ok := v.(float64)
	if !ok {
		return badValue(e, v)
	}
	g.WriteFloat64(f)
	return nil
}

// Decode implements Encodable.
func (Float64) Decode(g *gram.Gram) interface{} {
	return g.ReadFloat64()
}

// NewInt returns a new integer Encodable.
// It panics if kind is not an integer kind.
func NewInt(kind types.Kind) Int {
	if !kind.Integer() {
		panic(fmt.Errorf("%v is not an integer kind", kind))
	}
	return Int{kind: kind}
}

// Int is an Encodable for the fixed-width integer kinds.
// Values are the Go integer type of the same width and sign.
type Int struct {
	kind types.Kind
}

// Size implements Encodable.
func (e Int) Size() int { return e.kind.Size() }

// Kind implements Encodable.
func (e Int) Kind() types.Kind { return e.kind }

// Encode implements Encodable.
func (e Int) Encode(g *gram.Gram, v interface{}) error {
	switch e.kind {
	case types.KindInt8:
		if n, ok := v.(int8); ok {
			g.WriteInt8(n)
			return nil
		}
	case types.KindUInt8:
		if n, ok := v.(uint8); ok {
			g.WriteUint8(n)
			return nil
		}
	case types.KindInt16:
		if n, ok := v.(int16); ok {
			g.WriteInt16(n)
			return nil
		}
	case types.KindUInt16:
		if n, ok := v.(uint16); ok {
			g.WriteUint16(n)
			return nil
		}
	case types.KindInt32:
		if n, ok := v.(int32); ok {
			g.WriteInt32(n)
			return nil
		}
	case types.KindUInt32:
		if n, ok := v.(uint32); ok {
			g.WriteUint32(n)
			return nil
		}
	case types.KindInt64:
		if n, ok := v.(int64); ok {
			g.WriteInt64(n)
			return nil
		}
	}
	return badValue(e, v)
}

// Decode implements Encodable.
func (e Int) Decode(g *gram.Gram) interface{} {
	switch e.kind {
	case types.KindInt8:
		return g.ReadInt8()
	case types.KindUInt8:
		return g.ReadUint8()
	case types.KindInt16:
		return g.ReadInt16()
	case types.KindUInt16:
		return g.ReadUint16()
	case types.KindInt32:
		return g.ReadInt32()
	case types.KindUInt32:
		return g.ReadUint32()
	default:
		return g.ReadInt64()
	}
}
