package types

import (
	"fmt"

	"github.com/stewi1014/dop/encio"
)

// Check returns an error if v cannot be encoded as t.
// A nil list or map is empty, and a nil *Struct is only allowed where the struct is a named field.
// Missing struct members are encoded as zero values and are not an error.
func Check(t *Type, v interface{}) error {
	return check(t, v, "", false)
}

func badType(path string, t *Type, v interface{}) error {
	if path == "" {
		path = "value"
	}
	return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: cannot encode %T as %v", path, v, t), "types.Check")
}

func check(t *Type, v interface{}, path string, named bool) error {
	var ok bool
	switch t.Kind {
	case KindString:
		_, ok = v.(string)
	case KindBinary:
		_, ok = v.([]byte)
	case KindBool:
		_, ok = v.(bool)
	case KindFloat32:
		_, ok = v.(float32)
	case KindFloat64:
		_, ok = v.(float64)
	case KindInt8:
		_, ok = v.(int8)
	case KindUInt8:
		_, ok = v.(uint8)
	case KindInt16:
		_, ok = v.(int16)
	case KindUInt16:
		_, ok = v.(uint16)
	case KindInt32:
		_, ok = v.(int32)
	case KindUInt32:
		_, ok = v.(uint32)
	case KindInt64:
		_, ok = v.(int64)

	case KindList:
		if v == nil {
			return nil
		}
		list, isList := v.([]interface{})
		if !isList {
			return badType(path, t, v)
		}
		for i, e := range list {
			if err := check(t.Elem, e, fmt.Sprintf("%v[%v]", path, i), false); err != nil {
				return err
			}
		}
		return nil

	case KindMap:
		if v == nil {
			return nil
		}
		m, isMap := v.(Map)
		if !isMap {
			return badType(path, t, v)
		}
		for i, p := range m {
			if err := check(t.Key, p.Key, fmt.Sprintf("%v{key %v}", path, i), false); err != nil {
				return err
			}
			if err := check(t.Elem, p.Value, fmt.Sprintf("%v[%v]", path, Sprint(p.Key)), false); err != nil {
				return err
			}
		}
		return nil

	case KindStruct:
		if v == nil && named {
			return nil
		}
		s, isStruct := v.(*Struct)
		if !isStruct {
			return badType(path, t, v)
		}
		if s == nil {
			if named {
				return nil
			}
			return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: struct elements cannot be null", path), "types.Check")
		}
		for _, m := range s.members {
			f, known := t.Field(m.Name)
			if !known {
				return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: unknown field %q", path, m.Name), "types.Check")
			}
			fpath := m.Name
			if path != "" {
				fpath = path + "." + m.Name
			}
			if err := check(f.Type, m.Value, fpath, true); err != nil {
				return err
			}
		}
		return nil

	default:
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: unknown kind %v", path, t.Kind), "types.Check")
	}

	if !ok {
		return badType(path, t, v)
	}
	return nil
}

// Zero returns the value encoded for a missing member of type t.
// Struct types give a nil *Struct; callers encoding a struct element use an empty Struct instead.
func Zero(t *Type) interface{} {
	return ZeroKind(t.Kind)
}

// ZeroKind is Zero for a kind.
func ZeroKind(k Kind) interface{} {
	switch k {
	case KindString:
		return ""
	case KindBinary:
		return []byte{}
	case KindBool:
		return false
	case KindFloat32:
		return float32(0)
	case KindFloat64:
		return float64(0)
	case KindInt8:
		return int8(0)
	case KindUInt8:
		return uint8(0)
	case KindInt16:
		return int16(0)
	case KindUInt16:
		return uint16(0)
	case KindInt32:
		return int32(0)
	case KindUInt32:
		return uint32(0)
	case KindInt64:
		return int64(0)
	case KindList:
		return []interface{}{}
	case KindMap:
		return Map{}
	case KindStruct:
		return (*Struct)(nil)
	}
	return nil
}
