package types

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/stewi1014/dop/encio"
)

const (
	// StructTag names a Go struct field's dop field; `dop:"-"` skips the field.
	// Untagged exported fields use the Go field name, and unexported fields are skipped.
	StructTag = "dop"
)

type structField struct {
	name  string
	index int
	ty    reflect.Type
}

// structFields returns the encoded fields of ty in declaration order.
// Field order is the wire order, so it is not sorted.
func structFields(ty reflect.Type) []structField {
	fields := make([]structField, 0, ty.NumField())
	for i := 0; i < ty.NumField(); i++ {
		field := ty.Field(i)

		name, tagged := field.Tag.Lookup(StructTag)
		if tagged {
			var opts string
			name, opts, _ = strings.Cut(name, ",")
			name = strings.TrimSpace(name)
			if opts != "" {
				encio.Log.Warn().Str("type", ty.String()).Str("field", field.Name).Str("options", opts).Msg("ignoring unknown dop tag options")
			}
		}

		if name == "-" {
			continue
		}

		if !unicode.IsUpper([]rune(field.Name)[0]) {
			if tagged {
				encio.Log.Warn().Str("type", ty.String()).Str("field", field.Name).Msg("ignoring dop tag on unexported field")
			}
			continue
		}

		if name == "" {
			name = field.Name
		}

		fields = append(fields, structField{
			name:  name,
			index: i,
			ty:    field.Type,
		})
	}

	return fields
}

// Of returns the Type that ValueOf(v) conforms to.
func Of(v interface{}) (*Type, error) {
	ty := reflect.TypeOf(v)
	if ty == nil {
		return nil, encio.NewError(encio.ErrBadType, "cannot take the type of nil", "types.Of")
	}
	for ty.Kind() == reflect.Ptr {
		ty = ty.Elem()
	}
	return TypeOf(ty)
}

// TypeOf returns the Type for a Go type.
//
// int and int64 become Int64, []byte and byte arrays Binary, other slices and arrays List,
// and pointers to structs are nullable Structs.
// uint, uint64, uintptr, complex, interface, chan and func types cannot be encoded,
// nor can recursive types.
func TypeOf(ty reflect.Type) (*Type, error) {
	return typeOf(ty, make(map[reflect.Type]bool))
}

func typeOf(ty reflect.Type, seen map[reflect.Type]bool) (*Type, error) {
	switch ty.Kind() {
	case reflect.String:
		return String, nil
	case reflect.Bool:
		return Bool, nil
	case reflect.Int8:
		return Int8, nil
	case reflect.Int16:
		return Int16, nil
	case reflect.Int32:
		return Int32, nil
	case reflect.Int, reflect.Int64:
		return Int64, nil
	case reflect.Uint8:
		return UInt8, nil
	case reflect.Uint16:
		return UInt16, nil
	case reflect.Uint32:
		return UInt32, nil
	case reflect.Float32:
		return Float32, nil
	case reflect.Float64:
		return Float64, nil

	case reflect.Slice, reflect.Array:
		if ty.Elem().Kind() == reflect.Uint8 {
			return Binary, nil
		}
		elem, err := typeOf(ty.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil

	case reflect.Map:
		key, err := typeOf(ty.Key(), seen)
		if err != nil {
			return nil, err
		}
		elem, err := typeOf(ty.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return MapOf(key, elem), nil

	case reflect.Ptr:
		if ty.Elem().Kind() != reflect.Struct {
			break
		}
		return typeOf(ty.Elem(), seen)

	case reflect.Struct:
		if seen[ty] {
			return nil, encio.NewError(encio.ErrBadType, fmt.Sprintf("%v is recursive", ty), "types.TypeOf")
		}
		seen[ty] = true
		defer delete(seen, ty)

		t := &Type{Kind: KindStruct}
		for _, field := range structFields(ty) {
			if _, dup := t.Field(field.name); dup {
				return nil, encio.NewError(encio.ErrBadType, fmt.Sprintf("%v has more than one field named %q", ty, field.name), "types.TypeOf")
			}
			ft, err := typeOf(field.ty, seen)
			if err != nil {
				return nil, err
			}
			t.Fields = append(t.Fields, Field{Name: field.name, Type: ft})
		}
		return t, nil
	}

	return nil, encio.NewError(encio.ErrBadType, fmt.Sprintf("%v cannot be encoded", ty), "types.TypeOf")
}

// ValueOf converts a Go value into a value tree conforming to Of(v).
// Go maps are converted with their pairs sorted by key, so the result is deterministic.
func ValueOf(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, encio.NewError(encio.ErrBadType, "cannot take the value of nil", "types.ValueOf")
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr && rv.Type().Elem().Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if _, err := TypeOf(indirectType(rv.Type())); err != nil {
		return nil, err
	}
	return valueOf(rv), nil
}

func indirectType(ty reflect.Type) reflect.Type {
	for ty.Kind() == reflect.Ptr {
		ty = ty.Elem()
	}
	return ty
}

func valueOf(rv reflect.Value) interface{} {
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int8:
		return int8(rv.Int())
	case reflect.Int16:
		return int16(rv.Int())
	case reflect.Int32:
		return int32(rv.Int())
	case reflect.Int, reflect.Int64:
		return rv.Int()
	case reflect.Uint8:
		return uint8(rv.Uint())
	case reflect.Uint16:
		return uint16(rv.Uint())
	case reflect.Uint32:
		return uint32(rv.Uint())
	case reflect.Float32:
		return float32(rv.Float())
	case reflect.Float64:
		return rv.Float()

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			buff := make([]byte, rv.Len())
			for i := range buff {
				buff[i] = uint8(rv.Index(i).Uint())
			}
			return buff
		}
		list := make([]interface{}, rv.Len())
		for i := range list {
			list[i] = valueOf(rv.Index(i))
		}
		return list

	case reflect.Map:
		m := make(Map, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m = append(m, Pair{Key: valueOf(iter.Key()), Value: valueOf(iter.Value())})
		}
		sort.Slice(m, func(i, j int) bool { return Sprint(m[i].Key) < Sprint(m[j].Key) })
		return m

	case reflect.Ptr:
		if rv.IsNil() {
			return (*Struct)(nil)
		}
		return valueOf(rv.Elem())

	case reflect.Struct:
		fields := structFields(rv.Type())
		s := &Struct{members: make([]Member, len(fields))}
		for i, field := range fields {
			s.members[i] = Member{Name: field.name, Value: valueOf(rv.Field(field.index))}
		}
		return s
	}

	panic(fmt.Errorf("%v cannot be encoded", rv.Type()))
}

// Assign sets the Go value pointed to by ptr from a value tree.
// Members with no matching Go field are ignored, and Go fields with no member are left alone.
func Assign(ptr interface{}, v interface{}) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return encio.NewError(encio.ErrBadType, fmt.Sprintf("cannot assign to %T; need a non-nil pointer", ptr), "types.Assign")
	}
	return assign(rv.Elem(), v, rv.Type().Elem().String())
}

func assignError(path string, rv reflect.Value, v interface{}) error {
	return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: cannot assign %T to %v", path, v, rv.Type()), "types.Assign")
}

func assign(rv reflect.Value, v interface{}, path string) error {
	src := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Interface:
		if v == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if !src.Type().AssignableTo(rv.Type()) {
			return assignError(path, rv, v)
		}
		rv.Set(src)
		return nil

	case reflect.String:
		s, ok := v.(string)
		if !ok {
			return assignError(path, rv, v)
		}
		rv.SetString(s)
		return nil

	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return assignError(path, rv, v)
		}
		rv.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch src.Kind() {
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n = src.Int()
		case reflect.Uint8, reflect.Uint16, reflect.Uint32:
			n = int64(src.Uint())
		default:
			return assignError(path, rv, v)
		}
		if rv.OverflowInt(n) {
			return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: %v overflows %v", path, n, rv.Type()), "types.Assign")
		}
		rv.SetInt(n)
		return nil

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint, reflect.Uint64:
		var n uint64
		switch src.Kind() {
		case reflect.Uint8, reflect.Uint16, reflect.Uint32:
			n = src.Uint()
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if src.Int() < 0 {
				return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: %v is negative", path, src.Int()), "types.Assign")
			}
			n = uint64(src.Int())
		default:
			return assignError(path, rv, v)
		}
		if rv.OverflowUint(n) {
			return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: %v overflows %v", path, n, rv.Type()), "types.Assign")
		}
		rv.SetUint(n)
		return nil

	case reflect.Float32, reflect.Float64:
		switch f := v.(type) {
		case float32:
			rv.SetFloat(float64(f))
		case float64:
			rv.SetFloat(f)
		default:
			return assignError(path, rv, v)
		}
		return nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b, ok := v.([]byte)
			if !ok {
				return assignError(path, rv, v)
			}
			nb := reflect.MakeSlice(rv.Type(), len(b), len(b))
			reflect.Copy(nb, reflect.ValueOf(b))
			rv.Set(nb)
			return nil
		}
		list, ok := v.([]interface{})
		if !ok {
			return assignError(path, rv, v)
		}
		ns := reflect.MakeSlice(rv.Type(), len(list), len(list))
		for i, e := range list {
			if err := assign(ns.Index(i), e, fmt.Sprintf("%v[%v]", path, i)); err != nil {
				return err
			}
		}
		rv.Set(ns)
		return nil

	case reflect.Array:
		if b, ok := v.([]byte); ok && rv.Type().Elem().Kind() == reflect.Uint8 {
			if len(b) > rv.Len() {
				return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: %v bytes do not fit in %v", path, len(b), rv.Type()), "types.Assign")
			}
			reflect.Copy(rv, reflect.ValueOf(b))
			return nil
		}
		list, ok := v.([]interface{})
		if !ok {
			return assignError(path, rv, v)
		}
		if len(list) > rv.Len() {
			return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: %v elements do not fit in %v", path, len(list), rv.Type()), "types.Assign")
		}
		for i, e := range list {
			if err := assign(rv.Index(i), e, fmt.Sprintf("%v[%v]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		m, ok := v.(Map)
		if !ok {
			return assignError(path, rv, v)
		}
		nm := reflect.MakeMapWithSize(rv.Type(), len(m))
		for _, p := range m {
			key := reflect.New(rv.Type().Key()).Elem()
			if err := assign(key, p.Key, path+"{key}"); err != nil {
				return err
			}
			val := reflect.New(rv.Type().Elem()).Elem()
			if err := assign(val, p.Value, fmt.Sprintf("%v[%v]", path, Sprint(p.Key))); err != nil {
				return err
			}
			nm.SetMapIndex(key, val)
		}
		rv.Set(nm)
		return nil

	case reflect.Ptr:
		s, ok := v.(*Struct)
		if !ok && v != nil {
			return assignError(path, rv, v)
		}
		if s == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return assign(rv.Elem(), s, path)

	case reflect.Struct:
		s, ok := v.(*Struct)
		if !ok {
			return assignError(path, rv, v)
		}
		if s == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		for _, field := range structFields(rv.Type()) {
			mv, present := s.Get(field.name)
			if !present {
				continue
			}
			if err := assign(rv.Field(field.index), mv, path+"."+field.name); err != nil {
				return err
			}
		}
		return nil
	}

	return assignError(path, rv, v)
}
