package types

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
)

// Member is a named value in a Struct.
type Member struct {
	Name  string
	Value interface{}
}

// M is shorthand for a Member.
func M(name string, value interface{}) Member {
	return Member{Name: name, Value: value}
}

// Struct is the value of a struct Type; an ordered set of named values.
// A nil *Struct is an absent struct field.
type Struct struct {
	members []Member
}

// NewStruct returns a Struct holding members.
// Later members overwrite earlier ones with the same name.
func NewStruct(members ...Member) *Struct {
	s := &Struct{members: make([]Member, 0, len(members))}
	for _, m := range members {
		s.Set(m.Name, m.Value)
	}
	return s
}

// Set sets the named member, keeping its position if it already exists.
// It returns s.
func (s *Struct) Set(name string, value interface{}) *Struct {
	for i := range s.members {
		if s.members[i].Name == name {
			s.members[i].Value = value
			return s
		}
	}
	s.members = append(s.members, Member{Name: name, Value: value})
	return s
}

// Get returns the named member.
func (s *Struct) Get(name string) (interface{}, bool) {
	if s == nil {
		return nil, false
	}
	for _, m := range s.members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Members returns the members in order. The slice must not be modified.
func (s *Struct) Members() []Member {
	if s == nil {
		return nil
	}
	return s.members
}

// Len returns the number of members.
func (s *Struct) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// Names returns the member names in order.
func (s *Struct) Names() []string {
	names := make([]string, s.Len())
	for i, m := range s.Members() {
		names[i] = m.Name
	}
	return names
}

// String implements fmt.Stringer.
func (s *Struct) String() string {
	return Sprint(s)
}

// Pair is a key and value in a Map.
type Pair struct {
	Key   interface{}
	Value interface{}
}

// Map is the value of a map Type. Keys are unique, and pairs are encoded in order.
type Map []Pair

// Get returns the value for key.
func (m Map) Get(key interface{}) (interface{}, bool) {
	for _, p := range m {
		if Equal(p.Key, key) {
			return p.Value, true
		}
	}
	return nil, false
}

// Set sets the value for key, overwriting any existing value.
func (m *Map) Set(key, value interface{}) {
	for i := range *m {
		if Equal((*m)[i].Key, key) {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Pair{Key: key, Value: value})
}

// Len returns the number of pairs.
func (m Map) Len() int {
	return len(m)
}

// Equal reports whether two value trees are equal.
// Maps are compared regardless of pair order.
func Equal(a, b interface{}) bool {
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)

	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true

	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for _, p := range av {
			v, ok := bv.Get(p.Key)
			if !ok || !Equal(p.Value, v) {
				return false
			}
		}
		return true

	case *Struct:
		bv, ok := b.(*Struct)
		if !ok {
			return false
		}
		if av == nil || bv == nil {
			return av == nil && bv == nil
		}
		if len(av.members) != len(bv.members) {
			return false
		}
		for i := range av.members {
			if av.members[i].Name != bv.members[i].Name || !Equal(av.members[i].Value, bv.members[i].Value) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

// Sprint formats a value tree in a compact, human readable form.
func Sprint(v interface{}) string {
	var b strings.Builder
	sprint(&b, v)
	return b.String()
}

func sprint(b *strings.Builder, v interface{}) {
	switch vv := v.(type) {
	case nil:
		b.WriteString("null")
	case string:
		fmt.Fprintf(b, "%q", vv)
	case []byte:
		fmt.Fprintf(b, "0x%x", vv)
	case []interface{}:
		b.WriteByte('[')
		for i, e := range vv {
			if i > 0 {
				b.WriteString(", ")
			}
			sprint(b, e)
		}
		b.WriteByte(']')
	case Map:
		b.WriteString("map{")
		for i, p := range vv {
			if i > 0 {
				b.WriteString(", ")
			}
			sprint(b, p.Key)
			b.WriteString(": ")
			sprint(b, p.Value)
		}
		b.WriteByte('}')
	case *Struct:
		if vv == nil {
			b.WriteString("null")
			return
		}
		b.WriteByte('{')
		for i, m := range vv.members {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.Name)
			b.WriteString(": ")
			sprint(b, m.Value)
		}
		b.WriteByte('}')
	default:
		fmt.Fprint(b, vv)
	}
}
