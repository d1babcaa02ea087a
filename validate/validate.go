// Package validate checks decoded values against per-field rules.
//
// Validation is not part of decoding; a message that decodes without error can still fail validation.
// Walk visits every scalar of a value tree with its declared type and path,
// and a Validator runs the Checks registered for each path.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/types"
)

// ErrInvalid is returned when a value fails a check.
var ErrInvalid = errors.New("invalid value")

// Func is called by Walk for every scalar.
// path names the scalar, like "owner.pets[2].name" or "scores{\"maths\"}".
// Returning an error stops the walk.
type Func func(path string, t *types.Type, v interface{}) error

// Walk calls fn for every scalar in v, which must conform to t.
// Null struct fields are skipped.
func Walk(t *types.Type, v interface{}, fn Func) error {
	return walk(t, v, "", fn)
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func walk(t *types.Type, v interface{}, path string, fn Func) error {
	switch t.Kind {
	case types.KindList:
		list, ok := v.([]interface{})
		if !ok && v != nil {
			return mismatch(path, t, v)
		}
		for i, e := range list {
			if err := walk(t.Elem, e, fmt.Sprintf("%v[%v]", path, i), fn); err != nil {
				return err
			}
		}
		return nil

	case types.KindMap:
		m, ok := v.(types.Map)
		if !ok && v != nil {
			return mismatch(path, t, v)
		}
		for _, p := range m {
			elem := fmt.Sprintf("%v{%v}", path, types.Sprint(p.Key))
			if err := walk(t.Key, p.Key, elem+"key", fn); err != nil {
				return err
			}
			if err := walk(t.Elem, p.Value, elem, fn); err != nil {
				return err
			}
		}
		return nil

	case types.KindStruct:
		if v == nil {
			return nil
		}
		s, ok := v.(*types.Struct)
		if !ok {
			return mismatch(path, t, v)
		}
		if s == nil {
			return nil
		}
		for _, f := range t.Fields {
			mv, present := s.Get(f.Name)
			if !present {
				continue
			}
			if err := walk(f.Type, mv, join(path, f.Name), fn); err != nil {
				return err
			}
		}
		return nil
	}

	return fn(path, t, v)
}

func mismatch(path string, t *types.Type, v interface{}) error {
	return encio.NewError(encio.ErrBadType, fmt.Sprintf("%v: %T is not a %v", path, v, t), "validate.Walk")
}

// Check validates a single scalar.
type Check func(v interface{}) error

// FieldError is a failed check on one field.
type FieldError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *FieldError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Unwrap implements errors's Unwrap()
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Validator holds the checks for each field path.
//
// Paths are written without list indices or map keys; "pets[].name" checks the name of every pet,
// "scores{}" every value of the scores map, and "scores{}key" every key.
type Validator struct {
	checks map[string][]Check
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{checks: make(map[string][]Check)}
}

// Add adds checks for path. It returns v.
func (v *Validator) Add(path string, checks ...Check) *Validator {
	v.checks[path] = append(v.checks[path], checks...)
	return v
}

// Len returns the number of paths with checks.
func (v *Validator) Len() int {
	return len(v.checks)
}

// Validate runs the checks on every scalar of value.
// All failures are returned, joined, as *FieldErrors.
func (v *Validator) Validate(t *types.Type, value interface{}) error {
	var errs []error
	err := Walk(t, value, func(path string, _ *types.Type, sv interface{}) error {
		for _, check := range v.checks[Pattern(path)] {
			if err := check(sv); err != nil {
				errs = append(errs, &FieldError{Path: path, Err: err})
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return errors.Join(errs...)
}

// Pattern strips list indices and map keys from a path, giving the path a Validator's checks are added for.
func Pattern(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		b.WriteByte(c)

		var end byte
		switch c {
		case '[':
			end = ']'
		case '{':
			end = '}'
		default:
			continue
		}

		// Map keys are quoted when they're strings, and can hold the end byte.
		quoted := false
		for i++; i < len(path); i++ {
			if path[i] == '"' && (i == 0 || path[i-1] != '\\') {
				quoted = !quoted
			}
			if path[i] == end && !quoted {
				b.WriteByte(end)
				break
			}
		}
	}
	return b.String()
}
