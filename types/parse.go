package types

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/stewi1014/dop/encio"
)

// String returns the textual form of t, as read by Parse.
//
//	list<map<string,int32>>
//	struct{id:int64,tags:list<string>}
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindList:
		return "list<" + t.Elem.String() + ">"
	case KindMap:
		return "map<" + t.Key.String() + "," + t.Elem.String() + ">"
	case KindStruct:
		var b strings.Builder
		b.WriteString("struct{")
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f.Name)
			b.WriteByte(':')
			b.WriteString(f.Type.String())
		}
		b.WriteByte('}')
		return b.String()
	}
	return t.Kind.String()
}

var scalarNames = map[string]Kind{
	"string":  KindString,
	"binary":  KindBinary,
	"bytes":   KindBinary,
	"bool":    KindBool,
	"float32": KindFloat32,
	"float":   KindFloat32,
	"float64": KindFloat64,
	"double":  KindFloat64,
	"int8":    KindInt8,
	"uint8":   KindUInt8,
	"byte":    KindUInt8,
	"int16":   KindInt16,
	"uint16":  KindUInt16,
	"int32":   KindInt32,
	"uint32":  KindUInt32,
	"int64":   KindInt64,
}

// Parse reads the textual form of a Type.
// Whitespace between tokens is ignored.
func Parse(s string) (*Type, error) {
	p := &parser{src: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q after type", p.src[p.pos:])
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return encio.NewError(
		encio.ErrBadType,
		fmt.Sprintf("parsing %q at %v: ", p.src, p.pos)+fmt.Sprintf(format, args...),
		"types.Parse",
	)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-' || c == '.') {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *parser) peek(c byte) bool {
	p.skipSpace()
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *parser) parseType() (*Type, error) {
	name := p.ident()
	switch strings.ToLower(name) {
	case "":
		return nil, p.errorf("expected type name")

	case "list":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return ListOf(elem), nil

	case "map":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return MapOf(key, elem), nil

	case "struct":
		if err := p.expect('{'); err != nil {
			return nil, err
		}
		t := &Type{Kind: KindStruct}
		for !p.peek('}') {
			if len(t.Fields) > 0 {
				if err := p.expect(','); err != nil {
					return nil, err
				}
			}
			fname := p.ident()
			if fname == "" {
				return nil, p.errorf("expected field name")
			}
			if _, dup := t.Field(fname); dup {
				return nil, p.errorf("duplicate field %q", fname)
			}
			if err := p.expect(':'); err != nil {
				return nil, err
			}
			ft, err := p.parseType()
			if err != nil {
				return nil, err
			}
			t.Fields = append(t.Fields, Field{Name: fname, Type: ft})
		}
		p.pos++
		return t, nil
	}

	k, ok := scalarNames[strings.ToLower(name)]
	if !ok {
		return nil, p.errorf("unknown type %q", name)
	}
	return ScalarOf(k), nil
}
