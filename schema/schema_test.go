package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/gram"
	"github.com/stewi1014/dop/schema"
	"github.com/stewi1014/dop/types"
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		desc string
		ty   string
		blob []byte
	}{
		{
			desc: "scalars and list",
			ty:   "struct{n:int32,tags:list<string>}",
			blob: []byte{1, 'n', 0x42, 4, 't', 'a', 'g', 's', 5, 1},
		},
		{
			desc: "map",
			ty:   "struct{m:map<uint8,binary>}",
			blob: []byte{1, 'm', 7, 0x92, 4},
		},
		{
			desc: "nested struct",
			ty:   "struct{c:struct{ok:bool}}",
			blob: []byte{1, 'c', 6, 4, 2, 'o', 'k', 9},
		},
		{
			desc: "empty nested struct",
			ty:   "struct{e:struct{}}",
			blob: []byte{1, 'e', 6, 0},
		},
		{
			desc: "every integer",
			ty:   "struct{a:int8,b:uint8,c:int16,d:uint16,e:int32,f:uint32,g:int64}",
			blob: []byte{
				1, 'a', 0x12, 1, 'b', 0x92, 1, 'c', 0x22, 1, 'd', 0xa2,
				1, 'e', 0x42, 1, 'f', 0xc2, 1, 'g', 0x82,
			},
		},
		{
			desc: "empty",
			ty:   "struct{}",
			blob: []byte{},
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			s, err := schema.FromType(types.MustParse(tC.ty), 0)
			td.CmpNoError(t, err)
			td.Cmp(t, s.Bytes(), tC.blob)

			parsed, err := schema.Decode(tC.blob, 0)
			td.CmpNoError(t, err)
			td.Cmp(t, parsed.String(), tC.ty)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	ty := types.MustParse(`struct{
		id:int64,
		name:string,
		scores:map<string,list<float64>>,
		owner:struct{
			name:string,
			pets:list<struct{kind:uint8,tags:map<int16,struct{x:float32}>}>
		},
		raw:bytes
	}`)

	for _, big := range []bool{false, true} {
		g := gram.New()
		g.SetBigEndian(big)

		s := schema.MustFromType(ty)
		s.Encode(g)

		r := gram.FromBytes(g.Bytes())
		r.SetBigEndian(big)
		parsed := schema.Parse(r, 0)
		td.CmpNoError(t, r.Err())
		td.CmpTrue(t, parsed.Type().Equal(ty))
		td.Cmp(t, parsed.Len(), s.Len())
		g.Close()
	}
}

func TestArena(t *testing.T) {
	s := schema.MustFromType(types.MustParse("struct{a:int32,b:string,c:struct{x:int64},d:list<int8>,e:map<string,bool>}"))

	root := s.Root()
	td.Cmp(t, s.Kind(root), types.KindStruct)
	td.Cmp(t, s.MinSize(root), 4+1+1+1+1)

	fields := s.Fields(root)
	td.CmpLen(t, fields, 5)
	td.Cmp(t, fields[2].Name, "c")
	td.Cmp(t, s.MinSize(fields[2].Ref), 8)
	td.Cmp(t, s.Kind(s.Elem(fields[3].Ref)), types.KindInt8)
	td.Cmp(t, s.Kind(s.Key(fields[4].Ref)), types.KindString)
	td.Cmp(t, s.Key(fields[3].Ref), schema.NoRef)

	for _, f := range fields {
		td.CmpTrue(t, f.Ref < root)
	}
}

func TestFromTypeErrors(t *testing.T) {
	deep := types.Int8
	for i := 0; i < 10; i++ {
		deep = types.ListOf(deep)
	}

	testCases := []struct {
		desc     string
		ty       *types.Type
		maxDepth int
	}{
		{"nil", nil, 0},
		{"scalar root", types.Int32, 0},
		{"list root", types.ListOf(types.String), 0},
		{"duplicate field", &types.Type{Kind: types.KindStruct, Fields: []types.Field{types.F("a", types.Int8), types.F("a", types.Int8)}}, 0},
		{"unknown kind", types.StructOf(types.F("a", &types.Type{Kind: 0x33})), 0},
		{"too deep", types.StructOf(types.F("a", deep)), 5},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			_, err := schema.FromType(tC.ty, tC.maxDepth)
			td.CmpTrue(t, errors.Is(err, encio.ErrBadType))
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		desc   string
		blob   []byte
		fields []string
	}{
		{
			desc:   "unknown tag",
			blob:   []byte{1, 'a', 0x12, 1, 'b', 0x10},
			fields: []string{"a"},
		},
		{
			desc:   "bare integer tag",
			blob:   []byte{1, 'a', 0x02},
			fields: []string{},
		},
		{
			desc:   "truncated name",
			blob:   []byte{5, 'a'},
			fields: []string{},
		},
		{
			desc:   "missing descriptor",
			blob:   []byte{1, 'a'},
			fields: []string{},
		},
		{
			desc:   "truncated nested blob",
			blob:   []byte{1, 'c', 6, 10, 2, 'o', 'k', 9},
			fields: []string{},
		},
		{
			desc:   "bad tag in nested blob",
			blob:   []byte{1, 'x', 9, 1, 'c', 6, 3, 1, 'o', 0},
			fields: []string{"x"},
		},
		{
			desc:   "map without value",
			blob:   []byte{1, 'm', 7, 1},
			fields: []string{},
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			s, err := schema.Decode(tC.blob, 0)
			td.CmpTrue(t, errors.Is(err, encio.ErrData))

			names := []string{}
			for _, f := range s.Fields(s.Root()) {
				names = append(names, f.Name)
			}
			td.Cmp(t, names, tC.fields)
		})
	}
}

func TestParseDepth(t *testing.T) {
	blob := append([]byte{1, 'a'}, []byte(strings.Repeat("\x05", 70))...)
	blob = append(blob, 0x12)

	_, err := schema.Decode(blob, 0)
	td.CmpTrue(t, errors.Is(err, encio.ErrData))

	s, err := schema.Decode(blob, 100)
	td.CmpNoError(t, err)
	td.Cmp(t, s.Len(), 72)

	// struct{a:struct{a:struct{}}}
	nested := []byte{1, 'a', 6, 4, 1, 'a', 6, 0}
	_, err = schema.Decode(nested, 1)
	td.CmpTrue(t, errors.Is(err, encio.ErrData))
	_, err = schema.Decode(nested, 2)
	td.CmpNoError(t, err)
}

func TestParseDuplicateField(t *testing.T) {
	blob := []byte{1, 'a', 0x12, 1, 'b', 1, 1, 'a', 0x42}
	s, err := schema.Decode(blob, 0)
	td.CmpNoError(t, err)
	td.Cmp(t, s.String(), "struct{a:int32,b:string}")
}
