package types_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/types"
)

type Tag string

type Child struct {
	OK bool `dop:"ok"`
}

type Record struct {
	ID      int     `dop:"id"`
	Name    string  `dop:"name"`
	Tags    []Tag   `dop:"tags"`
	Data    []byte  `dop:"data"`
	Score   float32 `dop:"score"`
	Counts  map[string]int16
	Child   *Child  `dop:"child"`
	Kids    []Child `dop:"kids"`
	Ignored string  `dop:"-"`
	private int
}

func TestTypeOf(t *testing.T) {
	ty, err := types.Of(&Record{})
	td.CmpNoError(t, err)
	td.Cmp(t, ty.String(), "struct{id:int64,name:string,tags:list<string>,data:binary,score:float32,Counts:map<string,int16>,child:struct{ok:bool},kids:list<struct{ok:bool}>}")
}

type Recursive struct {
	Next *Recursive
}

func TestTypeOfErrors(t *testing.T) {
	for _, v := range []interface{}{
		Recursive{},
		struct{ N uint64 }{},
		struct{ V interface{} }{},
		struct {
			A int `dop:"x"`
			B int `dop:"x"`
		}{},
	} {
		t.Run(reflect.TypeOf(v).String(), func(t *testing.T) {
			_, err := types.Of(v)
			td.CmpTrue(t, errors.Is(err, encio.ErrBadType))
		})
	}
}

func TestValueOfAndAssign(t *testing.T) {
	in := Record{
		ID:      -42,
		Name:    "dop",
		Tags:    []Tag{"a", "bb"},
		Data:    []byte{1, 2, 3},
		Score:   0.5,
		Counts:  map[string]int16{"y": 2, "x": 1},
		Child:   &Child{OK: true},
		Kids:    []Child{{OK: false}, {OK: true}},
		Ignored: "gone",
		private: 7,
	}

	v, err := types.ValueOf(&in)
	td.CmpNoError(t, err)

	ty, err := types.Of(in)
	td.CmpNoError(t, err)
	td.CmpNoError(t, types.Check(ty, v))

	s := v.(*types.Struct)
	counts, _ := s.Get("Counts")
	td.Cmp(t, counts.(types.Map)[0].Key, "x")
	id, _ := s.Get("id")
	td.Cmp(t, id, int64(-42))

	var out Record
	td.CmpNoError(t, types.Assign(&out, v))

	in.Ignored = ""
	in.private = 0
	td.Cmp(t, out, in)
}

func TestAssignNullChild(t *testing.T) {
	out := Record{Child: &Child{OK: true}}
	td.CmpNoError(t, types.Assign(&out, types.NewStruct(types.M("child", (*types.Struct)(nil)))))
	td.CmpNil(t, out.Child)
}

func TestAssignErrors(t *testing.T) {
	var out Record

	err := types.Assign(out, types.NewStruct())
	td.CmpTrue(t, errors.Is(err, encio.ErrBadType))

	err = types.Assign(&out, types.NewStruct(types.M("name", int32(1))))
	td.CmpTrue(t, errors.Is(err, encio.ErrBadType))

	var small struct{ N int8 }
	err = types.Assign(&small, types.NewStruct(types.M("N", int64(300))))
	td.CmpTrue(t, errors.Is(err, encio.ErrBadType))
}
