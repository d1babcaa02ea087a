package dop_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/maxatome/go-testdeep/td"
	"github.com/rs/zerolog"

	"github.com/stewi1014/dop"
	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/types"
)

type Pet struct {
	Name string `dop:"name"`
	Legs uint8  `dop:"legs"`
}

type Person struct {
	ID     int64              `dop:"id"`
	Name   string             `dop:"name"`
	Tags   []string           `dop:"tags"`
	Scores map[string]float64 `dop:"scores"`
	Best   *Pet               `dop:"best"`
	Pets   []Pet              `dop:"pets"`
	Photo  []byte             `dop:"photo"`
}

var person = Person{
	ID:     -1234567890,
	Name:   "Ada",
	Tags:   []string{"a", "bb", ""},
	Scores: map[string]float64{"maths": 9.5, "art": 7},
	Best:   &Pet{Name: "Rex", Legs: 4},
	Pets:   []Pet{{Name: "Rex", Legs: 4}, {Name: "Polly", Legs: 2}},
	Photo:  []byte{0xff, 0xd8, 0xff},
}

var (
	selfDescribingSchema = []byte{10, 1, 'n', 0x42, 4, 't', 'a', 'g', 's', 5, 1}
	selfDescribingValue  = types.NewStruct(
		types.M("n", int32(-7)),
		types.M("tags", []interface{}{"a", "bb"}),
	)
)

func TestSelfDescribing(t *testing.T) {
	testCases := []struct {
		desc  string
		flags dop.Flag
		n     []byte
	}{
		{"little endian", 0, []byte{0xf9, 0xff, 0xff, 0xff}},
		{"big endian", dop.FlagBigEndian, []byte{0xff, 0xff, 0xff, 0xf9}},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			payload := append([]byte{}, selfDescribingSchema...)
			payload = append(payload, tC.n...)
			payload = append(payload, 2, 1, 'a', 2, 'b', 'b')

			msg := append([]byte{byte(tC.flags), byte(len(payload))}, payload...)

			d := dop.NewDecoder(msg, nil)
			got, err := d.Unpack("")
			td.CmpNoError(t, err)
			td.CmpTrue(t, types.Equal(got, selfDescribingValue), "got %v", got)
			td.Cmp(t, d.Schema().String(), "struct{n:int32,tags:list<string>}")
			td.Cmp(t, d.Flags(), tC.flags)
			td.Cmp(t, d.ErrorCode(), encio.Success)
			td.Cmp(t, d.ErrorMessage(), "success")
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	testCases := []struct {
		desc   string
		config *dop.Config
		flags  dop.Flag
	}{
		{
			desc:   "plain",
			config: nil,
			flags:  0,
		},
		{
			desc:   "signed",
			config: &dop.Config{Sign: true},
			flags:  dop.FlagSign,
		},
		{
			desc:   "short mask key",
			config: &dop.Config{MaskKey: "abc"},
			flags:  dop.FlagMask,
		},
		{
			desc:   "long mask key",
			config: &dop.Config{MaskKey: "0123456789abcdef"},
			flags:  dop.FlagMask,
		},
		{
			desc:   "identifier",
			config: &dop.Config{PID: "msg-1"},
			flags:  dop.FlagPID,
		},
		{
			desc:   "everything",
			config: &dop.Config{PID: "msg-2", Sign: true, MaskKey: "k"},
			flags:  dop.FlagPID | dop.FlagSign | dop.FlagMask,
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			msg, err := dop.Marshal(&person, tC.config)
			td.CmpNoError(t, err)
			td.Cmp(t, dop.Flag(msg[0])&^dop.FlagBigEndian, tC.flags)

			var got Person
			td.CmpNoError(t, dop.Unmarshal(msg, &got, tC.config))
			td.Cmp(t, got, person)
		})
	}
}

func TestNullStructField(t *testing.T) {
	withPet, err := dop.Marshal(&person, nil)
	td.CmpNoError(t, err)

	p := person
	p.Best = nil
	withoutPet, err := dop.Marshal(&p, nil)
	td.CmpNoError(t, err)

	// Rex is 1 + 3 name bytes and 1 leg byte, after the presence flag which is always there.
	td.Cmp(t, len(withPet)-len(withoutPet), 5)

	var got Person
	td.CmpNoError(t, dop.Unmarshal(withoutPet, &got, nil))
	td.CmpNil(t, got.Best)
}

func TestSign(t *testing.T) {
	msg, err := dop.MarshalStruct(
		types.MustParse("struct{n:int32,tags:list<string>}"),
		selfDescribingValue,
		&dop.Config{Sign: true},
	)
	td.CmpNoError(t, err)

	// Header byte and one length byte precede the body.
	for i := 2; i < len(msg); i++ {
		t.Run(fmt.Sprintf("flip byte %v", i), func(t *testing.T) {
			bad := append([]byte{}, msg...)
			bad[i] ^= 0xff

			d := dop.NewDecoder(bad, nil)
			_, err := d.Unpack("")
			td.CmpTrue(t, errors.Is(err, encio.ErrSign), "got %v", err)
			td.Cmp(t, d.ErrorCode(), encio.CodeSign)
		})
	}
}

func TestUnsignedIsNotChecked(t *testing.T) {
	msg, err := dop.MarshalStruct(
		types.MustParse("struct{s:string}"),
		types.NewStruct(types.M("s", "abc")),
		nil,
	)
	td.CmpNoError(t, err)

	msg[len(msg)-1] = 'x'
	got, err := dop.UnmarshalStruct(msg, nil)
	td.CmpNoError(t, err)
	s, _ := got.Get("s")
	td.Cmp(t, s, "abx")
}

func TestSignatureTooShort(t *testing.T) {
	d := dop.NewDecoder([]byte{byte(dop.FlagSign), 3, 0, 1, 2}, nil)
	_, err := d.Unpack("")
	td.CmpTrue(t, errors.Is(err, encio.ErrData))
}

func TestMask(t *testing.T) {
	ty := types.MustParse("struct{n:int32,tags:list<string>}")

	for _, key := range []string{"k", "seven77", "eight888", "a much longer mask key than that"} {
		t.Run(key, func(t *testing.T) {
			e := dop.NewEncoder(nil)
			td.CmpNoError(t, e.WritePID("id-1"))
			e.Mask(key)
			td.CmpNoError(t, e.WriteStruct(ty, selfDescribingValue))
			msg, err := e.Pack()
			td.CmpNoError(t, err)

			// The identifier is never masked.
			td.CmpTrue(t, bytes.Contains(msg, []byte("id-1")))

			d := dop.NewDecoder(msg, nil)
			td.CmpTrue(t, d.IsMasked())
			td.Cmp(t, d.PID(), "id-1")
			got, err := d.Unpack(key)
			td.CmpNoError(t, err)
			td.CmpTrue(t, types.Equal(got, selfDescribingValue))

			d = dop.NewDecoder(msg, nil)
			_, err = d.Unpack("")
			td.CmpTrue(t, errors.Is(err, encio.ErrMask))
			td.Cmp(t, d.ErrorCode(), encio.CodeMask)
			td.Cmp(t, d.ErrorMessage(), "data unmask error")

			// Without a signature, a wrong key either fails to decode or decodes something else.
			got, err = dop.NewDecoder(msg, nil).Unpack("?" + key)
			td.CmpTrue(t, err != nil || !types.Equal(got, selfDescribingValue))
		})
	}
}

func TestMaskWrongKeySigned(t *testing.T) {
	msg, err := dop.MarshalStruct(
		types.MustParse("struct{n:int32,tags:list<string>}"),
		selfDescribingValue,
		&dop.Config{Sign: true, MaskKey: "right key"},
	)
	td.CmpNoError(t, err)

	d := dop.NewDecoder(msg, nil)
	_, err = d.Unpack("wrong key")
	td.CmpTrue(t, errors.Is(err, encio.ErrMask), "got %v", err)

	got, err := dop.NewDecoder(msg, &dop.Config{MaskKey: "right key"}).Unpack("")
	td.CmpNoError(t, err)
	td.CmpTrue(t, types.Equal(got, selfDescribingValue))
}

func TestMaskEmptyKey(t *testing.T) {
	e := dop.NewEncoder(nil)
	e.Mask("")
	_, err := e.Pack()
	td.CmpTrue(t, errors.Is(err, encio.ErrMask))
}

func TestSize(t *testing.T) {
	msg, err := dop.Marshal(&person, nil)
	td.CmpNoError(t, err)

	longer := append([]byte{}, msg...)
	longer[1]++
	shorter := append([]byte{}, msg...)
	shorter[1]--

	for desc, bad := range map[string][]byte{
		"declared longer":  longer,
		"declared shorter": shorter,
		"truncated":        msg[:len(msg)-1],
		"extended":         append(append([]byte{}, msg...), 0),
	} {
		t.Run(desc, func(t *testing.T) {
			d := dop.NewDecoder(bad, nil)
			got, err := d.Unpack("")
			td.CmpTrue(t, errors.Is(err, encio.ErrSize), "got %v", err)
			td.CmpNil(t, got)
			td.Cmp(t, d.ErrorCode(), encio.CodeSize)
			td.Cmp(t, d.ErrorMessage(), "data length error")
		})
	}
}

func TestBadMessages(t *testing.T) {
	testCases := []struct {
		desc string
		msg  []byte
	}{
		{"empty", []byte{}},
		{"header only", []byte{0}},
		{"truncated length", []byte{0, 0xfc, 1}},
		{"truncated identifier", []byte{byte(dop.FlagPID), 2, 5, 'a'}},
		{"no schema", []byte{0, 0}},
		{"bad tag", []byte{0, 4, 3, 1, 'a', 0x33}},
		{"truncated data", []byte{0, 5, 3, 1, 'a', 0x42, 1}},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			d := dop.NewDecoder(tC.msg, nil)
			_, err := d.Unpack("")
			td.CmpTrue(t, errors.Is(err, encio.ErrData), "got %v", err)
			td.Cmp(t, d.ErrorCode(), encio.CodeData)
		})
	}
}

func TestEmptySchema(t *testing.T) {
	got, err := dop.UnmarshalStruct([]byte{0, 1, 0}, nil)
	td.CmpNoError(t, err)
	td.Cmp(t, got.Len(), 0)
}

func TestUnpackTwice(t *testing.T) {
	msg, err := dop.Marshal(&person, nil)
	td.CmpNoError(t, err)

	d := dop.NewDecoder(msg, nil)
	first, err := d.Unpack("")
	td.CmpNoError(t, err)
	second, err := d.Unpack("")
	td.CmpNoError(t, err)
	td.CmpTrue(t, first == second)
}

func TestDecoderDoesNotModifyInput(t *testing.T) {
	msg, err := dop.Marshal(&person, &dop.Config{MaskKey: "abc", Sign: true})
	td.CmpNoError(t, err)
	orig := append([]byte{}, msg...)

	_, err = dop.UnmarshalStruct(msg, &dop.Config{MaskKey: "abc"})
	td.CmpNoError(t, err)
	td.Cmp(t, msg, orig)
}

func TestEncoderMisuse(t *testing.T) {
	e := dop.NewEncoder(nil)
	e.Payload().WriteString("hi")
	td.CmpTrue(t, errors.Is(e.WritePID("late"), encio.ErrBadConfig))

	msg, err := e.Pack()
	td.CmpNoError(t, err)
	td.Cmp(t, msg[1:], []byte{3, 2, 'h', 'i'})

	_, err = e.Pack()
	td.CmpTrue(t, errors.Is(err, encio.ErrPacked))
	td.CmpTrue(t, errors.Is(e.WriteStruct(types.StructOf(), types.NewStruct()), encio.ErrPacked))

	e = dop.NewEncoder(&dop.Config{PID: "once"})
	td.CmpTrue(t, errors.Is(e.WritePID("twice"), encio.ErrBadConfig))

	e = dop.NewEncoder(nil)
	err = e.WriteStruct(types.MustParse("struct{n:int8}"), types.NewStruct(types.M("n", "x")))
	td.CmpTrue(t, errors.Is(err, encio.ErrBadType))
	td.Cmp(t, e.Payload().Size(), 0)

	td.CmpTrue(t, errors.Is(e.WriteStruct(types.Int8, types.NewStruct()), encio.ErrBadType))
	td.CmpTrue(t, errors.Is(e.Encode(42), encio.ErrBadType))

	// A failed write leaves room for the struct; a successful one doesn't.
	ty := types.MustParse("struct{n:int8}")
	td.CmpNoError(t, e.WriteStruct(ty, types.NewStruct(types.M("n", int8(1)))))
	size := e.Payload().Size()
	td.CmpTrue(t, errors.Is(e.WriteStruct(ty, types.NewStruct(types.M("n", int8(2)))), encio.ErrBadConfig))
	td.CmpTrue(t, errors.Is(e.Encode(&person), encio.ErrBadConfig))
	td.Cmp(t, e.Payload().Size(), size)

	msg, err = e.Pack()
	td.CmpNoError(t, err)
	got, err := dop.UnmarshalStruct(msg, nil)
	td.CmpNoError(t, err)
	td.CmpTrue(t, types.Equal(got, types.NewStruct(types.M("n", int8(1)))))
}

func TestLargeValues(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates several hundred MiB")
	}

	ty := types.MustParse("struct{b:binary,s:string}")
	big := make([]byte, 129<<20)
	big[0], big[len(big)-1] = 1, 2

	msg, err := dop.MarshalStruct(ty, types.NewStruct(types.M("b", big), types.M("s", "end")), nil)
	td.CmpNoError(t, err)

	got, err := dop.UnmarshalStruct(msg, nil)
	td.CmpNoError(t, err)
	b, _ := got.Get("b")
	td.CmpTrue(t, bytes.Equal(b.([]byte), big))
	s, _ := got.Get("s")
	td.Cmp(t, s, "end")
}

func TestAutoPID(t *testing.T) {
	msg, err := dop.Marshal(&person, &dop.Config{AutoPID: true})
	td.CmpNoError(t, err)

	d := dop.NewDecoder(msg, nil)
	_, err = uuid.Parse(d.PID())
	td.CmpNoError(t, err)

	msg, err = dop.Marshal(&person, &dop.Config{AutoPID: true, PID: "fixed"})
	td.CmpNoError(t, err)
	td.Cmp(t, dop.NewDecoder(msg, nil).PID(), "fixed")
}

func TestConfiguredSchemaMismatch(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.WarnLevel)

	msg, err := dop.MarshalStruct(types.MustParse("struct{n:int32,tags:list<string>}"), selfDescribingValue, nil)
	td.CmpNoError(t, err)

	_, err = dop.UnmarshalStruct(msg, &dop.Config{
		Schema: types.MustParse("struct{n:int32,tags:list<string>}"),
		Logger: &logger,
	})
	td.CmpNoError(t, err)
	td.Cmp(t, logs.Len(), 0)

	_, err = dop.UnmarshalStruct(msg, &dop.Config{
		Schema: types.MustParse("struct{n:int64}"),
		Logger: &logger,
	})
	td.CmpNoError(t, err)
	td.CmpTrue(t, bytes.Contains(logs.Bytes(), []byte("different from the configured schema")))
}

func TestFlagString(t *testing.T) {
	td.Cmp(t, dop.Flag(0).String(), "none")
	td.Cmp(t, (dop.FlagPID | dop.FlagMask).String(), "pid|mask")
	td.Cmp(t, (dop.FlagSign | dop.FlagBigEndian).String(), "sign|big-endian")
}

func BenchmarkMarshal(b *testing.B) {
	config := &dop.Config{Sign: true, MaskKey: "benchmark"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := dop.Marshal(&person, config); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	config := &dop.Config{Sign: true, MaskKey: "benchmark"}
	msg, err := dop.Marshal(&person, config)
	if err != nil {
		b.Fatal(err)
	}

	var p Person
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := dop.Unmarshal(msg, &p, config); err != nil {
			b.Fatal(err)
		}
	}
}
