// Package mock generates random sample values.
//
// Generator.Value returns a value tree conforming to any Type, ready to be encoded.
// The remaining helpers produce strings in the formats dop/validate checks for.
package mock

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/stewi1014/dop/types"
)

// DefaultMaxLen is the default Generator.MaxLen.
const DefaultMaxLen = 8

// Generator produces random values.
// A Generator is not safe for concurrent use.
type Generator struct {
	rand *rand.Rand

	// MaxLen is the maximum number of elements in generated lists and maps,
	// and the maximum length of generated strings and binaries.
	MaxLen int

	// NullFields is the chance, between 0 and 1, that a struct field of struct type is left null.
	NullFields float64

	// Now is the time Date and DateTime generate around.
	Now func() time.Time
}

// New returns a Generator seeded with seed.
// Generators with the same seed produce the same values.
func New(seed int64) *Generator {
	return &Generator{
		rand:       rand.New(rand.NewSource(seed)),
		MaxLen:     DefaultMaxLen,
		NullFields: 0.25,
		Now:        time.Now,
	}
}

func (g *Generator) length() int {
	if g.MaxLen <= 0 {
		return 0
	}
	return g.rand.Intn(g.MaxLen + 1)
}

// Value returns a random value of type t.
func (g *Generator) Value(t *types.Type) interface{} {
	switch t.Kind {
	case types.KindString:
		return g.StrRange(0, g.MaxLen)
	case types.KindBinary:
		b := make([]byte, g.length())
		g.rand.Read(b)
		return b
	case types.KindBool:
		return g.rand.Intn(2) == 1
	case types.KindFloat32:
		return float32(g.FloatRange(-1000, 1000, 2))
	case types.KindFloat64:
		return g.FloatRange(-1e6, 1e6, 4)
	case types.KindInt8:
		return int8(g.rand.Uint32())
	case types.KindUInt8:
		return uint8(g.rand.Uint32())
	case types.KindInt16:
		return int16(g.rand.Uint32())
	case types.KindUInt16:
		return uint16(g.rand.Uint32())
	case types.KindInt32:
		return int32(g.rand.Uint32())
	case types.KindUInt32:
		return g.rand.Uint32()
	case types.KindInt64:
		return int64(g.rand.Uint64())

	case types.KindList:
		list := make([]interface{}, g.length())
		for i := range list {
			list[i] = g.Value(t.Elem)
		}
		return list

	case types.KindMap:
		n := g.length()
		m := make(types.Map, 0, n)
		for i := 0; i < n; i++ {
			// Repeated keys overwrite, so small key types give fewer pairs.
			m.Set(g.Value(t.Key), g.Value(t.Elem))
		}
		return m

	case types.KindStruct:
		return g.Struct(t)
	}

	return nil
}

// Struct returns a random struct of type t, with every field set.
// Fields of struct type are null with probability g.NullFields.
func (g *Generator) Struct(t *types.Type) *types.Struct {
	s := types.NewStruct()
	for _, f := range t.Fields {
		if f.Type.Kind == types.KindStruct && g.rand.Float64() < g.NullFields {
			s.Set(f.Name, (*types.Struct)(nil))
			continue
		}
		s.Set(f.Name, g.Value(f.Type))
	}
	return s
}

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// StrRange returns a string of ASCII letters with a length between min and max inclusive.
func (g *Generator) StrRange(min, max int) string {
	if max < min {
		max = min
	}
	n := min + g.rand.Intn(max-min+1)
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[g.rand.Intn(len(letters))]
	}
	return string(b)
}

// FloatRange returns a float between min and max rounded to precision decimal places.
// If max is not more than min, it is min+1.
func (g *Generator) FloatRange(min, max float64, precision int) float64 {
	if max <= min {
		max = min + 1
	}
	f := min + g.rand.Float64()*(max-min)
	p := math.Pow10(precision)
	return math.Round(f*p) / p
}

var mobilePrefixes = []string{
	"130", "131", "132", "133", "134", "135", "136", "137", "138", "139",
	"150", "151", "152", "153", "155", "156", "158", "159",
	"170", "176", "177",
	"180", "181", "182", "183", "184", "186", "189",
}

// Mobile returns a mainland China mobile number.
func (g *Generator) Mobile() string {
	return mobilePrefixes[g.rand.Intn(len(mobilePrefixes))] + strconv.Itoa(10000000+g.rand.Intn(90000000))
}

// Email returns a numeric qq.com email address.
func (g *Generator) Email() string {
	return strconv.FormatInt(10000000+g.rand.Int63n(999999999999-10000000+1), 10) + "@qq.com"
}

var (
	familyNames = []rune("赵孙李周郑王陈杨朱许何张严魏谢邹苏范彭马雷黄罗安")
	givenNames  = []rune("伟刚勇毅俊峰强军平保东文辉力明永健世广志义兴良海山仁波宁贵福生龙元全国胜学祥才发武新利清" +
		"飞彬富顺信子杰涛昌成康星光天达安岩中茂进林有坚和彪博诚先敬震振壮会思群豪心邦承乐绍功松善厚庆磊民" +
		"秀娟英华慧巧美娜静淑惠珠翠雅芝玉萍红娥玲芬芳燕彩春菊兰凤洁梅琳素云莲真环雪荣爱妹霞香月莺媛艳瑞凡佳" +
		"宇雨洋忠宗曼紫逸贤蝶菡绿蓝儿烟")
)

// ChineseName returns a family name followed by one or two given name characters.
func (g *Generator) ChineseName() string {
	name := []rune{familyNames[g.rand.Intn(len(familyNames))], givenNames[g.rand.Intn(len(givenNames))]}
	if g.rand.Intn(101) > 40 {
		name = append(name, givenNames[g.rand.Intn(len(givenNames))])
	}
	return string(name)
}

func (g *Generator) moment() time.Time {
	now := g.Now()
	from, to := now.AddDate(-1, 0, 0).Unix(), now.AddDate(1, 0, 0).Unix()
	return time.Unix(from+g.rand.Int63n(to-from+1), 0).In(now.Location())
}

// Date returns a date between a year before and a year after g.Now, formatted like 2006-01-02.
func (g *Generator) Date() string {
	return g.moment().Format("2006-01-02")
}

// DateTime is Date with a time of day, formatted like 2006-01-02 15:04:05.
func (g *Generator) DateTime() string {
	return g.moment().Format("2006-01-02 15:04:05")
}
