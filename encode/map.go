package encode

import (
	"github.com/rs/zerolog"

	"github.com/stewi1014/dop/gram"
	"github.com/stewi1014/dop/types"
)

// NewMap returns a new map Encodable.
func NewMap(key, val Encodable, log *zerolog.Logger) *Map {
	return &Map{
		key: key,
		val: val,
		log: log,
	}
}

// Map is an Encodable for maps; a count followed by that many key, value pairs.
// Values are types.Map. A nil value encodes as an empty map.
//
// When decoding, a key that appears twice keeps its first position and takes the later value.
type Map struct {
	key, val Encodable
	log      *zerolog.Logger
}

// Size implements Encodable.
func (e *Map) Size() int { return 1 }

// Kind implements Encodable.
func (e *Map) Kind() types.Kind { return types.KindMap }

// Key returns the key Encodable.
func (e *Map) Key() Encodable { return e.key }

// Elem returns the value Encodable.
func (e *Map) Elem() Encodable { return e.val }

// Encode implements Encodable.
func (e *Map) Encode(g *gram.Gram, v interface{}) error {
	if v == nil {
		g.WriteLength(0)
		return nil
	}

	m, ok := v.(types.Map)
	if !ok {
		return badValue(e, v)
	}
	if err := checkLen(e, len(m), e.key.Size()+e.val.Size()); err != nil {
		return err
	}

	g.WriteLength(uint64(len(m)))
	for _, p := range m {
		if err := encodeElem(e.key, g, p.Key); err != nil {
			return err
		}
		if err := encodeElem(e.val, g, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// bytesKey indexes binary keys, which can't be map keys themselves.
type bytesKey string

// Decode implements Encodable.
func (e *Map) Decode(g *gram.Gram) interface{} {
	n := g.ReadLength()
	if !checkCount(g, n, e.key.Size()+e.val.Size()) {
		return types.Map{}
	}

	var index map[interface{}]int
	keyKind := e.key.Kind()
	if keyKind.Scalar() {
		index = make(map[interface{}]int, n)
	}

	m := make(types.Map, 0, n)
	for i := uint64(0); i < n && g.Err() == nil; i++ {
		key := e.key.Decode(g)
		val := e.val.Decode(g)

		var (
			at  int
			dup bool
		)
		if index != nil {
			ik := key
			if b, isBytes := key.([]byte); isBytes {
				ik = bytesKey(b)
			}
			if at, dup = index[ik]; !dup {
				index[ik] = len(m)
			}
		} else {
			for j := range m {
				if types.Equal(m[j].Key, key) {
					at, dup = j, true
					break
				}
			}
		}

		if dup {
			e.log.Debug().Str("key", types.Sprint(key)).Msg("duplicate map key overwritten")
			m[at].Value = val
			continue
		}
		m = append(m, types.Pair{Key: key, Value: val})
	}
	return m
}
