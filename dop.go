// Package dop implements the dop wire format; compact, self-describing messages carrying a typed value tree.
//
// A message is a header byte of option flags, the length of the rest of the message,
// an optional identifier, and a body holding a schema blob and a data blob.
// The schema blob describes the root struct, so a receiver can decode a message without knowing its shape.
// The body can be signed with a truncated MD5 sum to detect corruption,
// and masked with a repeating XOR key. Masking is obfuscation, not encryption.
//
// dop/gram provides the primitive cursor codec, dop/schema the descriptor tree and schema blob,
// and dop/encode the data blob codec.
package dop

import (
	"errors"
	"strings"

	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/types"
)

// Flag is a message's header byte.
type Flag uint8

// Message option flags.
const (
	// FlagPID is set when the message carries an identifier.
	FlagPID Flag = 1 << iota

	// FlagSign is set when the body is followed by a signature.
	FlagSign

	// FlagMask is set when the body is masked.
	FlagMask

	// FlagBigEndian is set when multi-byte values are big endian.
	FlagBigEndian
)

var flagNames = []string{"pid", "sign", "mask", "big-endian"}

// String implements fmt.Stringer.
func (f Flag) String() string {
	names := make([]string, 0, len(flagNames))
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Marshal encodes the Go struct pointed to by v into a message.
// Fields are encoded in declaration order, named by their `dop:"name"` tag or their Go name.
func Marshal(v interface{}, config *Config) ([]byte, error) {
	e := NewEncoder(config)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return e.Pack()
}

// MarshalStruct encodes v as the struct type t into a message.
func MarshalStruct(t *types.Type, v *types.Struct, config *Config) ([]byte, error) {
	e := NewEncoder(config)
	if err := e.WriteStruct(t, v); err != nil {
		return nil, err
	}
	return e.Pack()
}

// Unmarshal decodes a message into the Go struct pointed to by v.
// Members with no matching field in v are ignored.
func Unmarshal(data []byte, v interface{}, config *Config) error {
	d := NewDecoder(data, config)
	s, err := d.Unpack("")
	if err != nil {
		return err
	}
	return types.Assign(v, s)
}

// UnmarshalStruct decodes a message into a value tree.
func UnmarshalStruct(data []byte, config *Config) (*types.Struct, error) {
	return NewDecoder(data, config).Unpack("")
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, encio.ErrBadType):
		return "bad_type"
	case errors.Is(err, encio.ErrBadConfig):
		return "bad_config"
	case errors.Is(err, encio.ErrPacked):
		return "packed"
	}

	switch encio.CodeOf(err) {
	case encio.CodeSize:
		return "size"
	case encio.CodeSign:
		return "sign"
	case encio.CodeMask:
		return "mask"
	default:
		return "data"
	}
}
