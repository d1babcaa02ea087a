package dop

import (
	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/encode"
	"github.com/stewi1014/dop/gram"
	"github.com/stewi1014/dop/schema"
	"github.com/stewi1014/dop/types"
)

// NewEncoder returns a new Encoder for one message.
// If config is nil, defaults are used.
func NewEncoder(config *Config) *Encoder {
	e := &Encoder{
		config:  config.copyAndFill(),
		payload: gram.New(),
	}

	if pid := e.config.pid(); pid != "" {
		e.err = e.WritePID(pid)
	}
	if e.config.Sign {
		e.Sign()
	}
	if e.config.MaskKey != "" {
		e.Mask(e.config.MaskKey)
	}

	return e
}

// Encoder builds a single message.
// Values are appended to the payload, and Pack frames the payload into the finished message.
//
// An Encoder must not be used concurrently, or after Pack.
type Encoder struct {
	config  *Config
	payload *gram.Gram
	flags   Flag
	maskKey []byte
	pidLen  int
	written bool
	packed  bool
	err     error
}

// WritePID writes pid as the message identifier.
// It must be called before anything else is written.
func (e *Encoder) WritePID(pid string) error {
	if e.packed {
		return encio.NewError(encio.ErrPacked, "cannot write identifier", "")
	}
	if e.flags&FlagPID != 0 || e.payload.Size() != 0 {
		return encio.NewError(encio.ErrBadConfig, "identifier must be written first, and only once", "")
	}

	e.flags |= FlagPID
	e.payload.WriteString(pid)
	e.pidLen = e.payload.Size()
	return nil
}

// Sign makes Pack append a signature to the payload.
func (e *Encoder) Sign() {
	e.flags |= FlagSign
}

// Mask makes Pack mask the payload after the identifier with key.
// Keys shorter than encio.MinMaskKeyLen are replaced with the hex MD5 sum of the key.
// An empty key makes Pack fail with encio.ErrMask.
func (e *Encoder) Mask(key string) {
	e.flags |= FlagMask
	if key == "" {
		e.maskKey = nil
		return
	}
	e.maskKey = encio.MaskKey(key)
}

// Flags returns the flags the message will be packed with.
// FlagBigEndian is only known after Pack.
func (e *Encoder) Flags() Flag {
	return e.flags
}

// Payload returns the Gram holding the payload, for writing primitive values directly.
// It must not be used after Pack.
func (e *Encoder) Payload() *gram.Gram {
	return e.payload
}

// Encode writes the schema and value of the Go struct pointed to by v.
func (e *Encoder) Encode(v interface{}) error {
	t, err := types.Of(v)
	if err != nil {
		return err
	}
	value, err := types.ValueOf(v)
	if err != nil {
		return err
	}
	s, ok := value.(*types.Struct)
	if !ok || s == nil {
		return encio.NewError(encio.ErrBadType, "cannot encode a nil struct", "")
	}
	return e.WriteStruct(t, s)
}

// WriteStruct writes the schema blob for struct type t, followed by the data blob for v.
// Nothing is written if v does not conform to t.
func (e *Encoder) WriteStruct(t *types.Type, v *types.Struct) error {
	s, err := schema.FromType(t, e.config.MaxDepth)
	if err != nil {
		return err
	}
	return e.WriteSchema(s, v)
}

// WriteSchema is WriteStruct with a prepared Schema.
// A message holds one struct; writing a second is an error.
func (e *Encoder) WriteSchema(s *schema.Schema, v *types.Struct) error {
	if e.packed {
		return encio.NewError(encio.ErrPacked, "cannot write struct", "")
	}
	if e.written {
		return encio.NewError(encio.ErrBadConfig, "a message holds only one struct", "")
	}

	blob := e.payload.Sub()
	defer blob.Close()
	s.Encode(blob)

	data := e.payload.Sub()
	defer data.Close()
	if err := encode.New(s, e.config.Logger).Encode(data, v); err != nil {
		return err
	}

	e.payload.Join(blob)
	if _, err := e.payload.Write(data.Bytes()); err != nil {
		return err
	}
	e.written = true
	return nil
}

// Pack finishes the message and returns it.
// An Encoder can only be packed once.
func (e *Encoder) Pack() ([]byte, error) {
	if e.packed {
		return nil, encio.NewError(encio.ErrPacked, "", "")
	}
	e.packed = true
	defer e.payload.Close()

	if e.err != nil {
		observe(opPack, 0, e.err)
		return nil, e.err
	}
	if e.flags&FlagMask != 0 && len(e.maskKey) == 0 {
		err := encio.NewError(encio.ErrMask, "masking needs a non-empty key", "")
		observe(opPack, 0, err)
		return nil, err
	}

	if e.flags&FlagSign != 0 {
		_, _ = e.payload.Write(encio.Sign(e.payload.Bytes()))
	}

	body := e.payload.Bytes()
	if e.flags&FlagMask != 0 {
		encio.Mask(body[e.pidLen:], e.maskKey)
	}

	if e.payload.BigEndian() {
		e.flags |= FlagBigEndian
	}

	out := e.payload.Sub()
	defer out.Close()
	out.WriteUint8(uint8(e.flags))
	out.WriteLength(uint64(len(body)))
	_, _ = out.Write(body)

	msg := append(make([]byte, 0, out.Size()), out.Bytes()...)

	e.config.Logger.Debug().
		Str("flags", e.flags.String()).
		Int("size", len(msg)).
		Msg("packed message")
	observe(opPack, len(msg), nil)
	return msg, nil
}
