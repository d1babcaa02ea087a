package dop

import (
	"github.com/stewi1014/dop/encio"
	"github.com/stewi1014/dop/encode"
	"github.com/stewi1014/dop/gram"
	"github.com/stewi1014/dop/schema"
	"github.com/stewi1014/dop/types"
)

// NewDecoder returns a new Decoder for the message in data.
// data is copied, and is not modified.
// If config is nil, defaults are used.
func NewDecoder(data []byte, config *Config) *Decoder {
	d := &Decoder{
		config: config.copyAndFill(),
		size:   len(data),
	}

	if len(data) == 0 {
		d.g = gram.FromBytes(nil)
		d.g.Fail(encio.NewError(encio.ErrData, "empty message", "dop.NewDecoder"))
		return d
	}

	d.g = gram.FromBytes(append(make([]byte, 0, len(data)), data...))
	return d
}

// Decoder decodes a single message.
//
// The header is read lazily, so PID and IsMasked can be used to choose a mask key before Unpack.
// The first error is latched; Err, ErrorCode and ErrorMessage report it.
type Decoder struct {
	config *Config
	g      *gram.Gram
	size   int

	flags    Flag
	pid      string
	headDone bool

	unpacked bool
	schema   *schema.Schema
	result   *types.Struct
}

func (d *Decoder) unpackHead() {
	if d.headDone {
		return
	}
	d.headDone = true
	if d.g.Err() != nil {
		return
	}

	d.flags = Flag(d.g.ReadUint8())
	d.g.SetBigEndian(d.flags&FlagBigEndian != 0)

	total := d.g.ReadLength()
	if d.g.Err() != nil {
		return
	}
	if total != uint64(d.g.Len()) {
		d.g.Fail(encio.NewError(encio.ErrSize, "declared length doesn't match message size", "dop.Decoder.Unpack"))
		return
	}

	// The signature and mask cover everything after the length.
	d.g = d.g.Rest()

	if d.flags&FlagPID != 0 {
		d.pid = d.g.ReadString()
	}
}

// Flags returns the message's header flags.
func (d *Decoder) Flags() Flag {
	d.unpackHead()
	return d.flags
}

// PID returns the message identifier, or "" if it has none.
func (d *Decoder) PID() string {
	d.unpackHead()
	return d.pid
}

// IsMasked reports whether the message is masked.
func (d *Decoder) IsMasked() bool {
	d.unpackHead()
	return d.flags&FlagMask != 0
}

// Unpack checks and unmasks the message, and decodes its value.
// If maskKey is empty, the Config's MaskKey is used.
//
// On error, Unpack returns whatever was decoded before the error; nil if the error was in the framing.
// Later calls return the same result.
func (d *Decoder) Unpack(maskKey string) (*types.Struct, error) {
	if d.unpacked {
		return d.result, d.Err()
	}
	d.unpacked = true

	d.unpackHead()
	d.unpackBody(maskKey)

	err := d.Err()
	if err != nil {
		d.config.Logger.Debug().
			Int("code", int(d.ErrorCode())).
			Str("message", d.ErrorMessage()).
			Err(err).
			Msg("unpack failed")
	}
	observe(opUnpack, d.size, err)
	return d.result, err
}

func (d *Decoder) unpackBody(maskKey string) {
	if d.g.Err() != nil {
		return
	}

	if maskKey == "" {
		maskKey = d.config.MaskKey
	}

	if d.flags&FlagMask != 0 {
		if maskKey == "" {
			d.g.Fail(encio.NewError(encio.ErrMask, "message is masked but there is no mask key", "dop.Decoder.Unpack"))
			return
		}
		encio.Mask(d.g.Unread(), encio.MaskKey(maskKey))

		// A wrong key is only detectable when the message is also signed.
		if d.flags&FlagSign != 0 && !d.checkSign(encio.ErrMask, "signature doesn't match after unmasking") {
			return
		}
	} else if d.flags&FlagSign != 0 && !d.checkSign(encio.ErrSign, "signature doesn't match") {
		return
	}

	blob := d.g.ReadSub()
	d.schema = schema.Parse(blob, d.config.MaxDepth)
	if err := blob.Err(); err != nil {
		d.g.Fail(err)
		return
	}

	if d.config.Schema != nil && !d.schema.Type().Equal(d.config.Schema) {
		d.config.Logger.Warn().
			Str("want", d.config.Schema.String()).
			Str("got", d.schema.String()).
			Msg("message schema is different from the configured schema")
	}

	d.result = encode.New(d.schema, d.config.Logger).Decode(d.g).(*types.Struct)
	if d.g.Err() == nil && d.g.Len() > 0 {
		d.config.Logger.Debug().Int("bytes", d.g.Len()).Msg("ignoring bytes after data")
	}
}

// checkSign checks and removes the signature at the end of the message.
// A mismatch latches kind.
func (d *Decoder) checkSign(kind error, message string) bool {
	if d.g.Len() < encio.SignSize {
		d.g.Fail(encio.NewError(encio.ErrData, "message is too short to hold a signature", "dop.Decoder.Unpack"))
		return false
	}
	if !encio.CheckSign(d.g.Bytes()) {
		d.g.Fail(encio.NewError(kind, message, "dop.Decoder.Unpack"))
		return false
	}
	d.g.Trim(encio.SignSize)
	return true
}

// Schema returns the message's schema, once Unpack has read it.
func (d *Decoder) Schema() *schema.Schema {
	return d.schema
}

// Err returns the latched error, if any.
func (d *Decoder) Err() error {
	return d.g.Err()
}

// ErrorCode returns the numeric code of the latched error; encio.Success if there is none.
func (d *Decoder) ErrorCode() encio.Code {
	return encio.CodeOf(d.Err())
}

// ErrorMessage returns a description of ErrorCode.
func (d *Decoder) ErrorMessage() string {
	return d.ErrorCode().String()
}
