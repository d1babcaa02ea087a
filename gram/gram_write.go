package gram

import (
	"math"
)

const (
	// LengthMarker16 precedes a uint16 length.
	// Lengths below it are written as a single byte.
	LengthMarker16 = 0xfc

	// LengthMarker32 precedes a uint32 length.
	// 0xfd is never written.
	LengthMarker32 = 0xfe

	// LengthMarker64 precedes a uint64 length.
	LengthMarker64 = 0xff

	// MaxLengthBytes is the maximum write size of WriteLength.
	MaxLengthBytes = 9
)

// WriteUint8 writes a single byte.
func (g *Gram) WriteUint8(n uint8) {
	g.buff[g.grow(1)] = n
}

// WriteInt8 writes a single signed byte.
func (g *Gram) WriteInt8(n int8) {
	g.WriteUint8(uint8(n))
}

// WriteBool writes 1 for true and 0 for false.
func (g *Gram) WriteBool(b bool) {
	if b {
		g.WriteUint8(1)
		return
	}
	g.WriteUint8(0)
}

// WriteUint16 writes a fixed-width uint16 in the Gram's byte order.
func (g *Gram) WriteUint16(n uint16) {
	g.order.PutUint16(g.buff[g.grow(2):], n)
}

// WriteInt16 writes a fixed-width two's-complement int16.
func (g *Gram) WriteInt16(n int16) {
	g.WriteUint16(uint16(n))
}

// WriteUint32 writes a fixed-width uint32 in the Gram's byte order.
func (g *Gram) WriteUint32(n uint32) {
	g.order.PutUint32(g.buff[g.grow(4):], n)
}

// WriteInt32 writes a fixed-width two's-complement int32.
func (g *Gram) WriteInt32(n int32) {
	g.WriteUint32(uint32(n))
}

// WriteUint64 writes a fixed-width uint64 in the Gram's byte order.
func (g *Gram) WriteUint64(n uint64) {
	g.order.PutUint64(g.buff[g.grow(8):], n)
}

// WriteInt64 writes a fixed-width two's-complement int64.
func (g *Gram) WriteInt64(n int64) {
	g.WriteUint64(uint64(n))
}

// WriteFloat32 writes an IEEE 754 single precision float.
func (g *Gram) WriteFloat32(f float32) {
	g.WriteUint32(math.Float32bits(f))
}

// WriteFloat64 writes an IEEE 754 double precision float.
func (g *Gram) WriteFloat64(f float64) {
	g.WriteUint64(math.Float64bits(f))
}

// WriteLength writes a variable-length encoding of n.
func (g *Gram) WriteLength(n uint64) {
	switch {
	case n < LengthMarker16:
		g.WriteUint8(uint8(n))
	case n <= math.MaxUint16:
		g.WriteUint8(LengthMarker16)
		g.WriteUint16(uint16(n))
	case n <= math.MaxUint32:
		g.WriteUint8(LengthMarker32)
		g.WriteUint32(uint32(n))
	default:
		g.WriteUint8(LengthMarker64)
		g.WriteUint64(n)
	}
}

// LengthSize returns the number of bytes WriteLength uses for n.
func LengthSize(n uint64) int {
	switch {
	case n < LengthMarker16:
		return 1
	case n <= math.MaxUint16:
		return 3
	case n <= math.MaxUint32:
		return 5
	default:
		return MaxLengthBytes
	}
}

// WriteBytes writes a length-prefixed byte string.
func (g *Gram) WriteBytes(buff []byte) {
	g.WriteLength(uint64(len(buff)))
	copy(g.buff[g.grow(len(buff)):], buff)
}

// WriteString writes a length-prefixed string.
func (g *Gram) WriteString(s string) {
	g.WriteLength(uint64(len(s)))
	copy(g.buff[g.grow(len(s)):], s)
}

// Join appends the contents of sub as a length-prefixed blob.
func (g *Gram) Join(sub *Gram) {
	g.WriteBytes(sub.buff)
}

// Write implements io.Writer, writing raw bytes with no length prefix.
func (g *Gram) Write(buff []byte) (int, error) {
	return copy(g.buff[g.grow(len(buff)):], buff), nil
}

// WriteByte implements io.ByteWriter
func (g *Gram) WriteByte(c byte) error {
	g.buff[g.grow(1)] = c
	return nil
}

// WriteBuff retrurns a slice for the next n bytes.
// The buffer must be written before other write calls.
func (g *Gram) WriteBuff(n int) []byte {
	l := g.grow(n)
	return g.buff[l : l+n]
}

// Sub returns a new, empty Gram with the same byte order as g, for building a nested blob that is later Joined.
func (g *Gram) Sub() *Gram {
	sub := New()
	sub.SetBigEndian(g.bigEndian)
	return sub
}
