package gram

import (
	"io"
	"math"
)

// ReadUint8 reads a single byte.
func (g *Gram) ReadUint8() uint8 {
	if !g.check(1) {
		return 0
	}
	g.off++
	return g.buff[g.off-1]
}

// ReadInt8 reads a single signed byte.
func (g *Gram) ReadInt8() int8 {
	return int8(g.ReadUint8())
}

// ReadBool reads a single byte, returning true if it is not 0.
func (g *Gram) ReadBool() bool {
	return g.ReadUint8() != 0
}

// ReadUint16 reads a fixed-width uint16 in the Gram's byte order.
func (g *Gram) ReadUint16() uint16 {
	if !g.check(2) {
		return 0
	}
	g.off += 2
	return g.order.Uint16(g.buff[g.off-2:])
}

// ReadInt16 reads a fixed-width two's-complement int16.
func (g *Gram) ReadInt16() int16 {
	return int16(g.ReadUint16())
}

// ReadUint32 reads a fixed-width uint32 in the Gram's byte order.
func (g *Gram) ReadUint32() uint32 {
	if !g.check(4) {
		return 0
	}
	g.off += 4
	return g.order.Uint32(g.buff[g.off-4:])
}

// ReadInt32 reads a fixed-width two's-complement int32.
func (g *Gram) ReadInt32() int32 {
	return int32(g.ReadUint32())
}

// ReadUint64 reads a fixed-width uint64 in the Gram's byte order.
func (g *Gram) ReadUint64() uint64 {
	if !g.check(8) {
		return 0
	}
	g.off += 8
	return g.order.Uint64(g.buff[g.off-8:])
}

// ReadInt64 reads a fixed-width two's-complement int64.
func (g *Gram) ReadInt64() int64 {
	return int64(g.ReadUint64())
}

// ReadFloat32 reads an IEEE 754 single precision float.
func (g *Gram) ReadFloat32() float32 {
	return math.Float32frombits(g.ReadUint32())
}

// ReadFloat64 reads an IEEE 754 double precision float.
func (g *Gram) ReadFloat64() float64 {
	return math.Float64frombits(g.ReadUint64())
}

// ReadLength reads a variable-length encoded length or count.
// Markers 0xfd and 0xff both take the 64-bit follow-up.
func (g *Gram) ReadLength() uint64 {
	marker := g.ReadUint8()
	switch {
	case marker < LengthMarker16:
		return uint64(marker)
	case marker == LengthMarker16:
		return uint64(g.ReadUint16())
	case marker == LengthMarker32:
		return uint64(g.ReadUint32())
	default:
		return g.ReadUint64()
	}
}

// ReadBuff reads n bytes, returning a slice for the read region.
// The slice aliases the Gram's buffer.
func (g *Gram) ReadBuff(n uint64) []byte {
	if g.err != nil {
		return nil
	}
	if n > uint64(g.Len()) {
		g.fail(n)
		return nil
	}
	g.off += int(n)
	return g.buff[g.off-int(n) : g.off]
}

// ReadBytes reads a length-prefixed byte string, returning a copy.
func (g *Gram) ReadBytes() []byte {
	l := g.ReadLength()
	buff := g.ReadBuff(l)
	if g.err != nil {
		return []byte{}
	}
	return append(make([]byte, 0, len(buff)), buff...)
}

// ReadString reads a length-prefixed string.
func (g *Gram) ReadString() string {
	l := g.ReadLength()
	return string(g.ReadBuff(l))
}

// ReadSub reads a length-prefixed blob, returning a new Gram for reading it.
// The returned Gram shares the byte order but has its own cursor and error.
// If the blob cannot be read, the error is latched on g and an empty Gram is returned.
func (g *Gram) ReadSub() *Gram {
	l := g.ReadLength()
	sub := FromBytes(g.ReadBuff(l))
	sub.SetBigEndian(g.bigEndian)
	return sub
}

// Read implements io.Reader, reading raw bytes with no length prefix.
func (g *Gram) Read(buff []byte) (int, error) {
	if g.err != nil {
		return 0, g.err
	}
	c := copy(buff, g.buff[g.off:])
	g.off += c
	if g.off == len(g.buff) {
		return c, io.EOF
	}
	return c, nil
}

// ReadByte implements io.ByteReader
func (g *Gram) ReadByte() (byte, error) {
	if g.err != nil {
		return 0, g.err
	}
	if g.off == len(g.buff) {
		return 0, io.EOF
	}
	g.off++
	return g.buff[g.off-1], nil
}
