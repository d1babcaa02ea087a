// Package gram provides a cursor over a byte buffer for reading and writing the fixed-width
// and length-prefixed primitives of the dop wire format.
//
// Reads never panic on short data. The first failure is latched on the Gram and every read after it
// returns a zero value, so a long chain of reads only needs to check Err() once at the end.
package gram

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/stewi1014/dop/encio"
)

var (
	// NewGramSize is the minumum buffer size in bytes that a new Gram will have.
	NewGramSize = 32

	nativeBigEndian = func() bool {
		x := uint16(1)
		return *(*byte)(unsafe.Pointer(&x)) == 0
	}()
)

// NativeBigEndian reports whether the host stores multi-byte integers most significant byte first.
func NativeBigEndian() bool {
	return nativeBigEndian
}

// New returns a new, empty Gram for writing, using the host byte order.
func New() *Gram {
	g := &Gram{
		buff:   GetBuffer(NewGramSize),
		pooled: true,
	}
	g.SetBigEndian(nativeBigEndian)
	return g
}

// FromBytes returns a Gram for reading buff.
// The Gram uses buff directly; it is little endian until SetBigEndian is called.
func FromBytes(buff []byte) *Gram {
	return &Gram{
		buff:  buff,
		order: binary.LittleEndian,
	}
}

// Gram provides methods for reading and writing buffers of data.
type Gram struct {
	buff      []byte
	off       int
	order     binary.ByteOrder
	bigEndian bool
	err       error
	pooled    bool
}

// Close releases the Gram's buffer for later use.
// Slices previously returned by the Gram must not be used afterwards.
func (g *Gram) Close() {
	if g.pooled {
		PutBuffer(g.buff)
	}
	g.buff = nil
	g.off = 0
	g.pooled = false
}

// Reset clears the Gram's buffer and error, retaining space for later use.
func (g *Gram) Reset() {
	g.buff = g.buff[:0]
	g.off = 0
	g.err = nil
}

// SetBigEndian selects the byte order used for multi-byte values.
func (g *Gram) SetBigEndian(big bool) {
	g.bigEndian = big
	if big {
		g.order = binary.BigEndian
	} else {
		g.order = binary.LittleEndian
	}
}

// BigEndian reports the byte order used for multi-byte values.
func (g *Gram) BigEndian() bool {
	return g.bigEndian
}

// Err returns the latched error, if any.
func (g *Gram) Err() error {
	return g.err
}

// Fail latches err unless an error is already latched. The first error wins.
func (g *Gram) Fail(err error) {
	if g.err == nil && err != nil {
		g.err = err
	}
}

// Len returns the size of the unread portion of the buffer.
func (g *Gram) Len() int {
	return len(g.buff) - g.off
}

// Size returns the total size of the buffer.
func (g *Gram) Size() int {
	return len(g.buff)
}

// Offset returns the read cursor.
func (g *Gram) Offset() int {
	return g.off
}

// Bytes returns the whole buffer, read or not.
func (g *Gram) Bytes() []byte {
	return g.buff
}

// Unread returns the unread portion of the buffer without advancing the cursor.
// The returned slice aliases the Gram's buffer.
func (g *Gram) Unread() []byte {
	return g.buff[g.off:]
}

// Rest returns a new Gram over the unread portion of the buffer, with the same byte order and error.
// The new Gram's offset 0 is g's current cursor.
func (g *Gram) Rest() *Gram {
	r := FromBytes(g.buff[g.off:])
	r.SetBigEndian(g.bigEndian)
	r.err = g.err
	g.off = len(g.buff)
	return r
}

// Trim removes the last n bytes from the buffer.
func (g *Gram) Trim(n int) {
	if n > g.Len() {
		g.fail(uint64(n))
		return
	}
	g.buff = g.buff[:len(g.buff)-n]
}

// check reports whether n more bytes can be read.
// If they can't, it latches an ErrData and moves the cursor to the end of the buffer.
func (g *Gram) check(n int) bool {
	if g.err != nil {
		return false
	}
	if g.Len() < n {
		g.fail(uint64(n))
		return false
	}
	return true
}

func (g *Gram) fail(n uint64) {
	g.Fail(encio.NewError(
		encio.ErrData,
		fmt.Sprintf("want %v bytes at offset %v but only %v remain", n, g.off, g.Len()),
		"",
	))
	g.off = len(g.buff)
}

func (g *Gram) grow(n int) (l int) {
	l = len(g.buff)
	c := cap(g.buff)
	if c >= l+n {
		g.buff = g.buff[:l+n]
		return
	}
	nb := make([]byte, l+n, c*2+n)
	copy(nb, g.buff)
	if g.pooled {
		PutBuffer(g.buff)
	}
	g.buff = nb
	return
}
