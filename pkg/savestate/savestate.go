// Package savestate implements the flat byte-stream codec used to snapshot
// and restore a running system: a Writer/Reader pair over the primitive
// encodings (u8, u16, u64, bool, raw bytes) plus the Save/Load methods each
// component exposes to compose itself depth-first.
//
// The format is hand-rolled instead of encoding/gob because gob prepends
// type metadata to the stream; this codec produces (and expects) nothing
// but the field values themselves, in struct declaration order.
package savestate

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Writer serializes primitive values to an underlying byte sink.
type Writer struct {
	w   io.Writer
	buf [8]byte
	err error
}

// NewWriter wraps w. Errors from individual Write calls are latched and
// returned by Err/Flush so call sites don't need to check every write.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Err returns the first error encountered by any Write call, if any.
func (w *Writer) Err() error { return w.err }

// Flush pushes any buffered output to the underlying writer and returns
// the first error encountered, from either buffering or the flush itself.
func (w *Writer) Flush() error {
	if bw, ok := w.w.(*bufio.Writer); ok {
		if err := bw.Flush(); err != nil && w.err == nil {
			w.err = err
		}
	}
	return w.err
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

// WriteU16 writes v as two little-endian bytes.
func (w *Writer) WriteU16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.write(w.buf[:2])
}

// WriteU64 writes v as eight little-endian bytes.
func (w *Writer) WriteU64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:8], v)
	w.write(w.buf[:8])
}

// WriteBool writes v as a single byte, 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

// WriteBytes writes p verbatim; used for fixed-size arrays (RAM, VRAM, OAM).
func (w *Writer) WriteBytes(p []byte) {
	w.write(p)
}

// Reader deserializes primitive values from an underlying byte source.
type Reader struct {
	r   io.Reader
	buf [8]byte
	err error
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Err returns the first error encountered by any Read call, if any.
func (r *Reader) Err() error { return r.err }

func (r *Reader) read(p []byte) {
	if r.err != nil {
		return
	}
	if _, err := io.ReadFull(r.r, p); err != nil {
		r.err = fmt.Errorf("savestate: short read: %w", err)
	}
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() uint8 {
	r.read(r.buf[:1])
	return r.buf[0]
}

// ReadU16 reads two little-endian bytes.
func (r *Reader) ReadU16() uint16 {
	r.read(r.buf[:2])
	return binary.LittleEndian.Uint16(r.buf[:2])
}

// ReadU64 reads eight little-endian bytes.
func (r *Reader) ReadU64() uint64 {
	r.read(r.buf[:8])
	return binary.LittleEndian.Uint64(r.buf[:8])
}

// ReadBool reads a single byte and reports whether it was non-zero.
func (r *Reader) ReadBool() bool {
	return r.ReadU8() != 0
}

// ReadBytes reads exactly len(p) bytes into p.
func (r *Reader) ReadBytes(p []byte) {
	r.read(p)
}

// Saver is implemented by anything that can serialize itself depth-first
// through a Writer.
type Saver interface {
	Save(w *Writer)
}

// Loader is implemented by anything that can restore itself from the exact
// byte layout its Save method produces.
type Loader interface {
	Load(r *Reader) error
}
