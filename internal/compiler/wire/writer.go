// Package wire writes the little-endian binary primitives of the output
// format: fixed-width integers, 7-bit variable-length integers, IEEE floats
// and length-prefixed strings.
package wire

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/x448/float16"
)

// Writer is a byte sink with sticky errors: after the first failed write
// every further write is a no-op and Err reports the failure.
type Writer struct {
	w   io.Writer
	n   int64
	err error
	buf [binary.MaxVarintLen64]byte
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error, if any.
func (w *Writer) Err() error { return w.err }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int64 { return w.n }

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.n += int64(n)
	if err != nil {
		w.err = err
	}
	return n, err
}

func (w *Writer) put(p []byte) {
	_, _ = w.Write(p)
}

// Bool writes one byte, 1 for true.
func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

// Uint8 writes one byte.
func (w *Writer) Uint8(v uint8) {
	w.buf[0] = v
	w.put(w.buf[:1])
}

// Int16 writes two bytes little-endian.
func (w *Writer) Int16(v int16) {
	binary.LittleEndian.PutUint16(w.buf[:2], uint16(v))
	w.put(w.buf[:2])
}

// Int32 writes four bytes little-endian.
func (w *Writer) Int32(v int32) {
	binary.LittleEndian.PutUint32(w.buf[:4], uint32(v))
	w.put(w.buf[:4])
}

// Int64 writes eight bytes little-endian.
func (w *Writer) Int64(v int64) {
	binary.LittleEndian.PutUint64(w.buf[:8], uint64(v))
	w.put(w.buf[:8])
}

// Varint32 writes v as a 7-bit variable-length integer. Negative values are
// reinterpreted as unsigned 32-bit and take five bytes.
func (w *Writer) Varint32(v int32) {
	n := binary.PutUvarint(w.buf[:], uint64(uint32(v)))
	w.put(w.buf[:n])
}

// Varint64 writes v as a 7-bit variable-length integer over 64 bits.
func (w *Writer) Varint64(v int64) {
	n := binary.PutUvarint(w.buf[:], uint64(v))
	w.put(w.buf[:n])
}

// Half writes v rounded to the nearest IEEE half precision value.
func (w *Writer) Half(v float64) {
	binary.LittleEndian.PutUint16(w.buf[:2], float16.Fromfloat32(toOddFloat32(v)).Bits())
	w.put(w.buf[:2])
}

// toOddFloat32 narrows v with round-to-odd: an inexact result is truncated
// toward zero and gets its lowest mantissa bit set. A second rounding to half
// precision then gives the same result as rounding v directly.
func toOddFloat32(v float64) float32 {
	f := float32(v)
	if float64(f) == v || math.IsNaN(v) || math.IsInf(float64(f), 0) {
		return f
	}
	bits := math.Float32bits(f)
	if math.Abs(float64(f)) > math.Abs(v) {
		bits--
	}
	return math.Float32frombits(bits | 1)
}

// Float32 writes an IEEE single precision value.
func (w *Writer) Float32(v float32) {
	binary.LittleEndian.PutUint32(w.buf[:4], math.Float32bits(v))
	w.put(w.buf[:4])
}

// Float64 writes an IEEE double precision value.
func (w *Writer) Float64(v float64) {
	binary.LittleEndian.PutUint64(w.buf[:8], math.Float64bits(v))
	w.put(w.buf[:8])
}

// Bytes writes p unmodified.
func (w *Writer) Bytes(p []byte) {
	w.put(p)
}
