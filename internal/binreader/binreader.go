// Package binreader provides little-endian primitive reads over a seekable
// in-memory byte cursor, the foundation every other decoder in this module
// is built on.
package binreader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
)

// Reader is a seekable cursor over an in-memory byte buffer. It is not safe
// for concurrent use; one Reader belongs to exactly one decode call.
type Reader struct {
	r *bytes.Reader
}

// New wraps buf for little-endian structured reads. The caller retains
// ownership of buf; Reader never mutates it.
func New(buf []byte) *Reader {
	return &Reader{r: bytes.NewReader(buf)}
}

// Len returns the total size of the underlying buffer.
func (r *Reader) Len() int64 {
	return int64(r.r.Size())
}

// Position returns the current read offset.
func (r *Reader) Position() int64 {
	pos, _ := r.r.Seek(0, io.SeekCurrent)
	return pos
}

// Seek repositions the cursor, following io.Seeker semantics.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	return r.r.Seek(offset, whence)
}

// Rewind seeks back to the beginning of the buffer.
func (r *Reader) Rewind() error {
	_, err := r.r.Seek(0, io.SeekStart)
	return err
}

func wrapf(kind string, err error) error {
	return fmt.Errorf("failed reading %s: %w", kind, err)
}

// ReadBytes reads n raw bytes verbatim.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, wrapf(fmt.Sprintf("%d raw bytes", n), err)
	}
	return buf, nil
}

func (r *Reader) readFixed(kind string, buf []byte) error {
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return wrapf(kind, err)
	}
	return nil
}

// ReadU8 reads an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	var buf [1]byte
	if err := r.readFixed("u8", buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadI8 reads a signed 8-bit integer.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	var buf [2]byte
	if err := r.readFixed("u16", buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// ReadI16 reads a little-endian signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	var buf [4]byte
	if err := r.readFixed("u32", buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadI32 reads a little-endian signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads a little-endian unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	var buf [8]byte
	if err := r.readFixed("u64", buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ReadI64 reads a little-endian signed 64-bit integer.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 reads a little-endian IEEE-754 single-precision float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads a little-endian IEEE-754 double-precision float.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadUUID reads a 16-byte UUID verbatim, preserving byte order as written.
func (r *Reader) ReadUUID() (uuid.UUID, error) {
	buf, err := r.ReadBytes(16)
	if err != nil {
		return uuid.UUID{}, wrapf("uuid (16 bytes)", err)
	}
	var id uuid.UUID
	copy(id[:], buf)
	return id, nil
}

// ReadI32Vec reads n consecutive little-endian i32 elements.
func (r *Reader) ReadI32Vec(n int) ([]int32, error) {
	out := make([]int32, n)
	for i := range out {
		v, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadF32Vec reads n consecutive little-endian f32 elements.
func (r *Reader) ReadF32Vec(n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		v, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadF32Mat reads a rows x cols, row-major matrix of little-endian f32
// elements (element order exactly as written on disk).
func (r *Reader) ReadF32Mat(rows, cols int) ([][]float32, error) {
	mat := make([][]float32, rows)
	for i := range mat {
		row, err := r.ReadF32Vec(cols)
		if err != nil {
			return nil, err
		}
		mat[i] = row
	}
	return mat, nil
}
