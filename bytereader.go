// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import (
	"bytes"
	"math"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"golang.org/x/text/encoding/unicode"
)

// ByteReader is a random-access little-endian reader over a seekable byte
// source: an mmap'd file or an in-memory buffer. It has no read cursor of
// its own beyond what each method call asks for, so it is safe to share a
// single ByteReader across calls that read at different offsets, but not
// across concurrent goroutines (see §5 of the spec this package implements).
type ByteReader struct {
	data mmap.MMap // set when backed by a mapped file
	buf  []byte    // set when backed by an in-memory buffer
	f    *os.File
	path string
}

// OpenByteReader memory-maps path read-only.
func OpenByteReader(path string) (*ByteReader, error) {
	const op = "ByteReader.Open"
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErr(op, err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, ioErr(op, err)
	}
	return &ByteReader{data: data, f: f, path: path}, nil
}

// NewByteReaderBytes wraps an in-memory buffer, mainly for tests.
func NewByteReaderBytes(b []byte) *ByteReader {
	return &ByteReader{buf: b}
}

func (r *ByteReader) bytes() []byte {
	if r.data != nil {
		return r.data
	}
	return r.buf
}

// Len returns the size in bytes of the underlying byte source.
func (r *ByteReader) Len() int64 { return int64(len(r.bytes())) }

// Close unmaps and closes the underlying file, if any.
func (r *ByteReader) Close() error {
	if r.data != nil {
		if err := r.data.Unmap(); err != nil {
			return ioErr("ByteReader.Close", err)
		}
		r.data = nil
	}
	if r.f != nil {
		err := r.f.Close()
		r.f = nil
		if err != nil {
			return ioErr("ByteReader.Close", err)
		}
	}
	return nil
}

func (r *ByteReader) slice(op string, offset int64, size int) ([]byte, error) {
	if offset < 0 || size < 0 {
		return nil, ioErr(op, ErrOutsideBoundary)
	}
	data := r.bytes()
	end := offset + int64(size)
	if end > int64(len(data)) {
		return nil, ioErr(op, ErrOutsideBoundary)
	}
	return data[offset:end], nil
}

// Uint8 reads a single byte at offset.
func (r *ByteReader) Uint8(offset int64) (uint8, error) {
	b, err := r.slice("ByteReader.Uint8", offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int8 reads a signed byte at offset.
func (r *ByteReader) Int8(offset int64) (int8, error) {
	v, err := r.Uint8(offset)
	return int8(v), err
}

// Uint16 reads a little-endian uint16 at offset.
func (r *ByteReader) Uint16(offset int64) (uint16, error) {
	b, err := r.slice("ByteReader.Uint16", offset, 2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// Int16 reads a little-endian int16 at offset.
func (r *ByteReader) Int16(offset int64) (int16, error) {
	v, err := r.Uint16(offset)
	return int16(v), err
}

// Uint32 reads a little-endian uint32 at offset.
func (r *ByteReader) Uint32(offset int64) (uint32, error) {
	b, err := r.slice("ByteReader.Uint32", offset, 4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// Int32 reads a little-endian int32 at offset.
func (r *ByteReader) Int32(offset int64) (int32, error) {
	v, err := r.Uint32(offset)
	return int32(v), err
}

// Uint64 reads a little-endian uint64 at offset.
func (r *ByteReader) Uint64(offset int64) (uint64, error) {
	b, err := r.slice("ByteReader.Uint64", offset, 8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// Int64 reads a little-endian int64 at offset.
func (r *ByteReader) Int64(offset int64) (int64, error) {
	v, err := r.Uint64(offset)
	return int64(v), err
}

// Uint40 reads a 40-bit little-endian unsigned integer, one of the two
// "odd" offset-index entry widths.
func (r *ByteReader) Uint40(offset int64) (uint64, error) {
	return r.uintN(offset, 5)
}

// Uint48 reads a 48-bit little-endian unsigned integer, the other "odd"
// offset-index entry width.
func (r *ByteReader) Uint48(offset int64) (uint64, error) {
	return r.uintN(offset, 6)
}

// UintN reads an n-byte (1..8) little-endian unsigned integer, used by the
// offset index for its variable-width (4, 5 or 6 byte) entries.
func (r *ByteReader) UintN(offset int64, n int) (uint64, error) {
	return r.uintN(offset, n)
}

func (r *ByteReader) uintN(offset int64, n int) (uint64, error) {
	b, err := r.slice("ByteReader.UintN", offset, n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// Float32 reads a little-endian IEEE-754 single at offset.
func (r *ByteReader) Float32(offset int64) (float32, error) {
	v, err := r.Uint32(offset)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Float64 reads a little-endian IEEE-754 double at offset.
func (r *ByteReader) Float64(offset int64) (float64, error) {
	v, err := r.Uint64(offset)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Bytes returns a (shared, not copied) slice of size bytes at offset.
func (r *ByteReader) Bytes(offset int64, size int) ([]byte, error) {
	return r.slice("ByteReader.Bytes", offset, size)
}

// UTF16LEString reads a UTF-16LE string of charLen code units (i.e.
// 2*charLen bytes) at offset. Field names, aliases and geometry-definition
// WKT strings are always stored this way, regardless of a table's use_utf8
// flag.
func (r *ByteReader) UTF16LEString(offset int64, charLen int) (string, error) {
	const op = "ByteReader.UTF16LEString"
	b, err := r.slice(op, offset, charLen*2)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", nil
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	s, err := decoder.Bytes(b)
	if err != nil {
		return "", malformedErr(op, err)
	}
	return string(bytes.TrimRight(s, "\x00")), nil
}

// UTF8String reads a UTF-8 string of byteLen bytes at offset, used by
// use_utf8 tables for their String/XML field values.
func (r *ByteReader) UTF8String(offset int64, byteLen int) (string, error) {
	b, err := r.slice("ByteReader.UTF8String", offset, byteLen)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Uvarint reads an unsigned LEB128 varint (continuation bit = top bit,
// payload = low 7 bits, little-endian) starting at offset. It returns the
// decoded value and the offset immediately following the varint.
func (r *ByteReader) Uvarint(offset int64) (uint64, int64, error) {
	const op = "ByteReader.Uvarint"
	var result uint64
	var shift uint
	cur := offset
	for {
		if shift >= 64 {
			return 0, 0, malformedf(op, "varint overflows 64 bits at offset %d", offset)
		}
		b, err := r.Uint8(cur)
		if err != nil {
			return 0, 0, err
		}
		cur++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, cur, nil
		}
		shift += 7
	}
}
