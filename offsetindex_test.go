// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "testing"

func putInt32LE(b []byte, off int, v int32) {
	u := uint32(v)
	b[off] = byte(u)
	b[off+1] = byte(u >> 8)
	b[off+2] = byte(u >> 16)
	b[off+3] = byte(u >> 24)
}

func putInt64LE(b []byte, off int, v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b[off+i] = byte(u >> (8 * i))
	}
}

// TestEmptyOffsetIndex covers the catalog-of-empty-gdb scenario: a v4 offset
// index with num1kBlocks=0 reports MaxObjectID()==0 and every lookup misses.
func TestEmptyOffsetIndex(t *testing.T) {
	buf := make([]byte, offsetIndexHeaderSize)
	putInt32LE(buf, 0, 4) // version
	putInt32LE(buf, 4, 0) // num1kBlocks
	putInt32LE(buf, 12, 4) // offsetSize

	oi, err := OpenOffsetIndexReader(NewByteReaderBytes(buf))
	if err != nil {
		t.Fatalf("OpenOffsetIndexReader failed, reason: %v", err)
	}
	if oi.MaxObjectID() != 0 {
		t.Errorf("MaxObjectID() = %d, want 0", oi.MaxObjectID())
	}
	if _, ok, err := oi.RowOffset(1); err != nil || ok {
		t.Errorf("RowOffset(1) = (_, %v), want (_, false)", ok)
	}
}

func TestOffsetIndexV4DenseLookup(t *testing.T) {
	const offsetSize = 4
	const dataBytes = 1024 * offsetSize
	trailerOffset := offsetIndexHeaderSize + dataBytes
	buf := make([]byte, trailerOffset+12)

	putInt32LE(buf, 0, 4)          // version
	putInt32LE(buf, 4, 1)          // num1kBlocks
	putInt32LE(buf, 12, offsetSize) // offsetSize

	putInt32LE(buf, offsetIndexHeaderSize+0*offsetSize, 100) // oid 1 -> offset 100
	putInt32LE(buf, offsetIndexHeaderSize+1*offsetSize, 250) // oid 2 -> offset 250
	// oid 3 left as zero (absent)

	putInt64LE(buf, trailerOffset, 3) // numRows
	putInt32LE(buf, trailerOffset+8, 0) // sectionBytes (no holes)

	oi, err := OpenOffsetIndexReader(NewByteReaderBytes(buf))
	if err != nil {
		t.Fatalf("OpenOffsetIndexReader failed, reason: %v", err)
	}
	if oi.MaxObjectID() != 3 {
		t.Fatalf("MaxObjectID() = %d, want 3", oi.MaxObjectID())
	}

	off, ok, err := oi.RowOffset(1)
	if err != nil || !ok || off != 100 {
		t.Errorf("RowOffset(1) = (%d, %v), want (100, true)", off, ok)
	}
	off, ok, err = oi.RowOffset(2)
	if err != nil || !ok || off != 250 {
		t.Errorf("RowOffset(2) = (%d, %v), want (250, true)", off, ok)
	}
	_, ok, err = oi.RowOffset(3)
	if err != nil || ok {
		t.Errorf("RowOffset(3) = (_, %v), want (_, false)", ok)
	}
}
