// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "math/bits"

const offsetIndexHeaderSize = 16

// OffsetIndexReader maps a table's 1-based object identifier to a byte
// offset in the data file (spec §4.1).
type OffsetIndexReader struct {
	r *ByteReader

	version      int32
	num1kBlocks  int32
	offsetSize   int
	maxObjectID  int64

	// blockMap is nil for a dense file (no sparse blocks omitted).
	blockMap []byte

	// popcountCache memoizes the running popcount over blockMap for the
	// blocks before popcountedBlock (exclusive), since sequential scans
	// repeatedly ask about adjacent blocks (spec §4.1 rationale).
	popcountCache   int64
	popcountedBlock int32
	havePopcount    bool
}

// OpenOffsetIndexReader parses the header (and, for v3, the trailer and
// optional block map) of an already-open .gdbtablx byte source.
func OpenOffsetIndexReader(r *ByteReader) (*OffsetIndexReader, error) {
	const op = "OpenOffsetIndexReader"

	version, err := r.Int32(0)
	if err != nil {
		return nil, err
	}

	oi := &OffsetIndexReader{r: r, version: version}

	switch version {
	case 3:
		if err := oi.parseV3Header(); err != nil {
			return nil, err
		}
	case 4:
		if err := oi.parseV4Header(); err != nil {
			return nil, err
		}
	default:
		return nil, unsupportedf(op, "offset index has unsupported version %d", version)
	}

	if oi.offsetSize < 4 || oi.offsetSize > 6 {
		return nil, unsupportedf(op, "offset index has unsupported offset size %d", oi.offsetSize)
	}

	return oi, nil
}

func (oi *OffsetIndexReader) parseV3Header() error {
	const op = "OffsetIndexReader.parseV3Header"

	num1kBlocks, err := oi.r.Int32(4)
	if err != nil {
		return err
	}
	numRows, err := oi.r.Int32(8)
	if err != nil {
		return err
	}
	offsetSize, err := oi.r.Int32(12)
	if err != nil {
		return err
	}

	oi.num1kBlocks = num1kBlocks
	oi.offsetSize = int(offsetSize)
	oi.maxObjectID = int64(numRows)

	if num1kBlocks <= 0 {
		return nil
	}

	trailerOffset := int64(offsetIndexHeaderSize) + 1024*int64(num1kBlocks)*int64(offsetSize)
	bitmapWords, err := oi.r.Uint32(trailerOffset)
	if err != nil {
		return err
	}
	numBits, err := oi.r.Uint32(trailerOffset + 4)
	if err != nil {
		return err
	}
	num1kBlocksBis, err := oi.r.Uint32(trailerOffset + 8)
	if err != nil {
		return err
	}
	if int32(num1kBlocksBis) != num1kBlocks {
		return malformedf(op, "trailer num_1k_blocks mismatch: %d != %d", num1kBlocksBis, num1kBlocks)
	}
	// leading_nonzero_words at trailerOffset+12 is not needed for lookup.

	if bitmapWords == 0 {
		return nil // dense file, no block map
	}

	bitmapBytes := int((numBits + 7) / 8)
	bitmap, err := oi.r.Bytes(trailerOffset+16, bitmapBytes)
	if err != nil {
		return err
	}
	oi.blockMap = bitmap

	setBits := popcountBytes(bitmap)
	if int32(setBits) != num1kBlocks {
		return malformedf(op, "block map has %d set bits, want %d", setBits, num1kBlocks)
	}

	return nil
}

func (oi *OffsetIndexReader) parseV4Header() error {
	const op = "OffsetIndexReader.parseV4Header"

	num1kBlocks, err := oi.r.Int32(4)
	if err != nil {
		return err
	}
	offsetSize, err := oi.r.Int32(12)
	if err != nil {
		return err
	}

	oi.num1kBlocks = num1kBlocks
	oi.offsetSize = int(offsetSize)

	if num1kBlocks <= 0 {
		return nil
	}

	trailerOffset := int64(offsetIndexHeaderSize) + 1024*int64(num1kBlocks)*int64(offsetSize)
	numRows, err := oi.r.Int64(trailerOffset)
	if err != nil {
		return err
	}
	sectionBytes, err := oi.r.Int32(trailerOffset + 8)
	if err != nil {
		return err
	}
	oi.maxObjectID = numRows

	if sectionBytes != 0 {
		return unsupportedf(op, "v4 offset index with holes is not supported (section_bytes=%d)", sectionBytes)
	}

	return nil
}

// MaxObjectID returns the largest object identifier the index could
// conceivably hold (including deleted rows).
func (oi *OffsetIndexReader) MaxObjectID() int64 { return oi.maxObjectID }

// RowOffset returns the byte offset of oid's row in the data file, or
// (0, false) if oid is out of range, deleted, or absent from a sparse block
// map.
func (oi *OffsetIndexReader) RowOffset(oid int64) (int64, bool, error) {
	i := oid - 1
	if i < 0 {
		return 0, false, nil
	}

	physical := i
	if oi.blockMap != nil {
		block := int32(i / 1024)
		if !oi.blockBitSet(block) {
			return 0, false, nil
		}
		precedingBlocks := oi.popcountThrough(block)
		physical = precedingBlocks*1024 + i%1024
	}

	entryOffset := int64(offsetIndexHeaderSize) + physical*int64(oi.offsetSize)
	if oi.blockMap == nil && entryOffset >= oi.r.Len() {
		return 0, false, nil
	}
	v, err := oi.r.UintN(entryOffset, oi.offsetSize)
	if err != nil {
		return 0, false, err
	}
	if v == 0 {
		return 0, false, nil
	}
	return int64(v), true, nil
}

func (oi *OffsetIndexReader) blockBitSet(block int32) bool {
	byteIdx := block / 8
	bitIdx := uint(block % 8)
	if int(byteIdx) >= len(oi.blockMap) {
		return false
	}
	return oi.blockMap[byteIdx]&(1<<bitIdx) != 0
}

// popcountThrough returns the number of set bits in blocks [0, block)
// (i.e. the physical-index base for block), caching the running count
// across ascending sequential lookups per spec §4.1's rationale.
func (oi *OffsetIndexReader) popcountThrough(block int32) int64 {
	if oi.havePopcount && block == oi.popcountedBlock {
		return oi.popcountCache
	}
	if oi.havePopcount && block == oi.popcountedBlock+1 && oi.blockBitSet(oi.popcountedBlock) {
		oi.popcountCache++
		oi.popcountedBlock = block
		return oi.popcountCache
	}

	var count int64
	fullBytes := int(block / 8)
	if fullBytes > len(oi.blockMap) {
		fullBytes = len(oi.blockMap)
	}
	for _, b := range oi.blockMap[:fullBytes] {
		count += int64(bits.OnesCount8(b))
	}
	remBits := int(block % 8)
	if fullBytes < len(oi.blockMap) {
		b := oi.blockMap[fullBytes]
		for i := 0; i < remBits; i++ {
			if b&(1<<uint(i)) != 0 {
				count++
			}
		}
	}

	oi.popcountCache = count
	oi.popcountedBlock = block
	oi.havePopcount = true
	return count
}

func popcountBytes(b []byte) int64 {
	var n int64
	for _, v := range b {
		n += int64(bits.OnesCount8(v))
	}
	return n
}
