// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

// This file holds the geometry blob's signed varint decoder. Its unsigned
// counterpart is ByteReader.Uvarint, shared with field-length prefixes
// elsewhere in the package; the geometry blob is the one place both
// encodings appear side by side (spec §4.3).

// decodeSignedVarint reads Esri's geometry-blob signed varint: the first
// byte packs bit 7 = continuation, bit 6 = sign, bits 0-5 = the low 6
// payload bits; each continuation byte is ordinary LEB128 (bit 7 =
// continuation, bits 0-6 = payload) and contributes starting at shift 6,
// then 13, 20, ... It returns the decoded value and the offset immediately
// following the varint.
func decodeSignedVarint(r *ByteReader, offset int64) (int64, int64, error) {
	const op = "decodeSignedVarint"
	b0, err := r.Uint8(offset)
	if err != nil {
		return 0, 0, err
	}
	cur := offset + 1
	negative := b0&0x40 != 0
	var magnitude uint64 = uint64(b0 & 0x3f)
	shift := uint(6)
	if b0&0x80 != 0 {
		for {
			if shift >= 64 {
				return 0, 0, malformedf(op, "signed varint overflows 64 bits at offset %d", offset)
			}
			b, err := r.Uint8(cur)
			if err != nil {
				return 0, 0, err
			}
			cur++
			magnitude |= uint64(b&0x7f) << shift
			if b&0x80 == 0 {
				break
			}
			shift += 7
		}
	}
	v := int64(magnitude)
	if negative {
		v = -v
	}
	return v, cur, nil
}
