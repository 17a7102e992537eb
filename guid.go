// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "github.com/google/uuid"

// decodeGUID converts a 16-byte Windows/COM "mixed-endian" GUID payload (as
// stored by GUID/GlobalID fields) into a uuid.UUID (spec §4.6). The first
// three fields (Data1, Data2, Data3) are little-endian on disk and must be
// byte-swapped in place before the bytes match RFC 4122 layout; Data4's 8
// bytes are stored byte-for-byte and need no swap.
func decodeGUID(raw [16]byte) (uuid.UUID, error) {
	const op = "decodeGUID"
	swapGUIDBytes(&raw)
	u, err := uuid.FromBytes(raw[:])
	if err != nil {
		return uuid.UUID{}, malformedErr(op, err)
	}
	return u, nil
}

// encodeGUID is decodeGUID's inverse: it produces the Windows/COM
// mixed-endian 16-byte payload for u. Swapping is self-inverse, so this
// reuses the same byte-swap helper.
func encodeGUID(u uuid.UUID) [16]byte {
	var raw [16]byte
	copy(raw[:], u[:])
	swapGUIDBytes(&raw)
	return raw
}

func swapGUIDBytes(b *[16]byte) {
	b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	b[4], b[5] = b[5], b[4]
	b[6], b[7] = b[7], b[6]
}
