// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "testing"

func TestSwapGUIDBytesSelfInverse(t *testing.T) {
	raw := [16]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	want := raw

	swapGUIDBytes(&raw)
	if raw == want {
		t.Fatal("swapGUIDBytes() is a no-op, want a byte permutation")
	}
	swapGUIDBytes(&raw)
	if raw != want {
		t.Errorf("swapGUIDBytes() twice = %v, want original %v", raw, want)
	}
}

func TestDecodeEncodeGUIDRoundTrip(t *testing.T) {
	raw := [16]byte{0x67, 0x45, 0x23, 0x01, 0xab, 0x89, 0xef, 0xcd, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	u, err := decodeGUID(raw)
	if err != nil {
		t.Fatalf("decodeGUID failed, reason: %v", err)
	}
	back := encodeGUID(u)
	if back != raw {
		t.Errorf("encodeGUID(decodeGUID(raw)) = %v, want %v", back, raw)
	}
}
