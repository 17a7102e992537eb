// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "testing"

func TestUnsignedVarintLiteral(t *testing.T) {
	r := NewByteReaderBytes([]byte{0xE5, 0x8E, 0x26})
	v, next, err := r.Uvarint(0)
	if err != nil {
		t.Fatalf("Uvarint failed, reason: %v", err)
	}
	if v != 624485 {
		t.Errorf("Uvarint() = %d, want 624485", v)
	}
	if next != 3 {
		t.Errorf("Uvarint() consumed %d bytes, want 3", next)
	}
}

func TestSignedVarintLiteral(t *testing.T) {
	tests := []struct {
		in   []byte
		want int64
		next int64
	}{
		{[]byte{0x45}, -5, 1},
		{[]byte{0x85, 0x02}, 133, 2},
	}

	for _, tt := range tests {
		r := NewByteReaderBytes(tt.in)
		v, next, err := decodeSignedVarint(r, 0)
		if err != nil {
			t.Fatalf("decodeSignedVarint(%v) failed, reason: %v", tt.in, err)
		}
		if v != tt.want {
			t.Errorf("decodeSignedVarint(%v) = %d, want %d", tt.in, v, tt.want)
		}
		if next != tt.next {
			t.Errorf("decodeSignedVarint(%v) consumed %d bytes, want %d", tt.in, next, tt.next)
		}
	}
}

func encodeUvarint(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func encodeSignedVarintSmall(v int64) []byte {
	if v >= 0 {
		return []byte{byte(v & 0x3f)}
	}
	return []byte{0x40 | byte((-v)&0x3f)}
}

func TestVarintRoundTrip(t *testing.T) {
	unsignedSamples := []uint64{0, 1, 127, 128, 300, 624485, 1 << 40, 1<<63 - 1}
	for _, u := range unsignedSamples {
		r := NewByteReaderBytes(encodeUvarint(u))
		got, _, err := r.Uvarint(0)
		if err != nil {
			t.Fatalf("Uvarint round trip for %d failed, reason: %v", u, err)
		}
		if got != u {
			t.Errorf("Uvarint round trip for %d = %d", u, got)
		}
	}

	signedSamples := []int64{0, 1, -1, 31, -31, 63, -63}
	for _, s := range signedSamples {
		r := NewByteReaderBytes(encodeSignedVarintSmall(s))
		got, _, err := decodeSignedVarint(r, 0)
		if err != nil {
			t.Fatalf("decodeSignedVarint round trip for %d failed, reason: %v", s, err)
		}
		if got != s {
			t.Errorf("decodeSignedVarint round trip for %d = %d", s, got)
		}
	}
}
