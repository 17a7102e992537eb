// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "testing"

// FuzzGeometryBlobDecode feeds arbitrary bytes at GeometryBlobReader.Decode:
// it must never panic, and any blob it accepts must also materialize through
// ShapeBuilder.ToShape.
func FuzzGeometryBlobDecode(f *testing.F) {
	f.Add([]byte{0x00})
	f.Add(append(encodeUvarint(uint64(52)|shapeFlagHasZ), 0x00, 0x00, 0x00))
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})

	gd := gdForTest(true, true)
	f.Fuzz(func(t *testing.T, blob []byte) {
		b := NewShapeBuilder()
		err := NewGeometryBlobReader().Decode(blob, gd, b)
		if err == nil {
			if _, serr := b.ToShape(); serr != nil {
				t.Fatalf("Decode succeeded but ToShape failed: %v", serr)
			}
		}
	})
}
