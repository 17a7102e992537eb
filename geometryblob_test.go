// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import (
	"math"
	"testing"
)

func gdForTest(hasZ, hasM bool) *GeometryDef {
	return &GeometryDef{XOrigin: 0, YOrigin: 0, XYScale: 1, HasZ: hasZ, HasM: hasM, ZOrigin: 0, ZScale: 1, MOrigin: 0, MScale: 1}
}

// TestEmptyPointWithHasZ covers spec scenario 5: a GeneralPoint blob with the
// HasZ flag set and all-zero coordinate varints decodes to a Point whose X,
// Y and Z are all NaN.
func TestEmptyPointWithHasZ(t *testing.T) {
	word := uint64(52) | shapeFlagHasZ
	blob := append(encodeUvarint(word), 0x00, 0x00, 0x00)

	b := NewShapeBuilder()
	if err := NewGeometryBlobReader().Decode(blob, gdForTest(true, false), b); err != nil {
		t.Fatalf("Decode failed, reason: %v", err)
	}
	shape, err := b.ToShape()
	if err != nil {
		t.Fatalf("ToShape failed, reason: %v", err)
	}
	if shape.GeometryType != ShapeGeometryPoint {
		t.Fatalf("GeometryType = %v, want Point", shape.GeometryType)
	}
	if !math.IsNaN(shape.X[0]) || !math.IsNaN(shape.Y[0]) || !math.IsNaN(shape.Z[0]) {
		t.Errorf("empty point coordinates = (%v, %v, %v), want all NaN", shape.X[0], shape.Y[0], shape.Z[0])
	}
}

// TestTwoPartPolygonWithCircularArc covers spec scenario 7: a polygon with
// 4 points, 2 parts and 1 circular-arc curve modifier on segment 0.
func TestTwoPartPolygonWithCircularArc(t *testing.T) {
	var blob []byte
	word := uint64(ShapeTypePolygon) | shapeFlagHasCurves
	blob = append(blob, encodeUvarint(word)...)
	blob = append(blob, encodeUvarint(4)...) // num_points
	blob = append(blob, encodeUvarint(2)...) // num_parts
	blob = append(blob, encodeUvarint(1)...) // num_curves
	blob = append(blob, encodeUvarint(0)...) // xmin
	blob = append(blob, encodeUvarint(0)...) // ymin
	blob = append(blob, encodeUvarint(1)...) // xmax offset
	blob = append(blob, encodeUvarint(1)...) // ymax offset
	blob = append(blob, encodeUvarint(2)...) // first part count (last part implicit)

	// XY deltas for (0,0) (1,0) (1,1) (0,1), not reset at the part boundary.
	deltasX := []int64{0, 1, 0, -1}
	deltasY := []int64{0, 0, 1, 0}
	for i := range deltasX {
		blob = append(blob, encodeSignedVarintSmall(deltasX[i])...)
		blob = append(blob, encodeSignedVarintSmall(deltasY[i])...)
	}

	blob = append(blob, encodeUvarint(0)...) // curve segment_index
	blob = append(blob, encodeUvarint(1)...) // curve type = CircularArc
	blob = appendFloat64(blob, 0.5)
	blob = appendFloat64(blob, 0.5)
	blob = appendInt32(blob, 0) // flags

	gd := gdForTest(false, false)
	b := NewShapeBuilder()
	if err := NewGeometryBlobReader().Decode(blob, gd, b); err != nil {
		t.Fatalf("Decode failed, reason: %v", err)
	}
	shape, err := b.ToShape()
	if err != nil {
		t.Fatalf("ToShape failed, reason: %v", err)
	}

	if shape.NumPoints() != 4 {
		t.Errorf("NumPoints() = %d, want 4", shape.NumPoints())
	}
	if shape.NumParts() != 2 {
		t.Fatalf("NumParts() = %d, want 2", shape.NumParts())
	}
	if shape.PartStarts[0] != 0 || shape.PartStarts[1] != 2 {
		t.Errorf("PartStarts = %v, want [0 2]", shape.PartStarts)
	}
	if shape.NumCurves() != 1 {
		t.Fatalf("NumCurves() = %d, want 1", shape.NumCurves())
	}
	if shape.Curves[0].SegmentIndex != 0 || shape.Curves[0].Kind != CurveKindCircularArc {
		t.Errorf("Curves[0] = %+v, want SegmentIndex=0 Kind=CircularArc", shape.Curves[0])
	}
}

func appendFloat64(buf []byte, v float64) []byte {
	bits := math.Float64bits(v)
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(bits>>(8*i)))
	}
	return buf
}

func appendInt32(buf []byte, v int32) []byte {
	u := uint32(v)
	for i := 0; i < 4; i++ {
		buf = append(buf, byte(u>>(8*i)))
	}
	return buf
}

func TestDecodeRejectsMultiPatch(t *testing.T) {
	blob := encodeUvarint(uint64(ShapeTypeMultiPatch))
	b := NewShapeBuilder()
	err := NewGeometryBlobReader().Decode(blob, gdForTest(false, false), b)
	if err == nil {
		t.Fatal("Decode of MultiPatch blob succeeded, want error")
	}
}

func TestDecodeNullShapeNeedsNoGeometryDef(t *testing.T) {
	blob := encodeUvarint(uint64(ShapeTypeNull))
	b := NewShapeBuilder()
	if err := NewGeometryBlobReader().Decode(blob, nil, b); err != nil {
		t.Fatalf("Decode of Null blob with nil GeometryDef failed, reason: %v", err)
	}
	shape, err := b.ToShape()
	if err != nil {
		t.Fatalf("ToShape failed, reason: %v", err)
	}
	if !shape.IsEmpty() {
		t.Error("Null shape is not empty")
	}
}
