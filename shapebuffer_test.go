// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import (
	"bytes"
	"math"
	"testing"
)

func TestShapeBufferRoundTripPolyline(t *testing.T) {
	b := NewShapeBuilder()
	b.Initialize(ShapeGeometryPolyline, false, false, false)
	b.AddXY(0, 0)
	b.AddXY(3, 0)
	b.AddXY(3, 4)
	b.AddPart(0)

	buf, err := b.ToShapeBuffer(ShapeBufferOptions{})
	if err != nil {
		t.Fatalf("ToShapeBuffer failed, reason: %v", err)
	}

	sb, err := NewShapeBuffer(buf, false)
	if err != nil {
		t.Fatalf("NewShapeBuffer failed, reason: %v", err)
	}
	if sb.GeometryType() != ShapeGeometryPolyline {
		t.Errorf("GeometryType() = %v, want Polyline", sb.GeometryType())
	}
	if sb.NumPoints() != 3 {
		t.Errorf("NumPoints() = %d, want 3", sb.NumPoints())
	}
	if sb.NumParts() != 1 {
		t.Errorf("NumParts() = %d, want 1", sb.NumParts())
	}
	x, y := sb.XY(1)
	if x != 3 || y != 0 {
		t.Errorf("XY(1) = (%v, %v), want (3, 0)", x, y)
	}
}

func TestShapeBufferNaNSentinelBytes(t *testing.T) {
	b := NewShapeBuilder()
	b.Initialize(ShapeGeometryPoint, true, false, false)
	b.AddXY(1, 1)
	b.AddZ(math.NaN())

	buf, err := b.ToShapeBuffer(ShapeBufferOptions{})
	if err != nil {
		t.Fatalf("ToShapeBuffer failed, reason: %v", err)
	}

	// shapeType(4) + X(8) + Y(8) precede Z for a non-empty PointZ buffer.
	const zOff = 4 + 8 + 8
	got := buf[zOff : zOff+8]
	want := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xEF, 0xFF}
	if !bytes.Equal(got, want) {
		t.Errorf("NaN Z encoded as % X, want % X", got, want)
	}
}

func TestShapeBufferRoundTripPointZM(t *testing.T) {
	b := NewShapeBuilder()
	b.Initialize(ShapeGeometryPoint, true, true, false)
	b.AddXY(1.5, 2.5)
	b.AddZ(10)
	b.AddM(20)

	buf, err := b.ToShapeBuffer(ShapeBufferOptions{})
	if err != nil {
		t.Fatalf("ToShapeBuffer failed, reason: %v", err)
	}

	sb, err := NewShapeBuffer(buf, false)
	if err != nil {
		t.Fatalf("NewShapeBuffer failed, reason: %v", err)
	}
	if !sb.HasZ() || !sb.HasM() {
		t.Fatalf("HasZ/HasM = %v/%v, want true/true", sb.HasZ(), sb.HasM())
	}
	x, y := sb.XY(0)
	if x != 1.5 || y != 2.5 {
		t.Errorf("XY(0) = (%v, %v), want (1.5, 2.5)", x, y)
	}
	if sb.Z(0) != 10 {
		t.Errorf("Z(0) = %v, want 10", sb.Z(0))
	}
	if sb.M(0) != 20 {
		t.Errorf("M(0) = %v, want 20", sb.M(0))
	}
}
