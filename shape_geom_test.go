// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "testing"

func TestToGeomGeometryPointCountRoundTrip(t *testing.T) {
	b := NewShapeBuilder()
	b.Initialize(ShapeGeometryPolyline, false, false, false)
	b.AddXY(0, 0)
	b.AddXY(1, 0)
	b.AddXY(1, 1)
	b.AddPart(0)

	shape, err := b.ToShape()
	if err != nil {
		t.Fatalf("ToShape failed, reason: %v", err)
	}

	g, err := shape.ToGeomGeometry()
	if err != nil {
		t.Fatalf("ToGeomGeometry failed, reason: %v", err)
	}
	ls := g.MustAsLineString()
	if ls.Coordinates().Length() != shape.NumPoints() {
		t.Errorf("converted geometry has %d points, want %d", ls.Coordinates().Length(), shape.NumPoints())
	}
}

func TestToGeomGeometryEnvelopeUnsupported(t *testing.T) {
	s := &Shape{GeometryType: ShapeGeometryEnvelope}
	if _, err := s.ToGeomGeometry(); err == nil {
		t.Fatal("ToGeomGeometry() on Envelope succeeded, want error")
	}
}
