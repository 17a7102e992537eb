// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

// CurveKind identifies the geometry a CurveModifier promotes a straight
// segment to (spec §3).
type CurveKind int

const (
	CurveKindCircularArc CurveKind = 1
	CurveKindCubicBezier CurveKind = 4
	CurveKindEllipticArc CurveKind = 5
)

// CurveModifier promotes the straight segment following SegmentIndex in a
// polyline/polygon's composite vertex stream to a non-linear segment.
//
// Params holds the kind's IEEE-754 payload in on-disk order: 2 for
// CircularArc, 4 for CubicBezier's two control points, 5 for EllipticArc.
// Unused trailing entries are zero. Flags is the trailing int32 flag word
// carried by CircularArc and EllipticArc only.
type CurveModifier struct {
	SegmentIndex int32
	Kind         CurveKind

	Params [5]float64
	Flags  int32
}

// ShapeGeometryType tags which variant of Shape is populated.
type ShapeGeometryType int

const (
	ShapeGeometryNull ShapeGeometryType = iota
	ShapeGeometryEnvelope
	ShapeGeometryPoint
	ShapeGeometryMultipoint
	ShapeGeometryPolyline
	ShapeGeometryPolygon
)

// Shape is the decoded, in-memory representation of one geometry blob: a
// tagged variant over Null/Envelope/Point/Multipoint/Polyline/Polygon
// (spec §3). Multipoint/Polyline/Polygon carry parallel coordinate streams;
// Polyline/Polygon additionally carry a part table and curve modifiers.
type Shape struct {
	GeometryType ShapeGeometryType

	HasZ  bool
	HasM  bool
	HasID bool

	// XMin, YMin, XMax, YMax is the bounding box; populated for every
	// non-Null, non-Point variant (Envelope IS the box).
	XMin, YMin, XMax, YMax float64
	ZMin, ZMax             float64
	MMin, MMax             float64

	// X, Y (and optionally Z, M, ID) are parallel per-vertex streams, valid
	// for Point (length 0 or 1), Multipoint, Polyline, Polygon.
	X, Y []float64
	Z, M []float64
	ID   []int32

	// PartStarts holds each part's starting index into X/Y/Z/M/ID, valid
	// for Polyline/Polygon only.
	PartStarts []int32

	// Curves is the ordered list of curve segment modifiers, valid for
	// Polyline/Polygon only.
	Curves []CurveModifier
}

// IsEmpty reports whether the shape carries no vertices (true for Null and
// for any Multipoint/Polyline/Polygon with zero points).
func (s *Shape) IsEmpty() bool {
	switch s.GeometryType {
	case ShapeGeometryNull:
		return true
	default:
		return len(s.X) == 0
	}
}

// NumPoints returns the vertex count.
func (s *Shape) NumPoints() int { return len(s.X) }

// NumParts returns the part count (0 outside Polyline/Polygon).
func (s *Shape) NumParts() int { return len(s.PartStarts) }

// NumCurves returns the curve modifier count (0 outside Polyline/Polygon).
func (s *Shape) NumCurves() int { return len(s.Curves) }

// Bounds returns the shape's bounding box. For Point it is computed from
// the single vertex (NaN in, NaN out, matching the empty-point convention).
func (s *Shape) Bounds() (xmin, ymin, xmax, ymax float64) {
	if s.GeometryType == ShapeGeometryPoint && len(s.X) == 1 {
		return s.X[0], s.Y[0], s.X[0], s.Y[0]
	}
	return s.XMin, s.YMin, s.XMax, s.YMax
}
