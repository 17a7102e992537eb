// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "math"

// ShapeBuilder is a buffered accumulator for a single shape: it receives
// arbitrarily-ordered Add*/SetMinMax* calls during decode, then emits either
// a structured Shape or an Extended Shape Buffer byte array (spec §4.4).
//
// A ShapeBuilder is reused by calling Initialize again; this avoids an
// allocation per row when a caller decodes many geometry blobs against the
// same table.
type ShapeBuilder struct {
	geometryType ShapeGeometryType
	hasZ, hasM, hasID bool

	x, y []float64
	z, m []float64
	id   []int32

	partStarts []int32
	curves     []CurveModifier

	xmin, ymin, xmax, ymax float64
	zmin, zmax             float64
	mmin, mmax             float64
	haveBBox               bool

	validate bool
}

// NewShapeBuilder returns a builder with validation enabled. Validation can
// be disabled with SetValidate(false) to accept input the spec calls out as
// ambiguous (e.g. out-of-order curve segment indices) instead of failing.
func NewShapeBuilder() *ShapeBuilder {
	return &ShapeBuilder{validate: true}
}

// SetValidate toggles the invariant checks ToShape/ToShapeBuffer perform.
func (b *ShapeBuilder) SetValidate(v bool) { b.validate = v }

// Initialize resets the builder for a new shape.
func (b *ShapeBuilder) Initialize(geometryType ShapeGeometryType, hasZ, hasM, hasID bool) {
	b.geometryType = geometryType
	b.hasZ, b.hasM, b.hasID = hasZ, hasM, hasID
	b.x = b.x[:0]
	b.y = b.y[:0]
	b.z = b.z[:0]
	b.m = b.m[:0]
	b.id = b.id[:0]
	b.partStarts = b.partStarts[:0]
	b.curves = b.curves[:0]
	b.xmin, b.ymin, b.xmax, b.ymax = 0, 0, 0, 0
	b.zmin, b.zmax = math.NaN(), math.NaN()
	b.mmin, b.mmax = math.NaN(), math.NaN()
	b.haveBBox = false
}

// AddXY appends one vertex's X/Y coordinates.
func (b *ShapeBuilder) AddXY(x, y float64) {
	b.x = append(b.x, x)
	b.y = append(b.y, y)
}

// AddZ appends one vertex's Z coordinate and folds it into the running
// Z min/max (the FGDB stores no Z extrema; spec §4.3 asks the decoder to
// compute them).
func (b *ShapeBuilder) AddZ(z float64) {
	b.z = append(b.z, z)
	if !math.IsNaN(z) {
		b.zmin = naNMin(b.zmin, z)
		b.zmax = naNMax(b.zmax, z)
	}
}

// AddM appends one vertex's M coordinate, folding it into the running
// M min/max the same way AddZ does for Z.
func (b *ShapeBuilder) AddM(m float64) {
	b.m = append(b.m, m)
	if !math.IsNaN(m) {
		b.mmin = naNMin(b.mmin, m)
		b.mmax = naNMax(b.mmax, m)
	}
}

// AddID appends one vertex's ID.
func (b *ShapeBuilder) AddID(id int32) { b.id = append(b.id, id) }

// AddPart appends one part's starting vertex index.
func (b *ShapeBuilder) AddPart(startIndex int32) {
	b.partStarts = append(b.partStarts, startIndex)
}

// AddCurve appends one curve segment modifier.
func (b *ShapeBuilder) AddCurve(c CurveModifier) { b.curves = append(b.curves, c) }

// SetBBox sets the shape's XY bounding box explicitly (as read from the
// blob's own box record), overriding any box the builder would otherwise
// derive from AddXY calls.
func (b *ShapeBuilder) SetBBox(xmin, ymin, xmax, ymax float64) {
	b.xmin, b.ymin, b.xmax, b.ymax = xmin, ymin, xmax, ymax
	b.haveBBox = true
}

// SetZRange/SetMRange override the running min/max computed by AddZ/AddM,
// for callers that already know the range (e.g. re-packing an existing
// Shape).
func (b *ShapeBuilder) SetZRange(min, max float64) { b.zmin, b.zmax = min, max }
func (b *ShapeBuilder) SetMRange(min, max float64) { b.mmin, b.mmax = min, max }

func naNMin(acc, v float64) float64 {
	if math.IsNaN(acc) {
		return v
	}
	return math.Min(acc, v)
}

func naNMax(acc, v float64) float64 {
	if math.IsNaN(acc) {
		return v
	}
	return math.Max(acc, v)
}

// validateOp checks the invariants listed in spec §4.4 (a)-(e).
func (b *ShapeBuilder) validateOp(op string) error {
	if !b.validate {
		return nil
	}
	switch b.geometryType {
	case ShapeGeometryNull:
		if len(b.x) != 0 {
			return malformedf(op, "Null shape carries %d points", len(b.x))
		}
	case ShapeGeometryPoint:
		if len(b.x) > 1 {
			return malformedf(op, "Point shape carries %d points", len(b.x))
		}
	}
	if b.geometryType != ShapeGeometryPolyline && b.geometryType != ShapeGeometryPolygon && len(b.curves) != 0 {
		return malformedf(op, "non-curve-capable shape carries %d curve modifiers", len(b.curves))
	}
	if b.geometryType == ShapeGeometryPolyline || b.geometryType == ShapeGeometryPolygon {
		sum := 0
		for i, start := range b.partStarts {
			if start < 0 {
				return malformedf(op, "part %d has negative start index %d", i, start)
			}
			var count int
			if i+1 < len(b.partStarts) {
				count = int(b.partStarts[i+1] - start)
			} else {
				count = len(b.x) - int(start)
			}
			if count < 0 {
				return malformedf(op, "part %d has negative vertex count %d", i, count)
			}
			sum += count
		}
		if len(b.partStarts) > 0 && sum != len(b.x) {
			return malformedf(op, "part vertex counts sum to %d, want %d", sum, len(b.x))
		}
		last := int32(-1)
		for _, c := range b.curves {
			if c.SegmentIndex <= last {
				return malformedf(op, "curve segment indices not strictly increasing: %d after %d", c.SegmentIndex, last)
			}
			last = c.SegmentIndex
		}
	}
	return nil
}

// ToShape materializes the accumulated state as a Shape, validating the
// invariants first (unless validation is disabled).
func (b *ShapeBuilder) ToShape() (*Shape, error) {
	const op = "ShapeBuilder.ToShape"
	if err := b.validateOp(op); err != nil {
		return nil, err
	}

	s := &Shape{
		GeometryType: b.geometryType,
		HasZ:         b.hasZ,
		HasM:         b.hasM,
		HasID:        b.hasID,
	}

	if b.geometryType == ShapeGeometryNull {
		return s, nil
	}

	if b.haveBBox {
		s.XMin, s.YMin, s.XMax, s.YMax = b.xmin, b.ymin, b.xmax, b.ymax
	} else if len(b.x) > 0 {
		s.XMin, s.XMax = b.x[0], b.x[0]
		s.YMin, s.YMax = b.y[0], b.y[0]
		for i := 1; i < len(b.x); i++ {
			if b.x[i] < s.XMin {
				s.XMin = b.x[i]
			}
			if b.x[i] > s.XMax {
				s.XMax = b.x[i]
			}
			if b.y[i] < s.YMin {
				s.YMin = b.y[i]
			}
			if b.y[i] > s.YMax {
				s.YMax = b.y[i]
			}
		}
	} else {
		s.XMin, s.YMin, s.XMax, s.YMax = math.NaN(), math.NaN(), math.NaN(), math.NaN()
	}
	s.ZMin, s.ZMax = b.zmin, b.zmax
	s.MMin, s.MMax = b.mmin, b.mmax

	n := len(b.x)
	s.X = append([]float64(nil), b.x...)
	s.Y = append([]float64(nil), b.y...)

	if b.hasZ {
		s.Z = padOrTruncFloat64(b.z, n)
	}
	if b.hasM {
		s.M = padOrTruncFloat64(b.m, n)
	}
	if b.hasID {
		s.ID = padOrTruncInt32(b.id, n)
	}
	if b.geometryType == ShapeGeometryPolyline || b.geometryType == ShapeGeometryPolygon {
		s.PartStarts = append([]int32(nil), b.partStarts...)
		s.Curves = append([]CurveModifier(nil), b.curves...)
	}

	return s, nil
}

func padOrTruncFloat64(v []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < len(v) {
			out[i] = v[i]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func padOrTruncInt32(v []int32, n int) []int32 {
	out := make([]int32, n)
	copy(out, v)
	return out
}
