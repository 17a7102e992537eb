// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import (
	"encoding/binary"
	"math"
)

// esriNaNBits is the bit pattern the reference Esri producer emits for NaN
// in an Extended Shape Buffer instead of a real NaN (spec §4.4).
const esriNaNBits uint64 = 0xFFEFFFFFFFFFFFFF

// ShapeBufferOptions controls Extended Shape Buffer encoding.
type ShapeBufferOptions struct {
	// RealNaN selects encoding NaN as an actual IEEE-754 NaN bit pattern
	// instead of the reference producer's sentinel (default false).
	RealNaN bool
}

func outputShapeType(s *Shape) (ShapeType, error) {
	switch s.GeometryType {
	case ShapeGeometryNull:
		return ShapeTypeNull, nil
	case ShapeGeometryPoint:
		switch {
		case s.HasZ && s.HasM:
			return ShapeTypePointZM, nil
		case s.HasZ:
			return ShapeTypePointZ, nil
		case s.HasM:
			return ShapeTypePointM, nil
		default:
			return ShapeTypePoint, nil
		}
	case ShapeGeometryMultipoint:
		switch {
		case s.HasZ && s.HasM:
			return ShapeTypeMultipointZM, nil
		case s.HasZ:
			return ShapeTypeMultipointZ, nil
		case s.HasM:
			return ShapeTypeMultipointM, nil
		default:
			return ShapeTypeMultipoint, nil
		}
	case ShapeGeometryPolyline:
		switch {
		case s.HasZ && s.HasM:
			return ShapeTypePolylineZM, nil
		case s.HasZ:
			return ShapeTypePolylineZ, nil
		case s.HasM:
			return ShapeTypePolylineM, nil
		default:
			return ShapeTypePolyline, nil
		}
	case ShapeGeometryPolygon:
		switch {
		case s.HasZ && s.HasM:
			return ShapeTypePolygonZM, nil
		case s.HasZ:
			return ShapeTypePolygonZ, nil
		case s.HasM:
			return ShapeTypePolygonM, nil
		default:
			return ShapeTypePolygon, nil
		}
	default:
		return 0, malformedf("outputShapeType", "unsupported geometry type %d", s.GeometryType)
	}
}

type bufWriter struct {
	buf []byte
}

func (w *bufWriter) putInt32(v int32)    { w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v)) }
func (w *bufWriter) putFloat64(v float64, realNaN bool) {
	if math.IsNaN(v) && !realNaN {
		w.buf = binary.LittleEndian.AppendUint64(w.buf, esriNaNBits)
		return
	}
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// ToShapeBuffer emits the Extended Shape Buffer encoding of the accumulated
// shape (spec §4.4). Call ToShape first if you also need the structured
// Shape; the two are independent views over the same accumulated state.
func (b *ShapeBuilder) ToShapeBuffer(opts ShapeBufferOptions) ([]byte, error) {
	const op = "ShapeBuilder.ToShapeBuffer"
	if err := b.validateOp(op); err != nil {
		return nil, err
	}

	shape, err := b.ToShape()
	if err != nil {
		return nil, err
	}
	return shape.toShapeBufferBytes(opts)
}

func (s *Shape) toShapeBufferBytes(opts ShapeBufferOptions) ([]byte, error) {
	const op = "Shape.toShapeBufferBytes"
	st, err := outputShapeType(s)
	if err != nil {
		return nil, err
	}

	w := &bufWriter{}
	w.putInt32(int32(st))

	switch s.GeometryType {
	case ShapeGeometryNull:
		return w.buf, nil

	case ShapeGeometryPoint:
		if len(s.X) == 0 {
			w.putFloat64(math.NaN(), opts.RealNaN)
			w.putFloat64(math.NaN(), opts.RealNaN)
			if s.HasZ {
				w.putFloat64(0, opts.RealNaN)
			}
			if s.HasM {
				w.putFloat64(math.NaN(), opts.RealNaN)
			}
			if s.HasID {
				w.putInt32(0)
			}
			return w.buf, nil
		}
		w.putFloat64(s.X[0], opts.RealNaN)
		w.putFloat64(s.Y[0], opts.RealNaN)
		if s.HasZ {
			w.putFloat64(s.Z[0], opts.RealNaN)
		}
		if s.HasM {
			w.putFloat64(s.M[0], opts.RealNaN)
		}
		if s.HasID {
			w.putInt32(s.ID[0])
		}
		return w.buf, nil

	case ShapeGeometryMultipoint:
		n := len(s.X)
		if n == 0 {
			for _, v := range [4]float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()} {
				w.putFloat64(v, opts.RealNaN)
			}
			w.putInt32(0)
			return w.buf, nil
		}
		w.putFloat64(s.XMin, opts.RealNaN)
		w.putFloat64(s.YMin, opts.RealNaN)
		w.putFloat64(s.XMax, opts.RealNaN)
		w.putFloat64(s.YMax, opts.RealNaN)
		w.putInt32(int32(n))
		for i := 0; i < n; i++ {
			w.putFloat64(s.X[i], opts.RealNaN)
			w.putFloat64(s.Y[i], opts.RealNaN)
		}
		if s.HasZ {
			w.putFloat64(s.ZMin, opts.RealNaN)
			w.putFloat64(s.ZMax, opts.RealNaN)
			for i := 0; i < n; i++ {
				w.putFloat64(s.Z[i], opts.RealNaN)
			}
		}
		if s.HasM {
			w.putFloat64(s.MMin, opts.RealNaN)
			w.putFloat64(s.MMax, opts.RealNaN)
			for i := 0; i < n; i++ {
				w.putFloat64(s.M[i], opts.RealNaN)
			}
		}
		if s.HasID {
			for i := 0; i < n; i++ {
				w.putInt32(s.ID[i])
			}
		}
		return w.buf, nil

	case ShapeGeometryPolyline, ShapeGeometryPolygon:
		n := len(s.X)
		p := len(s.PartStarts)
		if n == 0 {
			for _, v := range [4]float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()} {
				w.putFloat64(v, opts.RealNaN)
			}
			w.putInt32(0)
			w.putInt32(0)
			return w.buf, nil
		}
		w.putFloat64(s.XMin, opts.RealNaN)
		w.putFloat64(s.YMin, opts.RealNaN)
		w.putFloat64(s.XMax, opts.RealNaN)
		w.putFloat64(s.YMax, opts.RealNaN)
		w.putInt32(int32(p))
		w.putInt32(int32(n))
		for _, ps := range s.PartStarts {
			w.putInt32(ps)
		}
		for i := 0; i < n; i++ {
			w.putFloat64(s.X[i], opts.RealNaN)
			w.putFloat64(s.Y[i], opts.RealNaN)
		}
		if s.HasZ {
			w.putFloat64(s.ZMin, opts.RealNaN)
			w.putFloat64(s.ZMax, opts.RealNaN)
			for i := 0; i < n; i++ {
				w.putFloat64(s.Z[i], opts.RealNaN)
			}
		}
		if s.HasM {
			w.putFloat64(s.MMin, opts.RealNaN)
			w.putFloat64(s.MMax, opts.RealNaN)
			for i := 0; i < n; i++ {
				w.putFloat64(s.M[i], opts.RealNaN)
			}
		}
		w.putInt32(int32(len(s.Curves)))
		for _, c := range s.Curves {
			w.putInt32(c.SegmentIndex)
			w.putInt32(int32(c.Kind))
			switch c.Kind {
			case CurveKindCircularArc:
				w.putFloat64(c.Params[0], opts.RealNaN)
				w.putFloat64(c.Params[1], opts.RealNaN)
				w.putInt32(c.Flags)
			case CurveKindCubicBezier:
				for i := 0; i < 4; i++ {
					w.putFloat64(c.Params[i], opts.RealNaN)
				}
			case CurveKindEllipticArc:
				for i := 0; i < 5; i++ {
					w.putFloat64(c.Params[i], opts.RealNaN)
				}
				w.putInt32(c.Flags)
			default:
				return nil, malformedf(op, "unsupported curve kind %d", c.Kind)
			}
		}
		if s.HasID {
			for i := 0; i < n; i++ {
				w.putInt32(s.ID[i])
			}
		}
		return w.buf, nil

	default:
		return nil, malformedf(op, "unsupported geometry type %d", s.GeometryType)
	}
}

// ShapeBuffer is a read-only view over an Extended Shape Buffer byte array:
// it decodes the shape-type flags and indexes into the coordinate/part
// streams without copying them (spec §4.4).
type ShapeBuffer struct {
	buf []byte

	geometryType ShapeGeometryType
	hasZ, hasM, hasID bool

	numPoints, numParts, numCurves int

	xyOff, zOff, mOff, idOff, partOff, curveOff int
}

// NewShapeBuffer parses the header of an Extended Shape Buffer byte array.
// hasID must be supplied by the caller: unlike Z/M, ID-stream presence is
// not recoverable from the buffer's own type word and must come from the
// owning geometry field's configuration.
func NewShapeBuffer(buf []byte, hasID bool) (*ShapeBuffer, error) {
	const op = "NewShapeBuffer"
	if len(buf) < 4 {
		return nil, malformedf(op, "shape buffer shorter than 4 bytes")
	}
	raw := int32(binary.LittleEndian.Uint32(buf[0:4]))
	st := ShapeType(raw & 0xFF)

	sb := &ShapeBuffer{buf: buf, hasID: hasID}
	switch {
	case st == ShapeTypeNull:
		sb.geometryType = ShapeGeometryNull
		return sb, nil
	case st.isPoint():
		sb.geometryType = ShapeGeometryPoint
	case st.isMultipoint():
		sb.geometryType = ShapeGeometryMultipoint
	case st.isPolyline():
		sb.geometryType = ShapeGeometryPolyline
	case st.isPolygon():
		sb.geometryType = ShapeGeometryPolygon
	default:
		return nil, unsupportedf(op, "shape buffer has unsupported type %s", st)
	}

	switch st {
	case ShapeTypePointZ, ShapeTypePolylineZ, ShapeTypePolygonZ, ShapeTypeMultipointZ:
		sb.hasZ = true
	case ShapeTypePointM, ShapeTypePolylineM, ShapeTypePolygonM, ShapeTypeMultipointM:
		sb.hasM = true
	case ShapeTypePointZM, ShapeTypePolylineZM, ShapeTypePolygonZM, ShapeTypeMultipointZM:
		sb.hasZ, sb.hasM = true, true
	}

	cur := 4
	switch sb.geometryType {
	case ShapeGeometryPoint:
		sb.numPoints = 1
		sb.xyOff = cur
		cur += 16
		if sb.hasZ {
			sb.zOff = cur
			cur += 8
		}
		if sb.hasM {
			sb.mOff = cur
			cur += 8
		}
	case ShapeGeometryMultipoint:
		cur += 32 // box
		if cur+4 > len(buf) {
			return nil, malformedf(op, "truncated multipoint header")
		}
		sb.numPoints = int(int32(binary.LittleEndian.Uint32(buf[cur:])))
		cur += 4
		sb.xyOff = cur
		cur += 16 * sb.numPoints
		if sb.hasZ {
			sb.zOff = cur
			cur += 16 + 8*sb.numPoints
		}
		if sb.hasM {
			sb.mOff = cur
			cur += 16 + 8*sb.numPoints
		}
	case ShapeGeometryPolyline, ShapeGeometryPolygon:
		cur += 32 // box
		if cur+8 > len(buf) {
			return nil, malformedf(op, "truncated polyline/polygon header")
		}
		sb.numParts = int(int32(binary.LittleEndian.Uint32(buf[cur:])))
		cur += 4
		sb.numPoints = int(int32(binary.LittleEndian.Uint32(buf[cur:])))
		cur += 4
		sb.partOff = cur
		cur += 4 * sb.numParts
		sb.xyOff = cur
		cur += 16 * sb.numPoints
		if sb.hasZ {
			sb.zOff = cur
			cur += 16 + 8*sb.numPoints
		}
		if sb.hasM {
			sb.mOff = cur
			cur += 16 + 8*sb.numPoints
		}
		if cur+4 > len(buf) {
			return nil, malformedf(op, "truncated curve count")
		}
		sb.numCurves = int(int32(binary.LittleEndian.Uint32(buf[cur:])))
		sb.curveOff = cur + 4
		cur = sb.curveOff
		for i := 0; i < sb.numCurves; i++ {
			if cur+8 > len(buf) {
				return nil, malformedf(op, "truncated curve record")
			}
			kind := CurveKind(int32(binary.LittleEndian.Uint32(buf[cur+4:])))
			cur += 8
			switch kind {
			case CurveKindCircularArc:
				cur += 16 + 4
			case CurveKindCubicBezier:
				cur += 32
			case CurveKindEllipticArc:
				cur += 40 + 4
			default:
				return nil, malformedf(op, "unsupported curve kind %d in shape buffer", kind)
			}
		}
	}
	sb.idOff = cur
	if sb.hasID {
		cur += 4 * sb.numPoints
	}
	if cur > len(buf) {
		return nil, malformedf(op, "truncated ID stream")
	}

	return sb, nil
}

// GeometryType, HasZ, HasM, HasID, NumPoints, NumParts, NumCurves mirror the
// builder's own counters (spec §8 property: a round-tripped ShapeBuffer
// reports the same values the builder used to produce it).
func (sb *ShapeBuffer) GeometryType() ShapeGeometryType { return sb.geometryType }
func (sb *ShapeBuffer) HasZ() bool                      { return sb.hasZ }
func (sb *ShapeBuffer) HasM() bool                      { return sb.hasM }
func (sb *ShapeBuffer) HasID() bool                      { return sb.hasID }
func (sb *ShapeBuffer) NumPoints() int                  { return sb.numPoints }
func (sb *ShapeBuffer) NumParts() int                   { return sb.numParts }
func (sb *ShapeBuffer) NumCurves() int                  { return sb.numCurves }

func readF64(buf []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
}

// XY returns the i-th vertex's coordinates.
func (sb *ShapeBuffer) XY(i int) (x, y float64) {
	off := sb.xyOff + i*16
	return readF64(sb.buf, off), readF64(sb.buf, off+8)
}

// PartStart returns the i-th part's starting vertex index.
func (sb *ShapeBuffer) PartStart(i int) int32 {
	return int32(binary.LittleEndian.Uint32(sb.buf[sb.partOff+i*4:]))
}

// Z returns the i-th vertex's Z coordinate. Valid only when HasZ is true.
func (sb *ShapeBuffer) Z(i int) float64 {
	if sb.geometryType == ShapeGeometryPoint {
		return readF64(sb.buf, sb.zOff)
	}
	return readF64(sb.buf, sb.zOff+16+i*8)
}

// M returns the i-th vertex's M coordinate. Valid only when HasM is true.
func (sb *ShapeBuffer) M(i int) float64 {
	if sb.geometryType == ShapeGeometryPoint {
		return readF64(sb.buf, sb.mOff)
	}
	return readF64(sb.buf, sb.mOff+16+i*8)
}

// ID returns the i-th vertex's ID. Valid only when HasID is true.
func (sb *ShapeBuffer) ID(i int) int32 {
	return int32(binary.LittleEndian.Uint32(sb.buf[sb.idOff+i*4:]))
}
