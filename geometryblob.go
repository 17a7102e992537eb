// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "math"

// GeometryBlobReader decodes a table's compact, delta-coded geometry blob
// format into a ShapeBuilder (spec §4.3). It holds no state across calls and
// so may be shared by concurrent readers.
type GeometryBlobReader struct {
	// StrictTrailing rejects a blob with unconsumed bytes after a complete
	// decode. Off by default: the table reader already tolerates a similar
	// slack on the row record itself, and some producers pad geometry blobs.
	StrictTrailing bool
}

// NewGeometryBlobReader returns a reader with default (non-strict) options.
func NewGeometryBlobReader() *GeometryBlobReader { return &GeometryBlobReader{} }

// Decode parses blob according to gd's quantization parameters and writes
// the result into b. gd must be non-nil unless the blob turns out to encode
// a Null shape.
func (g *GeometryBlobReader) Decode(blob []byte, gd *GeometryDef, b *ShapeBuilder) error {
	const op = "GeometryBlobReader.Decode"
	if len(blob) < 1 {
		return malformedf(op, "geometry blob shorter than 1 byte")
	}

	r := NewByteReaderBytes(blob)
	word, cur, err := r.Uvarint(0)
	if err != nil {
		return err
	}
	sw, err := decodeShapeTypeWord(word)
	if err != nil {
		return err
	}

	if sw.Basic == ShapeTypeNull {
		b.Initialize(ShapeGeometryNull, false, false, false)
		return g.checkTrailing(op, r, cur)
	}
	if sw.Basic.isMultiPatch() {
		return unsupportedf(op, "shape type %s is not supported", sw.Basic)
	}
	if sw.Basic == ShapeTypeGeometryBag {
		return unsupportedf(op, "GeometryBag is not supported")
	}
	if gd == nil {
		return missingContextf(op, "non-Null geometry blob decoded without a geometry field definition")
	}
	if sw.HasZ && !gd.HasZ {
		return missingContextf(op, "shape carries Z without a Z-aware geometry definition")
	}
	if sw.HasM && !gd.HasM {
		return missingContextf(op, "shape carries M without an M-aware geometry definition")
	}

	switch {
	case sw.Basic.isPoint():
		cur, err = g.decodePoint(r, cur, sw, gd, b)
	case sw.Basic.isMultipoint():
		cur, err = g.decodeMultipoint(r, cur, sw, gd, b)
	case sw.Basic.isPolyline():
		cur, err = g.decodeMultipart(r, cur, sw, gd, b, ShapeGeometryPolyline)
	case sw.Basic.isPolygon():
		cur, err = g.decodeMultipart(r, cur, sw, gd, b, ShapeGeometryPolygon)
	default:
		return unsupportedf(op, "shape type %s is not supported", sw.Basic)
	}
	if err != nil {
		return err
	}
	return g.checkTrailing(op, r, cur)
}

func (g *GeometryBlobReader) checkTrailing(op string, r *ByteReader, cur int64) error {
	if g.StrictTrailing && cur != r.Len() {
		return malformedf(op, "%d unread trailing bytes", r.Len()-cur)
	}
	return nil
}

// vuCoord applies the "0 = empty" convention shared by Point's own X/Y/Z/M
// varints (distinct from the delta-coded streams' "accumulator < 0"
// convention used by Multipoint/Polyline/Polygon).
func vuCoord(v uint64, origin, scale float64) float64 {
	if v == 0 {
		return math.NaN()
	}
	return origin + float64(v-1)/scale
}

func (g *GeometryBlobReader) decodePoint(r *ByteReader, cur int64, sw shapeTypeWord, gd *GeometryDef, b *ShapeBuilder) (int64, error) {
	b.Initialize(ShapeGeometryPoint, sw.HasZ, sw.HasM, sw.HasID)

	xv, cur, err := r.Uvarint(cur)
	if err != nil {
		return 0, err
	}
	yv, cur, err := r.Uvarint(cur)
	if err != nil {
		return 0, err
	}
	b.AddXY(vuCoord(xv, gd.XOrigin, gd.XYScale), vuCoord(yv, gd.YOrigin, gd.XYScale))

	if sw.HasZ {
		zv, next, err := r.Uvarint(cur)
		if err != nil {
			return 0, err
		}
		cur = next
		b.AddZ(vuCoord(zv, gd.ZOrigin, gd.ZScale))
	}
	if sw.HasM {
		mv, next, err := r.Uvarint(cur)
		if err != nil {
			return 0, err
		}
		cur = next
		b.AddM(vuCoord(mv, gd.MOrigin, gd.MScale))
	}
	if sw.HasID {
		idv, next, err := decodeSignedVarint(r, cur)
		if err != nil {
			return 0, err
		}
		cur = next
		b.AddID(int32(idv))
	}
	return cur, nil
}

// readBox reads the four-vu XY bounding box shared by Multipoint/Polyline/
// Polygon (spec §4.3). Unlike a coordinate varint, 0 here is a legitimate
// value, not an empty sentinel.
func (g *GeometryBlobReader) readBox(r *ByteReader, cur int64, gd *GeometryDef) (xmin, ymin, xmax, ymax float64, next int64, err error) {
	var xminV, yminV, xmaxOff, ymaxOff uint64
	if xminV, cur, err = r.Uvarint(cur); err != nil {
		return
	}
	if yminV, cur, err = r.Uvarint(cur); err != nil {
		return
	}
	if xmaxOff, cur, err = r.Uvarint(cur); err != nil {
		return
	}
	if ymaxOff, cur, err = r.Uvarint(cur); err != nil {
		return
	}
	xmin = gd.XOrigin + float64(xminV)/gd.XYScale
	ymin = gd.YOrigin + float64(yminV)/gd.XYScale
	xmax = xmin + float64(xmaxOff)/gd.XYScale
	ymax = ymin + float64(ymaxOff)/gd.XYScale
	next = cur
	return
}

func (g *GeometryBlobReader) decodeMultipoint(r *ByteReader, cur int64, sw shapeTypeWord, gd *GeometryDef, b *ShapeBuilder) (int64, error) {
	const op = "GeometryBlobReader.decodeMultipoint"
	b.Initialize(ShapeGeometryMultipoint, sw.HasZ, sw.HasM, sw.HasID)

	nv, cur, err := r.Uvarint(cur)
	if err != nil {
		return 0, err
	}
	if nv > math.MaxInt32 {
		return 0, malformedf(op, "point count %d exceeds int32::MAX", nv)
	}
	n := int(nv)
	if n == 0 {
		return cur, nil
	}

	xmin, ymin, xmax, ymax, cur, err := g.readBox(r, cur, gd)
	if err != nil {
		return 0, err
	}
	b.SetBBox(xmin, ymin, xmax, ymax)

	cur, err = g.decodeXYStream(r, cur, gd, n, b)
	if err != nil {
		return 0, err
	}
	if sw.HasZ {
		if cur, err = g.decodeZStream(r, cur, gd, n, b); err != nil {
			return 0, err
		}
	}
	if sw.HasM {
		if cur, err = g.decodeMStream(r, cur, gd, n, b); err != nil {
			return 0, err
		}
	}
	if sw.HasID {
		if cur, err = g.decodeIDStream(r, cur, n, b); err != nil {
			return 0, err
		}
	}
	return cur, nil
}

func (g *GeometryBlobReader) decodeMultipart(r *ByteReader, cur int64, sw shapeTypeWord, gd *GeometryDef, b *ShapeBuilder, geomType ShapeGeometryType) (int64, error) {
	const op = "GeometryBlobReader.decodeMultipart"
	b.Initialize(geomType, sw.HasZ, sw.HasM, sw.HasID)

	nv, cur, err := r.Uvarint(cur)
	if err != nil {
		return 0, err
	}
	if nv > math.MaxInt32 {
		return 0, malformedf(op, "point count %d exceeds int32::MAX", nv)
	}
	n := int(nv)
	if n == 0 {
		return cur, nil
	}

	pv, cur, err := r.Uvarint(cur)
	if err != nil {
		return 0, err
	}
	if pv > math.MaxInt32 {
		return 0, malformedf(op, "part count %d exceeds int32::MAX", pv)
	}
	p := int(pv)
	if p > n {
		return 0, malformedf(op, "part count %d exceeds point count %d", p, n)
	}

	mayHaveCurves := sw.mayHaveCurves()
	c := 0
	if mayHaveCurves {
		var cv uint64
		if cv, cur, err = r.Uvarint(cur); err != nil {
			return 0, err
		}
		if cv > math.MaxInt32 {
			return 0, malformedf(op, "curve count %d exceeds int32::MAX", cv)
		}
		c = int(cv)
		if c > n {
			return 0, malformedf(op, "curve count %d exceeds point count %d", c, n)
		}
	}

	xmin, ymin, xmax, ymax, cur, err := g.readBox(r, cur, gd)
	if err != nil {
		return 0, err
	}
	b.SetBBox(xmin, ymin, xmax, ymax)

	partCounts := make([]int, p)
	sum := 0
	for i := 0; i < p-1; i++ {
		var cv uint64
		if cv, cur, err = r.Uvarint(cur); err != nil {
			return 0, err
		}
		if cv > uint64(n-sum) {
			return 0, malformedf(op, "part %d vertex count %d exceeds remaining point count %d", i, cv, n-sum)
		}
		partCounts[i] = int(cv)
		sum += int(cv)
	}
	if p > 0 {
		partCounts[p-1] = n - sum
		if partCounts[p-1] < 0 {
			return 0, malformedf(op, "implicit last part vertex count is negative")
		}
	}
	start := int32(0)
	for i := 0; i < p; i++ {
		b.AddPart(start)
		start += int32(partCounts[i])
	}

	if cur, err = g.decodeXYStream(r, cur, gd, n, b); err != nil {
		return 0, err
	}
	if sw.HasZ {
		if cur, err = g.decodeZStream(r, cur, gd, n, b); err != nil {
			return 0, err
		}
	}
	if sw.HasM {
		if cur, err = g.decodeMStream(r, cur, gd, n, b); err != nil {
			return 0, err
		}
	}
	if mayHaveCurves {
		if cur, err = g.decodeCurveStream(r, cur, c, b); err != nil {
			return 0, err
		}
	}
	if sw.HasID {
		if cur, err = g.decodeIDStream(r, cur, n, b); err != nil {
			return 0, err
		}
	}
	return cur, nil
}

// decodeXYStream decodes n delta-coded XY vertices. The running accumulators
// are not reset at part boundaries (spec §4.3).
func (g *GeometryBlobReader) decodeXYStream(r *ByteReader, cur int64, gd *GeometryDef, n int, b *ShapeBuilder) (int64, error) {
	var dx, dy int64
	for i := 0; i < n; i++ {
		ix, next, err := decodeSignedVarint(r, cur)
		if err != nil {
			return 0, err
		}
		cur = next
		dx += ix
		var x float64
		if dx < 0 {
			x = math.NaN()
		} else {
			x = gd.XOrigin + float64(dx)/gd.XYScale
		}

		iy, next, err := decodeSignedVarint(r, cur)
		if err != nil {
			return 0, err
		}
		cur = next
		dy += iy
		var y float64
		if dy < 0 {
			y = math.NaN()
		} else {
			y = gd.YOrigin + float64(dy)/gd.XYScale
		}

		b.AddXY(x, y)
	}
	return cur, nil
}

func (g *GeometryBlobReader) decodeZStream(r *ByteReader, cur int64, gd *GeometryDef, n int, b *ShapeBuilder) (int64, error) {
	var dz int64
	for i := 0; i < n; i++ {
		iz, next, err := decodeSignedVarint(r, cur)
		if err != nil {
			return 0, err
		}
		cur = next
		dz += iz
		if dz < 0 {
			b.AddZ(math.NaN())
		} else {
			b.AddZ(gd.ZOrigin + float64(dz)/gd.ZScale)
		}
	}
	return cur, nil
}

// decodeMStream decodes n delta-coded M values honoring the -1/-2 sentinels
// (spec §4.3): dm == -2 means every remaining M (including this one) is NaN
// with no further bytes consumed.
func (g *GeometryBlobReader) decodeMStream(r *ByteReader, cur int64, gd *GeometryDef, n int, b *ShapeBuilder) (int64, error) {
	var dm int64
	for i := 0; i < n; i++ {
		if dm == -2 {
			b.AddM(math.NaN())
			continue
		}
		im, next, err := decodeSignedVarint(r, cur)
		if err != nil {
			return 0, err
		}
		cur = next
		dm += im
		if dm < 0 {
			b.AddM(math.NaN())
		} else {
			b.AddM(gd.MOrigin + float64(dm)/gd.MScale)
		}
	}
	return cur, nil
}

func (g *GeometryBlobReader) decodeIDStream(r *ByteReader, cur int64, n int, b *ShapeBuilder) (int64, error) {
	for i := 0; i < n; i++ {
		idv, next, err := decodeSignedVarint(r, cur)
		if err != nil {
			return 0, err
		}
		cur = next
		b.AddID(int32(idv))
	}
	return cur, nil
}

// decodeCurveStream decodes c curve segment modifiers, dispatching on the
// low byte of each record's type varint (spec §4.3). StraightLine (2) and
// Spiral (3) are rejected: the former must never appear as a modifier, the
// latter is simply unsupported by this core.
func (g *GeometryBlobReader) decodeCurveStream(r *ByteReader, cur int64, c int, b *ShapeBuilder) (int64, error) {
	const op = "GeometryBlobReader.decodeCurveStream"
	for i := 0; i < c; i++ {
		siV, next, err := r.Uvarint(cur)
		if err != nil {
			return 0, err
		}
		cur = next
		if siV > math.MaxInt32 {
			return 0, malformedf(op, "curve segment index %d exceeds int32::MAX", siV)
		}

		ctV, next, err := r.Uvarint(cur)
		if err != nil {
			return 0, err
		}
		cur = next
		kind := CurveKind(ctV & 0xFF)

		cm := CurveModifier{SegmentIndex: int32(siV), Kind: kind}
		switch kind {
		case CurveKindCircularArc:
			for j := 0; j < 2; j++ {
				v, err := r.Float64(cur)
				if err != nil {
					return 0, err
				}
				cur += 8
				cm.Params[j] = v
			}
			flags, err := r.Int32(cur)
			if err != nil {
				return 0, err
			}
			cur += 4
			cm.Flags = flags
		case CurveKindCubicBezier:
			for j := 0; j < 4; j++ {
				v, err := r.Float64(cur)
				if err != nil {
					return 0, err
				}
				cur += 8
				cm.Params[j] = v
			}
		case CurveKindEllipticArc:
			for j := 0; j < 5; j++ {
				v, err := r.Float64(cur)
				if err != nil {
					return 0, err
				}
				cur += 8
				cm.Params[j] = v
			}
			flags, err := r.Int32(cur)
			if err != nil {
				return 0, err
			}
			cur += 4
			cm.Flags = flags
		case 2:
			return 0, malformedf(op, "StraightLine must not appear as a curve modifier")
		case 3:
			return 0, unsupportedf(op, "Spiral curve segments are not supported")
		default:
			return 0, malformedf(op, "unsupported curve segment type %d", ctV)
		}
		b.AddCurve(cm)
	}
	return cur, nil
}
