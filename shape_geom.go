// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import geom "github.com/peterstace/simplefeatures/geom"

// coordDim maps a shape's Z/M flags to the simplefeatures coordinates type
// whose vertex layout (X, Y, [Z], [M]) matches Shape.vertexCoords below.
func coordDim(hasZ, hasM bool) geom.CoordinatesType {
	switch {
	case hasZ && hasM:
		return geom.DimXYZM
	case hasZ:
		return geom.DimXYZ
	case hasM:
		return geom.DimXYM
	default:
		return geom.DimXY
	}
}

func (s *Shape) vertexCoords(i int) []float64 {
	coords := []float64{s.X[i], s.Y[i]}
	if s.HasZ {
		coords = append(coords, s.Z[i])
	}
	if s.HasM {
		coords = append(coords, s.M[i])
	}
	return coords
}

// ToGeomGeometry converts a decoded Shape into a simplefeatures/geom
// Geometry for consumers who want WKT/WKB or other simplefeatures-based
// processing (spec §4.7, expansion).
//
// Curve modifiers have no simplefeatures analogue: the composite vertex
// stream a Polyline/Polygon already carries is the chord approximation of
// any curved segments, so converting simply ignores Curves and is not an
// error.
func (s *Shape) ToGeomGeometry() (geom.Geometry, error) {
	const op = "Shape.ToGeomGeometry"
	dim := coordDim(s.HasZ, s.HasM)

	switch s.GeometryType {
	case ShapeGeometryNull:
		return geom.Geometry{}, nil

	case ShapeGeometryEnvelope:
		return geom.Geometry{}, missingContextf(op, "Envelope has no simplefeatures analogue")

	case ShapeGeometryPoint:
		if len(s.X) == 0 {
			return geom.NewEmptyPoint(dim).AsGeometry(), nil
		}
		return geom.NewPoint(geom.NewSequence(s.vertexCoords(0), dim)).AsGeometry(), nil

	case ShapeGeometryMultipoint:
		pts := make([]geom.Point, len(s.X))
		for i := range s.X {
			pts[i] = geom.NewPoint(geom.NewSequence(s.vertexCoords(i), dim))
		}
		return geom.NewMultiPoint(pts).AsGeometry(), nil

	case ShapeGeometryPolyline:
		lines, err := s.partsToLineStrings(dim)
		if err != nil {
			return geom.Geometry{}, err
		}
		if len(lines) == 1 {
			return lines[0].AsGeometry(), nil
		}
		return geom.NewMultiLineString(lines).AsGeometry(), nil

	case ShapeGeometryPolygon:
		rings, err := s.partsToLineStrings(dim)
		if err != nil {
			return geom.Geometry{}, err
		}
		return geom.NewPolygon(rings).AsGeometry(), nil

	default:
		return geom.Geometry{}, unsupportedf(op, "geometry type %d has no simplefeatures mapping", s.GeometryType)
	}
}

func (s *Shape) partsToLineStrings(dim geom.CoordinatesType) ([]geom.LineString, error) {
	n := len(s.PartStarts)
	if n == 0 {
		return nil, nil
	}
	out := make([]geom.LineString, n)
	for i, start := range s.PartStarts {
		end := int32(len(s.X))
		if i+1 < n {
			end = s.PartStarts[i+1]
		}
		var coords []float64
		for v := start; v < end; v++ {
			coords = append(coords, s.vertexCoords(int(v))...)
		}
		out[i] = geom.NewLineString(geom.NewSequence(coords, dim))
	}
	return out, nil
}
