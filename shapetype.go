// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

// ShapeType is the low-8-bits basic shape type code carried by a geometry
// blob's leading varint (spec §6).
type ShapeType byte

const (
	ShapeTypeNull             ShapeType = 0
	ShapeTypePoint            ShapeType = 1
	ShapeTypePolyline         ShapeType = 3
	ShapeTypePolygon          ShapeType = 5
	ShapeTypeMultipoint       ShapeType = 8
	ShapeTypePointZ           ShapeType = 9
	ShapeTypePolylineZ        ShapeType = 10
	ShapeTypePointZM          ShapeType = 11
	ShapeTypePolylineZM       ShapeType = 13
	ShapeTypePolygonZM        ShapeType = 15
	ShapeTypeGeometryBag      ShapeType = 17
	ShapeTypeMultipointZM     ShapeType = 18
	ShapeTypePolygonZ         ShapeType = 19
	ShapeTypeMultipointZ      ShapeType = 20
	ShapeTypePointM           ShapeType = 21
	ShapeTypePolylineM        ShapeType = 23
	ShapeTypePolygonM         ShapeType = 25
	ShapeTypeMultipointM      ShapeType = 28
	ShapeTypeMultiPatchM      ShapeType = 31
	ShapeTypeMultiPatch       ShapeType = 32
	ShapeTypeGeneralPolyline  ShapeType = 50
	ShapeTypeGeneralPolygon   ShapeType = 51
	ShapeTypeGeneralPoint     ShapeType = 52
	ShapeTypeGeneralMultipoint ShapeType = 53
	ShapeTypeGeneralMultiPatch ShapeType = 54
	ShapeTypeBox              ShapeType = 254 // synthetic, never on disk
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeNull:
		return "Null"
	case ShapeTypePoint:
		return "Point"
	case ShapeTypePolyline:
		return "Polyline"
	case ShapeTypePolygon:
		return "Polygon"
	case ShapeTypeMultipoint:
		return "Multipoint"
	case ShapeTypePointZ:
		return "PointZ"
	case ShapeTypePolylineZ:
		return "PolylineZ"
	case ShapeTypePointZM:
		return "PointZM"
	case ShapeTypePolylineZM:
		return "PolylineZM"
	case ShapeTypePolygonZM:
		return "PolygonZM"
	case ShapeTypeGeometryBag:
		return "GeometryBag"
	case ShapeTypeMultipointZM:
		return "MultipointZM"
	case ShapeTypePolygonZ:
		return "PolygonZ"
	case ShapeTypeMultipointZ:
		return "MultipointZ"
	case ShapeTypePointM:
		return "PointM"
	case ShapeTypePolylineM:
		return "PolylineM"
	case ShapeTypePolygonM:
		return "PolygonM"
	case ShapeTypeMultipointM:
		return "MultipointM"
	case ShapeTypeMultiPatchM:
		return "MultiPatchM"
	case ShapeTypeMultiPatch:
		return "MultiPatch"
	case ShapeTypeGeneralPolyline:
		return "GeneralPolyline"
	case ShapeTypeGeneralPolygon:
		return "GeneralPolygon"
	case ShapeTypeGeneralPoint:
		return "GeneralPoint"
	case ShapeTypeGeneralMultipoint:
		return "GeneralMultipoint"
	case ShapeTypeGeneralMultiPatch:
		return "GeneralMultiPatch"
	case ShapeTypeBox:
		return "Box"
	default:
		return "Unknown"
	}
}

// isPolyline/isPolygon/isMultipoint/isPoint classify the basic type for
// dispatch purposes, independent of the Z/M/curve/ID flag bits layered on
// top of it in the blob's shape-type word.
func (t ShapeType) isPolyline() bool {
	switch t {
	case ShapeTypePolyline, ShapeTypePolylineZ, ShapeTypePolylineM, ShapeTypePolylineZM, ShapeTypeGeneralPolyline:
		return true
	default:
		return false
	}
}

func (t ShapeType) isPolygon() bool {
	switch t {
	case ShapeTypePolygon, ShapeTypePolygonZ, ShapeTypePolygonM, ShapeTypePolygonZM, ShapeTypeGeneralPolygon:
		return true
	default:
		return false
	}
}

func (t ShapeType) isMultipoint() bool {
	switch t {
	case ShapeTypeMultipoint, ShapeTypeMultipointZ, ShapeTypeMultipointM, ShapeTypeMultipointZM, ShapeTypeGeneralMultipoint:
		return true
	default:
		return false
	}
}

func (t ShapeType) isPoint() bool {
	switch t {
	case ShapeTypePoint, ShapeTypePointZ, ShapeTypePointM, ShapeTypePointZM, ShapeTypeGeneralPoint:
		return true
	default:
		return false
	}
}

func (t ShapeType) isMultiPatch() bool {
	switch t {
	case ShapeTypeMultiPatch, ShapeTypeMultiPatchM, ShapeTypeGeneralMultiPatch:
		return true
	default:
		return false
	}
}

// shapeTypeWord is the decoded leading varint of a geometry blob: a basic
// ShapeType plus the HasZ/HasM/HasCurves/HasID flag bits in its top byte.
type shapeTypeWord struct {
	Basic      ShapeType
	HasZ       bool
	HasM       bool
	HasCurves  bool
	HasID      bool
	rawFlags   byte // the flag byte as stored, used by the "all zero" curve shortcut
}

const (
	shapeFlagHasZ      = 1 << 31
	shapeFlagHasM      = 1 << 30
	shapeFlagHasCurves = 1 << 29
	shapeFlagHasID     = 1 << 28
)

func decodeShapeTypeWord(v uint64) (shapeTypeWord, error) {
	if v > 0xFFFFFFFF {
		return shapeTypeWord{}, malformedf("decodeShapeTypeWord", "shape type word %d exceeds 32 bits", v)
	}
	v32 := uint32(v)
	w := shapeTypeWord{
		Basic:    ShapeType(v32 & 0xFF),
		HasZ:     v32&shapeFlagHasZ != 0,
		HasM:     v32&shapeFlagHasM != 0,
		HasCurves: v32&shapeFlagHasCurves != 0,
		HasID:    v32&shapeFlagHasID != 0,
		rawFlags: byte(v32 >> 24),
	}
	return w, nil
}

// mayHaveCurves implements the "GetMayHaveCurves" rule from spec §4.3: true
// for any GeneralPolygon/GeneralPolyline whose flag byte is entirely zero,
// or for any polyline/polygon with the HasCurves bit set; false for
// anything that isn't a polyline/polygon.
func (w shapeTypeWord) mayHaveCurves() bool {
	if !w.Basic.isPolyline() && !w.Basic.isPolygon() {
		return false
	}
	if (w.Basic == ShapeTypeGeneralPolygon || w.Basic == ShapeTypeGeneralPolyline) && w.rawFlags == 0 {
		return true
	}
	return w.HasCurves
}
