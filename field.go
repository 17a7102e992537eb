// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

// FieldType enumerates the on-disk field-type codes (spec §3).
type FieldType byte

const (
	FieldTypeInt16    FieldType = 0
	FieldTypeInt32    FieldType = 1
	FieldTypeSingle   FieldType = 2
	FieldTypeDouble   FieldType = 3
	FieldTypeString   FieldType = 4
	FieldTypeDateTime FieldType = 5
	FieldTypeObjectID FieldType = 6
	FieldTypeGeometry FieldType = 7
	FieldTypeBlob     FieldType = 8
	FieldTypeRaster   FieldType = 9
	FieldTypeGUID     FieldType = 10
	FieldTypeGlobalID FieldType = 11
	FieldTypeXML      FieldType = 12
	FieldTypeInt64    FieldType = 13

	// Rejected at decode time (spec §1 Non-goals).
	FieldTypeDateOnly       FieldType = 14
	FieldTypeTimeOnly       FieldType = 15
	FieldTypeDateTimeOffset FieldType = 16
)

func (t FieldType) String() string {
	switch t {
	case FieldTypeInt16:
		return "Int16"
	case FieldTypeInt32:
		return "Int32"
	case FieldTypeSingle:
		return "Single"
	case FieldTypeDouble:
		return "Double"
	case FieldTypeString:
		return "String"
	case FieldTypeDateTime:
		return "DateTime"
	case FieldTypeObjectID:
		return "ObjectID"
	case FieldTypeGeometry:
		return "Geometry"
	case FieldTypeBlob:
		return "Blob"
	case FieldTypeRaster:
		return "Raster"
	case FieldTypeGUID:
		return "GUID"
	case FieldTypeGlobalID:
		return "GlobalID"
	case FieldTypeXML:
		return "XML"
	case FieldTypeInt64:
		return "Int64"
	case FieldTypeDateOnly:
		return "DateOnly"
	case FieldTypeTimeOnly:
		return "TimeOnly"
	case FieldTypeDateTimeOffset:
		return "DateTimeOffset"
	default:
		return "Unknown"
	}
}

// rejected reports whether a field descriptor of this type can never be
// parsed by this core, per spec §1 Non-goals. Raster is not included here:
// its descriptor parses fine, and only its row value is rejected, at
// decode time (spec §4.2).
func (t FieldType) rejected() bool {
	switch t {
	case FieldTypeDateOnly, FieldTypeTimeOnly, FieldTypeDateTimeOffset:
		return true
	default:
		return false
	}
}

// GeometryDef carries the per-geometry-field quantization parameters used
// to decode a geometry blob (spec §3).
type GeometryDef struct {
	GeometryType  byte
	SpatialRefWKT string

	XOrigin, YOrigin, XYScale, XYTolerance float64

	HasZ                         bool
	ZOrigin, ZScale, ZTolerance  float64

	HasM                         bool
	MOrigin, MScale, MTolerance  float64

	// Extent is (xmin, ymin, xmax, ymax); ZExtent/MExtent are (min, max)
	// and are only populated when the owning table has Z/M.
	Extent  [4]float64
	ZExtent [2]float64
	MExtent [2]float64

	GridSizes []float64
}

// FieldDescriptor describes one column of a table (spec §3).
type FieldDescriptor struct {
	Name     string
	Alias    string
	Type     FieldType
	Nullable bool
	Length   int
	Default  []byte

	GeometryDef *GeometryDef // set iff Type == FieldTypeGeometry
	RasterType  byte         // not populated by parseFieldDescriptor; always zero
}

// parseFieldDescriptor decodes one field descriptor starting at offset,
// returning the descriptor and the offset immediately following it.
// tableHasZ/tableHasM come from the fields-section flags word and decide
// whether Geometry descriptors carry Z/M extent doubles.
func parseFieldDescriptor(r *ByteReader, offset int64, tableHasZ, tableHasM bool) (FieldDescriptor, int64, error) {
	const op = "parseFieldDescriptor"
	cur := offset

	nameLen, err := r.Uint8(cur)
	if err != nil {
		return FieldDescriptor{}, 0, err
	}
	cur++
	name, err := r.UTF16LEString(cur, int(nameLen))
	if err != nil {
		return FieldDescriptor{}, 0, err
	}
	cur += int64(nameLen) * 2

	aliasLen, err := r.Uint8(cur)
	if err != nil {
		return FieldDescriptor{}, 0, err
	}
	cur++
	alias, err := r.UTF16LEString(cur, int(aliasLen))
	if err != nil {
		return FieldDescriptor{}, 0, err
	}
	cur += int64(aliasLen) * 2

	typeByte, err := r.Uint8(cur)
	if err != nil {
		return FieldDescriptor{}, 0, err
	}
	cur++

	fd := FieldDescriptor{Name: name, Alias: alias, Type: FieldType(typeByte)}
	if fd.Type.rejected() {
		return FieldDescriptor{}, 0, unsupportedf(op, "field %q has unsupported type %s", name, fd.Type)
	}

	switch fd.Type {
	case FieldTypeObjectID:
		cur += 2
		fd.Nullable = false

	case FieldTypeGeometry:
		cur++ // unused byte
		flagByte, err := r.Uint8(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur++
		fd.Nullable = flagByte&0x01 != 0

		wktLen, err := r.Int16(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur += 2
		wkt, err := r.UTF16LEString(cur, int(wktLen)/2)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur += int64(wktLen)

		geomFlags, err := r.Uint8(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur++
		hasM := geomFlags&0x02 != 0
		hasZ := geomFlags&0x04 != 0

		gd := &GeometryDef{SpatialRefWKT: wkt, HasZ: hasZ, HasM: hasM}

		if gd.XOrigin, err = r.Float64(cur); err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur += 8
		if gd.YOrigin, err = r.Float64(cur); err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur += 8
		if gd.XYScale, err = r.Float64(cur); err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur += 8

		if hasM {
			if gd.MOrigin, err = r.Float64(cur); err != nil {
				return FieldDescriptor{}, 0, err
			}
			cur += 8
			if gd.MScale, err = r.Float64(cur); err != nil {
				return FieldDescriptor{}, 0, err
			}
			cur += 8
		}
		if hasZ {
			if gd.ZOrigin, err = r.Float64(cur); err != nil {
				return FieldDescriptor{}, 0, err
			}
			cur += 8
			if gd.ZScale, err = r.Float64(cur); err != nil {
				return FieldDescriptor{}, 0, err
			}
			cur += 8
		}

		if gd.XYTolerance, err = r.Float64(cur); err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur += 8
		if hasM {
			if gd.MTolerance, err = r.Float64(cur); err != nil {
				return FieldDescriptor{}, 0, err
			}
			cur += 8
		}
		if hasZ {
			if gd.ZTolerance, err = r.Float64(cur); err != nil {
				return FieldDescriptor{}, 0, err
			}
			cur += 8
		}

		for i := 0; i < 4; i++ {
			v, err := r.Float64(cur)
			if err != nil {
				return FieldDescriptor{}, 0, err
			}
			gd.Extent[i] = v
			cur += 8
		}
		if tableHasZ {
			for i := 0; i < 2; i++ {
				v, err := r.Float64(cur)
				if err != nil {
					return FieldDescriptor{}, 0, err
				}
				gd.ZExtent[i] = v
				cur += 8
			}
		}
		if tableHasM {
			for i := 0; i < 2; i++ {
				v, err := r.Float64(cur)
				if err != nil {
					return FieldDescriptor{}, 0, err
				}
				gd.MExtent[i] = v
				cur += 8
			}
		}

		cur++ // unused byte before grid count

		gridCount, err := r.Int32(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur += 4
		if gridCount < 1 || gridCount > 3 {
			return FieldDescriptor{}, 0, malformedf(op, "geometry field %q has invalid grid count %d", name, gridCount)
		}
		gd.GridSizes = make([]float64, gridCount)
		for i := range gd.GridSizes {
			v, err := r.Float64(cur)
			if err != nil {
				return FieldDescriptor{}, 0, err
			}
			gd.GridSizes[i] = v
			cur += 8
		}

		if gd.XYScale <= 0 {
			return FieldDescriptor{}, 0, malformedf(op, "geometry field %q has non-positive xy_scale", name)
		}
		if hasZ && gd.ZScale <= 0 {
			return FieldDescriptor{}, 0, malformedf(op, "geometry field %q has non-positive z_scale", name)
		}
		if hasM && gd.MScale <= 0 {
			return FieldDescriptor{}, 0, malformedf(op, "geometry field %q has non-positive m_scale", name)
		}

		fd.GeometryDef = gd

	case FieldTypeString, FieldTypeXML:
		length, err := r.Int32(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur += 4
		fd.Length = int(length)

		flagByte, err := r.Uint8(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur++
		fd.Nullable = flagByte&0x01 != 0
		hasDefault := flagByte&0x04 != 0

		defaultLen, next, err := r.Uvarint(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur = next
		if hasDefault {
			fd.Default, err = r.Bytes(cur, int(defaultLen))
			if err != nil {
				return FieldDescriptor{}, 0, err
			}
			cur += int64(defaultLen)
		}

	case FieldTypeBlob:
		cur++ // unused byte
		flagByte, err := r.Uint8(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur++
		fd.Nullable = flagByte&0x01 != 0

	case FieldTypeGUID, FieldTypeGlobalID:
		cur++ // size byte, always 38
		flagByte, err := r.Uint8(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur++
		fd.Nullable = flagByte&0x01 != 0

	case FieldTypeRaster:
		// Read but never decoded: sizes/flags consumed like Numeric/Date
		// below so the fields-section cursor stays in sync, values are
		// rejected at row-decode time (spec §3).
		cur++
		flagByte, err := r.Uint8(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur++
		fd.Nullable = flagByte&0x01 != 0
		defLen, err := r.Uint8(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur++
		if defLen > 0 {
			fd.Default, err = r.Bytes(cur, int(defLen))
			if err != nil {
				return FieldDescriptor{}, 0, err
			}
			cur += int64(defLen)
		}

	default: // Int16, Int32, Single, Double, DateTime, Int64
		cur++ // size byte
		flagByte, err := r.Uint8(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur++
		fd.Nullable = flagByte&0x01 != 0

		defLen, err := r.Uint8(cur)
		if err != nil {
			return FieldDescriptor{}, 0, err
		}
		cur++
		if defLen > 0 {
			fd.Default, err = r.Bytes(cur, int(defLen))
			if err != nil {
				return FieldDescriptor{}, 0, err
			}
			cur += int64(defLen)
		}
	}

	return fd, cur, nil
}
