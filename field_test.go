// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import (
	"math"
	"testing"
)

func appendFloat64LE(buf []byte, v float64) []byte {
	return appendUint64LE(buf, math.Float64bits(v))
}

func TestParseFieldDescriptorGUID(t *testing.T) {
	var buf []byte
	buf = appendFieldDescriptor(buf, "GlobalID", "GlobalID", byte(FieldTypeGUID), []byte{
		38, // size byte, always 38
		0,  // flags: not nullable
	})

	r := NewByteReaderBytes(buf)
	fd, next, err := parseFieldDescriptor(r, 0, false, false)
	if err != nil {
		t.Fatalf("parseFieldDescriptor failed, reason: %v", err)
	}
	if fd.Type != FieldTypeGUID || fd.Nullable {
		t.Errorf("fd = %+v, want non-nullable GUID", fd)
	}
	if int(next) != len(buf) {
		t.Errorf("cursor ended at %d, want %d (end of buffer)", next, len(buf))
	}
}

func TestParseFieldDescriptorGeometryNoZM(t *testing.T) {
	wkt := "GEOGCS[]"
	var extra []byte
	extra = append(extra, 0) // unused byte
	extra = append(extra, 1) // flags: nullable, no M/Z
	extra = appendUint16LE(extra, uint16(len(wkt)*2))
	extra = append(extra, utf16leBytes(wkt)...)
	extra = append(extra, 0) // geom flags: no M, no Z

	extra = appendFloat64LE(extra, -180) // x origin
	extra = appendFloat64LE(extra, -90)  // y origin
	extra = appendFloat64LE(extra, 1e8)  // xy scale
	extra = appendFloat64LE(extra, 0.001) // xy tolerance
	for i := 0; i < 4; i++ {
		extra = appendFloat64LE(extra, float64(i)) // extent xmin,ymin,xmax,ymax
	}
	extra = append(extra, 0)              // unused byte before grid count
	extra = appendUint32LE(extra, 1)      // grid count
	extra = appendFloat64LE(extra, 1000)  // grid size 0

	var buf []byte
	buf = appendFieldDescriptor(buf, "Shape", "Shape", byte(FieldTypeGeometry), extra)

	r := NewByteReaderBytes(buf)
	fd, next, err := parseFieldDescriptor(r, 0, false, false)
	if err != nil {
		t.Fatalf("parseFieldDescriptor failed, reason: %v", err)
	}
	if fd.Type != FieldTypeGeometry || !fd.Nullable {
		t.Fatalf("fd = %+v, want nullable Geometry", fd)
	}
	gd := fd.GeometryDef
	if gd == nil {
		t.Fatal("GeometryDef is nil")
	}
	if gd.HasZ || gd.HasM {
		t.Errorf("HasZ/HasM = %v/%v, want false/false", gd.HasZ, gd.HasM)
	}
	if gd.XYScale != 1e8 {
		t.Errorf("XYScale = %v, want 1e8", gd.XYScale)
	}
	if len(gd.GridSizes) != 1 || gd.GridSizes[0] != 1000 {
		t.Errorf("GridSizes = %v, want [1000]", gd.GridSizes)
	}
	if gd.SpatialRefWKT != wkt {
		t.Errorf("SpatialRefWKT = %q, want %q", gd.SpatialRefWKT, wkt)
	}
	if int(next) != len(buf) {
		t.Errorf("cursor ended at %d, want %d (end of buffer)", next, len(buf))
	}
}

func TestParseFieldDescriptorRaster(t *testing.T) {
	var buf []byte
	buf = appendFieldDescriptor(buf, "Thumbnail", "Thumbnail", byte(FieldTypeRaster), []byte{
		0, // unused byte
		0, // flags: not nullable
		0, // default_len
	})

	r := NewByteReaderBytes(buf)
	fd, next, err := parseFieldDescriptor(r, 0, false, false)
	if err != nil {
		t.Fatalf("parseFieldDescriptor on Raster failed, reason: %v", err)
	}
	if fd.Type != FieldTypeRaster || fd.Nullable {
		t.Errorf("fd = %+v, want non-nullable Raster", fd)
	}
	if int(next) != len(buf) {
		t.Errorf("cursor ended at %d, want %d (end of buffer)", next, len(buf))
	}
}

func TestParseFieldDescriptorRejectsUnsupportedType(t *testing.T) {
	var buf []byte
	buf = appendFieldDescriptor(buf, "AsOf", "AsOf", byte(FieldTypeDateOnly), nil)

	r := NewByteReaderBytes(buf)
	if _, _, err := parseFieldDescriptor(r, 0, false, false); err == nil {
		t.Fatal("parseFieldDescriptor on DateOnly succeeded, want rejection")
	}
}
