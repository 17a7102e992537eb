// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import (
	"time"
)

// oleEpoch is the zero point for the DateTime field type: days since
// 1899-12-30 (spec §3 field-type table).
var oleEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func oleDateToTime(days float64) time.Time {
	return oleEpoch.Add(time.Duration(days * float64(24*time.Hour)))
}

// GeometryBlob is a value-semantic wrapper around a row's raw geometry
// bytes plus a borrowed reference to its field's geometry definition; it
// can be decoded multiple times idempotently (spec §3 Lifecycles).
type GeometryBlob struct {
	bytes []byte
	def   *GeometryDef
}

// Bytes returns the raw, still-encoded geometry blob.
func (g GeometryBlob) Bytes() []byte { return g.bytes }

// Decode parses the blob into b, reusing b's existing allocations.
func (g GeometryBlob) Decode(b *ShapeBuilder) error {
	return NewGeometryBlobReader().Decode(g.bytes, g.def, b)
}

// Shape decodes the blob and materializes it as a Shape in one call.
func (g GeometryBlob) Shape() (*Shape, error) {
	b := NewShapeBuilder()
	if err := g.Decode(b); err != nil {
		return nil, err
	}
	return b.ToShape()
}

const dataFileHeaderFixedTail = 16 // file_size:i64, fields_section_offset:i64

// TableReader opens a table's data file and offset-index file, parses the
// data-file header and field-descriptor section, and reads rows either
// singly by object identifier or via a forward scan (spec §4.2).
type TableReader struct {
	data   *ByteReader
	offset *OffsetIndexReader

	rowCount       int64
	fieldsOffset   int64
	fileSize       int64

	schemaVersion   int32
	useUTF8         bool
	tableGeomType   byte
	tableHasZ       bool
	tableHasM       bool

	fields        []FieldDescriptor
	objectIDIndex int
	nullableIdx   []int // index into fields, in order, for fields whose Nullable==true

	indexesPath string
	indexes     []IndexDescriptor
	indexesRead bool
}

// OpenTableReader memory-maps the files at dataPath and offsetIndexPath and
// parses both headers (use NewTableReaderBytes for in-memory backing).
// indexesPath is optional metadata, read lazily by Indexes().
func OpenTableReader(dataPath, offsetIndexPath, indexesPath string) (*TableReader, error) {
	data, err := OpenByteReader(dataPath)
	if err != nil {
		return nil, err
	}
	offIdxReader, err := OpenByteReader(offsetIndexPath)
	if err != nil {
		data.Close()
		return nil, err
	}
	offIdx, err := OpenOffsetIndexReader(offIdxReader)
	if err != nil {
		data.Close()
		offIdxReader.Close()
		return nil, err
	}

	t := &TableReader{data: data, offset: offIdx, indexesPath: indexesPath}
	if err := t.parseHeader(); err != nil {
		data.Close()
		offIdxReader.Close()
		return nil, err
	}
	return t, nil
}

// NewTableReaderBytes wraps already-open byte sources, mainly for tests.
func NewTableReaderBytes(data, offsetIndex []byte) (*TableReader, error) {
	dr := NewByteReaderBytes(data)
	offIdx, err := OpenOffsetIndexReader(NewByteReaderBytes(offsetIndex))
	if err != nil {
		return nil, err
	}
	t := &TableReader{data: dr, offset: offIdx}
	if err := t.parseHeader(); err != nil {
		return nil, err
	}
	return t, nil
}

// Close releases the underlying byte sources.
func (t *TableReader) Close() error {
	var err error
	if e := t.data.Close(); e != nil {
		err = e
	}
	if e := t.offset.r.Close(); e != nil {
		err = e
	}
	return err
}

func (t *TableReader) parseHeader() error {
	const op = "TableReader.parseHeader"

	version, err := t.data.Int32(0)
	if err != nil {
		return err
	}

	var cur int64
	switch version {
	case 3:
		rowCount, err := t.data.Int32(4)
		if err != nil {
			return err
		}
		magic2, err := t.data.Int32(12)
		if err != nil {
			return err
		}
		if magic2 != 5 {
			return malformedf(op, "v3 data file has unexpected magic2 %d", magic2)
		}
		t.rowCount = int64(rowCount)
		cur = 24 // 4 (version) + 4 (row_count) + 4 (max_entry_size) + 4 (magic2) + 4 (magic3) + 4 (magic4)

	case 4:
		rowCount, err := t.data.Int64(16)
		if err != nil {
			return err
		}
		magic2, err := t.data.Int32(12)
		if err != nil {
			return err
		}
		if magic2 != 5 {
			return malformedf(op, "v4 data file has unexpected magic2 %d", magic2)
		}
		t.rowCount = rowCount
		cur = 24 // 4 (version) + 4 (flag) + 4 (max_entry_size) + 4 (magic2) + 8 (row_count)

	default:
		return unsupportedf(op, "data file has unsupported version %d", version)
	}

	fileSize, err := t.data.Int64(cur)
	if err != nil {
		return err
	}
	fieldsOffset, err := t.data.Int64(cur + 8)
	if err != nil {
		return err
	}
	t.fileSize = fileSize
	t.fieldsOffset = fieldsOffset

	return t.parseFieldsSection()
}

func (t *TableReader) parseFieldsSection() error {
	const op = "TableReader.parseFieldsSection"

	cur := t.fieldsOffset
	if _, err := t.data.Int32(cur); err != nil { // header_bytes, unused beyond presence
		return err
	}
	cur += 4

	schemaVersion, err := t.data.Int32(cur)
	if err != nil {
		return err
	}
	cur += 4
	switch schemaVersion {
	case 3, 4, 6:
	default:
		return unsupportedf(op, "fields section has unsupported schema version %d", schemaVersion)
	}
	t.schemaVersion = schemaVersion

	flags, err := t.data.Uint32(cur)
	if err != nil {
		return err
	}
	cur += 4
	t.useUTF8 = flags&(1<<8) != 0
	t.tableGeomType = byte(flags & 0xFF)
	t.tableHasZ = flags&(1<<31) != 0
	t.tableHasM = flags&(1<<30) != 0

	fieldCount, err := t.data.Int16(cur)
	if err != nil {
		return err
	}
	cur += 2
	if fieldCount < 0 {
		return malformedf(op, "negative field count %d", fieldCount)
	}

	t.fields = make([]FieldDescriptor, fieldCount)
	t.objectIDIndex = -1
	for i := 0; i < int(fieldCount); i++ {
		fd, next, err := parseFieldDescriptor(t.data, cur, t.tableHasZ, t.tableHasM)
		if err != nil {
			return err
		}
		cur = next
		if fd.Type == FieldTypeObjectID {
			if t.objectIDIndex >= 0 {
				return malformedf(op, "table has more than one ObjectID field")
			}
			t.objectIDIndex = i
		}
		if fd.Nullable {
			t.nullableIdx = append(t.nullableIdx, i)
		}
		t.fields[i] = fd
	}
	if t.objectIDIndex < 0 {
		return malformedf(op, "table has no ObjectID field")
	}

	return nil
}

// Fields returns the table's field descriptors, in on-disk order.
func (t *TableReader) Fields() []FieldDescriptor { return t.fields }

// MaxObjectID returns the largest object identifier the table could
// conceivably hold, including deleted rows.
func (t *TableReader) MaxObjectID() int64 { return t.offset.MaxObjectID() }

// Row is one decoded record, field-ordered to match Fields(). A nil entry
// means the field's value is null; ObjectID's entry is always the row's
// external identifier, never raw bytes (spec §4.2).
type Row []any

// ReadRow reads and decodes the row for oid, or (nil, false, nil) if oid is
// absent/deleted.
func (t *TableReader) ReadRow(oid int64) (Row, bool, error) {
	const op = "TableReader.ReadRow"

	offset, ok, err := t.offset.RowOffset(oid)
	if err != nil || !ok {
		return nil, false, err
	}

	blobSize, err := t.data.Uint32(offset)
	if err != nil {
		return nil, false, err
	}
	cur := offset + 4
	rowEnd := offset + 4 + int64(blobSize)

	var nullBits []byte
	if len(t.nullableIdx) > 0 {
		nullBytes := (len(t.nullableIdx) + 7) / 8
		nullBits, err = t.data.Bytes(cur, nullBytes)
		if err != nil {
			return nil, false, err
		}
		cur += int64(nullBytes)
	}

	isNull := make(map[int]bool, len(t.nullableIdx))
	for bitPos, fieldIdx := range t.nullableIdx {
		byteIdx := bitPos / 8
		bit := uint(bitPos % 8)
		if nullBits[byteIdx]&(1<<bit) != 0 {
			isNull[fieldIdx] = true
		}
	}

	row := make(Row, len(t.fields))
	for i, fd := range t.fields {
		if fd.Type == FieldTypeObjectID {
			row[i] = oid
			continue
		}
		if isNull[i] {
			row[i] = nil
			continue
		}

		v, next, err := t.decodeFieldValue(cur, fd)
		if err != nil {
			return nil, false, err
		}
		cur = next
		row[i] = v
	}

	if cur > rowEnd || rowEnd-cur > 4 {
		return nil, false, malformedf(op, "row payload ended at %d, expected near %d", cur, rowEnd)
	}

	return row, true, nil
}

func (t *TableReader) decodeFieldValue(cur int64, fd FieldDescriptor) (any, int64, error) {
	const op = "TableReader.decodeFieldValue"

	switch fd.Type {
	case FieldTypeInt16:
		v, err := t.data.Int16(cur)
		return v, cur + 2, err
	case FieldTypeInt32:
		v, err := t.data.Int32(cur)
		return v, cur + 4, err
	case FieldTypeSingle:
		v, err := t.data.Float32(cur)
		return v, cur + 4, err
	case FieldTypeDouble:
		v, err := t.data.Float64(cur)
		return v, cur + 8, err
	case FieldTypeDateTime:
		days, err := t.data.Float64(cur)
		if err != nil {
			return nil, 0, err
		}
		return oleDateToTime(days), cur + 8, nil
	case FieldTypeInt64:
		v, err := t.data.Int64(cur)
		return v, cur + 8, err

	case FieldTypeString, FieldTypeXML:
		length, next, err := t.data.Uvarint(cur)
		if err != nil {
			return nil, 0, err
		}
		if t.useUTF8 {
			s, err := t.data.UTF8String(next, int(length))
			return s, next + int64(length), err
		}
		s, err := t.data.UTF16LEString(next, int(length)/2)
		return s, next + int64(length), err

	case FieldTypeBlob:
		length, next, err := t.data.Uvarint(cur)
		if err != nil {
			return nil, 0, err
		}
		b, err := t.data.Bytes(next, int(length))
		return b, next + int64(length), err

	case FieldTypeGeometry:
		length, next, err := t.data.Uvarint(cur)
		if err != nil {
			return nil, 0, err
		}
		b, err := t.data.Bytes(next, int(length))
		if err != nil {
			return nil, 0, err
		}
		return GeometryBlob{bytes: b, def: fd.GeometryDef}, next + int64(length), nil

	case FieldTypeGUID, FieldTypeGlobalID:
		b, err := t.data.Bytes(cur, 16)
		if err != nil {
			return nil, 0, err
		}
		var raw [16]byte
		copy(raw[:], b)
		u, err := decodeGUID(raw)
		return u, cur + 16, err

	default:
		return nil, 0, unsupportedf(op, "field %q has undecodable type %s", fd.Name, fd.Type)
	}
}

// Scan returns an iterator over rows in ascending object-identifier order,
// skipping absent/deleted rows (spec §4.2). It is finite and not
// restartable mid-scan.
func (t *TableReader) Scan() *RowIterator {
	return &RowIterator{t: t, next: 1, max: t.MaxObjectID()}
}

// RowIterator walks a table's rows in ascending object-identifier order.
type RowIterator struct {
	t   *TableReader
	next int64
	max  int64

	oid int64
	row Row
	err error
}

// Next advances to the next present row, returning false at end of scan or
// on error (check Err after a false return).
func (it *RowIterator) Next() bool {
	for it.next <= it.max {
		oid := it.next
		it.next++

		row, ok, err := it.t.ReadRow(oid)
		if err != nil {
			it.err = err
			return false
		}
		if !ok {
			continue
		}
		it.oid = oid
		it.row = row
		return true
	}
	return false
}

// Row returns the current row. Valid only after Next returns true.
func (it *RowIterator) Row() Row { return it.row }

// ObjectID returns the current row's object identifier.
func (it *RowIterator) ObjectID() int64 { return it.oid }

// Err returns the error that stopped the scan, if any.
func (it *RowIterator) Err() error { return it.err }

// Indexes parses and memoizes the table's {base}.gdbindexes metadata, or
// returns an empty slice if the table has no such file (spec §4.5).
func (t *TableReader) Indexes() ([]IndexDescriptor, error) {
	if t.indexesRead {
		return t.indexes, nil
	}
	if t.indexesPath == "" {
		t.indexesRead = true
		return nil, nil
	}

	r, err := OpenByteReader(t.indexesPath)
	if err != nil {
		if ferr, ok := err.(*Error); ok && ferr.Kind == KindIO {
			t.indexesRead = true
			return nil, nil
		}
		return nil, err
	}
	defer r.Close()

	idx, err := parseIndexDescriptors(r)
	if err != nil {
		return nil, err
	}
	t.indexes = idx
	t.indexesRead = true
	return t.indexes, nil
}
