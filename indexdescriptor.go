// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

// IndexDescriptor describes one entry in a table's {base}.gdbindexes file:
// a named grouping of one or more fields, tagged attribute or spatial. It is
// metadata only — this core never traverses an index for queries (spec §4.5).
type IndexDescriptor struct {
	Name    string
	Fields  []string
	Spatial bool
}

// parseIndexDescriptors parses the full contents of a {base}.gdbindexes
// byte source: header `signature:i32, index_count:i32`, followed by
// index_count entries of `name (length-prefixed UTF-16), field_count:i16,
// field_count field-name strings (length-prefixed UTF-16), type:u8
// (0=Attribute, 1=Spatial)` (spec §4.5 expansion).
func parseIndexDescriptors(r *ByteReader) ([]IndexDescriptor, error) {
	const op = "parseIndexDescriptors"

	if _, err := r.Int32(0); err != nil { // signature, unused beyond presence
		return nil, err
	}
	count, err := r.Int32(4)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, malformedf(op, "negative index count %d", count)
	}

	cur := int64(8)
	out := make([]IndexDescriptor, 0, count)
	for i := int32(0); i < count; i++ {
		name, next, err := readLengthPrefixedUTF16(r, cur)
		if err != nil {
			return nil, err
		}
		cur = next

		fieldCount, err := r.Int16(cur)
		if err != nil {
			return nil, err
		}
		cur += 2
		if fieldCount < 0 {
			return nil, malformedf(op, "index %q has negative field count %d", name, fieldCount)
		}

		fields := make([]string, fieldCount)
		for j := int16(0); j < fieldCount; j++ {
			fields[j], cur, err = readLengthPrefixedUTF16(r, cur)
			if err != nil {
				return nil, err
			}
		}

		typeFlag, err := r.Uint8(cur)
		if err != nil {
			return nil, err
		}
		cur++

		out = append(out, IndexDescriptor{Name: name, Fields: fields, Spatial: typeFlag == 1})
	}

	return out, nil
}

func readLengthPrefixedUTF16(r *ByteReader, offset int64) (string, int64, error) {
	length, err := r.Uint8(offset)
	if err != nil {
		return "", 0, err
	}
	s, err := r.UTF16LEString(offset+1, int(length))
	if err != nil {
		return "", 0, err
	}
	return s, offset + 1 + int64(length)*2, nil
}
