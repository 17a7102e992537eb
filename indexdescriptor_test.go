// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "testing"

func appendLengthPrefixedUTF16(buf []byte, s string) []byte {
	u := utf16leBytes(s)
	buf = append(buf, byte(len(s)))
	return append(buf, u...)
}

func buildIndexDescriptors(t *testing.T) []byte {
	t.Helper()

	var body []byte
	body = appendLengthPrefixedUTF16(body, "OBJECTID_Index") // index name
	body = appendUint16LE(body, 1)                            // field count
	body = appendLengthPrefixedUTF16(body, "OBJECTID")
	body = append(body, 0) // type: Attribute

	body = appendLengthPrefixedUTF16(body, "Shape_Index")
	body = appendUint16LE(body, 1)
	body = appendLengthPrefixedUTF16(body, "Shape")
	body = append(body, 1) // type: Spatial

	var buf []byte
	buf = appendUint32LE(buf, 1) // signature, unused
	buf = appendUint32LE(buf, 2) // index count
	buf = append(buf, body...)
	return buf
}

func TestParseIndexDescriptors(t *testing.T) {
	r := NewByteReaderBytes(buildIndexDescriptors(t))
	idx, err := parseIndexDescriptors(r)
	if err != nil {
		t.Fatalf("parseIndexDescriptors failed, reason: %v", err)
	}
	if len(idx) != 2 {
		t.Fatalf("got %d index descriptors, want 2", len(idx))
	}

	if idx[0].Name != "OBJECTID_Index" || idx[0].Spatial {
		t.Errorf("idx[0] = %+v, want attribute index named OBJECTID_Index", idx[0])
	}
	if len(idx[0].Fields) != 1 || idx[0].Fields[0] != "OBJECTID" {
		t.Errorf("idx[0].Fields = %v, want [OBJECTID]", idx[0].Fields)
	}

	if idx[1].Name != "Shape_Index" || !idx[1].Spatial {
		t.Errorf("idx[1] = %+v, want spatial index named Shape_Index", idx[1])
	}
	if len(idx[1].Fields) != 1 || idx[1].Fields[0] != "Shape" {
		t.Errorf("idx[1].Fields = %v, want [Shape]", idx[1].Fields)
	}
}

func TestParseIndexDescriptorsEmpty(t *testing.T) {
	var buf []byte
	buf = appendUint32LE(buf, 1) // signature
	buf = appendUint32LE(buf, 0) // index count
	r := NewByteReaderBytes(buf)

	idx, err := parseIndexDescriptors(r)
	if err != nil {
		t.Fatalf("parseIndexDescriptors failed, reason: %v", err)
	}
	if len(idx) != 0 {
		t.Errorf("got %d index descriptors, want 0", len(idx))
	}
}
