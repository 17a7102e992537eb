// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "testing"

func TestOpenCatalogFromSingleRowTable(t *testing.T) {
	data, offIdx := buildSingleRowTable(t)
	tbl, err := NewTableReaderBytes(data, offIdx)
	if err != nil {
		t.Fatalf("NewTableReaderBytes failed, reason: %v", err)
	}

	cat, err := openCatalog(tbl)
	if err != nil {
		t.Fatalf("openCatalog failed, reason: %v", err)
	}
	entries := cat.Entries()
	if len(entries) != 1 {
		t.Fatalf("Entries() has %d rows, want 1", len(entries))
	}
	if entries[0].Name != "Alice" || entries[0].Format != 42 {
		t.Errorf("entry = %+v, want Name=Alice Format=42", entries[0])
	}

	if _, ok := cat.Lookup("alice"); !ok {
		t.Error("Lookup(\"alice\") missed, want case-insensitive fallback to succeed")
	}
	if _, ok := cat.Lookup("bob"); ok {
		t.Error("Lookup(\"bob\") succeeded, want miss")
	}
}

func TestBaseNameForID(t *testing.T) {
	tests := []struct {
		id   int32
		want string
	}{
		{1, "a00000001"},
		{255, "a000000ff"},
	}
	for _, tt := range tests {
		if got := baseNameForID(tt.id); got != tt.want {
			t.Errorf("baseNameForID(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
