// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import "strings"

// CatalogEntry is one row of the well-known catalog table: the FGDB's
// directory of tables (spec §3).
type CatalogEntry struct {
	ID     int32
	Name   string
	Format int32
}

// catalogBaseName is the catalog table's own on-disk base name; object
// identifier 1 is reserved for it (spec §3).
const catalogBaseName = "a00000001"

// Catalog enumerates the catalog table's rows and resolves table names to
// identifiers, with a case-insensitive fallback (spec §2).
type Catalog struct {
	entries  []CatalogEntry
	byLower  map[string]int // lowercased name -> index into entries
}

// openCatalog reads every row of the already-open catalog TableReader.
func openCatalog(t *TableReader) (*Catalog, error) {
	const op = "openCatalog"

	nameIdx, formatIdx := -1, -1
	for i, fd := range t.Fields() {
		switch {
		case nameIdx < 0 && (fd.Type == FieldTypeString || fd.Type == FieldTypeXML):
			nameIdx = i
		case formatIdx < 0 && fd.Type == FieldTypeInt32:
			formatIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, malformedf(op, "catalog table has no string-typed name field")
	}

	c := &Catalog{byLower: make(map[string]int)}
	it := t.Scan()
	for it.Next() {
		row := it.Row()
		name, _ := row[nameIdx].(string)
		var format int32
		if formatIdx >= 0 {
			format, _ = row[formatIdx].(int32)
		}
		entry := CatalogEntry{ID: int32(it.ObjectID()), Name: name, Format: format}
		c.byLower[strings.ToLower(name)] = len(c.entries)
		c.entries = append(c.entries, entry)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	return c, nil
}

// Entries returns every catalog row, in ascending object-identifier order.
func (c *Catalog) Entries() []CatalogEntry { return c.entries }

// Lookup resolves a table name to its catalog entry, trying an exact match
// first and falling back to a case-insensitive one.
func (c *Catalog) Lookup(name string) (CatalogEntry, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, true
		}
	}
	if i, ok := c.byLower[strings.ToLower(name)]; ok {
		return c.entries[i], true
	}
	return CatalogEntry{}, false
}

// baseNameForID returns the on-disk base name for a catalog entry's table files,
// following Esri's `a{id:08x}` convention.
func baseNameForID(id int32) string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 9)
	b[0] = 'a'
	for i := 7; i >= 0; i-- {
		b[1+i] = hexDigits[id&0xF]
		id >>= 4
	}
	return string(b)
}
