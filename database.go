// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fgdb

import (
	"path/filepath"
	"sync"
)

// Database is a top-level handle over a File Geodatabase directory: it
// opens the catalog once at construction and hands out TableReaders by
// identifier or name, tracking every opened table so Close can release
// them all together (spec §2, §3 Lifecycles).
type Database struct {
	dir     string
	catalog *Catalog

	mu     sync.Mutex
	opened map[int32]*TableReader
}

// Open opens dir as a File Geodatabase, reading its catalog table.
func Open(dir string) (*Database, error) {
	catPaths := tablePaths(dir, catalogBaseName)
	catTable, err := OpenTableReader(catPaths.data, catPaths.offsetIndex, catPaths.indexes)
	if err != nil {
		return nil, err
	}

	cat, err := openCatalog(catTable)
	if err != nil {
		catTable.Close()
		return nil, err
	}

	db := &Database{
		dir:     dir,
		catalog: cat,
		opened:  map[int32]*TableReader{catalogEntryID1: catTable},
	}
	return db, nil
}

const catalogEntryID1 = 1

type tablePathSet struct {
	data        string
	offsetIndex string
	indexes     string
}

func tablePaths(dir, base string) tablePathSet {
	return tablePathSet{
		data:        filepath.Join(dir, base+".gdbtable"),
		offsetIndex: filepath.Join(dir, base+".gdbtablx"),
		indexes:     filepath.Join(dir, base+".gdbindexes"),
	}
}

// Catalog returns the database's parsed catalog.
func (db *Database) Catalog() *Catalog { return db.catalog }

// OpenTableByName opens (or returns the already-open) TableReader for the
// catalog entry matching name.
func (db *Database) OpenTableByName(name string) (*TableReader, error) {
	const op = "Database.OpenTableByName"
	entry, ok := db.catalog.Lookup(name)
	if !ok {
		return nil, notFoundf(op, "no table named %q", name)
	}
	return db.OpenTableByID(entry.ID)
}

// OpenTableByID opens (or returns the already-open) TableReader for the
// catalog entry with the given object identifier.
func (db *Database) OpenTableByID(id int32) (*TableReader, error) {
	const op = "Database.OpenTableByID"

	db.mu.Lock()
	defer db.mu.Unlock()

	if t, ok := db.opened[id]; ok {
		return t, nil
	}

	found := false
	for _, e := range db.catalog.entries {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, notFoundf(op, "no catalog entry with id %d", id)
	}

	paths := tablePaths(db.dir, baseNameForID(id))
	t, err := OpenTableReader(paths.data, paths.offsetIndex, paths.indexes)
	if err != nil {
		return nil, err
	}
	db.opened[id] = t
	return t, nil
}

// Close closes every TableReader this Database has opened.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var firstErr error
	for id, t := range db.opened {
		if err := t.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(db.opened, id)
	}
	return firstErr
}
