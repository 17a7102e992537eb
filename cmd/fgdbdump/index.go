// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/dhconnelly/rtreego"
	"github.com/scanlinegis/fgdb"
	"github.com/spf13/cobra"
)

// shapeEntry adapts one row's decoded shape to rtreego.Spatial.
type shapeEntry struct {
	oid   int64
	rect  rtreego.Rect
}

func (e shapeEntry) Bounds() rtreego.Rect { return e.rect }

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <gdb-dir> <table> <xmin> <ymin> <xmax> <ymax>",
		Short: "Build an in-memory R-tree over a table's shapes and query a bbox",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			bounds, err := parseBBox(args[2:6])
			if err != nil {
				return err
			}

			db, err := fgdb.Open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			t, err := db.OpenTableByName(args[1])
			if err != nil {
				return err
			}

			geomIdx := -1
			for i, fd := range t.Fields() {
				if fd.Type == fgdb.FieldTypeGeometry {
					geomIdx = i
					break
				}
			}
			if geomIdx < 0 {
				return fmt.Errorf("table %q has no geometry field", args[1])
			}

			// Parameters mirror the 2D, min=25/max=50 children tuning used
			// for spatial indexing over a moderate chart count.
			tree := rtreego.NewTree(2, 25, 50)

			it := t.Scan()
			for it.Next() {
				blob, ok := it.Row()[geomIdx].(fgdb.GeometryBlob)
				if !ok {
					continue
				}
				shape, err := blob.Shape()
				if err != nil {
					return err
				}
				if shape.IsEmpty() {
					continue
				}
				xmin, ymin, xmax, ymax := shape.Bounds()
				rect, err := bboxToRect(xmin, ymin, xmax, ymax)
				if err != nil {
					continue
				}
				tree.Insert(shapeEntry{oid: it.ObjectID(), rect: rect})
			}
			if err := it.Err(); err != nil {
				return err
			}

			queryRect, err := bboxToRect(bounds[0], bounds[1], bounds[2], bounds[3])
			if err != nil {
				return err
			}
			for _, sp := range tree.SearchIntersect(queryRect) {
				fmt.Println(sp.(shapeEntry).oid)
			}
			return nil
		},
	}
	return cmd
}

func parseBBox(args []string) ([4]float64, error) {
	var out [4]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return out, fmt.Errorf("invalid coordinate %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

func bboxToRect(xmin, ymin, xmax, ymax float64) (rtreego.Rect, error) {
	return rtreego.NewRect(rtreego.Point{xmin, ymin}, []float64{xmax - xmin, ymax - ymin})
}
