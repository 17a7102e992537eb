// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/scanlinegis/fgdb"
	"github.com/spf13/cobra"
)

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <gdb-dir> <table>",
		Short: "Dump a table's field descriptors",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := fgdb.Open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			t, err := db.OpenTableByName(args[1])
			if err != nil {
				return err
			}

			for _, fd := range t.Fields() {
				nullable := ""
				if fd.Nullable {
					nullable = " nullable"
				}
				fmt.Printf("%-24s %-10s%s\n", fd.Name, fd.Type, nullable)
				if fd.GeometryDef != nil {
					gd := fd.GeometryDef
					fmt.Printf("    xy_scale=%g origin=(%g,%g) hasZ=%v hasM=%v\n",
						gd.XYScale, gd.XOrigin, gd.YOrigin, gd.HasZ, gd.HasM)
				}
			}

			idx, err := t.Indexes()
			if err != nil {
				return err
			}
			for _, ix := range idx {
				kind := "attribute"
				if ix.Spatial {
					kind = "spatial"
				}
				fmt.Printf("index %-20s %s %v\n", ix.Name, kind, ix.Fields)
			}
			return nil
		},
	}
}
