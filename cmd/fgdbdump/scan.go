// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/scanlinegis/fgdb"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scan <gdb-dir> <table>",
		Short: "Walk a table's rows in object-identifier order",
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

			n := 0
			it := t.Scan()
			for it.Next() {
				fmt.Println(formatRow(it.ObjectID(), it.Row()))
				n++
				if limit > 0 && n >= limit {
					break
				}
			}
			return it.Err()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many rows (0 = unlimited)")
	return cmd
}

func formatRow(oid int64, row fgdb.Row) string {
	out := fmt.Sprintf("%6d:", oid)
	for _, v := range row {
		switch val := v.(type) {
		case fgdb.GeometryBlob:
			shape, err := val.Shape()
			if err != nil {
				out += fmt.Sprintf(" <geometry: %v>", err)
				continue
			}
			out += fmt.Sprintf(" <geometry: %d pts>", shape.NumPoints())
		default:
			out += fmt.Sprintf(" %v", val)
		}
	}
	return out
}
