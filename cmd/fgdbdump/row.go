// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/scanlinegis/fgdb"
	"github.com/spf13/cobra"
)

func newRowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "row <gdb-dir> <table> <oid>",
		Short: "Dump a single row by object identifier",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			oid, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid object id %q: %w", args[2], err)
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

			row, ok, err := t.ReadRow(oid)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("row %d is absent or deleted", oid)
			}

			fields := t.Fields()
			for i, v := range row {
				fmt.Printf("%-24s = %v\n", fields[i].Name, v)
			}
			return nil
		},
	}
}
