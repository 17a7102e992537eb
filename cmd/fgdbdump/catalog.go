// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/scanlinegis/fgdb"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog <gdb-dir>",
		Short: "List every table in the geodatabase's catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := fgdb.Open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			for _, e := range db.Catalog().Entries() {
				fmt.Printf("%8d  %-40s  format=%d\n", e.ID, e.Name, e.Format)
			}
			return nil
		},
	}
}
