// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "fgdbdump",
		Short: "A File Geodatabase reader",
		Long:  "Reads catalog, schema, rows and geometry out of an Esri File Geodatabase directory",
	}

	rootCmd.AddCommand(
		newCatalogCmd(),
		newFieldsCmd(),
		newScanCmd(),
		newRowCmd(),
		newIndexCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
