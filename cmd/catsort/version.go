package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/catsort"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of catsort",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "catsort version %s\n", strings.TrimSpace(catsort.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
