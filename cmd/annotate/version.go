package main

import (
	"fmt"

	"github.com/aretw0/annotate"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of annotate",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("annotate version %s\n", annotate.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
