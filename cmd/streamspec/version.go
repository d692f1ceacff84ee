package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomsilver/streamspec"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of streamspec",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("streamspec version %s\n", strings.TrimSpace(streamspec.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
