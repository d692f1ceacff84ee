package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomsilver/streamspec/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the stream dependency graph",
	Long: `Loads the stream file and outputs a Mermaid diagram (graph TD) connecting
domain predicates, streams, and the predicates they certify.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := loadDefinition(cmd, args)
		if err != nil {
			fatalf("Error loading definition: %v", err)
		}
		fmt.Print(graph.GenerateMermaid(def))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
