package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomsilver/streamspec/internal/docgen"
	"github.com/tomsilver/streamspec/internal/presentation/tui"
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Render the definition as readable documentation",
	Long: `Loads the stream file and prints a documentation view of its streams,
predicates, and functions. Output is styled for the terminal when one is
attached, plain markdown otherwise.

Use --stream to show a single stream schema.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := loadDefinition(cmd, args)
		if err != nil {
			fatalf("Error loading definition: %v", err)
		}

		name, _ := cmd.Flags().GetString("stream")

		var doc string
		if name != "" {
			s, err := def.Stream(name)
			if err != nil {
				fatalf("Error: %v (known streams: %v)", err, def.StreamNames())
			}
			doc = docgen.Stream(s)
		} else {
			doc = docgen.Definition(def)
		}

		render := tui.NewRenderer()
		out, err := render(doc)
		if err != nil {
			out = doc
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().String("stream", "", "Show only the named stream")
}
