package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the definition as YAML or JSON",
	Long: `Loads the stream file and re-emits it in a structured format so other
tooling can consume the schema without a PDDL parser.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def, err := loadDefinition(cmd, args)
		if err != nil {
			fatalf("Error loading definition: %v", err)
		}

		format, _ := cmd.Flags().GetString("format")

		var out []byte
		switch format {
		case "yaml":
			out, err = def.EncodeYAML()
		case "json":
			out, err = def.EncodeJSON()
		default:
			fatalf("Unknown format: %s. Supported: yaml, json", format)
		}
		if err != nil {
			fatalf("Error encoding definition: %v", err)
		}

		if _, err := os.Stdout.Write(out); err != nil {
			fatalf("Error writing output: %v", err)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "yaml", "Output format (yaml or json)")
}
