package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomsilver/streamspec"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a stream-definition file for consistency",
	Long: `Parses the stream file and reports schema problems: duplicate names,
unbound parameters, outputs shadowing inputs, and references to predicates
nothing declares or certifies.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := resolvePath(args)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	def, err := streamspec.Parse(data)
	if err != nil {
		return err
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	report := streamspec.Validate(def, opts...)

	for _, warning := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning.String())
	}
	if err := report.Err(); err != nil {
		return err
	}

	fmt.Printf("%s: definition %s is valid (%d streams, %d predicates, %d functions)\n",
		path, def.Name, len(def.Streams), len(def.Predicates), len(def.Functions))
	return nil
}
