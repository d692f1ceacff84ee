package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomsilver/streamspec"
	"github.com/tomsilver/streamspec/pkg/domain"
)

// defaultFile is the conventional name for the stream-definition file next to
// the planner's domain file.
const defaultFile = "stream.pddl"

// resolvePath picks the stream file from args or falls back to the
// conventional name in the working directory.
func resolvePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultFile
}

// loadOptions collects the facade options implied by the persistent flags.
func loadOptions(cmd *cobra.Command) ([]streamspec.Option, error) {
	var opts []streamspec.Option

	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return nil, err
	}
	if strict {
		opts = append(opts, streamspec.WithStrict())
	}

	primitives, err := cmd.Flags().GetStringSlice("primitives")
	if err != nil {
		return nil, err
	}
	if len(primitives) > 0 {
		opts = append(opts, streamspec.WithPrimitives(primitives...))
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	opts = append(opts, streamspec.WithLogger(logger))

	return opts, nil
}

// loadDefinition reads and validates the stream file selected by args.
func loadDefinition(cmd *cobra.Command, args []string) (*domain.Definition, error) {
	opts, err := loadOptions(cmd)
	if err != nil {
		return nil, err
	}
	return streamspec.LoadFile(resolvePath(args), opts...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
