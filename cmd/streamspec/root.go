package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomsilver/streamspec/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "streamspec",
	Short: "streamspec works with PDDL-style stream-definition files",
	Long: `streamspec parses, validates, documents, and serves the stream-definition
files a task-and-motion planner consumes as configuration.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSlice("primitives", nil, "Predicates declared by the companion domain file")
	rootCmd.PersistentFlags().Bool("strict", false, "Treat validation warnings as errors")
}

// newLogger builds the logger from the --log-level flag.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	name, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}
