package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice is a headless layout document editor",
	Long: `Lattice edits widget layout documents: an ID-addressed widget tree
with validated structure, snapshot undo/redo, templates and pluggable
persistence. Running it without a subcommand opens the interactive editor.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the lattice project")
	rootCmd.PersistentFlags().String("config", "", "Config file path (defaults to <dir>/lattice.yaml)")
}
