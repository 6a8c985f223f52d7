package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/ports"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored layout sessions",
	Long:  `List, inspect and delete layouts persisted in the configured store.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored layouts",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore(cmd)
		keys, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing layouts: %v\n", err)
			os.Exit(1)
		}

		if len(keys) == 0 {
			fmt.Println("No stored layouts found.")
			return
		}

		fmt.Println("Stored layouts:")
		for _, key := range keys {
			fmt.Println("- " + key)
		}
	},
}

var sessionsInspectCmd = &cobra.Command{
	Use:   "inspect <key>",
	Short: "Print a stored layout document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		store := sessionStore(cmd)

		layout, err := store.Load(cmd.Context(), key)
		if err != nil {
			fmt.Printf("Error loading layout '%s': %v\n", key, err)
			os.Exit(1)
		}

		data, err := codec.MarshalIndent(layout)
		if err != nil {
			fmt.Printf("Error encoding layout: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:     "delete <key>...",
	Aliases: []string{"rm"},
	Short:   "Delete one or more stored layouts",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore(cmd)
		hasError := false

		for _, key := range args {
			if err := store.Delete(cmd.Context(), key); err != nil {
				fmt.Printf("Error deleting '%s': %v\n", key, err)
				hasError = true
			} else {
				fmt.Printf("Deleted layout '%s'\n", key)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsInspectCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

// sessionStore opens the configured persistence backend with the same
// middleware the server uses, so encrypted layouts stay readable here.
func sessionStore(cmd *cobra.Command) ports.LayoutStore {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	store, _, err := openStore(cfg, nil)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	return store
}
