package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/widgets"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Print a document outline",
	Long: `Reads a document and prints a human-readable outline of the widget
tree: display names from the standard catalog, shortened IDs, the leading
config values and the theme. Rendered for the terminal unless --raw.`,
	Run: func(cmd *cobra.Command, args []string) {
		doc, _, err := readDocument(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		outline := tui.Outline(doc, widgets.Standard())

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Print(outline)
			return
		}

		render := tui.NewRenderer()
		pretty, err := render(outline)
		if err != nil {
			// Fall back to the plain markdown.
			fmt.Print(outline)
			return
		}
		fmt.Print(pretty)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Bool("raw", false, "Print plain markdown without terminal styling")
}
