package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the widget tree visualization",
	Long:  `Reads a document and outputs a Mermaid diagram (graph TD) of the widget tree.`,
	Run: func(cmd *cobra.Command, args []string) {
		doc, _, err := readDocument(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(doc, nil)
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
