package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/validator"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/widgets"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a layout document for consistency",
	Long: `Loads a document and reports structural problems (dangling children,
stranded widgets, duplicate mounts) plus catalog-level warnings such as
unknown widget types or config values that miss their property schema.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("no-catalog", false, "Skip catalog checks (structure only)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, path, err := readDocument(cmd, args)
	if err != nil {
		return err
	}

	var catalog ports.WidgetCatalog = widgets.Standard()
	if skip, _ := cmd.Flags().GetBool("no-catalog"); skip {
		catalog = nil
	}

	report := validator.Inspect(doc, catalog)
	for _, warning := range report.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	if !report.Ok() {
		return report.Err()
	}

	fmt.Printf("%s is valid (%s) ✅\n", path, report.Summary())
	return nil
}
