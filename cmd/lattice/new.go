package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice"
	loamlib "github.com/aretw0/lattice/pkg/adapters/loam"
	"github.com/aretw0/lattice/pkg/widgets"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [file]",
	Short: "Create a new layout document",
	Long:  `Writes a fresh document, empty or instantiated from a template, without entering the editor.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runNew(cmd, args); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringP("template", "t", "", "Instantiate a named template instead of an empty document")
	newCmd.Flags().String("templates-dir", "templates", "Template library directory")
	newCmd.Flags().Bool("force", false, "Overwrite the file if it already exists")
}

func runNew(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	template, _ := cmd.Flags().GetString("template")
	templatesDir, _ := cmd.Flags().GetString("templates-dir")
	force, _ := cmd.Flags().GetBool("force")

	path := filepath.Join(dir, "layout.json")
	if len(args) > 0 {
		path = args[0]
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	opts := []lattice.Option{lattice.WithCatalog(widgets.Standard())}

	var ed *lattice.Editor
	if template != "" {
		if templatesDir == "templates" {
			if candidate := filepath.Join(dir, "templates"); dirExists(candidate) {
				templatesDir = candidate
			}
		}
		lib, err := loamlib.Open(templatesDir)
		if err != nil {
			return fmt.Errorf("error opening template library: %w", err)
		}
		ed, err = lattice.NewFromTemplate(lib, template, opts...)
		if err != nil {
			return err
		}
	} else {
		ed = lattice.New(opts...)
	}

	data, err := ed.Export(true)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing document: %w", err)
	}

	fmt.Printf("Created %s (%d widgets)\n", path, ed.Layout().WidgetCount())
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
