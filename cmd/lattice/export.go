package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/pkg/adapters/process"
	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Re-encode a document to canonical JSON",
	Long: `Reads a document, validates it and writes the canonical encoding to
stdout or --output. With --exec the document is piped through a registered
exporter command instead (see the exporters file in lattice.yaml).`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExport(cmd, args); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().Bool("pretty", false, "Indent the output")
	exportCmd.Flags().String("exec", "", "Pipe the document through a registered exporter")
	exportCmd.Flags().Bool("allow-inline", false, "Allow the document to declare its own exporter in metadata (dangerous)")
}

func runExport(cmd *cobra.Command, args []string) error {
	path, err := documentPath(cmd, args)
	if err != nil {
		return err
	}
	layout, err := codec.ImportFile(path)
	if err != nil {
		return err
	}

	if name, _ := cmd.Flags().GetString("exec"); name != "" {
		return runExporter(cmd, name, layout)
	}

	pretty, _ := cmd.Flags().GetBool("pretty")
	var data []byte
	if pretty {
		data, err = codec.MarshalIndent(layout)
	} else {
		data, err = codec.Marshal(layout)
	}
	if err != nil {
		return err
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		return os.WriteFile(output, data, 0o644)
	}
	fmt.Println(string(data))
	return nil
}

func runExporter(cmd *cobra.Command, name string, layout *domain.Layout) error {
	dir, _ := cmd.Flags().GetString("dir")
	allowInline, _ := cmd.Flags().GetBool("allow-inline")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runnerOpts := []process.RunnerOption{
		process.WithBaseDir(dir),
		process.WithInlineExecution(allowInline),
	}
	if cfg.Exporters != "" {
		exporters, err := process.LoadExporters(cfg.Exporters)
		if err != nil {
			return fmt.Errorf("error loading exporters: %w", err)
		}
		runnerOpts = append(runnerOpts, process.WithRegistry(exporters))
	}

	runner := process.NewRunner(runnerOpts...)
	result, err := runner.Execute(cmd.Context(), name, layout)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	if result.IsError {
		os.Exit(1)
	}
	return nil
}
