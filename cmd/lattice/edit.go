package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/cli"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Edit a layout document interactively",
	Long: `Starts the interactive editor on a document. With --json the editor
speaks NDJSON on stdin/stdout for host embedding; --watch re-renders the
document outline whenever the file changes on disk.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		path, _ := cmd.Flags().GetString("file")
		if !cmd.Flags().Changed("file") && len(args) > 0 {
			path = args[0]
		}

		template, _ := cmd.Flags().GetString("template")
		templatesDir, _ := cmd.Flags().GetString("templates-dir")
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		watch, _ := cmd.Flags().GetBool("watch")
		debug, _ := cmd.Flags().GetBool("debug")
		discard, _ := cmd.Flags().GetBool("discard")
		saveKey, _ := cmd.Flags().GetString("save-key")
		storeDir, _ := cmd.Flags().GetString("store-dir")
		redisAddr, _ := cmd.Flags().GetString("redis")
		strict, _ := cmd.Flags().GetBool("strict")

		opts := cli.EditOptions{
			Path:         path,
			Dir:          dir,
			TemplatesDir: templatesDir,
			Template:     template,
			JSON:         jsonMode,
			Quiet:        quiet,
			Watch:        watch,
			Debug:        debug,
			Discard:      discard,
			SaveKey:      saveKey,
			StoreDir:     storeDir,
			RedisAddr:    redisAddr,
			Strict:       strict,
		}

		if err := cli.Execute(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringP("file", "f", "", "Document file to edit (defaults to layout.json in --dir)")
	editCmd.Flags().StringP("template", "t", "", "Start from a named template in the template library")
	editCmd.Flags().String("templates-dir", "templates", "Template library directory")
	editCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	editCmd.Flags().BoolP("quiet", "q", false, "Suppress banner and prompts")
	editCmd.Flags().BoolP("watch", "w", false, "Re-render when the document changes on disk")
	editCmd.Flags().Bool("debug", false, "Log engine hooks at debug level")
	editCmd.Flags().Bool("discard", false, "Do not write the document back on exit")
	editCmd.Flags().String("save-key", "", "Autosave store key (enables the layout store)")
	editCmd.Flags().String("store-dir", "", "File store directory (defaults to <dir>/.lattice/layouts)")
	editCmd.Flags().String("redis", "", "Redis address for the layout store (overrides --store-dir)")
	editCmd.Flags().Bool("strict", false, "Enforce containment rules and config schemas")

	// Make 'edit' the default if no command is provided.
	rootCmd.Run = editCmd.Run
}
