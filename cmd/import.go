package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/pipeline"
	"github.com/theirongolddev/tend/internal/source"
)

var flagImportForce bool

var importCmd = &cobra.Command{
	Use:   "import <file.json|dir>",
	Short: "Import key-value JSON dumps from the original app",
	Long: "Reads one dump or every *.json dump in a directory. Dumps are applied " +
		"oldest first, so for each collection the newest dump wins. Dumps already " +
		"imported are skipped unless --force is given.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Re-import dumps that were already imported")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	files, err := source.Describe(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	if len(files) == 0 {
		fmt.Printf("\n  No JSON dumps found in %s\n", args[0])
		return nil
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	progress := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Importing [%d/%d]", current, total)
	}

	res, err := pipeline.Import(s.st, s.kv, files, flagImportForce, progress)
	if !flagQuiet && res != nil && res.ParsedFiles > 0 {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderKV([][2]string{
		{"Dumps found", fmt.Sprintf("%d", res.TotalFiles)},
		{"Imported", fmt.Sprintf("%d", res.ParsedFiles)},
		{"Unchanged", fmt.Sprintf("%d", res.Unchanged)},
		{"Collections", strings.Join(res.Keys, ", ")},
	}))

	if res.Unchanged > 0 && res.ParsedFiles == 0 {
		fmt.Println("  Everything was already imported. Use --force to import again.")
	}
	if res.FileErrors > 0 {
		fmt.Fprintln(os.Stderr, cli.RenderAlert(fmt.Sprintf("%d files could not be read", res.FileErrors)))
	}
	if res.ParseErrors > 0 {
		fmt.Fprintln(os.Stderr, cli.RenderAlert(fmt.Sprintf("%d values were malformed and skipped", res.ParseErrors)))
	}
	if res.UnknownKeys > 0 {
		info("%d unrecognized keys ignored", res.UnknownKeys)
	}
	return nil
}
