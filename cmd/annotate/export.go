package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/annotate/pkg/core"
)

var exportIOB bool

var exportCmd = &cobra.Command{
	Use:   "export [collection/document]",
	Short: "Export a document's annotations",
	Long: `Open a document (built-in or from the fixture directory) and print its annotations.
With --iob (the default) one "token TAG" line is printed per token, with B-/I- prefixes
for entity tokens, O for the rest and an empty line between sentences, e.g.

  annotate export ned/ned.train-doc-75 > doc-75.iob`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDispatcher()
		if err != nil {
			return err
		}
		if err := openDocument(cmd.Context(), d, args[0]); err != nil {
			return err
		}

		doc := d.Session().Current()
		if !exportIOB {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(doc)
		}

		iob, err := core.ToIOB(doc)
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", args[0], err)
		}
		slog.Debug("exported document", "document", args[0], "entities", len(doc.Entities))
		fmt.Println(iob)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportIOB, "iob", true, "Print IOB lines instead of the document JSON")
}
