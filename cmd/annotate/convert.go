package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/annotate"
	"github.com/aretw0/annotate/pkg/adapters/fs"
)

var convertOut string

var convertCmd = &cobra.Command{
	Use:   "convert [base]",
	Short: "Convert a standoff .txt/.ann pair into a document fixture",
	Long: `Read <base>.txt (one sentence per line, space separated tokens) and the optional
<base>.ann (brat standoff), and print the resulting getDocument payload.
With --out the payload is written into the fixture directory instead, e.g.

  annotate convert corpus/ned.train-doc-75 --out ned/ned.train-doc-75.data.js`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := strings.TrimSuffix(strings.TrimSuffix(args[0], fs.TextSuffix), fs.AnnotationSuffix)

		text, err := os.ReadFile(base + fs.TextSuffix)
		if err != nil {
			return err
		}
		markup, err := os.ReadFile(base + fs.AnnotationSuffix)
		if err != nil && !os.IsNotExist(err) {
			return err
		}

		doc := annotate.FromStandoff(string(text), string(markup), time.Now())
		slog.Debug("converted standoff", "base", base, "entities", len(doc.Entities), "tokens", len(doc.TokenOffsets))

		if convertOut == "" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(doc)
		}

		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}

		root := fixtureRoot()
		if root == "" {
			return fmt.Errorf("no fixture directory: pass --fixtures")
		}
		repo, err := annotate.OpenRepository(root, annotate.WithLogger(slog.Default()))
		if err != nil {
			return err
		}
		if err := repo.Save(cmd.Context(), convertOut, payload); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d entities)\n", convertOut, len(doc.Entities))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "Fixture path to write, relative to the fixture directory")
}
