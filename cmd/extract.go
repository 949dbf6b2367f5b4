package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metafix/extract"
)

var (
	extractInput  string
	extractDir    string
	extractKind   string
	extractProlog bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write raw records to per-record files",
	Long: `Read raw (id, record) pairs from a JSON lines file and write the
structural part of each record to its own file.

For Dublin Core only the tag-delimited text of each line is kept and files
are named dc_record_007.xml. For JSON-LD everything from the first brace is
kept and files are named jsonld_record_007.json. Records with no structural
content are skipped. Input ending in .gz is decompressed.

Examples:
  metafix extract -i records.jsonl -d dc
  metafix extract -i records.jsonl.gz -d jsonld --kind jsonld`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "input", "i", "", "JSON lines input with id and record fields (required)")
	extractCmd.Flags().StringVarP(&extractDir, "dir", "d", ".", "Directory to write record files to")
	extractCmd.Flags().StringVar(&extractKind, "kind", string(extract.KindDublinCore), "Record kind (dublincore, jsonld)")
	extractCmd.Flags().BoolVar(&extractProlog, "prolog", false, "Start each XML file with the template's XML prolog")
	_ = extractCmd.MarkFlagRequired("input")
}

func runExtract(cmd *cobra.Command, args []string) error {
	pairs, err := extract.ReadPairsFile(extractInput)
	if err != nil {
		return err
	}

	opts := extract.Options{Kind: extract.Kind(extractKind)}
	if extractProlog {
		tmpl, err := loadTemplates()
		if err != nil {
			return err
		}
		opts.Prolog = tmpl.Prolog
	}

	written, err := extract.Write(pairs, extractDir, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %d of %d records to %s\n", len(written), len(pairs), extractDir)
	return nil
}
