package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metafix/format"
	"github.com/lehigh-university-libraries/metafix/repair"
)

var (
	checkManifest string
	checkVerbose  bool
)

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Validate record files and list the ones that fail",
	Long: `Walk a directory, parse every record whose format can be detected and
report each file that fails along with the parser's message.

With --manifest the failures are written as an errored-record manifest
that "metafix repair" consumes.

Examples:
  metafix check dc
  metafix check dc -m manifest.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkManifest, "manifest", "m", "", "Write failures as a manifest to this file")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Print each failing file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := args[0]

	records, err := repair.Check(cmd.Context(), dir, format.DefaultRegistry, repair.ReviewSubdir)
	if err != nil {
		return err
	}

	if checkVerbose || checkManifest == "" {
		for _, r := range records {
			fmt.Printf("%s [%s]: %s\n", r.SourcePath, r.Format, r.Diagnostic)
		}
	}

	if checkManifest != "" {
		if err := repair.WriteManifest(checkManifest, records); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d errored records to %s\n", len(records), checkManifest)
	}

	if len(records) == 0 {
		fmt.Println("✓ All records parse")
	}
	return nil
}
