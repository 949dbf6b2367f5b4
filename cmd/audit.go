package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metafix/audit"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit extracted records",
	Long:  `Audit commands produce read-only reports over record files.`,
}

var auditContextsCmd = &cobra.Command{
	Use:   "contexts <dir>",
	Short: "Report JSON-LD files missing a Dublin Core @context",
	Long: `Checks every .json and .jsonld file for an @context and whether it
references the Dublin Core or DC terms namespace.

Example:
  metafix audit contexts jsonld
  metafix audit contexts jsonld --json -o contexts.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAuditContexts,
}

var auditFieldsCmd = &cobra.Command{
	Use:   "empty-fields <dir>",
	Short: "Count empty Dublin Core elements as CSV",
	Long: `Counts empty dc: and dcterms: elements per field across every .xml
file and writes the totals as CSV.

Example:
  metafix audit empty-fields corrected -o empty_fields.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runAuditFields,
}

func init() {
	auditCmd.AddCommand(auditContextsCmd)
	auditCmd.AddCommand(auditFieldsCmd)

	auditContextsCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	auditContextsCmd.Flags().Bool("json", false, "Output as JSON")
	auditFieldsCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
}

func runAuditContexts(cmd *cobra.Command, args []string) error {
	outputFile, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	tmpl, err := loadTemplates()
	if err != nil {
		return err
	}
	report, err := audit.Contexts(args[0], tmpl)
	if err != nil {
		return err
	}

	var output []byte
	if jsonOutput {
		output, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
	} else {
		output = []byte(formatContextReport(report))
	}

	if outputFile != "" {
		return os.WriteFile(outputFile, output, 0644)
	}

	fmt.Println(string(output))
	return nil
}

func formatContextReport(report *audit.ContextReport) string {
	var sb strings.Builder

	sb.WriteString("=== JSON-LD Context Audit ===\n\n")
	fmt.Fprintf(&sb, "Files: %d\n", report.Total)
	fmt.Fprintf(&sb, "With @context: %d\n\n", report.WithContext)

	section := func(title string, files []string) {
		if len(files) == 0 {
			return
		}
		fmt.Fprintf(&sb, "%s (%d):\n", title, len(files))
		for _, f := range files {
			fmt.Fprintf(&sb, "  %s\n", f)
		}
		sb.WriteString("\n")
	}
	section("MISSING @context", report.MissingContext)
	section("@context WITHOUT DUBLIN CORE", report.MissingDC)
	section("UNREADABLE", report.Unreadable)

	return strings.TrimRight(sb.String(), "\n")
}

func runAuditFields(cmd *cobra.Command, args []string) (err error) {
	outputFile, _ := cmd.Flags().GetString("output")

	report, err := audit.EmptyFields(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		w = f
	}

	if err := report.WriteCSV(w); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	if len(report.Unreadable) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d unreadable files\n", len(report.Unreadable))
	}
	return nil
}
