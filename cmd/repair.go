package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metafix/repair"
)

var (
	repairManifest string
	repairFiles    []string
	repairMessages []string
	repairFormat   string
	repairStrict   bool
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair errored records and re-validate them",
	Long: `Repair each errored record, validate the result by parsing it and write
corrected records to the output directory.

Records come from a manifest produced by "metafix check", or from parallel
--file and --message lists pairing each file with the validator message
that flagged it. Records that still fail are written to the review
directory (default: <output>/review) and listed in the summary.

Examples:
  metafix repair -m manifest.json -o corrected
  metafix repair --file dc_record_007.xml --message "Namespace prefix dc on title is not defined"
  metafix repair -m manifest.json -w 8 --report report.json`,
	Args: cobra.NoArgs,
	RunE: runRepair,
}

func init() {
	f := repairCmd.Flags()
	f.StringVarP(&repairManifest, "manifest", "m", "", "Errored-record manifest (JSON)")
	f.StringArrayVar(&repairFiles, "file", nil, "Record file to repair (repeatable)")
	f.StringArrayVar(&repairMessages, "message", nil, "Diagnostic message for the matching --file (repeatable)")
	f.StringVar(&repairFormat, "format", "", "Force an engine for every record (dublincore, jsonld)")
	f.StringP("output", "o", "", "Output directory for corrected records")
	f.String("review-dir", "", "Directory for records that still fail (default: <output>/review)")
	f.IntP("workers", "w", 0, "Records repaired concurrently")
	f.String("report", "", "Write the JSON batch report to this file")
	f.BoolVar(&repairStrict, "strict", false, "Exit non-zero when any record is still incorrect")
}

func runRepair(cmd *cobra.Command, args []string) error {
	records, err := repairInput()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("no records to repair: pass --manifest or --file/--message")
	}
	if repairFormat != "" {
		for i := range records {
			records[i].Format = repairFormat
		}
	}

	classifier, err := loadClassifier()
	if err != nil {
		return fmt.Errorf("loading classifier rules: %w", err)
	}

	orch, err := repair.New(repair.Options{
		OutputDir:  cfg.OutputDir,
		ReviewDir:  cfg.ReviewDir,
		Workers:    cfg.Workers,
		Classifier: classifier,
		Logger:     slog.Default(),
	})
	if err != nil {
		return err
	}

	report, err := orch.Run(cmd.Context(), records)
	if err != nil {
		return err
	}

	if cfg.Report != "" {
		if err := report.SaveJSON(cfg.Report); err != nil {
			return err
		}
		slog.Info("Wrote report", "file", cfg.Report)
	}

	if err := report.WriteSummary(os.Stdout); err != nil {
		return err
	}

	if repairStrict && report.StillIncorrect() > 0 {
		return fmt.Errorf("%d records still incorrect", report.StillIncorrect())
	}
	return nil
}

func repairInput() ([]repair.ErroredRecord, error) {
	var records []repair.ErroredRecord
	if repairManifest != "" {
		m, err := repair.LoadManifest(repairManifest)
		if err != nil {
			return nil, err
		}
		records = append(records, m...)
	}
	if len(repairFiles) > 0 || len(repairMessages) > 0 {
		pairs, err := repair.Pairs(repairFiles, repairMessages)
		if err != nil {
			return nil, err
		}
		records = append(records, pairs...)
	}
	return records, nil
}
