// Package repair runs repair engines over batches of errored records,
// validates the output and aggregates the results into a report.
package repair

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/metafix/rules"
)

// ErroredRecord identifies one record needing repair.
type ErroredRecord struct {
	// SourcePath is the path of the raw record text
	SourcePath string `json:"source_path"`

	// Diagnostic is the validator message that flagged the record
	Diagnostic string `json:"diagnostic_message"`

	// Format names the engine to use; empty means detect
	Format string `json:"format,omitempty"`
}

// RecordID returns the record's file name without extension.
func (r ErroredRecord) RecordID() string {
	base := filepath.Base(r.SourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Pairs zips parallel path and message sequences into errored records.
func Pairs(paths, messages []string) ([]ErroredRecord, error) {
	if len(paths) != len(messages) {
		return nil, fmt.Errorf("got %d paths but %d diagnostic messages", len(paths), len(messages))
	}
	records := make([]ErroredRecord, len(paths))
	for i := range paths {
		records[i] = ErroredRecord{SourcePath: paths[i], Diagnostic: messages[i]}
	}
	return records, nil
}

// Status is the terminal state of a repair attempt.
type Status string

const (
	StatusCorrected      Status = "corrected"
	StatusStillIncorrect Status = "still_incorrect"
)

// Category places a diagnostic in the error taxonomy.
type Category string

const (
	// CategoryUnrepairable marks records the engines decline to guess at.
	CategoryUnrepairable Category = "unrepairable_structural"
	// CategoryParse marks records whose repaired text still fails to parse.
	CategoryParse Category = "parse_validation_failure"
	// CategoryIO marks records that could not be read or written.
	CategoryIO Category = "io"
)

// Diagnostic describes why a record is still incorrect.
type Diagnostic struct {
	Category    Category `json:"category"`
	Kind        string   `json:"kind"`
	Message     string   `json:"message"`
	Instruction string   `json:"instruction,omitempty"`
}

func (d *Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s", d.Kind, d.Message)
	if d.Instruction != "" {
		s += " (" + d.Instruction + ")"
	}
	return s
}

// Result is the outcome of one repair attempt. It is never modified after
// the orchestrator creates it.
type Result struct {
	RecordID   string      `json:"record_id"`
	SourcePath string      `json:"source_path"`
	Format     string      `json:"format,omitempty"`
	Original   string      `json:"original_diagnostic"`
	Class      rules.Class `json:"class"`
	Rule       string      `json:"rule,omitempty"`
	Status     Status      `json:"status"`
	Applied    []string    `json:"applied,omitempty"`

	// OutputPath is set iff Status is StatusCorrected
	OutputPath string `json:"output_path,omitempty"`

	// ReviewPath is where the best-effort text of a still incorrect record
	// was written for manual review
	ReviewPath string `json:"review_path,omitempty"`

	// Diagnostic is set iff Status is StatusStillIncorrect
	Diagnostic *Diagnostic `json:"diagnostic,omitempty"`
}

// Corrected reports whether the record validated after repair.
func (r *Result) Corrected() bool {
	return r.Status == StatusCorrected
}
