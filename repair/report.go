package repair

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/lehigh-university-libraries/metafix/format"
)

// FileDiagnostic is a parse failure left behind by a repair.
type FileDiagnostic struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Report aggregates one batch run.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Results holds one entry per input record, in input order
	Results []Result `json:"results"`

	// Unrepaired lists records the engines refused to repair
	Unrepaired []string `json:"unrepaired"`

	// Comments lists every comment stripped from a record
	Comments []format.Comment `json:"comments"`

	// SyntaxErrors lists records of any format that still failed to parse
	// after repair
	SyntaxErrors []FileDiagnostic `json:"syntax_errors"`
}

func (r *Report) add(oc outcome) {
	r.Results = append(r.Results, oc.result)
	r.Comments = append(r.Comments, oc.comments...)
	if oc.unrepairable {
		r.Unrepaired = append(r.Unrepaired, oc.result.RecordID)
	}
	if d := oc.result.Diagnostic; d != nil && d.Category == CategoryParse {
		file := oc.result.ReviewPath
		if file == "" {
			file = oc.result.SourcePath
		}
		r.SyntaxErrors = append(r.SyntaxErrors, FileDiagnostic{File: file, Kind: d.Kind, Message: d.Message})
	}
}

// Corrected counts records that validated after repair.
func (r *Report) Corrected() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Corrected() {
			n++
		}
	}
	return n
}

// StillIncorrect counts records that did not validate.
func (r *Report) StillIncorrect() int {
	return len(r.Results) - r.Corrected()
}

// ManualReview returns the still incorrect results, in input order.
func (r *Report) ManualReview() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Corrected() {
			out = append(out, res)
		}
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// SaveJSON writes the report to path, creating parent directories.
func (r *Report) SaveJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSummary writes a human readable summary listing the records that
// need manual review.
func (r *Report) WriteSummary(w io.Writer) error {
	fmt.Fprintf(w, "Run %s: %d records, %d corrected, %d still incorrect\n",
		r.RunID, len(r.Results), r.Corrected(), r.StillIncorrect())
	if len(r.Comments) > 0 {
		fmt.Fprintf(w, "Stripped %d comments\n", len(r.Comments))
	}

	review := r.ManualReview()
	if len(review) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\nManual review:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORD\tSOURCE\tORIGINAL\tERROR")
	for _, res := range review {
		msg := ""
		if res.Diagnostic != nil {
			msg = res.Diagnostic.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.RecordID, res.SourcePath, res.Original, msg)
	}
	return tw.Flush()
}
