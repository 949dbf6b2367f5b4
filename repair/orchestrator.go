package repair

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/metafix/format"
	"github.com/lehigh-university-libraries/metafix/rules"
)

// ReviewSubdir is the default review directory, relative to OutputDir.
const ReviewSubdir = "review"

// detectPeek is how much of a record is inspected for format detection.
const detectPeek = 512

// Options configures an Orchestrator.
type Options struct {
	// OutputDir receives corrected records
	OutputDir string

	// ReviewDir receives the best-effort text of still incorrect records.
	// Defaults to OutputDir/review.
	ReviewDir string

	// Workers is the number of records repaired concurrently. Values below
	// one mean sequential processing.
	Workers int

	// Registry resolves engines. Defaults to format.DefaultRegistry.
	Registry *format.Registry

	// Classifier classifies diagnostic messages. Defaults to the embedded
	// rule set.
	Classifier *rules.Classifier

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Orchestrator repairs batches of errored records.
type Orchestrator struct {
	opts Options
}

// New creates an orchestrator, filling in defaults.
func New(opts Options) (*Orchestrator, error) {
	if opts.OutputDir == "" {
		return nil, errors.New("output directory is required")
	}
	if opts.ReviewDir == "" {
		opts.ReviewDir = filepath.Join(opts.OutputDir, ReviewSubdir)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Registry == nil {
		opts.Registry = format.DefaultRegistry
	}
	if opts.Classifier == nil {
		c, err := rules.DefaultClassifier()
		if err != nil {
			return nil, fmt.Errorf("loading default classifier: %w", err)
		}
		opts.Classifier = c
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Orchestrator{opts: opts}, nil
}

// outcome carries one record's result plus the audit data aggregated into
// the report.
type outcome struct {
	result       Result
	comments     []format.Comment
	unrepairable bool
}

// Run repairs every record exactly once. Results keep input order no matter
// how many workers run. Per-record failures are reported, never returned;
// the only error is context cancellation.
func (o *Orchestrator) Run(ctx context.Context, records []ErroredRecord) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	log := o.opts.Logger.With("run_id", report.RunID)
	log.Info("Starting repair batch", "records", len(records), "workers", o.opts.Workers)

	outcomes := make([]outcome, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = o.repairOne(rec, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("repair batch interrupted: %w", err)
	}

	for _, oc := range outcomes {
		report.add(oc)
	}
	report.FinishedAt = time.Now().UTC()

	log.Info("Finished repair batch",
		"corrected", report.Corrected(),
		"still_incorrect", report.StillIncorrect(),
		"comments", len(report.Comments))

	return report, nil
}

// RepairOne repairs a single record outside a batch.
func (o *Orchestrator) RepairOne(rec ErroredRecord) Result {
	return o.repairOne(rec, o.opts.Logger).result
}

func (o *Orchestrator) repairOne(rec ErroredRecord, log *slog.Logger) outcome {
	res := Result{
		RecordID:   rec.RecordID(),
		SourcePath: rec.SourcePath,
		Original:   rec.Diagnostic,
	}
	log = log.With("record", res.RecordID)

	data, err := os.ReadFile(rec.SourcePath)
	if err != nil {
		return o.fail(res, &Diagnostic{Category: CategoryIO, Kind: ErrorKind(err), Message: err.Error()}, log)
	}

	engine, err := o.engineFor(rec, data)
	if err != nil {
		return o.fail(res, &Diagnostic{
			Category:    CategoryUnrepairable,
			Kind:        "UnsupportedFormat",
			Message:     err.Error(),
			Instruction: "set the record's format explicitly",
		}, log)
	}
	res.Format = engine.Name()

	match := o.opts.Classifier.Classify(rec.Diagnostic, engine.Name())
	res.Class = match.Class
	res.Rule = match.RuleName

	out := engine.Repair(format.Input{
		RecordID:   res.RecordID,
		SourcePath: rec.SourcePath,
		Text:       string(data),
		Class:      match.Class,
	})
	res.Applied = out.Applied
	log.Debug("Applied repair rules", "format", res.Format, "class", res.Class.String(), "applied", out.Applied)

	oc := outcome{comments: out.Comments}

	if out.Unrepairable != nil {
		oc.unrepairable = true
		res.Status = StatusStillIncorrect
		res.Diagnostic = &Diagnostic{
			Category:    CategoryUnrepairable,
			Kind:        "UnrepairableStructural",
			Message:     out.Unrepairable.Reason,
			Instruction: out.Unrepairable.Instruction,
		}
		res.ReviewPath = o.persist(o.opts.ReviewDir, rec.SourcePath, out.Text, log)
		log.Warn("Record needs manual review", "reason", out.Unrepairable.Reason)
		oc.result = res
		return oc
	}

	if diag := Gate(engine.Check, []byte(out.Text)); diag != nil {
		res.Status = StatusStillIncorrect
		res.Diagnostic = diag
		res.ReviewPath = o.persist(o.opts.ReviewDir, rec.SourcePath, out.Text, log)
		log.Warn("Record still incorrect", "kind", diag.Kind, "error", diag.Message)
		oc.result = res
		return oc
	}

	path, err := write(o.opts.OutputDir, rec.SourcePath, out.Text)
	if err != nil {
		oc.result = o.fail(res, &Diagnostic{Category: CategoryIO, Kind: ErrorKind(err), Message: err.Error()}, log).result
		return oc
	}
	res.Status = StatusCorrected
	res.OutputPath = path
	log.Debug("Record corrected", "output", path)
	oc.result = res
	return oc
}

func (o *Orchestrator) engineFor(rec ErroredRecord, data []byte) (format.Engine, error) {
	if rec.Format != "" {
		return o.opts.Registry.MustGet(rec.Format)
	}
	peek := data
	if len(peek) > detectPeek {
		peek = peek[:detectPeek]
	}
	return o.opts.Registry.DetectFormat(rec.SourcePath, peek)
}

func (o *Orchestrator) fail(res Result, diag *Diagnostic, log *slog.Logger) outcome {
	res.Status = StatusStillIncorrect
	res.Diagnostic = diag
	log.Warn("Record could not be repaired", "category", diag.Category, "error", diag.Message)
	return outcome{result: res}
}

// persist writes best-effort text for review and returns its path, or ""
// if the write failed.
func (o *Orchestrator) persist(dir, source, text string, log *slog.Logger) string {
	path, err := write(dir, source, text)
	if err != nil {
		log.Error("Failed to write review copy", "dir", dir, "error", err)
		return ""
	}
	return path
}

// write stores text under dir with the source file's base name. The file is
// opened, written and closed before returning.
func write(dir, source, text string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(source))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
