package repair

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/metafix/format"
)

// Check walks dir, checks every file whose format can be detected and
// returns an errored record for each file that fails to parse. Files in
// any directory named skip are ignored, so a review directory below the
// scanned tree is not re-scanned.
func Check(ctx context.Context, dir string, registry *format.Registry, skip ...string) ([]ErroredRecord, error) {
	if registry == nil {
		registry = format.DefaultRegistry
	}
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}

	var records []ErroredRecord
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipped[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		peek := data
		if len(peek) > detectPeek {
			peek = peek[:detectPeek]
		}
		engine, err := registry.DetectFormat(path, peek)
		if err != nil {
			slog.Debug("Skipping file with unknown format", "path", path)
			return nil
		}

		if diag := Gate(engine.Check, data); diag != nil {
			records = append(records, ErroredRecord{
				SourcePath: path,
				Diagnostic: diag.Message,
				Format:     engine.Name(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", dir, err)
	}
	return records, nil
}
