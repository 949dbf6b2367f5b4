// Package extract writes raw (id, record text) pairs to per-record files,
// keeping only the structural part of each record.
package extract

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Kind selects what is kept from a record and how files are named.
type Kind string

const (
	KindDublinCore Kind = "dublincore"
	KindJSONLD     Kind = "jsonld"
)

// tagRegex matches tag-delimited text on a single line, from the first '<'
// to the last '>'.
var tagRegex = regexp.MustCompile(`<.+>`)

// Pair is one raw record as exported upstream.
type Pair struct {
	ID     string
	Record string
}

// Options controls the write pass.
type Options struct {
	Kind Kind

	// Prolog, when set, is written as the first line of each XML file
	Prolog string
}

// FileName returns the per-record file name for id, e.g. dc_record_007.xml.
// IDs are parsed numerically so "7", "7.0" and "007" name the same file.
func FileName(kind Kind, id string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(id), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("invalid record id %q", id)
	}
	n := int64(f)
	switch kind {
	case KindJSONLD:
		return fmt.Sprintf("jsonld_record_%03d.json", n), nil
	case KindDublinCore, "":
		return fmt.Sprintf("dc_record_%03d.xml", n), nil
	default:
		return "", fmt.Errorf("unknown record kind %q", kind)
	}
}

// Structural returns the part of record worth writing, or false when the
// record has none.
func Structural(kind Kind, record string) (string, bool) {
	if kind == KindJSONLD {
		i := strings.IndexByte(record, '{')
		if i < 0 {
			return "", false
		}
		return record[i:], true
	}

	matches := tagRegex.FindAllString(record, -1)
	if len(matches) == 0 {
		return "", false
	}
	return strings.Join(matches, "\n") + "\n", true
}

// Write writes every pair with structural content to dir and returns the
// paths written, in input order. Pairs without structural content are
// skipped.
func Write(pairs []Pair, dir string, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	var written []string
	for _, p := range pairs {
		body, ok := Structural(opts.Kind, p.Record)
		if !ok {
			slog.Debug("Skipping record without structural content", "id", p.ID)
			continue
		}
		name, err := FileName(opts.Kind, p.ID)
		if err != nil {
			return written, err
		}
		if opts.Prolog != "" && opts.Kind != KindJSONLD && !strings.HasPrefix(strings.TrimSpace(body), "<?xml") {
			body = opts.Prolog + "\n" + body
		}

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		slog.Debug("Wrote record", "file", name)
		written = append(written, path)
	}
	return written, nil
}
