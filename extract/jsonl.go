package extract

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	gzip "github.com/klauspost/pgzip"
	"github.com/segmentio/encoding/json"
)

const maxLineSize = 64 * 1024 * 1024

type line struct {
	ID     json.RawMessage `json:"id"`
	Record string          `json:"record"`
}

// Open opens path for reading, decompressing .gz files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipFile{Reader: zr, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	err := g.Reader.Close()
	if ferr := g.f.Close(); err == nil {
		err = ferr
	}
	return err
}

// ReadPairs reads JSON lines of the form {"id": 7, "record": "..."}. The id
// may be a number or a string. Blank lines are ignored.
func ReadPairs(r io.Reader) ([]Pair, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var pairs []Pair
	var lineNum int
	for scanner.Scan() {
		lineNum++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		var l line
		if err := json.Unmarshal(b, &l); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		id, err := rawID(l.ID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		pairs = append(pairs, Pair{ID: id, Record: l.Record})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading pairs: %w", err)
	}
	return pairs, nil
}

func rawID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("missing id")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(raw), nil
}

// ReadPairsFile reads pairs from a JSONL file, gzipped or not.
func ReadPairsFile(path string) ([]Pair, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()
	pairs, err := ReadPairs(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, nil
}
