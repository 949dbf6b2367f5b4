package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// FieldStats counts one Dublin Core element across a directory.
type FieldStats struct {
	Field       string `json:"field"`
	Occurrences int    `json:"occurrences"`
	Empty       int    `json:"empty"`

	// Files is the number of files with at least one empty occurrence
	Files int `json:"files"`
}

// EmptyPercent is the share of occurrences that were empty.
func (s FieldStats) EmptyPercent() float64 {
	if s.Occurrences == 0 {
		return 0
	}
	return float64(s.Empty) / float64(s.Occurrences) * 100
}

// FieldReport is the result of an empty-field audit.
type FieldReport struct {
	Files      int          `json:"files"`
	Unreadable []string     `json:"unreadable"`
	Fields     []FieldStats `json:"fields"`
}

// EmptyFields counts empty dc: and dcterms: elements in every .xml file
// under dir. Files that cannot be tokenized are listed as unreadable.
func EmptyFields(dir string) (*FieldReport, error) {
	byField := make(map[string]*FieldStats)
	report := &FieldReport{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		counts, err := countFields(data)
		if err != nil {
			report.Unreadable = append(report.Unreadable, path)
			return nil
		}
		report.Files++
		for field, c := range counts {
			s, ok := byField[field]
			if !ok {
				s = &FieldStats{Field: field}
				byField[field] = s
			}
			s.Occurrences += c.total
			s.Empty += c.empty
			if c.empty > 0 {
				s.Files++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("auditing fields in %s: %w", dir, err)
	}

	for _, s := range byField {
		report.Fields = append(report.Fields, *s)
	}
	sort.Slice(report.Fields, func(i, j int) bool {
		return report.Fields[i].Field < report.Fields[j].Field
	})
	return report, nil
}

type fieldCount struct {
	total, empty int
}

type frame struct {
	name    xml.Name
	content bool
}

func countFields(data []byte) (map[string]fieldCount, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	counts := make(map[string]fieldCount)
	var stack []frame
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return nil, fmt.Errorf("unexpected EOF: <%s> is not closed", stack[len(stack)-1].name.Local)
			}
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) > 0 {
				stack[len(stack)-1].content = true
			}
			stack = append(stack, frame{name: t.Name})
		case xml.CharData:
			if len(stack) > 0 && len(bytes.TrimSpace(t)) > 0 {
				stack[len(stack)-1].content = true
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected end element </%s>", t.Name.Local)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.name.Space != "dc" && top.name.Space != "dcterms" {
				continue
			}
			field := top.name.Space + ":" + top.name.Local
			c := counts[field]
			c.total++
			if !top.content {
				c.empty++
			}
			counts[field] = c
		}
	}
	return counts, nil
}

// WriteCSV writes one row per field.
func (r *FieldReport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"field", "occurrences", "empty", "files_with_empty", "empty_percent"}); err != nil {
		return err
	}
	for _, s := range r.Fields {
		row := []string{
			s.Field,
			strconv.Itoa(s.Occurrences),
			strconv.Itoa(s.Empty),
			strconv.Itoa(s.Files),
			strconv.FormatFloat(s.EmptyPercent(), 'f', 1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
