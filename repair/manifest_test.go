package repair

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseManifest(t *testing.T) {
	data := []byte(`{"records": [
		{"source_path": "a.xml", "diagnostic_message": "Namespace prefix dc on title is not defined"},
		{"source_path": "b.json", "diagnostic_message": "Expecting value", "format": "jsonld"}
	]}`)

	got, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	want := []ErroredRecord{
		{SourcePath: "a.xml", Diagnostic: "Namespace prefix dc on title is not defined"},
		{SourcePath: "b.json", Diagnostic: "Expecting value", Format: "jsonld"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseManifestRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"records": [`},
		{"missing records", `{}`},
		{"missing diagnostic", `{"records": [{"source_path": "a.xml"}]}`},
		{"empty path", `{"records": [{"source_path": "", "diagnostic_message": "x"}]}`},
		{"unknown field", `{"records": [{"source_path": "a.xml", "diagnostic_message": "x", "extra": 1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestManifestRoundTripResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	records := []ErroredRecord{{SourcePath: "records/a.xml", Diagnostic: "bad"}}

	if err := WriteManifest(path, records); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	got, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if want := filepath.Join(dir, "records", "a.xml"); got[0].SourcePath != want {
		t.Errorf("SourcePath: got %s, want %s", got[0].SourcePath, want)
	}
}

func TestPairsLengthMismatch(t *testing.T) {
	if _, err := Pairs([]string{"a", "b"}, []string{"x"}); err == nil {
		t.Error("expected an error for mismatched lengths")
	}
	got, err := Pairs([]string{"dir/a.xml"}, []string{"x"})
	if err != nil {
		t.Fatalf("Pairs: %v", err)
	}
	if got[0].RecordID() != "a" {
		t.Errorf("RecordID: got %q", got[0].RecordID())
	}
}

func TestCheckFindsFailingRecords(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "good.xml", `<metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>T</dc:title></metadata>`)
	writeRecord(t, dir, "bad.xml", `<metadata><dc:title>T</dc:title></metadata>`)
	writeRecord(t, dir, "bad.json", `{"a": 1`)
	writeRecord(t, dir, "notes.txt", `plain text`)
	if err := os.Mkdir(filepath.Join(dir, ReviewSubdir), 0o755); err != nil {
		t.Fatal(err)
	}
	writeRecord(t, filepath.Join(dir, ReviewSubdir), "skipped.xml", `<a>`)

	got, err := Check(context.Background(), dir, testRegistry(), ReviewSubdir)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(got), got)
	}
	if got[0].Format != "jsonld" || filepath.Base(got[0].SourcePath) != "bad.json" {
		t.Errorf("got[0]: %+v", got[0])
	}
	if got[1].Format != "dublincore" || !strings.HasPrefix(got[1].Diagnostic, "Namespace prefix dc on title") {
		t.Errorf("got[1]: %+v", got[1])
	}

	c, err := New(Options{OutputDir: t.TempDir(), Registry: testRegistry()})
	if err != nil {
		t.Fatal(err)
	}
	report, err := c.Run(context.Background(), got)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Corrected() != 2 {
		t.Errorf("check output should feed a repair run, got %d corrected", report.Corrected())
	}
}
