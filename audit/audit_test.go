package audit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/metafix/namespace"
)

func write(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestInspectContext(t *testing.T) {
	tmpl := namespace.Default()
	tests := []struct {
		name string
		data string
		want ContextResult
	}{
		{
			name: "object context",
			data: `{"@context": {"dc": "http://purl.org/dc/elements/1.1/", "dcterms": "http://purl.org/dc/terms/"}, "dc:title": "A"}`,
			want: ContextResult{HasContext: true, DC: true, DCTerms: true},
		},
		{
			name: "list context with term definition",
			data: `{"@context": ["https://schema.org", {"created": {"@id": "http://purl.org/dc/terms/created"}}]}`,
			want: ContextResult{HasContext: true, DCTerms: true},
		},
		{
			name: "remote context only",
			data: `{"@context": "https://schema.org", "name": "A"}`,
			want: ContextResult{HasContext: true},
		},
		{
			name: "no context",
			data: `{"dc:title": "A"}`,
			want: ContextResult{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InspectContext([]byte(tt.data), tmpl)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := InspectContext([]byte(`{"a": `), tmpl); got.Error == "" {
		t.Error("expected a decode error")
	}
}

func TestContexts(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.json", `{"@context": {"dc": "http://purl.org/dc/elements/1.1/"}}`)
	write(t, dir, "b.jsonld", `{"title": "B"}`)
	write(t, dir, "c.json", `{"@context": "https://schema.org"}`)
	write(t, dir, "d.json", `// comment`)
	write(t, dir, "e.xml", `<a/>`)

	report, err := Contexts(dir, nil)
	if err != nil {
		t.Fatalf("Contexts: %v", err)
	}

	if report.Total != 4 || report.WithContext != 2 {
		t.Errorf("got total=%d with_context=%d", report.Total, report.WithContext)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "b.jsonld")}, report.MissingContext); diff != "" {
		t.Errorf("MissingContext (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "c.json")}, report.MissingDC); diff != "" {
		t.Errorf("MissingDC (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "d.json")}, report.Unreadable); diff != "" {
		t.Errorf("Unreadable (-want +got):\n%s", diff)
	}
}

func TestEmptyFields(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "dc_record_001.xml", `<metadata><dc:title>A</dc:title><dc:creator/><dc:date> </dc:date></metadata>`)
	write(t, dir, "dc_record_002.xml", `<metadata><dc:title></dc:title><dc:creator>B</dc:creator><dcterms:created><x>y</x></dcterms:created></metadata>`)
	write(t, dir, "dc_record_003.xml", `<metadata><dc:title>`)
	write(t, dir, "notes.txt", `<dc:title/>`)

	report, err := EmptyFields(dir)
	if err != nil {
		t.Fatalf("EmptyFields: %v", err)
	}

	want := []FieldStats{
		{Field: "dc:creator", Occurrences: 2, Empty: 1, Files: 1},
		{Field: "dc:date", Occurrences: 1, Empty: 1, Files: 1},
		{Field: "dc:title", Occurrences: 2, Empty: 1, Files: 1},
		{Field: "dcterms:created", Occurrences: 1, Empty: 0, Files: 0},
	}
	if diff := cmp.Diff(want, report.Fields); diff != "" {
		t.Errorf("Fields (-want +got):\n%s", diff)
	}
	if report.Files != 2 || len(report.Unreadable) != 1 {
		t.Errorf("got files=%d unreadable=%v", report.Files, report.Unreadable)
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	wantCSV := "field,occurrences,empty,files_with_empty,empty_percent\n" +
		"dc:creator,2,1,1,50.0\n" +
		"dc:date,1,1,1,100.0\n" +
		"dc:title,2,1,1,50.0\n" +
		"dcterms:created,1,0,0,0.0\n"
	if got := buf.String(); got != wantCSV {
		t.Errorf("CSV:\n got %q\nwant %q", got, wantCSV)
	}
}
