package dublincore

import (
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/metafix/format"
	"github.com/lehigh-university-libraries/metafix/namespace"
	"github.com/lehigh-university-libraries/metafix/rules"
)

func newTestFormat(t *testing.T) (*Format, *namespace.Templates) {
	t.Helper()
	tmpl := namespace.Default()
	return New(tmpl), tmpl
}

func TestRepairDropsOrphanCloseAndWraps(t *testing.T) {
	f, tmpl := newTestFormat(t)

	out := f.Repair(format.Input{
		Text:  "Title Creator Date</dc>",
		Class: rules.MissingDCNamespace,
	})

	want := tmpl.SimpleOpen + "\nTitle Creator Date\n" + tmpl.Close
	if out.Text != want {
		t.Errorf("Text:\n got %q\nwant %q", out.Text, want)
	}
	if err := Check([]byte(out.Text)); err != nil {
		t.Errorf("repaired text does not parse: %v", err)
	}
	if len(out.Applied) != 1 || out.Applied[0] != RuleDCNamespace {
		t.Errorf("Applied: got %v", out.Applied)
	}
}

func TestRepairReplacesOuterPairWithQualifiedForm(t *testing.T) {
	f, tmpl := newTestFormat(t)

	in := "<record>\n<dcterms:title>X</dcterms:title>\n</record>"
	out := f.Repair(format.Input{Text: in, Class: rules.MissingDCNamespace})

	want := tmpl.QualifiedOpen + "\n<dcterms:title>X</dcterms:title>\n" + tmpl.Close
	if out.Text != want {
		t.Errorf("Text:\n got %q\nwant %q", out.Text, want)
	}
	if err := Check([]byte(out.Text)); err != nil {
		t.Errorf("repaired text does not parse: %v", err)
	}
}

func TestRepairLeavesBareDCElement(t *testing.T) {
	f, _ := newTestFormat(t)

	in := "<dcterms:title>X</dcterms:title>"
	got := f.RepairDCNamespace(in)
	if got != in {
		t.Errorf("bare DC element should be left alone, got %q", got)
	}
}

func TestRepairNoClosingTagKeepsProlog(t *testing.T) {
	f, tmpl := newTestFormat(t)

	in := "<?xml version=\"1.0\"?>\n<dc:title>A</dc:title>\n<dc:creator>B</dc:creator> trailing text\n"
	got := f.RepairDCNamespace(in)

	want := "<?xml version=\"1.0\"?>\n" + tmpl.SimpleOpen + "\n<dc:title>A</dc:title>\n<dc:creator>B</dc:creator> trailing text\n" + tmpl.Close + "\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
	if err := Check([]byte(got)); err != nil {
		t.Errorf("repaired text does not parse: %v", err)
	}
}

func TestRepairRDFDescription(t *testing.T) {
	f, tmpl := newTestFormat(t)

	in := `<rdf:Description rdf:about="bad"><title>X</title></rdf:Description>`
	if err := Check([]byte(in)); err == nil || !strings.Contains(err.Error(), "Namespace prefix rdf") {
		t.Fatalf("precondition: expected undefined rdf prefix, got %v", err)
	}

	out := f.Repair(format.Input{Text: in, Class: rules.MalformedRDFDescriptionAbout})
	want := tmpl.DescriptionTag() + `<title>X</title></rdf:Description>`
	if out.Text != want {
		t.Errorf("Text:\n got %q\nwant %q", out.Text, want)
	}
	if err := Check([]byte(out.Text)); err != nil {
		t.Errorf("repaired text does not parse: %v", err)
	}
}

func TestRepairRDFDescriptionSelfClosing(t *testing.T) {
	f, _ := newTestFormat(t)

	got := f.RepairRDFDescription(`<rdf:Description rdf:about="x"/>`)
	if !strings.HasSuffix(got, `/>`) || strings.Contains(got, `"x"`) {
		t.Errorf("got %q", got)
	}
	if err := Check([]byte(got)); err != nil {
		t.Errorf("repaired text does not parse: %v", err)
	}
}

func TestRepairCollapsesQuotesForEveryClass(t *testing.T) {
	f, _ := newTestFormat(t)

	for _, class := range rules.Classes() {
		out := f.Repair(format.Input{Text: `<a b=""c"">x</a>`, Class: class})
		if strings.Contains(out.Text, `""`) {
			t.Errorf("%v: quotes not collapsed: %q", class, out.Text)
		}
		if out.Applied[0] != RuleCollapseQuotes {
			t.Errorf("%v: first rule should be %s, got %v", class, RuleCollapseQuotes, out.Applied)
		}
	}
}

func TestRepairUnclassifiedPassesThrough(t *testing.T) {
	f, _ := newTestFormat(t)

	in := `<metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>T</dc:title></metadata>`
	out := f.Repair(format.Input{Text: in, Class: rules.Unclassified})
	if out.Text != in || out.Changed() {
		t.Errorf("unclassified diagnostic should not change text: %q (%v)", out.Text, out.Applied)
	}
}

func TestRepairKeepsEmptyAttributeValues(t *testing.T) {
	f, _ := newTestFormat(t)

	in := `<metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title xml:lang="">T</dc:title><dc:subject xml:lang="" /></metadata>`
	if err := Check([]byte(in)); err != nil {
		t.Fatalf("input should parse: %v", err)
	}

	for _, class := range rules.Classes() {
		out := f.Repair(format.Input{Text: in, Class: class})
		if err := Check([]byte(out.Text)); err != nil {
			t.Errorf("%v: repair broke a well-formed record: %v\n%q", class, err, out.Text)
		}
		if class == rules.Unclassified && (out.Text != in || out.Changed()) {
			t.Errorf("unclassified: got %q (%v)", out.Text, out.Applied)
		}
	}
}

func TestRepairIdempotent(t *testing.T) {
	f, _ := newTestFormat(t)

	inputs := []string{
		"Title Creator Date</dc>",
		"<record>\n<dcterms:title>X</dcterms:title>\n</record>\n",
		`<dc:title>""Quoted""</dc:title>` + "\n<dc:date>2020</dc:date> trailing",
	}

	for _, in := range inputs {
		first := f.Repair(format.Input{Text: in, Class: rules.MissingDCNamespace})
		if err := Check([]byte(first.Text)); err != nil {
			t.Fatalf("%q: first pass does not parse: %v", in, err)
		}

		neutral := f.Repair(format.Input{Text: first.Text, Class: rules.Unclassified})
		if neutral.Text != first.Text {
			t.Errorf("%q: neutral re-run changed text:\n%q\n%q", in, first.Text, neutral.Text)
		}

		again := f.Repair(format.Input{Text: first.Text, Class: rules.MissingDCNamespace})
		if again.Text != first.Text {
			t.Errorf("%q: second repair changed text:\n%q\n%q", in, first.Text, again.Text)
		}
	}
}

func TestRepairNamespaceSelection(t *testing.T) {
	f, tmpl := newTestFormat(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "<dc:title>A</dc:title> extra", tmpl.SimpleOpen},
		{"qualified", "<dc:title>A</dc:title><dcterms:issued>2001</dcterms:issued> extra", tmpl.QualifiedOpen},
		{"qualified orphan", "<dcterms:issued>2001</dcterms:issued></rec>", tmpl.QualifiedOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.RepairDCNamespace(tt.in)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("got %q, want prefix %q", got, tt.want)
			}
			if n := strings.Count(got, tmpl.Close); n != 1 {
				t.Errorf("close tag count: got %d, want 1", n)
			}
		})
	}
}

func TestRepairAlternateTemplates(t *testing.T) {
	r, err := namespace.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	oai, _ := r.Get("oai_dc")
	f := New(oai)

	got := f.RepairDCNamespace("<dc:title>A</dc:title> x")
	if !strings.HasPrefix(got, "<oai_dc:dc ") || !strings.HasSuffix(got, "</oai_dc:dc>") {
		t.Errorf("got %q", got)
	}
	if err := Check([]byte(got)); err != nil {
		t.Errorf("repaired text does not parse: %v", err)
	}
}
