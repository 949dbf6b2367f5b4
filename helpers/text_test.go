package helpers

import "testing"

func TestCollapseQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`a=""b""`, `a="b"`},
		{`"""x"""`, `"x"`},
		{`no quotes`, `no quotes`},
		{`"single"`, `"single"`},
		{`{""dc:title"": ""A""}`, `{"dc:title": "A"}`},
		{`["", ""]`, `["", ""]`},
		{`<dc:title xml:lang="">T</dc:title>`, `<dc:title xml:lang="">T</dc:title>`},
		{`<a x="" y="">`, `<a x="" y="">`},
		{`{"a": "", ""b"": 1}`, `{"a": "", "b": 1}`},
	}
	for _, tt := range tests {
		got := CollapseQuotes(tt.in)
		if got != tt.want {
			t.Errorf("CollapseQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := CollapseQuotes(got); again != got {
			t.Errorf("CollapseQuotes not idempotent on %q: %q", got, again)
		}
	}
}

func TestHasDoubledQuoting(t *testing.T) {
	if !HasDoubledQuoting(`{""title"": ""A""}`) {
		t.Error("expected doubled quoting")
	}
	if HasDoubledQuoting(`{"title": ""}`) {
		t.Error("empty string value is not doubled quoting")
	}
	for _, in := range []string{`["", ""]`, `{"a": "","b": ""}`, `<a x="">T</a><b y="">U</b>`} {
		if HasDoubledQuoting(in) {
			t.Errorf("adjacent empty values are not doubled quoting: %q", in)
		}
	}
}

func TestSplitProlog(t *testing.T) {
	prolog, rest := SplitProlog("<?xml version=\"1.0\"?>\n<a/>")
	if prolog != "<?xml version=\"1.0\"?>\n" {
		t.Errorf("prolog: got %q", prolog)
	}
	if rest != "<a/>" {
		t.Errorf("rest: got %q", rest)
	}

	prolog, rest = SplitProlog("<a/>")
	if prolog != "" || rest != "<a/>" {
		t.Errorf("no prolog: got %q, %q", prolog, rest)
	}
}

func TestLastClosingTag(t *testing.T) {
	s := "<record>\n<dc:title>X</dc:title>\n</record>\n"
	tag, ok := LastClosingTag(s)
	if !ok {
		t.Fatal("expected closing tag")
	}
	if tag.Name != "record" {
		t.Errorf("Name: got %q", tag.Name)
	}
	if got := tag.Text(s); got != "</record>" {
		t.Errorf("Text: got %q", got)
	}

	if _, ok := LastClosingTag("Title Creator Date"); ok {
		t.Error("expected no closing tag")
	}
	if tag, _ := LastClosingTag("x</dcterms:title>"); tag.Name != "dcterms:title" {
		t.Errorf("prefixed Name: got %q", tag.Name)
	}
}

func TestFirstOpeningTag(t *testing.T) {
	s := `<recordset/><record id="1"><record>x</record></record>`
	tag, ok := FirstOpeningTag(s, "record", len(s))
	if !ok {
		t.Fatal("expected opening tag")
	}
	if got := tag.Text(s); got != `<record id="1">` {
		t.Errorf("Text: got %q", got)
	}

	if _, ok := FirstOpeningTag(`<record/>`, "record", 9); ok {
		t.Error("self-closing tag is not an opening tag")
	}
	if _, ok := FirstOpeningTag(`x</record><record>`, "record", 10); ok {
		t.Error("tag after limit should not match")
	}
}

func TestPrefix(t *testing.T) {
	if got := Prefix("dc:title"); got != "dc" {
		t.Errorf("Prefix: got %q", got)
	}
	if got := Prefix("title"); got != "" {
		t.Errorf("Prefix: got %q", got)
	}
}
