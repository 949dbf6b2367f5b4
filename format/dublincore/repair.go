package dublincore

import (
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/metafix/format"
	"github.com/lehigh-university-libraries/metafix/helpers"
	"github.com/lehigh-university-libraries/metafix/namespace"
	"github.com/lehigh-university-libraries/metafix/rules"
)

// Rule names reported in Outcome.Applied.
const (
	RuleCollapseQuotes = "collapse_quotes"
	RuleDCNamespace    = "dc_namespace"
	RuleRDFDescription = "rdf_description"
)

var rdfDescriptionRegex = regexp.MustCompile(`<rdf:Description(?:\s[^>]*)?>`)

type step struct {
	name  string
	apply func(string) string
}

// Repair applies the namespace rules selected by the diagnostic class.
// Quote collapsing always runs first so the tag patterns below see single
// quoting.
func (f *Format) Repair(in format.Input) format.Outcome {
	steps := []step{{RuleCollapseQuotes, helpers.CollapseQuotes}}

	switch in.Class {
	case rules.MissingDCNamespace:
		steps = append(steps, step{RuleDCNamespace, f.RepairDCNamespace})
	case rules.MalformedRDFDescriptionAbout:
		steps = append(steps, step{RuleRDFDescription, f.RepairRDFDescription})
	}

	out := format.Outcome{Text: in.Text}
	for _, s := range steps {
		next := s.apply(out.Text)
		if next != out.Text {
			out.Applied = append(out.Applied, s.name)
			out.Text = next
		}
	}
	return out
}

// RepairDCNamespace gives a record a container declaring the Dublin Core
// namespaces. The qualified form is used when the body has dcterms elements.
//
// The closing tag at the end of the text decides what happens:
//   - with a matching opening tag that is not itself a DC element, that
//     pair is replaced by the canonical container pair;
//   - with a matching opening DC element (the record is a bare DC element)
//     the text is left alone;
//   - without a matching opening tag the closing tag is an orphan of a lost
//     container: it is dropped and the record is wrapped;
//   - with no closing tag at all the record is wrapped.
func (f *Format) RepairDCNamespace(text string) string {
	open, close := f.templates.Pair(namespace.Select(text))

	tag, ok := helpers.LastClosingTag(text)
	if !ok {
		return wrap(text, open, close)
	}

	opening, found := helpers.FirstOpeningTag(text, tag.Name, tag.Start)
	if !found {
		return wrap(text[:tag.Start]+text[tag.End:], open, close)
	}
	if isDCElement(tag.Name) {
		return text
	}

	return text[:opening.Start] + open + text[opening.End:tag.Start] + close + text[tag.End:]
}

// RepairRDFDescription replaces the first rdf:Description opening tag with
// the canonical one, which binds the rdf prefix itself.
func (f *Format) RepairRDFDescription(text string) string {
	loc := rdfDescriptionRegex.FindStringIndex(text)
	if loc == nil {
		return text
	}

	canonical := f.templates.DescriptionTag()
	if strings.HasSuffix(text[loc[0]:loc[1]], "/>") {
		canonical = strings.TrimSuffix(canonical, ">") + "/>"
	}
	return text[:loc[0]] + canonical + text[loc[1]:]
}

// wrap inserts open after any XML declaration and appends close, keeping a
// trailing line break if the record had one.
func wrap(text, open, close string) string {
	prolog, body := helpers.SplitProlog(text)

	trailing := ""
	if strings.HasSuffix(body, "\n") {
		trailing = "\n"
	}
	body = strings.Trim(body, "\r\n")

	var b strings.Builder
	b.Grow(len(text) + len(open) + len(close) + 3)
	b.WriteString(prolog)
	b.WriteString(open)
	b.WriteString("\n")
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}
	b.WriteString(close)
	b.WriteString(trailing)
	return b.String()
}

func isDCElement(name string) bool {
	switch helpers.Prefix(name) {
	case "dc", "dcterms":
		return true
	}
	return false
}
