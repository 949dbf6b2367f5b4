// Package namespace provides the canonical namespace declarations used to
// repair Dublin Core records.
package namespace

import (
	"fmt"
	"regexp"
	"strings"
)

// Form identifies one of the canonical namespace declarations.
type Form int

const (
	// Simple declares only the 15-element Dublin Core namespace.
	Simple Form = iota
	// Qualified declares Dublin Core plus the DC terms namespace.
	Qualified
	// RDF wraps both namespaces inside an RDF description.
	RDF
)

func (f Form) String() string {
	switch f {
	case Simple:
		return "simple"
	case Qualified:
		return "qualified"
	case RDF:
		return "rdf"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

var dctermsElementRegex = regexp.MustCompile(`<\s*/?\s*dcterms:[A-Za-z_]`)

// Templates holds the canonical namespace strings. A Templates value is
// treated as read-only once loaded.
type Templates struct {
	// Name identifies this template set
	Name string `yaml:"name" json:"name"`

	// Description documents where the templates come from
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Prolog is the XML declaration written ahead of extracted records
	Prolog string `yaml:"prolog" json:"prolog"`

	DCURI        string `yaml:"dc_uri" json:"dc_uri"`
	DCTermsURI   string `yaml:"dcterms_uri" json:"dcterms_uri"`
	RDFURI       string `yaml:"rdf_uri" json:"rdf_uri"`
	ReferenceURI string `yaml:"reference_uri" json:"reference_uri"`

	// SimpleOpen is the container open tag declaring the dc prefix
	SimpleOpen string `yaml:"simple_open" json:"simple_open"`

	// QualifiedOpen is the container open tag declaring dc and dcterms
	QualifiedOpen string `yaml:"qualified_open" json:"qualified_open"`

	// Close is the closing tag shared by both container open tags
	Close string `yaml:"close" json:"close"`

	// RDFDescription is the canonical rdf:Description open tag. Empty means it
	// is built from RDFURI and ReferenceURI.
	RDFDescription string `yaml:"rdf_description,omitempty" json:"rdf_description,omitempty"`
}

// Declaration is a single prefix binding.
type Declaration struct {
	Prefix string
	URI    string
}

// Select picks the container form for a record body. Bodies using any
// dcterms-prefixed element need the qualified form.
func Select(body string) Form {
	if dctermsElementRegex.MatchString(body) {
		return Qualified
	}
	return Simple
}

// Open returns the container open tag for a form.
func (t *Templates) Open(f Form) string {
	if f == Qualified {
		return t.QualifiedOpen
	}
	return t.SimpleOpen
}

// Pair returns the open and close tags for a form. The two are always
// inserted or removed together.
func (t *Templates) Pair(f Form) (open, close string) {
	return t.Open(f), t.Close
}

// Declarations returns the prefix bindings a form introduces.
func (t *Templates) Declarations(f Form) []Declaration {
	switch f {
	case Qualified:
		return []Declaration{{"dc", t.DCURI}, {"dcterms", t.DCTermsURI}}
	case RDF:
		return []Declaration{{"rdf", t.RDFURI}, {"dc", t.DCURI}, {"dcterms", t.DCTermsURI}}
	default:
		return []Declaration{{"dc", t.DCURI}}
	}
}

// DescriptionTag returns the canonical rdf:Description open tag.
func (t *Templates) DescriptionTag() string {
	if t.RDFDescription != "" {
		return t.RDFDescription
	}
	return fmt.Sprintf(`<rdf:Description xmlns:rdf="%s" rdf:about="%s">`, t.RDFURI, t.ReferenceURI)
}

// CloseName returns the element name of the close tag, e.g. "metadata".
func (t *Templates) CloseName() string {
	name := strings.TrimPrefix(strings.TrimSpace(t.Close), "</")
	return strings.TrimSpace(strings.TrimSuffix(name, ">"))
}

// Validate checks that every template needed for repair is set.
func (t *Templates) Validate() error {
	required := map[string]string{
		"dc_uri":         t.DCURI,
		"dcterms_uri":    t.DCTermsURI,
		"rdf_uri":        t.RDFURI,
		"reference_uri":  t.ReferenceURI,
		"simple_open":    t.SimpleOpen,
		"qualified_open": t.QualifiedOpen,
		"close":          t.Close,
	}
	var missing []string
	for _, key := range []string{"dc_uri", "dcterms_uri", "rdf_uri", "reference_uri", "simple_open", "qualified_open", "close"} {
		if strings.TrimSpace(required[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("namespace templates %q missing: %s", t.Name, strings.Join(missing, ", "))
	}
	if !strings.HasPrefix(t.Close, "</") {
		return fmt.Errorf("namespace templates %q: close %q is not a closing tag", t.Name, t.Close)
	}
	return nil
}
