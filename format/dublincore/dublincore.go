// Package dublincore provides the repair engine for Dublin Core XML records.
package dublincore

import (
	"bytes"

	"github.com/lehigh-university-libraries/metafix/format"
	"github.com/lehigh-university-libraries/metafix/namespace"
)

// Version documents the Dublin Core specification this implementation targets.
const Version = "2020-01-20"

// Format implements the Dublin Core repair engine.
type Format struct {
	templates *namespace.Templates
}

// Ensure Format implements the interface
var _ format.Engine = (*Format)(nil)

// New creates an engine that repairs with the given templates. A nil
// templates value selects the embedded default set.
func New(t *namespace.Templates) *Format {
	if t == nil {
		t = namespace.Default()
	}
	return &Format{templates: t}
}

// Templates returns the namespace templates the engine inserts.
func (f *Format) Templates() *namespace.Templates {
	return f.templates
}

// Name returns the format identifier.
func (f *Format) Name() string {
	return "dublincore"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Dublin Core Metadata Element Set (v" + Version + ") as XML or RDF/XML"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml", "dc", "rdf"}
}

// CanParse returns true if the input looks like Dublin Core XML. Records
// missing their container may start with bare text, so a closing tag is
// accepted in place of a leading '<'.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return false
	}

	if peek[0] != '<' && !bytes.Contains(peek, []byte("</")) {
		return false
	}

	dcPatterns := [][]byte{
		[]byte("purl.org/dc/elements"),
		[]byte("purl.org/dc/terms"),
		[]byte("dc:"),
		[]byte("dcterms:"),
		[]byte("rdf:Description"),
		[]byte("<metadata"),
	}

	for _, pattern := range dcPatterns {
		if bytes.Contains(peek, pattern) {
			return true
		}
	}

	return false
}

func init() {
	format.Register(New(nil))
}
