// Package jsonld provides the repair engine for JSON-LD records.
package jsonld

import (
	"bytes"

	"github.com/lehigh-university-libraries/metafix/format"
)

// Format implements the JSON-LD repair engine.
type Format struct{}

// Ensure Format implements the interface
var _ format.Engine = (*Format)(nil)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "jsonld"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "JSON-LD linked data records (JSON with @context)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json", "jsonld"}
}

// CanParse returns true if the input looks like JSON or JSON-LD. Records
// may open with a stray comment, so a @context key is enough.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return false
	}
	if peek[0] == '{' || peek[0] == '[' {
		return true
	}
	return bytes.Contains(peek, []byte(`"@context"`))
}

func init() {
	format.Register(&Format{})
}
