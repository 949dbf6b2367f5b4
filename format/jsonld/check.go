package jsonld

import (
	"github.com/segmentio/encoding/json"
)

// Check parses data as a single JSON document.
func (f *Format) Check(data []byte) error {
	var doc any
	return json.Unmarshal(data, &doc)
}
