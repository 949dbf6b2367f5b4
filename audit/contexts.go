// Package audit produces read-only reports over extracted record files.
package audit

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/metafix/namespace"
)

const contextKey = "@context"

// ContextResult describes the @context of one JSON-LD file.
type ContextResult struct {
	File       string `json:"file"`
	HasContext bool   `json:"has_context"`
	DC         bool   `json:"dc"`
	DCTerms    bool   `json:"dcterms"`
	Error      string `json:"error,omitempty"`
}

// ContextReport summarizes the context audit of a directory.
type ContextReport struct {
	Total          int             `json:"total"`
	WithContext    int             `json:"with_context"`
	MissingContext []string        `json:"missing_context"`
	MissingDC      []string        `json:"missing_dc"`
	Unreadable     []string        `json:"unreadable"`
	Files          []ContextResult `json:"files"`
}

// Contexts audits every .json and .jsonld file under dir.
func Contexts(dir string, tmpl *namespace.Templates) (*ContextReport, error) {
	if tmpl == nil {
		tmpl = namespace.Default()
	}

	report := &ContextReport{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".jsonld":
		default:
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		res := InspectContext(data, tmpl)
		res.File = path
		report.add(res)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("auditing contexts in %s: %w", dir, err)
	}
	return report, nil
}

func (r *ContextReport) add(res ContextResult) {
	r.Total++
	r.Files = append(r.Files, res)
	switch {
	case res.Error != "":
		r.Unreadable = append(r.Unreadable, res.File)
	case !res.HasContext:
		r.MissingContext = append(r.MissingContext, res.File)
	default:
		r.WithContext++
		if !res.DC && !res.DCTerms {
			r.MissingDC = append(r.MissingDC, res.File)
		}
	}
}

// InspectContext decodes a JSON-LD object and reports which Dublin Core
// namespaces its @context references.
func InspectContext(data []byte, tmpl *namespace.Templates) ContextResult {
	var doc structpb.Struct
	if err := protojson.Unmarshal(data, &doc); err != nil {
		return ContextResult{Error: err.Error()}
	}

	ctx, ok := doc.GetFields()[contextKey]
	if !ok {
		return ContextResult{}
	}

	res := ContextResult{HasContext: true}
	uris := make(map[string]bool)
	for _, decl := range tmpl.Declarations(namespace.Qualified) {
		uris[decl.URI] = false
	}
	collectStrings(ctx, func(s string) {
		for uri := range uris {
			if strings.HasPrefix(s, uri) {
				uris[uri] = true
			}
		}
	})
	res.DC = uris[tmpl.DCURI]
	res.DCTerms = uris[tmpl.DCTermsURI]
	return res
}

// collectStrings calls fn for every string value below v, visiting object
// fields in key order.
func collectStrings(v *structpb.Value, fn func(string)) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		fn(k.StringValue)
	case *structpb.Value_ListValue:
		for _, item := range k.ListValue.GetValues() {
			collectStrings(item, fn)
		}
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			collectStrings(fields[key], fn)
		}
	}
}
