package repair

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/segmentio/encoding/json"
)

//go:embed schemas/manifest.schema.json
var manifestSchemaJSON []byte

var (
	manifestSchemaOnce sync.Once
	manifestSchema     *jsonschema.Schema
	manifestSchemaErr  error
)

// Manifest is the on-disk list of errored records produced by a check pass.
type Manifest struct {
	Records []ErroredRecord `json:"records"`
}

func compiledManifestSchema() (*jsonschema.Schema, error) {
	manifestSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("manifest.schema.json", bytes.NewReader(manifestSchemaJSON)); err != nil {
			manifestSchemaErr = fmt.Errorf("failed to load manifest schema: %w", err)
			return
		}
		manifestSchema, manifestSchemaErr = compiler.Compile("manifest.schema.json")
		if manifestSchemaErr != nil {
			manifestSchemaErr = fmt.Errorf("failed to compile manifest schema: %w", manifestSchemaErr)
		}
	})
	return manifestSchema, manifestSchemaErr
}

// ParseManifest validates data against the manifest schema and decodes it.
func ParseManifest(data []byte) ([]ErroredRecord, error) {
	schema, err := compiledManifestSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid manifest JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("manifest does not match schema: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return m.Records, nil
}

// LoadManifest reads a manifest file. Relative source paths are resolved
// against the manifest's directory.
func LoadManifest(path string) ([]ErroredRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	records, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i := range records {
		if !filepath.IsAbs(records[i].SourcePath) {
			records[i].SourcePath = filepath.Join(base, records[i].SourcePath)
		}
	}
	return records, nil
}

// WriteManifest writes records as a manifest file.
func WriteManifest(path string, records []ErroredRecord) error {
	if records == nil {
		records = []ErroredRecord{}
	}
	data, err := json.MarshalIndent(Manifest{Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
