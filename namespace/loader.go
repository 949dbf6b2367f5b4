package namespace

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var embeddedTemplates embed.FS

// DefaultName is the template set used when none is configured.
const DefaultName = "dublincore"

// Registry holds loaded template sets.
type Registry struct {
	templates map[string]*Templates
}

// NewRegistry creates a registry with the embedded template sets loaded.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		templates: make(map[string]*Templates),
	}

	entries, err := embeddedTemplates.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("reading embedded templates: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := embeddedTemplates.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded template %s: %w", entry.Name(), err)
		}

		t, err := parseTemplates(data)
		if err != nil {
			return nil, fmt.Errorf("embedded template %s: %w", entry.Name(), err)
		}

		if t.Name == "" {
			t.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		r.templates[t.Name] = t
	}

	return r, nil
}

// Default returns the embedded default template set.
func Default() *Templates {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	t, ok := r.Get(DefaultName)
	if !ok {
		panic("namespace: embedded default templates missing")
	}
	return t
}

// LoadFile loads a template set from a YAML file.
func LoadFile(path string) (*Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates file: %w", err)
	}

	t, err := parseTemplates(data)
	if err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// LoadFromString loads a template set from YAML content.
func LoadFromString(content string) (*Templates, error) {
	return parseTemplates([]byte(content))
}

func parseTemplates(data []byte) (*Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing templates YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Get retrieves a template set by name.
func (r *Registry) Get(name string) (*Templates, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// Register adds a template set to the registry.
func (r *Registry) Register(t *Templates) {
	r.templates[t.Name] = t
}

// List returns all registered template names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the named template set, or loads it from path when the
// name refers to a file.
func (r *Registry) Resolve(nameOrPath string) (*Templates, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultName
	}
	if t, ok := r.Get(nameOrPath); ok {
		return t, nil
	}
	if _, err := os.Stat(nameOrPath); err == nil {
		return LoadFile(nameOrPath)
	}
	return nil, fmt.Errorf("unknown namespace templates: %s", nameOrPath)
}
