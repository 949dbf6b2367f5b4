package format

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry holds registered engines.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// DefaultRegistry is the global engine registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new engine registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]Engine),
	}
}

// Register adds an engine to the registry, replacing any engine with the
// same name.
func (r *Registry) Register(e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[e.Name()] = e
}

// Get retrieves an engine by name.
func (r *Registry) Get(name string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[strings.ToLower(name)]
	return e, ok
}

// MustGet retrieves an engine by name or returns an error.
func (r *Registry) MustGet(name string) (Engine, error) {
	e, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	return e, nil
}

// List returns all registered engine names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectFormat attempts to detect the engine from file extension and/or content.
func (r *Registry) DetectFormat(filename string, peek []byte) (Engine, error) {
	// Try by extension first
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, name := range r.List() {
		e, _ := r.Get(name)
		for _, eext := range e.Extensions() {
			if ext == eext {
				return e, nil
			}
		}
	}

	// Try by content detection
	if len(peek) > 0 {
		return r.DetectFromContent(peek)
	}

	return nil, fmt.Errorf("could not detect format for %s", filename)
}

// DetectFromContent attempts to detect the engine from content alone.
func (r *Registry) DetectFromContent(peek []byte) (Engine, error) {
	peek = bytes.TrimSpace(peek)

	for _, name := range r.List() {
		e, _ := r.Get(name)
		if e.CanParse(peek) {
			return e, nil
		}
	}

	return nil, fmt.Errorf("could not detect format from content")
}

// Register adds an engine to the default registry.
func Register(e Engine) {
	DefaultRegistry.Register(e)
}

// Get retrieves an engine from the default registry.
func Get(name string) (Engine, bool) {
	return DefaultRegistry.Get(name)
}

// DetectFormat detects the engine using the default registry.
func DetectFormat(filename string, peek []byte) (Engine, error) {
	return DefaultRegistry.DetectFormat(filename, peek)
}
