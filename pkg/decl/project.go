package decl

import (
	"maps"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matzehuels/mvnkit/pkg/errors"
)

// Project names declarations and holds build properties. It is safe for
// concurrent use.
type Project struct {
	baseDir string

	mu         sync.RWMutex
	refs       map[string]any
	properties map[string]string
}

// NewProject creates a project resolving relative paths against baseDir.
func NewProject(baseDir string) *Project {
	return &Project{
		baseDir:    baseDir,
		refs:       make(map[string]any),
		properties: make(map[string]string),
	}
}

// BaseDir returns the directory relative paths are resolved against.
func (p *Project) BaseDir() string { return p.baseDir }

// AddReference registers v under id. Ids are unique, and a declaration may
// not be registered under the id it aliases.
func (p *Project) AddReference(id string, v any) error {
	if err := errors.ValidateRefID(id); err != nil {
		return err
	}
	if r, ok := v.(interface{ refID() string }); ok && r.refID() == id {
		return errors.New(errors.ErrCodeInvalidReference, "%q cannot reference itself", id)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.refs[id]; exists {
		return errors.New(errors.ErrCodeInvalidReference, "duplicate reference id %q", id)
	}
	p.refs[id] = v
	return nil
}

// Reference returns the declaration registered under id.
func (p *Project) Reference(id string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.refs[id]
	return v, ok
}

// References returns the registered ids, sorted.
func (p *Project) References() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Sorted(maps.Keys(p.refs))
}

// SetProperty sets a build property.
func (p *Project) SetProperty(key, value string) {
	p.mu.Lock()
	p.properties[key] = value
	p.mu.Unlock()
}

// Property returns a build property.
func (p *Project) Property(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.properties[key]
	return v, ok
}

// Properties returns a copy of all build properties.
func (p *Project) Properties() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.properties)
}

// Path resolves a path relative to the project's base directory.
func (p *Project) Path(path string) string {
	if path == "" || filepath.IsAbs(path) || p.baseDir == "" {
		return path
	}
	return filepath.Join(p.baseDir, path)
}
