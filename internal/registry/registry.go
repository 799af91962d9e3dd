// Package registry keeps the catalog of known scenarios. Bundled scenarios
// are always present; scenario directories add to them and may shadow a
// bundled scenario with the same name.
package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/rulestage/internal/config"
	"github.com/vovakirdan/rulestage/internal/scenario"
	"github.com/vovakirdan/rulestage/scenarios"
)

// Source returns the raw scenario document.
type Source func() ([]byte, error)

// Info describes a registered scenario.
type Info struct {
	Name   string
	Origin string // "bundled" or the directory it was found in
}

type entry struct {
	origin string
	src    Source
}

// Registry maps scenario names to their sources.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Bundled creates a registry holding the scenarios shipped with the binary.
func Bundled() *Registry {
	r := New()
	if err := r.RegisterFS(scenarios.FS, "bundled"); err != nil {
		panic(fmt.Sprintf("registry: bundled scenarios: %v", err))
	}
	return r
}

// Register adds a scenario source. Names must be unique.
func (r *Registry) Register(name, origin string, src Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("registry: scenario %q already registered", name)
	}
	r.entries[name] = entry{origin: origin, src: src}
	return nil
}

// RegisterFS registers every .yaml file at the root of fsys under its file
// stem.
func (r *Registry) RegisterFS(fsys fs.FS, origin string) error {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	for _, file := range files {
		if err := r.Register(stem(file), origin, fsSource(fsys, file)); err != nil {
			return err
		}
	}
	return nil
}

// Discover registers the .yaml files of dir. They replace registered
// scenarios of the same name.
func (r *Registry) Discover(dir string) (int, error) {
	fsys := os.DirFS(dir)
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return 0, fmt.Errorf("registry: %w", err)
	}
	if _, err := fs.Stat(fsys, "."); err != nil {
		return 0, fmt.Errorf("registry: scenario dir %s: %w", dir, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, file := range files {
		r.entries[stem(file)] = entry{origin: dir, src: fsSource(fsys, file)}
	}
	return len(files), nil
}

// List returns every registered scenario, sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Info, 0, len(r.entries))
	for name, e := range r.entries {
		result = append(result, Info{Name: name, Origin: e.origin})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Exists checks if a scenario with the given name is registered.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Load compiles a registered scenario.
func (r *Registry) Load(name string, cfg config.EngineConfig) (*scenario.Scenario, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: unknown scenario %q", name)
	}

	data, err := e.src()
	if err != nil {
		return nil, fmt.Errorf("registry: read %q: %w", name, err)
	}
	return scenario.Parse(data, cfg)
}

// Resolve loads ref as a file path when one exists, otherwise as a
// registered name.
func (r *Registry) Resolve(ref string, cfg config.EngineConfig) (*scenario.Scenario, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return scenario.Load(ref, cfg)
	}
	return r.Load(ref, cfg)
}

func fsSource(fsys fs.FS, file string) Source {
	return func() ([]byte, error) {
		return fs.ReadFile(fsys, file)
	}
}

func stem(file string) string {
	return strings.TrimSuffix(path.Base(file), path.Ext(file))
}
