package probe

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/copylock"

	"typeprobe/internal/detect"
	"typeprobe/internal/match"
)

// Registry maps probe names to probes. Registration is idempotent for an
// identical probe and rejects a different probe under a taken name.
type Registry struct {
	mu        sync.RWMutex
	probes    map[string]detect.Probe
	analyzers map[string]*analysis.Analyzer
}

// NewRegistry returns a registry holding probes.
func NewRegistry(probes ...detect.Probe) (*Registry, error) {
	r := &Registry{
		probes: make(map[string]detect.Probe, len(probes)),
		analyzers: map[string]*analysis.Analyzer{
			copylock.Analyzer.Name: copylock.Analyzer,
		},
	}

	for _, p := range probes {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Default returns a fresh registry holding the standard probes.
func Default() *Registry {
	r, err := NewRegistry(Standard()...)
	if err != nil {
		panic(fmt.Sprintf("standard probes: %v", err))
	}

	return r
}

// Register adds p after validating its definition.
func (r *Registry) Register(p detect.Probe) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.probes[p.Name]; ok {
		if sameProbe(prev, p) {
			return nil
		}
		return fmt.Errorf("probe %q is already registered with a different body", p.Name)
	}

	r.probes[p.Name] = p
	return nil
}

// Lookup returns the probe registered under name.
func (r *Registry) Lookup(name string) (detect.Probe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.probes[name]
	return p, ok
}

// Resolve is Lookup with an error that suggests close names.
func (r *Registry) Resolve(name string) (detect.Probe, error) {
	if p, ok := r.Lookup(name); ok {
		return p, nil
	}

	err := fmt.Errorf("unknown probe %q", name)
	if hints := match.Suggest(name, r.Names(), 3); len(hints) > 0 {
		err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(hints, ", "))
	}

	return detect.Probe{}, err
}

// Names returns the registered probe names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.probes))
	for name := range r.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Count returns the number of registered probes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.probes)
}

// Analyzer returns the vet analyzer known by name (e.g. "copylocks").
func (r *Registry) Analyzer(name string) (*analysis.Analyzer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.analyzers[name]
	if !ok {
		known := make([]string, 0, len(r.analyzers))
		for k := range r.analyzers {
			known = append(known, k)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown analyzer %q (known: %s)", name, strings.Join(known, ", "))
	}

	return a, nil
}

// RegisterAnalyzer makes a vet analyzer available to custom probes.
func (r *Registry) RegisterAnalyzer(a *analysis.Analyzer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.analyzers[a.Name] = a
}

func sameProbe(a, b detect.Probe) bool {
	return slices.Equal(a.Body, b.Body) && slices.Equal(a.Analyzers, b.Analyzers)
}
