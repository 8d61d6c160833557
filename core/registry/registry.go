// Package registry is the process-wide catalog of administrable models.
// It maps URL path segments to erased descriptors and is the single source
// of truth request handlers query.
package registry

import (
	"sort"
	"sync"

	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/rs/zerolog"
)

// Metrics receives registry events. adapters/metrics.Collector implements it.
// SetRegisteredModels is called with the table lock held and must not call
// back into the registry.
type Metrics interface {
	SetRegisteredModels(n int)
	ObserveLookup(hit bool)
}

// Registry holds one erased descriptor per URL path.
//
// Every operation is safe for concurrent use. Writes (Register, Replace, Reset) take
// the table lock exclusively; reads share it. Erasure runs before the lock
// is taken, so no descriptor code executes while it is held.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]descriptor.Erased

	logger  zerolog.Logger
	metrics Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger logs registrations and overwrites.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithMetrics reports registry size and lookup results.
func WithMetrics(m Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]descriptor.Erased),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register erases d and stores it under its URL path, replacing any
// earlier entry for the same path. Re-registering is how changes to a
// descriptor's source become visible.
//
// A malformed descriptor is a programming error and makes Register panic;
// use descriptor.Erase to check one first.
func (r *Registry) Register(d descriptor.ModelDescriptor) {
	r.Store(descriptor.MustErase(d))
}

// Store stores an already erased descriptor, replacing any earlier entry
// for the same path. The zero Erased is ignored.
func (r *Registry) Store(e descriptor.Erased) {
	if e.IsZero() {
		return
	}
	path := e.URLPath()

	r.mu.Lock()
	prev, replaced := r.entries[path]
	r.entries[path] = e
	r.setSize(len(r.entries))
	r.mu.Unlock()

	if replaced {
		r.logger.Warn().
			Str("path", path).
			Str("previous", prev.ModelNamePlural()).
			Str("model", e.ModelNamePlural()).
			Msg("replacing registered model")
	} else {
		r.logger.Debug().
			Str("path", path).
			Str("model", e.ModelNamePlural()).
			Msg("registered model")
	}
}

// All returns every registered descriptor sorted by plural model name.
// Ties, which only arise when two paths share a plural name, are broken
// by URL path so the order is total.
func (r *Registry) All() []descriptor.Erased {
	r.mu.RLock()
	out := make([]descriptor.Erased, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].ModelNamePlural(), out[j].ModelNamePlural()
		if a != b {
			return a < b
		}
		return out[i].URLPath() < out[j].URLPath()
	})
	return out
}

// Lookup returns the descriptor registered under path. A miss is not an
// error: it returns the zero Erased and false.
func (r *Registry) Lookup(path string) (descriptor.Erased, bool) {
	r.mu.RLock()
	e, ok := r.entries[path]
	r.mu.RUnlock()

	if r.metrics != nil {
		r.metrics.ObserveLookup(ok)
	}
	return e, ok
}

// IsRegistered reports whether a descriptor is registered under path.
func (r *Registry) IsRegistered(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[path]
	return ok
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Replace swaps the whole table for es in one step. Readers see either
// the old set or the new one, never a mix. Zero values are skipped; for
// duplicate paths the later entry wins. It returns the paths that were
// registered before and are gone now.
func (r *Registry) Replace(es ...descriptor.Erased) []string {
	next := make(map[string]descriptor.Erased, len(es))
	for _, e := range es {
		if !e.IsZero() {
			next[e.URLPath()] = e
		}
	}

	r.mu.Lock()
	var removed []string
	for path := range r.entries {
		if _, ok := next[path]; !ok {
			removed = append(removed, path)
		}
	}
	r.entries = next
	r.setSize(len(next))
	r.mu.Unlock()

	sort.Strings(removed)
	r.logger.Debug().
		Int("models", len(next)).
		Strs("removed", removed).
		Msg("registry replaced")
	return removed
}

// Reset removes every entry. It exists for test isolation; readers in
// flight see either the old table or the empty one.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.entries = make(map[string]descriptor.Erased)
	r.setSize(0)
	r.mu.Unlock()

	r.logger.Debug().Msg("registry reset")
}

// setSize runs under the write lock so the gauge follows table order.
func (r *Registry) setSize(n int) {
	if r.metrics != nil {
		r.metrics.SetRegisteredModels(n)
	}
}
