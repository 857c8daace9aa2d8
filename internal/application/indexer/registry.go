// Package indexer feeds catalog records into the full-text search engine.
package indexer

import (
	"context"
	"sort"
	"sync"
)

// Config is one indexer configuration as maintained by the search engine
// administration.
type Config struct {
	// Type selects the indexer, e.g. "cartproductindexer"
	Type string `json:"type"`

	// Title names the configuration in status messages
	Title string `json:"title"`

	// StoragePid is the page the index entries are stored in
	StoragePid uint `json:"storage_pid"`

	// StartingPoints are page trees searched recursively for records
	StartingPoints []uint `json:"starting_points"`

	// Sysfolder is an additional page searched for records
	Sysfolder uint `json:"sysfolder"`

	// TargetPid is the single view page used when a record has no better one
	TargetPid uint `json:"target_pid"`
}

// Indexer indexes the records selected by a configuration.
type Indexer interface {
	// Index stores the records in the search engine and returns a status
	// message for the administrator.
	Index(ctx context.Context, cfg Config) (string, error)
}

// Registration is a registered indexer type.
type Registration struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

// Registry dispatches indexer configurations to indexers by type.
type Registry struct {
	mu       sync.RWMutex
	titles   map[string]string
	indexers map[string]Indexer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		titles:   make(map[string]string),
		indexers: make(map[string]Indexer),
	}
}

// Register adds an indexer under a type. Registering a type again replaces it.
func (r *Registry) Register(indexerType, title string, indexer Indexer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.titles[indexerType] = title
	r.indexers[indexerType] = indexer
}

// Registrations lists the registered indexer types sorted by type.
func (r *Registry) Registrations() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := make([]Registration, 0, len(r.titles))
	for typ, title := range r.titles {
		regs = append(regs, Registration{Type: typ, Title: title})
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Type < regs[j].Type })
	return regs
}

// Run runs the indexer registered for cfg.Type. Configurations of unknown
// types are not ours and yield an empty status.
func (r *Registry) Run(ctx context.Context, cfg Config) (string, error) {
	r.mu.RLock()
	indexer, ok := r.indexers[cfg.Type]
	r.mu.RUnlock()

	if !ok {
		return "", nil
	}
	return indexer.Index(ctx, cfg)
}
