// Package search stores index documents in Elasticsearch or in memory.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/olivere/elastic/v7"

	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/infrastructure/config"
)

// ErrIndexUnavailable is returned when the search engine rejects a request.
var ErrIndexUnavailable = errors.New("search index unavailable")

// indexMapping keeps the facet fields unanalyzed.
const indexMapping = `{
	"mappings": {
		"properties": {
			"pid": { "type": "integer" },
			"title": { "type": "text" },
			"type": { "type": "keyword" },
			"targetpid": { "type": "integer" },
			"content": { "type": "text" },
			"tags": { "type": "keyword" },
			"params": { "type": "keyword" },
			"abstract": { "type": "text" },
			"language": { "type": "integer" },
			"starttime": { "type": "long" },
			"endtime": { "type": "long" },
			"fe_group": { "type": "keyword" }
		}
	}
}`

// NewElasticClient creates an Elasticsearch client from the configuration.
func NewElasticClient(cfg config.SearchConfig) (*elastic.Client, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(cfg.URLs...),
		elastic.SetSniff(cfg.Sniff),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	return client, nil
}

// Index is a search index that can be health checked.
type Index interface {
	port.SearchIndex
	Ping(ctx context.Context) error
}

// Open returns the Elasticsearch index when search is enabled, creating it if
// missing, and a memory index otherwise.
//
// Parameters:
//   - ctx: context for the index creation
//   - cfg: search configuration
//
// Returns:
//   - Index: the index store
//   - error: ErrIndexUnavailable if Elasticsearch cannot be reached
func Open(ctx context.Context, cfg config.SearchConfig) (Index, error) {
	if !cfg.Enabled {
		return NewMemoryIndex(), nil
	}

	client, err := NewElasticClient(cfg)
	if err != nil {
		return nil, err
	}
	index := NewElasticIndex(client, cfg.Index)
	if err := index.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return index, nil
}

// ElasticIndex stores documents in one Elasticsearch index.
type ElasticIndex struct {
	client *elastic.Client
	index  string
}

// NewElasticIndex creates an index store.
//
// Parameters:
//   - client: the Elasticsearch client
//   - index: name of the index
//
// Returns:
//   - *ElasticIndex: the store
func NewElasticIndex(client *elastic.Client, index string) *ElasticIndex {
	return &ElasticIndex{client: client, index: index}
}

// EnsureIndex creates the index with its mapping unless it exists.
func (e *ElasticIndex) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.IndexExists(e.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	if exists {
		return nil
	}

	if _, err := e.client.CreateIndex(e.index).BodyString(indexMapping).Do(ctx); err != nil {
		return fmt.Errorf("%w: create index %s: %v", ErrIndexUnavailable, e.index, err)
	}
	return nil
}

// Store implements port.SearchIndex.
func (e *ElasticIndex) Store(ctx context.Context, doc port.IndexDocument) error {
	_, err := e.client.Index().
		Index(e.index).
		Id(doc.ID).
		BodyJson(doc).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	return nil
}

// Ping checks that the index can be reached.
func (e *ElasticIndex) Ping(ctx context.Context) error {
	if _, err := e.client.IndexExists(e.index).Do(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	return nil
}

// MemoryIndex keeps documents in process memory.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs map[string]port.IndexDocument
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{docs: make(map[string]port.IndexDocument)}
}

// Store implements port.SearchIndex.
func (m *MemoryIndex) Store(_ context.Context, doc port.IndexDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[doc.ID] = doc
	return nil
}

// Ping implements the readiness check; memory is always reachable.
func (m *MemoryIndex) Ping(context.Context) error {
	return nil
}

// Documents returns the stored documents sorted by ID.
func (m *MemoryIndex) Documents() []port.IndexDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]port.IndexDocument, 0, len(m.docs))
	for _, d := range m.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

var (
	_ Index = (*ElasticIndex)(nil)
	_ Index = (*MemoryIndex)(nil)
)
