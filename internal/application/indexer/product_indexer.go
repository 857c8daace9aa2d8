package indexer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/repository"
)

// Product indexer registration and index entry constants.
const (
	ProductIndexerType  = "cartproductindexer"
	ProductIndexerTitle = "Cart Product Indexer"

	productDocumentType = "cartproduct"
	productTags         = "#product#"
	productParams       = "&tx_cartproducts_products[product]="

	// pageTreeDepth is how deep starting points are expanded
	pageTreeDepth = 99
)

// Status messages of the product indexer.
const (
	MessageNoStoragePids = "ERROR: No Storage Pids configured!"
	MessageNoProducts    = "Warning: No product found in configured Storage Pids."
)

// ProductIndexer indexes the products stored in the configured page trees.
type ProductIndexer struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	pages      repository.PageRepository
	index      port.SearchIndex
	logger     port.Logger
	metrics    port.Metrics
	tracer     port.Tracer
}

// NewProductIndexer creates the product indexer.
func NewProductIndexer(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	pages repository.PageRepository,
	index port.SearchIndex,
	logger port.Logger,
	metrics port.Metrics,
	tracer port.Tracer,
) *ProductIndexer {
	return &ProductIndexer{
		products:   products,
		categories: categories,
		pages:      pages,
		index:      index,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
	}
}

// Index implements Indexer.
//
// Returns:
//   - string: `Product Indexer "<title>": <message>`
//   - error: storage or search engine errors
func (ix *ProductIndexer) Index(ctx context.Context, cfg Config) (string, error) {
	ctx, span := ix.tracer.StartSpan(ctx, "indexer.Products")
	defer span.End()

	log := ix.logger.WithContext(ctx).With("indexer", cfg.Title)

	pids, err := ix.storagePids(ctx, cfg)
	if err != nil {
		span.SetError(err)
		return "", err
	}
	if len(pids) == 0 {
		log.Warn("No storage pids configured")
		return status(cfg, MessageNoStoragePids), nil
	}

	products, err := ix.products.FindByPids(ctx, pids)
	if err != nil {
		span.SetError(err)
		return "", fmt.Errorf("failed to find products: %w", err)
	}
	if len(products) == 0 {
		log.Warn("No products found", "pids", pids)
		return status(cfg, MessageNoProducts), nil
	}

	targets := make(map[uint]uint)
	for _, p := range products {
		doc, err := ix.document(ctx, cfg, p, targets)
		if err != nil {
			span.SetError(err)
			return "", err
		}
		if err := ix.index.Store(ctx, doc); err != nil {
			span.SetError(err)
			return "", fmt.Errorf("failed to index product %d: %w", p.ID, err)
		}
	}

	span.SetAttribute("product_count", len(products))
	ix.metrics.Counter("products_indexed_total", float64(len(products)), nil)
	log.Info("Products indexed", "count", len(products))

	return status(cfg, fmt.Sprintf("Success: %d products has been indexed.", len(products))), nil
}

// storagePids returns the starting points with their page trees, followed by
// the sysfolder, without duplicates.
func (ix *ProductIndexer) storagePids(ctx context.Context, cfg Config) ([]uint, error) {
	seen := make(map[uint]bool)
	pids := make([]uint, 0, len(cfg.StartingPoints)+1)
	add := func(ids ...uint) {
		for _, id := range ids {
			if id != 0 && !seen[id] {
				seen[id] = true
				pids = append(pids, id)
			}
		}
	}

	for _, start := range cfg.StartingPoints {
		add(start)
		tree, err := ix.pages.TreeList(ctx, start, pageTreeDepth)
		if err != nil {
			return nil, fmt.Errorf("failed to expand page tree %d: %w", start, err)
		}
		add(tree...)
	}
	add(cfg.Sysfolder)
	return pids, nil
}

func (ix *ProductIndexer) document(ctx context.Context, cfg Config, p *entity.Product, targets map[uint]uint) (port.IndexDocument, error) {
	targetPid, err := ix.targetPid(ctx, p.CategoryID, targets)
	if err != nil {
		return port.IndexDocument{}, err
	}
	if targetPid == 0 {
		targetPid = cfg.TargetPid
	}

	title := StripTags(p.Title)
	teaser := StripTags(p.Teaser)
	content := strings.Join([]string{
		StripTags(p.SKU),
		title,
		teaser,
		StripTags(p.Description),
	}, "\n")

	doc := port.IndexDocument{
		ID:            fmt.Sprintf("%s-%d-%d", productDocumentType, p.ID, p.LanguageID),
		StoragePid:    cfg.StoragePid,
		Title:         title,
		Type:          productDocumentType,
		TargetPid:     targetPid,
		Content:       content,
		Tags:          productTags,
		Params:        productParams + strconv.FormatUint(uint64(p.ID), 10),
		Abstract:      teaser,
		Language:      p.LanguageID,
		FrontendGroup: p.FrontendGroup,
		AdditionalFields: map[string]any{
			"sortdate": p.CreatedAt.Unix(),
			"orig_uid": p.ID,
			"orig_pid": p.Pid,
		},
	}
	if !p.StartTime.IsZero() {
		doc.StartTime = p.StartTime.Unix()
	}
	if !p.EndTime.IsZero() {
		doc.EndTime = p.EndTime.Unix()
	}
	return doc, nil
}

// targetPid returns the single view page of a category, 0 if it has none.
// Lookups are memoized in cache for the duration of one run.
func (ix *ProductIndexer) targetPid(ctx context.Context, categoryID uint, cache map[uint]uint) (uint, error) {
	if categoryID == 0 {
		return 0, nil
	}
	if pid, ok := cache[categoryID]; ok {
		return pid, nil
	}

	category, err := ix.categories.FindByUID(ctx, categoryID)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		cache[categoryID] = 0
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find category %d: %w", categoryID, err)
	}

	cache[categoryID] = category.ShowPid
	return category.ShowPid, nil
}

func status(cfg Config, message string) string {
	return fmt.Sprintf(`Product Indexer "%s": %s`, cfg.Title, message)
}

// StripTags returns the text content of an HTML fragment.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
