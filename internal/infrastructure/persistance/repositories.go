// Package persistance selects the repository implementations of the
// configured database driver.
package persistance

import (
	"context"

	"github.com/hapkiduki/cart-products/internal/domain/repository"
	"github.com/hapkiduki/cart-products/internal/infrastructure/config"
	"github.com/hapkiduki/cart-products/internal/infrastructure/persistance/memory"
	"github.com/hapkiduki/cart-products/internal/infrastructure/persistance/mysql"
)

// Repositories bundles the catalog repositories of one driver.
type Repositories struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Pages      repository.PageRepository

	ping  func(ctx context.Context) error
	close func() error
}

// Open connects the repositories of cfg.Driver. The "memory" driver starts
// with an empty catalog.
//
// Parameters:
//   - cfg: database configuration
//   - debug: log SQL statements
//
// Returns:
//   - *Repositories: the repositories; call Close on exit
//   - error: repository.ErrConnectionFailed if the database cannot be opened
func Open(cfg config.DatabaseConfig, debug bool) (*Repositories, error) {
	if cfg.Driver == "memory" {
		return &Repositories{
			Products:   memory.NewProductRepository(),
			Categories: memory.NewCategoryRepository(),
			Pages:      memory.NewPageRepository(),
			ping:       func(context.Context) error { return nil },
			close:      func() error { return nil },
		}, nil
	}

	db, err := mysql.Open(cfg, debug)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Products:   mysql.NewProductRepository(db),
		Categories: mysql.NewCategoryRepository(db),
		Pages:      mysql.NewPageRepository(db),
		ping: func(ctx context.Context) error {
			return mysql.Ping(ctx, db)
		},
		close: sqlDB.Close,
	}, nil
}

// Ping checks the database connection.
func (r *Repositories) Ping(ctx context.Context) error {
	return r.ping(ctx)
}

// Close releases the database connection.
func (r *Repositories) Close() error {
	return r.close()
}
