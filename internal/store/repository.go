package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/safar/go-storefront/internal/models"
)

// Repository binds the query functions to one database handle so HTTP
// handlers can depend on an interface.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	return ListProducts(ctx, r.db)
}

func (r *Repository) ListProductsPage(ctx context.Context, page, pageSize int) (*OffsetPage[models.Product], error) {
	return ListProductsPage(ctx, r.db, page, pageSize)
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return GetProduct(ctx, r.db, id)
}

func (r *Repository) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	return CreateOrder(ctx, r.db, req)
}

func (r *Repository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return GetOrder(ctx, r.db, id)
}

func (r *Repository) ListOrders(ctx context.Context, cursor string, limit int) (*CursorPage[models.Order], error) {
	return ListOrders(ctx, r.db, cursor, limit)
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
