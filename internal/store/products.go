package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
)

const productColumns = `id, title, description, image, category, price`

// CreateProduct inserts p, minting an ID when p.ID is empty.
func CreateProduct(ctx context.Context, db sqlx.ExtContext, p models.Product) (*models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	_, err := sqlx.NamedExecContext(ctx, db, `
		INSERT INTO products (id, title, description, image, category, price)
		VALUES (:id, :title, :description, :image, :category, :price)`, p)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("create product %s: %w", p.ID, database.ErrProductExists)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	return &p, nil
}

func GetProduct(ctx context.Context, db sqlx.QueryerContext, id string) (*models.Product, error) {
	var product models.Product

	err := sqlx.GetContext(ctx, db, &product,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &product, nil
}

// ListProducts returns the whole catalog in display order.
func ListProducts(ctx context.Context, db sqlx.QueryerContext) ([]models.Product, error) {
	products := []models.Product{}

	err := sqlx.SelectContext(ctx, db, &products,
		`SELECT `+productColumns+` FROM products ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func ListProductsPage(ctx context.Context, db sqlx.QueryerContext, page, pageSize int) (*OffsetPage[models.Product], error) {
	page, pageSize = ClampPage(page, pageSize)

	var total int
	if err := sqlx.GetContext(ctx, db, &total, `SELECT COUNT(*) FROM products`); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	products := []models.Product{}
	err := sqlx.SelectContext(ctx, db, &products,
		`SELECT `+productColumns+` FROM products ORDER BY seq LIMIT $1 OFFSET $2`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &OffsetPage[models.Product]{
		Items:      products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// lockProducts share-locks the given products for the rest of tx so their
// prices cannot change underneath an order. It does not wait for locks held
// by writers.
func lockProducts(ctx context.Context, tx *sqlx.Tx, ids []string) (map[string]models.Product, error) {
	var products []models.Product

	err := tx.SelectContext(ctx, &products,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) FOR SHARE NOWAIT`,
		pq.Array(ids))
	if err != nil {
		if database.IsLockNotAvailable(err) {
			return nil, fmt.Errorf("%w: %w", database.ErrLockTimeout, err)
		}
		return nil, fmt.Errorf("lock products: %w", err)
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}
