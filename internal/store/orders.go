package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, payment, address, email, phone, total, created_at`

// CreateOrder places req. Every item must exist and be for sale, items may
// not repeat, and req.Total must equal the sum of the current prices.
func CreateOrder(ctx context.Context, db *sqlx.DB, req models.OrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, database.ErrEmptyOrder
	}

	var order *models.Order

	err := database.WithRetry(ctx, db, database.SerializableTxOptions(), func(tx *sqlx.Tx) error {
		products, err := lockProducts(ctx, tx, req.Items)
		if err != nil {
			return err
		}

		total := decimal.Zero
		seen := make(map[string]bool, len(req.Items))
		items := make([]models.OrderItem, 0, len(req.Items))

		for i, id := range req.Items {
			if seen[id] {
				return fmt.Errorf("item %s: %w", id, database.ErrDuplicateItem)
			}
			seen[id] = true

			p, ok := products[id]
			if !ok {
				return fmt.Errorf("item %s: %w", id, database.ErrProductNotFound)
			}
			if !p.ForSale() {
				return fmt.Errorf("item %s: %w", id, database.ErrProductNotForSale)
			}

			total = total.Add(p.Price.Decimal)
			items = append(items, models.OrderItem{
				ProductID: id,
				Position:  i + 1,
				UnitPrice: p.Price.Decimal,
			})
		}

		if !total.Equal(req.Total) {
			return fmt.Errorf("%w: got %s, expected %s", database.ErrTotalMismatch, req.Total, total)
		}

		order = &models.Order{
			ID:      uuid.NewString(),
			Payment: req.Payment,
			Address: req.Address,
			Email:   req.Email,
			Phone:   req.Phone,
			Total:   total,
		}

		err = tx.QueryRowxContext(ctx, `
			INSERT INTO orders (id, payment, address, email, phone, total)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at`,
			order.ID, order.Payment, order.Address, order.Email, order.Phone, order.Total,
		).Scan(&order.CreatedAt)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, position, unit_price)
			VALUES (:order_id, :product_id, :position, :unit_price)`, items)
		if err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func GetOrder(ctx context.Context, db sqlx.QueryerContext, id string) (*models.Order, error) {
	var order models.Order

	err := sqlx.GetContext(ctx, db, &order,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	err = sqlx.SelectContext(ctx, db, &order.Items, `
		SELECT order_id, product_id, position, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}

	return &order, nil
}

// ListOrders pages through orders newest first. Items are not loaded.
func ListOrders(ctx context.Context, db sqlx.QueryerContext, cursor string, limit int) (*CursorPage[models.Order], error) {
	_, limit = ClampPage(1, limit)

	after, ok, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	orders := []models.Order{}
	if ok {
		err = sqlx.SelectContext(ctx, db, &orders, `
			SELECT `+orderColumns+`
			FROM orders
			WHERE (created_at, id) < ($1, $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3`, after.CreatedAt, after.ID, limit+1)
	} else {
		err = sqlx.SelectContext(ctx, db, &orders, `
			SELECT `+orderColumns+`
			FROM orders
			ORDER BY created_at DESC, id DESC
			LIMIT $1`, limit+1)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	page := &CursorPage[models.Order]{Items: orders, HasMore: hasMore}
	if hasMore {
		last := orders[len(orders)-1]
		page.NextCursor = EncodeCursor(OrderCursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}
