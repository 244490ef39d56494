package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

func orderRequest(total int64, items ...string) models.OrderRequest {
	return models.OrderRequest{
		Payment: models.PaymentOnline,
		Address: "Main street 1",
		Email:   "buyer@example.com",
		Phone:   "+7 (999) 123-45-67",
		Items:   items,
		Total:   decimal.NewFromInt(total),
	}
}

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	order, err := CreateOrder(ctx, db, orderRequest(2200, seedHourID, seedCandyID))
	if err != nil {
		t.Fatalf("Create order: %v", err)
	}

	if order.ID == "" {
		t.Error("Order ID should not be empty")
	}
	if !order.Total.Equal(decimal.NewFromInt(2200)) {
		t.Errorf("Expected total 2200, got %s", order.Total)
	}

	got, err := GetOrder(ctx, db, order.ID)
	if err != nil {
		t.Fatalf("Get order: %v", err)
	}
	if got.Payment != models.PaymentOnline || got.Phone != "+7 (999) 123-45-67" {
		t.Errorf("Unexpected order: %+v", got)
	}
	if len(got.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(got.Items))
	}
	if got.Items[0].ProductID != seedHourID || got.Items[1].Position != 2 {
		t.Errorf("Unexpected items: %+v", got.Items)
	}
	if !got.Items[1].UnitPrice.Equal(decimal.NewFromInt(1450)) {
		t.Errorf("Expected unit price 1450, got %s", got.Items[1].UnitPrice)
	}
}

func TestCreateOrderRejected(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.OrderRequest
		want error
	}{
		{"empty", orderRequest(0), database.ErrEmptyOrder},
		{"total mismatch", orderRequest(1000, seedHourID), database.ErrTotalMismatch},
		{"not for sale", orderRequest(750, seedHourID, seedPricelessID), database.ErrProductNotForSale},
		{"missing product", orderRequest(750, seedHourID, "missing"), database.ErrProductNotFound},
		{"duplicate", orderRequest(1500, seedHourID, seedHourID), database.ErrDuplicateItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateOrder(ctx, db, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got: %v", tt.want, err)
			}
		})
	}

	page, err := ListOrders(ctx, db, "", 10)
	if err != nil {
		t.Fatalf("List orders: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("Expected no orders to be stored, got %d", len(page.Items))
	}
}

func TestGetOrderNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetOrder(context.Background(), db, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, database.ErrOrderNotFound) {
		t.Errorf("Expected ErrOrderNotFound, got: %v", err)
	}
}

func TestConcurrentOrders(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	concurrency := 10
	var wg sync.WaitGroup
	results := make(chan error, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := CreateOrder(ctx, db, orderRequest(2200, seedHourID, seedCandyID))
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	successCount := 0
	for err := range results {
		if err != nil {
			t.Logf("Unexpected error: %v", err)
			continue
		}
		successCount++
	}
	if successCount != concurrency {
		t.Errorf("Expected %d successful orders, got %d", concurrency, successCount)
	}
}

func TestListOrdersCursor(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		if _, err := CreateOrder(ctx, db, orderRequest(750, seedHourID)); err != nil {
			t.Fatalf("Create order %d: %v", i, err)
		}
	}

	page1, err := ListOrders(ctx, db, "", 10)
	if err != nil {
		t.Fatalf("List orders page 1: %v", err)
	}
	if !page1.HasMore || page1.NextCursor == "" {
		t.Fatal("Page 1 should have more results and a cursor")
	}
	if len(page1.Items) != 10 {
		t.Errorf("Expected 10 orders on page 1, got %d", len(page1.Items))
	}

	page2, err := ListOrders(ctx, db, page1.NextCursor, 10)
	if err != nil {
		t.Fatalf("List orders page 2: %v", err)
	}
	if page2.HasMore {
		t.Error("Page 2 should not have more results")
	}
	if len(page2.Items) != 5 {
		t.Errorf("Expected 5 orders on page 2, got %d", len(page2.Items))
	}
}
