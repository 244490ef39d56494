package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The storefront API exchanges prices as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Payment string

const (
	PaymentUnset  Payment = ""
	PaymentOnline Payment = "online"
	PaymentCash   Payment = "cash"
)

func (p Payment) Valid() bool {
	return p == PaymentOnline || p == PaymentCash
}

// Product is a catalog entry. A null Price marks the product as not for sale.
type Product struct {
	ID          string              `json:"id" db:"id"`
	Title       string              `json:"title" db:"title"`
	Description string              `json:"description,omitempty" db:"description"`
	Image       string              `json:"image" db:"image"`
	Category    string              `json:"category" db:"category"`
	Price       decimal.NullDecimal `json:"price" db:"price"`
}

func (p Product) ForSale() bool {
	return p.Price.Valid
}

// PriceOrZero is the amount the product contributes to a basket total.
func (p Product) PriceOrZero() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

type BasketEntry struct {
	Product Product `json:"product"`
	Index   int     `json:"index"`
}

type OrderDraft struct {
	Payment Payment `json:"payment"`
	Address string  `json:"address"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
}

// DraftUpdate is a partial OrderDraft; nil fields are left untouched on merge.
type DraftUpdate struct {
	Payment *Payment
	Address *string
	Email   *string
	Phone   *string
}

func (d OrderDraft) Merge(u DraftUpdate) OrderDraft {
	if u.Payment != nil {
		d.Payment = *u.Payment
	}
	if u.Address != nil {
		d.Address = *u.Address
	}
	if u.Email != nil {
		d.Email = *u.Email
	}
	if u.Phone != nil {
		d.Phone = *u.Phone
	}
	return d
}

type OrderRequest struct {
	Payment Payment         `json:"payment"`
	Address string          `json:"address"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Items   []string        `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

func NewOrderRequest(d OrderDraft, items []string, total decimal.Decimal) OrderRequest {
	return OrderRequest{
		Payment: d.Payment,
		Address: d.Address,
		Email:   d.Email,
		Phone:   d.Phone,
		Items:   items,
		Total:   total,
	}
}

type OrderResult struct {
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total"`
}

type CatalogPage struct {
	Total int       `json:"total"`
	Items []Product `json:"items"`
}

// Order is a placed order as persisted by the backend.
type Order struct {
	ID        string          `json:"id" db:"id"`
	Payment   Payment         `json:"payment" db:"payment"`
	Address   string          `json:"address" db:"address"`
	Email     string          `json:"email" db:"email"`
	Phone     string          `json:"phone" db:"phone"`
	Total     decimal.Decimal `json:"total" db:"total"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	Items     []OrderItem     `json:"items,omitempty" db:"-"`
}

type OrderItem struct {
	OrderID   string          `json:"order_id" db:"order_id"`
	ProductID string          `json:"product_id" db:"product_id"`
	Position  int             `json:"position" db:"position"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}
