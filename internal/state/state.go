// Package state is the single owner of the storefront's catalog, basket and
// order draft. Every mutation goes through a StoreState method, which then
// announces the change on the event bus.
//
// StoreState is not safe for concurrent use; the storefront drives it from
// one goroutine.
package state

import (
	"fmt"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/validate"
	"github.com/shopspring/decimal"
)

type StoreState struct {
	bus     *events.Bus
	catalog []models.Product
	basket  []models.Product
	draft   models.OrderDraft
}

func New(bus *events.Bus) *StoreState {
	return &StoreState{bus: bus}
}

// SetCatalog replaces the catalog wholesale. The previous catalog is kept if
// any product lacks an ID.
func (s *StoreState) SetCatalog(products []models.Product) error {
	for i, p := range products {
		if p.ID == "" {
			return models.NewValidationError("id", fmt.Sprintf("product #%d has no id", i+1))
		}
	}

	s.catalog = append([]models.Product(nil), products...)
	events.CatalogChangedTopic.Publish(s.bus, events.CatalogChanged{Products: s.Catalog()})
	return nil
}

func (s *StoreState) Catalog() []models.Product {
	return append([]models.Product(nil), s.catalog...)
}

func (s *StoreState) Product(id string) (models.Product, bool) {
	for _, p := range s.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// AddToBasket appends product unless it is already there. Products without a
// price are refused with models.ErrNotForSale.
func (s *StoreState) AddToBasket(product models.Product) error {
	if product.ID == "" {
		return models.NewValidationError("id", "product has no id")
	}
	if !product.ForSale() {
		return fmt.Errorf("add %q to basket: %w", product.ID, models.ErrNotForSale)
	}
	if s.IsInBasket(product.ID) {
		return nil
	}

	s.basket = append(s.basket, product)
	s.emitBasket()
	return nil
}

// RemoveFromBasket drops productID. The change event is emitted even when the
// product was not in the basket.
func (s *StoreState) RemoveFromBasket(productID string) {
	kept := s.basket[:0:0]
	for _, p := range s.basket {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	s.basket = kept
	s.emitBasket()
}

func (s *StoreState) ClearBasket() {
	s.basket = nil
	s.emitBasket()
}

func (s *StoreState) IsInBasket(productID string) bool {
	for _, p := range s.basket {
		if p.ID == productID {
			return true
		}
	}
	return false
}

func (s *StoreState) BasketCount() int {
	return len(s.basket)
}

// BasketTotal sums the basket, counting products without a price as zero.
func (s *StoreState) BasketTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.basket {
		total = total.Add(p.PriceOrZero())
	}
	return total
}

func (s *StoreState) BasketEntries() []models.BasketEntry {
	entries := make([]models.BasketEntry, 0, len(s.basket))
	for i, p := range s.basket {
		entries = append(entries, models.BasketEntry{Product: p, Index: i + 1})
	}
	return entries
}

func (s *StoreState) BasketIDs() []string {
	ids := make([]string, 0, len(s.basket))
	for _, p := range s.basket {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *StoreState) Draft() models.OrderDraft {
	return s.draft
}

// UpdateOrderDraft merges u into the draft and reports the validation state
// of every step the update touched. The returned map is empty when the
// touched steps are valid.
func (s *StoreState) UpdateOrderDraft(u models.DraftUpdate) map[string]string {
	s.draft = s.draft.Merge(u)

	all := map[string]string{}
	if u.Payment != nil || u.Address != nil {
		errs := validate.Delivery(s.draft)
		events.OrderValidationTopic.Publish(s.bus, events.OrderValidation{Step: events.StepDelivery, Errors: errs})
		for k, v := range errs {
			all[k] = v
		}
	}
	if u.Email != nil || u.Phone != nil {
		errs := validate.Contacts(s.draft)
		events.OrderValidationTopic.Publish(s.bus, events.OrderValidation{Step: events.StepContacts, Errors: errs})
		for k, v := range errs {
			all[k] = v
		}
	}
	return all
}

// OrderRequest snapshots the draft and basket into the payload sent to the
// backend.
func (s *StoreState) OrderRequest() models.OrderRequest {
	return models.NewOrderRequest(s.draft, s.BasketIDs(), s.BasketTotal())
}

func (s *StoreState) emitBasket() {
	events.BasketChangedTopic.Publish(s.bus, events.BasketChanged{Entries: s.BasketEntries()})
}
