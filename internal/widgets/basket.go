package widgets

import (
	"fmt"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

type BasketData struct {
	Entries []models.BasketEntry
	Total   decimal.Decimal
}

const basketTemplate = `Basket
{{if not .Entries}}(empty)
{{end}}{{range .Entries}}{{.Index}}. {{.Product.Title}} {{price .Product.Price}}
{{end}}Total: {{amount .Total}}
[Checkout]
`

type Basket struct {
	Widget[BasketData]
}

func NewBasket(bus *events.Bus) *Basket {
	return &Basket{Widget: newWidget[BasketData]("basket", basketTemplate, bus)}
}

func (b *Basket) Show(entries []models.BasketEntry, total decimal.Decimal) {
	b.data = BasketData{Entries: entries, Total: total}
}

// Remove asks for the entry at display index n to be dropped.
func (b *Basket) Remove(n int) error {
	for _, e := range b.data.Entries {
		if e.Index == n {
			events.BasketRemoveTopic.Publish(b.bus, events.BasketRemove{ProductID: e.Product.ID})
			return nil
		}
	}
	return fmt.Errorf("remove basket entry %d: %w", n, ErrNoSuchItem)
}

func (b *Basket) Checkout() {
	events.OrderOpenTopic.Publish(b.bus, events.Signal{})
}

type HeaderData struct {
	Counter int
}

const headerTemplate = "Basket: {{.Counter}}\n"

// Header shows the basket counter and opens the basket.
type Header struct {
	Widget[HeaderData]
}

func NewHeader(bus *events.Bus) *Header {
	return &Header{Widget: newWidget[HeaderData]("header", headerTemplate, bus)}
}

func (h *Header) SetCounter(n int) {
	h.data.Counter = n
}

func (h *Header) OpenBasket() {
	events.BasketOpenTopic.Publish(h.bus, events.Signal{})
}
