package widgets

import (
	"fmt"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
)

// CardOptions switches the optional parts of a card.
type CardOptions struct {
	ShowDescription bool
	ShowButton      bool
}

type CardData struct {
	Product  models.Product
	InBasket bool
	Options  CardOptions
}

func (d CardData) ButtonLabel() string {
	switch {
	case !d.Product.ForSale():
		return "Unavailable"
	case d.InBasket:
		return "Remove from basket"
	}
	return "Add to basket"
}

const cardTemplate = `{{.Product.Title}} [{{tag .Product.Category}}]
{{- if and .Options.ShowDescription .Product.Description}}
{{.Product.Description}}{{end}}
Price: {{price .Product.Price}}
{{- if .Options.ShowButton}}
[{{.ButtonLabel}}]{{end}}
`

// Card is the product preview shown in the modal.
type Card struct {
	Widget[CardData]
}

func NewCard(bus *events.Bus, opts CardOptions) *Card {
	c := &Card{Widget: newWidget[CardData]("card", cardTemplate, bus)}
	c.data.Options = opts
	return c
}

func (c *Card) Show(p models.Product, inBasket bool) {
	c.data.Product = p
	c.data.InBasket = inBasket
}

func (c *Card) Product() models.Product {
	return c.data.Product
}

// Press activates the card button: it adds the product when absent and
// removes it when present. Priceless products have the button disabled.
func (c *Card) Press() error {
	if c.data.InBasket {
		return c.Remove()
	}
	return c.Add()
}

func (c *Card) Add() error {
	if c.data.Product.ID == "" || !c.data.Product.ForSale() {
		return ErrDisabled
	}
	if c.data.InBasket {
		return nil
	}
	events.BasketAddTopic.Publish(c.bus, events.BasketAdd{Product: c.data.Product})
	return nil
}

func (c *Card) Remove() error {
	if !c.data.InBasket {
		return nil
	}
	events.BasketRemoveTopic.Publish(c.bus, events.BasketRemove{ProductID: c.data.Product.ID})
	return nil
}

type GalleryData struct {
	Cards []CardData
}

const galleryTemplate = `{{if not .Cards}}The catalog is empty.
{{end}}{{range $i, $c := .Cards}}{{inc $i}}. {{$c.Product.Title}} [{{tag $c.Product.Category}}] {{price $c.Product.Price}}{{if $c.InBasket}} (in basket){{end}}
{{end}}`

// Gallery is the catalog listing.
type Gallery struct {
	Widget[GalleryData]
}

func NewGallery(bus *events.Bus) *Gallery {
	return &Gallery{Widget: newWidget[GalleryData]("gallery", galleryTemplate, bus)}
}

// Show rebuilds the listing; inBasket reports basket membership per product.
func (g *Gallery) Show(products []models.Product, inBasket func(id string) bool) {
	cards := make([]CardData, 0, len(products))
	for _, p := range products {
		cards = append(cards, CardData{Product: p, InBasket: inBasket(p.ID)})
	}
	g.data.Cards = cards
}

// Select opens the n-th card (1-based).
func (g *Gallery) Select(n int) error {
	if n < 1 || n > len(g.data.Cards) {
		return fmt.Errorf("select card %d: %w", n, ErrNoSuchItem)
	}
	events.CardSelectTopic.Publish(g.bus, events.CardSelected{Product: g.data.Cards[n-1].Product})
	return nil
}
