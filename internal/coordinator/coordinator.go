// Package coordinator wires the store state and the widgets together over the
// event bus and drives the checkout sequence:
//
//	browsing -> preview -> browsing
//	browsing -> basket -> delivery -> contacts -> submitting -> confirmation -> browsing
//
// Network calls happen only when the catalog is loaded and when the order is
// submitted. Their failures are logged and otherwise swallowed.
package coordinator

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/state"
	"github.com/safar/go-storefront/internal/validate"
	"github.com/safar/go-storefront/internal/widgets"
	"go.uber.org/zap"
)

type ShopAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error)
}

var (
	ErrNoAPI    = errors.New("coordinator: api client is required")
	ErrNoOutput = errors.New("coordinator: output writer is required")
)

type Options struct {
	API       ShopAPI
	Out       io.Writer
	Logger    *zap.Logger
	AssetHost string
}

type Widgets struct {
	Header       *widgets.Header
	Gallery      *widgets.Gallery
	Preview      *widgets.Card
	Basket       *widgets.Basket
	Delivery     *widgets.DeliveryForm
	Contacts     *widgets.ContactForm
	Confirmation *widgets.Confirmation
	Modal        *widgets.Modal
}

type Coordinator struct {
	bus       *events.Bus
	store     *state.StoreState
	api       ShopAPI
	out       io.Writer
	log       *zap.Logger
	assetHost string
	ui        Widgets
	state     State
}

func New(bus *events.Bus, store *state.StoreState, opts Options) (*Coordinator, error) {
	if opts.API == nil {
		return nil, ErrNoAPI
	}
	if opts.Out == nil {
		return nil, ErrNoOutput
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Coordinator{
		bus:       bus,
		store:     store,
		api:       opts.API,
		out:       opts.Out,
		log:       log.Named("coordinator"),
		assetHost: strings.TrimRight(opts.AssetHost, "/"),
		ui: Widgets{
			Header:       widgets.NewHeader(bus),
			Gallery:      widgets.NewGallery(bus),
			Preview:      widgets.NewCard(bus, widgets.CardOptions{ShowDescription: true, ShowButton: true}),
			Basket:       widgets.NewBasket(bus),
			Delivery:     widgets.NewDeliveryForm(bus),
			Contacts:     widgets.NewContactForm(bus),
			Confirmation: widgets.NewConfirmation(bus),
			Modal:        widgets.NewModal(bus),
		},
		state: Browsing,
	}, nil
}

func (c *Coordinator) State() State {
	return c.state
}

func (c *Coordinator) Widgets() Widgets {
	return c.ui
}

// Start subscribes the coordinator to the bus and loads the catalog. ctx
// bounds every network call made on behalf of later events. Start must be
// called once.
func (c *Coordinator) Start(ctx context.Context) {
	events.CatalogChangedTopic.Subscribe(c.bus, c.onCatalogChanged)
	events.BasketChangedTopic.Subscribe(c.bus, c.onBasketChanged)
	events.OrderValidationTopic.Subscribe(c.bus, c.onOrderValidation)

	events.CardSelectTopic.Subscribe(c.bus, c.onCardSelect)
	events.BasketAddTopic.Subscribe(c.bus, c.onBasketAdd)
	events.BasketRemoveTopic.Subscribe(c.bus, c.onBasketRemove)
	events.BasketOpenTopic.Subscribe(c.bus, c.onBasketOpen)
	events.OrderOpenTopic.Subscribe(c.bus, c.onOrderOpen)
	events.DeliverySubmitTopic.Subscribe(c.bus, c.onDeliverySubmit)
	events.ContactsSubmitTopic.Subscribe(c.bus, func(e events.OrderStepSubmitted) {
		c.onContactsSubmit(ctx, e)
	})
	events.OrderSuccessTopic.Subscribe(c.bus, c.onOrderSuccess)
	events.ModalCloseTopic.Subscribe(c.bus, c.onModalClose)

	_ = c.LoadCatalog(ctx)
}

// LoadCatalog fetches the products and hands them to the store. The error is
// logged before it is returned.
func (c *Coordinator) LoadCatalog(ctx context.Context) error {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		c.log.Error("load catalog", zap.Error(err))
		return err
	}

	for i := range products {
		products[i].Image = c.assetURL(products[i].Image)
	}

	if err := c.store.SetCatalog(products); err != nil {
		c.log.Error("set catalog", zap.Error(err))
		return err
	}
	c.log.Info("catalog loaded", zap.Int("products", len(products)))
	return nil
}

// Render writes the current screen: header, catalog and any open modal.
func (c *Coordinator) Render() {
	c.render(c.ui.Header)
	c.render(c.ui.Gallery)
	c.render(c.ui.Modal)
}

func (c *Coordinator) assetURL(image string) string {
	if image == "" || c.assetHost == "" || strings.Contains(image, "://") {
		return image
	}
	return c.assetHost + "/" + strings.TrimLeft(image, "/")
}

func (c *Coordinator) transition(to State) {
	c.log.Debug("transition", zap.Stringer("from", c.state), zap.Stringer("to", to))
	c.state = to
}

func (c *Coordinator) ignore(intent string) {
	c.log.Debug("intent ignored", zap.String("intent", intent), zap.Stringer("state", c.state))
}

func (c *Coordinator) render(r widgets.Renderable) {
	if err := r.Render(c.out); err != nil {
		c.log.Error("render", zap.Error(err))
	}
}

func (c *Coordinator) show(content widgets.Renderable, to State) {
	c.ui.Modal.Open(content)
	c.transition(to)
	c.render(c.ui.Modal)
}

func (c *Coordinator) onCatalogChanged(e events.CatalogChanged) {
	c.ui.Gallery.Show(e.Products, c.store.IsInBasket)
	c.render(c.ui.Gallery)
}

func (c *Coordinator) onBasketChanged(e events.BasketChanged) {
	c.ui.Header.SetCounter(len(e.Entries))
	c.ui.Gallery.Show(c.store.Catalog(), c.store.IsInBasket)
	c.render(c.ui.Header)

	if c.state == BasketOpen {
		c.ui.Basket.Show(e.Entries, c.store.BasketTotal())
		c.render(c.ui.Modal)
	}
}

func (c *Coordinator) onOrderValidation(e events.OrderValidation) {
	c.log.Debug("draft validated", zap.String("step", e.Step), zap.Any("errors", e.Errors))
}

func (c *Coordinator) onCardSelect(e events.CardSelected) {
	if c.state != Browsing {
		c.ignore("card:select")
		return
	}
	c.ui.Preview.Show(e.Product, c.store.IsInBasket(e.Product.ID))
	c.show(c.ui.Preview, PreviewOpen)
}

// Products enter the basket only from the open preview.
func (c *Coordinator) onBasketAdd(e events.BasketAdd) {
	if c.state != PreviewOpen {
		c.ignore("basket:add")
		return
	}
	if err := c.store.AddToBasket(e.Product); err != nil {
		c.log.Warn("add to basket", zap.String("product", e.Product.ID), zap.Error(err))
		return
	}
	c.closePreview()
}

func (c *Coordinator) onBasketRemove(e events.BasketRemove) {
	if c.state != PreviewOpen && c.state != BasketOpen {
		c.ignore("basket:remove")
		return
	}
	c.store.RemoveFromBasket(e.ProductID)
	c.closePreview()
}

func (c *Coordinator) closePreview() {
	if c.state == PreviewOpen {
		c.ui.Modal.Close()
		c.transition(Browsing)
	}
}

func (c *Coordinator) onBasketOpen(events.Signal) {
	if c.state != Browsing {
		c.ignore("basket:open")
		return
	}
	c.ui.Basket.Show(c.store.BasketEntries(), c.store.BasketTotal())
	c.show(c.ui.Basket, BasketOpen)
}

// The basket may be empty here; the checkout button is not guarded.
func (c *Coordinator) onOrderOpen(events.Signal) {
	if c.state != BasketOpen {
		c.ignore("order:open")
		return
	}
	c.ui.Delivery.Load(c.store.Draft())
	c.show(c.ui.Delivery, DeliveryForm)
}

func (c *Coordinator) onDeliverySubmit(e events.OrderStepSubmitted) {
	if c.state != DeliveryForm {
		c.ignore("order:submit:delivery")
		return
	}
	c.store.UpdateOrderDraft(e.Update)
	if errs := validate.Delivery(c.store.Draft()); len(errs) > 0 {
		c.log.Info("delivery step rejected", zap.Any("errors", errs))
		return
	}
	c.ui.Contacts.Load(c.store.Draft())
	c.show(c.ui.Contacts, ContactForm)
}

func (c *Coordinator) onContactsSubmit(ctx context.Context, e events.OrderStepSubmitted) {
	if c.state != ContactForm {
		c.ignore("order:submit:contacts")
		return
	}
	c.store.UpdateOrderDraft(e.Update)
	if errs := validate.Draft(c.store.Draft()); len(errs) > 0 {
		c.log.Info("contacts step rejected", zap.Any("errors", errs))
		return
	}

	c.transition(Submitting)
	req := c.store.OrderRequest()
	res, err := c.api.CreateOrder(ctx, req)
	if err != nil {
		c.log.Error("submit order", zap.Strings("items", req.Items), zap.Error(err))
		c.transition(ContactForm)
		return
	}

	c.log.Info("order placed", zap.String("order", res.ID), zap.Stringer("total", res.Total))
	events.OrderSuccessTopic.Publish(c.bus, events.OrderSucceeded{Result: *res})
}

func (c *Coordinator) onOrderSuccess(e events.OrderSucceeded) {
	if c.state != Submitting {
		c.ignore("order:success")
		return
	}
	c.transition(Confirmation)
	c.store.ClearBasket()
	c.ui.Confirmation.Show(e.Result)
	c.ui.Modal.Open(c.ui.Confirmation)
	c.render(c.ui.Modal)
}

func (c *Coordinator) onModalClose(events.Signal) {
	if !c.state.modal() || c.state == Submitting {
		c.ignore("modal:close")
		return
	}
	c.ui.Modal.Close()
	c.transition(Browsing)
}
