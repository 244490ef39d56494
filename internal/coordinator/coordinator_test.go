package coordinator

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/state"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAPI struct {
	products  []models.Product
	listErr   error
	orderErr  error
	result    models.OrderResult
	orders    []models.OrderRequest
	listCalls int
}

func (f *fakeAPI) ListProducts(context.Context) ([]models.Product, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeAPI) CreateOrder(_ context.Context, req models.OrderRequest) (*models.OrderResult, error) {
	f.orders = append(f.orders, req)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	res := f.result
	return &res, nil
}

type harness struct {
	c     *Coordinator
	store *state.StoreState
	api   *fakeAPI
	out   *bytes.Buffer
	logs  *observer.ObservedLogs
}

func newHarness(t *testing.T, api *fakeAPI) *harness {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	bus := events.NewBus()
	store := state.New(bus)
	out := &bytes.Buffer{}

	c, err := New(bus, store, Options{
		API:       api,
		Out:       out,
		Logger:    zap.New(core),
		AssetHost: "https://cdn.example/content/",
	})
	require.NoError(t, err)
	c.Start(context.Background())

	return &harness{c: c, store: store, api: api, out: out, logs: logs}
}

func priced(id string, price int64) models.Product {
	return models.Product{
		ID:    id,
		Title: "Product " + id,
		Image: "/" + id + ".svg",
		Price: decimal.NewNullDecimal(decimal.NewFromInt(price)),
	}
}

func fillCheckout(t *testing.T, h *harness) {
	t.Helper()
	ui := h.c.Widgets()

	ui.Header.OpenBasket()
	require.Equal(t, BasketOpen, h.c.State())

	ui.Basket.Checkout()
	require.Equal(t, DeliveryForm, h.c.State())

	ui.Delivery.SelectPayment(models.PaymentOnline)
	ui.Delivery.SetAddress("Main street 1")
	require.NoError(t, ui.Delivery.Submit())
	require.Equal(t, ContactForm, h.c.State())

	ui.Contacts.SetEmail("a@b.co")
	ui.Contacts.TypePhone("9991234567")
	require.NoError(t, ui.Contacts.Submit())
}

func TestNewRequiresCollaborators(t *testing.T) {
	bus := events.NewBus()
	_, err := New(bus, state.New(bus), Options{Out: &bytes.Buffer{}})
	assert.ErrorIs(t, err, ErrNoAPI)

	_, err = New(bus, state.New(bus), Options{API: &fakeAPI{}})
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestStartLoadsCatalogWithAssetHost(t *testing.T) {
	h := newHarness(t, &fakeAPI{products: []models.Product{priced("p1", 100)}})

	catalog := h.store.Catalog()
	require.Len(t, catalog, 1)
	assert.Equal(t, "https://cdn.example/content/p1.svg", catalog[0].Image)
	assert.Contains(t, h.out.String(), "1. Product p1")
	assert.Equal(t, Browsing, h.c.State())
}

func TestCatalogFailureIsLoggedAndSwallowed(t *testing.T) {
	h := newHarness(t, &fakeAPI{listErr: errors.New("connection refused")})

	assert.Empty(t, h.store.Catalog())
	assert.Equal(t, 1, h.logs.FilterMessage("load catalog").Len())
	assert.Equal(t, Browsing, h.c.State())
}

func TestCheckoutHappyPath(t *testing.T) {
	api := &fakeAPI{
		products: []models.Product{priced("p1", 100)},
		result:   models.OrderResult{ID: "o1", Total: decimal.NewFromInt(100)},
	}
	h := newHarness(t, api)
	ui := h.c.Widgets()

	require.NoError(t, ui.Gallery.Select(1))
	require.Equal(t, PreviewOpen, h.c.State())

	require.NoError(t, ui.Preview.Press())
	require.Equal(t, Browsing, h.c.State())
	require.True(t, h.store.BasketTotal().Equal(decimal.NewFromInt(100)))

	fillCheckout(t, h)

	require.Equal(t, Confirmation, h.c.State())
	assert.Empty(t, h.store.BasketEntries())
	require.Len(t, api.orders, 1)

	sent := api.orders[0]
	assert.Equal(t, []string{"p1"}, sent.Items)
	assert.True(t, sent.Total.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, models.PaymentOnline, sent.Payment)
	assert.Equal(t, "+7 (999) 123-45-67", sent.Phone)
	assert.Contains(t, h.out.String(), "Charged 100 synapses")
	assert.Equal(t, 0, ui.Header.Data().Counter)

	ui.Confirmation.Close()
	assert.Equal(t, Browsing, h.c.State())
	assert.False(t, ui.Modal.IsOpen())
}

func TestFailedSubmitStaysOnContactForm(t *testing.T) {
	api := &fakeAPI{
		products: []models.Product{priced("p1", 100)},
		orderErr: errors.New("api: 500 boom"),
	}
	h := newHarness(t, api)
	require.NoError(t, h.store.AddToBasket(priced("p1", 100)))

	fillCheckout(t, h)

	assert.Equal(t, ContactForm, h.c.State())
	assert.Equal(t, 1, h.store.BasketCount())
	assert.Equal(t, 1, h.logs.FilterMessage("submit order").Len())
}

func TestPricelessProductCannotBeAdded(t *testing.T) {
	free := models.Product{ID: "p2", Title: "Free"}
	h := newHarness(t, &fakeAPI{products: []models.Product{free}})
	ui := h.c.Widgets()

	require.NoError(t, ui.Gallery.Select(1))
	assert.Error(t, ui.Preview.Press())
	assert.False(t, h.store.IsInBasket("p2"))
	assert.Equal(t, PreviewOpen, h.c.State())

	events.BasketAddTopic.Publish(h.c.bus, events.BasketAdd{Product: free})
	assert.False(t, h.store.IsInBasket("p2"))
	assert.Equal(t, 1, h.logs.FilterMessage("add to basket").Len())
}

func TestRemoveFromBasketPanelKeepsBasketOpen(t *testing.T) {
	h := newHarness(t, &fakeAPI{products: []models.Product{priced("p1", 100), priced("p2", 50)}})
	ui := h.c.Widgets()
	require.NoError(t, h.store.AddToBasket(priced("p1", 100)))
	require.NoError(t, h.store.AddToBasket(priced("p2", 50)))

	ui.Header.OpenBasket()
	require.NoError(t, ui.Basket.Remove(1))

	assert.Equal(t, BasketOpen, h.c.State())
	assert.Equal(t, []string{"p2"}, h.store.BasketIDs())
	entries := ui.Basket.Data().Entries
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Index)
}

func TestInvalidDeliveryDoesNotAdvance(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	ui := h.c.Widgets()

	ui.Header.OpenBasket()
	ui.Basket.Checkout()
	require.Equal(t, DeliveryForm, h.c.State())

	addr := "abc"
	pay := models.PaymentCash
	events.DeliverySubmitTopic.Publish(h.c.bus, events.OrderStepSubmitted{
		Update: models.DraftUpdate{Address: &addr, Payment: &pay},
	})

	assert.Equal(t, DeliveryForm, h.c.State())
}

func TestEmptyDeliveryUpdateIsValidated(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	ui := h.c.Widgets()

	ui.Header.OpenBasket()
	ui.Basket.Checkout()
	require.Equal(t, DeliveryForm, h.c.State())

	events.DeliverySubmitTopic.Publish(h.c.bus, events.OrderStepSubmitted{})

	assert.Equal(t, DeliveryForm, h.c.State())
	assert.Equal(t, 1, h.logs.FilterMessage("delivery step rejected").Len())
}

func TestDraftValidationIsLogged(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	ui := h.c.Widgets()

	ui.Header.OpenBasket()
	ui.Basket.Checkout()
	ui.Delivery.SelectPayment(models.PaymentCash)
	ui.Delivery.SetAddress("Main street 1")
	require.NoError(t, ui.Delivery.Submit())

	entries := h.logs.FilterMessage("draft validated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, events.StepDelivery, entries[0].ContextMap()["step"])
}

func TestBasketChangesOnlyFromOpenWindows(t *testing.T) {
	h := newHarness(t, &fakeAPI{products: []models.Product{priced("p1", 100), priced("p2", 50)}})
	ui := h.c.Widgets()
	require.NoError(t, h.store.AddToBasket(priced("p1", 100)))

	events.BasketAddTopic.Publish(h.c.bus, events.BasketAdd{Product: priced("p2", 50)})
	assert.Equal(t, []string{"p1"}, h.store.BasketIDs())

	events.BasketRemoveTopic.Publish(h.c.bus, events.BasketRemove{ProductID: "p1"})
	assert.Equal(t, []string{"p1"}, h.store.BasketIDs())

	ui.Header.OpenBasket()
	ui.Basket.Checkout()
	require.Equal(t, DeliveryForm, h.c.State())

	events.BasketRemoveTopic.Publish(h.c.bus, events.BasketRemove{ProductID: "p1"})
	assert.Equal(t, []string{"p1"}, h.store.BasketIDs())
	assert.Equal(t, DeliveryForm, h.c.State())
}

func TestIntentsOutOfStateAreIgnored(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	ui := h.c.Widgets()

	ui.Basket.Checkout()
	assert.Equal(t, Browsing, h.c.State())

	ui.Modal.RequestClose()
	assert.Equal(t, Browsing, h.c.State())

	ui.Header.OpenBasket()
	require.Equal(t, BasketOpen, h.c.State())
	ui.Modal.RequestClose()
	assert.Equal(t, Browsing, h.c.State())
}

func TestDraftSurvivesBetweenOrders(t *testing.T) {
	api := &fakeAPI{
		products: []models.Product{priced("p1", 100)},
		result:   models.OrderResult{ID: "o1", Total: decimal.NewFromInt(100)},
	}
	h := newHarness(t, api)
	require.NoError(t, h.store.AddToBasket(priced("p1", 100)))
	fillCheckout(t, h)
	h.c.Widgets().Confirmation.Close()

	ui := h.c.Widgets()
	ui.Header.OpenBasket()
	ui.Basket.Checkout()

	assert.True(t, ui.Delivery.Valid())
	assert.Equal(t, "Main street 1", h.store.Draft().Address)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "contacts", ContactForm.String())
	assert.Equal(t, "unknown", State(42).String())
}
