package events

import (
	"github.com/safar/go-storefront/internal/models"
)

// State notifications.
type CatalogChanged struct {
	Products []models.Product
}

type BasketChanged struct {
	Entries []models.BasketEntry
}

type OrderValidation struct {
	Step   string
	Errors map[string]string
}

// User intents.
type CardSelected struct {
	Product models.Product
}

type BasketAdd struct {
	Product models.Product
}

type BasketRemove struct {
	ProductID string
}

type OrderStepSubmitted struct {
	Update models.DraftUpdate
}

type OrderSucceeded struct {
	Result models.OrderResult
}

type Signal struct{}

const (
	StepDelivery = "delivery"
	StepContacts = "contacts"
)

var (
	CatalogChangedTopic  = NewTopic[CatalogChanged]("catalog:changed")
	BasketChangedTopic   = NewTopic[BasketChanged]("basket:changed")
	OrderValidationTopic = NewTopic[OrderValidation]("order:validation")

	CardSelectTopic     = NewTopic[CardSelected]("card:select")
	BasketAddTopic      = NewTopic[BasketAdd]("basket:add")
	BasketRemoveTopic   = NewTopic[BasketRemove]("basket:remove")
	BasketOpenTopic     = NewTopic[Signal]("basket:open")
	OrderOpenTopic      = NewTopic[Signal]("order:open")
	DeliverySubmitTopic = NewTopic[OrderStepSubmitted]("order:submit:delivery")
	ContactsSubmitTopic = NewTopic[OrderStepSubmitted]("order:submit:contacts")
	OrderSuccessTopic   = NewTopic[OrderSucceeded]("order:success")
	ModalCloseTopic     = NewTopic[Signal]("modal:close")
)
