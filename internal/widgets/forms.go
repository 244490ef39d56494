package widgets

import (
	"strings"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/validate"
)

// FormData is the snapshot shared by both checkout forms.
type FormData struct {
	Fields []FormField
	Errors []string
	Valid  bool
	Submit string
}

type FormField struct {
	Label string
	Value string
}

const formTemplate = `{{range .Fields}}{{.Label}}: {{.Value}}
{{end}}{{if .Errors}}! {{join .Errors ", "}}
{{end}}[{{.Submit}}]{{if not .Valid}} (disabled){{end}}
`

// DeliveryForm is the first checkout step: payment method and address.
type DeliveryForm struct {
	Widget[FormData]
	payment models.Payment
	address string
}

func NewDeliveryForm(bus *events.Bus) *DeliveryForm {
	f := &DeliveryForm{Widget: newWidget[FormData]("delivery", formTemplate, bus)}
	f.refresh()
	return f
}

// Load pre-fills the form from the draft.
func (f *DeliveryForm) Load(d models.OrderDraft) {
	f.payment = d.Payment
	f.address = d.Address
	f.refresh()
}

func (f *DeliveryForm) SelectPayment(p models.Payment) {
	f.payment = p
	f.refresh()
}

func (f *DeliveryForm) SetAddress(addr string) {
	f.address = addr
	f.refresh()
}

func (f *DeliveryForm) Valid() bool {
	return f.data.Valid
}

// Submit emits the step only when the form is valid.
func (f *DeliveryForm) Submit() error {
	if !f.data.Valid {
		return ErrDisabled
	}
	payment := f.payment
	address := strings.TrimSpace(f.address)
	events.DeliverySubmitTopic.Publish(f.bus, events.OrderStepSubmitted{
		Update: models.DraftUpdate{Payment: &payment, Address: &address},
	})
	return nil
}

func (f *DeliveryForm) refresh() {
	var errs []string
	if msg := validate.Address(f.address); msg != "" {
		errs = append(errs, msg)
	}
	if msg := validate.Payment(f.payment); msg != "" {
		errs = append(errs, msg)
	}

	f.data = FormData{
		Fields: []FormField{
			{Label: "Payment", Value: paymentLabel(f.payment)},
			{Label: "Address", Value: f.address},
		},
		Valid:  len(errs) == 0,
		Submit: "Next",
	}
	if f.address != "" || f.payment != models.PaymentUnset {
		f.data.Errors = errs
	}
}

func paymentLabel(p models.Payment) string {
	switch p {
	case models.PaymentOnline:
		return "(online) cash"
	case models.PaymentCash:
		return "online (cash)"
	}
	return "online cash"
}

// ContactForm is the second checkout step: email and phone.
type ContactForm struct {
	Widget[FormData]
	email string
	phone string
}

func NewContactForm(bus *events.Bus) *ContactForm {
	f := &ContactForm{Widget: newWidget[FormData]("contacts", formTemplate, bus)}
	f.refresh()
	return f
}

func (f *ContactForm) Load(d models.OrderDraft) {
	f.email = d.Email
	f.phone = d.Phone
	f.refresh()
}

func (f *ContactForm) SetEmail(email string) {
	f.email = email
	f.refresh()
}

// TypePhone feeds keys into the phone field one at a time, applying the
// input mask after each keystroke.
func (f *ContactForm) TypePhone(keys string) {
	for _, k := range keys {
		f.phone = validate.MaskPhone(f.phone + string(k))
	}
	f.refresh()
}

func (f *ContactForm) ClearPhone() {
	f.phone = ""
	f.refresh()
}

func (f *ContactForm) Phone() string {
	return f.phone
}

func (f *ContactForm) Valid() bool {
	return f.data.Valid
}

func (f *ContactForm) Submit() error {
	if !f.data.Valid {
		return ErrDisabled
	}
	email := strings.TrimSpace(f.email)
	phone := f.phone
	events.ContactsSubmitTopic.Publish(f.bus, events.OrderStepSubmitted{
		Update: models.DraftUpdate{Email: &email, Phone: &phone},
	})
	return nil
}

func (f *ContactForm) refresh() {
	var errs []string
	if msg := validate.Email(f.email); msg != "" {
		errs = append(errs, msg)
	}
	if msg := validate.Phone(f.phone); msg != "" {
		errs = append(errs, msg)
	}

	f.data = FormData{
		Fields: []FormField{
			{Label: "Email", Value: f.email},
			{Label: "Phone", Value: f.phone},
		},
		Valid:  len(errs) == 0,
		Submit: "Pay",
	}
	if f.email != "" || f.phone != "" {
		f.data.Errors = errs
	}
}
