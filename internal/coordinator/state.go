package coordinator

type State int

const (
	Browsing State = iota
	PreviewOpen
	BasketOpen
	DeliveryForm
	ContactForm
	Submitting
	Confirmation
)

var stateNames = [...]string{
	Browsing:     "browsing",
	PreviewOpen:  "preview",
	BasketOpen:   "basket",
	DeliveryForm: "delivery",
	ContactForm:  "contacts",
	Submitting:   "submitting",
	Confirmation: "confirmation",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// modal reports whether the state shows something in the modal host.
func (s State) modal() bool {
	return s != Browsing
}
