package widgets

import (
	"fmt"
	"io"
	"strings"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
)

type ConfirmationData struct {
	Result models.OrderResult
}

const confirmationTemplate = `Order placed
Charged {{amount .Result.Total}}
[Back to shopping]
`

type Confirmation struct {
	Widget[ConfirmationData]
}

func NewConfirmation(bus *events.Bus) *Confirmation {
	return &Confirmation{Widget: newWidget[ConfirmationData]("confirmation", confirmationTemplate, bus)}
}

func (c *Confirmation) Show(res models.OrderResult) {
	c.data.Result = res
}

func (c *Confirmation) Close() {
	events.ModalCloseTopic.Publish(c.bus, events.Signal{})
}

var modalRule = strings.Repeat("-", 32)

// Modal hosts one piece of content at a time.
type Modal struct {
	bus     *events.Bus
	content Renderable
	open    bool
}

func NewModal(bus *events.Bus) *Modal {
	return &Modal{bus: bus}
}

func (m *Modal) Open(content Renderable) {
	m.content = content
	m.open = true
}

func (m *Modal) Close() {
	m.content = nil
	m.open = false
}

func (m *Modal) IsOpen() bool {
	return m.open
}

func (m *Modal) Content() Renderable {
	return m.content
}

// RequestClose is the close button: it only emits the intent.
func (m *Modal) RequestClose() {
	events.ModalCloseTopic.Publish(m.bus, events.Signal{})
}

func (m *Modal) Render(out io.Writer) error {
	if !m.open || m.content == nil {
		return nil
	}
	if _, err := fmt.Fprintln(out, modalRule); err != nil {
		return err
	}
	if err := m.content.Render(out); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, modalRule)
	return err
}
