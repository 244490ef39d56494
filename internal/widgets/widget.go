// Package widgets renders storefront snapshots as text and turns user
// actions into intent events. Widgets never touch the store state directly.
package widgets

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/safar/go-storefront/internal/events"
	"github.com/shopspring/decimal"
)

const currency = "synapses"

var (
	ErrDisabled   = errors.New("control is disabled")
	ErrNoSuchItem = errors.New("no such item")
)

// Renderable is anything the modal host can show.
type Renderable interface {
	Render(out io.Writer) error
}

// Widget is the shared core of every widget: a template, the bus it emits
// intents on, and the last snapshot it was given.
type Widget[T any] struct {
	name string
	tmpl *template.Template
	bus  *events.Bus
	data T
}

func newWidget[T any](name, text string, bus *events.Bus) Widget[T] {
	tmpl := template.Must(template.New(name).Funcs(funcs).Parse(text))
	return Widget[T]{name: name, tmpl: tmpl, bus: bus}
}

func (w *Widget[T]) Name() string {
	return w.name
}

func (w *Widget[T]) Update(data T) {
	w.data = data
}

func (w *Widget[T]) Data() T {
	return w.data
}

func (w *Widget[T]) Render(out io.Writer) error {
	if err := w.tmpl.Execute(out, w.data); err != nil {
		return fmt.Errorf("render %s: %w", w.name, err)
	}
	return nil
}

var funcs = template.FuncMap{
	"price":  formatPrice,
	"amount": formatAmount,
	"tag":    CategoryTag,
	"inc":    func(i int) int { return i + 1 },
	"join":   strings.Join,
}

func formatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return "Priceless"
	}
	return formatAmount(p.Decimal)
}

func formatAmount(d decimal.Decimal) string {
	return d.String() + " " + currency
}

var categoryTags = map[string]string{
	"софт-скил":      "soft",
	"хард-скил":      "hard",
	"другое":         "other",
	"дополнительное": "additional",
	"кнопка":         "button",
}

// CategoryTag maps a catalog category to its short label. Unknown categories
// fall back to "other".
func CategoryTag(category string) string {
	if tag, ok := categoryTags[category]; ok {
		return tag
	}
	return "other"
}
