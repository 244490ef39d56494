// Package console drives the storefront from a line-oriented terminal. Each
// command maps to one widget action; the coordinator does the rest.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/safar/go-storefront/internal/coordinator"
	"github.com/safar/go-storefront/internal/models"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
	ErrNotOpen        = errors.New("window is not open")
)

const helpText = `Commands:
  list              show the catalog
  show N            open product N
  add [N]           add the open product, or product N, to the basket
  remove [N]        remove the open product, or basket line N
  basket            open the basket
  checkout          start the order
  pay online|cash   choose the payment method
  address TEXT      set the delivery address
  next              go to the contacts step
  email TEXT        set the email
  phone DIGITS      type the phone number
  submit            place the order
  close             close the open window
  reload            fetch the catalog again
  help              show this text
  quit              leave
`

// Shell reads commands and applies them to a started Coordinator. It is not
// safe for concurrent use.
type Shell struct {
	c   *coordinator.Coordinator
	out io.Writer
}

func NewShell(c *coordinator.Coordinator, out io.Writer) *Shell {
	return &Shell{c: c, out: out}
}

// Run executes commands from in until EOF, quit or ctx is done. Command
// errors are printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	s.prompt()
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := s.Exec(ctx, sc.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		s.prompt()
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

func (s *Shell) prompt() {
	fmt.Fprint(s.out, "> ")
}

// Exec runs a single command line. quit reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	ui := s.c.Widgets()

	switch strings.ToLower(name) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		_, err = io.WriteString(s.out, helpText)
		return false, err
	case "list":
		s.c.Render()
	case "reload":
		return false, s.c.LoadCatalog(ctx)
	case "show":
		n, err := index(name, arg)
		if err != nil {
			return false, err
		}
		return false, ui.Gallery.Select(n)
	case "add":
		if arg != "" {
			n, err := index(name, arg)
			if err != nil {
				return false, err
			}
			if err := ui.Gallery.Select(n); err != nil {
				return false, err
			}
		}
		if err := s.require(coordinator.PreviewOpen, "product"); err != nil {
			return false, err
		}
		return false, ui.Preview.Add()
	case "remove":
		if arg == "" {
			if err := s.require(coordinator.PreviewOpen, "product"); err != nil {
				return false, err
			}
			return false, ui.Preview.Remove()
		}
		n, err := index(name, arg)
		if err != nil {
			return false, err
		}
		if err := s.require(coordinator.BasketOpen, "basket"); err != nil {
			return false, err
		}
		return false, ui.Basket.Remove(n)
	case "basket":
		ui.Header.OpenBasket()
	case "checkout":
		ui.Basket.Checkout()
	case "pay":
		p := models.Payment(strings.ToLower(arg))
		if !p.Valid() {
			return false, fmt.Errorf("%w: pay online|cash", ErrUsage)
		}
		ui.Delivery.SelectPayment(p)
		return false, s.renderModal()
	case "address":
		ui.Delivery.SetAddress(arg)
		return false, s.renderModal()
	case "next":
		return false, ui.Delivery.Submit()
	case "email":
		ui.Contacts.SetEmail(arg)
		return false, s.renderModal()
	case "phone":
		ui.Contacts.ClearPhone()
		ui.Contacts.TypePhone(arg)
		return false, s.renderModal()
	case "submit":
		return false, ui.Contacts.Submit()
	case "close":
		ui.Modal.RequestClose()
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return false, nil
}

func (s *Shell) renderModal() error {
	if m := s.c.Widgets().Modal; m.IsOpen() {
		return m.Render(s.out)
	}
	return nil
}

func (s *Shell) require(want coordinator.State, window string) error {
	if s.c.State() != want {
		return fmt.Errorf("%w: %s", ErrNotOpen, window)
	}
	return nil
}

func index(cmd, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %s N", ErrUsage, cmd)
	}
	return n, nil
}
