// Package validate holds the checkout field rules shared by the forms, the
// store state and the backend.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/safar/go-storefront/internal/models"
)

const (
	FieldAddress = "address"
	FieldPayment = "payment"
	FieldEmail   = "email"
	FieldPhone   = "phone"

	MinAddressLength = 5
	PhoneDigits      = 11
	PhoneCountryCode = '7'
)

const (
	MsgAddressRequired = "enter a delivery address"
	MsgAddressTooShort = "address must be at least 5 characters"
	MsgPaymentRequired = "choose a payment method"
	MsgEmailInvalid    = "enter an email like example@mail.com"
	MsgPhoneInvalid    = "enter a phone as +7 (XXX) XXX-XX-XX"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Address returns an empty string when addr is acceptable.
func Address(addr string) string {
	addr = strings.TrimSpace(addr)
	switch {
	case addr == "":
		return MsgAddressRequired
	case utf8.RuneCountInString(addr) < MinAddressLength:
		return MsgAddressTooShort
	}
	return ""
}

func Payment(p models.Payment) string {
	if !p.Valid() {
		return MsgPaymentRequired
	}
	return ""
}

func Email(email string) string {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return MsgEmailInvalid
	}
	return ""
}

// Phone accepts any formatting as long as the digits are exactly eleven and
// start with the country code.
func Phone(phone string) string {
	d := Digits(phone)
	if len(d) != PhoneDigits || d[0] != PhoneCountryCode {
		return MsgPhoneInvalid
	}
	return ""
}

// Delivery validates the first checkout step.
func Delivery(d models.OrderDraft) map[string]string {
	errs := map[string]string{}
	if msg := Address(d.Address); msg != "" {
		errs[FieldAddress] = msg
	}
	if msg := Payment(d.Payment); msg != "" {
		errs[FieldPayment] = msg
	}
	return errs
}

// Contacts validates the second checkout step.
func Contacts(d models.OrderDraft) map[string]string {
	errs := map[string]string{}
	if msg := Email(d.Email); msg != "" {
		errs[FieldEmail] = msg
	}
	if msg := Phone(d.Phone); msg != "" {
		errs[FieldPhone] = msg
	}
	return errs
}

// Draft validates both steps.
func Draft(d models.OrderDraft) map[string]string {
	errs := Delivery(d)
	for k, v := range Contacts(d) {
		errs[k] = v
	}
	return errs
}
