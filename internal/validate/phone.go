package validate

import (
	"strings"
)

const phonePrefix = "+7"

func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone returns the canonical eleven-digit form starting with 7.
// Ten-digit local numbers get the country code prepended and a trunk 8 is
// rewritten to 7. Anything else is returned as bare digits.
func NormalizePhone(s string) string {
	d := Digits(s)
	switch {
	case len(d) == PhoneDigits-1:
		return string(PhoneCountryCode) + d
	case len(d) == PhoneDigits && d[0] == '8':
		return string(PhoneCountryCode) + d[1:]
	}
	return d
}

// FormatPhone renders digits progressively as +7 (XXX) XXX-XX-XX. A leading
// country code is dropped before formatting and extra digits are cut off.
func FormatPhone(digits string) string {
	n := strings.TrimPrefix(Digits(digits), string(PhoneCountryCode))

	switch {
	case len(n) == 0:
		return phonePrefix
	case len(n) <= 3:
		return phonePrefix + " (" + n
	case len(n) <= 6:
		return phonePrefix + " (" + n[:3] + ") " + n[3:]
	case len(n) <= 8:
		return phonePrefix + " (" + n[:3] + ") " + n[3:6] + "-" + n[6:]
	}
	if len(n) > 10 {
		n = n[:10]
	}
	return phonePrefix + " (" + n[:3] + ") " + n[3:6] + "-" + n[6:8] + "-" + n[8:]
}

// MaskPhone is applied to the raw field value after every keystroke.
// A lone "+", "7" or "8" typed into an empty field is swallowed so the user
// does not enter the country code twice; clearing the field leaves the
// prefix in place.
func MaskPhone(value string) string {
	if len(value) == 1 && strings.ContainsAny(value, "+78") {
		return ""
	}
	if value == "" {
		return phonePrefix
	}
	return FormatPhone(value)
}
