package whatsapp

import "strings"

// DefaultCountryCode is Paraguay, where local numbers are written 09xx.
const DefaultCountryCode = "595"

// NormalizePhone reduces a user-typed phone number to the international
// digits-only form providers expect: "+595 981 123-456" and "0981123456"
// both become "595981123456". A leading 00 international prefix is dropped
// and a single leading 0 is replaced with countryCode. Anything else is
// returned as digits unchanged.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "00"):
		return strings.TrimLeft(digits, "0")
	case strings.HasPrefix(digits, "0"):
		return countryCode + digits[1:]
	default:
		return digits
	}
}
