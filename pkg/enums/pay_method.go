package enums

import "fmt"

// PayMethod is the participant's declared way of paying; informational only.
type PayMethod string

const (
	PayMethodCreditCard PayMethod = "tc"
	PayMethodDebitCard  PayMethod = "td"
	PayMethodTransfer   PayMethod = "transfer"
	PayMethodCash       PayMethod = "cash"
	PayMethodQR         PayMethod = "qr"
)

var validPayMethods = []PayMethod{
	PayMethodCreditCard,
	PayMethodDebitCard,
	PayMethodTransfer,
	PayMethodCash,
	PayMethodQR,
}

// String implements fmt.Stringer.
func (p PayMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PayMethod.
func (p PayMethod) IsValid() bool {
	for _, candidate := range validPayMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePayMethod converts raw input into a PayMethod.
func ParsePayMethod(value string) (PayMethod, error) {
	for _, candidate := range validPayMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pay method %q", value)
}
