package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var guaraniPrinter = message.NewPrinter(language.MustParse("es-PY"))

// FormatGs renders a whole-guaraní amount with Paraguayan digit grouping,
// e.g. 30000 -> "30.000".
func FormatGs(amount int64) string {
	return guaraniPrinter.Sprintf("%d", amount)
}
