package notifications

import (
	"fmt"
	"strings"

	"github.com/sumopedidos/sumo-backend/pkg/config"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	"github.com/sumopedidos/sumo-backend/pkg/money"
)

// Composer renders the participant-facing message bodies. It only reads the
// frozen amounts stored on the line; it never computes allocation itself.
type Composer struct {
	cfg config.NotifyConfig
}

// NewComposer builds a composer around the injected notification settings.
func NewComposer(cfg config.NotifyConfig) Composer {
	return Composer{cfg: cfg}
}

// PayMethodLabel maps a pay method to the label shown to participants.
func PayMethodLabel(method enums.PayMethod) string {
	switch method {
	case enums.PayMethodCash:
		return "Efectivo"
	case enums.PayMethodTransfer:
		return "Transferencia bancaria"
	case enums.PayMethodCreditCard:
		return "Tarjeta de crédito"
	case enums.PayMethodDebitCard:
		return "Tarjeta de débito"
	case enums.PayMethodQR:
		return "Pago por QR"
	default:
		return string(method)
	}
}

func lineStatusLabel(status enums.LineStatus) string {
	switch status {
	case enums.LineStatusPending:
		return "Pendiente"
	case enums.LineStatusAwaitingPayment:
		return "Pendiente de pago"
	case enums.LineStatusPaid:
		return "Pagado"
	default:
		return string(status)
	}
}

// OrderLink returns the public URL of the order page, or "" when no base URL
// is configured.
func (c Composer) OrderLink(slug string) string {
	base := strings.TrimRight(strings.TrimSpace(c.cfg.PublicBaseURL), "/")
	if base == "" || slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/order/%s", base, slug)
}

func (c Composer) linkBlock(slug string) string {
	link := c.OrderLink(slug)
	if link == "" {
		return ""
	}
	return "\n\nPodés ver el detalle de tu pedido aquí:\n" + link
}

func (c Composer) signature() string {
	name := strings.TrimSpace(c.cfg.SenderName)
	if name == "" {
		return ""
	}
	return "\n\n" + name
}

// BankBlock renders transfer details. Fields stored on the order win; the
// free-form override is used when the order has none, and the configured
// account is the last resort.
func (c Composer) BankBlock(order *models.GroupOrder, override string) string {
	var lines []string
	if order != nil {
		lines = appendBankField(lines, "Banco", order.BankName)
		lines = appendBankField(lines, "Nombre", order.BankHolder)
		lines = appendBankField(lines, "Cuenta", order.BankAccount)
		lines = appendBankField(lines, "RUC/CI", order.BankDoc)
		lines = appendBankField(lines, "Alias", order.BankAlias)
	}
	if len(lines) == 0 {
		if trimmed := strings.TrimSpace(override); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		lines = appendBankField(lines, "Banco", &c.cfg.BankName)
		lines = appendBankField(lines, "Nombre", &c.cfg.BankHolder)
		lines = appendBankField(lines, "Cuenta", &c.cfg.BankAccount)
		lines = appendBankField(lines, "RUC/CI", &c.cfg.BankDoc)
		lines = appendBankField(lines, "Alias", &c.cfg.BankAlias)
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\nDatos para transferencia:\n" + strings.Join(lines, "\n")
}

func appendBankField(lines []string, label string, value *string) []string {
	if value == nil {
		return lines
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return lines
	}
	return append(lines, fmt.Sprintf("%s: %s", label, trimmed))
}

// LineConfirmation acknowledges a freshly submitted line.
func (c Composer) LineConfirmation(order *models.GroupOrder, line models.OrderLine) string {
	return fmt.Sprintf(`Hola %s 👋

Recibimos tu pedido en el grupo "%s".

• Ítem: %s x%d
• Subtotal: %s Gs.
• Método de pago: %s

El costo de envío se reparte entre todos al cerrar el pedido.%s%s`,
		line.Name, order.Slug, line.ItemName, line.Qty,
		money.FormatGs(line.SubtotalGs), PayMethodLabel(line.PayMethod),
		c.linkBlock(order.Slug), c.signature())
}

// OrderClosed tells a participant their final share and total.
func (c Composer) OrderClosed(order *models.GroupOrder, line models.OrderLine) string {
	return fmt.Sprintf(`Hola %s 👋

El pedido del grupo "%s" se cerró ✅

• Ítem: %s x%d
• Subtotal: %s Gs.
• Envío: %s Gs.
• Total a pagar: %s Gs.
• Método de pago: %s%s%s`,
		line.Name, order.Slug, line.ItemName, line.Qty,
		money.FormatGs(line.SubtotalGs), money.FormatGs(line.DeliveryShareGs),
		money.FormatGs(line.TotalGs), PayMethodLabel(line.PayMethod),
		c.linkBlock(order.Slug), c.signature())
}

// OrderCancelled explains that the minimums were not met.
func (c Composer) OrderCancelled(order *models.GroupOrder, line models.OrderLine) string {
	reason := ""
	if order.CancelReason != nil && *order.CancelReason != "" {
		reason = fmt.Sprintf(" (%s)", *order.CancelReason)
	}
	return fmt.Sprintf(`Hola %s 👋

El pedido del grupo "%s" fue cancelado porque no se alcanzó el mínimo%s.

No tenés nada que pagar.%s`,
		line.Name, order.Slug, reason, c.signature())
}

// OrderDelivered announces delivery with the amount owed.
func (c Composer) OrderDelivered(order *models.GroupOrder, line models.OrderLine) string {
	return fmt.Sprintf(`Hola %s 👋

Tu pedido del grupo "%s" ya fue *ENTREGADO* ✅

• Ítem: %s
• Total a pagar: %s Gs.
• Método de pago: %s%s%s`,
		line.Name, order.Slug, line.ItemName,
		money.FormatGs(line.TotalGs), PayMethodLabel(line.PayMethod),
		c.linkBlock(order.Slug), c.signature())
}

// PaymentReminder nudges a participant whose line is still unpaid.
func (c Composer) PaymentReminder(order *models.GroupOrder, line models.OrderLine, bankOverride string) string {
	return fmt.Sprintf(`Hola %s 👋

Te recordamos el pago de tu pedido del grupo "%s".

• Ítem: %s
• Total pendiente: %s Gs.
• Estado actual: %s
• Método de pago: %s%s%s

Si ya realizaste el pago, podés ignorar este mensaje o avisarle al administrador 🙌%s`,
		line.Name, order.Slug, line.ItemName,
		money.FormatGs(line.TotalGs), lineStatusLabel(line.Status),
		PayMethodLabel(line.PayMethod), c.BankBlock(order, bankOverride),
		c.linkBlock(order.Slug), c.signature())
}
