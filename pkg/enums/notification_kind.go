package enums

import "fmt"

// NotificationKind labels which lifecycle event produced an outbound message.
type NotificationKind string

const (
	NotificationKindLineConfirmation NotificationKind = "line_confirmation"
	NotificationKindOrderClosed      NotificationKind = "order_closed"
	NotificationKindOrderCancelled   NotificationKind = "order_cancelled"
	NotificationKindOrderDelivered   NotificationKind = "order_delivered"
	NotificationKindPaymentReminder  NotificationKind = "payment_reminder"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindLineConfirmation,
	NotificationKindOrderClosed,
	NotificationKindOrderCancelled,
	NotificationKindOrderDelivered,
	NotificationKindPaymentReminder,
}

// String implements fmt.Stringer.
func (k NotificationKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known NotificationKind.
func (k NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
