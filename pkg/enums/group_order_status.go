package enums

import "fmt"

// GroupOrderStatus tracks the lifecycle of a group order event.
type GroupOrderStatus string

const (
	GroupOrderStatusOpen      GroupOrderStatus = "open"
	GroupOrderStatusClosed    GroupOrderStatus = "closed"
	GroupOrderStatusDelivered GroupOrderStatus = "delivered"
	GroupOrderStatusCancelled GroupOrderStatus = "cancelled"
)

var validGroupOrderStatuses = []GroupOrderStatus{
	GroupOrderStatusOpen,
	GroupOrderStatusClosed,
	GroupOrderStatusDelivered,
	GroupOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s GroupOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known GroupOrderStatus.
func (s GroupOrderStatus) IsValid() bool {
	for _, candidate := range validGroupOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseGroupOrderStatus converts raw input into a GroupOrderStatus.
func ParseGroupOrderStatus(value string) (GroupOrderStatus, error) {
	for _, candidate := range validGroupOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group order status %q", value)
}

var groupOrderTransitions = map[GroupOrderStatus][]GroupOrderStatus{
	GroupOrderStatusOpen:   {GroupOrderStatusClosed, GroupOrderStatusCancelled},
	GroupOrderStatusClosed: {GroupOrderStatusDelivered},
}

// CanTransitionTo reports whether next is a legal successor of s.
// Delivered and cancelled orders are terminal.
func (s GroupOrderStatus) CanTransitionTo(next GroupOrderStatus) bool {
	for _, candidate := range groupOrderTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}
