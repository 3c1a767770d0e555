package grouporders

import (
	"time"

	"github.com/google/uuid"
	"github.com/sumopedidos/sumo-backend/internal/notifications"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
)

// CreateGroupOrderInput is the validated command for publishing a new event.
type CreateGroupOrderInput struct {
	MenuID         uuid.UUID
	Slug           string
	Deadline       time.Time
	DeliveryCostGs int64
	MinTotalGs     *int64
	MinItems       *int
	SplitStrategy  enums.SplitStrategy

	CompanyName     *string
	CompanyWhatsApp *string
	BankName        *string
	BankHolder      *string
	BankAccount     *string
	BankDoc         *string
	BankAlias       *string
}

// SubmitLineInput is the validated command for a participant's order line.
type SubmitLineInput struct {
	Name      string
	WhatsApp  string
	PayMethod enums.PayMethod
	ItemID    uuid.UUID
	Qty       int
	Note      *string
}

// SubmitLineResult returns the stored line and the confirmation outcome.
type SubmitLineResult struct {
	Line         models.OrderLine      `json:"line"`
	Notification notifications.Outcome `json:"notification"`
}

// OrderView is an order with its computed money view.
type OrderView struct {
	Order   *models.GroupOrder
	Items   []models.MenuItem
	Preview Preview
}

// OrderSummary is one row of the admin order list.
type OrderSummary struct {
	ID             uuid.UUID              `json:"id"`
	Slug           string                 `json:"slug"`
	Status         enums.GroupOrderStatus `json:"status"`
	Deadline       time.Time              `json:"deadline"`
	SplitStrategy  enums.SplitStrategy    `json:"split_strategy"`
	DeliveryCostGs int64                  `json:"delivery_cost_gs"`
	SubtotalGs     int64                  `json:"subtotal_gs"`
	TotalGs        int64                  `json:"total_gs"`
	ItemCount      int                    `json:"item_count"`
	LineCount      int                    `json:"line_count"`
	CreatedAt      time.Time              `json:"created_at"`
}

// OrderList is a page of order summaries.
type OrderList struct {
	Items  []OrderSummary `json:"items"`
	Cursor string         `json:"cursor"`
}

// CloseOutcome names what a close attempt did.
type CloseOutcome string

const (
	CloseOutcomeClosed        CloseOutcome = "closed"
	CloseOutcomeCancelled     CloseOutcome = "cancelled"
	CloseOutcomeAlreadyClosed CloseOutcome = "already_closed"
)

// LineShare is the frozen allocation written for one line at close.
type LineShare struct {
	LineID          uuid.UUID `json:"line_id"`
	SubtotalGs      int64     `json:"subtotal_gs"`
	DeliveryShareGs int64     `json:"delivery_share_gs"`
	TotalGs         int64     `json:"total_gs"`
}

// CloseResult summarises a close attempt. Cancellation for unmet minimums is
// a normal outcome, not an error.
type CloseResult struct {
	OrderID       uuid.UUID                  `json:"order_id"`
	Outcome       CloseOutcome               `json:"outcome"`
	Status        enums.GroupOrderStatus     `json:"status"`
	SubtotalSum   int64                      `json:"subtotal_sum"`
	ItemCount     int                        `json:"item_count"`
	Reason        string                     `json:"reason,omitempty"`
	Shares        []LineShare                `json:"shares,omitempty"`
	Notifications *notifications.BatchResult `json:"notifications,omitempty"`
}

// DeliverResult summarises a delivery transition.
type DeliverResult struct {
	OrderID       uuid.UUID                 `json:"order_id"`
	Count         int                       `json:"count"`
	Notifications notifications.BatchResult `json:"notifications"`
}

// SweepResult counts what a deadline sweep did.
type SweepResult struct {
	Due           int `json:"due"`
	Closed        int `json:"closed"`
	Cancelled     int `json:"cancelled"`
	AlreadyClosed int `json:"already_closed"`
	Failed        int `json:"failed"`
}
