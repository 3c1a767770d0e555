package grouporders

import (
	"time"

	"github.com/google/uuid"

	internal "github.com/sumopedidos/sumo-backend/internal/grouporders"
	"github.com/sumopedidos/sumo-backend/internal/notifications"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
)

type orderResponse struct {
	ID             uuid.UUID              `json:"id"`
	Slug           string                 `json:"slug"`
	MenuID         uuid.UUID              `json:"menu_id"`
	Status         enums.GroupOrderStatus `json:"status"`
	Deadline       time.Time              `json:"deadline"`
	DeliveryCostGs int64                  `json:"delivery_cost_gs"`
	MinTotalGs     *int64                 `json:"min_total_gs,omitempty"`
	MinItems       *int                   `json:"min_items,omitempty"`
	SplitStrategy  enums.SplitStrategy    `json:"split_strategy"`
	CancelReason   *string                `json:"cancel_reason,omitempty"`
	ClosedAt       *time.Time             `json:"closed_at,omitempty"`
	DeliveredAt    *time.Time             `json:"delivered_at,omitempty"`
	CompanyName    *string                `json:"company_name,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`

	// Admin-only fields.
	CompanyWhatsApp *string    `json:"company_whatsapp,omitempty"`
	BankName        *string    `json:"bank_name,omitempty"`
	BankHolder      *string    `json:"bank_holder,omitempty"`
	BankAccount     *string    `json:"bank_account,omitempty"`
	BankDoc         *string    `json:"bank_doc,omitempty"`
	BankAlias       *string    `json:"bank_alias,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

func newOrderResponse(o *models.GroupOrder, admin bool) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		Slug:           o.Slug,
		MenuID:         o.MenuID,
		Status:         o.Status,
		Deadline:       o.Deadline,
		DeliveryCostGs: o.DeliveryCostGs,
		MinTotalGs:     o.MinTotalGs,
		MinItems:       o.MinItems,
		SplitStrategy:  o.SplitStrategy,
		CancelReason:   o.CancelReason,
		ClosedAt:       o.ClosedAt,
		DeliveredAt:    o.DeliveredAt,
		CompanyName:    o.CompanyName,
		CreatedAt:      o.CreatedAt,
	}
	if admin {
		updated := o.UpdatedAt
		resp.CompanyWhatsApp = o.CompanyWhatsApp
		resp.BankName = o.BankName
		resp.BankHolder = o.BankHolder
		resp.BankAccount = o.BankAccount
		resp.BankDoc = o.BankDoc
		resp.BankAlias = o.BankAlias
		resp.UpdatedAt = &updated
	}
	return resp
}

type lineResponse struct {
	ID              uuid.UUID        `json:"id"`
	GroupOrderID    uuid.UUID        `json:"group_order_id"`
	Name            string           `json:"name"`
	WhatsApp        string           `json:"whatsapp,omitempty"`
	PayMethod       enums.PayMethod  `json:"pay_method"`
	ItemID          uuid.UUID        `json:"item_id"`
	ItemName        string           `json:"item_name"`
	UnitPriceGs     int64            `json:"unit_price_gs"`
	Qty             int              `json:"qty"`
	Note            *string          `json:"note,omitempty"`
	SubtotalGs      int64            `json:"subtotal_gs"`
	DeliveryShareGs int64            `json:"delivery_share_gs"`
	TotalGs         int64            `json:"total_gs"`
	Status          enums.LineStatus `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
}

// newLineResponse hides the participant's phone number from public views.
func newLineResponse(l models.OrderLine, admin bool) lineResponse {
	resp := lineResponse{
		ID:              l.ID,
		GroupOrderID:    l.GroupOrderID,
		Name:            l.Name,
		PayMethod:       l.PayMethod,
		ItemID:          l.ItemID,
		ItemName:        l.ItemName,
		UnitPriceGs:     l.UnitPriceGs,
		Qty:             l.Qty,
		Note:            l.Note,
		SubtotalGs:      l.SubtotalGs,
		DeliveryShareGs: l.DeliveryShareGs,
		TotalGs:         l.TotalGs,
		Status:          l.Status,
		CreatedAt:       l.CreatedAt,
	}
	if admin {
		resp.WhatsApp = l.WhatsApp
	}
	return resp
}

type linePreviewResponse struct {
	Line            lineResponse `json:"line"`
	DeliveryShareGs int64        `json:"delivery_share_gs"`
	TotalGs         int64        `json:"total_gs"`
}

type previewResponse struct {
	Lines      []linePreviewResponse `json:"lines"`
	SubtotalGs int64                 `json:"subtotal_gs"`
	DeliveryGs int64                 `json:"delivery_gs"`
	TotalGs    int64                 `json:"total_gs"`
	Estimated  bool                  `json:"estimated"`
}

func newPreviewResponse(p internal.Preview, admin bool) previewResponse {
	lines := make([]linePreviewResponse, 0, len(p.Lines))
	for _, lp := range p.Lines {
		lines = append(lines, linePreviewResponse{
			Line:            newLineResponse(lp.Line, admin),
			DeliveryShareGs: lp.DeliveryShareGs,
			TotalGs:         lp.TotalGs,
		})
	}
	return previewResponse{
		Lines:      lines,
		SubtotalGs: p.SubtotalGs,
		DeliveryGs: p.DeliveryGs,
		TotalGs:    p.TotalGs,
		Estimated:  p.Estimated,
	}
}

type menuItemResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	PriceGs  int64     `json:"price_gs"`
	Category *string   `json:"category,omitempty"`
}

type orderViewResponse struct {
	Order   orderResponse      `json:"order"`
	Items   []menuItemResponse `json:"items"`
	Preview previewResponse    `json:"preview"`
}

func newOrderViewResponse(view *internal.OrderView, admin bool) orderViewResponse {
	items := make([]menuItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, menuItemResponse{
			ID:       item.ID,
			Name:     item.Name,
			PriceGs:  item.PriceGs,
			Category: item.Category,
		})
	}
	return orderViewResponse{
		Order:   newOrderResponse(view.Order, admin),
		Items:   items,
		Preview: newPreviewResponse(view.Preview, admin),
	}
}

type submitLineResponse struct {
	Line         lineResponse          `json:"line"`
	Notification notifications.Outcome `json:"notification"`
}
