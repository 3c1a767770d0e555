package grouporders

import (
	"github.com/sumopedidos/sumo-backend/internal/allocation"
	"github.com/sumopedidos/sumo-backend/pkg/db/models"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
)

// LinePreview pairs a line with the delivery share and total shown for it.
// While the order is open these are estimates; afterwards they are the
// persisted values.
type LinePreview struct {
	Line            models.OrderLine `json:"line"`
	DeliveryShareGs int64            `json:"delivery_share_gs"`
	TotalGs         int64            `json:"total_gs"`
}

// Preview is the read model of an order's money.
type Preview struct {
	Lines      []LinePreview `json:"lines"`
	SubtotalGs int64         `json:"subtotal_gs"`
	DeliveryGs int64         `json:"delivery_gs"`
	TotalGs    int64         `json:"total_gs"`
	Estimated  bool          `json:"estimated"`
}

// ComputeDeliveryPreview returns per-line shares and totals for order. Only an
// open order is recomputed; any other status echoes the stored amounts so a
// closed order never drifts from what was charged. The result is positional:
// Lines[i] describes lines[i].
func ComputeDeliveryPreview(order *models.GroupOrder, lines []models.OrderLine) Preview {
	preview := Preview{Lines: make([]LinePreview, len(lines))}
	for _, line := range lines {
		preview.SubtotalGs += line.SubtotalGs
	}

	switch {
	case len(lines) == 0 || order.DeliveryCostGs <= 0:
		for i, line := range lines {
			preview.Lines[i] = LinePreview{Line: line, TotalGs: line.SubtotalGs}
		}
	case order.Status != enums.GroupOrderStatusOpen:
		for i, line := range lines {
			preview.Lines[i] = LinePreview{Line: line, DeliveryShareGs: line.DeliveryShareGs, TotalGs: line.TotalGs}
		}
	default:
		preview.Estimated = true
		subtotals := make([]int64, len(lines))
		for i, line := range lines {
			subtotals[i] = line.SubtotalGs
		}
		shares := allocation.SplitDelivery(order.DeliveryCostGs, subtotals, order.SplitStrategy)
		for i, line := range lines {
			preview.Lines[i] = LinePreview{
				Line:            line,
				DeliveryShareGs: shares[i],
				TotalGs:         line.SubtotalGs + shares[i],
			}
		}
	}

	for _, lp := range preview.Lines {
		preview.DeliveryGs += lp.DeliveryShareGs
		preview.TotalGs += lp.TotalGs
	}
	return preview
}
