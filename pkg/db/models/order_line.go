package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sumopedidos/sumo-backend/pkg/enums"
)

// OrderLine is one participant's submission. SubtotalGs is fixed at creation;
// DeliveryShareGs and TotalGs are only authoritative once the order leaves open.
type OrderLine struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	GroupOrderID    uuid.UUID        `gorm:"column:group_order_id;type:uuid;not null;index"`
	Name            string           `gorm:"column:name;not null"`
	WhatsApp        string           `gorm:"column:whatsapp;not null"`
	PayMethod       enums.PayMethod  `gorm:"column:pay_method;type:text;not null"`
	ItemID          uuid.UUID        `gorm:"column:item_id;type:uuid;not null"`
	ItemName        string           `gorm:"column:item_name;not null"`
	UnitPriceGs     int64            `gorm:"column:unit_price_gs;not null"`
	Qty             int              `gorm:"column:qty;not null"`
	Note            *string          `gorm:"column:note"`
	SubtotalGs      int64            `gorm:"column:subtotal_gs;not null"`
	DeliveryShareGs int64            `gorm:"column:delivery_share_gs;not null"`
	TotalGs         int64            `gorm:"column:total_gs;not null"`
	Status          enums.LineStatus `gorm:"column:status;type:text;not null"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *OrderLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
