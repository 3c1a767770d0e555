package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sumopedidos/sumo-backend/pkg/enums"
)

// NotificationLog records the outcome of one outbound message so failed
// sends can be found and retried by hand.
type NotificationLog struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	GroupOrderID uuid.UUID              `gorm:"column:group_order_id;type:uuid;not null;index"`
	OrderLineID  *uuid.UUID             `gorm:"column:order_line_id;type:uuid"`
	Kind         enums.NotificationKind `gorm:"column:kind;type:text;not null"`
	Phone        string                 `gorm:"column:phone;not null"`
	OK           bool                   `gorm:"column:ok;not null"`
	Skipped      bool                   `gorm:"column:skipped;not null"`
	Error        *string                `gorm:"column:error"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (n *NotificationLog) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
