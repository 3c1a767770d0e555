package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sumopedidos/sumo-backend/pkg/enums"
)

// GroupOrder is one ordering event. Lines are loaded and written as a unit
// when the order closes.
type GroupOrder struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Slug           string                 `gorm:"column:slug;not null;uniqueIndex"`
	MenuID         uuid.UUID              `gorm:"column:menu_id;type:uuid;not null"`
	Status         enums.GroupOrderStatus `gorm:"column:status;type:text;not null"`
	Deadline       time.Time              `gorm:"column:deadline;not null"`
	DeliveryCostGs int64                  `gorm:"column:delivery_cost_gs;not null"`
	MinTotalGs     *int64                 `gorm:"column:min_total_gs"`
	MinItems       *int                   `gorm:"column:min_items"`
	SplitStrategy  enums.SplitStrategy    `gorm:"column:split_strategy;type:text;not null"`
	CancelReason   *string                `gorm:"column:cancel_reason"`
	ClosedAt       *time.Time             `gorm:"column:closed_at"`
	DeliveredAt    *time.Time             `gorm:"column:delivered_at"`

	CompanyName     *string `gorm:"column:company_name"`
	CompanyWhatsApp *string `gorm:"column:company_whatsapp"`
	BankName        *string `gorm:"column:bank_name"`
	BankHolder      *string `gorm:"column:bank_holder"`
	BankAccount     *string `gorm:"column:bank_account"`
	BankDoc         *string `gorm:"column:bank_doc"`
	BankAlias       *string `gorm:"column:bank_alias"`

	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
	Lines     []OrderLine `gorm:"foreignKey:GroupOrderID"`
}

func (o *GroupOrder) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
