package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Menu is the catalog a group order is published against.
type Menu struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Title     string     `gorm:"column:title;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	Items     []MenuItem `gorm:"foreignKey:MenuID"`
}

func (m *Menu) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MenuItem is a priced dish. Prices are whole guaraníes.
type MenuItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MenuID    uuid.UUID `gorm:"column:menu_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	PriceGs   int64     `gorm:"column:price_gs;not null"`
	Category  *string   `gorm:"column:category"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (i *MenuItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
