package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Item struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ReadableID          string              `gorm:"column:readable_id;not null;index" json:"readable_id"`
	Revision            string              `gorm:"column:revision;not null;default:'0'" json:"revision"`
	Name                string              `gorm:"column:name;not null" json:"name"`
	Type                ItemType            `gorm:"column:type;type:text;not null" json:"type"`
	ReplenishmentSystem ReplenishmentSystem `gorm:"column:replenishment_system;type:text;not null" json:"replenishment_system"`
	DefaultMethodType   MethodType          `gorm:"column:default_method_type;type:text;not null" json:"default_method_type"`
	TrackingType        TrackingType        `gorm:"column:tracking_type;type:text;not null;default:'Inventory'" json:"tracking_type"`
	UnitOfMeasureCode   string              `gorm:"column:unit_of_measure_code" json:"unit_of_measure_code"`
	IsDefaultRevision   bool                `gorm:"column:is_default_revision;not null" json:"is_default_revision"`
	CreatedAt           time.Time           `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Item) TableName() string { return "item" }

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
