package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MethodMaterial struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	MakeMethodID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"make_method_id"`
	Order                int             `gorm:"column:sort_order;not null;default:0" json:"order"`
	ItemID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	ItemType             ItemType        `gorm:"column:item_type;type:text;not null" json:"item_type"`
	MethodType           MethodType      `gorm:"column:method_type;type:text;not null" json:"method_type"`
	Description          string          `gorm:"column:description" json:"description"`
	Quantity             decimal.Decimal `gorm:"column:quantity;type:numeric(18,6);not null;default:0" json:"quantity"`
	UnitOfMeasureCode    string          `gorm:"column:unit_of_measure_code" json:"unit_of_measure_code"`
	Kit                  bool            `gorm:"column:kit;not null;default:false" json:"kit"`
	MethodOperationID    *uuid.UUID      `gorm:"type:uuid" json:"method_operation_id,omitempty"`
	MaterialMakeMethodID *uuid.UUID      `gorm:"type:uuid;index" json:"material_make_method_id,omitempty"`
	CreatedAt            time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (MethodMaterial) TableName() string { return "method_material" }

func (m *MethodMaterial) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MethodTreeRow is the flat projection used to render a method as a tree.
// ParentMaterialID is the Make material one level up, nil at the top.
type MethodTreeRow struct {
	MethodMaterialID     uuid.UUID       `json:"method_material_id"`
	ParentMaterialID     *uuid.UUID      `json:"parent_material_id,omitempty"`
	MakeMethodID         uuid.UUID       `json:"make_method_id"`
	MaterialMakeMethodID *uuid.UUID      `json:"material_make_method_id,omitempty"`
	ItemID               uuid.UUID       `json:"item_id"`
	ItemReadableID       string          `json:"item_readable_id"`
	ItemType             ItemType        `json:"item_type"`
	MethodType           MethodType      `json:"method_type"`
	Description          string          `json:"description"`
	Quantity             decimal.Decimal `json:"quantity"`
	UnitOfMeasureCode    string          `json:"unit_of_measure_code"`
	Kit                  bool            `json:"kit"`
	Order                int             `json:"order"`
	Level                int             `json:"level"`
}
