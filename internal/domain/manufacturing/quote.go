package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Quote struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteReadableID string    `gorm:"column:quote_readable_id;not null;index" json:"quote_readable_id"`
	Status          string    `gorm:"column:status;not null;default:'Draft'" json:"status"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Quote) TableName() string { return "quote" }

func (q *Quote) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type QuoteLine struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"quote_id"`
	ItemID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"item_id"`
	Description   string         `gorm:"column:description" json:"description"`
	MethodType    MethodType     `gorm:"column:method_type;type:text;not null;default:'Make'" json:"method_type"`
	Configuration datatypes.JSON `gorm:"column:configuration" json:"configuration,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (QuoteLine) TableName() string { return "quote_line" }

func (l *QuoteLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// QuoteMakeMethod places a quote-scoped MakeMethod inside a quote line. The
// row with no ParentMaterialID is the line's root method; the others hang off
// Make materials of their parent.
type QuoteMakeMethod struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"quote_id"`
	QuoteLineID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"quote_line_id"`
	ParentMaterialID *uuid.UUID `gorm:"type:uuid;index" json:"parent_material_id,omitempty"`
	ItemID           uuid.UUID  `gorm:"type:uuid;not null" json:"item_id"`
	MakeMethodID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"make_method_id"`
	Version          int        `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt        time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (QuoteMakeMethod) TableName() string { return "quote_make_method" }

func (q *QuoteMakeMethod) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
