package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MakeMethod is one version of how an item is manufactured. Its graph is the
// set of materials and operations pointing at it.
type MakeMethod struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_make_method_item_scope,priority:1" json:"item_id"`
	Scope     MakeMethodScope  `gorm:"column:scope;type:text;not null;default:'item';index:idx_make_method_item_scope,priority:2" json:"scope"`
	Version   int              `gorm:"column:version;not null" json:"version"`
	Status    MakeMethodStatus `gorm:"column:status;type:text;not null;default:'Draft'" json:"status"`
	CreatedAt time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (MakeMethod) TableName() string { return "make_method" }

func (m *MakeMethod) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// EffectiveActive picks the version callers should treat as active: the
// stored Active row, or the sole version when only one exists.
func EffectiveActive(versions []*MakeMethod) *MakeMethod {
	for _, v := range versions {
		if v != nil && v.Status == MakeMethodActive {
			return v
		}
	}
	if len(versions) == 1 {
		return versions[0]
	}
	return nil
}
