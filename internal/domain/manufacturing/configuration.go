package manufacturing

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const UngroupedGroupName = "Ungrouped"

type ConfigurationParameterGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	IsUngrouped bool      `gorm:"column:is_ungrouped;not null;default:false" json:"is_ungrouped"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ConfigurationParameterGroup) TableName() string { return "configuration_parameter_group" }

func (g *ConfigurationParameterGroup) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type ConfigurationParameter struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_configuration_parameter_item_key,unique,priority:1" json:"item_id"`
	Key         string            `gorm:"column:key;not null;index:idx_configuration_parameter_item_key,unique,priority:2" json:"key"`
	Label       string            `gorm:"column:label;not null" json:"label"`
	DataType    ParameterDataType `gorm:"column:data_type;type:text;not null" json:"data_type"`
	ListOptions datatypes.JSON    `gorm:"column:list_options" json:"list_options,omitempty"`
	GroupID     *uuid.UUID        `gorm:"column:configuration_parameter_group_id;type:uuid;index" json:"configuration_parameter_group_id,omitempty"`
	SortOrder   int               `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt   time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ConfigurationParameter) TableName() string { return "configuration_parameter" }

func (p *ConfigurationParameter) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Options decodes ListOptions. Malformed JSON yields no options.
func (p ConfigurationParameter) Options() []string {
	if len(p.ListOptions) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(p.ListOptions, &out); err != nil {
		return nil
	}
	return out
}

// ConfigurationRule computes the value of one configurable field (Field is a
// field key) from an item's configuration parameters.
type ConfigurationRule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index:idx_configuration_rule_item_field,unique,priority:1" json:"item_id"`
	Field     string    `gorm:"column:field;not null;index:idx_configuration_rule_item_field,unique,priority:2" json:"field"`
	Code      string    `gorm:"column:code;type:text;not null" json:"code"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ConfigurationRule) TableName() string { return "configuration_rule" }

func (r *ConfigurationRule) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
