package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MethodOperation struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	MakeMethodID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"make_method_id"`
	Order          int            `gorm:"column:sort_order;not null;default:0" json:"order"`
	OperationOrder OperationOrder `gorm:"column:operation_order;type:text;not null;default:'After Previous'" json:"operation_order"`
	OperationType  OperationType  `gorm:"column:operation_type;type:text;not null;default:'Inside'" json:"operation_type"`
	Description    string         `gorm:"column:description" json:"description"`
	ProcessID      *uuid.UUID     `gorm:"type:uuid" json:"process_id,omitempty"`
	WorkCenterID   *uuid.UUID     `gorm:"type:uuid" json:"work_center_id,omitempty"`

	SetupTime   decimal.Decimal `gorm:"column:setup_time;type:numeric(18,6);not null;default:0" json:"setup_time"`
	SetupUnit   string          `gorm:"column:setup_unit" json:"setup_unit"`
	LaborTime   decimal.Decimal `gorm:"column:labor_time;type:numeric(18,6);not null;default:0" json:"labor_time"`
	LaborUnit   string          `gorm:"column:labor_unit" json:"labor_unit"`
	MachineTime decimal.Decimal `gorm:"column:machine_time;type:numeric(18,6);not null;default:0" json:"machine_time"`
	MachineUnit string          `gorm:"column:machine_unit" json:"machine_unit"`

	// Outside operations only.
	OperationSupplierProcessID *uuid.UUID      `gorm:"type:uuid" json:"operation_supplier_process_id,omitempty"`
	OperationMinimumCost       decimal.Decimal `gorm:"column:operation_minimum_cost;type:numeric(18,6);not null;default:0" json:"operation_minimum_cost"`
	OperationUnitCost          decimal.Decimal `gorm:"column:operation_unit_cost;type:numeric(18,6);not null;default:0" json:"operation_unit_cost"`
	OperationLeadTime          int             `gorm:"column:operation_lead_time;not null;default:0" json:"operation_lead_time"`

	Steps      []MethodOperationStep      `gorm:"foreignKey:OperationID" json:"steps,omitempty"`
	Parameters []MethodOperationParameter `gorm:"foreignKey:OperationID" json:"parameters,omitempty"`
	Tools      []MethodOperationTool      `gorm:"foreignKey:OperationID" json:"tools,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (MethodOperation) TableName() string { return "method_operation" }

func (o *MethodOperation) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type MethodOperationStep struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	OperationID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"operation_id"`
	Type              StepType            `gorm:"column:type;type:text;not null;default:'Task'" json:"type"`
	Name              string              `gorm:"column:name;not null" json:"name"`
	Description       string              `gorm:"column:description" json:"description"`
	UnitOfMeasureCode string              `gorm:"column:unit_of_measure_code" json:"unit_of_measure_code"`
	MinValue          decimal.NullDecimal `gorm:"column:min_value;type:numeric(18,6)" json:"min_value"`
	MaxValue          decimal.NullDecimal `gorm:"column:max_value;type:numeric(18,6)" json:"max_value"`
	ListValues        datatypes.JSON      `gorm:"column:list_values" json:"list_values,omitempty"`
	SortOrder         int                 `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt         time.Time           `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (MethodOperationStep) TableName() string { return "method_operation_step" }

func (s *MethodOperationStep) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type MethodOperationParameter struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OperationID uuid.UUID `gorm:"type:uuid;not null;index" json:"operation_id"`
	Key         string    `gorm:"column:key;not null" json:"key"`
	Value       string    `gorm:"column:value" json:"value"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (MethodOperationParameter) TableName() string { return "method_operation_parameter" }

func (p *MethodOperationParameter) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type MethodOperationTool struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OperationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"operation_id"`
	ToolID      uuid.UUID       `gorm:"type:uuid;not null" json:"tool_id"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(18,6);not null;default:1" json:"quantity"`
	SortOrder   int             `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (MethodOperationTool) TableName() string { return "method_operation_tool" }

func (t *MethodOperationTool) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
