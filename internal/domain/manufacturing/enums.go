package manufacturing

type ItemType string

const (
	ItemTypePart       ItemType = "Part"
	ItemTypeMaterial   ItemType = "Material"
	ItemTypeTool       ItemType = "Tool"
	ItemTypeConsumable ItemType = "Consumable"
	ItemTypeService    ItemType = "Service"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypePart, ItemTypeMaterial, ItemTypeTool, ItemTypeConsumable, ItemTypeService:
		return true
	}
	return false
}

type ReplenishmentSystem string

const (
	ReplenishBuy        ReplenishmentSystem = "Buy"
	ReplenishMake       ReplenishmentSystem = "Make"
	ReplenishBuyAndMake ReplenishmentSystem = "Buy and Make"
)

func (r ReplenishmentSystem) Valid() bool {
	return r == ReplenishBuy || r == ReplenishMake || r == ReplenishBuyAndMake
}

// CanMake reports whether items using this system may own make methods.
func (r ReplenishmentSystem) CanMake() bool {
	return r == ReplenishMake || r == ReplenishBuyAndMake
}

type TrackingType string

const (
	TrackingInventory    TrackingType = "Inventory"
	TrackingNonInventory TrackingType = "Non-Inventory"
	TrackingSerial       TrackingType = "Serial"
	TrackingBatch        TrackingType = "Batch"
)

func (t TrackingType) Valid() bool {
	switch t {
	case TrackingInventory, TrackingNonInventory, TrackingSerial, TrackingBatch:
		return true
	}
	return false
}

type MethodType string

const (
	MethodTypeBuy  MethodType = "Buy"
	MethodTypeMake MethodType = "Make"
	MethodTypePick MethodType = "Pick"
)

func (m MethodType) Valid() bool {
	switch m {
	case MethodTypeBuy, MethodTypeMake, MethodTypePick:
		return true
	}
	return false
}

type MakeMethodStatus string

const (
	MakeMethodDraft  MakeMethodStatus = "Draft"
	MakeMethodActive MakeMethodStatus = "Active"
)

// MakeMethodScope separates an item's versioned methods from the method
// containers copied onto quotes.
type MakeMethodScope string

const (
	ScopeItem  MakeMethodScope = "item"
	ScopeQuote MakeMethodScope = "quote"
)

type OperationOrder string

const (
	OperationAfterPrevious OperationOrder = "After Previous"
	OperationWithPrevious  OperationOrder = "With Previous"
)

type OperationType string

const (
	OperationInside  OperationType = "Inside"
	OperationOutside OperationType = "Outside"
)

type StepType string

const (
	StepTask        StepType = "Task"
	StepValue       StepType = "Value"
	StepMeasurement StepType = "Measurement"
	StepCheckbox    StepType = "Checkbox"
	StepTimestamp   StepType = "Timestamp"
	StepPerson      StepType = "Person"
	StepList        StepType = "List"
	StepFile        StepType = "File"
	StepInspection  StepType = "Inspection"
)

type ParameterDataType string

const (
	DataTypeNumeric  ParameterDataType = "numeric"
	DataTypeText     ParameterDataType = "text"
	DataTypeBoolean  ParameterDataType = "boolean"
	DataTypeList     ParameterDataType = "list"
	DataTypeMaterial ParameterDataType = "material"
	DataTypeDate     ParameterDataType = "date"
)

func (d ParameterDataType) Valid() bool {
	switch d {
	case DataTypeNumeric, DataTypeText, DataTypeBoolean, DataTypeList, DataTypeMaterial, DataTypeDate:
		return true
	}
	return false
}
