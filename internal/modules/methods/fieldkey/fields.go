package fieldkey

import "github.com/google/uuid"

type MaterialField string

const (
	MaterialItemID            MaterialField = "itemId"
	MaterialQuantity          MaterialField = "quantity"
	MaterialMethodType        MaterialField = "methodType"
	MaterialUnitOfMeasureCode MaterialField = "unitOfMeasureCode"
)

type OperationField string

const (
	OperationProcessID    OperationField = "processId"
	OperationWorkCenterID OperationField = "workCenterId"
	OperationDescription  OperationField = "description"
	OperationSetupTime    OperationField = "setupTime"
	OperationLaborTime    OperationField = "laborTime"
	OperationMachineTime  OperationField = "machineTime"
)

type StepField string

const (
	StepName              StepField = "name"
	StepDescription       StepField = "description"
	StepMinValue          StepField = "minValue"
	StepMaxValue          StepField = "maxValue"
	StepUnitOfMeasureCode StepField = "unitOfMeasureCode"
)

type ParameterField string

const (
	ParameterKey   ParameterField = "key"
	ParameterValue ParameterField = "value"
)

type ToolField string

const (
	ToolToolID   ToolField = "toolId"
	ToolQuantity ToolField = "quantity"
)

const (
	nsBillOfMaterial = "billOfMaterial"
	nsBillOfProcess  = "billOfProcess"
	nsAttribute      = "attribute"
	nsParameter      = "parameter"
	nsTool           = "tool"
)

// Material addresses a field of a method material, e.g. "quantity:<materialId>".
func Material(field MaterialField, materialID uuid.UUID) Key {
	return scoped(string(field), materialID)
}

// Operation addresses a field of a method operation, e.g. "setupTime:<operationId>".
func Operation(field OperationField, operationID uuid.UUID) Key {
	return scoped(string(field), operationID)
}

// BillOfMaterial toggles whether a material is kept in a make method.
func BillOfMaterial(makeMethodID, materialID uuid.UUID) Key {
	return nested(nsBillOfMaterial, makeMethodID, materialID.String())
}

// BillOfProcess toggles whether an operation is kept in a make method.
func BillOfProcess(makeMethodID, operationID uuid.UUID) Key {
	return nested(nsBillOfProcess, makeMethodID, operationID.String())
}

// Step addresses "attribute:<stepId>:<field>:<operationId>".
func Step(stepID uuid.UUID, field StepField, operationID uuid.UUID) Key {
	return deep(nsAttribute, stepID, string(field), operationID)
}

// Parameter addresses "parameter:<parameterId>:<field>:<operationId>".
func Parameter(parameterID uuid.UUID, field ParameterField, operationID uuid.UUID) Key {
	return deep(nsParameter, parameterID, string(field), operationID)
}

// Tool addresses "tool:<toolId>:<field>:<operationId>".
func Tool(toolRowID uuid.UUID, field ToolField, operationID uuid.UUID) Key {
	return deep(nsTool, toolRowID, string(field), operationID)
}
