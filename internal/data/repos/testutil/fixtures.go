package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"gorm.io/gorm"
)

func SeedItem(tb testing.TB, ctx context.Context, tx *gorm.DB, readableID string, sys types.ReplenishmentSystem) *types.Item {
	tb.Helper()
	it := &types.Item{
		ID:                  uuid.New(),
		ReadableID:          readableID,
		Revision:            "0",
		Name:                readableID,
		Type:                types.ItemTypePart,
		ReplenishmentSystem: sys,
		DefaultMethodType:   types.MethodTypeMake,
		TrackingType:        types.TrackingInventory,
		UnitOfMeasureCode:   "EA",
		IsDefaultRevision:   true,
	}
	if sys == types.ReplenishBuy {
		it.DefaultMethodType = types.MethodTypeBuy
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed item: %v", err)
	}
	return it
}

func SeedMakeMethod(tb testing.TB, ctx context.Context, tx *gorm.DB, itemID uuid.UUID, version int, status types.MakeMethodStatus) *types.MakeMethod {
	tb.Helper()
	m := &types.MakeMethod{
		ID:      uuid.New(),
		ItemID:  itemID,
		Scope:   types.ScopeItem,
		Version: version,
		Status:  status,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed make method: %v", err)
	}
	return m
}

func SeedMaterial(tb testing.TB, ctx context.Context, tx *gorm.DB, makeMethodID, itemID uuid.UUID, order int, qty string) *types.MethodMaterial {
	tb.Helper()
	m := &types.MethodMaterial{
		ID:                uuid.New(),
		MakeMethodID:      makeMethodID,
		Order:             order,
		ItemID:            itemID,
		ItemType:          types.ItemTypePart,
		MethodType:        types.MethodTypeBuy,
		Quantity:          decimal.RequireFromString(qty),
		UnitOfMeasureCode: "EA",
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed material: %v", err)
	}
	return m
}

// SeedMakeMaterial adds a Make line pointing at subMethodID.
func SeedMakeMaterial(tb testing.TB, ctx context.Context, tx *gorm.DB, makeMethodID, itemID, subMethodID uuid.UUID, order int) *types.MethodMaterial {
	tb.Helper()
	m := &types.MethodMaterial{
		ID:                   uuid.New(),
		MakeMethodID:         makeMethodID,
		Order:                order,
		ItemID:               itemID,
		ItemType:             types.ItemTypePart,
		MethodType:           types.MethodTypeMake,
		Quantity:             decimal.NewFromInt(1),
		UnitOfMeasureCode:    "EA",
		MaterialMakeMethodID: PtrUUID(subMethodID),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed make material: %v", err)
	}
	return m
}

// SeedOperation adds an Inside operation with one Measurement step, one
// parameter and one tool.
func SeedOperation(tb testing.TB, ctx context.Context, tx *gorm.DB, makeMethodID uuid.UUID, order int) *types.MethodOperation {
	tb.Helper()
	op := &types.MethodOperation{
		ID:             uuid.New(),
		MakeMethodID:   makeMethodID,
		Order:          order,
		OperationOrder: types.OperationAfterPrevious,
		OperationType:  types.OperationInside,
		Description:    "Cut",
		SetupTime:      decimal.NewFromInt(10),
		SetupUnit:      "Total Minutes",
		LaborTime:      decimal.RequireFromString("2.5"),
		LaborUnit:      "Minutes/Piece",
	}
	if err := tx.WithContext(ctx).Omit("Steps", "Parameters", "Tools").Create(op).Error; err != nil {
		tb.Fatalf("seed operation: %v", err)
	}
	step := &types.MethodOperationStep{
		OperationID: op.ID,
		Type:        types.StepMeasurement,
		Name:        "Length",
		MinValue:    decimal.NewNullDecimal(decimal.Zero),
		MaxValue:    decimal.NewNullDecimal(decimal.NewFromInt(10)),
		SortOrder:   1,
	}
	param := &types.MethodOperationParameter{OperationID: op.ID, Key: "rpm", Value: "1200", SortOrder: 1}
	tool := &types.MethodOperationTool{OperationID: op.ID, ToolID: uuid.New(), Quantity: decimal.NewFromInt(1), SortOrder: 1}
	for _, row := range []any{step, param, tool} {
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed operation child: %v", err)
		}
	}
	op.Steps = []types.MethodOperationStep{*step}
	op.Parameters = []types.MethodOperationParameter{*param}
	op.Tools = []types.MethodOperationTool{*tool}
	return op
}

func SeedQuoteLine(tb testing.TB, ctx context.Context, tx *gorm.DB, itemID uuid.UUID) *types.QuoteLine {
	tb.Helper()
	q := &types.Quote{ID: uuid.New(), QuoteReadableID: "Q-0001"}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quote: %v", err)
	}
	line := &types.QuoteLine{ID: uuid.New(), QuoteID: q.ID, ItemID: itemID, MethodType: types.MethodTypeMake}
	if err := tx.WithContext(ctx).Create(line).Error; err != nil {
		tb.Fatalf("seed quote line: %v", err)
	}
	return line
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
