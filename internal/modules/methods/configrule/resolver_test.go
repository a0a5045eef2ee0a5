package configrule

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	"github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/fieldkey"
	"gorm.io/datatypes"
)

func params() []*manufacturing.ConfigurationParameter {
	opts, _ := json.Marshal([]string{"steel", "aluminum"})
	return []*manufacturing.ConfigurationParameter{
		{Key: "length", DataType: manufacturing.DataTypeNumeric},
		{Key: "finish", DataType: manufacturing.DataTypeList, ListOptions: datatypes.JSON(opts)},
		{Key: "rush", DataType: manufacturing.DataTypeBoolean},
		{Key: "note", DataType: manufacturing.DataTypeText},
	}
}

func TestNilResolverCopiesVerbatim(t *testing.T) {
	r, err := NewResolver(Input{Parameters: params()})
	if err != nil || r != nil {
		t.Fatalf("no configuration should give nil resolver, got %v %v", r, err)
	}
	key := fieldkey.Material(fieldkey.MaterialQuantity, uuid.New())
	got, err := r.Decimal(context.Background(), key, decimal.NewFromInt(3))
	if err != nil || !got.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("verbatim copy: got=%s err=%v", got, err)
	}
}

func TestRuleOverridesLiteral(t *testing.T) {
	mat := uuid.New()
	key := fieldkey.Material(fieldkey.MaterialQuantity, mat)
	r, err := NewResolver(Input{
		ItemID:        uuid.New(),
		Rules:         []*manufacturing.ConfigurationRule{{Field: key.String(), Code: "params.length * 2"}},
		Parameters:    params(),
		Configuration: map[string]any{"length": 7},
		Evaluator:     NewExprEvaluator(0),
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	got, err := r.Decimal(context.Background(), key, decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("Decimal: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(14)) {
		t.Fatalf("want=14 got=%s", got)
	}

	other := fieldkey.Material(fieldkey.MaterialQuantity, uuid.New())
	got, err = r.Decimal(context.Background(), other, decimal.NewFromInt(5))
	if err != nil || !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("field without rule should keep literal, got=%s err=%v", got, err)
	}
}

func TestTopLevelParamsAndZeroValues(t *testing.T) {
	op := uuid.New()
	descKey := fieldkey.Operation(fieldkey.OperationDescription, op)
	keepKey := fieldkey.BillOfProcess(uuid.New(), op)
	qtyKey := fieldkey.Material(fieldkey.MaterialQuantity, uuid.New())
	r, err := NewResolver(Input{
		Rules: []*manufacturing.ConfigurationRule{
			{Field: qtyKey.String(), Code: "params.length + 3"},
			{Field: descKey.String(), Code: `finish == "steel" ? "Weld " + note : "Rivet"`},
			{Field: keepKey.String(), Code: "!rush"},
		},
		Parameters:    params(),
		Configuration: map[string]any{"finish": "steel"},
		Evaluator:     NewExprEvaluator(0),
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	desc, err := r.String(context.Background(), descKey, "literal")
	if err != nil || desc != "Weld " {
		t.Fatalf("description: got=%q err=%v", desc, err)
	}
	keep, err := r.Bool(context.Background(), keepKey, false)
	if err != nil || !keep {
		t.Fatalf("rush defaults to false so the operation is kept: got=%v err=%v", keep, err)
	}
	qty, err := r.Decimal(context.Background(), qtyKey, decimal.NewFromInt(1))
	if err != nil || !qty.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("missing numeric param should be zero: got=%s err=%v", qty, err)
	}
}

func TestConfigurationValidation(t *testing.T) {
	cases := map[string]map[string]any{
		"unknown key":     {"width": 1},
		"bad number":      {"length": "long"},
		"bad list option": {"finish": "gold"},
		"bad boolean":     {"rush": 3},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewResolver(Input{Parameters: params(), Configuration: cfg, Evaluator: NewExprEvaluator(0)})
			if !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRuleFailuresAreValidationErrors(t *testing.T) {
	key := fieldkey.Operation(fieldkey.OperationSetupTime, uuid.New())
	r, err := NewResolver(Input{
		Rules:         []*manufacturing.ConfigurationRule{{Field: key.String(), Code: "whatever"}},
		Parameters:    params(),
		Configuration: map[string]any{"length": 1},
		Evaluator: EvaluatorFunc(func(context.Context, string, map[string]any) (any, error) {
			return nil, errors.New("boom")
		}),
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if _, err := r.Decimal(context.Background(), key, decimal.Zero); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	r.eval = EvaluatorFunc(func(context.Context, string, map[string]any) (any, error) { return "abc", nil })
	if _, err := r.Decimal(context.Background(), key, decimal.Zero); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("non-numeric result should be rejected, got %v", err)
	}
}

func TestExprEvaluatorCompileError(t *testing.T) {
	e := NewExprEvaluator(1)
	if _, err := e.Evaluate(context.Background(), "1 +", nil); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := e.Evaluate(context.Background(), "", nil); err == nil {
		t.Fatalf("expected empty rule error")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Evaluate(ctx, "1", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestExprEvaluatorCompile(t *testing.T) {
	e := NewExprEvaluator(0)
	if err := e.Compile("length > 10 ? 2 : 1"); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := e.Compile("length >"); err == nil {
		t.Fatalf("expected syntax error")
	}
	if err := e.Compile("   "); err == nil {
		t.Fatalf("expected error for empty rule")
	}
}
