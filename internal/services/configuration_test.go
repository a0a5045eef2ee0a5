package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	repotest "github.com/yungbote/methodgraph-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/fieldkey"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
)

func TestConfigurationService_Parameters(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	item := repotest.SeedItem(t, ctx, h.db, "P-800", types.ReplenishMake)

	t.Run("rejects non identifier keys", func(t *testing.T) {
		for _, key := range []string{"", "1st", "with space", "a-b"} {
			_, err := h.configuration.CreateParameter(ctx, CreateParameterRequest{ItemID: item.ID, Key: key, DataType: types.DataTypeNumeric})
			if !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("%q: want validation error, got %v", key, err)
			}
		}
	})

	t.Run("list parameters need options", func(t *testing.T) {
		_, err := h.configuration.CreateParameter(ctx, CreateParameterRequest{ItemID: item.ID, Key: "finish", DataType: types.DataTypeList})
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("want validation error, got %v", err)
		}
	})

	length, err := h.configuration.CreateParameter(ctx, CreateParameterRequest{ItemID: item.ID, Key: "length", DataType: types.DataTypeNumeric})
	if err != nil {
		t.Fatalf("create length: %v", err)
	}
	finish, err := h.configuration.CreateParameter(ctx, CreateParameterRequest{
		ItemID: item.ID, Key: "finish", Label: "Finish", DataType: types.DataTypeList, ListOptions: []string{"Raw", "Anodized"},
	})
	if err != nil {
		t.Fatalf("create finish: %v", err)
	}
	if length.Label != "length" || finish.SortOrder != length.SortOrder+1 {
		t.Fatalf("label/sort order: %+v %+v", length, finish)
	}
	if length.GroupID == nil || finish.GroupID == nil || *length.GroupID != *finish.GroupID {
		t.Fatalf("both should land in the ungrouped group")
	}

	if _, err := h.configuration.CreateParameter(ctx, CreateParameterRequest{ItemID: item.ID, Key: "length", DataType: types.DataTypeNumeric}); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("duplicate key: want conflict, got %v", err)
	}
	if _, err := h.configuration.CreateParameter(ctx, CreateParameterRequest{ItemID: uuid.New(), Key: "width", DataType: types.DataTypeNumeric}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing item: want not found, got %v", err)
	}

	if err := h.configuration.DeleteParameter(ctx, finish.ID); err != nil {
		t.Fatalf("DeleteParameter: %v", err)
	}
	if err := h.configuration.DeleteParameter(ctx, finish.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second delete: want not found, got %v", err)
	}
}

func TestConfigurationService_Groups(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	item := repotest.SeedItem(t, ctx, h.db, "P-801", types.ReplenishMake)

	if _, err := h.configuration.CreateGroup(ctx, item.ID, "ungrouped"); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("reserved name: want validation error, got %v", err)
	}
	dims, err := h.configuration.CreateGroup(ctx, item.ID, "Dimensions")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	looks, err := h.configuration.CreateGroup(ctx, item.ID, "Looks")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if looks.SortOrder != dims.SortOrder+1 {
		t.Fatalf("sort order %d after %d", looks.SortOrder, dims.SortOrder)
	}

	p, err := h.configuration.CreateParameter(ctx, CreateParameterRequest{ItemID: item.ID, Key: "length", DataType: types.DataTypeNumeric, GroupID: &dims.ID})
	if err != nil {
		t.Fatalf("CreateParameter: %v", err)
	}

	other := repotest.SeedItem(t, ctx, h.db, "P-802", types.ReplenishMake)
	if _, err := h.configuration.CreateParameter(ctx, CreateParameterRequest{ItemID: other.ID, Key: "length", DataType: types.DataTypeNumeric, GroupID: &dims.ID}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("foreign group: want validation error, got %v", err)
	}

	if err := h.configuration.DeleteGroup(ctx, dims.ID); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	params, err := h.configuration.ListParameters(dbctx.Context{Ctx: ctx}, item.ID)
	if err != nil {
		t.Fatalf("ListParameters: %v", err)
	}
	if len(params) != 1 || params[0].ID != p.ID || params[0].GroupID == nil || *params[0].GroupID == dims.ID {
		t.Fatalf("parameter not moved out of the deleted group: %+v", params)
	}

	groups, err := h.configuration.ListGroups(dbctx.Context{Ctx: ctx}, item.ID)
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	var ungrouped *types.ConfigurationParameterGroup
	for _, g := range groups {
		if g.ID == dims.ID {
			t.Fatalf("deleted group still listed")
		}
		if g.IsUngrouped {
			ungrouped = g
		}
	}
	if ungrouped == nil || ungrouped.ID != *params[0].GroupID {
		t.Fatalf("parameter should sit in the ungrouped group")
	}
	if err := h.configuration.DeleteGroup(ctx, ungrouped.ID); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("deleting ungrouped: want validation error, got %v", err)
	}
}

func TestConfigurationService_RulesAndResolve(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	item := repotest.SeedItem(t, ctx, h.db, "P-803", types.ReplenishMake)
	bolt := repotest.SeedItem(t, ctx, h.db, "B-803", types.ReplenishBuy)
	mm := repotest.SeedMakeMethod(t, ctx, h.db, item.ID, 1, types.MakeMethodActive)
	line := repotest.SeedMaterial(t, ctx, h.db, mm.ID, bolt.ID, 1, "1")
	if _, err := h.configuration.CreateParameter(ctx, CreateParameterRequest{ItemID: item.ID, Key: "length", DataType: types.DataTypeNumeric}); err != nil {
		t.Fatalf("CreateParameter: %v", err)
	}
	qty := fieldkey.Material(fieldkey.MaterialQuantity, line.ID).String()
	desc := fieldkey.Material(fieldkey.MaterialUnitOfMeasureCode, line.ID).String()

	cases := []struct {
		name  string
		field string
		code  string
	}{
		{"too many segments", "a:b:c:d:e", "1"},
		{"empty segment", "quantity:", "1"},
		{"empty code", qty, "  "},
		{"code does not compile", qty, "length *"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := h.configuration.UpsertRule(ctx, item.ID, tc.field, tc.code); !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}

	if _, err := h.configuration.UpsertRule(ctx, item.ID, qty, "length + 1"); err != nil {
		t.Fatalf("UpsertRule: %v", err)
	}
	// upserting the same field replaces the code
	if _, err := h.configuration.UpsertRule(ctx, item.ID, qty, "length * 2"); err != nil {
		t.Fatalf("UpsertRule again: %v", err)
	}
	rules, err := h.configuration.ListRules(dbctx.Context{Ctx: ctx}, item.ID)
	if err != nil {
		t.Fatalf("ListRules: %v", err)
	}
	if len(rules) != 1 || rules[0].Code != "length * 2" {
		t.Fatalf("rules: %+v", rules)
	}

	got, err := h.configuration.Resolve(ctx, ResolveRequest{
		ItemID:        item.ID,
		Configuration: map[string]any{"length": 21},
		Fields:        []string{qty, desc},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 2 || !got[0].Resolved || fmt.Sprint(got[0].Value) != "42" {
		t.Fatalf("quantity: %+v", got)
	}
	if got[1].Resolved || got[1].Field != desc {
		t.Fatalf("field without a rule must stay unresolved: %+v", got[1])
	}

	if _, err := h.configuration.Resolve(ctx, ResolveRequest{ItemID: item.ID, Configuration: map[string]any{"width": 1}, Fields: []string{qty}}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unknown parameter: want validation error, got %v", err)
	}

	if err := h.configuration.DeleteRule(ctx, item.ID, qty); err != nil {
		t.Fatalf("DeleteRule: %v", err)
	}
	if err := h.configuration.DeleteRule(ctx, item.ID, qty); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second delete: want not found, got %v", err)
	}
}

type failingParameters struct {
	repos.ConfigurationParameterRepo
	err error
}

func (f failingParameters) Create(dbctx.Context, *types.ConfigurationParameter) error { return f.err }

func TestConfigurationService_CreateParameterErrorCodes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	item := repotest.SeedItem(t, ctx, h.db, "P-801", types.ReplenishMake)

	cases := []struct {
		name     string
		err      error
		conflict bool
	}{
		{name: "postgres unique violation", err: &pgconn.PgError{Code: "23505"}, conflict: true},
		{name: "sqlite unique constraint", err: errors.New("UNIQUE constraint failed: configuration_parameter.item_id, configuration_parameter.key"), conflict: true},
		{name: "message mentioning unique", err: errors.New(`column "unique_key" does not exist`)},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewConfigurationService(h.db, h.log, h.set.Items, h.set.ParameterGroups,
				failingParameters{ConfigurationParameterRepo: h.set.Parameters, err: tc.err}, h.set.Rules, nil)
			_, err := svc.CreateParameter(ctx, CreateParameterRequest{ItemID: item.ID, Key: "length", DataType: types.DataTypeNumeric})
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got := domainagg.IsCode(err, domainagg.CodeConflict); got != tc.conflict {
				t.Fatalf("conflict=%v want %v: %v", got, tc.conflict, err)
			}
		})
	}
}
