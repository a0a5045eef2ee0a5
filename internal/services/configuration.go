package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/methodgraph-backend/internal/data/aggregates"
	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	types "github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/configrule"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/fieldkey"
	"github.com/yungbote/methodgraph-backend/internal/platform/dbctx"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

// Rule code references parameters by key, so keys must be identifiers.
var parameterKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type ConfigurationService interface {
	ListGroups(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationParameterGroup, error)
	CreateGroup(ctx context.Context, itemID uuid.UUID, name string) (*types.ConfigurationParameterGroup, error)
	// DeleteGroup moves the group's parameters to the ungrouped group first.
	DeleteGroup(ctx context.Context, groupID uuid.UUID) error

	ListParameters(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationParameter, error)
	CreateParameter(ctx context.Context, in CreateParameterRequest) (*types.ConfigurationParameter, error)
	DeleteParameter(ctx context.Context, parameterID uuid.UUID) error

	ListRules(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationRule, error)
	UpsertRule(ctx context.Context, itemID uuid.UUID, field, code string) (*types.ConfigurationRule, error)
	DeleteRule(ctx context.Context, itemID uuid.UUID, field string) error

	// Resolve evaluates the item's rules for fields under configuration.
	Resolve(ctx context.Context, in ResolveRequest) ([]ResolvedField, error)
}

type CreateParameterRequest struct {
	ItemID      uuid.UUID               `json:"item_id"`
	Key         string                  `json:"key"`
	Label       string                  `json:"label"`
	DataType    types.ParameterDataType `json:"data_type"`
	ListOptions []string                `json:"list_options,omitempty"`
	GroupID     *uuid.UUID              `json:"configuration_parameter_group_id,omitempty"`
}

type ResolveRequest struct {
	ItemID        uuid.UUID      `json:"item_id"`
	Configuration map[string]any `json:"configuration"`
	Fields        []string       `json:"fields"`
}

type ResolvedField struct {
	Field    string `json:"field"`
	Value    any    `json:"value,omitempty"`
	Resolved bool   `json:"resolved"`
}

// ruleCompiler is implemented by evaluators that can check code up front.
type ruleCompiler interface {
	Compile(code string) error
}

type configurationService struct {
	db         *gorm.DB
	log        *logger.Logger
	items      repos.ItemRepo
	groups     repos.ConfigurationParameterGroupRepo
	parameters repos.ConfigurationParameterRepo
	rules      repos.ConfigurationRuleRepo
	evaluator  configrule.Evaluator
}

func NewConfigurationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	items repos.ItemRepo,
	groups repos.ConfigurationParameterGroupRepo,
	parameters repos.ConfigurationParameterRepo,
	rules repos.ConfigurationRuleRepo,
	evaluator configrule.Evaluator,
) ConfigurationService {
	return &configurationService{
		db:         db,
		log:        baseLog.With("service", "ConfigurationService"),
		items:      items,
		groups:     groups,
		parameters: parameters,
		rules:      rules,
		evaluator:  evaluator,
	}
}

func (s *configurationService) inTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

func (s *configurationService) requireItem(dbc dbctx.Context, op string, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing item_id", nil)
	}
	item, err := s.items.GetByID(dbc, itemID)
	if err != nil {
		return fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("item not found: %s", itemID), nil)
	}
	return nil
}

func (s *configurationService) ListGroups(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationParameterGroup, error) {
	return s.groups.ListByItem(dbc, itemID)
}

func (s *configurationService) CreateGroup(ctx context.Context, itemID uuid.UUID, name string) (*types.ConfigurationParameterGroup, error) {
	const op = "Manufacturing.Configuration.CreateGroup"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "group name is required", nil)
	}
	if strings.EqualFold(name, types.UngroupedGroupName) {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("%q is reserved", types.UngroupedGroupName), nil)
	}
	var out *types.ConfigurationParameterGroup
	err := s.inTx(ctx, func(dbc dbctx.Context) error {
		if err := s.requireItem(dbc, op, itemID); err != nil {
			return err
		}
		max, err := s.groups.MaxSortOrder(dbc, itemID)
		if err != nil {
			return err
		}
		g := &types.ConfigurationParameterGroup{ItemID: itemID, Name: name, SortOrder: max + 1}
		if err := s.groups.Create(dbc, g); err != nil {
			return err
		}
		out = g
		return nil
	})
	return out, err
}

func (s *configurationService) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	const op = "Manufacturing.Configuration.DeleteGroup"
	return s.inTx(ctx, func(dbc dbctx.Context) error {
		g, err := s.groups.GetByID(dbc, groupID)
		if err != nil {
			return err
		}
		if g == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("parameter group not found: %s", groupID), nil)
		}
		if g.IsUngrouped {
			return domainagg.NewError(domainagg.CodeValidation, op, "the ungrouped group cannot be deleted", nil)
		}
		ungrouped, err := s.groups.FindOrCreateUngrouped(dbc, g.ItemID)
		if err != nil {
			return err
		}
		if err := s.parameters.MoveToGroup(dbc, g.ID, ungrouped.ID); err != nil {
			return err
		}
		return s.groups.Delete(dbc, g.ID)
	})
}

func (s *configurationService) ListParameters(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationParameter, error) {
	return s.parameters.ListByItem(dbc, itemID)
}

func (s *configurationService) CreateParameter(ctx context.Context, in CreateParameterRequest) (*types.ConfigurationParameter, error) {
	const op = "Manufacturing.Configuration.CreateParameter"
	key := strings.TrimSpace(in.Key)
	if !parameterKeyPattern.MatchString(key) {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("parameter key %q must be an identifier", in.Key), nil)
	}
	if !in.DataType.Valid() {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown data type %q", in.DataType), nil)
	}
	var options datatypes.JSON
	if in.DataType == types.DataTypeList {
		if len(in.ListOptions) == 0 {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, "list parameters need options", nil)
		}
		raw, err := json.Marshal(in.ListOptions)
		if err != nil {
			return nil, err
		}
		options = datatypes.JSON(raw)
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = key
	}

	var out *types.ConfigurationParameter
	err := s.inTx(ctx, func(dbc dbctx.Context) error {
		if err := s.requireItem(dbc, op, in.ItemID); err != nil {
			return err
		}
		var groupID uuid.UUID
		if in.GroupID != nil {
			g, err := s.groups.GetByID(dbc, *in.GroupID)
			if err != nil {
				return err
			}
			if g == nil || g.ItemID != in.ItemID {
				return domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("parameter group %s does not belong to item %s", *in.GroupID, in.ItemID), nil)
			}
			groupID = g.ID
		} else {
			g, err := s.groups.FindOrCreateUngrouped(dbc, in.ItemID)
			if err != nil {
				return err
			}
			groupID = g.ID
		}
		max, err := s.parameters.MaxSortOrder(dbc, in.ItemID)
		if err != nil {
			return err
		}
		p := &types.ConfigurationParameter{
			ItemID:      in.ItemID,
			Key:         key,
			Label:       label,
			DataType:    in.DataType,
			ListOptions: options,
			GroupID:     &groupID,
			SortOrder:   max + 1,
		}
		if err := s.parameters.Create(dbc, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		if domainagg.CodeOf(err) == "" {
			err = aggregates.MapError(op, err)
		}
		if domainagg.IsCode(err, domainagg.CodeConflict) {
			return nil, domainagg.NewError(domainagg.CodeConflict, op, fmt.Sprintf("parameter %q already exists", key), err)
		}
		return nil, err
	}
	return out, nil
}

func (s *configurationService) DeleteParameter(ctx context.Context, parameterID uuid.UUID) error {
	const op = "Manufacturing.Configuration.DeleteParameter"
	p, err := s.parameters.GetByID(dbctx.Context{Ctx: ctx}, parameterID)
	if err != nil {
		return err
	}
	if p == nil {
		return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("parameter not found: %s", parameterID), nil)
	}
	return s.parameters.Delete(dbctx.Context{Ctx: ctx}, parameterID)
}

func (s *configurationService) ListRules(dbc dbctx.Context, itemID uuid.UUID) ([]*types.ConfigurationRule, error) {
	return s.rules.ListByItem(dbc, itemID)
}

func (s *configurationService) UpsertRule(ctx context.Context, itemID uuid.UUID, field, code string) (*types.ConfigurationRule, error) {
	const op = "Manufacturing.Configuration.UpsertRule"
	key, err := fieldkey.Parse(field)
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "rule code is required", nil)
	}
	if c, ok := s.evaluator.(ruleCompiler); ok {
		if err := c.Compile(code); err != nil {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("rule does not compile: %v", err), err)
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	if err := s.requireItem(dbc, op, itemID); err != nil {
		return nil, err
	}
	rule := &types.ConfigurationRule{ItemID: itemID, Field: key.String(), Code: code}
	if err := s.rules.Upsert(dbc, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *configurationService) DeleteRule(ctx context.Context, itemID uuid.UUID, field string) error {
	const op = "Manufacturing.Configuration.DeleteRule"
	ok, err := s.rules.Delete(dbctx.Context{Ctx: ctx}, itemID, strings.TrimSpace(field))
	if err != nil {
		return err
	}
	if !ok {
		return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("no rule for %q", field), nil)
	}
	return nil
}

func (s *configurationService) Resolve(ctx context.Context, in ResolveRequest) ([]ResolvedField, error) {
	const op = "Manufacturing.Configuration.ResolveFields"
	keys := make([]fieldkey.Key, 0, len(in.Fields))
	for _, f := range in.Fields {
		k, err := fieldkey.Parse(f)
		if err != nil {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
		}
		keys = append(keys, k)
	}
	if in.ItemID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing item_id", nil)
	}

	var (
		rules  []*types.ConfigurationRule
		params []*types.ConfigurationParameter
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rules, err = s.rules.ListByItem(dbctx.Context{Ctx: gctx}, in.ItemID)
		return err
	})
	g.Go(func() error {
		var err error
		params, err = s.parameters.ListByItem(dbctx.Context{Ctx: gctx}, in.ItemID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolver, err := configrule.NewResolver(configrule.Input{
		ItemID:        in.ItemID,
		Rules:         rules,
		Parameters:    params,
		Configuration: in.Configuration,
		Evaluator:     s.evaluator,
	})
	if err != nil {
		return nil, err
	}
	out := make([]ResolvedField, 0, len(keys))
	for _, k := range keys {
		v, ok, err := resolver.Resolve(ctx, k)
		if err != nil {
			return nil, err
		}
		out = append(out, ResolvedField{Field: k.String(), Value: v, Resolved: ok})
	}
	return out, nil
}
