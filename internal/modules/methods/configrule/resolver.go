// Package configrule resolves configured method fields from per-item rules.
package configrule

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	domainagg "github.com/yungbote/methodgraph-backend/internal/domain/aggregates"
	"github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/fieldkey"
)

const op = "Manufacturing.Configuration.Resolve"

type Input struct {
	ItemID        uuid.UUID
	Rules         []*manufacturing.ConfigurationRule
	Parameters    []*manufacturing.ConfigurationParameter
	Configuration map[string]any
	Evaluator     Evaluator
}

// Resolver answers "what value does this field take under this
// configuration". A nil *Resolver resolves nothing, so callers copy every
// field verbatim.
type Resolver struct {
	itemID uuid.UUID
	rules  map[string]string
	env    map[string]any
	eval   Evaluator
}

// NewResolver coerces the configuration by parameter type. It returns a nil
// resolver when no configuration was supplied.
func NewResolver(in Input) (*Resolver, error) {
	if len(in.Configuration) == 0 {
		return nil, nil
	}
	if in.Evaluator == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "no rule evaluator configured", nil)
	}

	byKey := make(map[string]*manufacturing.ConfigurationParameter, len(in.Parameters))
	for _, p := range in.Parameters {
		if p != nil {
			byKey[p.Key] = p
		}
	}

	params := make(map[string]any, len(byKey))
	for key, raw := range in.Configuration {
		p, ok := byKey[key]
		if !ok {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown configuration parameter %q", key), nil)
		}
		v, err := coerceParam(p, raw)
		if err != nil {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("parameter %q: %v", key, err), err)
		}
		params[key] = v
	}
	for key, p := range byKey {
		if _, ok := params[key]; !ok {
			params[key] = zeroValue(p.DataType)
		}
	}

	env := make(map[string]any, len(params)+1)
	for k, v := range params {
		env[k] = v
	}
	env["params"] = params

	rules := make(map[string]string, len(in.Rules))
	for _, r := range in.Rules {
		if r != nil && strings.TrimSpace(r.Code) != "" {
			rules[r.Field] = r.Code
		}
	}
	return &Resolver{itemID: in.ItemID, rules: rules, env: env, eval: in.Evaluator}, nil
}

// Resolve evaluates the rule bound to key. ok is false when no rule exists.
func (r *Resolver) Resolve(ctx context.Context, key fieldkey.Key) (any, bool, error) {
	if r == nil {
		return nil, false, nil
	}
	code, ok := r.rules[key.String()]
	if !ok {
		return nil, false, nil
	}
	v, err := r.eval.Evaluate(ctx, code, r.env)
	if err != nil {
		if ctx.Err() != nil {
			return nil, true, ctx.Err()
		}
		return nil, true, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("rule %s of item %s: %v", key, r.itemID, err), err)
	}
	return v, true, nil
}

func (r *Resolver) typeErr(key fieldkey.Key, want string, err error) error {
	return domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("rule %s returned a non-%s value: %v", key, want, err), err)
}

func (r *Resolver) Decimal(ctx context.Context, key fieldkey.Key, literal decimal.Decimal) (decimal.Decimal, error) {
	v, ok, err := r.Resolve(ctx, key)
	if err != nil || !ok {
		return literal, err
	}
	d, err := toDecimal(v)
	if err != nil {
		return literal, r.typeErr(key, "numeric", err)
	}
	return d, nil
}

func (r *Resolver) NullDecimal(ctx context.Context, key fieldkey.Key, literal decimal.NullDecimal) (decimal.NullDecimal, error) {
	v, ok, err := r.Resolve(ctx, key)
	if err != nil || !ok {
		return literal, err
	}
	if v == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := toDecimal(v)
	if err != nil {
		return literal, r.typeErr(key, "numeric", err)
	}
	return decimal.NewNullDecimal(d), nil
}

func (r *Resolver) String(ctx context.Context, key fieldkey.Key, literal string) (string, error) {
	v, ok, err := r.Resolve(ctx, key)
	if err != nil || !ok {
		return literal, err
	}
	s, err := toText(v)
	if err != nil {
		return literal, r.typeErr(key, "text", err)
	}
	return s, nil
}

func (r *Resolver) Bool(ctx context.Context, key fieldkey.Key, literal bool) (bool, error) {
	v, ok, err := r.Resolve(ctx, key)
	if err != nil || !ok {
		return literal, err
	}
	b, err := toBool(v)
	if err != nil {
		return literal, r.typeErr(key, "boolean", err)
	}
	return b, nil
}

func (r *Resolver) UUID(ctx context.Context, key fieldkey.Key, literal uuid.UUID) (uuid.UUID, error) {
	v, ok, err := r.Resolve(ctx, key)
	if err != nil || !ok {
		return literal, err
	}
	id, err := toUUID(v)
	if err != nil {
		return literal, r.typeErr(key, "id", err)
	}
	return id, nil
}

// OptionalUUID treats a nil or empty rule result as "unset".
func (r *Resolver) OptionalUUID(ctx context.Context, key fieldkey.Key, literal *uuid.UUID) (*uuid.UUID, error) {
	v, ok, err := r.Resolve(ctx, key)
	if err != nil || !ok {
		return literal, err
	}
	if v == nil || v == "" {
		return nil, nil
	}
	id, err := toUUID(v)
	if err != nil {
		return literal, r.typeErr(key, "id", err)
	}
	return &id, nil
}
