package configrule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yungbote/methodgraph-backend/internal/domain/manufacturing"
)

// coerceParam converts a supplied configuration value to the parameter's type.
func coerceParam(p *manufacturing.ConfigurationParameter, v any) (any, error) {
	switch p.DataType {
	case manufacturing.DataTypeNumeric:
		d, err := toDecimal(v)
		if err != nil {
			return nil, err
		}
		f, _ := d.Float64()
		return f, nil
	case manufacturing.DataTypeBoolean:
		return toBool(v)
	case manufacturing.DataTypeText, manufacturing.DataTypeMaterial:
		return toText(v)
	case manufacturing.DataTypeList:
		s, err := toText(v)
		if err != nil {
			return nil, err
		}
		for _, opt := range p.Options() {
			if opt == s {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of %v", s, p.Options())
	case manufacturing.DataTypeDate:
		return toDate(v)
	default:
		return nil, fmt.Errorf("unsupported data type %q", p.DataType)
	}
}

func zeroValue(t manufacturing.ParameterDataType) any {
	switch t {
	case manufacturing.DataTypeNumeric:
		return float64(0)
	case manufacturing.DataTypeBoolean:
		return false
	case manufacturing.DataTypeDate:
		return time.Time{}
	default:
		return ""
	}
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case float32:
		return decimal.NewFromFloat32(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int32:
		return decimal.NewFromInt32(t), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case json.Number:
		return decimal.NewFromString(t.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(t))
	case nil:
		return decimal.Decimal{}, fmt.Errorf("nil is not a number")
	default:
		return decimal.Decimal{}, fmt.Errorf("%T is not a number", v)
	}
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(t))
	default:
		return false, fmt.Errorf("%T is not a boolean", v)
	}
}

func toText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case uuid.UUID:
		return t.String(), nil
	case fmt.Stringer:
		return t.String(), nil
	case float64, float32, int, int32, int64, bool, json.Number:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("%T is not text", v)
	}
}

func toUUID(v any) (uuid.UUID, error) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case string:
		return uuid.Parse(strings.TrimSpace(t))
	default:
		return uuid.Nil, fmt.Errorf("%T is not an id", v)
	}
}

func toDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts.UTC(), nil
		}
		return time.Parse(time.DateOnly, s)
	default:
		return time.Time{}, fmt.Errorf("%T is not a date", v)
	}
}
