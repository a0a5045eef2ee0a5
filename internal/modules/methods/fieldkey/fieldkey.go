// Package fieldkey builds and parses the addresses configuration rules are
// stored under.
//
//	simple  fieldName
//	scoped  fieldName:ownerId
//	nested  namespace:ownerId:fieldName
//	deep    namespace:ownerId:fieldName:scopeId
//
// Segments are never empty and never contain the separator, so distinct
// segment tuples always produce distinct keys.
package fieldkey

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const sep = ":"

type Shape int

const (
	Simple Shape = iota + 1
	Scoped
	Nested
	Deep
)

func (s Shape) String() string {
	switch s {
	case Simple:
		return "simple"
	case Scoped:
		return "scoped"
	case Nested:
		return "nested"
	case Deep:
		return "deep"
	default:
		return "invalid"
	}
}

// Key is a parsed field address. The zero value is invalid.
type Key struct {
	shape     Shape
	namespace string
	owner     string
	field     string
	scope     string
}

func (k Key) Shape() Shape      { return k.shape }
func (k Key) Namespace() string { return k.namespace }
func (k Key) Owner() string     { return k.owner }
func (k Key) Field() string     { return k.field }
func (k Key) Scope() string     { return k.scope }
func (k Key) IsZero() bool      { return k.shape == 0 }

func (k Key) MarshalText() ([]byte, error) {
	if k.IsZero() {
		return nil, fmt.Errorf("fieldkey: zero key")
	}
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Key) String() string {
	switch k.shape {
	case Simple:
		return k.field
	case Scoped:
		return k.field + sep + k.owner
	case Nested:
		return k.namespace + sep + k.owner + sep + k.field
	case Deep:
		return k.namespace + sep + k.owner + sep + k.field + sep + k.scope
	default:
		return ""
	}
}

func checkSegments(segs ...string) error {
	for _, s := range segs {
		if s == "" {
			return fmt.Errorf("fieldkey: empty segment")
		}
		if strings.Contains(s, sep) {
			return fmt.Errorf("fieldkey: segment %q contains %q", s, sep)
		}
		if strings.TrimSpace(s) != s {
			return fmt.Errorf("fieldkey: segment %q has surrounding whitespace", s)
		}
	}
	return nil
}

func NewSimple(field string) (Key, error) {
	if err := checkSegments(field); err != nil {
		return Key{}, err
	}
	return Key{shape: Simple, field: field}, nil
}

func NewScoped(field, owner string) (Key, error) {
	if err := checkSegments(field, owner); err != nil {
		return Key{}, err
	}
	return Key{shape: Scoped, field: field, owner: owner}, nil
}

func NewNested(namespace, owner, field string) (Key, error) {
	if err := checkSegments(namespace, owner, field); err != nil {
		return Key{}, err
	}
	return Key{shape: Nested, namespace: namespace, owner: owner, field: field}, nil
}

func NewDeep(namespace, owner, field, scope string) (Key, error) {
	if err := checkSegments(namespace, owner, field, scope); err != nil {
		return Key{}, err
	}
	return Key{shape: Deep, namespace: namespace, owner: owner, field: field, scope: scope}, nil
}

// Parse validates a stored key.
func Parse(raw string) (Key, error) {
	parts := strings.Split(raw, sep)
	switch len(parts) {
	case 1:
		return NewSimple(parts[0])
	case 2:
		return NewScoped(parts[0], parts[1])
	case 3:
		return NewNested(parts[0], parts[1], parts[2])
	case 4:
		return NewDeep(parts[0], parts[1], parts[2], parts[3])
	default:
		return Key{}, fmt.Errorf("fieldkey: %q has %d segments", raw, len(parts))
	}
}

// The builders below take uuids, which never contain the separator, so they
// cannot fail.

func scoped(field string, owner uuid.UUID) Key {
	return Key{shape: Scoped, field: field, owner: owner.String()}
}

func nested(namespace string, owner uuid.UUID, field string) Key {
	return Key{shape: Nested, namespace: namespace, owner: owner.String(), field: field}
}

func deep(namespace string, owner uuid.UUID, field string, scope uuid.UUID) Key {
	return Key{shape: Deep, namespace: namespace, owner: owner.String(), field: field, scope: scope.String()}
}
