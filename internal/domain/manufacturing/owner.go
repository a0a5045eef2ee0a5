package manufacturing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// OwnerKind names the kinds of record that can own a method graph.
type OwnerKind string

const (
	OwnerItem            OwnerKind = "item"
	OwnerMakeMethod      OwnerKind = "makeMethod"
	OwnerQuoteLine       OwnerKind = "quoteLine"
	OwnerQuoteMakeMethod OwnerKind = "quoteMakeMethod"
)

// Longest names first so "quoteMakeMethod" is not read as "quote...".
var ownerKinds = []OwnerKind{OwnerQuoteMakeMethod, OwnerMakeMethod, OwnerQuoteLine, OwnerItem}

func (k OwnerKind) Valid() bool {
	switch k {
	case OwnerItem, OwnerMakeMethod, OwnerQuoteLine, OwnerQuoteMakeMethod:
		return true
	}
	return false
}

// QuoteScoped reports whether graphs written to this kind own their
// sub-methods instead of referencing the component items' methods.
func (k OwnerKind) QuoteScoped() bool {
	return k == OwnerQuoteLine || k == OwnerQuoteMakeMethod
}

// Owner addresses one method graph root.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

func (o Owner) String() string { return string(o.Kind) + ":" + o.ID.String() }

// ParseTransfer splits a transfer name such as "itemToQuoteLine" or
// "quoteMakeMethodToItem" into its source and target kinds.
func ParseTransfer(name string) (OwnerKind, OwnerKind, error) {
	name = strings.TrimSpace(name)
	for _, src := range ownerKinds {
		if !strings.HasPrefix(name, string(src)+"To") {
			continue
		}
		rest := strings.TrimPrefix(name, string(src)+"To")
		if rest == "" {
			break
		}
		dst := OwnerKind(strings.ToLower(rest[:1]) + rest[1:])
		if dst.Valid() {
			return src, dst, nil
		}
	}
	return "", "", fmt.Errorf("unknown method transfer %q", name)
}

// TransferName is the inverse of ParseTransfer.
func TransferName(src, dst OwnerKind) string {
	d := string(dst)
	if d == "" {
		return string(src) + "To"
	}
	return string(src) + "To" + strings.ToUpper(d[:1]) + d[1:]
}
