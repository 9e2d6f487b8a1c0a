package gridedit

import "strings"

// Reasons reported by EditPolicy.Check when a field is not editable.
const (
	ReasonReadOnlyConfig = "configured as read-only"
	ReasonPrimaryField   = "primary field"
	ReasonNotUpdatable   = "not valid for update"
	ReasonComputed       = "computed field"
	ReasonNameShadow     = "display name of reference field"
	ReasonReference      = "reference field"
	ReasonIdentifier     = "identifier field"
	ReasonReadOnlyRow    = "record is read-only"
)

// Editability is the outcome of an editability check.
type Editability struct {
	Editable bool
	Reason   string // empty when Editable
}

// EditPolicy decides whether a field may be edited. Rules are evaluated in a
// fixed order and the first match wins.
type EditPolicy struct {
	readOnly map[string]struct{}
}

// NewEditPolicy creates a policy with the given read-only field names
// (matched case-insensitively).
func NewEditPolicy(readOnlyFields []string) *EditPolicy {
	p := &EditPolicy{readOnly: make(map[string]struct{}, len(readOnlyFields))}
	for _, f := range readOnlyFields {
		p.readOnly[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
	}
	return p
}

// Check evaluates the editability rules for a column.
func (p *EditPolicy) Check(col Column) Editability {
	if _, ok := p.readOnly[strings.ToLower(col.Name)]; ok {
		return Editability{Reason: ReasonReadOnlyConfig}
	}
	if col.Identifier {
		return Editability{Reason: ReasonPrimaryField}
	}
	if col.NoUpdate {
		return Editability{Reason: ReasonNotUpdatable}
	}
	if col.Computed {
		return Editability{Reason: ReasonComputed}
	}
	if col.ShadowOf != "" {
		return Editability{Reason: ReasonNameShadow}
	}
	if !IsEditable(col.Type) {
		if col.Type == TypeLookup {
			return Editability{Reason: ReasonReference}
		}
		return Editability{Reason: ReasonIdentifier}
	}
	return Editability{Editable: true}
}

// CheckCell combines the row lock with the field rules.
func (p *EditPolicy) CheckCell(row *Row, col Column) Editability {
	if e := p.Check(col); !e.Editable {
		return e
	}
	if row != nil && row.ReadOnly {
		return Editability{Reason: ReasonReadOnlyRow}
	}
	return Editability{Editable: true}
}
