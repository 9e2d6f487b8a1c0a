package gridedit

import "strings"

// Column describes one field of the dataset. Columns are supplied once per
// dataset load and are not modified afterwards.
type Column struct {
	Name       string       // canonical key
	Label      string       // display label
	TypeHint   string       // hint the data source reported
	Type       SemanticType // classified from TypeHint unless set explicitly
	Identifier bool         // primary/id field
	Computed   bool         // calculated or virtual attribute
	ShadowOf   string       // name of the reference column whose label this field displays
	NoUpdate   bool         // server declared the field not valid for update
}

// DisplayName returns the label, falling back to the canonical name.
func (c Column) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// Row is one record of the dataset. Values hold the current typed value per
// column; Raw optionally holds the pre-formatting value reported by the source.
type Row struct {
	ID       string
	Values   map[string]Value
	Raw      map[string]any
	ReadOnly bool // the whole record is locked (e.g. inactive)
}

// NewRow creates a Row with the given id and values.
func NewRow(id string, values map[string]Value) Row {
	if values == nil {
		values = make(map[string]Value)
	}
	return Row{ID: id, Values: values}
}

// Get returns the value for a column, or Null if absent.
func (r *Row) Get(column string) Value {
	return r.Values[column]
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	out := Row{ID: r.ID, ReadOnly: r.ReadOnly, Values: make(map[string]Value, len(r.Values))}
	for k, v := range r.Values {
		out.Values[k] = v
	}
	if r.Raw != nil {
		out.Raw = make(map[string]any, len(r.Raw))
		for k, v := range r.Raw {
			out.Raw[k] = v
		}
	}
	return out
}

// Dataset is what the data source hands over at load time.
type Dataset struct {
	Columns []Column
	Rows    []Row
}

// Column returns the column with the given canonical name.
func (ds *Dataset) Column(name string) (Column, bool) {
	for _, c := range ds.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// classifyColumns fills Type from TypeHint where unset and infers ShadowOf
// for "<lookup>name" fields.
func classifyColumns(cols []Column) []Column {
	out := make([]Column, len(cols))
	copy(out, cols)
	lookups := make(map[string]bool)
	for i := range out {
		if out[i].Type == TypeUnknown && out[i].TypeHint != "" {
			out[i].Type = Classify(out[i].TypeHint)
		}
		if out[i].Type == TypeLookup {
			lookups[strings.ToLower(out[i].Name)] = true
		}
	}
	for i := range out {
		if out[i].ShadowOf != "" || out[i].Type == TypeLookup {
			continue
		}
		name := strings.ToLower(out[i].Name)
		if base, ok := strings.CutSuffix(name, "name"); ok && lookups[base] {
			out[i].ShadowOf = lookupName(out, base)
		}
	}
	return out
}

func lookupName(cols []Column, lower string) string {
	for _, c := range cols {
		if strings.ToLower(c.Name) == lower {
			return c.Name
		}
	}
	return lower
}
