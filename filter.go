package gridedit

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RowFilter selects the visible rows with an expr-lang expression evaluated
// against each row. Column names are variables; "id" is the row id, and a
// column named "id" takes precedence.
type RowFilter struct {
	source  string
	program *vm.Program
}

// NewRowFilter compiles a filter expression. An empty expression matches every row.
func NewRowFilter(expression string) (*RowFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return &RowFilter{}, nil
	}
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &RowFilter{source: expression, program: program}, nil
}

// RowFilterCache reuses compiled filter programs by expression. The zero
// value is ready to use and safe for concurrent use.
type RowFilterCache struct {
	programs sync.Map // expression string → *vm.Program
}

// Compile returns a RowFilter for expression, compiling it only the first time.
func (c *RowFilterCache) Compile(expression string) (*RowFilter, error) {
	expression = strings.TrimSpace(expression)
	if cached, ok := c.programs.Load(expression); ok {
		return &RowFilter{source: expression, program: cached.(*vm.Program)}, nil
	}
	f, err := NewRowFilter(expression)
	if err != nil {
		return nil, err
	}
	if f.program != nil {
		c.programs.Store(expression, f.program)
	}
	return f, nil
}

// String returns the filter expression.
func (f *RowFilter) String() string { return f.source }

// Match reports whether the row passes the filter. A nil result counts as false.
func (f *RowFilter) Match(row *Row) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	result, err := expr.Run(f.program, rowEnv(row))
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q for row %s: %w", f.source, row.ID, err)
	}
	if result == nil {
		return false, nil
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q evaluated to %T, expected bool", f.source, result)
	}
	return b, nil
}

// Apply returns the rows that pass the filter, preserving order.
func (f *RowFilter) Apply(rows []*Row) ([]*Row, error) {
	if f.program == nil {
		return rows, nil
	}
	out := make([]*Row, 0, len(rows))
	for _, r := range rows {
		ok, err := f.Match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func rowEnv(row *Row) map[string]any {
	env := make(map[string]any, len(row.Values)+1)
	env["id"] = row.ID
	for k, v := range row.Values {
		env[k] = v.Any()
	}
	return env
}
