package gridedit

import (
	"context"
	"fmt"
	"sort"
)

// Session is one editing session over a loaded dataset. It routes raw input
// through type conversion and editability checks, applies it as history
// commands, and keeps the change ledger in step with the materialized rows.
//
// A Session is meant to be driven from a single goroutine; History is the
// only part that guards against overlapping calls.
type Session struct {
	opts    *Options
	log     Logger
	conv    *Converter
	policy  *EditPolicy
	tracker *Tracker
	history *History
	agg     *Aggregator
	filters RowFilterCache

	columns  []Column
	colIndex map[string]int
	rows     []*Row
	rowIndex map[string]int
	loaded   bool
}

// EditResult describes the outcome of a single-cell edit.
type EditResult struct {
	Applied bool  // false when history rejected the edit because an action was in flight
	Value   Value // converted value
	Changed bool  // the cell differs from its baseline after the edit
}

// BulkResult describes the outcome of a paste or fill.
type BulkResult struct {
	Applied bool
	Written int // cells written
	Skipped int // cells left alone because they are not editable
}

// NewSession creates a Session with the given options.
func NewSession(opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Session{
		opts:    o,
		log:     o.logger,
		conv:    NewConverter(o.logger),
		policy:  NewEditPolicy(o.readOnlyFields),
		tracker: NewTracker(o.logger),
		history: NewHistory(o.maxHistory, o.logger),
		agg:     NewAggregator(o.locale),
	}
}

// Load replaces the session data with ds and captures it as the new
// baseline. History and the change ledger are cleared.
func (s *Session) Load(ds *Dataset) error {
	cols := classifyColumns(ds.Columns)
	issues := ValidateDataset(&Dataset{Columns: cols, Rows: ds.Rows})
	if is, ok := firstError(issues); ok {
		return fmt.Errorf("%w: %s", ErrInvalidDataset, is)
	}
	for _, is := range issues {
		s.log.Warn("dataset validation", "issue", is.String())
	}

	s.columns = cols
	s.colIndex = make(map[string]int, len(cols))
	for i, c := range cols {
		s.colIndex[c.Name] = i
	}
	s.rows = make([]*Row, len(ds.Rows))
	s.rowIndex = make(map[string]int, len(ds.Rows))
	for i, r := range ds.Rows {
		cp := r.Clone()
		s.rows[i] = &cp
		s.rowIndex[r.ID] = i
	}
	s.tracker.Initialize(ds.Rows)
	s.history.Clear()
	s.loaded = true
	s.log.Info("dataset loaded", "rows", len(s.rows), "columns", len(s.columns))
	return nil
}

// Columns returns the classified column descriptors.
func (s *Session) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Column returns the descriptor of a column.
func (s *Session) Column(name string) (Column, bool) {
	i, ok := s.colIndex[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// RowCount returns the number of loaded rows.
func (s *Session) RowCount() int { return len(s.rows) }

// Rows returns copies of the current rows in load order.
func (s *Session) Rows() []Row {
	out := make([]Row, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Clone()
	}
	return out
}

// RowIDs returns the row ids in load order.
func (s *Session) RowIDs() []string {
	ids := make([]string, len(s.rows))
	for i, r := range s.rows {
		ids[i] = r.ID
	}
	return ids
}

// Value returns the current value of a cell.
func (s *Session) Value(rowID, column string) Value {
	i, ok := s.rowIndex[rowID]
	if !ok {
		return Null()
	}
	return s.rows[i].Get(column)
}

// CheckField reports whether a column may be edited and why not.
func (s *Session) CheckField(column string) (Editability, error) {
	col, ok := s.Column(column)
	if !ok {
		return Editability{}, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	return s.policy.Check(col), nil
}

// SetCell stores v in the materialized row and records it in the ledger.
// It is the primitive every edit command applies. Unknown rows are ignored.
func (s *Session) SetCell(rowID, column string, v Value) bool {
	i, ok := s.rowIndex[rowID]
	if !ok {
		return s.tracker.RecordEdit(rowID, column, v)
	}
	s.rows[i].Values[column] = v
	changed := s.tracker.RecordEdit(rowID, column, v)
	for _, l := range s.opts.listeners {
		l.CellChanged(rowID, column, v, changed)
	}
	return changed
}

func (s *Session) checkCell(rowID, column string) (*Row, Column, error) {
	if !s.loaded {
		return nil, Column{}, ErrNotLoaded
	}
	i, ok := s.rowIndex[rowID]
	if !ok {
		return nil, Column{}, &EditError{RowID: rowID, Column: column, Err: ErrUnknownRow}
	}
	col, ok := s.Column(column)
	if !ok {
		return nil, Column{}, &EditError{RowID: rowID, Column: column, Err: ErrUnknownColumn}
	}
	row := s.rows[i]
	if e := s.policy.CheckCell(row, col); !e.Editable {
		return nil, Column{}, &EditError{RowID: rowID, Column: column, Reason: e.Reason, Err: ErrNotEditable}
	}
	return row, col, nil
}

// Edit converts raw for the column and applies it as an undoable command.
// Rapid edits of the same cell merge into one history entry.
func (s *Session) Edit(ctx context.Context, rowID, column string, raw any) (EditResult, error) {
	row, col, err := s.checkCell(rowID, column)
	if err != nil {
		return EditResult{}, err
	}
	v := s.conv.Convert(raw, col.Type, col.Name)
	before := row.Get(column)
	if sameValue(before, v) {
		return EditResult{Applied: true, Value: v, Changed: s.tracker.IsChanged(rowID, column)}, nil
	}
	cmd := NewCellEditCommand(s, rowID, column, before, v, s.opts.clock(), s.opts.mergeWindow)
	ok, err := s.history.Execute(ctx, cmd)
	if err != nil {
		return EditResult{}, err
	}
	return EditResult{Applied: ok, Value: v, Changed: s.tracker.IsChanged(rowID, column)}, nil
}

// sameValue reports whether writing b over a would change nothing at all,
// not even incidental whitespace.
func sameValue(a, b Value) bool {
	return a.Kind() == b.Kind() && Equal(a, b) && a.String() == b.String()
}

// Paste writes the clipboard contents starting at the given row and column
// indices as one undoable batch. Non-editable target cells are skipped.
func (s *Session) Paste(ctx context.Context, clip Clipboard, anchorRow, anchorCol int) (BulkResult, error) {
	if !s.loaded {
		return BulkResult{}, ErrNotLoaded
	}
	instrs := PasteInstructions(clip.Matrix(), s.columns, s.RowIDs(), anchorRow, anchorCol)
	return s.applyBulk(ctx, "Paste", instrs)
}

// Fill copies the value of column at anchorRow into every row between anchor
// and target (inclusive, anchor excluded) as one undoable batch. Read-only
// rows are skipped.
func (s *Session) Fill(ctx context.Context, column string, anchorRow, targetRow int) (BulkResult, error) {
	if !s.loaded {
		return BulkResult{}, ErrNotLoaded
	}
	col, ok := s.Column(column)
	if !ok {
		return BulkResult{}, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	if e := s.policy.Check(col); !e.Editable {
		return BulkResult{}, &EditError{Column: column, Reason: e.Reason, Err: ErrNotEditable}
	}
	if anchorRow < 0 || anchorRow >= len(s.rows) {
		return BulkResult{}, fmt.Errorf("fill anchor row %d out of range [0,%d)", anchorRow, len(s.rows))
	}
	targetRow = max(0, min(targetRow, len(s.rows)-1))

	source := s.rows[anchorRow].Get(column)
	plan := FillRange(source, anchorRow, targetRow, func(r int) bool {
		return s.policy.CheckCell(s.rows[r], col).Editable
	})
	span := max(anchorRow, targetRow) - min(anchorRow, targetRow)

	instrs := make([]WriteInstruction, 0, len(plan.Rows))
	for _, r := range plan.Rows {
		instrs = append(instrs, WriteInstruction{Row: r, RowID: s.rows[r].ID, Column: column, Raw: plan.Source})
	}
	res, err := s.applyBulk(ctx, fmt.Sprintf("Fill %s %s", column, plan.Direction), instrs)
	res.Skipped += span - len(plan.Rows)
	return res, err
}

func (s *Session) applyBulk(ctx context.Context, desc string, instrs []WriteInstruction) (BulkResult, error) {
	var res BulkResult
	now := s.opts.clock()
	cmds := make([]Command, 0, len(instrs))
	for _, in := range instrs {
		row, col, err := s.checkCell(in.RowID, in.Column)
		if err != nil {
			s.log.Debug("bulk write skipped", "row", in.RowID, "column", in.Column, "error", err)
			res.Skipped++
			continue
		}
		v := s.conv.Convert(in.Raw, col.Type, col.Name)
		cmds = append(cmds, NewCellEditCommand(s, in.RowID, in.Column, row.Get(in.Column), v, now, 0))
	}
	if len(cmds) == 0 {
		return res, nil
	}
	batch := NewBatchCommand(fmt.Sprintf("%s (%d cells)", desc, len(cmds)), now, cmds...)
	ok, err := s.history.Execute(ctx, batch)
	if err != nil {
		return res, err
	}
	res.Applied = ok
	if ok {
		res.Written = len(cmds)
	}
	return res, nil
}

// Undo reverts the most recent command.
func (s *Session) Undo(ctx context.Context) (bool, error) { return s.history.Undo(ctx) }

// Redo re-applies the most recently undone command.
func (s *Session) Redo(ctx context.Context) (bool, error) { return s.history.Redo(ctx) }

func (s *Session) CanUndo() bool           { return s.history.CanUndo() }
func (s *Session) CanRedo() bool           { return s.history.CanRedo() }
func (s *Session) UndoDescription() string { return s.history.UndoDescription() }
func (s *Session) RedoDescription() string { return s.history.RedoDescription() }

// Aggregate summarizes the rows matching where (all rows if empty).
func (s *Session) Aggregate(mode AggregationMode, where string) (AggregationResult, error) {
	filter, err := s.filters.Compile(where)
	if err != nil {
		return nil, err
	}
	visible, err := filter.Apply(s.rows)
	if err != nil {
		return nil, err
	}
	return s.agg.Compute(visible, s.columns, mode), nil
}

// IsChanged reports whether a cell differs from the baseline.
func (s *Session) IsChanged(rowID, column string) bool { return s.tracker.IsChanged(rowID, column) }

// IsRowChanged reports whether any cell of the row differs from the baseline.
func (s *Session) IsRowChanged(rowID string) bool { return s.tracker.IsRowChanged(rowID) }

// ChangedCellCount returns the number of changed cells.
func (s *Session) ChangedCellCount() int { return s.tracker.ChangedCellCount() }

// ChangedRowCount returns the number of rows with changes.
func (s *Session) ChangedRowCount() int { return s.tracker.ChangedRowCount() }

// Changes returns the pending changes: row id → column → new value.
func (s *Session) Changes() map[string]map[string]Value { return s.tracker.AllChanges() }

// ChangedRowIDs returns the ids of changed rows, sorted.
func (s *Session) ChangedRowIDs() []string { return s.tracker.ChangedRowIDs() }

// OriginalValue returns the baseline value of a cell.
func (s *Session) OriginalValue(rowID, column string) Value {
	return s.tracker.OriginalValue(rowID, column)
}

// MarkSaved empties the change ledger after the host persisted Changes.
// The baseline stays as loaded until the host calls Load with fresh data.
func (s *Session) MarkSaved() {
	s.tracker.Clear()
}

// Discard puts every row back to its baseline values and clears the
// ledger and history. Listeners hear about each cell that was changed.
func (s *Session) Discard() {
	pending := s.tracker.AllChanges()
	for _, r := range s.rows {
		if base, ok := s.tracker.OriginalRow(r.ID); ok {
			r.Values = base
		}
	}
	s.tracker.Clear()
	s.history.Clear()

	for _, id := range sortedKeys(pending) {
		for _, column := range sortedKeys(pending[id]) {
			v := s.tracker.OriginalValue(id, column)
			for _, l := range s.opts.listeners {
				l.CellChanged(id, column, v, false)
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
