package gridedit

import "sort"

// Tracker is the change ledger. It keeps an immutable baseline snapshot of
// the loaded rows and the set of cells whose current value differs from it.
// A cell is in the ledger if and only if its last recorded value is not
// Equal to the baseline value.
type Tracker struct {
	log         Logger
	baseline    map[string]map[string]Value
	ledger      map[string]map[string]Value
	initialized bool
}

// NewTracker creates an empty Tracker. Call Initialize before recording edits.
func NewTracker(log Logger) *Tracker {
	return &Tracker{
		log:      orNop(log),
		baseline: make(map[string]map[string]Value),
		ledger:   make(map[string]map[string]Value),
	}
}

// Initialize replaces the baseline with a deep copy of rows and empties the ledger.
func (t *Tracker) Initialize(rows []Row) {
	t.baseline = make(map[string]map[string]Value, len(rows))
	for _, r := range rows {
		vals := make(map[string]Value, len(r.Values))
		for k, v := range r.Values {
			vals[k] = v
		}
		t.baseline[r.ID] = vals
	}
	t.ledger = make(map[string]map[string]Value)
	t.initialized = true
}

// Initialized reports whether a baseline has been captured.
func (t *Tracker) Initialized() bool { return t.initialized }

// RecordEdit records the new value of a cell and reports whether the cell now
// differs from the baseline. Unknown rows are ignored.
func (t *Tracker) RecordEdit(rowID, column string, v Value) bool {
	base, ok := t.baseline[rowID]
	if !ok {
		t.log.Warn("edit for unknown row ignored", "row", rowID, "column", column)
		return false
	}
	if Equal(base[column], v) {
		if changes, ok := t.ledger[rowID]; ok {
			delete(changes, column)
			if len(changes) == 0 {
				delete(t.ledger, rowID)
			}
		}
		return false
	}
	changes, ok := t.ledger[rowID]
	if !ok {
		changes = make(map[string]Value)
		t.ledger[rowID] = changes
	}
	changes[column] = v
	return true
}

// IsChanged reports whether the cell currently differs from the baseline.
func (t *Tracker) IsChanged(rowID, column string) bool {
	_, ok := t.ledger[rowID][column]
	return ok
}

// IsRowChanged reports whether any cell of the row differs from the baseline.
func (t *Tracker) IsRowChanged(rowID string) bool {
	return len(t.ledger[rowID]) > 0
}

// ChangedCellCount returns the number of changed cells.
func (t *Tracker) ChangedCellCount() int {
	n := 0
	for _, changes := range t.ledger {
		n += len(changes)
	}
	return n
}

// ChangedRowCount returns the number of rows with at least one changed cell.
func (t *Tracker) ChangedRowCount() int {
	return len(t.ledger)
}

// ChangedRowIDs returns the ids of changed rows in sorted order.
func (t *Tracker) ChangedRowIDs() []string {
	ids := make([]string, 0, len(t.ledger))
	for id := range t.ledger {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AllChanges returns a copy of the ledger: row id → column → new value.
func (t *Tracker) AllChanges() map[string]map[string]Value {
	out := make(map[string]map[string]Value, len(t.ledger))
	for id, changes := range t.ledger {
		cp := make(map[string]Value, len(changes))
		for k, v := range changes {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

// OriginalValue returns the baseline value of a cell, or Null if unknown.
func (t *Tracker) OriginalValue(rowID, column string) Value {
	return t.baseline[rowID][column]
}

// OriginalRow returns a copy of the baseline values of a row.
func (t *Tracker) OriginalRow(rowID string) (map[string]Value, bool) {
	base, ok := t.baseline[rowID]
	if !ok {
		return nil, false
	}
	cp := make(map[string]Value, len(base))
	for k, v := range base {
		cp[k] = v
	}
	return cp, true
}

// Clear empties the ledger after a successful save. The baseline is kept;
// reload the data to move it forward.
func (t *Tracker) Clear() {
	t.ledger = make(map[string]map[string]Value)
}
