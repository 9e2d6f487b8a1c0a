package gridedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackerWithRows(t *testing.T) *Tracker {
	t.Helper()
	tr := NewTracker(nil)
	tr.Initialize([]Row{
		NewRow("1", map[string]Value{"name": Text("Acme"), "qty": Number(5)}),
		NewRow("2", map[string]Value{"name": Text("Globex"), "qty": Null()}),
	})
	return tr
}

func TestTracker_RecordEdit(t *testing.T) {
	tr := newTrackerWithRows(t)

	assert.True(t, tr.RecordEdit("1", "name", Text("Acme Corp")))
	assert.True(t, tr.IsChanged("1", "name"))
	assert.Equal(t, 1, tr.ChangedCellCount())
	assert.Equal(t, 1, tr.ChangedRowCount())

	assert.True(t, tr.RecordEdit("1", "qty", Number(6)))
	assert.True(t, tr.RecordEdit("2", "qty", Number(1)))
	assert.Equal(t, 3, tr.ChangedCellCount())
	assert.Equal(t, 2, tr.ChangedRowCount())
	assert.Equal(t, []string{"1", "2"}, tr.ChangedRowIDs())
}

func TestTracker_RevertRemovesEntry(t *testing.T) {
	tr := newTrackerWithRows(t)

	for _, v := range []Value{Text("A"), Text("B"), Number(3), Null()} {
		tr.RecordEdit("1", "name", v)
	}
	assert.False(t, tr.RecordEdit("1", "name", Text("Acme")))
	assert.False(t, tr.IsChanged("1", "name"))
	assert.Equal(t, 0, tr.ChangedCellCount())
	assert.Equal(t, 0, tr.ChangedRowCount())
	assert.Empty(t, tr.AllChanges())
}

func TestTracker_WhitespaceIsNotAChange(t *testing.T) {
	tr := newTrackerWithRows(t)
	assert.False(t, tr.RecordEdit("1", "name", Text("  Acme  ")))
	assert.False(t, tr.IsChanged("1", "name"))
}

func TestTracker_NullBaseline(t *testing.T) {
	tr := newTrackerWithRows(t)
	assert.False(t, tr.RecordEdit("2", "qty", Null()))
	assert.True(t, tr.RecordEdit("2", "qty", Number(0)))
	// column absent from the baseline row compares against null
	assert.False(t, tr.RecordEdit("2", "missing", Null()))
	assert.True(t, tr.RecordEdit("2", "missing", Text("x")))
}

func TestTracker_UnknownRowIsIgnored(t *testing.T) {
	log := &recordingLogger{}
	tr := NewTracker(log)
	tr.Initialize([]Row{NewRow("1", nil)})

	assert.False(t, tr.RecordEdit("ghost", "name", Text("x")))
	assert.Equal(t, 0, tr.ChangedCellCount())
	require.Len(t, log.warn, 1)
	assert.Contains(t, log.warn[0], "unknown row")
}

func TestTracker_BaselineIsACopy(t *testing.T) {
	rows := []Row{NewRow("1", map[string]Value{"name": Text("Acme")})}
	tr := NewTracker(nil)
	tr.Initialize(rows)

	rows[0].Values["name"] = Text("Mutated")
	assert.Equal(t, Text("Acme"), tr.OriginalValue("1", "name"))
	assert.False(t, tr.RecordEdit("1", "name", Text("Acme")))
}

func TestTracker_AllChangesIsACopy(t *testing.T) {
	tr := newTrackerWithRows(t)
	tr.RecordEdit("1", "qty", Number(9))

	changes := tr.AllChanges()
	changes["1"]["qty"] = Number(100)
	delete(changes, "1")

	assert.True(t, tr.IsChanged("1", "qty"))
	assert.Equal(t, map[string]map[string]Value{"1": {"qty": Number(9)}}, tr.AllChanges())
}

func TestTracker_ClearKeepsBaseline(t *testing.T) {
	tr := newTrackerWithRows(t)
	tr.RecordEdit("1", "name", Text("Saved"))
	tr.Clear()

	assert.Equal(t, 0, tr.ChangedCellCount())
	assert.Equal(t, Text("Acme"), tr.OriginalValue("1", "name"))
	// without a reload the saved value still differs from the stale baseline
	assert.True(t, tr.RecordEdit("1", "name", Text("Saved")))
}

func TestTracker_InitializeResetsLedger(t *testing.T) {
	tr := newTrackerWithRows(t)
	tr.RecordEdit("1", "name", Text("X"))
	tr.Initialize([]Row{NewRow("1", map[string]Value{"name": Text("X")})})

	assert.Equal(t, 0, tr.ChangedCellCount())
	assert.False(t, tr.RecordEdit("1", "name", Text("X")))
	assert.True(t, tr.Initialized())
}

func TestTracker_LedgerMatchesDiffSet(t *testing.T) {
	tr := newTrackerWithRows(t)
	current := map[string]map[string]Value{
		"1": {"name": Text("Acme"), "qty": Number(5)},
		"2": {"name": Text("Globex"), "qty": Null()},
	}
	edits := []struct {
		row, col string
		v        Value
	}{
		{"1", "name", Text("B")},
		{"2", "qty", Number(3)},
		{"1", "name", Text(" Acme")},
		{"1", "qty", Number(5.0000001)},
		{"2", "name", Text("Globex ")},
		{"2", "qty", Null()},
		{"1", "qty", Number(5)},
		{"2", "name", Null()},
	}
	for _, e := range edits {
		tr.RecordEdit(e.row, e.col, e.v)
		current[e.row][e.col] = e.v

		want := 0
		for id, cols := range current {
			for c, v := range cols {
				if !Equal(tr.OriginalValue(id, c), v) {
					want++
				}
			}
		}
		assert.Equal(t, want, tr.ChangedCellCount())
	}
}
