package gridedit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// recordingLogger keeps formatted messages per level.
type recordingLogger struct {
	mu                        sync.Mutex
	debug, info, warn, errors []string
}

func (l *recordingLogger) record(dst *[]string, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, fmt.Sprint(append([]any{msg}, args...)...))
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record(&l.debug, msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record(&l.info, msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record(&l.warn, msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record(&l.errors, msg, args) }

// fakeClock is a manually advanced clock for merge window tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// accountsDataset builds a small dataset covering every editability rule.
//
//	id | name | revenue | active | status | created | parentid | parentidname | fullname
func accountsDataset(t *testing.T) *Dataset {
	t.Helper()
	cols := []Column{
		{Name: "id", Label: "Account", TypeHint: "uniqueidentifier", Identifier: true},
		{Name: "name", Label: "Account Name", TypeHint: "string"},
		{Name: "revenue", Label: "Annual Revenue", TypeHint: "money"},
		{Name: "employees", Label: "Employees", TypeHint: "integer"},
		{Name: "active", Label: "Active", TypeHint: "boolean"},
		{Name: "status", Label: "Status", TypeHint: "picklist"},
		{Name: "created", Label: "Created On", TypeHint: "datetime", NoUpdate: true},
		{Name: "parentid", Label: "Parent", TypeHint: "lookup"},
		{Name: "parentidname", Label: "Parent Name", TypeHint: "string"},
		{Name: "fullname", Label: "Full Name", TypeHint: "string", Computed: true},
	}
	created := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)
	mk := func(id, name string, revenue, employees float64) Row {
		return NewRow(id, map[string]Value{
			"id":           Text(id),
			"name":         Text(name),
			"revenue":      Number(revenue),
			"employees":    Number(employees),
			"active":       Bool(true),
			"status":       Number(1),
			"created":      Date(created),
			"parentid":     Text("p-1"),
			"parentidname": Text("Parent Co"),
			"fullname":     Text(name + " Ltd"),
		})
	}
	return &Dataset{
		Columns: cols,
		Rows: []Row{
			mk("a1", "Acme", 1000, 10),
			mk("a2", "Globex", 2500.5, 20),
			mk("a3", "Initech", 500, 30),
			mk("a4", "Umbrella", 0, 40),
			mk("a5", "Hooli", 42, 50),
			mk("a6", "Stark", 7, 60),
		},
	}
}

// newLoadedSession creates a session over accountsDataset.
func newLoadedSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := NewSession(opts...)
	if err := s.Load(accountsDataset(t)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}
