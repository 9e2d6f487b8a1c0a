package gridedit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action is one direction of a reversible operation.
type Action func(ctx context.Context) error

// Command is a reversible unit of work kept in History. The two
// implementations are SimpleCommand and BatchCommand.
type Command interface {
	ID() string
	Description() string
	CreatedAt() time.Time
	Forward(ctx context.Context) error
	Inverse(ctx context.Context) error
}

// SimpleCommand wraps a forward and an inverse action. Commands with the same
// Kind and MergeKey created within MergeWindow of each other can be merged.
type SimpleCommand struct {
	id          string
	desc        string
	created     time.Time
	forward     Action
	inverse     Action
	Kind        string
	MergeKey    string        // empty disables merging
	MergeWindow time.Duration // zero disables merging
}

// NewSimpleCommand creates a non-mergeable command.
func NewSimpleCommand(desc string, created time.Time, forward, inverse Action) *SimpleCommand {
	return &SimpleCommand{
		id:      uuid.NewString(),
		desc:    desc,
		created: created,
		forward: forward,
		inverse: inverse,
	}
}

func (c *SimpleCommand) ID() string           { return c.id }
func (c *SimpleCommand) Description() string  { return c.desc }
func (c *SimpleCommand) CreatedAt() time.Time { return c.created }

func (c *SimpleCommand) Forward(ctx context.Context) error {
	if c.forward == nil {
		return nil
	}
	return c.forward(ctx)
}

func (c *SimpleCommand) Inverse(ctx context.Context) error {
	if c.inverse == nil {
		return nil
	}
	return c.inverse(ctx)
}

// BatchCommand applies inner commands in order and reverts them in reverse order.
type BatchCommand struct {
	id       string
	desc     string
	created  time.Time
	Commands []Command
}

// NewBatchCommand creates a batch of commands.
func NewBatchCommand(desc string, created time.Time, cmds ...Command) *BatchCommand {
	return &BatchCommand{
		id:       uuid.NewString(),
		desc:     desc,
		created:  created,
		Commands: cmds,
	}
}

func (b *BatchCommand) ID() string           { return b.id }
func (b *BatchCommand) Description() string  { return b.desc }
func (b *BatchCommand) CreatedAt() time.Time { return b.created }

// Forward applies the inner commands in order. If one fails, the ones
// already applied are reverted before the error is returned.
func (b *BatchCommand) Forward(ctx context.Context) error {
	for i, cmd := range b.Commands {
		if err := cmd.Forward(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = b.Commands[j].Inverse(ctx)
			}
			return fmt.Errorf("batch %q step %d: %w", b.desc, i, err)
		}
	}
	return nil
}

// Inverse reverts the inner commands, last applied first.
func (b *BatchCommand) Inverse(ctx context.Context) error {
	for i := len(b.Commands) - 1; i >= 0; i-- {
		if err := b.Commands[i].Inverse(ctx); err != nil {
			return fmt.Errorf("batch %q undo step %d: %w", b.desc, i, err)
		}
	}
	return nil
}

// TryMerge combines incoming into existing when both are mergeable simple
// commands of the same kind on the same key, and incoming was created within
// existing's merge window. The merged command redoes incoming's forward
// action and undoes existing's inverse action. Neither argument is modified.
func TryMerge(existing, incoming Command) (Command, bool) {
	prev, ok := existing.(*SimpleCommand)
	if !ok {
		return nil, false
	}
	next, ok := incoming.(*SimpleCommand)
	if !ok {
		return nil, false
	}
	if prev.MergeKey == "" || prev.MergeWindow <= 0 {
		return nil, false
	}
	if prev.Kind != next.Kind || prev.MergeKey != next.MergeKey {
		return nil, false
	}
	age := next.created.Sub(prev.created)
	if age < 0 || age > prev.MergeWindow {
		return nil, false
	}
	return &SimpleCommand{
		id:          prev.id,
		desc:        next.desc,
		created:     next.created,
		forward:     next.forward,
		inverse:     prev.inverse,
		Kind:        prev.Kind,
		MergeKey:    prev.MergeKey,
		MergeWindow: prev.MergeWindow,
	}, true
}

// CellWriter is the mutation primitive cell commands act on.
type CellWriter interface {
	// SetCell stores v and reports whether the cell now differs from its baseline.
	SetCell(rowID, column string, v Value) bool
}

// KindCellEdit is the Kind of commands created by NewCellEditCommand.
const KindCellEdit = "cell-edit"

// NewCellEditCommand creates a mergeable command that sets a single cell
// from before to after.
func NewCellEditCommand(w CellWriter, rowID, column string, before, after Value, created time.Time, window time.Duration) *SimpleCommand {
	cmd := NewSimpleCommand(
		fmt.Sprintf("Edit %s", column),
		created,
		func(context.Context) error {
			w.SetCell(rowID, column, after)
			return nil
		},
		func(context.Context) error {
			w.SetCell(rowID, column, before)
			return nil
		},
	)
	cmd.Kind = KindCellEdit
	cmd.MergeKey = rowID + "\x00" + column
	cmd.MergeWindow = window
	return cmd
}
