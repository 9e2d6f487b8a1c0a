package gridedit

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoaded indicates a Session operation was called before Load.
	ErrNotLoaded = errors.New("no dataset loaded")

	// ErrUnknownRow indicates the row id is not part of the loaded dataset.
	ErrUnknownRow = errors.New("unknown row")

	// ErrUnknownColumn indicates the column name is not part of the loaded dataset.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNotEditable indicates the target field or row may not be edited.
	ErrNotEditable = errors.New("field is not editable")

	// ErrInvalidDataset indicates the dataset failed validation.
	ErrInvalidDataset = errors.New("invalid dataset")
)

// EditError describes a rejected edit of a single cell.
type EditError struct {
	RowID  string
	Column string
	Reason string
	Err    error
}

func (e *EditError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("edit %s.%s: %v (%s)", e.RowID, e.Column, e.Err, e.Reason)
	}
	return fmt.Sprintf("edit %s.%s: %v", e.RowID, e.Column, e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}
