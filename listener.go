package gridedit

// ChangeListener is notified after a cell value is written, whether by an
// edit, a paste, a fill, an undo, a redo or a discard. Hosts use it to
// refresh the affected cell and the change indicators.
type ChangeListener interface {
	CellChanged(rowID, column string, v Value, changed bool)
}

// ChangeListenerFunc adapts a function to ChangeListener.
type ChangeListenerFunc func(rowID, column string, v Value, changed bool)

func (f ChangeListenerFunc) CellChanged(rowID, column string, v Value, changed bool) {
	f(rowID, column, v, changed)
}
