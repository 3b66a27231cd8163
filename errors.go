package datatable

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEditable is returned when entering the edit mode
	// of a cell that can't be edited, check CanEditCell first.
	ErrNotEditable = errors.New("cell is not editable")

	// ErrEditInProgress is returned when an operation
	// requires that no other cell is being edited.
	ErrEditInProgress = errors.New("another cell is being edited")

	// ErrNotSortable is returned when sorting by a column
	// that does not exist or is not sortable.
	ErrNotSortable = errors.New("column is not sortable")

	// ErrNoConfirmer is returned when a confirmation
	// was requested but Config.Confirmer is nil.
	ErrNoConfirmer = errors.New("no Confirmer configured")
)

// NotEditableError is returned by EnterCellEditMode
// for cells that can't be edited.
type NotEditableError struct {
	Cell CellIndex
}

func (e *NotEditableError) Error() string {
	return fmt.Sprintf("cell %s is not editable", e.Cell)
}

func (e *NotEditableError) Is(target error) bool {
	return target == ErrNotEditable
}

// CollaboratorError wraps the error or recovered panic
// of a host callback like Config.OnAdd or Column.OnSave.
type CollaboratorError struct {
	Callback string
	Err      error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Callback, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// callCollaborator calls f converting a panic into an error
// so that a failing host callback can't crash the table.
// Returned errors are wrapped as *CollaboratorError.
func callCollaborator(callback string, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			rErr, ok := r.(error)
			if !ok {
				rErr = fmt.Errorf("panic: %v", r)
			}
			err = &CollaboratorError{Callback: callback, Err: rErr}
		}
	}()
	if e := f(); e != nil {
		return &CollaboratorError{Callback: callback, Err: e}
	}
	return nil
}
