package datatable

// EventName is the namespaced name of a table event
// in the form "table:<domain>:<phase>".
type EventName string

const (
	EventEditingStart                 EventName = "table:editing:start"
	EventEditingSave                  EventName = "table:editing:save"
	EventEditingExit                  EventName = "table:editing:exit"
	EventEditingValidationError       EventName = "table:editing:validationError"
	EventEditingValidationSuccess     EventName = "table:editing:validationSuccess"
	EventEditingValidationErrorChange EventName = "table:editing:validationErrorChange"
	EventEditingError                 EventName = "table:editing:error"

	EventDeleteStart   EventName = "table:delete:start"
	EventDeleteConfirm EventName = "table:delete:confirm"
	EventDeleteSuccess EventName = "table:delete:success"
	EventDeleteCancel  EventName = "table:delete:cancel"
	EventDeleteError   EventName = "table:delete:error"

	EventInsertStart   EventName = "table:insert:start"
	EventInsertSuccess EventName = "table:insert:success"
	EventInsertCancel  EventName = "table:insert:cancel"
	EventInsertError   EventName = "table:insert:error"

	EventSortChange EventName = "table:sort:change"
	EventSortClear  EventName = "table:sort:clear"
)

// Event is implemented by all event payloads.
type Event interface {
	EventName() EventName
}

// FailureEvent is implemented by events reporting
// a failed collaborator callback.
type FailureEvent interface {
	Event
	Failure() error
}

type DeleteCancelReason string

const (
	DeleteCancelUserCancelled    DeleteCancelReason = "user_cancelled"
	DeleteCancelValidationFailed DeleteCancelReason = "validation_failed"
	DeleteCancelPermissionDenied DeleteCancelReason = "permission_denied"
)

type InsertCancelReason string

const (
	InsertCancelUserCancelled    InsertCancelReason = "user_cancelled"
	InsertCancelEmptyValue       InsertCancelReason = "empty_value"
	InsertCancelValidationFailed InsertCancelReason = "validation_failed"
)

// CellEvent is the common context of all editing events.
// Row is the row data before any mutation,
// nil for the insertion row.
type CellEvent struct {
	Cell        CellIndex  `json:"cell"`
	Row         any        `json:"row"`
	Column      ColumnInfo `json:"column"`
	IsAddingRow bool       `json:"isAddingRow"`
}

type EditingStartEvent struct {
	CellEvent
	Value any `json:"value"`
}

type EditingSaveEvent struct {
	CellEvent
	OldValue any `json:"oldValue"`
	NewValue any `json:"newValue"`
}

type EditingExitEvent struct {
	CellEvent
	Saved      bool `json:"saved"`
	FinalValue any  `json:"finalValue"`
}

type ValidationErrorEvent struct {
	CellEvent
	Value  any      `json:"value"`
	Errors []string `json:"errors"`
}

type ValidationSuccessEvent struct {
	CellEvent
	Value any `json:"value"`
}

type ValidationErrorChangeEvent struct {
	CellEvent
	PreviousErrors []string `json:"previousErrors"`
	Errors         []string `json:"errors"`
}

type EditingErrorEvent struct {
	CellEvent
	Value any   `json:"value"`
	Err   error `json:"-" cbor:"-"`
}

type DeleteStartEvent struct {
	RowIndexes []int `json:"rowIndexes"`
	Rows       []any `json:"rows"`
}

type DeleteConfirmEvent struct {
	RowIndexes []int `json:"rowIndexes"`
	Rows       []any `json:"rows"`
}

type DeleteSuccessEvent struct {
	RowIndexes []int `json:"rowIndexes"`
	Rows       []any `json:"rows"`
}

type DeleteCancelEvent struct {
	RowIndexes []int              `json:"rowIndexes"`
	Rows       []any              `json:"rows"`
	Reason     DeleteCancelReason `json:"reason"`
}

type DeleteErrorEvent struct {
	RowIndexes []int `json:"rowIndexes"`
	Rows       []any `json:"rows"`
	Err        error `json:"-" cbor:"-"`
}

type InsertStartEvent struct {
	Cell CellIndex      `json:"cell"`
	Data map[string]any `json:"data"`
}

type InsertSuccessEvent struct {
	Cell CellIndex      `json:"cell"`
	Data map[string]any `json:"data"`
}

type InsertCancelEvent struct {
	Cell   CellIndex          `json:"cell"`
	Data   map[string]any     `json:"data"`
	Reason InsertCancelReason `json:"reason"`
}

type InsertErrorEvent struct {
	Cell CellIndex      `json:"cell"`
	Data map[string]any `json:"data"`
	Err  error          `json:"-" cbor:"-"`
}

type SortChangeEvent struct {
	Column              ColumnInfo    `json:"column"`
	Direction           SortDirection `json:"direction"`
	PreviousColumnIndex int           `json:"previousColumnIndex"`
	PreviousDirection   SortDirection `json:"previousDirection"`
}

type SortClearEvent struct {
	PreviousColumnIndex int           `json:"previousColumnIndex"`
	PreviousDirection   SortDirection `json:"previousDirection"`
}

func (EditingStartEvent) EventName() EventName          { return EventEditingStart }
func (EditingSaveEvent) EventName() EventName           { return EventEditingSave }
func (EditingExitEvent) EventName() EventName           { return EventEditingExit }
func (ValidationErrorEvent) EventName() EventName       { return EventEditingValidationError }
func (ValidationSuccessEvent) EventName() EventName     { return EventEditingValidationSuccess }
func (ValidationErrorChangeEvent) EventName() EventName { return EventEditingValidationErrorChange }
func (EditingErrorEvent) EventName() EventName          { return EventEditingError }
func (DeleteStartEvent) EventName() EventName           { return EventDeleteStart }
func (DeleteConfirmEvent) EventName() EventName         { return EventDeleteConfirm }
func (DeleteSuccessEvent) EventName() EventName         { return EventDeleteSuccess }
func (DeleteCancelEvent) EventName() EventName          { return EventDeleteCancel }
func (DeleteErrorEvent) EventName() EventName           { return EventDeleteError }
func (InsertStartEvent) EventName() EventName           { return EventInsertStart }
func (InsertSuccessEvent) EventName() EventName         { return EventInsertSuccess }
func (InsertCancelEvent) EventName() EventName          { return EventInsertCancel }
func (InsertErrorEvent) EventName() EventName           { return EventInsertError }
func (SortChangeEvent) EventName() EventName            { return EventSortChange }
func (SortClearEvent) EventName() EventName             { return EventSortClear }

func (e EditingErrorEvent) Failure() error { return e.Err }
func (e DeleteErrorEvent) Failure() error  { return e.Err }
func (e InsertErrorEvent) Failure() error  { return e.Err }
