package datatable

import "context"

// ConfirmRequest describes a confirmation dialog.
type ConfirmRequest struct {
	Title        string
	Description  string
	ConfirmLabel string
	CancelLabel  string
	// Informational dialogs only inform the user,
	// their result is ignored.
	Informational bool
}

// Confirmer asks the user for confirmation.
// Confirm blocks until the user answers or ctx is done.
type Confirmer interface {
	Confirm(ctx context.Context, request ConfirmRequest) (bool, error)
}

// ConfirmFunc implements Confirmer for a function.
type ConfirmFunc func(ctx context.Context, request ConfirmRequest) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, request ConfirmRequest) (bool, error) {
	return f(ctx, request)
}

// AlwaysConfirm is a Confirmer that confirms every request
// without asking, for non-interactive hosts.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, ConfirmRequest) (bool, error) {
	return true, nil
})
