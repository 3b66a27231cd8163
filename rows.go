package datatable

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// DeleteOptions configure Table.DeleteRows.
type DeleteOptions struct {
	// AskConfirmation asks Config.Confirmer before deleting.
	AskConfirmation bool
	// Title and Description of the confirmation dialog.
	Title       string
	Description string
}

// rowLifecycleController orchestrates adding rows
// via the insertion row and deleting rows with
// confirmation and row count constraints.
// Adding rows is committed by the cellEditController.
type rowLifecycleController[T any] struct {
	t *Table[T]
}

func (r *rowLifecycleController[T]) canAdd() bool {
	c := &r.t.config
	return c.OnAdd != nil && (c.MaxRowCount <= 0 || len(r.t.records) < c.MaxRowCount)
}

func (r *rowLifecycleController[T]) canDelete() bool {
	c := &r.t.config
	return c.OnDelete != nil && len(r.t.records) > c.MinRowCount
}

func (r *rowLifecycleController[T]) isAdding() bool {
	c := r.t.state.Edit.Cell
	return c != nil && r.t.isInsertionRow(c.Row)
}

func (r *rowLifecycleController[T]) deleteRows(ctx context.Context, rows []int, opts DeleteOptions) error {
	indexes := make([]int, 0, len(rows))
	for _, row := range rows {
		if row >= 0 && row < len(r.t.records) {
			indexes = append(indexes, row)
		}
	}
	slices.Sort(indexes)
	indexes = slices.Compact(indexes)
	if len(indexes) == 0 {
		return nil
	}

	data := make([]T, len(indexes))
	payload := make([]any, len(indexes))
	for i, row := range indexes {
		rec, _ := r.t.record(row)
		data[i] = rec.Data
		payload[i] = rec.Data
	}
	cancel := func(reason DeleteCancelReason) {
		r.t.logger.Debug("Deleting rows cancelled",
			slog.Any("rows", indexes),
			slog.String("reason", string(reason)),
		)
		r.t.events.Dispatch(DeleteCancelEvent{RowIndexes: indexes, Rows: payload, Reason: reason})
	}

	r.t.events.Dispatch(DeleteStartEvent{RowIndexes: indexes, Rows: payload})

	config := &r.t.config
	if config.OnDelete == nil {
		cancel(DeleteCancelPermissionDenied)
		return nil
	}

	if remaining := len(r.t.records) - len(indexes); remaining < config.MinRowCount {
		if config.Confirmer != nil {
			_, err := config.Confirmer.Confirm(ctx, ConfirmRequest{
				Title:         "Can not delete",
				Description:   fmt.Sprintf("The table must have at least %d rows.", config.MinRowCount),
				ConfirmLabel:  "OK",
				Informational: true,
			})
			if err != nil {
				r.t.logger.Warn("Informational dialog failed", slog.Any("error", err))
			}
		}
		cancel(DeleteCancelValidationFailed)
		return nil
	}

	if opts.AskConfirmation {
		if config.Confirmer == nil {
			cancel(DeleteCancelPermissionDenied)
			return ErrNoConfirmer
		}
		title := opts.Title
		if title == "" {
			title = "Delete rows"
		}
		description := opts.Description
		if description == "" {
			description = fmt.Sprintf("Do you want to delete %d row(s)?", len(indexes))
		}
		confirmed, err := config.Confirmer.Confirm(ctx, ConfirmRequest{
			Title:        title,
			Description:  description,
			ConfirmLabel: "Delete",
			CancelLabel:  "Cancel",
		})
		if err != nil {
			r.t.logger.Debug("Delete confirmation failed", slog.Any("error", err))
		}
		if err != nil || !confirmed {
			cancel(DeleteCancelUserCancelled)
			return nil
		}
		r.t.events.Dispatch(DeleteConfirmEvent{RowIndexes: indexes, Rows: payload})
	}

	// The edited row is going away, edits of other
	// rows follow their row when the host passes new data
	if c := r.t.state.Edit.Cell; c != nil && slices.Contains(indexes, c.Row) {
		// Cancelling never fails
		_, _ = r.t.editing.exit(ctx, false)
	}

	err := callCollaborator("OnDelete", func() error { return config.OnDelete(ctx, data) })
	if err != nil {
		r.t.logger.Warn("Deleting rows failed", slog.Any("rows", indexes), slog.Any("error", err))
		r.t.events.Dispatch(DeleteErrorEvent{RowIndexes: indexes, Rows: payload, Err: err})
		return err
	}

	r.t.selection.clear()
	r.t.logger.Debug("Deleted rows", slog.Any("rows", indexes))
	r.t.events.Dispatch(DeleteSuccessEvent{RowIndexes: indexes, Rows: payload})
	return nil
}
