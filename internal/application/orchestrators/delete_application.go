package orchestrators

import (
	"context"
	"log/slog"
)

// DeleteApplicationInput carries input for the orchestrator.
type DeleteApplicationInput struct {
	ID string
}

// DeleteApplicationDeps holds dependencies for DeleteApplication.
type DeleteApplicationDeps struct {
	Store ApplicationStore
}

// ExecuteDeleteApplication removes one application.
// PRE: ID names an existing record
// POST: the record is gone; application.ErrNotFound when it never existed
func ExecuteDeleteApplication(ctx context.Context, input DeleteApplicationInput, deps DeleteApplicationDeps) error {
	if _, err := deps.Store.GetByID(ctx, input.ID); err != nil {
		return err
	}
	if err := deps.Store.Delete(ctx, input.ID); err != nil {
		return err
	}
	slog.Info("application_event", "event", "application_deleted", "application_id", input.ID)
	return nil
}

// DeleteAllResult reports the outcome of a bulk delete.
type DeleteAllResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ExecuteDeleteAllApplications deletes every stored application one at a
// time, counting per-record outcomes instead of stopping at the first
// failure.
// POST: Succeeded+Failed equals the record count at the start of the run
func ExecuteDeleteAllApplications(ctx context.Context, deps DeleteApplicationDeps) (DeleteAllResult, error) {
	apps, err := deps.Store.List(ctx)
	if err != nil {
		return DeleteAllResult{}, err
	}

	var result DeleteAllResult
	for _, app := range apps {
		if err := deps.Store.Delete(ctx, app.ID); err != nil {
			slog.Error("application_delete_failed", "application_id", app.ID, "error", err)
			result.Failed++
			continue
		}
		result.Succeeded++
	}
	slog.Info("application_event", "event", "applications_cleared", "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}
