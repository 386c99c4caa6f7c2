package orchestrators

import (
	"context"
	"encoding/json"
	"log/slog"

	"recruit/internal/adapters/crypt"
	"recruit/internal/domain/application"
)

// ListApplicationsInput carries input for the orchestrator.
type ListApplicationsInput struct {
	Track string // empty lists both tracks
}

// ListApplicationsDeps holds dependencies for ListApplications.
type ListApplicationsDeps struct {
	Store  ApplicationStore
	Sealer crypt.Sealer
}

// ExecuteListApplications returns stored applications newest-first, with the
// sealed form payload opened. Records that cannot be opened are skipped with
// a warning rather than failing the whole listing.
// PRE: Track is empty or a valid track
// POST: returned records carry neither sealed bytes nor the submitter address
func ExecuteListApplications(ctx context.Context, input ListApplicationsInput, deps ListApplicationsDeps) ([]application.Application, error) {
	if input.Track != "" && !application.ValidTrack(input.Track) {
		return nil, application.ErrInvalidTrack
	}

	var apps []application.Application
	var err error
	if input.Track != "" {
		apps, err = deps.Store.ListByIDPrefix(ctx, input.Track+"-")
	} else {
		apps, err = deps.Store.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]application.Application, 0, len(apps))
	for _, app := range apps {
		opened, err := openForm(app, deps.Sealer)
		if err != nil {
			slog.Warn("application_unreadable", "application_id", app.ID, "error", err)
			continue
		}
		out = append(out, opened)
	}
	return out, nil
}

// GetApplicationDeps holds dependencies for GetApplication.
type GetApplicationDeps struct {
	Store  ApplicationStore
	Sealer crypt.Sealer
}

// ExecuteGetApplication returns a single application by id.
// POST: application.ErrNotFound when no record has the id
func ExecuteGetApplication(ctx context.Context, id string, deps GetApplicationDeps) (application.Application, error) {
	app, err := deps.Store.GetByID(ctx, id)
	if err != nil {
		return application.Application{}, err
	}
	return openForm(app, deps.Sealer)
}

// openForm decodes the sealed payload into the form and strips the fields
// that must not leave the admin path.
func openForm(app application.Application, sealer crypt.Sealer) (application.Application, error) {
	payload, err := sealer.Open(app.Sealed)
	if err != nil {
		return application.Application{}, err
	}
	if err := json.Unmarshal(payload, &app.Form); err != nil {
		return application.Application{}, err
	}
	app.Sealed = nil
	app.IPAddress = ""
	return app, nil
}
