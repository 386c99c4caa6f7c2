package orchestrators

import (
	"context"

	"recruit/internal/domain/application"
)

// ApplicationStore defines the persistence interface needed by the
// application orchestrators. Records are write-once: Save fails with
// application.ErrReadOnly when the id already exists.
type ApplicationStore interface {
	Save(ctx context.Context, app application.Application) error
	GetByID(ctx context.Context, id string) (application.Application, error)
	List(ctx context.Context) ([]application.Application, error)
	ListByIDPrefix(ctx context.Context, prefix string) ([]application.Application, error)
	Delete(ctx context.Context, id string) error
}
