package applicationstore

import (
	"context"

	domain "recruit/internal/domain/application"
)

// Store persists Application records. Records are write-once: there is no
// update operation, and saving an existing id fails with ErrReadOnly.
type Store interface {
	Save(ctx context.Context, app domain.Application) error
	GetByID(ctx context.Context, id string) (domain.Application, error)
	List(ctx context.Context) ([]domain.Application, error)
	ListByIDPrefix(ctx context.Context, prefix string) ([]domain.Application, error)
	Delete(ctx context.Context, id string) error
}
