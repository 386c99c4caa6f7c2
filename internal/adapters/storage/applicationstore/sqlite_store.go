package applicationstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	storage "recruit/internal/adapters/storage"
	domain "recruit/internal/domain/application"
)

type sqliteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore returns a Store backed by SQLite.
func NewSQLiteStore(db storage.SQLDB) Store {
	return &sqliteStore{db: db}
}

// Save inserts a write-once Application row.
// PRE: app.ID is non-empty
// POST: row inserted, or ErrReadOnly if the id already exists
func (s *sqliteStore) Save(ctx context.Context, app domain.Application) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO application (id, track, sealed_form, submitted_at, ip_address)
		VALUES (?,?,?,?,?)
		ON CONFLICT(id) DO NOTHING`,
		app.ID,
		app.Track,
		app.Sealed,
		app.SubmittedAt.UTC().Format(time.RFC3339),
		app.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("application save: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("application save: %w", err)
	}
	if n == 0 {
		return domain.ErrReadOnly
	}
	return nil
}

// GetByID retrieves one Application with its sealed form payload.
// POST: returns domain.ErrNotFound when no row matches
func (s *sqliteStore) GetByID(ctx context.Context, id string) (domain.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, track, sealed_form, submitted_at, ip_address
		FROM application WHERE id = ?`, id)
	return scanApplication(row.Scan)
}

// List returns every stored Application, newest first.
func (s *sqliteStore) List(ctx context.Context) ([]domain.Application, error) {
	return s.query(ctx, `
		SELECT id, track, sealed_form, submitted_at, ip_address
		FROM application ORDER BY submitted_at DESC, id DESC`)
}

// ListByIDPrefix returns Applications whose id starts with prefix. The track
// is the id prefix by construction, so "baby-" selects the baby track.
func (s *sqliteStore) ListByIDPrefix(ctx context.Context, prefix string) ([]domain.Application, error) {
	return s.query(ctx, `
		SELECT id, track, sealed_form, submitted_at, ip_address
		FROM application WHERE id LIKE ? || '%'
		ORDER BY submitted_at DESC, id DESC`, prefix)
}

// Delete removes an Application. Deleting an unknown id is not an error.
func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM application WHERE id = ?`, id); err != nil {
		return fmt.Errorf("application delete: %w", err)
	}
	return nil
}

func (s *sqliteStore) query(ctx context.Context, q string, args ...any) ([]domain.Application, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("application list: %w", err)
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("application list: %w", err)
	}
	return apps, nil
}

func scanApplication(scan func(...any) error) (domain.Application, error) {
	var app domain.Application
	var submittedAt string
	err := scan(&app.ID, &app.Track, &app.Sealed, &submittedAt, &app.IPAddress)
	if err == sql.ErrNoRows {
		return domain.Application{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Application{}, fmt.Errorf("application scan: %w", err)
	}
	app.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt)
	if err != nil {
		return domain.Application{}, fmt.Errorf("application scan: %w", err)
	}
	return app, nil
}
