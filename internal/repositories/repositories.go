// package repositories provides persistence layer implementations for all model types.
//
// Each repository implements models.Repository[T] for a specific entity type.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/watchlist/internal/models"
)

// DBTX is the subset of [sql.DB] and [sql.Tx] the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)

	_ models.Repository[*models.User]  = (*UserRepository)(nil)
	_ models.Repository[*models.Movie] = (*MovieRepository)(nil)
)

// Store groups the repositories bound to one connection or transaction.
type Store struct {
	db     *sql.DB
	Users  *UserRepository
	Movies *MovieRepository
}

// NewStore creates a [Store] whose repositories run directly against db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		Users:  NewUserRepository(db),
		Movies: NewMovieRepository(db),
	}
}

// WithTx runs fn with a [Store] bound to a new transaction.
//
// The transaction commits when fn returns nil and rolls back otherwise. Calling WithTx on a
// store that is already transactional runs fn in the existing transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{Users: NewUserRepository(tx), Movies: NewMovieRepository(tx)}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// nullable stores empty strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// affectedOne checks that a statement touched a row, mapping zero rows to errNotFound.
func affectedOne(result sql.Result, errNotFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return errNotFound
	}
	return nil
}
