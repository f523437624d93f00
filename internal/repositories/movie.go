package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/watchlist/internal/models"
	"github.com/desertthunder/watchlist/internal/shared"
)

// MovieRepository implements [models.Repository] for [models.Movie] persistence.
type MovieRepository struct {
	db DBTX
}

// NewMovieRepository creates a new [MovieRepository] with the given database connection
func NewMovieRepository(db DBTX) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create inserts a new movie and sets its ID
func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `INSERT INTO movie (title, year) VALUES (?, ?)`, movie.Title, movie.Year)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read movie id: %w", err)
	}
	movie.ID = id

	return nil
}

// Get retrieves a movie by ID
func (r *MovieRepository) Get(ctx context.Context, id int64) (*models.Movie, error) {
	movie := &models.Movie{}

	err := r.db.QueryRowContext(ctx, `SELECT id, title, year FROM movie WHERE id = ?`, id).
		Scan(&movie.ID, &movie.Title, &movie.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movie %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query movie: %w", err)
	}

	return movie, nil
}

// Update modifies an existing movie in the database
func (r *MovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `UPDATE movie SET title = ?, year = ? WHERE id = ?`, movie.Title, movie.Year, movie.ID)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	return affectedOne(result, fmt.Errorf("movie %d: %w", movie.ID, shared.ErrNotFound))
}

// Delete removes a movie by ID
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM movie WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	return affectedOne(result, fmt.Errorf("movie %d: %w", id, shared.ErrNotFound))
}

// List retrieves all movies in insertion order
func (r *MovieRepository) List(ctx context.Context) ([]*models.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, year FROM movie ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []*models.Movie
	for rows.Next() {
		movie := &models.Movie{}
		if err := rows.Scan(&movie.ID, &movie.Title, &movie.Year); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}

// Count returns the number of movies.
func (r *MovieRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movie`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return n, nil
}
