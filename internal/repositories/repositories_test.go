package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/watchlist/internal/models"
	"github.com/desertthunder/watchlist/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := models.NewUser("Grey Li")

		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if user.ID == 0 {
			t.Error("user ID should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := &models.User{Name: "Grey Li", Username: "grey", PasswordHash: "hash"}

		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		retrieved, err := repo.Get(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if *retrieved != *user {
			t.Errorf("expected %+v, got %+v", user, retrieved)
		}
	})

	t.Run("Get without credentials", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := models.NewUser("Grey Li")

		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		retrieved, err := repo.Get(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if retrieved.Username != "" || retrieved.PasswordHash != "" {
			t.Errorf("expected NULL credentials to scan as empty, got %+v", retrieved)
		}
	})

	t.Run("First", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		for _, name := range []string{"first", "second"} {
			if err := repo.Create(ctx, models.NewUser(name)); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}
		}

		first, err := repo.First(ctx)
		if err != nil {
			t.Fatalf("failed to get first user: %v", err)
		}
		if first.Name != "first" {
			t.Errorf("expected first user, got %s", first.Name)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := models.NewUser("Grey Li")

		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		user.Name = "Grey"
		user.Username = "admin"
		user.PasswordHash = "digest"
		if err := repo.Update(ctx, user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		retrieved, err := repo.Get(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if retrieved.Name != "Grey" || retrieved.Username != "admin" || retrieved.PasswordHash != "digest" {
			t.Errorf("update not persisted: %+v", retrieved)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		user := models.NewUser("Grey Li")

		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if err := repo.Delete(ctx, user.ID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := repo.Get(ctx, user.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		for _, name := range []string{"one", "two", "three"} {
			if err := repo.Create(ctx, models.NewUser(name)); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}
		}

		users, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}

		if len(users) != 3 {
			t.Fatalf("expected 3 users, got %d", len(users))
		}
		if users[0].Name != "one" || users[2].Name != "three" {
			t.Errorf("users not in insertion order: %s, %s", users[0].Name, users[2].Name)
		}
	})
}

func TestMovieRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))
		movie := models.NewMovie("Leon", "1994")

		if err := repo.Create(ctx, movie); err != nil {
			t.Fatalf("failed to create movie: %v", err)
		}

		if movie.ID != 1 {
			t.Errorf("expected first movie to get ID 1, got %d", movie.ID)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))
		movie := models.NewMovie("WALL-E", "2008")

		if err := repo.Create(ctx, movie); err != nil {
			t.Fatalf("failed to create movie: %v", err)
		}

		retrieved, err := repo.Get(ctx, movie.ID)
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}

		if *retrieved != *movie {
			t.Errorf("expected %+v, got %+v", movie, retrieved)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))
		movie := models.NewMovie("Leon", "1994")

		if err := repo.Create(ctx, movie); err != nil {
			t.Fatalf("failed to create movie: %v", err)
		}

		movie.Title = "Leon: The Professional"
		if err := repo.Update(ctx, movie); err != nil {
			t.Fatalf("failed to update movie: %v", err)
		}

		retrieved, err := repo.Get(ctx, movie.ID)
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if retrieved.Title != "Leon: The Professional" {
			t.Errorf("expected updated title, got %s", retrieved.Title)
		}
	})

	t.Run("Delete leaves other rows", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))

		movies := []*models.Movie{
			models.NewMovie("My Neighbor Totoro", "1988"),
			models.NewMovie("Dead Poets Society", "1989"),
			models.NewMovie("A Perfect World", "1993"),
		}
		for _, m := range movies {
			if err := repo.Create(ctx, m); err != nil {
				t.Fatalf("failed to create movie: %v", err)
			}
		}

		if err := repo.Delete(ctx, movies[1].ID); err != nil {
			t.Fatalf("failed to delete movie: %v", err)
		}

		remaining, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}

		if len(remaining) != 2 {
			t.Fatalf("expected 2 movies, got %d", len(remaining))
		}
		if remaining[0].ID != movies[0].ID || remaining[1].ID != movies[2].ID {
			t.Errorf("unexpected remaining movies: %v, %v", remaining[0], remaining[1])
		}
	})

	t.Run("List and Count", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))

		empty, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("expected no movies, got %d", len(empty))
		}

		for _, title := range []string{"c", "a", "b"} {
			if err := repo.Create(ctx, models.NewMovie(title, "2000")); err != nil {
				t.Fatalf("failed to create movie: %v", err)
			}
		}

		movies, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}
		if movies[0].Title != "c" || movies[1].Title != "a" || movies[2].Title != "b" {
			t.Error("movies should be listed in insertion order")
		}

		n, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count movies: %v", err)
		}
		if n != 3 {
			t.Errorf("expected count 3, got %d", n)
		}
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("WithTx commits", func(t *testing.T) {
		store := NewStore(setupTestDB(t))

		err := store.WithTx(ctx, func(tx *Store) error {
			return tx.Movies.Create(ctx, models.NewMovie("Mahjong", "1996"))
		})
		if err != nil {
			t.Fatalf("WithTx() error = %v", err)
		}

		n, _ := store.Movies.Count(ctx)
		if n != 1 {
			t.Errorf("expected committed movie, got count %d", n)
		}
	})

	t.Run("WithTx rolls back on error", func(t *testing.T) {
		store := NewStore(setupTestDB(t))
		boom := errors.New("boom")

		err := store.WithTx(ctx, func(tx *Store) error {
			if err := tx.Movies.Create(ctx, models.NewMovie("Mahjong", "1996")); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		n, _ := store.Movies.Count(ctx)
		if n != 0 {
			t.Errorf("expected rollback, got count %d", n)
		}
	})

	t.Run("nested WithTx reuses transaction", func(t *testing.T) {
		store := NewStore(setupTestDB(t))

		err := store.WithTx(ctx, func(tx *Store) error {
			return tx.WithTx(ctx, func(inner *Store) error {
				if inner != tx {
					t.Error("expected the same transactional store")
				}
				return nil
			})
		})
		if err != nil {
			t.Fatalf("WithTx() error = %v", err)
		}
	})
}
