package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/watchlist/internal/auth"
	"github.com/desertthunder/watchlist/internal/repositories"
	"github.com/desertthunder/watchlist/internal/shared"
	tu "github.com/desertthunder/watchlist/internal/testing"
	"github.com/desertthunder/watchlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// newTestRunner returns a runner whose default config points at a fresh database file.
func newTestRunner(t *testing.T, prompt PromptFunc) (*Runner, *bytes.Buffer, string) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "data.db")
	config.Server.Host = "127.0.0.1"
	config.Server.Port = 0

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
		Prompt: prompt,
	})
	return runner, output, config.Database.Path
}

func run(ctx context.Context, r *Runner, args ...string) error {
	app := &cli.Command{Name: "watchlist", Commands: r.register(), Writer: io.Discard}
	return app.Run(ctx, append([]string{"watchlist"}, args...))
}

// missingConfig is a --config value that never exists, so the runner's own config is used.
func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.toml")
}

func openTestStore(t *testing.T, path string) *repositories.Store {
	t.Helper()
	db, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repositories.NewStore(db)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{Config: config, Logger: logger, Output: output})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.prompt == nil {
				t.Error("expected default prompt to be set")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewLimitedWriter(1, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "forge", "admin", "serve", "movies"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil || cmd.Name != want[i] {
				t.Errorf("command at index %d: expected %s, got %+v", i, want[i], cmd)
			}
		}
	})
}

func TestSetupDatabase(t *testing.T) {
	t.Run("creates config and tables", func(t *testing.T) {
		runner, output, dbPath := newTestRunner(t, nil)
		t.Setenv("DATABASE_PATH", dbPath)
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := run(context.Background(), runner, "setup", "database", "--config", configPath); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}

		tu.AssertFileExists(t, configPath)
		tu.AssertFileExists(t, dbPath)
		if !strings.Contains(output.String(), "Initialized database.") {
			t.Errorf("unexpected output %q", output.String())
		}

		count, err := openTestStore(t, dbPath).Movies.Count(context.Background())
		if err != nil || count != 0 {
			t.Errorf("expected empty movie table, got %d, %v", count, err)
		}
	})

	t.Run("drop clears existing data", func(t *testing.T) {
		runner, output, dbPath := newTestRunner(t, nil)
		t.Setenv("DATABASE_PATH", dbPath)
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := run(context.Background(), runner, "forge", "--config", missingConfig(t)); err != nil {
			t.Fatalf("forge failed: %v", err)
		}
		if err := run(context.Background(), runner, "setup", "database", "--config", configPath, "--drop"); err != nil {
			t.Fatalf("setup database --drop failed: %v", err)
		}
		if !strings.Contains(output.String(), "Dropped tables (1 migrations rolled back).") {
			t.Errorf("expected a drop warning, got %q", output.String())
		}

		store := openTestStore(t, dbPath)
		count, err := store.Movies.Count(context.Background())
		if err != nil || count != 0 {
			t.Errorf("expected no movies after drop, got %d, %v", count, err)
		}
		if _, err := store.Users.First(context.Background()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected no user after drop, got %v", err)
		}
	})
}

func TestForge(t *testing.T) {
	runner, output, dbPath := newTestRunner(t, nil)
	ctx := context.Background()

	for range 2 {
		if err := run(ctx, runner, "forge", "--config", missingConfig(t)); err != nil {
			t.Fatalf("forge failed: %v", err)
		}
	}

	store := openTestStore(t, dbPath)
	users, err := store.Users.List(ctx)
	if err != nil {
		t.Fatalf("failed to list users: %v", err)
	}
	if len(users) != 1 || users[0].Name != forgeName {
		t.Errorf("expected a single %s user, got %+v", forgeName, users)
	}

	movies, err := store.Movies.List(ctx)
	if err != nil {
		t.Fatalf("failed to list movies: %v", err)
	}
	if len(movies) != 2*len(forgeMovies) {
		t.Errorf("expected %d movies, got %d", 2*len(forgeMovies), len(movies))
	}
	if movies[3].Title != "Leon" || movies[3].Year != "1994" {
		t.Errorf("unexpected fourth movie %+v", movies[3])
	}
	if !strings.Contains(output.String(), "Done.") {
		t.Errorf("unexpected output %q", output.String())
	}
}

func TestAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the administrator from flags", func(t *testing.T) {
		runner, output, dbPath := newTestRunner(t, func(context.Context, string) (ui.Credentials, error) {
			t.Fatal("prompt should not run when flags are complete")
			return ui.Credentials{}, nil
		})

		if err := run(ctx, runner, "admin", "--config", missingConfig(t), "--username", "alice", "--password", "correctpw"); err != nil {
			t.Fatalf("admin failed: %v", err)
		}

		user, err := openTestStore(t, dbPath).Users.First(ctx)
		if err != nil {
			t.Fatalf("expected a user, got %v", err)
		}
		if user.Name != defaultAdminName || user.Username != "alice" {
			t.Errorf("unexpected user %+v", user)
		}
		if !auth.VerifyPassword("correctpw", user.PasswordHash) {
			t.Error("stored hash should verify the password")
		}
		if !strings.Contains(output.String(), "Creating user...") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("accepts passwords past the bcrypt input limit", func(t *testing.T) {
		runner, _, dbPath := newTestRunner(t, nil)
		password := strings.Repeat("p", 100)

		if err := run(ctx, runner, "admin", "--config", missingConfig(t), "-u", "alice", "-p", password); err != nil {
			t.Fatalf("admin failed: %v", err)
		}

		user, err := openTestStore(t, dbPath).Users.First(ctx)
		if err != nil {
			t.Fatalf("expected a user, got %v", err)
		}
		if !auth.VerifyPassword(password, user.PasswordHash) {
			t.Error("stored hash should verify the long password")
		}
	})

	t.Run("updates the existing user", func(t *testing.T) {
		runner, output, dbPath := newTestRunner(t, nil)
		cfg := missingConfig(t)

		if err := run(ctx, runner, "forge", "--config", cfg); err != nil {
			t.Fatalf("forge failed: %v", err)
		}
		if err := run(ctx, runner, "admin", "--config", cfg, "-u", "grey", "-p", "s3cret"); err != nil {
			t.Fatalf("admin failed: %v", err)
		}

		users, err := openTestStore(t, dbPath).Users.List(ctx)
		if err != nil || len(users) != 1 {
			t.Fatalf("expected one user, got %d, %v", len(users), err)
		}
		if users[0].Name != forgeName || users[0].Username != "grey" {
			t.Errorf("unexpected user %+v", users[0])
		}
		if !strings.Contains(output.String(), "Updating user...") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("prompts for missing values", func(t *testing.T) {
		var prefilled string
		runner, _, dbPath := newTestRunner(t, func(_ context.Context, username string) (ui.Credentials, error) {
			prefilled = username
			return ui.Credentials{Username: "bob", Password: "pw"}, nil
		})

		if err := run(ctx, runner, "admin", "--config", missingConfig(t), "--username", "robert"); err != nil {
			t.Fatalf("admin failed: %v", err)
		}
		if prefilled != "robert" {
			t.Errorf("prompt should be pre-filled with the flag, got %q", prefilled)
		}

		user, err := openTestStore(t, dbPath).Users.First(ctx)
		if err != nil || user.Username != "bob" {
			t.Errorf("expected prompted username, got %+v, %v", user, err)
		}
	})

	t.Run("cancelled prompt", func(t *testing.T) {
		runner, _, dbPath := newTestRunner(t, func(context.Context, string) (ui.Credentials, error) {
			return ui.Credentials{}, shared.ErrCancelled
		})

		err := run(ctx, runner, "admin", "--config", missingConfig(t))
		if !errors.Is(err, shared.ErrCancelled) {
			t.Fatalf("expected ErrCancelled, got %v", err)
		}
		if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
			t.Error("a cancelled prompt should not touch the database")
		}
	})
}

func TestMovies(t *testing.T) {
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, nil)
		cfg := missingConfig(t)
		if err := run(ctx, runner, "forge", "--config", cfg); err != nil {
			t.Fatalf("forge failed: %v", err)
		}
		output.Reset()

		if err := run(ctx, runner, "movies", "list", "--config", cfg); err != nil {
			t.Fatalf("movies list failed: %v", err)
		}

		for _, want := range []string{"Grey Li's Watchlist", "Titles: 10", "4. Leon (1994)", "10. The Pork of Music (2012)"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("output missing %q:\n%s", want, output.String())
			}
		}
	})

	t.Run("list as JSON", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, nil)
		cfg := missingConfig(t)
		if err := run(ctx, runner, "forge", "--config", cfg); err != nil {
			t.Fatalf("forge failed: %v", err)
		}
		output.Reset()

		if err := run(ctx, runner, "movies", "list", "--config", cfg, "--json"); err != nil {
			t.Fatalf("movies list failed: %v", err)
		}
		if !strings.Contains(output.String(), `"title": "WALL-E"`) {
			t.Errorf("expected JSON output, got %s", output.String())
		}
	})

	t.Run("export", func(t *testing.T) {
		runner, output, _ := newTestRunner(t, nil)
		cfg := missingConfig(t)
		if err := run(ctx, runner, "forge", "--config", cfg); err != nil {
			t.Fatalf("forge failed: %v", err)
		}

		path := filepath.Join(t.TempDir(), "movies.md")
		if err := run(ctx, runner, "movies", "export", "--config", cfg, "--format", "markdown", "--output", path); err != nil {
			t.Fatalf("movies export failed: %v", err)
		}

		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "# Grey Li's Watchlist") || !strings.Contains(content, "9. WALL-E (2008)") {
			t.Errorf("unexpected export:\n%s", content)
		}
		if !strings.Contains(output.String(), "10 movies to "+path) {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("export rejects unknown formats", func(t *testing.T) {
		runner, _, _ := newTestRunner(t, nil)

		err := run(ctx, runner, "movies", "export", "--config", missingConfig(t), "--format", "pdf")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestServe(t *testing.T) {
	runner, _, dbPath := newTestRunner(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, runner, "serve", "--config", missingConfig(t)); err != nil {
		t.Fatalf("serve should shut down cleanly, got %v", err)
	}
	tu.AssertFileExists(t, dbPath)
}
