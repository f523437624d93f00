// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "drop",
						Usage: "Drop all tables before creating them",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// forgeCommand seeds the database with sample data.
func forgeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "forge",
		Usage:  "Generate a user and sample movies",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Forge,
	}
}

// adminCommand provisions the single administrator account.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Create or update the administrator account",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Username used to log in (prompted when omitted)",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password used to log in (prompted when omitted)",
			},
		},
		Action: r.Admin,
	}
}

// serveCommand runs the web application.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web application",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the application in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// moviesCommand handles watchlist queries and exports.
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "movies",
		Usage: "Inspect and export the watchlist",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the watchlist",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:  "export",
				Usage: "Export the watchlist to a file",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown or txt",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: watchlist.{ext})",
					},
				},
				Action: r.MoviesExport,
			},
		},
	}
}
