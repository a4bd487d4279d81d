// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "Case-insensitive title substring",
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "Sort key (title or year)",
			Value:   "title",
		},
		&cli.StringFlag{
			Name:    "genre",
			Aliases: []string{"g"},
			Usage:   "Restrict to a genre",
			Value:   "All",
		},
		&cli.IntFlag{
			Name:    "page",
			Aliases: []string{"p"},
			Usage:   "Page number (20 movies per page)",
			Value:   1,
		},
	}
}

func idArgument() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml from the bundled example",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupDatabase,
			},
		},
	}
}

// moviesCommand handles catalog browsing.
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse the movie catalog",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List one page of movies",
				Flags:  append(queryFlags(), jsonFlags()...),
				Action: r.MoviesList,
			},
			{
				Name:      "show",
				Usage:     "Show a movie's details",
				Arguments: idArgument(),
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "trailer",
						Usage: "Open the trailer in your browser",
					},
				}, jsonFlags()...),
				Action: r.MoviesShow,
			},
			{
				Name:  "export",
				Usage: "Export one page, or every page, of movies to disk",
				Flags: append(queryFlags(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv, markdown, txt)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (base name for csv, directory for markdown)",
					},
					&cli.BoolFlag{
						Name:  "posters",
						Usage: "Download posters alongside a markdown export",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every page into the output directory with a manifest",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent page writers for --all (max 10)",
						Value: 4,
					},
				),
				Action: r.MoviesExport,
			},
		},
	}
}

// genresCommand handles genre listing and genre pages.
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Browse movies by genre",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List known genres",
				Flags:  jsonFlags(),
				Action: r.GenresList,
			},
			{
				Name:      "show",
				Usage:     "List one page of a genre",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Usage:   "Page number",
						Value:   1,
					},
				}, jsonFlags()...),
				Action: r.GenresShow,
			},
		},
	}
}

// authCommand handles account operations
func authCommand(r *Runner) *cli.Command {
	credentialFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Account username (prompted when missing)",
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "Account password (prompted when missing)",
			},
		}
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your Filmax account",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Log in and remember the session",
				Flags:  credentialFlags(),
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: append(credentialFlags(), &cli.StringFlag{
					Name:  "role",
					Usage: "Account role (user or admin)",
					Value: "user",
				}),
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged-in account",
				Flags:  jsonFlags(),
				Action: r.AuthWhoami,
			},
			{
				Name:  "history",
				Usage: "Show recent session events on this machine",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of events (0 for all)",
						Value: 20,
					},
				}, jsonFlags()...),
				Action: r.AuthHistory,
			},
		},
	}
}

// favoritesCommand handles the logged-in user's favorites.
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage your favorite movies",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your favorites",
				Flags:  jsonFlags(),
				Action: r.FavoritesList,
			},
			{
				Name:      "add",
				Usage:     "Add a movie to your favorites",
				Arguments: idArgument(),
				Action:    r.FavoritesAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie from your favorites",
				Arguments: idArgument(),
				Action:    r.FavoritesRemove,
			},
			{
				Name:      "toggle",
				Usage:     "Add or remove a movie depending on its current state",
				Arguments: idArgument(),
				Action:    r.FavoritesToggle,
			},
		},
	}
}

// adminCommand handles admin-gated endpoints.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Admin-only operations",
		Commands: []*cli.Command{
			{
				Name:   "ping",
				Usage:  "Call the admin-only endpoint with your session",
				Action: r.AdminPing,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the Filmax backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "auth",
						Usage: "Attach the stored bearer token",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Action:  r.TUI,
	}
}
