// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, recordsCommand, columnsCommand, lookupCommand, networkCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a config.toml template to the given path",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// serveCommand starts the HTTP API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the collection API server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides the config file",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles account and session operations.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account on the server",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Log in and save the session token",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Invalidate the session and remove the saved token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: r.AuthStatus,
			},
		},
	}
}

// recordsCommand handles collection record operations.
func recordsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "records",
		Aliases: []string{"rec"},
		Usage:   "Manage collection records",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the collection",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: table, markdown, or json",
						Value:   "table",
					},
				},
				Action: r.RecordsList,
			},
			{
				Name:  "add",
				Usage: "Look up a barcode or Discogs URL and add the release",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "notes",
						Usage: "Initial notes for the record",
					},
				},
				Action: r.RecordsAdd,
			},
			{
				Name:  "delete",
				Usage: "Delete a record by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.RecordsDelete,
			},
			{
				Name:  "notes",
				Usage: "Replace a record's notes",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "text"},
				},
				Action: r.RecordsNotes,
			},
		},
	}
}

// columnsCommand handles custom column operations.
func columnsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "columns",
		Aliases: []string{"col"},
		Usage:   "Manage custom columns",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List custom column definitions",
				Action: r.ColumnsList,
			},
			{
				Name:  "add",
				Usage: "Define a custom column",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Column name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Column type: text, number, select, or boolean",
						Value: "text",
					},
					&cli.StringSliceFlag{
						Name:  "option",
						Usage: "Allowed value for a select column (repeatable)",
					},
				},
				Action: r.ColumnsAdd,
			},
			{
				Name:  "delete",
				Usage: "Delete a custom column by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.ColumnsDelete,
			},
			{
				Name:  "set",
				Usage: "Set a record's value for a custom column",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "record"},
					&cli.StringArg{Name: "column"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.ColumnsSet,
			},
		},
	}
}

// lookupCommand handles release lookups without adding to the collection.
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "Look up releases on Discogs and Spotify",
		Commands: []*cli.Command{
			{
				Name:  "barcode",
				Usage: "Look up a release by UPC/EAN barcode",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "barcode"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the Discogs release page in a browser",
					},
				},
				Action: r.LookupBarcode,
			},
			{
				Name:  "discogs",
				Usage: "Look up a release by Discogs URL or numeric ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the Discogs release page in a browser",
					},
				},
				Action: r.LookupDiscogs,
			},
			{
				Name:  "spotify",
				Usage: "Find a matching Spotify album for cover art and links",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Artist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "album",
						Usage:    "Album title",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LookupSpotify,
			},
		},
	}
}

// networkCommand handles musician network analysis.
func networkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "network",
		Aliases: []string{"net"},
		Usage:   "Explore the collection's musician network",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show network statistics and session musicians",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top",
						Usage: "Number of top musicians to show",
						Value: 10,
					},
				},
				Action: r.NetworkStats,
			},
			{
				Name:  "musician",
				Usage: "Show one musician's albums and collaborators",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.NetworkMusician,
			},
			{
				Name:  "graph",
				Usage: "Export the collaboration graph as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to stdout)",
					},
					&cli.StringFlag{
						Name:  "role",
						Usage: "Keep only links with this instrument role",
					},
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Keep only links with this genre",
					},
					&cli.StringFlag{
						Name:  "style",
						Usage: "Keep only links with this style",
					},
				},
				Action: r.NetworkGraph,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive collection management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for collection management",
		Action:  r.TUI,
	}
}
