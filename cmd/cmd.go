// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config file, initialize database, and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the AniList developer settings page to create an API token",
			},
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Roll back the most recent migration instead of migrating",
			},
		},
		Action: r.Setup,
	}
}

// notesCommand handles local note operations
func notesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "notes",
		Aliases: []string{"n"},
		Usage:   "Read and write anime notes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all notes from the active source",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source to list from (local or anilist)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.NotesList,
			},
			{
				Name:  "get",
				Usage: "Print the note for an anime",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source to read from (local or anilist)",
					},
				},
				Action: r.NotesGet,
			},
			{
				Name:  "set",
				Usage: "Write the note for an anime",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "text"},
				},
				Action: r.NotesSet,
			},
			{
				Name:    "rm",
				Aliases: []string{"delete"},
				Usage:   "Delete the note for an anime",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.NotesRemove,
			},
			{
				Name:  "export",
				Usage: "Export notes to a file or stdout",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source to export from (local or anilist)",
					},
				},
				Action: r.NotesExport,
			},
		},
	}
}

// anilistCommand handles AniList operations
func anilistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "anilist",
		Aliases: []string{"al"},
		Usage:   "AniList note operations",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch one note from AniList and cache it locally",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.AniListFetch,
			},
			{
				Name:  "pull",
				Usage: "Fetch all AniList notes (merged locally unless dual-view)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AniListPull,
			},
			{
				Name:   "push",
				Usage:  "Push all non-empty local notes to AniList",
				Action: r.AniListPush,
			},
			{
				Name:   "whoami",
				Usage:  "Show the authenticated AniList user",
				Action: r.AniListWhoami,
			},
		},
	}
}

// syncCommand reconciles local notes with AniList per the configured mode.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "Pull AniList notes, then push local notes",
		Action: r.Sync,
	}
}

// tuiCommand returns the top-level TUI command for interactive note management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing and editing notes",
		Action:  r.TUI,
	}
}
