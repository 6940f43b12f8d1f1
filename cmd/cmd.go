// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Destination for the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email address",
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email address",
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "status",
				Usage:  "Check the current session against the platform",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "import",
				Usage: "Import a session token from a browser cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.AuthImport,
			},
		},
	}
}

// booksCommand handles catalog browsing and social actions
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "books",
		Aliases: []string{"b"},
		Usage:   "Browse the catalog and act on books",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List one page of the catalog",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Usage:   "Page number",
						Value:   1,
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort field (createdAt, title, author, rating, likes, favorites)",
						Value: "createdAt",
					},
					&cli.StringFlag{
						Name:  "order",
						Usage: "Sort order (asc or desc)",
						Value: "desc",
					},
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Filter by title or author",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by local reading status (comma separated)",
					},
					&cli.BoolFlag{
						Name:  "favorites",
						Usage: "Only show favorited books",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.BooksList,
			},
			{
				Name:  "show",
				Usage: "Show a book's metadata and chapters",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.BooksShow,
			},
			{
				Name:  "like",
				Usage: "Toggle the like on a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.BooksLike,
			},
			{
				Name:  "favorite",
				Usage: "Toggle the favorite on a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.BooksFavorite,
			},
			{
				Name:  "rate",
				Usage: "Rate a book from 1 to 5 stars",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "stars",
						Usage:    "Star rating (1-5)",
						Required: true,
					},
				},
				Action: r.BooksRate,
			},
			{
				Name:  "comments",
				Usage: "List a book's comments",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.BooksComments,
			},
			{
				Name:  "comment",
				Usage: "Add a comment to a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "text"},
				},
				Action: r.BooksComment,
			},
			{
				Name:  "tag",
				Usage: "Add a tag to a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "tag"},
				},
				Action: r.BooksTag,
			},
			{
				Name:  "untag",
				Usage: "Remove a tag from a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "tag"},
				},
				Action: r.BooksUntag,
			},
			{
				Name:  "update",
				Usage: "Update a book's notes or status",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "notes",
						Usage: "Replace the book's notes",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Replace the book's status",
					},
				},
				Action: r.BooksUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.BooksDelete,
			},
			{
				Name:  "open",
				Usage: "Open a book's cover image in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.BooksOpen,
			},
		},
	}
}

// uploadCommand handles publishing a new book
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Publish a new book to the platform",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "title",
				Usage:    "Book title",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "author",
				Usage:    "Author name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "isbn",
				Usage:    "ISBN",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Book description",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Category",
				Value: "Fiction",
			},
			&cli.StringFlag{
				Name:  "language",
				Usage: "Language",
				Value: "English",
			},
			&cli.IntFlag{
				Name:  "year",
				Usage: "Publication year",
			},
			&cli.StringFlag{
				Name:  "publisher",
				Usage: "Publisher",
			},
			&cli.StringFlag{
				Name:  "from-pdf",
				Usage: "Import chapters from a PDF file, one per page",
			},
			&cli.StringSliceFlag{
				Name:  "chapter",
				Usage: "Chapter as 'Title=path/to/content.txt' (repeatable)",
			},
			&cli.StringFlag{
				Name:  "cover",
				Usage: "Path to a cover image (max 5MB)",
			},
		},
		Action: r.Upload,
	}
}

// profileCommand handles the authenticated user's profile
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "View and edit your profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show your profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
					&cli.StringFlag{
						Name:  "bio",
						Usage: "Profile bio",
					},
					&cli.StringFlag{
						Name:  "theme",
						Usage: "Preferred theme",
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Preferred language",
					},
				},
				Action: r.ProfileUpdate,
			},
			{
				Name:  "avatar",
				Usage: "Upload a new avatar image",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.ProfileAvatar,
			},
			{
				Name:  "interests",
				Usage: "Toggle reading interests",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "genre"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "list",
						Usage: "List available genres",
					},
				},
				Action: r.ProfileInterests,
			},
		},
	}
}

// notificationsCommand handles platform notifications
func notificationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "notifications",
		Aliases: []string{"notif"},
		Usage:   "Manage notifications",
		Commands: []*cli.Command{
			{
				Name:   "read",
				Usage:  "Mark all notifications as read",
				Action: r.NotificationsRead,
			},
		},
	}
}

// exportCommand handles exporting books to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export books to local files",
		Commands: []*cli.Command{
			{
				Name:  "book",
				Usage: "Export one book",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (markdown, csv, txt)",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path",
					},
					&cli.BoolFlag{
						Name:  "cover",
						Usage: "Download the cover image (markdown only)",
					},
				},
				Action: r.ExportBook,
			},
			{
				Name:  "all",
				Usage: "Export the whole catalog with a worker pool",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (markdown, csv, txt)",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent workers (max 10)",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "covers",
						Usage: "Download cover images (markdown only)",
					},
				},
				Action: r.ExportAll,
			},
			{
				Name:  "sync",
				Usage: "Mirror the remote catalog into the local cache",
				Action: r.ExportSync,
			},
		},
	}
}

// historyCommand handles the local reading history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Track local reading history",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Record a book's reading status",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "status",
						Usage:    "Reading status (reading, wantToRead, completed)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "chapter",
						Usage: "Current chapter index",
					},
					&cli.IntFlag{
						Name:  "minutes",
						Usage: "Minutes read to add",
					},
				},
				Action: r.HistorySet,
			},
			{
				Name:  "list",
				Usage: "List reading history",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
		},
	}
}

// goalsCommand handles reading goals and achievements
func goalsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "goals",
		Usage: "Reading goals and achievements",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a reading goal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "type",
						Usage:    "Goal type (books, pages, time)",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "target",
						Usage:    "Target amount",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "timeframe",
						Usage: "Timeframe label (weekly, monthly, yearly)",
						Value: "monthly",
					},
				},
				Action: r.GoalsAdd,
			},
			{
				Name:  "list",
				Usage: "List reading goals",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (active, completed)",
					},
				},
				Action: r.GoalsList,
			},
			{
				Name:  "progress",
				Usage: "Add progress toward a goal",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "amount",
						Usage:    "Progress amount to add",
						Required: true,
					},
				},
				Action: r.GoalsProgress,
			},
			{
				Name:   "achievements",
				Usage:  "Show unlocked achievement badges",
				Action: r.GoalsAchievements,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive reading.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive library browser and reader",
		Action:  r.TUI,
	}
}
