package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		migrateCommand(r),
		catalogCommand(r),
		subscriptionsCommand(r),
		usersCommand(r),
	}
}

// migrateCommand управляет схемой базы
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Database schema migrations",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: r.MigrateUp,
			},
			{
				Name:  "down",
				Usage: "Roll back the latest migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "steps",
						Usage: "Number of migrations to roll back",
						Value: 1,
					},
				},
				Action: r.MigrateDown,
			},
			{
				Name:   "version",
				Usage:  "Print the current schema version",
				Action: r.MigrateVersion,
			},
		},
	}
}

// catalogCommand загружает каталог
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Catalog maintenance",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import genres, artists, albums and songs from a TOML file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to catalog TOML file",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Validate the file without writing to the database",
					},
				},
				Action: r.CatalogImport,
			},
		},
	}
}

// subscriptionsCommand обслуживает подписки
func subscriptionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "subscriptions",
		Usage: "Artist subscription maintenance",
		Commands: []*cli.Command{
			{
				Name:   "expire",
				Usage:  "Mark overdue active subscriptions as expired",
				Action: r.SubscriptionsExpire,
			},
		},
	}
}

// usersCommand управляет ролями
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "User administration",
		Commands: []*cli.Command{
			{
				Name:  "promote",
				Usage: "Grant the admin role to a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Username to promote",
						Required: true,
					},
				},
				Action: r.UsersPromote,
			},
		},
	}
}
