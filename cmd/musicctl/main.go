// Command musicctl обслуживает базу сервиса: миграции, импорт каталога,
// истечение подписок и выдачу роли администратора.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:  "musicctl",
		Usage: "Maintenance commands for the music-streaming service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   runner.Before,
		After:    runner.After,
		Commands: runner.register(),
	}
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	if err := newApp(NewRunner(logger, os.Stdout)).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("musicctl: %v", err)
	}
}
