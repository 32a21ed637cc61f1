package main

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-simulator/internal/config"
	"github.com/urfave/cli/v2"
)

const settingsKey = "settings"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "simulator",
		Usage: "simulate a fleet of vehicles and stream their telemetry",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a settings file (yaml, json or toml)",
				EnvVars: []string{"FLEETSIM_CONFIG"},
			},
		},
		Before: func(c *cli.Context) error {
			if err := config.LoadEnv(); err != nil {
				return err
			}
			settings, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if err := setupLogging(settings.Log); err != nil {
				return err
			}
			c.App.Metadata = map[string]interface{}{settingsKey: settings}
			return nil
		},
		Commands: []*cli.Command{
			runCommand(),
			validateCommand(),
			importCommand(),
		},
	}
}

func settingsFrom(c *cli.Context) *config.Settings {
	return c.App.Metadata[settingsKey].(*config.Settings)
}

func setupLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
