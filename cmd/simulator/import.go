package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-simulator/internal/itinerary"
	"github.com/urfave/cli/v2"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "replace the MongoDB catalog and fleet with the configured files",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "import even when the documents have integrity problems",
			},
		},
		Action: func(c *cli.Context) error {
			s := settingsFrom(c)

			lib, fleet, err := loadFiles(s)
			if err != nil {
				return err
			}
			if err := itinerary.Validate(lib, fleet); err != nil && !c.Bool("force") {
				return fmt.Errorf("refusing to import, use --force to override: %w", err)
			}

			catalog, closeFn, err := connectCatalog(c.Context, s)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := catalog.Import(c.Context, lib, fleet); err != nil {
				return err
			}
			log.WithField("database", s.Mongo.Database).Info("Catalog imported")
			fmt.Fprintf(c.App.Writer, "imported %s\n", describe(lib, fleet))
			return nil
		},
	}
}
