package main

import (
	"fmt"

	"github.com/ukydev/fleet-simulator/internal/itinerary"
	"github.com/urfave/cli/v2"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check the catalog and fleet for integrity problems",
		Action: func(c *cli.Context) error {
			lib, fleet, err := loadDocuments(c.Context, settingsFrom(c))
			if err != nil {
				return err
			}

			verr := itinerary.Validate(lib, fleet)
			if verr == nil {
				fmt.Fprintf(c.App.Writer, "ok: %s\n", describe(lib, fleet))
				return nil
			}

			problems := unjoin(verr)
			for _, p := range problems {
				fmt.Fprintln(c.App.Writer, p)
			}
			return cli.Exit(fmt.Sprintf("%d integrity problems found", len(problems)), 1)
		},
	}
}

// unjoin splits an error built with errors.Join back into its parts.
func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
