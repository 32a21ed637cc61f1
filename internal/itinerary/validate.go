package itinerary

import (
	"errors"
	"fmt"

	"github.com/ukydev/fleet-simulator/internal/models"
)

// Validate checks the catalog and fleet for dangling references and
// duplicate ids. It reports every problem found, joined into one error.
func Validate(lib *models.Library, fleet *models.Fleet) error {
	var errs []error

	catalog := make(map[string]struct{}, len(lib.Segments))
	for _, s := range lib.Segments {
		if _, dup := catalog[s.ID]; dup {
			errs = append(errs, fmt.Errorf("segment %q: duplicate id", s.ID))
		}
		catalog[s.ID] = struct{}{}
		if len(s.Points) == 0 {
			errs = append(errs, fmt.Errorf("segment %q: no points", s.ID))
		}
	}

	trips := make(map[string]struct{}, len(lib.Trips))
	for _, t := range lib.Trips {
		if _, dup := trips[t.ID]; dup {
			errs = append(errs, fmt.Errorf("trip %q: duplicate id", t.ID))
		}
		trips[t.ID] = struct{}{}
		for _, ds := range t.DirectedSegments {
			if _, ok := catalog[ds.SegmentID]; !ok {
				errs = append(errs, fmt.Errorf("trip %q: unknown segment %q", t.ID, ds.SegmentID))
			}
		}
	}

	vehicles := make(map[string]struct{}, len(fleet.Vehicles))
	for _, v := range fleet.Vehicles {
		id := v.VehicleID()
		if _, dup := vehicles[id]; dup {
			errs = append(errs, fmt.Errorf("vehicle %q: duplicate id", id))
		}
		vehicles[id] = struct{}{}
		if _, ok := trips[v.TripID]; !ok {
			errs = append(errs, fmt.Errorf("vehicle %q: unknown trip %q", id, v.TripID))
		}
		if _, err := models.ParseVehicleType(v.Type); err != nil {
			errs = append(errs, fmt.Errorf("vehicle %q: %w", id, err))
		}
	}

	return errors.Join(errs...)
}
