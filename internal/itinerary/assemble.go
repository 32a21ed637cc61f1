package itinerary

import "github.com/ukydev/fleet-simulator/internal/models"

// Catalog indexes segments by id.
type Catalog map[string]models.Segment

// NewCatalog builds a catalog from a segment list. Later duplicates win.
func NewCatalog(segments []models.Segment) Catalog {
	c := make(Catalog, len(segments))
	for _, s := range segments {
		c[s.ID] = s
	}
	return c
}

// Assemble stitches the trip's segments into one route.
//
// With tripReversed the segments are walked back to front. Each segment is
// flipped when its own reversed flag differs from tripReversed. Segment ids
// missing from the catalog are skipped. Every segment after the first one
// contributes its points minus the first, which is assumed to equal the
// previous segment's last point.
func Assemble(trip models.TripDefinition, catalog Catalog, tripReversed bool) models.Route {
	points := []models.Coordinate{}
	resolved := 0

	n := len(trip.DirectedSegments)
	for i := 0; i < n; i++ {
		ds := trip.DirectedSegments[i]
		if tripReversed {
			ds = trip.DirectedSegments[n-1-i]
		}

		seg, ok := catalog[ds.SegmentID]
		if !ok {
			continue
		}

		segPoints := seg.Points
		if ds.Reversed != tripReversed {
			segPoints = reversed(segPoints)
		}

		if resolved > 0 && len(segPoints) > 0 {
			segPoints = segPoints[1:]
		}
		points = append(points, segPoints...)
		resolved++
	}

	return models.Route{ID: trip.ID, Name: trip.Name, Points: points}
}

func reversed(in []models.Coordinate) []models.Coordinate {
	out := make([]models.Coordinate, len(in))
	for i, p := range in {
		out[len(in)-1-i] = p
	}
	return out
}
