package models

// Segment is a reusable stretch of path stored once in the catalog.
type Segment struct {
	ID     string       `bson:"_id" json:"id" mapstructure:"id"`
	Name   string       `bson:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Points []Coordinate `bson:"points" json:"points" mapstructure:"points"`
}

// DirectedSegment references a catalog segment with a local orientation flag.
type DirectedSegment struct {
	SegmentID string `bson:"segment_id" json:"segmentId" mapstructure:"segmentId"`
	Reversed  bool   `bson:"reversed" json:"reversed,omitempty" mapstructure:"reversed"`
}

// TripDefinition chains directed segments into one logical path.
type TripDefinition struct {
	ID               string            `bson:"_id" json:"id" mapstructure:"id"`
	Name             string            `bson:"name" json:"name" mapstructure:"name"`
	DirectedSegments []DirectedSegment `bson:"directed_segments" json:"directedSegments" mapstructure:"directedSegments"`
}

// Route is the point-level polyline a vehicle follows for one leg.
// Consecutive points may be equal.
type Route struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Points []Coordinate `json:"points"`
}

// Reversed returns a copy of r with its points in reverse order.
func (r Route) Reversed() Route {
	points := make([]Coordinate, len(r.Points))
	for i, p := range r.Points {
		points[len(r.Points)-1-i] = p
	}
	return Route{ID: r.ID, Name: r.Name, Points: points}
}

// Library is the segment/trip catalog document.
type Library struct {
	Segments []Segment        `json:"segments" mapstructure:"segments"`
	Trips    []TripDefinition `json:"trips" mapstructure:"trips"`
}

// FindTrip returns the trip with the given id.
func (l *Library) FindTrip(id string) (TripDefinition, bool) {
	for _, t := range l.Trips {
		if t.ID == id {
			return t, true
		}
	}
	return TripDefinition{}, false
}
