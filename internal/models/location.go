package models

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat  float64 `bson:"lat" json:"lat" mapstructure:"lat"`
	Lng  float64 `bson:"lng" json:"lng" mapstructure:"lng"`
	Name string  `bson:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
}
