package geo

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-simulator/internal/models"
)

func TestLineString_LngLatOrder(t *testing.T) {
	route := models.Route{ID: "r1", Points: []models.Coordinate{{Lat: 18.0, Lng: 98.0}, {Lat: 18.1, Lng: 98.2}}}

	ls := LineString(route)

	require.Len(t, ls, 2)
	assert.Equal(t, orb.Point{98.0, 18.0}, ls[0])
	assert.Equal(t, orb.Point{98.2, 18.1}, ls[1])
}

func TestRoutesCollection(t *testing.T) {
	routes := []models.Route{
		{ID: "t1", Name: "Old City Loop", Points: []models.Coordinate{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}},
		{ID: "t2", Name: "Empty"},
	}

	fc := RoutesCollection(routes)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "t1", fc.Features[0].Properties["id"])
	assert.Equal(t, "Old City Loop", fc.Features[0].Properties["name"])
	assert.Equal(t, 2, fc.Features[0].Properties["points"])

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string      `json:"type"`
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Type)
	assert.Equal(t, "LineString", decoded.Features[0].Geometry.Type)
	assert.Equal(t, [][]float64{{2, 1}, {4, 3}}, decoded.Features[0].Geometry.Coordinates)
}
