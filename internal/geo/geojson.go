package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/ukydev/fleet-simulator/internal/models"
)

// LineString converts route points to an orb line string. orb points are
// [lng, lat].
func LineString(route models.Route) orb.LineString {
	ls := make(orb.LineString, 0, len(route.Points))
	for _, p := range route.Points {
		ls = append(ls, orb.Point{p.Lng, p.Lat})
	}
	return ls
}

// RouteFeature renders a route as a GeoJSON feature.
func RouteFeature(route models.Route) *geojson.Feature {
	f := geojson.NewFeature(LineString(route))
	f.Properties["id"] = route.ID
	f.Properties["name"] = route.Name
	f.Properties["points"] = len(route.Points)
	return f
}

// RoutesCollection renders routes as a GeoJSON feature collection, in order.
func RoutesCollection(routes []models.Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range routes {
		fc.Append(RouteFeature(r))
	}
	return fc
}
