// Package geojson encodes visibility polygons as GeoJSON features.
package geojson

import (
	"chosenoffset.com/sightline/internal/world/scene"
	"chosenoffset.com/sightline/visibility"
)

// ContentType is the media type of GeoJSON documents.
const ContentType = "application/geo+json"

type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// NewFeature wraps a visibility polygon as a GeoJSON Feature. Scenes with a
// geographic origin get [lng, lat] coordinates; other scenes keep their
// planar coordinates.
func NewFeature(sc *scene.Scene, observer visibility.Point, polygon visibility.Polygon, clipped bool) Feature {
	ring := polygon.Closed()
	coords := make([][2]float64, len(ring))
	obs := [2]float64{observer.X, observer.Y}
	crs := "planar"

	if proj, err := sc.Projector(); err == nil {
		crs = "wgs84"
		for i, p := range ring {
			ll := proj.ToGeo(p)
			coords[i] = [2]float64{ll.Lng, ll.Lat}
		}
		ll := proj.ToGeo(observer)
		obs = [2]float64{ll.Lng, ll.Lat}
	} else {
		for i, p := range ring {
			coords[i] = [2]float64{p.X, p.Y}
		}
	}

	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Polygon",
			Coordinates: [][][2]float64{coords},
		},
		Properties: map[string]interface{}{
			"scene":    sc.Name,
			"observer": obs,
			"vertices": len(polygon),
			"area":     polygon.Area(),
			"clipped":  clipped,
			"crs":      crs,
		},
	}
}
