package server

import (
	"fmt"

	"chosenoffset.com/sightline/visibility"
)

// Points travel as [x, y] pairs, like in scene files.

type viewportJSON struct {
	Min [2]float64 `json:"min"`
	Max [2]float64 `json:"max"`
}

type visibilityRequest struct {
	ID                 string          `json:"id,omitempty"`
	Scene              string          `json:"scene,omitempty"`
	Observer           *[2]float64     `json:"observer"`
	Obstacles          [][][2]float64  `json:"obstacles,omitempty"`
	Segments           [][2][2]float64 `json:"segments,omitempty"`
	Viewport           *viewportJSON   `json:"viewport,omitempty"`
	BreakIntersections *bool           `json:"break_intersections,omitempty"`
}

type visibilityResponse struct {
	ID       string       `json:"id,omitempty"`
	Polygon  [][2]float64 `json:"polygon"`
	Vertices int          `json:"vertices"`
	Area     float64      `json:"area"`
	Segments int          `json:"segments"`
	Clipped  bool         `json:"clipped"`
	Reused   bool         `json:"reused,omitempty"`
}

type segmentsRequest struct {
	Polygons           [][][2]float64 `json:"polygons"`
	BreakIntersections *bool          `json:"break_intersections,omitempty"`
}

type segmentsResponse struct {
	Segments [][2][2]float64 `json:"segments"`
	Count    int             `json:"count"`
}

type containsRequest struct {
	Point   *[2]float64  `json:"point"`
	Polygon [][2]float64 `json:"polygon"`
}

type containsResponse struct {
	Inside bool `json:"inside"`
}

type sceneSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Segments    int    `json:"segments"`
	Geo         bool   `json:"geo"`
	Viewport    bool   `json:"viewport"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toPoint(p [2]float64) visibility.Point {
	return visibility.Point{X: p[0], Y: p[1]}
}

func fromPolygon(polygon visibility.Polygon) [][2]float64 {
	out := make([][2]float64, len(polygon))
	for i, p := range polygon {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func fromSegments(segments []visibility.Segment) [][2][2]float64 {
	out := make([][2][2]float64, len(segments))
	for i, s := range segments {
		out[i] = [2][2]float64{{s.A.X, s.A.Y}, {s.B.X, s.B.Y}}
	}
	return out
}

// toPolygons converts obstacle rings, rejecting rings that cannot enclose
// anything.
func toPolygons(rings [][][2]float64) ([]visibility.Polygon, error) {
	polygons := make([]visibility.Polygon, len(rings))
	for i, ring := range rings {
		if len(ring) < 3 {
			return nil, fmt.Errorf("polygon %d has %d points, need at least 3", i, len(ring))
		}
		polygon := make(visibility.Polygon, len(ring))
		for j, p := range ring {
			polygon[j] = toPoint(p)
		}
		polygons[i] = polygon
	}
	return polygons, nil
}

func wantsBreak(flag *bool) bool {
	return flag == nil || *flag
}
