// Package scene loads obstacle scenes from JSON or YAML files and prepares
// them for visibility queries.
package scene

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"chosenoffset.com/sightline/internal/projection"
	"chosenoffset.com/sightline/internal/world/tilegrid"
	"chosenoffset.com/sightline/visibility"
)

// Viewport is a clipping rectangle in scene coordinates
type Viewport struct {
	Min, Max visibility.Point
}

// Scene is a validated document with its obstacles prepared for the sweep.
type Scene struct {
	Name        string
	Description string
	Observer    visibility.Point
	Viewport    *Viewport
	Grid        *tilegrid.Grid

	doc       *Document
	projector *projection.Projector
	polygons  []visibility.Polygon
	segments  []visibility.Segment
}

// Load reads a scene file. The format follows the file extension.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}

	s, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes, validates and prepares a scene.
func Parse(data []byte, format Format) (*Scene, error) {
	doc, err := ParseDocument(data, format)
	if err != nil {
		return nil, err
	}
	return New(doc)
}

// New prepares a scene from a decoded document. Obstacle polygons with fewer
// than three points are dropped with a warning; crossing obstacles are split
// so the result is always safe to sweep.
func New(doc *Document) (*Scene, error) {
	s := &Scene{
		Name:        doc.Name,
		Description: doc.Description,
		doc:         doc,
	}

	if doc.Geo != nil {
		s.projector = projection.New(doc.Geo.Origin.Lat, doc.Geo.Origin.Lng)
	}

	switch {
	case len(doc.Observer) == 2:
		s.Observer = visibility.Point{X: doc.Observer[0], Y: doc.Observer[1]}
	case doc.Geo != nil && doc.Geo.Observer != nil:
		s.Observer = s.projector.ToPlanar(*doc.Geo.Observer)
	default:
		return nil, fmt.Errorf("%w: scene %q has no observer", ErrInvalidScene, doc.Name)
	}

	if doc.Viewport != nil {
		vp := &Viewport{
			Min: visibility.Point{X: doc.Viewport.Min[0], Y: doc.Viewport.Min[1]},
			Max: visibility.Point{X: doc.Viewport.Max[0], Y: doc.Viewport.Max[1]},
		}
		if vp.Min.X >= vp.Max.X || vp.Min.Y >= vp.Max.Y {
			return nil, fmt.Errorf("%w: scene %q has an empty viewport", ErrInvalidScene, doc.Name)
		}
		s.Viewport = vp
	}

	for i, ring := range doc.Obstacles {
		polygon := make(visibility.Polygon, len(ring))
		for j, p := range ring {
			polygon[j] = visibility.Point{X: p[0], Y: p[1]}
		}
		s.addPolygon(polygon, "obstacles", i)
	}
	if doc.Geo != nil {
		for i, ring := range doc.Geo.Obstacles {
			s.addPolygon(s.projector.Polygon(ring), "geo.obstacles", i)
		}
	}

	segments := visibility.ConvertToSegments(s.polygons)
	if doc.Grid != nil {
		origin := visibility.Point{X: doc.Grid.Origin[0], Y: doc.Grid.Origin[1]}
		grid, err := tilegrid.Parse(doc.Grid.Rows, doc.Grid.TileSize, origin)
		if err != nil {
			return nil, fmt.Errorf("%w: scene %q: %v", ErrInvalidScene, doc.Name, err)
		}
		s.Grid = grid
		segments = append(segments, grid.Segments()...)
	}
	s.segments = visibility.BreakIntersections(segments)

	slog.Debug("scene prepared",
		"scene", s.Name,
		"polygons", len(s.polygons),
		"segments", len(s.segments))

	return s, nil
}

func (s *Scene) addPolygon(polygon visibility.Polygon, field string, index int) {
	if len(polygon) < 3 {
		slog.Warn("dropping malformed obstacle",
			"scene", s.Name,
			"field", field,
			"index", index,
			"points", len(polygon))
		return
	}
	s.polygons = append(s.polygons, polygon)
}

// Document returns the document the scene was built from.
func (s *Scene) Document() *Document {
	return s.doc
}

// Polygons returns the well-formed obstacle polygons, geographic ones
// already projected. Grid obstacles are not included.
func (s *Scene) Polygons() []visibility.Polygon {
	return s.polygons
}

// Segments returns every obstacle segment, split so no two cross. The slice
// is shared and must not be modified.
func (s *Scene) Segments() []visibility.Segment {
	return s.segments
}

// Projector returns the scene's geographic projection.
func (s *Scene) Projector() (*projection.Projector, error) {
	if s.projector == nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, projection.ErrNoOrigin)
	}
	return s.projector, nil
}

// Clips reports whether Visibility would clip to the viewport for observer.
func (s *Scene) Clips(observer visibility.Point, clip bool) bool {
	return clip && s.Viewport != nil && visibility.InViewport(observer, s.Viewport.Min, s.Viewport.Max)
}

// Visibility computes what observer sees in the scene. With clip set and a
// viewport present the result is restricted to the viewport, unless the
// observer stands outside it.
func (s *Scene) Visibility(observer visibility.Point, clip bool) visibility.Polygon {
	if s.Clips(observer, clip) {
		return visibility.ComputeViewport(observer, s.segments, s.Viewport.Min, s.Viewport.Max)
	}
	return visibility.Compute(observer, s.segments)
}

// LoadDir loads every .json, .yaml and .yml file in dir, keyed by scene name.
func LoadDir(dir string) (map[string]*Scene, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene directory %s: %w", dir, err)
	}

	scenes := make(map[string]*Scene)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}

		path := filepath.Join(dir, entry.Name())
		s, err := Load(path)
		if err != nil {
			return nil, err
		}
		if _, dup := scenes[s.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate scene name %q in %s", ErrInvalidScene, s.Name, path)
		}
		scenes[s.Name] = s
	}

	return scenes, nil
}

// Names returns the scene names in sorted order.
func Names(scenes map[string]*Scene) []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
