package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/sightline/internal/projection"
	"chosenoffset.com/sightline/visibility"
)

const roomJSON = `{
  "name": "room",
  "observer": [0, 0],
  "viewport": {"min": [-8, -8], "max": [8, 8]},
  "obstacles": [
    [[10, 10], [-10, 10], [-10, -10], [10, -10]],
    [[3, -2], [4, -2], [4, 2], [3, 2]],
    [[50, 50], [60, 60]]
  ]
}`

const roomYAML = `
name: room
observer: [0, 0]
viewport:
  min: [-8, -8]
  max: [8, 8]
obstacles:
  - [[10, 10], [-10, 10], [-10, -10], [10, -10]]
  - [[3, -2], [4, -2], [4, 2], [3, 2]]
  - [[50, 50], [60, 60]]
`

func TestParseJSON(t *testing.T) {
	s, err := Parse([]byte(roomJSON), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "room", s.Name)
	assert.Equal(t, visibility.Point{X: 0, Y: 0}, s.Observer)
	require.NotNil(t, s.Viewport)
	assert.Equal(t, visibility.Point{X: -8, Y: -8}, s.Viewport.Min)
	assert.Equal(t, visibility.Point{X: 8, Y: 8}, s.Viewport.Max)

	assert.Len(t, s.Polygons(), 2, "two-point obstacle is dropped")
	assert.Len(t, s.Segments(), 8)
}

func TestParseYAMLMatchesJSON(t *testing.T) {
	fromJSON, err := Parse([]byte(roomJSON), FormatJSON)
	require.NoError(t, err)
	fromYAML, err := Parse([]byte(roomYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, fromJSON.Document(), fromYAML.Document())
	assert.Equal(t, fromJSON.Segments(), fromYAML.Segments())
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing name", `{"observer": [0, 0]}`},
		{"name with spaces", `{"name": "my room", "observer": [0, 0]}`},
		{"missing observer", `{"name": "room"}`},
		{"short observer", `{"name": "room", "observer": [1]}`},
		{"unknown field", `{"name": "room", "observer": [0, 0], "lights": []}`},
		{"bad point", `{"name": "room", "observer": [0, 0], "obstacles": [[[1, 2, 3]]]}`},
		{"bad grid tile", `{"name": "room", "observer": [0, 0], "grid": {"tile_size": 1, "rows": ["#x"]}}`},
		{"zero tile size", `{"name": "room", "observer": [0, 0], "grid": {"tile_size": 0, "rows": ["#"]}}`},
		{"latitude out of range", `{"name": "room", "geo": {"origin": {"lat": 91, "lng": 0}, "observer": {"lat": 0, "lng": 0}}}`},
		{"empty viewport", `{"name": "room", "observer": [0, 0], "viewport": {"min": [1, 1], "max": [1, 5]}}`},
		{"ragged grid", `{"name": "room", "observer": [0, 0], "grid": {"tile_size": 1, "rows": ["##", "#"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), FormatJSON)
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	_, err := Parse([]byte(`{"name": `), FormatJSON)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidScene)

	_, err = Parse([]byte("name: [unclosed"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte(roomJSON), Format("toml"))
	assert.Error(t, err)
}

func TestGridObstacles(t *testing.T) {
	doc := `{
  "name": "grid",
  "observer": [25, 20],
  "grid": {"tile_size": 10, "rows": ["#####", "#...#", "#...#", "#####"]}
}`
	s, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)
	require.NotNil(t, s.Grid)
	assert.Empty(t, s.Polygons())
	assert.Len(t, s.Segments(), 8)

	polygon := s.Visibility(s.Observer, true)
	assert.InDelta(t, 600, math.Abs(polygon.Area()), 1e-6)
}

func TestGeoObstacles(t *testing.T) {
	doc := `{
  "name": "plaza",
  "geo": {
    "origin": {"lat": 52.52, "lng": 13.405},
    "observer": {"lat": 52.52, "lng": 13.405},
    "obstacles": [
      [{"lat": 52.5201, "lng": 13.4049}, {"lat": 52.5201, "lng": 13.4051}, {"lat": 52.5202, "lng": 13.4051}, {"lat": 52.5202, "lng": 13.4049}]
    ]
  }
}`
	s, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)

	assert.InDelta(t, 0, s.Observer.X, 1e-6)
	assert.InDelta(t, 0, s.Observer.Y, 1e-6)
	require.Len(t, s.Polygons(), 1)
	for _, p := range s.Polygons()[0] {
		assert.Greater(t, p.Y, 10.0, "obstacle lies about 11m north")
		assert.Less(t, p.Y, 25.0)
	}

	proj, err := s.Projector()
	require.NoError(t, err)
	assert.Equal(t, projection.LatLng{Lat: 52.52, Lng: 13.405}, proj.Origin())
}

func TestProjectorWithoutGeo(t *testing.T) {
	s, err := Parse([]byte(roomJSON), FormatJSON)
	require.NoError(t, err)
	_, err = s.Projector()
	assert.ErrorIs(t, err, projection.ErrNoOrigin)
}

func TestVisibilityClipping(t *testing.T) {
	s, err := Parse([]byte(roomJSON), FormatJSON)
	require.NoError(t, err)

	clipped := s.Visibility(visibility.Point{X: 0, Y: 0}, true)
	for _, p := range clipped {
		assert.True(t, visibility.InViewport(p, s.Viewport.Min, s.Viewport.Max), "vertex %v", p)
	}

	full := s.Visibility(visibility.Point{X: 0, Y: 0}, false)
	lo, hi := full.Bounds()
	assert.InDelta(t, -10, lo.X, 1e-9)
	assert.InDelta(t, 10, hi.Y, 1e-9)

	assert.False(t, visibility.InPolygon(visibility.Point{X: 6, Y: 0}, full), "behind the pillar")

	// Outside the viewport the scene falls back to the full sweep.
	assert.False(t, s.Clips(visibility.Point{X: 9, Y: 9}, true))
	outside := s.Visibility(visibility.Point{X: 9, Y: 9}, true)
	assert.NotEmpty(t, outside)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "room.json"), []byte(roomJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hall.yaml"), []byte("name: hall\nobserver: [1, 1]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	scenes, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"hall", "room"}, Names(scenes))
	assert.Equal(t, visibility.Point{X: 1, Y: 1}, scenes["hall"].Observer)
}

func TestLoadDirDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(roomJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte(roomYAML), 0o644))

	_, err := LoadDir(dir)
	assert.ErrorIs(t, err, ErrInvalidScene)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocumentMarshalRoundTrip(t *testing.T) {
	s, err := Parse([]byte(roomJSON), FormatJSON)
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := s.Document().Marshal(format)
		require.NoError(t, err)
		again, err := ParseDocument(data, format)
		require.NoError(t, err, "format %s", format)
		assert.Equal(t, s.Document(), again, "format %s", format)
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("B.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("scene.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("scene"))
}
