package scene

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/sightline/internal/projection"
)

// ErrInvalidScene is returned for documents that fail schema or consistency
// checks.
var ErrInvalidScene = errors.New("invalid scene")

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Format is a scene file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Document is the on-disk representation of a scene. Coordinates are
// [x, y] pairs; polygons are lists of pairs with an implicit closing edge.
type Document struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Observer    []float64      `json:"observer,omitempty" yaml:"observer,omitempty,flow"`
	Viewport    *ViewportDoc   `json:"viewport,omitempty" yaml:"viewport,omitempty"`
	Obstacles   [][][2]float64 `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
	Grid        *GridDoc       `json:"grid,omitempty" yaml:"grid,omitempty"`
	Geo         *GeoDoc        `json:"geo,omitempty" yaml:"geo,omitempty"`
}

// ViewportDoc is an axis-aligned clipping rectangle
type ViewportDoc struct {
	Min [2]float64 `json:"min" yaml:"min,flow"`
	Max [2]float64 `json:"max" yaml:"max,flow"`
}

// GridDoc describes obstacles as a character tile map
type GridDoc struct {
	TileSize float64    `json:"tile_size" yaml:"tile_size"`
	Origin   [2]float64 `json:"origin,omitempty" yaml:"origin,omitempty,flow"`
	Rows     []string   `json:"rows" yaml:"rows"`
}

// GeoDoc describes obstacles in geographic coordinates. They are projected
// into the scene's planar frame around Origin.
type GeoDoc struct {
	Origin    projection.LatLng     `json:"origin" yaml:"origin"`
	Observer  *projection.LatLng    `json:"observer,omitempty" yaml:"observer,omitempty"`
	Obstacles [][]projection.LatLng `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
}

// ParseDocument decodes and validates a scene document.
func ParseDocument(data []byte, format Format) (*Document, error) {
	var raw interface{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML scene: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scene format %q", format)
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	// The validated tree is re-encoded as JSON so both formats share one
	// decoding path and one set of struct tags.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize scene: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return &doc, nil
}

func validate(raw interface{}) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile scene schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidScene, strings.Join(problems, "; "))
	}
	return nil
}

// Marshal encodes the document in the given format.
func (d *Document) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	}
	return nil, fmt.Errorf("unknown scene format %q", format)
}
