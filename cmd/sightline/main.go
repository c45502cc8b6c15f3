package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/internal/geojson"
	"chosenoffset.com/sightline/internal/logging"
	"chosenoffset.com/sightline/internal/raster"
	"chosenoffset.com/sightline/internal/world/scene"
	"chosenoffset.com/sightline/visibility"
)

type result struct {
	Scene    string       `json:"scene"`
	Observer [2]float64   `json:"observer"`
	Polygon  [][2]float64 `json:"polygon"`
	Vertices int          `json:"vertices"`
	Area     float64      `json:"area"`
	Segments int          `json:"segments"`
	Clipped  bool         `json:"clipped"`
}

func parsePoint(s string) (visibility.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return visibility.Point{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return visibility.Point{}, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return visibility.Point{}, fmt.Errorf("invalid y: %w", err)
	}
	return visibility.Point{X: x, Y: y}, nil
}

func main() {
	configPath := flag.String("config", "", "configuration file (JSON or YAML)")
	scenePath := flag.String("scene", "", "scene file (JSON or YAML)")
	at := flag.String("at", "", "observer position as x,y (defaults to the scene's observer)")
	noClip := flag.Bool("noclip", false, "ignore the scene viewport")
	format := flag.String("format", "json", "output format: json or geojson")
	pngPath := flag.String("png", "", "also draw the result into this PNG file")
	width := flag.Int("width", 800, "PNG width")
	height := flag.Int("height", 800, "PNG height")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if _, err := logging.Setup(os.Stderr, cfg.Log); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	if *scenePath == "" {
		log.Fatalf("Missing -scene")
	}
	sc, err := scene.Load(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	observer := sc.Observer
	if *at != "" {
		if observer, err = parsePoint(*at); err != nil {
			log.Fatalf("Invalid -at: %v", err)
		}
	}

	polygon := sc.Visibility(observer, !*noClip)
	clipped := sc.Clips(observer, !*noClip)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	switch *format {
	case "json":
		out := result{
			Scene:    sc.Name,
			Observer: [2]float64{observer.X, observer.Y},
			Polygon:  make([][2]float64, len(polygon)),
			Vertices: len(polygon),
			Area:     polygon.Area(),
			Segments: len(sc.Segments()),
			Clipped:  clipped,
		}
		for i, p := range polygon {
			out.Polygon[i] = [2]float64{p.X, p.Y}
		}
		err = enc.Encode(out)
	case "geojson":
		err = enc.Encode(geojson.NewFeature(sc, observer, polygon, clipped))
	default:
		log.Fatalf("Unknown format %q", *format)
	}
	if err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}

	if *pngPath == "" {
		return
	}
	opts := raster.DefaultOptions()
	opts.Width, opts.Height = *width, *height
	if _, err := sc.Projector(); err == nil {
		opts.YUp = true
	}
	frame := raster.Frame{
		Polygon:  polygon,
		Segments: sc.Segments(),
		Observer: observer,
		Caption:  fmt.Sprintf("%s  %d vertices  area %.1f", sc.Name, len(polygon), polygon.Area()),
	}

	f, err := os.Create(*pngPath)
	if err != nil {
		log.Fatalf("Failed to create PNG: %v", err)
	}
	if err := raster.Render(f, frame, opts); err != nil {
		f.Close()
		log.Fatalf("Failed to draw PNG: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to write PNG: %v", err)
	}
	log.Printf("Wrote %s", *pngPath)
}
