// Package scenegen generates random obstacle scenes for demos and stress
// tests.
package scenegen

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"chosenoffset.com/sightline/internal/world/scene"
)

// Options holds configuration for scene generation
type Options struct {
	Name     string
	Seed     int64   // Random seed (0 = use current time)
	Cells    int     // Grid is Cells x Cells
	CellSize float64 // Side of one cell in scene units
	Margin   float64 // Empty border inside each cell, as a fraction of CellSize
	Enclose  bool    // Surround the grid with a wall
}

// DefaultOptions returns the options used by sightline-gen
func DefaultOptions() Options {
	return Options{
		Name:     "generated",
		Cells:    8,
		CellSize: 40,
		Margin:   0.15,
		Enclose:  true,
	}
}

const wallThickness = 0.04

// Generate creates a scene with one random obstacle per grid cell. Every
// obstacle lies strictly inside its cell, so obstacles never touch and the
// scene needs no splitting. The observer stands on the grid corner nearest
// the centre and the viewport covers the whole grid.
func Generate(opts Options) (*scene.Document, error) {
	if opts.Cells <= 0 {
		return nil, fmt.Errorf("invalid cell count: %d", opts.Cells)
	}
	if opts.CellSize <= 0 {
		return nil, fmt.Errorf("invalid cell size: %v", opts.CellSize)
	}
	if opts.Margin < wallThickness || opts.Margin >= 0.5 {
		return nil, fmt.Errorf("margin must be in [%v, 0.5), got %v", wallThickness, opts.Margin)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	name := opts.Name
	if name == "" {
		name = "generated"
	}

	extent := float64(opts.Cells) * opts.CellSize
	center := float64(opts.Cells/2) * opts.CellSize
	doc := &scene.Document{
		Name:        name,
		Description: fmt.Sprintf("%dx%d cells, seed %d", opts.Cells, opts.Cells, seed),
		Observer:    []float64{center, center},
		Viewport: &scene.ViewportDoc{
			Min: [2]float64{0, 0},
			Max: [2]float64{extent, extent},
		},
	}

	for cy := 0; cy < opts.Cells; cy++ {
		for cx := 0; cx < opts.Cells; cx++ {
			x := float64(cx) * opts.CellSize
			y := float64(cy) * opts.CellSize
			doc.Obstacles = append(doc.Obstacles, obstacle(rng, x, y, opts.CellSize, opts.Margin))
		}
	}

	if opts.Enclose {
		doc.Obstacles = append(doc.Obstacles, [][2]float64{
			{0, 0}, {extent, 0}, {extent, extent}, {0, extent},
		})
	}

	return doc, nil
}

// obstacle returns a triangle or a thin wall inside the cell at x, y.
func obstacle(rng *rand.Rand, x, y, size, margin float64) [][2]float64 {
	lo := margin * size
	span := size - 2*lo
	pick := func() [2]float64 {
		return [2]float64{
			round(x + lo + rng.Float64()*span),
			round(y + lo + rng.Float64()*span),
		}
	}

	p, q := pick(), pick()
	if rng.Intn(2) == 0 {
		return [][2]float64{p, q, pick()}
	}

	dx := q[0] - p[0]
	dy := q[1] - p[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return [][2]float64{p, q, pick()}
	}
	half := wallThickness * size / 2
	nx := -dy / length * half
	ny := dx / length * half
	return [][2]float64{
		{round(p[0] + nx), round(p[1] + ny)},
		{round(q[0] + nx), round(q[1] + ny)},
		{round(q[0] - nx), round(q[1] - ny)},
		{round(p[0] - nx), round(p[1] - ny)},
	}
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
