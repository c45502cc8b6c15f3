// Package tilegrid turns character tile maps into obstacle segments.
//
// A grid is a list of equal-length rows. '#' marks a tile that blocks sight,
// '.' or ' ' an open one. Row 0 is the top row; tile (x, y) covers
// [origin.X + x*size, origin.X + (x+1)*size] horizontally and the matching
// range downwards from origin.Y.
package tilegrid

import (
	"errors"
	"fmt"

	"chosenoffset.com/sightline/visibility"
)

// ErrInvalidGrid is returned for ragged rows, unknown tiles and bad sizes.
var ErrInvalidGrid = errors.New("invalid tile grid")

// Coord is a tile coordinate
type Coord struct {
	X, Y int
}

// Grid is a parsed tile map
type Grid struct {
	Width    int
	Height   int
	TileSize float64
	Origin   visibility.Point

	blocked []bool
}

// Parse builds a grid from rows of tile characters.
func Parse(rows []string, tileSize float64, origin visibility.Point) (*Grid, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size %v must be positive", ErrInvalidGrid, tileSize)
	}

	g := &Grid{
		Height:   len(rows),
		TileSize: tileSize,
		Origin:   origin,
	}
	if len(rows) > 0 {
		g.Width = len(rows[0])
	}
	g.blocked = make([]bool, g.Width*g.Height)

	for y, row := range rows {
		if len(row) != g.Width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, expected %d", ErrInvalidGrid, y, len(row), g.Width)
		}
		for x, c := range []byte(row) {
			switch c {
			case '#':
				g.blocked[y*g.Width+x] = true
			case '.', ' ':
			default:
				return nil, fmt.Errorf("%w: unknown tile %q at %d,%d", ErrInvalidGrid, c, x, y)
			}
		}
	}

	return g, nil
}

// Blocked reports whether the tile at x, y blocks sight. Tiles outside the
// grid are open.
func (g *Grid) Blocked(x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return false
	}
	return g.blocked[y*g.Width+x]
}

// Bounds returns the world-space rectangle covered by the grid.
func (g *Grid) Bounds() (lo, hi visibility.Point) {
	hi.X, hi.Y = g.corner(g.Width, g.Height)
	return g.Origin, hi
}

// TileAt returns the tile containing the world point p and whether p lies
// inside the grid.
func (g *Grid) TileAt(p visibility.Point) (Coord, bool) {
	fx := (p.X - g.Origin.X) / g.TileSize
	fy := (p.Y - g.Origin.Y) / g.TileSize
	if fx < 0 || fy < 0 {
		return Coord{}, false
	}
	c := Coord{X: int(fx), Y: int(fy)}
	return c, c.X < g.Width && c.Y < g.Height
}
