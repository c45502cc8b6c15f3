package tilegrid

import "chosenoffset.com/sightline/visibility"

type side int

const (
	sideTop side = iota
	sideRight
	sideBottom
	sideLeft
)

// edge is one exposed tile edge. Edges run clockwise around their region on
// screen (y down), so colinear edges of the same side chain head to tail.
type edge struct {
	seg  visibility.Segment
	side side
}

// Segments extracts obstacle segments from the grid. Instead of emitting four
// segments per tile it traces the perimeter of every contiguous blocking
// region and merges colinear edges, so the sweep sees few, long walls.
// Returned segments never overlap and only meet at endpoints.
func (g *Grid) Segments() []visibility.Segment {
	regions := g.findContiguousRegions()

	var edges []edge
	for _, region := range regions {
		edges = append(edges, g.perimeter(region)...)
	}

	merged := mergeColinear(edges)
	segments := make([]visibility.Segment, len(merged))
	for i, e := range merged {
		segments[i] = e.seg
	}
	return segments
}

// findContiguousRegions identifies all 4-connected regions of blocking tiles
// in row-major scan order.
func (g *Grid) findContiguousRegions() [][]Coord {
	visited := make(map[Coord]bool)
	var regions [][]Coord

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			coord := Coord{X: x, Y: y}
			if visited[coord] || !g.Blocked(x, y) {
				continue
			}
			regions = append(regions, g.floodFill(coord, visited))
		}
	}

	return regions
}

// floodFill performs BFS from start over blocking tiles (no diagonals).
func (g *Grid) floodFill(start Coord, visited map[Coord]bool) []Coord {
	var region []Coord
	queue := []Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		neighbors := [4]Coord{
			{X: current.X, Y: current.Y - 1},
			{X: current.X + 1, Y: current.Y},
			{X: current.X, Y: current.Y + 1},
			{X: current.X - 1, Y: current.Y},
		}
		for _, n := range neighbors {
			if visited[n] || !g.Blocked(n.X, n.Y) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}

	return region
}

// perimeter returns the edges of region that border open tiles or the
// outside of the grid.
func (g *Grid) perimeter(region []Coord) []edge {
	var edges []edge

	for _, c := range region {
		// Corners come from grid indices so neighbouring tiles share
		// bit-identical coordinates.
		left, top := g.corner(c.X, c.Y)
		right, bottom := g.corner(c.X+1, c.Y+1)

		if !g.Blocked(c.X, c.Y-1) {
			edges = append(edges, edge{
				seg:  visibility.Segment{A: visibility.Point{X: left, Y: top}, B: visibility.Point{X: right, Y: top}},
				side: sideTop,
			})
		}
		if !g.Blocked(c.X+1, c.Y) {
			edges = append(edges, edge{
				seg:  visibility.Segment{A: visibility.Point{X: right, Y: top}, B: visibility.Point{X: right, Y: bottom}},
				side: sideRight,
			})
		}
		if !g.Blocked(c.X, c.Y+1) {
			edges = append(edges, edge{
				seg:  visibility.Segment{A: visibility.Point{X: right, Y: bottom}, B: visibility.Point{X: left, Y: bottom}},
				side: sideBottom,
			})
		}
		if !g.Blocked(c.X-1, c.Y) {
			edges = append(edges, edge{
				seg:  visibility.Segment{A: visibility.Point{X: left, Y: bottom}, B: visibility.Point{X: left, Y: top}},
				side: sideLeft,
			})
		}
	}

	return edges
}

func (g *Grid) corner(x, y int) (float64, float64) {
	return g.Origin.X + float64(x)*g.TileSize, g.Origin.Y + float64(y)*g.TileSize
}

// mergeColinear joins edges of the same side that continue each other. Each
// kept edge absorbs neighbours until none is left.
func mergeColinear(edges []edge) []edge {
	merged := make([]bool, len(edges))
	var result []edge

	for i := range edges {
		if merged[i] {
			continue
		}
		current := edges[i]
		merged[i] = true

		for extended := true; extended; {
			extended = false
			for j := range edges {
				if merged[j] || edges[j].side != current.side {
					continue
				}
				other := edges[j].seg
				switch {
				case current.seg.B == other.A:
					current.seg.B = other.B
				case other.B == current.seg.A:
					current.seg.A = other.A
				default:
					continue
				}
				merged[j] = true
				extended = true
				break
			}
		}

		result = append(result, current)
	}

	return result
}
