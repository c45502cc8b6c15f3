// Package visibility computes 2D visibility polygons (isovists).
//
// Given an observer and a set of non-crossing segments, Compute returns the
// region of the plane directly visible from the observer. The region is always
// bounded: a box enclosing the observer and every segment is added before the
// sweep. Every call is stateless and allocates its own working arrays, so the
// functions in this package are safe for concurrent use.
package visibility

// Epsilon is the tolerance used for point equality, co-angular event
// batching and interior-point exclusion. It must stay identical everywhere.
const Epsilon = 1e-7

// Point represents a 2D point in space
type Point struct {
	X, Y float64
}

// Segment is an ordered pair of endpoints. A is endpoint 0 and B endpoint 1;
// the order only matters when a segment is split (chains start at A).
type Segment struct {
	A, B Point
}

// Endpoint returns endpoint 0 (A) or 1 (B).
func (s Segment) Endpoint(i int) Point {
	if i == 0 {
		return s.A
	}
	return s.B
}

// Polygon is an ordered ring of points with an implicit closing edge.
type Polygon []Point

// Closed returns the ring with its first vertex repeated at the end, the
// layout GeoJSON and most rendering formats expect.
func (p Polygon) Closed() Polygon {
	if len(p) == 0 {
		return Polygon{}
	}
	ring := make(Polygon, 0, len(p)+1)
	ring = append(ring, p...)
	return append(ring, p[0])
}

// Area returns the signed shoelace area. It is positive when the ring turns
// counter-clockwise in a y-up frame (clockwise on a y-down screen).
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	sum := 0.0
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return sum / 2
}

// Bounds returns the axis-aligned bounding box of the polygon.
func (p Polygon) Bounds() (lo, hi Point) {
	if len(p) == 0 {
		return Point{}, Point{}
	}
	lo, hi = p[0], p[0]
	for _, pt := range p[1:] {
		lo.X = min(lo.X, pt.X)
		lo.Y = min(lo.Y, pt.Y)
		hi.X = max(hi.X, pt.X)
		hi.Y = max(hi.Y, pt.Y)
	}
	return lo, hi
}
