package visibility

import "math"

// equal reports whether two points coincide within Epsilon on both axes.
func equal(a, b Point) bool {
	return math.Abs(a.X-b.X) < Epsilon && math.Abs(a.Y-b.Y) < Epsilon
}

// angle returns the direction from a to b in degrees, in (-180, 180].
func angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
}

// angle2 returns the turn a -> b -> c in degrees, in [0, 360].
func angle2(a, b, c Point) float64 {
	turn := angle(a, b) - angle(b, c)
	if turn < 0 {
		turn += 360
	}
	if turn > 360 {
		turn -= 360
	}
	return turn
}

// distanceSq is the squared Euclidean distance. Every "nearest" decision in
// the package compares squared distances.
func distanceSq(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// intersectLines intersects the infinite lines through a1-a2 and b1-b2.
// Parallel lines have no intersection.
func intersectLines(a1, a2, b1, b2 Point) (Point, bool) {
	dbx := b2.X - b1.X
	dby := b2.Y - b1.Y
	dax := a2.X - a1.X
	day := a2.Y - a1.Y

	denominator := dby*dax - dbx*day
	if denominator == 0 {
		return Point{}, false
	}

	ua := (dbx*(a1.Y-b1.Y) - dby*(a1.X-b1.X)) / denominator
	return Point{
		X: a1.X + ua*dax,
		Y: a1.Y + ua*day,
	}, true
}

// direction returns the orientation of k relative to the line i -> j:
// -1, 1, or 0 when the three points are colinear.
func direction(i, j, k Point) int {
	a := (k.X - i.X) * (j.Y - i.Y)
	b := (j.X - i.X) * (k.Y - i.Y)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// onSegment reports whether k lies inside the coordinate range of i-j. It is
// only meaningful once k is known to be colinear with i and j.
func onSegment(i, j, k Point) bool {
	return (i.X <= k.X || j.X <= k.X) && (k.X <= i.X || k.X <= j.X) &&
		(i.Y <= k.Y || j.Y <= k.Y) && (k.Y <= i.Y || k.Y <= j.Y)
}

// segmentsIntersect reports whether segments a1-a2 and b1-b2 cross or touch.
func segmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := direction(b1, b2, a1)
	d2 := direction(b1, b2, a2)
	d3 := direction(a1, a2, b1)
	d4 := direction(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	return (d1 == 0 && onSegment(b1, b2, a1)) ||
		(d2 == 0 && onSegment(b1, b2, a2)) ||
		(d3 == 0 && onSegment(a1, a2, b1)) ||
		(d4 == 0 && onSegment(a1, a2, b2))
}

// InViewport reports whether p lies inside the rectangle [viewportMin,
// viewportMax], allowing Epsilon of slack on every side.
func InViewport(p, viewportMin, viewportMax Point) bool {
	if p.X < viewportMin.X-Epsilon || p.Y < viewportMin.Y-Epsilon {
		return false
	}
	if p.X > viewportMax.X+Epsilon || p.Y > viewportMax.Y+Epsilon {
		return false
	}
	return true
}

// InPolygon tests if a point is inside a polygon by counting crossings of a
// ray that starts outside the polygon. The ray starts at (m-1, m-1) where m is
// the smallest coordinate of the polygon on either axis.
//
// When the ray passes exactly through a vertex, the crossing is counted only
// if the turn from the ray into the neighbouring vertex is under 180 degrees,
// so a vertex shared by two edges is counted at most once. A point on the
// boundary is inside.
func InPolygon(point Point, polygon Polygon) bool {
	if len(polygon) < 3 {
		return false
	}

	low := polygon[0].X
	for _, p := range polygon {
		low = min(low, p.X, p.Y)
	}
	outside := Point{X: low - 1, Y: low - 1}

	parity := 0
	for i := range polygon {
		j := (i + 1) % len(polygon)
		if !segmentsIntersect(outside, point, polygon[i], polygon[j]) {
			continue
		}

		hit, ok := intersectLines(outside, point, polygon[i], polygon[j])
		if !ok {
			// The ray runs along the edge. The neighbouring edges decide
			// the parity through their vertex rule.
			if onSegment(polygon[i], polygon[j], point) {
				return true
			}
			continue
		}
		if equal(point, hit) {
			return true
		}

		switch {
		case equal(hit, polygon[i]):
			if angle2(point, outside, polygon[j]) < 180 {
				parity++
			}
		case equal(hit, polygon[j]):
			if angle2(point, outside, polygon[i]) < 180 {
				parity++
			}
		default:
			parity++
		}
	}

	return parity%2 != 0
}
