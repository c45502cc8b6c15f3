package visibility

// ComputeViewport calculates the visibility polygon of observer restricted to
// the rectangle [viewportMin, viewportMax]. Segments outside the viewport are
// dropped and segments crossing its border are cut, which bounds the sweep
// cost by what is on screen rather than by the whole obstacle set.
//
// The observer must lie inside the viewport; otherwise the result is empty.
// Every returned vertex lies inside the viewport.
func ComputeViewport(observer Point, segments []Segment, viewportMin, viewportMax Point) Polygon {
	if !InViewport(observer, viewportMin, viewportMax) {
		logger().Debug("observer outside viewport",
			"observer_x", observer.X,
			"observer_y", observer.Y)
		return Polygon{}
	}

	corners := [4]Point{
		{viewportMin.X, viewportMin.Y},
		{viewportMax.X, viewportMin.Y},
		{viewportMax.X, viewportMax.Y},
		{viewportMin.X, viewportMax.Y},
	}

	var broken []Segment
	for _, segment := range segments {
		if outsideOnOneAxis(segment, viewportMin, viewportMax) {
			continue
		}

		var breaks []Point
		for j := range corners {
			k := (j + 1) % len(corners)
			if p, ok := interiorIntersection(segment, corners[j], corners[k]); ok {
				breaks = append(breaks, p)
			}
		}
		broken = chainBreaks(broken, segment, breaks)
	}

	clipped := make([]Segment, 0, len(broken)+4)
	for _, segment := range broken {
		if InViewport(segment.A, viewportMin, viewportMax) && InViewport(segment.B, viewportMin, viewportMax) {
			clipped = append(clipped, segment)
		}
	}

	// The border is pushed out so it never coincides with a clipped segment.
	eps := Epsilon * 10
	lo := Point{viewportMin.X - eps, viewportMin.Y - eps}
	hi := Point{viewportMax.X + eps, viewportMax.Y + eps}
	clipped = append(clipped,
		Segment{A: Point{lo.X, lo.Y}, B: Point{hi.X, lo.Y}},
		Segment{A: Point{hi.X, lo.Y}, B: Point{hi.X, hi.Y}},
		Segment{A: Point{hi.X, hi.Y}, B: Point{lo.X, hi.Y}},
		Segment{A: Point{lo.X, hi.Y}, B: Point{lo.X, lo.Y}},
	)

	logger().Debug("viewport clipped",
		"segments", len(segments),
		"kept", len(clipped)-4)

	polygon := Compute(observer, clipped)
	for i, p := range polygon {
		polygon[i] = clamp(p, viewportMin, viewportMax)
	}
	return polygon
}

// outsideOnOneAxis is a cheap reject: both endpoints beyond the same side of
// the viewport. It keeps some segments that still miss the viewport.
func outsideOnOneAxis(s Segment, viewportMin, viewportMax Point) bool {
	return (s.A.X < viewportMin.X && s.B.X < viewportMin.X) ||
		(s.A.Y < viewportMin.Y && s.B.Y < viewportMin.Y) ||
		(s.A.X > viewportMax.X && s.B.X > viewportMax.X) ||
		(s.A.Y > viewportMax.Y && s.B.Y > viewportMax.Y)
}

func clamp(p, lo, hi Point) Point {
	return Point{
		X: min(max(p.X, lo.X), hi.X),
		Y: min(max(p.Y, lo.Y), hi.Y),
	}
}
