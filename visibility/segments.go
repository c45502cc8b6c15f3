package visibility

// ConvertToSegments flattens polygons into the edges joining consecutive
// vertices, closing edge included, in polygon order then vertex order.
// Duplicate and zero-length edges pass through unchanged; callers filter
// malformed polygons upstream.
func ConvertToSegments(polygons []Polygon) []Segment {
	count := 0
	for _, polygon := range polygons {
		count += len(polygon)
	}

	segments := make([]Segment, 0, count)
	for _, polygon := range polygons {
		for j := range polygon {
			k := (j + 1) % len(polygon)
			segments = append(segments, Segment{A: polygon[j], B: polygon[k]})
		}
	}
	return segments
}

// BreakIntersections splits every segment at the points where other segments
// cross it, so the result has no interior crossings. Each input segment is
// replaced by a chain starting at its A endpoint and ending at its B endpoint.
// Intersections that coincide with an endpoint of the segment being split
// are ignored, so existing T-junctions are kept as they are.
//
// The work is O(n^2) in the number of segments.
func BreakIntersections(segments []Segment) []Segment {
	output := make([]Segment, 0, len(segments))
	for i, segment := range segments {
		var breaks []Point
		for j, other := range segments {
			if i == j {
				continue
			}
			if p, ok := interiorIntersection(segment, other.A, other.B); ok {
				breaks = append(breaks, p)
			}
		}
		output = chainBreaks(output, segment, breaks)
	}
	return output
}

// interiorIntersection returns where segment meets the segment c1-c2, unless
// the two are parallel or the meeting point is one of segment's endpoints.
func interiorIntersection(segment Segment, c1, c2 Point) (Point, bool) {
	if !segmentsIntersect(segment.A, segment.B, c1, c2) {
		return Point{}, false
	}
	p, ok := intersectLines(segment.A, segment.B, c1, c2)
	if !ok {
		return Point{}, false
	}
	if equal(p, segment.A) || equal(p, segment.B) {
		return Point{}, false
	}
	return p, true
}

// chainBreaks appends segment to output, split at every break point. Breaks
// are consumed greedily: the next one is always the closest (squared
// distance) to the current chain head, and the first one found wins a tie.
// This is not a sort; output order is part of the contract.
func chainBreaks(output []Segment, segment Segment, breaks []Point) []Segment {
	head := segment.A
	for len(breaks) > 0 {
		next := 0
		best := distanceSq(head, breaks[0])
		for j := 1; j < len(breaks); j++ {
			if d := distanceSq(head, breaks[j]); d < best {
				best = d
				next = j
			}
		}

		output = append(output, Segment{A: head, B: breaks[next]})
		head = breaks[next]
		breaks = append(breaks[:next], breaks[next+1:]...)
	}
	return append(output, Segment{A: head, B: segment.B})
}
