package visibility

import "sort"

// sweepEvent is one segment endpoint seen from the observer.
type sweepEvent struct {
	segment int
	end     int
	angle   float64
}

// sweep holds the working state of one Compute call.
type sweep struct {
	observer Point
	segments []Segment
	ray      Point
	active   *activeHeap
}

// Compute calculates the visibility polygon of observer among segments.
//
// Segments must not cross each other (see BreakIntersections) and the
// observer must not lie exactly on a segment. The result lists the polygon
// vertices in sweep order, counter-clockwise in a y-up frame (clockwise on a
// y-down screen), without repeating the first vertex. With no segments the
// result is the observer's box expanded by one unit on every side.
func Compute(observer Point, segments []Segment) Polygon {
	bounded := boundSegments(observer, segments)

	s := &sweep{
		observer: observer,
		segments: bounded,
	}
	s.active = newActiveHeap(len(bounded), s.closer)

	events := sortEvents(observer, bounded)
	s.seed()

	polygon := make(Polygon, 0, len(events))
	for i := 0; i < len(events); {
		extend := false
		shorten := false
		orig := i
		vertex := bounded[events[i].segment].Endpoint(events[i].end)
		previous := s.active.Top()

		for {
			e := events[i]
			if s.active.Contains(e.segment) {
				if e.segment == previous {
					extend = true
					vertex = bounded[e.segment].Endpoint(e.end)
				}
				s.ray = vertex
				s.active.Remove(e.segment)
			} else {
				s.insert(e.segment, vertex)
				if s.active.Top() != previous {
					shorten = true
				}
			}

			i++
			if i == len(events) || events[i].angle >= events[orig].angle+Epsilon {
				break
			}
		}

		nearest := s.active.Top()
		switch {
		case extend:
			polygon = append(polygon, vertex)
			if nearest == inactive {
				continue
			}
			if cur, ok := s.hit(nearest, vertex); ok && !equal(cur, vertex) {
				polygon = append(polygon, cur)
			}
		case shorten:
			if previous != inactive {
				if p, ok := s.hit(previous, vertex); ok {
					polygon = append(polygon, p)
				}
			}
			if nearest != inactive {
				if p, ok := s.hit(nearest, vertex); ok {
					polygon = append(polygon, p)
				}
			}
		}
	}

	logger().Debug("visibility polygon computed",
		"segments", len(segments),
		"events", len(events),
		"vertices", len(polygon))
	if len(polygon) < 3 {
		logger().Debug("degenerate visibility polygon",
			"observer_x", observer.X,
			"observer_y", observer.Y,
			"vertices", len(polygon))
	}

	return polygon
}

// boundSegments copies segments and appends the four edges of the box around
// the observer and every endpoint, expanded by one unit on each side.
func boundSegments(observer Point, segments []Segment) []Segment {
	lo, hi := observer, observer
	bounded := make([]Segment, 0, len(segments)+4)
	for _, segment := range segments {
		for _, p := range [2]Point{segment.A, segment.B} {
			lo.X = min(lo.X, p.X)
			lo.Y = min(lo.Y, p.Y)
			hi.X = max(hi.X, p.X)
			hi.Y = max(hi.Y, p.Y)
		}
		bounded = append(bounded, segment)
	}

	lo.X--
	lo.Y--
	hi.X++
	hi.Y++

	return append(bounded,
		Segment{A: Point{lo.X, lo.Y}, B: Point{hi.X, lo.Y}},
		Segment{A: Point{hi.X, lo.Y}, B: Point{hi.X, hi.Y}},
		Segment{A: Point{hi.X, hi.Y}, B: Point{lo.X, hi.Y}},
		Segment{A: Point{lo.X, hi.Y}, B: Point{lo.X, lo.Y}},
	)
}

// sortEvents returns both endpoints of every segment ordered by the angle of
// the direction from the endpoint to the observer. The sort is stable so
// co-angular endpoints keep segment order.
func sortEvents(observer Point, segments []Segment) []sweepEvent {
	events := make([]sweepEvent, 0, 2*len(segments))
	for i, segment := range segments {
		for end := 0; end < 2; end++ {
			events = append(events, sweepEvent{
				segment: i,
				end:     end,
				angle:   angle(segment.Endpoint(end), observer),
			})
		}
	}
	sort.SliceStable(events, func(a, b int) bool {
		return events[a].angle < events[b].angle
	})
	return events
}

// seed activates the segments crossed by the initial ray observer + (1, 0).
// The sweep starts at -180 degrees, so a segment is crossed when one
// endpoint angle is in (-180, 0], the other in [0, 180] and they span more
// than 180 degrees.
func (s *sweep) seed() {
	start := Point{X: s.observer.X + 1, Y: s.observer.Y}
	for i, segment := range s.segments {
		a1 := angle(segment.A, s.observer)
		a2 := angle(segment.B, s.observer)
		if straddles(a1, a2) || straddles(a2, a1) {
			s.insert(i, start)
		}
	}
}

func straddles(lo, hi float64) bool {
	return lo > -180 && lo <= 0 && hi <= 180 && hi >= 0 && hi-lo > 180
}

// insert activates segment for the ray towards destination. A segment
// parallel to the ray is never activated.
func (s *sweep) insert(segment int, destination Point) {
	if _, ok := s.hit(segment, destination); !ok {
		return
	}
	s.ray = destination
	s.active.Push(segment)
}

// hit intersects segment's line with the ray from the observer towards
// destination.
func (s *sweep) hit(segment int, destination Point) (Point, bool) {
	seg := s.segments[segment]
	return intersectLines(seg.A, seg.B, s.observer, destination)
}

// closer orders two active segments along the current ray: the one whose
// intersection is nearer to the observer comes first. When both meet the
// ray at the same point, the turn from the far endpoint through the
// intersection towards the observer breaks the tie.
func (s *sweep) closer(a, b int) bool {
	interA, okA := s.hit(a, s.ray)
	interB, okB := s.hit(b, s.ray)
	if !okA || !okB {
		return false
	}

	if !equal(interA, interB) {
		return distanceSq(interA, s.observer) < distanceSq(interB, s.observer)
	}

	segA := s.segments[a]
	segB := s.segments[b]
	endA := segA.A
	if equal(interA, segA.A) {
		endA = segA.B
	}
	endB := segB.A
	if equal(interB, segB.A) {
		endB = segB.B
	}

	turnA := angle2(endA, interA, s.observer)
	turnB := angle2(endB, interB, s.observer)
	if turnA < 180 {
		if turnB > 180 {
			return true
		}
		return turnB < turnA
	}
	return turnA < turnB
}
