package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersectLines(t *testing.T) {
	p, ok := intersectLines(Point{0, 0}, Point{10, 10}, Point{0, 10}, Point{10, 0})
	assert.True(t, ok)
	assert.InDelta(t, 5, p.X, 1e-12)
	assert.InDelta(t, 5, p.Y, 1e-12)

	// Lines, not segments: the intersection may lie outside both.
	p, ok = intersectLines(Point{0, 0}, Point{1, 0}, Point{5, 5}, Point{5, 6})
	assert.True(t, ok)
	assert.InDelta(t, 5, p.X, 1e-12)
	assert.InDelta(t, 0, p.Y, 1e-12)

	_, ok = intersectLines(Point{0, 0}, Point{1, 1}, Point{0, 1}, Point{1, 2})
	assert.False(t, ok, "parallel lines never meet")
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 Point
		want           bool
	}{
		{"proper crossing", Point{0, 0}, Point{10, 10}, Point{0, 10}, Point{10, 0}, true},
		{"disjoint", Point{0, 0}, Point{1, 0}, Point{0, 1}, Point{1, 1}, false},
		{"shared endpoint", Point{0, 0}, Point{5, 5}, Point{5, 5}, Point{10, 0}, true},
		{"t junction", Point{0, 0}, Point{10, 0}, Point{5, 0}, Point{5, 5}, true},
		{"colinear overlap", Point{0, 0}, Point{10, 0}, Point{5, 0}, Point{15, 0}, true},
		{"colinear apart", Point{0, 0}, Point{4, 0}, Point{5, 0}, Point{15, 0}, false},
		{"line hits outside segment", Point{0, 0}, Point{1, 0}, Point{5, -1}, Point{5, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, segmentsIntersect(tt.a1, tt.a2, tt.b1, tt.b2))
			assert.Equal(t, tt.want, segmentsIntersect(tt.b1, tt.b2, tt.a1, tt.a2), "symmetric")
		})
	}
}

func TestAngles(t *testing.T) {
	assert.InDelta(t, 0, angle(Point{0, 0}, Point{1, 0}), 1e-12)
	assert.InDelta(t, 90, angle(Point{0, 0}, Point{0, 1}), 1e-12)
	assert.InDelta(t, 180, angle(Point{0, 0}, Point{-1, 0}), 1e-12)
	assert.InDelta(t, -90, angle(Point{0, 0}, Point{0, -1}), 1e-12)

	// Going east then turning north is a 270 degree turn in this convention,
	// going east then turning south a 90 degree one.
	assert.InDelta(t, 270, angle2(Point{0, 0}, Point{1, 0}, Point{1, 1}), 1e-9)
	assert.InDelta(t, 90, angle2(Point{0, 0}, Point{1, 0}, Point{1, -1}), 1e-9)
	assert.InDelta(t, 0, angle2(Point{0, 0}, Point{1, 0}, Point{2, 0}), 1e-9)
}

func TestEqualUsesEpsilon(t *testing.T) {
	assert.True(t, equal(Point{1, 1}, Point{1 + Epsilon/2, 1 - Epsilon/2}))
	assert.False(t, equal(Point{1, 1}, Point{1 + 2*Epsilon, 1}))
	assert.False(t, equal(Point{1, 1}, Point{1, 1 - 3*Epsilon}))
}

func TestInPolygonSquare(t *testing.T) {
	square := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"center", Point{5, 5}, true},
		{"far outside on the diagonal", Point{15, 15}, false},
		{"off center", Point{2, 7}, true},
		{"left of square", Point{-3, 5}, false},
		{"above square", Point{5, 12}, false},
		{"on bottom edge", Point{5, 0}, true},
		{"on far vertex", Point{10, 10}, true},
		{"just inside corner", Point{9.999, 9.999}, true},
		{"just outside corner", Point{10.001, 10.001}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InPolygon(tt.point, square))
		})
	}
}

func TestInPolygonWindingIndependent(t *testing.T) {
	cw := Polygon{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	ccw := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	for _, p := range []Point{{5, 5}, {15, 15}, {1, 9}, {-1, 4}, {3, 3}} {
		assert.Equal(t, InPolygon(p, ccw), InPolygon(p, cw), "point %v", p)
	}
}

func TestInPolygonRayThroughVertex(t *testing.T) {
	// The test ray starts at (-1, -1) and runs along y = x, so it passes
	// exactly through the vertex (5, 5).
	triangle := Polygon{{0, 0}, {5, 5}, {10, 0}}
	assert.False(t, InPolygon(Point{7, 7}, triangle), "ray grazes the apex from outside")
	assert.True(t, InPolygon(Point{3, 3}, triangle), "point on the edge colinear with the ray")
	assert.True(t, InPolygon(Point{5, 2}, triangle))

	diamond := Polygon{{5, 0}, {10, 5}, {5, 10}, {0, 5}}
	assert.True(t, InPolygon(Point{5, 5}, diamond))
	assert.False(t, InPolygon(Point{9, 9}, diamond))
	assert.False(t, InPolygon(Point{1, 1}, diamond))
}

func TestInPolygonRayAlongEdge(t *testing.T) {
	// The ray from (-1, -1) to (6, 6) overlaps the edge (0, 0)-(4, 4). That
	// edge is skipped and the apex (4, 4) and base vertex (0, 0) both turn
	// away, so the point stays outside.
	triangle := Polygon{{0, 0}, {4, 4}, {8, 0}}
	assert.False(t, InPolygon(Point{6, 6}, triangle))
	assert.True(t, InPolygon(Point{2, 2}, triangle), "point on the overlapped edge")
	assert.True(t, InPolygon(Point{4, 1}, triangle))
}

func TestInPolygonConcave(t *testing.T) {
	// U shape opening upwards.
	u := Polygon{{0, 0}, {9, 0}, {9, 9}, {6, 9}, {6, 3}, {3, 3}, {3, 9}, {0, 9}}
	assert.True(t, InPolygon(Point{1.5, 6}, u))
	assert.True(t, InPolygon(Point{7.5, 6}, u))
	assert.True(t, InPolygon(Point{4.5, 1.5}, u))
	assert.False(t, InPolygon(Point{4.5, 6}, u), "inside the notch")
}

func TestInPolygonDegenerate(t *testing.T) {
	assert.False(t, InPolygon(Point{0, 0}, nil))
	assert.False(t, InPolygon(Point{0, 0}, Polygon{{-1, -1}, {1, 1}}))
}

func TestInViewport(t *testing.T) {
	lo := Point{-1, -1}
	hi := Point{1, 1}
	assert.True(t, InViewport(Point{0, 0}, lo, hi))
	assert.True(t, InViewport(Point{1, -1}, lo, hi))
	assert.True(t, InViewport(Point{1 + Epsilon/2, 0}, lo, hi))
	assert.False(t, InViewport(Point{1 + 2*Epsilon, 0}, lo, hi))
	assert.False(t, InViewport(Point{0, -2}, lo, hi))
}
