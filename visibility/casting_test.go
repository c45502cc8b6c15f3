package visibility

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeNoSegments(t *testing.T) {
	got := Compute(Point{0, 0}, nil)
	want := Polygon{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
	assert.Greater(t, got.Area(), 0.0)
}

func TestComputeInsideSquare(t *testing.T) {
	square := Polygon{{5, 5}, {-5, 5}, {-5, -5}, {5, -5}}
	got := Compute(Point{0, 0}, ConvertToSegments([]Polygon{square}))
	if diff := cmp.Diff(square, got); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeWallCastsShadow(t *testing.T) {
	segments := ConvertToSegments([]Polygon{{{10, 10}, {-10, 10}, {-10, -10}, {10, -10}}})
	segments = append(segments, Segment{A: Point{3, -2}, B: Point{3, 2}})

	got := Compute(Point{0, 0}, segments)
	want := Polygon{
		{3, 2},
		{10, 20.0 / 3},
		{10, 10},
		{-10, 10},
		{-10, -10},
		{10, -10},
		{10, -20.0 / 3},
		{3, -2},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}

	assert.False(t, InPolygon(Point{5, 0}, got), "behind the wall")
	assert.True(t, InPolygon(Point{2, 0}, got), "in front of the wall")
	assert.True(t, InPolygon(Point{-5, 0}, got))
	assert.True(t, InPolygon(Point{5, 5}, got), "beside the shadow")
}

func TestComputeDoesNotModifyInput(t *testing.T) {
	segments := []Segment{
		{A: Point{3, -2}, B: Point{3, 2}},
		{A: Point{-4, 1}, B: Point{-2, 5}},
	}
	before := append([]Segment(nil), segments...)

	Compute(Point{0, 0}, segments)
	assert.Equal(t, before, segments)
}

func TestComputeSegmentPointingAtObserver(t *testing.T) {
	// Both endpoints are seen under the same angle; the segment has no
	// visible extent and must not disturb the sweep.
	got := Compute(Point{0, 0}, []Segment{{A: Point{2, 0}, B: Point{4, 0}}})
	require.GreaterOrEqual(t, len(got), 3)
	assert.InDelta(t, 12, math.Abs(got.Area()), 1e-9)
}

func TestComputeDeterministic(t *testing.T) {
	segments := randomCellSegments(rand.New(rand.NewSource(3)), 6, 10)
	a := Compute(Point{30.3, 29.6}, segments)
	b := Compute(Point{30.3, 29.6}, segments)
	assert.Equal(t, a, b)
}

// randomCellSegments places one random segment in every cell of a grid,
// leaving the cells around the grid center empty, and encloses the grid in
// a square. Segments from different cells can never cross.
func randomCellSegments(r *rand.Rand, cells int, size float64) []Segment {
	var segments []Segment
	center := cells / 2
	for cx := 0; cx < cells; cx++ {
		for cy := 0; cy < cells; cy++ {
			if (cx == center || cx == center-1) && (cy == center || cy == center-1) {
				continue
			}
			x := float64(cx) * size
			y := float64(cy) * size
			pick := func(base float64) float64 {
				return base + 0.2*size + r.Float64()*0.6*size
			}
			segments = append(segments, Segment{
				A: Point{pick(x), pick(y)},
				B: Point{pick(x), pick(y)},
			})
		}
	}

	extent := float64(cells) * size
	return append(segments, ConvertToSegments([]Polygon{{
		{-size / 2, -size / 2},
		{extent + size/2, -size / 2},
		{extent + size/2, extent + size/2},
		{-size / 2, extent + size/2},
	}})...)
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func properlyCross(a1, a2, b1, b2 Point) bool {
	const tol = 1e-9
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)
	return ((d1 > tol && d2 < -tol) || (d1 < -tol && d2 > tol)) &&
		((d3 > tol && d4 < -tol) || (d3 < -tol && d4 > tol))
}

func TestComputeRandomScenes(t *testing.T) {
	const (
		cells = 6
		size  = 10.0
	)
	extent := cells * size

	for seed := int64(1); seed <= 25; seed++ {
		r := rand.New(rand.NewSource(seed))
		segments := randomCellSegments(r, cells, size)
		observer := Point{
			X: extent/2 + (r.Float64()*3 - 1.5),
			Y: extent/2 + (r.Float64()*3 - 1.5),
		}

		got := Compute(observer, segments)
		require.GreaterOrEqual(t, len(got), 3, "seed %d", seed)

		lo, hi := got.Bounds()
		assert.GreaterOrEqual(t, lo.X, -size/2-1e-6, "seed %d", seed)
		assert.GreaterOrEqual(t, lo.Y, -size/2-1e-6, "seed %d", seed)
		assert.LessOrEqual(t, hi.X, extent+size/2+1e-6, "seed %d", seed)
		assert.LessOrEqual(t, hi.Y, extent+size/2+1e-6, "seed %d", seed)

		assert.True(t, InPolygon(observer, got), "seed %d: observer outside its own polygon", seed)

		n := len(got)
		for i := 0; i < n; i++ {
			for j := i + 2; j < n; j++ {
				if i == 0 && j == n-1 {
					continue
				}
				a1, a2 := got[i], got[(i+1)%n]
				b1, b2 := got[j], got[(j+1)%n]
				assert.False(t, properlyCross(a1, a2, b1, b2),
					"seed %d: edges %d and %d cross", seed, i, j)
			}
		}
	}
}
