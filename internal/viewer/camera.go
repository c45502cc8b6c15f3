package viewer

import (
	"github.com/golang/geo/r2"

	"chosenoffset.com/sightline/visibility"
)

// fitMargin is the fraction of the screen left free on each side by FitCamera.
const fitMargin = 0.05

// Camera maps world coordinates to screen pixels. Offset is the world point
// shown at the top left corner of the screen.
type Camera struct {
	Offset r2.Point
	Zoom   float64 // Pixels per world unit
}

// ToScreen returns the screen position of a world point.
func (c Camera) ToScreen(p visibility.Point) (x, y float64) {
	return (p.X - c.Offset.X) * c.Zoom, (p.Y - c.Offset.Y) * c.Zoom
}

// ToWorld returns the world point under a screen position.
func (c Camera) ToWorld(x, y float64) visibility.Point {
	return visibility.Point{X: x/c.Zoom + c.Offset.X, Y: y/c.Zoom + c.Offset.Y}
}

// Visible returns the world rectangle covered by a width x height screen.
func (c Camera) Visible(width, height int) r2.Rect {
	size := r2.Point{X: float64(width) / c.Zoom, Y: float64(height) / c.Zoom}
	return r2.RectFromPoints(c.Offset, c.Offset.Add(size))
}

// Pan moves the view by a distance given in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.Offset = c.Offset.Add(r2.Point{X: dx / c.Zoom, Y: dy / c.Zoom})
}

// ZoomAt multiplies the zoom by factor, clamped to [minZoom, maxZoom], while
// the world point under the screen position (x, y) stays in place.
func (c *Camera) ZoomAt(x, y, factor, minZoom, maxZoom float64) {
	anchor := c.ToWorld(x, y)
	c.Zoom = max(minZoom, min(maxZoom, c.Zoom*factor))
	c.Offset = r2.Point{X: anchor.X - x/c.Zoom, Y: anchor.Y - y/c.Zoom}
}

// FitCamera returns a camera that centers rect on a width x height screen.
func FitCamera(rect r2.Rect, width, height int, minZoom, maxZoom float64) Camera {
	size := rect.Size()
	zoom := maxZoom
	if size.X > 0 {
		zoom = min(zoom, float64(width)*(1-2*fitMargin)/size.X)
	}
	if size.Y > 0 {
		zoom = min(zoom, float64(height)*(1-2*fitMargin)/size.Y)
	}
	zoom = max(zoom, minZoom)

	center := rect.Center()
	return Camera{
		Offset: r2.Point{
			X: center.X - float64(width)/2/zoom,
			Y: center.Y - float64(height)/2/zoom,
		},
		Zoom: zoom,
	}
}

func toPoint(p r2.Point) visibility.Point {
	return visibility.Point{X: p.X, Y: p.Y}
}

func toR2(p visibility.Point) r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}
