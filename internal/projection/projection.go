// Package projection maps geographic coordinates onto the planar frame the
// visibility sweep works in.
//
// Points are projected with a spherical Mercator projection, shifted so the
// origin lands on (0, 0) and scaled by cos(origin latitude). Near the origin
// one planar unit is then about one metre, X grows eastwards and Y northwards.
package projection

import (
	"errors"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"

	"chosenoffset.com/sightline/visibility"
)

// EarthRadius is the mean Earth radius in metres.
const EarthRadius = 6371010.0

// maxLatitude keeps the projection away from the poles, where Mercator
// diverges.
const maxLatitude = 85.0

// ErrNoOrigin is returned when a projection is needed but no origin is known.
var ErrNoOrigin = errors.New("no projection origin")

// LatLng is a geographic position in degrees.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Projector converts between LatLng and a local planar frame.
type Projector struct {
	origin LatLng
	proj   s2.Projection
	center r2.Point
	scale  float64
}

// New creates a projector centred on the given origin.
func New(originLat, originLng float64) *Projector {
	originLat = clampLatitude(originLat)
	proj := s2.NewMercatorProjection(math.Pi * EarthRadius)
	return &Projector{
		origin: LatLng{Lat: originLat, Lng: originLng},
		proj:   proj,
		center: proj.FromLatLng(s2.LatLngFromDegrees(originLat, originLng)),
		scale:  math.Cos(originLat * math.Pi / 180),
	}
}

// Origin returns the geographic origin of the planar frame.
func (p *Projector) Origin() LatLng {
	return p.origin
}

// ToPlanar projects ll into the local frame.
func (p *Projector) ToPlanar(ll LatLng) visibility.Point {
	m := p.proj.FromLatLng(s2.LatLngFromDegrees(clampLatitude(ll.Lat), ll.Lng))
	d := m.Sub(p.center).Mul(p.scale)
	return visibility.Point{X: d.X, Y: d.Y}
}

// ToGeo is the inverse of ToPlanar.
func (p *Projector) ToGeo(pt visibility.Point) LatLng {
	m := p.center.Add(r2.Point{X: pt.X, Y: pt.Y}.Mul(1 / p.scale))
	ll := p.proj.ToLatLng(m)
	return LatLng{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()}
}

// Polygon projects a ring of positions.
func (p *Projector) Polygon(ring []LatLng) visibility.Polygon {
	polygon := make(visibility.Polygon, len(ring))
	for i, ll := range ring {
		polygon[i] = p.ToPlanar(ll)
	}
	return polygon
}

// Ring converts a planar polygon back into positions.
func (p *Projector) Ring(polygon visibility.Polygon) []LatLng {
	ring := make([]LatLng, len(polygon))
	for i, pt := range polygon {
		ring[i] = p.ToGeo(pt)
	}
	return ring
}

func clampLatitude(lat float64) float64 {
	return min(max(lat, -maxLatitude), maxLatitude)
}
