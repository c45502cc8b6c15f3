// Package raster draws visibility results into PNG images.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"chosenoffset.com/sightline/visibility"
)

// Frame is everything drawn into one image
type Frame struct {
	Polygon  visibility.Polygon
	Segments []visibility.Segment
	Observer visibility.Point
	Caption  string
}

// Options control the output image
type Options struct {
	Width, Height int
	Margin        int
	LineWidth     float64
	ObserverSize  float64
	// YUp flips the vertical axis for geographic scenes. Scenes are drawn
	// with y growing downwards otherwise, like the viewer.
	YUp bool

	Background    color.RGBA
	Fill          color.RGBA
	Wall          color.RGBA
	ObserverColor color.RGBA
	Text          color.RGBA
}

// DefaultOptions returns the options used by the command line tools.
func DefaultOptions() Options {
	return Options{
		Width:         800,
		Height:        800,
		Margin:        16,
		LineWidth:     2,
		ObserverSize:  4,
		Background:    color.RGBA{R: 20, G: 20, B: 30, A: 255},
		Fill:          color.RGBA{R: 255, G: 220, B: 120, A: 255},
		Wall:          color.RGBA{R: 90, G: 160, B: 255, A: 255},
		ObserverColor: color.RGBA{R: 255, G: 60, B: 60, A: 255},
		Text:          color.RGBA{R: 230, G: 230, B: 230, A: 255},
	}
}

// Render draws frame and encodes it as PNG.
func Render(w io.Writer, frame Frame, opts Options) error {
	img, err := Draw(frame, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// Draw rasterizes frame. The frame's content is scaled uniformly to fit the
// image inside the margin.
func Draw(frame Frame, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	t := fit(frame, opts)

	if len(frame.Polygon) >= 3 {
		r := vector.NewRasterizer(opts.Width, opts.Height)
		start := t.apply(frame.Polygon[0])
		r.MoveTo(start.x, start.y)
		for _, p := range frame.Polygon[1:] {
			q := t.apply(p)
			r.LineTo(q.x, q.y)
		}
		r.ClosePath()
		r.Draw(img, img.Bounds(), image.NewUniform(opts.Fill), image.Point{})
	}

	for _, s := range frame.Segments {
		stroke(img, t.apply(s.A), t.apply(s.B), float32(opts.LineWidth), opts.Wall)
	}

	o := t.apply(frame.Observer)
	size := float32(opts.ObserverSize)
	fillQuad(img, [4]pixel{
		{o.x, o.y - size},
		{o.x + size, o.y},
		{o.x, o.y + size},
		{o.x - size, o.y},
	}, opts.ObserverColor)

	if frame.Caption != "" {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(opts.Text),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(4, 13),
		}
		d.DrawString(frame.Caption)
	}

	return img, nil
}

type pixel struct {
	x, y float32
}

// transform maps scene coordinates to pixels
type transform struct {
	lo     visibility.Point
	scale  float64
	margin float64
	height float64
	yUp    bool
}

func (t transform) apply(p visibility.Point) pixel {
	x := t.margin + (p.X-t.lo.X)*t.scale
	y := t.margin + (p.Y-t.lo.Y)*t.scale
	if t.yUp {
		y = t.height - y
	}
	return pixel{float32(x), float32(y)}
}

// fit picks the transform that shows the polygon, the segments and the
// observer inside the margin.
func fit(frame Frame, opts Options) transform {
	lo, hi := frame.Observer, frame.Observer
	extend := func(p visibility.Point) {
		lo.X = min(lo.X, p.X)
		lo.Y = min(lo.Y, p.Y)
		hi.X = max(hi.X, p.X)
		hi.Y = max(hi.Y, p.Y)
	}
	for _, p := range frame.Polygon {
		extend(p)
	}
	for _, s := range frame.Segments {
		extend(s.A)
		extend(s.B)
	}

	margin := float64(opts.Margin)
	w := float64(opts.Width) - 2*margin
	h := float64(opts.Height) - 2*margin
	dx := hi.X - lo.X
	dy := hi.Y - lo.Y

	scale := 1.0
	switch {
	case dx > 0 && dy > 0:
		scale = min(w/dx, h/dy)
	case dx > 0:
		scale = w / dx
	case dy > 0:
		scale = h / dy
	}

	return transform{
		lo:     lo,
		scale:  scale,
		margin: margin,
		height: float64(opts.Height),
		yUp:    opts.YUp,
	}
}

// stroke draws a line as a quad of the given width.
func stroke(img *image.RGBA, a, b pixel, width float32, c color.RGBA) {
	dx := float64(b.x - a.x)
	dy := float64(b.y - a.y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx := float32(-dy/length) * width / 2
	ny := float32(dx/length) * width / 2

	fillQuad(img, [4]pixel{
		{a.x + nx, a.y + ny},
		{b.x + nx, b.y + ny},
		{b.x - nx, b.y - ny},
		{a.x - nx, a.y - ny},
	}, c)
}

func fillQuad(img *image.RGBA, quad [4]pixel, c color.RGBA) {
	b := img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.MoveTo(quad[0].x, quad[0].y)
	for _, p := range quad[1:] {
		r.LineTo(p.x, p.y)
	}
	r.ClosePath()
	r.Draw(img, b, image.NewUniform(c), image.Point{})
}
