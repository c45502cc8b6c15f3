package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/sightline/visibility"
)

func wallFrame() Frame {
	segments := visibility.ConvertToSegments([]visibility.Polygon{{{X: 10, Y: 10}, {X: -10, Y: 10}, {X: -10, Y: -10}, {X: 10, Y: -10}}})
	segments = append(segments, visibility.Segment{A: visibility.Point{X: 3, Y: -2}, B: visibility.Point{X: 3, Y: 2}})
	observer := visibility.Point{}
	return Frame{
		Polygon:  visibility.Compute(observer, segments),
		Segments: segments,
		Observer: observer,
	}
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Width = 220
	opts.Height = 220
	opts.Margin = 10
	return opts
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestRenderPNG(t *testing.T) {
	opts := testOptions()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, wallFrame(), opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 220, img.Bounds().Dx())
	assert.Equal(t, 220, img.Bounds().Dy())

	// One scene unit is ten pixels; (0, 0) lands on pixel (110, 110).
	assert.Equal(t, opts.ObserverColor, rgba(img.At(110, 110)), "observer")
	assert.Equal(t, opts.Fill, rgba(img.At(60, 60)), "lit floor")
	assert.Equal(t, opts.Background, rgba(img.At(180, 110)), "shadow behind the wall")
	assert.Equal(t, opts.Wall, rgba(img.At(140, 110)), "wall")
	assert.Equal(t, opts.Background, rgba(img.At(2, 2)), "margin")
}

func TestDrawYUp(t *testing.T) {
	opts := testOptions()
	opts.YUp = true
	frame := wallFrame()
	frame.Observer = visibility.Point{X: -5, Y: 5}
	frame.Polygon = visibility.Compute(frame.Observer, frame.Segments)

	img, err := Draw(frame, opts)
	require.NoError(t, err)
	// y = 5 is drawn in the upper half when the axis points up.
	assert.Equal(t, opts.ObserverColor, rgba(img.At(60, 60)))
}

func TestDrawCaption(t *testing.T) {
	opts := testOptions()
	frame := wallFrame()

	plain, err := Draw(frame, opts)
	require.NoError(t, err)
	frame.Caption = "room"
	captioned, err := Draw(frame, opts)
	require.NoError(t, err)

	assert.NotEqual(t, plain.Pix, captioned.Pix)
}

func TestDrawInvalidSize(t *testing.T) {
	opts := testOptions()
	opts.Width = 0
	_, err := Draw(wallFrame(), opts)
	assert.Error(t, err)
}

func TestDrawEmptyFrame(t *testing.T) {
	img, err := Draw(Frame{}, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 220, img.Bounds().Dx())
}
