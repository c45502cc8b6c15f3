package viewer

import (
	"image"
	"image/color"

	"chosenoffset.com/sightline/internal/render"
)

type fakeInput struct {
	pressed     map[render.Key]bool
	justPressed map[render.Key]bool
	clicked     bool
	cursorX     int
	cursorY     int
	wheelY      float64
}

func newFakeInput() *fakeInput {
	return &fakeInput{
		pressed:     map[render.Key]bool{},
		justPressed: map[render.Key]bool{},
	}
}

func (f *fakeInput) IsKeyPressed(key render.Key) bool     { return f.pressed[key] }
func (f *fakeInput) IsKeyJustPressed(key render.Key) bool { return f.justPressed[key] }
func (f *fakeInput) GetCursorPosition() (int, int)        { return f.cursorX, f.cursorY }

func (f *fakeInput) IsMouseButtonPressed(button render.MouseButton) bool {
	return button == render.MouseButtonLeft && f.clicked
}

func (f *fakeInput) IsMouseButtonJustPressed(button render.MouseButton) bool {
	return button == render.MouseButtonLeft && f.clicked
}

func (f *fakeInput) Wheel() (float64, float64) { return 0, f.wheelY }

// endTick clears the one-shot inputs, like a new frame would.
func (f *fakeInput) endTick() {
	f.justPressed = map[render.Key]bool{}
	f.clicked = false
	f.wheelY = 0
}

type trianglesCall struct {
	vertices int
	indices  int
}

type fakeImage struct {
	bounds    image.Rectangle
	fill      color.Color
	triangles []trianglesCall
}

func (i *fakeImage) Bounds() image.Rectangle { return i.bounds }
func (i *fakeImage) Size() (int, int)        { return i.bounds.Dx(), i.bounds.Dy() }
func (i *fakeImage) SubImage(r image.Rectangle) render.Image {
	return &fakeImage{bounds: r.Intersect(i.bounds), fill: i.fill}
}
func (i *fakeImage) Fill(clr color.Color) { i.fill = clr }
func (i *fakeImage) Clear()               { i.fill = nil }
func (i *fakeImage) Dispose()             {}

func (i *fakeImage) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	i.triangles = append(i.triangles, trianglesCall{vertices: len(vertices), indices: len(indices)})
}

type fakeRenderer struct {
	lines   int
	circles int
	texts   []string
}

func (r *fakeRenderer) NewImage(width, height int) render.Image {
	return &fakeImage{bounds: image.Rect(0, 0, width, height)}
}

func (r *fakeRenderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	r.circles++
}

func (r *fakeRenderer) StrokeCircle(dst render.Image, x, y, radius, strokeWidth float32, clr color.Color) {
	r.circles++
}

func (r *fakeRenderer) StrokeLine(dst render.Image, x0, y0, x1, y1, strokeWidth float32, clr color.Color) {
	r.lines++
}

func (r *fakeRenderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	r.texts = append(r.texts, text)
}

func (r *fakeRenderer) MeasureText(text string, scale float64) (int, int) {
	return 7 * len(text), 13
}
