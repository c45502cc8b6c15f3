// Package ebiten implements the render interfaces on top of Ebitengine.
package ebiten

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"chosenoffset.com/sightline/internal/render"
)

// lineHeight is the line height of basicfont.Face7x13.
const lineHeight = 13

// EbitenRenderer implements the Renderer interface using Ebiten.
type EbitenRenderer struct {
	face *text.GoXFace
}

// NewRenderer creates a new Ebiten-based render.
func NewRenderer() render.Renderer {
	return &EbitenRenderer{face: text.NewGoXFace(basicfont.Face7x13)}
}

// NewImage creates a new image with the given dimensions.
func (r *EbitenRenderer) NewImage(width, height int) render.Image {
	return &EbitenImage{img: ebiten.NewImage(width, height)}
}

// FillCircle draws a filled circle on the destination image.
func (r *EbitenRenderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	vector.DrawFilledCircle(dst.(*EbitenImage).img, x, y, radius, clr, true)
}

// StrokeCircle draws a circle outline on the destination image.
func (r *EbitenRenderer) StrokeCircle(dst render.Image, x, y, radius float32, strokeWidth float32, clr color.Color) {
	vector.StrokeCircle(dst.(*EbitenImage).img, x, y, radius, strokeWidth, clr, true)
}

// StrokeLine draws a line segment on the destination image.
func (r *EbitenRenderer) StrokeLine(dst render.Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color) {
	vector.StrokeLine(dst.(*EbitenImage).img, x0, y0, x1, y1, strokeWidth, clr, true)
}

// DrawText draws text with its upper left corner at (x, y).
func (r *EbitenRenderer) DrawText(dst render.Image, str string, x, y int, clr color.Color, scale float64) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = lineHeight
	text.Draw(dst.(*EbitenImage).img, str, r.face, op)
}

// MeasureText measures the width and height of text with the given scale.
func (r *EbitenRenderer) MeasureText(str string, scale float64) (width, height int) {
	w, h := text.Measure(str, r.face, lineHeight)
	return int(w * scale), int(h * scale)
}

// EbitenImage wraps an ebiten.Image to implement the render.Image interface.
type EbitenImage struct {
	img *ebiten.Image
}

// Bounds returns the bounds of the image.
func (i *EbitenImage) Bounds() image.Rectangle {
	return i.img.Bounds()
}

// Size returns the width and height of the image.
func (i *EbitenImage) Size() (width, height int) {
	return i.img.Bounds().Dx(), i.img.Bounds().Dy()
}

// SubImage returns a sub-image of the image.
func (i *EbitenImage) SubImage(r image.Rectangle) render.Image {
	return &EbitenImage{img: i.img.SubImage(r).(*ebiten.Image)}
}

// Fill fills the entire image with the given color.
func (i *EbitenImage) Fill(clr color.Color) {
	i.img.Fill(clr)
}

// Clear clears the image to transparent.
func (i *EbitenImage) Clear() {
	i.img.Clear()
}

// Dispose releases the image resources.
func (i *EbitenImage) Dispose() {
	if i.img != nil {
		i.img.Dispose()
	}
}

// DrawTriangles draws triangles on this image using the provided vertices.
func (i *EbitenImage) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	ebitenVertices := make([]ebiten.Vertex, len(vertices))
	for j, v := range vertices {
		ebitenVertices[j] = ebiten.Vertex{
			DstX:   v.DstX,
			DstY:   v.DstY,
			SrcX:   v.SrcX,
			SrcY:   v.SrcY,
			ColorR: v.ColorR,
			ColorG: v.ColorG,
			ColorB: v.ColorB,
			ColorA: v.ColorA,
		}
	}

	ebitenOpts := &ebiten.DrawTrianglesOptions{}
	if opts != nil {
		ebitenOpts.AntiAlias = opts.AntiAlias
	}
	i.img.DrawTriangles(ebitenVertices, indices, img.(*EbitenImage).img, ebitenOpts)
}

// EbitenInputManager implements the InputManager interface using Ebiten.
type EbitenInputManager struct{}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() render.InputManager {
	return &EbitenInputManager{}
}

// IsKeyPressed returns whether the specified key is currently pressed.
func (m *EbitenInputManager) IsKeyPressed(key render.Key) bool {
	return ebiten.IsKeyPressed(keyToEbitenKey(key))
}

// IsKeyJustPressed returns whether the specified key was just pressed this frame.
func (m *EbitenInputManager) IsKeyJustPressed(key render.Key) bool {
	return inpututil.IsKeyJustPressed(keyToEbitenKey(key))
}

// GetCursorPosition returns the current cursor position.
func (m *EbitenInputManager) GetCursorPosition() (x, y int) {
	return ebiten.CursorPosition()
}

// IsMouseButtonPressed returns whether the specified mouse button is currently pressed.
func (m *EbitenInputManager) IsMouseButtonPressed(button render.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(mouseButtonToEbiten(button))
}

// IsMouseButtonJustPressed returns whether the specified mouse button was
// pressed this frame.
func (m *EbitenInputManager) IsMouseButtonJustPressed(button render.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(mouseButtonToEbiten(button))
}

// Wheel returns the mouse wheel offset of the current tick.
func (m *EbitenInputManager) Wheel() (x, y float64) {
	return ebiten.Wheel()
}

// keyToEbitenKey converts a render.Key to an ebiten.Key.
func keyToEbitenKey(key render.Key) ebiten.Key {
	switch key {
	case render.KeyW:
		return ebiten.KeyW
	case render.KeyA:
		return ebiten.KeyA
	case render.KeyS:
		return ebiten.KeyS
	case render.KeyD:
		return ebiten.KeyD
	case render.KeyR:
		return ebiten.KeyR
	case render.KeyV:
		return ebiten.KeyV
	case render.KeyUp:
		return ebiten.KeyArrowUp
	case render.KeyDown:
		return ebiten.KeyArrowDown
	case render.KeyLeft:
		return ebiten.KeyArrowLeft
	case render.KeyRight:
		return ebiten.KeyArrowRight
	case render.KeySpace:
		return ebiten.KeySpace
	case render.KeyEscape:
		return ebiten.KeyEscape
	default:
		return 0
	}
}

// mouseButtonToEbiten converts a render.MouseButton to an ebiten.MouseButton.
func mouseButtonToEbiten(button render.MouseButton) ebiten.MouseButton {
	switch button {
	case render.MouseButtonLeft:
		return ebiten.MouseButtonLeft
	case render.MouseButtonRight:
		return ebiten.MouseButtonRight
	case render.MouseButtonMiddle:
		return ebiten.MouseButtonMiddle
	default:
		return ebiten.MouseButtonLeft
	}
}

// EbitenEngine implements the Engine interface using Ebiten.
type EbitenEngine struct{}

// NewEngine creates a new Ebiten-based game engine.
func NewEngine() render.Engine {
	return &EbitenEngine{}
}

// SetWindowSize sets the window size in pixels.
func (e *EbitenEngine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

// SetWindowTitle sets the window title.
func (e *EbitenEngine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetWindowResizable enables or disables window resizing.
func (e *EbitenEngine) SetWindowResizable(resizable bool) {
	if resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// RunGame runs the game loop with the provided game.
func (e *EbitenEngine) RunGame(game render.Game) error {
	return ebiten.RunGame(&gameAdapter{game: game})
}

// gameAdapter adapts a render.Game to ebiten.Game interface.
type gameAdapter struct {
	game render.Game
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	if err := a.game.Update(); err != nil {
		if errors.Is(err, render.ErrTerminated) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	a.game.Draw(&EbitenImage{img: screen})
}

// Layout implements ebiten.Game.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.game.Layout(outsideWidth, outsideHeight)
}
