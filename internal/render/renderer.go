// Package render abstracts the graphics engine behind small interfaces so
// the viewer logic can run, and be tested, without a window.
package render

import (
	"errors"
	"image"
	"image/color"
)

// ErrTerminated is returned from Game.Update to end the game loop normally.
var ErrTerminated = errors.New("render: game terminated")

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)
	StrokeCircle(dst Image, x, y, radius float32, strokeWidth float32, clr color.Color)
	StrokeLine(dst Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color, scale float64)
	MeasureText(text string, scale float64) (width, height int)
}

// Image represents a renderable image surface.
type Image interface {
	Bounds() image.Rectangle
	Size() (width, height int)

	SubImage(r image.Rectangle) Image

	Fill(clr color.Color)
	Clear()

	// DrawTriangles draws triangles textured from img. Vertex colors scale
	// the source pixels.
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)

	Dispose()
}

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
}

// Vertex represents a vertex for triangle rendering.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
	IsMouseButtonJustPressed(button MouseButton) bool
	// Wheel returns the scroll offset of the current tick.
	Wheel() (x, y float64)
}

// Key represents a keyboard key.
type Key int

// Key constants for common keys
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyR // Reset camera
	KeyV // Toggle viewport clipping
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the game logic. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetWindowResizable(resizable bool)

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
