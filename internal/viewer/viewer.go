// Package viewer implements the interactive isovist explorer: the observer
// follows mouse clicks, the camera pans and zooms, and the visibility
// polygon is recomputed whenever its inputs change.
package viewer

import (
	"log/slog"
	"math"
	"time"

	"github.com/golang/geo/r2"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/internal/render"
	"chosenoffset.com/sightline/internal/world/scene"
	"chosenoffset.com/sightline/visibility"
)

// Delta time for timers, assuming 60 ticks per second.
const tickSeconds = 1.0 / 60.0

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// Viewer holds the interactive state. It implements render.Game.
type Viewer struct {
	cfg      config.ViewerConfig
	scene    *scene.Scene
	renderer render.Renderer
	input    render.InputManager

	width, height int
	camera        Camera
	observer      visibility.Point
	clip          bool

	polygon      visibility.Polygon
	dirty        bool
	computeTime  time.Duration
	computations int

	messages []Message
	whiteImg render.Image
}

// New creates a viewer for sc with the camera fitted to the scene.
func New(cfg config.ViewerConfig, sc *scene.Scene, r render.Renderer, input render.InputManager) *Viewer {
	v := &Viewer{
		cfg:      cfg,
		scene:    sc,
		renderer: r,
		input:    input,
		width:    cfg.WindowWidth,
		height:   cfg.WindowHeight,
		observer: sc.Observer,
		clip:     cfg.ClipToScreen,
		dirty:    true,
	}
	v.resetCamera()
	return v
}

// Observer returns the current observer position.
func (v *Viewer) Observer() visibility.Point {
	return v.observer
}

// Polygon returns the last computed visibility polygon.
func (v *Viewer) Polygon() visibility.Polygon {
	return v.polygon
}

// Camera returns the current camera.
func (v *Viewer) Camera() Camera {
	return v.camera
}

// Clipping reports whether the polygon is clipped to the visible area.
func (v *Viewer) Clipping() bool {
	return v.clip
}

// Messages returns the messages currently on screen.
func (v *Viewer) Messages() []Message {
	return v.messages
}

// Update handles input and recomputes the polygon when needed.
func (v *Viewer) Update() error {
	v.updateMessages(tickSeconds)

	if v.input.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrTerminated
	}

	v.handleCamera()
	v.handleObserver()

	if v.input.IsKeyJustPressed(render.KeyV) {
		v.clip = !v.clip
		v.dirty = true
		if v.clip {
			v.ShowMessage("Clipping to view: on")
		} else {
			v.ShowMessage("Clipping to view: off")
		}
	}
	if v.input.IsKeyJustPressed(render.KeyR) {
		v.resetCamera()
		v.cameraMoved()
		v.ShowMessage("Camera reset")
	}

	if v.dirty {
		v.recompute()
	}
	return nil
}

// Layout follows the window size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.width || outsideHeight != v.height {
		v.width, v.height = outsideWidth, outsideHeight
		v.cameraMoved()
	}
	return v.width, v.height
}

func (v *Viewer) handleCamera() {
	var dx, dy float64
	if v.input.IsKeyPressed(render.KeyW) || v.input.IsKeyPressed(render.KeyUp) {
		dy -= v.cfg.PanSpeed
	}
	if v.input.IsKeyPressed(render.KeyS) || v.input.IsKeyPressed(render.KeyDown) {
		dy += v.cfg.PanSpeed
	}
	if v.input.IsKeyPressed(render.KeyA) || v.input.IsKeyPressed(render.KeyLeft) {
		dx -= v.cfg.PanSpeed
	}
	if v.input.IsKeyPressed(render.KeyD) || v.input.IsKeyPressed(render.KeyRight) {
		dx += v.cfg.PanSpeed
	}
	if dx != 0 || dy != 0 {
		v.camera.Pan(dx, dy)
		v.cameraMoved()
	}

	if _, wheel := v.input.Wheel(); wheel != 0 {
		x, y := v.input.GetCursorPosition()
		v.camera.ZoomAt(float64(x), float64(y), math.Pow(v.cfg.ZoomStep, wheel), v.cfg.MinZoom, v.cfg.MaxZoom)
		v.cameraMoved()
	}
}

func (v *Viewer) handleObserver() {
	if !v.input.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		return
	}
	x, y := v.input.GetCursorPosition()
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return
	}
	v.observer = v.camera.ToWorld(float64(x), float64(y))
	v.dirty = true
}

// cameraMoved marks the polygon stale when it depends on the view.
func (v *Viewer) cameraMoved() {
	if v.clip {
		v.dirty = true
	}
}

func (v *Viewer) resetCamera() {
	v.camera = FitCamera(v.sceneRect(), v.width, v.height, v.cfg.MinZoom, v.cfg.MaxZoom)
}

// sceneRect is the scene viewport, or else the box around every segment and
// the observer.
func (v *Viewer) sceneRect() r2.Rect {
	if vp := v.scene.Viewport; vp != nil {
		return r2.RectFromPoints(toR2(vp.Min), toR2(vp.Max))
	}
	rect := r2.RectFromPoints(toR2(v.observer))
	for _, s := range v.scene.Segments() {
		rect = rect.AddPoint(toR2(s.A)).AddPoint(toR2(s.B))
	}
	if size := rect.Size(); size.X == 0 || size.Y == 0 {
		rect = rect.ExpandedByMargin(1)
	}
	return rect
}

// clipRect is the area the polygon is clipped to: the visible part of the
// scene viewport, or the whole screen without one.
func (v *Viewer) clipRect() r2.Rect {
	rect := v.camera.Visible(v.width, v.height)
	if vp := v.scene.Viewport; vp != nil {
		rect = rect.Intersection(r2.RectFromPoints(toR2(vp.Min), toR2(vp.Max)))
	}
	return rect
}

func (v *Viewer) recompute() {
	hadPolygon := len(v.polygon) > 0

	start := time.Now()
	v.polygon = v.compute()
	v.computeTime = time.Since(start)
	v.computations++
	v.dirty = false

	slog.Debug("visibility recomputed",
		"observer", v.observer,
		"clip", v.clip,
		"vertices", len(v.polygon),
		"duration", v.computeTime)

	if hadPolygon && len(v.polygon) == 0 {
		v.ShowMessage("Observer is outside the view")
	}
}

func (v *Viewer) compute() visibility.Polygon {
	segments := v.scene.Segments()
	if !v.clip {
		return visibility.Compute(v.observer, segments)
	}
	rect := v.clipRect()
	if rect.IsEmpty() {
		return visibility.Polygon{}
	}
	return visibility.ComputeViewport(v.observer, segments, toPoint(rect.Lo()), toPoint(rect.Hi()))
}

func (v *Viewer) updateMessages(dt float64) {
	var active []Message
	for _, msg := range v.messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	v.messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (v *Viewer) ShowMessage(text string) {
	d := v.cfg.MessageDuration.Std().Seconds()
	v.messages = append(v.messages, Message{
		Text:     text,
		TimeLeft: d,
		MaxTime:  d,
	})
	slog.Debug("viewer message", "text", text)
}
