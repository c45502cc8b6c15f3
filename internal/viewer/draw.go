package viewer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/golang/geo/r2"

	"chosenoffset.com/sightline/internal/render"
	"chosenoffset.com/sightline/visibility"
)

// maxFanVertices bounds a DrawTriangles batch so indices fit in uint16.
const maxFanVertices = math.MaxUint16

var (
	backgroundColor = color.RGBA{18, 18, 24, 255}
	lightColor      = color.RGBA{240, 220, 140, 255}
	wallColor       = color.RGBA{200, 200, 210, 255}
	clipColor       = color.RGBA{90, 140, 255, 255}
	observerColor   = color.RGBA{255, 90, 60, 255}
	textColor       = color.RGBA{255, 255, 255, 255}
)

// Draw renders the scene to the screen.
func (v *Viewer) Draw(screen render.Image) {
	screen.Fill(backgroundColor)
	v.drawPolygon(screen)
	v.drawSegments(screen)
	if v.clip {
		v.drawRect(screen, v.clipRect(), clipColor)
	}
	v.drawObserver(screen)
	v.drawHUD(screen)
	v.drawMessages(screen)
}

// whiteImage returns the 1x1 white source used to fill triangles.
func (v *Viewer) whiteImage() render.Image {
	if v.whiteImg == nil {
		img := v.renderer.NewImage(3, 3)
		img.Fill(color.White)
		v.whiteImg = img.SubImage(image.Rect(1, 1, 2, 2))
	}
	return v.whiteImg
}

func (v *Viewer) drawPolygon(screen render.Image) {
	if len(v.polygon) < 3 {
		return
	}
	cx, cy := v.camera.ToScreen(v.observer)
	ring := make([][2]float32, len(v.polygon))
	for i, p := range v.polygon {
		x, y := v.camera.ToScreen(p)
		ring[i] = [2]float32{float32(x), float32(y)}
	}

	white := v.whiteImage()
	for _, batch := range fanTriangles([2]float32{float32(cx), float32(cy)}, ring, lightColor) {
		screen.DrawTriangles(batch.vertices, batch.indices, white, &render.DrawTrianglesOptions{AntiAlias: true})
	}
}

type fanBatch struct {
	vertices []render.Vertex
	indices  []uint16
}

// fanTriangles triangulates a ring that is star-shaped about center as a
// fan of triangles sharing center. Batches overlap by one ring vertex and
// each starts with center.
func fanTriangles(center [2]float32, ring [][2]float32, clr color.RGBA) []fanBatch {
	if len(ring) < 3 {
		return nil
	}
	seq := append(ring[:len(ring):len(ring)], ring[0])

	vertex := func(p [2]float32) render.Vertex {
		return render.Vertex{
			DstX:   p[0],
			DstY:   p[1],
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(clr.R) / 255,
			ColorG: float32(clr.G) / 255,
			ColorB: float32(clr.B) / 255,
			ColorA: float32(clr.A) / 255,
		}
	}

	per := maxFanVertices - 1
	var batches []fanBatch
	for start := 0; start < len(seq)-1; start += per - 1 {
		chunk := seq[start:min(start+per, len(seq))]

		vertices := make([]render.Vertex, 0, len(chunk)+1)
		vertices = append(vertices, vertex(center))
		for _, p := range chunk {
			vertices = append(vertices, vertex(p))
		}
		indices := make([]uint16, 0, 3*(len(chunk)-1))
		for i := 1; i < len(chunk); i++ {
			indices = append(indices, 0, uint16(i), uint16(i+1))
		}
		batches = append(batches, fanBatch{vertices: vertices, indices: indices})
	}
	return batches
}

func (v *Viewer) drawSegments(screen render.Image) {
	for _, s := range v.scene.Segments() {
		v.line(screen, s.A, s.B, 2, wallColor)
	}
}

func (v *Viewer) line(screen render.Image, a, b visibility.Point, width float32, clr color.Color) {
	x0, y0 := v.camera.ToScreen(a)
	x1, y1 := v.camera.ToScreen(b)
	v.renderer.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, clr)
}

func (v *Viewer) drawRect(screen render.Image, rect r2.Rect, clr color.Color) {
	if rect.IsEmpty() {
		return
	}
	corners := rect.Vertices()
	for i := range corners {
		v.line(screen, toPoint(corners[i]), toPoint(corners[(i+1)%len(corners)]), 1, clr)
	}
}

func (v *Viewer) drawObserver(screen render.Image) {
	x, y := v.camera.ToScreen(v.observer)
	v.renderer.FillCircle(screen, float32(x), float32(y), 5, observerColor)
	v.renderer.StrokeCircle(screen, float32(x), float32(y), 5, 1.5, textColor)
}

func (v *Viewer) drawHUD(screen render.Image) {
	clip := "off"
	if v.clip {
		clip = "on"
	}
	status := fmt.Sprintf("%s  observer (%.2f, %.2f)  vertices %d  compute %s  zoom %.2f  clip %s",
		v.scene.Name, v.observer.X, v.observer.Y, len(v.polygon), v.computeTime, v.camera.Zoom, clip)
	v.renderer.DrawText(screen, status, 10, 10, textColor, 1.0)

	help := "WASD pan  wheel zoom  click move observer  V clip  R reset  Esc quit"
	_, h := v.renderer.MeasureText(help, 1.0)
	v.renderer.DrawText(screen, help, 10, v.height-h-10, textColor, 1.0)
}

func (v *Viewer) drawMessages(screen render.Image) {
	y := 50
	for _, msg := range v.messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		v.renderer.DrawText(screen, msg.Text, 20, y, color.NRGBA{255, 255, 255, alpha}, 1.0)
		y += 20
	}
}
