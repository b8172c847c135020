// Package signature implements a freehand signature capture surface. The pad
// is a fixed-size raster canvas driven by pointer begin/extend/end events and
// exports its contents as an embeddable PNG data URI.
package signature

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

const (
	// DefaultWidth and DefaultHeight match the capture surface used by the
	// claim form.
	DefaultWidth  = 500
	DefaultHeight = 150

	// strokeRadius gives the fixed-width round-capped stroke.
	strokeRadius = 2
)

// strokeColor is the fixed dark ink color.
var strokeColor = color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}

// Pad is a drawing surface for capturing a signature. It keeps no stroke
// history beyond what the raster retains and supports no undo.
type Pad struct {
	img     *image.RGBA
	drawing bool
	lastX   int
	lastY   int
}

// NewPad creates a blank white pad of the given dimensions. Non-positive
// dimensions fall back to the defaults.
func NewPad(width, height int) *Pad {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	p := &Pad{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	p.Clear()
	return p
}

// Begin starts a new path at the given coordinate.
func (p *Pad) Begin(x, y int) {
	p.drawing = true
	p.lastX, p.lastY = x, y
	p.dot(x, y)
}

// Extend appends a line segment from the last point to the new point and
// renders it. It is a no-op when no path has been started.
func (p *Pad) Extend(x, y int) {
	if !p.drawing {
		return
	}
	p.line(p.lastX, p.lastY, x, y)
	p.lastX, p.lastY = x, y
}

// End finishes the current path.
func (p *Pad) End() {
	p.drawing = false
}

// Clear erases the entire surface back to white.
func (p *Pad) Clear() {
	draw.Draw(p.img, p.img.Bounds(), image.White, image.Point{}, draw.Src)
}

// Export serializes the current raster surface to a PNG data URI. A blank
// surface still yields a valid (blank) image.
func (p *Pad) Export() (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.img); err != nil {
		return "", fmt.Errorf("failed to encode signature image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Image returns the backing raster. Callers must not mutate it.
func (p *Pad) Image() image.Image {
	return p.img
}

// dot stamps a filled circle, giving the stroke its round cap.
func (p *Pad) dot(cx, cy int) {
	for dy := -strokeRadius; dy <= strokeRadius; dy++ {
		for dx := -strokeRadius; dx <= strokeRadius; dx++ {
			if dx*dx+dy*dy > strokeRadius*strokeRadius {
				continue
			}
			x, y := cx+dx, cy+dy
			if image.Pt(x, y).In(p.img.Bounds()) {
				p.img.SetRGBA(x, y, strokeColor)
			}
		}
	}
}

// line renders a segment between two points by stamping dots along a
// Bresenham walk.
func (p *Pad) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		p.dot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
