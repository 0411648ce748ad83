// Package render provides the projection, depth-buffered rasterization and
// frame presentation used by meshview.
package render

import (
	"image"
	"image/color"
	"math"
)

// Framebuffer holds a color plane and a depth plane of the same size.
// Both are row-major with y increasing downward.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data
	Depth  []float64    // Nearest depth written so far, +Inf when empty
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Negative sizes are treated as zero.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  make([]float64, width*height),
	}
	fill(fb.Depth, math.Inf(1))
	return fb
}

// Clear fills the color plane with c and resets every depth to +Inf.
func (fb *Framebuffer) Clear(c color.RGBA) {
	fill(fb.Pixels, c)
	fill(fb.Depth, math.Inf(1))
}

// fill sets every element of s to v, doubling the copied span each step.
func fill[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}

// Put writes c at (x, y) if depth is strictly nearer than the stored depth.
// Out-of-bounds writes are ignored. It reports whether the pixel changed.
// Equal depths keep the earlier write.
func (fb *Framebuffer) Put(x, y int, depth float64, c color.RGBA) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	i := y*fb.Width + x
	if !(depth < fb.Depth[i]) {
		return false
	}
	fb.Depth[i] = depth
	fb.Pixels[i] = c
	return true
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthAt returns the stored depth at (x, y), or +Inf if out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}
