package render

import (
	"fmt"
	"strings"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
)

// CullMode selects which triangles are dropped before rasterization.
type CullMode int

const (
	CullNone CullMode = iota // Draw both windings
	CullBack                 // Drop triangles facing away from the camera
)

// ParseCullMode parses "none" or "back".
func ParseCullMode(s string) (CullMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return CullNone, nil
	case "back", "":
		return CullBack, nil
	default:
		return CullNone, fmt.Errorf("invalid cull mode %q (use none or back)", s)
	}
}

func (m CullMode) String() string {
	switch m {
	case CullNone:
		return "none"
	case CullBack:
		return "back"
	default:
		return fmt.Sprintf("CullMode(%d)", int(m))
	}
}

// FrameStats counts what happened to each triangle in one frame.
type FrameStats struct {
	Triangles   int // Triangles in the mesh
	Drawn       int // Triangles handed to the rasterizer
	SkippedNear int // Triangles with a vertex at or behind the near limit
	Culled      int // Back-facing triangles dropped
	Degenerate  int // Zero-area triangles
	Pixels      int // Pixels written
}

// Renderer draws a mesh into a framebuffer from a camera.
type Renderer struct {
	Color      Color
	Background Color
	Cull       CullMode

	mesh   *models.Mesh
	points []math3d.Vec3 // Normalized positions
	proj   []Projected   // Reused per frame
	fb     *Framebuffer
	raster *Rasterizer
}

// NewRenderer normalizes the mesh positions once and returns a renderer
// drawing into fb.
func NewRenderer(mesh *models.Mesh, fb *Framebuffer) *Renderer {
	return &Renderer{
		Color:      ColorMesh,
		Background: ColorBackground,
		Cull:       CullBack,
		mesh:       mesh,
		points:     Normalize(mesh.Positions, DefaultSpan),
		fb:         fb,
		raster:     NewRasterizer(fb),
	}
}

// SetFramebuffer changes the draw target.
func (r *Renderer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
	r.raster.SetFramebuffer(fb)
}

// Framebuffer returns the current draw target.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// Mesh returns the mesh being drawn.
func (r *Renderer) Mesh() *models.Mesh {
	return r.mesh
}

// Frame clears the framebuffer and draws every triangle of the mesh.
func (r *Renderer) Frame(cam Camera) FrameStats {
	r.proj = Project(r.points, cam, r.fb.Width, r.fb.Height, r.proj)
	r.fb.Clear(r.Background)

	stats := FrameStats{Triangles: r.mesh.TriangleCount()}
	for i := range stats.Triangles {
		tri := r.mesh.Triangle(i)
		p0, p1, p2 := r.proj[tri[0].V], r.proj[tri[1].V], r.proj[tri[2].V]
		if !p0.Visible || !p1.Visible || !p2.Visible {
			stats.SkippedNear++
			continue
		}

		s0, s1, s2 := p0.Screen(), p1.Screen(), p2.Screen()
		area := edge(s0, s1, s2.X, s2.Y)
		if area == 0 {
			stats.Degenerate++
			continue
		}
		if r.Cull == CullBack && area < 0 {
			stats.Culled++
			continue
		}

		stats.Drawn++
		stats.Pixels += r.raster.DrawTriangle(s0, s1, s2, r.Color)
	}
	return stats
}

func (s FrameStats) String() string {
	return fmt.Sprintf("tris %d drawn %d near %d culled %d degenerate %d px %d",
		s.Triangles, s.Drawn, s.SkippedNear, s.Culled, s.Degenerate, s.Pixels)
}
