// Package models provides 3D model loading and representation for meshview.
package models

import (
	"fmt"

	"github.com/taigrr/meshview/pkg/math3d"
)

// Mesh is an unconnected triangle soup with separate attribute lists.
// Every consecutive group of three Indices is one triangle.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	Texcoords []math3d.Vec2
	Normals   []math3d.Vec3
	Indices   []FaceVertex
}

// FaceVertex references one corner of a triangle. The texcoord and normal
// references are optional; HasVT and HasVN tell an absent reference apart
// from a reference to element 0.
type FaceVertex struct {
	V     uint32 // Index into Positions
	VT    uint32 // Index into Texcoords, valid when HasVT
	VN    uint32 // Index into Normals, valid when HasVN
	HasVT bool
	HasVN bool
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: make([]math3d.Vec3, 0),
		Texcoords: make([]math3d.Vec2, 0),
		Normals:   make([]math3d.Vec3, 0),
		Indices:   make([]FaceVertex, 0),
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Triangle returns the three corners of triangle i.
func (m *Mesh) Triangle(i int) [3]FaceVertex {
	return [3]FaceVertex{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// Bounds returns the axis-aligned bounding box of all positions.
// An empty mesh has a zero box.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Positions) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// Validate checks that the index list forms whole triangles and that every
// reference points inside its attribute list.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, fv := range m.Indices {
		if int(fv.V) >= len(m.Positions) {
			return fmt.Errorf("index %d: position %d out of range (%d positions)", i, fv.V, len(m.Positions))
		}
		if fv.HasVT && int(fv.VT) >= len(m.Texcoords) {
			return fmt.Errorf("index %d: texcoord %d out of range (%d texcoords)", i, fv.VT, len(m.Texcoords))
		}
		if fv.HasVN && int(fv.VN) >= len(m.Normals) {
			return fmt.Errorf("index %d: normal %d out of range (%d normals)", i, fv.VN, len(m.Normals))
		}
	}
	return nil
}
