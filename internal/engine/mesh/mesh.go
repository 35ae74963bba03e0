// Package mesh builds indexed triangle meshes procedurally and validates
// them before they are uploaded to the GPU.
package mesh

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// Errors returned by builders, Validate and Merge.
var (
	ErrInvalidParameter  = errors.New("invalid mesh parameter")
	ErrInvalidMesh       = errors.New("invalid mesh")
	ErrIndexOverflow     = errors.New("index does not fit index format")
	ErrAttributeMismatch = errors.New("meshes carry different vertex attributes")
)

// normalTolerance is how far a normal's length may drift from 1.
const normalTolerance = 1e-3

// IndexFormat is the width of the element indices sent to the GPU.
type IndexFormat int

const (
	// Index16 stores indices as uint16 (max vertex index 65535).
	Index16 IndexFormat = iota
	// Index32 stores indices as uint32.
	Index32
)

// String returns the format name.
func (f IndexFormat) String() string {
	switch f {
	case Index16:
		return "uint16"
	case Index32:
		return "uint32"
	default:
		return fmt.Sprintf("IndexFormat(%d)", int(f))
	}
}

// MaxIndex returns the largest index representable in the format.
func (f IndexFormat) MaxIndex() uint32 {
	if f == Index16 {
		return 0xFFFF
	}
	return 0xFFFFFFFF
}

// Mesh holds flat vertex attribute arrays plus a triangle list.
// Positions and Normals hold 3 floats per vertex, TexCoords is either empty
// or holds 2 floats per vertex.
type Mesh struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// HasTexCoords reports whether the mesh carries texture coordinates.
func (m *Mesh) HasTexCoords() bool {
	return len(m.TexCoords) > 0
}

// MaxIndexValue returns the largest index referenced, or 0 for an empty mesh.
func (m *Mesh) MaxIndexValue() uint32 {
	var hi uint32
	for _, i := range m.Indices {
		if i > hi {
			hi = i
		}
	}
	return hi
}

// IndexFormat returns the narrowest format able to address every vertex.
func (m *Mesh) IndexFormat() IndexFormat {
	if m.VertexCount() > 0 && uint32(m.VertexCount()-1) > Index16.MaxIndex() {
		return Index32
	}
	return Index16
}

// Indices16 converts the index list to uint16.
func (m *Mesh) Indices16() ([]uint16, error) {
	out := make([]uint16, len(m.Indices))
	for i, idx := range m.Indices {
		if idx > Index16.MaxIndex() {
			return nil, fmt.Errorf("index %d at %d: %w", idx, i, ErrIndexOverflow)
		}
		out[i] = uint16(idx)
	}
	return out, nil
}

// Validate checks the structural invariants every mesh must hold before upload.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrInvalidMesh, len(m.Positions))
	}
	if len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("%w: %d normal floats for %d position floats", ErrInvalidMesh, len(m.Normals), len(m.Positions))
	}
	n := m.VertexCount()
	if len(m.TexCoords) != 0 && len(m.TexCoords) != 2*n {
		return fmt.Errorf("%w: %d texcoord floats for %d vertices", ErrInvalidMesh, len(m.TexCoords), n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidMesh, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidMesh, idx, i, n)
		}
	}
	for i, v := range m.Positions {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("%w: position component %d is not finite", ErrInvalidMesh, i)
		}
	}
	for i, v := range m.TexCoords {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("%w: texcoord component %d is not finite", ErrInvalidMesh, i)
		}
	}
	for v := 0; v < n; v++ {
		x, y, z := m.Normals[v*3], m.Normals[v*3+1], m.Normals[v*3+2]
		l := math32.Sqrt(x*x + y*y + z*z)
		if math32.IsNaN(l) || math32.Abs(l-1) > normalTolerance {
			return fmt.Errorf("%w: normal %d has length %v", ErrInvalidMesh, v, l)
		}
	}
	return nil
}

// builder accumulates vertices for the procedural constructors.
type builder struct {
	mesh Mesh
}

func (b *builder) vertex(px, py, pz, nx, ny, nz float32) uint32 {
	idx := uint32(len(b.mesh.Positions) / 3)
	b.mesh.Positions = append(b.mesh.Positions, px, py, pz)
	b.mesh.Normals = append(b.mesh.Normals, nx, ny, nz)
	return idx
}

func (b *builder) texVertex(px, py, pz, nx, ny, nz, u, v float32) uint32 {
	idx := b.vertex(px, py, pz, nx, ny, nz)
	b.mesh.TexCoords = append(b.mesh.TexCoords, u, v)
	return idx
}

func (b *builder) triangle(a, c, d uint32) {
	b.mesh.Indices = append(b.mesh.Indices, a, c, d)
}

func (b *builder) finish(name string) (*Mesh, error) {
	m := b.mesh
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &m, nil
}
