package mesh

import "fmt"

// Merge concatenates meshes into one, rebasing each input's indices by the
// number of vertices that precede it. Draw order is preserved. All inputs
// must agree on whether they carry texture coordinates, and the rebased
// indices must fit format.
func Merge(format IndexFormat, meshes ...*Mesh) (*Mesh, error) {
	var vertices, indices int
	withTex := 0
	for _, m := range meshes {
		vertices += m.VertexCount()
		indices += len(m.Indices)
		if m.HasTexCoords() {
			withTex++
		}
	}
	if withTex != 0 && withTex != len(meshes) {
		return nil, fmt.Errorf("merge: %w: %d of %d meshes have texcoords",
			ErrAttributeMismatch, withTex, len(meshes))
	}
	if vertices > 0 && uint64(vertices-1) > uint64(format.MaxIndex()) {
		return nil, fmt.Errorf("merge: %w: %d vertices exceed %s", ErrIndexOverflow, vertices, format)
	}

	out := &Mesh{
		Positions: make([]float32, 0, vertices*3),
		Normals:   make([]float32, 0, vertices*3),
		Indices:   make([]uint32, 0, indices),
	}
	if withTex > 0 {
		out.TexCoords = make([]float32, 0, vertices*2)
	}

	var offset uint32
	for _, m := range meshes {
		out.Positions = append(out.Positions, m.Positions...)
		out.Normals = append(out.Normals, m.Normals...)
		out.TexCoords = append(out.TexCoords, m.TexCoords...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, idx+offset)
		}
		offset += uint32(m.VertexCount())
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return out, nil
}
