package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Cylinder builds an open-topped cylinder around the Y axis. The side wall
// holds one (top, bottom) vertex pair per segment with outward radial
// normals; the bottom cap is a centre vertex plus a ring facing -Y.
func Cylinder(radius, yBottom, yTop float32, segments int) (*Mesh, error) {
	if segments < 3 {
		return nil, fmt.Errorf("cylinder: %w: segments %d < 3", ErrInvalidParameter, segments)
	}
	if radius <= 0 || yTop <= yBottom {
		return nil, fmt.Errorf("cylinder: %w: radius %v, y %v..%v", ErrInvalidParameter, radius, yBottom, yTop)
	}

	var b builder
	ring := circle(segments)

	for _, p := range ring {
		b.vertex(p[0]*radius, yTop, p[1]*radius, p[0], 0, p[1])
		b.vertex(p[0]*radius, yBottom, p[1]*radius, p[0], 0, p[1])
	}
	s := uint32(segments)
	for i := uint32(0); i < s; i++ {
		i0 := i * 2
		i1 := i*2 + 1
		i2 := ((i + 1) % s) * 2
		i3 := i2 + 1
		b.triangle(i0, i1, i2)
		b.triangle(i2, i1, i3)
	}

	base := b.vertex(0, yBottom, 0, 0, -1, 0)
	for _, p := range ring {
		b.vertex(p[0]*radius, yBottom, p[1]*radius, 0, -1, 0)
	}
	for i := uint32(0); i < s; i++ {
		b.triangle(base, base+1+((i+1)%s), base+1+i)
	}

	return b.finish("cylinder")
}

// Hemisphere builds the upper half of a sphere centred at (0, yCenter, 0).
// Latitude runs from the equator (lat=0) to the pole; the seam column is
// duplicated so each ring holds lonSegments+1 vertices.
func Hemisphere(radius, yCenter float32, latSegments, lonSegments int) (*Mesh, error) {
	if latSegments < 1 || lonSegments < 3 || radius <= 0 {
		return nil, fmt.Errorf("hemisphere: %w: radius %v, segments %dx%d",
			ErrInvalidParameter, radius, latSegments, lonSegments)
	}

	var b builder
	for lat := 0; lat <= latSegments; lat++ {
		theta := float32(lat) / float32(latSegments) * (math32.Pi / 2)
		sinT, cosT := math32.Sin(theta), math32.Cos(theta)
		for lon := 0; lon <= lonSegments; lon++ {
			phi := float32(lon) / float32(lonSegments) * (2 * math32.Pi)
			sinP, cosP := math32.Sin(phi), math32.Cos(phi)
			x, y, z := cosP*cosT, sinT, sinP*cosT
			b.vertex(x*radius, yCenter+y*radius, z*radius, x, y, z)
		}
	}
	gridIndices(&b, latSegments, lonSegments, false)

	return b.finish("hemisphere")
}

// Sphere builds a full UV sphere centred at the origin with the given
// number of latitude and longitude bands.
func Sphere(radius float32, bands int) (*Mesh, error) {
	if bands < 3 || radius <= 0 {
		return nil, fmt.Errorf("sphere: %w: radius %v, bands %d", ErrInvalidParameter, radius, bands)
	}

	var b builder
	for lat := 0; lat <= bands; lat++ {
		theta := float32(lat) * math32.Pi / float32(bands)
		sinT, cosT := math32.Sin(theta), math32.Cos(theta)
		for lon := 0; lon <= bands; lon++ {
			phi := float32(lon) * 2 * math32.Pi / float32(bands)
			sinP, cosP := math32.Sin(phi), math32.Cos(phi)
			x, y, z := cosP*sinT, cosT, sinP*sinT
			b.vertex(x*radius, y*radius, z*radius, x, y, z)
		}
	}
	gridIndices(&b, bands, bands, true)

	return b.finish("sphere")
}

// gridIndices triangulates a (rows+1) x (cols+1) vertex grid.
func gridIndices(b *builder, rows, cols int, sphereWinding bool) {
	stride := uint32(cols + 1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a := uint32(r)*stride + uint32(c)
			n := a + stride
			if sphereWinding {
				b.triangle(a, n, a+1)
				b.triangle(n, n+1, a+1)
			} else {
				b.triangle(a, n, a+1)
				b.triangle(a+1, n, n+1)
			}
		}
	}
}

// cubeFaces lists, per face, the normal and the four corners (in units of
// half the side) ordered top-right, bottom-right, top-left, bottom-left.
var cubeFaces = [6]struct {
	normal  [3]float32
	corners [4][3]float32
}{
	{[3]float32{0, 0, 1}, [4][3]float32{{1, 1, 1}, {1, -1, 1}, {-1, 1, 1}, {-1, -1, 1}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {-1, -1, -1}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{-1, 1, -1}, {-1, -1, -1}, {1, 1, -1}, {1, -1, -1}}},
	{[3]float32{1, 0, 0}, [4][3]float32{{1, 1, -1}, {1, -1, -1}, {1, 1, 1}, {1, -1, 1}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{1, 1, 1}, {1, 1, -1}, {-1, 1, 1}, {-1, 1, -1}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{1, -1, 1}, {1, -1, -1}, {-1, -1, 1}, {-1, -1, -1}}},
}

// cubeUV matches the corner order of cubeFaces.
var cubeUV = [4][2]float32{{1, 0}, {1, 1}, {0, 0}, {0, 1}}

// Cube builds an axis-aligned cube of the given side centred at the origin:
// 4 vertices per face so every face has its own normal and a full 0..1
// texture.
func Cube(side float32) (*Mesh, error) {
	if side <= 0 {
		return nil, fmt.Errorf("cube: %w: side %v", ErrInvalidParameter, side)
	}

	h := side / 2
	var b builder
	for _, f := range cubeFaces {
		n := f.normal
		var idx [4]uint32
		for i, c := range f.corners {
			idx[i] = b.texVertex(c[0]*h, c[1]*h, c[2]*h, n[0], n[1], n[2], cubeUV[i][0], cubeUV[i][1])
		}
		b.triangle(idx[0], idx[1], idx[2])
		b.triangle(idx[2], idx[1], idx[3])
	}

	return b.finish("cube")
}

// Plane builds a square in the XZ plane facing +Y. Texture coordinates run
// 0..repeat so a REPEAT-wrapped texture tiles across it.
func Plane(size, repeat float32) (*Mesh, error) {
	if size <= 0 || repeat <= 0 {
		return nil, fmt.Errorf("plane: %w: size %v, repeat %v", ErrInvalidParameter, size, repeat)
	}

	h := size / 2
	var b builder
	v0 := b.texVertex(h, 0, -h, 0, 1, 0, repeat, 0)
	v1 := b.texVertex(-h, 0, -h, 0, 1, 0, 0, 0)
	v2 := b.texVertex(-h, 0, h, 0, 1, 0, 0, repeat)
	v3 := b.texVertex(h, 0, h, 0, 1, 0, repeat, repeat)
	b.triangle(v0, v1, v2)
	b.triangle(v0, v2, v3)

	return b.finish("plane")
}

// GridLines returns line-list positions for a square grid on the XZ plane
// spanning -halfExtent..halfExtent with lines every step units.
func GridLines(halfExtent, step float32) ([]float32, error) {
	if halfExtent <= 0 || step <= 0 {
		return nil, fmt.Errorf("grid: %w: extent %v, step %v", ErrInvalidParameter, halfExtent, step)
	}

	n := int(math32.Floor(2*halfExtent/step+1e-4)) + 1
	lines := make([]float32, 0, n*12)
	for i := 0; i < n; i++ {
		p := -halfExtent + float32(i)*step
		lines = append(lines,
			-halfExtent, 0, p, halfExtent, 0, p,
			p, 0, -halfExtent, p, 0, halfExtent,
		)
	}
	return lines, nil
}

// Ghost builds the ghost body: an open cylinder of bodyHeight topped by a
// hemisphere of the same radius.
func Ghost(radius, bodyHeight float32, segments, latSegments int) (*Mesh, error) {
	body, err := Cylinder(radius, 0, bodyHeight, segments)
	if err != nil {
		return nil, fmt.Errorf("ghost body: %w", err)
	}
	head, err := Hemisphere(radius, bodyHeight, latSegments, segments)
	if err != nil {
		return nil, fmt.Errorf("ghost head: %w", err)
	}
	return Merge(Index16, body, head)
}

// circle returns unit (cos, sin) pairs for evenly spaced angles.
func circle(segments int) [][2]float32 {
	pts := make([][2]float32, segments)
	for i := range pts {
		a := float32(i) / float32(segments) * 2 * math32.Pi
		pts[i] = [2]float32{math32.Cos(a), math32.Sin(a)}
	}
	return pts
}
