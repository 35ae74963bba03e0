// Package renderer composes per-frame draw calls: it owns the GPU copies of
// every mesh and, for each call, binds the mesh, pushes the matrices and
// material uniforms and issues one draw. There is no retained scene; callers
// submit every entity again each frame.
package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/ghostmaze/internal/engine/gfx"
	"github.com/Faultbox/ghostmaze/internal/engine/mesh"
	"github.com/Faultbox/ghostmaze/internal/logger"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// Errors returned by Renderer.
var (
	ErrNoMesh        = errors.New("draw call without mesh")
	ErrNotInFrame    = errors.New("draw outside BeginFrame/EndFrame")
	ErrDuplicateMesh = errors.New("mesh name already uploaded")
)

// MaxPointLights is the size of the point light array in the scene shader.
const MaxPointLights = 4

// Uniform names shared by the scene and demo programs. Uniforms a program
// does not declare resolve to -1 and are ignored by GL.
const (
	uModel          = "uModel"
	uView           = "uView"
	uProjection     = "uProjection"
	uNormalMatrix   = "uNormalMatrix"
	uColor          = "uColor"
	uUseTexture     = "uUseTexture"
	uTexture        = "uTexture"
	uUnlit          = "uUnlit"
	uAmbient        = "uAmbient"
	uViewPosition   = "uViewPosition"
	uLightPositions = "uLightPositions"
	uLightDir       = "uLightDir"
)

// locations caches uniform locations for one program.
type locations struct {
	model, view, projection, normalMatrix int32
	color, useTexture, texture, unlit     int32
	ambient, viewPosition                 int32
	lightPositions, lightDir              int32
}

func lookup(ctx gfx.Context, p gfx.Program) locations {
	return locations{
		model:          ctx.UniformLocation(p, uModel),
		view:           ctx.UniformLocation(p, uView),
		projection:     ctx.UniformLocation(p, uProjection),
		normalMatrix:   ctx.UniformLocation(p, uNormalMatrix),
		color:          ctx.UniformLocation(p, uColor),
		useTexture:     ctx.UniformLocation(p, uUseTexture),
		texture:        ctx.UniformLocation(p, uTexture),
		unlit:          ctx.UniformLocation(p, uUnlit),
		ambient:        ctx.UniformLocation(p, uAmbient),
		viewPosition:   ctx.UniformLocation(p, uViewPosition),
		lightPositions: ctx.UniformLocation(p, uLightPositions),
		lightDir:       ctx.UniformLocation(p, uLightDir),
	}
}

// GPUMesh is a mesh resident on the GPU.
type GPUMesh struct {
	Name      string
	Primitive gfx.Primitive
	Count     int32 // index count, or vertex count for non-indexed meshes
	Indexed   bool
	Format    mesh.IndexFormat
	Textured  bool // carries a texcoord attribute

	vao     gfx.VertexArray
	buffers []gfx.Buffer
}

// FrameParams holds everything constant across one frame's draw calls.
type FrameParams struct {
	Width, Height int
	ClearColor    [4]float32
	View          math.Mat4
	Projection    math.Mat4
	Eye           math.Vec3
	Ambient       float32
	// LightPositions holds up to MaxPointLights positions, 3 floats each.
	LightPositions []float32
	// LightDir is the directional light used by the demo program.
	LightDir math.Vec3
}

// DrawCall describes one entity part for the current frame.
type DrawCall struct {
	Mesh  *GPUMesh
	Model math.Mat4
	Color math.Vec4
	// Texture replaces Color when non-zero and the mesh has texcoords.
	Texture gfx.Texture
	// Unlit draws Color without shading.
	Unlit bool
}

// Stats counts the work done in one frame.
type Stats struct {
	DrawCalls int
	Triangles int
}

// Renderer draws DrawCalls with a single shader program.
type Renderer struct {
	ctx     gfx.Context
	program gfx.Program
	loc     locations

	meshes  map[string]*GPUMesh
	inFrame bool
	stats   Stats
}

// New creates a renderer for an already linked program.
func New(ctx gfx.Context, program gfx.Program) *Renderer {
	return &Renderer{
		ctx:     ctx,
		program: program,
		loc:     lookup(ctx, program),
		meshes:  make(map[string]*GPUMesh),
	}
}

// Upload validates m and copies it to GPU buffers under name. Positions and
// normals are always bound; the texcoord attribute is enabled only when the
// mesh carries texcoords and is explicitly disabled otherwise.
func (r *Renderer) Upload(name string, m *mesh.Mesh) (*GPUMesh, error) {
	if _, ok := r.meshes[name]; ok {
		return nil, fmt.Errorf("%q: %w", name, ErrDuplicateMesh)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("upload %q: %w", name, err)
	}

	g := &GPUMesh{
		Name:      name,
		Primitive: gfx.Triangles,
		Count:     int32(len(m.Indices)),
		Indexed:   true,
		Format:    m.IndexFormat(),
		Textured:  m.HasTexCoords(),
	}

	g.vao = r.ctx.CreateVertexArray()
	r.ctx.BindVertexArray(g.vao)

	g.attribute(r.ctx, gfx.AttribPosition, m.Positions, 3)
	g.attribute(r.ctx, gfx.AttribNormal, m.Normals, 3)
	if g.Textured {
		g.attribute(r.ctx, gfx.AttribTexCoord, m.TexCoords, 2)
	} else {
		r.ctx.DisableAttribute(gfx.AttribTexCoord)
	}

	ebo := r.ctx.CreateBuffer()
	g.buffers = append(g.buffers, ebo)
	if g.Format == mesh.Index16 {
		idx, err := m.Indices16()
		if err != nil {
			r.ctx.BindVertexArray(0)
			r.release(g)
			return nil, fmt.Errorf("upload %q: %w", name, err)
		}
		r.ctx.UploadIndices16(ebo, idx)
	} else {
		r.ctx.UploadIndices32(ebo, m.Indices)
	}

	r.ctx.BindVertexArray(0)
	r.meshes[name] = g

	logger.Debug("mesh uploaded",
		zap.String("name", name),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Stringer("index_format", g.Format),
	)
	return g, nil
}

// UploadLines stores a non-indexed line list (3 floats per endpoint). Line
// meshes have no normals; draw them with DrawCall.Unlit.
func (r *Renderer) UploadLines(name string, positions []float32) (*GPUMesh, error) {
	if _, ok := r.meshes[name]; ok {
		return nil, fmt.Errorf("%q: %w", name, ErrDuplicateMesh)
	}
	if len(positions) == 0 || len(positions)%6 != 0 {
		return nil, fmt.Errorf("upload %q: %w: %d floats is not a list of segments",
			name, mesh.ErrInvalidMesh, len(positions))
	}

	g := &GPUMesh{
		Name:      name,
		Primitive: gfx.Lines,
		Count:     int32(len(positions) / 3),
	}
	g.vao = r.ctx.CreateVertexArray()
	r.ctx.BindVertexArray(g.vao)
	g.attribute(r.ctx, gfx.AttribPosition, positions, 3)
	r.ctx.DisableAttribute(gfx.AttribNormal)
	r.ctx.DisableAttribute(gfx.AttribTexCoord)
	r.ctx.BindVertexArray(0)

	r.meshes[name] = g
	return g, nil
}

func (g *GPUMesh) attribute(ctx gfx.Context, loc uint32, data []float32, size int32) {
	b := ctx.CreateBuffer()
	g.buffers = append(g.buffers, b)
	ctx.UploadVertices(b, data)
	ctx.EnableAttribute(loc, b, size)
}

// Mesh returns an uploaded mesh by name.
func (r *Renderer) Mesh(name string) (*GPUMesh, bool) {
	g, ok := r.meshes[name]
	return g, ok
}

// BeginFrame clears the target and sets the per-frame uniforms.
func (r *Renderer) BeginFrame(p FrameParams) {
	c := p.ClearColor
	r.ctx.Viewport(p.Width, p.Height)
	r.ctx.SetClearColor(c[0], c[1], c[2], c[3])
	r.ctx.SetDepthTest(true)
	r.ctx.Clear()

	r.ctx.UseProgram(r.program)
	r.ctx.UniformMat4(r.loc.view, p.View)
	r.ctx.UniformMat4(r.loc.projection, p.Projection)
	r.ctx.UniformVec3(r.loc.viewPosition, p.Eye)
	r.ctx.UniformVec3(r.loc.ambient, math.Vec3{X: p.Ambient, Y: p.Ambient, Z: p.Ambient})
	r.ctx.UniformVec3(r.loc.lightDir, p.LightDir)
	if n := len(p.LightPositions); n > 0 {
		if n > MaxPointLights*3 {
			n = MaxPointLights * 3
		}
		r.ctx.UniformVec3Array(r.loc.lightPositions, p.LightPositions[:n-n%3])
	}
	r.ctx.UniformInt(r.loc.texture, 0)

	r.inFrame = true
	r.stats = Stats{}
}

// Draw issues one draw call.
func (r *Renderer) Draw(call DrawCall) error {
	if !r.inFrame {
		return ErrNotInFrame
	}
	g := call.Mesh
	if g == nil {
		return ErrNoMesh
	}

	r.ctx.BindVertexArray(g.vao)
	r.ctx.UniformMat4(r.loc.model, call.Model)
	r.ctx.UniformMat4(r.loc.normalMatrix, math.NormalMatrix(call.Model))

	textured := call.Texture != 0 && g.Textured
	if textured {
		r.ctx.BindTexture(0, call.Texture)
		r.ctx.UniformInt(r.loc.useTexture, 1)
	} else {
		r.ctx.UniformInt(r.loc.useTexture, 0)
	}
	r.ctx.UniformVec4(r.loc.color, call.Color)
	r.ctx.UniformInt(r.loc.unlit, boolInt(call.Unlit))

	if g.Indexed {
		r.ctx.DrawElements(g.Primitive, g.Count, g.Format)
		r.stats.Triangles += int(g.Count / 3)
	} else {
		r.ctx.DrawArrays(g.Primitive, 0, g.Count)
	}
	r.stats.DrawCalls++
	return nil
}

// EndFrame unbinds the vertex array and texture so state set by one frame
// never leaks into code running between frames.
func (r *Renderer) EndFrame() Stats {
	r.ctx.BindVertexArray(0)
	r.ctx.BindTexture(0, 0)
	r.inFrame = false
	return r.stats
}

// Close releases every uploaded mesh.
func (r *Renderer) Close() {
	for name, g := range r.meshes {
		r.release(g)
		delete(r.meshes, name)
	}
}

func (r *Renderer) release(g *GPUMesh) {
	for _, b := range g.buffers {
		r.ctx.DeleteBuffer(b)
	}
	if g.vao != 0 {
		r.ctx.DeleteVertexArray(g.vao)
	}
	g.buffers = nil
	g.vao = 0
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
