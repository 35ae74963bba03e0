package renderer

import (
	"errors"
	"testing"

	"github.com/Faultbox/ghostmaze/internal/engine/gfx"
	"github.com/Faultbox/ghostmaze/internal/engine/mesh"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// fakeContext records the GL state the renderer leaves behind.
type fakeContext struct {
	next uint32

	boundVAO     gfx.VertexArray
	boundTexture gfx.Texture
	attribs      map[gfx.VertexArray]map[uint32]bool

	names    map[string]int32
	uniforms map[int32]any

	draws      []drawRecord
	indices16  int
	indices32  int
	deleted    int
	depthTest  bool
	clearCount int
}

type drawRecord struct {
	vao        gfx.VertexArray
	primitive  gfx.Primitive
	count      int32
	indexed    bool
	attribs    map[uint32]bool
	useTexture any
	texture    gfx.Texture
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		attribs:  make(map[gfx.VertexArray]map[uint32]bool),
		names:    make(map[string]int32),
		uniforms: make(map[int32]any),
	}
}

func (f *fakeContext) id() uint32 {
	f.next++
	return f.next
}

func (f *fakeContext) uniform(name string) any {
	loc, ok := f.names[name]
	if !ok {
		return nil
	}
	return f.uniforms[loc]
}

func (f *fakeContext) CreateVertexArray() gfx.VertexArray {
	v := gfx.VertexArray(f.id())
	f.attribs[v] = make(map[uint32]bool)
	return v
}
func (f *fakeContext) BindVertexArray(v gfx.VertexArray) { f.boundVAO = v }
func (f *fakeContext) DeleteVertexArray(gfx.VertexArray) {}
func (f *fakeContext) CreateBuffer() gfx.Buffer { return gfx.Buffer(f.id()) }
func (f *fakeContext) DeleteBuffer(gfx.Buffer) { f.deleted++ }
func (f *fakeContext) UploadVertices(gfx.Buffer, []float32) {}
func (f *fakeContext) UploadIndices16(gfx.Buffer, []uint16) { f.indices16++ }
func (f *fakeContext) UploadIndices32(gfx.Buffer, []uint32) { f.indices32++ }

func (f *fakeContext) EnableAttribute(loc uint32, _ gfx.Buffer, _ int32) {
	if f.boundVAO != 0 {
		f.attribs[f.boundVAO][loc] = true
	}
}

func (f *fakeContext) DisableAttribute(loc uint32) {
	if f.boundVAO != 0 {
		f.attribs[f.boundVAO][loc] = false
	}
}

func (f *fakeContext) UseProgram(gfx.Program) {}

func (f *fakeContext) UniformLocation(_ gfx.Program, name string) int32 {
	if loc, ok := f.names[name]; ok {
		return loc
	}
	loc := int32(len(f.names))
	f.names[name] = loc
	return loc
}

func (f *fakeContext) UniformMat4(loc int32, m math.Mat4) { f.uniforms[loc] = m }
func (f *fakeContext) UniformVec3(loc int32, v math.Vec3) { f.uniforms[loc] = v }
func (f *fakeContext) UniformVec4(loc int32, v math.Vec4) { f.uniforms[loc] = v }
func (f *fakeContext) UniformInt(loc int32, v int32) { f.uniforms[loc] = v }
func (f *fakeContext) UniformFloat(loc int32, v float32) { f.uniforms[loc] = v }
func (f *fakeContext) UniformVec3Array(loc int32, v []float32) { f.uniforms[loc] = append([]float32(nil), v...) }
func (f *fakeContext) CreateTexture() gfx.Texture { return gfx.Texture(f.id()) }
func (f *fakeContext) DeleteTexture(gfx.Texture) {}
func (f *fakeContext) UploadTexture(gfx.Texture, int, int, []byte, gfx.Sampling) {}
func (f *fakeContext) BindTexture(_ uint32, t gfx.Texture) { f.boundTexture = t }
func (f *fakeContext) SetClearColor(r, g, b, a float32) {}
func (f *fakeContext) Clear() { f.clearCount++ }
func (f *fakeContext) SetDepthTest(enabled bool) { f.depthTest = enabled }
func (f *fakeContext) Viewport(int, int) {}

func (f *fakeContext) record(p gfx.Primitive, count int32, indexed bool) {
	attribs := make(map[uint32]bool)
	for k, v := range f.attribs[f.boundVAO] {
		attribs[k] = v
	}
	f.draws = append(f.draws, drawRecord{
		vao:        f.boundVAO,
		primitive:  p,
		count:      count,
		indexed:    indexed,
		attribs:    attribs,
		useTexture: f.uniform(uUseTexture),
		texture:    f.boundTexture,
	})
}

func (f *fakeContext) DrawArrays(p gfx.Primitive, _ int32, count int32) { f.record(p, count, false) }
func (f *fakeContext) DrawElements(p gfx.Primitive, count int32, _ mesh.IndexFormat) {
	f.record(p, count, true)
}

func uploadScene(t *testing.T, r *Renderer) (cube, ghost *GPUMesh) {
	t.Helper()
	cm, err := mesh.Cube(1)
	if err != nil {
		t.Fatal(err)
	}
	gm, err := mesh.Ghost(0.5, 0.6, 20, 10)
	if err != nil {
		t.Fatal(err)
	}
	if cube, err = r.Upload("wall", cm); err != nil {
		t.Fatalf("upload wall: %v", err)
	}
	if ghost, err = r.Upload("ghost", gm); err != nil {
		t.Fatalf("upload ghost: %v", err)
	}
	return cube, ghost
}

func TestDrawBindsOnlyNeededAttributes(t *testing.T) {
	ctx := newFakeContext()
	r := New(ctx, 1)
	cube, ghost := uploadScene(t, r)

	r.BeginFrame(FrameParams{Width: 800, Height: 600, Projection: math.Identity(), View: math.Identity()})
	if err := r.Draw(DrawCall{Mesh: cube, Model: math.Identity(), Texture: 9}); err != nil {
		t.Fatal(err)
	}
	if err := r.Draw(DrawCall{Mesh: ghost, Model: math.Identity(), Color: math.Vec4{1, 0, 0, 1}}); err != nil {
		t.Fatal(err)
	}
	stats := r.EndFrame()

	if len(ctx.draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(ctx.draws))
	}
	wall, g := ctx.draws[0], ctx.draws[1]
	if !wall.attribs[gfx.AttribTexCoord] {
		t.Error("textured wall drawn without texcoord attribute")
	}
	if wall.useTexture != int32(1) || wall.texture != 9 {
		t.Errorf("wall: useTexture %v texture %d, want 1 and 9", wall.useTexture, wall.texture)
	}
	if enabled, set := g.attribs[gfx.AttribTexCoord]; !set || enabled {
		t.Error("untextured ghost must have the texcoord attribute explicitly disabled")
	}
	if !g.attribs[gfx.AttribPosition] || !g.attribs[gfx.AttribNormal] {
		t.Error("ghost missing position or normal attribute")
	}
	if g.useTexture != int32(0) {
		t.Errorf("ghost useTexture: got %v, want 0", g.useTexture)
	}

	if ctx.boundVAO != 0 || ctx.boundTexture != 0 {
		t.Errorf("EndFrame left vao %d texture %d bound", ctx.boundVAO, ctx.boundTexture)
	}
	if stats.DrawCalls != 2 {
		t.Errorf("stats draw calls: got %d, want 2", stats.DrawCalls)
	}
	if !ctx.depthTest || ctx.clearCount != 1 {
		t.Error("BeginFrame should enable depth test and clear once")
	}
}

func TestTextureIgnoredWithoutTexCoords(t *testing.T) {
	ctx := newFakeContext()
	r := New(ctx, 1)
	_, ghost := uploadScene(t, r)

	r.BeginFrame(FrameParams{})
	if err := r.Draw(DrawCall{Mesh: ghost, Model: math.Identity(), Texture: 4}); err != nil {
		t.Fatal(err)
	}
	r.EndFrame()

	if got := ctx.draws[0].useTexture; got != int32(0) {
		t.Errorf("useTexture: got %v, want 0", got)
	}
}

func TestDrawSetsModelAndNormalMatrix(t *testing.T) {
	ctx := newFakeContext()
	r := New(ctx, 1)
	cube, _ := uploadScene(t, r)

	model := math.Translation(3, 0.75, -2).Mul(math.Scaling(1, 1.5, 1))
	r.BeginFrame(FrameParams{})
	if err := r.Draw(DrawCall{Mesh: cube, Model: model}); err != nil {
		t.Fatal(err)
	}
	r.EndFrame()

	if got := ctx.uniform(uModel); got != model {
		t.Errorf("model uniform: got %v, want %v", got, model)
	}
	if got, want := ctx.uniform(uNormalMatrix), math.NormalMatrix(model); got != want {
		t.Errorf("normal matrix uniform: got %v, want %v", got, want)
	}
}

func TestDrawErrors(t *testing.T) {
	ctx := newFakeContext()
	r := New(ctx, 1)
	cube, _ := uploadScene(t, r)

	if err := r.Draw(DrawCall{Mesh: cube}); !errors.Is(err, ErrNotInFrame) {
		t.Errorf("draw before BeginFrame: got %v, want ErrNotInFrame", err)
	}
	r.BeginFrame(FrameParams{})
	if err := r.Draw(DrawCall{}); !errors.Is(err, ErrNoMesh) {
		t.Errorf("draw without mesh: got %v, want ErrNoMesh", err)
	}
	r.EndFrame()
	if len(ctx.draws) != 0 {
		t.Errorf("failed draws reached the context: %d", len(ctx.draws))
	}
}

func TestUploadRejects(t *testing.T) {
	r := New(newFakeContext(), 1)
	uploadScene(t, r)

	bad := &mesh.Mesh{
		Positions: []float32{0, 0, 0},
		Normals:   []float32{0, 1, 0},
		Indices:   []uint32{0, 1, 2},
	}
	if _, err := r.Upload("bad", bad); !errors.Is(err, mesh.ErrInvalidMesh) {
		t.Errorf("invalid mesh: got %v, want ErrInvalidMesh", err)
	}
	cube, _ := mesh.Cube(1)
	if _, err := r.Upload("wall", cube); !errors.Is(err, ErrDuplicateMesh) {
		t.Errorf("duplicate name: got %v, want ErrDuplicateMesh", err)
	}
	if _, ok := r.Mesh("bad"); ok {
		t.Error("rejected mesh should not be registered")
	}
}

func TestUploadLargeMeshUsesIndex32(t *testing.T) {
	ctx := newFakeContext()
	r := New(ctx, 1)

	const n = 70000
	m := &mesh.Mesh{
		Positions: make([]float32, n*3),
		Normals:   make([]float32, n*3),
		Indices:   []uint32{0, 1, n - 1},
	}
	for v := 0; v < n; v++ {
		m.Normals[v*3+1] = 1
	}
	g, err := r.Upload("big", m)
	if err != nil {
		t.Fatal(err)
	}
	if g.Format != mesh.Index32 || ctx.indices32 != 1 || ctx.indices16 != 0 {
		t.Errorf("format %v, uploads16 %d uploads32 %d", g.Format, ctx.indices16, ctx.indices32)
	}
}

func TestUploadLines(t *testing.T) {
	ctx := newFakeContext()
	r := New(ctx, 1)

	lines, err := mesh.GridLines(6, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	grid, err := r.UploadLines("grid", lines)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.UploadLines("odd", []float32{0, 0, 0}); !errors.Is(err, mesh.ErrInvalidMesh) {
		t.Errorf("odd line list: got %v, want ErrInvalidMesh", err)
	}

	r.BeginFrame(FrameParams{})
	if err := r.Draw(DrawCall{Mesh: grid, Model: math.Identity(), Color: math.Vec4{0.3, 0.3, 0.3, 1}, Unlit: true}); err != nil {
		t.Fatal(err)
	}
	r.EndFrame()

	d := ctx.draws[0]
	if d.indexed || d.primitive != gfx.Lines || d.count != int32(len(lines)/3) {
		t.Errorf("grid draw: indexed %v primitive %v count %d", d.indexed, d.primitive, d.count)
	}
	if d.attribs[gfx.AttribNormal] {
		t.Error("grid must draw with the normal attribute disabled")
	}
	if got := ctx.uniform(uUnlit); got != int32(1) {
		t.Errorf("unlit uniform: got %v, want 1", got)
	}
}

func TestLightPositionsClamped(t *testing.T) {
	ctx := newFakeContext()
	r := New(ctx, 1)

	lights := make([]float32, 6*3)
	r.BeginFrame(FrameParams{LightPositions: lights})
	r.EndFrame()

	got, ok := ctx.uniform(uLightPositions).([]float32)
	if !ok || len(got) != MaxPointLights*3 {
		t.Errorf("light positions: got %d floats, want %d", len(got), MaxPointLights*3)
	}
}

func TestCloseReleasesBuffers(t *testing.T) {
	ctx := newFakeContext()
	r := New(ctx, 1)
	uploadScene(t, r)

	r.Close()
	// wall: position, normal, texcoord, index; ghost: position, normal, index
	if ctx.deleted != 7 {
		t.Errorf("deleted buffers: got %d, want 7", ctx.deleted)
	}
	if _, ok := r.Mesh("wall"); ok {
		t.Error("mesh still registered after Close")
	}
}
