package states

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Faultbox/ghostmaze/internal/config"
	"github.com/Faultbox/ghostmaze/internal/engine/gfx"
	"github.com/Faultbox/ghostmaze/internal/engine/input"
	"github.com/Faultbox/ghostmaze/internal/engine/mesh"
	"github.com/Faultbox/ghostmaze/internal/engine/renderer"
	"github.com/Faultbox/ghostmaze/internal/engine/texture"
	"github.com/Faultbox/ghostmaze/internal/game/level"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// nopContext hands out ids and counts draws.
type nopContext struct {
	next       uint32
	primitives []gfx.Primitive
}

func (c *nopContext) id() uint32 {
	c.next++
	return c.next
}

func (c *nopContext) CreateVertexArray() gfx.VertexArray { return gfx.VertexArray(c.id()) }
func (c *nopContext) BindVertexArray(gfx.VertexArray) {}
func (c *nopContext) DeleteVertexArray(gfx.VertexArray) {}
func (c *nopContext) CreateBuffer() gfx.Buffer { return gfx.Buffer(c.id()) }
func (c *nopContext) DeleteBuffer(gfx.Buffer) {}
func (c *nopContext) UploadVertices(gfx.Buffer, []float32) {}
func (c *nopContext) UploadIndices16(gfx.Buffer, []uint16) {}
func (c *nopContext) UploadIndices32(gfx.Buffer, []uint32) {}
func (c *nopContext) EnableAttribute(uint32, gfx.Buffer, int32) {}
func (c *nopContext) DisableAttribute(uint32) {}
func (c *nopContext) UseProgram(gfx.Program) {}
func (c *nopContext) UniformLocation(gfx.Program, string) int32 { return -1 }
func (c *nopContext) UniformMat4(int32, math.Mat4) {}
func (c *nopContext) UniformVec3(int32, math.Vec3) {}
func (c *nopContext) UniformVec3Array(int32, []float32) {}
func (c *nopContext) UniformVec4(int32, math.Vec4) {}
func (c *nopContext) UniformInt(int32, int32) {}
func (c *nopContext) UniformFloat(int32, float32) {}
func (c *nopContext) CreateTexture() gfx.Texture { return gfx.Texture(c.id()) }
func (c *nopContext) DeleteTexture(gfx.Texture) {}
func (c *nopContext) UploadTexture(gfx.Texture, int, int, []byte, gfx.Sampling) {}
func (c *nopContext) BindTexture(uint32, gfx.Texture) {}
func (c *nopContext) SetClearColor(float32, float32, float32, float32) {}
func (c *nopContext) Clear() {}
func (c *nopContext) SetDepthTest(bool) {}
func (c *nopContext) Viewport(int, int) {}

func (c *nopContext) DrawArrays(p gfx.Primitive, _, _ int32) {
	c.primitives = append(c.primitives, p)
}

func (c *nopContext) DrawElements(p gfx.Primitive, _ int32, _ mesh.IndexFormat) {
	c.primitives = append(c.primitives, p)
}

func testServices(t *testing.T) (Services, *nopContext) {
	t.Helper()
	ctx := &nopContext{}
	cfg := config.Default()
	cfg.Ghosts.Count = 2
	return Services{
		Config:   cfg,
		Renderer: renderer.New(ctx, 1),
		Rand:     rand.New(rand.NewPCG(1, 1)),
	}, ctx
}

// recordingState logs its lifecycle calls.
type recordingState struct {
	name     string
	calls    *[]string
	enterErr error
}

func (s *recordingState) Name() string { return s.name }

func (s *recordingState) Enter() error {
	*s.calls = append(*s.calls, s.name+".enter")
	return s.enterErr
}

func (s *recordingState) Exit() error {
	*s.calls = append(*s.calls, s.name+".exit")
	return nil
}

func (s *recordingState) Update(float32, *input.State) error {
	*s.calls = append(*s.calls, s.name+".update")
	return nil
}

func (s *recordingState) Render(int, int) error {
	*s.calls = append(*s.calls, s.name+".render")
	return nil
}

func TestManagerTransitions(t *testing.T) {
	var calls []string
	a := &recordingState{name: "a", calls: &calls}
	b := &recordingState{name: "b", calls: &calls}
	m := NewManager()
	var in input.State

	if err := m.Update(0.1, &in); err != nil || m.Current() != nil {
		t.Fatalf("empty manager: err %v, current %v", err, m.Current())
	}

	m.Change(a)
	if m.Current() != nil {
		t.Error("Change must not switch before Update")
	}
	if err := m.Update(0.1, &in); err != nil {
		t.Fatal(err)
	}
	_ = m.Render(1, 1)
	m.Change(b)
	_ = m.Update(0.1, &in)
	_ = m.Close()

	want := []string{"a.enter", "a.update", "a.render", "a.exit", "b.enter", "b.update", "b.exit"}
	if len(calls) != len(want) {
		t.Fatalf("calls: got %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: got %s, want %s", i, calls[i], want[i])
		}
	}
	if m.Current() != nil {
		t.Error("Close should clear the current state")
	}
}

func TestManagerEnterError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	m := NewManager()
	m.Change(&recordingState{name: "bad", calls: &calls, enterErr: boom})

	err := m.Update(0.1, &input.State{})
	if !errors.Is(err, ErrTransition) || !errors.Is(err, boom) {
		t.Errorf("got %v, want ErrTransition wrapping boom", err)
	}
}

func TestMazeStateFrame(t *testing.T) {
	svc, ctx := testServices(t)
	grid, err := level.Load("")
	if err != nil {
		t.Fatal(err)
	}

	s := NewMazeState(svc, grid)
	if err := s.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if s.World().Ghosts.Len() != 2 {
		t.Errorf("ghosts: got %d, want 2", s.World().Ghosts.Len())
	}
	if err := s.Update(1.0/60, &input.State{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Render(800, 600); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := 1 + len(grid.Walls()) + 6 + 2
	if got := s.Stats().DrawCalls; got != want {
		t.Errorf("draw calls: got %d, want %d", got, want)
	}
	if len(ctx.primitives) != want {
		t.Errorf("context draws: got %d, want %d", len(ctx.primitives), want)
	}

	// a second session reuses the uploaded meshes
	again := NewMazeState(svc, grid)
	if err := again.Enter(); err != nil {
		t.Errorf("second Enter: %v", err)
	}
}

func TestMazeStateStartsTextureLoads(t *testing.T) {
	svc, ctx := testServices(t)
	svc.Textures = texture.NewLoader(ctx)
	svc.Config.Textures.Floor = "missing/floor.png"
	svc.Config.Textures.Wall = ""
	grid, err := level.Load("")
	if err != nil {
		t.Fatal(err)
	}

	s := NewMazeState(svc, grid)
	if err := s.Enter(); err != nil {
		t.Fatal(err)
	}
	tex := s.textures()
	if tex.Floor == 0 {
		t.Error("floor should have a placeholder texture right away")
	}
	if tex.Wall != 0 {
		t.Error("wall texture without a path should stay unset")
	}
}

func TestDemoState(t *testing.T) {
	svc, ctx := testServices(t)
	s := NewDemoState(svc)
	if err := s.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	var in input.State
	in.Press(input.KeyRight)
	for i := 0; i < 30; i++ {
		if err := s.Update(1.0/60, &in); err != nil {
			t.Fatal(err)
		}
	}
	if s.Ghost.Position.X <= 0 {
		t.Errorf("ghost x: got %v, want > 0 after holding right", s.Ghost.Position.X)
	}

	if err := s.Render(640, 480); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if s.Stats().DrawCalls != 2 {
		t.Errorf("draw calls: got %d, want 2", s.Stats().DrawCalls)
	}
	if len(ctx.primitives) != 2 || ctx.primitives[0] != gfx.Lines || ctx.primitives[1] != gfx.Triangles {
		t.Errorf("primitives: got %v, want [lines triangles]", ctx.primitives)
	}
}
