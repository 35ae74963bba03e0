// Package gfx defines the graphics context the renderer and texture loader
// draw through. The OpenGL implementation lives in gfx/opengl; tests use
// recording fakes.
package gfx

import (
	"github.com/Faultbox/ghostmaze/internal/engine/mesh"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// Object handles. Zero is the unbound/default object.
type (
	VertexArray uint32
	Buffer      uint32
	Texture     uint32
	Program     uint32
)

// Vertex attribute locations shared by every shader program.
const (
	AttribPosition uint32 = 0
	AttribNormal   uint32 = 1
	AttribTexCoord uint32 = 2
)

// Primitive is the topology passed to draw calls.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

// Sampling selects how a texture is filtered and wrapped.
type Sampling struct {
	Repeat bool // REPEAT wrap, otherwise CLAMP_TO_EDGE
	Mipmap bool // generate mipmaps and sample them
}

// SamplingFor returns REPEAT with mipmaps for power-of-two images and
// CLAMP_TO_EDGE with linear filtering otherwise.
func SamplingFor(width, height int) Sampling {
	if isPowerOf2(width) && isPowerOf2(height) {
		return Sampling{Repeat: true, Mipmap: true}
	}
	return Sampling{}
}

func isPowerOf2(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// Context is the subset of a GL-style API the engine uses. All calls must
// happen on the thread that owns the context.
type Context interface {
	CreateVertexArray() VertexArray
	BindVertexArray(VertexArray)
	DeleteVertexArray(VertexArray)

	CreateBuffer() Buffer
	DeleteBuffer(Buffer)
	UploadVertices(b Buffer, data []float32)
	UploadIndices16(b Buffer, data []uint16)
	UploadIndices32(b Buffer, data []uint32)

	// EnableAttribute binds b as the source of a tightly packed float
	// attribute with size components per vertex.
	EnableAttribute(loc uint32, b Buffer, size int32)
	DisableAttribute(loc uint32)

	UseProgram(Program)
	UniformLocation(p Program, name string) int32
	UniformMat4(loc int32, m math.Mat4)
	UniformVec3(loc int32, v math.Vec3)
	UniformVec3Array(loc int32, flat []float32)
	UniformVec4(loc int32, v math.Vec4)
	UniformInt(loc int32, v int32)
	UniformFloat(loc int32, v float32)

	CreateTexture() Texture
	DeleteTexture(Texture)
	UploadTexture(t Texture, width, height int, rgba []byte, s Sampling)
	BindTexture(unit uint32, t Texture)

	DrawArrays(p Primitive, first, count int32)
	DrawElements(p Primitive, count int32, format mesh.IndexFormat)

	SetClearColor(r, g, b, a float32)
	Clear()
	SetDepthTest(enabled bool)
	Viewport(width, height int)
}
