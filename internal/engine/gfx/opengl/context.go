// Package opengl implements gfx.Context on top of OpenGL 4.1 core.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/ghostmaze/internal/engine/gfx"
	"github.com/Faultbox/ghostmaze/internal/engine/mesh"
	"github.com/Faultbox/ghostmaze/internal/engine/shader"
	"github.com/Faultbox/ghostmaze/internal/logger"
	"github.com/Faultbox/ghostmaze/pkg/math"
)

// Context issues gfx calls to the current OpenGL context.
type Context struct{}

var _ gfx.Context = (*Context)(nil)

// New loads the GL function pointers. A window with a current GL context
// must exist.
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return &Context{}, nil
}

// CompileProgram builds a program from GLSL sources.
func (c *Context) CompileProgram(name, vertexSrc, fragmentSrc string) (gfx.Program, error) {
	id, err := shader.CompileProgram(name, vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	return gfx.Program(id), nil
}

// DeleteProgram releases a program.
func (c *Context) DeleteProgram(p gfx.Program) {
	gl.DeleteProgram(uint32(p))
}

func (c *Context) CreateVertexArray() gfx.VertexArray {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return gfx.VertexArray(id)
}

func (c *Context) BindVertexArray(v gfx.VertexArray) {
	gl.BindVertexArray(uint32(v))
}

func (c *Context) DeleteVertexArray(v gfx.VertexArray) {
	id := uint32(v)
	gl.DeleteVertexArrays(1, &id)
}

func (c *Context) CreateBuffer() gfx.Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	return gfx.Buffer(id)
}

func (c *Context) DeleteBuffer(b gfx.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (c *Context) UploadVertices(b gfx.Buffer, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

// UploadIndices16 binds b as the element buffer of the bound vertex array.
func (c *Context) UploadIndices16(b gfx.Buffer, data []uint16) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		return
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
}

// UploadIndices32 binds b as the element buffer of the bound vertex array.
func (c *Context) UploadIndices32(b gfx.Buffer, data []uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		return
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (c *Context) EnableAttribute(loc uint32, b gfx.Buffer, size int32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.VertexAttribPointer(loc, size, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(loc)
}

func (c *Context) DisableAttribute(loc uint32) {
	gl.DisableVertexAttribArray(loc)
}

func (c *Context) UseProgram(p gfx.Program) {
	gl.UseProgram(uint32(p))
}

func (c *Context) UniformLocation(p gfx.Program, name string) int32 {
	return shader.UniformLocation(uint32(p), name)
}

func (c *Context) UniformMat4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

func (c *Context) UniformVec3(loc int32, v math.Vec3) {
	gl.Uniform3f(loc, v.X, v.Y, v.Z)
}

func (c *Context) UniformVec3Array(loc int32, flat []float32) {
	if len(flat) < 3 {
		return
	}
	gl.Uniform3fv(loc, int32(len(flat)/3), &flat[0])
}

func (c *Context) UniformVec4(loc int32, v math.Vec4) {
	gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
}

func (c *Context) UniformInt(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (c *Context) UniformFloat(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (c *Context) CreateTexture() gfx.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	return gfx.Texture(id)
}

func (c *Context) DeleteTexture(t gfx.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

// UploadTexture replaces the texture image and sets its sampling state.
// The texture is left bound to unit 0.
func (c *Context) UploadTexture(t gfx.Texture, width, height int, rgba []byte, s gfx.Sampling) {
	if len(rgba) < width*height*4 || width <= 0 || height <= 0 {
		logger.Warn("texture upload skipped", zap.Int("width", width), zap.Int("height", height), zap.Int("bytes", len(rgba)))
		return
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))

	wrap := int32(gl.CLAMP_TO_EDGE)
	if s.Repeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if s.Mipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
}

func (c *Context) BindTexture(unit uint32, t gfx.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (c *Context) DrawArrays(p gfx.Primitive, first, count int32) {
	gl.DrawArrays(primitive(p), first, count)
}

func (c *Context) DrawElements(p gfx.Primitive, count int32, format mesh.IndexFormat) {
	xtype := uint32(gl.UNSIGNED_SHORT)
	if format == mesh.Index32 {
		xtype = gl.UNSIGNED_INT
	}
	gl.DrawElements(primitive(p), count, xtype, gl.PtrOffset(0))
}

func (c *Context) SetClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (c *Context) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (c *Context) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (c *Context) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// ReadPixels returns the RGBA contents of the bound framebuffer, bottom
// row first.
func (c *Context) ReadPixels(width, height int) []byte {
	buf := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))
	return buf
}

func primitive(p gfx.Primitive) uint32 {
	if p == gfx.Lines {
		return gl.LINES
	}
	return gl.TRIANGLES
}
