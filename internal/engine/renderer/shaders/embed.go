// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SceneVertexShader transforms maze geometry into world and clip space.
//
//go:embed scene.vert
var SceneVertexShader string

// SceneFragmentShader lights maze geometry with four point lights.
//
//go:embed scene.frag
var SceneFragmentShader string

// DemoVertexShader is the vertex shader for the ghost demo.
//
//go:embed demo.vert
var DemoVertexShader string

// DemoFragmentShader lights the ghost demo with one directional light.
//
//go:embed demo.frag
var DemoFragmentShader string
