package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Positions arrive in points and colors are premultiplied, so the vertex
// stage only maps points to clip space and the fragment stage multiplies.
const vertexShaderSource = `
#version 410 core
layout (location = 0) in vec2 a_pos;
layout (location = 1) in vec2 a_tc;
layout (location = 2) in vec4 a_color;

uniform vec2 u_screen_size;

out vec2 v_tc;
out vec4 v_color;

void main() {
    gl_Position = vec4(
        2.0 * a_pos.x / u_screen_size.x - 1.0,
        1.0 - 2.0 * a_pos.y / u_screen_size.y,
        0.0,
        1.0);
    v_tc = a_tc;
    v_color = a_color;
}
` + "\x00"

const fragmentShaderSource = `
#version 410 core
in vec2 v_tc;
in vec4 v_color;

uniform sampler2D u_sampler;

out vec4 f_color;

void main() {
    f_color = v_color * texture(u_sampler, v_tc);
}
` + "\x00"

// compileShader compiles one shader stage.
func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s compilation failed: %s", stageName(kind), strings.TrimRight(string(log), "\x00"))
	}
	return shader, nil
}

// createShaderProgram compiles and links a shader program.
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("shader program linking failed: %s", strings.TrimRight(string(log), "\x00"))
	}
	return program, nil
}

func stageName(kind uint32) string {
	if kind == gl.VERTEX_SHADER {
		return "vertex shader"
	}
	return "fragment shader"
}
