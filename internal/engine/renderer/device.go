package renderer

import (
	"fmt"
	"unsafe"

	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Device implements mesh.Device on the live OpenGL context. All calls
// must come from the render thread.
type Device struct{}

func (Device) CreateBufferArray() (uint32, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if err := glError("create vertex array"); err != nil {
		return 0, err
	}
	return id, nil
}

func (Device) CreateBuffer(kind mesh.BufferKind) (uint32, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if err := glError(fmt.Sprintf("create %s buffer", kind)); err != nil {
		return 0, err
	}
	return id, nil
}

// UploadFloats replaces the buffer storage and points the attribute
// slot matching the stream kind at it. Respecifying the pointer on
// every upload keeps a freshly allocated, still empty array valid.
func (Device) UploadFloats(array, buffer uint32, kind mesh.BufferKind, data []float32) error {
	gl.BindVertexArray(array)
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	bufferData(gl.ARRAY_BUFFER, data)

	loc := uint32(kind)
	gl.VertexAttribPointer(loc, kind.Components(), gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(loc)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return glError(fmt.Sprintf("upload %s stream", kind))
}

// UploadIndices replaces the index buffer captured by the vertex array.
func (Device) UploadIndices(array, buffer uint32, data []uint32) error {
	gl.BindVertexArray(array)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buffer)
	if len(data) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}

	// Unbind the array first so its element buffer binding survives.
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return glError("upload index stream")
}

func (Device) DeleteBufferArray(array uint32) {
	if array != 0 {
		gl.DeleteVertexArrays(1, &array)
	}
}

func (Device) DeleteBuffer(buffer uint32) {
	if buffer != 0 {
		gl.DeleteBuffers(1, &buffer)
	}
}

func bufferData(target uint32, data []float32) {
	if len(data) > 0 {
		gl.BufferData(target, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	} else {
		gl.BufferData(target, 0, nil, gl.STATIC_DRAW)
	}
}

// glError drains the GL error flag for the preceding calls. Out of
// memory maps to mesh.ErrBufferAlloc so the caller can retry the
// upload on a later frame.
func glError(op string) error {
	switch code := gl.GetError(); code {
	case gl.NO_ERROR:
		return nil
	case gl.OUT_OF_MEMORY:
		return fmt.Errorf("%s: %w", op, mesh.ErrBufferAlloc)
	default:
		return fmt.Errorf("%s: gl error 0x%04x", op, code)
	}
}
