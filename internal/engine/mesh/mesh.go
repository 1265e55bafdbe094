// Package mesh manages the geometry buffer set backing a renderable
// model. A Handle owns four device buffers (positions, normals, colors,
// indices) that are allocated empty at startup and re-populated by full
// overwrite on every successful model load.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/objview/pkg/obj"
)

// ErrBufferAlloc classifies device-side buffer allocation failures.
// Uploads that fail with it may be retried on a later frame.
var ErrBufferAlloc = errors.New("geometry buffer allocation failed")

// BufferKind identifies the role of one geometry buffer within a handle.
// The value doubles as the attribute location for the float streams.
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	NormalBuffer
	ColorBuffer
	IndexBuffer
)

// String returns a human-readable buffer role name.
func (k BufferKind) String() string {
	switch k {
	case VertexBuffer:
		return "vertex"
	case NormalBuffer:
		return "normal"
	case ColorBuffer:
		return "color"
	case IndexBuffer:
		return "index"
	default:
		return "unknown"
	}
}

// Components returns the floats per vertex for attribute streams, and 0
// for the index stream.
func (k BufferKind) Components() int32 {
	switch k {
	case VertexBuffer, NormalBuffer:
		return 3
	case ColorBuffer:
		return 4
	default:
		return 0
	}
}

// Buffer is an opaque handle to device-resident storage for one
// attribute or index stream.
type Buffer struct {
	id   uint32
	kind BufferKind
}

// ID returns the device object name.
func (b Buffer) ID() uint32 {
	return b.id
}

// Kind returns the buffer's role.
func (b Buffer) Kind() BufferKind {
	return b.kind
}

// Device abstracts the buffer operations the mesh layer needs. The
// renderer implements it on OpenGL; tests substitute an in-memory fake.
type Device interface {
	// CreateBufferArray allocates the container object that ties the
	// four buffers together (a vertex array object on OpenGL).
	CreateBufferArray() (uint32, error)

	// CreateBuffer allocates one empty buffer object.
	CreateBuffer(kind BufferKind) (uint32, error)

	// UploadFloats replaces the buffer's entire contents and binds it as
	// the attribute stream for its kind within the buffer array.
	UploadFloats(array, buffer uint32, kind BufferKind, data []float32) error

	// UploadIndices replaces the index buffer's entire contents.
	UploadIndices(array, buffer uint32, data []uint32) error

	// DeleteBufferArray releases a buffer array object.
	DeleteBufferArray(array uint32)

	// DeleteBuffer releases a buffer object.
	DeleteBuffer(buffer uint32)
}

// Handle aggregates the fixed buffer set for one renderable model. It
// is allocated once, before any model data exists, and outlives any
// number of loads.
type Handle struct {
	array      uint32
	buffers    [4]Buffer
	indexCount int32
}

// NewHandle allocates the empty buffer set on the device.
func NewHandle(dev Device) (*Handle, error) {
	array, err := dev.CreateBufferArray()
	if err != nil {
		return nil, fmt.Errorf("buffer array: %w", err)
	}

	h := &Handle{array: array}
	for _, kind := range []BufferKind{VertexBuffer, NormalBuffer, ColorBuffer, IndexBuffer} {
		id, err := dev.CreateBuffer(kind)
		if err != nil {
			h.Destroy(dev)
			return nil, fmt.Errorf("%s buffer: %w", kind, err)
		}
		h.buffers[kind] = Buffer{id: id, kind: kind}
	}
	return h, nil
}

// Upload overwrites all four buffers with the parsed dataset. The index
// count only advances once every stream uploaded, so a failed upload
// leaves the previous count drawable and may be retried.
func (h *Handle) Upload(dev Device, data *obj.MeshData) error {
	streams := []struct {
		kind BufferKind
		data []float32
	}{
		{VertexBuffer, data.Positions},
		{NormalBuffer, data.Normals},
		{ColorBuffer, data.Colors},
	}
	for _, s := range streams {
		if err := dev.UploadFloats(h.array, h.buffers[s.kind].id, s.kind, s.data); err != nil {
			return fmt.Errorf("%s stream: %w", s.kind, err)
		}
	}

	if err := dev.UploadIndices(h.array, h.buffers[IndexBuffer].id, data.Indices); err != nil {
		return fmt.Errorf("index stream: %w", err)
	}

	h.indexCount = int32(len(data.Indices))
	return nil
}

// Array returns the device buffer-array object for drawing.
func (h *Handle) Array() uint32 {
	return h.array
}

// Buffer returns the geometry buffer with the given role.
func (h *Handle) Buffer(kind BufferKind) Buffer {
	return h.buffers[kind]
}

// IndexCount returns the index count of the most recent complete
// upload, 0 before any model has been uploaded.
func (h *Handle) IndexCount() int32 {
	return h.indexCount
}

// Destroy releases the device objects. The handle must not be used
// afterwards.
func (h *Handle) Destroy(dev Device) {
	for _, b := range h.buffers {
		if b.id != 0 {
			dev.DeleteBuffer(b.id)
		}
	}
	if h.array != 0 {
		dev.DeleteBufferArray(h.array)
	}
	h.indexCount = 0
}
