// Package obj parses Wavefront OBJ geometry and MTL material libraries
// into flat attribute arrays ready for buffer upload.
package obj

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Parse errors.
var (
	ErrNoGeometry      = errors.New("model has no face geometry")
	ErrIndexOutOfRange = errors.New("face index out of range")
	ErrShortFace       = errors.New("face needs at least 3 vertices")
)

// defaultColor is applied to faces without a resolvable material.
var defaultColor = [4]float32{0.8, 0.8, 0.8, 1.0}

// Options control how a model is flattened during parsing.
type Options struct {
	// Scale multiplies every vertex position. Zero means 1.
	Scale float32

	// ReverseWinding emits each triangle with reversed orientation and
	// negated normals, for models authored with the opposite convention.
	ReverseWinding bool

	// ResolveMaterial returns the contents of an MTL library named by a
	// mtllib directive. When nil, or when it returns an error, faces keep
	// the default gray color.
	ResolveMaterial func(name string) ([]byte, error)
}

// MeshData holds one model flattened into parallel per-vertex streams.
// Positions and Normals carry 3 floats per vertex, Colors 4 (RGBA), and
// Indices address whole triangles as consecutive triples.
type MeshData struct {
	Positions []float32
	Normals   []float32
	Colors    []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the streams.
func (m *MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of indexed triangles.
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned bounding box of all positions. An
// empty mesh reports a zero box.
func (m *MeshData) Bounds() (min, max [3]float32) {
	if len(m.Positions) < 3 {
		return min, max
	}
	min = [3]float32{m.Positions[0], m.Positions[1], m.Positions[2]}
	max = min
	for i := 3; i+2 < len(m.Positions); i += 3 {
		for axis := 0; axis < 3; axis++ {
			v := m.Positions[i+axis]
			if v < min[axis] {
				min[axis] = v
			}
			if v > max[axis] {
				max[axis] = v
			}
		}
	}
	return min, max
}

// Validate checks the stream layout invariants: matching per-vertex
// stream lengths, triangle-triple indices, and index range.
func (m *MeshData) Validate() error {
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		return ErrNoGeometry
	}
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("position stream length %d not a multiple of 3", len(m.Positions))
	}
	if len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("normal stream length %d does not match position stream %d", len(m.Normals), len(m.Positions))
	}
	if len(m.Colors)/4 != len(m.Positions)/3 {
		return fmt.Errorf("color stream holds %d vertices, position stream %d", len(m.Colors)/4, len(m.Positions)/3)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index stream length %d not a multiple of 3", len(m.Indices))
	}
	count := uint32(m.VertexCount())
	for _, idx := range m.Indices {
		if idx >= count {
			return fmt.Errorf("%w: index %d with %d vertices", ErrIndexOutOfRange, idx, count)
		}
	}
	return nil
}

// corner is one face-vertex reference resolved to 0-based indices.
// n is -1 when the face carries no normal reference.
type corner struct {
	v int
	n int
}

// Parse reads OBJ text and flattens it into MeshData. Every face corner
// becomes its own output vertex so per-face colors and normals never
// bleed across faces; indices therefore run sequentially.
func Parse(data []byte, opts Options) (*MeshData, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	var (
		positions [][3]float32
		normals   [][3]float32
		materials = make(map[string]Material)
		activeMat string
		mesh      = &MeshData{}
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, [3]float32{p[0] * scale, p[1] * scale, p[2] * scale})

		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, n)

		case "mtllib":
			if opts.ResolveMaterial == nil {
				continue
			}
			for _, name := range fields[1:] {
				raw, err := opts.ResolveMaterial(name)
				if err != nil {
					continue // unresolved library, faces keep the default color
				}
				parsed, err := ParseMTL(raw)
				if err != nil {
					continue
				}
				for matName, mat := range parsed {
					materials[matName] = mat
				}
			}

		case "usemtl":
			if len(fields) >= 2 {
				activeMat = fields[1]
			}

		case "f":
			err := appendFace(mesh, fields[1:], positions, normals, materials, activeMat, opts.ReverseWinding)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read model text: %w", err)
	}

	if len(mesh.Indices) == 0 {
		return nil, ErrNoGeometry
	}
	return mesh, nil
}

// appendFace fan-triangulates one face directive and emits its triangles.
func appendFace(mesh *MeshData, refs []string, positions, normals [][3]float32, materials map[string]Material, matName string, reverse bool) error {
	if len(refs) < 3 {
		return ErrShortFace
	}

	corners := make([]corner, 0, len(refs))
	for _, ref := range refs {
		c, err := parseCorner(ref, len(positions), len(normals))
		if err != nil {
			return err
		}
		corners = append(corners, c)
	}

	color := defaultColor
	if mat, ok := materials[matName]; ok {
		color = mat.Diffuse
	}

	for i := 1; i+1 < len(corners); i++ {
		tri := [3]corner{corners[0], corners[i], corners[i+1]}
		if reverse {
			tri[0], tri[2] = tri[2], tri[0]
		}
		emitTriangle(mesh, tri, positions, normals, color, reverse)
	}
	return nil
}

// emitTriangle appends one triangle, duplicating each corner into a fresh
// output vertex. Corners without a normal reference share the computed
// face normal.
func emitTriangle(mesh *MeshData, tri [3]corner, positions, normals [][3]float32, color [4]float32, reverse bool) {
	var face [3]float32
	haveFace := false

	for _, c := range tri {
		p := positions[c.v]

		var n [3]float32
		if c.n >= 0 {
			n = normals[c.n]
			if reverse {
				n = [3]float32{-n[0], -n[1], -n[2]}
			}
		} else {
			if !haveFace {
				face = faceNormal(positions[tri[0].v], positions[tri[1].v], positions[tri[2].v])
				haveFace = true
			}
			n = face
		}

		mesh.Indices = append(mesh.Indices, uint32(len(mesh.Positions)/3))
		mesh.Positions = append(mesh.Positions, p[0], p[1], p[2])
		mesh.Normals = append(mesh.Normals, n[0], n[1], n[2])
		mesh.Colors = append(mesh.Colors, color[0], color[1], color[2], color[3])
	}
}

// parseCorner resolves one face reference of the form "v", "v/t",
// "v//n" or "v/t/n".
func parseCorner(ref string, numPositions, numNormals int) (corner, error) {
	parts := strings.Split(ref, "/")

	v, err := resolveIndex(parts[0], numPositions)
	if err != nil {
		return corner{}, fmt.Errorf("vertex reference %q: %w", ref, err)
	}

	c := corner{v: v, n: -1}
	if len(parts) == 3 && parts[2] != "" {
		n, err := resolveIndex(parts[2], numNormals)
		if err != nil {
			return corner{}, fmt.Errorf("normal reference %q: %w", ref, err)
		}
		c.n = n
	}
	return c, nil
}

// resolveIndex converts a 1-based OBJ index to 0-based. Negative values
// count back from the most recently defined element.
func resolveIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += count
	default:
		return 0, ErrIndexOutOfRange
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("%w: %s with %d defined", ErrIndexOutOfRange, s, count)
	}
	return idx, nil
}

// parseVec3 reads three float components. Extra fields are ignored.
func parseVec3(fields []string) ([3]float32, error) {
	if len(fields) < 3 {
		return [3]float32{}, fmt.Errorf("want 3 components, have %d", len(fields))
	}
	var out [3]float32
	for i := 0; i < 3; i++ {
		f, err := parseFloat(fields[i])
		if err != nil {
			return [3]float32{}, err
		}
		out[i] = f
	}
	return out, nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("component %q: %w", s, err)
	}
	return float32(f), nil
}

// faceNormal computes the normalized plane normal of a triangle.
func faceNormal(a, b, c [3]float32) [3]float32 {
	ux, uy, uz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
	vx, vy, vz := c[0]-a[0], c[1]-a[1], c[2]-a[2]

	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx

	l := math32.Sqrt(nx*nx + ny*ny + nz*nz)
	if l == 0 {
		// degenerate face
		return [3]float32{0, 1, 0}
	}
	return [3]float32{nx / l, ny / l, nz / l}
}
