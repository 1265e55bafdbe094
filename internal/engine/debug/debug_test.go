package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWireframeVertices(t *testing.T) {
	verts := WireframeVertices([3]float32{-1, -2, -3}, [3]float32{1, 2, 3})

	if len(verts) != WireframeVertexCount*3 {
		t.Fatalf("len(verts) = %d, want %d", len(verts), WireframeVertexCount*3)
	}

	// Every coordinate must sit on a box face.
	for i := 0; i < len(verts); i += 3 {
		x, y, z := verts[i], verts[i+1], verts[i+2]
		if x != -1 && x != 1 {
			t.Errorf("vertex %d: x = %v, want -1 or 1", i/3, x)
		}
		if y != -2 && y != 2 {
			t.Errorf("vertex %d: y = %v, want -2 or 2", i/3, y)
		}
		if z != -3 && z != 3 {
			t.Errorf("vertex %d: z = %v, want -3 or 3", i/3, z)
		}
	}

	// 12 edges, each corner shared by exactly 3 of them.
	corners := make(map[[3]float32]int)
	for i := 0; i < len(verts); i += 3 {
		corners[[3]float32{verts[i], verts[i+1], verts[i+2]}]++
	}
	if len(corners) != 8 {
		t.Fatalf("distinct corners = %d, want 8", len(corners))
	}
	for c, n := range corners {
		if n != 3 {
			t.Errorf("corner %v used %d times, want 3", c, n)
		}
	}
}

func TestScreenshotCapture_CaptureFromPixels(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "shot")

	// 2x2 image, rows as OpenGL returns them: bottom row first.
	// Bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255, // bottom
		0, 0, 255, 255, 0, 0, 255, 255, // top
	}

	name, err := sc.CaptureFromPixels(pixels, 2, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels() error: %v", err)
	}
	if filepath.Dir(name) != dir {
		t.Errorf("file %q not in output dir %q", name, dir)
	}
	if !strings.HasPrefix(filepath.Base(name), "shot_") {
		t.Errorf("file %q missing prefix", filepath.Base(name))
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatalf("opening screenshot: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding screenshot: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("decoded size = %v, want 2x2", img.Bounds())
	}

	// The flip must put the blue GL top row at image row 0.
	r, _, b, _ := img.At(0, 0).RGBA()
	if r != 0 || b != 0xffff {
		t.Errorf("top-left pixel = (r=%d, b=%d), want pure blue", r, b)
	}
	r, _, b, _ = img.At(0, 1).RGBA()
	if r != 0xffff || b != 0 {
		t.Errorf("bottom-left pixel = (r=%d, b=%d), want pure red", r, b)
	}
}

func TestScreenshotCapture_SizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "shot")

	if _, err := sc.CaptureFromPixels(make([]byte, 7), 2, 2); err == nil {
		t.Fatal("expected error for short pixel buffer")
	}
}
