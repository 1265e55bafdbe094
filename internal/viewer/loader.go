// Package viewer drives the model life cycle: background loading,
// upload from the render loop and the spinning draw.
package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/assets"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/obj"
)

// Source supplies model bytes. *assets.Fetcher satisfies it.
type Source interface {
	Fetch(resource string) ([]byte, error)
	Sibling(base, name string) ([]byte, error)
}

// loadResult carries one finished background load.
type loadResult struct {
	resource string
	mesh     *obj.MeshData
	err      error
}

// Loader fetches and parses models off the render thread. Begin, Poll,
// State, Parsed and MarkUploaded must all run on the render loop
// goroutine; the background goroutine only touches the Source and the
// result channel.
type Loader struct {
	src      Source
	state    LoadState
	parsed   *obj.MeshData
	resource string
	results  chan loadResult
}

func NewLoader(src Source) *Loader {
	return &Loader{
		src:     src,
		results: make(chan loadResult, 1),
	}
}

// Begin starts loading a model in the background and reports whether
// the load was accepted. A load already in flight is never interrupted;
// starting over a staged or uploaded model is allowed and the newer
// result replaces the older one.
func (l *Loader) Begin(resource string, scale float32, reverse bool) bool {
	if l.state == Pending {
		logger.Warn("load already in progress",
			zap.String("resource", resource),
			zap.String("loading", l.resource))
		return false
	}

	l.state = Pending
	l.parsed = nil
	l.resource = resource
	logger.Info("loading model",
		zap.String("resource", resource),
		zap.Float32("scale", scale),
		zap.Bool("reverse_winding", reverse))

	go l.load(resource, scale, reverse)
	return true
}

func (l *Loader) load(resource string, scale float32, reverse bool) {
	data, err := l.src.Fetch(resource)
	if err != nil {
		l.results <- loadResult{resource: resource, err: fmt.Errorf("fetch: %w", err)}
		return
	}

	mesh, err := obj.Parse(data, obj.Options{
		Scale:          scale,
		ReverseWinding: reverse,
		ResolveMaterial: func(name string) ([]byte, error) {
			return l.src.Sibling(resource, name)
		},
	})
	if err != nil {
		l.results <- loadResult{resource: resource, err: fmt.Errorf("parse: %w", err)}
		return
	}

	l.results <- loadResult{resource: resource, mesh: mesh}
}

// Poll applies any finished load. A failure logs and drops the loader
// back to Idle; a success stages the parsed model for upload. Should
// results ever queue up, the newest wins.
func (l *Loader) Poll() {
	for {
		select {
		case res := <-l.results:
			l.apply(res)
		default:
			return
		}
	}
}

func (l *Loader) apply(res loadResult) {
	if res.err != nil {
		if errors.Is(res.err, assets.ErrNotFound) {
			logger.Error("model not found",
				zap.String("resource", res.resource),
				zap.Error(res.err))
		} else {
			logger.Error("model load failed",
				zap.String("resource", res.resource),
				zap.Error(res.err))
		}
		l.state = Idle
		l.parsed = nil
		return
	}

	logger.Info("model parsed",
		zap.String("resource", res.resource),
		zap.Int("vertices", res.mesh.VertexCount()),
		zap.Int("triangles", res.mesh.TriangleCount()))
	l.state = ParsedReady
	l.parsed = res.mesh
}

func (l *Loader) State() LoadState { return l.state }

// Parsed returns the staged model. It is non-nil only in ParsedReady.
func (l *Loader) Parsed() *obj.MeshData { return l.parsed }

// Resource returns the identifier of the current or most recent load.
func (l *Loader) Resource() string { return l.resource }

// MarkUploaded records that the staged model reached the GPU.
func (l *Loader) MarkUploaded() {
	if l.state == ParsedReady {
		l.state = Uploaded
		l.parsed = nil
	}
}
