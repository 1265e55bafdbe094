// Package app wires the window, renderer, input and viewer together
// and runs the main loop.
package app

import (
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/assets"
	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/window"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/internal/viewer"
)

const baseTitle = "ObjView"

// App is the running application.
type App struct {
	cfg         *config.Config
	running     bool
	window      *window.Window
	renderer    *renderer.Renderer
	input       *input.Input
	fetcher     *assets.Fetcher
	viewer      *viewer.Viewer
	watcher     *assets.Watcher
	screenshots *debug.ScreenshotCapture

	dragging         bool
	reloadQueued     bool
	screenshotQueued bool
}

// New creates the window, the OpenGL renderer and the model viewer,
// then kicks off the first load.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.String("model", cfg.Model.Path),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	a := &App{cfg: cfg}

	// Create window (this also creates the OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      baseTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since the OpenGL context must exist)
	dw, dh := a.window.GetDrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:  dw,
		Height: dh,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.fetcher = assets.NewFetcher(cfg.Model.SearchPaths...)
	a.screenshots = debug.NewScreenshotCapture("screenshots", "objview")

	a.viewer, err = viewer.New(renderer.Device{}, a.renderer, a.fetcher, cfg.Model.DegreesPerSecond)
	if err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, fmt.Errorf("failed to create viewer: %w", err)
	}

	a.loadModel(cfg.Model.Path)

	logger.Info("viewer initialized")
	return a, nil
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if !a.cfg.Graphics.VSync && a.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	logger.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}

		// 2. Apply a queued reload once no load is in flight
		a.drainWatch()
		if a.reloadQueued && a.viewer.State() != viewer.Pending {
			a.reloadQueued = false
			a.viewer.Load(a.viewer.Resource(), a.cfg.Model.Scale, a.cfg.Model.ReverseWinding)
		}

		// 3. Advance and draw the frame
		a.renderer.Begin()
		a.viewer.Tick(dt, a.renderer.Aspect())

		// 4. Capture before the swap so the finished frame is read
		if a.screenshotQueued {
			a.screenshotQueued = false
			a.captureScreenshot()
		}

		// 5. Present (swap buffers)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.window.SetTitle(a.title(frameCount))
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if elapsed := time.Since(now); elapsed < frameBudget {
				sdl.Delay(uint32((frameBudget - elapsed).Milliseconds()))
			}
		}
	}

	return nil
}

// Close cleans up in reverse creation order. The viewer's buffers must
// be released while the OpenGL context is still alive.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.viewer != nil {
		a.viewer.Destroy()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		dw, dh := a.window.GetDrawableSize()
		a.renderer.Resize(dw, dh)

	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			a.running = false
		case sdl.SCANCODE_R:
			a.queueReload()
		case sdl.SCANCODE_F:
			a.viewer.FitView()
		case sdl.SCANCODE_B:
			a.viewer.ToggleBounds()
		case sdl.SCANCODE_S:
			a.screenshotQueued = true
		case sdl.SCANCODE_O:
			a.openModelDialog()
		}

	case input.EventMouseDown:
		if event.Button == sdl.BUTTON_LEFT {
			a.dragging = true
		}

	case input.EventMouseUp:
		if event.Button == sdl.BUTTON_LEFT {
			a.dragging = false
		}

	case input.EventMouseMove:
		if a.dragging {
			a.viewer.Camera().HandleDrag(float32(event.RelX), float32(event.RelY))
		}

	case input.EventMouseWheel:
		a.viewer.Camera().HandleZoom(event.WheelY)
	}
}

// loadModel begins loading a model and re-arms the file watcher when
// the resource resolves to a local file.
func (a *App) loadModel(resource string) {
	if !a.viewer.Load(resource, a.cfg.Model.Scale, a.cfg.Model.ReverseWinding) {
		return
	}

	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	if !a.cfg.Model.Watch {
		return
	}

	path, ok := a.fetcher.ResolveLocal(resource)
	if !ok {
		logger.Info("model is not a local file, watch disabled",
			zap.String("resource", resource))
		return
	}
	w, err := assets.WatchFile(path)
	if err != nil {
		logger.Warn("failed to watch model file",
			zap.String("path", path),
			zap.Error(err))
		return
	}
	a.watcher = w
	logger.Info("watching model file", zap.String("path", path))
}

// drainWatch turns file change notifications into queued reloads.
func (a *App) drainWatch() {
	if a.watcher == nil {
		return
	}
	select {
	case path := <-a.watcher.Events():
		logger.Info("model changed on disk", zap.String("path", path))
		a.queueReload()
	default:
	}
}

// queueReload drops cached bytes so the next load refetches, then asks
// the loop to restart the current model.
func (a *App) queueReload() {
	a.fetcher.ClearCache()
	a.reloadQueued = true
}

func (a *App) captureScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}

// openModelDialog lets the user pick an OBJ file with the native file
// chooser. The dialog blocks the loop, which is fine for a viewer.
func (a *App) openModelDialog() {
	file, err := dialog.File().
		Title("Open model").
		Filter("Wavefront OBJ", "obj").
		Load()
	if err != nil {
		if err != dialog.ErrCancelled {
			logger.Warn("open dialog failed", zap.Error(err))
		}
		return
	}
	a.loadModel(file)
}

func (a *App) title(fps int) string {
	state := ""
	switch a.viewer.State() {
	case viewer.Pending:
		state = " [loading]"
	case viewer.ParsedReady:
		state = " [uploading]"
	case viewer.Idle:
		state = " [load failed]"
	}
	return fmt.Sprintf("%s - %s%s (%d fps)", baseTitle, a.viewer.Resource(), state, fps)
}
