package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagModel      = flag.String("model", "", "Model file path or URL to load")
	flagScale      = flag.Float64("scale", 0, "Model scale factor")
	flagReverse    = flag.Bool("reverse", false, "Reverse triangle winding during parse")
	flagNoReverse  = flag.Bool("no-reverse", false, "Keep the model's authored winding")
	flagWatch      = flag.Bool("watch", false, "Reload the model when its file changes")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagModel != "" {
		cfg.Model.Path = *flagModel
	}
	if *flagScale > 0 {
		cfg.Model.Scale = float32(*flagScale)
	}
	if *flagReverse {
		cfg.Model.ReverseWinding = true
	}
	if *flagNoReverse {
		cfg.Model.ReverseWinding = false
	}
	if *flagWatch {
		cfg.Model.Watch = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
