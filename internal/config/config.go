// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Model    ModelConfig    `yaml:"model"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// ModelConfig holds model loading and animation settings.
type ModelConfig struct {
	Path             string   `yaml:"path"` // local file or http(s) URL
	Scale            float32  `yaml:"scale"`
	ReverseWinding   bool     `yaml:"reverse_winding"`
	DegreesPerSecond float64  `yaml:"degrees_per_second"`
	Watch            bool     `yaml:"watch"` // reload when the model file changes
	SearchPaths      []string `yaml:"search_paths"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Model: ModelConfig{
			Path:             "cube.obj",
			Scale:            60,
			ReverseWinding:   true,
			DegreesPerSecond: 30,
			Watch:            false,
			SearchPaths:      []string{".", "models"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
