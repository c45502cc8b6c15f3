// Package config provides configuration for the sightline tools.
// Values are loaded from a JSON or YAML file on top of built-in defaults, so
// a file only needs the settings it changes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings for every command
type Config struct {
	Viewer ViewerConfig `json:"viewer" yaml:"viewer"`
	Server ServerConfig `json:"server" yaml:"server"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// ViewerConfig configures the interactive viewer
type ViewerConfig struct {
	WindowWidth  int    `json:"window_width" yaml:"window_width"`
	WindowHeight int    `json:"window_height" yaml:"window_height"`
	Title        string `json:"title" yaml:"title"`
	Scene        string `json:"scene" yaml:"scene"` // Scene file opened at start-up

	PanSpeed float64 `json:"pan_speed" yaml:"pan_speed"` // Screen pixels per frame
	ZoomStep float64 `json:"zoom_step" yaml:"zoom_step"` // Zoom factor per wheel notch
	MinZoom  float64 `json:"min_zoom" yaml:"min_zoom"`
	MaxZoom  float64 `json:"max_zoom" yaml:"max_zoom"`

	ClipToScreen    bool     `json:"clip_to_screen" yaml:"clip_to_screen"` // Start with viewport clipping on
	MessageDuration Duration `json:"message_duration" yaml:"message_duration"`
}

// ServerConfig configures the HTTP service
type ServerConfig struct {
	Addr            string   `json:"addr" yaml:"addr"`
	ScenesDir       string   `json:"scenes_dir" yaml:"scenes_dir"`
	ReadTimeout     Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64    `json:"max_body_bytes" yaml:"max_body_bytes"`
	MaxSegments     int      `json:"max_segments" yaml:"max_segments"` // Per request, after splitting
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn or error
	Format string `json:"format" yaml:"format"` // text or json
}

// DefaultConfig returns the settings used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Viewer: ViewerConfig{
			WindowWidth:     1280,
			WindowHeight:    720,
			Title:           "sightline",
			PanSpeed:        6,
			ZoomStep:        1.1,
			MinZoom:         0.05,
			MaxZoom:         40,
			ClipToScreen:    false,
			MessageDuration: Duration(2 * time.Second),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			MaxBodyBytes:    4 << 20,
			MaxSegments:     20000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads config from a JSON or YAML file, picked by extension.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks values that would make a command misbehave
func (c *Config) Validate() error {
	v := c.Viewer
	if v.WindowWidth <= 0 || v.WindowHeight <= 0 {
		return fmt.Errorf("invalid window size: %dx%d", v.WindowWidth, v.WindowHeight)
	}
	if v.ZoomStep <= 1 {
		return fmt.Errorf("zoom step must be greater than 1, got %v", v.ZoomStep)
	}
	if v.MinZoom <= 0 || v.MinZoom > v.MaxZoom {
		return fmt.Errorf("invalid zoom range: %v..%v", v.MinZoom, v.MaxZoom)
	}

	s := c.Server
	if s.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body size: %d", s.MaxBodyBytes)
	}
	if s.MaxSegments <= 0 {
		return fmt.Errorf("invalid max segments: %d", s.MaxSegments)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
