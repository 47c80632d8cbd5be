// Package config reads the application settings shared by the example programs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root of the TOML settings file.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Scene    SceneConfig    `toml:"scene"`
	Log      LogConfig      `toml:"log"`
}

// WindowConfig sizes and titles the window.
type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// RendererConfig holds surface and diagnostics settings.
type RendererConfig struct {
	// PresentMode is "fifo", "mailbox" or "immediate".
	PresentMode string `toml:"present_mode"`
	Profiling   bool   `toml:"profiling"`
}

// SceneConfig locates the model the dice program loads.
type SceneConfig struct {
	OBJPath string `toml:"obj_path"`
}

// LogConfig sets the log level: "debug", "info", "warn" or "error".
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the settings used for any key the file leaves out.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window:   WindowConfig{Width: 800, Height: 600, Title: "oxy-phong"},
		Renderer: RendererConfig{PresentMode: "fifo"},
		Scene:    SceneConfig{OBJPath: "examples/assets/dice/dice.obj"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads a TOML file over the defaults. A missing file yields the defaults.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - Config: the merged settings
//   - error: error if the file exists but cannot be read or is invalid
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the merged settings
//   - error: error if the document is malformed, has unknown keys or invalid values
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
//
// Returns:
//   - error: the first invalid setting
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	switch c.Renderer.PresentMode {
	case "fifo", "mailbox", "immediate":
	default:
		return fmt.Errorf("unknown present mode %q", c.Renderer.PresentMode)
	}
	if c.Scene.OBJPath == "" {
		return errors.New("scene obj_path must not be empty")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts the configured level name.
//
// Returns:
//   - slog.Level: the level
//   - error: error if the name is not a slog level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
