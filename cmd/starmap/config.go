package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/starmap/internal/shade"
)

// Config is the TOML configuration of the snapshot renderer.
type Config struct {
	Window WindowConfig `toml:"window"`
	Map    MapConfig    `toml:"map"`
	Font   FontConfig   `toml:"font"`
	Log    LogConfig    `toml:"log"`
}

type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type MapConfig struct {
	// Falloff selects the marker falloff style: "inverse-power" or
	// "polynomial".
	Falloff string  `toml:"falloff"`
	CenterX float32 `toml:"center_x"`
	CenterY float32 `toml:"center_y"`
	Zoom    float32 `toml:"zoom"`
}

type FontConfig struct {
	// Path of a TTF/OTF file; empty falls back to the bundled Go
	// Regular face.
	Path string  `toml:"path"`
	Size float64 `toml:"size"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func defaultConfig() Config {
	return Config{
		Window: WindowConfig{Width: 1024, Height: 768},
		Map:    MapConfig{Falloff: "inverse-power", Zoom: 2},
		Font:   FontConfig{Size: 12},
		Log:    LogConfig{Level: "info"},
	}
}

// loadConfig reads a TOML config file over the defaults. An empty path
// returns the defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %s", path, undecoded[0])
	}
	return cfg, nil
}

func (c Config) falloffStyle() (shade.Style, error) {
	switch c.Map.Falloff {
	case "", "inverse-power":
		return shade.StyleInversePower, nil
	case "polynomial":
		return shade.StylePolynomial, nil
	default:
		return 0, fmt.Errorf("unknown falloff style %q", c.Map.Falloff)
	}
}
