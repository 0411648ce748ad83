package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/meshview/pkg/render"
	"gopkg.in/yaml.v3"
)

// maxConfigSize bounds the config file read.
const maxConfigSize = 1024 * 1024

// Config holds the viewer settings. Fields map to config file keys and to
// the command-line flags of the same name.
type Config struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	FOV        float64 `yaml:"fov"`
	Distance   float64 `yaml:"distance"`
	Yaw        float64 `yaml:"yaw"`   // degrees
	Pitch      float64 `yaml:"pitch"` // degrees
	Background string  `yaml:"background"`
	Color      string  `yaml:"color"`
	Cull       string  `yaml:"cull"`
	FPS        int     `yaml:"fps"`
	LogLevel   string  `yaml:"log_level"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Width:      640,
		Height:     480,
		FOV:        render.DefaultFOV,
		Distance:   render.DefaultDistance,
		Background: "30,30,40",
		Color:      "200,200,200",
		Cull:       "back",
		FPS:        60,
		LogLevel:   "info",
	}
}

// LoadConfig overlays the YAML file at path onto cfg. Keys missing from the
// file keep their current values.
func LoadConfig(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return fmt.Errorf("config %s too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	slog.Debug("loaded config", "path", path, "size", info.Size())
	return nil
}

// Settings is a validated Config ready for the renderer.
type Settings struct {
	Width, Height int
	Camera        render.Camera
	Background    render.Color
	Color         render.Color
	Cull          render.CullMode
	FPS           int
	LogLevel      slog.Level
}

// Resolve checks cfg and converts it into Settings.
func (cfg Config) Resolve() (Settings, error) {
	var s Settings
	var err error

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return s, fmt.Errorf("invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FOV <= 0 || cfg.FOV >= 180 {
		return s, fmt.Errorf("fov must be between 0 and 180 degrees, got %v", cfg.FOV)
	}
	if cfg.FPS <= 0 {
		return s, fmt.Errorf("fps must be positive, got %d", cfg.FPS)
	}
	if s.Background, err = parseRGB(cfg.Background); err != nil {
		return s, fmt.Errorf("background: %w", err)
	}
	if s.Color, err = parseRGB(cfg.Color); err != nil {
		return s, fmt.Errorf("color: %w", err)
	}
	if s.Cull, err = render.ParseCullMode(cfg.Cull); err != nil {
		return s, err
	}
	if err := s.LogLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return s, fmt.Errorf("log level: %w", err)
	}

	s.Width, s.Height, s.FPS = cfg.Width, cfg.Height, cfg.FPS
	s.Camera = render.Camera{
		Yaw:      cfg.Yaw * degToRad,
		Pitch:    cfg.Pitch * degToRad,
		FOV:      cfg.FOV,
		Distance: cfg.Distance,
	}
	s.Camera.Zoom(0) // clamp into range
	return s, nil
}

const degToRad = math.Pi / 180

// parseRGB parses an "R,G,B" triple of 0-255 values.
func parseRGB(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("invalid color %q (want R,G,B)", s)
	}

	var rgb [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		rgb[i] = uint8(n)
	}
	return render.RGB(rgb[0], rgb[1], rgb[2]), nil
}

// applyFlags copies the flags that were set on the command line into cfg.
func applyFlags(fs *flag.FlagSet, flags *Config, cfg *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = flags.Width
		case "height":
			cfg.Height = flags.Height
		case "fov":
			cfg.FOV = flags.FOV
		case "distance":
			cfg.Distance = flags.Distance
		case "yaw":
			cfg.Yaw = flags.Yaw
		case "pitch":
			cfg.Pitch = flags.Pitch
		case "bg":
			cfg.Background = flags.Background
		case "color":
			cfg.Color = flags.Color
		case "cull":
			cfg.Cull = flags.Cull
		case "fps":
			cfg.FPS = flags.FPS
		}
	})
}
