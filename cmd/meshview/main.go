// meshview - Terminal 3D Mesh Viewer
// Renders OBJ and GLB meshes with a depth-buffered software rasterizer, in
// the terminal, in a desktop window, or to an image file.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	+/-         - Adjust zoom
//	R           - Reset view
//	B           - Toggle back-face culling
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/taigrr/meshview/pkg/render"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errNoModel) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newFlagSet(flags *Config, stderr io.Writer) (*flag.FlagSet, *options) {
	fs := flag.NewFlagSet("meshview", flag.ContinueOnError)
	fs.SetOutput(stderr)

	def := DefaultConfig()
	opts := &options{}
	fs.StringVar(&opts.output, "o", "", "Render one frame to this file (.bmp or .png) and exit")
	fs.BoolVar(&opts.window, "window", false, "Open a desktop window instead of using the terminal")
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.BoolVar(&opts.verbose, "v", false, "Debug logging")

	fs.IntVar(&flags.Width, "width", def.Width, "Image or window width in pixels")
	fs.IntVar(&flags.Height, "height", def.Height, "Image or window height in pixels")
	fs.Float64Var(&flags.FOV, "fov", def.FOV, "Field of view in degrees")
	fs.Float64Var(&flags.Distance, "distance", def.Distance, "Camera distance")
	fs.Float64Var(&flags.Yaw, "yaw", 0, "Initial yaw in degrees")
	fs.Float64Var(&flags.Pitch, "pitch", 0, "Initial pitch in degrees")
	fs.StringVar(&flags.Background, "bg", def.Background, "Background color (R,G,B)")
	fs.StringVar(&flags.Color, "color", def.Color, "Mesh color (R,G,B)")
	fs.StringVar(&flags.Cull, "cull", def.Cull, "Face culling: none or back")
	fs.IntVar(&flags.FPS, "fps", def.FPS, "Target FPS")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "meshview - Terminal 3D Mesh Viewer\n\n")
		fmt.Fprintf(stderr, "Usage: meshview [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nControls:\n")
		fmt.Fprintf(stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(stderr, "  +/-         - Zoom\n")
		fmt.Fprintf(stderr, "  R           - Reset view\n")
		fmt.Fprintf(stderr, "  B           - Toggle back-face culling\n")
		fmt.Fprintf(stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(stderr, "  Esc         - Quit\n")
	}
	return fs, opts
}

type options struct {
	output     string
	window     bool
	configPath string
	verbose    bool
}

// loadSettings merges defaults, the config file and the flags that were
// set, in that order.
func loadSettings(fs *flag.FlagSet, flags *Config, opts *options) (Settings, error) {
	cfg := DefaultConfig()
	if opts.configPath != "" {
		if err := LoadConfig(opts.configPath, &cfg); err != nil {
			return Settings{}, err
		}
	}
	applyFlags(fs, flags, &cfg)
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg.Resolve()
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) error {
	var flags Config
	fs, opts := newFlagSet(&flags, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	settings, err := loadSettings(fs, &flags, opts)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: settings.LogLevel})))

	interactive := term.IsTerminal(int(stdin.Fd()))

	var modelPath string
	switch {
	case fs.NArg() > 0:
		modelPath = fs.Arg(0)
	case interactive:
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		if modelPath, err = pickModel(dir, stdin, stdout); err != nil {
			return err
		}
	default:
		fs.Usage()
		return errors.New("no model given")
	}

	mesh, err := loadModel(modelPath, interactive)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, summary(mesh))

	fb := render.NewFramebuffer(settings.Width, settings.Height)
	r := render.NewRenderer(mesh, fb)
	r.Color = settings.Color
	r.Background = settings.Background
	r.Cull = settings.Cull

	slog.Debug("settings",
		"size", fmt.Sprintf("%dx%d", settings.Width, settings.Height),
		"fov", settings.Camera.FOV,
		"distance", settings.Camera.Distance,
		"cull", settings.Cull)

	switch {
	case opts.output != "":
		return renderImage(r, settings.Camera, opts.output, stdout)
	case opts.window:
		return runWindow(r, settings.Camera, settings.FPS)
	default:
		return runTerminal(context.Background(), r, settings.Camera, settings.FPS)
	}
}

// renderImage draws one frame and writes it to path.
func renderImage(r *render.Renderer, cam render.Camera, path string, stdout io.Writer) error {
	if _, err := render.FormatFromPath(path); err != nil {
		return err
	}

	stats := r.Frame(cam)
	slog.Debug("frame", "stats", stats.String())

	if err := r.Framebuffer().Save(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "Wrote %s (%dx%d, %d of %d triangles drawn)\n",
		path, r.Framebuffer().Width, r.Framebuffer().Height, stats.Drawn, stats.Triangles)
	return nil
}
