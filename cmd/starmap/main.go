// Command starmap renders one frame of a demo star map to a PNG. It is
// the headless exercise path for the native backend: scene building,
// atlas uploads, all five passes and the resolve readback run exactly as
// they would under an interactive window.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/starmap"
	"github.com/gogpu/starmap/backend"
	"github.com/gogpu/starmap/backend/wgpu"
	"github.com/gogpu/starmap/internal/atlas"
	"github.com/gogpu/starmap/internal/shade"
	"github.com/gogpu/starmap/internal/xform"
	"github.com/gogpu/starmap/text"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		output     = flag.String("output", "starmap.png", "output PNG file")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := setupLogging(cfg.Log.Level)

	if err := run(cfg, *output); err != nil {
		logger.Error("render failed", "err", err)
		os.Exit(1)
	}
}

func setupLogging(level string) *slog.Logger {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "starmap",
	})
	logger := slog.New(handler)
	starmap.SetLogger(logger)
	return logger
}

func run(cfg Config, output string) error {
	style, err := cfg.falloffStyle()
	if err != nil {
		return err
	}

	dev, err := wgpu.New()
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	r := starmap.NewRenderer(dev, style)
	defer r.Close()

	drawer, err := newDrawer(cfg.Font)
	if err != nil {
		return err
	}
	r.SetFontAtlas(drawer.Cache().Atlas())

	scene := demoScene()
	view := starmap.NewView()
	view.LookAt(xform.V2(cfg.Map.CenterX, cfg.Map.CenterY))
	view.SetZoom(cfg.Map.Zoom)

	w := float32(cfg.Window.Width)
	h := float32(cfg.Window.Height)
	cam := view.Camera()

	queueLabels(r, drawer, scene, cfg.Font.Size, cam, w, h)
	queueTitle(r, drawer, w)

	if err := r.RenderFrame(scene, cam, w, h); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	return writePNG(dev, output, cfg.Window.Width, cfg.Window.Height)
}

func newDrawer(cfg FontConfig) (*text.Drawer, error) {
	data := goregular.TTF
	if cfg.Path != "" {
		b, err := os.ReadFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}
	src, err := text.NewSource(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	img := atlas.NewImage(512, 512, atlas.FormatAlpha)
	return text.NewDrawer(src, text.NewCache(src, img)), nil
}

// queueLabels places one label per named system, anchored just right of
// its marker.
func queueLabels(r *starmap.Renderer, d *text.Drawer, scene *starmap.Scene, size float64, cam xform.Camera, w, h float32) {
	white := shade.RGBA{R: 0.9, G: 0.9, B: 0.9, A: 1}
	var buf []byte
	quads := 0
	for _, id := range demoLabelIDs {
		sys, ok := scene.System(id)
		if !ok {
			continue
		}
		pos := starmap.LabelAnchor(sys, cam, w, h)
		var n int
		buf, n = d.AppendShadowed(buf, demoNames[id], pos, size, white, text.AnchorTopLeft)
		quads += n
	}
	r.QueueText(buf, quads)
}

// queueTitle draws a dimmed panel across the top edge with the demo
// title centered on it.
func queueTitle(r *starmap.Renderer, d *text.Drawer, w float32) {
	const panelHeight = 28
	panel := shade.RGBA{R: 0.05, G: 0.07, B: 0.1, A: 0.85}
	var quad []byte
	quad = backend.AppendQuadVertex(quad, backend.QuadVertex{Position: xform.V2(0, 0)})
	quad = backend.AppendQuadVertex(quad, backend.QuadVertex{Position: xform.V2(w, 0)})
	quad = backend.AppendQuadVertex(quad, backend.QuadVertex{Position: xform.V2(0, panelHeight)})
	quad = backend.AppendQuadVertex(quad, backend.QuadVertex{Position: xform.V2(w, panelHeight)})
	r.QueueQuads(quad, 1, panel, false)

	title := shade.RGBA{R: 1, G: 1, B: 1, A: 1}
	buf, n := d.Append(nil, "Star Map", xform.V2(w/2, panelHeight/2), 14, title, text.AnchorCenter)
	r.QueueText(buf, n)
}

func writePNG(dev *wgpu.Device, path string, w, h int) error {
	pixels := make([]byte, w*h*4)
	if err := dev.ReadPixels(pixels); err != nil {
		return fmt.Errorf("read pixels: %w", err)
	}
	img := &image.RGBA{Pix: pixels, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	starmap.Logger().Info("snapshot written", "path", path, "width", w, "height", h)
	return nil
}
