// Command texfill renders a scene file of textured shapes and text to a PNG
// or WebP image.
//
// Usage:
//
//	texfill -scene scene.yaml -o out.png [-width 800 -height 600]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/texfill"
	"github.com/gogpu/texfill/canvas"
	"github.com/gogpu/texfill/imageio"
	"github.com/gogpu/texfill/internal/config"
	tlog "github.com/gogpu/texfill/internal/log"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "texfill:", err)
		}
		os.Exit(1)
	}
}

type flags struct {
	scene     string
	output    string
	width     int
	height    int
	workers   int
	cache     int
	timeout   time.Duration
	logLevel  string
	logFormat string
	logFile   string
	set       map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	f := &flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("texfill", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.scene, "scene", "", "scene file (YAML)")
	fs.StringVar(&f.output, "o", "out.png", "output image, .png, .webp or .tga")
	fs.IntVar(&f.width, "width", 0, "canvas width (default: scene width)")
	fs.IntVar(&f.height, "height", 0, "canvas height (default: scene height)")
	fs.IntVar(&f.workers, "workers", 0, "concurrent texture fetches")
	fs.IntVar(&f.cache, "cache", 0, "bitmap cache capacity")
	fs.DurationVar(&f.timeout, "timeout", 0, "time allowed for texture loads")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", "", "console or json")
	fs.StringVar(&f.logFile, "log-file", "", "rotated JSON log file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	if f.scene == "" {
		if fs.NArg() == 0 {
			return nil, errors.New("no scene file given")
		}
		f.scene = fs.Arg(0)
	}
	return f, nil
}

// apply overrides scene options with explicitly set flags.
func (f *flags) apply(s *config.Scene) {
	if f.set["width"] {
		s.Width = f.width
	}
	if f.set["height"] {
		s.Height = f.height
	}
	if f.set["workers"] {
		s.Render.Workers = f.workers
	}
	if f.set["cache"] {
		s.Render.Cache = f.cache
	}
	if f.set["timeout"] {
		s.Render.Timeout = f.timeout
	}
	if f.set["log-level"] {
		s.Logging.Level = f.logLevel
	}
	if f.set["log-format"] {
		s.Logging.Format = f.logFormat
	}
	if f.set["log-file"] {
		s.Logging.File = f.logFile
	}
}

func run(args []string, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	scene, err := config.Load(f.scene)
	if err != nil {
		return err
	}
	f.apply(scene)
	if scene.Width <= 0 || scene.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", scene.Width, scene.Height)
	}
	if _, err := imageio.FormatFromPath(f.output); err != nil {
		return err
	}

	logger, closer := tlog.Init(tlog.Options{
		Level:  scene.Logging.Level,
		Format: scene.Logging.Format,
		File:   scene.Logging.File,
		Stderr: stderr,
	})
	defer closer.Close()
	texfill.SetLogger(logger.With(slog.String("component", "texfill")))
	defer texfill.SetLogger(nil)

	bg, err := config.ParseColor(scene.Background)
	if err != nil {
		return err
	}
	items, err := scene.Build()
	if err != nil {
		return err
	}

	r := texfill.NewRenderer(
		texfill.WithWorkers(scene.Render.Workers),
		texfill.WithCacheCapacity(scene.Render.Cache),
		texfill.WithDecoder(&imageio.Decoder{Timeout: scene.Render.Timeout, BaseDir: scene.Render.BaseDir}),
		texfill.WithSurfacePool(canvas.NewSurfacePool(scene.Render.MaxPixels, 0)),
	)
	defer r.Close()

	failed := 0
	bind := make([]any, len(items))
	for i, it := range items {
		bind[i] = it
		if t, ok := it.(texfill.Texturable); ok {
			t.Texture().OnError(func(*texfill.LoadError) { failed++ })
		}
	}

	start := time.Now()
	r.Bind(bind...)
	ctx, cancel := context.WithTimeout(context.Background(), scene.Render.Timeout)
	defer cancel()
	if err := r.Wait(ctx); err != nil {
		logger.Warn("texture loads unfinished, rendering without them", "err", err,
			"pending", r.Loader().Pending())
	}

	dc := canvas.NewContext(scene.Width, scene.Height)
	if bg != nil {
		dc.ClearWithColor(bg)
	}
	r.Render(dc, items...)

	if err := imageio.Save(f.output, dc.Image()); err != nil {
		return err
	}

	logger.Info("rendered scene",
		"scene", f.scene,
		"output", f.output,
		"items", len(items),
		"failed_textures", failed,
		"cached", r.Cache().Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
