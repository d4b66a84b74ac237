// Package config loads texfill scene files.
//
// A scene is YAML validated against an embedded JSON schema. Render and
// logging options may be overridden by TEXFILL_* environment variables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the scene format version written by this package.
const CurrentVersion = 1

// ErrInvalidScene is wrapped by every schema validation failure.
var ErrInvalidScene = errors.New("config: invalid scene")

//go:embed scene.schema.json
var schemaJSON []byte

// Env var names used as overrides.
const (
	EnvWorkers   = "TEXFILL_WORKERS"
	EnvCache     = "TEXFILL_CACHE"
	EnvTimeout   = "TEXFILL_TIMEOUT"
	EnvBaseDir   = "TEXFILL_BASE_DIR"
	EnvMaxPixels = "TEXFILL_MAX_PIXELS"
	EnvLogLevel  = "TEXFILL_LOG_LEVEL"
	EnvLogFormat = "TEXFILL_LOG_FORMAT"
	EnvLogFile   = "TEXFILL_LOG_FILE"
)

// Scene is a canvas size, a background and the items painted onto it in
// order.
type Scene struct {
	Version    int           `yaml:"version"`
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	Background string        `yaml:"background"`
	Items      []Item        `yaml:"items"`
	Render     RenderConfig  `yaml:"render"`
	Logging    LoggingConfig `yaml:"logging"`
}

// RenderConfig tunes the renderer that paints the scene.
type RenderConfig struct {
	Workers   int           `yaml:"workers"`
	Cache     int           `yaml:"cache"`
	Timeout   time.Duration `yaml:"timeout"`
	BaseDir   string        `yaml:"base_dir"`
	MaxPixels int           `yaml:"max_pixels"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Item is a region or a point text.
type Item struct {
	Kind string `yaml:"kind"`

	// region
	Shapes []Shape `yaml:"shapes"`

	// text
	Content string  `yaml:"content"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Size    float64 `yaml:"size"`
	Font    string  `yaml:"font"`
	Justify string  `yaml:"justify"`
	Leading float64 `yaml:"leading"`

	Style   Style   `yaml:"style"`
	Texture Texture `yaml:"texture"`
}

// Shape is one subpath of a region. Which fields apply depends on Type.
type Shape struct {
	Type   string       `yaml:"type"`
	X      float64      `yaml:"x"`
	Y      float64      `yaml:"y"`
	W      float64      `yaml:"w"`
	H      float64      `yaml:"h"`
	R      float64      `yaml:"r"`
	CX     float64      `yaml:"cx"`
	CY     float64      `yaml:"cy"`
	RX     float64      `yaml:"rx"`
	RY     float64      `yaml:"ry"`
	Radius float64      `yaml:"radius"`
	Inner  float64      `yaml:"inner"`
	Sides  int          `yaml:"sides"`
	Points [][2]float64 `yaml:"points"`
}

type Style struct {
	Fill        string  `yaml:"fill"`
	FillRule    string  `yaml:"fill_rule"`
	Stroke      string  `yaml:"stroke"`
	StrokeWidth float64 `yaml:"stroke_width"`
	LineCap     string  `yaml:"line_cap"`
	LineJoin    string  `yaml:"line_join"`
	Shadow      Shadow  `yaml:"shadow"`
}

type Shadow struct {
	Color   string  `yaml:"color"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Blur    float64 `yaml:"blur"`
}

// Texture names the bitmap filling an item and how it is fitted.
// Settings keys are those accepted by texfill.ParseSettings.
type Texture struct {
	URL      string         `yaml:"url"`
	Settings map[string]any `yaml:"settings"`
}

// Defaults returns the scene defaults applied before the file is decoded.
func Defaults() Scene {
	return Scene{
		Version:    CurrentVersion,
		Background: "none",
		Render:     RenderConfig{Workers: 4, Cache: 10, Timeout: 30 * time.Second},
		Logging:    LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads and validates the scene at path, then applies environment
// overrides. A relative render.base_dir, or none, resolves against the
// scene file's directory.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	ApplyEnv(s, os.Getenv)
	dir := filepath.Dir(path)
	switch {
	case s.Render.BaseDir == "":
		s.Render.BaseDir = dir
	case !filepath.IsAbs(s.Render.BaseDir):
		s.Render.BaseDir = filepath.Join(dir, s.Render.BaseDir)
	}
	return s, nil
}

// Parse validates YAML scene data and decodes it over the defaults.
func Parse(data []byte) (*Scene, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("config: decode scene: %w", err)
	}
	return &s, nil
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Validate checks YAML scene data against the scene schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: parse scene: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidScene)
	}
	sc, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}
	res, err := sc.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("config: validate scene: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidScene, strings.Join(msgs, "; "))
}

// ApplyEnv overrides render and logging options from the environment.
// Malformed numeric values are ignored.
func ApplyEnv(s *Scene, getenv func(string) string) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }
	if n, ok := atoi(env(EnvWorkers)); ok {
		s.Render.Workers = n
	}
	if n, ok := atoi(env(EnvCache)); ok {
		s.Render.Cache = n
	}
	if n, ok := atoi(env(EnvMaxPixels)); ok {
		s.Render.MaxPixels = n
	}
	if v := env(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			s.Render.Timeout = d
		}
	}
	if v := env(EnvBaseDir); v != "" {
		s.Render.BaseDir = v
	}
	if v := env(EnvLogLevel); v != "" {
		s.Logging.Level = strings.ToLower(v)
	}
	if v := env(EnvLogFormat); v != "" {
		s.Logging.Format = strings.ToLower(v)
	}
	if v := env(EnvLogFile); v != "" {
		s.Logging.File = v
	}
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil && n > 0
}
