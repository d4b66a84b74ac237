package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/texfill"
	"github.com/gogpu/texfill/canvas"
)

const sceneYAML = `
version: 1
width: 200
height: 100
background: "#fff"
render:
  workers: 2
  timeout: 5s
items:
  - kind: region
    shapes:
      - {type: rect, x: 0, y: 0, w: 100, h: 100}
      - {type: circle, cx: 50, cy: 50, radius: 20}
    style:
      fill: "#ff0000"
      fill_rule: evenodd
      stroke: "#00000080"
      stroke_width: 2
      line_join: bevel
    texture:
      url: wood.png
      settings: {scaling: 2, syncRatio: true, rotation: "45"}
  - kind: text
    content: "Hello\nworld"
    x: 110
    y: 40
    size: 18
    justify: center
    texture:
      url: "data:image/png;base64,AAAA"
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sceneYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Width != 200 || s.Height != 100 || len(s.Items) != 2 {
		t.Fatalf("scene = %+v", s)
	}
	if s.Render.Workers != 2 || s.Render.Timeout != 5*time.Second {
		t.Errorf("render = %+v", s.Render)
	}
	// defaults survive partial sections
	if s.Render.Cache != 10 || s.Logging.Level != "info" {
		t.Errorf("defaults lost: render %+v, logging %+v", s.Render, s.Logging)
	}
	if got := s.Items[0].Shapes[1]; got.Type != "circle" || got.Radius != 20 {
		t.Errorf("shape = %+v", got)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing size", "items: []"},
		{"zero width", "width: 0\nheight: 1\nitems: []"},
		{"unknown top-level key", "width: 1\nheight: 1\nitems: []\nfoo: 1"},
		{"unknown kind", "width: 1\nheight: 1\nitems: [{kind: blob}]"},
		{"unknown shape", "width: 1\nheight: 1\nitems: [{kind: region, shapes: [{type: blob}]}]"},
		{"bad color", "width: 1\nheight: 1\nitems: [{kind: region, style: {fill: red}}]"},
		{"few polygon sides", "width: 1\nheight: 1\nitems: [{kind: region, shapes: [{type: polygon, sides: 2}]}]"},
		{"bad log level", "width: 1\nheight: 1\nitems: []\nlogging: {level: loud}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidScene) {
				t.Errorf("Validate = %v, want ErrInvalidScene", err)
			}
		})
	}
}

func TestValidateEmptyAndMalformed(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrInvalidScene) {
		t.Errorf("empty: %v", err)
	}
	if err := Validate([]byte("width: [")); err == nil || errors.Is(err, ErrInvalidScene) {
		t.Errorf("malformed YAML: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvWorkers:   "8",
		EnvCache:     "not a number",
		EnvTimeout:   "1m",
		EnvLogLevel:  "DEBUG",
		EnvLogFile:   "/tmp/texfill.log",
		EnvMaxPixels: "-3",
	}
	s := Defaults()
	ApplyEnv(&s, func(k string) string { return env[k] })

	if s.Render.Workers != 8 {
		t.Errorf("workers = %d", s.Render.Workers)
	}
	if s.Render.Cache != 10 {
		t.Errorf("malformed cache override applied: %d", s.Render.Cache)
	}
	if s.Render.MaxPixels != 0 {
		t.Errorf("negative max pixels applied: %d", s.Render.MaxPixels)
	}
	if s.Render.Timeout != time.Minute {
		t.Errorf("timeout = %v", s.Render.Timeout)
	}
	if s.Logging.Level != "debug" || s.Logging.File != "/tmp/texfill.log" {
		t.Errorf("logging = %+v", s.Logging)
	}
}

func TestLoadResolvesBaseDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(sceneYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBaseDir, "")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Render.BaseDir != dir {
		t.Errorf("base dir = %q, want %q", s.Render.BaseDir, dir)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
	}{
		{"", nil},
		{"none", nil},
		{"#f00", color.NRGBA{R: 255, A: 255}},
		{"#f008", color.NRGBA{R: 255, A: 0x88}},
		{"#00ff00", color.NRGBA{G: 255, A: 255}},
		{"#0000ff80", color.NRGBA{B: 255, A: 0x80}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"red", "#12", "#ggg", "#1234567"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrBadColor) {
			t.Errorf("ParseColor(%q) err = %v", bad, err)
		}
	}
}

func TestBuild(t *testing.T) {
	s, err := Parse([]byte(sceneYAML))
	if err != nil {
		t.Fatal(err)
	}
	s.Render.BaseDir = "/assets"

	items, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}

	r, ok := items[0].(*texfill.Region)
	if !ok {
		t.Fatalf("item 0 is %T", items[0])
	}
	if n := r.Path().Subpaths(); n != 2 {
		t.Errorf("region subpaths = %d, want 2", n)
	}
	st := r.Style()
	if st.FillRule != canvas.FillRuleEvenOdd || st.LineJoin != canvas.LineJoinBevel || st.StrokeWidth != 2 {
		t.Errorf("style = %+v", st)
	}
	if got := r.Texture().URL(); got != filepath.Join("/assets", "wood.png") {
		t.Errorf("url = %q", got)
	}
	ts := r.Texture().Settings()
	if ts.Scaling != 2 || !ts.SyncRatio || ts.Rotation != 45 {
		t.Errorf("settings = %+v", ts)
	}

	pt, ok := items[1].(*texfill.PointText)
	if !ok {
		t.Fatalf("item 1 is %T", items[1])
	}
	if pt.Justification() != texfill.JustifyCenter || pt.Face().Size() != 18 {
		t.Errorf("text justification %v, size %v", pt.Justification(), pt.Face().Size())
	}
	if !strings.HasPrefix(pt.Texture().URL(), "data:") {
		t.Errorf("data url rewritten: %q", pt.Texture().URL())
	}
	if pt.Style().Fill == nil {
		t.Error("text without style lost its default fill")
	}
}

func TestBuildBadSettings(t *testing.T) {
	s := Defaults()
	s.Items = []Item{{Kind: "region", Texture: Texture{Settings: map[string]any{"scaling": "big"}}}}
	if _, err := s.Build(); err == nil {
		t.Error("bad settings accepted")
	}
}
