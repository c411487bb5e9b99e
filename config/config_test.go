package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/pepterm/input"
	"github.com/lixenwraith/pepterm/render"
	"github.com/lixenwraith/pepterm/terminal"
)

func TestDefaultBuild(t *testing.T) {
	s, err := Default().Build()
	if err != nil {
		t.Fatalf("Default().Build(): %v", err)
	}
	if s.FrameInterval != time.Second/30 {
		t.Errorf("FrameInterval = %v", s.FrameInterval)
	}
	if s.Lens.FOV != 1.7 || s.Lens.Distance != 0.1 {
		t.Errorf("Lens = %+v", s.Lens)
	}
	if s.Glyph != render.GlyphBraille || s.Scheme.Name() != "coolwarm" {
		t.Errorf("glyph %v scheme %q", s.Glyph, s.Scheme.Name())
	}
	if s.View.MouseSpeed != 30 || s.View.AutoRotateSpeed != 0.002 {
		t.Errorf("View = %+v", s.View)
	}
	if s.Keys.Lookup(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'}) != input.IntentQuit {
		t.Error("default keys missing quit")
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
frame_rate: 60
fov: 1.2
glyph: block
color_mode: "256"
scheme: viridis
keys:
  x: quit
  q: none
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Untouched fields keep defaults
	if cfg.Near != 0.1 || cfg.MouseSpeed != 30 {
		t.Errorf("defaults lost: %+v", cfg)
	}

	s, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.FrameInterval != time.Second/60 || s.Lens.FOV != 1.2 {
		t.Errorf("interval %v fov %v", s.FrameInterval, s.Lens.FOV)
	}
	if s.Glyph != render.GlyphBlock || s.ColorMode != terminal.ColorMode256 || s.Scheme.Name() != "viridis" {
		t.Errorf("glyph %v mode %v scheme %q", s.Glyph, s.ColorMode, s.Scheme.Name())
	}
	keyQ := terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'}
	keyX := terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'x'}
	if s.Keys.Lookup(keyQ) != input.IntentNone || s.Keys.Lookup(keyX) != input.IntentQuit {
		t.Error("key overrides not applied")
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if cfg.FrameRate != 30 {
		t.Errorf("FrameRate = %d", cfg.FrameRate)
	}
}

func TestParseUnknownField(t *testing.T) {
	if _, err := Parse([]byte("framerate: 10\n")); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestBuildRejects(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		key  string
	}{
		{"rate zero", func(c *Config) { c.FrameRate = 0 }, "frame_rate"},
		{"rate high", func(c *Config) { c.FrameRate = 1000 }, "frame_rate"},
		{"fov", func(c *Config) { c.FOV = 4 }, "fov"},
		{"near", func(c *Config) { c.Near = 0 }, "near"},
		{"speed", func(c *Config) { c.ZoomStep = -1 }, "zoom_step"},
		{"glyph", func(c *Config) { c.Glyph = "hex" }, "glyph"},
		{"mode", func(c *Config) { c.ColorMode = "16" }, "color_mode"},
		{"scheme", func(c *Config) { c.Scheme = "notacolor" }, "scheme"},
		{"keys", func(c *Config) { c.Keys = map[string]string{"x": "fly"} }, "keys"},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mod(&cfg)
		_, err := cfg.Build()
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", tt.name, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.key) {
			t.Errorf("%s: error %q does not name %s", tt.name, err, tt.key)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("scheme: magma\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil || cfg.Scheme != "magma" {
		t.Errorf("Load = %+v, %v", cfg, err)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("explicit missing file accepted")
	}

	// Default location missing is not an error
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "empty"))
	t.Setenv("HOME", filepath.Join(dir, "empty"))
	cfg, err = Load("")
	if err != nil || cfg.Scheme != "coolwarm" {
		t.Errorf("Load(\"\") = %+v, %v", cfg, err)
	}
}
