// Package config loads the optional YAML settings file and validates it into runtime settings
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/pepterm/camera"
	"github.com/lixenwraith/pepterm/input"
	"github.com/lixenwraith/pepterm/palette"
	"github.com/lixenwraith/pepterm/parameter"
	"github.com/lixenwraith/pepterm/render"
	"github.com/lixenwraith/pepterm/terminal"
	"github.com/lixenwraith/pepterm/view"
)

// FileName is looked up under the user config directory
const FileName = "config.yaml"

// maxConfigSize rejects files that cannot plausibly be settings
const maxConfigSize = 1 << 20

var ErrInvalid = errors.New("invalid config")

// Config mirrors the YAML file, every field is optional
type Config struct {
	FrameRate       int               `yaml:"frame_rate"`
	FOV             float64           `yaml:"fov"`
	Near            float64           `yaml:"near"`
	MouseSpeed      float64           `yaml:"mouse_speed"`
	ZoomStep        float64           `yaml:"zoom_step"`
	PanSpeed        float64           `yaml:"pan_speed"`
	AutoRotateSpeed float64           `yaml:"auto_rotate_speed"`
	Glyph           string            `yaml:"glyph"`
	ColorMode       string            `yaml:"color_mode"`
	Scheme          string            `yaml:"scheme"`
	Keys            map[string]string `yaml:"keys"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		FrameRate:       parameter.FrameRate,
		FOV:             parameter.CameraFOV,
		Near:            parameter.CameraNear,
		MouseSpeed:      parameter.MouseSpeed,
		ZoomStep:        parameter.ZoomStep,
		PanSpeed:        parameter.PanSpeed,
		AutoRotateSpeed: parameter.AutoRotateSpeed,
		Glyph:           render.GlyphBraille.String(),
		ColorMode:       "auto",
		Scheme:          palette.DefaultName,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pepterm/config.yaml or the platform equivalent
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, "pepterm", FileName), nil
}

// Load reads path over the defaults
// An empty path tries DefaultPath and treats a missing file there as no overrides;
// an explicit path must exist
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	info, err := os.Stat(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("%w: %s is %d bytes", ErrInvalid, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data over the defaults
func Parse(data []byte) (Config, error) {
	cfg := Default()
	err := cfg.decode(data)
	return cfg, err
}

// decode overlays fields present in data, unknown keys are errors
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Settings is a validated Config converted to the types the viewer consumes
type Settings struct {
	FrameInterval time.Duration
	Lens          camera.Lens
	View          view.Settings
	Glyph         render.GlyphShape
	ColorMode     terminal.ColorMode
	Scheme        palette.Scheme
	Keys          *input.KeyTable
}

// Build validates every field and resolves names, errors name the offending key
func (c Config) Build() (*Settings, error) {
	if c.FrameRate < parameter.MinFrameRate || c.FrameRate > parameter.MaxFrameRate {
		return nil, fmt.Errorf("%w: frame_rate %d outside [%d, %d]", ErrInvalid, c.FrameRate, parameter.MinFrameRate, parameter.MaxFrameRate)
	}
	if !(c.FOV > 0 && c.FOV < math.Pi) {
		return nil, fmt.Errorf("%w: fov %v must be in (0, pi)", ErrInvalid, c.FOV)
	}
	if !(c.Near > 0) || math.IsInf(c.Near, 0) {
		return nil, fmt.Errorf("%w: near %v must be positive", ErrInvalid, c.Near)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"mouse_speed", c.MouseSpeed},
		{"zoom_step", c.ZoomStep},
		{"pan_speed", c.PanSpeed},
		{"auto_rotate_speed", c.AutoRotateSpeed},
	} {
		if !(f.v >= 0) || math.IsInf(f.v, 0) {
			return nil, fmt.Errorf("%w: %s %v must be a non-negative number", ErrInvalid, f.name, f.v)
		}
	}

	glyph, err := render.ParseGlyphShape(c.Glyph)
	if err != nil {
		return nil, fmt.Errorf("%w: glyph: %v", ErrInvalid, err)
	}
	mode, err := terminal.ParseColorMode(c.ColorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: color_mode: %v", ErrInvalid, err)
	}
	scheme, err := palette.Lookup(c.Scheme)
	if err != nil {
		return nil, fmt.Errorf("%w: scheme: %v", ErrInvalid, err)
	}
	override, err := input.LoadKeyConfig(c.Keys)
	if err != nil {
		return nil, fmt.Errorf("%w: keys: %v", ErrInvalid, err)
	}

	return &Settings{
		FrameInterval: time.Second / time.Duration(c.FrameRate),
		Lens:          camera.Lens{Distance: c.Near, FOV: c.FOV},
		View: view.Settings{
			MouseSpeed:      c.MouseSpeed,
			ZoomStep:        c.ZoomStep,
			PanSpeed:        c.PanSpeed,
			AutoRotateSpeed: c.AutoRotateSpeed,
		},
		Glyph:     glyph,
		ColorMode: mode,
		Scheme:    scheme,
		Keys:      input.MergeKeyTable(input.DefaultKeyTable(), override),
	}, nil
}
