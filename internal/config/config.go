package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/physics"
)

const (
	DefaultFPS    = 60
	DefaultWidth  = 480
	DefaultHeight = 480
	DefaultTheme  = "ink"
)

type Config struct {
	Anchor     AnchorConfig `yaml:"anchor"`
	Radius     float64      `yaml:"radius"`
	Points     int          `yaml:"points"`
	Elasticity float64      `yaml:"elasticity"`
	Friction   float64      `yaml:"friction"`
	Jitter     float64      `yaml:"jitter"`
	Seed       int64        `yaml:"seed"`
	Update     string       `yaml:"update"`
	FPS        int          `yaml:"fps"`
	Fill       string       `yaml:"fill,omitempty"`
	Accent     string       `yaml:"accent,omitempty"`
	Stroke     string       `yaml:"stroke,omitempty"`
	Theme      string       `yaml:"theme"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
}

type AnchorConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func DefaultConfig() *Config {
	return &Config{
		Anchor:     AnchorConfig{X: physics.DefaultAnchor.X, Y: physics.DefaultAnchor.Y},
		Radius:     physics.DefaultRadius,
		Points:     physics.DefaultPoints,
		Elasticity: physics.DefaultElasticity,
		Friction:   physics.DefaultFriction,
		Seed:       1,
		Update:     physics.Synchronous.String(),
		FPS:        DefaultFPS,
		Theme:      DefaultTheme,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path over a copy of base, so keys absent from the file
// keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field the ring and hosts consume.
func (c *Config) Validate() error {
	if !finite(c.Anchor.X) || !finite(c.Anchor.Y) ||
		c.Anchor.X < 0 || c.Anchor.X > 1 || c.Anchor.Y < 0 || c.Anchor.Y > 1 {
		return dynamo.Reject("anchor", c.Anchor, dynamo.ErrInvalidAnchor)
	}
	if !finite(c.Radius) || c.Radius <= 0 {
		return dynamo.Reject("radius", c.Radius, dynamo.ErrInvalidRadius)
	}
	if c.Points <= 2 {
		return dynamo.Reject("points", c.Points, dynamo.ErrInvalidPointCount)
	}
	for name, v := range map[string]float64{
		"elasticity": c.Elasticity,
		"friction":   c.Friction,
		"jitter":     c.Jitter,
	} {
		if !finite(v) || v < 0 {
			return dynamo.Reject(name, v, dynamo.ErrInvalidParam)
		}
	}
	policy, err := physics.ParsePolicy(c.Update)
	if err != nil {
		return dynamo.Reject("update", c.Update, dynamo.ErrInvalidParam)
	}
	if err := physics.CheckStable(policy, c.Elasticity, c.Friction); err != nil {
		return err
	}
	if c.FPS <= 0 {
		return dynamo.Reject("fps", c.FPS, dynamo.ErrInvalidParam)
	}
	if c.Width < 0 || c.Height < 0 {
		return dynamo.Reject("size", fmt.Sprintf("%dx%d", c.Width, c.Height), dynamo.ErrInvalidSurface)
	}
	for name, s := range map[string]string{"fill": c.Fill, "accent": c.Accent, "stroke": c.Stroke} {
		if s == "" {
			continue
		}
		if _, err := dynamo.ParseColor(s); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// RingParams converts the config into ring construction parameters.
func (c *Config) RingParams() (physics.RingParams, error) {
	policy, err := physics.ParsePolicy(c.Update)
	if err != nil {
		return physics.RingParams{}, err
	}
	p := physics.RingParams{
		Anchor:     dynamo.V(c.Anchor.X, c.Anchor.Y),
		Radius:     c.Radius,
		Points:     c.Points,
		Elasticity: c.Elasticity,
		Friction:   c.Friction,
		Jitter:     c.Jitter,
		Seed:       c.Seed,
		Policy:     policy,
	}
	if c.Accent != "" {
		accent, err := dynamo.ParseColor(c.Accent)
		if err != nil {
			return physics.RingParams{}, err
		}
		p.Accent = accent
	}
	return p, nil
}

// NewRing builds and initializes a ring from the config.
func (c *Config) NewRing() (*physics.Ring, error) {
	p, err := c.RingParams()
	if err != nil {
		return nil, err
	}
	ring, err := physics.NewRing(p)
	if err != nil {
		return nil, err
	}
	if c.Fill != "" {
		if err := ring.SetFillColor(c.Fill); err != nil {
			return nil, err
		}
	}
	if err := ring.Initialize(); err != nil {
		return nil, err
	}
	return ring, nil
}

// StrokeColor is the configured contour stroke, or the default.
func (c *Config) StrokeColor() dynamo.Color {
	if col, err := dynamo.ParseColor(c.Stroke); err == nil {
		return col
	}
	return dynamo.DefaultStroke
}

// Clone returns a copy safe to modify.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
