// Package config handles configuration management using Viper
package config

import (
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/yarrbar/internal/panel"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Panel placement and rendering
	Panel PanelConfig `mapstructure:"panel"`

	// UI layer settings
	UI UIConfig `mapstructure:"ui"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// PanelConfig contains the layer-surface request issued once at creation
type PanelConfig struct {
	Namespace             string  `mapstructure:"namespace"`
	Layer                 string  `mapstructure:"layer"`  // background, bottom, top, overlay
	Anchor                string  `mapstructure:"anchor"` // top, bottom
	Width                 int     `mapstructure:"width"`  // 0 stretches across the output
	Height                int     `mapstructure:"height"`
	ExclusiveZone         int     `mapstructure:"exclusive_zone"`
	Margin                int     `mapstructure:"margin"`
	KeyboardInteractivity string  `mapstructure:"keyboard_interactivity"` // none, exclusive, on_demand
	FallbackWidth         int     `mapstructure:"fallback_width"`
	FallbackHeight        int     `mapstructure:"fallback_height"`
	Scale                 float64 `mapstructure:"scale"`
	Background            string  `mapstructure:"background"`
	CancelKey             string  `mapstructure:"cancel_key"`
}

// UIConfig contains settings for the painter
type UIConfig struct {
	Renderer    string `mapstructure:"renderer"` // auto, gpu, software
	Title       string `mapstructure:"title"`
	ClockFormat string `mapstructure:"clock_format"`
	Foreground  string `mapstructure:"foreground"`
	Accent      string `mapstructure:"accent"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Panel: PanelConfig{
			Namespace:             "yarrbar",
			Layer:                 "top",
			Anchor:                "top",
			Width:                 0,
			Height:                40,
			ExclusiveZone:         40,
			Margin:                0,
			KeyboardInteractivity: "on_demand",
			FallbackWidth:         256,
			FallbackHeight:        256,
			Scale:                 1.0,
			Background:            "#ffffff",
			CancelKey:             "Escape",
		},
		UI: UIConfig{
			Renderer:    "auto",
			Title:       "yarrbar",
			ClockFormat: "15:04:05",
			Foreground:  "#1e1e2e",
			Accent:      "#89b4fa",
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

var (
	layers       = []string{"background", "bottom", "top", "overlay"}
	anchors      = []string{"top", "bottom"}
	interactions = []string{"none", "exclusive", "on_demand"}
	renderers    = []string{"auto", "gpu", "software"}
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("yarrbar")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		for _, dir := range searchPaths() {
			viper.AddConfigPath(dir)
		}
	}

	// Set defaults - need to set individual fields for proper merging
	d := DefaultConfig
	viper.SetDefault("panel.namespace", d.Panel.Namespace)
	viper.SetDefault("panel.layer", d.Panel.Layer)
	viper.SetDefault("panel.anchor", d.Panel.Anchor)
	viper.SetDefault("panel.width", d.Panel.Width)
	viper.SetDefault("panel.height", d.Panel.Height)
	viper.SetDefault("panel.exclusive_zone", d.Panel.ExclusiveZone)
	viper.SetDefault("panel.margin", d.Panel.Margin)
	viper.SetDefault("panel.keyboard_interactivity", d.Panel.KeyboardInteractivity)
	viper.SetDefault("panel.fallback_width", d.Panel.FallbackWidth)
	viper.SetDefault("panel.fallback_height", d.Panel.FallbackHeight)
	viper.SetDefault("panel.scale", d.Panel.Scale)
	viper.SetDefault("panel.background", d.Panel.Background)
	viper.SetDefault("panel.cancel_key", d.Panel.CancelKey)

	viper.SetDefault("ui.renderer", d.UI.Renderer)
	viper.SetDefault("ui.title", d.UI.Title)
	viper.SetDefault("ui.clock_format", d.UI.ClockFormat)
	viper.SetDefault("ui.foreground", d.UI.Foreground)
	viper.SetDefault("ui.accent", d.UI.Accent)

	viper.SetDefault("logging.log_level", d.Logging.LogLevel)

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cfg = c
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// GetConfigPath returns the path of the config file in use, or the
// preferred location when none was found.
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}

	paths := searchPaths()
	return filepath.Join(paths[0], "yarrbar.toml")
}

func searchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "yarrbar"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", "yarrbar"))
	}
	return append(paths, ".")
}

// Validate checks enumerations, sizes and colors.
func (c *Config) Validate() error {
	p := c.Panel
	if !oneOf(p.Layer, layers) {
		return fmt.Errorf("panel.layer %q: must be one of %s", p.Layer, strings.Join(layers, ", "))
	}
	if !oneOf(p.Anchor, anchors) {
		return fmt.Errorf("panel.anchor %q: must be one of %s", p.Anchor, strings.Join(anchors, ", "))
	}
	if !oneOf(p.KeyboardInteractivity, interactions) {
		return fmt.Errorf("panel.keyboard_interactivity %q: must be one of %s", p.KeyboardInteractivity, strings.Join(interactions, ", "))
	}
	if p.Width < 0 || p.Height < 0 || p.Margin < 0 {
		return fmt.Errorf("panel size and margin must not be negative")
	}
	// Only one vertical edge is anchored, so the compositor cannot stretch
	// the panel vertically.
	if p.Height == 0 {
		return fmt.Errorf("panel.height must be positive")
	}
	if p.FallbackWidth <= 0 || p.FallbackHeight <= 0 {
		return fmt.Errorf("panel fallback size must be positive, got %dx%d", p.FallbackWidth, p.FallbackHeight)
	}
	if p.Scale <= 0 {
		return fmt.Errorf("panel.scale must be positive, got %g", p.Scale)
	}
	if _, ok := panel.LookupKey(p.CancelKey); !ok {
		return fmt.Errorf("panel.cancel_key %q: unknown key", p.CancelKey)
	}
	if !oneOf(c.UI.Renderer, renderers) {
		return fmt.Errorf("ui.renderer %q: must be one of %s", c.UI.Renderer, strings.Join(renderers, ", "))
	}
	for name, v := range map[string]string{
		"panel.background": p.Background,
		"ui.foreground":    c.UI.Foreground,
		"ui.accent":        c.UI.Accent,
	} {
		if _, err := ParseColor(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// ParseColor parses #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// Placement converts the panel section into the request the surface
// negotiator issues at creation.
func (p PanelConfig) Placement() panel.Placement {
	pl := panel.Placement{
		Namespace:     p.Namespace,
		Layer:         panel.ParseLayer(p.Layer),
		Width:         uint32(p.Width),
		Height:        uint32(p.Height),
		ExclusiveZone: int32(p.ExclusiveZone),
		Margin:        int32(p.Margin),
		Keyboard:      panel.ParseInteractivity(p.KeyboardInteractivity),
	}
	pl.Anchor = panel.AnchorLeft | panel.AnchorRight
	if p.Anchor == "bottom" {
		pl.Anchor |= panel.AnchorBottom
	} else {
		pl.Anchor |= panel.AnchorTop
	}
	if p.Width > 0 {
		// A fixed width cannot stretch between both horizontal edges.
		pl.Anchor &^= panel.AnchorLeft | panel.AnchorRight
	}
	return pl
}

// Fallback returns the size used when a configure leaves a dimension at zero.
func (p PanelConfig) Fallback() image.Point {
	return image.Pt(p.FallbackWidth, p.FallbackHeight)
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
