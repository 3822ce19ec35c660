// Package config holds the rendering theme and output location settings.
// Values are read once at startup and never mutated afterwards.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in defaults, used when no override file is given.
const (
	DefaultBackground = "#222222"
	DefaultForeground = "#dddddd"
	DefaultFontName   = "Arial"
	DefaultFontSize   = 12
	DefaultOutputRoot = "graphs"
)

// Config carries the theme and output settings. Fields left empty in an
// override file keep their defaults.
type Config struct {
	// Background is the graph background color.
	Background string `yaml:"background"`

	// Foreground is the color used for node borders, edges, and text.
	Foreground string `yaml:"foreground"`

	// FontName is the font family for all graph text.
	FontName string `yaml:"font"`

	// FontSize is the font size in points.
	FontSize int `yaml:"font_size"`

	// OutputRoot is the directory all artifacts are written under.
	OutputRoot string `yaml:"output_root"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Background: DefaultBackground,
		Foreground: DefaultForeground,
		FontName:   DefaultFontName,
		FontSize:   DefaultFontSize,
		OutputRoot: DefaultOutputRoot,
	}
}

// Load reads a YAML override file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = DefaultFontSize
	}
	if cfg.Background == "" {
		cfg.Background = DefaultBackground
	}
	if cfg.Foreground == "" {
		cfg.Foreground = DefaultForeground
	}
	if cfg.FontName == "" {
		cfg.FontName = DefaultFontName
	}
	if cfg.OutputRoot == "" {
		cfg.OutputRoot = DefaultOutputRoot
	}
	return cfg, nil
}
