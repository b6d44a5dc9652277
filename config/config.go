// Package config loads export settings and batch jobs from YAML.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/export"
	"github.com/voxelsplace/voxexport/obj"
	"github.com/voxelsplace/voxexport/palette"
	"github.com/voxelsplace/voxexport/voxel"
)

// Environment variables consulted when the file leaves a value unset.
const (
	EnvConfig   = "VOXEXPORT_CONFIG"
	EnvMode     = "VOXEXPORT_MODE"
	EnvScale    = "VOXEXPORT_SCALE"
	EnvStrategy = "VOXEXPORT_STRATEGY"
)

// Config is the root of the configuration file.
type Config struct {
	Export   ExportConfig   `yaml:"export"`
	Palette  PaletteConfig  `yaml:"palette"`
	Voxelize VoxelizeConfig `yaml:"voxelize"`
	Batch    BatchConfig    `yaml:"batch"`
}

type ExportConfig struct {
	Mode string `yaml:"mode"`
	// Merge defaults to true.
	Merge                  *bool   `yaml:"merge"`
	Scale                  float32 `yaml:"scale"`
	Solidify               bool    `yaml:"solidify"`
	ConnectorHalfThickness float32 `yaml:"connector_half_thickness"`
	// TextureRoot is the directory textured OBJ exports load <texture>.png
	// from.
	TextureRoot string `yaml:"texture_root"`
}

type PaletteConfig struct {
	Strategy string `yaml:"strategy"`
}

type VoxelizeConfig struct {
	// Scale is voxels per mesh unit.
	Scale float64 `yaml:"scale"`
	Fill  bool    `yaml:"fill"`
	// Color is the "#rrggbb" used for triangles with no color of their own.
	Color string `yaml:"color"`
}

type BatchConfig struct {
	Concurrency int         `yaml:"concurrency"`
	Jobs        []JobConfig `yaml:"jobs"`
}

// JobConfig exports a region of a snapshot file. Without Min and Max the
// whole snapshot is exported.
type JobConfig struct {
	Input  string  `yaml:"input"`
	Output string  `yaml:"output"`
	Mode   string  `yaml:"mode"`
	Min    *[3]int `yaml:"min"`
	Max    *[3]int `yaml:"max"`
}

// Default returns the built-in configuration, with environment fallbacks
// applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML configuration file. An empty path falls back to
// VOXEXPORT_CONFIG and then to Default. Values left unset in the file are
// taken from the environment, then from the built-in defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
		if path == "" {
			cfg := Default()
			return cfg, cfg.Validate()
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO("read", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errs.Config("file", "%s: %v", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Export.Mode = stringWithEnvFallback(c.Export.Mode, EnvMode, "stl")
	c.Export.Scale = float32(floatWithEnvFallback(float64(c.Export.Scale), EnvScale, 1))
	c.Palette.Strategy = stringWithEnvFallback(c.Palette.Strategy, EnvStrategy, palette.Balanced.String())
	if c.Export.Merge == nil {
		merge := true
		c.Export.Merge = &merge
	}
	if c.Voxelize.Scale == 0 {
		c.Voxelize.Scale = 1
	}
	if c.Voxelize.Color == "" {
		c.Voxelize.Color = "#ffffff"
	}
}

// stringWithEnvFallback resolves a value in the order config -> env ->
// default.
func stringWithEnvFallback(value, envVar, def string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envVar); env != "" {
		return env
	}
	return def
}

func floatWithEnvFallback(value float64, envVar string, def float64) float64 {
	if value != 0 {
		return value
	}
	if env := os.Getenv(envVar); env != "" {
		if f, err := strconv.ParseFloat(env, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

// Validate reports the first invalid value as a configuration error.
func (c *Config) Validate() error {
	if _, err := export.ParseMode(c.Export.Mode); err != nil {
		return err
	}
	if c.Export.Scale <= 0 {
		return errs.Config("export.scale", "must be positive, got %v", c.Export.Scale)
	}
	if t := c.Export.ConnectorHalfThickness; t < 0 || t >= 0.5 {
		return errs.Config("export.connector_half_thickness", "must be in [0, 0.5), got %v", t)
	}
	if _, err := palette.ParseStrategy(c.Palette.Strategy); err != nil {
		return err
	}
	if c.Voxelize.Scale <= 0 {
		return errs.Config("voxelize.scale", "must be positive, got %v", c.Voxelize.Scale)
	}
	if _, _, err := palette.ParseHex(c.Voxelize.Color); err != nil {
		return errs.Config("voxelize.color", "%v", err)
	}
	if c.Batch.Concurrency < 0 {
		return errs.Config("batch.concurrency", "must not be negative, got %d", c.Batch.Concurrency)
	}
	for i, j := range c.Batch.Jobs {
		if j.Input == "" || j.Output == "" {
			return errs.Config("batch.jobs", "job %d needs input and output", i)
		}
		if j.Mode != "" {
			if _, err := export.ParseMode(j.Mode); err != nil {
				return err
			}
		}
		if (j.Min == nil) != (j.Max == nil) {
			return errs.Config("batch.jobs", "job %d sets only one of min and max", i)
		}
	}
	return nil
}

// ExportOptions converts the export section. It assumes a validated
// config.
func (c *Config) ExportOptions() export.Options {
	mode, _ := export.ParseMode(c.Export.Mode)
	opts := export.Options{
		Mode:                   mode,
		Merge:                  c.Export.Merge == nil || *c.Export.Merge,
		Scale:                  c.Export.Scale,
		Solidify:               c.Export.Solidify,
		ConnectorHalfThickness: c.Export.ConnectorHalfThickness,
	}
	if c.Export.TextureRoot != "" {
		opts.Textures = obj.DirTextures{Root: c.Export.TextureRoot}
	}
	return opts
}

// Quantizer builds the configured quantizer over the default palette.
func (c *Config) Quantizer() (*palette.Quantizer, error) {
	strategy, err := palette.ParseStrategy(c.Palette.Strategy)
	if err != nil {
		return nil, err
	}
	reg, err := palette.Default()
	if err != nil {
		return nil, err
	}
	return palette.NewQuantizer(reg, strategy)
}

// VoxelizeOptions converts the voxelize section.
func (c *Config) VoxelizeOptions() voxel.VoxelizeOptions {
	col, _, err := palette.ParseHex(c.Voxelize.Color)
	if err != nil {
		col = palette.White
	}
	return voxel.VoxelizeOptions{Scale: c.Voxelize.Scale, Fill: c.Voxelize.Fill, Color: col}
}

// Region returns the job's cuboid, or ok false when it exports the whole
// input.
func (j JobConfig) Region() (c voxel.Cuboid, ok bool) {
	if j.Min == nil || j.Max == nil {
		return voxel.Cuboid{}, false
	}
	return voxel.NewCuboid(
		voxel.Pos{X: j.Min[0], Y: j.Min[1], Z: j.Min[2]},
		voxel.Pos{X: j.Max[0], Y: j.Max[1], Z: j.Max[2]},
	), true
}
