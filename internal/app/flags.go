package app

import (
	"flag"
	"fmt"
	"strings"

	"wildfire-ca/internal/config"
	"wildfire-ca/internal/sims/wildfire"
	"wildfire-ca/internal/terrain"
)

// Config represents the command-line parameters shared by the viewers.
type Config struct {
	ConfigPath string
	Scale      int
	TPS        int
	Seed       int64
	Width      int
	Height     int
	Layers     string
	MapsDir    string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 3, TPS: 30, Layers: terrain.ProceduralLayer}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "path to a wildfire YAML config")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "fire steps per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for terrain and spread (0 keeps the config's)")
	fs.IntVar(&c.Width, "w", c.Width, "grid width (0 keeps the config's)")
	fs.IntVar(&c.Height, "h", c.Height, "grid height (0 keeps the config's)")
	fs.StringVar(&c.Layers, "layers", c.Layers, "comma-separated map layers, \"perlin\" for noise, empty for uniform")
	fs.StringVar(&c.MapsDir, "maps", c.MapsDir, "directory holding <layer>-map.png files (empty keeps the config's)")
}

// File loads the YAML config, or the defaults when no path was given.
func (c *Config) File() (*config.File, error) {
	if c.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.FromYaml(c.ConfigPath)
}

// LayerNames splits the layers flag.
func (c *Config) LayerNames() []string {
	var names []string
	for _, name := range strings.Split(c.Layers, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// World builds the fire world described by the flags layered over the
// config file.
func (c *Config) World() (*wildfire.World, error) {
	file, err := c.File()
	if err != nil {
		return nil, err
	}
	if c.Width > 0 {
		file.Sim.Width = c.Width
	}
	if c.Height > 0 {
		file.Sim.Height = c.Height
	}
	if c.Seed != 0 {
		file.Sim.Seed = c.Seed
	}
	if c.MapsDir != "" {
		file.Maps.Dir = c.MapsDir
	}
	cfg, err := file.Sim.WorldConfig()
	if err != nil {
		return nil, err
	}
	g, err := terrain.Build(cfg.Width, cfg.Height, terrain.Source{
		Dir:        file.Maps.Dir,
		Layers:     c.LayerNames(),
		Thickness:  file.Maps.Thickness,
		Seed:       cfg.Seed,
		Vegetation: cfg.Vegetation,
		Density:    cfg.Density,
	})
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	return wildfire.NewWithGrid(cfg, g), nil
}
