package wildfire

import (
	"strconv"
	"strings"
)

// Config controls the dimensions, terrain defaults, ignition point and run
// parameters of the wildfire sim.
type Config struct {
	Width  int
	Height int

	Seed int64

	Vegetation Vegetation
	Density    Density

	// Ignition overrides the grid centre when HasIgnition is set.
	Ignition    Coord
	HasIgnition bool

	Params Params
}

// DefaultConfig returns a uniform forest with the calibrated run parameters.
func DefaultConfig() Config {
	return Config{
		Width:      200,
		Height:     200,
		Seed:       1337,
		Vegetation: VegetationForest,
		Density:    DensityNormal,
		Params:     DefaultParams(),
	}
}

// IgnitionFor resolves the configured ignition point for g.
func (c Config) IgnitionFor(g *Grid) Coord {
	if c.HasIgnition {
		return c.Ignition
	}
	return Center(g)
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable or out-of-range values leave the default in place.
func FromMap(cfg map[string]string) Config {
	return DefaultConfig().Apply(cfg)
}

// Apply returns a copy of c with the recognised keys of cfg applied.
func (c Config) Apply(cfg map[string]string) Config {
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["vegetation"]; ok {
		if parsed, ok := ParseVegetation(v); ok {
			c.Vegetation = parsed
		}
	}
	if v, ok := cfg["density"]; ok {
		if parsed, ok := ParseDensity(v); ok {
			c.Density = parsed
		}
	}
	row, hasRow := cfg["ignite_row"]
	col, hasCol := cfg["ignite_col"]
	if hasRow && hasCol {
		r, errR := strconv.Atoi(row)
		cl, errC := strconv.Atoi(col)
		if errR == nil && errC == nil && r >= 0 && cl >= 0 {
			c.Ignition = Coord{Row: r, Col: cl}
			c.HasIgnition = true
		}
	}
	for key, v := range cfg {
		if key == "max_burn" {
			if parsed, err := strconv.Atoi(v); err == nil {
				SetIntParam(&c.Params, key, parsed)
			}
			continue
		}
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			SetFloatParam(&c.Params, key, parsed)
		}
	}
	return c
}

// SetFloatParam applies a float tunable by key. wind_dir is given in degrees.
// Vegetation weights use the key veg_weight.<Name>. It reports whether the
// key was recognised and the value accepted.
func SetFloatParam(p *Params, key string, value float64) bool {
	switch key {
	case "base_prob":
		if value < 0 {
			return false
		}
		p.BaseProb = value
	case "c1":
		p.C1 = value
	case "c2":
		p.C2 = value
	case "wind_speed":
		if value < 0 {
			return false
		}
		p.WindSpeed = value
	case "wind_dir":
		p.WindDir = DegToRad(value)
	default:
		name, ok := strings.CutPrefix(key, "veg_weight.")
		if !ok {
			return false
		}
		veg, ok := ParseVegetation(name)
		if !ok {
			return false
		}
		p.VegWeights[veg] = value
	}
	return true
}

// SetIntParam applies an integer tunable by key.
func SetIntParam(p *Params, key string, value int) bool {
	switch key {
	case "max_burn":
		if value < 1 || value > 255 {
			return false
		}
		p.MaxBurn = value
		return true
	}
	return false
}
