// Package config loads the YAML configuration shared by the server and the
// command line tools.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"wildfire-ca/internal/experiment"
	"wildfire-ca/internal/sims/wildfire"
)

// Kind is the only document kind this package accepts.
const Kind = "wildfire"

type outerConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// File is a decoded configuration file. Keys are snake_case because viper
// folds case.
type File struct {
	Server      Server       `yaml:"server"`
	Maps        Maps         `yaml:"maps"`
	Sim         Sim          `yaml:"sim"`
	Experiments []Experiment `yaml:"experiments"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `yaml:"addr"`
	// StepInterval paces the websocket stream, in time.ParseDuration form.
	StepInterval string `yaml:"step_interval"`
	Workers      int    `yaml:"workers"`
	// MaxCells caps width*height of any terrain a request asks for. Zero
	// means DefaultMaxCells.
	MaxCells int `yaml:"max_cells"`
}

// DefaultMaxCells admits the 800x800 experiment terrains with room to spare.
const DefaultMaxCells = 4_000_000

// Maps locates the raster layers.
type Maps struct {
	Dir       string `yaml:"dir"`
	Thickness int    `yaml:"thickness"`
}

// Sim holds the defaults for interactive and streamed runs.
type Sim struct {
	Width   int        `yaml:"width"`
	Height  int        `yaml:"height"`
	Seed    int64      `yaml:"seed"`
	Options SimOptions `yaml:"options"`
}

// SimOptions overrides run parameters. Unset fields keep their defaults;
// wind_dir is in degrees.
type SimOptions struct {
	BaseProb   *float64           `json:"baseProb,omitempty" yaml:"base_prob,omitempty"`
	C1         *float64           `json:"c1,omitempty" yaml:"c1,omitempty"`
	C2         *float64           `json:"c2,omitempty" yaml:"c2,omitempty"`
	WindSpeed  *float64           `json:"windSpeed,omitempty" yaml:"wind_speed,omitempty"`
	WindDir    *float64           `json:"windDir,omitempty" yaml:"wind_dir,omitempty"`
	MaxBurn    *int               `json:"maxBurn,omitempty" yaml:"max_burn,omitempty"`
	VegWeights map[string]float64 `json:"vegWeights,omitempty" yaml:"veg_weights,omitempty"`
}

// Experiment describes a sweep in the configuration file.
type Experiment struct {
	Name        string     `json:"name" yaml:"name"`
	Variable    string     `json:"variable" yaml:"variable"`
	Start       float64    `json:"start" yaml:"start"`
	Step        float64    `json:"step" yaml:"step"`
	Max         *float64   `json:"max,omitempty" yaml:"max,omitempty"`
	NbIters     int        `json:"nbIters" yaml:"nb_iters"`
	LabelFormat string     `json:"labelFormat" yaml:"label_format"`
	Maps        []string   `json:"maps" yaml:"maps"`
	UseDensity  bool       `json:"useDensity" yaml:"use_density"`
	FirePos     []int      `json:"firePos" yaml:"fire_pos"`
	Width       int        `json:"width" yaml:"width"`
	Height      int        `json:"height" yaml:"height"`
	Workers     int        `json:"workers" yaml:"workers"`
	Seed        int64      `json:"seed" yaml:"seed"`
	Options     SimOptions `json:"simOptions" yaml:"options"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	return &File{
		Server: Server{Addr: ":8080", StepInterval: "50ms", MaxCells: DefaultMaxCells},
		Maps:   Maps{Dir: "maps", Thickness: 1},
		Sim:    Sim{Width: 200, Height: 200, Seed: 1337},
	}
}

// FromYaml reads path with viper and decodes the def section over Default.
func FromYaml(path string) (*File, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	outer := &outerConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if outer.Kind != "" && outer.Kind != Kind {
		return nil, fmt.Errorf("config: unsupported kind %q", outer.Kind)
	}

	raw, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	file := Default()
	if err := yaml.Unmarshal(raw, file); err != nil {
		return nil, fmt.Errorf("config: decode def: %w", err)
	}
	return file, nil
}

// CellLimit returns MaxCells, or DefaultMaxCells when it is unset.
func (s Server) CellLimit() int {
	if s.MaxCells <= 0 {
		return DefaultMaxCells
	}
	return s.MaxCells
}

// Interval parses StepInterval, treating an empty value as no pacing.
func (s Server) Interval() (time.Duration, error) {
	if s.StepInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(s.StepInterval)
}

// Apply writes every set option into p.
func (o SimOptions) Apply(p *wildfire.Params) error {
	if o.BaseProb != nil {
		p.BaseProb = *o.BaseProb
	}
	if o.C1 != nil {
		p.C1 = *o.C1
	}
	if o.C2 != nil {
		p.C2 = *o.C2
	}
	if o.WindSpeed != nil {
		p.WindSpeed = *o.WindSpeed
	}
	if o.WindDir != nil {
		p.WindDir = wildfire.DegToRad(*o.WindDir)
	}
	if o.MaxBurn != nil {
		p.MaxBurn = *o.MaxBurn
	}
	for name, w := range o.VegWeights {
		v, ok := wildfire.ParseVegetation(name)
		if !ok {
			return fmt.Errorf("config: unknown vegetation %q", name)
		}
		p.VegWeights[v] = w
	}
	return p.Validate()
}

// Params returns the default run parameters with the sim options applied.
func (s Sim) Params() (wildfire.Params, error) {
	p := wildfire.DefaultParams()
	err := s.Options.Apply(&p)
	return p, err
}

// WorldConfig converts the sim section into a wildfire world configuration.
func (s Sim) WorldConfig() (wildfire.Config, error) {
	cfg := wildfire.DefaultConfig()
	if s.Width > 0 {
		cfg.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Height = s.Height
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	p, err := s.Params()
	if err != nil {
		return cfg, err
	}
	cfg.Params = p
	return cfg, nil
}

// Preset converts a configured experiment into a runnable preset.
func (e Experiment) Preset() (experiment.Preset, error) {
	target, err := experiment.ParseTarget(e.Variable)
	if err != nil {
		return experiment.Preset{}, err
	}
	params := wildfire.DefaultParams()
	if err := e.Options.Apply(&params); err != nil {
		return experiment.Preset{}, err
	}

	p := experiment.Preset{
		Name:   e.Name,
		Width:  800,
		Height: 800,
		Config: experiment.Config{
			Target:      target,
			Start:       e.Start,
			Step:        e.Step,
			Iterations:  e.NbIters,
			LabelFormat: e.LabelFormat,
			Params:      params,
			Seed:        e.Seed,
			Workers:     e.Workers,
		},
	}
	if e.Width > 0 {
		p.Width = e.Width
	}
	if e.Height > 0 {
		p.Height = e.Height
	}
	if e.Max != nil {
		p.Config.Max, p.Config.HasMax = *e.Max, true
	}
	switch len(e.FirePos) {
	case 0:
	case 2:
		p.Config.Ignition = wildfire.Coord{Row: e.FirePos[0], Col: e.FirePos[1]}
		p.Config.HasIgnition = true
	default:
		return experiment.Preset{}, fmt.Errorf("config: experiment %s: fire_pos needs [row, col]", e.Name)
	}

	if e.Maps == nil {
		p.Layers = append([]string{}, experiment.DefaultLayers...)
	} else {
		p.Layers = append([]string{}, e.Maps...)
	}
	if e.UseDensity {
		p.Layers = append(p.Layers, "density")
	}
	return p, nil
}

// Experiment finds a sweep by name, preferring the file's own definitions
// over the built-in presets.
func (f *File) Experiment(name string) (experiment.Preset, error) {
	for _, e := range f.Experiments {
		if e.Name == name {
			return e.Preset()
		}
	}
	return experiment.LookupPreset(name)
}
