package experiment

import (
	"errors"
	"fmt"
	"sort"

	"wildfire-ca/internal/sims/wildfire"
)

// ErrUnknownPreset is returned by LookupPreset for unregistered names.
var ErrUnknownPreset = errors.New("experiment: unknown preset")

// DefaultLayers are the map layers loaded for a preset that names none.
var DefaultLayers = []string{"vegetation", "roads", "waterlines"}

// Preset is a named sweep together with the terrain it runs on.
type Preset struct {
	Name   string
	Width  int
	Height int
	// Layers lists terrain map layers by name. An empty, non-nil slice means
	// a uniform forest with no maps.
	Layers []string
	Config Config
}

var presets = map[string]Preset{
	"exp1": {
		Name: "exp1", Width: 800, Height: 800,
		Layers: append(append([]string{}, DefaultLayers...), "density"),
		Config: Config{Target: WindSpeed(), Step: 0.5, Iterations: DefaultIterations, LabelFormat: "%s m/s"},
	},
	"exp2": {
		Name: "exp2", Width: 800, Height: 800,
		Layers: []string{},
		Config: Config{Target: WindDirection(), Step: 10, Iterations: DefaultIterations, Max: 360, HasMax: true, LabelFormat: "%s°"},
	},
	"exp3": {
		Name: "exp3", Width: 800, Height: 800,
		Layers: append(append([]string{}, DefaultLayers...), "density"),
		Config: Config{Target: WindDirection(), Step: 10, Iterations: DefaultIterations, Max: 360, HasMax: true, LabelFormat: "%s°"},
	},
}

// LookupPreset returns the named preset with default parameters filled in.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	p.Layers = append([]string(nil), p.Layers...)
	if p.Layers == nil {
		p.Layers = []string{}
	}
	p.Config.Params = wildfire.DefaultParams()
	return p, nil
}

// PresetNames lists the registered presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
