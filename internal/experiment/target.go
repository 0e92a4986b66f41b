package experiment

import (
	"errors"
	"fmt"
	"strings"

	"wildfire-ca/internal/sims/wildfire"
)

// ErrUnknownTarget is returned when a sweep variable name is not recognised.
var ErrUnknownTarget = errors.New("experiment: unknown sweep target")

// Target is one scalar of the run parameters that a sweep varies. The set of
// targets is closed; use the constructors or ParseTarget.
type Target interface {
	// Name is the variable name used in configuration files.
	Name() string
	// Get reads the target from p, in the unit sweeps are expressed in.
	Get(p wildfire.Params) float64
	// Set writes v into p.
	Set(p *wildfire.Params, v float64)
	// Label is the default label format, with %s standing for the value.
	Label() string

	sealed()
}

type scalarTarget struct {
	name   string
	label  string
	getter func(p wildfire.Params) float64
	setter func(p *wildfire.Params, v float64)
}

func (t scalarTarget) Name() string                      { return t.name }
func (t scalarTarget) Get(p wildfire.Params) float64     { return t.getter(p) }
func (t scalarTarget) Set(p *wildfire.Params, v float64) { t.setter(p, v) }
func (t scalarTarget) Label() string                     { return t.label }
func (scalarTarget) sealed()                             {}

type vegetationWeightTarget struct {
	veg wildfire.Vegetation
}

func (t vegetationWeightTarget) Name() string { return "vegWeights." + t.veg.String() }
func (t vegetationWeightTarget) Get(p wildfire.Params) float64 {
	return p.VegWeights[t.veg]
}
func (t vegetationWeightTarget) Set(p *wildfire.Params, v float64) { p.VegWeights[t.veg] = v }
func (t vegetationWeightTarget) Label() string                     { return t.veg.String() + " weight %s" }
func (vegetationWeightTarget) sealed()                             {}

// WindSpeed sweeps the wind speed in m/s.
func WindSpeed() Target {
	return scalarTarget{
		name:   "windSpeed",
		label:  "%s m/s",
		getter: func(p wildfire.Params) float64 { return p.WindSpeed },
		setter: func(p *wildfire.Params, v float64) { p.WindSpeed = v },
	}
}

// WindDirection sweeps the wind direction. Sweep values are degrees.
func WindDirection() Target {
	return scalarTarget{
		name:   "windDir",
		label:  "%s°",
		getter: func(p wildfire.Params) float64 { return wildfire.RadToDeg(p.WindDir) },
		setter: func(p *wildfire.Params, v float64) { p.WindDir = wildfire.DegToRad(v) },
	}
}

// BaseProbability sweeps the base ignition probability.
func BaseProbability() Target {
	return scalarTarget{
		name:   "baseProb",
		label:  "p=%s",
		getter: func(p wildfire.Params) float64 { return p.BaseProb },
		setter: func(p *wildfire.Params, v float64) { p.BaseProb = v },
	}
}

// WindC1 sweeps the first wind-curve coefficient.
func WindC1() Target {
	return scalarTarget{
		name:   "c1",
		label:  "c1=%s",
		getter: func(p wildfire.Params) float64 { return p.C1 },
		setter: func(p *wildfire.Params, v float64) { p.C1 = v },
	}
}

// WindC2 sweeps the second wind-curve coefficient.
func WindC2() Target {
	return scalarTarget{
		name:   "c2",
		label:  "c2=%s",
		getter: func(p wildfire.Params) float64 { return p.C2 },
		setter: func(p *wildfire.Params, v float64) { p.C2 = v },
	}
}

// VegetationWeight sweeps the spread weight of one vegetation class.
func VegetationWeight(v wildfire.Vegetation) Target {
	return vegetationWeightTarget{veg: v}
}

// ParseTarget resolves a variable name such as "windSpeed" or
// "vegWeights.Forest".
func ParseTarget(name string) (Target, error) {
	if rest, ok := strings.CutPrefix(name, "vegWeights."); ok {
		v, ok := wildfire.ParseVegetation(rest)
		if !ok {
			return nil, fmt.Errorf("%w: vegetation %q", ErrUnknownTarget, rest)
		}
		return VegetationWeight(v), nil
	}
	for _, t := range []Target{WindSpeed(), WindDirection(), BaseProbability(), WindC1(), WindC2()} {
		if strings.EqualFold(t.Name(), name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
}
