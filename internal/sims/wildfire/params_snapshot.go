package wildfire

import (
	"strconv"

	"wildfire-ca/internal/core"
)

// Parameters exposes the current tunables grouped for display.
func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	weights := make([]core.Parameter, 0, NumVegetation)
	for _, v := range Vegetations() {
		weights = append(weights, floatParam("veg_weight."+v.String(), v.String(), params.VegWeights[v], ""))
	}
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name: "Ignition",
			Params: []core.Parameter{
				floatParam("base_prob", "Base probability", params.BaseProb, ""),
				floatParam("c1", "Wind c1", params.C1, ""),
				floatParam("c2", "Wind c2", params.C2, ""),
				intParam("max_burn", "Max burn", params.MaxBurn),
			},
		},
		{
			Name: "Wind",
			Params: []core.Parameter{
				floatParam("wind_speed", "Wind speed", params.WindSpeed, "m/s"),
				floatParam("wind_dir", "Wind direction", RadToDeg(params.WindDir), "°"),
			},
		},
		{Name: "Vegetation weights", Params: weights},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the tunables adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "wind_speed", Label: "Wind speed", Type: core.ParamTypeFloat, Step: 0.5, Min: 0, Max: 30, HasMin: true, HasMax: true},
		{Key: "wind_dir", Label: "Wind dir", Type: core.ParamTypeFloat, Step: 15, Min: 0, Max: 345, HasMin: true, HasMax: true},
		{Key: "base_prob", Label: "Base prob", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "max_burn", Label: "Max burn", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 3, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a float tunable; it takes effect on the next step.
func (w *World) SetFloatParameter(key string, value float64) bool {
	return SetFloatParam(&w.cfg.Params, key, value)
}

// SetIntParameter updates an integer tunable; it takes effect on the next step.
func (w *World) SetIntParameter(key string, value int) bool {
	return SetIntParam(&w.cfg.Params, key, value)
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64, unit string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
		Unit:  unit,
	}
}
