package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"wildfire-ca/internal/sims/wildfire"
)

const sample = `kind: wildfire
def:
  server:
    addr: ":9090"
    step_interval: 20ms
    max_cells: 250000
  maps:
    dir: /srv/maps
    thickness: 2
  sim:
    width: 64
    height: 48
    options:
      wind_speed: 3
      wind_dir: 90
      veg_weights:
        Forest: 0.6
  experiments:
    - name: forest-weight
      variable: vegWeights.Forest
      start: 0
      step: 0.2
      max: 1
      nb_iters: 3
      label_format: "w=%s"
      maps: []
      fire_pos: [5, 6]
      width: 50
      height: 40
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wildfire.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestFromYaml(t *testing.T) {
	Convey("Given a configuration file", t, func() {
		file, err := FromYaml(writeConfig(t, sample))
		So(err, ShouldBeNil)

		Convey("Server and map settings are decoded", func() {
			So(file.Server.Addr, ShouldEqual, ":9090")
			d, err := file.Server.Interval()
			So(err, ShouldBeNil)
			So(d.Milliseconds(), ShouldEqual, 20)
			So(file.Maps.Dir, ShouldEqual, "/srv/maps")
			So(file.Maps.Thickness, ShouldEqual, 2)
			So(file.Server.CellLimit(), ShouldEqual, 250000)
			So(Server{}.CellLimit(), ShouldEqual, DefaultMaxCells)
		})

		Convey("Sim options override the defaults", func() {
			cfg, err := file.Sim.WorldConfig()
			So(err, ShouldBeNil)
			So(cfg.Width, ShouldEqual, 64)
			So(cfg.Height, ShouldEqual, 48)
			So(cfg.Seed, ShouldEqual, wildfire.DefaultConfig().Seed)
			So(cfg.Params.WindSpeed, ShouldEqual, 3)
			So(cfg.Params.WindDir, ShouldAlmostEqual, wildfire.DegToRad(90))
			So(cfg.Params.VegWeights[wildfire.VegetationForest], ShouldEqual, 0.6)
			So(cfg.Params.BaseProb, ShouldEqual, wildfire.DefaultBaseProb)
		})

		Convey("Configured experiments become presets", func() {
			p, err := file.Experiment("forest-weight")
			So(err, ShouldBeNil)
			So(p.Config.Target.Name(), ShouldEqual, "vegWeights.Forest")
			So(p.Config.HasMax, ShouldBeTrue)
			So(p.Config.Max, ShouldEqual, 1)
			So(p.Config.Iterations, ShouldEqual, 3)
			So(p.Config.LabelFormat, ShouldEqual, "w=%s")
			So(p.Config.HasIgnition, ShouldBeTrue)
			So(p.Config.Ignition, ShouldResemble, wildfire.Coord{Row: 5, Col: 6})
			So(p.Layers, ShouldBeEmpty)
			So(p.Width, ShouldEqual, 50)
		})

		Convey("Built-in presets remain reachable", func() {
			p, err := file.Experiment("exp3")
			So(err, ShouldBeNil)
			So(p.Config.Target.Name(), ShouldEqual, "windDir")
			So(p.Layers, ShouldContain, "density")
		})
	})

	Convey("Invalid files are rejected", t, func() {
		_, err := FromYaml(filepath.Join(t.TempDir(), "missing.yaml"))
		So(err, ShouldNotBeNil)

		_, err = FromYaml(writeConfig(t, "kind: lava\ndef:\n  sim:\n    width: 3\n"))
		So(err, ShouldNotBeNil)
	})
}

func TestSimOptionsApply(t *testing.T) {
	Convey("Apply validates what it writes", t, func() {
		p := wildfire.DefaultParams()
		zero := 0
		So(SimOptions{MaxBurn: &zero}.Apply(&p), ShouldNotBeNil)

		p = wildfire.DefaultParams()
		So(SimOptions{VegWeights: map[string]float64{"tundra": 1}}.Apply(&p), ShouldNotBeNil)

		p = wildfire.DefaultParams()
		speed := 5.0
		So(SimOptions{WindSpeed: &speed}.Apply(&p), ShouldBeNil)
		So(p.WindSpeed, ShouldEqual, 5)
	})

	Convey("Vegetation weights override only the named classes", t, func() {
		p := wildfire.DefaultParams()
		So(SimOptions{VegWeights: map[string]float64{"shrubland": 0.9, "Waterline": -0.2}}.Apply(&p), ShouldBeNil)
		So(p.VegWeights[wildfire.VegetationShrubland], ShouldEqual, 0.9)
		So(p.VegWeights[wildfire.VegetationWaterline], ShouldEqual, -0.2)
		So(p.VegWeights[wildfire.VegetationForest], ShouldEqual, wildfire.DefaultVegetationWeights[wildfire.VegetationForest])
	})

	Convey("Experiments with a malformed fire position fail", t, func() {
		_, err := Experiment{Name: "x", Variable: "windSpeed", FirePos: []int{1}}.Preset()
		So(err, ShouldNotBeNil)
		_, err = Experiment{Name: "x", Variable: "humidity"}.Preset()
		So(err, ShouldNotBeNil)
	})
}
