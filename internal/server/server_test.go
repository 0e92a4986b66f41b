package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"wildfire-ca/internal/config"
	"wildfire-ca/internal/experiment"
	"wildfire-ca/internal/sims/wildfire"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	file := config.Default()
	file.Server.StepInterval = ""
	file.Server.MaxCells = 10_000
	file.Sim.Width, file.Sim.Height = 12, 10
	file.Maps.Dir = t.TempDir()
	s, err := New(file)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newTestServer(t).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(url string) (*http.Response, error) { return http.Get(url) }

func TestGridAndPalette(t *testing.T) {
	Convey("Given a server without map files", t, func() {
		srv := testServer(t)

		Convey("The default grid is a uniform forest", func() {
			resp, err := get(srv.URL + "/api/grid")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body gridResponse
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body.Width, ShouldEqual, 12)
			So(body.Height, ShouldEqual, 10)
			So(len(body.Grid), ShouldEqual, 10)
			So(body.Grid[3][4].Vegetation, ShouldEqual, wildfire.VegetationForest)
		})

		Convey("Procedural terrain can be requested", func() {
			resp, err := get(srv.URL + "/api/grid?width=8&height=6&layers=perlin")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("Bad dimensions and layers are client errors", func() {
			resp, err := get(srv.URL + "/api/grid?width=0")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			resp, err = get(srv.URL + "/api/grid?width=abc")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			resp, err = get(srv.URL + "/api/grid?layers=lava")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("The palette matches the encoder", func() {
			resp, err := get(srv.URL + "/api/palette")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			var palette [][4]uint8
			So(json.NewDecoder(resp.Body).Decode(&palette), ShouldBeNil)
			So(len(palette), ShouldEqual, len(wildfire.Palette()))
		})
	})
}

func TestSimulate(t *testing.T) {
	Convey("Given a server", t, func() {
		srv := testServer(t)
		post := func(body string) *http.Response {
			resp, err := http.Post(srv.URL+"/api/simulate", "application/json", bytes.NewBufferString(body))
			So(err, ShouldBeNil)
			return resp
		}

		Convey("An ad-hoc sweep returns one run per value", func() {
			resp := post(`{"variable":"windSpeed","start":0,"step":2,"nbIters":3,"labelFormat":"%s m/s","maps":[],"width":10,"height":10}`)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var res experiment.Results
			So(json.NewDecoder(resp.Body).Decode(&res), ShouldBeNil)
			So(res.Labels, ShouldResemble, []string{"0 m/s", "2 m/s", "4 m/s"})
			So(len(res.Runs), ShouldEqual, 3)
			So(*res.Next, ShouldEqual, 6)
		})

		Convey("Degenerate sweeps and unknown variables are rejected", func() {
			resp := post(`{"variable":"windDir","step":0,"max":360,"maps":[],"width":5,"height":5}`)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			resp = post(`{"variable":"humidity","step":1,"maps":[],"width":5,"height":5}`)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			resp = post(`{"variable":`)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Named experiments page through their range", func() {
			resp, err := get(srv.URL + "/api/experiments/exp2?start=340&width=8&height=8")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var res experiment.Results
			So(json.NewDecoder(resp.Body).Decode(&res), ShouldBeNil)
			So(res.Labels, ShouldResemble, []string{"340°", "350°"})
			So(res.Next, ShouldBeNil)
		})

		Convey("Unknown experiments are not found", func() {
			resp, err := get(srv.URL + "/api/experiments/exp9")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStream(t *testing.T) {
	Convey("Given a streamed run on a small grid", t, func() {
		srv := testServer(t)
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream?w=5&h=5&base_prob=1&veg_weight.Forest=0"

		ws, _, err := websocket.DefaultDialer.Dial(url, nil)
		So(err, ShouldBeNil)
		defer ws.Close()

		var frames []Frame
		for {
			var f Frame
			if err := ws.ReadJSON(&f); err != nil {
				break
			}
			frames = append(frames, f)
			if f.Done {
				break
			}
		}

		Convey("Frames run from ignition to burn-out", func() {
			So(len(frames), ShouldBeGreaterThanOrEqualTo, 2)
			first, last := frames[0], frames[len(frames)-1]
			So(first.Step, ShouldEqual, 0)
			So(first.FrontSize, ShouldEqual, 1)
			So(len(first.Cells), ShouldEqual, 25)
			So(last.Done, ShouldBeTrue)
			So(last.FrontSize, ShouldEqual, 0)
			for i := 1; i < len(frames)-1; i++ {
				So(frames[i].Step, ShouldEqual, i)
			}
		})
	})

	Convey("An ignition point off the grid is refused before upgrading", t, func() {
		srv := testServer(t)
		resp, err := get(srv.URL + "/api/stream?w=5&h=5&ignite_row=9&ignite_col=9")
		So(err, ShouldBeNil)
		resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
	})
}

func TestTerrainLimits(t *testing.T) {
	Convey("Given a server capped at 10000 cells", t, func() {
		s := newTestServer(t)
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()
		status := func(path string) int {
			resp, err := get(srv.URL + path)
			So(err, ShouldBeNil)
			resp.Body.Close()
			return resp.StatusCode
		}

		Convey("Oversized terrain is refused before it is built", func() {
			So(status("/api/grid?width=100000&height=100000"), ShouldEqual, http.StatusBadRequest)
			So(status("/api/grid?width=101&height=100"), ShouldEqual, http.StatusBadRequest)
			So(status("/api/grid?width=100&height=100"), ShouldEqual, http.StatusOK)
			So(status("/api/stream?w=100000&h=100000"), ShouldEqual, http.StatusBadRequest)
			So(status("/api/experiments/exp2"), ShouldEqual, http.StatusBadRequest)

			_, err := s.terrainFor(1<<20, 1<<20, nil, 1)
			So(errors.Is(err, wildfire.ErrInvalidDimension), ShouldBeTrue)
		})

		Convey("The terrain cache stays bounded", func() {
			for i := 1; i <= maxCachedTerrains+5; i++ {
				_, err := s.terrainFor(i, 3, nil, 1)
				So(err, ShouldBeNil)
			}
			So(len(s.cache), ShouldEqual, maxCachedTerrains)
			So(len(s.order), ShouldEqual, maxCachedTerrains)
			_, stillCached := s.cache["1x3//1"]
			So(stillCached, ShouldBeFalse)
		})

		Convey("Concurrent requests for one terrain share a grid", func() {
			grids := make([]*wildfire.Grid, 8)
			var wg sync.WaitGroup
			for i := range grids {
				wg.Add(1)
				go func() {
					defer wg.Done()
					grids[i], _ = s.terrainFor(20, 20, []string{ProceduralLayer}, 7)
				}()
			}
			wg.Wait()
			for _, g := range grids {
				So(g, ShouldNotBeNil)
				So(g, ShouldPointTo, grids[0])
			}
		})
	})
}
