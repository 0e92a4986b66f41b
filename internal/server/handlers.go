package server

import (
	"encoding/json"
	"errors"
	"image/color"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"wildfire-ca/internal/config"
	"wildfire-ca/internal/experiment"
	"wildfire-ca/internal/sims/wildfire"
	"wildfire-ca/internal/terrain"
)

var badRequest = []error{
	wildfire.ErrInvalidDimension,
	wildfire.ErrOutOfBounds,
	wildfire.ErrInvalidMaxBurn,
	experiment.ErrDegenerateSweep,
	experiment.ErrUnknownTarget,
	terrain.ErrUnknownLayer,
	errBadQuery,
}

var errBadQuery = errors.New("bad query parameter")

func statusFor(err error) int {
	if errors.Is(err, experiment.ErrUnknownPreset) {
		return http.StatusNotFound
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Println("api:", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("encode:", err)
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Join(errBadQuery, err)
	}
	return v, nil
}

func queryLayers(r *http.Request) []string {
	raw := r.URL.Query().Get("layers")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

type gridResponse struct {
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Grid   [][]wildfire.Cell `json:"grid"`
}

// serveGrid returns the classified terrain for ?width=&height=&layers=.
func (s *Server) serveGrid(w http.ResponseWriter, r *http.Request) {
	width, err := queryInt(r, "width", s.sim.Width)
	if err != nil {
		writeError(w, err)
		return
	}
	height, err := queryInt(r, "height", s.sim.Height)
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := s.terrainFor(width, height, queryLayers(r), s.sim.Seed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gridResponse{Width: g.W, Height: g.H, Grid: g.Rows()})
}

func (s *Server) servePalette(w http.ResponseWriter, _ *http.Request) {
	palette := wildfire.Palette()
	out := make([][4]uint8, len(palette))
	for i, c := range palette {
		out[i] = rgba(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func rgba(c color.RGBA) [4]uint8 { return [4]uint8{c.R, c.G, c.B, c.A} }

// serveSimulate runs an ad-hoc sweep described by the request body.
func (s *Server) serveSimulate(w http.ResponseWriter, r *http.Request) {
	var req config.Experiment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Join(errBadQuery, err))
		return
	}
	if req.Name == "" {
		req.Name = "adhoc"
	}
	preset, err := req.Preset()
	if err != nil {
		writeError(w, err)
		return
	}
	s.runPreset(w, r, preset)
}

func (s *Server) serveExperimentNames(w http.ResponseWriter, _ *http.Request) {
	names := experiment.PresetNames()
	for _, e := range s.file.Experiments {
		names = append(names, e.Name)
	}
	writeJSON(w, http.StatusOK, names)
}

// serveExperiment runs one page of a named sweep. ?start= resumes from a
// previous page's nextExp; ?width= and ?height= shrink the terrain.
func (s *Server) serveExperiment(w http.ResponseWriter, r *http.Request) {
	preset, err := s.file.Experiment(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, err)
		return
	}
	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, errors.Join(errBadQuery, err))
			return
		}
		preset.Config.Start = start
	}
	if preset.Width, err = queryInt(r, "width", preset.Width); err != nil {
		writeError(w, err)
		return
	}
	if preset.Height, err = queryInt(r, "height", preset.Height); err != nil {
		writeError(w, err)
		return
	}
	s.runPreset(w, r, preset)
}

func (s *Server) runPreset(w http.ResponseWriter, r *http.Request, preset experiment.Preset) {
	base, err := s.terrainFor(preset.Width, preset.Height, preset.Layers, s.sim.Seed)
	if err != nil {
		writeError(w, err)
		return
	}
	if preset.Config.Workers <= 0 {
		preset.Config.Workers = s.file.Server.Workers
	}
	res, err := experiment.Sweep(r.Context(), base, preset.Config)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
