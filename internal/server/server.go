// Package server exposes terrain, sweeps and live fire runs over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"wildfire-ca/internal/config"
	"wildfire-ca/internal/sims/wildfire"
	"wildfire-ca/internal/terrain"
)

// ProceduralLayer selects Perlin terrain instead of raster maps.
const ProceduralLayer = terrain.ProceduralLayer

const shutdownGrace = 5 * time.Second

// maxCachedTerrains bounds the terrain cache; the oldest entry goes first.
const maxCachedTerrains = 16

// Server serves the fire API. Terrain built for a request is cached by
// size and layer set, so repeated sweeps over the same maps load them once.
type Server struct {
	file     *config.File
	sim      wildfire.Config
	interval time.Duration
	maxCells int
	router   *mux.Router

	builds singleflight.Group
	mu     sync.Mutex
	cache  map[string]*wildfire.Grid
	order  []string
}

// New builds a server from a loaded configuration.
func New(file *config.File) (*Server, error) {
	sim, err := file.Sim.WorldConfig()
	if err != nil {
		return nil, err
	}
	interval, err := file.Server.Interval()
	if err != nil {
		return nil, fmt.Errorf("server: step interval: %w", err)
	}
	s := &Server{
		file:     file,
		sim:      sim,
		interval: interval,
		maxCells: file.Server.CellLimit(),
		cache:    map[string]*wildfire.Grid{},
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/grid", s.serveGrid).Methods(http.MethodGet)
	api.HandleFunc("/palette", s.servePalette).Methods(http.MethodGet)
	api.HandleFunc("/simulate", s.serveSimulate).Methods(http.MethodPost)
	api.HandleFunc("/experiments", s.serveExperimentNames).Methods(http.MethodGet)
	api.HandleFunc("/experiments/{name}", s.serveExperiment).Methods(http.MethodGet)
	api.HandleFunc("/stream", s.serveStream).Methods(http.MethodGet)
	return r
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler { return s.router }

// Serve listens on the configured address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.file.Server.Addr, Handler: s.router}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// terrainFor returns the shared terrain for the given size and layers.
// Callers must clone it before mutating. No layers means a uniform grid of
// the configured default vegetation. Requests for the same terrain share a
// single build; different terrains build concurrently.
func (s *Server) terrainFor(w, h int, layers []string, seed int64) (*wildfire.Grid, error) {
	if w > 0 && h > 0 && h > s.maxCells/w {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", wildfire.ErrInvalidDimension, w, h, s.maxCells)
	}
	key := fmt.Sprintf("%dx%d/%s/%d", w, h, strings.Join(layers, ","), seed)
	if g, ok := s.cached(key); ok {
		return g, nil
	}
	v, err, _ := s.builds.Do(key, func() (any, error) {
		if g, ok := s.cached(key); ok {
			return g, nil
		}
		g, err := terrain.Build(w, h, terrain.Source{
			Dir:        s.file.Maps.Dir,
			Layers:     layers,
			Thickness:  s.file.Maps.Thickness,
			Seed:       seed,
			Vegetation: s.sim.Vegetation,
			Density:    s.sim.Density,
		})
		if err != nil {
			return nil, err
		}
		s.store(key, g)
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*wildfire.Grid), nil
}

func (s *Server) cached(key string) (*wildfire.Grid, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.cache[key]
	return g, ok
}

func (s *Server) store(key string, g *wildfire.Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[key]; ok {
		return
	}
	if len(s.order) >= maxCachedTerrains {
		delete(s.cache, s.order[0])
		s.order = s.order[1:]
	}
	s.cache[key] = g
	s.order = append(s.order, key)
}
