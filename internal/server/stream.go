package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/sims/wildfire"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{}

// Frame is one step of a streamed run. Cells holds palette indices, row
// major, as returned by /api/palette.
type Frame struct {
	Step      int     `json:"step"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Ignited   int     `json:"ignited"`
	BurntOut  int     `json:"burntOut"`
	FrontSize int     `json:"frontSize"`
	Cells     []uint8 `json:"cells"`
	Done      bool    `json:"done"`
}

func newFrame(step int, g *wildfire.Grid, f *wildfire.Front, rep wildfire.StepReport) Frame {
	cells := make([]uint8, g.W*g.H)
	wildfire.EncodeGrid(cells, g, f)
	return Frame{
		Step:      step,
		Width:     g.W,
		Height:    g.H,
		Ignited:   rep.Ignited,
		BurntOut:  rep.BurntOut,
		FrontSize: f.Size(),
		Cells:     cells,
	}
}

func queryMap(r *http.Request) map[string]string {
	out := map[string]string{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}

// serveStream runs one fire and publishes a frame per step over a
// websocket. Query keys follow wildfire.FromMap (w, h, seed, wind_speed,
// wind_dir, ignite_row, ignite_col, ...) plus layers.
func (s *Server) serveStream(w http.ResponseWriter, r *http.Request) {
	cfg := s.sim.Apply(queryMap(r))
	if err := cfg.Params.Validate(); err != nil {
		writeError(w, err)
		return
	}
	base, err := s.terrainFor(cfg.Width, cfg.Height, queryLayers(r), cfg.Seed)
	if err != nil {
		writeError(w, err)
		return
	}
	grid := base.Clone()
	front := wildfire.NewFront(grid.W)
	if err := wildfire.Ignite(grid, front, cfg.IgnitionFor(grid)); err != nil {
		writeError(w, err)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer closeWebsocket(ws)

	if err := s.stream(r.Context(), ws, grid, front, cfg); err != nil {
		log.Println("stream:", err)
	}
}

func (s *Server) stream(ctx context.Context, ws *websocket.Conn, grid *wildfire.Grid, front *wildfire.Front, cfg wildfire.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Reads only detect the peer going away; closing the socket ends them.
	ws.SetReadLimit(maxMessageSize)
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	frames := make(chan Frame)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(frames)
		emit := func(f Frame) {
			select {
			case frames <- f:
			case <-groupCtx.Done():
			}
		}
		emit(newFrame(0, grid, front, wildfire.StepReport{}))
		res, err := wildfire.Simulate(groupCtx, grid, front, cfg.Params, core.NewRNG(cfg.Seed), wildfire.Options{
			Interval: s.interval,
			Observer: func(step int, g *wildfire.Grid, f *wildfire.Front, rep wildfire.StepReport) {
				emit(newFrame(step, g, f, rep))
			},
		})
		if err != nil {
			return err
		}
		last := newFrame(res.Steps, grid, front, wildfire.StepReport{})
		last.Done = true
		emit(last)
		return nil
	})
	group.Go(func() error {
		for f := range channerics.OrDone(groupCtx.Done(), (<-chan Frame)(frames)) {
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to set deadline: %w", err)
			}
			if err := ws.WriteJSON(f); err != nil {
				return fmt.Errorf("publish failed: %w", err)
			}
		}
		return nil
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) || isClosure(err) {
		return nil
	}
	return err
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ws.Close()
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
