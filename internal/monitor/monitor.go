// Package monitor serves the optional read-only status surface: the precomputed polar buffer
// and sweep progress over a websocket, startup diagnostics, and a health endpoint.
package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/funtimes-povring/internal/diagnostics"
	"github.com/coreman2200/funtimes-povring/internal/pipeline"
	"github.com/coreman2200/funtimes-povring/internal/polar"
)

const writeWait = 200 * time.Millisecond

// Progress is what the display loop exposes; display.Sweeper satisfies it.
type Progress interface {
	Sweeps() uint64
	LastSweep() time.Duration
}

type Server struct {
	geometry polar.Geometry
	polar    *polar.Buffer
	diags    []diag.Diagnostic
	driver   string
	status   *pipeline.Status
	start    time.Time

	mu       sync.Mutex
	progress Progress
	clients  map[*websocket.Conn]bool
	sent     uint64
}

func New(res *pipeline.Result, driver string, st *pipeline.Status) *Server {
	if st == nil {
		st = &pipeline.Status{}
	}
	return &Server{
		geometry: res.Geometry,
		polar:    res.Polar,
		diags:    res.Diagnostics,
		driver:   driver,
		status:   st,
		start:    time.Now(),
		clients:  map[*websocket.Conn]bool{},
	}
}

// SetProgress attaches the running display loop.
func (s *Server) SetProgress(p Progress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiag)
	mux.HandleFunc("/health", s.HandleHealth)
	return withCORS(mux)
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type topology struct {
	Angles  int    `json:"angles"`
	Radii   int    `json:"radii"`
	Mapping string `json:"mapping"`
	Bounds  string `json:"bounds"`
	Driver  string `json:"driver"`
}

type row struct {
	Angle int   `json:"angle"`
	RGB   []int `json:"rgb"`
}

type sweep struct {
	T           int64   `json:"t"`
	Sweeps      uint64  `json:"sweeps"`
	LastSweepMS float64 `json:"last_sweep_ms"`
}

// HandleFramesWS sends the topology and every polar row once, then registers the client for
// sweep-count updates.
func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if err := s.sendBuffer(conn); err != nil {
		log.Debug().Err(err).Msg("monitor: send buffer")
		conn.Close()
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) sendBuffer(conn *websocket.Conn) error {
	err := conn.WriteJSON(topology{
		Angles:  s.geometry.Angles,
		Radii:   s.geometry.Radii,
		Mapping: s.geometry.Mapping.String(),
		Bounds:  s.geometry.Bounds.String(),
		Driver:  s.driver,
	})
	if err != nil {
		return err
	}
	if s.polar == nil {
		return nil
	}
	rgb := make([]int, s.polar.Radii*3)
	for a := 0; a < s.polar.Angles; a++ {
		for i, px := range s.polar.Row(a) {
			rgb[i*3], rgb[i*3+1], rgb[i*3+2] = int(px.R), int(px.G), int(px.B)
		}
		if err := conn.WriteJSON(row{Angle: a, RGB: rgb}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// HandleDiag returns the startup diagnostics as a JSON list, or streams them one message each
// to a websocket client.
func (s *Server) HandleDiag(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		w.Header().Set("Content-Type", "application/json")
		diags := s.diags
		if diags == nil {
			diags = []diag.Diagnostic{}
		}
		_ = json.NewEncoder(w).Encode(diags)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for _, d := range s.diags {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(d); err != nil {
			return
		}
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := s.progress
	s.mu.Unlock()
	resp := map[string]any{
		"stage":    s.status.Stage().String(),
		"uptime_s": time.Since(s.start).Seconds(),
		"angles":   s.geometry.Angles,
		"radii":    s.geometry.Radii,
		"driver":   s.driver,
	}
	if p != nil {
		resp["sweeps"] = p.Sweeps()
		resp["last_sweep_ms"] = ms(p.LastSweep())
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Run pushes the sweep count to websocket clients every interval while it changes.
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.broadcast()
		}
	}
}

func (s *Server) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress == nil || len(s.clients) == 0 {
		return
	}
	n := s.progress.Sweeps()
	if n == s.sent {
		return
	}
	s.sent = n
	b, _ := json.Marshal(sweep{T: time.Now().UnixNano(), Sweeps: n, LastSweepMS: ms(s.progress.LastSweep())})
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("monitor: write sweep")
		}
	}
}

// Close disconnects every websocket client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
	}
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
