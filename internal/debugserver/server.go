// Package debugserver exposes frame statistics, the player state and the
// door registry over HTTP while the game runs.
package debugserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"doomcore/internal/door"
	"doomcore/internal/threading/monitoring"
)

var logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger routes request and server messages to l.
func SetLogger(l *log.Logger) {
	logger = l
}

// PlayerState is the reported viewer state.
type PlayerState struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Angle     float64 `json:"angle"`
	Height    float64 `json:"height"`
	Sector    int     `json:"sector"`
	SubSector int     `json:"sub_sector"`
}

// Source supplies the data served. Implementations are called from
// request goroutines and must be safe for concurrent use.
type Source interface {
	PerformanceStats() map[string]interface{}
	Alerts() []monitoring.PerformanceAlert
	Player() PlayerState
	Doors() []door.Status
}

type Server struct {
	source Source
	router *mux.Router
	srv    *http.Server
}

func New(addr string, source Source) *Server {
	s := &Server{source: source}

	r := mux.NewRouter()
	r.Use(recovery)
	r.Use(requestLogger)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	debug := r.PathPrefix("/debug").Subrouter()
	debug.HandleFunc("/stats", s.stats).Methods("GET")
	debug.HandleFunc("/alerts", s.alerts).Methods("GET")
	debug.HandleFunc("/player", s.player).Methods("GET")
	debug.HandleFunc("/doors", s.doors).Methods("GET")
	debug.HandleFunc("/doors/{linedef:[0-9]+}", s.door).Methods("GET")

	s.router = r
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
// It returns once the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	logger.Printf("debug server listening on %s", ln.Addr())
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("debug server error: %v", err)
		}
	}()
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	stats := s.source.PerformanceStats()
	if stats == nil {
		stats = map[string]interface{}{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) alerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.source.Alerts()
	if alerts == nil {
		alerts = []monitoring.PerformanceAlert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) player(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.source.Player())
}

func (s *Server) doors(w http.ResponseWriter, r *http.Request) {
	doors := s.source.Doors()
	if doors == nil {
		doors = []door.Status{}
	}
	writeJSON(w, http.StatusOK, doors)
}

func (s *Server) door(w http.ResponseWriter, r *http.Request) {
	linedef, err := strconv.Atoi(mux.Vars(r)["linedef"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid linedef"})
		return
	}
	for _, d := range s.source.Doors() {
		if d.Linedef == linedef {
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "no door on linedef " + strconv.Itoa(linedef)})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Printf("panic serving %s: %v", r.URL.Path, err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
