// Package web provides the HTTP status server for the buttond daemon:
// the Go rendition of the original driver's sysfs attribute files.
package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/chunsun978/bbb-embedded-drivers/internal/button"
	"github.com/chunsun978/bbb-embedded-drivers/internal/metrics"
)

// Source exposes the engine state the server reads. Both methods are
// snapshot reads safe from any goroutine.
type Source interface {
	State() button.State
	Metrics() metrics.Snapshot
}

// Info holds static daemon facts shown alongside the live snapshot.
type Info struct {
	Label      string
	Broker     string
	DebounceMs int64
	StartTime  time.Time
}

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	src        Source
	info       Info
}

// New creates a Server that reads state from the given source.
func New(addr string, src Source, info Info) *Server {
	s := &Server{src: src, info: info}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, s.view())
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(s.view()))
}

func (s *Server) view() view {
	return view{
		Info:    s.info,
		State:   string(s.src.State()),
		Metrics: s.src.Metrics(),
		Now:     time.Now(),
	}
}

// view is the point-in-time data both renderers consume.
type view struct {
	Info    Info
	State   string
	Metrics metrics.Snapshot
	Now     time.Time
}

// Uptime returns the duration since the daemon started.
func (v view) Uptime() time.Duration {
	return v.Now.Sub(v.Info.StartTime)
}
