package stream

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/soocke/facepad-go/assets"
)

const (
	writeTimeout    = 5 * time.Second
	pingInterval    = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Options configure the page served at "/" and the per-client request
// limit. Zero limits use the defaults.
type Options struct {
	Title   string
	Width   int
	GameURL string

	RequestRate  float64 // requests per second per client
	RequestBurst int
}

// Server exposes the hub over HTTP.
type Server struct {
	hub      *Hub
	logger   *slog.Logger
	opts     Options
	index    *template.Template
	upgrader websocket.Upgrader
	router   *mux.Router
	limiter  *clientLimiter
}

// NewServer builds the router:
//
//	GET /            index page
//	GET /video_feed  multipart JPEG stream
//	GET /events      websocket of per-frame events
//	GET /healthz     liveness and session state
func NewServer(hub *Hub, opts Options, logger *slog.Logger) (*Server, error) {
	index, err := assets.IndexTemplate()
	if err != nil {
		return nil, err
	}
	if opts.Title == "" {
		opts.Title = "Facepad"
	}
	s := &Server{
		hub:     hub,
		logger:  logger,
		opts:    opts,
		index:   index,
		limiter: newClientLimiter(rate.Limit(opts.RequestRate), opts.RequestBurst),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/video_feed", s.handleVideoFeed).Methods(http.MethodGet)
	r.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Use(s.logRequests, s.limitRequests)
	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// ListenAndServe serves on addr until ctx is done, then shuts down and
// closes the hub.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("stream listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		return err
	case <-ctx.Done():
	}
	// Streaming handlers only return once their channels close.
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if lerr := <-errCh; lerr != nil && !errors.Is(lerr, http.ErrServerClosed) {
		return lerr
	}
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := assets.IndexData{Title: s.opts.Title, Width: s.opts.Width, GameURL: s.opts.GameURL}
	if err := s.index.Execute(w, data); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

func (s *Server) handleVideoFeed(w http.ResponseWriter, r *http.Request) {
	frames, unsubscribe := s.hub.SubscribeFrames()
	defer unsubscribe()

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "close")
	w.WriteHeader(http.StatusOK)
	rc := http.NewResponseController(w)

	for {
		select {
		case <-r.Context().Done():
			return
		case jpeg, ok := <-frames:
			if !ok {
				return
			}
			if err := rc.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return
			}
			if err := writeFlushed(w, rc, jpeg); err != nil {
				s.logger.Debug("video client gone", "remote", r.RemoteAddr, "error", err)
				return
			}
		}
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := s.hub.SubscribeEvents()
	defer unsubscribe()

	// The reader only notices the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Debug("event client read", "error", err)
				}
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-gone:
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

// Health is the /healthz body.
type Health struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
	Running bool   `json:"running"`
	Session string `json:"session,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := Health{
		Status:  "ok",
		Clients: s.hub.Clients(),
		Running: s.hub.Running(),
		Session: s.hub.Session(),
	}
	if err := s.hub.Err(); err != nil {
		h.Status = "degraded"
		h.Error = err.Error()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(h)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}
