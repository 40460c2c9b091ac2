package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ChicagoDave/showthr/pkg/config"
	"github.com/ChicagoDave/showthr/pkg/render"
	"github.com/ChicagoDave/showthr/pkg/thr"
	"github.com/ChicagoDave/showthr/pkg/trace"
	"github.com/ChicagoDave/showthr/pkg/validation"
	"go.uber.org/zap"
)

// Server renders uploaded tracks over HTTP. Every request gets its own
// simulation.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
}

// New creates a server using cfg as the base for every render.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger.Named("server"),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	return mux
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.logger.Info("server starting", zap.String("url", "http://localhost"+addr))

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>showthr</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>showthr</h1>
<p>POST a .thr track to <code>/api/render?format=png</code> to get the sand image.</p>
</div>
</body></html>`)
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, validation.ValidateConfig(s.cfg))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	cfg, format, err := s.requestConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if report := validation.ValidateConfig(cfg); !report.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxTrackBytes)
	track, err := thr.Parse(body, "upload.thr")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sim, res, err := trace.Render(r.Context(), cfg, track, nil)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case trace.IsStepLimit(err):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, r.Context().Err()):
			status = http.StatusServiceUnavailable
		}
		s.logger.Error("render failed", zap.Error(err))
		writeError(w, status, err)
		return
	}

	var buf bytes.Buffer
	if err := render.Encode(&buf, render.Grayscale(sim.Field()), format); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("rendered track",
		zap.Int("waypoints", res.Waypoints),
		zap.Int("steps", res.Steps),
		zap.Duration("elapsed", res.Elapsed),
		zap.String("format", format))

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("X-Showthr-Steps", strconv.Itoa(res.Steps))
	w.Write(buf.Bytes())
}

// requestConfig applies query overrides to a copy of the base config and
// enforces the server's size and step limits.
func (s *Server) requestConfig(r *http.Request) (*config.Config, string, error) {
	cfg := *s.cfg
	q := r.URL.Query()

	format := render.Normalize(q.Get("format"))
	if format == "" {
		format = "png"
	}
	if _, err := render.FormatFromPath("x." + format); err != nil {
		return nil, "", err
	}

	ints := map[string]*int{"width": &cfg.Table.Width, "height": &cfg.Table.Height}
	for key, dst := range ints {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, "", fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	floats := map[string]*float64{"ball": &cfg.Ball.Radius, "depth": &cfg.Sand.Depth}
	for key, dst := range floats {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, "", fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
	}

	w, h := cfg.Table.Width, cfg.Table.Height
	if limit := s.cfg.Server.MaxCells; limit > 0 && w > 0 && h > 0 && w > limit/h {
		return nil, "", fmt.Errorf("table %dx%d exceeds the server limit of %d cells", w, h, limit)
	}
	if limit := s.cfg.Server.MaxSteps; limit > 0 && (cfg.Run.MaxSteps <= 0 || cfg.Run.MaxSteps > limit) {
		cfg.Run.MaxSteps = limit
	}
	return &cfg, format, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
