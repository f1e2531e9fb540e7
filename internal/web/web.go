package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"shiftcal/internal/config"
	"shiftcal/internal/ics"
	appLog "shiftcal/internal/log"
	"shiftcal/internal/model"
	"shiftcal/internal/ocr"
	"shiftcal/internal/pipeline"
	"shiftcal/internal/schedule"
)

const (
	maxUploadBytes = 20 << 20
	shutdownGrace  = 5 * time.Second
)

// Server exposes schedule extraction over HTTP.
type Server struct {
	cfg  *config.Config
	pipe *pipeline.Pipeline
	mux  *http.ServeMux
	now  func() time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, pipe *pipeline.Pipeline) *Server {
	s := &Server{
		cfg:  cfg,
		pipe: pipe,
		mux:  http.NewServeMux(),
		now:  time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// 빈 사용자명 또는 비밀번호가 설정된 경우에는 비활성화로 취급한다.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="shiftcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer serves the API on cfg.Listen until ctx is cancelled, then
// shuts down gracefully.
func StartServer(ctx context.Context, cfg *config.Config, pipe *pipeline.Pipeline) error {
	s := NewServer(cfg, pipe)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/extract", s.handleExtract)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// extractResponse is the JSON response shape for /api/extract.
type extractResponse struct {
	Status string                 `json:"status"`
	Count  int                    `json:"count"`
	Data   []model.ScheduleRecord `json:"data"`
}

// handleExtract extracts one employee's shifts from an uploaded schedule.
//
// POST /api/extract (multipart/form-data)
//   - name:  employee name (required)
//   - year:  year of the header dates (default: config year or current year)
//   - ocr:   CLOVA OCR JSON response file, or
//   - image: schedule photo, sent through OCR
//
// ?format=ics returns text/calendar instead of JSON.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	year := parseIntDefault(r.FormValue("year"), 0)
	if year <= 0 {
		year = s.cfg.EffectiveYear(s.now())
	}

	grid, status, err := s.gridFromUpload(r)
	if err != nil {
		appLog.Error("api extract: input failed", err, "status", status)
		writeError(w, status, err.Error())
		return
	}

	records, err := s.pipe.Extract(grid, name, year)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, schedule.ErrStructureNotFound):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, schedule.ErrEmptyName):
			status = http.StatusBadRequest
		}
		appLog.Error("api extract: extraction failed", err, "name", name)
		writeError(w, status, err.Error())
		return
	}

	if r.URL.Query().Get("format") == "ics" {
		body, err := ics.Export(records, ics.ExportOptions{
			Location:     s.cfg.Location(),
			CalendarName: name,
		})
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
		return
	}

	if records == nil {
		records = []model.ScheduleRecord{}
	}
	writeJSON(w, http.StatusOK, extractResponse{
		Status: "success",
		Count:  len(records),
		Data:   records,
	})
}

// gridFromUpload reads the "ocr" or "image" form file. The returned status
// is the HTTP status to report when err is non-nil.
func (s *Server) gridFromUpload(r *http.Request) (schedule.Grid, int, error) {
	if f, _, err := r.FormFile("ocr"); err == nil {
		defer f.Close()
		resp, err := ocr.Decode(f)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		g, err := pipeline.GridFromOCR(resp)
		if err != nil {
			return nil, http.StatusUnprocessableEntity, err
		}
		return g, http.StatusOK, nil
	}

	f, hdr, err := r.FormFile("image")
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("one of image or ocr is required")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	format := strings.TrimPrefix(filepath.Ext(hdr.Filename), ".")
	if format == "" {
		format = "jpg"
	}

	g, err := s.pipe.GridFromImage(r.Context(), data, format)
	switch {
	case err == nil:
		return g, http.StatusOK, nil
	case errors.Is(err, ocr.ErrNotConfigured):
		return nil, http.StatusServiceUnavailable, err
	case errors.Is(err, ocr.ErrNoTable):
		return nil, http.StatusUnprocessableEntity, err
	default:
		return nil, http.StatusBadGateway, err
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
