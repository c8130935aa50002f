package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/teemow/linkauth/internal/logging"
)

// DefaultAddr is the address the directory API listens on.
const DefaultAddr = "localhost:3100"

// Recorder is an optional hook for request metrics.
type Recorder interface {
	RecordDirectoryRequest(ctx context.Context, method string, status int)
}

// Server exposes the employee store as a small REST API.
type Server struct {
	store    *Store
	addr     string
	logger   *slog.Logger
	recorder Recorder
}

// ServerConfig configures a directory API server.
type ServerConfig struct {
	Store    *Store
	Addr     string // defaults to DefaultAddr
	Logger   *slog.Logger
	Recorder Recorder
}

// NewServer creates a directory API server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("directory server requires a store")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		store:    cfg.Store,
		addr:     cfg.Addr,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start binds the port and serves requests in the background until ctx is
// cancelled. A bind failure is logged and returned; the caller decides
// whether the process can run without the directory API.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.logger.Warn("directory API unavailable",
			slog.String("addr", s.addr),
			logging.Err(err))
		return fmt.Errorf("failed to bind directory API on %s: %w", s.addr, err)
	}

	srv := &http.Server{Handler: s.Handler()}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("directory API stopped", logging.Err(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("directory API started", slog.String("addr", s.addr))
	return nil
}

// Handler returns the HTTP handler serving the employee routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /employees", s.handleList)
	mux.HandleFunc("POST /employees", s.handleCreate)
	mux.HandleFunc("PUT /employees/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /employees/{id}", s.handleDelete)
	return mux
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	employees, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, employees)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	emp, err := s.store.Create(r.Context(), input)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, emp)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var input EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	emp, err := s.store.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, emp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, DeleteResult{Success: true, DeletedID: id})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case strings.HasPrefix(err.Error(), "missing required fields"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to write directory response", logging.Err(err))
	}
	s.record(r, status)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
	s.record(r, status)
}

func (s *Server) record(r *http.Request, status int) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordDirectoryRequest(r.Context(), r.Method, status)
}
