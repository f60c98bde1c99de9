// Package httpapi exposes the assistant over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/chris/aide/internal/agent"
	"github.com/chris/aide/internal/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	maxBodyBytes    = 64 << 10
)

// Runner answers one inbound message. *agent.Agent implements it.
type Runner interface {
	Run(ctx context.Context, userID, message string) (string, error)
}

// Pinger reports store health. *db.DB implements it.
type Pinger interface {
	Ping() error
}

type MessageRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type MessageResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the routes:
//
//	POST /v1/messages  {"user_id","text"} -> {"reply"}
//	GET  /healthz
func NewRouter(runner Runner, store Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthHandler(store))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/messages", messageHandler(runner))
	})
	return r
}

// Server runs the router until its context is cancelled.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func messageHandler(runner Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MessageRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		req.UserID = strings.TrimSpace(req.UserID)
		req.Text = strings.TrimSpace(req.Text)
		if req.UserID == "" || req.Text == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id and text are required"})
			return
		}

		reply, err := runner.Run(r.Context(), req.UserID, req.Text)
		if err != nil {
			logger.Error("http: agent error", "req", w.Header().Get(requestIDHeader), "user", req.UserID, "err", err)
			status := http.StatusInternalServerError
			if errors.Is(err, agent.ErrModelUnavailable) {
				status = http.StatusBadGateway
			}
			writeJSON(w, status, errorResponse{Error: "Something went wrong. Try again?"})
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Reply: reply})
	}
}

func healthHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(); err != nil {
				logger.Warn("http: health check failed", "err", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
