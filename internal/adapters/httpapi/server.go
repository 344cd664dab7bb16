// Package httpapi exposes the submission validator over HTTP for hosts that
// deliver form submissions out of process.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/skip405/kickbox-verifier/internal/core"
	"go.uber.org/zap"
)

// Server is an HTTP implementation of the SubmissionSource interface.
type Server struct {
	service    *core.ValidatorService
	logger     *zap.Logger
	listenAddr string
	srv        *http.Server
}

// NewServer creates a new HTTP submission source.
func NewServer(service *core.ValidatorService, logger *zap.Logger, listenAddr string) *Server {
	return &Server{
		service:    service,
		logger:     logger,
		listenAddr: listenAddr,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/validate", s.handleValidate)
	r.Post("/v1/verify", s.handleVerify)

	s.srv = &http.Server{
		Addr:         s.listenAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("HTTP submission source starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("HTTP submission source stopping")
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleValidate runs a full submission through the validator and returns
// the outcome together with the per-field messages.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var sub core.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission payload"})
		return
	}

	outcome := s.service.Validate(r.Context(), &sub)
	writeJSON(w, http.StatusOK, outcome)
}

type verifyRequest struct {
	Email    string            `json:"email"`
	Settings core.FormSettings `json:"settings,omitempty"`
}

// handleVerify verifies a single address through the full policy pipeline.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid verify payload"})
		return
	}

	interpretation := s.service.VerifyEmail(r.Context(), req.Email, req.Settings)
	writeJSON(w, http.StatusOK, interpretation)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
