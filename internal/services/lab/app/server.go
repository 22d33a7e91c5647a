// Package app hosts the lab HTTP API: auth, teams, rounds, and instructor
// administration over a shared store.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sanjayfuloria/simulation-game/internal/id"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/storage"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/token"
)

// Server hosts the lab JSON endpoints over a backing store.
type Server struct {
	store       storage.Store
	signer      *token.Signer
	clock       func() time.Time
	newID       func() (string, error)
	newJoinCode func() (string, error)
}

// New builds a lab server bound to a store and token signer.
func New(store storage.Store, signer *token.Signer) (*Server, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if signer == nil {
		return nil, errors.New("token signer is required")
	}
	return &Server{
		store:       store,
		signer:      signer,
		clock:       time.Now,
		newID:       id.NewID,
		newJoinCode: id.NewJoinCode,
	}, nil
}

// RegisterRoutes registers the lab HTTP endpoints on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	if mux == nil {
		return
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/session", s.handleSession)

	mux.HandleFunc("POST /api/teams", s.handleTeamCreate)
	mux.HandleFunc("POST /api/teams/join", s.handleTeamJoin)
	mux.HandleFunc("GET /api/teams/{teamID}", s.handleTeamGet)

	mux.HandleFunc("GET /api/rounds/current", s.handleRoundCurrent)
	mux.HandleFunc("POST /api/rounds/submit", s.handleRoundSubmit)
	mux.HandleFunc("GET /api/rounds/{roundID}/results", s.handleRoundResults)

	mux.HandleFunc("POST /api/admin/rounds/{roundID}/control", s.handleAdminRoundControl)
	mux.HandleFunc("GET /api/admin/export", s.handleAdminExport)
	mux.HandleFunc("GET /api/admin/leaderboard", s.handleAdminLeaderboard)
}

// Serve runs the lab API on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   s.clock().UTC().Format(time.RFC3339),
	})
}
