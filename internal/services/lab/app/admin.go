package app

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sanjayfuloria/simulation-game/internal/engine"
	apperrors "github.com/sanjayfuloria/simulation-game/internal/platform/errors"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/leaderboard"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/storage"
)

type exportUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type exportTeam struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	JoinCode  string `json:"join_code"`
	CreatedBy string `json:"created_by"`
}

type exportResponse struct {
	Users     []exportUser      `json:"users"`
	Teams     []exportTeam      `json:"teams"`
	Decisions []engine.Decision `json:"decisions"`
	Results   []engine.Result   `json:"results"`
}

func (s *Server) handleAdminRoundControl(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireInstructor(r); err != nil {
		writeError(w, err)
		return
	}

	action := strings.TrimSpace(r.URL.Query().Get("action"))
	switch action {
	case storage.RoundStatusStart, storage.RoundStatusPause, storage.RoundStatusLock:
	default:
		writeError(w, apperrors.New(apperrors.CodeRoundInvalidAction, "action must be start, pause, or lock"))
		return
	}

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	if err := s.store.SetRoundStatus(r.Context(), roundID, action); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, apperrors.New(apperrors.CodeRoundNotFound, "round not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"round_id": roundID, "status": action})
}

func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireInstructor(r); err != nil {
		writeError(w, err)
		return
	}

	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	teams, err := s.store.ListTeams(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	decisions, err := s.store.ListDecisions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := s.store.ListResults(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	export := exportResponse{
		Users:     make([]exportUser, 0, len(users)),
		Teams:     make([]exportTeam, 0, len(teams)),
		Decisions: make([]engine.Decision, 0, len(decisions)),
		Results:   make([]engine.Result, 0, len(results)),
	}
	for _, u := range users {
		export.Users = append(export.Users, exportUser{
			ID:        u.ID,
			Email:     u.Email,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	for _, team := range teams {
		export.Teams = append(export.Teams, exportTeam{
			ID:        team.ID,
			Name:      team.Name,
			JoinCode:  team.JoinCode,
			CreatedBy: team.CreatedBy,
		})
	}
	for _, record := range decisions {
		export.Decisions = append(export.Decisions, record.Payload)
	}
	for _, record := range results {
		export.Results = append(export.Results, record.Payload)
	}
	writeJSON(w, http.StatusOK, export)
}

func (s *Server) handleAdminLeaderboard(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireInstructor(r); err != nil {
		writeError(w, err)
		return
	}

	results, err := s.store.ListResults(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	teams, err := s.store.ListTeams(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	names := make(map[string]string, len(teams))
	for _, team := range teams {
		names[team.ID] = team.Name
	}

	entries := leaderboard.Build(results, names)
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}
