package app

import (
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/sanjayfuloria/simulation-game/internal/platform/errors"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/storage"
)

type teamCreateRequest struct {
	Name string `json:"name"`
}

type teamJoinRequest struct {
	Code string `json:"code"`
}

type teamResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	JoinCode  string   `json:"join_code"`
	CreatedBy string   `json:"created_by"`
	Members   []string `json:"members"`
}

func (s *Server) handleTeamCreate(w http.ResponseWriter, r *http.Request) {
	current, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body teamCreateRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		writeError(w, apperrors.New(apperrors.CodeTeamNameEmpty, "team name is required"))
		return
	}

	teamID, err := s.newID()
	if err != nil {
		writeError(w, err)
		return
	}
	joinCode, err := s.newJoinCode()
	if err != nil {
		writeError(w, err)
		return
	}

	now := s.clock().UTC()
	team := storage.Team{
		ID:        teamID,
		Name:      name,
		JoinCode:  joinCode,
		CreatedBy: current.ID,
		CreatedAt: now,
	}
	if err := s.store.PutTeam(r.Context(), team); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.AddMember(r.Context(), teamID, current.ID, now); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, teamResponse{
		ID:        teamID,
		Name:      name,
		JoinCode:  joinCode,
		CreatedBy: current.ID,
		Members:   []string{current.ID},
	})
}

func (s *Server) handleTeamJoin(w http.ResponseWriter, r *http.Request) {
	current, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body teamJoinRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	team, err := s.store.GetTeamByJoinCode(r.Context(), body.Code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, apperrors.New(apperrors.CodeTeamNotFound, "team not found"))
			return
		}
		writeError(w, err)
		return
	}

	if err := s.store.AddMember(r.Context(), team.ID, current.ID, s.clock().UTC()); err != nil {
		writeError(w, err)
		return
	}
	s.writeTeam(w, r, team)
}

func (s *Server) handleTeamGet(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeError(w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	team, err := s.store.GetTeam(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, apperrors.New(apperrors.CodeTeamNotFound, "team not found"))
			return
		}
		writeError(w, err)
		return
	}
	s.writeTeam(w, r, team)
}

func (s *Server) writeTeam(w http.ResponseWriter, r *http.Request, team storage.Team) {
	members, err := s.store.ListMembers(r.Context(), team.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if members == nil {
		members = []string{}
	}
	writeJSON(w, http.StatusOK, teamResponse{
		ID:        team.ID,
		Name:      team.Name,
		JoinCode:  team.JoinCode,
		CreatedBy: team.CreatedBy,
		Members:   members,
	})
}
