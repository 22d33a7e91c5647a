package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sanjayfuloria/simulation-game/internal/engine"
	apperrors "github.com/sanjayfuloria/simulation-game/internal/platform/errors"
	"github.com/sanjayfuloria/simulation-game/internal/scenario"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/storage"
)

type roundStateResponse struct {
	RoundID           string             `json:"round_id"`
	Round             int                `json:"round"`
	ScenarioID        string             `json:"scenario_id"`
	Seed              int64              `json:"seed"`
	Status            string             `json:"status"`
	Constraints       engine.Constraints `json:"constraints"`
	IndustryNews      []string           `json:"industry_news"`
	Theory            string             `json:"theory"`
	TheoryDescription string             `json:"theory_description"`
}

// roundKey derives the stable row id for a team's numbered round.
func roundKey(teamID string, number int) string {
	return fmt.Sprintf("%s-%d", teamID, number)
}

func (s *Server) handleRoundCurrent(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeError(w, err)
		return
	}

	teamID := strings.TrimSpace(r.URL.Query().Get("team_id"))
	if teamID == "" {
		writeError(w, apperrors.New(apperrors.CodeRequestMalformed, "team_id is required"))
		return
	}
	number := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("round_number")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, apperrors.New(apperrors.CodeRoundInvalidNumber, "round_number must be a positive integer"))
			return
		}
		number = parsed
	}

	if _, err := s.store.GetTeam(r.Context(), teamID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, apperrors.New(apperrors.CodeTeamNotFound, "team not found"))
			return
		}
		writeError(w, err)
		return
	}

	scen := scenario.ForRound(number, scenario.TeamSeed(teamID))

	round, err := s.store.GetRound(r.Context(), roundKey(teamID, number))
	if errors.Is(err, storage.ErrNotFound) {
		round = storage.Round{
			ID:          roundKey(teamID, number),
			TeamID:      teamID,
			ScenarioID:  scen.ID,
			Number:      number,
			Seed:        scenario.DeriveSeed(teamID, number),
			Status:      storage.RoundStatusOpen,
			Constraints: scen.Constraints,
			StartedAt:   s.clock().UTC(),
		}
		if err := s.store.PutRound(r.Context(), round); err != nil {
			writeError(w, err)
			return
		}
	} else if err != nil {
		writeError(w, err)
		return
	}

	news := scen.IndustryNews
	if len(news) == 0 {
		news = scenario.IndustryNews(round.Seed)
	}

	writeJSON(w, http.StatusOK, roundStateResponse{
		RoundID:           round.ID,
		Round:             round.Number,
		ScenarioID:        round.ScenarioID,
		Seed:              round.Seed,
		Status:            round.Status,
		Constraints:       round.Constraints,
		IndustryNews:      news,
		Theory:            scen.Theory,
		TheoryDescription: scen.TheoryDescription,
	})
}

func (s *Server) handleRoundSubmit(w http.ResponseWriter, r *http.Request) {
	current, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeRequestMalformed, "read request body", err))
		return
	}
	if err := validateDecisionPayload(raw); err != nil {
		writeError(w, err)
		return
	}
	var decision engine.Decision
	if err := json.Unmarshal(raw, &decision); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeRequestMalformed, "request body is not valid JSON", err))
		return
	}

	roundID := roundKey(decision.TeamID, decision.Round)
	round, err := s.store.GetRound(r.Context(), roundID)
	if errors.Is(err, storage.ErrNotFound) {
		// A submission may arrive before the round row exists, in which
		// case the decision's own snapshot seeds the round.
		seed := decision.Seed
		if seed == 0 {
			seed = scenario.DeriveSeed(decision.TeamID, decision.Round)
		}
		round = storage.Round{
			ID:          roundID,
			TeamID:      decision.TeamID,
			ScenarioID:  decision.ScenarioID,
			Number:      decision.Round,
			Seed:        seed,
			Status:      storage.RoundStatusOpen,
			Constraints: decision.ConstraintsSnapshot,
			StartedAt:   s.clock().UTC(),
		}
		if err := s.store.PutRound(r.Context(), round); err != nil {
			writeError(w, err)
			return
		}
	} else if err != nil {
		writeError(w, err)
		return
	}

	switch round.Status {
	case storage.RoundStatusPause, storage.RoundStatusLock:
		writeError(w, apperrors.WithMetadata(apperrors.CodeRoundLocked,
			"round is not accepting submissions",
			map[string]string{"status": round.Status}))
		return
	}

	decisionID, err := s.newID()
	if err != nil {
		writeError(w, err)
		return
	}
	record := storage.DecisionRecord{
		ID:        decisionID,
		RoundID:   round.ID,
		TeamID:    decision.TeamID,
		UserID:    current.ID,
		Payload:   decision,
		Status:    "submitted",
		CreatedAt: s.clock().UTC(),
	}
	if err := s.store.PutDecision(r.Context(), record); err != nil {
		writeError(w, err)
		return
	}

	result := engine.Evaluate(decision, round.Constraints, round.Seed)
	verdict := engine.CheckFeasibility(decision, round.Constraints)
	for _, violation := range verdict.Violations {
		result.Messages = append(result.Messages, engine.Message{
			Level: "warning",
			Text:  violation.Detail,
		})
	}

	resultID, err := s.newID()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.PutResult(r.Context(), storage.ResultRecord{
		ID:        resultID,
		RoundID:   round.ID,
		TeamID:    decision.TeamID,
		Payload:   result,
		CreatedAt: s.clock().UTC(),
	}); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, result)
}

func (s *Server) handleRoundResults(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeError(w, err)
		return
	}

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	record, err := s.store.GetResultByRound(r.Context(), roundID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, apperrors.New(apperrors.CodeResultNotFound, "result not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.Payload)
}
