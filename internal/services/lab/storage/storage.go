// Package storage defines the persistence interfaces for the lab service.
package storage

import (
	"context"
	"time"

	"github.com/sanjayfuloria/simulation-game/internal/engine"
	"github.com/sanjayfuloria/simulation-game/internal/platform/errors"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/user"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// Round lifecycle states. A round is created open; instructors move it
// through start, pause, and lock.
const (
	RoundStatusOpen  = "open"
	RoundStatusStart = "start"
	RoundStatusPause = "pause"
	RoundStatusLock  = "lock"
)

// Team is a named group of students sharing one join code.
type Team struct {
	ID        string
	Name      string
	JoinCode  string
	CreatedBy string
	CreatedAt time.Time
}

// Round is one team's instance of a numbered game round.
type Round struct {
	ID          string
	TeamID      string
	ScenarioID  string
	Number      int
	Seed        int64
	Status      string
	Constraints engine.Constraints
	StartedAt   time.Time
}

// DecisionRecord is a persisted submission.
type DecisionRecord struct {
	ID        string
	RoundID   string
	TeamID    string
	UserID    string
	Payload   engine.Decision
	Status    string
	CreatedAt time.Time
}

// ResultRecord is a persisted scored outcome.
type ResultRecord struct {
	ID        string
	RoundID   string
	TeamID    string
	Payload   engine.Result
	CreatedAt time.Time
}

// UserStore persists lab user records.
type UserStore interface {
	PutUser(ctx context.Context, u user.User) error
	GetUser(ctx context.Context, userID string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
}

// TeamStore persists teams and memberships.
type TeamStore interface {
	PutTeam(ctx context.Context, team Team) error
	GetTeam(ctx context.Context, teamID string) (Team, error)
	GetTeamByJoinCode(ctx context.Context, code string) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
	AddMember(ctx context.Context, teamID, userID string, joinedAt time.Time) error
	ListMembers(ctx context.Context, teamID string) ([]string, error)
}

// RoundStore persists per-team rounds.
type RoundStore interface {
	PutRound(ctx context.Context, round Round) error
	GetRound(ctx context.Context, roundID string) (Round, error)
	SetRoundStatus(ctx context.Context, roundID, status string) error
}

// DecisionStore persists submitted decisions.
type DecisionStore interface {
	PutDecision(ctx context.Context, decision DecisionRecord) error
	ListDecisions(ctx context.Context) ([]DecisionRecord, error)
}

// ResultStore persists scored results.
type ResultStore interface {
	PutResult(ctx context.Context, result ResultRecord) error
	GetResultByRound(ctx context.Context, roundID string) (ResultRecord, error)
	ListResults(ctx context.Context) ([]ResultRecord, error)
}

// Store aggregates every persistence interface the lab service needs.
type Store interface {
	UserStore
	TeamStore
	RoundStore
	DecisionStore
	ResultStore
}
