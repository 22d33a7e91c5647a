// Package sqlite implements lab persistence over a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/sanjayfuloria/simulation-game/internal/platform/storage/sqlitemigrate"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/storage"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/storage/sqlite/migrations"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/user"
	_ "modernc.org/sqlite"
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements lab persistence over SQLite.
//
// One SQLite file backs the whole classroom so users, teams, rounds, and
// scored results share the same transaction and visibility boundaries.
type Store struct {
	sqlDB *sql.DB
}

// DB returns the raw database handle for callers that need ad hoc queries.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Open opens a lab SQLite store and applies bundled migrations.
//
// This keeps startup and schema evolution in one place, instead of requiring
// callers to coordinate migrations independently.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}

	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// runMigrations applies embedded DDL snapshots for known schema versions.
func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS, "")
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// PutUser persists a user record, replacing any prior row with the same id.
func (s *Store) PutUser(ctx context.Context, u user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash, role, created_at)
VALUES (?1, ?2, ?3, ?4, ?5)
ON CONFLICT(id) DO UPDATE SET
  email = excluded.email,
  password_hash = excluded.password_hash,
  role = excluded.role;
`, u.ID, u.Email, u.PasswordHash, string(u.Role), toMillis(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	var role string
	var createdAt int64
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, storage.ErrNotFound
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.Role = user.Role(role)
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, userID string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}
	if err := s.ready(); err != nil {
		return user.User{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, email, password_hash, role, created_at
FROM users
WHERE id = ?1;
`, userID)
	return scanUser(row)
}

// GetUserByEmail fetches a user by login email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}
	if err := s.ready(); err != nil {
		return user.User{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, email, password_hash, role, created_at
FROM users
WHERE email = ?1;
`, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

// ListUsers returns every user ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, email, password_hash, role, created_at
FROM users
ORDER BY created_at ASC, id ASC;
`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		var role string
		var createdAt int64
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &createdAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = user.Role(role)
		u.CreatedAt = fromMillis(createdAt)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// PutTeam persists a team record.
func (s *Store) PutTeam(ctx context.Context, team storage.Team) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(team.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(team.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO teams (id, name, join_code, created_by, created_at)
VALUES (?1, ?2, ?3, ?4, ?5)
ON CONFLICT(id) DO UPDATE SET
  name = excluded.name;
`, team.ID, team.Name, team.JoinCode, team.CreatedBy, toMillis(team.CreatedAt))
	if err != nil {
		return fmt.Errorf("put team: %w", err)
	}
	return nil
}

func scanTeam(row *sql.Row) (storage.Team, error) {
	var team storage.Team
	var createdAt int64
	if err := row.Scan(&team.ID, &team.Name, &team.JoinCode, &team.CreatedBy, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Team{}, storage.ErrNotFound
		}
		return storage.Team{}, fmt.Errorf("scan team: %w", err)
	}
	team.CreatedAt = fromMillis(createdAt)
	return team, nil
}

// GetTeam fetches a team by id.
func (s *Store) GetTeam(ctx context.Context, teamID string) (storage.Team, error) {
	if err := ctx.Err(); err != nil {
		return storage.Team{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Team{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, join_code, created_by, created_at
FROM teams
WHERE id = ?1;
`, teamID)
	return scanTeam(row)
}

// GetTeamByJoinCode fetches the team owning a join code.
func (s *Store) GetTeamByJoinCode(ctx context.Context, code string) (storage.Team, error) {
	if err := ctx.Err(); err != nil {
		return storage.Team{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Team{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, join_code, created_by, created_at
FROM teams
WHERE join_code = ?1;
`, strings.ToUpper(strings.TrimSpace(code)))
	return scanTeam(row)
}

// ListTeams returns every team ordered by creation time.
func (s *Store) ListTeams(ctx context.Context) ([]storage.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, join_code, created_by, created_at
FROM teams
ORDER BY created_at ASC, id ASC;
`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []storage.Team
	for rows.Next() {
		var team storage.Team
		var createdAt int64
		if err := rows.Scan(&team.ID, &team.Name, &team.JoinCode, &team.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		team.CreatedAt = fromMillis(createdAt)
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// AddMember records a team membership. Re-adding an existing member is a no-op.
func (s *Store) AddMember(ctx context.Context, teamID, userID string, joinedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(teamID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO team_members (team_id, user_id, joined_at)
VALUES (?1, ?2, ?3)
ON CONFLICT(team_id, user_id) DO NOTHING;
`, teamID, userID, toMillis(joinedAt))
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// ListMembers returns the user ids on a team in join order.
func (s *Store) ListMembers(ctx context.Context, teamID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT user_id
FROM team_members
WHERE team_id = ?1
ORDER BY joined_at ASC, user_id ASC;
`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// PutRound persists a round, replacing the stored copy on conflict.
func (s *Store) PutRound(ctx context.Context, round storage.Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(round.ID) == "" {
		return fmt.Errorf("round id is required")
	}
	if strings.TrimSpace(round.TeamID) == "" {
		return fmt.Errorf("team id is required")
	}

	constraints, err := json.Marshal(round.Constraints)
	if err != nil {
		return fmt.Errorf("encode constraints: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO rounds (id, team_id, scenario_id, number, seed, status, constraints_json, started_at)
VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8)
ON CONFLICT(id) DO UPDATE SET
  scenario_id = excluded.scenario_id,
  seed = excluded.seed,
  status = excluded.status,
  constraints_json = excluded.constraints_json;
`, round.ID, round.TeamID, round.ScenarioID, round.Number, round.Seed,
		round.Status, string(constraints), toMillis(round.StartedAt))
	if err != nil {
		return fmt.Errorf("put round: %w", err)
	}
	return nil
}

// GetRound fetches a round by id.
func (s *Store) GetRound(ctx context.Context, roundID string) (storage.Round, error) {
	if err := ctx.Err(); err != nil {
		return storage.Round{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Round{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, team_id, scenario_id, number, seed, status, constraints_json, started_at
FROM rounds
WHERE id = ?1;
`, roundID)

	var round storage.Round
	var constraints string
	var startedAt int64
	if err := row.Scan(&round.ID, &round.TeamID, &round.ScenarioID, &round.Number,
		&round.Seed, &round.Status, &constraints, &startedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Round{}, storage.ErrNotFound
		}
		return storage.Round{}, fmt.Errorf("scan round: %w", err)
	}
	if err := json.Unmarshal([]byte(constraints), &round.Constraints); err != nil {
		return storage.Round{}, fmt.Errorf("decode constraints: %w", err)
	}
	round.StartedAt = fromMillis(startedAt)
	return round, nil
}

// SetRoundStatus updates the lifecycle status of a round.
func (s *Store) SetRoundStatus(ctx context.Context, roundID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE rounds SET status = ?2 WHERE id = ?1;
`, roundID, status)
	if err != nil {
		return fmt.Errorf("set round status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set round status: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// PutDecision persists a submitted decision.
func (s *Store) PutDecision(ctx context.Context, decision storage.DecisionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(decision.ID) == "" {
		return fmt.Errorf("decision id is required")
	}
	if strings.TrimSpace(decision.RoundID) == "" {
		return fmt.Errorf("round id is required")
	}

	payload, err := json.Marshal(decision.Payload)
	if err != nil {
		return fmt.Errorf("encode decision payload: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO decisions (id, round_id, team_id, user_id, payload_json, status, created_at)
VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7)
ON CONFLICT(id) DO UPDATE SET
  payload_json = excluded.payload_json,
  status = excluded.status;
`, decision.ID, decision.RoundID, decision.TeamID, decision.UserID,
		string(payload), decision.Status, toMillis(decision.CreatedAt))
	if err != nil {
		return fmt.Errorf("put decision: %w", err)
	}
	return nil
}

// ListDecisions returns every submitted decision ordered by creation time.
func (s *Store) ListDecisions(ctx context.Context) ([]storage.DecisionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, round_id, team_id, user_id, payload_json, status, created_at
FROM decisions
ORDER BY created_at ASC, id ASC;
`)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []storage.DecisionRecord
	for rows.Next() {
		var record storage.DecisionRecord
		var payload string
		var createdAt int64
		if err := rows.Scan(&record.ID, &record.RoundID, &record.TeamID, &record.UserID,
			&payload, &record.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &record.Payload); err != nil {
			return nil, fmt.Errorf("decode decision payload: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		decisions = append(decisions, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	return decisions, nil
}

// PutResult persists a scored outcome.
func (s *Store) PutResult(ctx context.Context, result storage.ResultRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(result.ID) == "" {
		return fmt.Errorf("result id is required")
	}
	if strings.TrimSpace(result.RoundID) == "" {
		return fmt.Errorf("round id is required")
	}

	payload, err := json.Marshal(result.Payload)
	if err != nil {
		return fmt.Errorf("encode result payload: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO results (id, round_id, team_id, payload_json, created_at)
VALUES (?1, ?2, ?3, ?4, ?5)
ON CONFLICT(id) DO UPDATE SET
  payload_json = excluded.payload_json;
`, result.ID, result.RoundID, result.TeamID, string(payload), toMillis(result.CreatedAt))
	if err != nil {
		return fmt.Errorf("put result: %w", err)
	}
	return nil
}

func scanResult(scan func(dest ...any) error) (storage.ResultRecord, error) {
	var record storage.ResultRecord
	var payload string
	var createdAt int64
	if err := scan(&record.ID, &record.RoundID, &record.TeamID, &payload, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ResultRecord{}, storage.ErrNotFound
		}
		return storage.ResultRecord{}, fmt.Errorf("scan result: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &record.Payload); err != nil {
		return storage.ResultRecord{}, fmt.Errorf("decode result payload: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}

// GetResultByRound fetches the most recent result recorded for a round.
func (s *Store) GetResultByRound(ctx context.Context, roundID string) (storage.ResultRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ResultRecord{}, err
	}
	if err := s.ready(); err != nil {
		return storage.ResultRecord{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, round_id, team_id, payload_json, created_at
FROM results
WHERE round_id = ?1
ORDER BY created_at DESC, id DESC
LIMIT 1;
`, roundID)
	return scanResult(row.Scan)
}

// ListResults returns every scored result ordered by creation time.
func (s *Store) ListResults(ctx context.Context) ([]storage.ResultRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, round_id, team_id, payload_json, created_at
FROM results
ORDER BY created_at ASC, id ASC;
`)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []storage.ResultRecord
	for rows.Next() {
		record, err := scanResult(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

var _ storage.Store = (*Store)(nil)
