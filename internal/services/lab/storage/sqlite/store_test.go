package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sanjayfuloria/simulation-game/internal/engine"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/storage"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/user"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lab.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close first: %v", err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("close second: %v", err)
	}
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	u := user.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		PasswordHash: "bcrypt-hash",
		Role:         user.RoleStudent,
		CreatedAt:    created,
	}
	if err := store.PutUser(ctx, u); err != nil {
		t.Fatalf("put user: %v", err)
	}

	got, err := store.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got != u {
		t.Fatalf("got %+v, want %+v", got, u)
	}

	byEmail, err := store.GetUserByEmail(ctx, "ADA@example.com ")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Fatalf("got id %q, want user-1", byEmail.ID)
	}
}

func TestGetUserNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetUser(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestPutUserUpdatesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	u := user.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		PasswordHash: "hash-v1",
		Role:         user.RoleStudent,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.PutUser(ctx, u); err != nil {
		t.Fatalf("put user: %v", err)
	}

	u.PasswordHash = "hash-v2"
	u.Role = user.RoleInstructor
	if err := store.PutUser(ctx, u); err != nil {
		t.Fatalf("update user: %v", err)
	}

	got, err := store.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.PasswordHash != "hash-v2" {
		t.Fatalf("got hash %q, want hash-v2", got.PasswordHash)
	}
	if got.Role != user.RoleInstructor {
		t.Fatalf("got role %q, want instructor", got.Role)
	}
}

func TestListUsersOrdersByCreation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"user-b", "user-a"} {
		u := user.User{
			ID:           id,
			Email:        id + "@example.com",
			PasswordHash: "hash",
			Role:         user.RoleStudent,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.PutUser(ctx, u); err != nil {
			t.Fatalf("put user %s: %v", id, err)
		}
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[0].ID != "user-b" || users[1].ID != "user-a" {
		t.Fatalf("got order %s, %s; want user-b, user-a", users[0].ID, users[1].ID)
	}
}

func seedUser(t *testing.T, store *Store, id string) {
	t.Helper()
	u := user.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "hash",
		Role:         user.RoleStudent,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.PutUser(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func seedTeam(t *testing.T, store *Store, id, code string) {
	t.Helper()
	seedUser(t, store, id+"-owner")
	team := storage.Team{
		ID:        id,
		Name:      "Team " + id,
		JoinCode:  code,
		CreatedBy: id + "-owner",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.PutTeam(context.Background(), team); err != nil {
		t.Fatalf("seed team %s: %v", id, err)
	}
}

func TestTeamRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "user-1")
	created := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	team := storage.Team{
		ID:        "team-1",
		Name:      "Supply Sharks",
		JoinCode:  "AB12",
		CreatedBy: "user-1",
		CreatedAt: created,
	}
	if err := store.PutTeam(ctx, team); err != nil {
		t.Fatalf("put team: %v", err)
	}

	got, err := store.GetTeam(ctx, "team-1")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if got != team {
		t.Fatalf("got %+v, want %+v", got, team)
	}

	byCode, err := store.GetTeamByJoinCode(ctx, " ab12 ")
	if err != nil {
		t.Fatalf("get team by join code: %v", err)
	}
	if byCode.ID != "team-1" {
		t.Fatalf("got id %q, want team-1", byCode.ID)
	}
}

func TestGetTeamByJoinCodeNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetTeamByJoinCode(context.Background(), "ZZZZ")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestTeamMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedTeam(t, store, "team-1", "AB12")
	seedUser(t, store, "user-1")
	seedUser(t, store, "user-2")

	base := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	if err := store.AddMember(ctx, "team-1", "user-1", base); err != nil {
		t.Fatalf("add first member: %v", err)
	}
	if err := store.AddMember(ctx, "team-1", "user-2", base.Add(time.Minute)); err != nil {
		t.Fatalf("add second member: %v", err)
	}
	if err := store.AddMember(ctx, "team-1", "user-1", base.Add(2*time.Minute)); err != nil {
		t.Fatalf("re-add member: %v", err)
	}

	members, err := store.ListMembers(ctx, "team-1")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	if members[0] != "user-1" || members[1] != "user-2" {
		t.Fatalf("got order %v, want [user-1 user-2]", members)
	}
}

func TestRoundRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedTeam(t, store, "team-1", "AB12")
	round := storage.Round{
		ID:         "team-1-1",
		TeamID:     "team-1",
		ScenarioID: "expected_utility",
		Number:     1,
		Seed:       42424,
		Status:     storage.RoundStatusOpen,
		Constraints: engine.Constraints{
			ForecastRange: map[string][2]int{"widget": {80, 120}},
			Capacity:      map[string]int{"plantA": 100},
			Costs: engine.Costs{
				UnitCost:            map[string]float64{"widget": 10},
				OvertimeCostPerHour: map[string]float64{"plantA": 50},
				OutsourcingCost:     map[string]float64{"widget": 14},
			},
			ServiceTargets: map[string]float64{"widget": 0.95},
			CarbonCap:      1500,
			CashOnHand:     10000,
		},
		StartedAt: time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC),
	}
	if err := store.PutRound(ctx, round); err != nil {
		t.Fatalf("put round: %v", err)
	}

	got, err := store.GetRound(ctx, "team-1-1")
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if got.Seed != 42424 || got.Number != 1 || got.Status != storage.RoundStatusOpen {
		t.Fatalf("got %+v", got)
	}
	if got.Constraints.ForecastRange["widget"] != [2]int{80, 120} {
		t.Fatalf("got forecast %v, want [80 120]", got.Constraints.ForecastRange["widget"])
	}
	if got.Constraints.CashOnHand != 10000 {
		t.Fatalf("got cash %v, want 10000", got.Constraints.CashOnHand)
	}
	if !got.StartedAt.Equal(round.StartedAt) {
		t.Fatalf("got started_at %v, want %v", got.StartedAt, round.StartedAt)
	}
}

func TestSetRoundStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedTeam(t, store, "team-1", "AB12")
	round := storage.Round{
		ID:        "team-1-1",
		TeamID:    "team-1",
		Number:    1,
		Seed:      42424,
		Status:    storage.RoundStatusOpen,
		StartedAt: time.Now().UTC(),
	}
	if err := store.PutRound(ctx, round); err != nil {
		t.Fatalf("put round: %v", err)
	}

	if err := store.SetRoundStatus(ctx, "team-1-1", storage.RoundStatusLock); err != nil {
		t.Fatalf("set round status: %v", err)
	}
	got, err := store.GetRound(ctx, "team-1-1")
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if got.Status != storage.RoundStatusLock {
		t.Fatalf("got status %q, want lock", got.Status)
	}

	err = store.SetRoundStatus(ctx, "missing", storage.RoundStatusLock)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDecisionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedTeam(t, store, "team-1", "AB12")
	seedUser(t, store, "user-1")
	round := storage.Round{
		ID:        "team-1-1",
		TeamID:    "team-1",
		Number:    1,
		Seed:      42424,
		Status:    storage.RoundStatusOpen,
		StartedAt: time.Now().UTC(),
	}
	if err := store.PutRound(ctx, round); err != nil {
		t.Fatalf("put round: %v", err)
	}

	record := storage.DecisionRecord{
		ID:      "decision-1",
		RoundID: "team-1-1",
		TeamID:  "team-1",
		UserID:  "user-1",
		Payload: engine.Decision{
			TeamID: "team-1",
			Round:  1,
			Seed:   42424,
			Plants: []engine.PlantDecision{{
				PlantID:       "plantA",
				ProductionQty: map[string]int{"widget": 90},
				OvertimeHours: 4,
			}},
		},
		Status:    "submitted",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.PutDecision(ctx, record); err != nil {
		t.Fatalf("put decision: %v", err)
	}

	decisions, err := store.ListDecisions(ctx)
	if err != nil {
		t.Fatalf("list decisions: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("got %d decisions, want 1", len(decisions))
	}
	got := decisions[0]
	if got.ID != "decision-1" || got.UserID != "user-1" {
		t.Fatalf("got %+v", got)
	}
	if len(got.Payload.Plants) != 1 || got.Payload.Plants[0].ProductionQty["widget"] != 90 {
		t.Fatalf("got payload %+v", got.Payload)
	}
}

func TestResultRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedTeam(t, store, "team-1", "AB12")
	round := storage.Round{
		ID:        "team-1-1",
		TeamID:    "team-1",
		Number:    1,
		Seed:      42424,
		Status:    storage.RoundStatusOpen,
		StartedAt: time.Now().UTC(),
	}
	if err := store.PutRound(ctx, round); err != nil {
		t.Fatalf("put round: %v", err)
	}

	record := storage.ResultRecord{
		ID:      "result-1",
		RoundID: "team-1-1",
		TeamID:  "team-1",
		Payload: engine.Result{
			TeamID:   "team-1",
			Round:    1,
			Feasible: true,
			KPIs: engine.KPIs{
				Profit:       976,
				ServiceLevel: map[string]float64{"widget": 0.9, "overall": 0.9},
				Stockouts:    map[string]int{"widget": 10},
				WIP:          120,
				Emissions:    950,
				Reputation:   90,
			},
			NextStateSeed: 55555,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := store.PutResult(ctx, record); err != nil {
		t.Fatalf("put result: %v", err)
	}

	got, err := store.GetResultByRound(ctx, "team-1-1")
	if err != nil {
		t.Fatalf("get result by round: %v", err)
	}
	if got.Payload.KPIs.Profit != 976 {
		t.Fatalf("got profit %v, want 976", got.Payload.KPIs.Profit)
	}
	if got.Payload.NextStateSeed != 55555 {
		t.Fatalf("got next seed %d, want 55555", got.Payload.NextStateSeed)
	}

	results, err := store.ListResults(ctx)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestGetResultByRoundReturnsLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedTeam(t, store, "team-1", "AB12")
	round := storage.Round{
		ID:        "team-1-1",
		TeamID:    "team-1",
		Number:    1,
		Seed:      42424,
		Status:    storage.RoundStatusOpen,
		StartedAt: time.Now().UTC(),
	}
	if err := store.PutRound(ctx, round); err != nil {
		t.Fatalf("put round: %v", err)
	}

	base := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"result-1", "result-2"} {
		record := storage.ResultRecord{
			ID:      id,
			RoundID: "team-1-1",
			TeamID:  "team-1",
			Payload: engine.Result{
				TeamID: "team-1",
				Round:  1,
				KPIs:   engine.KPIs{Profit: float64(100 * (i + 1))},
			},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.PutResult(ctx, record); err != nil {
			t.Fatalf("put result %s: %v", id, err)
		}
	}

	got, err := store.GetResultByRound(ctx, "team-1-1")
	if err != nil {
		t.Fatalf("get result by round: %v", err)
	}
	if got.ID != "result-2" {
		t.Fatalf("got %q, want result-2", got.ID)
	}
}
