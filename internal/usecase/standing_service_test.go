package usecase

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/adyatma/scorewire/internal/domain/league"
	"github.com/adyatma/scorewire/internal/domain/match"
	"github.com/adyatma/scorewire/internal/domain/standing"
	"github.com/adyatma/scorewire/internal/domain/team"
	"github.com/adyatma/scorewire/internal/platform/logging"
)

const (
	testLeagueID = "premier-league"
	testSeason   = "2025/2026"
)

type standingFixture struct {
	service      *StandingService
	leagueRepo   *stubLeagueRepository
	teamRepo     *stubTeamRepository
	matchRepo    *stubMatchRepository
	standingRepo *stubStandingRepository
	publisher    *stubPublisher
}

func newStandingFixture(teamIDs ...string) *standingFixture {
	leagueRepo := &stubLeagueRepository{
		byID: map[string]league.League{
			testLeagueID: {ID: testLeagueID, Name: "Premier League", CountryCode: "GB", CurrentSeason: testSeason},
		},
	}

	teams := make([]team.Team, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		teams = append(teams, team.Team{ID: teamID, LeagueID: testLeagueID, Name: teamID})
	}
	teamRepo := &stubTeamRepository{byLeague: map[string][]team.Team{testLeagueID: teams}}

	matchRepo := newStubMatchRepository()
	standingRepo := newStubStandingRepository()
	publisher := &stubPublisher{}

	service := NewStandingService(leagueRepo, teamRepo, matchRepo, standingRepo, nil, publisher, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 4, 18, 16, 0, 0, 0, time.UTC) }

	return &standingFixture{
		service:      service,
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		publisher:    publisher,
	}
}

func (f *standingFixture) addMatch(t *testing.T, m match.Match) match.Match {
	t.Helper()
	m.LeagueID = testLeagueID
	m.Season = testSeason
	if m.KickoffAt.IsZero() {
		m.KickoffAt = time.Date(2026, 4, 18, 15, 0, 0, 0, time.UTC)
	}
	if err := f.matchRepo.Create(context.Background(), m); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return m
}

func (f *standingFixture) record(t *testing.T, teamID string) standing.Record {
	t.Helper()
	rec, ok, err := f.standingRepo.Get(context.Background(), testLeagueID, testSeason, teamID)
	if err != nil {
		t.Fatalf("get record for %s: %v", teamID, err)
	}
	if !ok {
		t.Fatalf("no record for %s", teamID)
	}
	return rec
}

func TestStandingService_Recalculate_HomeWin(t *testing.T) {
	t.Parallel()

	f := newStandingFixture("team-x", "team-y")
	f.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y",
		HomeScore: 2, AwayScore: 1, Status: match.StatusEnded,
	})

	records, err := f.service.Recalculate(context.Background(), testLeagueID, testSeason)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	x := f.record(t, "team-x")
	if x.Played != 1 || x.Won != 1 || x.Points != 3 || x.GoalsFor != 2 || x.GoalsAgainst != 1 {
		t.Fatalf("unexpected winner record: %+v", x)
	}
	if x.Form != "W" || x.Position != 1 {
		t.Fatalf("expected form W at position 1, got form=%s position=%d", x.Form, x.Position)
	}

	y := f.record(t, "team-y")
	if y.Played != 1 || y.Lost != 1 || y.Points != 0 || y.Form != "L" || y.Position != 2 {
		t.Fatalf("unexpected loser record: %+v", y)
	}
}

func TestStandingService_Recalculate_DrawTieBreaksOnGoals(t *testing.T) {
	t.Parallel()

	f := newStandingFixture("team-x", "team-y", "team-z")
	// x and y draw 1-1; z beats nobody. x then beats z 3-2 while y beats z
	// 1-0, leaving x and y on equal points but x ahead on goals scored.
	f.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y",
		HomeScore: 1, AwayScore: 1, Status: match.StatusEnded,
		KickoffAt: time.Date(2026, 4, 11, 15, 0, 0, 0, time.UTC),
	})
	f.addMatch(t, match.Match{
		ID: "m2", HomeTeamID: "team-x", AwayTeamID: "team-z",
		HomeScore: 3, AwayScore: 2, Status: match.StatusEnded,
		KickoffAt: time.Date(2026, 4, 12, 15, 0, 0, 0, time.UTC),
	})
	f.addMatch(t, match.Match{
		ID: "m3", HomeTeamID: "team-y", AwayTeamID: "team-z",
		HomeScore: 1, AwayScore: 0, Status: match.StatusEnded,
		KickoffAt: time.Date(2026, 4, 13, 15, 0, 0, 0, time.UTC),
	})

	if _, err := f.service.Recalculate(context.Background(), testLeagueID, testSeason); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	x := f.record(t, "team-x")
	y := f.record(t, "team-y")
	if x.Points != 4 || y.Points != 4 {
		t.Fatalf("expected both on 4 points, got x=%d y=%d", x.Points, y.Points)
	}
	if x.Drawn != 1 || y.Drawn != 1 {
		t.Fatalf("expected one draw each, got x=%d y=%d", x.Drawn, y.Drawn)
	}
	// Equal points and goal difference; goals scored puts x first.
	if x.GoalDifference() != y.GoalDifference() {
		t.Fatalf("expected equal goal difference, got x=%d y=%d", x.GoalDifference(), y.GoalDifference())
	}
	if x.Position != 1 || y.Position != 2 {
		t.Fatalf("expected x=1 y=2, got x=%d y=%d", x.Position, y.Position)
	}
}

func TestStandingService_Recalculate_Idempotent(t *testing.T) {
	t.Parallel()

	f := newStandingFixture("team-x", "team-y", "team-z")
	f.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y",
		HomeScore: 2, AwayScore: 0, Status: match.StatusEnded,
	})
	f.addMatch(t, match.Match{
		ID: "m2", HomeTeamID: "team-z", AwayTeamID: "team-x",
		HomeScore: 1, AwayScore: 1, Status: match.StatusEnded,
	})

	first, err := f.service.Recalculate(context.Background(), testLeagueID, testSeason)
	if err != nil {
		t.Fatalf("first recalculate: %v", err)
	}
	second, err := f.service.Recalculate(context.Background(), testLeagueID, testSeason)
	if err != nil {
		t.Fatalf("second recalculate: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("record count changed across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !reflect.DeepEqual(first[i], second[i]) {
			t.Fatalf("record %d changed across runs:\nfirst:  %+v\nsecond: %+v", i, first[i], second[i])
		}
	}
}

func TestStandingService_Recalculate_EmptyRosterNotFound(t *testing.T) {
	t.Parallel()

	f := newStandingFixture()

	_, err := f.service.Recalculate(context.Background(), testLeagueID, testSeason)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for empty roster, got %v", err)
	}
}

func TestStandingService_Recalculate_PositionsArePermutation(t *testing.T) {
	t.Parallel()

	f := newStandingFixture("team-a", "team-b", "team-c", "team-d")
	f.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-a", AwayTeamID: "team-b",
		HomeScore: 1, AwayScore: 1, Status: match.StatusEnded,
	})
	f.addMatch(t, match.Match{
		ID: "m2", HomeTeamID: "team-c", AwayTeamID: "team-d",
		HomeScore: 1, AwayScore: 1, Status: match.StatusEnded,
	})

	records, err := f.service.Recalculate(context.Background(), testLeagueID, testSeason)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	seen := make(map[int]bool, len(records))
	for _, rec := range records {
		if rec.Position < 1 || rec.Position > len(records) {
			t.Fatalf("position %d out of range 1..%d", rec.Position, len(records))
		}
		if seen[rec.Position] {
			t.Fatalf("duplicate position %d", rec.Position)
		}
		seen[rec.Position] = true
	}
	// All four drew, so the final tie-break is team id order.
	for _, rec := range records {
		t.Logf("pos=%d team=%s", rec.Position, rec.TeamID)
	}
	if records[0].TeamID != "team-a" || records[3].TeamID != "team-d" {
		t.Fatalf("expected team id tie-break order, got %s..%s", records[0].TeamID, records[3].TeamID)
	}
}

func TestStandingService_FormTruncatesToFive(t *testing.T) {
	t.Parallel()

	f := newStandingFixture("team-x", "team-y")
	// Six finished matches; the oldest is a loss that must age out of form.
	scores := [][2]int{{0, 1}, {2, 0}, {2, 0}, {1, 1}, {3, 1}, {2, 1}}
	for i, score := range scores {
		f.addMatch(t, match.Match{
			ID:         seqMatchID(i),
			HomeTeamID: "team-x", AwayTeamID: "team-y",
			HomeScore: score[0], AwayScore: score[1],
			Status:    match.StatusEnded,
			KickoffAt: time.Date(2026, 3, 1+i, 15, 0, 0, 0, time.UTC),
		})
	}

	if _, err := f.service.Recalculate(context.Background(), testLeagueID, testSeason); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	x := f.record(t, "team-x")
	if len(x.Form) != standing.FormLength {
		t.Fatalf("expected form length %d, got %q", standing.FormLength, x.Form)
	}
	// Newest first: the final 2-1 win leads, the day-one loss is gone.
	if x.Form != "WWDWW" {
		t.Fatalf("unexpected form %q", x.Form)
	}
	if x.Played != x.Won+x.Drawn+x.Lost {
		t.Fatalf("played %d != won+drawn+lost %d", x.Played, x.Won+x.Drawn+x.Lost)
	}
	if x.Points != 3*x.Won+x.Drawn {
		t.Fatalf("points %d != 3*won+drawn %d", x.Points, 3*x.Won+x.Drawn)
	}
}

func TestStandingService_ApplyLiveScore_Reversible(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Path one: apply 1-0 then 1-1.
	stepped := newStandingFixture("team-x", "team-y")
	live := stepped.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive,
	})
	if _, err := stepped.service.Recalculate(ctx, testLeagueID, testSeason); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	live.HomeScore, live.AwayScore = 1, 0
	if err := stepped.service.ApplyLiveScore(ctx, live); err != nil {
		t.Fatalf("apply 1-0: %v", err)
	}

	x := stepped.record(t, "team-x")
	if x.Points != 3 || x.Live == nil || x.Live.Points != 3 {
		t.Fatalf("expected provisional 3 points at 1-0, got %+v", x)
	}

	live.HomeScore, live.AwayScore = 1, 1
	if err := stepped.service.ApplyLiveScore(ctx, live); err != nil {
		t.Fatalf("apply 1-1: %v", err)
	}

	// Path two: apply 1-1 directly.
	direct := newStandingFixture("team-x", "team-y")
	directMatch := direct.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive,
	})
	if _, err := direct.service.Recalculate(ctx, testLeagueID, testSeason); err != nil {
		t.Fatalf("seed table: %v", err)
	}
	directMatch.HomeScore, directMatch.AwayScore = 1, 1
	if err := direct.service.ApplyLiveScore(ctx, directMatch); err != nil {
		t.Fatalf("apply 1-1 directly: %v", err)
	}

	for _, teamID := range []string{"team-x", "team-y"} {
		got := stepped.record(t, teamID)
		want := direct.record(t, teamID)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("stepped and direct live updates diverged for %s:\nstepped: %+v\ndirect:  %+v", teamID, got, want)
		}
	}

	// Provisional updates never touch authoritative counters.
	x = stepped.record(t, "team-x")
	if x.Played != 0 || x.Won != 0 || x.Drawn != 0 || x.Points != 1 {
		t.Fatalf("live update leaked into authoritative counters: %+v", x)
	}
}

func TestStandingService_ApplyLiveScore_RejectsNonLiveMatch(t *testing.T) {
	t.Parallel()

	f := newStandingFixture("team-x", "team-y")
	m := match.Match{
		ID: "m1", LeagueID: testLeagueID, Season: testSeason,
		HomeTeamID: "team-x", AwayTeamID: "team-y",
		HomeScore: 1, AwayScore: 0, Status: match.StatusEnded,
	}

	if err := f.service.ApplyLiveScore(context.Background(), m); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestStandingService_FinalizeAfterLive_CountsOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStandingFixture("team-x", "team-y")
	live := f.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive,
	})
	if _, err := f.service.Recalculate(ctx, testLeagueID, testSeason); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	live.HomeScore, live.AwayScore = 1, 0
	if err := f.service.ApplyLiveScore(ctx, live); err != nil {
		t.Fatalf("apply 1-0: %v", err)
	}
	live.HomeScore, live.AwayScore = 1, 1
	if err := f.service.ApplyLiveScore(ctx, live); err != nil {
		t.Fatalf("apply 1-1: %v", err)
	}

	live.Status = match.StatusEnded
	if err := f.service.ApplyFinalizedMatch(ctx, live); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	for _, teamID := range []string{"team-x", "team-y"} {
		rec := f.record(t, teamID)
		if rec.Live != nil {
			t.Fatalf("overlay survived finalize for %s: %+v", teamID, rec.Live)
		}
		if rec.Played != 1 || rec.Drawn != 1 || rec.Points != 1 {
			t.Fatalf("expected authoritative draw for %s, got %+v", teamID, rec)
		}
		if rec.GoalsFor != 1 || rec.GoalsAgainst != 1 {
			t.Fatalf("goals double counted for %s: %+v", teamID, rec)
		}
		if rec.Form != "D" {
			t.Fatalf("expected form D for %s, got %q", teamID, rec.Form)
		}
	}
}

func TestStandingService_FinalizeWithoutLive_CountsOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStandingFixture("team-x", "team-y")
	m := f.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive,
	})
	if _, err := f.service.Recalculate(ctx, testLeagueID, testSeason); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	// No live updates ever ran; finalize alone must produce the result.
	m.HomeScore, m.AwayScore = 2, 1
	m.Status = match.StatusEnded
	if err := f.service.ApplyFinalizedMatch(ctx, m); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	x := f.record(t, "team-x")
	if x.Played != 1 || x.Won != 1 || x.Points != 3 || x.GoalsFor != 2 || x.GoalsAgainst != 1 {
		t.Fatalf("unexpected record after direct finalize: %+v", x)
	}
}

func TestStandingService_FinalizeRejectsNonEndedMatch(t *testing.T) {
	t.Parallel()

	f := newStandingFixture("team-x", "team-y")
	m := match.Match{
		ID: "m1", LeagueID: testLeagueID, Season: testSeason,
		HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive,
	}

	if err := f.service.ApplyFinalizedMatch(context.Background(), m); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestStandingService_RemoveLiveOverlay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStandingFixture("team-x", "team-y")
	live := f.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive,
	})
	if _, err := f.service.Recalculate(ctx, testLeagueID, testSeason); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	live.HomeScore, live.AwayScore = 2, 0
	if err := f.service.ApplyLiveScore(ctx, live); err != nil {
		t.Fatalf("apply 2-0: %v", err)
	}
	if err := f.service.RemoveLiveOverlay(ctx, live); err != nil {
		t.Fatalf("remove overlay: %v", err)
	}

	for _, teamID := range []string{"team-x", "team-y"} {
		rec := f.record(t, teamID)
		if rec.Live != nil {
			t.Fatalf("overlay still present for %s", teamID)
		}
		if rec.Points != 0 || rec.GoalsFor != 0 || rec.GoalsAgainst != 0 || rec.Played != 0 {
			t.Fatalf("abandoned match left residue for %s: %+v", teamID, rec)
		}
	}
}

func TestStandingService_SaveRetriesOnConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStandingFixture("team-x", "team-y")
	live := f.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y",
		HomeScore: 1, AwayScore: 0, Status: match.StatusLive,
	})

	f.standingRepo.conflictsLeft = 1
	if err := f.service.ApplyLiveScore(ctx, live); err != nil {
		t.Fatalf("expected conflict retry to succeed, got %v", err)
	}

	x := f.record(t, "team-x")
	if x.Live == nil || x.Live.GoalsFor != 1 {
		t.Fatalf("record missing after retried save: %+v", x)
	}
}

func TestStandingService_List_AnnotatesRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStandingFixture("team-x", "team-y", "team-z")
	f.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y",
		HomeScore: 3, AwayScore: 1, Status: match.StatusEnded,
	})
	f.addMatch(t, match.Match{
		ID: "m2", HomeTeamID: "team-y", AwayTeamID: "team-z",
		HomeScore: 0, AwayScore: 0, Status: match.StatusHalftime,
	})
	if _, err := f.service.Recalculate(ctx, testLeagueID, testSeason); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	rows, err := f.service.List(ctx, testLeagueID, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	byTeam := make(map[string]TableRow, len(rows))
	for _, row := range rows {
		byTeam[row.Record.TeamID] = row
	}
	if got := byTeam["team-x"].GoalDifference; got != 2 {
		t.Fatalf("expected goal difference 2 for team-x, got %d", got)
	}
	if byTeam["team-x"].IsLive {
		t.Fatal("team-x has no match in play")
	}
	if !byTeam["team-y"].IsLive || !byTeam["team-z"].IsLive {
		t.Fatal("halftime match teams must read as live")
	}
	if rows[0].Record.Position != 1 {
		t.Fatalf("expected ranked output, first position %d", rows[0].Record.Position)
	}
}

func TestStandingService_List_MasksReadFailure(t *testing.T) {
	t.Parallel()

	f := newStandingFixture("team-x", "team-y")
	f.standingRepo.listErr = errors.New("connection reset")

	rows, err := f.service.List(context.Background(), testLeagueID, testSeason)
	if err != nil {
		t.Fatalf("degraded read must not error, got %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("degraded read must be empty, got %d rows", len(rows))
	}
}

func TestStandingService_List_UnknownLeague(t *testing.T) {
	t.Parallel()

	f := newStandingFixture("team-x")

	_, err := f.service.List(context.Background(), "no-such-league", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStandingService_RecalculateAll(t *testing.T) {
	t.Parallel()

	f := newStandingFixture("team-x", "team-y")
	f.leagueRepo.byID["la-liga"] = league.League{ID: "la-liga", Name: "La Liga", CountryCode: "ES", CurrentSeason: testSeason}
	// la-liga has no roster, so its rebuild fails while the other succeeds.

	result, err := f.service.RecalculateAll(context.Background(), 2)
	if err != nil {
		t.Fatalf("recalculate all: %v", err)
	}

	if result.LeagueCount != 2 || result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, row := range result.Leagues {
		switch row.LeagueID {
		case testLeagueID:
			if row.Status != recalcStatusSuccess || row.Teams != 2 {
				t.Fatalf("unexpected row for %s: %+v", row.LeagueID, row)
			}
		case "la-liga":
			if row.Status != recalcStatusFailed || row.Message == "" {
				t.Fatalf("unexpected row for %s: %+v", row.LeagueID, row)
			}
		}
	}
}

func seqMatchID(i int) string {
	return "m" + string(rune('1'+i))
}

func TestStandingService_ApplyLiveScore_ConcurrentUpdatesOneMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newStandingFixture("team-x", "team-y")
	live := f.addMatch(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive,
	})
	if _, err := f.service.Recalculate(ctx, testLeagueID, testSeason); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	// Hammer the same match with interleaved score updates. Each call
	// replaces the overlay wholesale, so whichever finishes last must
	// leave the record internally consistent.
	var wg sync.WaitGroup
	for i := 1; i <= 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			update := live
			update.HomeScore, update.AwayScore = i%4, i%3
			if err := f.service.ApplyLiveScore(ctx, update); err != nil {
				t.Errorf("apply live score %d-%d: %v", update.HomeScore, update.AwayScore, err)
			}
		}()
	}
	wg.Wait()

	// A final deterministic update settles the scoreline.
	live.HomeScore, live.AwayScore = 3, 1
	if err := f.service.ApplyLiveScore(ctx, live); err != nil {
		t.Fatalf("apply 3-1: %v", err)
	}

	x := f.record(t, "team-x")
	if x.Live == nil || x.Live.GoalsFor != 3 || x.Live.GoalsAgainst != 1 || x.Live.Points != 3 {
		t.Fatalf("expected overlay to match last scoreline 3-1 exactly, got %+v", x.Live)
	}
	if x.GoalsFor != 3 || x.GoalsAgainst != 1 || x.Points != 3 {
		t.Fatalf("expected folded record to match last scoreline 3-1 exactly, got %+v", x)
	}
	y := f.record(t, "team-y")
	if y.Live == nil || y.Live.GoalsFor != 1 || y.Live.GoalsAgainst != 3 || y.Live.Points != 0 {
		t.Fatalf("expected away overlay 1-3, got %+v", y.Live)
	}

	// No amount of overlay churn touches authoritative counters.
	for _, rec := range []standing.Record{x, y} {
		if rec.Played != 0 || rec.Won != 0 || rec.Drawn != 0 || rec.Lost != 0 {
			t.Fatalf("live updates leaked into authoritative counters: %+v", rec)
		}
	}

	// Finalizing after the churn still counts the match exactly once.
	live.Status = match.StatusEnded
	if err := f.service.ApplyFinalizedMatch(ctx, live); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	x = f.record(t, "team-x")
	if x.Live != nil || x.Played != 1 || x.Won != 1 || x.Points != 3 || x.GoalsFor != 3 || x.GoalsAgainst != 1 {
		t.Fatalf("expected one finalized 3-1 win, got %+v", x)
	}
}
