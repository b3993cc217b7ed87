package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adyatma/scorewire/internal/domain/league"
	"github.com/adyatma/scorewire/internal/domain/match"
	"github.com/adyatma/scorewire/internal/domain/team"
	"github.com/adyatma/scorewire/internal/platform/logging"
)

type recordingStandings struct {
	liveScores []match.Match
	finalized  []match.Match
	removed    []match.Match
}

func (s *recordingStandings) ApplyLiveScore(_ context.Context, m match.Match) error {
	s.liveScores = append(s.liveScores, m)
	return nil
}

func (s *recordingStandings) ApplyFinalizedMatch(_ context.Context, m match.Match) error {
	s.finalized = append(s.finalized, m)
	return nil
}

func (s *recordingStandings) RemoveLiveOverlay(_ context.Context, m match.Match) error {
	s.removed = append(s.removed, m)
	return nil
}

type matchFixture struct {
	service   *MatchService
	matchRepo *stubMatchRepository
	standings *recordingStandings
}

func newMatchFixture() *matchFixture {
	leagueRepo := &stubLeagueRepository{
		byID: map[string]league.League{
			testLeagueID: {ID: testLeagueID, Name: "Premier League", CountryCode: "GB", CurrentSeason: testSeason},
		},
	}
	teamRepo := &stubTeamRepository{
		byLeague: map[string][]team.Team{
			testLeagueID: {
				{ID: "team-x", LeagueID: testLeagueID, Name: "team-x"},
				{ID: "team-y", LeagueID: testLeagueID, Name: "team-y"},
			},
		},
	}
	matchRepo := newStubMatchRepository()
	standings := &recordingStandings{}

	service := NewMatchService(leagueRepo, teamRepo, matchRepo, standings, &stubIDGenerator{}, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 4, 18, 17, 0, 0, 0, time.UTC) }

	return &matchFixture{service: service, matchRepo: matchRepo, standings: standings}
}

func (f *matchFixture) seed(t *testing.T, m match.Match) match.Match {
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

func TestMatchService_Create(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()

	created, err := f.service.Create(context.Background(), CreateMatchInput{
		LeagueID:   testLeagueID,
		HomeTeamID: "team-x",
		AwayTeamID: "team-y",
		KickoffAt:  time.Date(2026, 4, 25, 15, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Status != match.StatusNotStarted {
		t.Fatalf("expected NOT_STARTED, got %s", created.Status)
	}
	if created.Season != testSeason {
		t.Fatalf("expected season defaulted to %s, got %s", testSeason, created.Season)
	}

	stored, ok, err := f.matchRepo.GetByID(context.Background(), created.ID)
	if err != nil || !ok {
		t.Fatalf("match not persisted: ok=%v err=%v", ok, err)
	}
	if stored.HomeTeamID != "team-x" || stored.AwayTeamID != "team-y" {
		t.Fatalf("unexpected stored match: %+v", stored)
	}
}

func TestMatchService_Create_UnknownTeam(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()

	_, err := f.service.Create(context.Background(), CreateMatchInput{
		LeagueID:   testLeagueID,
		HomeTeamID: "team-x",
		AwayTeamID: "team-unknown",
		KickoffAt:  time.Date(2026, 4, 25, 15, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMatchService_RecordEvent_GoalBumpsScoreAndPushesLive(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()
	f.seed(t, match.Match{ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive})

	event, updated, err := f.service.RecordEvent(context.Background(), "m1", RecordEventInput{
		TeamID: "team-x", Type: "goal", Minute: 23, PlayerName: "Nine",
	})
	if err != nil {
		t.Fatalf("record event: %v", err)
	}

	if event.Type != match.EventGoal || event.Minute != 23 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if updated.HomeScore != 1 || updated.AwayScore != 0 {
		t.Fatalf("expected 1-0, got %d-%d", updated.HomeScore, updated.AwayScore)
	}
	if len(f.standings.liveScores) != 1 || f.standings.liveScores[0].HomeScore != 1 {
		t.Fatalf("live standings not updated: %+v", f.standings.liveScores)
	}

	events, err := f.matchRepo.ListEvents(context.Background(), "m1")
	if err != nil || len(events) != 1 {
		t.Fatalf("event not persisted: %v %d", err, len(events))
	}
}

func TestMatchService_RecordEvent_OwnGoalCreditsOpponent(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()
	f.seed(t, match.Match{ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive})

	_, updated, err := f.service.RecordEvent(context.Background(), "m1", RecordEventInput{
		TeamID: "team-x", Type: match.EventOwnGoal, Minute: 55,
	})
	if err != nil {
		t.Fatalf("record event: %v", err)
	}

	if updated.HomeScore != 0 || updated.AwayScore != 1 {
		t.Fatalf("own goal by home side must credit away, got %d-%d", updated.HomeScore, updated.AwayScore)
	}
}

func TestMatchService_RecordEvent_CardDoesNotTouchStandings(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()
	f.seed(t, match.Match{ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive})

	_, updated, err := f.service.RecordEvent(context.Background(), "m1", RecordEventInput{
		TeamID: "team-y", Type: match.EventYellowCard, Minute: 71, PlayerName: "Five",
	})
	if err != nil {
		t.Fatalf("record event: %v", err)
	}

	if updated.HomeScore != 0 || updated.AwayScore != 0 {
		t.Fatalf("card changed the score: %d-%d", updated.HomeScore, updated.AwayScore)
	}
	if len(f.standings.liveScores) != 0 {
		t.Fatalf("card triggered a standings update: %+v", f.standings.liveScores)
	}
}

func TestMatchService_RecordEvent_RejectsNotInPlay(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()
	f.seed(t, match.Match{ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusNotStarted})

	_, _, err := f.service.RecordEvent(context.Background(), "m1", RecordEventInput{
		TeamID: "team-x", Type: match.EventGoal, Minute: 1,
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestMatchService_RecordEvent_RejectsForeignTeam(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()
	f.seed(t, match.Match{ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusLive})

	_, _, err := f.service.RecordEvent(context.Background(), "m1", RecordEventInput{
		TeamID: "team-z", Type: match.EventGoal, Minute: 1,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestMatchService_TransitionStatus_KickoffSeedsLiveOverlay(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()
	f.seed(t, match.Match{ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusNotStarted})

	updated, err := f.service.TransitionStatus(context.Background(), "m1", match.StatusLive)
	if err != nil {
		t.Fatalf("transition to live: %v", err)
	}

	if updated.Status != match.StatusLive {
		t.Fatalf("expected LIVE, got %s", updated.Status)
	}
	if len(f.standings.liveScores) != 1 {
		t.Fatalf("kickoff must seed a live overlay, got %d calls", len(f.standings.liveScores))
	}
}

func TestMatchService_TransitionStatus_HalftimeResumeSkipsOverlay(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()
	f.seed(t, match.Match{ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusHalftime})

	if _, err := f.service.TransitionStatus(context.Background(), "m1", match.StatusLive); err != nil {
		t.Fatalf("resume: %v", err)
	}

	// The overlay already exists from kickoff; resuming must not reapply it.
	if len(f.standings.liveScores) != 0 {
		t.Fatalf("resume reapplied the overlay: %d calls", len(f.standings.liveScores))
	}
}

func TestMatchService_TransitionStatus_EndedFinalizesOnce(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()
	f.seed(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y",
		HomeScore: 2, AwayScore: 1, Status: match.StatusLive,
	})

	updated, err := f.service.TransitionStatus(context.Background(), "m1", match.StatusEnded)
	if err != nil {
		t.Fatalf("transition to ended: %v", err)
	}
	if updated.FinishedAt == nil {
		t.Fatal("expected FinishedAt to be set")
	}
	if len(f.standings.finalized) != 1 {
		t.Fatalf("expected one finalize call, got %d", len(f.standings.finalized))
	}

	// ENDED is terminal, so a second finalize attempt must be rejected.
	_, err = f.service.TransitionStatus(context.Background(), "m1", match.StatusEnded)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state on repeat finalize, got %v", err)
	}
	if len(f.standings.finalized) != 1 {
		t.Fatalf("match finalized twice: %d calls", len(f.standings.finalized))
	}
}

func TestMatchService_TransitionStatus_CancelMidPlayRemovesOverlay(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()
	f.seed(t, match.Match{
		ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y",
		HomeScore: 1, AwayScore: 0, Status: match.StatusLive,
	})

	if _, err := f.service.TransitionStatus(context.Background(), "m1", match.StatusCanceled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if len(f.standings.removed) != 1 {
		t.Fatalf("expected overlay removal, got %d calls", len(f.standings.removed))
	}
	if len(f.standings.finalized) != 0 {
		t.Fatal("canceled match must not finalize")
	}
}

func TestMatchService_TransitionStatus_RejectsUnknownAndIllegal(t *testing.T) {
	t.Parallel()

	f := newMatchFixture()
	f.seed(t, match.Match{ID: "m1", HomeTeamID: "team-x", AwayTeamID: "team-y", Status: match.StatusNotStarted})

	if _, err := f.service.TransitionStatus(context.Background(), "m1", "ABANDONED"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown status, got %v", err)
	}
	if _, err := f.service.TransitionStatus(context.Background(), "m1", match.StatusEnded); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state for NOT_STARTED to ENDED, got %v", err)
	}
}
